package testsupport

import (
	"context"
	"fmt"
	"sync"

	"trackstrip/internal/media"
)

// Streams builds stream records with the given language tags. An empty code
// produces a stream without tags.
func Streams(codec string, languages ...string) []media.StreamRecord {
	records := make([]media.StreamRecord, 0, len(languages))
	for i, lang := range languages {
		var tags map[string]string
		if lang != "" {
			tags = map[string]string{"language": lang}
		}
		records = append(records, media.NewStreamRecord(i, i, codec, tags))
	}
	return records
}

// MediaFile builds a probed file fixture with one h264 video stream.
func MediaFile(path string, container media.Container, audio, subtitles []string) media.MediaFile {
	return media.MediaFile{
		Path: path,
		Info: media.MediaFileInfo{
			Container:       container,
			AudioStreams:    Streams("aac", audio...),
			VideoStreams:    Streams("h264", ""),
			SubtitleStreams: Streams("subrip", subtitles...),
		},
	}
}

// FakeProber returns canned streams per path and records every call.
type FakeProber struct {
	mu      sync.Mutex
	streams map[string]media.Streams
	failing map[string]error
	calls   []string
}

// NewFakeProber constructs an empty fake. Unknown paths probe as one audio
// stream tagged "und".
func NewFakeProber() *FakeProber {
	return &FakeProber{
		streams: make(map[string]media.Streams),
		failing: make(map[string]error),
	}
}

// Set registers streams for path.
func (p *FakeProber) Set(path string, streams media.Streams) *FakeProber {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.streams[path] = streams
	return p
}

// Fail makes probing path return a wrapped media.ErrProbeFailure.
func (p *FakeProber) Fail(path string) *FakeProber {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failing[path] = fmt.Errorf("%w: ffprobe exited with status 1", media.ErrProbeFailure)
	return p
}

// Probe implements the inventory prober contract.
func (p *FakeProber) Probe(ctx context.Context, path string) (media.Streams, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, path)
	if err := ctx.Err(); err != nil {
		return media.Streams{}, err
	}
	if err, ok := p.failing[path]; ok {
		return media.Streams{}, err
	}
	if streams, ok := p.streams[path]; ok {
		return streams, nil
	}
	return media.Streams{Audio: Streams("aac", "")}, nil
}

// Calls returns the probed paths in call order.
func (p *FakeProber) Calls() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.calls...)
}

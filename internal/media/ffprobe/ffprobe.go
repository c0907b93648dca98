package ffprobe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"trackstrip/internal/media"
)

// Result represents the parsed output from an ffprobe inspection.
type Result struct {
	Streams []Stream `json:"streams"`
}

// Stream describes a single stream in the media container.
type Stream struct {
	Index     int               `json:"index"`
	CodecName string            `json:"codec_name"`
	CodecType string            `json:"codec_type"`
	Tags      map[string]string `json:"tags"`
}

// Runner executes a command and returns its standard output.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

func defaultRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr strings.Builder
	cmd.Stderr = &stderr
	output, err := cmd.Output()
	if err != nil {
		if detail := strings.TrimSpace(stderr.String()); detail != "" {
			return nil, fmt.Errorf("%w: %s", err, detail)
		}
		return nil, err
	}
	return output, nil
}

// Inspect executes ffprobe against path for one stream kind and decodes the JSON response.
func Inspect(ctx context.Context, run Runner, binary string, path string, kind media.StreamKind) (Result, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffprobe"
	}
	if run == nil {
		run = defaultRunner
	}
	if strings.TrimSpace(path) == "" {
		return Result{}, fmt.Errorf("%w: ffprobe inspect: empty path", media.ErrProbeFailure)
	}
	selector := kind.Selector()
	if selector == "" {
		return Result{}, fmt.Errorf("%w: ffprobe inspect: unsupported stream kind %q", media.ErrProbeFailure, kind)
	}

	output, err := run(ctx, binary, "-v", "quiet", "-show_streams", "-select_streams", selector, "-of", "json", "--", path)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return Result{}, fmt.Errorf("%w: ffprobe %s streams timed out: %w", media.ErrProbeFailure, kind, ctx.Err())
		}
		return Result{}, fmt.Errorf("%w: ffprobe %s streams: %w", media.ErrProbeFailure, kind, err)
	}
	return Parse(output)
}

// Parse decodes an ffprobe JSON payload. A payload without a "streams" array is rejected.
func Parse(output []byte) (Result, error) {
	var envelope struct {
		Streams *[]Stream `json:"streams"`
	}
	if err := json.Unmarshal(output, &envelope); err != nil {
		return Result{}, fmt.Errorf("%w: ffprobe parse: %w", media.ErrProbeFailure, err)
	}
	if envelope.Streams == nil {
		return Result{}, fmt.Errorf("%w: ffprobe parse: missing streams array", media.ErrProbeFailure)
	}
	return Result{Streams: *envelope.Streams}, nil
}

// Records converts the entries into stream records. Index is assigned by
// position, matching how ffmpeg addresses streams within a kind.
func (r Result) Records() []media.StreamRecord {
	if len(r.Streams) == 0 {
		return nil
	}
	records := make([]media.StreamRecord, 0, len(r.Streams))
	for i, stream := range r.Streams {
		records = append(records, media.NewStreamRecord(i, stream.Index, stream.CodecName, stream.Tags))
	}
	return records
}

// Prober runs ffprobe once per stream kind.
type Prober struct {
	Binary  string
	Timeout time.Duration
	run     Runner
}

// NewProber builds a prober for the given binary. A zero timeout disables the deadline.
func NewProber(binary string, timeout time.Duration) *Prober {
	return &Prober{Binary: binary, Timeout: timeout, run: defaultRunner}
}

// WithRunner swaps the command runner, for tests.
func (p *Prober) WithRunner(run Runner) *Prober {
	if p != nil && run != nil {
		p.run = run
	}
	return p
}

// Probe returns the audio, video and subtitle streams of path.
func (p *Prober) Probe(ctx context.Context, path string) (media.Streams, error) {
	if p == nil {
		return media.Streams{}, fmt.Errorf("%w: prober not initialized", media.ErrProbeFailure)
	}
	var streams media.Streams
	for _, kind := range []media.StreamKind{media.KindAudio, media.KindVideo, media.KindSubtitle} {
		result, err := p.inspect(ctx, path, kind)
		if err != nil {
			return media.Streams{}, err
		}
		switch kind {
		case media.KindAudio:
			streams.Audio = result.Records()
		case media.KindVideo:
			streams.Video = result.Records()
		case media.KindSubtitle:
			streams.Subtitle = result.Records()
		}
	}
	return streams, nil
}

func (p *Prober) inspect(ctx context.Context, path string, kind media.StreamKind) (Result, error) {
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}
	return Inspect(ctx, p.run, p.Binary, path, kind)
}

package media

import (
	"fmt"
	"slices"
)

// MediaFileInfo is the per-file probe result.
type MediaFileInfo struct {
	Container       Container
	AudioStreams    []StreamRecord
	VideoStreams    []StreamRecord
	SubtitleStreams []StreamRecord
}

// NewMediaFileInfo validates the container and copies the stream groups.
// Unknown containers are never probed, so they must not carry streams.
func NewMediaFileInfo(container Container, streams Streams) (MediaFileInfo, error) {
	switch container {
	case ContainerUnknown:
		if !streams.Empty() {
			return MediaFileInfo{}, fmt.Errorf("%w: unknown container cannot carry streams", ErrInvalidContainer)
		}
		return MediaFileInfo{Container: ContainerUnknown}, nil
	case ContainerMKV, ContainerMP4, ContainerAVI:
	default:
		return MediaFileInfo{}, fmt.Errorf("%w: %d", ErrInvalidContainer, int(container))
	}
	return MediaFileInfo{
		Container:       container,
		AudioStreams:    slices.Clone(streams.Audio),
		VideoStreams:    slices.Clone(streams.Video),
		SubtitleStreams: slices.Clone(streams.Subtitle),
	}, nil
}

// Streams regroups the info's records.
func (i MediaFileInfo) Streams() Streams {
	return Streams{Audio: i.AudioStreams, Video: i.VideoStreams, Subtitle: i.SubtitleStreams}
}

// MediaFile pairs a discovered path with its probe result.
type MediaFile struct {
	Path string
	Info MediaFileInfo
}

// Equal compares path and stream contents. Nil and empty groups are equal.
func (f MediaFile) Equal(other MediaFile) bool {
	return f.Path == other.Path &&
		f.Info.Container == other.Info.Container &&
		equalRecords(f.Info.AudioStreams, other.Info.AudioStreams) &&
		equalRecords(f.Info.VideoStreams, other.Info.VideoStreams) &&
		equalRecords(f.Info.SubtitleStreams, other.Info.SubtitleStreams)
}

// EqualFiles compares two inventories element-wise.
func EqualFiles(a, b []MediaFile) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

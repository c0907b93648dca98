package inventory

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/afero"

	"trackstrip/internal/media"
)

// Prober returns the audio, video and subtitle streams of one file.
type Prober interface {
	Probe(ctx context.Context, path string) (media.Streams, error)
}

// Inspect builds the MediaFileInfo for path. Paths without an extension fail
// with media.ErrContainerUndetected, missing paths with media.ErrMediaNotFound.
// Unrecognized containers are returned without probing.
func Inspect(ctx context.Context, fsys afero.Fs, prober Prober, path string) (media.MediaFileInfo, error) {
	container, err := media.ContainerFromPath(path)
	if err != nil {
		return media.MediaFileInfo{}, err
	}
	if _, err := fsys.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return media.MediaFileInfo{}, fmt.Errorf("%w: cannot find media in path %q", media.ErrMediaNotFound, path)
		}
		return media.MediaFileInfo{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if !container.Recognized() {
		return media.MediaFileInfo{Container: media.ContainerUnknown}, nil
	}

	streams, err := prober.Probe(ctx, path)
	if err != nil {
		return media.MediaFileInfo{}, err
	}
	return media.NewMediaFileInfo(container, streams)
}

package script

import (
	"fmt"
	"path/filepath"
	"strings"

	"trackstrip/internal/media"
	"trackstrip/internal/selection"
)

// DefaultFFmpeg is the transcoder invoked when no binary is configured.
const DefaultFFmpeg = "ffmpeg"

const cleanedSuffix = ".cleaned"

// OutputPath returns the cleaned output location for file: the final extension
// of the base name is replaced by ".cleaned.<container>". Directory segments are
// left alone. Files with an unrecognized container keep their own extension.
func OutputPath(file media.MediaFile) string {
	dir, base := filepath.Split(file.Path)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	if file.Info.Container.Recognized() {
		ext = file.Info.Container.Extension()
	}
	return dir + stem + cleanedSuffix + ext
}

// BuildCommand returns the ffmpeg argv that copies every stream of file except
// the dropped ones.
func BuildCommand(file media.MediaFile, drops selection.Drops) []string {
	return buildCommand(DefaultFFmpeg, file, drops)
}

func buildCommand(binary string, file media.MediaFile, drops selection.Drops) []string {
	args := make([]string, 0, 8+2*drops.Count())
	args = append(args, binary, "-i", file.Path, "-map", "0")
	for _, idx := range drops.Audio {
		args = append(args, "-map", exclusion(media.KindAudio, idx))
	}
	for _, idx := range drops.Subtitle {
		args = append(args, "-map", exclusion(media.KindSubtitle, idx))
	}
	return append(args, "-c", "copy", OutputPath(file))
}

func exclusion(kind media.StreamKind, idx int) string {
	return fmt.Sprintf("-0:%s:%d", kind.Selector(), idx)
}

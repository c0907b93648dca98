package selection

import (
	"log/slog"

	"trackstrip/internal/language"
	"trackstrip/internal/logging"
	"trackstrip/internal/media"
)

// Drops lists the kind-relative stream indices to remove from a file.
type Drops struct {
	Audio    []int
	Subtitle []int
}

// Empty reports whether nothing is dropped.
func (d Drops) Empty() bool {
	return len(d.Audio) == 0 && len(d.Subtitle) == 0
}

// Count returns the total number of dropped streams.
func (d Drops) Count() int {
	return len(d.Audio) + len(d.Subtitle)
}

// ShouldDrop applies the drop rule to a single stream.
func ShouldDrop(stream media.StreamRecord, allow language.AllowList) bool {
	lang := stream.Language()
	return lang != media.UndefinedLanguage && !allow.Contains(lang)
}

// SelectDrops evaluates the audio and subtitle streams of file independently.
// Indices keep the order of the source stream list.
func SelectDrops(logger *slog.Logger, file media.MediaFile, allow language.AllowList) Drops {
	logger = logging.NewComponentLogger(logger, "selector")
	return Drops{
		Audio:    selectKind(logger, file.Path, media.KindAudio, file.Info.AudioStreams, allow),
		Subtitle: selectKind(logger, file.Path, media.KindSubtitle, file.Info.SubtitleStreams, allow),
	}
}

func selectKind(logger *slog.Logger, path string, kind media.StreamKind, streams []media.StreamRecord, allow language.AllowList) []int {
	var drops []int
	for _, stream := range streams {
		if !ShouldDrop(stream, allow) {
			continue
		}
		logger.Info("drop stream",
			logging.String(logging.FieldPath, path),
			logging.String(logging.FieldStreamKind, string(kind)),
			logging.Int(logging.FieldStreamIndex, stream.Index),
			logging.String("codec", stream.CodecName),
			logging.String("language", stream.Language()),
		)
		drops = append(drops, stream.Index)
	}
	return drops
}

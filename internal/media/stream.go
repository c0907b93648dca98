package media

import "maps"

// UndefinedLanguage is the language assigned to streams without a language tag.
const UndefinedLanguage = "und"

// StreamKind names the three stream groups the prober is asked for.
type StreamKind string

const (
	KindAudio    StreamKind = "audio"
	KindVideo    StreamKind = "video"
	KindSubtitle StreamKind = "subtitle"
)

// Selector returns the ffprobe/ffmpeg stream specifier letter for the kind.
func (k StreamKind) Selector() string {
	switch k {
	case KindAudio:
		return "a"
	case KindVideo:
		return "v"
	case KindSubtitle:
		return "s"
	default:
		return ""
	}
}

// StreamRecord describes one stream. Index is the position within the stream's
// kind (the N in ffmpeg's 0:a:N); StreamIndex is ffprobe's container-wide index.
type StreamRecord struct {
	Index       int
	StreamIndex int
	CodecName   string
	Tags        map[string]string
}

// NewStreamRecord copies tags so the record cannot be mutated through the caller's map.
func NewStreamRecord(index, streamIndex int, codec string, tags map[string]string) StreamRecord {
	var copied map[string]string
	if len(tags) > 0 {
		copied = maps.Clone(tags)
	}
	return StreamRecord{
		Index:       index,
		StreamIndex: streamIndex,
		CodecName:   codec,
		Tags:        copied,
	}
}

// Language returns the literal value of the "language" tag, or "und" when the
// tag is absent. A present but empty tag is returned as-is.
func (s StreamRecord) Language() string {
	value, ok := s.Tags["language"]
	if !ok {
		return UndefinedLanguage
	}
	return value
}

// Equal compares two records, treating nil and empty tag maps alike.
func (s StreamRecord) Equal(other StreamRecord) bool {
	return s.Index == other.Index &&
		s.StreamIndex == other.StreamIndex &&
		s.CodecName == other.CodecName &&
		maps.Equal(s.Tags, other.Tags)
}

// Streams groups probe results by kind.
type Streams struct {
	Audio    []StreamRecord
	Video    []StreamRecord
	Subtitle []StreamRecord
}

// Kind returns the records for the given kind.
func (s Streams) Kind(kind StreamKind) []StreamRecord {
	switch kind {
	case KindAudio:
		return s.Audio
	case KindVideo:
		return s.Video
	case KindSubtitle:
		return s.Subtitle
	default:
		return nil
	}
}

// Empty reports whether no streams of any kind are present.
func (s Streams) Empty() bool {
	return len(s.Audio) == 0 && len(s.Video) == 0 && len(s.Subtitle) == 0
}

func equalRecords(a, b []StreamRecord) bool {
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

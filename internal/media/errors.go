package media

import "errors"

var (
	// ErrContainerUndetected marks paths whose base name carries no extension.
	ErrContainerUndetected = errors.New("container undetected")
	// ErrMediaNotFound marks paths that do not exist on disk.
	ErrMediaNotFound = errors.New("media not found")
	// ErrProbeFailure marks ffprobe exits, timeouts and unparseable output.
	ErrProbeFailure = errors.New("probe failure")
	// ErrCacheCorrupt marks inventory snapshots that cannot be read back.
	ErrCacheCorrupt = errors.New("cache corrupt")
	// ErrInvalidContainer marks container values outside mkv, mp4, avi and unknown.
	ErrInvalidContainer = errors.New("invalid container")
)

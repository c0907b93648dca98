package media

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Container identifies the media wrapper format of a file.
type Container int

const (
	ContainerUnknown Container = iota
	ContainerMKV
	ContainerMP4
	ContainerAVI
)

// RecognizedContainers lists the probed containers in enumeration order.
var RecognizedContainers = []Container{ContainerMKV, ContainerMP4, ContainerAVI}

func (c Container) String() string {
	switch c {
	case ContainerMKV:
		return "mkv"
	case ContainerMP4:
		return "mp4"
	case ContainerAVI:
		return "avi"
	default:
		return "unknown"
	}
}

// Extension returns the lowercase file extension including the leading dot,
// or an empty string for ContainerUnknown.
func (c Container) Extension() string {
	if !c.Recognized() {
		return ""
	}
	return "." + c.String()
}

// Recognized reports whether the container is one the prober inspects.
func (c Container) Recognized() bool {
	switch c {
	case ContainerMKV, ContainerMP4, ContainerAVI:
		return true
	default:
		return false
	}
}

// ParseContainer converts a stored container name back to its enum value.
func ParseContainer(value string) (Container, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "mkv":
		return ContainerMKV, nil
	case "mp4":
		return ContainerMP4, nil
	case "avi":
		return ContainerAVI, nil
	case "unknown":
		return ContainerUnknown, nil
	default:
		return ContainerUnknown, fmt.Errorf("%w: %q", ErrInvalidContainer, value)
	}
}

// ContainerFromPath infers the container from the final extension of path.
// Unrecognized extensions yield ContainerUnknown; a base name without any
// extension is an error.
func ContainerFromPath(path string) (Container, error) {
	ext := filepath.Ext(path)
	if ext == "" || ext == "." {
		return ContainerUnknown, fmt.Errorf("%w: cannot detect a container in path %q", ErrContainerUndetected, path)
	}
	container, err := ParseContainer(strings.TrimPrefix(ext, "."))
	if err != nil || container == ContainerUnknown {
		return ContainerUnknown, nil
	}
	return container, nil
}

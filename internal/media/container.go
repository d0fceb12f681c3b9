package media

import (
	"path/filepath"
	"strings"
)

// Container identifies the container family a file belongs to, derived from
// its extension.
type Container int

const (
	ContainerUnsupported Container = iota
	ContainerMKV
	ContainerMP4
)

func (c Container) String() string {
	switch c {
	case ContainerMKV:
		return "mkv"
	case ContainerMP4:
		return "mp4"
	default:
		return "unsupported"
	}
}

// Classify maps a path to its container family. MP4 covers the .mp4, .m4v,
// and .mp4v spellings.
func Classify(path string) Container {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mkv":
		return ContainerMKV
	case ".mp4", ".m4v", ".mp4v":
		return ContainerMP4
	default:
		return ContainerUnsupported
	}
}

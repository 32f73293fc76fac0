package svgcache

import (
	"io/fs"
	"os"
	"strings"
)

// Loader reads the content of SVG sources.
type Loader interface {
	LoadFile(path string) ([]byte, error)
}

// FSLoader loads sources from a file system. Leading slashes are ignored,
// so that absolute document paths resolve from the root of FS.
type FSLoader struct {
	FS fs.FS
}

func (l FSLoader) LoadFile(path string) ([]byte, error) {
	return fs.ReadFile(l.FS, strings.TrimLeft(path, "/"))
}

// OSLoader loads sources from the operating system file system.
type OSLoader struct{}

func (OSLoader) LoadFile(path string) ([]byte, error) { return os.ReadFile(path) }

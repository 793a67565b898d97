// Package resource resolves sound names to byte sources.
//
// A Bundle is a location holding sound files: a directory, an embedded
// filesystem, a sqlite sound pack, or an ordered search over several of
// those. Names may omit the extension, in which case every supported
// extension is tried in order.
package resource

import (
	"fmt"
	"io"
	"io/fs"
	"path"
	"slices"
	"strings"
)

// ErrNotFound is returned when a name is not present in a bundle.
// It also matches fs.ErrNotExist.
var ErrNotFound = fmt.Errorf("sound not found: %w", fs.ErrNotExist)

// Extensions lists the sound file extensions tried, in order, for names
// given without one.
var Extensions = []string{".wav", ".mp3", ".m4a", ".ogg", ".opus", ".flac"}

// Bundle is a location sounds are loaded from.
// Implementations are pointer types so bundles can be compared.
type Bundle interface {
	// Open returns the bytes of the named sound. A missing name yields an
	// error matching ErrNotFound.
	Open(name string) (io.ReadCloser, error)
	// String describes the bundle for diagnostics.
	String() string
}

// Entry describes one sound available in a bundle.
type Entry struct {
	Name string
	Size int64
}

// Lister is implemented by bundles that can enumerate their sounds.
type Lister interface {
	List() ([]Entry, error)
}

// IsSound reports whether name has a supported sound extension.
func IsSound(name string) bool {
	return slices.Contains(Extensions, strings.ToLower(path.Ext(name)))
}

// ReadAll returns the full contents of the named sound.
func ReadAll(b Bundle, name string) ([]byte, error) {
	if b == nil {
		return nil, fmt.Errorf("%s: no bundle: %w", name, ErrNotFound)
	}
	rc, err := b.Open(name)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// candidates returns the names tried when resolving name.
func candidates(name string) []string {
	if path.Ext(name) != "" {
		return []string{name}
	}
	out := make([]string, 0, len(Extensions)+1)
	out = append(out, name)
	for _, ext := range Extensions {
		out = append(out, name+ext)
	}
	return out
}

func notFound(name string, b Bundle) error {
	return fmt.Errorf("%s in %s: %w", name, b, ErrNotFound)
}

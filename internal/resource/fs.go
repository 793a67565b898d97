package resource

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"sort"
)

// FSBundle serves sounds from an fs.FS, typically an embed.FS or a
// directory on disk.
type FSBundle struct {
	fsys  fs.FS
	label string
}

// FS returns a bundle reading from fsys. label identifies it in diagnostics.
func FS(fsys fs.FS, label string) *FSBundle {
	return &FSBundle{fsys: fsys, label: label}
}

// Dir returns a bundle reading from the directory at path.
func Dir(path string) *FSBundle {
	return &FSBundle{fsys: os.DirFS(path), label: path}
}

// Open implements Bundle.
func (b *FSBundle) Open(name string) (io.ReadCloser, error) {
	for _, c := range candidates(name) {
		if !fs.ValidPath(c) {
			continue
		}
		f, err := b.fsys.Open(c)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, err
		}
		if st, err := f.Stat(); err == nil && st.IsDir() {
			f.Close()
			continue
		}
		return f, nil
	}
	return nil, notFound(name, b)
}

// List implements Lister. Names are slash-separated paths relative to the
// bundle root, sorted.
func (b *FSBundle) List() ([]Entry, error) {
	var entries []Entry
	err := fs.WalkDir(b.fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !IsSound(p) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		entries = append(entries, Entry{Name: p, Size: info.Size()})
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

func (b *FSBundle) String() string { return b.label }

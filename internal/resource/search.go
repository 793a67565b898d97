package resource

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/adrg/xdg"
)

// SearchBundle tries several bundles in order and returns the first match.
type SearchBundle struct {
	bundles []Bundle
}

// Search returns a bundle searching bundles in order. Nil entries are skipped.
func Search(bundles ...Bundle) *SearchBundle {
	s := &SearchBundle{}
	for _, b := range bundles {
		if b != nil {
			s.bundles = append(s.bundles, b)
		}
	}
	return s
}

// Open implements Bundle.
func (s *SearchBundle) Open(name string) (io.ReadCloser, error) {
	for _, b := range s.bundles {
		rc, err := b.Open(name)
		if err == nil {
			return rc, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}
	return nil, notFound(name, s)
}

// List implements Lister, merging the listable bundles. A name present in
// several bundles is reported once, from the first bundle holding it.
func (s *SearchBundle) List() ([]Entry, error) {
	seen := make(map[string]bool)
	var entries []Entry
	for _, b := range s.bundles {
		l, ok := b.(Lister)
		if !ok {
			continue
		}
		list, err := l.List()
		if err != nil {
			return nil, err
		}
		for _, e := range list {
			if seen[e.Name] {
				continue
			}
			seen[e.Name] = true
			entries = append(entries, e)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

// Bundles returns the searched bundles in order.
func (s *SearchBundle) Bundles() []Bundle { return s.bundles }

func (s *SearchBundle) String() string {
	labels := make([]string, len(s.bundles))
	for i, b := range s.bundles {
		labels[i] = b.String()
	}
	return "[" + strings.Join(labels, ", ") + "]"
}

// DataDirs returns the existing "<app>/sounds" directories under the XDG
// data home and data dirs, most important first.
func DataDirs(app string) []string {
	var dirs []string
	for _, base := range append([]string{xdg.DataHome}, xdg.DataDirs...) {
		dir := filepath.Join(base, app, "sounds")
		if st, err := os.Stat(dir); err == nil && st.IsDir() {
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

// Package library lists the audio files that sit next to an opened track.
package library

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// DefaultExtensions are the file extensions treated as music.
var DefaultExtensions = []string{".mp3", ".wav", ".ogg", ".flac", ".aiff", ".m4a"}

// Filter matches file names by extension, ignoring case.
type Filter struct {
	exts map[string]struct{}
}

// NewFilter builds a filter. Extensions may be given with or without the dot.
// An empty list falls back to DefaultExtensions.
func NewFilter(exts []string) Filter {
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	f := Filter{exts: make(map[string]struct{}, len(exts))}
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		f.exts[e] = struct{}{}
	}
	return f
}

// IsMusic reports whether name has one of the filter's extensions.
func (f Filter) IsMusic(name string) bool {
	_, ok := f.exts[strings.ToLower(filepath.Ext(name))]
	return ok
}

// Extensions returns the sorted extension list.
func (f Filter) Extensions() []string {
	out := make([]string, 0, len(f.exts))
	for e := range f.exts {
		out = append(out, e)
	}
	slices.Sort(out)
	return out
}

// Siblings returns the base names of the music files in path's directory,
// path's own file included, sorted case-insensitively.
func (f Filter) Siblings(path string) ([]string, error) {
	return f.List(filepath.Dir(path))
}

// List returns the base names of the music files directly inside dir.
func (f Filter) List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if !e.Type().IsRegular() || !f.IsMusic(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	SortNames(names)
	return names, nil
}

// SortNames sorts names case-insensitively, breaking ties by byte order so
// the result is stable across runs.
func SortNames(names []string) {
	slices.SortFunc(names, func(a, b string) int {
		if c := strings.Compare(strings.ToLower(a), strings.ToLower(b)); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	})
}

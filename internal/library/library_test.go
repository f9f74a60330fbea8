package library

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), nil, 0o600))
	}
}

func TestSiblings_FiltersAndSorts(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "b.mp3", "A.wav", "c.txt", "d.flac")

	got, err := NewFilter(nil).Siblings(filepath.Join(dir, "b.mp3"))

	require.NoError(t, err)
	assert.Equal(t, []string{"A.wav", "b.mp3", "d.flac"}, got)
}

func TestSiblings_CaseInsensitiveExtensions(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "one.MP3", "two.Flac", "three.OGG", "four.aiff", "five.M4A", "six.wAv", "cover.jpg")

	got, err := NewFilter(nil).List(dir)

	require.NoError(t, err)
	assert.Equal(t, []string{"five.M4A", "four.aiff", "one.MP3", "six.wAv", "three.OGG", "two.Flac"}, got)
}

func TestList_SkipsDirectories(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.mp3")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "album.flac"), 0o755))

	got, err := NewFilter(nil).List(dir)

	require.NoError(t, err)
	assert.Equal(t, []string{"a.mp3"}, got)
}

func TestList_EmptyAndMissing(t *testing.T) {
	got, err := NewFilter(nil).List(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = NewFilter(nil).List(filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSortNames_TiesByteOrder(t *testing.T) {
	names := []string{"b.mp3", "a.mp3", "B.mp3", "A.mp3"}

	SortNames(names)

	assert.Equal(t, []string{"A.mp3", "a.mp3", "B.mp3", "b.mp3"}, names)
}

func TestNewFilter(t *testing.T) {
	tests := []struct {
		name string
		exts []string
		file string
		want bool
	}{
		{"default mp3", nil, "x.mp3", true},
		{"default upper", nil, "x.AIFF", true},
		{"default rejects opus", nil, "x.opus", false},
		{"custom without dot", []string{"opus"}, "x.OPUS", true},
		{"custom replaces defaults", []string{".opus"}, "x.mp3", false},
		{"blank entries ignored", []string{" ", ".ogg"}, "x.ogg", true},
		{"no extension", nil, "mp3", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewFilter(tt.exts).IsMusic(tt.file))
		})
	}
}

func TestFilter_Extensions(t *testing.T) {
	assert.Equal(t,
		[]string{".aiff", ".flac", ".m4a", ".mp3", ".ogg", ".wav"},
		NewFilter(nil).Extensions())
}

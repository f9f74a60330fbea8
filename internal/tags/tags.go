// Package tags reads the title, artist, album and cover art of a music file.
package tags

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/bogem/id3v2/v2"
	"github.com/dhowden/tag"
)

// UnknownArtist is shown when a file carries no artist tag.
const UnknownArtist = "Unknown Artist"

// ErrTagRead wraps every failure to read a file's metadata.
var ErrTagRead = errors.New("tag read failed")

// Info is always safe to display: missing fields hold their defaults.
type Info struct {
	Title   string
	Artist  string
	Album   string
	Artwork image.Image // nil when the file has no usable picture
}

// Defaults returns the Info shown for a file whose tags cannot be read.
func Defaults(path string) Info {
	return Info{
		Title:  filepath.Base(path),
		Artist: UnknownArtist,
	}
}

// Reader extracts Info from files.
type Reader struct {
	maxArtwork uint
}

// NewReader returns a Reader that shrinks artwork to fit in a
// maxArtwork x maxArtwork box. Zero keeps the original size.
func NewReader(maxArtwork int) *Reader {
	return &Reader{maxArtwork: uint(max(maxArtwork, 0))}
}

// Read returns the file's tags. On failure it still returns Defaults(path),
// together with an error wrapping ErrTagRead.
func (r *Reader) Read(path string) (Info, error) {
	info := Defaults(path)
	m, err := readMetadata(path)
	if err != nil {
		return info, fmt.Errorf("%w: %s: %w", ErrTagRead, filepath.Base(path), err)
	}
	if t := strings.TrimSpace(m.title); t != "" {
		info.Title = t
	}
	if a := strings.TrimSpace(m.artist); a != "" {
		info.Artist = a
	}
	info.Album = strings.TrimSpace(m.album)
	if len(m.picture) > 0 {
		info.Artwork = decodeArtwork(m.picture, r.maxArtwork)
	}
	return info, nil
}

type metadata struct {
	title   string
	artist  string
	album   string
	picture []byte
}

func readMetadata(path string) (metadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return metadata{}, err
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		if strings.EqualFold(filepath.Ext(path), ".mp3") {
			// dhowden/tag has issues with some UTF-16 encoded ID3 tags
			return readID3v2(path)
		}
		return metadata{}, err
	}
	md := metadata{
		title:  m.Title(),
		artist: m.Artist(),
		album:  m.Album(),
	}
	if md.artist == "" {
		md.artist = m.AlbumArtist()
	}
	if pic := m.Picture(); pic != nil {
		md.picture = pic.Data
	}
	return md, nil
}

func readID3v2(path string) (metadata, error) {
	t, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return metadata{}, err
	}
	defer t.Close()

	md := metadata{
		title:  t.Title(),
		artist: t.Artist(),
		album:  t.Album(),
	}
	for _, f := range t.GetFrames(t.CommonID("Attached picture")) {
		if pic, ok := f.(id3v2.PictureFrame); ok && len(pic.Picture) > 0 {
			md.picture = pic.Picture
			break
		}
	}
	return md, nil
}

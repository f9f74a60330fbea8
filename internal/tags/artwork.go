package tags

import (
	"bytes"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"github.com/nfnt/resize"
)

// decodeArtwork turns embedded picture bytes into an image no larger than
// maxSize on either side. Undecodable pictures yield nil.
func decodeArtwork(data []byte, maxSize uint) image.Image {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil
	}
	if maxSize == 0 {
		return img
	}
	b := img.Bounds()
	if uint(b.Dx()) <= maxSize && uint(b.Dy()) <= maxSize {
		return img
	}
	return resize.Thumbnail(maxSize, maxSize, img, resize.Lanczos3)
}

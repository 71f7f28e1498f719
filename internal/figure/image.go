package figure

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
)

// Image adapts an image.Image to Figure. It encodes png and jpeg.
type Image struct {
	image.Image
}

// Render encodes the image. opts.Quality applies to jpeg, default 90.
func (i Image) Render(w io.Writer, format string, opts Options) error {
	switch format {
	case "png":
		return png.Encode(w, i.Image)
	case "jpg", "jpeg":
		quality := opts.Quality
		if quality <= 0 {
			quality = 90
		}
		return jpeg.Encode(w, i.Image, &jpeg.Options{Quality: quality})
	default:
		return fmt.Errorf("unsupported image format %q", format)
	}
}

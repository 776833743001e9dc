package contour

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"

	"golang.org/x/image/tiff"
)

// ErrBadExtension is returned for an image format outside jpeg, png
// and tiff.
var ErrBadExtension = errors.New("contour: unsupported image extension")

// jpegQuality matches the typical plotting-library default.
const jpegQuality = 90

// NormalizeExt canonicalizes a user-supplied image extension; an empty
// string becomes jpeg.
func NormalizeExt(ext string) (string, error) {
	switch ext {
	case "", "jpeg", "jpg":
		return "jpeg", nil
	case "png":
		return "png", nil
	case "tiff", "tif":
		return "tiff", nil
	default:
		return "", fmt.Errorf("%w: %q", ErrBadExtension, ext)
	}
}

// WriteImage encodes img to path in the given format. Formats without
// an alpha channel (jpeg) are flattened over bg, or white when bg is
// nil.
func WriteImage(path string, img image.Image, ext string, bg color.Color) error {
	ext, err := NormalizeExt(ext)
	if err != nil {
		return err
	}
	if err = os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("contour: create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("contour: create %s: %w", path, err)
	}

	switch ext {
	case "jpeg":
		if bg == nil {
			bg = color.White
		}
		err = jpeg.Encode(f, Flatten(img, bg), &jpeg.Options{Quality: jpegQuality})
	case "png":
		err = png.Encode(f, img)
	case "tiff":
		err = tiff.Encode(f, img, &tiff.Options{Compression: tiff.Deflate})
	}
	if err != nil {
		f.Close()
		return fmt.Errorf("contour: encode %s: %w", path, err)
	}
	return f.Close()
}

// Flatten composites img over an opaque background.
func Flatten(img image.Image, bg color.Color) *image.RGBA {
	out := image.NewRGBA(img.Bounds())
	draw.Draw(out, out.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	draw.Draw(out, out.Bounds(), img, img.Bounds().Min, draw.Over)
	return out
}

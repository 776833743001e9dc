package series

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"image/jpeg"
	"os"
	"path/filepath"
	"sort"

	"github.com/icza/mjpeg"
	"go.uber.org/zap"
	_ "golang.org/x/image/tiff" // tiff frame decoding
	_ "image/png"               // png frame decoding

	"github.com/celldyn/physigo/contour"
)

// gifFrameDelay is the inter-frame delay in 1/100 s.
const gifFrameDelay = 10

// defaultFramerate matches the upstream movie default.
const defaultFramerate = 12

// MakeGif assembles every *.<iface> frame in dir into an animated GIF
// named <dirname>_<iface>.gif inside dir and returns its path. Frames
// are quantized to the Plan9 palette with Floyd-Steinberg dithering.
func MakeGif(dir, iface string) (string, error) {
	iface, frames, err := frameFiles(dir, iface)
	if err != nil {
		return "", err
	}

	anim := &gif.GIF{}
	for _, frame := range frames {
		img, err := decodeImage(frame)
		if err != nil {
			return "", err
		}
		b := img.Bounds()
		p := image.NewPaletted(b, palette.Plan9)
		draw.FloydSteinberg.Draw(p, b, img, b.Min)
		anim.Image = append(anim.Image, p)
		anim.Delay = append(anim.Delay, gifFrameDelay)
	}

	out := filepath.Join(dir, fmt.Sprintf("%s_%s.gif", filepath.Base(dir), iface))
	f, err := os.Create(out)
	if err != nil {
		return "", fmt.Errorf("series: %w", err)
	}
	if err = gif.EncodeAll(f, anim); err != nil {
		f.Close()
		return "", fmt.Errorf("series: encode %s: %w", out, err)
	}
	if err = f.Close(); err != nil {
		return "", fmt.Errorf("series: %w", err)
	}
	return out, nil
}

// MakeGif assembles the frames rendered for this series; see the
// package-level MakeGif.
func (s *Series) MakeGif(dir, iface string) (string, error) {
	out, err := MakeGif(dir, iface)
	if err != nil {
		return "", err
	}
	s.log.Info("wrote gif", zap.String("file", out))
	return out, nil
}

// MakeMovie assembles every *.<iface> frame in dir into an MJPEG AVI
// named <dirname>_<iface><framerate>.avi inside dir and returns its
// path. Non-jpeg frames are transcoded.
func MakeMovie(dir, iface string, framerate int) (string, error) {
	iface, frames, err := frameFiles(dir, iface)
	if err != nil {
		return "", err
	}
	if framerate <= 0 {
		framerate = defaultFramerate
	}

	first, err := decodeImage(frames[0])
	if err != nil {
		return "", err
	}
	w := int32(first.Bounds().Dx())
	h := int32(first.Bounds().Dy())

	out := filepath.Join(dir, fmt.Sprintf("%s_%s%d.avi", filepath.Base(dir), iface, framerate))
	aw, err := mjpeg.New(out, w, h, int32(framerate))
	if err != nil {
		return "", fmt.Errorf("series: %w", err)
	}
	for _, frame := range frames {
		data, err := jpegFrame(frame, iface)
		if err != nil {
			aw.Close()
			return "", err
		}
		if err = aw.AddFrame(data); err != nil {
			aw.Close()
			return "", fmt.Errorf("series: add frame %s: %w", frame, err)
		}
	}
	if err = aw.Close(); err != nil {
		return "", fmt.Errorf("series: %w", err)
	}
	return out, nil
}

// MakeMovie assembles the frames rendered for this series; see the
// package-level MakeMovie.
func (s *Series) MakeMovie(dir, iface string, framerate int) (string, error) {
	out, err := MakeMovie(dir, iface, framerate)
	if err != nil {
		return "", err
	}
	s.log.Info("wrote movie", zap.String("file", out), zap.Int("framerate", framerate))
	return out, nil
}

// frameFiles lists the sorted *.<iface> images in dir.
func frameFiles(dir, iface string) (string, []string, error) {
	iface, err := contour.NormalizeExt(iface)
	if err != nil {
		return "", nil, err
	}
	matches, err := filepath.Glob(filepath.Join(dir, "*."+iface))
	if err != nil {
		return "", nil, fmt.Errorf("series: %w", err)
	}
	if len(matches) == 0 {
		return "", nil, fmt.Errorf("%w: %s/*.%s", ErrNoFrames, dir, iface)
	}
	sort.Strings(matches)
	return iface, matches, nil
}

func decodeImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("series: %w", err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("series: decode %s: %w", path, err)
	}
	return img, nil
}

// jpegFrame returns the frame as raw JPEG bytes, transcoding other
// formats.
func jpegFrame(path, iface string) ([]byte, error) {
	if iface == "jpeg" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("series: %w", err)
		}
		return data, nil
	}
	img, err := decodeImage(path)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err = jpeg.Encode(&buf, contour.Flatten(img, color.White), &jpeg.Options{Quality: 90}); err != nil {
		return nil, fmt.Errorf("series: transcode %s: %w", path, err)
	}
	return buf.Bytes(), nil
}

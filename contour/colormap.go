package contour

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strings"
)

// ErrUnknownColormap is returned for a colormap name outside the
// built-in set.
var ErrUnknownColormap = errors.New("contour: unknown colormap")

// anchor pins an RGB triple to a position in [0,1].
type anchor struct {
	pos     float64
	r, g, b uint8
}

// colormap interpolates linearly between its anchors.
type colormap []anchor

var colormaps = map[string]colormap{
	"viridis": {
		{0.00, 68, 1, 84},
		{0.25, 59, 82, 139},
		{0.50, 33, 145, 140},
		{0.75, 94, 201, 98},
		{1.00, 253, 231, 37},
	},
	"plasma": {
		{0.00, 13, 8, 135},
		{0.25, 126, 3, 168},
		{0.50, 204, 71, 120},
		{0.75, 248, 149, 64},
		{1.00, 240, 249, 33},
	},
	"jet": {
		{0.000, 0, 0, 128},
		{0.125, 0, 0, 255},
		{0.375, 0, 255, 255},
		{0.625, 255, 255, 0},
		{0.875, 255, 0, 0},
		{1.000, 128, 0, 0},
	},
	"gray": {
		{0.00, 0, 0, 0},
		{1.00, 255, 255, 255},
	},
}

// lookupColormap resolves a name case-insensitively.
func lookupColormap(name string) (colormap, error) {
	cm, ok := colormaps[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColormap, name)
	}
	return cm, nil
}

// at maps a normalized value t in [0,1] onto the map; t is clamped.
func (cm colormap) at(t float64, alpha float64) color.NRGBA {
	if math.IsNaN(t) {
		t = 0
	}
	t = math.Min(1, math.Max(0, t))
	a := uint8(math.Round(math.Min(1, math.Max(0, alpha)) * 255))
	lo := cm[0]
	for _, hi := range cm[1:] {
		if t > hi.pos {
			lo = hi
			continue
		}
		span := hi.pos - lo.pos
		if span <= 0 {
			return color.NRGBA{hi.r, hi.g, hi.b, a}
		}
		f := (t - lo.pos) / span
		return color.NRGBA{
			R: lerp8(lo.r, hi.r, f),
			G: lerp8(lo.g, hi.g, f),
			B: lerp8(lo.b, hi.b, f),
			A: a,
		}
	}
	last := cm[len(cm)-1]
	return color.NRGBA{last.r, last.g, last.b, a}
}

func lerp8(a, b uint8, f float64) uint8 {
	return uint8(math.Round(float64(a) + f*(float64(b)-float64(a))))
}

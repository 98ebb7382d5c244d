package material

import (
	"image/color"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/df07/go-pathtracer/pkg/core"
)

// FromBytes converts 8-bit channel values to a [0,1] color
func FromBytes(r, g, b uint8) core.Vec3 {
	return core.NewVec3(float64(r)/255.0, float64(g)/255.0, float64(b)/255.0)
}

// LinearToSRGB applies the sRGB transfer function to a linear color.
// Channels are clamped to [0,1] afterwards; non-finite channels become 0.
func LinearToSRGB(c core.Vec3) core.Vec3 {
	srgb := colorful.LinearRgb(sanitize(c.X), sanitize(c.Y), sanitize(c.Z)).Clamped()
	return core.NewVec3(srgb.R, srgb.G, srgb.B)
}

// PackRGB packs a [0,1] color into a 24-bit 0xRRGGBB value, rounding each channel
func PackRGB(c core.Vec3) uint32 {
	r := uint32(quantize(c.X, 255))
	g := uint32(quantize(c.Y, 255))
	b := uint32(quantize(c.Z, 255))
	return (r << 16) | (g << 8) | b
}

// UnpackRGB converts a packed 0xRRGGBB value to an opaque RGBA color
func UnpackRGB(packed uint32) color.RGBA {
	return color.RGBA{
		R: uint8(packed >> 16),
		G: uint8(packed >> 8),
		B: uint8(packed),
		A: 255,
	}
}

// ToRGBA converts an already gamma-encoded [0,1] color to 8-bit RGBA
func ToRGBA(c core.Vec3) color.RGBA {
	return UnpackRGB(PackRGB(c))
}

// ToRGBA64 converts an already gamma-encoded [0,1] color to 16-bit RGBA
func ToRGBA64(c core.Vec3) color.RGBA64 {
	return color.RGBA64{
		R: uint16(quantize(c.X, 65535)),
		G: uint16(quantize(c.Y, 65535)),
		B: uint16(quantize(c.Z, 65535)),
		A: 65535,
	}
}

// quantize maps a [0,1] channel to the nearest integer step in [0, steps]
func quantize(v, steps float64) float64 {
	return math.Round(clamp(v, 0, 1) * steps)
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

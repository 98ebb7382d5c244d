package renderer

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// Supported export formats
const (
	FormatPNG = "png"
	FormatBMP = "bmp"
)

// FrameBuffer holds the packed display colors and the linear radiance of every pixel.
// It is owned by the coordinator; workers never write to it.
type FrameBuffer struct {
	Width   int
	Height  int
	Display []uint32    // 0xRRGGBB gamma-encoded
	Linear  []core.Vec3 // Averaged linear radiance
}

// NewFrameBuffer creates a black frame buffer
func NewFrameBuffer(width, height int) *FrameBuffer {
	return &FrameBuffer{
		Width:   width,
		Height:  height,
		Display: make([]uint32, width*height),
		Linear:  make([]core.Vec3, width*height),
	}
}

// Set stores a sampled pixel
func (fb *FrameBuffer) Set(pixel PixelResult) {
	fb.Display[pixel.Index] = material.PackRGB(pixel.SRGB)
	fb.Linear[pixel.Index] = pixel.Linear
}

// At returns the packed display color at (x, y)
func (fb *FrameBuffer) At(x, y int) uint32 {
	return fb.Display[y*fb.Width+x]
}

// ToImage converts the display buffer to an 8-bit image
func (fb *FrameBuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			img.SetRGBA(x, y, material.UnpackRGB(fb.At(x, y)))
		}
	}
	return img
}

// ToImage16 re-encodes the linear buffer at 16 bits per channel
func (fb *FrameBuffer) ToImage16() *image.RGBA64 {
	img := image.NewRGBA64(image.Rect(0, 0, fb.Width, fb.Height))
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			linear := fb.Linear[y*fb.Width+x]
			img.SetRGBA64(x, y, material.ToRGBA64(material.LinearToSRGB(linear)))
		}
	}
	return img
}

// Encode writes the frame in the given format
func (fb *FrameBuffer) Encode(w io.Writer, format string) error {
	switch strings.ToLower(format) {
	case FormatPNG:
		return png.Encode(w, fb.ToImage16())
	case FormatBMP:
		return bmp.Encode(w, fb.ToImage())
	default:
		return fmt.Errorf("unsupported image format %q", format)
	}
}

// SavePNG saves the frame as a 16-bit PNG
func (fb *FrameBuffer) SavePNG(path string) error {
	return fb.saveAs(path, FormatPNG)
}

// SaveBMP saves the frame as a 24-bit bitmap
func (fb *FrameBuffer) SaveBMP(path string) error {
	return fb.saveAs(path, FormatBMP)
}

// Save picks the format from the file extension
func (fb *FrameBuffer) Save(path string) error {
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	return fb.saveAs(path, format)
}

func (fb *FrameBuffer) saveAs(path, format string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := fb.Encode(f, format); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return f.Close()
}

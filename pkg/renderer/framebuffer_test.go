package renderer

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

func newGradientFrame() *FrameBuffer {
	fb := NewFrameBuffer(4, 3)
	for i := range fb.Display {
		v := float64(i) / float64(len(fb.Display)-1)
		linear := core.NewVec3(v, 1-v, 0.5)
		fb.Set(PixelResult{Index: i, Linear: linear, SRGB: linear})
	}
	return fb
}

func TestFrameBuffer_Set(t *testing.T) {
	fb := NewFrameBuffer(2, 2)
	fb.Set(PixelResult{Index: 3, Linear: core.NewVec3(0.5, 0, 0), SRGB: core.NewVec3(1, 0, 1)})

	if got := fb.At(1, 1); got != 0xFF00FF {
		t.Errorf("Expected 0xFF00FF, got %#06x", got)
	}
	if fb.Linear[3] != core.NewVec3(0.5, 0, 0) {
		t.Errorf("Expected linear color to be kept, got %v", fb.Linear[3])
	}
	if fb.At(0, 0) != 0 {
		t.Errorf("Expected untouched pixel to stay black, got %#06x", fb.At(0, 0))
	}
}

func TestFrameBuffer_SaturatedWhite(t *testing.T) {
	fb := NewFrameBuffer(1, 1)
	white := core.NewVec3(1, 1, 1)
	fb.Set(PixelResult{Index: 0, Linear: white, SRGB: material.LinearToSRGB(white)})

	if got := fb.At(0, 0); got != 0xFFFFFF {
		t.Errorf("Expected 0xFFFFFF in the display buffer, got %#06x", got)
	}
	r, g, b, _ := fb.ToImage16().At(0, 0).RGBA()
	if r != 65535 || g != 65535 || b != 65535 {
		t.Errorf("Expected full 16-bit white, got (%d, %d, %d)", r, g, b)
	}
}

func TestFrameBuffer_Encode(t *testing.T) {
	fb := newGradientFrame()

	tests := []struct {
		format string
		decode func(*bytes.Buffer) (image.Image, error)
	}{
		{FormatPNG, func(b *bytes.Buffer) (image.Image, error) { return png.Decode(b) }},
		{FormatBMP, func(b *bytes.Buffer) (image.Image, error) { return bmp.Decode(b) }},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			if err := fb.Encode(&buf, tt.format); err != nil {
				t.Fatalf("Encode failed: %v", err)
			}
			img, err := tt.decode(&buf)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if img.Bounds().Dx() != 4 || img.Bounds().Dy() != 3 {
				t.Errorf("Expected 4x3 image, got %v", img.Bounds())
			}
		})
	}

	if err := fb.Encode(&bytes.Buffer{}, "tiff"); err == nil {
		t.Error("Expected error for unsupported format")
	}
}

func TestFrameBuffer_BMPMatchesDisplay(t *testing.T) {
	fb := newGradientFrame()
	var buf bytes.Buffer
	if err := fb.Encode(&buf, FormatBMP); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	img, err := bmp.Decode(&buf)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			packed := (r>>8)<<16 | (g>>8)<<8 | b>>8
			if packed != fb.At(x, y) {
				t.Errorf("Pixel (%d, %d): expected %#06x, got %#06x", x, y, fb.At(x, y), packed)
			}
		}
	}
}

func TestFrameBuffer_SaveByExtension(t *testing.T) {
	fb := newGradientFrame()
	dir := t.TempDir()

	for _, name := range []string{"render.png", "render.BMP"} {
		path := filepath.Join(dir, name)
		if err := fb.Save(path); err != nil {
			t.Fatalf("Save %s failed: %v", name, err)
		}
		info, err := os.Stat(path)
		if err != nil || info.Size() == 0 {
			t.Errorf("Expected non-empty %s, got %v", name, err)
		}
	}

	if err := fb.Save(filepath.Join(dir, "render.jpg")); err == nil {
		t.Error("Expected error for unsupported extension")
	}
}

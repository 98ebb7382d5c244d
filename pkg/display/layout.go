package display

import (
	"image"
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
	"golang.org/x/image/draw"

	"github.com/df07/go-pathtracer/pkg/renderer"
)

// FitSize returns the largest pixel grid with the source aspect ratio that fits cols×rows
// terminal cells. Each cell shows two vertically stacked pixels.
func FitSize(srcWidth, srcHeight, cols, rows int) (int, int) {
	if srcWidth <= 0 || srcHeight <= 0 || cols <= 0 || rows <= 0 {
		return 0, 0
	}

	maxWidth, maxHeight := cols, rows*2
	width := maxWidth
	height := width * srcHeight / srcWidth
	if height > maxHeight {
		height = maxHeight
		width = height * srcWidth / srcHeight
	}
	return max(width, 1), max(height, 1)
}

// Downsample scales the frame's display buffer to width×height
func Downsample(fb *renderer.FrameBuffer, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	src := fb.ToImage()
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// DrawImage paints img onto scr with upper-half-block cells: the foreground is the top
// pixel and the background the bottom one. An odd last row leaves the bottom half blank.
func DrawImage(scr uv.Screen, img *image.RGBA, origin image.Point) {
	bounds := img.Bounds()
	for row := 0; row*2 < bounds.Dy(); row++ {
		topY := bounds.Min.Y + row*2
		botY := topY + 1

		for col := 0; col < bounds.Dx(); col++ {
			x := bounds.Min.X + col
			cell := &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: img.RGBAAt(x, topY),
				},
			}
			if botY < bounds.Max.Y {
				cell.Style.Bg = img.RGBAAt(x, botY)
			}
			scr.SetCell(origin.X+col, origin.Y+row, cell)
		}
	}
}

var (
	barFilled = color.RGBA{R: 90, G: 200, B: 120, A: 255}
	barEmpty  = color.RGBA{R: 60, G: 60, B: 70, A: 255}
	barText   = color.RGBA{R: 230, G: 230, B: 230, A: 255}
)

// DrawProgressBar fills one terminal row with a bar at fraction and writes label over its
// left end
func DrawProgressBar(scr uv.Screen, row, cols int, fraction float64, label string) {
	filled := int(min(max(fraction, 0), 1) * float64(cols))
	text := []rune(label)

	for col := 0; col < cols; col++ {
		bg := barEmpty
		if col < filled {
			bg = barFilled
		}
		content := " "
		if col < len(text) {
			content = string(text[col])
		}
		scr.SetCell(col, row, &uv.Cell{
			Content: content,
			Width:   1,
			Style:   uv.Style{Fg: barText, Bg: bg},
		})
	}
}

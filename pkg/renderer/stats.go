package renderer

import (
	"image"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels     int           // Pixels written to the frame buffer
	TotalSamples    int64         // Samples taken over all pixels
	TotalBounces    int64         // Bounces traced over all samples
	EarlyExitPixels int           // Pixels that stopped on the sky-run heuristic
	MaxSamples      int           // Samples requested per pixel
	Slices          int           // Slices dispatched
	Workers         int           // Workers in the pool
	Elapsed         time.Duration // Wall-clock render time
}

// addSlice folds one slice result into the totals
func (s *RenderStats) addSlice(result SliceResult) {
	for _, pixel := range result.Pixels {
		s.TotalPixels++
		s.TotalSamples += int64(pixel.Samples)
		if pixel.EarlyExit {
			s.EarlyExitPixels++
		}
	}
	s.TotalBounces += result.Bounces
}

// AverageSamples returns the mean number of samples taken per written pixel
func (s RenderStats) AverageSamples() float64 {
	if s.TotalPixels == 0 {
		return 0
	}
	return float64(s.TotalSamples) / float64(s.TotalPixels)
}

// Summary formats the statistics on one line with grouped digits
func (s RenderStats) Summary() string {
	p := message.NewPrinter(language.English)
	return p.Sprintf("%d pixels, %d samples (%.2f/pixel, %d early exits), %d bounces, %d slices on %d workers in %v",
		s.TotalPixels, s.TotalSamples, s.AverageSamples(), s.EarlyExitPixels,
		s.TotalBounces, s.Slices, s.Workers, s.Elapsed.Round(time.Millisecond))
}

// CalculateAverageLuminance returns the mean Rec. 709 luminance of img with channels
// scaled to [0, 1]
func CalculateAverageLuminance(img image.Image) float64 {
	bounds := img.Bounds()
	count := bounds.Dx() * bounds.Dy()
	if count == 0 {
		return 0
	}

	total := 0.0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			total += (0.2126*float64(r) + 0.7152*float64(g) + 0.0722*float64(b)) / 65535.0
		}
	}
	return total / float64(count)
}

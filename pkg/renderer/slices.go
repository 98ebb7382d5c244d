package renderer

import "math/rand"

// Slice is a contiguous range [Start, End) of frame buffer pixel indices rendered as one
// unit of work. Pixel index i maps to x = i % width, y = i / width.
type Slice struct {
	Start int
	End   int
}

// Len returns the number of pixels in the slice
func (s Slice) Len() int {
	return s.End - s.Start
}

// NewSlices partitions [0, total) into count contiguous slices. Sizes differ by at most
// one pixel; the leading slices take the remainder. count is clamped to [1, total].
func NewSlices(total, count int) []Slice {
	if total <= 0 {
		return nil
	}
	if count < 1 {
		count = 1
	}
	if count > total {
		count = total
	}

	size := total / count
	remainder := total % count

	slices := make([]Slice, 0, count)
	start := 0
	for i := 0; i < count; i++ {
		length := size
		if i < remainder {
			length++
		}
		slices = append(slices, Slice{Start: start, End: start + length})
		start += length
	}
	return slices
}

// ShuffleSlices randomizes dispatch order in place so screen regions of different cost are
// spread across workers
func ShuffleSlices(slices []Slice, random *rand.Rand) {
	random.Shuffle(len(slices), func(i, j int) {
		slices[i], slices[j] = slices[j], slices[i]
	})
}

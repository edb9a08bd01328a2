package renderer

import (
	"errors"
	"fmt"
)

// ErrUnevenBands is returned when the image width cannot be split into equal bands
var ErrUnevenBands = errors.New("image width is not divisible by band count")

// Band is a contiguous range of image columns [Start, End) rendered by one worker
type Band struct {
	Index int
	Start int
	End   int
}

// Width returns the number of columns in the band
func (b Band) Width() int {
	return b.End - b.Start
}

// NewBands splits width columns into count equal bands ordered left to right.
// Widths that do not divide evenly are rejected rather than dropping the remainder columns.
func NewBands(width, count int) ([]Band, error) {
	if width <= 0 {
		return nil, fmt.Errorf("invalid image width %d", width)
	}
	if count <= 0 || count > width {
		return nil, fmt.Errorf("invalid band count %d for width %d", count, width)
	}
	if width%count != 0 {
		return nil, fmt.Errorf("%w: width %d, bands %d", ErrUnevenBands, width, count)
	}

	bandWidth := width / count
	bands := make([]Band, count)
	for i := range bands {
		bands[i] = Band{
			Index: i,
			Start: i * bandWidth,
			End:   (i + 1) * bandWidth,
		}
	}
	return bands, nil
}

// DefaultBandCount returns the largest divisor of width not exceeding cpus
func DefaultBandCount(width, cpus int) int {
	if cpus < 1 {
		cpus = 1
	}
	for count := min(cpus, width); count > 1; count-- {
		if width%count == 0 {
			return count
		}
	}
	return 1
}

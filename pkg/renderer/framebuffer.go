package renderer

import (
	"github.com/df07/go-band-raytracer/pkg/core"
)

// BandBuffer holds the accumulated color sums of one band, row-major with row 0 at the top.
// Only the worker rendering the band writes to it.
type BandBuffer struct {
	Band   Band
	Pixels [][]core.Vec3 // [row][column - Band.Start]
}

// newBandBuffer allocates a zeroed buffer for the band
func newBandBuffer(band Band, height int) *BandBuffer {
	pixels := make([][]core.Vec3, height)
	for y := range pixels {
		pixels[y] = make([]core.Vec3, band.Width())
	}
	return &BandBuffer{Band: band, Pixels: pixels}
}

// FrameBuffer holds unnormalized color sums for a full image split into column bands
type FrameBuffer struct {
	Width  int
	Height int
	Bands  []*BandBuffer // ordered by Band.Index, left to right
}

// NewFrameBuffer allocates one private buffer per band
func NewFrameBuffer(width, height int, bands []Band) *FrameBuffer {
	fb := &FrameBuffer{
		Width:  width,
		Height: height,
		Bands:  make([]*BandBuffer, len(bands)),
	}
	for _, band := range bands {
		fb.Bands[band.Index] = newBandBuffer(band, height)
	}
	return fb
}

// At returns the accumulated sum for image pixel (x, y), with y=0 the top scanline
func (fb *FrameBuffer) At(x, y int) core.Vec3 {
	for _, buf := range fb.Bands {
		if x >= buf.Band.Start && x < buf.Band.End {
			return buf.Pixels[y][x-buf.Band.Start]
		}
	}
	return core.Vec3{}
}

// Walk visits every pixel in output order: scanlines top to bottom, then bands left to right,
// then columns within the band. The order is independent of which band finished first.
// Walk stops at the first error returned by fn.
func (fb *FrameBuffer) Walk(fn func(x, y int, sum core.Vec3) error) error {
	for y := 0; y < fb.Height; y++ {
		for _, buf := range fb.Bands {
			row := buf.Pixels[y]
			for k, sum := range row {
				if err := fn(buf.Band.Start+k, y, sum); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// Assemble merges the band buffers into a full row-major frame
func (fb *FrameBuffer) Assemble() [][]core.Vec3 {
	frame := make([][]core.Vec3, fb.Height)
	for y := range frame {
		frame[y] = make([]core.Vec3, 0, fb.Width)
	}
	_ = fb.Walk(func(x, y int, sum core.Vec3) error {
		frame[y] = append(frame[y], sum)
		return nil
	})
	return frame
}

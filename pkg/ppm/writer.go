// Package ppm encodes accumulated color sums as plain-text (P3) PPM images.
package ppm

import (
	"bufio"
	"fmt"
	"io"
	"math"

	"github.com/df07/go-band-raytracer/pkg/core"
	"github.com/df07/go-band-raytracer/pkg/renderer"
)

// ContentType is the media type of a PPM stream
const ContentType = "image/x-portable-pixmap"

// MaxValue is the largest channel value written to the stream
const MaxValue = 255

// Writer writes a P3 image one pixel at a time. Output is buffered; call Flush when done.
type Writer struct {
	w       *bufio.Writer
	samples int
}

// NewWriter creates a writer whose pixel sums are averaged over samples
func NewWriter(w io.Writer, samples int) *Writer {
	return &Writer{w: bufio.NewWriter(w), samples: samples}
}

// WriteHeader writes the P3 magic, the image dimensions and the maximum channel value
func (pw *Writer) WriteHeader(width, height int) error {
	_, err := fmt.Fprintf(pw.w, "P3\n%d %d\n%d\n", width, height, MaxValue)
	return err
}

// WritePixel tone maps an accumulated color sum and writes it as one line
func (pw *Writer) WritePixel(sum core.Vec3) error {
	r, g, b := ToneMap(sum, pw.samples)
	_, err := fmt.Fprintf(pw.w, "%d %d %d\n", r, g, b)
	return err
}

// Flush writes any buffered data to the underlying writer
func (pw *Writer) Flush() error {
	return pw.w.Flush()
}

// ToneMap averages a sum over samples, applies gamma 2 and quantizes each channel to [0, 255]
func ToneMap(sum core.Vec3, samples int) (r, g, b int) {
	avg := sum
	avg.Scale(1.0 / float64(samples))
	c := avg.Clamp(0, math.Inf(1)).Sqrt().Clamp(0, 0.999)
	return quantize(c.X), quantize(c.Y), quantize(c.Z)
}

func quantize(c float64) int {
	// NaN from a degenerate normal survives the clamp
	if math.IsNaN(c) {
		return 0
	}
	return int(256 * c)
}

// Encode writes the whole frame in scanline order, top to bottom and left to right
func Encode(w io.Writer, frame *renderer.FrameBuffer, samples int) error {
	if samples < 1 {
		return fmt.Errorf("invalid sample count %d", samples)
	}

	pw := NewWriter(w, samples)
	if err := pw.WriteHeader(frame.Width, frame.Height); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	err := frame.Walk(func(x, y int, sum core.Vec3) error {
		return pw.WritePixel(sum)
	})
	if err != nil {
		return fmt.Errorf("failed to write pixels: %w", err)
	}

	if err := pw.Flush(); err != nil {
		return fmt.Errorf("failed to flush image: %w", err)
	}
	return nil
}

package renderer

import "time"

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels     int           // Total number of pixels rendered
	TotalSamples    int           // Total number of samples taken
	SamplesPerPixel int           // Samples taken for every pixel
	Bands           []BandStats   // Per-band statistics, ordered by band index
	Duration        time.Duration // Wall-clock time of the render
}

// BandStats contains statistics about a single band
type BandStats struct {
	Band     Band
	Pixels   int
	Samples  int
	Duration time.Duration
}

// SamplesPerSecond returns the sample throughput of the render
func (rs RenderStats) SamplesPerSecond() float64 {
	if rs.Duration <= 0 {
		return 0
	}
	return float64(rs.TotalSamples) / rs.Duration.Seconds()
}

package renderer

import (
	"time"

	"github.com/df07/go-band-raytracer/pkg/core"
	"github.com/df07/go-band-raytracer/pkg/integrator"
)

// TileRenderer renders column bands of an image using an integrator.
// It only reads shared state, so one TileRenderer serves every worker.
type TileRenderer struct {
	world      core.Hittable
	camera     *Camera
	integrator integrator.Integrator
	width      int
	height     int
	samples    int
	seed       uint64
}

// NewTileRenderer creates a new tile renderer with the given world, camera and integrator
func NewTileRenderer(world core.Hittable, camera *Camera, integratorInst integrator.Integrator, config RenderConfig) *TileRenderer {
	return &TileRenderer{
		world:      world,
		camera:     camera,
		integrator: integratorInst,
		width:      config.Width,
		height:     config.Height,
		samples:    config.SamplesPerPixel,
		seed:       config.Seed,
	}
}

// RenderBand fills buf with per-pixel color sums for its band and logs each scanline as it starts.
// The sampler must belong to the calling goroutine; it is reseeded per pixel so the
// result of a pixel does not depend on how the image is partitioned.
func (tr *TileRenderer) RenderBand(buf *BandBuffer, sampler *core.RandomSampler, logger core.Logger) BandStats {
	start := time.Now()
	band := buf.Band

	// Scanlines from the top of the image (j = height-1) down
	for j := tr.height - 1; j >= 0; j-- {
		row := tr.height - 1 - j
		logger.Printf("Band %d: scanline %d, columns %d to %d\n", band.Index, j, band.Start, band.End)
		for i := band.Start; i < band.End; i++ {
			sampler.Reseed(tr.seed, tr.pixelStream(i, row))
			buf.Pixels[row][i-band.Start] = tr.samplePixel(i, j, sampler)
		}
	}

	pixels := band.Width() * tr.height
	return BandStats{
		Band:     band,
		Pixels:   pixels,
		Samples:  pixels * tr.samples,
		Duration: time.Since(start),
	}
}

// samplePixel sums (does not average) the jittered samples of pixel (i, j), j counted from the bottom
func (tr *TileRenderer) samplePixel(i, j int, sampler core.Sampler) core.Vec3 {
	var pixelColor core.Vec3
	for s := 0; s < tr.samples; s++ {
		u := (float64(i) + sampler.Get1D()) / float64(tr.width-1)
		v := (float64(j) + sampler.Get1D()) / float64(tr.height-1)
		ray := tr.camera.GetRay(u, v)
		pixelColor.Accumulate(tr.integrator.RayColor(ray, tr.world, sampler))
	}
	return pixelColor
}

// pixelStream returns the random stream index of the pixel at column x of output row y
func (tr *TileRenderer) pixelStream(x, y int) uint64 {
	return uint64(y*tr.width + x)
}

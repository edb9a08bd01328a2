package renderer

import (
	"errors"
	"fmt"
	"time"

	"github.com/df07/go-band-raytracer/pkg/core"
	"github.com/df07/go-band-raytracer/pkg/integrator"
)

// ErrInvalidConfig is returned for render settings that cannot produce an image
var ErrInvalidConfig = errors.New("invalid render config")

// RenderConfig contains rendering configuration
type RenderConfig struct {
	Width           int    // Image width in pixels
	Height          int    // Image height in pixels
	SamplesPerPixel int    // Number of rays per pixel
	MaxDepth        int    // Maximum ray bounce depth
	Bands           int    // Number of column bands, one worker each
	Seed            uint64 // Base seed of every pixel's random stream
}

// DefaultRenderConfig returns the settings of a full-size render
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		Width:           1280,
		Height:          720,
		SamplesPerPixel: 100,
		MaxDepth:        50,
		Bands:           16,
		Seed:            42,
	}
}

// Validate checks the configuration, including that the width splits into equal bands
func (c RenderConfig) Validate() error {
	if c.Width < 2 || c.Height < 2 {
		return fmt.Errorf("%w: image must be at least 2x2, got %dx%d", ErrInvalidConfig, c.Width, c.Height)
	}
	if c.SamplesPerPixel < 1 {
		return fmt.Errorf("%w: samples per pixel must be positive, got %d", ErrInvalidConfig, c.SamplesPerPixel)
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("%w: max depth must not be negative, got %d", ErrInvalidConfig, c.MaxDepth)
	}
	if _, err := NewBands(c.Width, c.Bands); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Raytracer renders a world through a camera by splitting the image into column bands
type Raytracer struct {
	world      core.Hittable
	camera     *Camera
	integrator integrator.Integrator
	config     RenderConfig
	logger     core.Logger
}

// NewRaytracer creates a new raytracer using a path tracing integrator
func NewRaytracer(world core.Hittable, camera *Camera, config RenderConfig, logger core.Logger) *Raytracer {
	return NewRaytracerWithIntegrator(world, camera, integrator.NewPathTracingIntegrator(config.MaxDepth), config, logger)
}

// NewRaytracerWithIntegrator creates a raytracer with a custom integrator
func NewRaytracerWithIntegrator(world core.Hittable, camera *Camera, integratorInst integrator.Integrator, config RenderConfig, logger core.Logger) *Raytracer {
	if logger == nil {
		logger = NewDiscardLogger()
	}
	return &Raytracer{
		world:      world,
		camera:     camera,
		integrator: integratorInst,
		config:     config,
		logger:     logger,
	}
}

// Config returns the render configuration
func (rt *Raytracer) Config() RenderConfig {
	return rt.config
}

// Render runs every band to completion in parallel and returns the accumulated frame.
// If any band fails the whole render fails and no frame is returned.
func (rt *Raytracer) Render() (*FrameBuffer, RenderStats, error) {
	if err := rt.config.Validate(); err != nil {
		return nil, RenderStats{}, err
	}

	bands, err := NewBands(rt.config.Width, rt.config.Bands)
	if err != nil {
		return nil, RenderStats{}, err
	}

	frame := NewFrameBuffer(rt.config.Width, rt.config.Height, bands)
	tileRenderer := NewTileRenderer(rt.world, rt.camera, rt.integrator, rt.config)
	pool := NewWorkerPool(tileRenderer, len(bands), rt.logger)

	tasks := make([]BandTask, len(bands))
	for i, band := range bands {
		tasks[i] = BandTask{Buffer: frame.Bands[band.Index], TaskID: band.Index}
	}

	rt.logger.Printf("Rendering %dx%d, %d samples per pixel, depth %d, %d bands of %d columns\n",
		rt.config.Width, rt.config.Height, rt.config.SamplesPerPixel, rt.config.MaxDepth,
		len(bands), bands[0].Width())

	start := time.Now()
	results, err := pool.Run(tasks)
	if err != nil {
		return nil, RenderStats{}, fmt.Errorf("render failed: %w", err)
	}

	stats := RenderStats{
		TotalPixels:     rt.config.Width * rt.config.Height,
		SamplesPerPixel: rt.config.SamplesPerPixel,
		Bands:           make([]BandStats, len(results)),
		Duration:        time.Since(start),
	}
	for i, result := range results {
		stats.Bands[i] = result.Stats
		stats.TotalSamples += result.Stats.Samples
	}

	rt.logger.Printf("Render completed in %v (%.0f samples/s)\n", stats.Duration, stats.SamplesPerSecond())
	return frame, stats, nil
}

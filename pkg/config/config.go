// Package config loads render settings from defaults, an optional .env file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/df07/go-band-raytracer/pkg/renderer"
)

// ErrInvalid is returned for settings that cannot produce an image
var ErrInvalid = errors.New("invalid configuration")

// EnvPrefix prefixes every environment variable read by Load
const EnvPrefix = "RAYTRACER_"

// AutoBands asks for one band per logical CPU, adjusted to divide the width
const AutoBands = 0

// Config holds the settings of one render
type Config struct {
	Scene       string  // Built-in scene name
	Width       int     // Image width in pixels
	AspectRatio float64 // Width / height
	Samples     int     // Samples per pixel
	Depth       int     // Maximum bounce depth
	Bands       int     // Column bands; AutoBands picks from the CPU count
	Seed        uint64  // Base random seed
	Out         string  // Output file; empty means stdout
}

// Default returns the settings of the full-size render
func Default() Config {
	return Config{
		Scene:       "default",
		Width:       1280,
		AspectRatio: 16.0 / 9.0,
		Samples:     100,
		Depth:       50,
		Bands:       16,
		Seed:        42,
	}
}

// Load returns the defaults overridden by RAYTRACER_* variables.
// A .env file in the working directory is read first if present; real environment variables win.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv(Default(), os.LookupEnv)
}

// FromEnv overrides base with the RAYTRACER_* variables found by lookup
func FromEnv(base Config, lookup func(string) (string, bool)) (Config, error) {
	cfg := base

	if v, ok := lookup(EnvPrefix + "SCENE"); ok {
		cfg.Scene = v
	}
	if v, ok := lookup(EnvPrefix + "OUT"); ok {
		cfg.Out = v
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"WIDTH", &cfg.Width},
		{"SAMPLES", &cfg.Samples},
		{"DEPTH", &cfg.Depth},
		{"BANDS", &cfg.Bands},
	}
	for _, field := range ints {
		v, ok := lookup(EnvPrefix + field.key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return base, fmt.Errorf("%w: %s%s=%q is not an integer", ErrInvalid, EnvPrefix, field.key, v)
		}
		*field.dst = n
	}

	if v, ok := lookup(EnvPrefix + "SEED"); ok {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return base, fmt.Errorf("%w: %sSEED=%q is not an unsigned integer", ErrInvalid, EnvPrefix, v)
		}
		cfg.Seed = seed
	}
	if v, ok := lookup(EnvPrefix + "ASPECT_RATIO"); ok {
		ratio, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return base, fmt.Errorf("%w: %sASPECT_RATIO=%q is not a number", ErrInvalid, EnvPrefix, v)
		}
		cfg.AspectRatio = ratio
	}

	return cfg, nil
}

// Height returns the image height implied by the width and aspect ratio
func (c Config) Height() int {
	return int(float64(c.Width) / c.AspectRatio)
}

// Validate checks every field; a band count that does not divide the width is an error
func (c Config) Validate() error {
	if c.Width < 2 {
		return fmt.Errorf("%w: width must be at least 2, got %d", ErrInvalid, c.Width)
	}
	if c.AspectRatio <= 0 {
		return fmt.Errorf("%w: aspect ratio must be positive, got %g", ErrInvalid, c.AspectRatio)
	}
	if h := c.Height(); h < 2 {
		return fmt.Errorf("%w: height must be at least 2, got %d", ErrInvalid, h)
	}
	if c.Samples < 1 {
		return fmt.Errorf("%w: samples must be positive, got %d", ErrInvalid, c.Samples)
	}
	if c.Depth < 0 {
		return fmt.Errorf("%w: depth must not be negative, got %d", ErrInvalid, c.Depth)
	}
	if c.Bands < 0 {
		return fmt.Errorf("%w: bands must not be negative, got %d", ErrInvalid, c.Bands)
	}
	if c.Bands != AutoBands {
		if _, err := renderer.NewBands(c.Width, c.Bands); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalid, err)
		}
	}
	return nil
}

// ResolveBands returns the configured band count, or for AutoBands the largest divisor of
// the width not exceeding the host's logical CPU count
func (c Config) ResolveBands() int {
	if c.Bands != AutoBands {
		return c.Bands
	}
	return renderer.DefaultBandCount(c.Width, HostCPUs())
}

// RenderConfig converts the settings to the renderer's configuration
func (c Config) RenderConfig() renderer.RenderConfig {
	return renderer.RenderConfig{
		Width:           c.Width,
		Height:          c.Height(),
		SamplesPerPixel: c.Samples,
		MaxDepth:        c.Depth,
		Bands:           c.ResolveBands(),
		Seed:            c.Seed,
	}
}

// CameraConfig returns the default camera with the configured aspect ratio
func (c Config) CameraConfig() renderer.CameraConfig {
	camera := renderer.DefaultCameraConfig()
	camera.AspectRatio = c.AspectRatio
	return camera
}

// HostCPUs returns the number of logical CPUs, falling back to the Go runtime's count
func HostCPUs() int {
	if n, err := cpu.Counts(true); err == nil && n > 0 {
		return n
	}
	return runtime.NumCPU()
}

// HostMemoryGB returns the total host memory in whole gigabytes, or 0 when unknown
func HostMemoryGB() uint64 {
	memInfo, err := mem.VirtualMemory()
	if err != nil {
		return 0
	}
	return memInfo.Total / (1024 * 1024 * 1024)
}

// HostInfo describes the host CPU and memory for startup logging
func HostInfo() string {
	desc := fmt.Sprintf("%d logical CPUs", HostCPUs())
	if info, err := cpu.Info(); err == nil && len(info) > 0 {
		desc = fmt.Sprintf("%s, %s at %.2f GHz", info[0].ModelName, desc, info[0].Mhz/1000)
	}
	if ram := HostMemoryGB(); ram > 0 {
		desc = fmt.Sprintf("%s, %d GB RAM", desc, ram)
	}
	return desc
}

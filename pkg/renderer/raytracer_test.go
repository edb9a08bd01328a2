package renderer

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/df07/go-band-raytracer/pkg/core"
	"github.com/df07/go-band-raytracer/pkg/geometry"
	"github.com/df07/go-band-raytracer/pkg/material"
	"github.com/df07/go-band-raytracer/pkg/scene"
)

func TestRenderConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*RenderConfig)
		wantErr bool
	}{
		{"defaults", func(c *RenderConfig) {}, false},
		{"single band", func(c *RenderConfig) { c.Bands = 1 }, false},
		{"zero depth", func(c *RenderConfig) { c.MaxDepth = 0 }, false},
		{"width one", func(c *RenderConfig) { c.Width = 1; c.Bands = 1 }, true},
		{"height one", func(c *RenderConfig) { c.Height = 1 }, true},
		{"no samples", func(c *RenderConfig) { c.SamplesPerPixel = 0 }, true},
		{"negative depth", func(c *RenderConfig) { c.MaxDepth = -1 }, true},
		{"zero bands", func(c *RenderConfig) { c.Bands = 0 }, true},
		{"uneven bands", func(c *RenderConfig) { c.Bands = 3 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultRenderConfig()
			tt.modify(&config)
			err := config.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestRenderConfig_UnevenBandsIsDetectable(t *testing.T) {
	config := testConfig(10, 4, 1, 3)
	if err := config.Validate(); !errors.Is(err, ErrUnevenBands) {
		t.Errorf("Expected ErrUnevenBands, got %v", err)
	}
}

func TestRaytracer_Render_FillsFrame(t *testing.T) {
	config := testConfig(8, 4, 2, 4)
	mock := &MockIntegrator{returnColor: core.NewVec3(1, 0, 0)}
	rt := NewRaytracerWithIntegrator(emptyWorld{}, NewCamera(DefaultCameraConfig()), mock, config, nil)

	frame, stats, err := rt.Render()
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if frame.Width != config.Width || frame.Height != config.Height {
		t.Errorf("Expected %dx%d frame, got %dx%d", config.Width, config.Height, frame.Width, frame.Height)
	}
	for y := 0; y < config.Height; y++ {
		for x := 0; x < config.Width; x++ {
			if !frame.At(x, y).Equals(core.NewVec3(2, 0, 0)) {
				t.Errorf("Pixel (%d,%d): expected sum (2,0,0), got %v", x, y, frame.At(x, y))
			}
		}
	}

	if stats.TotalPixels != 32 || stats.TotalSamples != 64 {
		t.Errorf("Expected 32 pixels / 64 samples, got %d / %d", stats.TotalPixels, stats.TotalSamples)
	}
	if len(stats.Bands) != 4 {
		t.Errorf("Expected stats for 4 bands, got %d", len(stats.Bands))
	}
	for i, bs := range stats.Bands {
		if bs.Band.Index != i {
			t.Errorf("Band stats %d belongs to band %d", i, bs.Band.Index)
		}
	}
}

func TestRaytracer_Render_InvalidConfig(t *testing.T) {
	rt := NewRaytracer(emptyWorld{}, NewCamera(DefaultCameraConfig()), testConfig(10, 4, 1, 3), nil)
	frame, _, err := rt.Render()
	if err == nil {
		t.Fatal("Expected error for uneven bands")
	}
	if frame != nil {
		t.Error("Expected no frame on error")
	}
}

func TestRaytracer_Render_BandCountDoesNotChangeImage(t *testing.T) {
	world := scene.NewDefaultScene()
	camera := NewCamera(DefaultCameraConfig())

	render := func(bands int) *FrameBuffer {
		config := testConfig(20, 11, 3, bands)
		frame, _, err := NewRaytracer(world, camera, config, nil).Render()
		if err != nil {
			t.Fatalf("Render with %d bands failed: %v", bands, err)
		}
		return frame
	}

	reference := render(1)
	for _, bands := range []int{2, 4, 5, 10, 20} {
		frame := render(bands)
		for y := 0; y < reference.Height; y++ {
			for x := 0; x < reference.Width; x++ {
				if !frame.At(x, y).Equals(reference.At(x, y)) {
					t.Fatalf("%d bands: pixel (%d,%d) = %v, single band = %v", bands, x, y, frame.At(x, y), reference.At(x, y))
				}
			}
		}
	}
}

func TestRaytracer_Render_SameSeedSameImage(t *testing.T) {
	world := scene.NewSingleSphereScene()
	camera := NewCamera(DefaultCameraConfig())
	config := testConfig(10, 6, 2, 2)

	a, _, errA := NewRaytracer(world, camera, config, nil).Render()
	b, _, errB := NewRaytracer(world, camera, config, nil).Render()
	if errA != nil || errB != nil {
		t.Fatalf("Render failed: %v, %v", errA, errB)
	}

	for y := 0; y < config.Height; y++ {
		for x := 0; x < config.Width; x++ {
			if !a.At(x, y).Equals(b.At(x, y)) {
				t.Fatalf("Pixel (%d,%d) differs between identical renders", x, y)
			}
		}
	}
}

func TestRaytracer_Render_CenterPixelSeesSphere(t *testing.T) {
	config := testConfig(20, 11, 4, 4)
	frame, _, err := NewRaytracer(scene.NewSingleSphereScene(), NewCamera(DefaultCameraConfig()), config, nil).Render()
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	avg := frame.At(10, 5).Divide(float64(config.SamplesPerPixel))
	albedo := core.NewVec3(0.7, 0.3, 0.3)

	// The center ray hits the diffuse sphere, so green+blue stays near the albedo tint, far below sky blue
	gb := avg.Y + avg.Z
	if diffAlbedo, diffSky := math.Abs(gb-(albedo.Y+albedo.Z)), math.Abs(gb-(0.7+1.0)); diffAlbedo >= diffSky {
		t.Errorf("Center pixel %v looks like sky rather than the sphere", avg)
	}
	if avg.X < avg.Z {
		t.Errorf("Center pixel %v should be red-dominated", avg)
	}
}

func TestRaytracer_Render_WorkerPanicFailsRender(t *testing.T) {
	var logs bytes.Buffer
	config := testConfig(8, 4, 1, 2)
	rt := NewRaytracerWithIntegrator(emptyWorld{}, NewCamera(DefaultCameraConfig()), panicIntegrator{}, config, NewWriterLogger(&logs))

	frame, _, err := rt.Render()
	if err == nil {
		t.Fatal("Expected render to fail when a worker panics")
	}
	if frame != nil {
		t.Error("Expected no frame from a failed render")
	}
	if !strings.Contains(err.Error(), "band 1") {
		t.Errorf("Expected error to name the failed band, got %v", err)
	}
	if !strings.Contains(logs.String(), "integrator exploded") {
		t.Errorf("Expected panic to be logged, got %q", logs.String())
	}
}

func TestRaytracer_Render_MetalSceneIsDeterministicPerBand(t *testing.T) {
	world := scene.New("metal")
	world.Add(geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5, material.NewMetal(core.NewVec3(0.9, 0.9, 0.9))))
	camera := NewCamera(DefaultCameraConfig())

	one, _, err := NewRaytracer(world, camera, testConfig(12, 4, 2, 1), nil).Render()
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	six, _, err := NewRaytracer(world, camera, testConfig(12, 4, 2, 6), nil).Render()
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	a, b := one.Assemble(), six.Assemble()
	for y := range a {
		for x := range a[y] {
			if !a[y][x].Equals(b[y][x]) {
				t.Fatalf("Pixel (%d,%d) differs: %v vs %v", x, y, a[y][x], b[y][x])
			}
		}
	}
}

func TestRaytracer_Render_LogsEveryScanlinePerBand(t *testing.T) {
	var logs bytes.Buffer
	config := testConfig(8, 6, 1, 2)
	rt := NewRaytracerWithIntegrator(emptyWorld{}, NewCamera(DefaultCameraConfig()), &MockIntegrator{}, config, NewWriterLogger(&logs))

	if _, _, err := rt.Render(); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	for band := 0; band < config.Bands; band++ {
		for j := 0; j < config.Height; j++ {
			line := fmt.Sprintf("Band %d: scanline %d, columns %d to %d\n", band, j, band*4, band*4+4)
			if strings.Count(logs.String(), line) != 1 {
				t.Errorf("Expected one progress line %q, got logs:\n%s", line, logs.String())
			}
		}
	}
	if got := strings.Count(logs.String(), "scanline"); got != config.Height*config.Bands {
		t.Errorf("Expected %d scanline lines, got %d", config.Height*config.Bands, got)
	}
}

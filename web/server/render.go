package server

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/df07/go-band-raytracer/pkg/config"
	"github.com/df07/go-band-raytracer/pkg/ppm"
	"github.com/df07/go-band-raytracer/pkg/renderer"
	"github.com/df07/go-band-raytracer/pkg/scene"
)

// Query limits for web renders. A render cannot be cancelled once started, so the
// total sample count per request is capped as well.
const (
	maxWidth        = 4096
	maxSamples      = 1000
	maxDepth        = 100
	maxTotalSamples = 1920 * 1080 * 100
)

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene   string // Scene name (e.g., "default")
	Width   int    // Image width; height follows the aspect ratio
	Samples int    // Samples per pixel
	Depth   int    // Maximum bounce depth
	Bands   int    // Column bands; 0 picks from the CPU count
	Seed    uint64 // Random seed
}

// Config returns the server defaults overridden by the request
func (r *RenderRequest) Config(defaults config.Config) config.Config {
	cfg := defaults
	cfg.Scene = r.Scene
	cfg.Width = r.Width
	cfg.Samples = r.Samples
	cfg.Depth = r.Depth
	cfg.Bands = r.Bands
	cfg.Seed = r.Seed
	cfg.Out = ""
	return cfg
}

// parseRenderRequest reads the render parameters; bands defaults to automatic
// so that any width can be requested without picking a divisor
func (s *Server) parseRenderRequest(c echo.Context) (*RenderRequest, error) {
	values := c.QueryParams()
	req := &RenderRequest{Scene: s.defaults.Scene}

	if sceneName := values.Get("scene"); sceneName != "" {
		req.Scene = sceneName
	}

	var err error
	if req.Width, err = parseIntParam(values, "width", s.defaults.Width, 2, maxWidth); err != nil {
		return nil, err
	}
	if req.Samples, err = parseIntParam(values, "samples", s.defaults.Samples, 1, maxSamples); err != nil {
		return nil, err
	}
	if req.Depth, err = parseIntParam(values, "depth", s.defaults.Depth, 0, maxDepth); err != nil {
		return nil, err
	}
	if req.Bands, err = parseIntParam(values, "bands", config.AutoBands, 0, maxWidth); err != nil {
		return nil, err
	}
	if req.Seed, err = parseUintParam(values, "seed", s.defaults.Seed); err != nil {
		return nil, err
	}

	height := req.Config(s.defaults).Height()
	if total := req.Width * height * req.Samples; total > maxTotalSamples {
		return nil, fmt.Errorf("%dx%d at %d samples is %d samples, limit is %d", req.Width, height, req.Samples, total, maxTotalSamples)
	}

	return req, nil
}

// handleRender renders a scene and returns it as a P3 PPM stream
func (s *Server) handleRender(c echo.Context) error {
	req, err := s.parseRenderRequest(c)
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, "Invalid request: "+err.Error())
	}

	cfg := req.Config(s.defaults)
	sceneObj, err := createScene(cfg)
	if err != nil {
		return errorResponse(c, statusFor(err), err.Error())
	}

	renderID := s.nextRenderID()
	logger := NewRenderLogger(renderID)
	logger.Printf("Rendering scene %s for %s\n", sceneObj.Name, c.RealIP())

	camera := renderer.NewCamera(cfg.CameraConfig())
	raytracer := renderer.NewRaytracer(sceneObj, camera, cfg.RenderConfig(), logger)

	frame, stats, err := raytracer.Render()
	if err != nil {
		logger.Printf("Render failed: %v\n", err)
		return errorResponse(c, http.StatusInternalServerError, err.Error())
	}

	var buf bytes.Buffer
	if err := ppm.Encode(&buf, frame, stats.SamplesPerPixel); err != nil {
		return errorResponse(c, http.StatusInternalServerError, err.Error())
	}

	if s.publisher != nil {
		name := fmt.Sprintf("%s/%s.ppm", sceneObj.Name, renderID)
		key, err := s.publisher.Publish(c.Request().Context(), name, buf.Bytes())
		if err != nil {
			logger.Printf("Publish failed: %v\n", err)
			return errorResponse(c, http.StatusBadGateway, "Publish failed: "+err.Error())
		}
		c.Response().Header().Set(RenderKeyHeader, key)
	}

	c.Response().Header().Set("X-Render-Id", renderID)
	c.Response().Header().Set("X-Render-Duration", stats.Duration.Round(time.Millisecond).String())
	return c.Blob(http.StatusOK, ppm.ContentType, buf.Bytes())
}

// createScene validates the configuration and builds the requested scene
func createScene(cfg config.Config) (*scene.Scene, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	sceneObj, err := scene.Create(cfg.Scene)
	if err != nil {
		return nil, err
	}
	if err := sceneObj.Validate(); err != nil {
		return nil, err
	}
	return sceneObj, nil
}

// statusFor maps configuration errors to client errors
func statusFor(err error) int {
	if errors.Is(err, config.ErrInvalid) || errors.Is(err, scene.ErrUnknownScene) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

package server

import (
	"math"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/df07/go-band-raytracer/pkg/core"
	"github.com/df07/go-band-raytracer/pkg/geometry"
	"github.com/df07/go-band-raytracer/pkg/integrator"
	"github.com/df07/go-band-raytracer/pkg/material"
	"github.com/df07/go-band-raytracer/pkg/renderer"
	"github.com/df07/go-band-raytracer/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	MaterialType string                 `json:"materialType,omitempty"`
	GeometryType string                 `json:"geometryType,omitempty"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance"`
	Properties   map[string]interface{} `json:"properties,omitempty"`
}

// InspectResult contains the first object hit by an inspection ray
type InspectResult struct {
	Hit       bool
	HitRecord *core.HitRecord
	Shape     core.Hittable // The shape that was hit
}

func toArray(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

// extractMaterialInfo describes a material with type assertions
func extractMaterialInfo(mat core.Material) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch m := mat.(type) {
	case *material.Lambertian:
		properties["albedo"] = toArray(m.Albedo)
		return "lambertian", properties
	case *material.Metal:
		properties["albedo"] = toArray(m.Albedo)
		return "metal", properties
	default:
		return "unknown", properties
	}
}

// extractGeometryInfo describes a shape
func extractGeometryInfo(shape core.Hittable) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch geom := shape.(type) {
	case *geometry.Sphere:
		properties["center"] = toArray(geom.Center)
		properties["radius"] = geom.Radius
		return "sphere", properties
	default:
		return "unknown", properties
	}
}

// inspectPixel casts a ray through the center of pixel (x, y), y counted from the top scanline,
// and returns the first object hit
func inspectPixel(sceneObj *scene.Scene, camera *renderer.Camera, width, height, x, y int) InspectResult {
	u := (float64(x) + 0.5) / float64(width-1)
	v := (float64(height-1-y) + 0.5) / float64(height-1)
	ray := camera.GetRay(u, v)

	hit, isHit := sceneObj.Hit(ray, integrator.HitEpsilon, math.Inf(1))
	if !isHit {
		return InspectResult{Hit: false}
	}

	// The scene returns only the record; find the shape with the same intersection
	for _, shape := range sceneObj.Shapes {
		if shapeHit, ok := shape.Hit(ray, integrator.HitEpsilon, math.Inf(1)); ok && shapeHit.T == hit.T {
			return InspectResult{Hit: true, HitRecord: hit, Shape: shape}
		}
	}

	return InspectResult{Hit: true, HitRecord: hit}
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(c echo.Context) error {
	req, err := s.parseRenderRequest(c)
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, "Invalid scene parameters: "+err.Error())
	}
	// Inspection casts a single ray, so any band setting is acceptable
	req.Bands = 1

	cfg := req.Config(s.defaults)
	sceneObj, err := createScene(cfg)
	if err != nil {
		return errorResponse(c, statusFor(err), err.Error())
	}

	pixelX, err := strconv.Atoi(c.QueryParam("x"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, "Invalid x coordinate")
	}
	pixelY, err := strconv.Atoi(c.QueryParam("y"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, "Invalid y coordinate")
	}

	width, height := cfg.Width, cfg.Height()
	if pixelX < 0 || pixelX >= width || pixelY < 0 || pixelY >= height {
		return errorResponse(c, http.StatusBadRequest, "Pixel coordinates out of bounds")
	}

	camera := renderer.NewCamera(cfg.CameraConfig())
	result := inspectPixel(sceneObj, camera, width, height, pixelX, pixelY)
	if !result.Hit {
		return c.JSON(http.StatusOK, InspectResponse{Hit: false})
	}

	materialType, materialProps := extractMaterialInfo(result.HitRecord.Material)
	geometryType, geometryProps := extractGeometryInfo(result.Shape)

	return c.JSON(http.StatusOK, InspectResponse{
		Hit:          true,
		MaterialType: materialType,
		GeometryType: geometryType,
		Point:        toArray(result.HitRecord.Point),
		Normal:       toArray(result.HitRecord.Normal),
		Distance:     result.HitRecord.T,
		Properties: map[string]interface{}{
			"material": materialProps,
			"geometry": geometryProps,
		},
	})
}

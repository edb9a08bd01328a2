package scene

import (
	"errors"
	"fmt"

	"github.com/df07/go-band-raytracer/pkg/core"
	"github.com/df07/go-band-raytracer/pkg/geometry"
)

// ErrInvalidScene is returned when a scene cannot be rendered
var ErrInvalidScene = errors.New("invalid scene")

// Scene is an insertion-ordered collection of shapes.
// A scene must not be modified once rendering has started; concurrent Hit calls rely on it.
type Scene struct {
	Name   string
	Shapes []core.Hittable
}

// New creates an empty scene
func New(name string) *Scene {
	return &Scene{Name: name, Shapes: make([]core.Hittable, 0)}
}

// Add appends shapes to the scene
func (s *Scene) Add(shapes ...core.Hittable) {
	s.Shapes = append(s.Shapes, shapes...)
}

// Hit returns the nearest intersection across all shapes within (tMin, tMax)
func (s *Scene) Hit(ray core.Ray, tMin, tMax float64) (*core.HitRecord, bool) {
	var closestHit *core.HitRecord
	closestSoFar := tMax

	for _, shape := range s.Shapes {
		// Narrowing tMax means a farther shape can never replace a nearer hit
		if hit, isHit := shape.Hit(ray, tMin, closestSoFar); isHit {
			closestSoFar = hit.T
			closestHit = hit
		}
	}

	return closestHit, closestHit != nil
}

// Validate checks that every shape can be rendered
func (s *Scene) Validate() error {
	for i, shape := range s.Shapes {
		switch obj := shape.(type) {
		case nil:
			return fmt.Errorf("%w: shape %d is nil", ErrInvalidScene, i)
		case *geometry.Sphere:
			if obj == nil {
				return fmt.Errorf("%w: shape %d is nil", ErrInvalidScene, i)
			}
			if obj.Radius <= 0 {
				return fmt.Errorf("%w: sphere %d has radius %g, must be positive", ErrInvalidScene, i, obj.Radius)
			}
			if obj.Material == nil {
				return fmt.Errorf("%w: sphere %d has no material", ErrInvalidScene, i)
			}
		}
	}
	return nil
}

// GetPrimitiveCount returns the total number of primitive objects in the scene
func (s *Scene) GetPrimitiveCount() int {
	return len(s.Shapes)
}

package integrator

import (
	"github.com/df07/go-band-raytracer/pkg/core"
)

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// RayColor computes the color carried back along a camera ray
	RayColor(ray core.Ray, world core.Hittable, sampler core.Sampler) core.Vec3
}

package integrator

import (
	"math"

	"github.com/df07/go-band-raytracer/pkg/core"
)

// HitEpsilon is the minimum ray parameter accepted for a hit, which suppresses shadow acne
const HitEpsilon = 0.001

var (
	// White is the background color straight down
	White = core.NewVec3(1.0, 1.0, 1.0)
	// SkyBlue is the background color straight up
	SkyBlue = core.NewVec3(0.5, 0.7, 1.0)
)

// PathTracingIntegrator implements recursive unidirectional path tracing
type PathTracingIntegrator struct {
	maxDepth int
}

// NewPathTracingIntegrator creates a new path tracing integrator
func NewPathTracingIntegrator(maxDepth int) *PathTracingIntegrator {
	return &PathTracingIntegrator{maxDepth: maxDepth}
}

// MaxDepth returns the bounce limit used by RayColor
func (pt *PathTracingIntegrator) MaxDepth() int {
	return pt.maxDepth
}

// RayColor computes the color for a camera ray with the configured bounce limit
func (pt *PathTracingIntegrator) RayColor(ray core.Ray, world core.Hittable, sampler core.Sampler) core.Vec3 {
	return pt.Trace(ray, world, sampler, pt.maxDepth)
}

// Trace returns the color for a ray with depth bounces remaining
func (pt *PathTracingIntegrator) Trace(ray core.Ray, world core.Hittable, sampler core.Sampler, depth int) core.Vec3 {
	// If we've exceeded the ray bounce limit, no more light is gathered
	if depth <= 0 {
		return core.Vec3{}
	}

	hit, isHit := world.Hit(ray, HitEpsilon, math.Inf(1))
	if !isHit {
		return BackgroundGradient(ray)
	}

	scatter, didScatter := hit.Material.Scatter(ray, *hit, sampler)
	if !didScatter {
		return core.Vec3{} // Material absorbed the ray
	}

	return scatter.Attenuation.MultiplyVec(pt.Trace(scatter.Scattered, world, sampler, depth-1))
}

// BackgroundGradient returns the sky color seen along a ray that escapes the scene
func BackgroundGradient(r core.Ray) core.Vec3 {
	unitDirection := r.Direction.Normalize()

	// Map y from [-1,1] to [0,1]
	t := 0.5 * (unitDirection.Y + 1.0)
	return White.Lerp(SkyBlue, t)
}

package core

// Logger interface for raytracer logging
type Logger interface {
	Printf(format string, args ...interface{})
}

// HitRecord contains information about a ray-object intersection
type HitRecord struct {
	Point    Vec3     // Point of intersection
	Normal   Vec3     // Outward unit normal at the intersection
	T        float64  // Parameter t along the ray
	Material Material // Material of the hit object
}

// ScatterResult contains the result of material scattering
type ScatterResult struct {
	Scattered   Ray  // The scattered ray
	Attenuation Vec3 // Color attenuation
}

// Material interface for surfaces that can scatter rays.
// Implementations must be safe for concurrent read-only use.
type Material interface {
	// Scatter returns the outgoing ray and attenuation, or false if the ray is absorbed
	Scatter(rayIn Ray, hit HitRecord, sampler Sampler) (ScatterResult, bool)
}

// Hittable is anything that answers nearest-hit queries over an open interval (tMin, tMax)
type Hittable interface {
	Hit(ray Ray, tMin, tMax float64) (*HitRecord, bool)
}

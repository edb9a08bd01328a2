package core

import (
	"math/rand/v2"
)

// Sampler provides random sampling for rendering algorithms
// Can be swapped out for deterministic testing or different sampling patterns
type Sampler interface {
	Get1D() float64
	Get3D() Vec3
}

// RandomSampler wraps a PCG generator. A RandomSampler must be confined to one goroutine.
type RandomSampler struct {
	source *rand.PCG
	random *rand.Rand
}

// NewRandomSampler creates a sampler seeded with the given stream
func NewRandomSampler(seed, stream uint64) *RandomSampler {
	source := rand.NewPCG(seed, stream)
	return &RandomSampler{source: source, random: rand.New(source)}
}

// Reseed restarts the sampler on a new stream without allocating
func (r *RandomSampler) Reseed(seed, stream uint64) {
	r.source.Seed(seed, stream)
}

// Get1D returns a random float64 in [0, 1)
func (r *RandomSampler) Get1D() float64 {
	return r.random.Float64()
}

// Get3D returns three random float64 values in [0, 1)
func (r *RandomSampler) Get3D() Vec3 {
	return NewVec3(r.random.Float64(), r.random.Float64(), r.random.Float64())
}

// RandomRange returns a random float64 in [min, max)
func RandomRange(sampler Sampler, minVal, maxVal float64) float64 {
	return minVal + (maxVal-minVal)*sampler.Get1D()
}

// SampleInUnitSphere returns a point uniformly distributed inside the unit sphere.
// Candidates with components in [-1, 1) are rejected until their squared length is below 1.
func SampleInUnitSphere(sampler Sampler) Vec3 {
	for {
		p := NewVec3(
			RandomRange(sampler, -1, 1),
			RandomRange(sampler, -1, 1),
			RandomRange(sampler, -1, 1),
		)
		if p.LengthSquared() < 1 {
			return p
		}
	}
}

package scene

import (
	"github.com/df07/go-band-raytracer/pkg/core"
	"github.com/df07/go-band-raytracer/pkg/geometry"
	"github.com/df07/go-band-raytracer/pkg/material"
)

// NewDefaultScene creates the four sphere scene: a large ground sphere,
// a diffuse center sphere and two metal spheres on either side
func NewDefaultScene() *Scene {
	s := New("default")

	materialGround := material.NewLambertian(core.NewVec3(0.8, 0.8, 0.0))
	materialCenter := material.NewLambertian(core.NewVec3(0.7, 0.3, 0.3))
	materialLeft := material.NewMetal(core.NewVec3(0.8, 0.8, 0.8))
	materialRight := material.NewMetal(core.NewVec3(0.8, 0.6, 0.2))

	s.Add(
		geometry.NewSphere(core.NewVec3(0.0, -100.5, -1.0), 100.0, materialGround),
		geometry.NewSphere(core.NewVec3(0.0, 0.0, -1.0), 0.5, materialCenter),
		geometry.NewSphere(core.NewVec3(-1.0, 0.0, -1.0), 0.5, materialLeft),
		geometry.NewSphere(core.NewVec3(1.0, 0.0, -1.0), 0.5, materialRight),
	)

	return s
}

// NewSingleSphereScene creates a diffuse sphere resting on the ground sphere
func NewSingleSphereScene() *Scene {
	s := New("single")

	materialGround := material.NewLambertian(core.NewVec3(0.8, 0.8, 0.0))
	materialCenter := material.NewLambertian(core.NewVec3(0.7, 0.3, 0.3))

	s.Add(
		geometry.NewSphere(core.NewVec3(0.0, -100.5, -1.0), 100.0, materialGround),
		geometry.NewSphere(core.NewVec3(0.0, 0.0, -1.0), 0.5, materialCenter),
	)

	return s
}

// NewSharedMaterialScene creates three metal spheres sharing a single material instance
func NewSharedMaterialScene() *Scene {
	s := New("mirrors")

	ground := material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))
	mirror := material.NewMetal(core.NewVec3(0.9, 0.9, 0.9))

	s.Add(geometry.NewSphere(core.NewVec3(0.0, -100.5, -1.0), 100.0, ground))
	for _, x := range []float64{-1.1, 0, 1.1} {
		s.Add(geometry.NewSphere(core.NewVec3(x, 0.0, -1.5), 0.5, mirror))
	}

	return s
}

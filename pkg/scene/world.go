package scene

import (
	"errors"
	"fmt"

	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
)

// SkyMaterial is the index of the material collected by rays that escape the scene
const SkyMaterial = 0

// ErrNoSky is returned by Validate when the world has no materials at all
var ErrNoSky = errors.New("world has no sky material")

// World is the immutable aggregate the path tracer renders. It is safe to share
// between workers once construction is finished.
type World struct {
	Materials  []material.Material
	Primitives []geometry.Primitive
	Lights     []PointLight
}

// NewWorld creates a world whose material 0 is the sky
func NewWorld(sky material.Material) *World {
	return &World{
		Materials:  []material.Material{sky},
		Primitives: make([]geometry.Primitive, 0),
		Lights:     make([]PointLight, 0),
	}
}

// AddMaterial appends a material and returns its index
func (w *World) AddMaterial(m material.Material) int {
	w.Materials = append(w.Materials, m)
	return len(w.Materials) - 1
}

// AddPrimitive adds primitives to the world
func (w *World) AddPrimitive(primitives ...geometry.Primitive) {
	w.Primitives = append(w.Primitives, primitives...)
}

// AddLight adds point lights to the world
func (w *World) AddLight(lights ...PointLight) {
	w.Lights = append(w.Lights, lights...)
}

// AddMesh adds every non-degenerate triangle of the mesh and returns how many were skipped
func (w *World) AddMesh(mesh *geometry.Mesh) int {
	triangles, skipped := mesh.Triangles()
	for _, tri := range triangles {
		w.Primitives = append(w.Primitives, tri)
	}
	return skipped
}

// Sky returns material 0
func (w *World) Sky() material.Material {
	return w.Materials[SkyMaterial]
}

// Material returns the material at index i. An out-of-range index is a programming
// error; Validate reports it before rendering.
func (w *World) Material(i int) material.Material {
	if i < 0 || i >= len(w.Materials) {
		panic(fmt.Sprintf("material index %d out of range [0, %d)", i, len(w.Materials)))
	}
	return w.Materials[i]
}

// Validate checks that the sky exists and every primitive references a known material
func (w *World) Validate() error {
	if len(w.Materials) == 0 {
		return ErrNoSky
	}
	for i, p := range w.Primitives {
		if p == nil {
			return fmt.Errorf("primitive %d is nil", i)
		}
		if idx := p.MaterialIndex(); idx < 0 || idx >= len(w.Materials) {
			return fmt.Errorf("primitive %d (%T) references material %d, world has %d materials", i, p, idx, len(w.Materials))
		}
	}
	for i, l := range w.Lights {
		if !l.Position.IsFinite() || !l.Color.IsFinite() {
			return fmt.Errorf("light %d has non-finite position or color", i)
		}
	}
	return nil
}

// Stats returns a one-line description of the world contents
func (w *World) Stats() string {
	return fmt.Sprintf("%d materials, %d primitives, %d lights", len(w.Materials), len(w.Primitives), len(w.Lights))
}

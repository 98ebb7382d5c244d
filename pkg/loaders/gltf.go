package loaders

import (
	"encoding/binary"
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/qmuntal/gltf"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
)

// LoadGLTF loads a .gltf or .glb file. Every triangle primitive becomes one mesh; the
// document's PBR materials are converted in order, so a primitive's material index
// carries over unchanged. Node transforms are not applied.
func LoadGLTF(path string) (*Model, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	model, err := processDocument(doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	model.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return model, nil
}

// processDocument converts an already decoded glTF document
func processDocument(doc *gltf.Document) (*Model, error) {
	model := &Model{
		Materials: make([]material.Material, 0, len(doc.Materials)),
	}

	for _, m := range doc.Materials {
		model.Materials = append(model.Materials, convertMaterial(m))
	}

	for meshIndex, m := range doc.Meshes {
		for primIndex, prim := range m.Primitives {
			mesh, err := processPrimitive(doc, prim, len(model.Materials))
			if err != nil {
				return nil, fmt.Errorf("mesh %d (%q) primitive %d: %w", meshIndex, m.Name, primIndex, err)
			}
			if mesh == nil {
				continue
			}
			mesh.Name = m.Name
			model.Meshes = append(model.Meshes, mesh)
		}
	}

	if len(model.Meshes) == 0 {
		return nil, fmt.Errorf("no triangle primitives found")
	}
	return model, nil
}

// processPrimitive extracts geometry from one primitive. Non-triangle primitives and
// primitives without positions return nil.
func processPrimitive(doc *gltf.Document, prim *gltf.Primitive, materialCount int) (*geometry.Mesh, error) {
	if prim.Mode != gltf.PrimitiveTriangles {
		return nil, nil
	}

	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil, nil
	}

	positions, err := readVec3Accessor(doc, posIdx)
	if err != nil {
		return nil, fmt.Errorf("read positions: %w", err)
	}

	mesh := &geometry.Mesh{
		Vertices: positions,
		Material: NoMaterial,
	}
	if prim.Material != nil && *prim.Material >= 0 && *prim.Material < materialCount {
		mesh.Material = *prim.Material
	}

	if prim.Indices != nil {
		indices, err := readIndices(doc, *prim.Indices)
		if err != nil {
			return nil, fmt.Errorf("read indices: %w", err)
		}
		for _, index := range indices {
			if index >= len(positions) {
				return nil, fmt.Errorf("index %d out of range (%d vertices)", index, len(positions))
			}
		}
		mesh.Faces = indices[:len(indices)-len(indices)%3]
	} else {
		// No indices: consecutive vertex triples
		mesh.Faces = make([]int, 0, len(positions)-len(positions)%3)
		for i := 0; i+2 < len(positions); i += 3 {
			mesh.Faces = append(mesh.Faces, i, i+1, i+2)
		}
	}

	return mesh, nil
}

// convertMaterial maps glTF metallic-roughness parameters, using the glTF defaults
// (white base, fully metallic, fully rough) for absent factors
func convertMaterial(m *gltf.Material) material.Material {
	base := core.NewVec3(1, 1, 1)
	metallic, roughness := 1.0, 1.0

	if pbr := m.PBRMetallicRoughness; pbr != nil {
		if pbr.BaseColorFactor != nil {
			f := *pbr.BaseColorFactor
			base = core.NewVec3(f[0], f[1], f[2])
		}
		if pbr.MetallicFactor != nil {
			metallic = *pbr.MetallicFactor
		}
		if pbr.RoughnessFactor != nil {
			roughness = *pbr.RoughnessFactor
		}
	}

	emission := core.NewVec3(m.EmissiveFactor[0], m.EmissiveFactor[1], m.EmissiveFactor[2])
	return material.NewMaterial(base, emission, roughness, metallic)
}

// readVec3Accessor reads float VEC3 data from a glTF accessor
func readVec3Accessor(doc *gltf.Document, accessorIdx int) ([]core.Vec3, error) {
	if accessorIdx < 0 || accessorIdx >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", accessorIdx)
	}
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorVec3 {
		return nil, fmt.Errorf("expected VEC3, got %v", accessor.Type)
	}
	if accessor.ComponentType != gltf.ComponentFloat {
		return nil, fmt.Errorf("expected float components, got %v", accessor.ComponentType)
	}

	data, start, stride, err := accessorBytes(doc, accessor, 12)
	if err != nil {
		return nil, err
	}

	result := make([]core.Vec3, accessor.Count)
	for i := range result {
		offset := start + i*stride
		result[i] = core.NewVec3(
			float64(math.Float32frombits(binary.LittleEndian.Uint32(data[offset:]))),
			float64(math.Float32frombits(binary.LittleEndian.Uint32(data[offset+4:]))),
			float64(math.Float32frombits(binary.LittleEndian.Uint32(data[offset+8:]))),
		)
	}
	return result, nil
}

// readIndices reads unsigned scalar index data from a glTF accessor
func readIndices(doc *gltf.Document, accessorIdx int) ([]int, error) {
	if accessorIdx < 0 || accessorIdx >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", accessorIdx)
	}
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorScalar {
		return nil, fmt.Errorf("expected SCALAR, got %v", accessor.Type)
	}

	var size int
	switch accessor.ComponentType {
	case gltf.ComponentUbyte:
		size = 1
	case gltf.ComponentUshort:
		size = 2
	case gltf.ComponentUint:
		size = 4
	default:
		return nil, fmt.Errorf("unexpected index component type: %v", accessor.ComponentType)
	}

	data, start, stride, err := accessorBytes(doc, accessor, size)
	if err != nil {
		return nil, err
	}

	result := make([]int, accessor.Count)
	for i := range result {
		offset := start + i*stride
		switch size {
		case 1:
			result[i] = int(data[offset])
		case 2:
			result[i] = int(binary.LittleEndian.Uint16(data[offset:]))
		default:
			result[i] = int(binary.LittleEndian.Uint32(data[offset:]))
		}
	}
	return result, nil
}

// accessorBytes resolves the buffer backing an accessor and checks that count elements
// of elementSize bytes fit inside it
func accessorBytes(doc *gltf.Document, accessor *gltf.Accessor, elementSize int) ([]byte, int, int, error) {
	if accessor.BufferView == nil {
		return nil, 0, 0, fmt.Errorf("accessor has no buffer view")
	}
	if *accessor.BufferView < 0 || *accessor.BufferView >= len(doc.BufferViews) {
		return nil, 0, 0, fmt.Errorf("buffer view %d out of range", *accessor.BufferView)
	}

	bufferView := doc.BufferViews[*accessor.BufferView]
	if bufferView.Buffer < 0 || bufferView.Buffer >= len(doc.Buffers) {
		return nil, 0, 0, fmt.Errorf("buffer %d out of range", bufferView.Buffer)
	}
	data := doc.Buffers[bufferView.Buffer].Data
	if data == nil {
		return nil, 0, 0, fmt.Errorf("buffer %d has no data", bufferView.Buffer)
	}

	start := bufferView.ByteOffset + accessor.ByteOffset
	stride := bufferView.ByteStride
	if stride == 0 {
		stride = elementSize
	}

	if accessor.Count > 0 {
		end := start + (accessor.Count-1)*stride + elementSize
		if end > len(data) {
			return nil, 0, 0, fmt.Errorf("accessor reads %d bytes past the end of buffer", end-len(data))
		}
	}
	return data, start, stride, nil
}

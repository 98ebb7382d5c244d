package loaders

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
)

// LoadOBJFile loads a Wavefront OBJ file from disk
func LoadOBJFile(path string, materialIndex int) (*geometry.Mesh, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open OBJ file: %w", err)
	}
	defer file.Close()

	mesh, err := LoadOBJ(file, materialIndex)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	mesh.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return mesh, nil
}

// LoadOBJ reads vertex ("v") and face ("f") records. Face tokens may carry texture and
// normal references (v/vt/vn), which are ignored. Polygons are fan-triangulated keeping
// the file's counter-clockwise winding, so outward faces stay visible to the culled
// triangle test. Negative indices count back from the most recent vertex.
func LoadOBJ(r io.Reader, materialIndex int) (*geometry.Mesh, error) {
	mesh := &geometry.Mesh{Material: materialIndex}

	scanner := bufio.NewScanner(r)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: vertex needs 3 coordinates, got %d", lineNumber, len(fields)-1)
			}
			var coords [3]float64
			for i := range coords {
				value, err := strconv.ParseFloat(fields[i+1], 64)
				if err != nil {
					return nil, fmt.Errorf("line %d: invalid vertex coordinate %q", lineNumber, fields[i+1])
				}
				coords[i] = value
			}
			mesh.Vertices = append(mesh.Vertices, core.NewVec3(coords[0], coords[1], coords[2]))

		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: face needs at least 3 vertices, got %d", lineNumber, len(fields)-1)
			}
			indices := make([]int, 0, len(fields)-1)
			for _, token := range fields[1:] {
				index, err := parseFaceIndex(token, len(mesh.Vertices))
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNumber, err)
				}
				indices = append(indices, index)
			}
			for i := 1; i+1 < len(indices); i++ {
				mesh.Faces = append(mesh.Faces, indices[0], indices[i], indices[i+1])
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read OBJ data: %w", err)
	}
	return mesh, nil
}

// parseFaceIndex converts the vertex part of a face token to a zero-based index
func parseFaceIndex(token string, vertexCount int) (int, error) {
	if slash := strings.IndexByte(token, '/'); slash >= 0 {
		token = token[:slash]
	}
	index, err := strconv.Atoi(token)
	if err != nil {
		return 0, fmt.Errorf("invalid face index %q", token)
	}

	switch {
	case index > 0:
		index--
	case index < 0:
		index += vertexCount
	default:
		return 0, fmt.Errorf("face index 0 is not valid")
	}

	if index < 0 || index >= vertexCount {
		return 0, fmt.Errorf("face index %s out of range (%d vertices defined)", token, vertexCount)
	}
	return index, nil
}

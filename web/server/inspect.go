package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit           bool                   `json:"hit"`
	GeometryType  string                 `json:"geometryType"`
	MaterialIndex int                    `json:"materialIndex"`
	Point         [3]float64             `json:"point"`
	Normal        [3]float64             `json:"normal"`
	Distance      float64                `json:"distance"`
	Properties    map[string]interface{} `json:"properties"`
}

// extractMaterialInfo describes a material for the inspector
func extractMaterialInfo(mat material.Material) map[string]interface{} {
	srgb := material.LinearToSRGB(mat.BaseColor)
	return map[string]interface{}{
		"baseColor": vecArray(mat.BaseColor),
		"emission":  vecArray(mat.Emission),
		"roughness": mat.Roughness,
		"metallic":  mat.Metallic,
		"emissive":  mat.IsEmissive(),
		"color":     fmt.Sprintf("#%06x", material.PackRGB(srgb)),
	}
}

// extractGeometryInfo describes a primitive for the inspector
func extractGeometryInfo(p geometry.Primitive) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch geom := p.(type) {
	case *geometry.Sphere:
		properties["center"] = vecArray(geom.Center)
		properties["radius"] = geom.Radius
		return "sphere", properties

	case *geometry.Plane:
		properties["point"] = vecArray(geom.Point)
		properties["normal"] = vecArray(geom.Normal)
		properties["culled"] = geom.Culled
		return "plane", properties

	case *geometry.Triangle:
		properties["vertices"] = [3][3]float64{vecArray(geom.V0), vecArray(geom.V1), vecArray(geom.V2)}
		properties["centroid"] = vecArray(geom.Centroid())
		return "triangle", properties

	default:
		return "unknown", properties
	}
}

// inspectPixel casts an unjittered ray through the pixel and reports the first surface hit
func inspectPixel(sceneObj *scene.Scene, width, height, pixelX, pixelY int) (integrator.SurfaceHit, bool, error) {
	camera, err := sceneObj.NewCamera()
	if err != nil {
		return integrator.SurfaceHit{}, false, err
	}
	ray := camera.RayThrough(camera.ScreenPointToProjectionPlane(pixelX, width, pixelY, height))
	hit, ok := integrator.FirstHit(sceneObj.World, ray)
	return hit, ok, nil
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	req, sceneObj, err := s.parseRenderRequest(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid scene parameters: " + err.Error()})
		return
	}

	// Parse pixel coordinates
	pixelX, err := strconv.Atoi(r.URL.Query().Get("x"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid x coordinate"})
		return
	}
	pixelY, err := strconv.Atoi(r.URL.Query().Get("y"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid y coordinate"})
		return
	}

	// Validate pixel coordinates
	if pixelX < 0 || pixelX >= req.Width || pixelY < 0 || pixelY >= req.Height {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Pixel coordinates out of bounds"})
		return
	}

	hit, ok, err := inspectPixel(sceneObj, req.Width, req.Height, pixelX, pixelY)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if !ok {
		writeJSON(w, http.StatusOK, InspectResponse{Hit: false, MaterialIndex: scene.SkyMaterial})
		return
	}

	geometryType, geometryProps := extractGeometryInfo(hit.Primitive)
	response := InspectResponse{
		Hit:           true,
		GeometryType:  geometryType,
		MaterialIndex: hit.MaterialIndex,
		Point:         vecArray(hit.Point),
		Normal:        vecArray(hit.Normal),
		Distance:      hit.T,
		Properties: map[string]interface{}{
			"material": extractMaterialInfo(sceneObj.World.Material(hit.MaterialIndex)),
			"geometry": geometryProps,
		},
	}
	writeJSON(w, http.StatusOK, response)
}

func vecArray(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

package geometry

import (
	"fmt"
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// CameraConfig contains all camera configuration parameters
type CameraConfig struct {
	Position      core.Vec3 // Camera position in world space
	Target        core.Vec3 // Point the camera looks at
	PlaneDistance float64   // Distance from the camera to the projection plane
}

// MergeCameraConfig returns base with every non-zero field of override applied
func MergeCameraConfig(base, override CameraConfig) CameraConfig {
	result := base
	if !override.Position.IsZero() {
		result.Position = override.Position
	}
	if !override.Target.IsZero() {
		result.Target = override.Target
	}
	if override.PlaneDistance != 0 {
		result.PlaneDistance = override.PlaneDistance
	}
	return result
}

// Camera maps pixel coordinates to points on a projection plane in front of it
type Camera struct {
	Position core.Vec3
	Look     core.Vec3 // Unit look direction
	Right    core.Vec3 // Unit right vector, look × world up
	Up       core.Vec3 // Unit up vector, right × look
	Anchor   core.Vec3 // Center of the projection plane
}

// NewCamera builds the camera basis. It fails when the target equals the position or
// the look direction is parallel to the world up axis, since no basis exists then.
func NewCamera(config CameraConfig) (*Camera, error) {
	toTarget := config.Target.Subtract(config.Position)
	if toTarget.LengthSquared() < 1e-18 {
		return nil, fmt.Errorf("camera target %v equals position", config.Target)
	}
	if config.PlaneDistance <= 0 || math.IsNaN(config.PlaneDistance) {
		return nil, fmt.Errorf("camera plane distance must be positive, got %g", config.PlaneDistance)
	}

	look := toTarget.Normalize()
	right := look.Cross(core.UnitY)
	if right.LengthSquared() < 1e-12 {
		return nil, fmt.Errorf("camera look direction %v is parallel to the up axis", look)
	}
	right = right.Normalize()
	up := right.Cross(look).Normalize()

	return &Camera{
		Position: config.Position,
		Look:     look,
		Right:    right,
		Up:       up,
		Anchor:   config.Position.Add(look.Multiply(config.PlaneDistance)),
	}, nil
}

// ScreenPointToProjectionPlane maps pixel (x, y) of a width×height image to a world-space
// point on the projection plane. Row 0 is the top of the image.
func (c *Camera) ScreenPointToProjectionPlane(x, width, y, height int) core.Vec3 {
	filmX := normalizedCoordinate(x, width) * float64(width) / float64(height)
	filmY := -normalizedCoordinate(y, height)
	return c.Anchor.Add(c.Right.Multiply(filmX)).Add(c.Up.Multiply(filmY))
}

// normalizedCoordinate maps [0, n-1] to [-1, 1]; a single-pixel axis maps to 0
func normalizedCoordinate(i, n int) float64 {
	if n <= 1 {
		return 0
	}
	return 2*float64(i)/float64(n-1) - 1
}

// RayThrough returns the ray from the camera position through a point on the plane
func (c *Camera) RayThrough(point core.Vec3) core.Ray {
	return core.NewRay(c.Position, point.Subtract(c.Position).Normalize())
}

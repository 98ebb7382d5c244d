package geometry

import (
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
)

func newTestCamera(t *testing.T) *Camera {
	t.Helper()
	camera, err := NewCamera(CameraConfig{
		Position:      core.NewVec3(0, 0, 0),
		Target:        core.NewVec3(0, 0, -1),
		PlaneDistance: 1,
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	return camera
}

func TestNewCamera_Basis(t *testing.T) {
	camera := newTestCamera(t)

	tests := []struct {
		name     string
		got      core.Vec3
		expected core.Vec3
	}{
		{"look", camera.Look, core.NewVec3(0, 0, -1)},
		{"right", camera.Right, core.UnitX},
		{"up", camera.Up, core.UnitY},
		{"anchor", camera.Anchor, core.NewVec3(0, 0, -1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got.Subtract(tt.expected).Length() > tolerance {
				t.Errorf("Expected %v, got %v", tt.expected, tt.got)
			}
		})
	}
}

func TestNewCamera_Degenerate(t *testing.T) {
	tests := []struct {
		name   string
		config CameraConfig
	}{
		{"target equals position", CameraConfig{Position: core.NewVec3(1, 1, 1), Target: core.NewVec3(1, 1, 1), PlaneDistance: 1}},
		{"looking straight down", CameraConfig{Position: core.NewVec3(0, 5, 0), Target: core.NewVec3(0, 0, 0), PlaneDistance: 1}},
		{"zero plane distance", CameraConfig{Position: core.NewVec3(0, 0, 5), Target: core.NewVec3(0, 0, 0)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewCamera(tt.config); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}
}

func TestCamera_ScreenPointToProjectionPlane(t *testing.T) {
	camera := newTestCamera(t)

	tests := []struct {
		name          string
		x, w, y, h    int
		expectedPoint core.Vec3
	}{
		{"top left", 0, 3, 0, 3, core.NewVec3(-1, 1, -1)},
		{"center", 1, 3, 1, 3, core.NewVec3(0, 0, -1)},
		{"bottom right", 2, 3, 2, 3, core.NewVec3(1, -1, -1)},
		{"aspect scaled", 3, 4, 1, 2, core.NewVec3(2, -1, -1)},
		{"single pixel", 0, 1, 0, 1, core.NewVec3(0, 0, -1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := camera.ScreenPointToProjectionPlane(tt.x, tt.w, tt.y, tt.h)
			if p.Subtract(tt.expectedPoint).Length() > tolerance {
				t.Errorf("Expected %v, got %v", tt.expectedPoint, p)
			}
		})
	}
}

func TestCamera_RayThrough(t *testing.T) {
	camera := newTestCamera(t)
	ray := camera.RayThrough(core.NewVec3(0, 0, -1))
	if ray.Origin != camera.Position {
		t.Errorf("Expected origin %v, got %v", camera.Position, ray.Origin)
	}
	if ray.Direction.Subtract(core.NewVec3(0, 0, -1)).Length() > tolerance {
		t.Errorf("Expected direction (0, 0, -1), got %v", ray.Direction)
	}
}

func TestMergeCameraConfig(t *testing.T) {
	base := CameraConfig{Position: core.NewVec3(0, 0, 5), Target: core.NewVec3(0, 0, 0), PlaneDistance: 1}
	merged := MergeCameraConfig(base, CameraConfig{PlaneDistance: 2})

	if merged.Position != base.Position || merged.Target != base.Target {
		t.Errorf("Expected position and target to be kept, got %+v", merged)
	}
	if merged.PlaneDistance != 2 {
		t.Errorf("Expected plane distance 2, got %f", merged.PlaneDistance)
	}
}

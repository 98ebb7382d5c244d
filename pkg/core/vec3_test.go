package core

import (
	"math"
	"math/rand"
	"testing"
)

const tolerance = 1e-9

func TestVec3_NormalizeLength(t *testing.T) {
	vectors := []Vec3{
		NewVec3(1, 1, 1),
		NewVec3(42, 42, 42),
		NewVec3(-3, 0.5, 7),
		NewVec3(1e-6, 0, 0),
		NewVec3(0, -9000, 1),
	}

	for _, v := range vectors {
		length := v.Normalize().Length()
		if math.Abs(length-1) > tolerance {
			t.Errorf("Expected |normalize(%v)| = 1, got %f", v, length)
		}
	}
}

func TestVec3_NormalizeZero(t *testing.T) {
	n := Vec3{}.Normalize()
	if !n.IsZero() {
		t.Errorf("Expected zero vector, got %v", n)
	}
	if !n.IsFinite() {
		t.Errorf("Expected finite result for zero-length normalize, got %v", n)
	}
}

func TestVec3_DotSelfIsLengthSquared(t *testing.T) {
	random := rand.New(rand.NewSource(42))
	for i := 0; i < 100; i++ {
		v := NewVec3(random.Float64()*10-5, random.Float64()*10-5, random.Float64()*10-5)
		length := v.Length()
		if math.Abs(v.Dot(v)-length*length) > 1e-9 {
			t.Errorf("Expected dot(v,v) = |v|^2 for %v, got %f vs %f", v, v.Dot(v), length*length)
		}
		if math.Abs(v.LengthSquared()-v.Dot(v)) > 1e-12 {
			t.Errorf("Expected LengthSquared to match dot(v,v) for %v", v)
		}
	}
}

func TestVec3_CrossAntiCommutative(t *testing.T) {
	random := rand.New(rand.NewSource(7))
	for i := 0; i < 100; i++ {
		u := NewVec3(random.Float64(), random.Float64(), random.Float64())
		v := NewVec3(random.Float64(), random.Float64(), random.Float64())
		sum := u.Cross(v).Add(v.Cross(u))
		if sum.Length() > tolerance {
			t.Errorf("Expected cross(u,v) = -cross(v,u), residual %v", sum)
		}
	}
}

func TestVec3_CrossBasis(t *testing.T) {
	if got := UnitX.Cross(UnitY); got != UnitZ {
		t.Errorf("Expected X × Y = Z, got %v", got)
	}
	if got := UnitY.Cross(UnitZ); got != UnitX {
		t.Errorf("Expected Y × Z = X, got %v", got)
	}
}

func TestVec3_Operations(t *testing.T) {
	u := NewVec3(1, 2, 3)
	v := NewVec3(4, 5, 6)

	tests := []struct {
		name     string
		result   Vec3
		expected Vec3
	}{
		{"add", u.Add(v), NewVec3(5, 7, 9)},
		{"subtract", v.Subtract(u), NewVec3(3, 3, 3)},
		{"multiply", u.Multiply(2), NewVec3(2, 4, 6)},
		{"divide", v.Divide(2), NewVec3(2, 2.5, 3)},
		{"elementwise", u.MultiplyVec(v), NewVec3(4, 10, 18)},
		{"components", u.AddComponents(0.5, -1, 0), NewVec3(1.5, 1, 3)},
		{"negate", u.Negate(), NewVec3(-1, -2, -3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.result.Subtract(tt.expected).Length() > tolerance {
				t.Errorf("Expected %v, got %v", tt.expected, tt.result)
			}
		})
	}

	if got := u.Dot(v); got != 32 {
		t.Errorf("Expected dot 32, got %f", got)
	}
}

func TestVec3_Reflect(t *testing.T) {
	d := NewVec3(1, -1, 0).Normalize()
	r := d.Reflect(UnitY)
	expected := NewVec3(1, 1, 0).Normalize()
	if r.Subtract(expected).Length() > tolerance {
		t.Errorf("Expected reflection %v, got %v", expected, r)
	}
}

func TestVec3_IsFinite(t *testing.T) {
	if NewVec3(math.NaN(), 0, 0).IsFinite() {
		t.Error("Expected NaN vector to be reported as non-finite")
	}
	if NewVec3(0, math.Inf(1), 0).IsFinite() {
		t.Error("Expected Inf vector to be reported as non-finite")
	}
	if !NewVec3(1, 2, 3).IsFinite() {
		t.Error("Expected regular vector to be finite")
	}
}

func TestRay_At(t *testing.T) {
	ray := NewRay(NewVec3(0, 5, 0), NewVec3(0, -1, 0))
	p := ray.At(2.5)
	if p != NewVec3(0, 2.5, 0) {
		t.Errorf("Expected (0, 2.5, 0), got %v", p)
	}
}

func TestRandomUnitVector(t *testing.T) {
	random := rand.New(rand.NewSource(42))
	var mean Vec3
	const n = 20000
	for i := 0; i < n; i++ {
		v := RandomUnitVector(random)
		if math.Abs(v.Length()-1) > 1e-9 {
			t.Fatalf("Expected unit length, got %f", v.Length())
		}
		mean = mean.Add(v)
	}
	mean = mean.Divide(n)
	// A uniform distribution on the sphere has zero mean
	if mean.Length() > 0.03 {
		t.Errorf("Expected mean close to zero, got %v", mean)
	}
}

func TestRandomOffset(t *testing.T) {
	random := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		o := RandomOffset(random, 0.25)
		if o < -0.25 || o >= 0.25 {
			t.Fatalf("Expected offset in [-0.25, 0.25), got %f", o)
		}
	}
}

package types

import (
	"math"
	"testing"
)

func TestVec3Ops(t *testing.T) {
	v := XYZ(3, 0, 4)
	if v.Len() != 5 {
		t.Fatalf("expected len to be 5; got %f", v.Len())
	}

	n := v.Normalize()
	if !ApproxEqual(n, Vec3{0.6, 0, 0.8}, 1e-6) {
		t.Fatalf("expected normalized vector to be (0.6, 0, 0.8); got %v", n)
	}

	if z := (Vec3{}).Normalize(); z != (Vec3{}) {
		t.Fatalf("expected zero vector normalization to return a zero vector; got %v", z)
	}

	cross := XYZ(1, 0, 0).Cross(XYZ(0, 1, 0))
	if cross != XYZ(0, 0, 1) {
		t.Fatalf("expected x cross y to be z; got %v", cross)
	}

	// Reflect a vector travelling down onto a floor
	r := XYZ(1, -1, 0).Reflect(XYZ(0, 1, 0))
	if r != XYZ(1, 1, 0) {
		t.Fatalf("expected reflected vector to be (1, 1, 0); got %v", r)
	}

	if m := XYZ(-1, 7, 3).MaxComponent(); m != 7 {
		t.Fatalf("expected max component to be 7; got %f", m)
	}
}

func TestLerp(t *testing.T) {
	type spec struct {
		t   float32
		exp Vec4
	}
	a := XYZW(0, 0, 0, 1)
	b := XYZW(2, 4, -2, 3)
	specs := []spec{
		{0, a},
		{1, b},
		{0.5, XYZW(1, 2, -1, 2)},
	}

	for idx, s := range specs {
		out := a.Lerp(b, s.t)
		if !ApproxEqual(out, s.exp, 1e-6) {
			t.Fatalf("[spec %d] expected lerp to return %v; got %v", idx, s.exp, out)
		}
	}
}

func TestMatrixTransforms(t *testing.T) {
	type spec struct {
		m      Mat4
		in     Vec4
		expOut Vec4
	}
	specs := []spec{
		{Ident4(), XYZW(1, 2, 3, 1), XYZW(1, 2, 3, 1)},
		{Translate4(XYZ(1, 0, -1)), XYZW(1, 2, 3, 1), XYZW(2, 2, 2, 1)},
		{Scale4(XYZ(2, 2, 2)), XYZW(1, 2, 3, 1), XYZW(2, 4, 6, 1)},
		{Viewport4(100, 50), XYZW(-1, -1, 0.5, 1), XYZW(0, 0, 0.5, 1)},
		{Viewport4(100, 50), XYZW(1, 1, 0, 1), XYZW(100, 50, 0, 1)},
		{QuatFromEuler(0, 90, 0).Mat4(), XYZW(1, 0, 0, 1), XYZW(0, 0, -1, 1)},
	}

	for idx, s := range specs {
		out := s.m.Mul4x1(s.in)
		if !ApproxEqual(out, s.expOut, 1e-5) {
			t.Fatalf("[spec %d] expected transformed vector to be %v; got %v", idx, s.expOut, out)
		}
	}
}

func TestNormalMatrix(t *testing.T) {
	// Non-uniform scale must keep normals perpendicular to the surface.
	model := Scale4(XYZ(4, 1, 1))
	nm := model.NormalMatrix()

	// The plane x = y has normal (1, -1, 0); after scaling x by 4 the plane
	// becomes x = 4y with normal (1, -4, 0) up to scale.
	n := nm.Mul3x1(XYZ(1, -1, 0)).Normalize()
	exp := XYZ(1, -4, 0).Normalize()
	if !ApproxEqual(n, exp, 1e-5) {
		t.Fatalf("expected transformed normal to be %v; got %v", exp, n)
	}
}

func TestPerspectiveMapsNearAndFar(t *testing.T) {
	proj := Perspective4(90, 1, 1, 10)

	near := proj.Mul4x1(XYZW(0, 0, -1, 1))
	if d := near[2] / near[3]; math.Abs(float64(d+1)) > 1e-5 {
		t.Fatalf("expected near plane to map to z=-1; got %f", d)
	}

	far := proj.Mul4x1(XYZW(0, 0, -10, 1))
	if d := far[2] / far[3]; math.Abs(float64(d-1)) > 1e-5 {
		t.Fatalf("expected far plane to map to z=1; got %f", d)
	}
}

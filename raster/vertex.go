package raster

import "github.com/achilleasa/softrast/types"

// Vertex holds the per-vertex input attributes. Positions are homogeneous
// with w=1.
type Vertex struct {
	Position types.Vec4
	Color    types.Vec4
	TexCoord types.Vec2
	Normal   types.Vec3
}

// Create a vertex from a 3D position.
func NewVertex(pos types.Vec3, color types.Vec4, uv types.Vec2, normal types.Vec3) Vertex {
	return Vertex{
		Position: pos.Vec4(1),
		Color:    color,
		TexCoord: uv,
		Normal:   normal,
	}
}

// Vertex2Fragment carries the attributes produced by a vertex shader
// through clipping and rasterization to the fragment shader.
//
// After perspective division ClipPos holds NDC x, y, z but its w component
// still contains the pre-division clip w. Every barycentric blend uses that
// w as the per-vertex denominator.
type Vertex2Fragment struct {
	WorldPos    types.Vec4
	ViewPos     types.Vec4
	ClipPos     types.Vec4
	ViewportPos types.Vec4
	Color       types.Vec4
	Normal      types.Vec3
	TexCoord    types.Vec2
}

// Interpolate every attribute linearly between two vertices; used to create
// vertices on clip plane intersections.
func (v Vertex2Fragment) Lerp(v2 Vertex2Fragment, t float32) Vertex2Fragment {
	return Vertex2Fragment{
		WorldPos:    v.WorldPos.Lerp(v2.WorldPos, t),
		ViewPos:     v.ViewPos.Lerp(v2.ViewPos, t),
		ClipPos:     v.ClipPos.Lerp(v2.ClipPos, t),
		ViewportPos: v.ViewportPos.Lerp(v2.ViewportPos, t),
		Color:       v.Color.Lerp(v2.Color, t),
		Normal:      v.Normal.Lerp(v2.Normal, t),
		TexCoord:    v.TexCoord.Lerp(v2.TexCoord, t),
	}
}

// Divide clip x, y, z by w. W is left untouched.
func (v *Vertex2Fragment) perspectiveDivide() {
	w := v.ClipPos[3]
	v.ClipPos[0] /= w
	v.ClipPos[1] /= w
	v.ClipPos[2] /= w
}

// Perspective-correct barycentric weights for one pixel. The attribute for
// a pixel is (alpha*A1/w1 + beta*A2/w2 + gamma*A3/w3) * invZ.
type baryWeights struct {
	w1, w2, w3 float32
}

func perspectiveWeights(alpha, beta, gamma float32, v1, v2, v3 *Vertex2Fragment) baryWeights {
	a := alpha / v1.ClipPos[3]
	b := beta / v2.ClipPos[3]
	c := gamma / v3.ClipPos[3]
	invZ := 1.0 / (a + b + c)
	return baryWeights{a * invZ, b * invZ, c * invZ}
}

func (bw baryWeights) scalar(a1, a2, a3 float32) float32 {
	return bw.w1*a1 + bw.w2*a2 + bw.w3*a3
}

func (bw baryWeights) vec2(a1, a2, a3 types.Vec2) types.Vec2 {
	return types.Vec2{
		bw.scalar(a1[0], a2[0], a3[0]),
		bw.scalar(a1[1], a2[1], a3[1]),
	}
}

func (bw baryWeights) vec3(a1, a2, a3 types.Vec3) types.Vec3 {
	return types.Vec3{
		bw.scalar(a1[0], a2[0], a3[0]),
		bw.scalar(a1[1], a2[1], a3[1]),
		bw.scalar(a1[2], a2[2], a3[2]),
	}
}

func (bw baryWeights) vec4(a1, a2, a3 types.Vec4) types.Vec4 {
	return types.Vec4{
		bw.scalar(a1[0], a2[0], a3[0]),
		bw.scalar(a1[1], a2[1], a3[1]),
		bw.scalar(a1[2], a2[2], a3[2]),
		bw.scalar(a1[3], a2[3], a3[3]),
	}
}

// Build the perspective-correct fragment at barycentric (alpha, beta, gamma)
// of a divided, viewport-mapped triangle.
func interpolate(alpha, beta, gamma float32, v1, v2, v3 *Vertex2Fragment) Vertex2Fragment {
	return perspectiveWeights(alpha, beta, gamma, v1, v2, v3).fragment(v1, v2, v3)
}

func (bw baryWeights) fragment(v1, v2, v3 *Vertex2Fragment) Vertex2Fragment {
	return Vertex2Fragment{
		WorldPos:    bw.vec4(v1.WorldPos, v2.WorldPos, v3.WorldPos),
		ViewPos:     bw.vec4(v1.ViewPos, v2.ViewPos, v3.ViewPos),
		ClipPos:     bw.vec4(v1.ClipPos, v2.ClipPos, v3.ClipPos),
		ViewportPos: bw.vec4(v1.ViewportPos, v2.ViewportPos, v3.ViewportPos),
		Color:       bw.vec4(v1.Color, v2.Color, v3.Color),
		Normal:      bw.vec3(v1.Normal, v2.Normal, v3.Normal),
		TexCoord:    bw.vec2(v1.TexCoord, v2.TexCoord, v3.TexCoord),
	}
}

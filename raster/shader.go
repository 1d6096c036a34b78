package raster

import (
	"math"

	"github.com/achilleasa/softrast/types"
)

// Uniforms is the per-draw shader configuration. It is passed by value and
// must stay unchanged for the extent of a single mesh draw.
type Uniforms struct {
	Model      types.Mat4
	View       types.Mat4
	Projection types.Mat4

	// Eye position in world space; used for specular highlights.
	CameraPos types.Vec3

	// Bound material. A nil material makes the basic shader fall back to
	// vertex colors and the lighting shader output black.
	Material Material

	Lights []Light
}

// Create uniforms with identity transforms and no material or lights.
func DefaultUniforms() Uniforms {
	return Uniforms{
		Model:      types.Ident4(),
		View:       types.Ident4(),
		Projection: types.Ident4(),
	}
}

// The Shader interface is implemented by the programmable pipeline stages.
type Shader interface {
	// Bind configuration for subsequent draws.
	Bind(u Uniforms)

	// Transform a vertex to clip space.
	Vertex(v Vertex) Vertex2Fragment

	// Compute the linear color of an interpolated fragment.
	Fragment(v2f *Vertex2Fragment) types.Vec4
}

// Transform state shared by all shader variants. Derived matrices are
// computed once per Bind instead of once per vertex.
type transformStage struct {
	uniforms  Uniforms
	viewModel types.Mat4
	mvp       types.Mat4
	normalMat types.Mat3
}

func (ts *transformStage) Bind(u Uniforms) {
	u.Lights = append([]Light(nil), u.Lights...)
	ts.uniforms = u
	ts.viewModel = u.View.Mul4(u.Model)
	ts.mvp = u.Projection.Mul4(ts.viewModel)
	ts.normalMat = u.Model.NormalMatrix()
}

func (ts *transformStage) Vertex(v Vertex) Vertex2Fragment {
	world := ts.uniforms.Model.Mul4x1(v.Position)
	return Vertex2Fragment{
		WorldPos: world,
		ViewPos:  ts.uniforms.View.Mul4x1(world),
		ClipPos:  ts.mvp.Mul4x1(v.Position),
		Color:    v.Color,
		Normal:   ts.normalMat.Mul3x1(v.Normal),
		TexCoord: v.TexCoord,
	}
}

// BasicShader outputs the material diffuse color with repeating texture
// coordinates, or the vertex color when no material is bound.
type BasicShader struct {
	transformStage
}

func NewBasicShader() *BasicShader {
	s := &BasicShader{}
	s.Bind(DefaultUniforms())
	return s
}

func (s *BasicShader) Fragment(v2f *Vertex2Fragment) types.Vec4 {
	if s.uniforms.Material == nil {
		return v2f.Color
	}

	u := fract(v2f.TexCoord[0])
	v := fract(v2f.TexCoord[1])
	return s.uniforms.Material.Diffuse(u, v)
}

func fract(v float32) float32 {
	return v - float32(math.Floor(float64(v)))
}

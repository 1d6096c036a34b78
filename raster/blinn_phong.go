package raster

import (
	"math"

	"github.com/achilleasa/softrast/types"
)

// BlinnPhongShader accumulates ambient, diffuse and specular terms from
// every bound light. The sum is not clamped; the framebuffer clamps on write.
type BlinnPhongShader struct {
	transformStage
}

func NewBlinnPhongShader() *BlinnPhongShader {
	s := &BlinnPhongShader{}
	s.Bind(DefaultUniforms())
	return s
}

func (s *BlinnPhongShader) Fragment(v2f *Vertex2Fragment) types.Vec4 {
	mat := s.uniforms.Material
	if mat == nil {
		return types.Vec4{0, 0, 0, 1}
	}

	worldPos := v2f.WorldPos.Vec3()
	normal := v2f.Normal.Normalize()
	viewDir := s.uniforms.CameraPos.Sub(worldPos).Normalize()

	u, v := v2f.TexCoord[0], v2f.TexCoord[1]
	albedo := mat.Diffuse(u, v).Vec3()
	specColor := mat.Specular(u, v).Vec3()
	shininess := float64(mat.Shininess())

	var result types.Vec3
	for i := range s.uniforms.Lights {
		light := &s.uniforms.Lights[i]

		// Unit vector from the surface towards the light.
		lightDir := light.DirectionAt(worldPos).Mul(-1)

		diff := maxf(normal.Dot(lightDir), 0)
		reflectDir := lightDir.Mul(-1).Reflect(normal)
		spec := float32(math.Pow(float64(maxf(viewDir.Dot(reflectDir), 0)), shininess))

		ambient := light.Ambient.MulVec(albedo)
		diffuse := light.Diffuse.MulVec(albedo).Mul(diff)
		specular := light.Specular.MulVec(specColor).Mul(spec)

		scale := light.attenuation(worldPos) * light.coneIntensity(lightDir)
		result = result.Add(ambient.Add(diffuse).Add(specular).Mul(scale))
	}

	return result.Vec4(1)
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

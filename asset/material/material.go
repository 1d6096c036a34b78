package material

import (
	"fmt"

	"github.com/achilleasa/softrast/asset/texture"
	"github.com/achilleasa/softrast/types"
)

// A Material groups the texture maps used by the shaders.
type Material struct {
	Name string

	DiffuseMap  *texture.Texture
	SpecularMap *texture.Texture

	// Loaded for completeness; the shaders do not perturb normals.
	NormalMap *texture.Texture

	ShininessExp float32
}

// Create a material with a solid red diffuse color.
func Default() *Material {
	return &Material{
		Name:         "default",
		DiffuseMap:   texture.NewSolid(DefaultDiffuse),
		ShininessExp: DefaultShininess,
	}
}

// Create a material with a constant diffuse color.
func Solid(name string, diffuse types.Vec4) *Material {
	return &Material{
		Name:         name,
		DiffuseMap:   texture.NewSolid(diffuse),
		ShininessExp: DefaultShininess,
	}
}

// Sample the albedo color. A material without a diffuse map is black.
func (m *Material) Diffuse(u, v float32) types.Vec4 {
	return sample(m.DiffuseMap, u, v)
}

// Sample the specular color. A material without a specular map reflects
// no highlights.
func (m *Material) Specular(u, v float32) types.Vec4 {
	return sample(m.SpecularMap, u, v)
}

func (m *Material) Shininess() float32 {
	return m.ShininessExp
}

func (m *Material) String() string {
	return fmt.Sprintf("%s (diffuse: %s, specular: %s, shininess: %.1f)", m.Name, describe(m.DiffuseMap), describe(m.SpecularMap), m.ShininessExp)
}

func sample(tex *texture.Texture, u, v float32) types.Vec4 {
	if tex == nil {
		return types.Vec4{}
	}
	return tex.Sample(u, v)
}

func describe(tex *texture.Texture) string {
	switch {
	case tex == nil:
		return "none"
	case tex.Kind == texture.SolidColor:
		return fmt.Sprintf("rgba%v", tex.Color)
	}
	return fmt.Sprintf("%dx%d %s", tex.Width, tex.Height, tex.Format)
}

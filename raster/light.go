package raster

import (
	"math"

	"github.com/achilleasa/softrast/types"
)

// Material is the surface capability consumed by the shaders.
type Material interface {
	// Sample albedo color.
	Diffuse(u, v float32) types.Vec4

	// Sample specular color.
	Specular(u, v float32) types.Vec4

	// Specular exponent.
	Shininess() float32
}

type LightType uint8

const (
	DirectionalLight LightType = iota
	PointLight
	SpotLight
)

func (t LightType) String() string {
	switch t {
	case DirectionalLight:
		return "directional"
	case PointLight:
		return "point"
	case SpotLight:
		return "spot"
	}
	return "unknown"
}

// A Light is read-only input to the Blinn-Phong shader. Position is ignored
// by directional lights; Direction is ignored by point lights.
type Light struct {
	Type LightType

	Position  types.Vec3
	Direction types.Vec3

	Ambient  types.Vec3
	Diffuse  types.Vec3
	Specular types.Vec3

	// Attenuation coefficients for point and spot lights.
	Constant  float32
	Linear    float32
	Quadratic float32

	// Cosines of the inner and outer spot cone angles.
	CutOff      float32
	OuterCutOff float32
}

// Create a directional light with default colors.
func NewDirectionalLight(dir types.Vec3) Light {
	return Light{
		Type:      DirectionalLight,
		Direction: dir.Normalize(),
		Ambient:   types.Vec3{0.05, 0.05, 0.05},
		Diffuse:   types.Vec3{1, 1, 1},
		Specular:  types.Vec3{0.5, 0.5, 0.5},
	}
}

// Create a point light with default colors and attenuation.
func NewPointLight(pos types.Vec3) Light {
	return Light{
		Type:      PointLight,
		Position:  pos,
		Ambient:   types.Vec3{0.05, 0.05, 0.05},
		Diffuse:   types.Vec3{0.8, 0.8, 0.8},
		Specular:  types.Vec3{1, 1, 1},
		Constant:  1.0,
		Linear:    0.09,
		Quadratic: 0.032,
	}
}

// Create a spot light with default colors, attenuation and cone angles.
func NewSpotLight(pos, dir types.Vec3) Light {
	return Light{
		Type:        SpotLight,
		Position:    pos,
		Direction:   dir.Normalize(),
		Ambient:     types.Vec3{0.1, 0.1, 0.1},
		Diffuse:     types.Vec3{0.8, 0.8, 0.8},
		Specular:    types.Vec3{1, 1, 1},
		Constant:    1.0,
		Linear:      0.09,
		Quadratic:   0.032,
		CutOff:      CosDeg(50.5),
		OuterCutOff: CosDeg(90.5),
	}
}

// Cosine of an angle given in degrees.
func CosDeg(deg float32) float32 {
	return float32(math.Cos(float64(deg) * math.Pi / 180.0))
}

// Get the direction in which light travels when it reaches worldPos.
func (l *Light) DirectionAt(worldPos types.Vec3) types.Vec3 {
	if l.Type == DirectionalLight {
		return l.Direction.Normalize()
	}
	return worldPos.Sub(l.Position).Normalize()
}

// Inverse distance falloff; directional lights do not attenuate.
func (l *Light) attenuation(worldPos types.Vec3) float32 {
	if l.Type == DirectionalLight {
		return 1
	}
	d := l.Position.Sub(worldPos).Len()
	return 1.0 / (l.Constant + l.Linear*d + l.Quadratic*d*d)
}

// Smooth spot cone falloff for a unit vector pointing from the surface to
// the light. Non-spot lights always return 1.
func (l *Light) coneIntensity(toLight types.Vec3) float32 {
	if l.Type != SpotLight {
		return 1
	}
	cosTheta := toLight.Dot(l.Direction.Normalize().Mul(-1))
	intensity := (cosTheta - l.OuterCutOff) / (l.CutOff - l.OuterCutOff)
	if intensity < 0 {
		return 0
	}
	if intensity > 1 {
		return 1
	}
	return intensity
}

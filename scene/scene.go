package scene

import (
	"fmt"

	"github.com/achilleasa/softrast/asset/model"
	"github.com/achilleasa/softrast/raster"
	"github.com/achilleasa/softrast/types"
)

// ShaderType selects the shader used for filled rendering.
type ShaderType uint8

const (
	BasicShader ShaderType = iota
	BlinnPhongShader
)

func (st ShaderType) String() string {
	switch st {
	case BasicShader:
		return "basic"
	case BlinnPhongShader:
		return "blinn-phong"
	}
	return "unknown"
}

// Parse a shader name as used by scene files and the CLI.
func ParseShaderType(name string) (ShaderType, error) {
	switch name {
	case "basic":
		return BasicShader, nil
	case "blinn-phong", "blinnphong", "phong":
		return BlinnPhongShader, nil
	}
	return 0, fmt.Errorf("scene: unknown shader %q", name)
}

// Parse a coverage mode name.
func ParseCoverage(name string) (raster.Coverage, error) {
	switch name {
	case "barycentric":
		return raster.BarycentricCoverage, nil
	case "edge":
		return raster.EdgeCoverage, nil
	}
	return 0, fmt.Errorf("scene: unknown coverage mode %q", name)
}

// An Instance places a model in the world.
type Instance struct {
	Model     *model.Model
	Transform types.Mat4
}

type Scene struct {
	Camera *Camera

	// Frame dimensions and color channels.
	FrameW   int
	FrameH   int
	Channels int

	BgColor   types.Vec4
	Shader    ShaderType
	Coverage  raster.Coverage
	Wireframe bool

	Lights    []raster.Light
	Instances []*Instance
}

func NewScene() *Scene {
	return &Scene{
		FrameW:    1280,
		FrameH:    720,
		Channels:  3,
		BgColor:   types.Vec4{0.05, 0.05, 0.05, 1},
		Shader:    BlinnPhongShader,
		Coverage:  raster.BarycentricCoverage,
		Lights:    make([]raster.Light, 0),
		Instances: make([]*Instance, 0),
	}
}

// Attach a camera to the scene.
func (s *Scene) SetCamera(camera *Camera) {
	s.Camera = camera
}

// Add a light to the scene.
func (s *Scene) AddLight(light raster.Light) {
	s.Lights = append(s.Lights, light)
}

// Add a model instance to the scene.
func (s *Scene) AddInstance(instance *Instance) error {
	if instance.Model == nil {
		return fmt.Errorf("scene: no model assigned to instance")
	}
	for _, inst := range s.Instances {
		if inst == instance {
			return fmt.Errorf("scene: instance already added")
		}
	}
	s.Instances = append(s.Instances, instance)
	return nil
}

// Get the number of triangles submitted when rendering the scene.
func (s *Scene) TriangleCount() int {
	count := 0
	for _, inst := range s.Instances {
		count += inst.Model.TriangleCount()
	}
	return count
}

// Get the frame aspect ratio.
func (s *Scene) Aspect() float32 {
	if s.FrameH == 0 {
		return 1
	}
	return float32(s.FrameW) / float32(s.FrameH)
}

package scene

import (
	"fmt"

	"github.com/achilleasa/softrast/asset"
	"github.com/achilleasa/softrast/asset/model"
	"github.com/achilleasa/softrast/log"
	"github.com/achilleasa/softrast/raster"
	"github.com/achilleasa/softrast/types"
	"gopkg.in/yaml.v3"
)

var logger = log.New("scene")

// Description is the on-disk representation of a scene. Colors are RGB(A)
// in linear space and angles are specified in degrees.
type Description struct {
	Frame      FrameDescription   `yaml:"frame"`
	Background []float32          `yaml:"background,omitempty"`
	Shader     string             `yaml:"shader,omitempty"`
	Wireframe  bool               `yaml:"wireframe,omitempty"`
	Coverage   string             `yaml:"coverage,omitempty"`
	Camera     CameraDescription  `yaml:"camera"`
	Lights     []LightDescription `yaml:"lights,omitempty"`
	Models     []ModelDescription `yaml:"models"`
}

type FrameDescription struct {
	Width    int `yaml:"width,omitempty"`
	Height   int `yaml:"height,omitempty"`
	Channels int `yaml:"channels,omitempty"`
}

type CameraDescription struct {
	Eye          []float32 `yaml:"eye,omitempty"`
	Look         []float32 `yaml:"look,omitempty"`
	Up           []float32 `yaml:"up,omitempty"`
	FOV          float32   `yaml:"fov,omitempty"`
	Near         float32   `yaml:"near,omitempty"`
	Far          float32   `yaml:"far,omitempty"`
	Orthographic bool      `yaml:"orthographic,omitempty"`
	OrthoHeight  float32   `yaml:"ortho_height,omitempty"`
}

type LightDescription struct {
	Type      string    `yaml:"type"`
	Position  []float32 `yaml:"position,omitempty"`
	Direction []float32 `yaml:"direction,omitempty"`
	Ambient   []float32 `yaml:"ambient,omitempty"`
	Diffuse   []float32 `yaml:"diffuse,omitempty"`
	Specular  []float32 `yaml:"specular,omitempty"`

	// Constant, linear and quadratic coefficients.
	Attenuation []float32 `yaml:"attenuation,omitempty"`

	// Spot cone angles.
	CutOff      float32 `yaml:"cutoff,omitempty"`
	OuterCutOff float32 `yaml:"outer_cutoff,omitempty"`
}

type ModelDescription struct {
	Path string `yaml:"path"`

	Translate []float32 `yaml:"translate,omitempty"`

	// Yaw, pitch and roll.
	Rotate []float32 `yaml:"rotate,omitempty"`

	// Either a uniform factor or one factor per axis.
	Scale []float32 `yaml:"scale,omitempty"`

	FlipUVs        *bool `yaml:"flip_uvs,omitempty"`
	MaxTextureSize int   `yaml:"max_texture_size,omitempty"`
}

// Load a scene. Yaml files are parsed as scene descriptions while wavefront
// files are wrapped in a default scene.
func Load(pathToScene string) (*Scene, error) {
	res, err := asset.NewResource(pathToScene, nil)
	if err != nil {
		return nil, err
	}
	defer res.Close()

	switch res.Ext() {
	case ".yaml", ".yml":
		desc, err := Decode(res)
		if err != nil {
			return nil, err
		}
		return desc.Build(res)
	case ".obj":
		mdl, err := model.Read(res, model.DefaultOptions())
		if err != nil {
			return nil, err
		}
		return FromModel(mdl), nil
	}

	return nil, fmt.Errorf("scene: unsupported file format %q", res.Ext())
}

// Decode a yaml scene description. Unknown fields are rejected.
func Decode(res *asset.Resource) (*Description, error) {
	var desc Description
	dec := yaml.NewDecoder(res)
	dec.KnownFields(true)
	if err := dec.Decode(&desc); err != nil {
		return nil, fmt.Errorf("scene: could not parse %s: %w", res.Path(), err)
	}
	return &desc, nil
}

// Encode a scene description as yaml.
func (d *Description) Marshal() ([]byte, error) {
	return yaml.Marshal(d)
}

// Build a scene from its description. Model paths are resolved relative to
// relTo; a model referenced by several entries is loaded once.
func (d *Description) Build(relTo *asset.Resource) (*Scene, error) {
	sc := NewScene()

	if d.Frame.Width < 0 || d.Frame.Height < 0 {
		return nil, fmt.Errorf("scene: invalid frame dimensions %dx%d", d.Frame.Width, d.Frame.Height)
	}
	if d.Frame.Width > 0 {
		sc.FrameW = d.Frame.Width
	}
	if d.Frame.Height > 0 {
		sc.FrameH = d.Frame.Height
	}
	switch d.Frame.Channels {
	case 0:
	case 1, 3, 4:
		sc.Channels = d.Frame.Channels
	default:
		return nil, fmt.Errorf("scene: unsupported channel count %d", d.Frame.Channels)
	}

	if d.Background != nil {
		bg, err := toColor("background", d.Background)
		if err != nil {
			return nil, fmt.Errorf("scene: %w", err)
		}
		sc.BgColor = bg
	}

	var err error
	if d.Shader != "" {
		if sc.Shader, err = ParseShaderType(d.Shader); err != nil {
			return nil, err
		}
	}
	if d.Coverage != "" {
		if sc.Coverage, err = ParseCoverage(d.Coverage); err != nil {
			return nil, err
		}
	}
	sc.Wireframe = d.Wireframe

	camera, err := d.Camera.build()
	if err != nil {
		return nil, fmt.Errorf("scene: camera: %w", err)
	}
	camera.SetupProjection(sc.Aspect())
	sc.SetCamera(camera)

	for index, ld := range d.Lights {
		light, err := ld.build()
		if err != nil {
			return nil, fmt.Errorf("scene: light %d: %w", index, err)
		}
		sc.AddLight(light)
	}

	loaded := make(map[string]*model.Model)
	for index, md := range d.Models {
		transform, err := md.transform()
		if err != nil {
			return nil, fmt.Errorf("scene: model %d: %w", index, err)
		}

		mdl, err := md.load(relTo, loaded)
		if err != nil {
			return nil, err
		}

		if err = sc.AddInstance(&Instance{Model: mdl, Transform: transform}); err != nil {
			return nil, err
		}
	}

	logger.Infof("built scene with %d model instances and %d lights", len(sc.Instances), len(sc.Lights))
	return sc, nil
}

// Wrap a single model in a scene with a camera looking down -Z and a single
// directional light. The model is centered at the origin and tilted so
// that three of its sides face the camera.
func FromModel(mdl *model.Model) *Scene {
	sc := NewScene()

	camera := NewCamera(45)
	camera.Position = types.Vec3{0, 0, 8}
	camera.LookAt = types.Vec3{0, 0, 0}
	camera.SetupProjection(sc.Aspect())
	sc.SetCamera(camera)

	sc.AddLight(raster.NewDirectionalLight(types.Vec3{-0.25, -0.5, -1}))

	transform := types.QuatFromEuler(45, -45, -20).Mat4().Mul4(types.Translate4(mdl.Center().Mul(-1)))
	sc.Instances = append(sc.Instances, &Instance{Model: mdl, Transform: transform})
	return sc
}

func (cd *CameraDescription) build() (*Camera, error) {
	fov := cd.FOV
	if fov == 0 {
		fov = 45
	}
	if fov < 0 || fov >= 180 {
		return nil, fmt.Errorf("fov must be in (0, 180); got %.1f", fov)
	}

	camera := NewCamera(fov)
	camera.Position = types.Vec3{0, 0, 8}
	camera.LookAt = types.Vec3{0, 0, 0}

	var err error
	if cd.Eye != nil {
		if camera.Position, err = toVec3("eye", cd.Eye); err != nil {
			return nil, err
		}
	}
	if cd.Look != nil {
		if camera.LookAt, err = toVec3("look", cd.Look); err != nil {
			return nil, err
		}
	}
	if cd.Up != nil {
		if camera.Up, err = toVec3("up", cd.Up); err != nil {
			return nil, err
		}
	}
	if cd.Near != 0 {
		camera.Near = cd.Near
	}
	if cd.Far != 0 {
		camera.Far = cd.Far
	}
	if camera.Near <= 0 || camera.Far <= camera.Near {
		return nil, fmt.Errorf("invalid clip range [%.3f, %.3f]", camera.Near, camera.Far)
	}
	camera.Orthographic = cd.Orthographic
	if cd.OrthoHeight != 0 {
		camera.OrthoHeight = cd.OrthoHeight
	}

	return camera, nil
}

func (ld *LightDescription) build() (raster.Light, error) {
	var light raster.Light
	var err error

	position := types.Vec3{}
	if ld.Position != nil {
		if position, err = toVec3("position", ld.Position); err != nil {
			return light, err
		}
	}
	direction := types.Vec3{0, 0, -1}
	if ld.Direction != nil {
		if direction, err = toVec3("direction", ld.Direction); err != nil {
			return light, err
		}
	}

	switch ld.Type {
	case "directional":
		light = raster.NewDirectionalLight(direction)
	case "point":
		light = raster.NewPointLight(position)
	case "spot":
		light = raster.NewSpotLight(position, direction)
		if ld.CutOff != 0 {
			light.CutOff = raster.CosDeg(ld.CutOff)
		}
		if ld.OuterCutOff != 0 {
			light.OuterCutOff = raster.CosDeg(ld.OuterCutOff)
		}
	default:
		return light, fmt.Errorf("unknown light type %q", ld.Type)
	}

	for _, field := range []struct {
		name string
		in   []float32
		out  *types.Vec3
	}{
		{"ambient", ld.Ambient, &light.Ambient},
		{"diffuse", ld.Diffuse, &light.Diffuse},
		{"specular", ld.Specular, &light.Specular},
	} {
		if field.in == nil {
			continue
		}
		if *field.out, err = toVec3(field.name, field.in); err != nil {
			return light, err
		}
	}

	if ld.Attenuation != nil {
		att, err := toVec3("attenuation", ld.Attenuation)
		if err != nil {
			return light, err
		}
		light.Constant, light.Linear, light.Quadratic = att[0], att[1], att[2]
	}

	return light, nil
}

// Calculate the model matrix: scale, then rotate, then translate.
func (md *ModelDescription) transform() (types.Mat4, error) {
	var err error

	translate := types.Vec3{}
	if md.Translate != nil {
		if translate, err = toVec3("translate", md.Translate); err != nil {
			return types.Mat4{}, err
		}
	}

	rotate := types.Vec3{}
	if md.Rotate != nil {
		if rotate, err = toVec3("rotate", md.Rotate); err != nil {
			return types.Mat4{}, err
		}
	}

	scale := types.Vec3{1, 1, 1}
	switch len(md.Scale) {
	case 0:
	case 1:
		scale = types.Vec3{md.Scale[0], md.Scale[0], md.Scale[0]}
	default:
		if scale, err = toVec3("scale", md.Scale); err != nil {
			return types.Mat4{}, err
		}
	}

	rotMat := types.QuatFromEuler(rotate[0], rotate[1], rotate[2]).Mat4()
	return types.Translate4(translate).Mul4(rotMat).Mul4(types.Scale4(scale)), nil
}

func (md *ModelDescription) load(relTo *asset.Resource, loaded map[string]*model.Model) (*model.Model, error) {
	if md.Path == "" {
		return nil, fmt.Errorf("scene: model entry without a path")
	}

	opts := model.DefaultOptions()
	if md.FlipUVs != nil {
		opts.FlipUVs = *md.FlipUVs
	}
	opts.MaxTextureSize = md.MaxTextureSize

	res, err := asset.NewResource(md.Path, relTo)
	if err != nil {
		return nil, err
	}
	defer res.Close()

	cacheKey := fmt.Sprintf("%s#%t#%d", res.Path(), opts.FlipUVs, opts.MaxTextureSize)
	if mdl, exists := loaded[cacheKey]; exists {
		return mdl, nil
	}

	mdl, err := model.Read(res, opts)
	if err != nil {
		return nil, err
	}
	loaded[cacheKey] = mdl
	return mdl, nil
}

func toVec3(field string, in []float32) (types.Vec3, error) {
	if len(in) != 3 {
		return types.Vec3{}, fmt.Errorf("%s: expected 3 components; got %d", field, len(in))
	}
	return types.Vec3{in[0], in[1], in[2]}, nil
}

// Colors may omit the alpha component.
func toColor(field string, in []float32) (types.Vec4, error) {
	switch len(in) {
	case 3:
		return types.Vec4{in[0], in[1], in[2], 1}, nil
	case 4:
		return types.Vec4{in[0], in[1], in[2], in[3]}, nil
	}
	return types.Vec4{}, fmt.Errorf("%s: expected 3 or 4 components; got %d", field, len(in))
}

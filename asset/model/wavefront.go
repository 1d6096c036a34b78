package model

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/achilleasa/softrast/asset"
	"github.com/achilleasa/softrast/asset/material"
	"github.com/achilleasa/softrast/asset/texture"
	"github.com/achilleasa/softrast/log"
	"github.com/achilleasa/softrast/raster"
	"github.com/achilleasa/softrast/types"
)

var defaultVertexColor = types.Vec4{1, 1, 1, 1}

type wavefrontMaterial struct {
	Name string

	// Diffuse/Albedo color.
	Kd    types.Vec3
	hasKd bool

	// Specular color.
	Ks    types.Vec3
	hasKs bool

	// Specular exponent.
	Ns    float32
	hasNs bool

	// Textures for modulating above parameters.
	KdTex     string
	KsTex     string
	NormalTex string

	// Relative path for textures.
	AssetRelPath *asset.Resource

	// True for the built-in material assigned to faces without a usemtl.
	isDefault bool

	// True if this material is used by at least one face.
	Used bool
}

// Accumulates the faces of an object that share a material.
type meshBuilder struct {
	name     string
	matIndex int

	vertices []raster.Vertex
	indices  []uint32

	// Maps v/vt/vn index triplets to emitted vertices.
	vertexIndex map[[3]int]uint32
}

func (mb *meshBuilder) addVertex(key [3]int, v raster.Vertex, dedup bool) {
	if dedup {
		if index, exists := mb.vertexIndex[key]; exists {
			mb.indices = append(mb.indices, index)
			return
		}
	}

	index := uint32(len(mb.vertices))
	mb.vertices = append(mb.vertices, v)
	mb.indices = append(mb.indices, index)
	if dedup {
		mb.vertexIndex[key] = index
	}
}

type wavefrontReader struct {
	logger log.Logger
	opts   Options

	// A map of material names to parsed wavefront materials
	matNameToIndex map[string]int

	// Currently selected material.
	curMaterial int

	// Parsed wavefront materials.
	materials []*wavefrontMaterial

	// List of vertices, normals and uv coords.
	vertexList []types.Vec3
	normalList []types.Vec3
	uvList     []types.Vec2

	// Name of the object or group being parsed.
	objectName string
	meshes     []*meshBuilder

	// Loaded textures keyed by their resolved location.
	texCache map[string]*texture.Texture

	// An error stack that provides additional error information when
	// model files include other files (models, mat libs e.t.c)
	errStack []string
}

func newWavefrontReader(opts Options) *wavefrontReader {
	return &wavefrontReader{
		logger:         log.New("wavefront reader"),
		opts:           opts,
		matNameToIndex: make(map[string]int),
		curMaterial:    -1,
		objectName:     "default",
		texCache:       make(map[string]*texture.Texture),
	}
}

// Read a model definition.
func (r *wavefrontReader) Read(res *asset.Resource) (*Model, error) {
	r.logger.Noticef(`parsing model from "%s"`, res.Path())
	start := time.Now()

	err := r.parse(res)
	if err != nil {
		return nil, err
	}

	model := &Model{Name: res.Name()}
	built := r.buildMaterials(model)
	for _, mb := range r.meshes {
		model.Meshes = append(model.Meshes, &raster.Mesh{
			Name:     mb.name,
			Vertices: mb.vertices,
			Indices:  mb.indices,
			Material: built[mb.matIndex],
		})
	}
	model.updateBBox()

	r.logger.Noticef("parsed model in %d ms", time.Since(start).Nanoseconds()/1e6)
	return model, nil
}

// Generate materials for all wavefront materials in use and return them
// keyed by wavefront material index.
func (r *wavefrontReader) buildMaterials(model *Model) map[int]*material.Material {
	built := make(map[int]*material.Material)
	pruned := 0
	for wfIndex, wfMat := range r.materials {
		if !wfMat.Used {
			r.logger.Infof("skipping unused material %q", wfMat.Name)
			pruned++
			continue
		}

		if wfMat.isDefault {
			built[wfIndex] = material.Default()
			model.Materials = append(model.Materials, built[wfIndex])
			continue
		}

		mat := &material.Material{
			Name:         wfMat.Name,
			ShininessExp: material.DefaultShininess,
		}

		switch {
		case wfMat.KdTex != "":
			mat.DiffuseMap = r.loadTexture(wfMat.KdTex, wfMat.AssetRelPath)
		case wfMat.hasKd:
			mat.DiffuseMap = texture.NewSolid(wfMat.Kd.Vec4(1))
		default:
			mat.DiffuseMap = texture.NewSolid(material.DefaultDiffuse)
		}

		switch {
		case wfMat.KsTex != "":
			mat.SpecularMap = r.loadTexture(wfMat.KsTex, wfMat.AssetRelPath)
		case wfMat.hasKs:
			mat.SpecularMap = texture.NewSolid(wfMat.Ks.Vec4(1))
		}

		if wfMat.NormalTex != "" {
			mat.NormalMap = r.loadTexture(wfMat.NormalTex, wfMat.AssetRelPath)
		}

		if wfMat.hasNs {
			mat.ShininessExp = wfMat.Ns
		}

		built[wfIndex] = mat
		model.Materials = append(model.Materials, mat)
	}

	if pruned > 0 {
		r.logger.Noticef("pruned %d unused materials", pruned)
	}
	return built
}

// Load a texture once per resolved location.
func (r *wavefrontReader) loadTexture(name string, relTo *asset.Resource) *texture.Texture {
	key := name
	if relTo != nil {
		key = relTo.Path() + "#" + name
	}

	if tex, exists := r.texCache[key]; exists {
		return tex
	}

	tex := texture.Load(name, relTo, r.opts.MaxTextureSize)
	r.texCache[key] = tex
	return tex
}

// Generate an error message that also includes any data in the error stack.
func (r *wavefrontReader) emitError(file string, line int, msgFormat string, args ...interface{}) error {
	msg := fmt.Sprintf(msgFormat, args...)

	var errMsg string
	if file != "" {
		errMsg = fmt.Sprintf("[%s: %d] error: %s\n%s", file, line, msg, strings.Join(r.errStack, "\n"))
	} else {
		errMsg = fmt.Sprintf("error: %s\n%s", msg, strings.Join(r.errStack, "\n"))
	}

	return errors.New(strings.Trim(errMsg, "\n"))
}

// Push a frame to the error stack.
func (r *wavefrontReader) pushFrame(msg string) {
	r.errStack = append([]string{msg}, r.errStack...)
}

// Pop a frame from the error stack.
func (r *wavefrontReader) popFrame() {
	r.errStack = r.errStack[1:]
}

// Select the built-in material for surfaces not using one.
func (r *wavefrontReader) defaultMaterial() int {
	matName := ""

	matIndex, exists := r.matNameToIndex[matName]
	if !exists {
		r.materials = append(r.materials, &wavefrontMaterial{Name: "default", isDefault: true})
		matIndex = len(r.materials) - 1
		r.matNameToIndex[matName] = matIndex
	}
	return matIndex
}

// Parse wavefront object format.
func (r *wavefrontReader) parse(res *asset.Resource) error {
	var lineNum int = 0

	// The main obj file may include (call) several other object files. Each
	// object file contains 1-based indices (when they are positive). By
	// tracking the current vertex/uv/normal offsets we can apply them
	// while parsing faces to select the correct coordinates.
	relVertexOffset := len(r.vertexList)
	relUvOffset := len(r.uvList)
	relNormalOffset := len(r.normalList)

	scanner := bufio.NewScanner(res)
	for scanner.Scan() {
		lineNum++
		lineTokens := strings.Fields(scanner.Text())
		if len(lineTokens) == 0 || strings.HasPrefix(lineTokens[0], "#") {
			continue
		}

		switch lineTokens[0] {
		case "call", "mtllib":
			if len(lineTokens) != 2 {
				return r.emitError(res.Path(), lineNum, `unsupported syntax for "%s"; expected 1 argument; got %d`, lineTokens[0], len(lineTokens)-1)
			}

			r.pushFrame(fmt.Sprintf("referenced from %s:%d [%s]", res.Path(), lineNum, lineTokens[0]))

			incRes, err := asset.NewResource(lineTokens[1], res)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}

			switch lineTokens[0] {
			case "call":
				err = r.parse(incRes)
			case "mtllib":
				err = r.parseMaterials(incRes)
			}
			incRes.Close()

			if err != nil {
				return err
			}
			r.popFrame()
		case "usemtl":
			if len(lineTokens) != 2 {
				return r.emitError(res.Path(), lineNum, `unsupported syntax for 'usemtl'; expected 1 argument; got %d`, len(lineTokens)-1)
			}

			matName := lineTokens[1]
			matIndex, exists := r.matNameToIndex[matName]
			if !exists {
				return r.emitError(res.Path(), lineNum, `undefined material with name "%s"`, matName)
			}
			r.curMaterial = matIndex
		case "v":
			v, err := parseVec3(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
			r.vertexList = append(r.vertexList, v)
		case "vn":
			v, err := parseVec3(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
			r.normalList = append(r.normalList, v)
		case "vt":
			v, err := parseVec2(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
			r.uvList = append(r.uvList, v)
		case "g", "o":
			if len(lineTokens) < 2 {
				return r.emitError(res.Path(), lineNum, `unsupported syntax for "%s"; expected 1 argument for object name; got %d`, lineTokens[0], len(lineTokens)-1)
			}

			r.verifyLastParsedMesh()
			r.objectName = lineTokens[1]
			r.meshes = append(r.meshes, r.newMesh(r.objectName))
		case "f":
			err := r.parseFace(lineTokens, relVertexOffset, relUvOffset, relNormalOffset)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return r.emitError(res.Path(), lineNum, "%s", err.Error())
	}

	r.verifyLastParsedMesh()
	return nil
}

func (r *wavefrontReader) newMesh(name string) *meshBuilder {
	return &meshBuilder{
		name:        name,
		matIndex:    r.curMaterial,
		vertexIndex: make(map[[3]int]uint32),
	}
}

// Get the mesh that receives faces using the current material. Switching
// materials inside an object starts a new mesh.
func (r *wavefrontReader) activeMesh() *meshBuilder {
	if r.curMaterial < 0 {
		r.curMaterial = r.defaultMaterial()
	}
	r.materials[r.curMaterial].Used = true

	lastIndex := len(r.meshes) - 1
	if lastIndex >= 0 {
		last := r.meshes[lastIndex]
		switch {
		case last.matIndex == r.curMaterial:
			return last
		case len(last.indices) == 0:
			last.matIndex = r.curMaterial
			return last
		}
	}

	name := r.objectName
	if lastIndex >= 0 {
		name = r.objectName + "/" + r.materials[r.curMaterial].Name
	}
	mb := r.newMesh(name)
	r.meshes = append(r.meshes, mb)
	return mb
}

// Drop the last parsed mesh if it contains no faces.
func (r *wavefrontReader) verifyLastParsedMesh() {
	lastMeshIndex := len(r.meshes) - 1
	if lastMeshIndex >= 0 && len(r.meshes[lastMeshIndex].indices) == 0 {
		r.logger.Warningf(`dropping mesh "%s" as it contains no polygons`, r.meshes[lastMeshIndex].name)
		r.meshes = r.meshes[:lastMeshIndex]
	}
}

// Parse face definition. Each face definition consists of 3 or more
// arguments, one for each vertex. Each one of the vertex arguments is
// comprised of 1, 2 or 3 args separated by a slash character. The following
// formats are supported:
// - vertexIndex
// - vertexIndex/uvIndex
// - vertexIndex//normalIndex
// - vertexIndex/uvIndex/normalIndex
//
// Indices start from 1 and may be negative to indicate
// an offset off the end of the vertex/uv list.
//
// Faces with more than 3 vertices are split into a triangle fan.
func (r *wavefrontReader) parseFace(lineTokens []string, relVertexOffset, relUvOffset, relNormalOffset int) error {
	if len(lineTokens) < 4 {
		return fmt.Errorf(`unsupported syntax for "f"; expected at least 3 arguments; got %d`, len(lineTokens)-1)
	}

	argCount := len(lineTokens) - 1
	vertices := make([]raster.Vertex, argCount)
	keys := make([][3]int, argCount)
	var vOffset int
	var err error
	expIndices := 0
	hasNormals := false
	for arg := 0; arg < argCount; arg++ {
		vTokens := strings.Split(lineTokens[arg+1], "/")

		// The first arg defines the format for the following args
		if arg == 0 {
			expIndices = len(vTokens)
		} else if len(vTokens) != expIndices {
			return fmt.Errorf("expected each face argument to contain %d indices; arg %d contains %d indices", expIndices, arg, len(vTokens))
		}

		// Faces must at least define a vertex coord
		if vTokens[0] == "" {
			return fmt.Errorf("face argument %d does not include a vertex index", arg)
		}

		keys[arg] = [3]int{-1, -1, -1}
		vOffset, err = selectFaceCoordIndex(vTokens[0], len(r.vertexList), relVertexOffset)
		if err != nil {
			return fmt.Errorf("could not parse vertex coord for face argument %d: %s", arg, err.Error())
		}
		keys[arg][0] = vOffset
		vertices[arg] = raster.NewVertex(r.vertexList[vOffset], defaultVertexColor, types.Vec2{}, types.Vec3{})

		// Parse UV coords if specified
		if expIndices > 1 && vTokens[1] != "" {
			vOffset, err = selectFaceCoordIndex(vTokens[1], len(r.uvList), relUvOffset)
			if err != nil {
				return fmt.Errorf("could not parse tex coord for face argument %d: %s", arg, err.Error())
			}
			keys[arg][1] = vOffset
			uv := r.uvList[vOffset]
			if r.opts.FlipUVs {
				uv[1] = 1.0 - uv[1]
			}
			vertices[arg].TexCoord = uv
		}

		// Parse normal coords if specified
		if expIndices > 2 && vTokens[2] != "" {
			vOffset, err = selectFaceCoordIndex(vTokens[2], len(r.normalList), relNormalOffset)
			if err != nil {
				return fmt.Errorf("could not parse normal coord for face argument %d: %s", arg, err.Error())
			}
			keys[arg][2] = vOffset
			vertices[arg].Normal = r.normalList[vOffset]
			hasNormals = true
		}
	}

	// If no normals are available generate them from the vertices
	if !hasNormals {
		e01 := vertices[1].Position.Vec3().Sub(vertices[0].Position.Vec3())
		e02 := vertices[2].Position.Vec3().Sub(vertices[0].Position.Vec3())
		faceNormal := e01.Cross(e02).Normalize()
		for i := range vertices {
			vertices[i].Normal = faceNormal
		}
	}

	mb := r.activeMesh()
	for i := 1; i+1 < argCount; i++ {
		for _, selectIndex := range [3]int{0, i, i + 1} {
			mb.addVertex(keys[selectIndex], vertices[selectIndex], hasNormals)
		}
	}

	return nil
}

// Parse a wavefront material library.
func (r *wavefrontReader) parseMaterials(res *asset.Resource) error {
	var lineNum int = 0
	var err error

	r.logger.Infof(`parsing material library "%s"`, res.Path())

	scanner := bufio.NewScanner(res)

	var curMaterial *wavefrontMaterial = nil
	var matName string = ""

	for scanner.Scan() {
		lineNum++
		lineTokens := strings.Fields(scanner.Text())
		if len(lineTokens) == 0 || strings.HasPrefix(lineTokens[0], "#") {
			continue
		}

		switch lineTokens[0] {
		case "newmtl":
			if len(lineTokens) != 2 {
				return r.emitError(res.Path(), lineNum, `unsupported syntax for "newmtl"; expected 1 argument; got %d`, len(lineTokens)-1)
			}

			matName = lineTokens[1]
			if _, exists := r.matNameToIndex[matName]; exists {
				return r.emitError(res.Path(), lineNum, `material "%s" already defined`, matName)
			}

			curMaterial = &wavefrontMaterial{
				Name:         matName,
				AssetRelPath: res,
			}
			r.materials = append(r.materials, curMaterial)
			r.matNameToIndex[matName] = len(r.materials) - 1
		default:
			if curMaterial == nil {
				return r.emitError(res.Path(), lineNum, `got "%s" without a "newmtl"`, lineTokens[0])
			}

			switch lineTokens[0] {
			case "include":
				if len(lineTokens) < 2 {
					return r.emitError(res.Path(), lineNum, `unsupported syntax for "%s"; expected 1 argument; got %d`, lineTokens[0], len(lineTokens)-1)
				}

				baseMaterialIndex, exists := r.matNameToIndex[lineTokens[1]]
				if !exists {
					return r.emitError(res.Path(), lineNum, `could not include unknown material "%s"`, lineTokens[1])
				}

				// Overwrite material but keep the original name
				*curMaterial = *r.materials[baseMaterialIndex]
				curMaterial.Name = matName
				curMaterial.Used = false
			case "Kd":
				curMaterial.Kd, err = parseVec3(lineTokens)
				curMaterial.hasKd = true
			case "Ks":
				curMaterial.Ks, err = parseVec3(lineTokens)
				curMaterial.hasKs = true
			case "Ns":
				curMaterial.Ns, err = parseFloat32(lineTokens)
				curMaterial.hasNs = true
			case "map_Kd", "map_Ks", "map_bump", "bump", "map_normal", "norm":
				if len(lineTokens) < 2 {
					return r.emitError(res.Path(), lineNum, `unsupported syntax for "%s"; expected 1 argument; got %d`, lineTokens[0], len(lineTokens)-1)
				}

				var target *string
				switch lineTokens[0] {
				case "map_Kd":
					target = &curMaterial.KdTex
				case "map_Ks":
					target = &curMaterial.KsTex
				default:
					target = &curMaterial.NormalTex
				}

				// Texture options precede the file name
				*target = lineTokens[len(lineTokens)-1]
			}

			// Report any errors
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
		}
	}

	return scanner.Err()
}

// Given an index for a face coord type (vertex, normal, tex) calculate the
// proper offset into the coord list. Wavefront format can also use negative
// indices to reference elements from the end of the coord list.
func selectFaceCoordIndex(indexToken string, coordListLen int, relOffset int) (int, error) {
	index, err := strconv.ParseInt(indexToken, 10, 32)
	if err != nil {
		return -1, err
	}

	var vOffset int = 0
	if index < 0 {
		vOffset = coordListLen + int(index)
	} else {
		vOffset = relOffset + int(index-1)
	}
	if vOffset < 0 || vOffset >= coordListLen {
		return -1, fmt.Errorf("index out of bounds")
	}
	return vOffset, nil
}

// Parse a float scalar value.
func parseFloat32(lineTokens []string) (float32, error) {
	if len(lineTokens) < 2 {
		return 0, fmt.Errorf(`unsupported syntax for '%s'; expected 1 argument; got %d`, lineTokens[0], len(lineTokens)-1)
	}

	val, err := strconv.ParseFloat(lineTokens[1], 32)
	if err != nil {
		return 0, err
	}

	return float32(val), nil
}

// Parse a Vec3 row.
func parseVec3(lineTokens []string) (types.Vec3, error) {
	if len(lineTokens) < 4 {
		return types.Vec3{}, fmt.Errorf(`unsupported syntax for '%s'; expected 3 arguments; got %d`, lineTokens[0], len(lineTokens)-1)
	}

	v := types.Vec3{}
	for tokIdx := 1; tokIdx <= 3; tokIdx++ {
		coord, err := strconv.ParseFloat(lineTokens[tokIdx], 32)
		if err != nil {
			return v, err
		}
		v[tokIdx-1] = float32(coord)
	}
	return v, nil
}

// Parse a Vec2 row. A third texture coordinate is ignored.
func parseVec2(lineTokens []string) (types.Vec2, error) {
	if len(lineTokens) < 3 {
		return types.Vec2{}, fmt.Errorf(`unsupported syntax for '%s'; expected 2 arguments; got %d`, lineTokens[0], len(lineTokens)-1)
	}

	v := types.Vec2{}
	for tokIdx := 1; tokIdx <= 2; tokIdx++ {
		coord, err := strconv.ParseFloat(lineTokens[tokIdx], 32)
		if err != nil {
			return v, err
		}
		v[tokIdx-1] = float32(coord)
	}
	return v, nil
}

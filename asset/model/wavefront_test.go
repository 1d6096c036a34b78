package model

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/achilleasa/softrast/asset"
	"github.com/achilleasa/softrast/asset/material"
	"github.com/achilleasa/softrast/types"
)

func mockResource(payload string) *asset.Resource {
	return asset.NewResourceFromStream("embedded", strings.NewReader(payload))
}

func TestFloat32Parser(t *testing.T) {
	expError := "unsupported syntax for 'Ns'; expected 1 argument; got 0"
	_, err := parseFloat32([]string{"Ns"})
	if err == nil || err.Error() != expError {
		t.Fatalf("expected to get %s; got %v", expError, err)
	}

	_, err = parseFloat32([]string{"Ns", "not-a-float"})
	if err == nil {
		t.Fatal("expected to get a parse error")
	}

	v, err := parseFloat32([]string{"Ns", "3.14"})
	if err != nil {
		t.Fatal(err)
	}
	if v != 3.14 {
		t.Fatalf("expected parsed value to be 3.14; got %f", v)
	}
}

func TestVecParsers(t *testing.T) {
	expError := "unsupported syntax for 'vt'; expected 2 arguments; got 1"
	_, err := parseVec2([]string{"vt", "1"})
	if err == nil || err.Error() != expError {
		t.Fatalf("expected to get %s; got %v", expError, err)
	}

	v2, err := parseVec2([]string{"vt", "0.5", "0.25", "0"})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(v2, types.Vec2{0.5, 0.25}) {
		t.Fatalf("expected parsed value to be (0.5, 0.25); got %v", v2)
	}

	expError = "unsupported syntax for 'v'; expected 3 arguments; got 0"
	_, err = parseVec3([]string{"v"})
	if err == nil || err.Error() != expError {
		t.Fatalf("expected to get %s; got %v", expError, err)
	}

	_, err = parseVec3([]string{"v", "not-a-float", "2", "3"})
	if err == nil {
		t.Fatal("expected to get a parse error")
	}

	v3, err := parseVec3([]string{"v", "3.14", "0", "0.4"})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(v3, types.Vec3{3.14, 0, 0.4}) {
		t.Fatalf("expected parsed value to be (3.14, 0, 0.4); got %v", v3)
	}
}

func TestSelectFaceCoordinate(t *testing.T) {
	expError := "index out of bounds"
	type spec struct {
		in        string
		listLen   int
		relOffset int
		out       int
		expError  string
	}
	specs := []spec{
		{"2", 1, 0, -1, expError},
		{"-2", 1, 0, -1, expError},
		{"1", 10, 0, 0, ""}, // indices are 1-based
		{"-1", 10, 0, 9, ""},
		{"1", 10, 4, 4, ""},
		{"-1", 10, 4, 9, ""},
	}

	for idx, s := range specs {
		v, err := selectFaceCoordIndex(s.in, s.listLen, s.relOffset)
		if s.expError != "" && (err == nil || err.Error() != s.expError) {
			t.Fatalf("[spec %d] expected error %s; got %v", idx, s.expError, err)
		} else if v != s.out {
			t.Fatalf("[spec %d] expected index to be %d; got %d", idx, s.out, v)
		}
	}
}

func TestParseSingleFacedObject(t *testing.T) {
	payload := `
o testObj
v 0 0 0
v 1 0 0
v 0 1 0
vn 1 0 0
vt 0 0
vn 0 1 0
vt 0 1
vn 0 1 0
vt 1 0
vn 0 0 1
# Comment
f 1/1/1 2/2/2 -1/-1/-1
`

	m, err := Read(mockResourceWithExt(payload), DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	if len(m.Meshes) != 1 {
		t.Fatalf("expected 1 mesh to be parsed; got %d", len(m.Meshes))
	}

	mesh0 := m.Meshes[0]
	if mesh0.Name != "testObj" {
		t.Fatalf("expected mesh[0] name to be 'testObj'; got %s", mesh0.Name)
	}
	if !reflect.DeepEqual(mesh0.Indices, []uint32{0, 1, 2}) {
		t.Fatalf("expected indices to be [0 1 2]; got %v", mesh0.Indices)
	}

	expPoints := []types.Vec4{{0, 0, 0, 1}, {1, 0, 0, 1}, {0, 1, 0, 1}}
	expNormals := []types.Vec3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	// V coordinates are flipped by default
	expUVs := []types.Vec2{{0, 1}, {0, 0}, {1, 1}}
	for idx := range expPoints {
		v := mesh0.Vertices[idx]
		if v.Position != expPoints[idx] {
			t.Fatalf("expected vertex %d to be %v; got %v", idx, expPoints[idx], v.Position)
		}
		if v.Normal != expNormals[idx] {
			t.Fatalf("expected normal %d to be %v; got %v", idx, expNormals[idx], v.Normal)
		}
		if v.TexCoord != expUVs[idx] {
			t.Fatalf("expected uv %d to be %v; got %v", idx, expUVs[idx], v.TexCoord)
		}
	}

	if len(m.Materials) != 1 {
		t.Fatalf("expected model to contain 1 material; got %d", len(m.Materials))
	}
	if got := mesh0.Material.Diffuse(0.5, 0.5); got != material.DefaultDiffuse {
		t.Fatalf("expected faces without a material to use the default red material; got %v", got)
	}

	expBBox := [2]types.Vec3{{0, 0, 0}, {1, 1, 0}}
	if m.BBox != expBBox {
		t.Fatalf("expected bbox to be %v; got %v", expBBox, m.BBox)
	}
	if exp := (types.Vec3{0.5, 0.5, 0}); m.Center() != exp {
		t.Fatalf("expected center to be %v; got %v", exp, m.Center())
	}
}

func TestNoFlipUVs(t *testing.T) {
	payload := `
v 0 0 0
v 1 0 0
v 0 1 0
vt 0.25 0.25
f 1/1 2/1 3/1
`
	m, err := Read(mockResourceWithExt(payload), Options{FlipUVs: false})
	if err != nil {
		t.Fatal(err)
	}
	if got := m.Meshes[0].Vertices[0].TexCoord; got != (types.Vec2{0.25, 0.25}) {
		t.Fatalf("expected uv to be kept unchanged; got %v", got)
	}
	if m.Meshes[0].Name != "default" {
		t.Fatalf("expected faces outside an object to go to the 'default' mesh; got %s", m.Meshes[0].Name)
	}
}

func TestPolygonTriangulation(t *testing.T) {
	payload := `
o quad
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
f 1 2 3 4
o smooth
vn 0 0 1
f 1//1 2//1 3//1 4//1
o empty
`
	m, err := Read(mockResourceWithExt(payload), DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	if len(m.Meshes) != 2 {
		t.Fatalf("expected 2 meshes (empty objects are dropped); got %d", len(m.Meshes))
	}

	quad := m.Meshes[0]
	if quad.TriangleCount() != 2 {
		t.Fatalf("expected quad to be split into 2 triangles; got %d", quad.TriangleCount())
	}
	if len(quad.Vertices) != 6 {
		t.Fatalf("expected flat shaded quad to use 6 vertices; got %d", len(quad.Vertices))
	}
	for idx, v := range quad.Vertices {
		if !types.ApproxEqual(v.Normal, types.Vec3{0, 0, 1}, 1e-6) {
			t.Fatalf("expected generated normal %d to be (0, 0, 1); got %v", idx, v.Normal)
		}
	}
	expFan := [][3]types.Vec4{
		{{0, 0, 0, 1}, {1, 0, 0, 1}, {1, 1, 0, 1}},
		{{0, 0, 0, 1}, {1, 1, 0, 1}, {0, 1, 0, 1}},
	}
	for tri, exp := range expFan {
		for corner := 0; corner < 3; corner++ {
			got := quad.Vertices[quad.Indices[tri*3+corner]].Position
			if got != exp[corner] {
				t.Fatalf("expected triangle %d corner %d to be %v; got %v", tri, corner, exp[corner], got)
			}
		}
	}

	smooth := m.Meshes[1]
	if len(smooth.Vertices) != 4 || len(smooth.Indices) != 6 {
		t.Fatalf("expected shared vertices to be reused; got %d vertices / %d indices", len(smooth.Vertices), len(smooth.Indices))
	}
	if m.TriangleCount() != 4 || m.VertexCount() != 10 {
		t.Fatalf("unexpected model totals: %d triangles, %d vertices", m.TriangleCount(), m.VertexCount())
	}
}

func TestFaceErrors(t *testing.T) {
	specs := []struct {
		payload  string
		expError string
	}{
		{
			"v 0 0 0\nf 1 1",
			`[embedded.obj: 2] error: unsupported syntax for "f"; expected at least 3 arguments; got 2`,
		},
		{
			"v 0 0 0\nf 1 1/1 1",
			"[embedded.obj: 2] error: expected each face argument to contain 1 indices; arg 1 contains 2 indices",
		},
		{
			"v 0 0 0\nf 1 2 3",
			"[embedded.obj: 2] error: could not parse vertex coord for face argument 1: index out of bounds",
		},
		{
			"usemtl foo",
			`[embedded.obj: 1] error: undefined material with name "foo"`,
		},
	}

	for index, spec := range specs {
		_, err := Read(mockResourceWithExt(spec.payload), DefaultOptions())
		if err == nil || err.Error() != spec.expError {
			t.Errorf("[spec %d] expected to get error: %s; got %v", index, spec.expError, err)
		}
	}
}

func TestMaterialLoaderMissingNewMaterialCommand(t *testing.T) {
	payload := `Kd 1.0 1.0 1.0`
	err := newWavefrontReader(DefaultOptions()).parseMaterials(mockResource(payload))

	expError := `[embedded: 1] error: got "Kd" without a "newmtl"`
	if err == nil || err.Error() != expError {
		t.Fatalf("expected to get error: %s; got %v", expError, err)
	}
}

func TestMaterialLoaderInvalidVec3Param(t *testing.T) {
	payload := `
	newmtl foo
	Kd 1.0`
	err := newWavefrontReader(DefaultOptions()).parseMaterials(mockResource(payload))

	expError := "[embedded: 3] error: unsupported syntax for 'Kd'; expected 3 arguments; got 1"
	if err == nil || err.Error() != expError {
		t.Fatalf("expected to get error: %s; got %v", expError, err)
	}
}

func TestMaterialLoaderDuplicateMaterial(t *testing.T) {
	payload := `
	newmtl foo
	newmtl foo`
	err := newWavefrontReader(DefaultOptions()).parseMaterials(mockResource(payload))

	expError := `[embedded: 3] error: material "foo" already defined`
	if err == nil || err.Error() != expError {
		t.Fatalf("expected to get error: %s; got %v", expError, err)
	}
}

func TestMaterialLoaderSuccess(t *testing.T) {
	payload := `
	# comment
	newmtl foo
	Kd 1.0 1.0 1.0
	Ks 0.1 0.2 0.3
	Ns 64
	map_Kd -s 1 1 1 diffuse.png
	bump normal.png
	newmtl bar
	include foo
	Kd 0.5 0.5 0.5`
	r := newWavefrontReader(DefaultOptions())
	err := r.parseMaterials(mockResource(payload))
	if err != nil {
		t.Fatal(err)
	}

	if len(r.materials) != 2 {
		t.Fatalf("expected to parse 2 materials; got %d", len(r.materials))
	}

	mat := r.materials[0]
	if mat.Name != "foo" {
		t.Fatalf("expected material name to be 'foo'; got %s", mat.Name)
	}
	if !reflect.DeepEqual(mat.Kd, types.Vec3{1, 1, 1}) {
		t.Fatalf("expected Kd to be (1, 1, 1); got %v", mat.Kd)
	}
	if !reflect.DeepEqual(mat.Ks, types.Vec3{0.1, 0.2, 0.3}) {
		t.Fatalf("expected Ks to be (0.1, 0.2, 0.3); got %v", mat.Ks)
	}
	if mat.Ns != 64 {
		t.Fatalf("expected Ns to be 64; got %f", mat.Ns)
	}
	if mat.KdTex != "diffuse.png" || mat.NormalTex != "normal.png" {
		t.Fatalf("expected texture names to be parsed; got %q, %q", mat.KdTex, mat.NormalTex)
	}

	inc := r.materials[1]
	if inc.Name != "bar" || inc.Ns != 64 || inc.Kd != (types.Vec3{0.5, 0.5, 0.5}) {
		t.Fatalf("expected included material to inherit and override params; got %+v", inc)
	}
}

func TestLoadModelWithMaterials(t *testing.T) {
	dir := t.TempDir()

	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.NRGBA{0, 0, 255, 255})
	writePNG(t, filepath.Join(dir, "blue.png"), img)

	writeFile(t, filepath.Join(dir, "scene.mtl"), `
newmtl green
Kd 0 1 0
Ks 0.5 0.5 0.5
newmtl textured
map_Kd blue.png
newmtl unused
Kd 1 1 1
`)
	writeFile(t, filepath.Join(dir, "part.obj"), `
v 0 0 1
v 1 0 1
v 0 1 1
f 1 2 3
`)
	writeFile(t, filepath.Join(dir, "scene.obj"), `
mtllib scene.mtl
o box
v 0 0 0
v 1 0 0
v 0 1 0
usemtl green
f 1 2 3
usemtl textured
f 1 2 3
call part.obj
`)

	m, err := Load(filepath.Join(dir, "scene.obj"), DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	if len(m.Materials) != 2 {
		t.Fatalf("expected unused materials to be pruned; got %d materials", len(m.Materials))
	}

	expNames := []string{"box", "box/textured"}
	if len(m.Meshes) != len(expNames) {
		t.Fatalf("expected %d meshes; got %d", len(expNames), len(m.Meshes))
	}
	for idx, exp := range expNames {
		if m.Meshes[idx].Name != exp {
			t.Fatalf("expected mesh %d name to be %q; got %q", idx, exp, m.Meshes[idx].Name)
		}
	}

	green := m.Meshes[0].Material
	if got := green.Diffuse(0, 0); got != (types.Vec4{0, 1, 0, 1}) {
		t.Fatalf("expected green diffuse; got %v", got)
	}
	if got := green.Specular(0, 0); got != (types.Vec4{0.5, 0.5, 0.5, 1}) {
		t.Fatalf("expected specular color; got %v", got)
	}
	if green.Shininess() != material.DefaultShininess {
		t.Fatalf("expected default shininess; got %f", green.Shininess())
	}

	textured := m.Meshes[1]
	if got := textured.Material.Diffuse(0.5, 0.5); got != (types.Vec4{0, 0, 1, 1}) {
		t.Fatalf("expected texture sample to be blue; got %v", got)
	}

	// The included file appends its face to the active mesh using the
	// included file's own vertex offsets.
	if textured.TriangleCount() != 2 {
		t.Fatalf("expected included face to be appended to the textured mesh; got %d triangles", textured.TriangleCount())
	}
	if got := textured.Vertices[textured.Indices[3]].Position; got != (types.Vec4{0, 0, 1, 1}) {
		t.Fatalf("expected included vertex to be (0, 0, 1); got %v", got)
	}

	stats := m.Stats()
	for _, exp := range []string{"box/textured", "TOTAL", "textured"} {
		if !strings.Contains(stats, exp) {
			t.Fatalf("expected stats table to contain %q:\n%s", exp, stats)
		}
	}
}

func TestIncludeErrorStack(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "broken.obj"), "v 0 0\n")
	writeFile(t, filepath.Join(dir, "main.obj"), "call broken.obj\n")

	_, err := Load(filepath.Join(dir, "main.obj"), DefaultOptions())
	if err == nil {
		t.Fatal("expected an error")
	}

	lines := strings.Split(err.Error(), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected error to include the reference stack; got %q", err.Error())
	}
	if !strings.Contains(lines[0], "broken.obj: 1] error: unsupported syntax for 'v'") {
		t.Fatalf("unexpected error: %q", lines[0])
	}
	if !strings.Contains(lines[1], "referenced from") || !strings.Contains(lines[1], "main.obj:1 [call]") {
		t.Fatalf("unexpected stack frame: %q", lines[1])
	}
}

func TestUnsupportedModelFormat(t *testing.T) {
	res := asset.NewResourceFromStream("model.fbx", strings.NewReader(""))
	_, err := Read(res, DefaultOptions())

	expError := `model: unsupported model format ".fbx"`
	if err == nil || err.Error() != expError {
		t.Fatalf("expected to get error: %s; got %v", expError, err)
	}
}

func mockResourceWithExt(payload string) *asset.Resource {
	return asset.NewResourceFromStream("embedded.obj", strings.NewReader(payload))
}

func writeFile(t *testing.T, path, content string) {
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func writePNG(t *testing.T, path string, img image.Image) {
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

package renderer

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/achilleasa/softrast/asset/material"
	"github.com/achilleasa/softrast/asset/model"
	"github.com/achilleasa/softrast/raster"
	"github.com/achilleasa/softrast/scene"
	"github.com/achilleasa/softrast/types"
)

func quadScene(halfSize float32) *scene.Scene {
	white := types.Vec4{1, 1, 1, 1}
	normal := types.Vec3{0, 0, 1}
	mesh := &raster.Mesh{
		Name: "quad",
		Vertices: []raster.Vertex{
			raster.NewVertex(types.Vec3{-halfSize, -halfSize, 0}, white, types.Vec2{0, 0}, normal),
			raster.NewVertex(types.Vec3{halfSize, -halfSize, 0}, white, types.Vec2{1, 0}, normal),
			raster.NewVertex(types.Vec3{halfSize, halfSize, 0}, white, types.Vec2{1, 1}, normal),
			raster.NewVertex(types.Vec3{-halfSize, halfSize, 0}, white, types.Vec2{0, 1}, normal),
		},
		Indices:  []uint32{0, 1, 2, 0, 2, 3},
		Material: material.Solid("green", types.Vec4{0, 1, 0, 1}),
	}

	sc := scene.NewScene()
	sc.FrameW, sc.FrameH = 64, 64
	sc.BgColor = types.Vec4{0, 0, 0, 1}
	sc.Shader = scene.BasicShader

	camera := scene.NewCamera(90)
	camera.Position = types.Vec3{0, 0, 2}
	camera.LookAt = types.Vec3{0, 0, 0}
	sc.SetCamera(camera)

	sc.AddInstance(&scene.Instance{
		Model:     &model.Model{Name: "quad", Meshes: []*raster.Mesh{mesh}},
		Transform: types.Ident4(),
	})
	return sc
}

func TestRendererErrors(t *testing.T) {
	specs := []struct {
		sc       *scene.Scene
		opts     Options
		expError error
	}{
		{nil, Options{}, ErrSceneNotDefined},
		{scene.NewScene(), Options{}, ErrCameraNotDefined},
		{func() *scene.Scene {
			sc := scene.NewScene()
			sc.SetCamera(scene.NewCamera(45))
			return sc
		}(), Options{}, ErrNoModels},
		{quadScene(0.5), Options{FrameW: -1}, ErrInvalidFrameSize},
	}

	for index, spec := range specs {
		_, err := NewDefault(spec.sc, spec.opts)
		if err != spec.expError {
			t.Errorf("[spec %d] expected error %v; got %v", index, spec.expError, err)
		}
	}
}

func TestRenderFrame(t *testing.T) {
	var progress [][2]int
	r, err := NewDefault(quadScene(0.5), Options{
		FlipY: true,
		Progress: func(done, total int) {
			progress = append(progress, [2]int{done, total})
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	if err = r.Render(); err != nil {
		t.Fatal(err)
	}

	frame := r.Frame()
	if frame.Bounds().Dx() != 64 || frame.Bounds().Dy() != 64 {
		t.Fatalf("expected frame to use the scene dimensions; got %v", frame.Bounds())
	}

	expColor := color.NRGBA{0, 255, 0, 255}
	if got := frame.At(32, 32); got != expColor {
		t.Fatalf("expected center pixel to be %v; got %v", expColor, got)
	}
	expColor = color.NRGBA{0, 0, 0, 255}
	if got := frame.At(2, 2); got != expColor {
		t.Fatalf("expected corner pixel to be %v; got %v", expColor, got)
	}

	stats := r.Stats()
	if len(stats.Meshes) != 1 || stats.Meshes[0].Name != "quad" {
		t.Fatalf("expected stats for a single mesh; got %+v", stats.Meshes)
	}
	if stats.Totals.Triangles != 2 || stats.Totals.Shaded == 0 {
		t.Fatalf("unexpected frame totals: %+v", stats.Totals)
	}
	if len(progress) != 1 || progress[0] != [2]int{2, 2} {
		t.Fatalf("expected a single progress update (2/2); got %v", progress)
	}

	table := stats.Table()
	for _, exp := range []string{"quad", "TOTAL", "Depth rejected"} {
		if !strings.Contains(table, exp) {
			t.Fatalf("expected stats table to contain %q:\n%s", exp, table)
		}
	}

	// Rendering again resets the stats
	if err = r.Render(); err != nil {
		t.Fatal(err)
	}
	if got := r.Stats().Totals.Triangles; got != 2 {
		t.Fatalf("expected stats to reset between frames; got %d triangles", got)
	}
}

func TestRenderWireframe(t *testing.T) {
	r, err := NewDefault(quadScene(0.5), Options{Wireframe: true})
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	if err = r.Render(); err != nil {
		t.Fatal(err)
	}

	stats := r.Stats()
	if stats.Totals.Shaded != 0 {
		t.Fatalf("expected wireframe rendering to skip shading; got %d shaded fragments", stats.Totals.Shaded)
	}

	frame := r.Frame()
	white := color.NRGBA{255, 255, 255, 255}
	lines := 0
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			if frame.At(x, y) == white {
				lines++
			}
		}
	}
	if lines == 0 {
		t.Fatal("expected wireframe edges to be drawn")
	}
	if got := frame.At(36, 30); got == white {
		t.Fatal("expected triangle interior to stay unfilled")
	}
}

func TestWriteFrame(t *testing.T) {
	r, err := NewDefault(quadScene(0.5), Options{FrameW: 32, FrameH: 16, Channels: 4, FlipY: true})
	if err != nil {
		t.Fatal(err)
	}

	if err = r.Render(); err != nil {
		t.Fatal(err)
	}

	imgFile := filepath.Join(t.TempDir(), "frame.png")
	if err = r.WriteFrame(imgFile); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(imgFile)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds() != image.Rect(0, 0, 32, 16) {
		t.Fatalf("expected a 32x16 image; got %v", img.Bounds())
	}

	r.Close()
	if err = r.Render(); err != ErrClosed {
		t.Fatalf("expected error %v; got %v", ErrClosed, err)
	}
	if err = r.WriteFrame(imgFile); err != ErrClosed {
		t.Fatalf("expected error %v; got %v", ErrClosed, err)
	}
	if r.Frame() != nil {
		t.Fatal("expected closed renderer to return a nil frame")
	}
}

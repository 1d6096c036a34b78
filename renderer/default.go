package renderer

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"time"

	"github.com/achilleasa/softrast/log"
	"github.com/achilleasa/softrast/raster"
	"github.com/achilleasa/softrast/scene"
)

// A renderer that draws the scene on the calling goroutine.
type defaultRenderer struct {
	logger log.Logger

	sc   *scene.Scene
	opts Options

	rasterizer *raster.Rasterizer
	stats      FrameStats

	closed bool
}

// Create a new renderer for the scene. Frame settings not defined in opts
// are taken from the scene.
func NewDefault(sc *scene.Scene, opts Options) (Renderer, error) {
	if sc == nil {
		return nil, ErrSceneNotDefined
	}
	if sc.Camera == nil {
		return nil, ErrCameraNotDefined
	}
	if len(sc.Instances) == 0 {
		return nil, ErrNoModels
	}

	if opts.FrameW == 0 {
		opts.FrameW = sc.FrameW
	}
	if opts.FrameH == 0 {
		opts.FrameH = sc.FrameH
	}
	if opts.Channels == 0 {
		opts.Channels = sc.Channels
	}
	if opts.FrameW <= 0 || opts.FrameH <= 0 || opts.Channels <= 0 {
		return nil, ErrInvalidFrameSize
	}
	opts.Wireframe = opts.Wireframe || sc.Wireframe

	var shader raster.Shader
	switch sc.Shader {
	case scene.BasicShader:
		shader = raster.NewBasicShader()
	case scene.BlinnPhongShader:
		shader = raster.NewBlinnPhongShader()
	default:
		return nil, fmt.Errorf("renderer: unsupported shader %s", sc.Shader)
	}

	rasterOpts := raster.DefaultOptions()
	rasterOpts.Coverage = sc.Coverage

	r := &defaultRenderer{
		logger:     log.New("renderer"),
		sc:         sc,
		opts:       opts,
		rasterizer: raster.New(opts.FrameW, opts.FrameH, opts.Channels, shader, rasterOpts),
	}

	// Update projection matrix
	sc.Camera.SetupProjection(float32(opts.FrameW) / float32(opts.FrameH))

	r.logger.Infof("using %s shader with %s coverage for a %dx%dx%d frame", sc.Shader, sc.Coverage, opts.FrameW, opts.FrameH, opts.Channels)
	return r, nil
}

// Render frame.
func (r *defaultRenderer) Render() error {
	if r.closed {
		return ErrClosed
	}

	start := time.Now()
	r.stats = FrameStats{}
	r.rasterizer.Clear(r.sc.BgColor)

	camera := r.sc.Camera
	total := r.sc.TriangleCount()
	done := 0
	for _, inst := range r.sc.Instances {
		u := raster.Uniforms{
			Model:      inst.Transform,
			View:       camera.ViewMat,
			Projection: camera.ProjMat,
			CameraPos:  camera.Position,
			Lights:     r.sc.Lights,
		}

		for _, mesh := range inst.Model.Meshes {
			meshStart := time.Now()
			r.rasterizer.ResetStats()
			if r.opts.Wireframe {
				r.rasterizer.DrawWireframeMesh(mesh, u)
			} else {
				r.rasterizer.DrawMesh(mesh, u)
			}

			stat := MeshStat{
				Name:       mesh.Name,
				Raster:     r.rasterizer.Stats(),
				RenderTime: time.Since(meshStart),
			}
			r.stats.Meshes = append(r.stats.Meshes, stat)
			r.stats.Totals = r.stats.Totals.Add(stat.Raster)

			done += mesh.TriangleCount()
			if r.opts.Progress != nil {
				r.opts.Progress(done, total)
			}
		}
	}

	r.stats.RenderTime = time.Since(start)
	r.logger.Noticef("rendered %d triangles in %d ms", done, r.stats.RenderTime.Nanoseconds()/1e6)
	return nil
}

// Release the framebuffer.
func (r *defaultRenderer) Close() {
	if r.closed {
		return
	}
	r.closed = true
	r.rasterizer = nil
}

// Get render statistics for the last frame.
func (r *defaultRenderer) Stats() FrameStats {
	return r.stats
}

// Get the last rendered frame. A closed renderer returns nil.
func (r *defaultRenderer) Frame() image.Image {
	if r.closed {
		return nil
	}
	return r.rasterizer.Framebuffer().Image(r.opts.FlipY)
}

// Write the last rendered frame to a png file.
func (r *defaultRenderer) WriteFrame(imgFile string) error {
	if r.closed {
		return ErrClosed
	}

	start := time.Now()
	f, err := os.Create(imgFile)
	if err != nil {
		return fmt.Errorf("renderer: %w", err)
	}
	defer f.Close()

	err = png.Encode(f, r.Frame())
	if err != nil {
		return fmt.Errorf("renderer: could not encode png file: %w", err)
	}

	r.logger.Noticef("wrote frame to %s in %d ms", imgFile, time.Since(start).Nanoseconds()/1e6)
	return nil
}

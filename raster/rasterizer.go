package raster

import (
	"math"

	"github.com/achilleasa/softrast/log"
	"github.com/achilleasa/softrast/types"
)

// Coverage selects the pixel inclusion test used during scan conversion.
type Coverage uint8

const (
	// Pixels are covered when all signed-area barycentric weights are >= 0.
	BarycentricCoverage Coverage = iota

	// Vertices are reordered counter-clockwise and pixels are covered when
	// they lie strictly inside all three edges.
	EdgeCoverage
)

func (c Coverage) String() string {
	switch c {
	case BarycentricCoverage:
		return "barycentric"
	case EdgeCoverage:
		return "edge"
	}
	return "unknown"
}

// Options tune the rasterizer pipeline.
type Options struct {
	Coverage Coverage

	// Drop triangles whose projected winding is clockwise.
	CullBackFaces bool

	// Color used by DrawWireframeTriangle.
	LineColor types.Vec4
}

func DefaultOptions() Options {
	return Options{
		Coverage:      BarycentricCoverage,
		CullBackFaces: true,
		LineColor:     types.Vec4{1, 1, 1, 1},
	}
}

// Rasterizer renders triangles, lines and points into a framebuffer it owns.
// It is not safe for concurrent use.
type Rasterizer struct {
	logger log.Logger

	fb       *Framebuffer
	shader   Shader
	opts     Options
	viewport types.Mat4

	stats Stats
}

// Create a new rasterizer that shades fragments with the supplied shader.
func New(width, height, channels int, shader Shader, opts Options) *Rasterizer {
	r := &Rasterizer{
		logger: log.New("rasterizer"),
		fb:     NewFramebuffer(width, height, channels),
		shader: shader,
		opts:   opts,
	}
	r.viewport = types.Viewport4(width, height)
	r.logger.Debugf("allocated %dx%dx%d framebuffer", width, height, channels)
	return r
}

// Resize the framebuffer. Color contents are discarded and depth is reset.
func (r *Rasterizer) Resize(width, height int) {
	r.fb.Resize(width, height)
	r.viewport = types.Viewport4(width, height)
	r.logger.Debugf("resized framebuffer to %dx%d", width, height)
}

// Fill the color buffer with a gamma encoded color and reset depth.
func (r *Rasterizer) Clear(color types.Vec4) {
	r.fb.ClearColor(color)
	r.fb.ClearDepth()
}

// Bind uniforms for subsequent draw calls.
func (r *Rasterizer) SetUniforms(u Uniforms) {
	r.shader.Bind(u)
}

// Get the framebuffer. Callers must not modify it while drawing.
func (r *Rasterizer) Framebuffer() *Framebuffer {
	return r.fb
}

// Get the pipeline counters accumulated since the last ResetStats call.
func (r *Rasterizer) Stats() Stats {
	return r.stats
}

func (r *Rasterizer) ResetStats() {
	r.stats = Stats{}
}

// Draw every indexed triangle of a mesh using its material. Trailing
// indices that do not form a full triangle are ignored.
func (r *Rasterizer) DrawMesh(mesh *Mesh, u Uniforms) {
	u.Material = mesh.Material
	r.shader.Bind(u)

	vertCount := uint32(len(mesh.Vertices))
	for i := 0; i+2 < len(mesh.Indices); i += 3 {
		i1, i2, i3 := mesh.Indices[i], mesh.Indices[i+1], mesh.Indices[i+2]
		if i1 >= vertCount || i2 >= vertCount || i3 >= vertCount {
			r.logger.Warningf("mesh %q: skipping triangle %d with out of range index", mesh.Name, i/3)
			continue
		}
		r.DrawTriangle(mesh.Vertices[i1], mesh.Vertices[i2], mesh.Vertices[i3])
	}
}

// Draw a filled triangle.
func (r *Rasterizer) DrawTriangle(v1, v2, v3 Vertex) {
	r.stats.Triangles++

	poly := clipTriangle(r.shader.Vertex(v1), r.shader.Vertex(v2), r.shader.Vertex(v3))
	if len(poly) < 3 {
		r.stats.ClippedAway++
		return
	}

	for i := 1; i+1 < len(poly); i++ {
		r.drawClippedTriangle(poly[0], poly[i], poly[i+1])
	}
}

// Run the post-clip stages for a single fan triangle.
func (r *Rasterizer) drawClippedTriangle(o1, o2, o3 Vertex2Fragment) {
	o1.perspectiveDivide()
	o2.perspectiveDivide()
	o3.perspectiveDivide()

	if r.opts.CullBackFaces && backFacing(o1.ClipPos, o2.ClipPos, o3.ClipPos) {
		r.stats.Culled++
		return
	}

	r.toViewport(&o1)
	r.toViewport(&o2)
	r.toViewport(&o3)

	r.stats.Rasterized++
	r.scan(&o1, &o2, &o3)
}

// Map divided clip coordinates to pixel space.
func (r *Rasterizer) toViewport(v *Vertex2Fragment) {
	v.ViewportPos = r.viewport.Mul4x1(v.ClipPos.Vec3().Vec4(1))
}

// Check the winding of a projected triangle against the fixed +Z axis.
func backFacing(p1, p2, p3 types.Vec4) bool {
	e1 := p2.Vec3().Sub(p1.Vec3())
	e2 := p3.Vec3().Sub(p1.Vec3())
	return e1.Cross(e2)[2] < 0
}

// Visit every pixel of the triangle bounding box, interpolate, depth test
// and shade the covered ones.
func (r *Rasterizer) scan(o1, o2, o3 *Vertex2Fragment) {
	p1, p2, p3 := o1.ViewportPos, o2.ViewportPos, o3.ViewportPos

	area := signedArea(p1, p2, p3)
	if area == 0 || math.IsNaN(float64(area)) {
		return
	}

	minX := int(math.Floor(float64(min3(p1[0], p2[0], p3[0]))))
	minY := int(math.Floor(float64(min3(p1[1], p2[1], p3[1]))))
	maxX := int(math.Ceil(float64(max3(p1[0], p2[0], p3[0]))))
	maxY := int(math.Ceil(float64(max3(p1[1], p2[1], p3[1]))))

	// Pixels outside the framebuffer always fail the depth test so the box
	// can be clamped without changing the output.
	minX, minY = maxInt(minX, 0), maxInt(minY, 0)
	maxX, maxY = minInt(maxX, r.fb.Width-1), minInt(maxY, r.fb.Height-1)

	var e1, e2, e3 types.Vec4
	if r.opts.Coverage == EdgeCoverage {
		e1, e2, e3 = p1, p2, p3
		if area < 0 {
			e2, e3 = e3, e2
		}
	}

	for x := minX; x <= maxX; x++ {
		for y := minY; y <= maxY; y++ {
			px, py := float32(x)+0.5, float32(y)+0.5

			if r.opts.Coverage == EdgeCoverage && !insideEdges(px, py, e1, e2, e3) {
				continue
			}

			alpha, beta, gamma := barycentric2D(px, py, p1, p2, p3)
			if r.opts.Coverage == BarycentricCoverage && !(alpha >= 0 && beta >= 0 && gamma >= 0) {
				continue
			}

			bw := perspectiveWeights(alpha, beta, gamma, o1, o2, o3)
			depth := bw.scalar(p1[2], p2[2], p3[2])
			if depth >= r.fb.GetDepth(x, y) {
				r.stats.DepthRejected++
				continue
			}
			r.fb.WriteDepth(x, y, depth)

			frag := bw.fragment(o1, o2, o3)
			color := r.shader.Fragment(&frag)
			color[3] = 1
			r.fb.SetPixel(x, y, color)
			r.stats.Shaded++
		}
	}
}

// Twice the signed area of a 2D triangle; positive for counter-clockwise.
func signedArea(p1, p2, p3 types.Vec4) float32 {
	return (p2[0]-p1[0])*(p3[1]-p1[1]) - (p2[1]-p1[1])*(p3[0]-p1[0])
}

// Barycentric coordinates of (x, y) as ratios of signed sub-triangle areas.
func barycentric2D(x, y float32, v1, v2, v3 types.Vec4) (float32, float32, float32) {
	c1 := (x*(v2[1]-v3[1]) + (v3[0]-v2[0])*y + v2[0]*v3[1] - v3[0]*v2[1]) /
		(v1[0]*(v2[1]-v3[1]) + (v3[0]-v2[0])*v1[1] + v2[0]*v3[1] - v3[0]*v2[1])
	c2 := (x*(v3[1]-v1[1]) + (v1[0]-v3[0])*y + v3[0]*v1[1] - v1[0]*v3[1]) /
		(v2[0]*(v3[1]-v1[1]) + (v1[0]-v3[0])*v2[1] + v3[0]*v1[1] - v1[0]*v3[1])
	c3 := (x*(v1[1]-v2[1]) + (v2[0]-v1[0])*y + v1[0]*v2[1] - v2[0]*v1[1]) /
		(v3[0]*(v1[1]-v2[1]) + (v2[0]-v1[0])*v3[1] + v1[0]*v2[1] - v2[0]*v1[1])
	return c1, c2, c3
}

// Strict inside test for a counter-clockwise triangle.
func insideEdges(x, y float32, p1, p2, p3 types.Vec4) bool {
	p := types.Vec4{x, y}
	return signedArea(p1, p2, p) > 0 &&
		signedArea(p2, p3, p) > 0 &&
		signedArea(p3, p1, p) > 0
}

func min3(a, b, c float32) float32 {
	return float32(math.Min(float64(a), math.Min(float64(b), float64(c))))
}

func max3(a, b, c float32) float32 {
	return float32(math.Max(float64(a), math.Max(float64(b), float64(c))))
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

package raster

import "github.com/achilleasa/softrast/types"

// Shade a vertex, divide and map it to a framebuffer pixel. Coordinates
// outside the framebuffer are clamped to its border.
func (r *Rasterizer) pixelIndex(v Vertex) (int, int) {
	v2f := r.shader.Vertex(v)
	v2f.perspectiveDivide()
	r.toViewport(&v2f)
	return r.clampIndex(v2f.ViewportPos)
}

func (r *Rasterizer) clampIndex(p types.Vec4) (int, int) {
	x, y := int(p[0]), int(p[1])
	x = minInt(maxInt(x, 0), r.fb.Width-1)
	y = minInt(maxInt(y, 0), r.fb.Height-1)
	return x, y
}

// Draw a single pixel using the vertex color.
func (r *Rasterizer) DrawPoint(v Vertex) {
	x, y := r.pixelIndex(v)
	r.fb.SetPixel(x, y, v.Color)
}

// Draw a line between two vertices using the start vertex color.
func (r *Rasterizer) DrawLine(start, end Vertex) {
	x0, y0 := r.pixelIndex(start)
	x1, y1 := r.pixelIndex(end)
	r.drawPixelLine(x0, y0, x1, y1, start.Color)
}

// Draw the outline of a triangle. The clipped polygon is split into its
// fan triangles and each edge is drawn with the configured line color.
func (r *Rasterizer) DrawWireframeTriangle(v1, v2, v3 Vertex) {
	r.stats.Triangles++

	poly := clipTriangle(r.shader.Vertex(v1), r.shader.Vertex(v2), r.shader.Vertex(v3))
	if len(poly) < 3 {
		r.stats.ClippedAway++
		return
	}

	for i := range poly {
		poly[i].perspectiveDivide()
		r.toViewport(&poly[i])
	}

	for i := 1; i+1 < len(poly); i++ {
		r.stats.Rasterized++
		a, b, c := &poly[0], &poly[i], &poly[i+1]
		r.drawEdge(a, b)
		r.drawEdge(b, c)
		r.drawEdge(c, a)
	}
}

// Draw every indexed triangle of a mesh as a wireframe.
func (r *Rasterizer) DrawWireframeMesh(mesh *Mesh, u Uniforms) {
	u.Material = mesh.Material
	r.shader.Bind(u)

	vertCount := uint32(len(mesh.Vertices))
	for i := 0; i+2 < len(mesh.Indices); i += 3 {
		i1, i2, i3 := mesh.Indices[i], mesh.Indices[i+1], mesh.Indices[i+2]
		if i1 >= vertCount || i2 >= vertCount || i3 >= vertCount {
			continue
		}
		r.DrawWireframeTriangle(mesh.Vertices[i1], mesh.Vertices[i2], mesh.Vertices[i3])
	}
}

func (r *Rasterizer) drawEdge(a, b *Vertex2Fragment) {
	x0, y0 := r.clampIndex(a.ViewportPos)
	x1, y1 := r.clampIndex(b.ViewportPos)
	r.drawPixelLine(x0, y0, x1, y1, r.opts.LineColor)
}

// Bresenham line walk along the major axis.
func (r *Rasterizer) drawPixelLine(x0, y0, x1, y1 int, color types.Vec4) {
	steep := false
	if absInt(x0-x1) < absInt(y0-y1) {
		x0, y0 = y0, x0
		x1, y1 = y1, x1
		steep = true
	}
	if x0 > x1 {
		x0, x1 = x1, x0
		y0, y1 = y1, y0
	}

	dx := x1 - x0
	dy := y1 - y0
	derror2 := absInt(dy) * 2
	error2 := 0
	yStep := -1
	if y1 > y0 {
		yStep = 1
	}

	y := y0
	for x := x0; x <= x1; x++ {
		if steep {
			r.fb.SetPixel(y, x, color)
		} else {
			r.fb.SetPixel(x, y, color)
		}

		error2 += derror2
		if error2 > dx {
			y += yStep
			error2 -= dx * 2
		}
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

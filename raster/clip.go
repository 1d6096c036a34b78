package raster

import "github.com/achilleasa/softrast/types"

// Homogeneous clip planes. A clip space point p is inside a plane when
// dot(plane, p) >= 0.
var clipPlanes = [6]types.Vec4{
	{0, 0, 1, 1},  // near
	{0, 0, -1, 1}, // far
	{1, 0, 0, 1},  // left
	{-1, 0, 0, 1}, // right
	{0, -1, 0, 1}, // top
	{0, 1, 0, 1},  // bottom
}

// Max vertex count of a triangle clipped by 6 planes.
const maxClippedVertices = 9

func insidePlane(plane, p types.Vec4) bool {
	return plane.Dot(p) >= 0
}

// Create the vertex where the edge a->b crosses plane.
func planeIntersection(a, b *Vertex2Fragment, plane types.Vec4) Vertex2Fragment {
	da := plane.Dot(a.ClipPos)
	db := plane.Dot(b.ClipPos)
	return a.Lerp(*b, da/(da-db))
}

// Check whether all vertices lie within the x/y extents of the frustum.
// The near/far axis is not tested so triangles crossing the near or far
// plane but otherwise on screen skip clipping.
func insideXY(vertices ...*Vertex2Fragment) bool {
	for _, v := range vertices {
		p := v.ClipPos
		w := p[3]
		if p[0] > w || p[0] < -w || p[1] > w || p[1] < -w {
			return false
		}
	}
	return true
}

// Clip a triangle against the canonical view volume using the
// Sutherland-Hodgeman algorithm. The result is a convex polygon to be
// triangulated as a fan around vertex 0; fewer than 3 vertices means the
// triangle was entirely clipped away.
func clipTriangle(v1, v2, v3 Vertex2Fragment) []Vertex2Fragment {
	output := make([]Vertex2Fragment, 0, maxClippedVertices)
	output = append(output, v1, v2, v3)
	if insideXY(&v1, &v2, &v3) {
		return output
	}

	input := make([]Vertex2Fragment, 0, maxClippedVertices)
	for _, plane := range clipPlanes {
		input, output = output, input[:0]

		n := len(input)
		for i := 0; i < n; i++ {
			cur := &input[i]
			prev := &input[(i+n-1)%n]

			curInside := insidePlane(plane, cur.ClipPos)
			prevInside := insidePlane(plane, prev.ClipPos)
			switch {
			case curInside && !prevInside:
				output = append(output, planeIntersection(cur, prev, plane), *cur)
			case curInside:
				output = append(output, *cur)
			case prevInside:
				output = append(output, planeIntersection(cur, prev, plane))
			}
		}

		if len(output) == 0 {
			break
		}
	}

	return output
}

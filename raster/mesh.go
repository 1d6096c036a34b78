package raster

// A Mesh is an indexed triangle list sharing a single material. Every three
// consecutive indices form a triangle.
type Mesh struct {
	Name     string
	Vertices []Vertex
	Indices  []uint32
	Material Material
}

// Number of complete triangles in the index list.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

package model

import (
	"bytes"
	"fmt"

	"github.com/achilleasa/softrast/asset"
	"github.com/achilleasa/softrast/asset/material"
	"github.com/achilleasa/softrast/raster"
	"github.com/achilleasa/softrast/types"
	"github.com/olekukonko/tablewriter"
)

// Options control how model files are imported.
type Options struct {
	// Flip the V texture coordinate. Wavefront files use a bottom-left
	// origin.
	FlipUVs bool

	// Downscale textures larger than this dimension; zero keeps the
	// original size.
	MaxTextureSize int
}

func DefaultOptions() Options {
	return Options{FlipUVs: true}
}

// A Model is a set of meshes ready to be submitted to the rasterizer.
type Model struct {
	Name      string
	Meshes    []*raster.Mesh
	Materials []*material.Material

	// Model space bounds of all mesh vertices.
	BBox [2]types.Vec3
}

// Load a model from a local path or URL.
func Load(pathToModel string, opts Options) (*Model, error) {
	res, err := asset.NewResource(pathToModel, nil)
	if err != nil {
		return nil, err
	}
	defer res.Close()

	return Read(res, opts)
}

// Read a model from a resource. Only wavefront obj files are supported.
func Read(res *asset.Resource, opts Options) (*Model, error) {
	switch res.Ext() {
	case ".obj":
		return newWavefrontReader(opts).Read(res)
	}
	return nil, fmt.Errorf("model: unsupported model format %q", res.Ext())
}

func (m *Model) TriangleCount() int {
	count := 0
	for _, mesh := range m.Meshes {
		count += mesh.TriangleCount()
	}
	return count
}

func (m *Model) VertexCount() int {
	count := 0
	for _, mesh := range m.Meshes {
		count += len(mesh.Vertices)
	}
	return count
}

// Center of the model bounding box.
func (m *Model) Center() types.Vec3 {
	return m.BBox[0].Add(m.BBox[1]).Mul(0.5)
}

func (m *Model) updateBBox() {
	first := true
	for _, mesh := range m.Meshes {
		for _, v := range mesh.Vertices {
			p := v.Position.Vec3()
			if first {
				m.BBox = [2]types.Vec3{p, p}
				first = false
				continue
			}
			m.BBox[0] = types.MinVec3(m.BBox[0], p)
			m.BBox[1] = types.MaxVec3(m.BBox[1], p)
		}
	}
}

// Render a table with per-mesh statistics.
func (m *Model) Stats() string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Mesh", "Material", "Vertices", "Triangles"})
	for _, mesh := range m.Meshes {
		matName := "none"
		if mat, ok := mesh.Material.(*material.Material); ok && mat != nil {
			matName = mat.Name
		}
		table.Append([]string{
			mesh.Name,
			matName,
			fmt.Sprintf("%d", len(mesh.Vertices)),
			fmt.Sprintf("%d", mesh.TriangleCount()),
		})
	}
	table.SetFooter([]string{"", "TOTAL", fmt.Sprintf("%d", m.VertexCount()), fmt.Sprintf("%d", m.TriangleCount())})
	table.Render()

	return buf.String()
}

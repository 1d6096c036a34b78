package renderer

import (
	"bytes"
	"fmt"
	"time"

	"github.com/achilleasa/softrast/raster"
	"github.com/olekukonko/tablewriter"
)

type MeshStat struct {
	// The mesh name.
	Name string

	// Pipeline counters for this mesh.
	Raster raster.Stats

	// Draw time for this mesh.
	RenderTime time.Duration
}

type FrameStats struct {
	// Individual mesh stats.
	Meshes []MeshStat

	// Counters accumulated over all meshes.
	Totals raster.Stats

	// Total render time for entire frame including the clear.
	RenderTime time.Duration
}

// Render the stats as a table.
func (fs FrameStats) Table() string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Mesh", "Triangles", "Clipped", "Culled", "Rasterized", "Depth rejected", "Shaded", "Render time"})
	for _, stat := range fs.Meshes {
		table.Append(statRow(stat.Name, stat.Raster, stat.RenderTime))
	}
	table.SetFooter(statRow("TOTAL", fs.Totals, fs.RenderTime))
	table.Render()

	return buf.String()
}

func statRow(name string, s raster.Stats, d time.Duration) []string {
	return []string{
		name,
		fmt.Sprintf("%d", s.Triangles),
		fmt.Sprintf("%d", s.ClippedAway),
		fmt.Sprintf("%d", s.Culled),
		fmt.Sprintf("%d", s.Rasterized),
		fmt.Sprintf("%d", s.DepthRejected),
		fmt.Sprintf("%d", s.Shaded),
		d.String(),
	}
}

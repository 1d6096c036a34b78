package raster

// Stats counts the work done by the pipeline stages.
type Stats struct {
	// Triangles submitted to a draw call.
	Triangles int

	// Triangles entirely outside the view volume.
	ClippedAway int

	// Fan triangles dropped by back-face culling.
	Culled int

	// Fan triangles that reached scan conversion.
	Rasterized int

	// Covered pixels that failed the depth test.
	DepthRejected int

	// Fragments written to the framebuffer.
	Shaded int
}

// Add the counters of another Stats value.
func (s Stats) Add(other Stats) Stats {
	return Stats{
		Triangles:     s.Triangles + other.Triangles,
		ClippedAway:   s.ClippedAway + other.ClippedAway,
		Culled:        s.Culled + other.Culled,
		Rasterized:    s.Rasterized + other.Rasterized,
		DepthRejected: s.DepthRejected + other.DepthRejected,
		Shaded:        s.Shaded + other.Shaded,
	}
}

package renderer

type Options struct {
	// Frame dims and channel count. Zero values select the scene settings.
	FrameW   int
	FrameH   int
	Channels int

	// Draw triangle outlines instead of shaded surfaces.
	Wireframe bool

	// Flip the frame vertically when exporting it so row 0 is the top of
	// the image.
	FlipY bool

	// Invoked after each mesh draw with the number of triangles submitted
	// so far and the frame total.
	Progress func(done, total int)
}

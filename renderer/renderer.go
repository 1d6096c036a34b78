package renderer

import "image"

type Renderer interface {
	// Render frame.
	Render() error

	// Release the framebuffer. Subsequent calls to Render fail.
	Close()

	// Get render statistics.
	Stats() FrameStats

	// Get the last rendered frame.
	Frame() image.Image

	// Encode the last rendered frame as a png file.
	WriteFrame(imgFile string) error
}

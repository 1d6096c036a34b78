package raster

import (
	"image"
	"image/color"
	"math"

	"github.com/achilleasa/softrast/types"
)

// Depth value for pixels that no fragment has covered yet.
const farDepth float32 = 1.0

// Gamma exponent applied when clearing the color buffer.
const gammaExponent = 1.0 / 2.2

// The Framebuffer stores row-major 8-bit color data with Channels bytes per
// pixel and one depth value per pixel. Out of range accesses are ignored.
type Framebuffer struct {
	Width    int
	Height   int
	Channels int

	Color []byte
	Depth []float32
}

// Create a framebuffer with a zeroed color buffer and a depth buffer set
// to the far sentinel.
func NewFramebuffer(width, height, channels int) *Framebuffer {
	fb := &Framebuffer{Channels: channels}
	fb.Resize(width, height)
	return fb
}

// Reallocate both buffers for the new dimensions and reset depth.
func (fb *Framebuffer) Resize(width, height int) {
	fb.Width = width
	fb.Height = height
	fb.Color = make([]byte, width*height*fb.Channels)
	fb.Depth = make([]float32, width*height)
	fb.ClearDepth()
}

func (fb *Framebuffer) inBounds(x, y int) bool {
	return x >= 0 && x < fb.Width && y >= 0 && y < fb.Height
}

// Get stored depth. Out of range coordinates report the far sentinel.
func (fb *Framebuffer) GetDepth(x, y int) float32 {
	if !fb.inBounds(x, y) {
		return farDepth
	}
	return fb.Depth[y*fb.Width+x]
}

// Store depth for a pixel.
func (fb *Framebuffer) WriteDepth(x, y int, depth float32) {
	if !fb.inBounds(x, y) {
		return
	}
	fb.Depth[y*fb.Width+x] = depth
}

// Reset every depth entry to the far sentinel.
func (fb *Framebuffer) ClearDepth() {
	n := len(fb.Depth)
	if n == 0 {
		return
	}
	fb.Depth[0] = farDepth
	for i := 1; i < n; i *= 2 {
		copy(fb.Depth[i:], fb.Depth[:i])
	}
}

// Fill the color buffer with a gamma encoded color.
func (fb *Framebuffer) ClearColor(c types.Vec4) {
	if fb.Channels <= 0 {
		return
	}

	var encoded [4]byte
	for ch := 0; ch < fb.Channels && ch < 4; ch++ {
		v := math.Pow(float64(c[ch]), gammaExponent) * 255.99
		encoded[ch] = clampByte(v)
	}

	for offset := 0; offset < len(fb.Color); offset += fb.Channels {
		copy(fb.Color[offset:offset+fb.Channels], encoded[:])
	}
}

// Write a linear color to a pixel. No gamma encoding is applied.
func (fb *Framebuffer) SetPixel(x, y int, c types.Vec4) {
	fb.SetPixelScaled(x, y, c, 1)
}

// Write the average of samples accumulated color samples to a pixel.
func (fb *Framebuffer) SetPixelScaled(x, y int, c types.Vec4, samples int) {
	if !fb.inBounds(x, y) {
		return
	}

	scale := float32(1.0)
	if samples > 1 {
		scale = 1.0 / float32(samples)
	}

	offset := (y*fb.Width + x) * fb.Channels
	for ch := 0; ch < fb.Channels && ch < 4; ch++ {
		fb.Color[offset+ch] = clampByte(float64(c[ch]*scale) * 255.0)
	}
}

// Get the color stored for a pixel. Missing channels are reported as 0
// except alpha which is reported as 255.
func (fb *Framebuffer) Pixel(x, y int) color.RGBA {
	out := color.RGBA{A: 255}
	if !fb.inBounds(x, y) {
		return out
	}

	px := fb.Color[(y*fb.Width+x)*fb.Channels:]
	switch fb.Channels {
	case 1, 2:
		out.R, out.G, out.B = px[0], px[0], px[0]
	default:
		out.R, out.G, out.B = px[0], px[1], px[2]
		if fb.Channels >= 4 {
			out.A = px[3]
		}
	}
	return out
}

// Convert the color buffer to an image for an external encoder. Row 0 of
// the buffer is the bottom of the viewport, so flipY should be set to get a
// conventional top-down image.
func (fb *Framebuffer) Image(flipY bool) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := 0; y < fb.Height; y++ {
		dstY := y
		if flipY {
			dstY = fb.Height - 1 - y
		}
		for x := 0; x < fb.Width; x++ {
			c := fb.Pixel(x, y)
			img.SetNRGBA(x, dstY, color.NRGBA{c.R, c.G, c.B, c.A})
		}
	}
	return img
}

func clampByte(v float64) byte {
	if v != v || v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v)
}

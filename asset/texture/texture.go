package texture

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/achilleasa/softrast/asset"
	"github.com/achilleasa/softrast/log"
	"github.com/achilleasa/softrast/types"
	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var logger = log.New("texture")

// Color returned when sampling an image texture without any data.
var MissingColor = types.Vec4{0, 1, 1, 1}

type Kind uint8

const (
	SolidColor Kind = iota
	Image
)

func (k Kind) String() string {
	if k == SolidColor {
		return "solid"
	}
	return "image"
}

// A Texture is either a constant color or an 8-bit image. Image data is
// stored top row first.
type Texture struct {
	Kind Kind

	// Used by SolidColor textures.
	Color types.Vec4

	// Used by Image textures.
	Format Format
	Width  int
	Height int
	Data   []byte
}

// Create a constant color texture.
func NewSolid(c types.Vec4) *Texture {
	return &Texture{Kind: SolidColor, Color: c}
}

// Sample the texture using nearest neighbor lookup. Coordinates are clamped
// to [0, 1] and v=0 addresses the bottom image row.
func (t *Texture) Sample(u, v float32) types.Vec4 {
	if t.Kind == SolidColor {
		return t.Color
	}
	if len(t.Data) == 0 || t.Width <= 0 || t.Height <= 0 {
		return MissingColor
	}

	u = clamp01(u)
	v = 1.0 - clamp01(v)

	i := int(u * float32(t.Width))
	j := int(v * float32(t.Height))
	if i >= t.Width {
		i = t.Width - 1
	}
	if j >= t.Height {
		j = t.Height - 1
	}

	channels := t.Format.Channels()
	px := t.Data[(j*t.Width+i)*channels:]
	if channels == 1 {
		l := float32(px[0]) / 255.0
		return types.Vec4{l, l, l, 1}
	}
	return types.Vec4{
		float32(px[0]) / 255.0,
		float32(px[1]) / 255.0,
		float32(px[2]) / 255.0,
		float32(px[3]) / 255.0,
	}
}

// Create a new image texture from a Resource. Images larger than maxSize in
// either dimension are downscaled to fit; a zero maxSize disables scaling.
func New(res *asset.Resource, maxSize int) (*Texture, error) {
	img, imgFmt, err := image.Decode(res)
	if err != nil {
		return nil, fmt.Errorf("texture: could not decode %s: %w", res.Path(), err)
	}

	img = fitImage(img, maxSize)
	tex := FromImage(img)
	logger.Debugf("loaded %s texture %s (%dx%d %s)", imgFmt, res.Path(), tex.Width, tex.Height, tex.Format)
	return tex, nil
}

// Load a texture from pathToTexture resolved relative to relTo. Failures are
// logged and produce an empty image texture that samples to MissingColor.
func Load(pathToTexture string, relTo *asset.Resource, maxSize int) *Texture {
	res, err := asset.NewResource(pathToTexture, relTo)
	if err != nil {
		logger.Warningf("could not open texture %s: %v", pathToTexture, err)
		return &Texture{Kind: Image, Format: Rgba8}
	}
	defer res.Close()

	tex, err := New(res, maxSize)
	if err != nil {
		logger.Warningf("%v", err)
		return &Texture{Kind: Image, Format: Rgba8}
	}
	return tex
}

// Convert an image to texture data. Grayscale images keep a single channel;
// everything else is expanded to non-premultiplied RGBA.
func FromImage(img image.Image) *Texture {
	bounds := img.Bounds()
	tex := &Texture{
		Kind:   Image,
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	}

	switch img.ColorModel() {
	case color.GrayModel, color.Gray16Model:
		dst := image.NewGray(image.Rect(0, 0, tex.Width, tex.Height))
		xdraw.Draw(dst, dst.Bounds(), img, bounds.Min, xdraw.Src)
		tex.Format = Luminance8
		tex.Data = dst.Pix
	default:
		dst := image.NewNRGBA(image.Rect(0, 0, tex.Width, tex.Height))
		xdraw.Draw(dst, dst.Bounds(), img, bounds.Min, xdraw.Src)
		tex.Format = Rgba8
		tex.Data = dst.Pix
	}

	return tex
}

func fitImage(img image.Image, maxSize int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if maxSize <= 0 || (w <= maxSize && h <= maxSize) {
		return img
	}

	scale := float64(maxSize) / float64(w)
	if h > w {
		scale = float64(maxSize) / float64(h)
	}
	dw := maxInt(1, int(float64(w)*scale))
	dh := maxInt(1, int(float64(h)*scale))

	dst := image.NewNRGBA(image.Rect(0, 0, dw, dh))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, xdraw.Src, nil)
	logger.Debugf("downscaled texture from %dx%d to %dx%d", w, h, dw, dh)
	return dst
}

func clamp01(v float32) float32 {
	if v < 0 || v != v {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

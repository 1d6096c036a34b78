package texture

// Format describes the pixel layout of image texture data.
type Format uint32

const (
	Luminance8 Format = iota
	Rgba8
)

// Number of bytes per pixel.
func (f Format) Channels() int {
	if f == Luminance8 {
		return 1
	}
	return 4
}

func (f Format) String() string {
	switch f {
	case Luminance8:
		return "luminance8"
	case Rgba8:
		return "rgba8"
	}
	return "unknown"
}

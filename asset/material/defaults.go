package material

import "github.com/achilleasa/softrast/types"

var (
	DefaultDiffuse           = types.Vec4{1.0, 0.0, 0.0, 1.0}
	DefaultShininess float32 = 32.0
)

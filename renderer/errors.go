package renderer

import "errors"

var (
	ErrSceneNotDefined  = errors.New("renderer: no scene defined")
	ErrCameraNotDefined = errors.New("renderer: no camera defined")
	ErrNoModels         = errors.New("renderer: scene contains no models")
	ErrInvalidFrameSize = errors.New("renderer: frame dimensions must be positive")
	ErrClosed           = errors.New("renderer: renderer is closed")
)

package canvas

import (
	"io/fs"

	"github.com/Carmen-Shannon/oxy-beeb/engine/camera"
	"github.com/Carmen-Shannon/oxy-beeb/engine/loader"
)

// CanvasBuilderOption is a functional option for configuring a Canvas via NewCanvas.
type CanvasBuilderOption func(*canvas)

// WithAssetRoot sets the deployment root the assets are read from.
//
// Parameters:
//   - fsys: the asset root
//
// Returns:
//   - CanvasBuilderOption: option function to apply
func WithAssetRoot(fsys fs.FS) CanvasBuilderOption {
	return func(c *canvas) {
		c.assetRoot = fsys
	}
}

// WithLoaders replaces the asset readers. Takes precedence over WithAssetRoot.
//
// Parameters:
//   - l: the loaders
//
// Returns:
//   - CanvasBuilderOption: option function to apply
func WithLoaders(l loader.Loaders) CanvasBuilderOption {
	return func(c *canvas) {
		c.loaders = l
	}
}

// WithAssetPaths overrides the asset locations relative to the root.
//
// Parameters:
//   - paths: the asset paths
//
// Returns:
//   - CanvasBuilderOption: option function to apply
func WithAssetPaths(paths loader.AssetPaths) CanvasBuilderOption {
	return func(c *canvas) {
		c.paths = paths
	}
}

// WithStageHook observes asset pipeline progress.
//
// Parameters:
//   - hook: called after every stage
//
// Returns:
//   - CanvasBuilderOption: option function to apply
func WithStageHook(hook loader.StageHook) CanvasBuilderOption {
	return func(c *canvas) {
		c.hooks = append(c.hooks, hook)
	}
}

// WithCamera replaces the default camera.
//
// Parameters:
//   - cam: the camera
//
// Returns:
//   - CanvasBuilderOption: option function to apply
func WithCamera(cam camera.Camera) CanvasBuilderOption {
	return func(c *canvas) {
		c.camera = cam
	}
}

// WithController attaches ctrl to the camera in place of the default orbit controls.
//
// Parameters:
//   - ctrl: the controller
//
// Returns:
//   - CanvasBuilderOption: option function to apply
func WithController(ctrl camera.CameraController) CanvasBuilderOption {
	return func(c *canvas) {
		if c.camera == nil {
			c.camera = DefaultCamera()
		}
		c.camera.SetController(ctrl)
	}
}

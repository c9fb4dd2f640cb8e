package renderer

import (
	"github.com/Carmen-Shannon/oxy-beeb/engine/renderer/shader"
)

// RendererBuilderOption is a functional option applied to a renderer during construction via NewRenderer.
type RendererBuilderOption func(*renderer)

// WithPresentMode sets the surface present mode which controls how frames are delivered to the display.
//
// Parameters:
//   - mode: the PresentMode to use (VSync or Uncapped)
//
// Returns:
//   - RendererBuilderOption: a function that applies the present mode option to a renderer
func WithPresentMode(mode PresentMode) RendererBuilderOption {
	return func(r *renderer) {
		r.pendingPresentMode = &mode
	}
}

// WithForceSoftwareRenderer forces WGPU to use a CPU/software fallback adapter instead of
// hardware GPU acceleration. This requires a software Vulkan ICD to be installed on the system
// (e.g. SwiftShader or lavapipe).
//
// Parameters:
//   - force: true to force the software fallback adapter, false to use hardware (default)
//
// Returns:
//   - RendererBuilderOption: a function that applies the force software renderer option to a renderer
func WithForceSoftwareRenderer(force bool) RendererBuilderOption {
	return func(r *renderer) {
		r.forceFallbackAdapter = force
	}
}

// WithShaderLibrary replaces the template and chunk library programs are composed from.
//
// Parameters:
//   - lib: the library to use
//
// Returns:
//   - RendererBuilderOption: a function that applies the library option to a renderer
func WithShaderLibrary(lib shader.Library) RendererBuilderOption {
	return func(r *renderer) {
		r.library = lib
	}
}

// WithAmbient sets the ambient term written ahead of the scene lights.
//
// Parameters:
//   - rgb: the ambient color
//
// Returns:
//   - RendererBuilderOption: a function that applies the ambient option to a renderer
func WithAmbient(rgb [3]float32) RendererBuilderOption {
	return func(r *renderer) {
		r.ambient = rgb
	}
}

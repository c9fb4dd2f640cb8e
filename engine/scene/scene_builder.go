package scene

import (
	"image/color"

	"github.com/Carmen-Shannon/oxy-beeb/engine/light"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithName sets the scene's identifier.
//
// Parameters:
//   - name: the scene name
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithName(name string) SceneBuilderOption {
	return func(s *scene) {
		s.name = name
	}
}

// WithBackgroundColor sets the initial solid background from a packed 0xRRGGBB value.
//
// Parameters:
//   - rgb: the packed color
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithBackgroundColor(rgb uint32) SceneBuilderOption {
	return func(s *scene) {
		s.background.Color = color.RGBA{R: uint8(rgb >> 16), G: uint8(rgb >> 8), B: uint8(rgb), A: 0xff}
	}
}

// WithLights adds initial lights to the scene.
//
// Parameters:
//   - lights: the lights to add
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithLights(lights ...light.Light) SceneBuilderOption {
	return func(s *scene) {
		s.lights = append(s.lights, lights...)
	}
}

// WithStudioLighting adds the chassis lighting rig: a sky/ground hemisphere light for
// ambient fill and a white directional key light above and to the right.
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithStudioLighting() SceneBuilderOption {
	return WithLights(
		light.NewHemisphereLight(0xB1E1FF, 0xB97A20, 0.4),
		light.NewDirectionalLight(0xFFFFFF, 0.7, [3]float32{5, 10, 2}),
	)
}

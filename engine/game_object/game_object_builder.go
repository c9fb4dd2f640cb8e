package game_object

import (
	"github.com/Carmen-Shannon/oxy-beeb/engine/model"
	"github.com/Carmen-Shannon/oxy-beeb/engine/renderer/material"
	"github.com/go-gl/mathgl/mgl32"
)

// GameObjectBuilderOption is a functional option for configuring a GameObject during construction.
type GameObjectBuilderOption func(*gameObject)

// WithName sets the name of the GameObject.
//
// Parameters:
//   - name: the object name
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the name
func WithName(name string) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.name = name
	}
}

// WithEnabled sets whether the GameObject is enabled for rendering.
//
// Parameters:
//   - enabled: true to render the object, false to skip it
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the Enabled state
func WithEnabled(enabled bool) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.enabled.Store(enabled)
	}
}

// WithModel assigns geometry to the GameObject.
//
// Parameters:
//   - m: the geometry
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the Model
func WithModel(m model.Model) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.mdl = m
	}
}

// WithMaterials sets the material slots of the GameObject.
//
// Parameters:
//   - mats: the materials, one per slot
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the materials
func WithMaterials(mats ...material.Material) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.materials = append([]material.Material(nil), mats...)
	}
}

// WithPosition sets the initial local position of the GameObject.
//
// Parameters:
//   - x, y, z: position components
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the position
func WithPosition(x, y, z float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.position = mgl32.Vec3{x, y, z}
	}
}

// WithScale sets the initial local scale of the GameObject.
//
// Parameters:
//   - x, y, z: scale factors
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the scale
func WithScale(x, y, z float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.scale = mgl32.Vec3{x, y, z}
	}
}

// WithChildren attaches children to the GameObject.
//
// Parameters:
//   - children: the objects to attach
//
// Returns:
//   - GameObjectBuilderOption: functional option to attach children
func WithChildren(children ...GameObject) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.Add(children...)
	}
}

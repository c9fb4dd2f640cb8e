// Package binder walks a loaded chassis model and resolves the nodes the per-frame sync
// drives: one key cap per scan matrix cell, the three special keys, the LED materials and
// the CRT glass.
package binder

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"fortio.org/log"
	"github.com/Carmen-Shannon/oxy-beeb/engine/compositor"
	"github.com/Carmen-Shannon/oxy-beeb/engine/game_object"
	"github.com/Carmen-Shannon/oxy-beeb/engine/keyboard"
	"github.com/Carmen-Shannon/oxy-beeb/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-beeb/engine/texture"
	"github.com/go-gl/mathgl/mgl32"
)

// Node names the chassis model is required to contain.
const (
	ScreenGlassNode   = "SCREEN_SurfPatch.002"
	SpaceBarNode      = "JOINED_KEYBOARD.026_Cube.039"
	ScreenBackingNode = "SCREEN_PLANE_Plane.003"
	CassetteLEDNode   = "LED_INLAY.001_Cube.085"
	CapsLockLEDNode   = "LED_INLAY.002_Cube.086"
	ShiftLockLEDNode  = "LED_INLAY_Cube.019"
)

// ModelScale is the uniform scale applied to the model root.
const ModelScale = 50

// LEDMaterialSlot is the material slot of an LED node that carries the light.
const LEDMaterialSlot = 1

// keyNodePattern matches key cap meshes. The optional group is the mesh index; a name
// without it is index 0.
var keyNodePattern = regexp.MustCompile(`^JOINED_KEYBOARD(\.([0-9]{3}))?_Cube\..*`)

var (
	// ErrMissingNode is wrapped by a BindingError when a required node is absent.
	ErrMissingNode = errors.New("required node not found")
	// ErrMaterialSlot is wrapped by a BindingError when an LED node lacks a usable light slot.
	ErrMaterialSlot = errors.New("missing LED material slot")
)

// BindingError names the node that could not be bound.
type BindingError struct {
	Name string
	Err  error
}

func (e *BindingError) Error() string {
	return fmt.Sprintf("bind %q: %v", e.Name, e.Err)
}

func (e *BindingError) Unwrap() error {
	return e.Err
}

// Inputs are the loaded assets the screen material is composed from.
type Inputs struct {
	Environment *texture.CubeTexture
	FrameBuffer *texture.Texture
	Mask        *texture.Texture
	Snippets    compositor.Snippets
}

// MeshIndex extracts the key mesh index from a node name.
//
// Parameters:
//   - name: the node name
//
// Returns:
//   - int: the mesh index, 0 when the name carries no suffix
//   - bool: false if the name is not a key cap
func MeshIndex(name string) (int, bool) {
	m := keyNodePattern.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}
	if m[2] == "" {
		return 0, true
	}
	n, err := strconv.Atoi(m[2])
	if err != nil {
		return 0, false
	}
	return n, true
}

// Bind resolves every node the frame sync needs and applies the fixed material overrides:
// black unlit materials on the space bar and the screen backing plane, the composed screen
// material on the glass, and private clones of the LED materials. The model root is scaled
// by ModelScale. Bind mutates the model and must run once, before the model is rendered.
//
// Parameters:
//   - model: the loaded model root
//   - in: the assets for the screen material
//
// Returns:
//   - *Bindings: the resolved references
//   - error: a *BindingError for a missing node, or the compositor's error
func Bind(model game_object.GameObject, in Inputs) (*Bindings, error) {
	if model == nil {
		return nil, &BindingError{Name: "<root>", Err: ErrMissingNode}
	}
	b := &Bindings{}

	model.Traverse(func(node game_object.GameObject) {
		idx, ok := MeshIndex(node.Name())
		if !ok {
			return
		}
		key := keyboard.Remap(idx)
		switch {
		case key.Special():
			b.bindSpecial(key, node)
		case key == keyboard.KeyNone:
		default:
			p := key.Packed()
			if !p.Valid() {
				return
			}
			b.bindKey(p, key, node)
		}
	})

	lookup := func(name string) (game_object.GameObject, error) {
		node, ok := model.ObjectByName(name)
		if !ok {
			return nil, &BindingError{Name: name, Err: ErrMissingNode}
		}
		return node, nil
	}

	glass, err := lookup(ScreenGlassNode)
	if err != nil {
		return nil, err
	}
	space, err := lookup(SpaceBarNode)
	if err != nil {
		return nil, err
	}
	backing, err := lookup(ScreenBackingNode)
	if err != nil {
		return nil, err
	}

	for led, name := range ledNodes {
		node, err := lookup(name)
		if err != nil {
			return nil, err
		}
		mat, err := cloneLEDMaterial(node)
		if err != nil {
			return nil, err
		}
		b.leds[led] = LEDSlot{node: node, material: mat}
	}

	black := material.Hex(0x000000)
	setAll(space, material.NewBasicMaterial(material.WithBasicName("space-bar"), material.WithBasicColor(black)))
	setAll(backing, material.NewBasicMaterial(material.WithBasicName("screen-backing"), material.WithBasicColor(black)))

	screen, err := compositor.BuildScreenMaterial(in.Environment, in.FrameBuffer, in.Mask, in.Snippets)
	if err != nil {
		return nil, err
	}
	setAll(glass, screen)
	b.screen = screen
	b.glass = glass

	model.SetScale(mgl32.Vec3{ModelScale, ModelScale, ModelScale})

	log.Infof("[Binder] bound %d keys, %d specials, %d LEDs", len(b.BoundKeys()), b.specialCount(), len(b.leds))
	return b, nil
}

var ledNodes = [ledCount]string{
	LEDCassette:  CassetteLEDNode,
	LEDCapsLock:  CapsLockLEDNode,
	LEDShiftLock: ShiftLockLEDNode,
}

func cloneLEDMaterial(node game_object.GameObject) (material.PhysicalMaterial, error) {
	if node.MaterialCount() <= LEDMaterialSlot {
		return nil, &BindingError{Name: node.Name(), Err: fmt.Errorf("%w: node has %d slots", ErrMaterialSlot, node.MaterialCount())}
	}
	src := node.Material(LEDMaterialSlot)
	if src == nil {
		return nil, &BindingError{Name: node.Name(), Err: fmt.Errorf("%w: slot %d is empty", ErrMaterialSlot, LEDMaterialSlot)}
	}
	clone, ok := src.Clone().(material.PhysicalMaterial)
	if !ok {
		return nil, &BindingError{Name: node.Name(), Err: fmt.Errorf("%w: slot %d is %s, not physical", ErrMaterialSlot, LEDMaterialSlot, src.Kind())}
	}
	node.SetMaterial(LEDMaterialSlot, clone)
	return clone, nil
}

// setAll installs m in every material slot of node, or as its only material when it has none.
func setAll(node game_object.GameObject, m material.Material) {
	n := max(node.MaterialCount(), 1)
	mats := make([]material.Material, n)
	for i := range mats {
		mats[i] = m
	}
	node.SetMaterials(mats...)
}

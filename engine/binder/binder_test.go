package binder

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-beeb/engine/binder/bindertest"
	"github.com/Carmen-Shannon/oxy-beeb/engine/game_object"
	"github.com/Carmen-Shannon/oxy-beeb/engine/keyboard"
	"github.com/Carmen-Shannon/oxy-beeb/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-beeb/engine/renderer/shader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func inputs() Inputs {
	env, fb, mask := bindertest.Textures()
	return Inputs{Environment: env, FrameBuffer: fb, Mask: mask, Snippets: bindertest.Snippets}
}

func TestMeshIndex(t *testing.T) {
	cases := map[string]struct {
		idx int
		ok  bool
	}{
		"JOINED_KEYBOARD_Cube.001":     {0, true},
		"JOINED_KEYBOARD.029_Cube.040": {29, true},
		"JOINED_KEYBOARD.7_Cube.040":   {0, false},
		"JOINED_KEYBOARD.0290_Cube.1":  {0, false},
		"KEY_JOINED_KEYBOARD_Cube.001": {0, false},
		"JOINED_KEYBOARD.029_Plane":    {0, false},
	}
	for name, want := range cases {
		idx, ok := MeshIndex(name)
		assert.Equal(t, want.ok, ok, name)
		assert.Equal(t, want.idx, idx, name)
	}
}

func TestBindClassifiesKeys(t *testing.T) {
	root := bindertest.Chassis(0, 29, 38, 74, 99)
	b, err := Bind(root, inputs())
	require.NoError(t, err)

	f0, ok := b.Key(keyboard.KeyF0.Packed()).Bound()
	require.True(t, ok)
	assert.Equal(t, bindertest.KeyName(0), f0.Name())

	one, ok := b.Key(keyboard.Key1.Packed()).Bound()
	require.True(t, ok)
	assert.Equal(t, bindertest.KeyName(29), one.Name())

	zero, ok := b.Key(keyboard.Key0.Packed()).Bound()
	require.True(t, ok)
	assert.Equal(t, bindertest.KeyName(38), zero.Name())

	space, ok := b.Key(keyboard.KeySpace.Packed()).Bound()
	require.True(t, ok)
	assert.Equal(t, SpaceBarNode, space.Name())

	// F0, 1, 0 and SPACE; 74 and 99 have no key.
	assert.Len(t, b.BoundKeys(), 4)

	for k, idx := range map[keyboard.Key]int{keyboard.KeyBreak: 27, keyboard.KeyLeftShift: 60, keyboard.KeyRightShift: 71} {
		node, ok := b.Special(k).Bound()
		require.True(t, ok, k.String())
		assert.Equal(t, bindertest.KeyName(idx), node.Name())
	}

	_, ok = b.Special(keyboard.KeyA).Bound()
	assert.False(t, ok)
	_, ok = b.Key(keyboard.NoMapping).Bound()
	assert.False(t, ok)
	_, ok = b.Key(keyboard.KeyA.Packed()).Bound()
	assert.False(t, ok)
}

func TestBindDuplicateOverwrites(t *testing.T) {
	root := bindertest.Chassis(29)
	dup := bindertest.Node("JOINED_KEYBOARD.029_Cube.999")
	root.Add(dup)

	b, err := Bind(root, inputs())
	require.NoError(t, err)
	node, ok := b.Key(keyboard.Key1.Packed()).Bound()
	require.True(t, ok)
	assert.Equal(t, dup.ID(), node.ID(), "last node in traversal order wins")
}

func TestBindMaterialOverrides(t *testing.T) {
	root := bindertest.Chassis()
	b, err := Bind(root, inputs())
	require.NoError(t, err)

	for _, name := range []string{SpaceBarNode, ScreenBackingNode} {
		node, ok := root.ObjectByName(name)
		require.True(t, ok)
		basic, ok := node.Material(0).(material.BasicMaterial)
		require.True(t, ok, name)
		assert.Equal(t, [3]float32{0, 0, 0}, basic.Color())
	}

	glass, ok := root.ObjectByName(ScreenGlassNode)
	require.True(t, ok)
	assert.Same(t, b.ScreenMaterial(), glass.Material(0))
	assert.Equal(t, glass.ID(), b.ScreenNode().ID())

	p, err := material.Compile(b.ScreenMaterial(), shader.NewLibrary())
	require.NoError(t, err)
	assert.Contains(t, p.Fragment, bindertest.Snippets.Prolog)
	assert.Contains(t, p.Uniforms, "maskTexture")

	assert.Equal(t, float32(ModelScale), root.Scale().X())
}

func TestBindClonesLEDMaterials(t *testing.T) {
	root := bindertest.Chassis()
	b, err := Bind(root, inputs())
	require.NoError(t, err)

	seen := map[material.PhysicalMaterial]bool{}
	for _, led := range LEDs {
		slot := b.LED(led)
		m, ok := slot.Bound()
		require.True(t, ok, led.String())
		assert.NotSame(t, bindertest.Led, m)
		assert.Same(t, m, slot.Node().Material(LEDMaterialSlot))
		assert.Equal(t, "body", slot.Node().Material(0).Name())
		assert.False(t, seen[m], "each LED has its own clone")
		seen[m] = true
	}

	// Lighting one LED leaves the others and the library material dark.
	caps, _ := b.LED(LEDCapsLock).Bound()
	caps.SetEmissive([3]float32{1, 0, 0})
	shift, _ := b.LED(LEDShiftLock).Bound()
	assert.Equal(t, [3]float32{0, 0, 0}, shift.Emissive())
	assert.Equal(t, [3]float32{0, 0, 0}, bindertest.Led.Emissive())

	_, ok := b.LED(LED(7)).Bound()
	assert.False(t, ok)
}

func TestBindMissingNode(t *testing.T) {
	for _, name := range []string{ScreenGlassNode, SpaceBarNode, ScreenBackingNode, CassetteLEDNode, CapsLockLEDNode, ShiftLockLEDNode} {
		t.Run(name, func(t *testing.T) {
			root := bindertest.Chassis()
			node, ok := root.ObjectByName(name)
			require.True(t, ok)
			// Detach by moving the node under an unrelated root.
			game_object.NewGameObject(game_object.WithChildren(node))

			_, err := Bind(root, inputs())
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMissingNode)
			var be *BindingError
			require.True(t, errors.As(err, &be))
			assert.Equal(t, name, be.Name)
		})
	}
}

func TestBindLEDWithoutSecondSlot(t *testing.T) {
	root := bindertest.Chassis()
	node, ok := root.ObjectByName(CapsLockLEDNode)
	require.True(t, ok)
	node.SetMaterials(material.NewPhysicalMaterial())

	_, err := Bind(root, inputs())
	assert.ErrorIs(t, err, ErrMaterialSlot)
	var be *BindingError
	require.True(t, errors.As(err, &be))
	assert.Equal(t, CapsLockLEDNode, be.Name)
}

func TestBindPropagatesCompositorErrors(t *testing.T) {
	in := inputs()
	in.Mask = nil
	_, err := Bind(bindertest.Chassis(), in)
	assert.Error(t, err)

	_, err = Bind(nil, inputs())
	assert.ErrorIs(t, err, ErrMissingNode)
}

func TestNilBindingsAreEmpty(t *testing.T) {
	var b *Bindings
	_, ok := b.Key(0).Bound()
	assert.False(t, ok)
	_, ok = b.LED(LEDCassette).Bound()
	assert.False(t, ok)
	assert.Nil(t, b.ScreenMaterial())
	assert.Empty(t, b.BoundKeys())
}

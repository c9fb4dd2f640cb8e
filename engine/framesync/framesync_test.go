package framesync

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-beeb/engine/binder"
	"github.com/Carmen-Shannon/oxy-beeb/engine/binder/bindertest"
	"github.com/Carmen-Shannon/oxy-beeb/engine/keyboard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProcessor struct {
	state State
	reads int
}

func (f *fakeProcessor) State() State {
	f.reads++
	return f.state
}

type countingControls struct{ n int }

func (c *countingControls) Update() { c.n++ }

func bind(t *testing.T, meshIndices ...int) *binder.Bindings {
	t.Helper()
	env, fb, mask := bindertest.Textures()
	b, err := binder.Bind(bindertest.Chassis(meshIndices...), binder.Inputs{
		Environment: env, FrameBuffer: fb, Mask: mask, Snippets: bindertest.Snippets,
	})
	require.NoError(t, err)
	return b
}

func keyY(t *testing.T, b *binder.Bindings, k keyboard.Key) float32 {
	t.Helper()
	var slot binder.KeySlot
	if k.Special() {
		slot = b.Special(k)
	} else {
		slot = b.Key(k.Packed())
	}
	node, ok := slot.Bound()
	require.True(t, ok, k.String())
	return node.Position().Y()
}

func TestSpring(t *testing.T) {
	assert.InDelta(t, -0.004, Spring(0, true), 1e-7)
	assert.InDelta(t, -0.0008, Spring(-0.004, false), 1e-7)

	// Converges geometrically to the target.
	var y float32
	for range 20 {
		y = Spring(y, true)
	}
	assert.InDelta(t, PressedOffset, y, 1e-9)
	for range 20 {
		y = Spring(y, false)
	}
	assert.InDelta(t, 0, y, 1e-9)
}

func TestSetProcessorOnce(t *testing.T) {
	s := New()
	assert.False(t, s.Bound())
	require.NoError(t, s.SetProcessor(&fakeProcessor{}))
	assert.True(t, s.Bound())
	assert.True(t, errors.Is(s.SetProcessor(&fakeProcessor{}), ErrAlreadyBound))
}

func TestApplyUnboundIsNoop(t *testing.T) {
	s := New()
	s.Apply()

	b := bind(t, 29)
	s.SetBindings(b)
	s.Apply()
	assert.Equal(t, float32(0), keyY(t, b, keyboard.Key1))

	p := &fakeProcessor{}
	p.state.Keys[3][0] = true
	s2 := New()
	require.NoError(t, s2.SetProcessor(p))
	s2.Apply()
	assert.Zero(t, p.reads, "no bindings yet")
}

func TestApplyAnimatesKeys(t *testing.T) {
	b := bind(t, 29, 30)
	p := &fakeProcessor{}
	p.state.ResetLine = true
	c, _ := keyboard.Key1.Coordinate()
	p.state.Keys[c.Row][c.Col] = true

	s := New()
	s.SetBindings(b)
	require.NoError(t, s.SetProcessor(p))

	s.Apply()
	assert.InDelta(t, -0.004, keyY(t, b, keyboard.Key1), 1e-7)
	assert.Equal(t, float32(0), keyY(t, b, keyboard.Key2))
	assert.Equal(t, float32(0), keyY(t, b, keyboard.KeyBreak))

	for range 30 {
		s.Apply()
	}
	assert.InDelta(t, PressedOffset, keyY(t, b, keyboard.Key1), 1e-7)

	p.state.Keys[c.Row][c.Col] = false
	for range 30 {
		s.Apply()
	}
	assert.InDelta(t, 0, keyY(t, b, keyboard.Key1), 1e-7)
}

func TestApplySpecials(t *testing.T) {
	b := bind(t)
	p := &fakeProcessor{state: State{LeftShiftDown: true, ResetLine: false}}
	s := New()
	s.SetBindings(b)
	require.NoError(t, s.SetProcessor(p))

	s.Apply()
	assert.Less(t, keyY(t, b, keyboard.KeyLeftShift), float32(0))
	assert.Equal(t, float32(0), keyY(t, b, keyboard.KeyRightShift))
	assert.Less(t, keyY(t, b, keyboard.KeyBreak), float32(0), "break is down while the reset line is low")
}

func TestApplyLEDs(t *testing.T) {
	b := bind(t)
	p := &fakeProcessor{state: State{ResetLine: true, CapsLockLight: true}}
	s := New()
	s.SetBindings(b)
	require.NoError(t, s.SetProcessor(p))

	s.Apply()
	caps, _ := b.LED(binder.LEDCapsLock).Bound()
	shift, _ := b.LED(binder.LEDShiftLock).Bound()
	tape, _ := b.LED(binder.LEDCassette).Bound()
	assert.Equal(t, LEDOn, caps.Emissive())
	assert.Equal(t, LEDOff, shift.Emissive())
	assert.Equal(t, LEDOff, tape.Emissive())

	p.state.CapsLockLight = false
	p.state.MotorOn = true
	s.Apply()
	assert.Equal(t, LEDOff, caps.Emissive())
	assert.Equal(t, LEDOn, tape.Emissive())
}

func TestApplyDoesNotMutateProcessorState(t *testing.T) {
	b := bind(t, 29)
	p := &fakeProcessor{state: State{ResetLine: true, ShiftLockLight: true}}
	p.state.Keys[3][0] = true
	before := p.state

	s := New()
	s.SetBindings(b)
	require.NoError(t, s.SetProcessor(p))
	s.Apply()
	s.Apply()
	assert.Equal(t, before, p.state)
}

func TestTickOrder(t *testing.T) {
	b := bind(t, 29)
	p := &fakeProcessor{state: State{ResetLine: true}}
	s := New()
	s.SetBindings(b)
	require.NoError(t, s.SetProcessor(p))

	var order []string
	ctrl := &countingControls{}
	ok := s.Tick(ctrl, func() error {
		order = append(order, "render")
		assert.Equal(t, 1, ctrl.n, "controls advance before render")
		assert.Zero(t, p.reads, "state is read after render")
		return errors.New("device lost")
	})
	assert.True(t, ok, "render failures do not fail the tick")
	assert.Equal(t, []string{"render"}, order)
	assert.Equal(t, 1, p.reads)

	assert.True(t, New().Tick(nil, nil))
}

// Package framesync mirrors the emulator's keyboard and indicator state onto the bound
// chassis model once per frame.
package framesync

import (
	"errors"
	"sync"

	"fortio.org/log"
	"github.com/Carmen-Shannon/oxy-beeb/engine/binder"
	"github.com/Carmen-Shannon/oxy-beeb/engine/game_object"
	"github.com/Carmen-Shannon/oxy-beeb/engine/keyboard"
	"github.com/Carmen-Shannon/oxy-beeb/engine/renderer/material"
)

const (
	// Springiness is the fraction of the remaining distance a key travels each frame.
	Springiness = 0.8
	// PressedOffset is the vertical rest offset of a held key.
	PressedOffset = -0.005
)

var (
	// LEDOn is the emissive color of a lit LED.
	LEDOn = material.Hex(0xff0000)
	// LEDOff is the emissive color of a dark LED.
	LEDOff = material.Hex(0x000000)
)

// ErrAlreadyBound is returned when a processor is attached a second time.
var ErrAlreadyBound = errors.New("processor already bound")

// State is a snapshot of the emulator state the chassis reflects.
type State struct {
	// Keys is indexed [row][column] like the hardware scan matrix.
	Keys [keyboard.Rows][keyboard.Columns]bool

	LeftShiftDown  bool
	RightShiftDown bool

	// ResetLine is high while the machine is running; BREAK pulls it low.
	ResetLine bool

	MotorOn        bool
	CapsLockLight  bool
	ShiftLockLight bool
}

// Pressed reports whether the key at p is down. Invalid coordinates are never down.
func (s *State) Pressed(p keyboard.Packed) bool {
	if !p.Valid() {
		return false
	}
	c := p.Coordinate()
	return s.Keys[c.Row][c.Col]
}

// Processor exposes the emulated machine's state. Implementations must return a copy;
// the sync never writes to it.
type Processor interface {
	State() State
}

// Controls is advanced once per tick before rendering.
type Controls interface {
	Update()
}

// Spring advances a key's vertical offset one frame toward its target.
//
// Parameters:
//   - offset: the current offset
//   - pressed: whether the key is held
//
// Returns:
//   - float32: the new offset
func Spring(offset float32, pressed bool) float32 {
	var target float32
	if pressed {
		target = PressedOffset
	}
	return offset + (target-offset)*Springiness
}

// Sync drives the bound model from a processor.
type Sync struct {
	mu        sync.Mutex
	processor Processor
	bindings  *binder.Bindings
}

// New creates an unbound Sync.
func New() *Sync {
	return &Sync{}
}

// SetProcessor attaches the emulator. It may be called once.
//
// Parameters:
//   - p: the processor
//
// Returns:
//   - error: ErrAlreadyBound if a processor is already attached
func (s *Sync) SetProcessor(p Processor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.processor != nil {
		return ErrAlreadyBound
	}
	s.processor = p
	return nil
}

// SetBindings installs the references produced by the binder.
func (s *Sync) SetBindings(b *binder.Bindings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bindings = b
}

// Bound reports whether a processor is attached.
func (s *Sync) Bound() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.processor != nil
}

// Apply animates every bound key toward the processor's state and sets the LEDs. It does
// nothing until both a processor and bindings are present.
func (s *Sync) Apply() {
	s.mu.Lock()
	p, b := s.processor, s.bindings
	s.mu.Unlock()
	if p == nil || b == nil {
		return
	}

	st := p.State()
	for _, packed := range b.BoundKeys() {
		if node, ok := b.Key(packed).Bound(); ok {
			press(node, st.Pressed(packed))
		}
	}

	specials := [...]struct {
		key     keyboard.Key
		pressed bool
	}{
		{keyboard.KeyLeftShift, st.LeftShiftDown},
		{keyboard.KeyRightShift, st.RightShiftDown},
		{keyboard.KeyBreak, !st.ResetLine},
	}
	for _, sp := range specials {
		if node, ok := b.Special(sp.key).Bound(); ok {
			press(node, sp.pressed)
		}
	}

	leds := [...]struct {
		led binder.LED
		on  bool
	}{
		{binder.LEDCassette, st.MotorOn},
		{binder.LEDCapsLock, st.CapsLockLight},
		{binder.LEDShiftLock, st.ShiftLockLight},
	}
	for _, l := range leds {
		if m, ok := b.LED(l.led).Bound(); ok {
			if l.on {
				m.SetEmissive(LEDOn)
			} else {
				m.SetEmissive(LEDOff)
			}
		}
	}
}

// Tick runs one frame: controls, render, then Apply. A render error is logged and the frame
// still counts.
//
// Parameters:
//   - ctrl: the camera controls, may be nil
//   - draw: renders the scene, may be nil
//
// Returns:
//   - bool: always true
func (s *Sync) Tick(ctrl Controls, draw func() error) bool {
	if ctrl != nil {
		ctrl.Update()
	}
	if draw != nil {
		if err := draw(); err != nil {
			log.Errf("[FrameSync] render failed: %v", err)
		}
	}
	s.Apply()
	return true
}

func press(node game_object.GameObject, pressed bool) {
	pos := node.Position()
	pos[1] = Spring(pos[1], pressed)
	node.SetPosition(pos)
}

package binder

import (
	"fortio.org/log"
	"github.com/Carmen-Shannon/oxy-beeb/engine/game_object"
	"github.com/Carmen-Shannon/oxy-beeb/engine/keyboard"
	"github.com/Carmen-Shannon/oxy-beeb/engine/renderer/material"
)

// LED identifies one of the chassis indicator lights.
type LED int

const (
	LEDCassette LED = iota
	LEDCapsLock
	LEDShiftLock

	ledCount
)

func (l LED) String() string {
	switch l {
	case LEDCassette:
		return "cassette"
	case LEDCapsLock:
		return "caps lock"
	case LEDShiftLock:
		return "shift lock"
	}
	return "unknown"
}

// LEDs lists every LED.
var LEDs = [ledCount]LED{LEDCassette, LEDCapsLock, LEDShiftLock}

// KeySlot is either empty or holds the node of one key cap.
type KeySlot struct {
	node game_object.GameObject
}

// Bound returns the key cap node.
//
// Returns:
//   - game_object.GameObject: the node, nil when unbound
//   - bool: false if the slot is empty
func (s KeySlot) Bound() (game_object.GameObject, bool) {
	return s.node, s.node != nil
}

// LEDSlot is either empty or holds an LED node and its private light material.
type LEDSlot struct {
	node     game_object.GameObject
	material material.PhysicalMaterial
}

// Bound returns the LED's light material.
//
// Returns:
//   - material.PhysicalMaterial: the material, nil when unbound
//   - bool: false if the slot is empty
func (s LEDSlot) Bound() (material.PhysicalMaterial, bool) {
	return s.material, s.material != nil
}

// Node returns the LED node, or nil when unbound.
func (s LEDSlot) Node() game_object.GameObject {
	return s.node
}

// Bindings holds the references resolved by Bind. It is not modified after Bind returns.
type Bindings struct {
	keys     [keyboard.MatrixSize]KeySlot
	specials [3]KeySlot
	leds     [ledCount]LEDSlot
	screen   material.PhysicalMaterial
	glass    game_object.GameObject
}

func specialSlot(k keyboard.Key) int {
	switch k {
	case keyboard.KeyBreak:
		return 0
	case keyboard.KeyLeftShift:
		return 1
	case keyboard.KeyRightShift:
		return 2
	}
	return -1
}

func (b *Bindings) bindKey(p keyboard.Packed, key keyboard.Key, node game_object.GameObject) {
	if prev, ok := b.keys[p].Bound(); ok {
		log.Warnf("[Binder] key %s at %s bound twice: %q replaces %q", key, p.Coordinate(), node.Name(), prev.Name())
	}
	b.keys[p] = KeySlot{node: node}
}

func (b *Bindings) bindSpecial(key keyboard.Key, node game_object.GameObject) {
	i := specialSlot(key)
	if prev, ok := b.specials[i].Bound(); ok {
		log.Warnf("[Binder] key %s bound twice: %q replaces %q", key, node.Name(), prev.Name())
	}
	b.specials[i] = KeySlot{node: node}
}

func (b *Bindings) specialCount() int {
	n := 0
	for _, s := range b.specials {
		if s.node != nil {
			n++
		}
	}
	return n
}

// Key returns the slot of the key at a packed matrix coordinate. Invalid coordinates return
// an empty slot.
func (b *Bindings) Key(p keyboard.Packed) KeySlot {
	if b == nil || !p.Valid() {
		return KeySlot{}
	}
	return b.keys[p]
}

// Special returns the slot of KeyBreak, KeyLeftShift or KeyRightShift. Other keys return an
// empty slot.
func (b *Bindings) Special(k keyboard.Key) KeySlot {
	i := specialSlot(k)
	if b == nil || i < 0 {
		return KeySlot{}
	}
	return b.specials[i]
}

// LED returns the slot of an indicator light.
func (b *Bindings) LED(l LED) LEDSlot {
	if b == nil || l < 0 || l >= ledCount {
		return LEDSlot{}
	}
	return b.leds[l]
}

// ScreenMaterial returns the composed CRT glass material.
func (b *Bindings) ScreenMaterial() material.PhysicalMaterial {
	if b == nil {
		return nil
	}
	return b.screen
}

// ScreenNode returns the CRT glass node.
func (b *Bindings) ScreenNode() game_object.GameObject {
	if b == nil {
		return nil
	}
	return b.glass
}

// BoundKeys returns the packed coordinates that have a key cap, in ascending order.
func (b *Bindings) BoundKeys() []keyboard.Packed {
	if b == nil {
		return nil
	}
	var out []keyboard.Packed
	for p := range b.keys {
		if b.keys[p].node != nil {
			out = append(out, keyboard.Packed(p))
		}
	}
	return out
}

// Package emulator provides a stand-in for the emulated machine: a keyboard that reports the
// host's key presses in the scan-matrix form the chassis reflects, and a boot screen that
// fills the video buffer.
package emulator

import (
	"sync"

	"fortio.org/log"
	"github.com/Carmen-Shannon/oxy-beeb/engine/framesync"
	"github.com/Carmen-Shannon/oxy-beeb/engine/keyboard"
)

// Keyboard is a framesync.Processor driven by host key events. CAPS LOCK and SHIFT LOCK
// toggle their lights on every press; BREAK holds the reset line low while down.
type Keyboard struct {
	mu    sync.Mutex
	state framesync.State

	// held maps each host key that is down to its BBC key. Several host keys can share a
	// BBC key, which stays pressed until the last of them is released.
	held map[uint32]keyboard.Key
}

var _ framesync.Processor = &Keyboard{}

// NewKeyboard creates a keyboard in the power-on state: reset line high, caps lock lit.
//
// Returns:
//   - *Keyboard: the keyboard
func NewKeyboard() *Keyboard {
	return &Keyboard{
		state: framesync.State{ResetLine: true, CapsLockLight: true},
		held:  make(map[uint32]keyboard.Key),
	}
}

// State returns a copy of the current machine state.
func (k *Keyboard) State() framesync.State {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.state
}

// KeyDown records a host key press.
//
// Parameters:
//   - code: the host key code
func (k *Keyboard) KeyDown(code uint32) {
	k.set(code, true)
}

// KeyUp records a host key release.
//
// Parameters:
//   - code: the host key code
func (k *Keyboard) KeyUp(code uint32) {
	k.set(code, false)
}

// SetMotor switches the cassette motor relay.
//
// Parameters:
//   - on: the relay state
func (k *Keyboard) SetMotor(on bool) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.state.MotorOn = on
}

func (k *Keyboard) set(code uint32, down bool) {
	key := HostKey(code)
	if key == keyboard.KeyNone {
		return
	}
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.held == nil {
		k.held = make(map[uint32]keyboard.Key)
	}
	if down {
		k.held[code] = key
	} else {
		delete(k.held, code)
		down = k.holders(key) > 0
	}

	switch key {
	case keyboard.KeyLeftShift:
		k.state.LeftShiftDown = down
		return
	case keyboard.KeyRightShift:
		k.state.RightShiftDown = down
		return
	case keyboard.KeyBreak:
		k.state.ResetLine = !down
		return
	}

	c, ok := key.Coordinate()
	if !ok {
		return
	}
	was := k.state.Keys[c.Row][c.Col]
	k.state.Keys[c.Row][c.Col] = down
	if !down || was {
		return
	}
	switch key {
	case keyboard.KeyCapsLock:
		k.state.CapsLockLight = !k.state.CapsLockLight
	case keyboard.KeyShiftLock:
		k.state.ShiftLockLight = !k.state.ShiftLockLight
	}
	log.Debugf("[Keyboard] %s down at %s", key, c)
}

// holders counts the host keys still down on key.
func (k *Keyboard) holders(key keyboard.Key) int {
	n := 0
	for _, held := range k.held {
		if held == key {
			n++
		}
	}
	return n
}

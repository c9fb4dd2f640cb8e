package emulator

import (
	"github.com/Carmen-Shannon/oxy-beeb/common"
	"github.com/Carmen-Shannon/oxy-beeb/engine/keyboard"
)

// hostKeys maps host key codes onto the BBC keyboard by position. Keys the host lacks in
// the same place land on nearby spares: END is COPY, HOME is SHIFT LOCK, INSERT is _£ and
// F12 is BREAK. Backspace and Delete share DELETE, and both Control keys share CTRL.
var hostKeys = map[uint32]keyboard.Key{
	common.KeySpace:        keyboard.KeySpace,
	common.KeyApostrophe:   keyboard.KeyColonStar,
	common.KeyComma:        keyboard.KeyComma,
	common.KeyMinus:        keyboard.KeyMinus,
	common.KeyPeriod:       keyboard.KeyPeriod,
	common.KeySlash:        keyboard.KeySlash,
	common.KeySemicolon:    keyboard.KeySemicolonPlus,
	common.KeyEqual:        keyboard.KeyHatTilde,
	common.KeyLeftBracket:  keyboard.KeyLeftSquareBracket,
	common.KeyBackslash:    keyboard.KeyPipeBackslash,
	common.KeyRightBracket: keyboard.KeyRightSquareBracket,
	common.KeyGraveAccent:  keyboard.KeyAt,

	common.KeyEsc:          keyboard.KeyEscape,
	common.KeyEnter:        keyboard.KeyReturn,
	common.KeyTab:          keyboard.KeyTab,
	common.KeyBackspace:    keyboard.KeyDelete,
	common.KeyDelete:       keyboard.KeyDelete,
	common.KeyInsert:       keyboard.KeyUnderscorePound,
	common.KeyEnd:          keyboard.KeyCopy,
	common.KeyHome:         keyboard.KeyShiftLock,
	common.KeyCapsLock:     keyboard.KeyCapsLock,
	common.KeyLeft:         keyboard.KeyLeft,
	common.KeyRight:        keyboard.KeyRight,
	common.KeyUp:           keyboard.KeyUp,
	common.KeyDown:         keyboard.KeyDown,
	common.KeyLeftControl:  keyboard.KeyCtrl,
	common.KeyRightControl: keyboard.KeyCtrl,
	common.KeyLeftShift:    keyboard.KeyLeftShift,
	common.KeyRightShift:   keyboard.KeyRightShift,
	common.KeyF10:          keyboard.KeyF0,
	common.KeyF12:          keyboard.KeyBreak,
}

// HostKey returns the BBC key for a host key code, or keyboard.KeyNone.
//
// Parameters:
//   - code: a host key code from the common package
//
// Returns:
//   - keyboard.Key: the BBC key at the same position
func HostKey(code uint32) keyboard.Key {
	switch {
	case code >= common.Key0 && code <= common.Key9:
		return keyboard.DigitKey(int(code - common.Key0))
	case code >= common.KeyA && code <= common.KeyZ:
		return keyboard.KeyA + keyboard.Key(code-common.KeyA)
	case code >= common.KeyF1 && code < common.KeyF10:
		return keyboard.FunctionKey(int(code-common.KeyF1) + 1)
	}
	if k, ok := hostKeys[code]; ok {
		return k
	}
	return keyboard.KeyNone
}

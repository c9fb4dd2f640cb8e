// Package keyboard describes the physical keyboard of the emulated machine: the logical
// identity of every key, its position in the electrical scan matrix, and the mapping from
// the mesh numbering used by the chassis model to those keys.
package keyboard

// Key identifies one physical key on the keyboard, independent of where it sits in the
// scan matrix or in the 3D model. Function keys and digit keys are laid out contiguously
// so that KeyF0+n and Key0+n name the n-th key of their row.
type Key int

const (
	// KeyNone is the result for mesh indices that do not correspond to a physical key.
	KeyNone Key = iota

	KeyF0
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9

	Key0
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9

	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ

	KeyEscape
	KeyTab
	KeyCapsLock
	KeyShiftLock
	KeyCtrl
	KeySpace
	KeyReturn
	KeyDelete
	KeyCopy
	KeyMinus
	KeyHatTilde
	KeyPipeBackslash
	KeyAt
	KeyLeftSquareBracket
	KeyRightSquareBracket
	KeyUnderscorePound
	KeySemicolonPlus
	KeyColonStar
	KeyComma
	KeyPeriod
	KeySlash
	KeyLeft
	KeyRight
	KeyUp
	KeyDown

	// KeyBreak is wired to the reset line rather than the scan matrix.
	KeyBreak
	// KeyLeftShift and KeyRightShift are reported through dedicated flags by the emulator.
	KeyLeftShift
	KeyRightShift

	keyCount
)

var keyNames = [keyCount]string{
	KeyNone: "NONE",
	KeyF0:   "F0", KeyF1: "F1", KeyF2: "F2", KeyF3: "F3", KeyF4: "F4",
	KeyF5: "F5", KeyF6: "F6", KeyF7: "F7", KeyF8: "F8", KeyF9: "F9",
	Key0: "0", Key1: "1", Key2: "2", Key3: "3", Key4: "4",
	Key5: "5", Key6: "6", Key7: "7", Key8: "8", Key9: "9",
	KeyA: "A", KeyB: "B", KeyC: "C", KeyD: "D", KeyE: "E", KeyF: "F", KeyG: "G",
	KeyH: "H", KeyI: "I", KeyJ: "J", KeyK: "K", KeyL: "L", KeyM: "M", KeyN: "N",
	KeyO: "O", KeyP: "P", KeyQ: "Q", KeyR: "R", KeyS: "S", KeyT: "T", KeyU: "U",
	KeyV: "V", KeyW: "W", KeyX: "X", KeyY: "Y", KeyZ: "Z",
	KeyEscape:             "ESCAPE",
	KeyTab:                "TAB",
	KeyCapsLock:           "CAPS LOCK",
	KeyShiftLock:          "SHIFT LOCK",
	KeyCtrl:               "CTRL",
	KeySpace:              "SPACE",
	KeyReturn:             "RETURN",
	KeyDelete:             "DELETE",
	KeyCopy:               "COPY",
	KeyMinus:              "-=",
	KeyHatTilde:           "^~",
	KeyPipeBackslash:      "|\\",
	KeyAt:                 "@",
	KeyLeftSquareBracket:  "[{",
	KeyRightSquareBracket: "]}",
	KeyUnderscorePound:    "_£",
	KeySemicolonPlus:      ";+",
	KeyColonStar:          ":*",
	KeyComma:              ",<",
	KeyPeriod:             ".>",
	KeySlash:              "/?",
	KeyLeft:               "LEFT",
	KeyRight:              "RIGHT",
	KeyUp:                 "UP",
	KeyDown:               "DOWN",
	KeyBreak:              "BREAK",
	KeyLeftShift:          "LEFT SHIFT",
	KeyRightShift:         "RIGHT SHIFT",
}

// String returns the legend printed on the key cap.
func (k Key) String() string {
	if k < 0 || k >= keyCount {
		return "INVALID"
	}
	return keyNames[k]
}

// Special reports whether the key is one of the three keys that are not read from the
// scan matrix: BREAK and the two SHIFT keys.
func (k Key) Special() bool {
	return k == KeyBreak || k == KeyLeftShift || k == KeyRightShift
}

// FunctionKey returns the function key at position n (0..9) of the function row,
// or KeyNone when n is out of range.
func FunctionKey(n int) Key {
	if n < 0 || n > 9 {
		return KeyNone
	}
	return KeyF0 + Key(n)
}

// DigitKey returns the key carrying digit n (0..9) on the numeric row,
// or KeyNone when n is out of range.
func DigitKey(n int) Key {
	if n < 0 || n > 9 {
		return KeyNone
	}
	return Key0 + Key(n)
}

package keyboard

// Mesh indices of the keys that are bound to dedicated slots instead of the matrix table.
const (
	BreakIndex      = 27
	LeftShiftIndex  = 60
	RightShiftIndex = 71
)

// meshKeys maps the chassis model's key numbering to keys for every index outside the
// function and numeric rows. The numbering follows the order in which the key caps were
// modelled, not the physical layout, so it cannot be derived.
var meshKeys = map[int]Key{
	10: KeyShiftLock,
	11: KeyTab,
	12: KeyCapsLock,
	13: KeyCtrl,
	14: KeyA,
	15: KeyS,
	16: KeyD,
	17: KeyF,
	18: KeyG,
	19: KeyH,
	20: KeyJ,
	21: KeyK,
	22: KeyL,
	23: KeySemicolonPlus,
	24: KeyColonStar,
	25: KeyRightSquareBracket,
	26: KeySpace,
	28: KeyEscape,

	39: KeyMinus,
	40: KeyHatTilde,
	41: KeyPipeBackslash,
	42: KeyLeft,
	43: KeyRight,

	44: KeyQ,
	45: KeyW,
	46: KeyE,
	47: KeyR,
	48: KeyT,
	49: KeyY,
	50: KeyU,
	51: KeyI,
	52: KeyO,
	53: KeyP,
	54: KeyAt,
	55: KeyLeftSquareBracket,
	56: KeyUnderscorePound,
	57: KeyUp,
	58: KeyDown,
	59: KeyReturn,

	61: KeyZ,
	62: KeyX,
	63: KeyC,
	64: KeyV,
	65: KeyB,
	66: KeyN,
	67: KeyM,
	68: KeyComma,
	69: KeyPeriod,
	70: KeySlash,
	72: KeyDelete,
	73: KeyCopy,
}

// Remap classifies a mesh index from the chassis model.
//
// Indices 0..9 are the function row (F0..F9 in order), 29..38 the numeric row where the
// model numbers the "0" key last, and BreakIndex, LeftShiftIndex and RightShiftIndex the
// special keys. Everything else is looked up in a fixed table. Indices with no physical key
// yield KeyNone, which callers treat as absent rather than as an error.
//
// Parameters:
//   - meshIndex: the numeric suffix of a keyboard mesh in the chassis model
//
// Returns:
//   - Key: the key the mesh depicts, or KeyNone
func Remap(meshIndex int) Key {
	switch {
	case meshIndex >= 0 && meshIndex <= 9:
		return FunctionKey(meshIndex)
	case meshIndex >= 29 && meshIndex <= 38:
		return DigitKey((meshIndex - 28) % 10)
	}

	switch meshIndex {
	case BreakIndex:
		return KeyBreak
	case LeftShiftIndex:
		return KeyLeftShift
	case RightShiftIndex:
		return KeyRightShift
	}

	if k, ok := meshKeys[meshIndex]; ok {
		return k
	}
	return KeyNone
}

// PackedIndex resolves a mesh index all the way to a packed matrix index. Special keys
// and unmapped indices both yield NoMapping.
func PackedIndex(meshIndex int) Packed {
	return Remap(meshIndex).Packed()
}

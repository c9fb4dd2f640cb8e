package keyboard

import "fmt"

const (
	// Rows is the number of rows in the emulator's keyboard matrix state.
	Rows = 8
	// Columns is the number of columns in the emulator's keyboard matrix state. The
	// hardware only drives columns 0..9; the remainder are always released.
	Columns = 16
	// MatrixSize is the number of distinct packed coordinates.
	MatrixSize = Rows * Columns
)

// Packed is a MatrixCoordinate flattened to row*Columns + col, suitable as a table index.
type Packed int

// NoMapping is the packed value for keys that have no matrix coordinate. It lies outside
// the range of every valid packed coordinate.
const NoMapping Packed = -1

// Valid reports whether p addresses a real matrix cell.
func (p Packed) Valid() bool {
	return p >= 0 && p < MatrixSize
}

// Coordinate unpacks p. The result is meaningless when p is not Valid.
func (p Packed) Coordinate() MatrixCoordinate {
	return MatrixCoordinate{Row: uint8(int(p) / Columns), Col: uint8(int(p) % Columns)}
}

// MatrixCoordinate is the (row, column) position of a key in the scan matrix.
type MatrixCoordinate struct {
	Row uint8
	Col uint8
}

// Pack flattens the coordinate into a Packed table index.
//
// Returns:
//   - Packed: row*Columns + col
func (c MatrixCoordinate) Pack() Packed {
	return Packed(int(c.Row)*Columns + int(c.Col))
}

func (c MatrixCoordinate) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

// scanMatrix holds the hardware position of every key read through the matrix. The
// values are the machine's internal key numbers: the high nibble is the row, the low
// nibble the column.
var scanMatrix = map[Key]uint8{
	KeyCtrl: 0x01,

	KeyQ: 0x10, Key3: 0x11, Key4: 0x12, Key5: 0x13, KeyF4: 0x14,
	Key8: 0x15, KeyF7: 0x16, KeyMinus: 0x17, KeyHatTilde: 0x18, KeyLeft: 0x19,

	KeyF0: 0x20, KeyW: 0x21, KeyE: 0x22, KeyT: 0x23, Key7: 0x24,
	KeyI: 0x25, Key9: 0x26, Key0: 0x27, KeyUnderscorePound: 0x28, KeyDown: 0x29,

	Key1: 0x30, Key2: 0x31, KeyD: 0x32, KeyR: 0x33, Key6: 0x34,
	KeyU: 0x35, KeyO: 0x36, KeyP: 0x37, KeyLeftSquareBracket: 0x38, KeyUp: 0x39,

	KeyCapsLock: 0x40, KeyA: 0x41, KeyX: 0x42, KeyF: 0x43, KeyY: 0x44,
	KeyJ: 0x45, KeyK: 0x46, KeyAt: 0x47, KeyColonStar: 0x48, KeyReturn: 0x49,

	KeyShiftLock: 0x50, KeyS: 0x51, KeyC: 0x52, KeyG: 0x53, KeyH: 0x54,
	KeyN: 0x55, KeyL: 0x56, KeySemicolonPlus: 0x57, KeyRightSquareBracket: 0x58, KeyDelete: 0x59,

	KeyTab: 0x60, KeyZ: 0x61, KeySpace: 0x62, KeyV: 0x63, KeyB: 0x64,
	KeyM: 0x65, KeyComma: 0x66, KeyPeriod: 0x67, KeySlash: 0x68, KeyCopy: 0x69,

	KeyEscape: 0x70, KeyF1: 0x71, KeyF2: 0x72, KeyF3: 0x73, KeyF5: 0x74,
	KeyF6: 0x75, KeyF8: 0x76, KeyF9: 0x77, KeyPipeBackslash: 0x78, KeyRight: 0x79,
}

// Coordinate returns the scan-matrix position of the key.
//
// Returns:
//   - MatrixCoordinate: the row and column of the key in the matrix
//   - bool: false for KeyNone and the special keys, which have no matrix position
func (k Key) Coordinate() (MatrixCoordinate, bool) {
	n, ok := scanMatrix[k]
	if !ok {
		return MatrixCoordinate{}, false
	}
	return MatrixCoordinate{Row: n >> 4, Col: n & 0x0f}, true
}

// Packed returns the packed matrix index of the key, or NoMapping.
func (k Key) Packed() Packed {
	c, ok := k.Coordinate()
	if !ok {
		return NoMapping
	}
	return c.Pack()
}

package common

// Host key codes delivered by the window's key callbacks.
// These values match GLFW key codes which use ASCII values for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeySpace        = 32 // Spacebar (ASCII)
	KeyApostrophe   = 39 // ' (ASCII)
	KeyComma        = 44 // , (ASCII)
	KeyMinus        = 45 // - (ASCII)
	KeyPeriod       = 46 // . (ASCII)
	KeySlash        = 47 // / (ASCII)
	KeySemicolon    = 59 // ; (ASCII)
	KeyEqual        = 61 // = (ASCII)
	KeyLeftBracket  = 91 // [ (ASCII)
	KeyBackslash    = 92 // \ (ASCII)
	KeyRightBracket = 93 // ] (ASCII)
	KeyGraveAccent  = 96 // ` (ASCII)

	Key0 = 48 // 0 key (ASCII)
	Key1 = 49 // 1 key (ASCII)
	Key2 = 50 // 2 key (ASCII)
	Key3 = 51 // 3 key (ASCII)
	Key4 = 52 // 4 key (ASCII)
	Key5 = 53 // 5 key (ASCII)
	Key6 = 54 // 6 key (ASCII)
	Key7 = 55 // 7 key (ASCII)
	Key8 = 56 // 8 key (ASCII)
	Key9 = 57 // 9 key (ASCII)

	// KeyA..KeyZ are contiguous; KeyA+n is the n-th letter.
	KeyA = 65 // A key (ASCII)
	KeyZ = 90 // Z key (ASCII)
)

// Non-printable keys (GLFW).
const (
	KeyEsc          = 256
	KeyEnter        = 257
	KeyTab          = 258
	KeyBackspace    = 259
	KeyInsert       = 260
	KeyDelete       = 261
	KeyRight        = 262
	KeyLeft         = 263
	KeyDown         = 264
	KeyUp           = 265
	KeyHome         = 268
	KeyEnd          = 269
	KeyCapsLock     = 280
	KeyScrollLock   = 281
	KeyF1           = 290 // F1..F12 are contiguous
	KeyF10          = 299
	KeyF11          = 300
	KeyF12          = 301
	KeyLeftShift    = 340
	KeyLeftControl  = 341
	KeyRightShift   = 344
	KeyRightControl = 345
)

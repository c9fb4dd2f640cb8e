package emulator

import (
	"image"
	"image/color"
)

// BootScreenOption is a functional option for configuring a BootScreen via NewBootScreen.
type BootScreenOption func(*BootScreen)

// WithText replaces the boot message. The cursor follows the last line.
//
// Parameters:
//   - lines: the text lines
//
// Returns:
//   - BootScreenOption: option function to apply
func WithText(lines ...string) BootScreenOption {
	return func(b *BootScreen) {
		b.lines = lines
	}
}

// WithOrigin sets the top-left corner of the text block in framebuffer pixels.
//
// Parameters:
//   - p: the corner
//
// Returns:
//   - BootScreenOption: option function to apply
func WithOrigin(p image.Point) BootScreenOption {
	return func(b *BootScreen) {
		b.origin = p
	}
}

// WithScale sets the whole-pixel magnification of the glyphs.
//
// Parameters:
//   - scale: the factor, at least 1
//
// Returns:
//   - BootScreenOption: option function to apply
func WithScale(scale int) BootScreenOption {
	return func(b *BootScreen) {
		b.scale = scale
	}
}

// WithColors sets the text and background colors.
//
// Parameters:
//   - fg: the text color
//   - bg: the background color
//
// Returns:
//   - BootScreenOption: option function to apply
func WithColors(fg, bg color.RGBA) BootScreenOption {
	return func(b *BootScreen) {
		b.fg, b.bg = fg, bg
	}
}

// WithBlinkEvery sets how many Draw calls the cursor stays in each phase.
//
// Parameters:
//   - n: calls per phase
//
// Returns:
//   - BootScreenOption: option function to apply
func WithBlinkEvery(n int) BootScreenOption {
	return func(b *BootScreen) {
		b.blinkEvery = n
	}
}

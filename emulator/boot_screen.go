package emulator

import (
	"encoding/binary"
	"fmt"
	"image"
	"image/color"

	"github.com/Carmen-Shannon/oxy-beeb/engine/framebuffer"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// DefaultBootText is what the machine prints after a cold start.
var DefaultBootText = []string{
	"BBC Computer 32K",
	"",
	"BASIC",
	"",
	">",
}

// BootScreen draws a static boot message with a blinking cursor into the video buffer.
// Text is rendered with a fixed-width bitmap face and scaled up by whole pixels.
type BootScreen struct {
	lines      []string
	origin     image.Point
	scale      int
	fg, bg     color.RGBA
	blinkEvery int

	face     font.Face
	frames   int
	cursorOn bool
	drawn    bool
	lastOn   bool
}

// NewBootScreen creates a boot screen. The defaults place white-on-black text in the part of
// the framebuffer the screen glass shows.
//
// Parameters:
//   - options: variadic list of BootScreenOption functions
//
// Returns:
//   - *BootScreen: the boot screen
func NewBootScreen(options ...BootScreenOption) *BootScreen {
	b := &BootScreen{
		lines:      DefaultBootText,
		origin:     image.Pt(176, 48),
		scale:      3,
		fg:         color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
		bg:         color.RGBA{A: 0xff},
		blinkEvery: 25,
		face:       basicfont.Face7x13,
		cursorOn:   true,
	}
	for _, opt := range options {
		opt(b)
	}
	if b.scale < 1 {
		b.scale = 1
	}
	if b.blinkEvery < 1 {
		b.blinkEvery = 1
	}
	return b
}

// Draw advances the cursor blink and redraws the text block if anything changed.
//
// Parameters:
//   - buf: the packed video buffer, framebuffer.PixelCount pixels
//
// Returns:
//   - image.Rectangle: the region written, empty when nothing changed
//   - error: framebuffer.ErrSizeMismatch if buf has the wrong length
func (b *BootScreen) Draw(buf []uint32) (image.Rectangle, error) {
	if len(buf) != framebuffer.PixelCount {
		return image.Rectangle{}, fmt.Errorf("%w: got %d pixels, want %d", framebuffer.ErrSizeMismatch, len(buf), framebuffer.PixelCount)
	}

	b.frames++
	if b.frames%b.blinkEvery == 0 {
		b.cursorOn = !b.cursorOn
	}
	if b.drawn && b.lastOn == b.cursorOn {
		return image.Rectangle{}, nil
	}

	scaled := b.render()
	dirty := scaled.Bounds().Add(b.origin).Intersect(image.Rect(0, 0, framebuffer.Width, framebuffer.Height))
	for y := dirty.Min.Y; y < dirty.Max.Y; y++ {
		row := buf[y*framebuffer.Width:]
		for x := dirty.Min.X; x < dirty.Max.X; x++ {
			o := scaled.PixOffset(x-b.origin.X, y-b.origin.Y)
			row[x] = binary.NativeEndian.Uint32(scaled.Pix[o : o+4])
		}
	}

	b.drawn, b.lastOn = true, b.cursorOn
	return dirty, nil
}

// render draws the text at native size and scales it up.
func (b *BootScreen) render() *image.RGBA {
	m := b.face.Metrics()
	lineHeight := m.Height.Ceil()
	advance, _ := b.face.GlyphAdvance('M')

	cols := 0
	for _, l := range b.lines {
		cols = max(cols, len(l)+1)
	}
	small := image.NewRGBA(image.Rect(0, 0, cols*advance.Ceil(), len(b.lines)*lineHeight))
	draw.Draw(small, small.Bounds(), image.NewUniform(b.bg), image.Point{}, draw.Src)

	d := &font.Drawer{Dst: small, Src: image.NewUniform(b.fg), Face: b.face}
	for i, l := range b.lines {
		d.Dot = fixed.P(0, i*lineHeight+m.Ascent.Ceil())
		d.DrawString(l)
		if i == len(b.lines)-1 && b.cursorOn {
			d.DrawString("_")
		}
	}

	scaled := image.NewRGBA(image.Rect(0, 0, small.Bounds().Dx()*b.scale, small.Bounds().Dy()*b.scale))
	draw.NearestNeighbor.Scale(scaled, scaled.Bounds(), small, small.Bounds(), draw.Src, nil)
	return scaled
}

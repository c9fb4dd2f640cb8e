package emulator

import (
	"encoding/binary"
	"image"
	"image/color"
	"testing"

	"github.com/Carmen-Shannon/oxy-beeb/common"
	"github.com/Carmen-Shannon/oxy-beeb/engine/framebuffer"
	"github.com/Carmen-Shannon/oxy-beeb/engine/keyboard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHostKey(t *testing.T) {
	cases := map[uint32]keyboard.Key{
		common.Key0:         keyboard.Key0,
		common.Key7:         keyboard.Key7,
		common.KeyA:         keyboard.KeyA,
		common.KeyZ:         keyboard.KeyZ,
		common.KeyA + 16:    keyboard.KeyQ,
		common.KeyF1:        keyboard.KeyF1,
		common.KeyF1 + 8:    keyboard.KeyF9,
		common.KeyF10:       keyboard.KeyF0,
		common.KeyF12:       keyboard.KeyBreak,
		common.KeyF11:       keyboard.KeyNone,
		common.KeyEnter:     keyboard.KeyReturn,
		common.KeyBackspace: keyboard.KeyDelete,
		common.KeyLeftShift: keyboard.KeyLeftShift,
		common.KeyEsc:       keyboard.KeyEscape,
		9999:                keyboard.KeyNone,
	}
	for code, want := range cases {
		assert.Equal(t, want, HostKey(code), "code %d", code)
	}
}

func TestKeyboardMatrix(t *testing.T) {
	k := NewKeyboard()
	st := k.State()
	assert.True(t, st.ResetLine)
	assert.True(t, st.CapsLockLight, "caps lock is lit at power on")

	k.KeyDown(common.KeyA)
	k.KeyDown(common.KeyLeftShift)
	st = k.State()
	assert.True(t, st.Pressed(keyboard.KeyA.Packed()))
	assert.True(t, st.LeftShiftDown)
	assert.False(t, st.RightShiftDown)

	k.KeyUp(common.KeyA)
	k.KeyUp(common.KeyLeftShift)
	st = k.State()
	assert.False(t, st.Pressed(keyboard.KeyA.Packed()))
	assert.False(t, st.LeftShiftDown)

	k.KeyDown(9999)
	assert.Equal(t, st, k.State(), "unknown keys are ignored")
}

func TestKeyboardStateIsACopy(t *testing.T) {
	k := NewKeyboard()
	st := k.State()
	st.Keys[4][1] = true
	assert.False(t, k.State().Keys[4][1])
}

func TestKeyboardBreakHoldsReset(t *testing.T) {
	k := NewKeyboard()
	k.KeyDown(common.KeyF12)
	assert.False(t, k.State().ResetLine)
	k.KeyUp(common.KeyF12)
	assert.True(t, k.State().ResetLine)
}

func TestKeyboardLockLights(t *testing.T) {
	k := NewKeyboard()

	k.KeyDown(common.KeyCapsLock)
	assert.False(t, k.State().CapsLockLight)
	// Repeated downs without a release do not toggle again.
	k.KeyDown(common.KeyCapsLock)
	assert.False(t, k.State().CapsLockLight)
	k.KeyUp(common.KeyCapsLock)
	k.KeyDown(common.KeyCapsLock)
	assert.True(t, k.State().CapsLockLight)

	k.KeyDown(common.KeyHome)
	assert.True(t, k.State().ShiftLockLight)

	k.SetMotor(true)
	assert.True(t, k.State().MotorOn)
}

func TestKeyboardSharedKeysStayDown(t *testing.T) {
	k := NewKeyboard()
	del := keyboard.KeyDelete.Packed()

	k.KeyDown(common.KeyBackspace)
	k.KeyDown(common.KeyDelete)
	k.KeyUp(common.KeyBackspace)
	assert.True(t, pressed(k, del), "DELETE is held while the host Delete key is down")
	k.KeyUp(common.KeyDelete)
	assert.False(t, pressed(k, del))

	ctrl := keyboard.KeyCtrl.Packed()
	k.KeyDown(common.KeyLeftControl)
	k.KeyDown(common.KeyLeftControl)
	k.KeyDown(common.KeyRightControl)
	k.KeyUp(common.KeyRightControl)
	assert.True(t, pressed(k, ctrl))
	k.KeyUp(common.KeyLeftControl)
	assert.False(t, pressed(k, ctrl), "repeated downs of one host key count once")

	// A release without a matching press still clears the key.
	k.KeyUp(common.KeyA)
	assert.False(t, pressed(k, keyboard.KeyA.Packed()))
}

func pixel(buf []uint32, x, y int) color.RGBA {
	var b [4]byte
	binary.NativeEndian.PutUint32(b[:], buf[y*framebuffer.Width+x])
	return color.RGBA{R: b[0], G: b[1], B: b[2], A: b[3]}
}

func TestBootScreenDraw(t *testing.T) {
	b := NewBootScreen(WithOrigin(image.Pt(10, 20)), WithScale(2), WithBlinkEvery(2))
	buf := make([]uint32, framebuffer.PixelCount)

	r, err := b.Draw(buf)
	require.NoError(t, err)
	assert.Equal(t, image.Pt(10, 20), r.Min)
	// 17 columns of 7 pixels and 5 lines of 13, doubled.
	assert.Equal(t, 17*7*2, r.Dx())
	assert.Equal(t, 5*13*2, r.Dy())

	assert.Equal(t, uint32(0), buf[0], "outside the block is untouched")
	assert.Equal(t, uint8(0xff), pixel(buf, r.Min.X, r.Min.Y).A, "the background is opaque")

	lit := 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if pixel(buf, x, y).R == 0xff {
				lit++
			}
		}
	}
	assert.Positive(t, lit)

	// The cursor toggles on the second call and stays until the fourth.
	r, err = b.Draw(buf)
	require.NoError(t, err)
	assert.False(t, r.Empty())
	r, err = b.Draw(buf)
	require.NoError(t, err)
	assert.True(t, r.Empty())
}

func TestBootScreenClipsToFrameBuffer(t *testing.T) {
	b := NewBootScreen(WithOrigin(image.Pt(framebuffer.Width-10, framebuffer.Height-10)))
	r, err := b.Draw(make([]uint32, framebuffer.PixelCount))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(framebuffer.Width-10, framebuffer.Height-10, framebuffer.Width, framebuffer.Height), r)
}

func TestBootScreenSizeMismatch(t *testing.T) {
	_, err := NewBootScreen().Draw(make([]uint32, 16))
	assert.ErrorIs(t, err, framebuffer.ErrSizeMismatch)
}

// pressed calls State.Pressed on an addressable copy of the keyboard snapshot.
func pressed(k *Keyboard, p keyboard.Packed) bool {
	st := k.State()
	return st.Pressed(p)
}

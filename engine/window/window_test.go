package window

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDragTracker(t *testing.T) {
	var d dragTracker

	_, _, _, ok := d.move(10, 10)
	assert.False(t, ok, "no button held")

	d.press(MouseButtonLeft, 10, 10)
	b, dx, dy, ok := d.move(15, 7)
	assert.True(t, ok)
	assert.Equal(t, MouseButtonLeft, b)
	assert.Equal(t, float32(5), dx)
	assert.Equal(t, float32(-3), dy)

	// A second button does not steal the drag.
	d.press(MouseButtonRight, 0, 0)
	b, dx, _, _ = d.move(16, 7)
	assert.Equal(t, MouseButtonLeft, b)
	assert.Equal(t, float32(1), dx)

	d.release(MouseButtonRight)
	_, _, _, ok = d.move(20, 7)
	assert.True(t, ok, "releasing the other button keeps the drag")

	d.release(MouseButtonLeft)
	_, _, _, ok = d.move(30, 7)
	assert.False(t, ok)
}

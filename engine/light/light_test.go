package light

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectionalLightDirection(t *testing.T) {
	l := NewDirectionalLight(0xffffff, 0.7, [3]float32{5, 10, 2})
	d := l.Direction()
	n := float32(math.Sqrt(25 + 100 + 4))
	assert.InDelta(t, 5/n, d[0], 1e-6)
	assert.InDelta(t, 10/n, d[1], 1e-6)
	assert.InDelta(t, 2/n, d[2], 1e-6)
	assert.Equal(t, float32(0.7), l.Intensity())
	assert.Equal(t, [3]float32{1, 1, 1}, l.Color())
}

func TestHemisphereLightColors(t *testing.T) {
	l := NewHemisphereLight(0xB1E1FF, 0xB97A20, 0.4)
	assert.Equal(t, LightTypeHemisphere, l.Type())
	assert.InDelta(t, float32(0xB1)/255, l.Color()[0], 1e-6)
	assert.InDelta(t, float32(0x7A)/255, l.GroundColor()[1], 1e-6)
}

func TestMarshalLightBufferSkipsDisabled(t *testing.T) {
	on := NewHemisphereLight(0xffffff, 0, 1)
	off := NewLight(LightTypeDirectional, WithEnabled(false))
	buf := MarshalLightBuffer([]Light{on, off}, [3]float32{0.1, 0.1, 0.1})

	require.Len(t, buf, 16+MaxGPULights*64)
	assert.Equal(t, uint32(1), binary.LittleEndian.Uint32(buf[12:16]))
	assert.Equal(t, uint32(LightTypeHemisphere), binary.LittleEndian.Uint32(buf[16+12:16+16]))
}

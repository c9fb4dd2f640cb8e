package scene

import (
	"image"
	"image/color"
	"testing"

	"github.com/Carmen-Shannon/oxy-beeb/engine/game_object"
	"github.com/Carmen-Shannon/oxy-beeb/engine/light"
	"github.com/Carmen-Shannon/oxy-beeb/engine/texture"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSceneDefaults(t *testing.T) {
	s := NewScene(WithBackgroundColor(0x222222), WithStudioLighting())
	assert.Equal(t, color.RGBA{R: 0x22, G: 0x22, B: 0x22, A: 0xff}, s.Background().ClearColor())

	lights := s.Lights()
	require.Len(t, lights, 2)
	assert.Equal(t, light.LightTypeHemisphere, lights[0].Type())
	assert.Equal(t, [3]float32{5, 10, 2}, lights[1].Position())
}

func TestBackgroundCube(t *testing.T) {
	s := NewScene(WithBackgroundColor(0x222222))
	var faces [6]*image.RGBA
	for i := range faces {
		img := image.NewRGBA(image.Rect(0, 0, 1, 1))
		img.Pix[0], img.Pix[3] = 0x60, 0xff
		faces[i] = img
	}
	cube, err := texture.NewCubeTexture(faces)
	require.NoError(t, err)

	s.SetBackgroundCube(cube)
	assert.Same(t, cube, s.Background().Cube)
	assert.Equal(t, uint8(0x60), s.Background().ClearColor().R)
}

func TestAddAndFind(t *testing.T) {
	s := NewScene()
	s.Add(game_object.NewGameObject(game_object.WithName("beeb")))

	obj, ok := s.ObjectByName("beeb")
	require.True(t, ok)
	assert.Equal(t, s.Root().ID(), obj.Parent().ID())

	n := 0
	s.Traverse(func(game_object.GameObject) { n++ })
	assert.Equal(t, 2, n)
}

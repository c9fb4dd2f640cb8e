package canvas

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/Carmen-Shannon/oxy-beeb/engine/binder"
	"github.com/Carmen-Shannon/oxy-beeb/engine/binder/bindertest"
	"github.com/Carmen-Shannon/oxy-beeb/engine/camera"
	"github.com/Carmen-Shannon/oxy-beeb/engine/framebuffer"
	"github.com/Carmen-Shannon/oxy-beeb/engine/framesync"
	"github.com/Carmen-Shannon/oxy-beeb/engine/game_object"
	"github.com/Carmen-Shannon/oxy-beeb/engine/loader"
	"github.com/Carmen-Shannon/oxy-beeb/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRenderer struct {
	mu      sync.Mutex
	renders int
	size    [2]int
	err     error
}

func (f *fakeRenderer) Render(scene.Scene, camera.Camera) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.renders++
	return f.err
}

func (f *fakeRenderer) Resize(width, height int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.size = [2]int{width, height}
}

type fakeProcessor struct {
	state framesync.State
}

func (f *fakeProcessor) State() framesync.State { return f.state }

// chassisLoaders reads textures, materials and snippets from a map filesystem and returns a
// synthetic chassis in place of the OBJ model.
type chassisLoaders struct {
	loader.Loaders
	model game_object.GameObject
}

func (c *chassisLoaders) LoadModel(context.Context, string, *loader.MaterialLibrary) (game_object.GameObject, error) {
	if c.model == nil {
		return nil, errors.New("no model")
	}
	return c.model, nil
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0x40
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func assetFS(t *testing.T) fstest.MapFS {
	p := loader.DefaultAssetPaths
	return fstest.MapFS{
		p.Background: {Data: pngBytes(t, 8, 4)},
		p.Mask:       {Data: pngBytes(t, 4, 4)},
		p.Materials:  {Data: []byte("newmtl body\nKd 1 1 1\n")},
		p.Prolog:     {Data: []byte(bindertest.Snippets.Prolog)},
		p.Emissive:   {Data: []byte(bindertest.Snippets.Emissive)},
		p.Epilog:     {Data: []byte(bindertest.Snippets.Epilog)},
	}
}

func newLoadedCanvas(t *testing.T, r Renderer, meshIndices ...int) Canvas {
	t.Helper()
	l := &chassisLoaders{
		Loaders: loader.NewFSLoaders(assetFS(t)),
		model:   bindertest.Chassis(meshIndices...),
	}
	c := NewCanvas(r, WithLoaders(l))
	require.NoError(t, c.Load(context.Background()))
	return c
}

func TestNewCanvasDefaults(t *testing.T) {
	c := NewCanvas(&fakeRenderer{})

	cam := c.Camera()
	assert.InDelta(t, mgl32.DegToRad(35), cam.Fov(), 1e-6)
	assert.InDelta(t, 1.25, cam.Aspect(), 1e-6)
	assert.Equal(t, float32(1), cam.Near())
	assert.Equal(t, float32(1000), cam.Far())
	require.NotNil(t, c.Controls())
	assert.InDelta(t, 0, c.Controls().Position().Sub(mgl32.Vec3{0, 20, 36.5}).Len(), 1e-4)
	assert.Equal(t, mgl32.Vec3{0, 7, -2.36}, c.Controls().Target())

	bg := c.Scene().Background()
	assert.Equal(t, uint8(0x22), bg.Color.R)
	assert.Nil(t, bg.Cube)
	assert.Len(t, c.Scene().Lights(), 2)

	assert.Len(t, c.VideoBuffer(), framebuffer.PixelCount)
	assert.False(t, c.Loaded())
}

func TestLoadWithoutAssets(t *testing.T) {
	c := NewCanvas(&fakeRenderer{})
	assert.ErrorIs(t, c.Load(context.Background()), ErrNoAssets)
	assert.False(t, c.Loaded())
}

func TestLoadBindsChassis(t *testing.T) {
	r := &fakeRenderer{}
	var stages []string
	l := &chassisLoaders{Loaders: loader.NewFSLoaders(assetFS(t)), model: bindertest.Chassis(29)}
	c := NewCanvas(r, WithLoaders(l), WithStageHook(func(stage string, _, _ int, _ error) {
		stages = append(stages, stage)
	}))

	require.NoError(t, <-c.LoadAsync(context.Background()))
	assert.True(t, c.Loaded())
	assert.Len(t, stages, 7)
	assert.NotNil(t, c.Scene().Background().Cube, "the environment becomes the backdrop")

	glass, ok := c.Scene().ObjectByName(binder.ScreenGlassNode)
	require.True(t, ok)
	assert.NotEmpty(t, glass.Materials())

	assert.ErrorIs(t, c.Load(context.Background()), ErrAlreadyLoaded)
}

func TestLoadReportsBindingFailure(t *testing.T) {
	l := &chassisLoaders{
		Loaders: loader.NewFSLoaders(assetFS(t)),
		model:   game_object.NewGameObject(game_object.WithName("empty")),
	}
	c := NewCanvas(&fakeRenderer{}, WithLoaders(l))

	err := c.Load(context.Background())
	var be *binder.BindingError
	require.ErrorAs(t, err, &be)
	assert.ErrorIs(t, err, binder.ErrMissingNode)
	assert.False(t, c.Loaded())
	_, found := c.Scene().ObjectByName("empty")
	assert.False(t, found, "an unbound model is not shown")
}

func TestLoadReportsAssetFailure(t *testing.T) {
	fsys := assetFS(t)
	delete(fsys, loader.DefaultAssetPaths.Mask)
	c := NewCanvas(&fakeRenderer{}, WithAssetRoot(fsys))

	err := c.Load(context.Background())
	var le *loader.LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, "mask", le.Stage)
	assert.NotNil(t, c.Scene().Background().Cube, "stages before the failure keep their effect")
}

func TestFrameMirrorsCapsLockLight(t *testing.T) {
	r := &fakeRenderer{}
	c := newLoadedCanvas(t, r, 29, 38)
	require.NoError(t, c.SetProcessor(&fakeProcessor{state: framesync.State{ResetLine: true, CapsLockLight: true}}))

	assert.True(t, c.Frame())
	assert.Equal(t, 1, r.renders)

	for _, name := range []string{bindertest.KeyName(29), bindertest.KeyName(38), bindertest.KeyName(27), bindertest.KeyName(60)} {
		node, ok := c.Scene().ObjectByName(name)
		require.True(t, ok, name)
		assert.Zero(t, node.Position().Y(), name)
	}

	leds := map[string]bool{
		binder.CapsLockLEDNode:  true,
		binder.ShiftLockLEDNode: false,
		binder.CassetteLEDNode:  false,
	}
	for name, on := range leds {
		node, ok := c.Scene().ObjectByName(name)
		require.True(t, ok, name)
		m := node.Materials()[1].(interface{ Emissive() [3]float32 })
		if on {
			assert.Equal(t, framesync.LEDOn, m.Emissive(), name)
		} else {
			assert.Equal(t, framesync.LEDOff, m.Emissive(), name)
		}
	}
}

func TestFrameBeforeProcessorStillRenders(t *testing.T) {
	r := &fakeRenderer{err: errors.New("lost")}
	c := NewCanvas(r)
	assert.True(t, c.Frame(), "render errors do not fail the frame")
	assert.Equal(t, 1, r.renders)
}

func TestSetProcessorOnce(t *testing.T) {
	c := NewCanvas(&fakeRenderer{})
	require.NoError(t, c.SetProcessor(&fakeProcessor{}))
	assert.ErrorIs(t, c.SetProcessor(&fakeProcessor{}), framesync.ErrAlreadyBound)
}

func TestPaintCopiesWholeBuffer(t *testing.T) {
	c := NewCanvas(&fakeRenderer{})
	tex := c.FrameBuffer().Texture()
	v := tex.Version()

	video := c.VideoBuffer()
	video[0] = 0x11223344
	video[framebuffer.PixelCount-1] = 0x55667788

	// The region only covers the first line; the last pixel is copied anyway.
	require.NoError(t, c.Paint(0, 0, 1, 1))
	px := c.FrameBuffer().Pixels()
	assert.Equal(t, uint32(0x11223344), px[0])
	assert.Equal(t, uint32(0x55667788), px[framebuffer.PixelCount-1])
	assert.Greater(t, tex.Version(), v)
	assert.Equal(t, uint64(1), c.Paints())
}

func TestPaintRejectsWrongSize(t *testing.T) {
	c := NewCanvas(&fakeRenderer{})
	c.SetVideoBuffer(make([]uint32, 640*512))
	v := c.FrameBuffer().Texture().Version()

	assert.ErrorIs(t, c.Paint(0, 0, 640, 512), framebuffer.ErrSizeMismatch)
	assert.Equal(t, v, c.FrameBuffer().Texture().Version())
	assert.Zero(t, c.Paints())
}

func TestHandleResize(t *testing.T) {
	r := &fakeRenderer{}
	c := NewCanvas(r)

	assert.True(t, c.HandleResize(1600, 800))
	assert.InDelta(t, 2, c.Camera().Aspect(), 1e-6)
	assert.Equal(t, [2]int{1600, 800}, r.size)

	assert.False(t, c.HandleResize(0, 800))
	assert.InDelta(t, 2, c.Camera().Aspect(), 1e-6)
}

func TestWithController(t *testing.T) {
	ctrl := camera.NewOrbitControllerAt(mgl32.Vec3{0, 0, 10}, mgl32.Vec3{})
	c := NewCanvas(&fakeRenderer{}, WithController(ctrl))
	assert.Same(t, ctrl, c.Controls())
}

package renderer

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"math"
	"slices"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-beeb/common"
	"github.com/Carmen-Shannon/oxy-beeb/engine/camera"
	"github.com/Carmen-Shannon/oxy-beeb/engine/compositor"
	"github.com/Carmen-Shannon/oxy-beeb/engine/framebuffer"
	"github.com/Carmen-Shannon/oxy-beeb/engine/game_object"
	"github.com/Carmen-Shannon/oxy-beeb/engine/model"
	"github.com/Carmen-Shannon/oxy-beeb/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-beeb/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-beeb/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-beeb/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-beeb/engine/scene"
	"github.com/Carmen-Shannon/oxy-beeb/engine/texture"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend records what the renderer asks of the GPU.
type fakeBackend struct {
	textures    []common.TextureStagingData
	cubes       int
	samplers    []common.SamplerStagingData
	meshes      int
	uniforms    int
	writes      int
	clears      []wgpu.Color
	presents    int
	surface     [2]int
	beginErr    error
	presentMode PresentMode

	registered   []string
	registerErr  error
	bindGroups   map[string]int
	bindTextures map[string]int
	draws        []string
	inPass       bool
	strayDraws   int
}

func (f *fakeBackend) ConfigureSurface(width, height int) { f.surface = [2]int{width, height} }
func (f *fakeBackend) SetPresentMode(mode PresentMode)    { f.presentMode = mode }

func (f *fakeBackend) InitMeshBuffers(bind_group_provider.BindGroupProvider, []byte, []byte, int) error {
	f.meshes++
	return nil
}

func (f *fakeBackend) InitUniformBuffer(bind_group_provider.BindGroupProvider, int, uint64) error {
	f.uniforms++
	return nil
}

func (f *fakeBackend) InitTextureView(_ bind_group_provider.BindGroupProvider, _ int, s common.TextureStagingData) error {
	f.textures = append(f.textures, s)
	return nil
}

func (f *fakeBackend) InitCubeTextureView(bind_group_provider.BindGroupProvider, int, [6]common.TextureStagingData) error {
	f.cubes++
	return nil
}

func (f *fakeBackend) InitSampler(_ bind_group_provider.BindGroupProvider, _ int, s common.SamplerStagingData) error {
	f.samplers = append(f.samplers, s)
	return nil
}

func (f *fakeBackend) RegisterRenderPipeline(p pipeline.Pipeline) error {
	if f.registerErr != nil {
		return f.registerErr
	}
	f.registered = append(f.registered, p.PipelineKey())
	return nil
}

func (f *fakeBackend) InitBindGroup(p pipeline.Pipeline, group int, provider bind_group_provider.BindGroupProvider, textures []bind_group_provider.BindGroupProvider) error {
	if !slices.Contains(f.registered, p.PipelineKey()) {
		return fmt.Errorf("pipeline %s not registered", p.PipelineKey())
	}
	if f.bindGroups == nil {
		f.bindGroups = make(map[string]int)
		f.bindTextures = make(map[string]int)
	}
	f.bindGroups[fmt.Sprintf("%d %s", group, provider.Label())]++
	if group == shader.GroupMaterial {
		f.bindTextures[provider.Label()] = len(textures)
	}
	return nil
}

func (f *fakeBackend) DrawCall(p pipeline.Pipeline, _ bind_group_provider.BindGroupProvider, first, count uint32, groups []bind_group_provider.BindGroupProvider) {
	f.record(fmt.Sprintf("%s %s [%d,%d) groups=%d", p.Material().Name(), p.Material().Kind(), first, first+count, len(groups)))
}

func (f *fakeBackend) DrawFullscreen(p pipeline.Pipeline, groups []bind_group_provider.BindGroupProvider) {
	f.record(fmt.Sprintf("%s fullscreen groups=%d", p.Material().Kind(), len(groups)))
}

func (f *fakeBackend) record(draw string) {
	if !f.inPass {
		f.strayDraws++
	}
	f.draws = append(f.draws, draw)
}

func (f *fakeBackend) WriteBuffers(writes []bind_group_provider.BufferWrite) { f.writes += len(writes) }

func (f *fakeBackend) BeginFrame(clear wgpu.Color) error {
	if f.beginErr != nil {
		return f.beginErr
	}
	f.clears = append(f.clears, clear)
	f.inPass = true
	return nil
}

func (f *fakeBackend) EndFrame() { f.inPass = false }
func (f *fakeBackend) Present()  { f.presents++ }

func newTestRenderer(opts ...RendererBuilderOption) (*renderer, *fakeBackend) {
	r := newRenderer(opts...)
	fb := &fakeBackend{}
	r.backend = fb
	return r, fb
}

func triangle() model.Model {
	return model.NewModel(
		model.WithName("tri"),
		model.WithVertices([]model.GPUVertex{
			{Position: [3]float32{0, 0, 0}},
			{Position: [3]float32{1, 0, 0}},
			{Position: [3]float32{0, 1, 0}},
		}),
		model.WithIndices([]uint32{0, 1, 2}),
	)
}

func envCube(t *testing.T) *texture.CubeTexture {
	t.Helper()
	var faces [6]*image.RGBA
	for i := range faces {
		faces[i] = image.NewRGBA(image.Rect(0, 0, 2, 2))
	}
	c, err := texture.NewCubeTexture(faces)
	require.NoError(t, err)
	return c
}

var snippets = compositor.Snippets{
	Prolog:   "uniform sampler2D maskTexture;",
	Emissive: "totalEmissiveRadiance *= texture2D( emissiveMap, vUv ).rgb;",
	Epilog:   "reflectedLight.indirectDiffuse *= 1.0;",
}

func screenScene(t *testing.T) (scene.Scene, *framebuffer.FrameBuffer) {
	t.Helper()
	env := envCube(t)
	fb := framebuffer.New()
	mask := texture.New("mask", image.NewRGBA(image.Rect(0, 0, 4, 4)))
	screen, err := compositor.BuildScreenMaterial(env, fb.Texture(), mask, snippets)
	require.NoError(t, err)

	s := scene.NewScene(scene.WithBackgroundColor(0x222222), scene.WithStudioLighting())
	s.SetBackgroundCube(env)
	s.Add(game_object.NewGameObject(
		game_object.WithName("SCREEN_GLASS"),
		game_object.WithModel(triangle()),
		game_object.WithMaterials(screen),
	))
	return s, fb
}

func TestRenderUploadsOnlyDirtyTextures(t *testing.T) {
	r, be := newTestRenderer()
	s, fb := screenScene(t)
	cam := camera.NewCamera()

	require.NoError(t, r.Render(s, cam))
	st := r.Stats()
	assert.Equal(t, 2, st.Compiled, "the screen and the cube background")
	assert.Equal(t, 1, st.MeshUploads)
	assert.Equal(t, 3, st.TextureUploads, "framebuffer, mask and the shared environment cube")
	assert.Equal(t, 1, be.cubes)
	require.Len(t, be.textures, 2)

	require.NoError(t, r.Render(s, cam))
	st = r.Stats()
	assert.Zero(t, st.Compiled, "programs are composed once")
	assert.Zero(t, st.TextureUploads)
	assert.Zero(t, st.MeshUploads)

	px := make([]uint32, framebuffer.PixelCount)
	px[0] = 0xffffffff
	require.NoError(t, fb.Paint(px))

	require.NoError(t, r.Render(s, cam))
	assert.Equal(t, 1, r.Stats().TextureUploads, "only the painted framebuffer")
	require.Len(t, be.textures, 3)
	up := be.textures[2]
	assert.Equal(t, uint32(framebuffer.Width), up.Width)
	assert.True(t, up.SRGB)
	// The first source row lands last.
	last := (framebuffer.Height - 1) * framebuffer.Width * 4
	assert.Equal(t, []byte{0xff, 0xff, 0xff, 0xff}, up.Pixels[last:last+4])

	assert.Equal(t, uint64(3), r.Frames())
	assert.Equal(t, 3, be.presents)
	assert.Len(t, be.samplers, 3, "re-uploads keep their sampler")
}

func TestRenderDrawsScreenProgram(t *testing.T) {
	r, be := newTestRenderer()
	s, _ := screenScene(t)

	require.NoError(t, r.Render(s, camera.NewCamera()))
	assert.Equal(t, []string{
		"backdrop fullscreen groups=3",
		"screen physical [0,3) groups=3",
	}, be.draws)
	assert.Zero(t, be.strayDraws, "draws are recorded inside the render pass")
	assert.Equal(t, 2, r.Stats().DrawCalls)
	require.Len(t, be.registered, 2)

	var screen pipeline.Pipeline
	s.Traverse(func(obj game_object.GameObject) {
		if obj.Name() == "SCREEN_GLASS" {
			screen = r.Pipeline(obj.Material(0))
		}
	})
	require.NotNil(t, screen)
	frag := screen.Lowered().Fragment
	assert.Contains(t, frag, "uniform texture2D maskTexture_texture;")
	assert.Contains(t, frag, "texture( sampler2D( emissiveMap_texture, emissiveMap_sampler ), vUv )")
	assert.Less(t, strings.Index(frag, "maskTexture_texture"), strings.Index(frag, "#define PI"), "prolog stays ahead of the common declarations")
	assert.Equal(t, 3, be.bindTextures["Material "+screen.PipelineKey()], "mask, framebuffer and environment")

	// The frame bind group is shared by every draw.
	assert.Equal(t, 1, be.bindGroups[fmt.Sprintf("%d Frame", shader.GroupFrame)])
}

func TestRenderOrdersOpaqueBeforeTransparent(t *testing.T) {
	r, be := newTestRenderer()
	glass := material.NewPhysicalMaterial(material.WithName("glass"), material.WithOpacity(0.5))
	body := material.NewBasicMaterial(material.WithBasicName("body"))
	m := model.NewModel(
		model.WithName("quad"),
		model.WithVertices(make([]model.GPUVertex, 4)),
		model.WithIndices([]uint32{0, 1, 2, 0, 2, 3}),
		model.WithGroups([]model.Group{
			{Start: 0, Count: 3, MaterialIndex: 0},
			{Start: 3, Count: 3, MaterialIndex: 1},
		}),
	)
	s := scene.NewScene()
	s.Add(game_object.NewGameObject(game_object.WithName("case"), game_object.WithModel(m), game_object.WithMaterials(glass, body)))

	require.NoError(t, r.Render(s, camera.NewCamera()))
	assert.Equal(t, []string{
		"body basic [3,6) groups=3",
		"glass physical [0,3) groups=3",
	}, be.draws)
	assert.Equal(t, 2, r.Stats().Materials)

	require.NoError(t, r.Render(s, camera.NewCamera()))
	assert.Len(t, be.registered, 2, "pipelines are registered once")
	assert.Len(t, be.draws, 4)
}

func TestRenderSurfacesRegistrationErrors(t *testing.T) {
	r, be := newTestRenderer()
	be.registerErr = errors.New("naga: unknown identifier")
	m := material.NewBasicMaterial()
	s := scene.NewScene()
	s.Add(game_object.NewGameObject(game_object.WithName("key"), game_object.WithModel(triangle()), game_object.WithMaterials(m)))

	err := r.Render(s, camera.NewCamera())
	require.ErrorIs(t, err, be.registerErr)
	assert.Nil(t, r.Pipeline(m), "a pipeline that failed to register is retried next frame")
	assert.Empty(t, be.draws)
	assert.Empty(t, be.clears)
}

func TestObjectBlock(t *testing.T) {
	world := mgl32.Translate3D(1, 2, 3).Mul4(mgl32.Scale3D(2, 2, 2))
	view := mgl32.Translate3D(0, 0, -5)
	buf := objectBlock(world, view)
	require.Len(t, buf, 176)

	at := func(i int) float32 { return math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:])) }
	assert.Equal(t, float32(1), at(12), "world translation x")
	assert.Equal(t, float32(-2), at(16+14), "model-view translation z")
	assert.InDelta(t, 0.5, at(32), 1e-6, "normal matrix undoes the uniform scale")
	assert.Zero(t, at(35), "mat3 columns are padded")
}

func TestRenderClearsToBackground(t *testing.T) {
	r, be := newTestRenderer()
	s := scene.NewScene(scene.WithBackgroundColor(0x222222))

	require.NoError(t, r.Render(s, camera.NewCamera()))
	require.Len(t, be.clears, 1)
	assert.InDelta(t, float64(0x22)/255, be.clears[0].R, 1e-9)
	assert.InDelta(t, float64(0x22)/255, be.clears[0].B, 1e-9)
	assert.Equal(t, 1.0, be.clears[0].A)
	assert.Zero(t, r.Stats().Objects)
}

func TestRenderSurfacesCompositionErrors(t *testing.T) {
	r, be := newTestRenderer()
	boom := errors.New("boom")
	m := material.NewPhysicalMaterial(material.WithCompileHook(func(*shader.Program) error { return boom }))

	s := scene.NewScene()
	s.Add(game_object.NewGameObject(game_object.WithName("bad"), game_object.WithModel(triangle()), game_object.WithMaterials(m)))

	err := r.Render(s, camera.NewCamera())
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), `"bad"`)
	assert.Empty(t, be.clears, "no frame is submitted")
	assert.Nil(t, r.Pipeline(m))
}

func TestRenderSkipsDisabledObjects(t *testing.T) {
	r, _ := newTestRenderer()
	m := material.NewBasicMaterial()
	obj := game_object.NewGameObject(game_object.WithModel(triangle()), game_object.WithMaterials(m), game_object.WithEnabled(false))
	s := scene.NewScene()
	s.Add(obj)

	require.NoError(t, r.Render(s, camera.NewCamera()))
	assert.Zero(t, r.Stats().Objects)
	assert.Nil(t, r.Pipeline(m))

	obj.SetEnabled(true)
	require.NoError(t, r.Render(s, camera.NewCamera()))
	assert.Equal(t, 1, r.Stats().Objects)
	assert.NotNil(t, r.Pipeline(m))
}

func TestRenderBeginFrameError(t *testing.T) {
	r, be := newTestRenderer()
	be.beginErr = errors.New("surface lost")
	err := r.Render(scene.NewScene(), camera.NewCamera())
	assert.ErrorIs(t, err, be.beginErr)
	assert.Zero(t, r.Frames())
}

func TestResizeIgnoresEmptySurface(t *testing.T) {
	r, be := newTestRenderer()
	r.Resize(800, 600)
	assert.Equal(t, [2]int{800, 600}, be.surface)
	r.Resize(0, 600)
	assert.Equal(t, [2]int{800, 600}, be.surface)
}

func TestSamplerStaging(t *testing.T) {
	mask := samplerStaging(texture.Sampler{
		MagFilter:  texture.FilterLinear,
		MinFilter:  texture.FilterLinearMipmapLinear,
		WrapS:      texture.WrapRepeat,
		WrapT:      texture.WrapRepeat,
		Anisotropy: 4,
	}, 10)
	assert.Equal(t, wgpu.AddressModeRepeat, mask.AddressModeU)
	assert.Equal(t, wgpu.MipmapFilterModeLinear, mask.MipmapFilter)
	assert.Equal(t, float32(10), mask.LodMaxClamp)
	assert.Equal(t, uint16(4), mask.MaxAnisotropy)

	fb := samplerStaging(framebuffer.New().Texture().Sampler(), 0)
	assert.Equal(t, wgpu.AddressModeClampToEdge, fb.AddressModeV)
	assert.Equal(t, uint16(1), fb.MaxAnisotropy, "anisotropy needs linear mip filtering")

	nearest := samplerStaging(texture.Sampler{MagFilter: texture.FilterNearest, MinFilter: texture.FilterNearest, WrapS: texture.WrapMirroredRepeat}, 0)
	assert.Equal(t, wgpu.FilterModeNearest, nearest.MagFilter)
	assert.Equal(t, wgpu.AddressModeMirrorRepeat, nearest.AddressModeU)
	assert.Equal(t, uint16(1), nearest.MaxAnisotropy)
}

func TestTextureStagingMips(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 2))
	img.Pix[0] = 9
	tex := texture.New("m", img)
	tex.GenerateMipmaps()

	st := textureStaging(tex)
	assert.False(t, st.SRGB)
	assert.Equal(t, byte(9), st.Pixels[0], "no flip")
	require.Len(t, st.Mips, len(tex.Mipmaps()))
	assert.Equal(t, uint32(2), st.Mips[0].Width)
	assert.Equal(t, uint32(1), st.Mips[0].Height)
	assert.Equal(t, wgpu.TextureFormatRGBA8Unorm, st.Format())
}

package renderer

import (
	"encoding/binary"
	"fmt"
	"math"
	"slices"
	"sync"

	"fortio.org/log"
	"github.com/Carmen-Shannon/oxy-beeb/engine/camera"
	"github.com/Carmen-Shannon/oxy-beeb/engine/game_object"
	"github.com/Carmen-Shannon/oxy-beeb/engine/light"
	"github.com/Carmen-Shannon/oxy-beeb/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-beeb/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-beeb/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-beeb/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-beeb/engine/scene"
	"github.com/Carmen-Shannon/oxy-beeb/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

// Binding slots of the providers the renderer manages.
const (
	// BindingCamera holds the camera uniform of the frame provider.
	BindingCamera = shader.BindingCamera
	// BindingLights holds the light buffer of the frame provider.
	BindingLights = shader.BindingLights
	// BindingModel holds the transform block of an object provider.
	BindingModel = shader.BindingObject
	// BindingMaterialParams holds the packed scalar, color and UV state of a material provider.
	BindingMaterialParams = shader.BindingMaterial
	// BindingTexture holds the texture and sampler of a texture provider.
	BindingTexture = 0
)

// FrameStats counts the work done by the most recent Render call.
type FrameStats struct {
	// Objects is the number of enabled objects carrying a model.
	Objects int
	// Materials is the number of distinct materials referenced by those objects.
	Materials int
	// Compiled is the number of programs composed during the frame.
	Compiled int
	// TextureUploads is the number of textures (re)uploaded during the frame.
	TextureUploads int
	// MeshUploads is the number of models whose buffers were created during the frame.
	MeshUploads int
	// DrawCalls is the number of draws recorded, the background included.
	DrawCalls int
}

// drawItem is one draw recorded into the frame: a material group of an object, or the backdrop
// when mesh is nil.
type drawItem struct {
	pipeline pipeline.Pipeline
	object   bind_group_provider.BindGroupProvider
	material bind_group_provider.BindGroupProvider
	mesh     bind_group_provider.BindGroupProvider
	first    uint32
	count    uint32
}

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu sync.Mutex

	backendType RendererBackendType
	backend     RendererBackend
	library     shader.Library
	ambient     [3]float32

	pipelineCache map[material.Material]pipeline.Pipeline

	// backdrop draws a cube background; backdropObject carries its identity transforms.
	backdrop       material.BackdropMaterial
	backdropObject bind_group_provider.BindGroupProvider

	frame     bind_group_provider.BindGroupProvider
	objects   map[uint64]bind_group_provider.BindGroupProvider
	meshes    map[string]bind_group_provider.BindGroupProvider
	materials map[material.Material]bind_group_provider.BindGroupProvider
	textures  map[string]bind_group_provider.BindGroupProvider

	// bufferSizes remembers the size of every uniform buffer created, keyed by provider label and binding.
	bufferSizes map[string]int

	frames uint64
	stats  FrameStats

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode
}

// Renderer draws a scene through a GPU backend.
//
// Each Render call makes every texture reachable from the scene resident, re-uploading a texture
// only when its version moved since the last upload. Every material is composed into a program
// and registered as a GPU pipeline once, the first time it is met; composition errors are
// returned from Render and the frame is not submitted. A cube background is drawn first, then
// opaque material groups, then transparent ones.
type Renderer interface {
	// Render brings GPU state up to date with the scene, draws every enabled object's material
	// groups and presents the frame.
	//
	// Parameters:
	//   - s: the scene to draw
	//   - cam: the camera to draw from
	//
	// Returns:
	//   - error: error if a program cannot be composed or the backend fails
	Render(s scene.Scene, cam camera.Camera) error

	// Resize reconfigures the surface.
	//
	// Parameters:
	//   - width, height: the new size in pixels
	Resize(width, height int)

	// SetPresentMode changes the present mode; it takes effect at the next Resize.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// Pipeline retrieves the composed pipeline of a material, or nil if the material has not been drawn.
	//
	// Parameters:
	//   - m: the material
	//
	// Returns:
	//   - pipeline.Pipeline: the pipeline or nil
	Pipeline(m material.Material) pipeline.Pipeline

	// Stats returns the counters of the most recent Render call.
	//
	// Returns:
	//   - FrameStats: the counters
	Stats() FrameStats

	// Frames returns the number of frames presented.
	Frames() uint64
}

var _ Renderer = &renderer{}

// NewRenderer creates a renderer presenting to the window's surface.
//
// Parameters:
//   - backendType: the GPU backend to use
//   - w: the window providing the surface and its initial size
//   - options: functional options to configure the renderer
//
// Returns:
//   - Renderer: the new renderer
func NewRenderer(backendType RendererBackendType, w window.Window, options ...RendererBuilderOption) Renderer {
	r := newRenderer(options...)
	r.backendType = backendType

	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		r.backend = newWGPURendererBackend(w.SurfaceDescriptor(), r.forceFallbackAdapter)
	}

	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}
	r.backend.ConfigureSurface(w.Width(), w.Height())
	return r
}

// newRenderer builds a renderer without a backend.
func newRenderer(options ...RendererBuilderOption) *renderer {
	r := &renderer{
		pipelineCache:  make(map[material.Material]pipeline.Pipeline),
		backdrop:       material.NewBackdropMaterial(nil),
		backdropObject: bind_group_provider.NewBindGroupProvider("Backdrop"),
		frame:          bind_group_provider.NewBindGroupProvider("Frame"),
		objects:        make(map[uint64]bind_group_provider.BindGroupProvider),
		meshes:         make(map[string]bind_group_provider.BindGroupProvider),
		materials:      make(map[material.Material]bind_group_provider.BindGroupProvider),
		textures:       make(map[string]bind_group_provider.BindGroupProvider),
		bufferSizes:    make(map[string]int),
	}
	for _, opt := range options {
		opt(r)
	}
	if r.library == nil {
		r.library = shader.NewLibrary()
	}
	return r
}

func (r *renderer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.backend.ConfigureSurface(width, height)
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
}

func (r *renderer) Pipeline(m material.Material) pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pipelineCache[m]
}

func (r *renderer) Stats() FrameStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}

func (r *renderer) Frames() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

func (r *renderer) Render(s scene.Scene, cam camera.Camera) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stats = FrameStats{}
	var writes []bind_group_provider.BufferWrite

	camUniform := camera.UniformFor(cam)
	if err := r.queueUniform(&writes, r.frame, BindingCamera, camUniform.Marshal()); err != nil {
		return err
	}
	if err := r.queueUniform(&writes, r.frame, BindingLights, light.MarshalLightBuffer(s.Lights(), r.ambient)); err != nil {
		return err
	}

	var objects []game_object.GameObject
	s.Traverse(func(obj game_object.GameObject) {
		if obj.Enabled() && obj.Model() != nil {
			objects = append(objects, obj)
		}
	})

	var background, opaque, transparent []drawItem
	view := cam.ViewMatrix()
	seen := make(map[material.Material]bool)
	for _, obj := range objects {
		objectProvider, meshProvider, err := r.prepareObject(&writes, obj, view)
		if err != nil {
			return err
		}
		for _, g := range obj.Model().Groups() {
			m := obj.Material(g.MaterialIndex)
			if m == nil || g.Count == 0 {
				continue
			}
			p, materialProvider, err := r.prepareMaterial(&writes, m, !seen[m])
			if err != nil {
				return fmt.Errorf("renderer: object %q: %w", obj.Name(), err)
			}
			seen[m] = true
			item := drawItem{
				pipeline: p,
				object:   objectProvider,
				material: materialProvider,
				mesh:     meshProvider,
				first:    uint32(g.Start),
				count:    uint32(g.Count),
			}
			if p.BlendEnabled() {
				transparent = append(transparent, item)
			} else {
				opaque = append(opaque, item)
			}
		}
	}
	r.stats.Objects = len(objects)
	r.stats.Materials = len(seen)

	bg := s.Background()
	if bg.Cube != nil {
		r.backdrop.SetCube(bg.Cube)
		p, materialProvider, err := r.prepareMaterial(&writes, r.backdrop, true)
		if err != nil {
			return err
		}
		if err := r.queueUniform(&writes, r.backdropObject, BindingModel, objectBlock(mgl32.Ident4(), mgl32.Ident4())); err != nil {
			return err
		}
		background = append(background, drawItem{pipeline: p, object: r.backdropObject, material: materialProvider})
	}

	r.backend.WriteBuffers(writes)

	draws := slices.Concat(background, opaque, transparent)
	if err := r.bindDraws(draws); err != nil {
		return err
	}

	c := bg.ClearColor()
	if err := r.backend.BeginFrame(wgpu.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
		A: 1,
	}); err != nil {
		return fmt.Errorf("renderer: begin frame: %w", err)
	}
	for _, d := range draws {
		groups := []bind_group_provider.BindGroupProvider{r.frame, d.object, d.material}
		if d.mesh == nil {
			r.backend.DrawFullscreen(d.pipeline, groups)
		} else {
			r.backend.DrawCall(d.pipeline, d.mesh, d.first, d.count, groups)
		}
	}
	r.stats.DrawCalls = len(draws)
	r.backend.EndFrame()
	r.backend.Present()
	r.frames++
	return nil
}

// bindDraws brings the frame, object and material bind groups of every draw up to date.
func (r *renderer) bindDraws(draws []drawItem) error {
	if len(draws) == 0 {
		return nil
	}
	if err := r.backend.InitBindGroup(draws[0].pipeline, shader.GroupFrame, r.frame, nil); err != nil {
		return fmt.Errorf("renderer: frame bind group: %w", err)
	}
	for _, d := range draws {
		if err := r.backend.InitBindGroup(d.pipeline, shader.GroupObject, d.object, nil); err != nil {
			return fmt.Errorf("renderer: %s: %w", d.object.Label(), err)
		}
		bound := d.pipeline.Textures()
		textures := make([]bind_group_provider.BindGroupProvider, len(bound))
		for i, tb := range bound {
			textures[i] = r.textureProvider(tb)
		}
		if err := r.backend.InitBindGroup(d.pipeline, shader.GroupMaterial, d.material, textures); err != nil {
			return fmt.Errorf("renderer: %s: %w", d.material.Label(), err)
		}
	}
	return nil
}

// prepareObject uploads the object's mesh on first sight and queues its transform block.
func (r *renderer) prepareObject(writes *[]bind_group_provider.BufferWrite, obj game_object.GameObject, view mgl32.Mat4) (bind_group_provider.BindGroupProvider, bind_group_provider.BindGroupProvider, error) {
	m := obj.Model()
	mesh, ok := r.meshes[m.ID()]
	if !ok {
		mesh = bind_group_provider.NewBindGroupProvider("Mesh " + m.Name())
		if err := r.backend.InitMeshBuffers(mesh, m.VertexData(), m.IndexData(), m.IndexCount()); err != nil {
			return nil, nil, fmt.Errorf("renderer: mesh %q: %w", m.Name(), err)
		}
		r.meshes[m.ID()] = mesh
		r.stats.MeshUploads++
	}

	provider, ok := r.objects[obj.ID()]
	if !ok {
		provider = bind_group_provider.NewBindGroupProvider(fmt.Sprintf("Object %d %s", obj.ID(), obj.Name()))
		r.objects[obj.ID()] = provider
	}
	if err := r.queueUniform(writes, provider, BindingModel, objectBlock(obj.WorldMatrix(), view)); err != nil {
		return nil, nil, err
	}
	return provider, mesh, nil
}

// prepareMaterial composes and registers the material's program on first sight. When refresh is
// set it also makes the material's textures resident and queues its parameters.
func (r *renderer) prepareMaterial(writes *[]bind_group_provider.BufferWrite, m material.Material, refresh bool) (pipeline.Pipeline, bind_group_provider.BindGroupProvider, error) {
	p, ok := r.pipelineCache[m]
	if !ok {
		var err error
		if p, err = pipeline.ForMaterial(m, r.library); err != nil {
			return nil, nil, err
		}
		if err := r.backend.RegisterRenderPipeline(p); err != nil {
			return nil, nil, fmt.Errorf("register %s: %w", p.PipelineKey(), err)
		}
		r.pipelineCache[m] = p
		r.stats.Compiled++
		log.Debugf("[Renderer] composed program %s", p.PipelineKey())
	}

	provider, ok := r.materials[m]
	if !ok {
		provider = bind_group_provider.NewBindGroupProvider("Material " + p.PipelineKey())
		r.materials[m] = provider
	}
	if !refresh {
		return p, provider, nil
	}

	bound := p.Textures()
	if len(bound) != len(p.Lowered().Samplers) {
		return nil, nil, fmt.Errorf("material %q: %w", m.Name(), pipeline.ErrMissingTexture)
	}
	for _, tb := range bound {
		if tb.Cube != nil {
			if err := r.residentCube(tb.ID(), tb); err != nil {
				return nil, nil, err
			}
			continue
		}
		if err := r.residentTexture(tb); err != nil {
			return nil, nil, err
		}
	}

	params := material.ParamsFor(m)
	if err := r.queueUniform(writes, provider, BindingMaterialParams, params.Marshal()); err != nil {
		return nil, nil, err
	}
	return p, provider, nil
}

// residentTexture uploads a 2D texture and its sampler when its version moved.
func (r *renderer) residentTexture(tb pipeline.TextureBinding) error {
	provider := r.textureProvider(tb)
	version := tb.Version()
	if provider.UploadedVersion(BindingTexture) >= version {
		return nil
	}
	if err := r.backend.InitTextureView(provider, BindingTexture, textureStaging(tb.Texture)); err != nil {
		return fmt.Errorf("renderer: texture %q: %w", tb.Texture.Name(), err)
	}
	// Re-uploads keep the sampler so bind groups referencing it stay valid.
	if provider.UploadedVersion(BindingTexture) == 0 {
		if err := r.backend.InitSampler(provider, BindingTexture, samplerStaging(tb.Texture.Sampler(), len(tb.Texture.Mipmaps()))); err != nil {
			return fmt.Errorf("renderer: sampler %q: %w", tb.Texture.Name(), err)
		}
	}
	provider.SetUploadedVersion(BindingTexture, version)
	r.stats.TextureUploads++
	return nil
}

// residentCube uploads a cube texture when its version moved.
func (r *renderer) residentCube(id string, tb pipeline.TextureBinding) error {
	provider := r.textureProvider(tb)
	version := tb.Cube.Version()
	if provider.UploadedVersion(BindingTexture) >= version {
		return nil
	}
	if err := r.backend.InitCubeTextureView(provider, BindingTexture, cubeStaging(tb.Cube)); err != nil {
		return fmt.Errorf("renderer: cube %s: %w", id, err)
	}
	if provider.UploadedVersion(BindingTexture) == 0 {
		if err := r.backend.InitSampler(provider, BindingTexture, cubeSamplerStaging()); err != nil {
			return fmt.Errorf("renderer: cube sampler %s: %w", id, err)
		}
	}
	provider.SetUploadedVersion(BindingTexture, version)
	r.stats.TextureUploads++
	return nil
}

func (r *renderer) textureProvider(tb pipeline.TextureBinding) bind_group_provider.BindGroupProvider {
	id := tb.ID()
	provider, ok := r.textures[id]
	if !ok {
		label := "Cube " + id
		if tb.Texture != nil {
			label = "Texture " + tb.Texture.Name()
		}
		provider = bind_group_provider.NewBindGroupProvider(label)
		r.textures[id] = provider
	}
	return provider
}

// queueUniform appends a uniform write, (re)creating the buffer when its size changes.
func (r *renderer) queueUniform(writes *[]bind_group_provider.BufferWrite, provider bind_group_provider.BindGroupProvider, binding int, data []byte) error {
	key := fmt.Sprintf("%s#%d", provider.Label(), binding)
	if r.bufferSizes[key] != len(data) {
		if err := r.backend.InitUniformBuffer(provider, binding, uint64(len(data))); err != nil {
			return fmt.Errorf("renderer: uniform buffer %s: %w", key, err)
		}
		r.bufferSizes[key] = len(data)
	}
	*writes = append(*writes, bind_group_provider.BufferWrite{
		Provider: provider,
		Binding:  binding,
		Data:     data,
	})
	return nil
}

// objectBlock packs the world, model-view and normal matrices of one object. Size: 176 bytes
// (two mat4 followed by a std140 mat3).
func objectBlock(world, view mgl32.Mat4) []byte {
	modelView := view.Mul4(world)
	normal := material.PackMat3(modelView.Mat3().Inv().Transpose())

	buf := make([]byte, 176)
	for i, v := range world {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	for i, v := range modelView {
		binary.LittleEndian.PutUint32(buf[64+i*4:], math.Float32bits(v))
	}
	for i, v := range normal {
		binary.LittleEndian.PutUint32(buf[128+i*4:], math.Float32bits(v))
	}
	return buf
}

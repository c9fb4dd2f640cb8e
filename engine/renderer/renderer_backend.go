package renderer

import (
	"github.com/Carmen-Shannon/oxy-beeb/common"
	"github.com/Carmen-Shannon/oxy-beeb/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-beeb/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

// RendererBackendType identifies the GPU backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based rendering backend.
	BackendTypeWGPU RendererBackendType = iota
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// RendererBackend is the GPU-facing half of the Renderer. The Renderer decides what is stale;
// the backend allocates and uploads.
type RendererBackend interface {
	// ConfigureSurface (re)configures the swapchain for the given size.
	//
	// Parameters:
	//   - width, height: the surface size in pixels
	ConfigureSurface(width, height int)

	// SetPresentMode selects the present mode used at the next ConfigureSurface.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// InitMeshBuffers creates and fills the vertex and index buffers of a provider.
	//
	// Parameters:
	//   - provider: the provider receiving the buffers
	//   - vertexData: packed vertices
	//   - indexData: packed uint32 indices
	//   - indexCount: the number of indices
	//
	// Returns:
	//   - error: error if buffer creation fails
	InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error

	// InitUniformBuffer creates a uniform buffer for a binding, replacing any existing one.
	//
	// Parameters:
	//   - provider: the provider receiving the buffer
	//   - binding: the binding index
	//   - size: the buffer size in bytes
	//
	// Returns:
	//   - error: error if buffer creation fails
	InitUniformBuffer(provider bind_group_provider.BindGroupProvider, binding int, size uint64) error

	// InitTextureView uploads a 2D texture for a binding. A resident texture of the same size and
	// format is written in place; otherwise a new one is created.
	//
	// Parameters:
	//   - provider: the provider receiving the texture
	//   - binding: the binding index
	//   - stagingData: the pixels to upload
	//
	// Returns:
	//   - error: error if creation fails
	InitTextureView(provider bind_group_provider.BindGroupProvider, binding int, stagingData common.TextureStagingData) error

	// InitCubeTextureView uploads the six faces of a cube texture for a binding.
	//
	// Parameters:
	//   - provider: the provider receiving the texture
	//   - binding: the binding index
	//   - faces: the faces in +X, -X, +Y, -Y, +Z, -Z order
	//
	// Returns:
	//   - error: error if creation fails
	InitCubeTextureView(provider bind_group_provider.BindGroupProvider, binding int, faces [6]common.TextureStagingData) error

	// InitSampler creates the sampler for a binding.
	//
	// Parameters:
	//   - provider: the provider receiving the sampler
	//   - binding: the binding index
	//   - samplerStagingData: the sampler configuration
	//
	// Returns:
	//   - error: error if creation fails
	InitSampler(provider bind_group_provider.BindGroupProvider, binding int, samplerStagingData common.SamplerStagingData) error

	// RegisterRenderPipeline compiles the lowered program of a pipeline and stores the GPU
	// pipeline and its bind group layouts on it.
	//
	// Parameters:
	//   - p: the pipeline to register
	//
	// Returns:
	//   - error: error if a shader module, layout or pipeline cannot be created
	RegisterRenderPipeline(p pipeline.Pipeline) error

	// InitBindGroup builds the bind group of one group index over a provider's uniform buffers
	// and, for the material group, over the views and samplers of the textures in p.Textures()
	// order. A bind group already built from the same resources is kept.
	//
	// Parameters:
	//   - p: the registered pipeline whose layout the bind group follows
	//   - group: the bind group index
	//   - provider: the provider owning the uniform buffers and receiving the bind group
	//   - textures: the texture providers, aligned with p.Textures()
	//
	// Returns:
	//   - error: error if a resource is missing or creation fails
	InitBindGroup(p pipeline.Pipeline, group int, provider bind_group_provider.BindGroupProvider, textures []bind_group_provider.BindGroupProvider) error

	// DrawCall records an indexed draw of a range of a mesh into the open render pass.
	//
	// Parameters:
	//   - p: the registered pipeline
	//   - meshProvider: the provider holding the vertex and index buffers
	//   - firstIndex, indexCount: the index range to draw
	//   - bindGroups: the providers whose bind groups are set, by group index
	DrawCall(p pipeline.Pipeline, meshProvider bind_group_provider.BindGroupProvider, firstIndex, indexCount uint32, bindGroups []bind_group_provider.BindGroupProvider)

	// DrawFullscreen records a three-vertex draw without vertex buffers.
	//
	// Parameters:
	//   - p: the registered pipeline
	//   - bindGroups: the providers whose bind groups are set, by group index
	DrawFullscreen(p pipeline.Pipeline, bindGroups []bind_group_provider.BindGroupProvider)

	// WriteBuffers queues uniform uploads.
	//
	// Parameters:
	//   - writes: the uploads to perform
	WriteBuffers(writes []bind_group_provider.BufferWrite)

	// BeginFrame acquires the next surface image and opens a render pass cleared to clear, with
	// depth cleared to the far plane. Draw calls are recorded between BeginFrame and EndFrame.
	//
	// Parameters:
	//   - clear: the clear color
	//
	// Returns:
	//   - error: error if the surface image cannot be acquired
	BeginFrame(clear wgpu.Color) error

	// EndFrame closes the render pass and submits it.
	EndFrame()

	// Present presents the acquired surface image.
	Present()
}

package bind_group_provider

import (
	"slices"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"
)

// bindGroupProvider is the unexported implementation of BindGroupProvider.
type bindGroupProvider struct {
	mu sync.Mutex

	// label is a debug label added for convenience.
	label string

	// The following fields are GPU allocated resources and must be released when no longer needed.
	// They are populated by the renderer backend, not by user-creation.

	// buffers holds the uniform buffers created for this provider, keyed by binding index.
	buffers map[int]*wgpu.Buffer
	// textures holds the GPU textures backing textureViews, kept so in-place re-uploads can reuse them.
	textures map[int]*wgpu.Texture
	// textureViews holds the GPU texture views created for this provider, keyed by binding index.
	textureViews map[int]*wgpu.TextureView
	// samplers holds the GPU samplers created for this provider, keyed by binding index.
	samplers map[int]*wgpu.Sampler
	// versions holds the source version last uploaded to each binding.
	versions map[int]uint64

	// bindGroup is the bind group built over this provider's resources, or nil if not created.
	bindGroup *wgpu.BindGroup
	// bindGroupKey identifies the resources bindGroup was built from.
	bindGroupKey []any

	vertexBuffer *wgpu.Buffer
	indexBuffer  *wgpu.Buffer
	indexCount   int
}

// BindGroupProvider holds the GPU resources backing one renderable thing: a mesh, a material or
// a texture. The renderer keys providers by the CPU-side object they mirror and uses the stored
// upload versions to decide when a resource is stale.
//
// Usage pattern:
//  1. The renderer creates a provider the first time it meets an object
//  2. The backend allocates buffers, textures and samplers into it
//  3. The renderer records the uploaded version with SetUploadedVersion
//  4. On later frames, a higher source version triggers a re-upload through the backend
type BindGroupProvider interface {
	// Release releases any GPU resources held by this provider and forgets their upload versions.
	Release()

	// Label returns the debug label for this provider.
	//
	// Returns:
	//   - string: the debug label
	Label() string

	// Buffer returns the uniform buffer for a binding, or nil if not created.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - *wgpu.Buffer: the buffer or nil
	Buffer(binding int) *wgpu.Buffer

	// SetBuffer stores the uniform buffer for a binding, releasing any buffer it replaces.
	//
	// Parameters:
	//   - binding: the binding index
	//   - buf: the buffer
	SetBuffer(binding int, buf *wgpu.Buffer)

	// Texture returns the GPU texture behind a binding's view, or nil if not created.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - *wgpu.Texture: the texture or nil
	Texture(binding int) *wgpu.Texture

	// TextureView returns the GPU texture view for a binding, or nil if not created.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - *wgpu.TextureView: the texture view or nil
	TextureView(binding int) *wgpu.TextureView

	// SetTexture stores the texture and view for a binding, releasing any pair it replaces.
	//
	// Parameters:
	//   - binding: the binding index
	//   - tex: the GPU texture
	//   - view: a view over tex
	SetTexture(binding int, tex *wgpu.Texture, view *wgpu.TextureView)

	// Sampler returns the GPU sampler for a binding, or nil if not created.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - *wgpu.Sampler: the sampler or nil
	Sampler(binding int) *wgpu.Sampler

	// SetSampler stores the sampler for a binding, releasing any sampler it replaces.
	//
	// Parameters:
	//   - binding: the binding index
	//   - s: the sampler
	SetSampler(binding int, s *wgpu.Sampler)

	// UploadedVersion returns the source version last uploaded to a binding, zero if never uploaded.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - uint64: the uploaded version
	UploadedVersion(binding int) uint64

	// SetUploadedVersion records the source version now resident for a binding.
	//
	// Parameters:
	//   - binding: the binding index
	//   - version: the uploaded version
	SetUploadedVersion(binding int, version uint64)

	// BindGroup returns the created bind group for shader binding.
	// Returns nil if GPU resources have not been initialized.
	//
	// Returns:
	//   - *wgpu.BindGroup: the bind group or nil
	BindGroup() *wgpu.BindGroup

	// SetBindGroup stores the bind group together with the resources it was built from,
	// releasing any bind group it replaces.
	//
	// Parameters:
	//   - bg: the created bind group
	//   - key: the layout and resources referenced by bg
	SetBindGroup(bg *wgpu.BindGroup, key []any)

	// BindGroupCurrent reports whether the stored bind group was built from exactly key.
	//
	// Parameters:
	//   - key: the layout and resources a bind group would reference now
	//
	// Returns:
	//   - bool: true if no rebuild is needed
	BindGroupCurrent(key []any) bool

	// VertexBuffer returns the GPU vertex buffer, or nil if not initialized.
	VertexBuffer() *wgpu.Buffer

	// SetVertexBuffer stores the vertex buffer.
	SetVertexBuffer(buf *wgpu.Buffer)

	// IndexBuffer returns the GPU index buffer, or nil if not initialized.
	IndexBuffer() *wgpu.Buffer

	// SetIndexBuffer stores the index buffer.
	SetIndexBuffer(buf *wgpu.Buffer)

	// IndexCount returns the number of indices uploaded with the index buffer.
	IndexCount() int

	// SetIndexCount stores the number of indices.
	SetIndexCount(count int)
}

var _ BindGroupProvider = &bindGroupProvider{}

// NewBindGroupProvider creates an empty provider.
//
// Parameters:
//   - label: a debug label used for GPU object labels
//   - options: functional options to configure the provider
//
// Returns:
//   - BindGroupProvider: the new provider
func NewBindGroupProvider(label string, options ...BindGroupProviderOption) BindGroupProvider {
	p := &bindGroupProvider{
		label:        label,
		buffers:      make(map[int]*wgpu.Buffer),
		textures:     make(map[int]*wgpu.Texture),
		textureViews: make(map[int]*wgpu.TextureView),
		samplers:     make(map[int]*wgpu.Sampler),
		versions:     make(map[int]uint64),
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

func (p *bindGroupProvider) Release() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for k, b := range p.buffers {
		if b != nil {
			b.Release()
		}
		delete(p.buffers, k)
	}
	for k, v := range p.textureViews {
		if v != nil {
			v.Release()
		}
		delete(p.textureViews, k)
	}
	for k, t := range p.textures {
		if t != nil {
			t.Release()
		}
		delete(p.textures, k)
	}
	for k, s := range p.samplers {
		if s != nil {
			s.Release()
		}
		delete(p.samplers, k)
	}
	clear(p.versions)

	if p.bindGroup != nil {
		p.bindGroup.Release()
		p.bindGroup = nil
	}
	p.bindGroupKey = nil

	if p.vertexBuffer != nil {
		p.vertexBuffer.Release()
		p.vertexBuffer = nil
	}
	if p.indexBuffer != nil {
		p.indexBuffer.Release()
		p.indexBuffer = nil
	}
	p.indexCount = 0
}

func (p *bindGroupProvider) Label() string {
	return p.label
}

func (p *bindGroupProvider) Buffer(binding int) *wgpu.Buffer {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.buffers[binding]
}

func (p *bindGroupProvider) SetBuffer(binding int, buf *wgpu.Buffer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if old := p.buffers[binding]; old != nil && old != buf {
		old.Release()
	}
	p.buffers[binding] = buf
}

func (p *bindGroupProvider) Texture(binding int) *wgpu.Texture {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.textures[binding]
}

func (p *bindGroupProvider) TextureView(binding int) *wgpu.TextureView {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.textureViews[binding]
}

func (p *bindGroupProvider) SetTexture(binding int, tex *wgpu.Texture, view *wgpu.TextureView) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if old := p.textureViews[binding]; old != nil && old != view {
		old.Release()
	}
	if old := p.textures[binding]; old != nil && old != tex {
		old.Release()
	}
	p.textures[binding] = tex
	p.textureViews[binding] = view
}

func (p *bindGroupProvider) Sampler(binding int) *wgpu.Sampler {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.samplers[binding]
}

func (p *bindGroupProvider) SetSampler(binding int, s *wgpu.Sampler) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if old := p.samplers[binding]; old != nil && old != s {
		old.Release()
	}
	p.samplers[binding] = s
}

func (p *bindGroupProvider) UploadedVersion(binding int) uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.versions[binding]
}

func (p *bindGroupProvider) SetUploadedVersion(binding int, version uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.versions[binding] = version
}

func (p *bindGroupProvider) BindGroup() *wgpu.BindGroup {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.bindGroup
}

func (p *bindGroupProvider) SetBindGroup(bg *wgpu.BindGroup, key []any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.bindGroup != nil && p.bindGroup != bg {
		p.bindGroup.Release()
	}
	p.bindGroup = bg
	p.bindGroupKey = key
}

func (p *bindGroupProvider) BindGroupCurrent(key []any) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.bindGroupKey != nil && slices.Equal(p.bindGroupKey, key)
}

func (p *bindGroupProvider) VertexBuffer() *wgpu.Buffer {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.vertexBuffer
}

func (p *bindGroupProvider) SetVertexBuffer(buf *wgpu.Buffer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.vertexBuffer = buf
}

func (p *bindGroupProvider) IndexBuffer() *wgpu.Buffer {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.indexBuffer
}

func (p *bindGroupProvider) SetIndexBuffer(buf *wgpu.Buffer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.indexBuffer = buf
}

func (p *bindGroupProvider) IndexCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.indexCount
}

func (p *bindGroupProvider) SetIndexCount(count int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.indexCount = count
}

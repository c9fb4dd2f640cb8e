package renderer

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/Carmen-Shannon/oxy-beeb/common"
	"github.com/Carmen-Shannon/oxy-beeb/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-beeb/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-beeb/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

type wgpuRendererBackendImpl struct {
	mu     *sync.Mutex
	device *wgpu.Device
	queue  *wgpu.Queue

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface

	surfaceFormat        *wgpu.TextureFormat
	renderPassDescriptor *wgpu.RenderPassDescriptor

	// Persistent until resize
	depthTexture     *wgpu.Texture
	depthTextureView *wgpu.TextureView

	// frameLayout and objectLayout are shared by every pipeline so frame and object bind groups
	// are built once per provider.
	frameLayout  *wgpu.BindGroupLayout
	objectLayout *wgpu.BindGroupLayout

	presentMode wgpu.PresentMode // defaults to PresentModeImmediate (Uncapped)

	// Frame state between BeginFrame and Present
	frameEncoder *wgpu.CommandEncoder
	framePass    *wgpu.RenderPassEncoder
	frameSurface *wgpu.Texture
	frameView    *wgpu.TextureView

	// shapes records the creation parameters of every texture this backend allocated.
	shapes map[*wgpu.Texture]textureShape
}

// meshVertexLayout describes model.GPUVertex: position, normal and uv at locations 0 to 2.
var meshVertexLayout = wgpu.VertexBufferLayout{
	ArrayStride: 32,
	StepMode:    wgpu.VertexStepModeVertex,
	Attributes: []wgpu.VertexAttribute{
		{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
		{Format: wgpu.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1},
		{Format: wgpu.VertexFormatFloat32x2, Offset: 24, ShaderLocation: 2},
	},
}

// textureShape is what decides whether an upload can reuse a resident texture.
type textureShape struct {
	width, height, layers, levels uint32
	format                        wgpu.TextureFormat
}

var _ RendererBackend = &wgpuRendererBackendImpl{}

func newWGPURendererBackend(surfaceDescriptor *wgpu.SurfaceDescriptor, forceFallbackAdapter bool) RendererBackend {
	runtime.LockOSThread()
	w := &wgpuRendererBackendImpl{
		mu:          &sync.Mutex{},
		instance:    wgpu.CreateInstance(nil),
		presentMode: wgpu.PresentModeImmediate,
		shapes:      make(map[*wgpu.Texture]textureShape),
	}
	w.surface = w.instance.CreateSurface(surfaceDescriptor)

	a, err := w.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: forceFallbackAdapter,
		CompatibleSurface:    w.surface,
	})
	if err != nil {
		panic(err)
	}
	w.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Main Device",
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: wgpu.DefaultLimits(),
		},
	})
	if err != nil {
		panic(err)
	}
	w.device = d
	w.queue = d.GetQueue()

	return w
}

func (b *wgpuRendererBackendImpl) ConfigureSurface(width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	capabilities := b.surface.GetCapabilities(b.adapter)
	b.surfaceFormat = &capabilities.Formats[0]

	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      *b.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: b.presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})

	if b.depthTextureView != nil {
		b.depthTextureView.Release()
		b.depthTexture.Release()
	}
	depthTexture, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "Depth Texture",
		Size: wgpu.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatDepth24Plus,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		panic(err)
	}
	b.depthTexture = depthTexture
	b.depthTextureView, err = depthTexture.CreateView(nil)
	if err != nil {
		panic(err)
	}

	// View is set per-frame to the swapchain view.
	b.renderPassDescriptor = &wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				LoadOp:  wgpu.LoadOpClear,
				StoreOp: wgpu.StoreOpStore,
			},
		},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            b.depthTextureView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpDiscard,
			DepthClearValue: 1.0,
		},
	}
}

func (b *wgpuRendererBackendImpl) SetPresentMode(mode PresentMode) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch mode {
	case PresentModeVSync:
		b.presentMode = wgpu.PresentModeFifo
	case PresentModeUncapped:
		fallthrough
	default:
		b.presentMode = wgpu.PresentModeImmediate
	}
}

func (b *wgpuRendererBackendImpl) InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(vertexData) > 0 {
		buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label:            provider.Label() + " Vertex Buffer",
			Size:             uint64(len(vertexData)),
			Usage:            wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
			MappedAtCreation: false,
		})
		if err != nil {
			return err
		}
		b.queue.WriteBuffer(buf, 0, vertexData)
		provider.SetVertexBuffer(buf)
	}

	if len(indexData) > 0 {
		buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label:            provider.Label() + " Index Buffer",
			Size:             uint64(len(indexData)),
			Usage:            wgpu.BufferUsageIndex | wgpu.BufferUsageCopyDst,
			MappedAtCreation: false,
		})
		if err != nil {
			return err
		}
		b.queue.WriteBuffer(buf, 0, indexData)
		provider.SetIndexBuffer(buf)
	}

	provider.SetIndexCount(indexCount)

	return nil
}

func (b *wgpuRendererBackendImpl) InitUniformBuffer(provider bind_group_provider.BindGroupProvider, binding int, size uint64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	// Uniform buffer sizes must be a multiple of 16 bytes.
	size = (size + 15) &^ 15
	buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: fmt.Sprintf("%s Uniform %d", provider.Label(), binding),
		Size:  size,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return err
	}
	provider.SetBuffer(binding, buf)
	return nil
}

func (b *wgpuRendererBackendImpl) InitTextureView(provider bind_group_provider.BindGroupProvider, binding int, stagingData common.TextureStagingData) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if stagingData.Width == 0 || stagingData.Height == 0 {
		return fmt.Errorf("texture %s has no pixels", provider.Label())
	}
	levels := uint32(1 + len(stagingData.Mips))

	shape := textureShape{stagingData.Width, stagingData.Height, 1, levels, stagingData.Format()}
	tex := provider.Texture(binding)
	if tex == nil || b.shapes[tex] != shape {
		delete(b.shapes, tex)
		var err error
		tex, err = b.device.CreateTexture(&wgpu.TextureDescriptor{
			Label:     provider.Label() + " Texture",
			Usage:     wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
			Dimension: wgpu.TextureDimension2D,
			Size: wgpu.Extent3D{
				Width:              stagingData.Width,
				Height:             stagingData.Height,
				DepthOrArrayLayers: 1,
			},
			Format:        stagingData.Format(),
			MipLevelCount: levels,
			SampleCount:   1,
		})
		if err != nil {
			return err
		}
		view, err := tex.CreateView(nil)
		if err != nil {
			tex.Release()
			return err
		}
		provider.SetTexture(binding, tex, view)
		b.shapes[tex] = shape
	}

	b.writeLevel(tex, 0, 0, stagingData)
	for i, mip := range stagingData.Mips {
		b.writeLevel(tex, uint32(i+1), 0, mip)
	}
	return nil
}

func (b *wgpuRendererBackendImpl) InitCubeTextureView(provider bind_group_provider.BindGroupProvider, binding int, faces [6]common.TextureStagingData) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	size := faces[0].Width
	if size == 0 {
		return fmt.Errorf("cube %s has no pixels", provider.Label())
	}

	shape := textureShape{size, size, 6, 1, faces[0].Format()}
	tex := provider.Texture(binding)
	if tex == nil || b.shapes[tex] != shape {
		delete(b.shapes, tex)
		var err error
		tex, err = b.device.CreateTexture(&wgpu.TextureDescriptor{
			Label:     provider.Label() + " Cube Texture",
			Usage:     wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
			Dimension: wgpu.TextureDimension2D,
			Size: wgpu.Extent3D{
				Width:              size,
				Height:             size,
				DepthOrArrayLayers: 6,
			},
			Format:        faces[0].Format(),
			MipLevelCount: 1,
			SampleCount:   1,
		})
		if err != nil {
			return err
		}
		view, err := tex.CreateView(&wgpu.TextureViewDescriptor{
			Label:           provider.Label() + " Cube View",
			Format:          faces[0].Format(),
			Dimension:       wgpu.TextureViewDimensionCube,
			BaseMipLevel:    0,
			MipLevelCount:   1,
			BaseArrayLayer:  0,
			ArrayLayerCount: 6,
			Aspect:          wgpu.TextureAspectAll,
		})
		if err != nil {
			tex.Release()
			return err
		}
		provider.SetTexture(binding, tex, view)
		b.shapes[tex] = shape
	}

	for i, face := range faces {
		b.writeLevel(tex, 0, uint32(i), face)
	}
	return nil
}

// writeLevel uploads one mip level of one array layer. Caller must hold the mutex.
func (b *wgpuRendererBackendImpl) writeLevel(tex *wgpu.Texture, mip, layer uint32, data common.TextureStagingData) {
	b.queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  tex,
			MipLevel: mip,
			Origin:   wgpu.Origin3D{Z: layer},
			Aspect:   wgpu.TextureAspectAll,
		},
		data.Pixels,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  data.Width * 4,
			RowsPerImage: data.Height,
		},
		&wgpu.Extent3D{
			Width:              data.Width,
			Height:             data.Height,
			DepthOrArrayLayers: 1,
		},
	)
}

func (b *wgpuRendererBackendImpl) InitSampler(provider bind_group_provider.BindGroupProvider, binding int, samplerStagingData common.SamplerStagingData) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	samp, err := b.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         provider.Label() + " Sampler",
		AddressModeU:  samplerStagingData.AddressModeU,
		AddressModeV:  samplerStagingData.AddressModeV,
		AddressModeW:  samplerStagingData.AddressModeW,
		MagFilter:     samplerStagingData.MagFilter,
		MinFilter:     samplerStagingData.MinFilter,
		MipmapFilter:  samplerStagingData.MipmapFilter,
		LodMinClamp:   samplerStagingData.LodMinClamp,
		LodMaxClamp:   orDefault(samplerStagingData.LodMaxClamp, 32),
		MaxAnisotropy: orDefault(samplerStagingData.MaxAnisotropy, 1),
	})
	if err != nil {
		return err
	}
	provider.SetSampler(binding, samp)

	return nil
}

func (b *wgpuRendererBackendImpl) RegisterRenderPipeline(p pipeline.Pipeline) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	lowered := p.Lowered()
	if lowered == nil {
		return errors.New("pipeline has no lowered program to register")
	}

	vs, err := b.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: p.PipelineKey() + " Vertex",
		GLSLDescriptor: &wgpu.ShaderModuleGLSLDescriptor{
			Code:        lowered.Vertex,
			ShaderStage: wgpu.ShaderStageVertex,
		},
	})
	if err != nil {
		return err
	}
	fs, err := b.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: p.PipelineKey() + " Fragment",
		GLSLDescriptor: &wgpu.ShaderModuleGLSLDescriptor{
			Code:        lowered.Fragment,
			ShaderStage: wgpu.ShaderStageFragment,
		},
	})
	if err != nil {
		return err
	}

	if err := b.ensureSharedLayouts(); err != nil {
		return err
	}
	materialLayout, err := b.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   p.PipelineKey() + " Material Layout",
		Entries: materialLayoutEntries(lowered.Samplers),
	})
	if err != nil {
		return fmt.Errorf("failed to create bind group layout for group %d: %w", shader.GroupMaterial, err)
	}
	bindGroupLayouts := []*wgpu.BindGroupLayout{b.frameLayout, b.objectLayout, materialLayout}

	pipelineLayout, err := b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            p.PipelineKey(),
		BindGroupLayouts: bindGroupLayouts,
	})
	if err != nil {
		return err
	}

	var vertexLayouts []wgpu.VertexBufferLayout
	if p.VertexInput() {
		vertexLayouts = []wgpu.VertexBufferLayout{meshVertexLayout}
	}

	created, err := b.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  p.PipelineKey() + " Render Pipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     vs,
			EntryPoint: "main",
			Buffers:    vertexLayouts,
		},
		Fragment: &wgpu.FragmentState{
			Module:     fs,
			EntryPoint: "main",
			Targets: []wgpu.ColorTargetState{
				func() wgpu.ColorTargetState {
					state := wgpu.ColorTargetState{
						Format:    *b.surfaceFormat,
						WriteMask: wgpu.ColorWriteMaskAll,
					}
					if p.BlendEnabled() {
						state.Blend = p.BlendState()
					}
					return state
				}(),
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  p.CullMode(),
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
		DepthStencil: func() *wgpu.DepthStencilState {
			depthCompare := wgpu.CompareFunctionLess
			if !p.DepthTestEnabled() {
				depthCompare = wgpu.CompareFunctionAlways
			}
			return &wgpu.DepthStencilState{
				Format:            wgpu.TextureFormatDepth24Plus,
				DepthWriteEnabled: p.DepthWriteEnabled(),
				DepthCompare:      depthCompare,
				StencilFront: wgpu.StencilFaceState{
					Compare: wgpu.CompareFunctionAlways,
				},
				StencilBack: wgpu.StencilFaceState{
					Compare: wgpu.CompareFunctionAlways,
				},
			}
		}(),
	})
	if err != nil {
		return err
	}

	p.SetRenderPipeline(created, bindGroupLayouts)

	return nil
}

// ensureSharedLayouts creates the frame and object layouts on first use. Caller must hold the mutex.
func (b *wgpuRendererBackendImpl) ensureSharedLayouts() error {
	if b.frameLayout == nil {
		layout, err := b.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
			Label: "Frame Layout",
			Entries: []wgpu.BindGroupLayoutEntry{
				uniformLayoutEntry(shader.BindingCamera),
				uniformLayoutEntry(shader.BindingLights),
			},
		})
		if err != nil {
			return fmt.Errorf("failed to create bind group layout for group %d: %w", shader.GroupFrame, err)
		}
		b.frameLayout = layout
	}
	if b.objectLayout == nil {
		layout, err := b.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
			Label:   "Object Layout",
			Entries: []wgpu.BindGroupLayoutEntry{uniformLayoutEntry(shader.BindingObject)},
		})
		if err != nil {
			return fmt.Errorf("failed to create bind group layout for group %d: %w", shader.GroupObject, err)
		}
		b.objectLayout = layout
	}
	return nil
}

func uniformLayoutEntry(binding uint32) wgpu.BindGroupLayoutEntry {
	return wgpu.BindGroupLayoutEntry{
		Binding:    binding,
		Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
		Buffer: wgpu.BufferBindingLayout{
			Type: wgpu.BufferBindingTypeUniform,
		},
	}
}

// materialLayoutEntries lays out the material block followed by one texture and sampler pair per slot.
func materialLayoutEntries(slots []shader.SamplerSlot) []wgpu.BindGroupLayoutEntry {
	entries := []wgpu.BindGroupLayoutEntry{uniformLayoutEntry(shader.BindingMaterial)}
	for _, slot := range slots {
		dimension := wgpu.TextureViewDimension2D
		if slot.Kind == shader.SamplerCube {
			dimension = wgpu.TextureViewDimensionCube
		}
		entries = append(entries,
			wgpu.BindGroupLayoutEntry{
				Binding:    slot.TextureBinding,
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeFloat,
					ViewDimension: dimension,
				},
			},
			wgpu.BindGroupLayoutEntry{
				Binding:    slot.SamplerBinding,
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
				Sampler: wgpu.SamplerBindingLayout{
					Type: wgpu.SamplerBindingTypeFiltering,
				},
			},
		)
	}
	return entries
}

func (b *wgpuRendererBackendImpl) InitBindGroup(p pipeline.Pipeline, group int, provider bind_group_provider.BindGroupProvider, textures []bind_group_provider.BindGroupProvider) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	layout := p.BindGroupLayout(group)
	if layout == nil {
		return fmt.Errorf("pipeline %s has no layout for group %d; call RegisterRenderPipeline first", p.PipelineKey(), group)
	}

	key := []any{layout}
	var entries []wgpu.BindGroupEntry
	addBuffer := func(binding int) error {
		buf := provider.Buffer(binding)
		if buf == nil {
			return fmt.Errorf("%s: uniform binding %d has no buffer; call InitUniformBuffer first", provider.Label(), binding)
		}
		entries = append(entries, wgpu.BindGroupEntry{
			Binding: uint32(binding),
			Buffer:  buf,
			Size:    buf.GetSize(),
		})
		key = append(key, buf)
		return nil
	}

	switch group {
	case shader.GroupFrame:
		if err := addBuffer(BindingCamera); err != nil {
			return err
		}
		if err := addBuffer(BindingLights); err != nil {
			return err
		}
	case shader.GroupObject:
		if err := addBuffer(BindingModel); err != nil {
			return err
		}
	case shader.GroupMaterial:
		if err := addBuffer(BindingMaterialParams); err != nil {
			return err
		}
		bound := p.Textures()
		if len(bound) != len(textures) {
			return fmt.Errorf("%s: %d textures supplied for %d slots", provider.Label(), len(textures), len(bound))
		}
		for i, tb := range bound {
			view := textures[i].TextureView(BindingTexture)
			if view == nil {
				return fmt.Errorf("texture binding %d has no texture view; call InitTextureView first", tb.Slot.TextureBinding)
			}
			samp := textures[i].Sampler(BindingTexture)
			if samp == nil {
				return fmt.Errorf("sampler binding %d has no sampler; call InitSampler first", tb.Slot.SamplerBinding)
			}
			entries = append(entries,
				wgpu.BindGroupEntry{Binding: tb.Slot.TextureBinding, TextureView: view},
				wgpu.BindGroupEntry{Binding: tb.Slot.SamplerBinding, Sampler: samp},
			)
			key = append(key, view, samp)
		}
	default:
		return fmt.Errorf("unknown bind group %d", group)
	}

	if provider.BindGroupCurrent(key) {
		return nil
	}
	bg, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   provider.Label() + " Bind Group",
		Layout:  layout,
		Entries: entries,
	})
	if err != nil {
		return err
	}
	provider.SetBindGroup(bg, key)
	return nil
}

func (b *wgpuRendererBackendImpl) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, w := range writes {
		buf := w.Provider.Buffer(w.Binding)
		if buf == nil {
			continue
		}
		b.queue.WriteBuffer(buf, w.Offset, w.Data)
	}
}

func (b *wgpuRendererBackendImpl) BeginFrame(clear wgpu.Color) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	// A surface image still held from an unpresented frame cannot be acquired again.
	if b.frameSurface != nil {
		return fmt.Errorf("previous frame surface not yet presented")
	}

	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		return err
	}

	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		surfaceTexture.Release()
		return err
	}

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		view.Release()
		surfaceTexture.Release()
		return err
	}

	b.renderPassDescriptor.ColorAttachments[0].View = view
	b.renderPassDescriptor.ColorAttachments[0].ClearValue = clear
	pass := encoder.BeginRenderPass(b.renderPassDescriptor)

	b.frameEncoder = encoder
	b.framePass = pass
	b.frameSurface = surfaceTexture
	b.frameView = view

	return nil
}

func (b *wgpuRendererBackendImpl) DrawCall(
	p pipeline.Pipeline,
	meshProvider bind_group_provider.BindGroupProvider,
	firstIndex, indexCount uint32,
	bindGroups []bind_group_provider.BindGroupProvider,
) {
	b.mu.Lock()
	defer b.mu.Unlock()

	renderPipeline, ok := p.Pipeline().(*wgpu.RenderPipeline)
	if !ok || renderPipeline == nil || b.framePass == nil {
		return
	}
	b.framePass.SetPipeline(renderPipeline)

	for i, bg := range bindGroups {
		b.framePass.SetBindGroup(uint32(i), bg.BindGroup(), nil)
	}

	b.framePass.SetVertexBuffer(0, meshProvider.VertexBuffer(), 0, wgpu.WholeSize)
	b.framePass.SetIndexBuffer(meshProvider.IndexBuffer(), wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
	b.framePass.DrawIndexed(indexCount, 1, firstIndex, 0, 0)
}

func (b *wgpuRendererBackendImpl) DrawFullscreen(p pipeline.Pipeline, bindGroups []bind_group_provider.BindGroupProvider) {
	b.mu.Lock()
	defer b.mu.Unlock()

	renderPipeline, ok := p.Pipeline().(*wgpu.RenderPipeline)
	if !ok || renderPipeline == nil || b.framePass == nil {
		return
	}
	b.framePass.SetPipeline(renderPipeline)

	for i, bg := range bindGroups {
		b.framePass.SetBindGroup(uint32(i), bg.BindGroup(), nil)
	}
	b.framePass.Draw(3, 1, 0, 0)
}

func (b *wgpuRendererBackendImpl) EndFrame() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.framePass == nil {
		return
	}
	b.framePass.End()

	commandBuffer, err := b.frameEncoder.Finish(nil)
	if err != nil {
		b.frameEncoder.Release()
		b.frameView.Release()
		b.frameSurface.Release()
		b.frameEncoder = nil
		b.framePass = nil
		b.frameSurface = nil
		b.frameView = nil
		return
	}

	b.queue.Submit(commandBuffer)

	commandBuffer.Release()
	b.frameEncoder.Release()
	b.frameEncoder = nil
	b.framePass = nil
}

func (b *wgpuRendererBackendImpl) Present() {
	b.mu.Lock()
	defer b.mu.Unlock()

	// If no frame surface is held, nothing to present.
	if b.frameSurface == nil {
		return
	}

	b.surface.Present()

	if b.frameView != nil {
		b.frameView.Release()
		b.frameView = nil
	}
	if b.frameSurface != nil {
		b.frameSurface.Release()
		b.frameSurface = nil
	}
}

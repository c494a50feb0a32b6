package webgpu

import (
	"fmt"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/jbryan2ufl/go-graphics-sandbox/engine/core"
	"github.com/jbryan2ufl/go-graphics-sandbox/engine/math"
	"github.com/jbryan2ufl/go-graphics-sandbox/engine/renderer/metadata"
)

// Realized device objects, stored in the metadata InternalData slots.
type deviceBuffer struct {
	handle *wgpu.Buffer
}

type devicePipeline struct {
	handle *wgpu.RenderPipeline
}

type deviceBindGroup struct {
	handle *wgpu.BindGroup
}

/**
 * @brief WebGPU implementation of the renderer backend. All methods must
 * run on the thread that owns the frame loop; resource creation happens
 * either before the loop starts or while executing drained deferred
 * commands on that same thread.
 */
type Backend struct {
	surfaceDescriptor *wgpu.SurfaceDescriptor

	instance *wgpu.Instance
	surface  *wgpu.Surface
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue

	surfaceFormat wgpu.TextureFormat
	width         uint32
	height        uint32

	depthView *wgpu.TextureView

	// Per-frame state, valid between BeginFrame and EndFrame.
	frameSurface *wgpu.Texture
	frameView    *wgpu.TextureView
	frameEncoder *wgpu.CommandEncoder
	framePass    *wgpu.RenderPassEncoder
}

func New(surfaceDescriptor *wgpu.SurfaceDescriptor) *Backend {
	return &Backend{
		surfaceDescriptor: surfaceDescriptor,
	}
}

func (b *Backend) Initialize(appName string, appWidth, appHeight uint32) error {
	b.instance = wgpu.CreateInstance(nil)
	b.surface = b.instance.CreateSurface(b.surfaceDescriptor)

	adapter, err := b.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: b.surface,
	})
	if err != nil {
		return fmt.Errorf("failed to acquire graphics adapter: %w", err)
	}
	b.adapter = adapter

	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: appName,
	})
	if err != nil {
		return fmt.Errorf("failed to acquire graphics device: %w", err)
	}
	b.device = device
	b.queue = device.GetQueue()

	if err := b.configureSurface(appWidth, appHeight); err != nil {
		return err
	}

	core.LogInfo("webgpu backend initialized (%dx%d, format %v)", appWidth, appHeight, b.surfaceFormat)
	return nil
}

func (b *Backend) Shutdown() error {
	if b.depthView != nil {
		b.depthView.Release()
		b.depthView = nil
	}
	if b.device != nil {
		b.device.Release()
		b.device = nil
	}
	if b.adapter != nil {
		b.adapter.Release()
		b.adapter = nil
	}
	if b.surface != nil {
		b.surface.Release()
		b.surface = nil
	}
	if b.instance != nil {
		b.instance.Release()
		b.instance = nil
	}
	return nil
}

// Resized reconfigures the surface and depth target. A zero-sized
// framebuffer (minimized window) leaves the old configuration in place;
// the next frame's acquire reports outdated and is skipped.
func (b *Backend) Resized(width, height uint32) error {
	if width == 0 || height == 0 {
		core.LogDebug("resize to %dx%d ignored", width, height)
		return nil
	}
	return b.configureSurface(width, height)
}

func (b *Backend) configureSurface(width, height uint32) error {
	capabilities := b.surface.GetCapabilities(b.adapter)
	b.surfaceFormat = capabilities.Formats[0]

	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      b.surfaceFormat,
		Width:       width,
		Height:      height,
		PresentMode: wgpu.PresentModeFifo,
		AlphaMode:   capabilities.AlphaModes[0],
	})
	b.width = width
	b.height = height

	if b.depthView != nil {
		b.depthView.Release()
		b.depthView = nil
	}
	depthTexture, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "Depth Texture",
		Size: wgpu.Extent3D{
			Width:              width,
			Height:             height,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatDepth24Plus,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		return fmt.Errorf("failed to create depth texture: %w", err)
	}
	defer depthTexture.Release()

	b.depthView, err = depthTexture.CreateView(nil)
	if err != nil {
		return fmt.Errorf("failed to create depth view: %w", err)
	}
	return nil
}

func (b *Backend) BufferCreate(buffer *metadata.Buffer, data []byte) error {
	handle, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: fmt.Sprintf("Buffer %d", buffer.ID()),
		Size:  uint64(len(data)),
		Usage: translateBufferUsage(buffer.Usage),
	})
	if err != nil {
		return fmt.Errorf("failed to create buffer %d: %w", buffer.ID(), err)
	}
	if len(data) > 0 {
		b.queue.WriteBuffer(handle, 0, data)
	}
	buffer.Size = uint64(len(data))
	buffer.InternalData = &deviceBuffer{handle: handle}
	return nil
}

func (b *Backend) BufferWrite(buffer *metadata.Buffer, offset uint64, data []byte) error {
	db, ok := buffer.InternalData.(*deviceBuffer)
	if !ok {
		return fmt.Errorf("write to unrealized buffer %d", buffer.ID())
	}
	b.queue.WriteBuffer(db.handle, offset, data)
	return nil
}

func (b *Backend) PipelineCreate(pipeline *metadata.Pipeline, config *metadata.PipelineConfig) error {
	vs, err := b.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: config.Name + " VS",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: string(config.VertexShader),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create vertex shader module for %q: %w", config.Name, err)
	}
	defer vs.Release()

	fs, err := b.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: config.Name + " FS",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: string(config.FragmentShader),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create fragment shader module for %q: %w", config.Name, err)
	}
	defer fs.Release()

	// Interleaved position, normal, uv at the engine's fixed stride.
	vertexLayout := wgpu.VertexBufferLayout{
		ArrayStride: uint64(math.Vertex3DStride),
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
			{Format: wgpu.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1},
			{Format: wgpu.VertexFormatFloat32x2, Offset: 24, ShaderLocation: 2},
		},
	}

	// Layout is left nil so bind group layouts are derived from the
	// shader and fetched with GetBindGroupLayout.
	created, err := b.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label: config.Name,
		Vertex: wgpu.VertexState{
			Module:     vs,
			EntryPoint: config.VertexEntry,
			Buffers:    []wgpu.VertexBufferLayout{vertexLayout},
		},
		Fragment: &wgpu.FragmentState{
			Module:     fs,
			EntryPoint: config.FragmentEntry,
			Targets: []wgpu.ColorTargetState{
				{
					Format:    b.surfaceFormat,
					WriteMask: wgpu.ColorWriteMaskAll,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            wgpu.TextureFormatDepth24Plus,
			DepthWriteEnabled: true,
			DepthCompare:      wgpu.CompareFunctionLess,
			StencilFront: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
			StencilBack: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create pipeline %q: %w", config.Name, err)
	}

	pipeline.InternalData = &devicePipeline{handle: created}
	return nil
}

func (b *Backend) BindGroupCreate(group *metadata.BindGroup, pipeline *metadata.Pipeline, slot uint32) error {
	dp, ok := pipeline.InternalData.(*devicePipeline)
	if !ok {
		return fmt.Errorf("bind group %d references unrealized pipeline %q", group.ID(), pipeline.Name)
	}

	layout := dp.handle.GetBindGroupLayout(slot)
	defer layout.Release()

	entries := make([]wgpu.BindGroupEntry, len(group.Buffers))
	for i, buffer := range group.Buffers {
		db, ok := buffer.InternalData.(*deviceBuffer)
		if !ok {
			return fmt.Errorf("bind group %d references unrealized buffer %d", group.ID(), buffer.ID())
		}
		entries[i] = wgpu.BindGroupEntry{
			Binding: uint32(i),
			Buffer:  db.handle,
			Offset:  0,
			Size:    wgpu.WholeSize,
		}
	}

	handle, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   fmt.Sprintf("Bind Group %d", group.ID()),
		Layout:  layout,
		Entries: entries,
	})
	if err != nil {
		return fmt.Errorf("failed to create bind group %d: %w", group.ID(), err)
	}

	group.InternalData = &deviceBindGroup{handle: handle}
	return nil
}

func (b *Backend) BeginFrame() error {
	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		if isSurfaceOutdated(err) {
			return fmt.Errorf("%w: %v", core.ErrSurfaceOutdated, err)
		}
		return fmt.Errorf("failed to acquire surface texture: %w", err)
	}

	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		surfaceTexture.Release()
		return fmt.Errorf("failed to create surface view: %w", err)
	}

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		view.Release()
		surfaceTexture.Release()
		return fmt.Errorf("failed to create command encoder: %w", err)
	}

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       view,
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: wgpu.Color{R: 0, G: 0, B: 0, A: 1},
			},
		},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            b.depthView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpDiscard,
			DepthClearValue: 1.0,
		},
	})

	b.frameSurface = surfaceTexture
	b.frameView = view
	b.frameEncoder = encoder
	b.framePass = pass
	return nil
}

func (b *Backend) PipelineBind(pipeline *metadata.Pipeline) {
	b.framePass.SetPipeline(pipeline.InternalData.(*devicePipeline).handle)
}

func (b *Backend) BindGroupBind(slot uint32, group *metadata.BindGroup) {
	b.framePass.SetBindGroup(slot, group.InternalData.(*deviceBindGroup).handle, nil)
}

func (b *Backend) VertexBufferBind(buffer *metadata.Buffer) {
	b.framePass.SetVertexBuffer(0, buffer.InternalData.(*deviceBuffer).handle, 0, wgpu.WholeSize)
}

func (b *Backend) IndexBufferBind(buffer *metadata.Buffer) {
	b.framePass.SetIndexBuffer(buffer.InternalData.(*deviceBuffer).handle, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
}

func (b *Backend) DrawIndexed(indexCount uint32) {
	b.framePass.DrawIndexed(indexCount, 1, 0, 0, 0)
}

func (b *Backend) EndFrame() error {
	defer func() {
		b.frameSurface = nil
		b.frameView = nil
		b.frameEncoder = nil
		b.framePass = nil
	}()

	b.framePass.End()
	b.framePass.Release()

	commandBuffer, err := b.frameEncoder.Finish(nil)
	b.frameEncoder.Release()
	if err != nil {
		b.frameView.Release()
		b.frameSurface.Release()
		return fmt.Errorf("failed to finish frame encoder: %w", err)
	}

	b.queue.Submit(commandBuffer)
	commandBuffer.Release()

	b.surface.Present()
	b.frameView.Release()
	b.frameSurface.Release()
	return nil
}

func translateBufferUsage(usage metadata.BufferUsage) wgpu.BufferUsage {
	var out wgpu.BufferUsage
	if usage&metadata.BufferUsageVertex != 0 {
		out |= wgpu.BufferUsageVertex
	}
	if usage&metadata.BufferUsageIndex != 0 {
		out |= wgpu.BufferUsageIndex
	}
	if usage&metadata.BufferUsageUniform != 0 {
		out |= wgpu.BufferUsageUniform
	}
	if usage&metadata.BufferUsageCopyDst != 0 {
		out |= wgpu.BufferUsageCopyDst
	}
	return out
}

// isSurfaceOutdated classifies acquire failures that mean the swapchain
// no longer matches the window; those frames are skippable, everything
// else is fatal.
func isSurfaceOutdated(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "outdated") ||
		strings.Contains(msg, "lost") ||
		strings.Contains(msg, "timeout")
}

package metadata

import "sync/atomic"

// Identity counter shared by every GPU object reference. IDs give the
// submitter a total order for grouping draws without comparing backend
// pointers.
var nextObjectID atomic.Uint64

func acquireObjectID() uint64 {
	return nextObjectID.Add(1)
}

type BufferUsage uint32

const (
	BufferUsageVertex BufferUsage = 1 << iota
	BufferUsageIndex
	BufferUsageUniform
	BufferUsageCopyDst
)

// Buffer is a reference to a GPU buffer. It is created unrealized by
// whoever enqueues the create command; the frame submitter fills in
// InternalData with the backend object. Buffers are never resized: the
// size fixed at realization is final.
type Buffer struct {
	id    uint64
	Usage BufferUsage
	Size  uint64
	// Backend-specific object. nil until the create command executes.
	InternalData interface{}
}

func NewBuffer(usage BufferUsage) *Buffer {
	return &Buffer{
		id:    acquireObjectID(),
		Usage: usage,
	}
}

func (b *Buffer) ID() uint64 {
	return b.id
}

func (b *Buffer) Realized() bool {
	return b.InternalData != nil
}

// Pipeline is a reference to a bound shader/vertex-layout configuration.
// Two materials may share one Pipeline; draw grouping compares identity,
// never contents.
type Pipeline struct {
	id           uint64
	Name         string
	InternalData interface{}
}

func NewPipeline(name string) *Pipeline {
	return &Pipeline{
		id:   acquireObjectID(),
		Name: name,
	}
}

func (p *Pipeline) ID() uint64 {
	return p.id
}

// BindGroup is a reference to a bound set of GPU-visible uniform buffers
// consumed by a pipeline at draw time.
type BindGroup struct {
	id           uint64
	Buffers      []*Buffer
	InternalData interface{}
}

func NewBindGroup(buffers ...*Buffer) *BindGroup {
	return &BindGroup{
		id:      acquireObjectID(),
		Buffers: buffers,
	}
}

func (bg *BindGroup) ID() uint64 {
	return bg.id
}

// PipelineConfig describes what a backend needs to realize a Pipeline:
// a compiled shader pair and the number of uniform bind groups. The
// vertex layout is fixed (position/normal/uv, 32-byte stride) and is
// owned by the backend.
type PipelineConfig struct {
	Name           string
	VertexShader   []byte
	FragmentShader []byte
	VertexEntry    string
	FragmentEntry  string
	// One single-uniform-buffer bind group layout per entry.
	UniformGroupCount int
}

// Mesh is an immutable pair of realized-or-pending GPU buffers plus the
// index count to draw.
type Mesh struct {
	Name         string
	VertexBuffer *Buffer
	IndexBuffer  *Buffer
	IndexCount   uint32
}

// Material binds a pipeline to the bind groups its shaders consume.
// Immutable after creation.
type Material struct {
	Name       string
	Pipeline   *Pipeline
	BindGroups []*BindGroup
}

// RenderPacket carries the per-frame values the submitter and overlay need.
type RenderPacket struct {
	DeltaTime   float64
	FrameNumber uint64
}

package metadata

// Deferred commands are the only way scene-side routines reach the GPU.
// They are produced during the scheduler's render phase, consumed exactly
// once by the frame submitter of the same frame, and never persist across
// frames. Each carries references to GPU object handles, never backend
// pointers.

// BufferCreateCommand realizes Target as a GPU buffer holding Data.
// Target's usage flags were fixed when the reference was created.
type BufferCreateCommand struct {
	Target *Buffer
	Data   []byte
}

// BufferWriteCommand is a deferred partial update of an already-realized
// buffer at a byte offset. Writes never grow the buffer.
type BufferWriteCommand struct {
	Buffer *Buffer
	Offset uint64
	Data   []byte
}

// DrawCommand is one indexed draw: pipeline, its bind groups in slot
// order, the mesh buffers, and how many indices to draw.
type DrawCommand struct {
	Pipeline     *Pipeline
	BindGroups   []*BindGroup
	VertexBuffer *Buffer
	IndexBuffer  *Buffer
	IndexCount   uint32
}

package renderer

import "github.com/jbryan2ufl/go-graphics-sandbox/engine/renderer/metadata"

// Backend is the graphics-device collaborator. A single consumer owns all
// calls between BeginFrame and EndFrame; resource creation happens on the
// same thread before the frame loop or while executing drained create
// commands. BeginFrame returns core.ErrSurfaceOutdated (possibly wrapped)
// when the surface no longer matches the window; callers skip the frame.
// Any other BeginFrame or EndFrame failure is fatal to the process.
type Backend interface {
	Initialize(appName string, appWidth, appHeight uint32) error
	Shutdown() error
	Resized(width, height uint32) error

	BufferCreate(buffer *metadata.Buffer, data []byte) error
	BufferWrite(buffer *metadata.Buffer, offset uint64, data []byte) error
	PipelineCreate(pipeline *metadata.Pipeline, config *metadata.PipelineConfig) error
	BindGroupCreate(group *metadata.BindGroup, pipeline *metadata.Pipeline, slot uint32) error

	BeginFrame() error
	PipelineBind(pipeline *metadata.Pipeline)
	BindGroupBind(slot uint32, group *metadata.BindGroup)
	VertexBufferBind(buffer *metadata.Buffer)
	IndexBufferBind(buffer *metadata.Buffer)
	DrawIndexed(indexCount uint32)
	EndFrame() error
}

package renderer

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jbryan2ufl/go-graphics-sandbox/engine/core"
	"github.com/jbryan2ufl/go-graphics-sandbox/engine/renderer/metadata"
)

// recordingBackend is a device stand-in that records every call the
// submitter makes, in order.
type recordingBackend struct {
	beginErr error

	calls  []string
	writes map[uint64][]byte
}

func newRecordingBackend() *recordingBackend {
	return &recordingBackend{writes: map[uint64][]byte{}}
}

func (rb *recordingBackend) Initialize(string, uint32, uint32) error { return nil }
func (rb *recordingBackend) Shutdown() error                         { return nil }
func (rb *recordingBackend) Resized(uint32, uint32) error            { return nil }

func (rb *recordingBackend) BufferCreate(buffer *metadata.Buffer, data []byte) error {
	buffer.InternalData = append([]byte(nil), data...)
	buffer.Size = uint64(len(data))
	rb.calls = append(rb.calls, fmt.Sprintf("create:%d", buffer.ID()))
	return nil
}

func (rb *recordingBackend) BufferWrite(buffer *metadata.Buffer, offset uint64, data []byte) error {
	rb.writes[buffer.ID()] = append([]byte(nil), data...)
	rb.calls = append(rb.calls, fmt.Sprintf("write:%d@%d", buffer.ID(), offset))
	return nil
}

func (rb *recordingBackend) PipelineCreate(pipeline *metadata.Pipeline, _ *metadata.PipelineConfig) error {
	pipeline.InternalData = pipeline.Name
	return nil
}

func (rb *recordingBackend) BindGroupCreate(group *metadata.BindGroup, _ *metadata.Pipeline, _ uint32) error {
	group.InternalData = group.ID()
	return nil
}

func (rb *recordingBackend) BeginFrame() error { return rb.beginErr }

func (rb *recordingBackend) PipelineBind(pipeline *metadata.Pipeline) {
	rb.calls = append(rb.calls, fmt.Sprintf("pipeline:%d", pipeline.ID()))
}

func (rb *recordingBackend) BindGroupBind(slot uint32, group *metadata.BindGroup) {
	rb.calls = append(rb.calls, fmt.Sprintf("bindgroup:%d@%d", group.ID(), slot))
}

func (rb *recordingBackend) VertexBufferBind(buffer *metadata.Buffer) {
	rb.calls = append(rb.calls, fmt.Sprintf("vertex:%d", buffer.ID()))
}

func (rb *recordingBackend) IndexBufferBind(buffer *metadata.Buffer) {
	rb.calls = append(rb.calls, fmt.Sprintf("index:%d", buffer.ID()))
}

func (rb *recordingBackend) DrawIndexed(indexCount uint32) {
	rb.calls = append(rb.calls, fmt.Sprintf("draw:%d", indexCount))
}

func (rb *recordingBackend) EndFrame() error { return nil }

func (rb *recordingBackend) countPrefix(prefix string) int {
	n := 0
	for _, c := range rb.calls {
		if len(c) >= len(prefix) && c[:len(prefix)] == prefix {
			n++
		}
	}
	return n
}

func realizedBuffer(usage metadata.BufferUsage) *metadata.Buffer {
	b := metadata.NewBuffer(usage)
	b.InternalData = struct{}{}
	return b
}

func drawFor(p *metadata.Pipeline, indexCount uint32) metadata.DrawCommand {
	return metadata.DrawCommand{
		Pipeline:     p,
		BindGroups:   []*metadata.BindGroup{metadata.NewBindGroup()},
		VertexBuffer: realizedBuffer(metadata.BufferUsageVertex),
		IndexBuffer:  realizedBuffer(metadata.BufferUsageIndex),
		IndexCount:   indexCount,
	}
}

func TestSubmitRealizesQueuedCreates(t *testing.T) {
	rb := newRecordingBackend()
	fs := NewFrameSubmitter(rb)

	buf := metadata.NewBuffer(metadata.BufferUsageVertex)
	fs.CreateQueue().Push(metadata.BufferCreateCommand{Target: buf, Data: []byte{1, 2, 3, 4}})

	require.NoError(t, fs.Submit(&metadata.RenderPacket{}))
	assert.True(t, buf.Realized())
	assert.Equal(t, uint64(4), buf.Size)
}

func TestSubmitAppliesWritesAfterCreates(t *testing.T) {
	rb := newRecordingBackend()
	fs := NewFrameSubmitter(rb)

	// The buffer is created and written in the same frame; the create
	// must land first.
	buf := metadata.NewBuffer(metadata.BufferUsageUniform | metadata.BufferUsageCopyDst)
	fs.CreateQueue().Push(metadata.BufferCreateCommand{Target: buf, Data: make([]byte, 64)})
	fs.WriteQueue().Push(metadata.BufferWriteCommand{Buffer: buf, Offset: 0, Data: []byte{9, 9}})

	require.NoError(t, fs.Submit(&metadata.RenderPacket{}))
	require.Len(t, rb.calls, 2)
	assert.Equal(t, fmt.Sprintf("create:%d", buf.ID()), rb.calls[0])
	assert.Equal(t, fmt.Sprintf("write:%d@0", buf.ID()), rb.calls[1])
	assert.Equal(t, []byte{9, 9}, rb.writes[buf.ID()])
}

func TestSubmitDropsWriteToUnrealizedBuffer(t *testing.T) {
	rb := newRecordingBackend()
	fs := NewFrameSubmitter(rb)

	buf := metadata.NewBuffer(metadata.BufferUsageUniform)
	fs.WriteQueue().Push(metadata.BufferWriteCommand{Buffer: buf, Data: []byte{1}})

	require.NoError(t, fs.Submit(&metadata.RenderPacket{}))
	assert.Empty(t, rb.writes)
}

func TestReplayGroupsDrawsByPipeline(t *testing.T) {
	rb := newRecordingBackend()
	fs := NewFrameSubmitter(rb)

	p1 := metadata.NewPipeline("p1")
	p2 := metadata.NewPipeline("p2")

	// Interleaved across two pipelines: 3 draws on p1, 2 on p2.
	fs.DrawQueue().Push(drawFor(p1, 3))
	fs.DrawQueue().Push(drawFor(p2, 6))
	fs.DrawQueue().Push(drawFor(p1, 9))
	fs.DrawQueue().Push(drawFor(p2, 12))
	fs.DrawQueue().Push(drawFor(p1, 15))

	require.NoError(t, fs.Submit(&metadata.RenderPacket{}))

	// One bind per distinct pipeline, never more.
	assert.Equal(t, 2, rb.countPrefix("pipeline:"))
	assert.Equal(t, 5, rb.countPrefix("draw:"))
}

func TestReplayStableSortPreservesIntraPipelineOrder(t *testing.T) {
	rb := newRecordingBackend()
	fs := NewFrameSubmitter(rb)

	p1 := metadata.NewPipeline("p1")
	p2 := metadata.NewPipeline("p2")

	// A(p1), B(p2), C(p1): the p1 group must replay as [A, C].
	fs.DrawQueue().Push(drawFor(p1, 100)) // A
	fs.DrawQueue().Push(drawFor(p2, 200)) // B
	fs.DrawQueue().Push(drawFor(p1, 300)) // C

	require.NoError(t, fs.Submit(&metadata.RenderPacket{}))

	var draws []string
	for _, c := range rb.calls {
		if c == "draw:100" || c == "draw:200" || c == "draw:300" {
			draws = append(draws, c)
		}
	}
	require.Len(t, draws, 3)
	// p1 was allocated before p2, so its group replays first, in push order.
	assert.Equal(t, []string{"draw:100", "draw:300", "draw:200"}, draws)
}

func TestReplaySharedPipelineSingleBind(t *testing.T) {
	rb := newRecordingBackend()
	fs := NewFrameSubmitter(rb)

	shared := metadata.NewPipeline("shared")
	fs.DrawQueue().Push(drawFor(shared, 3))
	fs.DrawQueue().Push(drawFor(shared, 3))

	require.NoError(t, fs.Submit(&metadata.RenderPacket{}))
	assert.Equal(t, 1, rb.countPrefix("pipeline:"))
	assert.Equal(t, 2, rb.countPrefix("draw:"))
}

func TestReplaySkipsUnrealizedMeshBuffers(t *testing.T) {
	rb := newRecordingBackend()
	fs := NewFrameSubmitter(rb)

	cmd := drawFor(metadata.NewPipeline("p"), 3)
	cmd.VertexBuffer = metadata.NewBuffer(metadata.BufferUsageVertex) // never realized
	fs.DrawQueue().Push(cmd)

	require.NoError(t, fs.Submit(&metadata.RenderPacket{}))
	assert.Zero(t, rb.countPrefix("draw:"))
	assert.Zero(t, rb.countPrefix("pipeline:"))
}

func TestSubmitSurfaceOutdatedSkipsFrameAndDiscardsCommands(t *testing.T) {
	rb := newRecordingBackend()
	rb.beginErr = fmt.Errorf("acquire: %w", core.ErrSurfaceOutdated)
	fs := NewFrameSubmitter(rb)

	fs.DrawQueue().Push(drawFor(metadata.NewPipeline("p"), 3))
	fs.WriteQueue().Push(metadata.BufferWriteCommand{Buffer: realizedBuffer(metadata.BufferUsageUniform)})

	require.NoError(t, fs.Submit(&metadata.RenderPacket{FrameNumber: 7}))
	assert.Empty(t, rb.calls)

	// Queues drained even though the frame was skipped.
	assert.Zero(t, fs.DrawQueue().Len())
	assert.Zero(t, fs.WriteQueue().Len())
}

func TestSubmitRealizesCreatesOnSkippedFrame(t *testing.T) {
	rb := newRecordingBackend()
	rb.beginErr = fmt.Errorf("acquire: %w", core.ErrSurfaceOutdated)
	fs := NewFrameSubmitter(rb)

	vb := metadata.NewBuffer(metadata.BufferUsageVertex)
	ib := metadata.NewBuffer(metadata.BufferUsageIndex)
	fs.CreateQueue().Push(metadata.BufferCreateCommand{Target: vb, Data: make([]byte, 96)})
	fs.CreateQueue().Push(metadata.BufferCreateCommand{Target: ib, Data: make([]byte, 12)})

	// The frame is skipped, but the creates still land: they are only
	// ever queued once, so losing them here would leave the mesh
	// undrawable on every later frame.
	require.NoError(t, fs.Submit(&metadata.RenderPacket{}))
	assert.True(t, vb.Realized())
	assert.True(t, ib.Realized())
	assert.Equal(t, 2, rb.countPrefix("create:"))

	rb.beginErr = nil
	cmd := drawFor(metadata.NewPipeline("p"), 3)
	cmd.VertexBuffer = vb
	cmd.IndexBuffer = ib
	fs.DrawQueue().Push(cmd)

	require.NoError(t, fs.Submit(&metadata.RenderPacket{FrameNumber: 1}))
	assert.Equal(t, 1, rb.countPrefix("draw:"))
}

func TestSubmitOtherAcquireFailureIsFatal(t *testing.T) {
	rb := newRecordingBackend()
	rb.beginErr = errors.New("device lost")
	fs := NewFrameSubmitter(rb)

	err := fs.Submit(&metadata.RenderPacket{})
	require.Error(t, err)
	assert.NotErrorIs(t, err, core.ErrSurfaceOutdated)
}

func TestSubmitInvokesOverlayBetweenReplayAndPresent(t *testing.T) {
	rb := newRecordingBackend()
	fs := NewFrameSubmitter(rb)

	called := false
	fs.SetOverlay(overlayFunc(func(packet *metadata.RenderPacket) {
		called = true
		assert.Equal(t, uint64(3), packet.FrameNumber)
	}))

	require.NoError(t, fs.Submit(&metadata.RenderPacket{FrameNumber: 3}))
	assert.True(t, called)
}

type overlayFunc func(*metadata.RenderPacket)

func (f overlayFunc) Draw(packet *metadata.RenderPacket) { f(packet) }

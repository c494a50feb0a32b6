package renderer

import (
	"errors"
	"fmt"

	"golang.org/x/exp/slices"

	"github.com/jbryan2ufl/go-graphics-sandbox/engine/containers"
	"github.com/jbryan2ufl/go-graphics-sandbox/engine/core"
	"github.com/jbryan2ufl/go-graphics-sandbox/engine/renderer/metadata"
)

// Overlay is the debug-overlay collaborator. It runs on the submitter
// thread once per frame, after command replay and before submission.
type Overlay interface {
	Draw(packet *metadata.RenderPacket)
}

// FrameSubmitter owns the consumer side of the three command queues and
// is the only component that talks to the device during the frame loop.
// Queues are drained exactly once per frame; nothing queued survives into
// the next frame, even when the frame is skipped.
type FrameSubmitter struct {
	backend Backend
	overlay Overlay

	createQueue *containers.Queue[metadata.BufferCreateCommand]
	writeQueue  *containers.Queue[metadata.BufferWriteCommand]
	drawQueue   *containers.Queue[metadata.DrawCommand]
}

func NewFrameSubmitter(backend Backend) *FrameSubmitter {
	return &FrameSubmitter{
		backend:     backend,
		createQueue: containers.NewQueue[metadata.BufferCreateCommand](),
		writeQueue:  containers.NewQueue[metadata.BufferWriteCommand](),
		drawQueue:   containers.NewQueue[metadata.DrawCommand](),
	}
}

// CreateQueue is the producer endpoint for deferred buffer creation.
func (fs *FrameSubmitter) CreateQueue() *containers.Queue[metadata.BufferCreateCommand] {
	return fs.createQueue
}

// WriteQueue is the producer endpoint for deferred buffer writes.
func (fs *FrameSubmitter) WriteQueue() *containers.Queue[metadata.BufferWriteCommand] {
	return fs.writeQueue
}

// DrawQueue is the producer endpoint for deferred draws.
func (fs *FrameSubmitter) DrawQueue() *containers.Queue[metadata.DrawCommand] {
	return fs.drawQueue
}

// SetOverlay installs the debug overlay collaborator. A nil overlay is
// simply skipped.
func (fs *FrameSubmitter) SetOverlay(overlay Overlay) {
	fs.overlay = overlay
}

// Submit runs the consumer phase of one frame: realize queued buffer
// creates, acquire the frame target, apply queued writes, replay the
// queued draws sorted by pipeline, invoke the overlay, then submit and
// present.
//
// A surface-outdated acquisition discards this frame's writes and draws
// and returns nil; the caller proceeds with the next frame. Any other
// error is returned as fatal.
func (fs *FrameSubmitter) Submit(packet *metadata.RenderPacket) error {
	// Creates run before acquisition: they never touch the surface, and
	// unlike writes and draws they are queued exactly once per buffer, so
	// a create lost to a skipped frame would leave the buffer unrealized
	// forever.
	for _, cmd := range fs.createQueue.Drain() {
		if err := fs.backend.BufferCreate(cmd.Target, cmd.Data); err != nil {
			return fmt.Errorf("deferred buffer create failed: %w", err)
		}
	}

	if err := fs.backend.BeginFrame(); err != nil {
		// Drained either way: stale commands must not leak into the
		// next frame.
		writes := fs.writeQueue.Drain()
		draws := fs.drawQueue.Drain()
		if errors.Is(err, core.ErrSurfaceOutdated) {
			core.LogDebug("surface outdated, skipping frame %d (%d writes, %d draws discarded)",
				packet.FrameNumber, len(writes), len(draws))
			return nil
		}
		return fmt.Errorf("failed to acquire frame target: %w", err)
	}

	// At most one write per camera buffer per frame is produced by the
	// camera-sync routine; if multiple producers ever target one buffer,
	// the last write in drain order wins.
	for _, cmd := range fs.writeQueue.Drain() {
		if !cmd.Buffer.Realized() {
			core.LogWarn("dropping write to unrealized buffer %d", cmd.Buffer.ID())
			continue
		}
		if err := fs.backend.BufferWrite(cmd.Buffer, cmd.Offset, cmd.Data); err != nil {
			return fmt.Errorf("deferred buffer write failed: %w", err)
		}
	}

	fs.replay(fs.drawQueue.Drain())

	if fs.overlay != nil {
		fs.overlay.Draw(packet)
	}

	if err := fs.backend.EndFrame(); err != nil {
		return fmt.Errorf("frame submission failed: %w", err)
	}
	return nil
}

// replay sorts the drained draws by pipeline identity and records them.
// The sort is stable so draws sharing a pipeline keep their drained
// relative order, and grouping means each pipeline in the sorted run is
// bound exactly once.
func (fs *FrameSubmitter) replay(draws []metadata.DrawCommand) {
	slices.SortStableFunc(draws, func(a, b metadata.DrawCommand) int {
		switch {
		case a.Pipeline.ID() < b.Pipeline.ID():
			return -1
		case a.Pipeline.ID() > b.Pipeline.ID():
			return 1
		}
		return 0
	})

	var bound *metadata.Pipeline
	for _, cmd := range draws {
		if !cmd.VertexBuffer.Realized() || !cmd.IndexBuffer.Realized() {
			core.LogWarn("skipping draw with unrealized mesh buffers (pipeline %d)", cmd.Pipeline.ID())
			continue
		}
		if cmd.Pipeline != bound {
			fs.backend.PipelineBind(cmd.Pipeline)
			bound = cmd.Pipeline
		}
		for slot, group := range cmd.BindGroups {
			fs.backend.BindGroupBind(uint32(slot), group)
		}
		fs.backend.VertexBufferBind(cmd.VertexBuffer)
		fs.backend.IndexBufferBind(cmd.IndexBuffer)
		fs.backend.DrawIndexed(cmd.IndexCount)
	}
}

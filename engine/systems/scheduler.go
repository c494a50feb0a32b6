package systems

import (
	"fmt"

	"github.com/jbryan2ufl/go-graphics-sandbox/engine/core"
	"github.com/jbryan2ufl/go-graphics-sandbox/engine/scene"
)

/**
 * @brief The frame scheduler owns per-frame system ordering. Startup runs
 * once before the loop and resolves buffered spawn intents; the render
 * phase runs once per frame, camera sync strictly before draw emission so
 * a camera change made earlier in the frame is reflected in the uniform
 * the frame's draws consume.
 */
type FrameScheduler struct {
	Config *FrameSchedulerConfig
	world  *scene.World
	camera *CameraSystem
	render *RenderSystem
}

type FrameSchedulerConfig struct {
	World        *scene.World
	CameraSystem *CameraSystem
	RenderSystem *RenderSystem
}

func NewFrameScheduler(config *FrameSchedulerConfig) (*FrameScheduler, error) {
	if config.World == nil || config.CameraSystem == nil || config.RenderSystem == nil {
		return nil, fmt.Errorf("func NewFrameScheduler - config.World, config.CameraSystem and config.RenderSystem are required")
	}
	return &FrameScheduler{
		Config: config,
		world:  config.World,
		camera: config.CameraSystem,
		render: config.RenderSystem,
	}, nil
}

// Startup runs the one-shot startup phase: spawn intents queued during
// scene setup become renderable entities.
func (fs *FrameScheduler) Startup() {
	created := fs.world.ProcessSpawns()
	core.LogInfo("startup phase spawned %d entities", created)
}

// RenderPhase runs the per-frame routines in their fixed order.
func (fs *FrameScheduler) RenderPhase() {
	fs.camera.Sync()
	fs.render.EmitDrawCommands()
}

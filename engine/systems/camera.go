package systems

import (
	"fmt"

	"github.com/jbryan2ufl/go-graphics-sandbox/engine/containers"
	"github.com/jbryan2ufl/go-graphics-sandbox/engine/renderer/metadata"
	"github.com/jbryan2ufl/go-graphics-sandbox/engine/scene"
)

/**
 * @brief The camera system keeps GPU-side camera state in sync with the
 * scene. Once per frame, during the render phase, it recomputes every
 * camera's combined view-projection matrix and pushes a deferred buffer
 * write carrying the serialized uniform, so any field change made before
 * the render phase lands in the same frame.
 */
type CameraSystem struct {
	Config *CameraSystemConfig
	world  *scene.World
	writes *containers.Queue[metadata.BufferWriteCommand]
}

type CameraSystemConfig struct {
	World      *scene.World
	WriteQueue *containers.Queue[metadata.BufferWriteCommand]
}

func NewCameraSystem(config *CameraSystemConfig) (*CameraSystem, error) {
	if config.World == nil || config.WriteQueue == nil {
		return nil, fmt.Errorf("func NewCameraSystem - config.World and config.WriteQueue are required")
	}
	return &CameraSystem{
		Config: config,
		world:  config.World,
		writes: config.WriteQueue,
	}, nil
}

// Sync recomputes every camera uniform and enqueues a full-buffer write at
// offset zero for each. One write per camera per frame.
func (cs *CameraSystem) Sync() {
	for _, camera := range cs.world.Cameras() {
		camera.UpdateUniform()
		cs.writes.Push(metadata.BufferWriteCommand{
			Buffer: camera.Buffer,
			Offset: 0,
			Data:   camera.UniformBytes(),
		})
	}
}

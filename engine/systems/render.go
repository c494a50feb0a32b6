package systems

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/jbryan2ufl/go-graphics-sandbox/engine/containers"
	"github.com/jbryan2ufl/go-graphics-sandbox/engine/core"
	"github.com/jbryan2ufl/go-graphics-sandbox/engine/renderer/metadata"
	"github.com/jbryan2ufl/go-graphics-sandbox/engine/scene"
)

/**
 * @brief The render system walks the scene's renderables once per frame
 * and emits one draw command per visible entity. Handles are resolved
 * against the asset registries at emission time; an entity whose mesh or
 * material has been removed is skipped for the frame rather than failing
 * it.
 */
type RenderSystem struct {
	Config *RenderSystemConfig
	world  *scene.World
	draws  *containers.Queue[metadata.DrawCommand]
}

type RenderSystemConfig struct {
	World     *scene.World
	DrawQueue *containers.Queue[metadata.DrawCommand]
}

func NewRenderSystem(config *RenderSystemConfig) (*RenderSystem, error) {
	if config.World == nil || config.DrawQueue == nil {
		return nil, fmt.Errorf("func NewRenderSystem - config.World and config.DrawQueue are required")
	}
	return &RenderSystem{
		Config: config,
		world:  config.World,
		draws:  config.DrawQueue,
	}, nil
}

// EmitDrawCommands resolves every visible renderable and enqueues its
// draw. Returns the number of draws emitted.
func (rs *RenderSystem) EmitDrawCommands() int {
	emitted := 0
	rs.world.EachRenderable(func(id uuid.UUID, r *scene.Renderable) {
		if !r.Visible {
			return
		}
		mesh, ok := rs.world.Meshes.Get(r.Mesh)
		if !ok {
			core.LogWarn("renderable '%s' skipped: mesh handle %d not found", r.Name, r.Mesh)
			return
		}
		material, ok := rs.world.Materials.Get(r.Material)
		if !ok {
			core.LogWarn("renderable '%s' skipped: material handle %d not found", r.Name, r.Material)
			return
		}
		rs.draws.Push(metadata.DrawCommand{
			Pipeline:     material.Pipeline,
			BindGroups:   material.BindGroups,
			VertexBuffer: mesh.VertexBuffer,
			IndexBuffer:  mesh.IndexBuffer,
			IndexCount:   mesh.IndexCount,
		})
		emitted++
	})
	return emitted
}

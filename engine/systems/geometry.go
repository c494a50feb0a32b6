package systems

import (
	"fmt"

	"github.com/jbryan2ufl/go-graphics-sandbox/engine/assets"
	"github.com/jbryan2ufl/go-graphics-sandbox/engine/containers"
	"github.com/jbryan2ufl/go-graphics-sandbox/engine/math"
	"github.com/jbryan2ufl/go-graphics-sandbox/engine/renderer/metadata"
	"github.com/jbryan2ufl/go-graphics-sandbox/engine/scene"
)

/**
 * @brief The geometry system turns raw vertex and index data into meshes.
 * The GPU buffers it hands out are unrealized: their creates travel
 * through the deferred create queue and execute on the frame thread, so
 * geometry can be produced from any goroutine.
 */
type GeometrySystem struct {
	Config  *GeometrySystemConfig
	world   *scene.World
	creates *containers.Queue[metadata.BufferCreateCommand]
}

type GeometrySystemConfig struct {
	World       *scene.World
	CreateQueue *containers.Queue[metadata.BufferCreateCommand]
}

func NewGeometrySystem(config *GeometrySystemConfig) (*GeometrySystem, error) {
	if config.World == nil || config.CreateQueue == nil {
		return nil, fmt.Errorf("func NewGeometrySystem - config.World and config.CreateQueue are required")
	}
	return &GeometrySystem{
		Config:  config,
		world:   config.World,
		creates: config.CreateQueue,
	}, nil
}

// CreateMesh registers a mesh from pre-packed vertex and index bytes and
// enqueues the deferred creates for both buffers.
func (gs *GeometrySystem) CreateMesh(name string, vertexData, indexData []byte, indexCount uint32) assets.Handle {
	mesh := &metadata.Mesh{
		Name:         name,
		VertexBuffer: metadata.NewBuffer(metadata.BufferUsageVertex | metadata.BufferUsageCopyDst),
		IndexBuffer:  metadata.NewBuffer(metadata.BufferUsageIndex | metadata.BufferUsageCopyDst),
		IndexCount:   indexCount,
	}
	gs.creates.Push(metadata.BufferCreateCommand{Target: mesh.VertexBuffer, Data: vertexData})
	gs.creates.Push(metadata.BufferCreateCommand{Target: mesh.IndexBuffer, Data: indexData})
	return gs.world.Meshes.Insert(mesh)
}

// CreateTestTriangle builds the built-in unit triangle used to verify the
// pipeline before any model is loaded.
func (gs *GeometrySystem) CreateTestTriangle() assets.Handle {
	vertices := []math.Vertex3D{
		{Position: math.NewVec3(0.0, 0.5, 0.0), Normal: math.NewVec3(0.0, 0.0, 1.0), UV: math.NewVec2(0.5, 0.0)},
		{Position: math.NewVec3(-0.5, -0.5, 0.0), Normal: math.NewVec3(0.0, 0.0, 1.0), UV: math.NewVec2(0.0, 1.0)},
		{Position: math.NewVec3(0.5, -0.5, 0.0), Normal: math.NewVec3(0.0, 0.0, 1.0), UV: math.NewVec2(1.0, 1.0)},
	}
	indices := []uint32{0, 1, 2}
	return gs.CreateMesh("test-triangle", metadata.PackVertices(vertices), metadata.PackIndices(indices), uint32(len(indices)))
}

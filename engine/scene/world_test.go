package scene

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jbryan2ufl/go-graphics-sandbox/engine/assets"
	"github.com/jbryan2ufl/go-graphics-sandbox/engine/renderer/metadata"
)

func registerTestAssets(w *World) (assets.Handle, assets.Handle) {
	mesh := w.Meshes.Insert(&metadata.Mesh{
		Name:         "triangle",
		VertexBuffer: metadata.NewBuffer(metadata.BufferUsageVertex),
		IndexBuffer:  metadata.NewBuffer(metadata.BufferUsageIndex),
		IndexCount:   3,
	})
	material := w.Materials.Insert(&metadata.Material{
		Name:     "model",
		Pipeline: metadata.NewPipeline("model"),
	})
	return mesh, material
}

func TestWorldProcessSpawns(t *testing.T) {
	w := NewWorld()
	mesh, material := registerTestAssets(w)

	w.QueueSpawn(SpawnIntent{Name: "fox", Mesh: mesh, Material: material})
	w.QueueSpawn(SpawnIntent{Name: "fox2", Mesh: mesh, Material: material})

	assert.Equal(t, 0, w.EntityCount(), "spawns are deferred until processed")
	assert.Equal(t, 2, w.ProcessSpawns())
	assert.Equal(t, 2, w.EntityCount())

	w.EachRenderable(func(id uuid.UUID, r *Renderable) {
		assert.True(t, r.Visible)
		assert.Equal(t, mesh, r.Mesh)
		assert.Equal(t, material, r.Material)
	})

	// The buffer was drained; reprocessing creates nothing.
	assert.Equal(t, 0, w.ProcessSpawns())
	assert.Equal(t, 2, w.EntityCount())
}

func TestWorldProcessSpawnsDropsDanglingHandles(t *testing.T) {
	w := NewWorld()
	mesh, material := registerTestAssets(w)

	w.QueueSpawn(SpawnIntent{Name: "no-mesh", Mesh: assets.InvalidHandle, Material: material})
	w.QueueSpawn(SpawnIntent{Name: "no-material", Mesh: mesh, Material: assets.InvalidHandle})
	w.QueueSpawn(SpawnIntent{Name: "ok", Mesh: mesh, Material: material})

	assert.Equal(t, 1, w.ProcessSpawns())
	assert.Equal(t, 1, w.EntityCount())
}

func TestWorldDestroyEntity(t *testing.T) {
	w := NewWorld()
	mesh, material := registerTestAssets(w)
	w.QueueSpawn(SpawnIntent{Name: "fox", Mesh: mesh, Material: material})
	require.Equal(t, 1, w.ProcessSpawns())

	var id uuid.UUID
	w.EachRenderable(func(eid uuid.UUID, r *Renderable) { id = eid })

	w.DestroyEntity(id)
	assert.Equal(t, 0, w.EntityCount())

	// Unknown id is a no-op.
	w.DestroyEntity(uuid.New())
	assert.Equal(t, 0, w.EntityCount())
}

func TestWorldActiveCamera(t *testing.T) {
	w := NewWorld()
	assert.Nil(t, w.ActiveCamera())

	first := NewCamera(1.0)
	second := NewCamera(1.0)
	w.AddCamera(first)
	w.AddCamera(second)

	assert.Same(t, first, w.ActiveCamera())
	assert.Len(t, w.Cameras(), 2)
}

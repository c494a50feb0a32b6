package scene

import (
	"github.com/google/uuid"

	"github.com/jbryan2ufl/go-graphics-sandbox/engine/assets"
	"github.com/jbryan2ufl/go-graphics-sandbox/engine/containers"
	"github.com/jbryan2ufl/go-graphics-sandbox/engine/core"
	"github.com/jbryan2ufl/go-graphics-sandbox/engine/renderer/metadata"
)

// SpawnIntent asks the world to instantiate a mesh+material pair as a
// renderable entity. Intents are buffered and processed one-shot during
// the scheduler's startup phase.
type SpawnIntent struct {
	Name     string
	Mesh     assets.Handle
	Material assets.Handle
}

// Renderable is a drawable entity: handles into the world's asset
// registries plus a visibility flag. The handles are resolved at
// render-intent time so a removed asset silently drops the entity from
// the frame instead of failing it.
type Renderable struct {
	Name     string
	Mesh     assets.Handle
	Material assets.Handle
	Visible  bool
}

// World is the scene graph: renderable entities, cameras, and the asset
// registries their handles point into. Entities mutate only during spawn
// processing and explicit destroys; render-phase routines read it
// without mutating.
type World struct {
	Meshes    *assets.Registry[*metadata.Mesh]
	Materials *assets.Registry[*metadata.Material]

	entities map[uuid.UUID]*Renderable
	cameras  []*Camera
	spawns   *containers.Queue[SpawnIntent]
}

func NewWorld() *World {
	return &World{
		Meshes:    assets.NewRegistry[*metadata.Mesh](),
		Materials: assets.NewRegistry[*metadata.Material](),
		entities:  make(map[uuid.UUID]*Renderable),
		spawns:    containers.NewQueue[SpawnIntent](),
	}
}

// QueueSpawn buffers a spawn intent for the next ProcessSpawns.
func (w *World) QueueSpawn(intent SpawnIntent) {
	w.spawns.Push(intent)
}

// ProcessSpawns drains the spawn buffer and instantiates a renderable for
// every intent whose handles resolve. Returns the number of entities
// created. Intents with dangling handles are logged and dropped.
func (w *World) ProcessSpawns() int {
	created := 0
	for _, intent := range w.spawns.Drain() {
		if _, ok := w.Meshes.Get(intent.Mesh); !ok {
			core.LogWarn("spawn '%s' dropped: mesh handle %d not found", intent.Name, intent.Mesh)
			continue
		}
		if _, ok := w.Materials.Get(intent.Material); !ok {
			core.LogWarn("spawn '%s' dropped: material handle %d not found", intent.Name, intent.Material)
			continue
		}
		id := uuid.New()
		w.entities[id] = &Renderable{
			Name:     intent.Name,
			Mesh:     intent.Mesh,
			Material: intent.Material,
			Visible:  true,
		}
		created++
	}
	return created
}

// DestroyEntity removes a renderable. Destroying an unknown id is a no-op.
func (w *World) DestroyEntity(id uuid.UUID) {
	delete(w.entities, id)
}

// EachRenderable visits every renderable entity.
func (w *World) EachRenderable(visit func(id uuid.UUID, r *Renderable)) {
	for id, r := range w.entities {
		visit(id, r)
	}
}

// EntityCount reports the number of live renderables.
func (w *World) EntityCount() int {
	return len(w.entities)
}

// AddCamera registers a camera entity. The first one added is the active
// camera.
func (w *World) AddCamera(camera *Camera) {
	w.cameras = append(w.cameras, camera)
}

// Cameras returns all camera entities.
func (w *World) Cameras() []*Camera {
	return w.cameras
}

// ActiveCamera returns the camera the overlay and controllers act on, or
// nil when none is registered.
func (w *World) ActiveCamera() *Camera {
	if len(w.cameras) == 0 {
		return nil
	}
	return w.cameras[0]
}

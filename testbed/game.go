package testbed

import (
	"os"
	"path/filepath"

	"github.com/chewxy/math32"

	"github.com/jbryan2ufl/go-graphics-sandbox/engine"
	"github.com/jbryan2ufl/go-graphics-sandbox/engine/assets/loaders"
	"github.com/jbryan2ufl/go-graphics-sandbox/engine/core"
	"github.com/jbryan2ufl/go-graphics-sandbox/engine/renderer/metadata"
	"github.com/jbryan2ufl/go-graphics-sandbox/engine/scene"
)

const (
	orbitRadius float32 = 150.0
	orbitHeight float32 = 40.0
	moveSpeed   float32 = 20.0
)

type TestGame struct {
	*engine.Game
}

type gameState struct {
	elapsed float64
	// Free movement takes over once the player touches the keys.
	freeLook bool
}

func NewTestGame(configPath string) (*TestGame, error) {
	config, err := engine.LoadApplicationConfig(configPath)
	if err != nil {
		return nil, err
	}

	tg := &TestGame{
		Game: &engine.Game{
			ApplicationConfig: config,
			State:             &gameState{},
		},
	}
	tg.FnInitialize = tg.Initialize
	tg.FnUpdate = tg.Update
	tg.FnOnResize = tg.OnResize
	return tg, nil
}

// Initialize builds the scene: the Fox model when present in the asset
// directory, otherwise the built-in test triangle.
func (tg *TestGame) Initialize(e *engine.Engine) error {
	world := e.World()
	geometry := e.GeometrySystem()

	foxPath := filepath.Join(tg.ApplicationConfig.AssetPath, "models", "Fox.gltf")
	if _, err := os.Stat(foxPath); err == nil {
		loader := &loaders.GLTFLoader{}
		meshes, err := loader.Load(foxPath)
		if err != nil {
			return err
		}
		for _, md := range meshes {
			handle := geometry.CreateMesh(md.Name,
				metadata.PackVertices(md.Vertices),
				metadata.PackIndices(md.Indices),
				uint32(len(md.Indices)))
			world.QueueSpawn(scene.SpawnIntent{
				Name:     md.Name,
				Mesh:     handle,
				Material: e.DefaultMaterial(),
			})
		}
		core.LogInfo("loaded %d meshes from %s", len(meshes), foxPath)
	} else {
		handle := geometry.CreateTestTriangle()
		world.QueueSpawn(scene.SpawnIntent{
			Name:     "test-triangle",
			Mesh:     handle,
			Material: e.DefaultMaterial(),
		})
		core.LogInfo("no model at %s, spawning test triangle", foxPath)
	}

	e.SetOverlay(newDebugOverlay(world))
	return nil
}

// Update drives the camera: an orbit around the scene origin by default,
// free WASD/QE movement once any movement key is pressed.
func (tg *TestGame) Update(e *engine.Engine, deltaTime float64) error {
	state := tg.State.(*gameState)
	state.elapsed += deltaTime

	camera := e.World().ActiveCamera()
	if camera == nil {
		return nil
	}

	if movementKeyDown() {
		state.freeLook = true
	}

	if !state.freeLook {
		angle := float32(state.elapsed) * 0.5
		camera.Eye.X = orbitRadius * math32.Cos(angle)
		camera.Eye.Y = orbitHeight
		camera.Eye.Z = orbitRadius * math32.Sin(angle)
		return nil
	}

	step := moveSpeed * float32(deltaTime)
	if core.InputIsKeyDown(core.KEY_W) {
		camera.Eye.Z -= step
	}
	if core.InputIsKeyDown(core.KEY_S) {
		camera.Eye.Z += step
	}
	if core.InputIsKeyDown(core.KEY_A) {
		camera.Eye.X -= step
	}
	if core.InputIsKeyDown(core.KEY_D) {
		camera.Eye.X += step
	}
	if core.InputIsKeyDown(core.KEY_Q) {
		camera.Eye.Y -= step
	}
	if core.InputIsKeyDown(core.KEY_E) {
		camera.Eye.Y += step
	}
	return nil
}

func (tg *TestGame) OnResize(width uint32, height uint32) error {
	core.LogDebug("game resized to %dx%d", width, height)
	return nil
}

func movementKeyDown() bool {
	return core.InputIsKeyDown(core.KEY_W) ||
		core.InputIsKeyDown(core.KEY_S) ||
		core.InputIsKeyDown(core.KEY_A) ||
		core.InputIsKeyDown(core.KEY_D) ||
		core.InputIsKeyDown(core.KEY_Q) ||
		core.InputIsKeyDown(core.KEY_E)
}

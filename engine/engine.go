package engine

import (
	"fmt"

	"github.com/jbryan2ufl/go-graphics-sandbox/engine/assets"
	"github.com/jbryan2ufl/go-graphics-sandbox/engine/assets/loaders"
	"github.com/jbryan2ufl/go-graphics-sandbox/engine/core"
	"github.com/jbryan2ufl/go-graphics-sandbox/engine/platform"
	"github.com/jbryan2ufl/go-graphics-sandbox/engine/renderer"
	"github.com/jbryan2ufl/go-graphics-sandbox/engine/renderer/metadata"
	"github.com/jbryan2ufl/go-graphics-sandbox/engine/renderer/webgpu"
	"github.com/jbryan2ufl/go-graphics-sandbox/engine/scene"
	"github.com/jbryan2ufl/go-graphics-sandbox/engine/systems"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
)

type Engine struct {
	currentStage Stage
	gameInstance *Game
	isRunning    bool
	isSuspended  bool

	platform  *platform.Platform
	backend   *webgpu.Backend
	world     *scene.World
	submitter *renderer.FrameSubmitter
	scheduler *systems.FrameScheduler
	geometry  *systems.GeometrySystem

	defaultMaterial assets.Handle

	width       uint32
	height      uint32
	clock       *core.Clock
	lastTime    float64
	frameNumber uint64
}

func New(g *Game) (*Engine, error) {
	if g == nil || g.ApplicationConfig == nil {
		return nil, fmt.Errorf("func New - a game with an application config is required")
	}

	p, err := platform.New()
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}

	return &Engine{
		currentStage: EngineStageUninitialized,
		gameInstance: g,
		clock:        core.NewClock(),
		platform:     p,
		world:        scene.NewWorld(),
		isRunning:    true,
		isSuspended:  false,
		width:        g.ApplicationConfig.StartWidth,
		height:       g.ApplicationConfig.StartHeight,
	}, nil
}

func (e *Engine) Initialize() error {
	e.currentStage = EngineStageInitializing
	config := e.gameInstance.ApplicationConfig

	core.SetLogLevel(config.LogLevel)
	core.InputInitialize()
	if !core.EventInitialize() {
		return fmt.Errorf("failed to initialize the event system")
	}
	if err := core.MetricsInitialize(); err != nil {
		return err
	}

	core.EventRegister(core.EVENT_CODE_APPLICATION_QUIT, e, e.onEvent)
	core.EventRegister(core.EVENT_CODE_KEY_PRESSED, e, e.onKey)
	core.EventRegister(core.EVENT_CODE_RESIZED, e, e.onResized)

	if err := e.platform.Startup(config.Name, config.StartPosX, config.StartPosY,
		config.StartWidth, config.StartHeight); err != nil {
		return err
	}

	e.backend = webgpu.New(e.platform.SurfaceDescriptor())
	if err := e.backend.Initialize(config.Name, e.width, e.height); err != nil {
		return err
	}

	e.submitter = renderer.NewFrameSubmitter(e.backend)

	cameraSystem, err := systems.NewCameraSystem(&systems.CameraSystemConfig{
		World:      e.world,
		WriteQueue: e.submitter.WriteQueue(),
	})
	if err != nil {
		return err
	}
	renderSystem, err := systems.NewRenderSystem(&systems.RenderSystemConfig{
		World:     e.world,
		DrawQueue: e.submitter.DrawQueue(),
	})
	if err != nil {
		return err
	}
	e.scheduler, err = systems.NewFrameScheduler(&systems.FrameSchedulerConfig{
		World:        e.world,
		CameraSystem: cameraSystem,
		RenderSystem: renderSystem,
	})
	if err != nil {
		return err
	}
	e.geometry, err = systems.NewGeometrySystem(&systems.GeometrySystemConfig{
		World:       e.world,
		CreateQueue: e.submitter.CreateQueue(),
	})
	if err != nil {
		return err
	}

	// The camera and the default material are realized directly on the
	// device: bind group creation needs a realized uniform buffer, so
	// these cannot travel through the deferred queues.
	camera := scene.NewCamera(float32(e.width) / float32(e.height))
	e.world.AddCamera(camera)
	if err := e.backend.BufferCreate(camera.Buffer, camera.UniformBytes()); err != nil {
		return err
	}
	if err := e.createDefaultMaterial(camera); err != nil {
		return err
	}

	if e.gameInstance.FnInitialize != nil {
		if err := e.gameInstance.FnInitialize(e); err != nil {
			return err
		}
	}

	e.scheduler.Startup()
	e.currentStage = EngineStageInitialized
	return nil
}

// createDefaultMaterial loads the model shader, builds its pipeline and
// binds the camera uniform at group 0.
func (e *Engine) createDefaultMaterial(camera *scene.Camera) error {
	shaderLoader := &loaders.ShaderLoader{}
	pair, err := shaderLoader.Load("model", e.gameInstance.ApplicationConfig.ShaderPath)
	if err != nil {
		return err
	}

	pipeline := metadata.NewPipeline(pair.Name)
	if err := e.backend.PipelineCreate(pipeline, &metadata.PipelineConfig{
		Name:              pair.Name,
		VertexShader:      pair.Source,
		FragmentShader:    pair.Source,
		VertexEntry:       pair.VertexEntry,
		FragmentEntry:     pair.FragmentEntry,
		UniformGroupCount: 1,
	}); err != nil {
		return err
	}

	cameraGroup := metadata.NewBindGroup(camera.Buffer)
	if err := e.backend.BindGroupCreate(cameraGroup, pipeline, 0); err != nil {
		return err
	}

	e.defaultMaterial = e.world.Materials.Insert(&metadata.Material{
		Name:       pair.Name,
		Pipeline:   pipeline,
		BindGroups: []*metadata.BindGroup{cameraGroup},
	})
	return nil
}

func (e *Engine) Run() error {
	e.currentStage = EngineStageRunning
	e.clock.Start()
	e.clock.Update()
	e.lastTime = e.clock.Elapsed()

	for e.isRunning {
		e.platform.PumpMessages()
		if e.platform.ShouldClose() {
			e.isRunning = false
			break
		}

		if e.isSuspended {
			continue
		}

		e.clock.Update()
		currentTime := e.clock.Elapsed()
		delta := currentTime - e.lastTime

		if e.gameInstance.FnUpdate != nil {
			if err := e.gameInstance.FnUpdate(e, delta); err != nil {
				core.LogError("game update failed, shutting down: %s", err)
				e.isRunning = false
				break
			}
		}

		e.scheduler.RenderPhase()

		packet := &metadata.RenderPacket{
			DeltaTime:   delta,
			FrameNumber: e.frameNumber,
		}
		if err := e.submitter.Submit(packet); err != nil {
			core.LogError("frame %d failed: %s", e.frameNumber, err)
			e.isRunning = false
			break
		}

		core.MetricsUpdate(delta)

		// Input state is copied last so everything this frame recorded
		// is visible to WasKeyDown next frame.
		core.InputUpdate(delta)

		e.lastTime = currentTime
		e.frameNumber++
	}

	return e.Shutdown()
}

func (e *Engine) Shutdown() error {
	if e.currentStage == EngineStageShuttingDown {
		return nil
	}
	e.currentStage = EngineStageShuttingDown

	if err := core.EventShutdown(); err != nil {
		return err
	}
	core.InputShutdown()
	if e.backend != nil {
		if err := e.backend.Shutdown(); err != nil {
			return err
		}
	}
	return e.platform.Shutdown()
}

// World exposes the scene graph to the game instance.
func (e *Engine) World() *scene.World {
	return e.world
}

// GeometrySystem exposes mesh creation to the game instance.
func (e *Engine) GeometrySystem() *systems.GeometrySystem {
	return e.geometry
}

// DefaultMaterial is the engine-provided camera-bound model material.
func (e *Engine) DefaultMaterial() assets.Handle {
	return e.defaultMaterial
}

// SetOverlay installs the per-frame debug overlay.
func (e *Engine) SetOverlay(overlay renderer.Overlay) {
	e.submitter.SetOverlay(overlay)
}

// GetFramebufferSize returns the width and height (in this order) of the
// application framebuffer.
func (e *Engine) GetFramebufferSize() (uint32, uint32) {
	return e.width, e.height
}

func (e *Engine) onEvent(code core.SystemEventCode, sender interface{}, listener interface{}, data core.EventContext) bool {
	switch code {
	case core.EVENT_CODE_APPLICATION_QUIT:
		core.LogInfo("EVENT_CODE_APPLICATION_QUIT received, shutting down.")
		e.isRunning = false
		return true
	}
	return false
}

func (e *Engine) onKey(code core.SystemEventCode, sender interface{}, listener interface{}, data core.EventContext) bool {
	keyCode := core.KeyCode(data.Data.U16[0])
	if code == core.EVENT_CODE_KEY_PRESSED && keyCode == core.KEY_ESCAPE {
		// NOTE: Technically firing an event to itself, but there may be other listeners.
		core.EventFire(core.EVENT_CODE_APPLICATION_QUIT, e, core.EventContext{})
		return true
	}
	return false
}

func (e *Engine) onResized(code core.SystemEventCode, sender interface{}, listener interface{}, data core.EventContext) bool {
	if code != core.EVENT_CODE_RESIZED {
		return false
	}

	width := data.Data.U32[0]
	height := data.Data.U32[1]
	if width == e.width && height == e.height {
		return false
	}
	e.width = width
	e.height = height
	core.LogDebug("window resize: %d, %d", width, height)

	// Handle minimization
	if width == 0 || height == 0 {
		core.LogInfo("window minimized, suspending application.")
		e.isSuspended = true
		return true
	}
	if e.isSuspended {
		core.LogInfo("window restored, resuming application.")
		e.isSuspended = false
	}

	if err := e.backend.Resized(width, height); err != nil {
		core.LogError(err.Error())
	}
	if camera := e.world.ActiveCamera(); camera != nil {
		camera.AspectRatio = float32(width) / float32(height)
	}
	if e.gameInstance.FnOnResize != nil {
		if err := e.gameInstance.FnOnResize(width, height); err != nil {
			core.LogError(err.Error())
		}
	}
	return true
}

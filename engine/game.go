package engine

// Game is the application-supplied half of the engine: a config plus the
// hooks the frame loop calls. Scene setup happens in FnInitialize, which
// runs after the device and default material are ready but before the
// startup phase resolves spawn intents.
type Game struct {
	ApplicationConfig *ApplicationConfig
	State             interface{}
	FnInitialize      Initialize
	FnUpdate          Update
	FnOnResize        OnResize
}

type Initialize func(engine *Engine) error
type Update func(engine *Engine, deltaTime float64) error
type OnResize func(width uint32, height uint32) error

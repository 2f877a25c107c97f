package engine

import (
	"github.com/spaghettifunk/lumina/engine/scene"
)

// Game binds an application to the engine loop: its configuration, its scene
// and the lifecycle callbacks the loop invokes.
type Game struct {
	ApplicationConfig *ApplicationConfig
	Scene             *scene.Scene
	State             interface{}
	FnInitialize      Initialize
	FnUpdate          Update
	FnOnResize        OnResize
	FnShutdown        Shutdown
}

type Initialize func(engine *Engine) error
type Update func(deltaTime float64) error
type OnResize func(width uint32, height uint32) error
type Shutdown func() error

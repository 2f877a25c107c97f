package engine

import (
	"fmt"

	"github.com/spaghettifunk/lumina/engine/core"
	"github.com/spaghettifunk/lumina/engine/gpu"
	"github.com/spaghettifunk/lumina/engine/platform"
	"github.com/spaghettifunk/lumina/engine/renderer"
	"github.com/spaghettifunk/lumina/engine/renderer/metadata"
	"github.com/spaghettifunk/lumina/engine/renderer/passes"
	"github.com/spaghettifunk/lumina/engine/settings"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently booting up
	EngineStageBooting
	// Engine completed boot process and is ready to be initialized
	EngineStageBootComplete
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
)

// baselineSettingsPriority puts the graphics settings below every post-fx
// volume in the blend order.
const baselineSettingsPriority int32 = -1 << 31

type Engine struct {
	currentStage Stage
	gameInstance *Game
	isRunning    bool
	isSuspended  bool
	platform     *platform.Platform

	device   gpu.Device
	renderer *renderer.Renderer
	buffers  *renderer.RenderBuffers
	output   gpu.Texture
	task     *renderer.SceneRenderTask

	settingsWatcher *settings.Watcher
	graphics        settings.GraphicsSettings

	width  uint32
	height uint32

	clock      *core.Clock
	lastTime   float64
	frameCount uint64
}

func New(g *Game) (*Engine, error) {
	if g == nil || g.ApplicationConfig == nil {
		return nil, fmt.Errorf("engine: game configuration required")
	}
	core.SetLogLevel(g.ApplicationConfig.LogLevel)

	return &Engine{
		currentStage: EngineStageUninitialized,
		gameInstance: g,
		clock:        core.NewClock(),
		platform:     platform.New(g.ApplicationConfig.Headless),
		isRunning:    true,
		isSuspended:  false,
		width:        g.ApplicationConfig.StartWidth,
		height:       g.ApplicationConfig.StartHeight,
		lastTime:     0,
	}, nil
}

func (e *Engine) Initialize() error {
	e.currentStage = EngineStageInitializing
	config := e.gameInstance.ApplicationConfig

	if !core.EventInitialize() {
		return fmt.Errorf("failed to initialize the event system")
	}
	if err := core.MetricsInitialize(); err != nil {
		return err
	}

	core.EventRegister(core.EVENT_CODE_APPLICATION_QUIT, e.onEvent)
	core.EventRegister(core.EVENT_CODE_RESIZED, e.onResized)
	core.EventRegister(core.EVENT_CODE_SETTINGS_RELOADED, e.onSettingsReloaded)
	core.EventRegister(core.EVENT_CODE_SET_RENDER_MODE, e.onSetRenderMode)

	if err := e.platform.Startup(config.Name,
		config.StartPosX, config.StartPosY, e.width, e.height); err != nil {
		return err
	}

	e.graphics = settings.Default()
	if config.SettingsPath != "" {
		watcher, err := settings.NewWatcher(config.SettingsPath)
		if err != nil {
			core.LogWarn("graphics settings unavailable, using defaults: %s", err.Error())
		} else {
			e.settingsWatcher = watcher
			e.graphics = watcher.Current()
		}
	}

	// The null device records submissions instead of touching a GPU; the
	// Vulkan backend plugs in behind the same interface.
	e.device = gpu.NewNullDevice()

	buffers, err := renderer.NewRenderBuffers(e.device, e.width, e.height)
	if err != nil {
		return err
	}
	e.buffers = buffers

	output, err := e.device.CreateTexture(
		gpu.NewTextureDescription2D(e.width, e.height, gpu.TextureFormatR8G8B8A8))
	if err != nil {
		return err
	}
	e.output = output

	e.task = renderer.NewSceneRenderTask(output, buffers)
	e.applyGraphicsSettings()
	e.task.OnCollectDrawCalls = func(renderContext *renderer.RenderContext) {
		if e.gameInstance.Scene != nil {
			e.gameInstance.Scene.Collect(renderContext)
		}
	}
	e.task.OnCollectPostFxVolumes = func(renderContext *renderer.RenderContext) {
		// The graphics settings are the frame baseline; volumes layer on top.
		renderContext.List.AddSettingsBlend(&e.graphics, 1.0, baselineSettingsPriority, 0)
		if e.gameInstance.Scene != nil {
			e.gameInstance.Scene.CollectPostFxVolumes(renderContext)
		}
	}

	frameRenderer, err := renderer.NewRenderer(e.device, passes.DefaultPassList())
	if err != nil {
		return err
	}
	e.renderer = frameRenderer

	if e.gameInstance.FnInitialize != nil {
		if err := e.gameInstance.FnInitialize(e); err != nil {
			return err
		}
	}
	if e.gameInstance.FnOnResize != nil {
		if err := e.gameInstance.FnOnResize(e.width, e.height); err != nil {
			return err
		}
	}

	e.currentStage = EngineStageInitialized
	return nil
}

func (e *Engine) Run() error {
	e.currentStage = EngineStageRunning
	e.clock.Start()
	e.clock.Update()
	e.lastTime = e.clock.Elapsed()

	config := e.gameInstance.ApplicationConfig

	for e.isRunning {
		if !e.platform.PumpMessages() {
			e.isRunning = false
		}
		if e.isSuspended {
			continue
		}

		e.clock.Update()
		currentTime := e.clock.Elapsed()
		delta := currentTime - e.lastTime
		frameStartTime := platform.GetAbsoluteTime()

		if e.gameInstance.FnUpdate != nil {
			if err := e.gameInstance.FnUpdate(delta); err != nil {
				core.LogError("game update failed, shutting down: %s", err.Error())
				e.isRunning = false
				break
			}
		}

		if scene := e.gameInstance.Scene; scene != nil && scene.Camera != nil {
			scene.Camera.ApplyTo(&e.task.View, e.width, e.height)
		}
		if err := e.renderer.Render(e.task); err != nil {
			core.LogError("frame render failed: %s", err.Error())
		}

		frameElapsedTime := platform.GetAbsoluteTime() - frameStartTime
		core.MetricsUpdate(frameElapsedTime)

		if config.TargetFrameSeconds > 0 {
			remainingSeconds := config.TargetFrameSeconds - frameElapsedTime
			if remainingSeconds > 0 {
				e.platform.Sleep(remainingSeconds*1000 - 1)
			}
		}

		e.frameCount++
		if config.MaxFrames > 0 && e.frameCount >= config.MaxFrames {
			core.LogInfo("frame limit of %d reached, shutting down", config.MaxFrames)
			e.isRunning = false
		}

		e.lastTime = currentTime
	}
	return nil
}

func (e *Engine) Shutdown() error {
	e.currentStage = EngineStageShuttingDown

	if e.gameInstance.FnShutdown != nil {
		if err := e.gameInstance.FnShutdown(); err != nil {
			core.LogError("game shutdown: %s", err.Error())
		}
	}
	if e.settingsWatcher != nil {
		if err := e.settingsWatcher.Close(); err != nil {
			core.LogError("settings watcher shutdown: %s", err.Error())
		}
	}
	if e.renderer != nil {
		e.renderer.Dispose()
	}
	if e.buffers != nil {
		e.buffers.Dispose()
	}
	if e.output != nil {
		e.device.DestroyTexture(e.output)
		e.output = nil
	}
	if e.device != nil {
		if err := e.device.Shutdown(); err != nil {
			return err
		}
	}
	if err := e.platform.Shutdown(); err != nil {
		return err
	}
	return core.EventShutdown()
}

// Device exposes the GPU device, e.g. for scene geometry uploads.
func (e *Engine) Device() gpu.Device { return e.device }

// Renderer exposes the frame renderer.
func (e *Engine) Renderer() *renderer.Renderer { return e.renderer }

// Task exposes the main scene render task.
func (e *Engine) Task() *renderer.SceneRenderTask { return e.task }

// GetFramebufferSize returns the width and height (in this order) of the
// application framebuffer.
func (e *Engine) GetFramebufferSize() (uint32, uint32) {
	return e.width, e.height
}

func (e *Engine) applyGraphicsSettings() {
	e.task.View.Flags = e.graphics.ViewFlags()
	percentage := e.graphics.RenderingPercentage
	if percentage <= 0 || percentage > 1 {
		percentage = 1
	}
	e.task.RenderingPercentage = percentage
}

func (e *Engine) onEvent(context core.EventContext) {
	switch context.Type {
	case core.EVENT_CODE_APPLICATION_QUIT:
		core.LogInfo("EVENT_CODE_APPLICATION_QUIT received, shutting down")
		e.isRunning = false
	}
}

func (e *Engine) onResized(context core.EventContext) {
	size, ok := context.Data.([2]uint32)
	if !ok {
		core.LogError("wrong event data associated with the event type `%d`", context.Type)
		return
	}
	width, height := size[0], size[1]
	if width == e.width && height == e.height {
		return
	}
	e.width = width
	e.height = height
	core.LogDebug("window resize: %d, %d", width, height)

	if width == 0 || height == 0 {
		core.LogInfo("window minimized, suspending application")
		e.isSuspended = true
		return
	}
	if e.isSuspended {
		core.LogInfo("window restored, resuming application")
		e.isSuspended = false
	}

	if err := e.buffers.Resize(width, height); err != nil {
		core.LogError("failed to resize frame buffers: %s", err.Error())
		return
	}
	e.device.DestroyTexture(e.output)
	output, err := e.device.CreateTexture(
		gpu.NewTextureDescription2D(width, height, gpu.TextureFormatR8G8B8A8))
	if err != nil {
		core.LogError("failed to recreate output target: %s", err.Error())
		return
	}
	e.output = output
	e.task.Output = output
	e.task.View.ScreenSize.X = float32(width)
	e.task.View.ScreenSize.Y = float32(height)
	e.task.CameraCut()
	core.EventFire(core.EventContext{Type: core.EVENT_CODE_DEFAULT_RENDERTARGET_REFRESH_REQUIRED})

	if e.gameInstance.FnOnResize != nil {
		if err := e.gameInstance.FnOnResize(width, height); err != nil {
			core.LogError(err.Error())
		}
	}
}

func (e *Engine) onSettingsReloaded(context core.EventContext) {
	graphics, ok := context.Data.(settings.GraphicsSettings)
	if !ok {
		core.LogError("wrong event data associated with the event type `%d`", context.Type)
		return
	}
	e.graphics = graphics
	e.applyGraphicsSettings()
}

func (e *Engine) onSetRenderMode(context core.EventContext) {
	mode, ok := context.Data.(metadata.ViewMode)
	if !ok {
		core.LogError("wrong event data associated with the event type `%d`", context.Type)
		return
	}
	e.task.View.Mode = mode
	core.LogInfo("render mode set to %d", mode)
}

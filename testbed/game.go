package testbed

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spaghettifunk/lumina/engine"
	"github.com/spaghettifunk/lumina/engine/core"
	"github.com/spaghettifunk/lumina/engine/gpu"
	"github.com/spaghettifunk/lumina/engine/math"
	"github.com/spaghettifunk/lumina/engine/renderer/metadata"
	"github.com/spaghettifunk/lumina/engine/scene"

	"github.com/charmbracelet/log"
)

// gridSide is the edge length of the demo cube grid.
const gridSide = 4

type TestGame struct {
	*engine.Game
}

type gameState struct {
	device gpu.Device

	cubeGeometry *metadata.Geometry
	materials    []*metadata.Material

	// spinners get a per-frame yaw rotation in Update.
	spinners []*scene.StaticModel

	elapsed float64
}

func NewTestGame(headless bool, maxFrames uint64) (*TestGame, error) {
	tg := &TestGame{
		Game: &engine.Game{
			ApplicationConfig: &engine.ApplicationConfig{
				StartPosX:    100,
				StartPosY:    100,
				StartWidth:   1280,
				StartHeight:  720,
				Name:         "Lumina Testbed",
				LogLevel:     log.DebugLevel,
				Headless:     headless,
				SettingsPath: "graphics.toml",
				MaxFrames:    maxFrames,
			},
			Scene: scene.New(),
			State: &gameState{},
		},
	}

	tg.FnInitialize = tg.Initialize
	tg.FnUpdate = tg.Update
	tg.FnOnResize = tg.OnResize
	tg.FnShutdown = tg.Shutdown

	return tg, nil
}

func (g *TestGame) Initialize(e *engine.Engine) error {
	core.LogDebug("TestGame Initialize fn....")

	state := g.State.(*gameState)
	state.device = e.Device()

	cube, err := scene.NewCubeGeometry(state.device, 1.0)
	if err != nil {
		return fmt.Errorf("testbed: creating cube geometry: %w", err)
	}
	state.cubeGeometry = cube

	// Two instancable materials plus one that forces the direct draw path,
	// so the frame exercises both submission routes.
	state.materials = []*metadata.Material{
		scene.NewMaterial(1, true),
		scene.NewMaterial(1, true),
		scene.NewMaterial(2, false),
	}

	g.Scene.Camera.Position = math.Vec3{X: 6.0, Y: 5.0, Z: 12.0}
	g.Scene.Camera.Yaw = math.DegToRad(-110.0)
	g.Scene.Camera.Pitch = math.DegToRad(-15.0)

	for x := 0; x < gridSide; x++ {
		for z := 0; z < gridSide; z++ {
			material := state.materials[(x+z)%len(state.materials)]
			world := math.NewMat4Translation(math.Vec3{
				X: float32(x) * 2.5,
				Y: 0,
				Z: float32(z) * 2.5,
			})
			model := scene.NewStaticModel(cube, material, world)
			g.Scene.Models = append(g.Scene.Models, model)
			if (x+z)%3 == 0 {
				state.spinners = append(state.spinners, model)
			}
		}
	}

	g.Scene.DirectionalLights = append(g.Scene.DirectionalLights, metadata.RendererDirectionalLightData{
		Position:  math.Vec3{Y: 50.0},
		Color:     math.Vec3{X: 1.0, Y: 0.96, Z: 0.9},
		Direction: math.Vec3{X: -0.3, Y: -1.0, Z: -0.2}.Normalized(),

		ShadowsStrength: 1.0,
		ShadowsDistance: 150.0,
		CascadeCount:    4,
		ShadowsMode:     metadata.ShadowsCastingAll,

		IndirectLightingIntensity: 1.0,
		ID:                        uuid.New(),
	})
	g.Scene.PointLights = append(g.Scene.PointLights, metadata.RendererPointLightData{
		Position: math.Vec3{X: 4.0, Y: 3.0, Z: 4.0},
		Color:    math.Vec3{X: 0.2, Y: 0.4, Z: 1.0},

		Radius:                   12.0,
		FallOffExponent:          2.0,
		UseInverseSquaredFalloff: true,
		ID:                       uuid.New(),
	})

	// A decal projected onto the grid centre.
	g.Scene.Decals = append(g.Scene.Decals, metadata.DecalData{
		World:    math.NewMat4Translation(math.Vec3{X: 4.0, Y: 0.5, Z: 4.0}).Mul(math.NewMat4Scale(math.Vec3{X: 3.0, Y: 1.0, Z: 3.0})),
		Material: state.materials[0],
		ID:       uuid.New(),
	})

	// Walking the camera into this volume pulls focus in and boosts bloom.
	focal := float32(8.0)
	bloom := float32(1.5)
	g.Scene.Volumes = append(g.Scene.Volumes, &scene.PostFxVolume{
		Center:         math.Vec3{X: 4.0, Y: 1.0, Z: 4.0},
		Radius:         6.0,
		Falloff:        4.0,
		Priority:       10,
		FocalDistance:  &focal,
		BloomIntensity: &bloom,
	})

	return nil
}

func (g *TestGame) Update(deltaTime float64) error {
	state := g.State.(*gameState)
	state.elapsed += deltaTime

	rotation := math.NewMat4RotationY(float32(0.5 * deltaTime))
	for _, model := range state.spinners {
		model.World = rotation.Mul(model.World)
	}

	fps, frameTime := core.MetricsFrame()
	stats := core.MetricsStats()
	core.LogDebug("FPS: %5.1f(%4.1fms) draws=%d batches=%d instances=%d",
		fps, frameTime, stats.DrawCalls, stats.Batches, stats.Instances)

	return nil
}

func (g *TestGame) OnResize(width uint32, height uint32) error {
	core.LogDebug("testbed resize: %dx%d", width, height)
	return nil
}

func (g *TestGame) Shutdown() error {
	state := g.State.(*gameState)

	for _, material := range state.materials {
		scene.ReleaseMaterial(material)
	}
	if state.cubeGeometry != nil {
		scene.ReleaseGeometry(state.device, state.cubeGeometry)
		state.cubeGeometry = nil
	}
	return nil
}

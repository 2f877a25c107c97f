package scene

import (
	"github.com/spaghettifunk/lumina/engine/math"
	"github.com/spaghettifunk/lumina/engine/renderer"
	"github.com/spaghettifunk/lumina/engine/renderer/metadata"
)

// Scene is a flat collection of renderable content feeding the renderer
// through the task callbacks. It stands in for a full scene graph: culling
// here is a sphere-against-distance rejection, not a spatial structure.
type Scene struct {
	Camera *Camera

	Models []*StaticModel

	DirectionalLights []metadata.RendererDirectionalLightData
	PointLights       []metadata.RendererPointLightData
	SpotLights        []metadata.RendererSpotLightData
	SkyLights         []metadata.RendererSkyLightData

	EnvironmentProbes []metadata.EnvironmentProbeData
	Decals            []metadata.DecalData

	Sky renderer.SkyRenderer
	Fog renderer.FogRenderer

	Volumes []*PostFxVolume

	// DrawDistance rejects objects farther than this from the camera.
	DrawDistance float32
}

func New() *Scene {
	return &Scene{
		Camera:       NewCamera(),
		DrawDistance: 500.0,
	}
}

// Collect walks the scene and submits the visible draw calls and light data
// into the frame's render list.
func (s *Scene) Collect(renderContext *renderer.RenderContext) {
	list := renderContext.List
	viewPosition := renderContext.View.WorldPosition()

	for _, model := range s.Models {
		drawCall := model.DrawCall()
		if s.DrawDistance > 0 &&
			viewPosition.Distance(drawCall.ObjectPosition)-drawCall.ObjectRadius > s.DrawDistance {
			continue
		}
		if !drawCall.Material.IsReady() {
			continue
		}
		list.AddDrawCall(model.DrawModes, model.StaticFlags, drawCall, model.ReceivesDecals)
	}

	for _, light := range s.DirectionalLights {
		list.AddDirectionalLight(light)
	}
	for _, light := range s.PointLights {
		list.AddPointLight(light)
	}
	for _, light := range s.SpotLights {
		list.AddSpotLight(light)
	}
	for _, light := range s.SkyLights {
		list.AddSkyLight(light)
	}
	for _, probe := range s.EnvironmentProbes {
		list.AddEnvironmentProbe(probe)
	}
	for _, decal := range s.Decals {
		list.AddDecal(decal)
	}

	list.Sky = s.Sky
	list.Fog = s.Fog
}

// CollectPostFxVolumes queues the volumes the camera is inside of for the
// pre-frame settings blend.
func (s *Scene) CollectPostFxVolumes(renderContext *renderer.RenderContext) {
	cameraPosition := renderContext.View.WorldPosition()
	for _, volume := range s.Volumes {
		weight := volume.BlendWeightAt(cameraPosition)
		if weight <= 0 {
			continue
		}
		size := volume.Radius * volume.Radius
		renderContext.List.AddSettingsBlend(volume, weight, volume.Priority, size)
	}
}

// PostFxVolume overrides a subset of the post-process settings inside its
// sphere of influence. The blend weight fades linearly across the falloff
// shell so entering a volume never pops.
type PostFxVolume struct {
	Center   math.Vec3
	Radius   float32
	Falloff  float32
	Priority int32

	BloomIntensity  *float32
	BloomThreshold  *float32
	FocalDistance   *float32
	MotionBlurScale *float32
}

// BlendWeightAt returns the volume influence in [0, 1] at the position.
func (v *PostFxVolume) BlendWeightAt(position math.Vec3) float32 {
	distance := v.Center.Distance(position)
	if distance <= v.Radius {
		return 1.0
	}
	if v.Falloff <= 0 || distance >= v.Radius+v.Falloff {
		return 0.0
	}
	return 1.0 - (distance-v.Radius)/v.Falloff
}

// Blend applies the volume's overrides weighted into the frame settings.
func (v *PostFxVolume) Blend(settings *metadata.PostProcessSettings, weight float32) {
	if v.BloomIntensity != nil {
		settings.Bloom.Intensity = math.Lerp(settings.Bloom.Intensity, *v.BloomIntensity, weight)
	}
	if v.BloomThreshold != nil {
		settings.Bloom.Threshold = math.Lerp(settings.Bloom.Threshold, *v.BloomThreshold, weight)
	}
	if v.FocalDistance != nil {
		settings.DepthOfField.Enabled = true
		settings.DepthOfField.FocalDistance = math.Lerp(settings.DepthOfField.FocalDistance, *v.FocalDistance, weight)
	}
	if v.MotionBlurScale != nil {
		settings.MotionBlur.Scale = math.Lerp(settings.MotionBlur.Scale, *v.MotionBlurScale, weight)
	}
}

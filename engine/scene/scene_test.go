package scene

import (
	"testing"

	"github.com/spaghettifunk/lumina/engine/gpu"
	"github.com/spaghettifunk/lumina/engine/math"
	"github.com/spaghettifunk/lumina/engine/renderer"
	"github.com/spaghettifunk/lumina/engine/renderer/metadata"
)

func newCollectContext(t *testing.T) (*renderer.RenderContext, *renderer.RenderList) {
	t.Helper()
	device := gpu.NewNullDevice()
	buffers, err := renderer.NewRenderBuffers(device, 64, 64)
	if err != nil {
		t.Fatalf("creating frame buffers: %v", err)
	}
	output, err := device.CreateTexture(gpu.NewTextureDescription2D(64, 64, gpu.TextureFormatR8G8B8A8))
	if err != nil {
		t.Fatalf("creating output: %v", err)
	}
	task := renderer.NewSceneRenderTask(output, buffers)
	rc := renderer.NewRenderContext(device, task)
	list := &renderer.RenderList{}
	rc.List = list
	list.Init(&rc)
	return &rc, list
}

func testScene(t *testing.T) (*Scene, gpu.Device) {
	t.Helper()
	device := gpu.NewNullDevice()
	s := New()
	return s, device
}

func addModelAt(t *testing.T, s *Scene, device gpu.Device, position math.Vec3) *StaticModel {
	t.Helper()
	geometry, err := NewCubeGeometry(device, 1.0)
	if err != nil {
		t.Fatalf("NewCubeGeometry failed: %v", err)
	}
	t.Cleanup(func() { ReleaseGeometry(device, geometry) })
	material := NewMaterial(1, true)
	t.Cleanup(func() { ReleaseMaterial(material) })

	model := NewStaticModel(geometry, material, math.NewMat4Translation(position))
	s.Models = append(s.Models, model)
	return model
}

func TestCollectCullsByDrawDistance(t *testing.T) {
	rc, list := newCollectContext(t)
	s, device := testScene(t)
	s.DrawDistance = 20

	addModelAt(t, s, device, math.Vec3{Z: 10})
	addModelAt(t, s, device, math.Vec3{Z: 600})

	s.Collect(rc)
	if len(list.DrawCalls) != 1 {
		t.Fatalf("DrawCalls = %d, want 1 after distance culling", len(list.DrawCalls))
	}
	if list.DrawCalls[0].ObjectPosition.Z != 10 {
		t.Errorf("kept the wrong model: position %+v", list.DrawCalls[0].ObjectPosition)
	}
}

func TestCollectDrawDistanceAccountsForRadius(t *testing.T) {
	rc, list := newCollectContext(t)
	s, device := testScene(t)
	s.DrawDistance = 20

	// Center is past the draw distance but the bounding sphere still reaches
	// into it.
	addModelAt(t, s, device, math.Vec3{Z: 20.5})

	s.Collect(rc)
	if len(list.DrawCalls) != 1 {
		t.Errorf("DrawCalls = %d, want 1 when the sphere touches the range", len(list.DrawCalls))
	}
}

func TestCollectSkipsNotReadyMaterials(t *testing.T) {
	rc, list := newCollectContext(t)
	s, device := testScene(t)

	model := addModelAt(t, s, device, math.Vec3{Z: 5})
	model.Material.Ready = false

	s.Collect(rc)
	if len(list.DrawCalls) != 0 {
		t.Errorf("DrawCalls = %d, want 0 with an unready material", len(list.DrawCalls))
	}
}

func TestCollectRegistersLightsAndDecals(t *testing.T) {
	rc, list := newCollectContext(t)
	s, _ := testScene(t)

	s.DirectionalLights = append(s.DirectionalLights, metadata.RendererDirectionalLightData{
		Color:     math.Vec3{X: 1, Y: 1, Z: 1},
		Direction: math.Vec3{Y: -1},
	})
	s.PointLights = append(s.PointLights, metadata.RendererPointLightData{Radius: 10})
	s.SpotLights = append(s.SpotLights, metadata.RendererSpotLightData{Radius: 5})
	s.SkyLights = append(s.SkyLights, metadata.RendererSkyLightData{Radius: 100})
	s.Decals = append(s.Decals, metadata.DecalData{})
	s.EnvironmentProbes = append(s.EnvironmentProbes, metadata.EnvironmentProbeData{Radius: 8})

	s.Collect(rc)
	if len(list.DirectionalLights) != 1 || len(list.PointLights) != 1 ||
		len(list.SpotLights) != 1 || len(list.SkyLights) != 1 {
		t.Errorf("lights = (%d, %d, %d, %d), want one of each",
			len(list.DirectionalLights), len(list.PointLights),
			len(list.SpotLights), len(list.SkyLights))
	}
	if len(list.Decals) != 1 || len(list.EnvironmentProbes) != 1 {
		t.Errorf("decals = %d, probes = %d, want 1 each", len(list.Decals), len(list.EnvironmentProbes))
	}
}

func TestCollectPostFxVolumes(t *testing.T) {
	rc, list := newCollectContext(t)
	s, _ := testScene(t)

	intensity := float32(2.0)
	inside := &PostFxVolume{Radius: 5, Falloff: 2, Priority: 3, BloomIntensity: &intensity}
	outside := &PostFxVolume{Center: math.Vec3{X: 100}, Radius: 5, Falloff: 2}
	s.Volumes = append(s.Volumes, inside, outside)

	s.CollectPostFxVolumes(rc)
	if len(list.Blendable) != 1 {
		t.Fatalf("Blendable = %d, want 1 for the camera's volume", len(list.Blendable))
	}
	blend := list.Blendable[0]
	if blend.Weight != 1.0 || blend.Priority != 3 {
		t.Errorf("blend = weight %f priority %d, want weight 1 priority 3", blend.Weight, blend.Priority)
	}
}

func TestPostFxVolumeBlendWeightAt(t *testing.T) {
	v := &PostFxVolume{Radius: 10, Falloff: 4}
	tests := []struct {
		name     string
		position math.Vec3
		want     float32
	}{
		{"center", math.Vec3{}, 1.0},
		{"inside", math.Vec3{X: 9}, 1.0},
		{"surface", math.Vec3{X: 10}, 1.0},
		{"mid falloff", math.Vec3{X: 12}, 0.5},
		{"falloff edge", math.Vec3{X: 14}, 0.0},
		{"beyond", math.Vec3{X: 50}, 0.0},
	}
	for _, tt := range tests {
		got := v.BlendWeightAt(tt.position)
		if diff := got - tt.want; diff > 1e-5 || diff < -1e-5 {
			t.Errorf("%s: BlendWeightAt = %f, want %f", tt.name, got, tt.want)
		}
	}

	// Without a falloff shell the influence cuts off at the surface.
	hard := &PostFxVolume{Radius: 10}
	if got := hard.BlendWeightAt(math.Vec3{X: 10.5}); got != 0 {
		t.Errorf("BlendWeightAt outside a hard volume = %f, want 0", got)
	}
}

func TestPostFxVolumeBlendOverrides(t *testing.T) {
	intensity := float32(3.0)
	focal := float32(25.0)
	v := &PostFxVolume{BloomIntensity: &intensity, FocalDistance: &focal}

	var settings metadata.PostProcessSettings
	settings.Bloom.Intensity = 1.0
	settings.DepthOfField.FocalDistance = 5.0

	v.Blend(&settings, 0.5)
	if settings.Bloom.Intensity != 2.0 {
		t.Errorf("Bloom.Intensity = %f, want 2 at half weight", settings.Bloom.Intensity)
	}
	if !settings.DepthOfField.Enabled {
		t.Error("a focal distance override must enable depth of field")
	}
	if settings.DepthOfField.FocalDistance != 15.0 {
		t.Errorf("FocalDistance = %f, want 15 at half weight", settings.DepthOfField.FocalDistance)
	}
	// Fields without an override stay untouched.
	if settings.MotionBlur.Scale != 0 {
		t.Errorf("MotionBlur.Scale = %f, want untouched", settings.MotionBlur.Scale)
	}
}

func TestCameraDirection(t *testing.T) {
	c := NewCamera()
	direction := c.Direction()
	// The default yaw looks down -Z.
	if direction.Z > -0.999 || direction.Y != 0 {
		t.Errorf("Direction() = %+v, want -Z", direction)
	}

	c.Pitch = math.K_PI / 2.0
	if up := c.Direction(); up.Y < 0.999 {
		t.Errorf("Direction() with pitch up = %+v, want +Y", up)
	}
}

func TestCameraApplyTo(t *testing.T) {
	c := NewCamera()
	c.Position = math.Vec3{X: 1, Y: 2, Z: 3}

	var view metadata.RenderView
	c.ApplyTo(&view, 800, 600)

	if view.Position != c.Position {
		t.Errorf("view.Position = %+v, want %+v", view.Position, c.Position)
	}
	if view.NearPlane != c.NearPlane || view.FarPlane != c.FarPlane {
		t.Errorf("planes = (%f, %f), want (%f, %f)", view.NearPlane, view.FarPlane, c.NearPlane, c.FarPlane)
	}
	if view.ScreenSize.X != 800 || view.ScreenSize.Y != 600 {
		t.Errorf("ScreenSize = %+v, want 800x600", view.ScreenSize)
	}
	if view.IsOrthographic {
		t.Error("IsOrthographic = true for a perspective camera")
	}

	// A zero-sized viewport leaves the view untouched.
	before := view
	c.ApplyTo(&view, 0, 600)
	if view != before {
		t.Error("ApplyTo with zero width modified the view")
	}
}

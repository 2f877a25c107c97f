package renderer

import (
	"testing"

	"github.com/spaghettifunk/lumina/engine/gpu"
	"github.com/spaghettifunk/lumina/engine/math"
	"github.com/spaghettifunk/lumina/engine/renderer/metadata"
)

// testFrame bundles the fixtures most renderer tests need: a recording null
// device, a task with frame buffers and a fresh (unpooled) render list.
type testFrame struct {
	device  *gpu.NullDevice
	context *gpu.NullContext
	task    *SceneRenderTask
	list    *RenderList
	rc      RenderContext
}

func newTestFrame(t *testing.T) *testFrame {
	t.Helper()
	device := gpu.NewNullDevice()
	buffers, err := NewRenderBuffers(device, 64, 64)
	if err != nil {
		t.Fatalf("creating frame buffers: %v", err)
	}
	output, err := device.CreateTexture(gpu.NewTextureDescription2D(64, 64, gpu.TextureFormatR8G8B8A8))
	if err != nil {
		t.Fatalf("creating output: %v", err)
	}
	task := NewSceneRenderTask(output, buffers)

	f := &testFrame{
		device:  device,
		context: device.MainContext().(*gpu.NullContext),
		task:    task,
		list:    &RenderList{},
	}
	f.rc = NewRenderContext(device, task)
	f.rc.Pool = gpu.NewRenderTargetPool(device)
	f.rc.List = f.list
	f.list.Init(&f.rc)
	return f
}

// testGeometry builds a geometry stub with the given runtime id. The buffers
// stay nil; binding them through the null context is state-free.
func testGeometry(id uint32, indexCount uint32) *metadata.Geometry {
	return &metadata.Geometry{ID: id, IndexCount: indexCount, Radius: 1.0}
}

func testMaterial(id, shaderID uint32, instancing bool) *metadata.Material {
	return &metadata.Material{ID: id, ShaderID: shaderID, SupportsInstancing: instancing, Ready: true}
}

// testDrawCall places the object at the given camera distance along +Z.
func testDrawCall(geometry *metadata.Geometry, material *metadata.Material, distance float32) metadata.DrawCall {
	return metadata.DrawCall{
		Geometry:             geometry,
		Material:             material,
		World:                math.NewMat4Translation(math.Vec3{Z: distance}),
		ObjectPosition:       math.Vec3{Z: distance},
		ObjectRadius:         1.0,
		LODDitherFactor:      1.0,
		WorldDeterminantSign: 1.0,
	}
}

package scene

import (
	m "math"
	"testing"

	"github.com/spaghettifunk/lumina/engine/gpu"
	"github.com/spaghettifunk/lumina/engine/math"
)

func TestGenerateCube(t *testing.T) {
	vertices, indices := generateCube(2.0)

	if got, want := len(vertices), 24*vertexStride; got != want {
		t.Errorf("vertex bytes = %d, want %d", got, want)
	}
	if len(indices) != 36 {
		t.Errorf("indices = %d, want 36", len(indices))
	}
	for _, index := range indices {
		if index >= 24 {
			t.Fatalf("index %d out of range for 24 vertices", index)
		}
	}
}

func TestNewCubeGeometry(t *testing.T) {
	device := gpu.NewNullDevice()
	context := device.MainContext().(*gpu.NullContext)

	geometry, err := NewCubeGeometry(device, 1.0)
	if err != nil {
		t.Fatalf("NewCubeGeometry failed: %v", err)
	}
	defer ReleaseGeometry(device, geometry)

	if geometry.IndexCount != 36 {
		t.Errorf("IndexCount = %d, want 36", geometry.IndexCount)
	}
	if got, want := geometry.VertexBuffer.Size(), uint32(24*vertexStride); got != want {
		t.Errorf("vertex buffer size = %d, want %d", got, want)
	}
	if got, want := geometry.IndexBuffer.Size(), uint32(36*4); got != want {
		t.Errorf("index buffer size = %d, want %d", got, want)
	}
	// Both mesh buffers are uploaded on creation.
	if context.BufferUploads != 2 {
		t.Errorf("BufferUploads = %d, want 2", context.BufferUploads)
	}
	// The bounding sphere encloses the cube corners.
	want := float32(m.Sqrt(3)) * 0.5
	if diff := geometry.Radius - want; diff > 1e-6 || diff < -1e-6 {
		t.Errorf("Radius = %f, want %f", geometry.Radius, want)
	}
	if geometry.ID == 0 {
		t.Error("geometry did not acquire a runtime id")
	}
}

func TestNewMaterialLifecycle(t *testing.T) {
	material := NewMaterial(7, true)
	if material.ID == 0 {
		t.Error("material did not acquire a runtime id")
	}
	if !material.IsReady() {
		t.Error("IsReady() = false for a fresh material")
	}
	ReleaseMaterial(material)
	if material.IsReady() {
		t.Error("IsReady() = true after release")
	}
	// Releasing nil must not panic.
	ReleaseMaterial(nil)
}

func TestStaticModelDrawCall(t *testing.T) {
	device := gpu.NewNullDevice()
	geometry, err := NewCubeGeometry(device, 1.0)
	if err != nil {
		t.Fatalf("NewCubeGeometry failed: %v", err)
	}
	defer ReleaseGeometry(device, geometry)
	material := NewMaterial(1, true)
	defer ReleaseMaterial(material)

	model := NewStaticModel(geometry, material, math.NewMat4Translation(math.Vec3{X: 3, Y: 1, Z: -2}))
	drawCall := model.DrawCall()

	if drawCall.WorldDeterminantSign != 1.0 {
		t.Errorf("WorldDeterminantSign = %f, want 1 for a translation", drawCall.WorldDeterminantSign)
	}
	want := math.Vec3{X: 3, Y: 1, Z: -2}
	if drawCall.ObjectPosition != want {
		t.Errorf("ObjectPosition = %+v, want %+v", drawCall.ObjectPosition, want)
	}
	if drawCall.ObjectRadius != geometry.Radius {
		t.Errorf("ObjectRadius = %f, want %f", drawCall.ObjectRadius, geometry.Radius)
	}
	if drawCall.LODDitherFactor != 1.0 {
		t.Errorf("LODDitherFactor = %f, want 1", drawCall.LODDitherFactor)
	}
}

func TestStaticModelDrawCallMirroredWorld(t *testing.T) {
	device := gpu.NewNullDevice()
	geometry, err := NewCubeGeometry(device, 1.0)
	if err != nil {
		t.Fatalf("NewCubeGeometry failed: %v", err)
	}
	defer ReleaseGeometry(device, geometry)
	material := NewMaterial(1, true)
	defer ReleaseMaterial(material)

	model := NewStaticModel(geometry, material, math.NewMat4Scale(math.Vec3{X: -1, Y: 1, Z: 1}))
	if sign := model.DrawCall().WorldDeterminantSign; sign != -1.0 {
		t.Errorf("WorldDeterminantSign = %f, want -1 for a mirrored transform", sign)
	}
}

package scene

import (
	"encoding/binary"
	"fmt"
	m "math"

	"github.com/spaghettifunk/lumina/engine/core"
	"github.com/spaghettifunk/lumina/engine/gpu"
	"github.com/spaghettifunk/lumina/engine/math"
	"github.com/spaghettifunk/lumina/engine/renderer/metadata"
)

// vertexStride is position, normal and texcoord as packed float32.
const vertexStride = (3 + 3 + 2) * 4

// StaticModel is one renderable scene object: a geometry/material pair with
// its world transform and pass routing.
type StaticModel struct {
	Geometry *metadata.Geometry
	Material *metadata.Material

	World       math.Mat4
	DrawModes   metadata.DrawPass
	StaticFlags metadata.StaticFlags

	ReceivesDecals    bool
	PerInstanceRandom float32
}

// NewStaticModel routes the model into the default opaque passes.
func NewStaticModel(geometry *metadata.Geometry, material *metadata.Material, world math.Mat4) *StaticModel {
	return &StaticModel{
		Geometry:          geometry,
		Material:          material,
		World:             world,
		DrawModes:         metadata.DrawPassDepth | metadata.DrawPassGBuffer | metadata.DrawPassMotionVectors,
		ReceivesDecals:    true,
		PerInstanceRandom: math.RandomFloat(),
	}
}

// DrawCall builds the frame draw call for the model's current transform.
func (model *StaticModel) DrawCall() metadata.DrawCall {
	determinant := model.World.Determinant3x3()
	sign := float32(1.0)
	if determinant < 0 {
		sign = -1.0
	}
	return metadata.DrawCall{
		Geometry:             model.Geometry,
		Material:             model.Material,
		World:                model.World,
		ObjectPosition:       model.Geometry.Center.Transform(model.World),
		ObjectRadius:         model.Geometry.Radius,
		PerInstanceRandom:    model.PerInstanceRandom,
		LODDitherFactor:      1.0,
		WorldDeterminantSign: sign,
	}
}

// NewMaterial registers a runtime material for the shader pipeline.
func NewMaterial(shaderID uint32, supportsInstancing bool) *metadata.Material {
	material := &metadata.Material{
		ShaderID:           shaderID,
		SupportsInstancing: supportsInstancing,
		Ready:              true,
	}
	material.ID = core.IdentifierAcquireNewID(material)
	return material
}

// ReleaseMaterial frees the material's runtime id.
func ReleaseMaterial(material *metadata.Material) {
	if material == nil {
		return
	}
	_ = core.IdentifierReleaseID(material.ID)
	material.Ready = false
}

// NewCubeGeometry uploads a unit cube mesh and registers its runtime id.
func NewCubeGeometry(device gpu.Device, size float32) (*metadata.Geometry, error) {
	vertices, indices := generateCube(size)

	vertexBuffer, err := device.CreateBuffer(uint32(len(vertices)), gpu.BufferUsageVertex)
	if err != nil {
		return nil, fmt.Errorf("scene: creating cube vertex buffer: %w", err)
	}
	indexBuffer, err := device.CreateBuffer(uint32(len(indices)*4), gpu.BufferUsageIndex)
	if err != nil {
		device.DestroyBuffer(vertexBuffer)
		return nil, fmt.Errorf("scene: creating cube index buffer: %w", err)
	}

	context := device.MainContext()
	if err := context.UpdateBuffer(vertexBuffer, vertices); err != nil {
		device.DestroyBuffer(vertexBuffer)
		device.DestroyBuffer(indexBuffer)
		return nil, fmt.Errorf("scene: uploading cube vertices: %w", err)
	}
	indexBytes := make([]byte, len(indices)*4)
	for i, index := range indices {
		binary.LittleEndian.PutUint32(indexBytes[i*4:], index)
	}
	if err := context.UpdateBuffer(indexBuffer, indexBytes); err != nil {
		device.DestroyBuffer(vertexBuffer)
		device.DestroyBuffer(indexBuffer)
		return nil, fmt.Errorf("scene: uploading cube indices: %w", err)
	}

	geometry := &metadata.Geometry{
		VertexBuffer: vertexBuffer,
		IndexBuffer:  indexBuffer,
		IndexCount:   uint32(len(indices)),
		Radius:       size * float32(m.Sqrt(3)) * 0.5,
	}
	geometry.ID = core.IdentifierAcquireNewID(geometry)
	return geometry, nil
}

// ReleaseGeometry destroys the geometry buffers and frees its runtime id.
func ReleaseGeometry(device gpu.Device, geometry *metadata.Geometry) {
	if geometry == nil {
		return
	}
	device.DestroyBuffer(geometry.VertexBuffer)
	device.DestroyBuffer(geometry.IndexBuffer)
	_ = core.IdentifierReleaseID(geometry.ID)
}

// generateCube emits 24 vertices (4 per face, split normals) and 36 indices.
func generateCube(size float32) ([]byte, []uint32) {
	half := size * 0.5
	faces := [6]struct {
		normal math.Vec3
		uAxis  math.Vec3
		vAxis  math.Vec3
	}{
		{math.Vec3{Z: 1}, math.Vec3{X: 1}, math.Vec3{Y: 1}},
		{math.Vec3{Z: -1}, math.Vec3{X: -1}, math.Vec3{Y: 1}},
		{math.Vec3{X: 1}, math.Vec3{Z: -1}, math.Vec3{Y: 1}},
		{math.Vec3{X: -1}, math.Vec3{Z: 1}, math.Vec3{Y: 1}},
		{math.Vec3{Y: 1}, math.Vec3{X: 1}, math.Vec3{Z: -1}},
		{math.Vec3{Y: -1}, math.Vec3{X: 1}, math.Vec3{Z: 1}},
	}

	vertices := make([]byte, 0, 24*vertexStride)
	putFloat := func(f float32) {
		var raw [4]byte
		binary.LittleEndian.PutUint32(raw[:], m.Float32bits(f))
		vertices = append(vertices, raw[:]...)
	}
	indices := make([]uint32, 0, 36)

	for f, face := range faces {
		corners := [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}
		for _, corner := range corners {
			position := face.normal.Scale(half).
				Add(face.uAxis.Scale(corner[0] * half)).
				Add(face.vAxis.Scale(corner[1] * half))
			putFloat(position.X)
			putFloat(position.Y)
			putFloat(position.Z)
			putFloat(face.normal.X)
			putFloat(face.normal.Y)
			putFloat(face.normal.Z)
			putFloat(corner[0]*0.5 + 0.5)
			putFloat(corner[1]*0.5 + 0.5)
		}
		base := uint32(f * 4)
		indices = append(indices, base, base+1, base+2, base, base+2, base+3)
	}
	return vertices, indices
}

package metadata

import (
	"encoding/binary"
	m "math"

	"github.com/spaghettifunk/lumina/engine/gpu"
	"github.com/spaghettifunk/lumina/engine/math"
)

// DrawPass selects which render passes an object is drawn into.
type DrawPass uint8

const (
	DrawPassDepth DrawPass = 1 << iota
	DrawPassGBuffer
	DrawPassForward
	DrawPassDistortion
	DrawPassMotionVectors

	DrawPassNone DrawPass = 0
	DrawPassAll  DrawPass = DrawPassDepth | DrawPassGBuffer | DrawPassForward | DrawPassDistortion | DrawPassMotionVectors
)

// StaticFlags mark an object's immutability, used by lighting and motion
// vector passes to skip per-frame work for fully static geometry.
type StaticFlags uint8

const (
	StaticFlagsNone      StaticFlags = 0
	StaticFlagsTransform StaticFlags = 1 << iota
	StaticFlagsLightmap
	StaticFlagsShadow
	StaticFlagsAll = StaticFlagsTransform | StaticFlagsLightmap | StaticFlagsShadow
)

// Geometry references the GPU buffers of one renderable mesh. The runtime ID
// participates in draw call sorting and batching identity.
type Geometry struct {
	ID           uint32
	VertexBuffer gpu.Buffer
	IndexBuffer  gpu.Buffer
	IndexCount   uint32
	Center       math.Vec3
	Radius       float32
}

// Material references the shader pipeline and parameter set of a draw call.
// Draw calls sharing the same material instance may be merged into one
// instanced batch when the material supports it.
type Material struct {
	ID       uint32
	ShaderID uint32
	// SupportsInstancing is false for materials with per-draw parameters that
	// cannot be expressed in the instance data layout.
	SupportsInstancing bool
	// Ready mirrors the asset readiness gate. Draw calls referencing a
	// not-ready material must be filtered before submission.
	Ready bool
}

func (m *Material) IsReady() bool {
	return m != nil && m.Ready
}

// DrawCall describes one renderable unit for the current frame. It is owned
// by the RenderList once added and is immutable for the frame's duration.
type DrawCall struct {
	Geometry *Geometry
	Material *Material
	// World is the object transform at draw time.
	World math.Mat4
	// ObjectPosition is the world-space bounds center, used for distance
	// sorting.
	ObjectPosition math.Vec3
	ObjectRadius   float32
	// PerInstanceRandom seeds shader-side per-object variation.
	PerInstanceRandom float32
	// LODDitherFactor is the crossfade weight during LOD transitions.
	LODDitherFactor float32
	// LightmapUVsArea is the object's rectangle in the lightmap atlas.
	LightmapUVsArea math.Half4
	// WorldDeterminantSign flips under mirroring transforms; calls with
	// different signs require different winding and never batch.
	WorldDeterminantSign float32
	// Distance to the camera, written by the sorter input preparation.
	Distance float32
}

// BatchedDrawCall is a draw call with externally supplied instances (e.g.
// particles). It bypasses per-frame batching and is submitted as one
// pre-formed instanced draw.
type BatchedDrawCall struct {
	DrawCall  DrawCall
	Instances []InstanceData
}

// InstanceDataSize is the packed byte size of one InstanceData element.
const InstanceDataSize = 64

// InstanceData is the fixed-layout per-instance GPU payload written into the
// dynamic instance buffer right before submission.
type InstanceData struct {
	InstanceOrigin       math.Vec3
	PerInstanceRandom    float32
	InstanceTransform1   math.Vec3
	LODDitherFactor      float32
	InstanceTransform2   math.Vec3
	InstanceTransform3   math.Vec3
	InstanceLightmapArea math.Half4
}

// NewInstanceData packs the sort-relevant fields of a draw call into the
// instance layout: origin plus the rotation/scale rows of the world matrix.
func NewInstanceData(drawCall *DrawCall) InstanceData {
	d := &drawCall.World.Data
	return InstanceData{
		InstanceOrigin:       drawCall.World.Origin(),
		PerInstanceRandom:    drawCall.PerInstanceRandom,
		InstanceTransform1:   math.Vec3{X: d[0], Y: d[1], Z: d[2]},
		LODDitherFactor:      drawCall.LODDitherFactor,
		InstanceTransform2:   math.Vec3{X: d[4], Y: d[5], Z: d[6]},
		InstanceTransform3:   math.Vec3{X: d[8], Y: d[9], Z: d[10]},
		InstanceLightmapArea: drawCall.LightmapUVsArea,
	}
}

// Pack appends the GPU byte layout of the instance to dst.
func (i *InstanceData) Pack(dst []byte) []byte {
	var scratch [InstanceDataSize]byte
	b := scratch[:0]
	putFloat := func(f float32) {
		var raw [4]byte
		binary.LittleEndian.PutUint32(raw[:], m.Float32bits(f))
		b = append(b, raw[:]...)
	}
	putHalf := func(h uint16) {
		var raw [2]byte
		binary.LittleEndian.PutUint16(raw[:], h)
		b = append(b, raw[:]...)
	}
	putFloat(i.InstanceOrigin.X)
	putFloat(i.InstanceOrigin.Y)
	putFloat(i.InstanceOrigin.Z)
	putFloat(i.PerInstanceRandom)
	putFloat(i.InstanceTransform1.X)
	putFloat(i.InstanceTransform1.Y)
	putFloat(i.InstanceTransform1.Z)
	putFloat(i.LODDitherFactor)
	putFloat(i.InstanceTransform2.X)
	putFloat(i.InstanceTransform2.Y)
	putFloat(i.InstanceTransform2.Z)
	putFloat(i.InstanceTransform3.X)
	putFloat(i.InstanceTransform3.Y)
	putFloat(i.InstanceTransform3.Z)
	putHalf(i.InstanceLightmapArea.X)
	putHalf(i.InstanceLightmapArea.Y)
	putHalf(i.InstanceLightmapArea.Z)
	putHalf(i.InstanceLightmapArea.W)
	return append(dst, b...)
}

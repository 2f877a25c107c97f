package metadata

import (
	"github.com/spaghettifunk/lumina/engine/math"
)

// ViewMode selects the frame output, either the full pipeline or one of the
// debug visualizations that terminate the frame early.
type ViewMode uint8

const (
	ViewModeDefault ViewMode = iota
	// ViewModeNoPostFx renders the lit scene without the post-processing chain.
	ViewModeNoPostFx
	ViewModeWireframe
	ViewModeEmissive
	ViewModeLightBuffer
	ViewModeReflections
	ViewModeMotionVectors
	ViewModeLightmapUVsDensity
	ViewModeGlobalSDF
)

// IsDebugView reports whether the mode short-circuits the frame right after
// the GBuffer fill.
func (m ViewMode) IsDebugView() bool {
	switch m {
	case ViewModeEmissive, ViewModeLightmapUVsDensity, ViewModeGlobalSDF:
		return true
	}
	return false
}

// ViewFlags toggle optional frame features.
type ViewFlags uint32

const (
	ViewFlagAO ViewFlags = 1 << iota
	ViewFlagShadows
	ViewFlagAntiAliasing
	ViewFlagCustomPostProcess
	ViewFlagBloom
	ViewFlagToneMapping
	ViewFlagEyeAdaptation
	ViewFlagReflections
	ViewFlagSSR
	ViewFlagMotionBlur
	ViewFlagFog
	ViewFlagDecals
	ViewFlagGI
	ViewFlagDepthOfField
	ViewFlagGlobalSDF

	ViewFlagsDefault = ViewFlagAO | ViewFlagShadows | ViewFlagAntiAliasing |
		ViewFlagCustomPostProcess | ViewFlagBloom | ViewFlagToneMapping |
		ViewFlagEyeAdaptation | ViewFlagReflections | ViewFlagMotionBlur |
		ViewFlagFog | ViewFlagDecals | ViewFlagDepthOfField
)

// RenderView is the camera state for one frame, including the temporal
// anti-aliasing jitter sequence and the rendering origin used to detect
// camera cuts.
type RenderView struct {
	Position  math.Vec3
	Direction math.Vec3

	// Origin is the world-space rendering origin. A change between frames is
	// a camera cut: temporal history must not be blended across it.
	Origin     math.Vec3
	PrevOrigin math.Vec3

	View                  math.Mat4
	Projection            math.Mat4
	NonJitteredProjection math.Mat4

	// TemporalAAJitter holds the current (X,Y) and previous (Z,W) sub-pixel
	// jitter in clip space.
	TemporalAAJitter math.Vec4
	TaaFrameIndex    uint32

	NearPlane float32
	FarPlane  float32
	FOV       float32

	ScreenSize     math.Vec2
	IsOrthographic bool

	Flags ViewFlags
	Mode  ViewMode
	// Pass is the draw pass mask used while collecting draw calls.
	Pass DrawPass
}

// taaJitterSequenceLength is the Halton(2,3) cycle used for TAA jitter.
const taaJitterSequenceLength = 8

func halton(index uint32, base uint32) float32 {
	var result float32
	f := float32(1.0)
	for index > 0 {
		f /= float32(base)
		result += f * float32(index%base)
		index /= base
	}
	return result
}

// Prepare updates per-frame view state: advances the TAA jitter sequence and
// applies it to the projection when temporal AA is enabled.
func (v *RenderView) Prepare(useTemporalAAJitter bool) {
	v.NonJitteredProjection = v.Projection
	prevX, prevY := v.TemporalAAJitter.X, v.TemporalAAJitter.Y
	if useTemporalAAJitter && !v.IsOrthographic {
		v.TaaFrameIndex = (v.TaaFrameIndex + 1) % taaJitterSequenceLength
		jitterX := halton(v.TaaFrameIndex+1, 2) - 0.5
		jitterY := halton(v.TaaFrameIndex+1, 3) - 0.5
		v.TemporalAAJitter = math.Vec4{
			X: jitterX, Y: jitterY,
			Z: prevX, W: prevY,
		}
		if v.ScreenSize.X > 0 && v.ScreenSize.Y > 0 {
			v.Projection.Data[8] += 2.0 * jitterX / v.ScreenSize.X
			v.Projection.Data[9] += 2.0 * jitterY / v.ScreenSize.Y
		}
	} else {
		v.TaaFrameIndex = 0
		v.TemporalAAJitter = math.Vec4{Z: prevX, W: prevY}
	}
}

// WorldPosition returns the camera position offset by the rendering origin.
func (v *RenderView) WorldPosition() math.Vec3 {
	return v.Position.Add(v.Origin)
}

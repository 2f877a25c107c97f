// Package passes holds the built-in render pass implementations wired into
// the frame renderer. Each pass owns its shader identifiers and long-lived
// GPU resources; transient targets come from the frame's render target pool.
package passes

import (
	"github.com/spaghettifunk/lumina/engine/renderer"
)

// DefaultPassList builds the full built-in pass set in frame order.
func DefaultPassList() renderer.PassList {
	return renderer.PassList{
		GlobalSDF:          NewGlobalSDF(),
		GBuffer:            NewGBuffer(),
		AmbientOcclusion:   NewScreenSpaceAmbientOcclusion(),
		GlobalIllumination: NewDynamicDiffuseGlobalIllumination(),
		Lights:             NewDeferredLights(),
		Reflections:        NewReflections(),
		VolumetricFog:      NewVolumetricFog(),
		Forward:            NewForward(),
		MotionVectors:      NewMotionVectors(),
		DepthOfField:       NewDepthOfField(),
		EyeAdaptation:      NewEyeAdaptation(),
		ColorGrading:       NewColorGrading(),
		PostProcessing:     NewPostProcessing(),
		TemporalAA:         NewTemporalAntialiasing(),
		FXAA:               NewFXAA(),
		Upscale:            NewMultiScaler(),
	}
}

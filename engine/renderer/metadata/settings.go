package metadata

import (
	"sort"

	"github.com/spaghettifunk/lumina/engine/math"
)

type AntialiasingMode uint8

const (
	AntialiasingModeNone AntialiasingMode = iota
	AntialiasingModeFXAA
	AntialiasingModeTAA
)

type GlobalIlluminationMode uint8

const (
	GlobalIlluminationModeNone GlobalIlluminationMode = iota
	GlobalIlluminationModeDDGI
)

// PostFxLocation orders custom post effects within the frame.
type PostFxLocation uint8

const (
	// PostFxLocationDefault runs after the built-in post-processing chain.
	PostFxLocationDefault PostFxLocation = iota
	PostFxLocationBeforeReflectionsPass
	PostFxLocationBeforeForwardPass
	PostFxLocationBeforePostProcessingPass
	PostFxLocationAfterAntiAliasingPass
	// PostFxLocationCustomUpscale replaces the built-in upscaler.
	PostFxLocationCustomUpscale
)

// MaterialPostFxLocation orders post-fx materials within the frame.
type MaterialPostFxLocation uint8

const (
	MaterialPostFxLocationBeforePostProcessingPass MaterialPostFxLocation = iota
	MaterialPostFxLocationAfterPostProcessingPass
	MaterialPostFxLocationAfterCustomPostEffects
	MaterialPostFxLocationAfterAntiAliasingPass
	MaterialPostFxLocationBeforeReflectionsPass
	MaterialPostFxLocationBeforeForwardPass
	MaterialPostFxLocationMax
)

type AntiAliasingSettings struct {
	Mode AntialiasingMode
}

type MotionBlurSettings struct {
	Enabled bool
	Scale   float32
}

type DepthOfFieldSettings struct {
	Enabled       bool
	FocalDistance float32
	FocalRegion   float32
}

type GlobalIlluminationSettings struct {
	Mode      GlobalIlluminationMode
	Intensity float32
}

type EyeAdaptationSettings struct {
	Enabled      bool
	SpeedUp      float32
	SpeedDown    float32
	MinLuminance float32
	MaxLuminance float32
}

type ColorGradingSettings struct {
	Saturation math.Vec3
	Contrast   math.Vec3
	Gamma      math.Vec3
	Gain       math.Vec3
}

type BloomSettings struct {
	Enabled   bool
	Intensity float32
	Threshold float32
}

// PostProcessSettings is the final blended configuration of all
// post-processing passes for one frame.
type PostProcessSettings struct {
	AntiAliasing       AntiAliasingSettings
	MotionBlur         MotionBlurSettings
	DepthOfField       DepthOfFieldSettings
	GlobalIllumination GlobalIlluminationSettings
	EyeAdaptation      EyeAdaptationSettings
	ColorGrading       ColorGradingSettings
	Bloom              BloomSettings
	// PostFxMaterials are the post-fx materials gathered from blended
	// volumes, with their chain locations.
	PostFxMaterials []PostFxMaterial
}

// PostFxMaterial binds a material-driven fullscreen effect to a location in
// the post-processing chain.
type PostFxMaterial struct {
	Material *Material
	Location MaterialPostFxLocation
}

// PostFxSettingsProvider contributes weighted settings, typically a
// post-process volume the camera is inside of.
type PostFxSettingsProvider interface {
	Blend(settings *PostProcessSettings, weight float32)
}

// BlendableSettings is one provider queued for the pre-frame settings blend.
type BlendableSettings struct {
	Provider      PostFxSettingsProvider
	Weight        float32
	Priority      int32
	VolumeSizeSqr float32
}

// SortBlendableSettings orders providers for blending: ascending priority,
// larger volumes first within equal priority so smaller (inner) volumes win.
func SortBlendableSettings(blendable []BlendableSettings) {
	sort.SliceStable(blendable, func(i, j int) bool {
		if blendable[i].Priority != blendable[j].Priority {
			return blendable[i].Priority < blendable[j].Priority
		}
		return blendable[i].VolumeSizeSqr > blendable[j].VolumeSizeSqr
	})
}

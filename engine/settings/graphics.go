package settings

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/spaghettifunk/lumina/engine/renderer/metadata"
)

// GraphicsSettings is the user-facing rendering configuration, loaded from a
// TOML file and hot-reloadable at runtime. It acts as the lowest-priority
// settings provider in the per-frame blend, so post-process volumes can
// override it locally.
type GraphicsSettings struct {
	Width  uint32 `toml:"width"`
	Height uint32 `toml:"height"`

	// RenderingPercentage below 1 renders the scene at a reduced resolution
	// and upscales into the output.
	RenderingPercentage float32 `toml:"rendering_percentage"`

	// AntiAliasing is one of "none", "fxaa", "taa".
	AntiAliasing string `toml:"anti_aliasing"`
	// GlobalIllumination is one of "none", "ddgi".
	GlobalIllumination string `toml:"global_illumination"`

	MotionBlur    bool `toml:"motion_blur"`
	Bloom         bool `toml:"bloom"`
	EyeAdaptation bool `toml:"eye_adaptation"`
	DepthOfField  bool `toml:"depth_of_field"`
	VolumetricFog bool `toml:"volumetric_fog"`
	SSR           bool `toml:"ssr"`
	Decals        bool `toml:"decals"`
}

// Default returns the configuration used when no settings file exists.
func Default() GraphicsSettings {
	return GraphicsSettings{
		Width:               1280,
		Height:              720,
		RenderingPercentage: 1.0,
		AntiAliasing:        "taa",
		GlobalIllumination:  "none",
		MotionBlur:          true,
		Bloom:               true,
		EyeAdaptation:       true,
		DepthOfField:        false,
		VolumetricFog:       true,
		SSR:                 true,
		Decals:              true,
	}
}

// Load reads the settings file, falling back to defaults for absent keys.
func Load(path string) (GraphicsSettings, error) {
	s := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("settings: reading %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("settings: parsing %s: %w", path, err)
	}
	return s, nil
}

// Save writes the settings file.
func (s *GraphicsSettings) Save(path string) error {
	data, err := toml.Marshal(s)
	if err != nil {
		return fmt.Errorf("settings: encoding: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("settings: writing %s: %w", path, err)
	}
	return nil
}

// AntialiasingMode maps the config string onto the renderer enum. Unknown
// values disable anti-aliasing.
func (s *GraphicsSettings) AntialiasingMode() metadata.AntialiasingMode {
	switch s.AntiAliasing {
	case "fxaa":
		return metadata.AntialiasingModeFXAA
	case "taa":
		return metadata.AntialiasingModeTAA
	}
	return metadata.AntialiasingModeNone
}

// GlobalIlluminationMode maps the config string onto the renderer enum.
func (s *GraphicsSettings) GlobalIlluminationMode() metadata.GlobalIlluminationMode {
	if s.GlobalIllumination == "ddgi" {
		return metadata.GlobalIlluminationModeDDGI
	}
	return metadata.GlobalIlluminationModeNone
}

// ViewFlags derives the frame feature toggles from the configuration.
func (s *GraphicsSettings) ViewFlags() metadata.ViewFlags {
	flags := metadata.ViewFlagsDefault
	if s.AntialiasingMode() == metadata.AntialiasingModeNone {
		flags &^= metadata.ViewFlagAntiAliasing
	}
	if !s.MotionBlur {
		flags &^= metadata.ViewFlagMotionBlur
	}
	if !s.Bloom {
		flags &^= metadata.ViewFlagBloom
	}
	if !s.EyeAdaptation {
		flags &^= metadata.ViewFlagEyeAdaptation
	}
	if !s.DepthOfField {
		flags &^= metadata.ViewFlagDepthOfField
	}
	if !s.VolumetricFog {
		flags &^= metadata.ViewFlagFog
	}
	if !s.Decals {
		flags &^= metadata.ViewFlagDecals
	}
	if s.SSR {
		flags |= metadata.ViewFlagSSR
	}
	if s.GlobalIlluminationMode() != metadata.GlobalIlluminationModeNone {
		flags |= metadata.ViewFlagGI
	}
	return flags
}

// Blend applies the configuration as a settings provider. The graphics
// settings are the frame baseline, so they apply fully regardless of weight.
func (s *GraphicsSettings) Blend(settings *metadata.PostProcessSettings, weight float32) {
	settings.AntiAliasing.Mode = s.AntialiasingMode()
	settings.GlobalIllumination.Mode = s.GlobalIlluminationMode()
	settings.MotionBlur.Enabled = s.MotionBlur
	settings.Bloom.Enabled = s.Bloom
	settings.EyeAdaptation.Enabled = s.EyeAdaptation
	settings.DepthOfField.Enabled = s.DepthOfField
}

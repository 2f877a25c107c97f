package renderer

import (
	"github.com/spaghettifunk/lumina/engine/gpu"
)

// Pass is the lifecycle contract every render pass implements. The renderer
// holds an explicit ordered collection of passes and drives initialization,
// readiness checks and teardown through it; rendering entry points are the
// per-pass capability interfaces below, so the orchestrator only calls what a
// stage actually provides.
type Pass interface {
	Name() string
	Init(device gpu.Device) error
	// IsReady reports whether the pass resources (shaders, lookup textures)
	// finished loading. A frame stage whose pass is not ready is skipped.
	IsReady() bool
	Dispose()
}

// GBufferPass fills the geometry buffers from the sorted opaque draw lists
// and resolves the GBuffer debug views.
type GBufferPass interface {
	Pass
	// Fill renders the opaque scene into the frame's GBuffer targets.
	// lightBuffer receives the emissive term so debug-free frames start from
	// a valid scene color.
	Fill(renderContext *RenderContext, lightBuffer gpu.Texture)
	// RenderDebug resolves the view-mode debug visualization into output.
	RenderDebug(renderContext *RenderContext, output gpu.Texture)
}

// LightPass shades the GBuffer with the collected lights into the light
// buffer.
type LightPass interface {
	Pass
	Render(renderContext *RenderContext, lightBuffer gpu.Texture)
}

// GIPass injects indirect lighting into the light buffer.
type GIPass interface {
	Pass
	Render(renderContext *RenderContext, lightBuffer gpu.Texture)
}

// AmbientOcclusionPass computes the screen-space occlusion term consumed by
// the light pass.
type AmbientOcclusionPass interface {
	Pass
	Render(renderContext *RenderContext)
}

// ReflectionsPass applies probe and screen-space reflections onto the light
// buffer.
type ReflectionsPass interface {
	Pass
	Render(renderContext *RenderContext, lightBuffer gpu.Texture)
}

// VolumetricFogPass builds the froxel fog volume sampled by the forward pass.
type VolumetricFogPass interface {
	Pass
	Render(renderContext *RenderContext)
}

// ForwardPass renders transparency and distortion on top of the lit scene.
// input is the opaque scene color; the pass composites into output.
type ForwardPass interface {
	Pass
	Render(renderContext *RenderContext, input, output gpu.Texture)
}

// MotionVectorsPass renders per-pixel motion into the frame buffers and
// applies motion blur during post-processing.
type MotionVectorsPass interface {
	Pass
	Render(renderContext *RenderContext)
	// RenderMotionBlur blurs input into output. Returns false when the pass
	// decided to skip (e.g. zero blur scale), leaving output untouched.
	RenderMotionBlur(renderContext *RenderContext, input, output gpu.Texture) bool
	RenderDebug(renderContext *RenderContext, output gpu.Texture)
}

// DepthOfFieldPass blurs input by circle of confusion into output. Returns
// false when skipped.
type DepthOfFieldPass interface {
	Pass
	Render(renderContext *RenderContext, input, output gpu.Texture) bool
}

// EyeAdaptationPass measures scene luminance and adapts the exposure state in
// place; it reads the color buffer but writes no color output.
type EyeAdaptationPass interface {
	Pass
	Render(renderContext *RenderContext, colorBuffer gpu.Texture)
}

// ColorGradingPass bakes the frame's grading settings into a lookup texture
// sampled by tone mapping.
type ColorGradingPass interface {
	Pass
	RenderLUT(renderContext *RenderContext) (*gpu.RenderTargetLease, error)
}

// PostProcessingPass runs bloom and tone mapping, sampling the color grading
// LUT when one is provided.
type PostProcessingPass interface {
	Pass
	Render(renderContext *RenderContext, input, output gpu.Texture, colorGradingLUT gpu.Texture)
}

// TemporalAAPass resolves the jittered frame against accumulated history.
type TemporalAAPass interface {
	Pass
	Render(renderContext *RenderContext, input, output gpu.Texture)
}

// FXAAPass applies fast approximate anti-aliasing.
type FXAAPass interface {
	Pass
	Render(renderContext *RenderContext, input, output gpu.Texture)
}

// UpscalePass resolves a reduced-resolution frame into the output viewport.
type UpscalePass interface {
	Pass
	Upscale(renderContext *RenderContext, outputViewport gpu.Viewport, input, output gpu.Texture)
}

// GlobalSDFPass maintains the global signed distance field used by GI and
// renders its debug view.
type GlobalSDFPass interface {
	Pass
	Render(renderContext *RenderContext)
	RenderDebug(renderContext *RenderContext, output gpu.Texture)
}

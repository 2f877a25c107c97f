package renderer

import (
	"github.com/spaghettifunk/lumina/engine/core"
	"github.com/spaghettifunk/lumina/engine/gpu"
	"github.com/spaghettifunk/lumina/engine/renderer/metadata"
)

// PostFxEffect is a custom effect hooked into the post-processing chain at a
// fixed location. Effects come from two places: the task's persistent hooks
// and per-frame registrations on the render list.
type PostFxEffect interface {
	Location() metadata.PostFxLocation
	IsReady() bool
	// Render reads input and writes into output. Input and output are never
	// the same texture.
	Render(context gpu.Context, renderContext *RenderContext, input, output gpu.Texture)
}

func forEachPostFx(renderContext *RenderContext, location metadata.PostFxLocation, fn func(PostFxEffect)) {
	for _, fx := range renderContext.Task.CustomPostFx {
		if fx != nil && fx.Location() == location && fx.IsReady() {
			fn(fx)
		}
	}
	for _, fx := range renderContext.List.PostFx {
		if fx != nil && fx.Location() == location && fx.IsReady() {
			fn(fx)
		}
	}
}

// HasAnyPostFx reports whether any ready custom effect is registered at the
// location, checked before leasing scratch targets for a chain stage.
func HasAnyPostFx(renderContext *RenderContext, location metadata.PostFxLocation) bool {
	any := false
	forEachPostFx(renderContext, location, func(PostFxEffect) { any = true })
	return any
}

// HasAnyMaterialPostFx reports whether the blended settings carry a ready
// post-fx material for the location.
func HasAnyMaterialPostFx(renderContext *RenderContext, location metadata.MaterialPostFxLocation) bool {
	for _, m := range renderContext.List.Settings.PostFxMaterials {
		if m.Location == location && m.Material.IsReady() {
			return true
		}
	}
	return false
}

// RunCustomPostFxPass runs every ready custom effect registered at the
// location, ping-ponging between the two targets. After the call *input
// points at the latest result.
func RunCustomPostFxPass(renderContext *RenderContext, location metadata.PostFxLocation, input, output *gpu.Texture) {
	if renderContext.View.Flags&metadata.ViewFlagCustomPostProcess == 0 {
		return
	}
	context := renderContext.Context
	forEachPostFx(renderContext, location, func(fx PostFxEffect) {
		fx.Render(context, renderContext, *input, *output)
		*input, *output = *output, *input
	})
}

// RunMaterialPostFxPass draws every ready post-fx material bound to the
// location as a fullscreen triangle, ping-ponging between the two targets.
func RunMaterialPostFxPass(renderContext *RenderContext, location metadata.MaterialPostFxLocation, input, output *gpu.Texture) {
	if renderContext.View.Flags&metadata.ViewFlagCustomPostProcess == 0 {
		return
	}
	context := renderContext.Context
	for _, m := range renderContext.List.Settings.PostFxMaterials {
		if m.Location != location || !m.Material.IsReady() {
			continue
		}
		context.ResetSR()
		context.SetRenderTarget(*output, nil)
		context.BindTexture(0, *input)
		context.BindShader(m.Material.ShaderID)
		context.BindMaterial(m.Material.ID)
		context.DrawFullscreenTriangle()
		*input, *output = *output, *input
	}
}

// RunPostFxPass renders every custom and material effect bound to a chain
// stage from input into output, landing the final image in output. A single
// effect draws directly; longer chains ping-pong through a pooled scratch
// target. With no ready effect at the stage the output stays untouched, so
// callers gate on HasAnyPostFx/HasAnyMaterialPostFx.
func RunPostFxPass(renderContext *RenderContext, location metadata.PostFxLocation, materialLocation metadata.MaterialPostFxLocation, input, output gpu.Texture) {
	context := renderContext.Context

	var stages []func(in, out gpu.Texture)
	if renderContext.View.Flags&metadata.ViewFlagCustomPostProcess != 0 {
		forEachPostFx(renderContext, location, func(fx PostFxEffect) {
			stages = append(stages, func(in, out gpu.Texture) {
				fx.Render(context, renderContext, in, out)
			})
		})
		for _, m := range renderContext.List.Settings.PostFxMaterials {
			if m.Location != materialLocation || !m.Material.IsReady() {
				continue
			}
			material := m.Material
			stages = append(stages, func(in, out gpu.Texture) {
				context.ResetSR()
				context.SetRenderTarget(out, nil)
				context.BindTexture(0, in)
				context.BindShader(material.ShaderID)
				context.BindMaterial(material.ID)
				context.DrawFullscreenTriangle()
			})
		}
	}

	switch len(stages) {
	case 0:
		return
	case 1:
		stages[0](input, output)
		return
	}

	lease, err := renderContext.Pool.Acquire(output.Description())
	if err != nil {
		core.LogError("post fx scratch unavailable: %s", err.Error())
		stages[len(stages)-1](input, output)
		return
	}
	defer lease.Release()

	// Alternate targets so the last stage always writes the output.
	a, b := output, lease.Texture()
	if len(stages)%2 == 0 {
		a, b = b, a
	}
	stages[0](input, a)
	for _, stage := range stages[1:] {
		stage(a, b)
		a, b = b, a
	}
}

// RunCustomUpscalePass hands the final resolve to the first ready effect
// registered at the custom upscale location. Returns false when none exists
// and the built-in upscaler should run instead.
func RunCustomUpscalePass(renderContext *RenderContext, input, output gpu.Texture) bool {
	context := renderContext.Context
	done := false
	forEachPostFx(renderContext, metadata.PostFxLocationCustomUpscale, func(fx PostFxEffect) {
		if done {
			return
		}
		fx.Render(context, renderContext, input, output)
		done = true
	})
	return done
}

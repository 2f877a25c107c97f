package renderer

import (
	"fmt"

	"github.com/spaghettifunk/lumina/engine/core"
	"github.com/spaghettifunk/lumina/engine/gpu"
	"github.com/spaghettifunk/lumina/engine/renderer/metadata"
)

// PassList is the explicit set of passes a renderer runs, injected at
// construction. Any entry may be nil; the corresponding frame stages are
// skipped, which keeps headless and test configurations cheap.
type PassList struct {
	GlobalSDF          GlobalSDFPass
	GBuffer            GBufferPass
	AmbientOcclusion   AmbientOcclusionPass
	GlobalIllumination GIPass
	Lights             LightPass
	Reflections        ReflectionsPass
	VolumetricFog      VolumetricFogPass
	Forward            ForwardPass
	MotionVectors      MotionVectorsPass
	DepthOfField       DepthOfFieldPass
	EyeAdaptation      EyeAdaptationPass
	ColorGrading       ColorGradingPass
	PostProcessing     PostProcessingPass
	TemporalAA         TemporalAAPass
	FXAA               FXAAPass
	Upscale            UpscalePass
}

// Renderer executes scene render tasks: it collects the frame's draw calls
// through the task callbacks, sorts and batches them, and drives the pass
// sequence that turns them into the final output image. All per-frame state
// lives in the RenderContext, so one renderer serves any number of tasks.
type Renderer struct {
	device gpu.Device
	pool   *gpu.RenderTargetPool

	// passes holds every injected pass in frame order for lifecycle calls.
	passes []Pass

	globalSDF      GlobalSDFPass
	gbuffer        GBufferPass
	ao             AmbientOcclusionPass
	gi             GIPass
	lights         LightPass
	reflections    ReflectionsPass
	volumetricFog  VolumetricFogPass
	forward        ForwardPass
	motionVectors  MotionVectorsPass
	depthOfField   DepthOfFieldPass
	eyeAdaptation  EyeAdaptationPass
	colorGrading   ColorGradingPass
	postProcessing PostProcessingPass
	taa            TemporalAAPass
	fxaa           FXAAPass
	upscale        UpscalePass
}

// NewRenderer builds a renderer around the device and initializes every
// injected pass in frame order.
func NewRenderer(device gpu.Device, passes PassList) (*Renderer, error) {
	if device == nil {
		return nil, fmt.Errorf("renderer: nil device")
	}
	r := &Renderer{
		device:         device,
		pool:           gpu.NewRenderTargetPool(device),
		globalSDF:      passes.GlobalSDF,
		gbuffer:        passes.GBuffer,
		ao:             passes.AmbientOcclusion,
		gi:             passes.GlobalIllumination,
		lights:         passes.Lights,
		reflections:    passes.Reflections,
		volumetricFog:  passes.VolumetricFog,
		forward:        passes.Forward,
		motionVectors:  passes.MotionVectors,
		depthOfField:   passes.DepthOfField,
		eyeAdaptation:  passes.EyeAdaptation,
		colorGrading:   passes.ColorGrading,
		postProcessing: passes.PostProcessing,
		taa:            passes.TemporalAA,
		fxaa:           passes.FXAA,
		upscale:        passes.Upscale,
	}
	for _, p := range []Pass{
		passes.GlobalSDF, passes.GBuffer, passes.AmbientOcclusion,
		passes.GlobalIllumination, passes.Lights, passes.Reflections,
		passes.VolumetricFog, passes.Forward, passes.MotionVectors,
		passes.DepthOfField, passes.EyeAdaptation, passes.ColorGrading,
		passes.PostProcessing, passes.TemporalAA, passes.FXAA, passes.Upscale,
	} {
		if p != nil {
			r.passes = append(r.passes, p)
		}
	}
	for _, p := range r.passes {
		if err := p.Init(device); err != nil {
			core.LogError("render pass %s failed to initialize: %s", p.Name(), err.Error())
			return nil, fmt.Errorf("renderer: initializing pass %s: %w", p.Name(), err)
		}
		core.LogDebug("render pass %s initialized", p.Name())
	}
	return r, nil
}

// Pool exposes the render target pool, e.g. for leak checks and memory
// pressure cleanup between levels.
func (r *Renderer) Pool() *gpu.RenderTargetPool { return r.pool }

// IsReady reports whether every pass finished loading its resources.
func (r *Renderer) IsReady() bool {
	for _, p := range r.passes {
		if !p.IsReady() {
			return false
		}
	}
	return true
}

// Dispose tears down the passes in reverse frame order and destroys the
// pooled render targets.
func (r *Renderer) Dispose() {
	for i := len(r.passes) - 1; i >= 0; i-- {
		r.passes[i].Dispose()
	}
	r.pool.Cleanup()
}

// NeedMotionVectors reports whether the frame requires the motion vectors
// pass: the debug view, TAA history reprojection or an active motion blur.
func (r *Renderer) NeedMotionVectors(renderContext *RenderContext) bool {
	if r.motionVectors == nil {
		return false
	}
	view := renderContext.View
	settings := &renderContext.List.Settings
	if view.Mode == metadata.ViewModeMotionVectors {
		return true
	}
	if view.Flags&metadata.ViewFlagAntiAliasing != 0 && settings.AntiAliasing.Mode == metadata.AntialiasingModeTAA {
		return true
	}
	return view.Flags&metadata.ViewFlagMotionBlur != 0 &&
		settings.MotionBlur.Enabled && settings.MotionBlur.Scale > 0
}

// Render draws the task's scene into its output. The render list lease, the
// scene callbacks, the settings blend and the camera-cut lifecycle all happen
// here; the pass sequence itself runs in renderInner.
func (r *Renderer) Render(task *SceneRenderTask) error {
	if task == nil {
		return fmt.Errorf("renderer: nil task")
	}
	if task.Output == nil || task.Buffers == nil {
		return fmt.Errorf("renderer: task missing output or frame buffers")
	}
	if err := task.Buffers.Prepare(); err != nil {
		return fmt.Errorf("renderer: %w", err)
	}

	renderContext := NewRenderContext(r.device, task)
	renderContext.Pool = r.pool

	list := GetFromPool()
	defer ReturnToPool(list)
	renderContext.List = list

	context := renderContext.Context
	context.ClearState()

	// An origin teleport between frames is a camera cut; temporal passes
	// must not blend history across it.
	if task.View.Origin != task.View.PrevOrigin {
		task.CameraCut()
	}

	list.Init(&renderContext)
	if task.OnCollectDrawCalls != nil {
		task.OnCollectDrawCalls(&renderContext)
	}
	if task.OnCollectPostFxVolumes != nil {
		task.OnCollectPostFxVolumes(&renderContext)
	}
	list.BlendSettings()

	// Jitter only when the blended settings actually run TAA this frame.
	useTAA := r.taa != nil &&
		task.View.Flags&metadata.ViewFlagAntiAliasing != 0 &&
		list.Settings.AntiAliasing.Mode == metadata.AntialiasingModeTAA
	task.View.Prepare(useTAA)

	if task.OnPreRender != nil {
		task.OnPreRender(context, &renderContext)
	}

	r.renderInner(&renderContext)

	if task.OnPostRender != nil {
		task.OnPostRender(context, &renderContext)
	}
	context.FlushState()

	task.View.PrevOrigin = task.View.Origin
	task.ClearCameraCut()
	core.MetricsReportStats(list.Stats)
	return nil
}

// renderInner runs the pass sequence for one frame. Transient render targets
// are leased from the pool with idempotent releases deferred up front, so
// every early return (debug views, lease failures) leaves the pool balanced.
func (r *Renderer) renderInner(renderContext *RenderContext) {
	task := renderContext.Task
	view := renderContext.View
	list := renderContext.List
	buffers := renderContext.Buffers
	context := renderContext.Context

	width, height := renderResolution(buffers, task.RenderingPercentage)
	context.SetViewportAndScissors(gpu.Viewport{Width: float32(width), Height: float32(height)})

	// Opaque lists draw front to back, transparency back to front.
	list.SortDrawCallsList(renderContext, false, metadata.DrawCallsListDepth)
	list.SortDrawCallsList(renderContext, false, metadata.DrawCallsListGBuffer)
	list.SortDrawCallsList(renderContext, false, metadata.DrawCallsListGBufferNoDecals)
	list.SortDrawCallsList(renderContext, true, metadata.DrawCallsListForward)
	list.SortDrawCallsList(renderContext, true, metadata.DrawCallsListDistortion)
	list.SortDrawCallsList(renderContext, false, metadata.DrawCallsListMotionVectors)

	// The global SDF feeds dynamic GI and has its own debug view.
	if r.globalSDF != nil &&
		(view.Flags&metadata.ViewFlagGlobalSDF != 0 ||
			view.Mode == metadata.ViewModeGlobalSDF ||
			list.Settings.GlobalIllumination.Mode == metadata.GlobalIlluminationModeDDGI) {
		r.globalSDF.Render(renderContext)
	}
	if view.Mode == metadata.ViewModeGlobalSDF {
		if r.globalSDF != nil {
			r.globalSDF.RenderDebug(renderContext, task.Output)
		}
		return
	}

	// Depth prepass.
	context.SetRenderTarget(nil, buffers.DepthBuffer)
	list.ExecuteDrawCallsList(renderContext, metadata.DrawCallsListDepth, nil)

	if r.NeedMotionVectors(renderContext) {
		r.motionVectors.Render(renderContext)
	}

	// The light buffer carries the scene color for the rest of the frame.
	sceneColorDesc := gpu.NewTextureDescription2D(width, height, buffers.OutputFormat())
	lightBufferLease, err := r.pool.Acquire(sceneColorDesc)
	if err != nil {
		core.LogError("failed to acquire light buffer: %s", err.Error())
		return
	}
	defer lightBufferLease.Release()
	lightBuffer := lightBufferLease.Texture()

	if r.gbuffer != nil {
		r.gbuffer.Fill(renderContext, lightBuffer)
	}

	// Debug views resolve straight to the output and end the frame.
	if view.Mode.IsDebugView() {
		if r.gbuffer != nil {
			r.gbuffer.RenderDebug(renderContext, task.Output)
		}
		return
	}
	if view.Mode == metadata.ViewModeMotionVectors {
		if r.motionVectors != nil {
			r.motionVectors.RenderDebug(renderContext, task.Output)
		}
		return
	}

	if r.ao != nil && view.Flags&metadata.ViewFlagAO != 0 {
		r.ao.Render(renderContext)
	}
	if r.gi != nil && view.Flags&metadata.ViewFlagGI != 0 &&
		list.Settings.GlobalIllumination.Mode != metadata.GlobalIlluminationModeNone {
		r.gi.Render(renderContext, lightBuffer)
	}
	if r.lights != nil {
		r.lights.Render(renderContext, lightBuffer)
	}
	if view.Mode == metadata.ViewModeLightBuffer {
		copyToOutput(renderContext, lightBuffer)
		return
	}

	// Scratch target for the ping-pong chain; frame tracks the latest
	// result from here on.
	tmpLease, err := r.pool.Acquire(sceneColorDesc)
	if err != nil {
		core.LogError("failed to acquire post-processing target: %s", err.Error())
		copyToOutput(renderContext, lightBuffer)
		return
	}
	defer tmpLease.Release()
	frame := lightBuffer
	tmp := tmpLease.Texture()

	RunCustomPostFxPass(renderContext, metadata.PostFxLocationBeforeReflectionsPass, &frame, &tmp)
	RunMaterialPostFxPass(renderContext, metadata.MaterialPostFxLocationBeforeReflectionsPass, &frame, &tmp)

	if r.reflections != nil && view.Flags&metadata.ViewFlagReflections != 0 {
		r.reflections.Render(renderContext, frame)
	}
	// The view mode terminates the frame even when the pass itself is
	// disabled; the debug output then shows the unmodified scene color.
	if view.Mode == metadata.ViewModeReflections {
		copyToOutput(renderContext, frame)
		return
	}

	if r.volumetricFog != nil && view.Flags&metadata.ViewFlagFog != 0 {
		r.volumetricFog.Render(renderContext)
	}

	RunCustomPostFxPass(renderContext, metadata.PostFxLocationBeforeForwardPass, &frame, &tmp)
	RunMaterialPostFxPass(renderContext, metadata.MaterialPostFxLocationBeforeForwardPass, &frame, &tmp)

	if r.forward != nil {
		// Transparency reads the scene color it composites over, so the
		// pass draws into the other target.
		r.forward.Render(renderContext, frame, tmp)
		frame, tmp = tmp, frame
	}

	if view.Mode == metadata.ViewModeNoPostFx || view.Mode == metadata.ViewModeWireframe {
		copyToOutput(renderContext, frame)
		return
	}

	RunMaterialPostFxPass(renderContext, metadata.MaterialPostFxLocationBeforePostProcessingPass, &frame, &tmp)
	RunCustomPostFxPass(renderContext, metadata.PostFxLocationBeforePostProcessingPass, &frame, &tmp)

	if r.depthOfField != nil && view.Flags&metadata.ViewFlagDepthOfField != 0 &&
		list.Settings.DepthOfField.Enabled {
		if r.depthOfField.Render(renderContext, frame, tmp) {
			frame, tmp = tmp, frame
		}
	}
	if r.motionVectors != nil && view.Flags&metadata.ViewFlagMotionBlur != 0 &&
		list.Settings.MotionBlur.Enabled && !task.IsCameraCut {
		if r.motionVectors.RenderMotionBlur(renderContext, frame, tmp) {
			frame, tmp = tmp, frame
		}
	}
	if r.eyeAdaptation != nil && view.Flags&metadata.ViewFlagEyeAdaptation != 0 &&
		list.Settings.EyeAdaptation.Enabled {
		r.eyeAdaptation.Render(renderContext, frame)
	}

	if r.postProcessing != nil {
		var lut gpu.Texture
		if r.colorGrading != nil {
			lutLease, lutErr := r.colorGrading.RenderLUT(renderContext)
			if lutErr != nil {
				core.LogWarn("color grading LUT unavailable: %s", lutErr.Error())
			} else {
				defer lutLease.Release()
				lut = lutLease.Texture()
			}
		}
		r.postProcessing.Render(renderContext, frame, tmp, lut)
		frame, tmp = tmp, frame
	}

	RunMaterialPostFxPass(renderContext, metadata.MaterialPostFxLocationAfterPostProcessingPass, &frame, &tmp)
	RunCustomPostFxPass(renderContext, metadata.PostFxLocationDefault, &frame, &tmp)
	RunMaterialPostFxPass(renderContext, metadata.MaterialPostFxLocationAfterCustomPostEffects, &frame, &tmp)

	// At full resolution anti-aliasing resolves into its final target
	// directly: the output itself when nothing runs after it, otherwise the
	// remaining effects chain from the resolve into the output, skipping the
	// scratch round-trip and final blit either way.
	if task.RenderingPercentage >= 1.0 {
		afterAA := view.Flags&metadata.ViewFlagCustomPostProcess != 0 &&
			(HasAnyPostFx(renderContext, metadata.PostFxLocationAfterAntiAliasingPass) ||
				HasAnyMaterialPostFx(renderContext, metadata.MaterialPostFxLocationAfterAntiAliasingPass))
		if !afterAA {
			if r.renderAntiAliasingTo(renderContext, frame, task.Output) {
				return
			}
			copyToOutput(renderContext, frame)
			return
		}
		frame, tmp = r.RenderAntiAliasingPass(renderContext, frame, tmp)
		RunPostFxPass(renderContext, metadata.PostFxLocationAfterAntiAliasingPass,
			metadata.MaterialPostFxLocationAfterAntiAliasingPass, frame, task.Output)
		return
	}

	frame, tmp = r.RenderAntiAliasingPass(renderContext, frame, tmp)

	RunCustomPostFxPass(renderContext, metadata.PostFxLocationAfterAntiAliasingPass, &frame, &tmp)
	RunMaterialPostFxPass(renderContext, metadata.MaterialPostFxLocationAfterAntiAliasingPass, &frame, &tmp)

	// Upscale into the output: a custom upscaler if one is registered, the
	// built-in one otherwise, a plain copy as the last resort.
	if RunCustomUpscalePass(renderContext, frame, task.Output) {
		return
	}
	if r.upscale != nil {
		r.upscale.Upscale(renderContext, task.OutputViewport(), frame, task.Output)
		return
	}
	copyToOutput(renderContext, frame)
}

// RenderAntiAliasingPass resolves the frame with the configured anti-aliasing
// mode and returns the swapped ping-pong pair. With no matching pass the pair
// comes back unchanged.
func (r *Renderer) RenderAntiAliasingPass(renderContext *RenderContext, frame, tmp gpu.Texture) (gpu.Texture, gpu.Texture) {
	if r.renderAntiAliasingTo(renderContext, frame, tmp) {
		return tmp, frame
	}
	return frame, tmp
}

// renderAntiAliasingTo resolves input into output with the configured
// anti-aliasing mode. Returns false when no pass ran and output is untouched.
func (r *Renderer) renderAntiAliasingTo(renderContext *RenderContext, input, output gpu.Texture) bool {
	view := renderContext.View
	if view.Flags&metadata.ViewFlagAntiAliasing == 0 {
		return false
	}
	switch renderContext.List.Settings.AntiAliasing.Mode {
	case metadata.AntialiasingModeTAA:
		if r.taa != nil {
			r.taa.Render(renderContext, input, output)
			return true
		}
	case metadata.AntialiasingModeFXAA:
		if r.fxaa != nil {
			r.fxaa.Render(renderContext, input, output)
			return true
		}
	}
	return false
}

// DrawSceneDepth renders scene depth into a caller-provided target outside
// the main frame sequence, for shadow maps and depth-only captures. The draw
// calls come from the task's collect callback, or from customActors when the
// caller supplies an explicit set. The pass leases its own render list, so a
// frame in flight on the same task stays untouched.
func (r *Renderer) DrawSceneDepth(context gpu.Context, task *SceneRenderTask, depth gpu.Texture, customActors []metadata.DrawCall) error {
	if task == nil || depth == nil {
		return fmt.Errorf("renderer: depth render needs a task and a depth target")
	}
	renderContext := NewRenderContext(r.device, task)
	renderContext.Pool = r.pool
	renderContext.Context = context

	list := GetFromPool()
	defer ReturnToPool(list)
	renderContext.List = list
	list.Init(&renderContext)

	if len(customActors) > 0 {
		for _, drawCall := range customActors {
			list.AddDrawCall(metadata.DrawPassDepth, metadata.StaticFlagsNone, drawCall, false)
		}
	} else if task.OnCollectDrawCalls != nil {
		task.OnCollectDrawCalls(&renderContext)
	}

	list.SortDrawCallsList(&renderContext, false, metadata.DrawCallsListDepth)
	context.SetRenderTarget(nil, depth)
	list.ExecuteDrawCallsList(&renderContext, metadata.DrawCallsListDepth, nil)
	context.ResetRenderTarget()
	return nil
}

// copyToOutput resolves the frame into the task output at the full viewport.
func copyToOutput(renderContext *RenderContext, frame gpu.Texture) {
	context := renderContext.Context
	context.ResetSR()
	context.SetRenderTarget(renderContext.Task.Output, nil)
	context.SetViewportAndScissors(renderContext.Task.OutputViewport())
	context.DrawTexture(frame)
}

// renderResolution applies the task's rendering percentage to the frame
// buffer size, clamped to at least one pixel.
func renderResolution(buffers *RenderBuffers, percentage float32) (uint32, uint32) {
	if percentage <= 0 || percentage > 1 {
		percentage = 1
	}
	width := uint32(float32(buffers.Width()) * percentage)
	height := uint32(float32(buffers.Height()) * percentage)
	if width == 0 {
		width = 1
	}
	if height == 0 {
		height = 1
	}
	return width, height
}

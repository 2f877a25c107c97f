package renderer

import (
	"github.com/spaghettifunk/lumina/engine/core"
	"github.com/spaghettifunk/lumina/engine/gpu"
	"github.com/spaghettifunk/lumina/engine/renderer/metadata"
)

// SceneRenderTask describes one scene-to-texture rendering job: the camera
// view, the output target and the scene callbacks that feed draw calls into
// the frame. The scene graph itself stays outside the renderer; it
// contributes only through these callbacks.
type SceneRenderTask struct {
	// View is the camera state; the renderer writes jitter/TAA state back
	// into it every frame.
	View metadata.RenderView

	// Output is the swapchain or texture the final frame lands in.
	Output gpu.Texture
	// Buffers are the persistent frame targets for this task.
	Buffers *RenderBuffers

	// RenderingPercentage below 1 renders the scene at a reduced resolution
	// and upscales into the output.
	RenderingPercentage float32

	// IsCameraCut marks a camera discontinuity. It does not abort the frame;
	// temporal passes skip history blending until the flag clears at frame
	// end.
	IsCameraCut bool

	// CustomPostFx are effect hooks injected into the post-processing chain.
	CustomPostFx []PostFxEffect

	// OnCollectDrawCalls walks the visible scene and submits draw calls via
	// RenderContext.List.AddDrawCall. Visibility culling is the callback's
	// job; the list performs pure inserts.
	OnCollectDrawCalls func(renderContext *RenderContext)
	// OnCollectPostFxVolumes queues blendable settings providers.
	OnCollectPostFxVolumes func(renderContext *RenderContext)
	// OnPreRender/OnPostRender bracket the frame on the GPU context.
	OnPreRender  func(context gpu.Context, renderContext *RenderContext)
	OnPostRender func(context gpu.Context, renderContext *RenderContext)
}

// NewSceneRenderTask binds a task to its output and frame buffers with
// default view settings.
func NewSceneRenderTask(output gpu.Texture, buffers *RenderBuffers) *SceneRenderTask {
	task := &SceneRenderTask{
		Output:              output,
		Buffers:             buffers,
		RenderingPercentage: 1.0,
	}
	task.View.Flags = metadata.ViewFlagsDefault
	if output != nil {
		task.View.ScreenSize.X = float32(output.Width())
		task.View.ScreenSize.Y = float32(output.Height())
	}
	return task
}

// CameraCut flags a view discontinuity. The current frame still completes;
// the flag keeps temporal passes from blending against stale history.
func (t *SceneRenderTask) CameraCut() {
	if !t.IsCameraCut {
		core.LogDebug("camera cut on render task")
	}
	t.IsCameraCut = true
	core.EventFire(core.EventContext{Type: core.EVENT_CODE_CAMERA_CUT, Data: t})
}

// ClearCameraCut resets the discontinuity flag, called at frame end.
func (t *SceneRenderTask) ClearCameraCut() {
	t.IsCameraCut = false
}

// OutputViewport returns the full-output viewport.
func (t *SceneRenderTask) OutputViewport() gpu.Viewport {
	if t.Output == nil {
		return gpu.Viewport{}
	}
	return gpu.Viewport{
		Width:  float32(t.Output.Width()),
		Height: float32(t.Output.Height()),
	}
}

// AddCustomPostFx registers an effect hook for this task.
func (t *SceneRenderTask) AddCustomPostFx(postFx PostFxEffect) {
	t.CustomPostFx = append(t.CustomPostFx, postFx)
}

package renderer

import (
	"github.com/spaghettifunk/lumina/engine/gpu"
	"github.com/spaghettifunk/lumina/engine/renderer/metadata"
)

// RenderContext bundles the per-frame state threaded through every pass: the
// task being rendered, its leased render list, the frame buffers, the camera
// view and the GPU device/context everything is submitted through. The view
// is a pointer into the task so that state written during rendering (jitter,
// TAA frame index) survives the frame.
type RenderContext struct {
	Task    *SceneRenderTask
	List    *RenderList
	Buffers *RenderBuffers
	View    *metadata.RenderView

	Device  gpu.Device
	Context gpu.Context
	// Pool leases transient render targets. Every lease taken during a frame
	// must be released before the frame ends.
	Pool *gpu.RenderTargetPool
}

// NewRenderContext prepares a context for the task.
func NewRenderContext(device gpu.Device, task *SceneRenderTask) RenderContext {
	return RenderContext{
		Task:    task,
		Buffers: task.Buffers,
		View:    &task.View,
		Device:  device,
		Context: device.MainContext(),
	}
}

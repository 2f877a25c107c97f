package passes

import (
	"github.com/spaghettifunk/lumina/engine/core"
	"github.com/spaghettifunk/lumina/engine/gpu"
	"github.com/spaghettifunk/lumina/engine/renderer"
)

// TemporalAntialiasing resolves the jittered frame against accumulated
// history, reprojected through the motion vectors. The history target
// persists across frames; a camera cut restarts accumulation from the
// current frame instead of blending against stale pixels.
type TemporalAntialiasing struct {
	device gpu.Device

	history     gpu.Texture
	historyDesc gpu.TextureDescription

	resolveShader uint32

	ready bool
}

func NewTemporalAntialiasing() *TemporalAntialiasing { return &TemporalAntialiasing{} }

func (p *TemporalAntialiasing) Name() string { return "TAA" }

func (p *TemporalAntialiasing) Init(device gpu.Device) error {
	p.device = device
	p.resolveShader = core.IdentifierAcquireNewID(p)
	p.ready = true
	return nil
}

func (p *TemporalAntialiasing) IsReady() bool { return p.ready }

func (p *TemporalAntialiasing) Dispose() {
	if !p.ready {
		return
	}
	if p.history != nil {
		p.device.DestroyTexture(p.history)
		p.history = nil
	}
	_ = core.IdentifierReleaseID(p.resolveShader)
	p.ready = false
}

// ensureHistory recreates the history buffer when the frame layout changes.
// Returns true when the history holds valid previous-frame pixels.
func (p *TemporalAntialiasing) ensureHistory(desc gpu.TextureDescription) bool {
	if p.history != nil && p.historyDesc == desc {
		return true
	}
	if p.history != nil {
		p.device.DestroyTexture(p.history)
		p.history = nil
	}
	history, err := p.device.CreateTexture(desc)
	if err != nil {
		core.LogError("TAA: failed to create history buffer: %s", err.Error())
		return false
	}
	p.history = history
	p.historyDesc = desc
	return false
}

func (p *TemporalAntialiasing) Render(renderContext *renderer.RenderContext, input, output gpu.Texture) {
	context := renderContext.Context
	buffers := renderContext.Buffers

	hasHistory := p.ensureHistory(input.Description())
	if p.history == nil || !hasHistory || renderContext.Task.IsCameraCut {
		// Restart accumulation: pass the frame through and seed history.
		context.ResetSR()
		context.SetRenderTarget(output, nil)
		context.DrawTexture(input)
		if p.history != nil {
			context.SetRenderTarget(p.history, nil)
			context.DrawTexture(input)
		}
		context.ResetRenderTarget()
		return
	}

	context.SetRenderTarget(output, nil)
	context.BindShader(p.resolveShader)
	context.BindTexture(0, input)
	context.BindTexture(1, p.history)
	context.BindTexture(2, buffers.MotionVectors)
	context.BindTexture(3, buffers.DepthBuffer)
	context.DrawFullscreenTriangle()

	context.ResetSR()
	context.SetRenderTarget(p.history, nil)
	context.DrawTexture(output)
	context.ResetRenderTarget()
}

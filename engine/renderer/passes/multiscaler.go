package passes

import (
	"github.com/spaghettifunk/lumina/engine/core"
	"github.com/spaghettifunk/lumina/engine/gpu"
	"github.com/spaghettifunk/lumina/engine/renderer"
)

// MultiScaler resolves a reduced-resolution frame into the output viewport
// with a filtered upsample followed by a sharpening pass.
type MultiScaler struct {
	device gpu.Device

	upsampleShader uint32
	sharpenShader  uint32

	ready bool
}

func NewMultiScaler() *MultiScaler { return &MultiScaler{} }

func (p *MultiScaler) Name() string { return "MultiScaler" }

func (p *MultiScaler) Init(device gpu.Device) error {
	p.device = device
	p.upsampleShader = core.IdentifierAcquireNewID(p)
	p.sharpenShader = core.IdentifierAcquireNewID(p)
	p.ready = true
	return nil
}

func (p *MultiScaler) IsReady() bool { return p.ready }

func (p *MultiScaler) Dispose() {
	if !p.ready {
		return
	}
	_ = core.IdentifierReleaseID(p.upsampleShader)
	_ = core.IdentifierReleaseID(p.sharpenShader)
	p.ready = false
}

func (p *MultiScaler) Upscale(renderContext *renderer.RenderContext, outputViewport gpu.Viewport, input, output gpu.Texture) {
	context := renderContext.Context

	upsampledLease, err := renderContext.Pool.Acquire(
		gpu.NewTextureDescription2D(output.Width(), output.Height(), input.Description().Format))
	if err != nil {
		// Degrade to an unsharpened single-pass upsample.
		core.LogWarn("multiscaler: failed to acquire sharpen target: %s", err.Error())
		context.ResetSR()
		context.SetRenderTarget(output, nil)
		context.SetViewportAndScissors(outputViewport)
		context.BindShader(p.upsampleShader)
		context.BindTexture(0, input)
		context.DrawFullscreenTriangle()
		context.ResetRenderTarget()
		return
	}
	defer upsampledLease.Release()

	context.ResetSR()
	context.SetRenderTarget(upsampledLease.Texture(), nil)
	context.SetViewportAndScissors(outputViewport)
	context.BindShader(p.upsampleShader)
	context.BindTexture(0, input)
	context.DrawFullscreenTriangle()

	context.SetRenderTarget(output, nil)
	context.BindShader(p.sharpenShader)
	context.BindTexture(0, upsampledLease.Texture())
	context.DrawFullscreenTriangle()
	context.ResetRenderTarget()
}

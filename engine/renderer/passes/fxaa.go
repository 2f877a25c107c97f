package passes

import (
	"github.com/spaghettifunk/lumina/engine/core"
	"github.com/spaghettifunk/lumina/engine/gpu"
	"github.com/spaghettifunk/lumina/engine/renderer"
)

// FXAA applies fast approximate anti-aliasing as a single fullscreen filter.
type FXAA struct {
	device gpu.Device

	filterShader uint32

	ready bool
}

func NewFXAA() *FXAA { return &FXAA{} }

func (p *FXAA) Name() string { return "FXAA" }

func (p *FXAA) Init(device gpu.Device) error {
	p.device = device
	p.filterShader = core.IdentifierAcquireNewID(p)
	p.ready = true
	return nil
}

func (p *FXAA) IsReady() bool { return p.ready }

func (p *FXAA) Dispose() {
	if !p.ready {
		return
	}
	_ = core.IdentifierReleaseID(p.filterShader)
	p.ready = false
}

func (p *FXAA) Render(renderContext *renderer.RenderContext, input, output gpu.Texture) {
	context := renderContext.Context
	context.SetRenderTarget(output, nil)
	context.BindShader(p.filterShader)
	context.BindTexture(0, input)
	context.DrawFullscreenTriangle()
	context.ResetRenderTarget()
}

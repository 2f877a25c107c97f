package passes

import (
	"github.com/spaghettifunk/lumina/engine/core"
	"github.com/spaghettifunk/lumina/engine/gpu"
	"github.com/spaghettifunk/lumina/engine/renderer"
)

// DepthOfField blurs the frame by circle of confusion: a half-resolution
// bokeh gather composited back over the sharp frame.
type DepthOfField struct {
	device gpu.Device

	cocShader       uint32
	gatherShader    uint32
	compositeShader uint32

	ready bool
}

func NewDepthOfField() *DepthOfField { return &DepthOfField{} }

func (p *DepthOfField) Name() string { return "DepthOfField" }

func (p *DepthOfField) Init(device gpu.Device) error {
	p.device = device
	p.cocShader = core.IdentifierAcquireNewID(p)
	p.gatherShader = core.IdentifierAcquireNewID(p)
	p.compositeShader = core.IdentifierAcquireNewID(p)
	p.ready = true
	return nil
}

func (p *DepthOfField) IsReady() bool { return p.ready }

func (p *DepthOfField) Dispose() {
	if !p.ready {
		return
	}
	_ = core.IdentifierReleaseID(p.cocShader)
	_ = core.IdentifierReleaseID(p.gatherShader)
	_ = core.IdentifierReleaseID(p.compositeShader)
	p.ready = false
}

// Render blurs input into output. Returns false when the settings produce no
// visible blur and output was left untouched.
func (p *DepthOfField) Render(renderContext *renderer.RenderContext, input, output gpu.Texture) bool {
	settings := &renderContext.List.Settings.DepthOfField
	if !settings.Enabled || settings.FocalDistance <= 0 {
		return false
	}
	context := renderContext.Context
	buffers := renderContext.Buffers

	halfWidth := buffers.Width() / 2
	halfHeight := buffers.Height() / 2
	if halfWidth == 0 || halfHeight == 0 {
		return false
	}

	cocLease, err := renderContext.Pool.Acquire(
		gpu.NewTextureDescription2D(halfWidth, halfHeight, gpu.TextureFormatR8Unorm))
	if err != nil {
		core.LogError("depth of field: failed to acquire CoC target: %s", err.Error())
		return false
	}
	defer cocLease.Release()
	bokehLease, err := renderContext.Pool.Acquire(
		gpu.NewTextureDescription2D(halfWidth, halfHeight, buffers.OutputFormat()))
	if err != nil {
		core.LogError("depth of field: failed to acquire bokeh target: %s", err.Error())
		return false
	}
	defer bokehLease.Release()

	context.SetRenderTarget(cocLease.Texture(), nil)
	context.BindShader(p.cocShader)
	context.BindTexture(0, buffers.DepthBuffer)
	context.DrawFullscreenTriangle()

	context.SetRenderTarget(bokehLease.Texture(), nil)
	context.BindShader(p.gatherShader)
	context.BindTexture(0, input)
	context.BindTexture(1, cocLease.Texture())
	context.DrawFullscreenTriangle()

	context.SetRenderTarget(output, nil)
	context.BindShader(p.compositeShader)
	context.BindTexture(0, input)
	context.BindTexture(1, bokehLease.Texture())
	context.BindTexture(2, cocLease.Texture())
	context.DrawFullscreenTriangle()
	context.ResetRenderTarget()
	return true
}

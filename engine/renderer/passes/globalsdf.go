package passes

import (
	"fmt"

	"github.com/spaghettifunk/lumina/engine/core"
	"github.com/spaghettifunk/lumina/engine/gpu"
	"github.com/spaghettifunk/lumina/engine/renderer"
)

const (
	// sdfCascadeCount covers the view range in doubling cascades.
	sdfCascadeCount = 4
	// sdfResolution is the voxel resolution per cascade axis.
	sdfResolution = 128
)

// GlobalSDF maintains the cascaded global signed distance field the GI probes
// trace against, and renders the raymarched debug view.
type GlobalSDF struct {
	device gpu.Device

	cascades [sdfCascadeCount]gpu.Texture

	rasterizeShader uint32
	debugShader     uint32

	ready bool
}

func NewGlobalSDF() *GlobalSDF { return &GlobalSDF{} }

func (p *GlobalSDF) Name() string { return "GlobalSDF" }

func (p *GlobalSDF) Init(device gpu.Device) error {
	p.device = device
	desc := gpu.TextureDescription{
		Width:  sdfResolution,
		Height: sdfResolution,
		Depth:  sdfResolution,
		Format: gpu.TextureFormatR8Unorm,
		Flags:  gpu.TextureFlagShaderResource | gpu.TextureFlagUnorderedAccess,
		Mips:   1,
	}
	for i := range p.cascades {
		cascade, err := device.CreateTexture(desc)
		if err != nil {
			for j := 0; j < i; j++ {
				device.DestroyTexture(p.cascades[j])
				p.cascades[j] = nil
			}
			return fmt.Errorf("global SDF: creating cascade %d: %w", i, err)
		}
		p.cascades[i] = cascade
	}
	p.rasterizeShader = core.IdentifierAcquireNewID(p)
	p.debugShader = core.IdentifierAcquireNewID(p)
	p.ready = true
	return nil
}

func (p *GlobalSDF) IsReady() bool { return p.ready }

func (p *GlobalSDF) Dispose() {
	if !p.ready {
		return
	}
	for i := range p.cascades {
		if p.cascades[i] != nil {
			p.device.DestroyTexture(p.cascades[i])
			p.cascades[i] = nil
		}
	}
	_ = core.IdentifierReleaseID(p.rasterizeShader)
	_ = core.IdentifierReleaseID(p.debugShader)
	p.ready = false
}

func (p *GlobalSDF) Render(renderContext *renderer.RenderContext) {
	context := renderContext.Context
	context.BindShader(p.rasterizeShader)
	for i := range p.cascades {
		context.SetRenderTarget(p.cascades[i], nil)
		context.DrawFullscreenTriangle()
	}
	context.ResetRenderTarget()
}

func (p *GlobalSDF) RenderDebug(renderContext *renderer.RenderContext, output gpu.Texture) {
	context := renderContext.Context
	context.ResetSR()
	context.SetRenderTarget(output, nil)
	context.SetViewportAndScissors(renderContext.Task.OutputViewport())
	context.BindShader(p.debugShader)
	for i := range p.cascades {
		context.BindTexture(uint32(i), p.cascades[i])
	}
	context.DrawFullscreenTriangle()
}

package passes

import (
	"github.com/spaghettifunk/lumina/engine/core"
	"github.com/spaghettifunk/lumina/engine/gpu"
	"github.com/spaghettifunk/lumina/engine/renderer"
	"github.com/spaghettifunk/lumina/engine/renderer/metadata"
)

// GBuffer fills the geometry buffers from the opaque draw lists. Decal
// receivers draw first, decals project onto them, then the non-receiver set
// draws on top and the sky closes the pass at far depth.
type GBuffer struct {
	device      gpu.Device
	decalShader uint32
	debugShader uint32
	ready       bool
}

func NewGBuffer() *GBuffer { return &GBuffer{} }

func (p *GBuffer) Name() string { return "GBuffer" }

func (p *GBuffer) Init(device gpu.Device) error {
	p.device = device
	p.decalShader = core.IdentifierAcquireNewID(p)
	p.debugShader = core.IdentifierAcquireNewID(p)
	p.ready = true
	return nil
}

func (p *GBuffer) IsReady() bool { return p.ready }

func (p *GBuffer) Dispose() {
	if !p.ready {
		return
	}
	_ = core.IdentifierReleaseID(p.decalShader)
	_ = core.IdentifierReleaseID(p.debugShader)
	p.ready = false
}

func (p *GBuffer) Fill(renderContext *renderer.RenderContext, lightBuffer gpu.Texture) {
	context := renderContext.Context
	buffers := renderContext.Buffers
	list := renderContext.List

	// The emissive term lands directly in the light buffer alongside the
	// geometry attributes.
	targets := []gpu.Texture{buffers.GBuffer0, buffers.GBuffer1, buffers.GBuffer2, lightBuffer}
	context.SetRenderTargets(targets, buffers.DepthBuffer)

	list.ExecuteDrawCallsList(renderContext, metadata.DrawCallsListGBuffer, nil)

	if renderContext.View.Flags&metadata.ViewFlagDecals != 0 && len(list.Decals) > 0 {
		p.renderDecals(renderContext)
		context.SetRenderTargets(targets, buffers.DepthBuffer)
	}

	list.ExecuteDrawCallsList(renderContext, metadata.DrawCallsListGBufferNoDecals, nil)

	if list.Sky != nil {
		list.Sky.DrawSky(context, renderContext, lightBuffer)
	}
	context.ResetRenderTarget()
}

func (p *GBuffer) renderDecals(renderContext *renderer.RenderContext) {
	context := renderContext.Context
	buffers := renderContext.Buffers

	context.SetRenderTarget(buffers.GBuffer0, nil)
	context.BindTexture(0, buffers.DepthBuffer)
	context.BindShader(p.decalShader)
	for i := range renderContext.List.Decals {
		decal := &renderContext.List.Decals[i]
		if decal.Material == nil || !decal.Material.IsReady() {
			continue
		}
		context.BindMaterial(decal.Material.ID)
		context.DrawFullscreenTriangle()
	}
}

// RenderDebug resolves the active debug visualization into output.
func (p *GBuffer) RenderDebug(renderContext *renderer.RenderContext, output gpu.Texture) {
	context := renderContext.Context
	buffers := renderContext.Buffers

	context.ResetSR()
	context.SetRenderTarget(output, nil)
	context.SetViewportAndScissors(renderContext.Task.OutputViewport())

	switch renderContext.View.Mode {
	case metadata.ViewModeEmissive:
		context.DrawTexture(buffers.GBuffer2)
	case metadata.ViewModeLightmapUVsDensity:
		context.BindShader(p.debugShader)
		context.BindTexture(0, buffers.GBuffer1)
		context.DrawFullscreenTriangle()
	default:
		context.DrawTexture(buffers.GBuffer0)
	}
}

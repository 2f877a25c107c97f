package passes

import (
	"github.com/spaghettifunk/lumina/engine/core"
	"github.com/spaghettifunk/lumina/engine/gpu"
	"github.com/spaghettifunk/lumina/engine/renderer"
	"github.com/spaghettifunk/lumina/engine/renderer/metadata"
)

// Forward composites transparency over the lit scene. Transparent surfaces
// read the opaque scene color for refraction, so the pass draws into the
// other ping-pong target with the input bound as a shader resource. The
// distortion accumulation resolves on top at the end.
type Forward struct {
	device gpu.Device

	distortionShader uint32

	ready bool
}

func NewForward() *Forward { return &Forward{} }

func (p *Forward) Name() string { return "Forward" }

func (p *Forward) Init(device gpu.Device) error {
	p.device = device
	p.distortionShader = core.IdentifierAcquireNewID(p)
	p.ready = true
	return nil
}

func (p *Forward) IsReady() bool { return p.ready }

func (p *Forward) Dispose() {
	if !p.ready {
		return
	}
	_ = core.IdentifierReleaseID(p.distortionShader)
	p.ready = false
}

func (p *Forward) Render(renderContext *renderer.RenderContext, input, output gpu.Texture) {
	context := renderContext.Context
	buffers := renderContext.Buffers
	list := renderContext.List

	// Start from the opaque scene.
	context.ResetSR()
	context.SetRenderTarget(output, nil)
	context.DrawTexture(input)

	// Transparency tests against scene depth but does not write it.
	context.SetRenderTarget(output, buffers.DepthBuffer)
	list.ExecuteDrawCallsList(renderContext, metadata.DrawCallsListForward, input)

	if list.Fog != nil {
		list.Fog.DrawFog(context, renderContext, output)
	}
	if list.AtmosphericFog != nil {
		list.AtmosphericFog.DrawFog(context, renderContext, output)
	}

	p.renderDistortion(renderContext, input, output)
	context.ResetRenderTarget()
}

// renderDistortion accumulates the distortion vectors into an offscreen
// target and applies them as a screen-space refraction of the frame.
func (p *Forward) renderDistortion(renderContext *renderer.RenderContext, input, output gpu.Texture) {
	list := renderContext.List
	distortionList := &list.DrawCallsLists[metadata.DrawCallsListDistortion]
	if distortionList.IsEmpty() {
		return
	}
	context := renderContext.Context
	buffers := renderContext.Buffers

	desc := gpu.NewTextureDescription2D(buffers.Width(), buffers.Height(), gpu.TextureFormatR16G16Float)
	accumulationLease, err := renderContext.Pool.Acquire(desc)
	if err != nil {
		core.LogError("forward: failed to acquire distortion target: %s", err.Error())
		return
	}
	defer accumulationLease.Release()

	context.SetRenderTarget(accumulationLease.Texture(), buffers.DepthBuffer)
	list.ExecuteDrawCallsList(renderContext, metadata.DrawCallsListDistortion, nil)

	context.SetRenderTarget(output, nil)
	context.BindShader(p.distortionShader)
	context.BindTexture(0, input)
	context.BindTexture(1, accumulationLease.Texture())
	context.DrawFullscreenTriangle()
}

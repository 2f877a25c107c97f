package passes

import (
	"github.com/spaghettifunk/lumina/engine/core"
	"github.com/spaghettifunk/lumina/engine/gpu"
	"github.com/spaghettifunk/lumina/engine/renderer"
)

// DeferredLights shades the GBuffer with the frame's light set into the light
// buffer, one additive draw per light.
type DeferredLights struct {
	device gpu.Device

	directionalShader uint32
	pointShader       uint32
	spotShader        uint32
	skyShader         uint32

	ready bool
}

func NewDeferredLights() *DeferredLights { return &DeferredLights{} }

func (p *DeferredLights) Name() string { return "DeferredLights" }

func (p *DeferredLights) Init(device gpu.Device) error {
	p.device = device
	p.directionalShader = core.IdentifierAcquireNewID(p)
	p.pointShader = core.IdentifierAcquireNewID(p)
	p.spotShader = core.IdentifierAcquireNewID(p)
	p.skyShader = core.IdentifierAcquireNewID(p)
	p.ready = true
	return nil
}

func (p *DeferredLights) IsReady() bool { return p.ready }

func (p *DeferredLights) Dispose() {
	if !p.ready {
		return
	}
	_ = core.IdentifierReleaseID(p.directionalShader)
	_ = core.IdentifierReleaseID(p.pointShader)
	_ = core.IdentifierReleaseID(p.spotShader)
	_ = core.IdentifierReleaseID(p.skyShader)
	p.ready = false
}

func (p *DeferredLights) Render(renderContext *renderer.RenderContext, lightBuffer gpu.Texture) {
	context := renderContext.Context
	buffers := renderContext.Buffers
	list := renderContext.List

	context.SetRenderTarget(lightBuffer, nil)
	context.BindTexture(0, buffers.GBuffer0)
	context.BindTexture(1, buffers.GBuffer1)
	context.BindTexture(2, buffers.GBuffer2)
	context.BindTexture(3, buffers.DepthBuffer)

	context.BindShader(p.directionalShader)
	for range list.DirectionalLights {
		context.DrawFullscreenTriangle()
	}
	context.BindShader(p.pointShader)
	for range list.PointLights {
		context.DrawFullscreenTriangle()
	}
	context.BindShader(p.spotShader)
	for range list.SpotLights {
		context.DrawFullscreenTriangle()
	}
	context.BindShader(p.skyShader)
	for i := range list.SkyLights {
		if image := list.SkyLights[i].Image; image != nil {
			context.BindTexture(4, image)
		}
		context.DrawFullscreenTriangle()
	}

	context.ResetRenderTarget()
}

package passes

import (
	"github.com/spaghettifunk/lumina/engine/core"
	"github.com/spaghettifunk/lumina/engine/gpu"
	"github.com/spaghettifunk/lumina/engine/renderer"
)

// ScreenSpaceAmbientOcclusion computes a half-resolution occlusion term from
// depth and normals, blurs it and multiplies it into the GBuffer AO channel
// before the light pass runs.
type ScreenSpaceAmbientOcclusion struct {
	device gpu.Device

	occlusionShader uint32
	blurShader      uint32
	applyShader     uint32

	ready bool
}

func NewScreenSpaceAmbientOcclusion() *ScreenSpaceAmbientOcclusion {
	return &ScreenSpaceAmbientOcclusion{}
}

func (p *ScreenSpaceAmbientOcclusion) Name() string { return "SSAO" }

func (p *ScreenSpaceAmbientOcclusion) Init(device gpu.Device) error {
	p.device = device
	p.occlusionShader = core.IdentifierAcquireNewID(p)
	p.blurShader = core.IdentifierAcquireNewID(p)
	p.applyShader = core.IdentifierAcquireNewID(p)
	p.ready = true
	return nil
}

func (p *ScreenSpaceAmbientOcclusion) IsReady() bool { return p.ready }

func (p *ScreenSpaceAmbientOcclusion) Dispose() {
	if !p.ready {
		return
	}
	_ = core.IdentifierReleaseID(p.occlusionShader)
	_ = core.IdentifierReleaseID(p.blurShader)
	_ = core.IdentifierReleaseID(p.applyShader)
	p.ready = false
}

func (p *ScreenSpaceAmbientOcclusion) Render(renderContext *renderer.RenderContext) {
	context := renderContext.Context
	buffers := renderContext.Buffers

	width := buffers.Width() / 2
	height := buffers.Height() / 2
	if width == 0 || height == 0 {
		return
	}
	desc := gpu.NewTextureDescription2D(width, height, gpu.TextureFormatR8Unorm)

	rawLease, err := renderContext.Pool.Acquire(desc)
	if err != nil {
		core.LogError("SSAO: failed to acquire occlusion target: %s", err.Error())
		return
	}
	defer rawLease.Release()
	blurLease, err := renderContext.Pool.Acquire(desc)
	if err != nil {
		core.LogError("SSAO: failed to acquire blur target: %s", err.Error())
		return
	}
	defer blurLease.Release()

	context.SetRenderTarget(rawLease.Texture(), nil)
	context.BindShader(p.occlusionShader)
	context.BindTexture(0, buffers.DepthBuffer)
	context.BindTexture(1, buffers.GBuffer1)
	context.DrawFullscreenTriangle()

	context.SetRenderTarget(blurLease.Texture(), nil)
	context.BindShader(p.blurShader)
	context.BindTexture(0, rawLease.Texture())
	context.DrawFullscreenTriangle()

	context.SetRenderTarget(buffers.GBuffer0, nil)
	context.BindShader(p.applyShader)
	context.BindTexture(0, blurLease.Texture())
	context.DrawFullscreenTriangle()

	context.ResetRenderTarget()
}

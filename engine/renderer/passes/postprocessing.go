package passes

import (
	"github.com/spaghettifunk/lumina/engine/core"
	"github.com/spaghettifunk/lumina/engine/gpu"
	"github.com/spaghettifunk/lumina/engine/renderer"
	"github.com/spaghettifunk/lumina/engine/renderer/metadata"
)

// bloomMipCount is the depth of the bloom downsample chain.
const bloomMipCount = 3

// PostProcessing runs the bloom chain and tone maps the frame, sampling the
// color grading LUT when one is provided.
type PostProcessing struct {
	device gpu.Device

	thresholdShader  uint32
	downsampleShader uint32
	upsampleShader   uint32
	tonemapShader    uint32

	ready bool
}

func NewPostProcessing() *PostProcessing { return &PostProcessing{} }

func (p *PostProcessing) Name() string { return "PostProcessing" }

func (p *PostProcessing) Init(device gpu.Device) error {
	p.device = device
	p.thresholdShader = core.IdentifierAcquireNewID(p)
	p.downsampleShader = core.IdentifierAcquireNewID(p)
	p.upsampleShader = core.IdentifierAcquireNewID(p)
	p.tonemapShader = core.IdentifierAcquireNewID(p)
	p.ready = true
	return nil
}

func (p *PostProcessing) IsReady() bool { return p.ready }

func (p *PostProcessing) Dispose() {
	if !p.ready {
		return
	}
	_ = core.IdentifierReleaseID(p.thresholdShader)
	_ = core.IdentifierReleaseID(p.downsampleShader)
	_ = core.IdentifierReleaseID(p.upsampleShader)
	_ = core.IdentifierReleaseID(p.tonemapShader)
	p.ready = false
}

func (p *PostProcessing) Render(renderContext *renderer.RenderContext, input, output gpu.Texture, colorGradingLUT gpu.Texture) {
	context := renderContext.Context
	view := renderContext.View
	settings := &renderContext.List.Settings

	var bloom gpu.Texture
	var bloomLeases []*gpu.RenderTargetLease
	if view.Flags&metadata.ViewFlagBloom != 0 && settings.Bloom.Enabled {
		bloom, bloomLeases = p.renderBloom(renderContext, input)
	}
	defer func() {
		for _, lease := range bloomLeases {
			lease.Release()
		}
	}()

	context.SetRenderTarget(output, nil)
	context.BindShader(p.tonemapShader)
	context.BindTexture(0, input)
	if bloom != nil {
		context.BindTexture(1, bloom)
	}
	if colorGradingLUT != nil {
		context.BindTexture(2, colorGradingLUT)
	}
	context.DrawFullscreenTriangle()
	context.ResetRenderTarget()
}

// renderBloom builds the threshold/downsample/upsample chain and returns the
// full-intensity bloom mip plus the leases backing the chain. The caller
// releases them after compositing.
func (p *PostProcessing) renderBloom(renderContext *renderer.RenderContext, input gpu.Texture) (gpu.Texture, []*gpu.RenderTargetLease) {
	context := renderContext.Context
	buffers := renderContext.Buffers

	var leases []*gpu.RenderTargetLease
	var mips []gpu.Texture
	width := buffers.Width()
	height := buffers.Height()
	for i := 0; i < bloomMipCount; i++ {
		width /= 2
		height /= 2
		if width == 0 || height == 0 {
			break
		}
		lease, err := renderContext.Pool.Acquire(
			gpu.NewTextureDescription2D(width, height, buffers.OutputFormat()))
		if err != nil {
			core.LogError("bloom: failed to acquire mip %d: %s", i, err.Error())
			break
		}
		leases = append(leases, lease)
		mips = append(mips, lease.Texture())
	}
	if len(mips) == 0 {
		return nil, leases
	}

	// Bright-pass into the first mip, then blur down and add back up.
	context.SetRenderTarget(mips[0], nil)
	context.BindShader(p.thresholdShader)
	context.BindTexture(0, input)
	context.DrawFullscreenTriangle()

	context.BindShader(p.downsampleShader)
	for i := 1; i < len(mips); i++ {
		context.SetRenderTarget(mips[i], nil)
		context.BindTexture(0, mips[i-1])
		context.DrawFullscreenTriangle()
	}
	context.BindShader(p.upsampleShader)
	for i := len(mips) - 1; i > 0; i-- {
		context.SetRenderTarget(mips[i-1], nil)
		context.BindTexture(0, mips[i])
		context.DrawFullscreenTriangle()
	}
	return mips[0], leases
}

package passes

import (
	"github.com/spaghettifunk/lumina/engine/core"
	"github.com/spaghettifunk/lumina/engine/gpu"
	"github.com/spaghettifunk/lumina/engine/renderer"
)

// EyeAdaptation measures average scene luminance by downsampling the color
// buffer to a single pixel and blends the exposure state towards it. The
// 1x1 adaptation target persists across frames to carry the temporal state.
type EyeAdaptation struct {
	device gpu.Device

	adaptedLuminance gpu.Texture

	luminanceShader uint32
	adaptShader     uint32

	ready bool
}

func NewEyeAdaptation() *EyeAdaptation { return &EyeAdaptation{} }

func (p *EyeAdaptation) Name() string { return "EyeAdaptation" }

func (p *EyeAdaptation) Init(device gpu.Device) error {
	p.device = device
	adapted, err := device.CreateTexture(gpu.NewTextureDescription2D(1, 1, gpu.TextureFormatR16G16Float))
	if err != nil {
		return err
	}
	p.adaptedLuminance = adapted
	p.luminanceShader = core.IdentifierAcquireNewID(p)
	p.adaptShader = core.IdentifierAcquireNewID(p)
	p.ready = true
	return nil
}

func (p *EyeAdaptation) IsReady() bool { return p.ready }

func (p *EyeAdaptation) Dispose() {
	if !p.ready {
		return
	}
	p.device.DestroyTexture(p.adaptedLuminance)
	p.adaptedLuminance = nil
	_ = core.IdentifierReleaseID(p.luminanceShader)
	_ = core.IdentifierReleaseID(p.adaptShader)
	p.ready = false
}

func (p *EyeAdaptation) Render(renderContext *renderer.RenderContext, colorBuffer gpu.Texture) {
	context := renderContext.Context
	buffers := renderContext.Buffers

	// Downsample luminance in halving steps to 1x1, then blend the adapted
	// value towards the measurement using the settings' speeds.
	width := buffers.Width() / 2
	height := buffers.Height() / 2
	if width == 0 {
		width = 1
	}
	if height == 0 {
		height = 1
	}
	source := colorBuffer
	var previous *gpu.RenderTargetLease
	for width > 1 || height > 1 {
		lease, err := renderContext.Pool.Acquire(
			gpu.NewTextureDescription2D(width, height, gpu.TextureFormatR16G16Float))
		if err != nil {
			core.LogError("eye adaptation: failed to acquire luminance target: %s", err.Error())
			if previous != nil {
				previous.Release()
			}
			return
		}
		context.SetRenderTarget(lease.Texture(), nil)
		context.BindShader(p.luminanceShader)
		context.BindTexture(0, source)
		context.DrawFullscreenTriangle()

		if previous != nil {
			previous.Release()
		}
		previous = lease
		source = lease.Texture()
		if width > 1 {
			width /= 2
		}
		if height > 1 {
			height /= 2
		}
	}

	context.SetRenderTarget(p.adaptedLuminance, nil)
	context.BindShader(p.adaptShader)
	context.BindTexture(0, source)
	context.DrawFullscreenTriangle()
	context.ResetRenderTarget()

	if previous != nil {
		previous.Release()
	}
}

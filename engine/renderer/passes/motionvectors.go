package passes

import (
	"github.com/spaghettifunk/lumina/engine/core"
	"github.com/spaghettifunk/lumina/engine/gpu"
	"github.com/spaghettifunk/lumina/engine/renderer"
	"github.com/spaghettifunk/lumina/engine/renderer/metadata"
)

// motionBlurTileSize is the velocity tile reduction factor.
const motionBlurTileSize = 8

// MotionVectors renders per-pixel velocity into the frame's motion vectors
// target and applies motion blur during post-processing. Camera motion is
// reprojected as a fullscreen pass, dynamic objects draw on top from the
// motion vectors list.
type MotionVectors struct {
	device gpu.Device

	cameraShader      uint32
	tileMaxShader     uint32
	neighborMaxShader uint32
	blurShader        uint32
	debugShader       uint32

	ready bool
}

func NewMotionVectors() *MotionVectors { return &MotionVectors{} }

func (p *MotionVectors) Name() string { return "MotionVectors" }

func (p *MotionVectors) Init(device gpu.Device) error {
	p.device = device
	p.cameraShader = core.IdentifierAcquireNewID(p)
	p.tileMaxShader = core.IdentifierAcquireNewID(p)
	p.neighborMaxShader = core.IdentifierAcquireNewID(p)
	p.blurShader = core.IdentifierAcquireNewID(p)
	p.debugShader = core.IdentifierAcquireNewID(p)
	p.ready = true
	return nil
}

func (p *MotionVectors) IsReady() bool { return p.ready }

func (p *MotionVectors) Dispose() {
	if !p.ready {
		return
	}
	_ = core.IdentifierReleaseID(p.cameraShader)
	_ = core.IdentifierReleaseID(p.tileMaxShader)
	_ = core.IdentifierReleaseID(p.neighborMaxShader)
	_ = core.IdentifierReleaseID(p.blurShader)
	_ = core.IdentifierReleaseID(p.debugShader)
	p.ready = false
}

func (p *MotionVectors) Render(renderContext *renderer.RenderContext) {
	context := renderContext.Context
	buffers := renderContext.Buffers
	list := renderContext.List

	context.SetRenderTarget(buffers.MotionVectors, buffers.DepthBuffer)

	// Camera reprojection covers every pixel; animated objects overwrite it.
	context.BindShader(p.cameraShader)
	context.BindTexture(0, buffers.DepthBuffer)
	context.DrawFullscreenTriangle()

	list.ExecuteDrawCallsList(renderContext, metadata.DrawCallsListMotionVectors, nil)
	context.ResetRenderTarget()
}

// RenderMotionBlur blurs input along the velocity field into output. Returns
// false when the blur is a no-op for this frame.
func (p *MotionVectors) RenderMotionBlur(renderContext *renderer.RenderContext, input, output gpu.Texture) bool {
	settings := &renderContext.List.Settings.MotionBlur
	if !settings.Enabled || settings.Scale <= 0 {
		return false
	}
	context := renderContext.Context
	buffers := renderContext.Buffers

	tileWidth := buffers.Width() / motionBlurTileSize
	tileHeight := buffers.Height() / motionBlurTileSize
	if tileWidth == 0 || tileHeight == 0 {
		return false
	}
	tileDesc := gpu.NewTextureDescription2D(tileWidth, tileHeight, gpu.TextureFormatR16G16Float)

	tileMaxLease, err := renderContext.Pool.Acquire(tileDesc)
	if err != nil {
		core.LogError("motion blur: failed to acquire tile target: %s", err.Error())
		return false
	}
	defer tileMaxLease.Release()
	neighborMaxLease, err := renderContext.Pool.Acquire(tileDesc)
	if err != nil {
		core.LogError("motion blur: failed to acquire neighbor target: %s", err.Error())
		return false
	}
	defer neighborMaxLease.Release()

	// Dominant velocity per tile, then per neighborhood.
	context.SetRenderTarget(tileMaxLease.Texture(), nil)
	context.BindShader(p.tileMaxShader)
	context.BindTexture(0, buffers.MotionVectors)
	context.DrawFullscreenTriangle()

	context.SetRenderTarget(neighborMaxLease.Texture(), nil)
	context.BindShader(p.neighborMaxShader)
	context.BindTexture(0, tileMaxLease.Texture())
	context.DrawFullscreenTriangle()

	context.SetRenderTarget(output, nil)
	context.BindShader(p.blurShader)
	context.BindTexture(0, input)
	context.BindTexture(1, buffers.MotionVectors)
	context.BindTexture(2, neighborMaxLease.Texture())
	context.DrawFullscreenTriangle()
	context.ResetRenderTarget()
	return true
}

func (p *MotionVectors) RenderDebug(renderContext *renderer.RenderContext, output gpu.Texture) {
	context := renderContext.Context
	context.ResetSR()
	context.SetRenderTarget(output, nil)
	context.SetViewportAndScissors(renderContext.Task.OutputViewport())
	context.BindShader(p.debugShader)
	context.BindTexture(0, renderContext.Buffers.MotionVectors)
	context.DrawFullscreenTriangle()
}

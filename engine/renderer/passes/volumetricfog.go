package passes

import (
	"github.com/spaghettifunk/lumina/engine/core"
	"github.com/spaghettifunk/lumina/engine/gpu"
	"github.com/spaghettifunk/lumina/engine/renderer"
)

// fogVolumeDepth is the froxel grid depth (slices along the view ray).
const fogVolumeDepth = 64

// fogVolumeSlot is the shader resource slot the integrated volume stays bound
// to; the forward fog proxies sample it from there.
const fogVolumeSlot = 5

// VolumetricFog builds the froxel scattering volume the forward pass samples:
// lights inject into the grid, then scattering integrates front to back along
// each ray. The volume persists across frames so it cannot come from the
// transient pool.
type VolumetricFog struct {
	device gpu.Device

	volume     gpu.Texture
	volumeDesc gpu.TextureDescription

	injectShader    uint32
	integrateShader uint32

	ready bool
}

func NewVolumetricFog() *VolumetricFog { return &VolumetricFog{} }

func (p *VolumetricFog) Name() string { return "VolumetricFog" }

func (p *VolumetricFog) Init(device gpu.Device) error {
	p.device = device
	p.injectShader = core.IdentifierAcquireNewID(p)
	p.integrateShader = core.IdentifierAcquireNewID(p)
	p.ready = true
	return nil
}

func (p *VolumetricFog) IsReady() bool { return p.ready }

func (p *VolumetricFog) Dispose() {
	if !p.ready {
		return
	}
	if p.volume != nil {
		p.device.DestroyTexture(p.volume)
		p.volume = nil
	}
	_ = core.IdentifierReleaseID(p.injectShader)
	_ = core.IdentifierReleaseID(p.integrateShader)
	p.ready = false
}

// ensureVolume keeps the froxel grid sized to an eighth of the frame.
func (p *VolumetricFog) ensureVolume(width, height uint32) error {
	desc := gpu.TextureDescription{
		Width:  width,
		Height: height,
		Depth:  fogVolumeDepth,
		Format: gpu.TextureFormatR16G16B16A16Float,
		Flags:  gpu.TextureFlagRenderTarget | gpu.TextureFlagShaderResource | gpu.TextureFlagUnorderedAccess,
		Mips:   1,
	}
	if p.volume != nil && desc == p.volumeDesc {
		return nil
	}
	if p.volume != nil {
		p.device.DestroyTexture(p.volume)
		p.volume = nil
	}
	volume, err := p.device.CreateTexture(desc)
	if err != nil {
		return err
	}
	p.volume = volume
	p.volumeDesc = desc
	return nil
}

func (p *VolumetricFog) Render(renderContext *renderer.RenderContext) {
	list := renderContext.List
	if list.Fog == nil {
		return
	}
	context := renderContext.Context
	buffers := renderContext.Buffers

	width := buffers.Width() / 8
	height := buffers.Height() / 8
	if width == 0 || height == 0 {
		return
	}
	if err := p.ensureVolume(width, height); err != nil {
		core.LogError("volumetric fog: failed to create froxel volume: %s", err.Error())
		return
	}

	context.SetRenderTarget(p.volume, nil)
	context.BindShader(p.injectShader)
	context.BindTexture(0, buffers.DepthBuffer)
	context.DrawFullscreenTriangle()

	context.BindShader(p.integrateShader)
	context.DrawFullscreenTriangle()
	context.ResetRenderTarget()

	// Leave the result bound for the fog proxies drawn during the forward
	// pass.
	context.BindTexture(fogVolumeSlot, p.volume)
}

package passes

import (
	"fmt"

	"github.com/spaghettifunk/lumina/engine/core"
	"github.com/spaghettifunk/lumina/engine/gpu"
	"github.com/spaghettifunk/lumina/engine/renderer"
)

// ddgiProbeCount is the number of irradiance probes in the dynamic volume.
const ddgiProbeCount = 24 * 22 * 24

// ddgiProbeStride is the per-probe payload size in the probe buffer.
const ddgiProbeStride = 32

// DynamicDiffuseGlobalIllumination maintains a volume of irradiance probes
// traced against the global SDF and applies the indirect term to the light
// buffer.
type DynamicDiffuseGlobalIllumination struct {
	device gpu.Device

	probeBuffer  gpu.Buffer
	traceShader  uint32
	updateShader uint32
	applyShader  uint32

	ready bool
}

func NewDynamicDiffuseGlobalIllumination() *DynamicDiffuseGlobalIllumination {
	return &DynamicDiffuseGlobalIllumination{}
}

func (p *DynamicDiffuseGlobalIllumination) Name() string { return "DDGI" }

func (p *DynamicDiffuseGlobalIllumination) Init(device gpu.Device) error {
	p.device = device
	buffer, err := device.CreateBuffer(ddgiProbeCount*ddgiProbeStride, gpu.BufferUsageDynamicVertex)
	if err != nil {
		return fmt.Errorf("DDGI: creating probe buffer: %w", err)
	}
	p.probeBuffer = buffer
	p.traceShader = core.IdentifierAcquireNewID(p)
	p.updateShader = core.IdentifierAcquireNewID(p)
	p.applyShader = core.IdentifierAcquireNewID(p)
	p.ready = true
	return nil
}

func (p *DynamicDiffuseGlobalIllumination) IsReady() bool { return p.ready }

func (p *DynamicDiffuseGlobalIllumination) Dispose() {
	if !p.ready {
		return
	}
	p.device.DestroyBuffer(p.probeBuffer)
	p.probeBuffer = nil
	_ = core.IdentifierReleaseID(p.traceShader)
	_ = core.IdentifierReleaseID(p.updateShader)
	_ = core.IdentifierReleaseID(p.applyShader)
	p.ready = false
}

func (p *DynamicDiffuseGlobalIllumination) Render(renderContext *renderer.RenderContext, lightBuffer gpu.Texture) {
	context := renderContext.Context
	buffers := renderContext.Buffers

	// Trace and relax the probe volume, then splat the irradiance onto the
	// lit scene.
	context.BindShader(p.traceShader)
	context.DrawFullscreenTriangle()
	context.BindShader(p.updateShader)
	context.DrawFullscreenTriangle()

	context.SetRenderTarget(lightBuffer, nil)
	context.BindShader(p.applyShader)
	context.BindTexture(0, buffers.GBuffer0)
	context.BindTexture(1, buffers.GBuffer1)
	context.BindTexture(2, buffers.DepthBuffer)
	context.DrawFullscreenTriangle()
	context.ResetRenderTarget()
}

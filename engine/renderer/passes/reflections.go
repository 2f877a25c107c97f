package passes

import (
	"github.com/spaghettifunk/lumina/engine/core"
	"github.com/spaghettifunk/lumina/engine/gpu"
	"github.com/spaghettifunk/lumina/engine/renderer"
	"github.com/spaghettifunk/lumina/engine/renderer/metadata"
)

// Reflections resolves the environment probes into a reflection buffer,
// optionally traces screen-space reflections over it and composites the
// result onto the lit scene.
type Reflections struct {
	device gpu.Device

	probeShader   uint32
	ssrShader     uint32
	combineShader uint32

	ready bool
}

func NewReflections() *Reflections { return &Reflections{} }

func (p *Reflections) Name() string { return "Reflections" }

func (p *Reflections) Init(device gpu.Device) error {
	p.device = device
	p.probeShader = core.IdentifierAcquireNewID(p)
	p.ssrShader = core.IdentifierAcquireNewID(p)
	p.combineShader = core.IdentifierAcquireNewID(p)
	p.ready = true
	return nil
}

func (p *Reflections) IsReady() bool { return p.ready }

func (p *Reflections) Dispose() {
	if !p.ready {
		return
	}
	_ = core.IdentifierReleaseID(p.probeShader)
	_ = core.IdentifierReleaseID(p.ssrShader)
	_ = core.IdentifierReleaseID(p.combineShader)
	p.ready = false
}

func (p *Reflections) Render(renderContext *renderer.RenderContext, lightBuffer gpu.Texture) {
	context := renderContext.Context
	buffers := renderContext.Buffers
	list := renderContext.List

	hasProbes := len(list.EnvironmentProbes) > 0
	useSSR := renderContext.View.Flags&metadata.ViewFlagSSR != 0
	if !hasProbes && !useSSR {
		return
	}

	desc := gpu.NewTextureDescription2D(buffers.Width(), buffers.Height(), buffers.OutputFormat())
	reflectionsLease, err := renderContext.Pool.Acquire(desc)
	if err != nil {
		core.LogError("reflections: failed to acquire buffer: %s", err.Error())
		return
	}
	defer reflectionsLease.Release()
	reflections := reflectionsLease.Texture()

	context.SetRenderTarget(reflections, nil)
	context.BindTexture(0, buffers.GBuffer0)
	context.BindTexture(1, buffers.GBuffer1)
	context.BindTexture(2, buffers.DepthBuffer)

	// Probes blend farthest first so closer captures win.
	context.BindShader(p.probeShader)
	for i := range list.EnvironmentProbes {
		probe := &list.EnvironmentProbes[i]
		if probe.Texture == nil {
			continue
		}
		context.BindTexture(3, probe.Texture)
		context.DrawFullscreenTriangle()
	}

	if useSSR {
		context.BindShader(p.ssrShader)
		context.BindTexture(3, lightBuffer)
		context.DrawFullscreenTriangle()
	}

	context.SetRenderTarget(lightBuffer, nil)
	context.BindShader(p.combineShader)
	context.BindTexture(0, reflections)
	context.DrawFullscreenTriangle()
	context.ResetRenderTarget()
}

package passes

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"

	"github.com/spaghettifunk/lumina/engine/core"
	"github.com/spaghettifunk/lumina/engine/gpu"
	"github.com/spaghettifunk/lumina/engine/renderer"
	"github.com/spaghettifunk/lumina/engine/renderer/metadata"
)

// lutSize is the color grading cube resolution per axis. The cube is
// unwrapped into a lutSize*lutSize by lutSize strip for sampling.
const lutSize = 32

// ColorGrading bakes the frame's grading settings into a lookup texture the
// tone mapper samples. Neutral settings upload a precomputed identity LUT
// instead of running the grading shader.
type ColorGrading struct {
	device gpu.Device

	neutralLUT  []byte
	gradeShader uint32

	ready bool
}

func NewColorGrading() *ColorGrading { return &ColorGrading{} }

func (p *ColorGrading) Name() string { return "ColorGrading" }

func (p *ColorGrading) Init(device gpu.Device) error {
	p.device = device
	p.neutralLUT = bakeNeutralLUT()
	p.gradeShader = core.IdentifierAcquireNewID(p)
	p.ready = true
	return nil
}

func (p *ColorGrading) IsReady() bool { return p.ready }

func (p *ColorGrading) Dispose() {
	if !p.ready {
		return
	}
	p.neutralLUT = nil
	_ = core.IdentifierReleaseID(p.gradeShader)
	p.ready = false
}

// bakeNeutralLUT renders the identity grading cube on the CPU, one slice per
// blue value, tiled into the unwrapped strip.
func bakeNeutralLUT() []byte {
	slice := image.NewNRGBA(image.Rect(0, 0, lutSize, lutSize))
	strip := image.NewNRGBA(image.Rect(0, 0, lutSize*lutSize, lutSize))
	for z := 0; z < lutSize; z++ {
		blue := uint8(z * 255 / (lutSize - 1))
		for y := 0; y < lutSize; y++ {
			green := uint8(y * 255 / (lutSize - 1))
			for x := 0; x < lutSize; x++ {
				i := slice.PixOffset(x, y)
				slice.Pix[i+0] = uint8(x * 255 / (lutSize - 1))
				slice.Pix[i+1] = green
				slice.Pix[i+2] = blue
				slice.Pix[i+3] = 255
			}
		}
		draw.Copy(strip, image.Pt(z*lutSize, 0), slice, slice.Bounds(), draw.Src, nil)
	}
	return strip.Pix
}

// RenderLUT returns a leased LUT for this frame. The caller releases it once
// tone mapping sampled it.
func (p *ColorGrading) RenderLUT(renderContext *renderer.RenderContext) (*gpu.RenderTargetLease, error) {
	lease, err := renderContext.Pool.Acquire(
		gpu.NewTextureDescription2D(lutSize*lutSize, lutSize, gpu.TextureFormatR8G8B8A8))
	if err != nil {
		return nil, fmt.Errorf("color grading: %w", err)
	}

	context := renderContext.Context
	if renderContext.List.Settings.ColorGrading == (metadata.ColorGradingSettings{}) {
		if err := context.UpdateTexture(lease.Texture(), p.neutralLUT); err != nil {
			lease.Release()
			return nil, fmt.Errorf("color grading: uploading neutral LUT: %w", err)
		}
		return lease, nil
	}

	context.SetRenderTarget(lease.Texture(), nil)
	context.BindShader(p.gradeShader)
	context.DrawFullscreenTriangle()
	context.ResetRenderTarget()
	return lease, nil
}

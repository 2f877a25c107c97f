package renderer

import (
	"fmt"

	"github.com/spaghettifunk/lumina/engine/core"
	"github.com/spaghettifunk/lumina/engine/gpu"
)

// RenderBuffers owns the long-lived frame targets shared by the passes: the
// GBuffer layers, the scene depth, motion vectors and the two scratch color
// buffers ping-ponged through the post-processing chain. Unlike pooled
// scratch targets these persist across frames and are only recreated on
// resize.
type RenderBuffers struct {
	device gpu.Device
	width  uint32
	height uint32

	// GBuffer0: albedo+AO, GBuffer1: normals+roughness, GBuffer2: emissive.
	GBuffer0 gpu.Texture
	GBuffer1 gpu.Texture
	GBuffer2 gpu.Texture

	DepthBuffer   gpu.Texture
	MotionVectors gpu.Texture

	// RT1/RT2 are the post-processing ping-pong pair.
	RT1FloatRGB gpu.Texture
	RT2FloatRGB gpu.Texture
}

func NewRenderBuffers(device gpu.Device, width, height uint32) (*RenderBuffers, error) {
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("render buffers require a non-zero size, got %dx%d", width, height)
	}
	rb := &RenderBuffers{device: device}
	if err := rb.Resize(width, height); err != nil {
		return nil, err
	}
	return rb, nil
}

func (rb *RenderBuffers) Width() uint32  { return rb.width }
func (rb *RenderBuffers) Height() uint32 { return rb.height }

// OutputFormat is the format of the scene color targets.
func (rb *RenderBuffers) OutputFormat() gpu.TextureFormat {
	return gpu.TextureFormatR16G16B16A16Float
}

// Prepare validates the buffers ahead of a frame.
func (rb *RenderBuffers) Prepare() error {
	if rb.width == 0 || rb.height == 0 {
		return fmt.Errorf("render buffers not initialized")
	}
	return nil
}

// Resize recreates every target at the new size.
func (rb *RenderBuffers) Resize(width, height uint32) error {
	rb.Dispose()

	create := func(desc gpu.TextureDescription) (gpu.Texture, error) {
		t, err := rb.device.CreateTexture(desc)
		if err != nil {
			core.LogError("failed to create frame buffer %dx%d format %d: %s", desc.Width, desc.Height, desc.Format, err.Error())
		}
		return t, err
	}

	var err error
	if rb.GBuffer0, err = create(gpu.NewTextureDescription2D(width, height, gpu.TextureFormatR8G8B8A8)); err != nil {
		return err
	}
	if rb.GBuffer1, err = create(gpu.NewTextureDescription2D(width, height, gpu.TextureFormatR16G16B16A16Float)); err != nil {
		return err
	}
	if rb.GBuffer2, err = create(gpu.NewTextureDescription2D(width, height, gpu.TextureFormatR11G11B10Float)); err != nil {
		return err
	}
	if rb.DepthBuffer, err = create(gpu.NewTextureDescriptionDepth(width, height)); err != nil {
		return err
	}
	if rb.MotionVectors, err = create(gpu.NewTextureDescription2D(width, height, gpu.TextureFormatR16G16Float)); err != nil {
		return err
	}
	if rb.RT1FloatRGB, err = create(gpu.NewTextureDescription2D(width, height, rb.OutputFormat())); err != nil {
		return err
	}
	if rb.RT2FloatRGB, err = create(gpu.NewTextureDescription2D(width, height, rb.OutputFormat())); err != nil {
		return err
	}

	rb.width = width
	rb.height = height
	return nil
}

// Dispose releases every owned target.
func (rb *RenderBuffers) Dispose() {
	for _, t := range []gpu.Texture{
		rb.GBuffer0, rb.GBuffer1, rb.GBuffer2,
		rb.DepthBuffer, rb.MotionVectors,
		rb.RT1FloatRGB, rb.RT2FloatRGB,
	} {
		if t != nil {
			rb.device.DestroyTexture(t)
		}
	}
	rb.GBuffer0, rb.GBuffer1, rb.GBuffer2 = nil, nil, nil
	rb.DepthBuffer, rb.MotionVectors = nil, nil
	rb.RT1FloatRGB, rb.RT2FloatRGB = nil, nil
	rb.width, rb.height = 0, 0
}

package gpu

import "fmt"

// Null backend: a headless device that records submissions instead of
// touching a GPU. It drives tests and keeps the engine runnable on machines
// without graphics support; the renderer degrades to no-op frames on it.

type NullDevice struct {
	caps     DeviceCaps
	context  *NullContext
	textures int
	buffers  int
}

func NewNullDevice() *NullDevice {
	d := &NullDevice{
		caps: DeviceCaps{
			HardwareInstancing: true,
			MaxTextureSize:     16384,
		},
	}
	d.context = &NullContext{device: d}
	return d
}

// SetHardwareInstancing toggles the instancing capability, used to exercise
// the executor fallback path.
func (d *NullDevice) SetHardwareInstancing(enabled bool) {
	d.caps.HardwareInstancing = enabled
}

func (d *NullDevice) RendererType() RendererType { return RendererTypeNull }
func (d *NullDevice) Caps() DeviceCaps           { return d.caps }
func (d *NullDevice) MainContext() Context       { return d.context }

func (d *NullDevice) CreateTexture(desc TextureDescription) (Texture, error) {
	if desc.Width == 0 || desc.Height == 0 {
		return nil, fmt.Errorf("null device: zero-sized texture description")
	}
	d.textures++
	return &nullTexture{desc: desc}, nil
}

func (d *NullDevice) DestroyTexture(Texture) {
	d.textures--
}

func (d *NullDevice) CreateBuffer(size uint32, usage BufferUsage) (Buffer, error) {
	if size == 0 {
		return nil, fmt.Errorf("null device: zero-sized buffer")
	}
	d.buffers++
	return &nullBuffer{size: size, usage: usage}, nil
}

func (d *NullDevice) DestroyBuffer(Buffer) {
	d.buffers--
}

func (d *NullDevice) Shutdown() error { return nil }

// LiveTextures returns the number of textures currently allocated.
func (d *NullDevice) LiveTextures() int { return d.textures }

type nullTexture struct {
	desc TextureDescription
}

func (t *nullTexture) Description() TextureDescription { return t.desc }
func (t *nullTexture) Width() uint32                   { return t.desc.Width }
func (t *nullTexture) Height() uint32                  { return t.desc.Height }

type nullBuffer struct {
	size  uint32
	usage BufferUsage
	data  []byte
}

func (b *nullBuffer) Size() uint32       { return b.size }
func (b *nullBuffer) Usage() BufferUsage { return b.usage }

// SubmissionKind tags a recorded draw.
type SubmissionKind uint8

const (
	SubmissionDraw SubmissionKind = iota
	SubmissionDrawInstanced
	SubmissionDrawTexture
	SubmissionFullscreenTriangle
)

// Submission is one recorded draw call issued through the null context.
type Submission struct {
	Kind          SubmissionKind
	IndexCount    uint32
	InstanceCount uint32
	StartInstance uint32
	ShaderID      uint32
	MaterialID    uint32
}

// NullContext records every state change and submission for inspection.
type NullContext struct {
	device *NullDevice

	boundShader   uint32
	boundMaterial uint32

	Submissions      []Submission
	RenderTargetSets int
	BufferUploads    int
	TextureUploads   int
}

// ResetRecording clears the recorded submissions between test phases.
func (c *NullContext) ResetRecording() {
	c.Submissions = c.Submissions[:0]
	c.RenderTargetSets = 0
	c.BufferUploads = 0
	c.TextureUploads = 0
}

func (c *NullContext) ClearState() {
	c.boundShader = 0
	c.boundMaterial = 0
}

func (c *NullContext) FlushState()                     {}
func (c *NullContext) SetViewportAndScissors(Viewport) {}

func (c *NullContext) SetRenderTarget(color Texture, depth Texture) {
	c.RenderTargetSets++
}

func (c *NullContext) SetRenderTargets(colors []Texture, depth Texture) {
	c.RenderTargetSets++
}

func (c *NullContext) ResetRenderTarget() {}
func (c *NullContext) ResetSR()           {}

func (c *NullContext) BindShader(shaderID uint32)                    { c.boundShader = shaderID }
func (c *NullContext) BindMaterial(materialID uint32)                { c.boundMaterial = materialID }
func (c *NullContext) BindTexture(slot uint32, texture Texture)      {}
func (c *NullContext) BindGeometry(vertexBuffer, indexBuffer Buffer) {}
func (c *NullContext) BindInstanceBuffer(buffer Buffer)              {}

func (c *NullContext) UpdateBuffer(buffer Buffer, data []byte) error {
	nb, ok := buffer.(*nullBuffer)
	if !ok {
		return fmt.Errorf("null context: foreign buffer")
	}
	if uint32(len(data)) > nb.size {
		return fmt.Errorf("null context: upload of %d bytes exceeds buffer size %d", len(data), nb.size)
	}
	nb.data = append(nb.data[:0], data...)
	c.BufferUploads++
	return nil
}

func (c *NullContext) UpdateTexture(texture Texture, data []byte) error {
	if _, ok := texture.(*nullTexture); !ok {
		return fmt.Errorf("null context: foreign texture")
	}
	c.TextureUploads++
	return nil
}

func (c *NullContext) Draw(indexCount uint32) {
	c.Submissions = append(c.Submissions, Submission{
		Kind:       SubmissionDraw,
		IndexCount: indexCount,
		ShaderID:   c.boundShader,
		MaterialID: c.boundMaterial,
	})
}

func (c *NullContext) DrawInstanced(indexCount, instanceCount, startInstance uint32) {
	c.Submissions = append(c.Submissions, Submission{
		Kind:          SubmissionDrawInstanced,
		IndexCount:    indexCount,
		InstanceCount: instanceCount,
		StartInstance: startInstance,
		ShaderID:      c.boundShader,
		MaterialID:    c.boundMaterial,
	})
}

func (c *NullContext) DrawTexture(texture Texture) {
	c.Submissions = append(c.Submissions, Submission{Kind: SubmissionDrawTexture})
}

func (c *NullContext) DrawFullscreenTriangle() {
	c.Submissions = append(c.Submissions, Submission{Kind: SubmissionFullscreenTriangle})
}

// CountKind returns the number of recorded submissions of the given kind.
func (c *NullContext) CountKind(kind SubmissionKind) int {
	n := 0
	for _, s := range c.Submissions {
		if s.Kind == kind {
			n++
		}
	}
	return n
}

package gpu

// Package gpu defines the contract between the frame renderer and a concrete
// graphics backend. The renderer only ever allocates, binds and draws through
// these interfaces; API specifics (Vulkan, D3D, Metal) live behind them.

type RendererType uint8

const (
	RendererTypeVulkan RendererType = iota
	RendererTypeDirectX
	RendererTypeMetal
	RendererTypeNull
)

// DeviceCaps describes the backend features the renderer can rely on.
type DeviceCaps struct {
	// HardwareInstancing is false on backends that cannot draw multiple
	// instances per submission; the executor falls back to per-call draws.
	HardwareInstancing bool
	MaxTextureSize     uint32
}

type Device interface {
	RendererType() RendererType
	Caps() DeviceCaps
	MainContext() Context
	CreateTexture(desc TextureDescription) (Texture, error)
	DestroyTexture(texture Texture)
	CreateBuffer(size uint32, usage BufferUsage) (Buffer, error)
	DestroyBuffer(buffer Buffer)
	Shutdown() error
}

type BufferUsage uint8

const (
	BufferUsageVertex BufferUsage = iota
	BufferUsageIndex
	BufferUsageDynamicVertex
)

type Buffer interface {
	Size() uint32
	Usage() BufferUsage
}

type Texture interface {
	Description() TextureDescription
	Width() uint32
	Height() uint32
}

// Context issues state changes and draw submissions. The renderer assumes
// exclusive ownership of pipeline state while it holds the context; no state
// is guaranteed to survive across callers.
type Context interface {
	ClearState()
	FlushState()
	SetViewportAndScissors(viewport Viewport)
	SetRenderTarget(color Texture, depth Texture)
	// SetRenderTargets binds multiple color targets, e.g. the GBuffer MRT.
	SetRenderTargets(colors []Texture, depth Texture)
	ResetRenderTarget()
	ResetSR()

	BindShader(shaderID uint32)
	BindMaterial(materialID uint32)
	// BindTexture binds a shader resource, e.g. the scene color input of the
	// forward pass.
	BindTexture(slot uint32, texture Texture)
	BindGeometry(vertexBuffer, indexBuffer Buffer)
	BindInstanceBuffer(buffer Buffer)
	UpdateBuffer(buffer Buffer, data []byte) error
	// UpdateTexture uploads CPU pixel data into the texture, e.g. a baked
	// lookup table.
	UpdateTexture(texture Texture, data []byte) error

	// Draw submits indexCount indices of the bound geometry once.
	Draw(indexCount uint32)
	// DrawInstanced submits indexCount indices instanceCount times reading
	// per-instance data from the bound instance buffer at startInstance.
	DrawInstanced(indexCount, instanceCount, startInstance uint32)
	// DrawTexture blits the texture to the current render target.
	DrawTexture(texture Texture)
	DrawFullscreenTriangle()
}

// Viewport mirrors math.Viewport without importing it; the gpu package sits
// below the engine math types.
type Viewport struct {
	X, Y, Width, Height float32
}

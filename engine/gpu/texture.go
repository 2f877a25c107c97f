package gpu

type TextureFormat uint8

const (
	TextureFormatUnknown TextureFormat = iota
	TextureFormatR8G8B8A8
	TextureFormatR11G11B10Float
	TextureFormatR16G16B16A16Float
	TextureFormatR16G16Float
	TextureFormatR8Unorm
	TextureFormatDepth32Float
)

type TextureFlags uint8

const (
	TextureFlagRenderTarget TextureFlags = 1 << iota
	TextureFlagDepthStencil
	TextureFlagShaderResource
	TextureFlagUnorderedAccess
)

// TextureDescription identifies a texture layout. It is comparable and keys
// the render target pool.
type TextureDescription struct {
	Width  uint32
	Height uint32
	Depth  uint32
	Format TextureFormat
	Flags  TextureFlags
	Mips   uint8
}

// NewTextureDescription2D builds a description for a typical 2D render target.
func NewTextureDescription2D(width, height uint32, format TextureFormat) TextureDescription {
	return TextureDescription{
		Width:  width,
		Height: height,
		Depth:  1,
		Format: format,
		Flags:  TextureFlagRenderTarget | TextureFlagShaderResource,
		Mips:   1,
	}
}

// NewTextureDescriptionDepth builds a description for a depth-stencil target.
func NewTextureDescriptionDepth(width, height uint32) TextureDescription {
	return TextureDescription{
		Width:  width,
		Height: height,
		Depth:  1,
		Format: TextureFormatDepth32Float,
		Flags:  TextureFlagDepthStencil | TextureFlagShaderResource,
		Mips:   1,
	}
}

// IsDepthStencil reports whether the description is a depth target.
func (d TextureDescription) IsDepthStencil() bool {
	return d.Flags&TextureFlagDepthStencil != 0
}

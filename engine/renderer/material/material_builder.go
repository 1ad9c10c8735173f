package material

import (
	"github.com/Carmen-Shannon/oxy-assets/engine/renderer"
	"github.com/cogentcore/webgpu/wgpu"
	"go.uber.org/zap"
)

// BuilderOption is a functional option applied to a Builder during construction via NewBuilder.
type BuilderOption func(*builder)

// WithDecoder sets the image decoding subsystem.
//
// Parameters:
//   - decoder: the texture decoder
//
// Returns:
//   - BuilderOption: a function that applies the decoder option to a builder
func WithDecoder(decoder renderer.TextureDecoder) BuilderOption {
	return func(b *builder) {
		b.decoder = decoder
	}
}

// WithAllocator sets the allocator bind groups are created with.
//
// Parameters:
//   - allocator: the GPU allocator
//
// Returns:
//   - BuilderOption: a function that applies the allocator option to a builder
func WithAllocator(allocator renderer.Allocator) BuilderOption {
	return func(b *builder) {
		b.allocator = allocator
	}
}

// WithLayout sets the caller supplied bind group layout. It must have a texture at binding 0
// and a sampler at binding 1; Build fails otherwise.
//
// Parameters:
//   - layout: the bind group layout descriptor
//
// Returns:
//   - BuilderOption: a function that applies the layout option to a builder
func WithLayout(layout *wgpu.BindGroupLayoutDescriptor) BuilderOption {
	return func(b *builder) {
		b.layout = layout
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) BuilderOption {
	return func(b *builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

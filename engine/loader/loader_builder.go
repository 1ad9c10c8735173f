package loader

import (
	"github.com/Carmen-Shannon/oxy-assets/engine/asset"
	"github.com/Carmen-Shannon/oxy-assets/engine/profiler"
	"github.com/Carmen-Shannon/oxy-assets/engine/renderer"
	"github.com/cogentcore/webgpu/wgpu"
	"go.uber.org/zap"
)

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithSource is an option builder that sets the asset source.
//
// Parameters:
//   - source: the source asset bytes are read from
//
// Returns:
//   - LoaderBuilderOption: a function that applies the source option to a loader
func WithSource(source asset.Source) LoaderBuilderOption {
	return func(l *loader) {
		l.source = source
	}
}

// WithAllocator is an option builder that sets the GPU allocator buffers and bind groups are created with.
//
// Parameters:
//   - allocator: the GPU allocator
//
// Returns:
//   - LoaderBuilderOption: a function that applies the allocator option to a loader
func WithAllocator(allocator renderer.Allocator) LoaderBuilderOption {
	return func(l *loader) {
		l.allocator = allocator
	}
}

// WithDecoder is an option builder that sets the image decoding subsystem.
//
// Parameters:
//   - decoder: the texture decoder
//
// Returns:
//   - LoaderBuilderOption: a function that applies the decoder option to a loader
func WithDecoder(decoder renderer.TextureDecoder) LoaderBuilderOption {
	return func(l *loader) {
		l.decoder = decoder
	}
}

// WithDevice sets both the allocator and the decoder from one renderer.Device.
func WithDevice(device renderer.Device) LoaderBuilderOption {
	return func(l *loader) {
		l.allocator = device
		l.decoder = device
	}
}

// WithLayout is an option builder that sets the material bind group layout. It must have a
// texture at binding 0 and a sampler at binding 1.
//
// Parameters:
//   - layout: the bind group layout descriptor
//
// Returns:
//   - LoaderBuilderOption: a function that applies the layout option to a loader
func WithLayout(layout *wgpu.BindGroupLayoutDescriptor) LoaderBuilderOption {
	return func(l *loader) {
		l.layout = layout
	}
}

// WithLogger is an option builder that sets the logger.
//
// Parameters:
//   - logger: the zap logger, nil keeps the no-op logger
//
// Returns:
//   - LoaderBuilderOption: a function that applies the logger option to a loader
func WithLogger(logger *zap.Logger) LoaderBuilderOption {
	return func(l *loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithMaterialWorkers sets how many material textures of one model are fetched at once.
// One or less fetches sequentially. GPU calls stay serial in file order either way.
//
// Parameters:
//   - n: the worker count
//
// Returns:
//   - LoaderBuilderOption: a function that applies the worker option to a loader
func WithMaterialWorkers(n int) LoaderBuilderOption {
	return func(l *loader) {
		l.workers = n
	}
}

// WithCache enables the per-name model cache.
//
// Parameters:
//   - enabled: true to return the same model for repeated loads of a name
//
// Returns:
//   - LoaderBuilderOption: a function that applies the cache option to a loader
func WithCache(enabled bool) LoaderBuilderOption {
	return func(l *loader) {
		l.cacheEnabled = enabled
	}
}

// WithProfiler records every load on p.
func WithProfiler(p *profiler.Profiler) LoaderBuilderOption {
	return func(l *loader) {
		l.profiler = p
	}
}

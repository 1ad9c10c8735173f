// Package renderer defines the GPU collaborators the asset pipeline depends on: an Allocator
// that uploads byte buffers and creates bind groups, and a TextureDecoder that turns encoded
// image bytes into a sampled texture. A cogentcore/webgpu backed implementation of both is
// provided by NewDevice.
package renderer

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// Buffer is an opaque GPU buffer handle. *wgpu.Buffer satisfies it.
type Buffer interface {
	Release()
}

// BindGroup is an opaque GPU bind group handle. *wgpu.BindGroup satisfies it.
type BindGroup interface {
	Release()
}

// TextureView is an opaque GPU texture view handle. *wgpu.TextureView satisfies it.
type TextureView interface {
	Release()
}

// Sampler is an opaque GPU sampler handle. *wgpu.Sampler satisfies it.
type Sampler interface {
	Release()
}

// TextureHandle is the GPU texture backing a view. *wgpu.Texture satisfies it.
type TextureHandle interface {
	Release()
}

// BindGroupEntry is a single resource bound at Binding. Exactly one of TextureView or Sampler is set.
type BindGroupEntry struct {
	Binding     uint32
	TextureView TextureView
	Sampler     Sampler
}

// Allocator creates GPU resources. Implementations must be safe for concurrent use;
// the wgpu implementation serialises every device and queue call.
type Allocator interface {
	// CreateBufferInit creates a buffer sized to contents and uploads contents into it.
	//
	// Parameters:
	//   - label: debug label for the buffer
	//   - contents: little-endian packed bytes, length a multiple of 4
	//   - usage: buffer usage flags, e.g. wgpu.BufferUsageVertex or wgpu.BufferUsageIndex
	//
	// Returns:
	//   - Buffer: the created buffer
	//   - error: if the buffer could not be created
	CreateBufferInit(label string, contents []byte, usage wgpu.BufferUsage) (Buffer, error)

	// CreateBindGroup creates a bind group against the supplied layout descriptor.
	//
	// Parameters:
	//   - label: debug label for the bind group
	//   - layout: the bind group layout descriptor the entries must match
	//   - entries: the resources to bind, one per layout entry
	//
	// Returns:
	//   - BindGroup: the created bind group
	//   - error: if the entries do not match the layout or creation fails
	CreateBindGroup(label string, layout *wgpu.BindGroupLayoutDescriptor, entries []BindGroupEntry) (BindGroup, error)
}

// TextureDecoder turns encoded image bytes into a sampled GPU texture.
type TextureDecoder interface {
	// DecodeTexture decodes data and uploads it as an RGBA texture with a view and sampler.
	//
	// Parameters:
	//   - label: debug label for the GPU objects
	//   - data: the encoded image bytes
	//   - hint: a filename whose extension selects the image format
	//
	// Returns:
	//   - *Texture: the uploaded texture, owned by the caller
	//   - error: if decoding or upload fails
	DecodeTexture(label string, data []byte, hint string) (*Texture, error)
}

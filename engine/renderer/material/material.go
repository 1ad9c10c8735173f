// Package material turns a diffuse texture into a bound model.Material: the image is decoded
// through a renderer.TextureDecoder and bound with a renderer.Allocator against a two-entry
// layout (texture view at 0, sampler at 1).
package material

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-assets/common"
	"github.com/Carmen-Shannon/oxy-assets/engine/model"
	"github.com/Carmen-Shannon/oxy-assets/engine/renderer"
	"github.com/cogentcore/webgpu/wgpu"
	"go.uber.org/zap"
)

// builder is the implementation of the Builder interface.
type builder struct {
	decoder   renderer.TextureDecoder
	allocator renderer.Allocator
	layout    *wgpu.BindGroupLayoutDescriptor
	logger    *zap.Logger
}

// Builder creates GPU-bound materials.
type Builder interface {
	// Build decodes data as the diffuse texture of material name and creates its bind group.
	//
	// Parameters:
	//   - name: the material name
	//   - data: the encoded image bytes
	//   - filename: the image file name, used as the decode format hint
	//
	// Returns:
	//   - *model.Material: the material, owning its texture and bind group
	//   - error: a *common.MaterialBuildError wrapping the decoder, layout or allocator failure
	Build(name string, data []byte, filename string) (*model.Material, error)

	// BuildFallback builds a material with a 1x1 white texture.
	//
	// Parameters:
	//   - name: the material name
	//
	// Returns:
	//   - *model.Material: the material
	//   - error: a *common.MaterialBuildError on failure
	BuildFallback(name string) (*model.Material, error)

	// Layout returns the bind group layout descriptor materials are bound against.
	Layout() *wgpu.BindGroupLayoutDescriptor
}

var _ Builder = &builder{}

// NewBuilder creates a Builder. WithDecoder and WithAllocator are required; the layout
// defaults to renderer.TextureBindGroupLayout.
//
// Parameters:
//   - options: BuilderOption functions to configure the Builder
//
// Returns:
//   - Builder: the configured builder
//   - error: if a required collaborator is missing
func NewBuilder(options ...BuilderOption) (Builder, error) {
	b := &builder{
		layout: renderer.TextureBindGroupLayout("texture_bind_group_layout"),
		logger: zap.NewNop(),
	}
	for _, option := range options {
		option(b)
	}
	if b.decoder == nil {
		return nil, fmt.Errorf("material builder: no texture decoder")
	}
	if b.allocator == nil {
		return nil, fmt.Errorf("material builder: no allocator")
	}
	return b, nil
}

func (b *builder) Layout() *wgpu.BindGroupLayoutDescriptor {
	return b.layout
}

func (b *builder) Build(name string, data []byte, filename string) (*model.Material, error) {
	if err := renderer.ValidateTextureLayout(b.layout); err != nil {
		return nil, &common.MaterialBuildError{Material: name, Err: err}
	}

	tex, err := b.decoder.DecodeTexture(name+" diffuse", data, filename)
	if err != nil {
		return nil, &common.MaterialBuildError{Material: name, Err: err}
	}

	bindGroup, err := b.allocator.CreateBindGroup(name+" bind group", b.layout, []renderer.BindGroupEntry{
		{Binding: renderer.TextureBinding, TextureView: tex.View},
		{Binding: renderer.SamplerBinding, Sampler: tex.Sampler},
	})
	if err != nil {
		tex.Release()
		return nil, &common.MaterialBuildError{Material: name, Err: err}
	}

	b.logger.Debug("material built",
		zap.String("material", name),
		zap.String("texture", filename),
		zap.Uint32("width", tex.Width),
		zap.Uint32("height", tex.Height),
	)

	return &model.Material{
		Name:           name,
		DiffuseTexture: tex,
		BindGroup:      bindGroup,
	}, nil
}

func (b *builder) BuildFallback(name string) (*model.Material, error) {
	return b.Build(name, renderer.WhiteTexturePNG(), renderer.FallbackTextureName)
}

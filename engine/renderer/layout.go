package renderer

import (
	"errors"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// ErrLayoutMismatch is returned when a bind group layout does not have the fixed
// texture-at-0, sampler-at-1 arrangement that materials are built against.
var ErrLayoutMismatch = errors.New("bind group layout mismatch")

// Fixed binding slots of a material bind group.
const (
	TextureBinding uint32 = 0
	SamplerBinding uint32 = 1
)

// TextureBindGroupLayout returns the standard material layout: a filterable 2D float texture
// at binding 0 and a filtering sampler at binding 1, both visible to the fragment stage.
//
// Parameters:
//   - label: debug label for the layout
//
// Returns:
//   - *wgpu.BindGroupLayoutDescriptor: the layout descriptor
func TextureBindGroupLayout(label string) *wgpu.BindGroupLayoutDescriptor {
	return &wgpu.BindGroupLayoutDescriptor{
		Label: label,
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    TextureBinding,
				Visibility: wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					Multisampled:  false,
					ViewDimension: wgpu.TextureViewDimension2D,
					SampleType:    wgpu.TextureSampleTypeFloat,
				},
			},
			{
				Binding:    SamplerBinding,
				Visibility: wgpu.ShaderStageFragment,
				Sampler: wgpu.SamplerBindingLayout{
					Type: wgpu.SamplerBindingTypeFiltering,
				},
			},
		},
	}
}

// ValidateTextureLayout checks that layout has exactly two entries: a sampled texture at
// binding 0 and a sampler at binding 1.
//
// Parameters:
//   - layout: the descriptor to check
//
// Returns:
//   - error: ErrLayoutMismatch (wrapped) describing the first divergence, or nil
func ValidateTextureLayout(layout *wgpu.BindGroupLayoutDescriptor) error {
	if layout == nil {
		return fmt.Errorf("%w: no layout", ErrLayoutMismatch)
	}
	if len(layout.Entries) != 2 {
		return fmt.Errorf("%w: %d entries, want 2", ErrLayoutMismatch, len(layout.Entries))
	}

	var haveTexture, haveSampler bool
	for _, entry := range layout.Entries {
		switch {
		case isTextureEntry(entry) && entry.Binding == TextureBinding:
			haveTexture = true
		case isSamplerEntry(entry) && entry.Binding == SamplerBinding:
			haveSampler = true
		default:
			return fmt.Errorf("%w: unexpected entry at binding %d", ErrLayoutMismatch, entry.Binding)
		}
	}
	if !haveTexture || !haveSampler {
		return fmt.Errorf("%w: want texture at %d and sampler at %d", ErrLayoutMismatch, TextureBinding, SamplerBinding)
	}
	return nil
}

func isTextureEntry(entry wgpu.BindGroupLayoutEntry) bool {
	return entry.Texture.SampleType != wgpu.TextureSampleTypeUndefined
}

func isSamplerEntry(entry wgpu.BindGroupLayoutEntry) bool {
	return entry.Sampler.Type != wgpu.SamplerBindingTypeUndefined
}

// Package common holds the plain data types, error kinds and small helpers shared by every
// stage of the asset pipeline.
package common

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// TextureStagingData holds RGBA pixel data for a decoded image pending GPU upload.
type TextureStagingData struct {
	// Pixels is tightly packed RGBA8, Width*Height*4 bytes, rows top to bottom.
	Pixels []byte
	Width  uint32
	Height uint32
}

// SamplerStagingData holds the configuration for a sampler pending GPU creation.
type SamplerStagingData struct {
	// Zero fields are filled from DefaultDiffuseSampler when the sampler is created.
	AddressModeU, AddressModeV, AddressModeW wgpu.AddressMode
	MagFilter, MinFilter                     wgpu.FilterMode
	MipmapFilter                             wgpu.MipmapFilterMode
	LodMinClamp, LodMaxClamp                 float32
	MaxAnisotropy                            uint16
}

// DefaultDiffuseSampler returns the sampler used for diffuse textures: clamp-to-edge addressing,
// linear magnification and nearest minification/mipmap selection.
//
// Returns:
//   - SamplerStagingData: the sampler configuration
func DefaultDiffuseSampler() SamplerStagingData {
	return SamplerStagingData{
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeNearest,
		MipmapFilter:  wgpu.MipmapFilterModeNearest,
		LodMinClamp:   0,
		LodMaxClamp:   32,
		MaxAnisotropy: 1,
	}
}

package renderer

import (
	"github.com/Carmen-Shannon/oxy-assets/common"
	"go.uber.org/zap"
)

// DeviceBuilderOption is a functional option applied to a Device during construction via NewDevice.
type DeviceBuilderOption func(*wgpuDevice)

// WithSampler overrides the sampler created for every decoded texture. Zero fields fall back
// to the diffuse defaults.
//
// Parameters:
//   - sampler: the sampler configuration
//
// Returns:
//   - DeviceBuilderOption: a function that applies the sampler option to a device
func WithSampler(sampler common.SamplerStagingData) DeviceBuilderOption {
	return func(d *wgpuDevice) {
		d.sampler = sampler
	}
}

// WithLogger sets the logger used for upload debug output.
//
// Parameters:
//   - logger: the zap logger, nil keeps the no-op logger
//
// Returns:
//   - DeviceBuilderOption: a function that applies the logger option to a device
func WithLogger(logger *zap.Logger) DeviceBuilderOption {
	return func(d *wgpuDevice) {
		if logger != nil {
			d.logger = logger
		}
	}
}

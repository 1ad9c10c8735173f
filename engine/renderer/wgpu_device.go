package renderer

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-assets/common"
	"github.com/cogentcore/webgpu/wgpu"
	"go.uber.org/zap"
)

// wgpuDevice implements Allocator and TextureDecoder over a single wgpu device and queue.
type wgpuDevice struct {
	mu     *sync.Mutex
	device *wgpu.Device
	queue  *wgpu.Queue

	// owned only when created by NewHeadlessDevice
	instance *wgpu.Instance
	adapter  *wgpu.Adapter

	sampler common.SamplerStagingData
	logger  *zap.Logger
}

// Device is the wgpu backed GPU collaborator: it allocates buffers and bind groups and
// decodes textures. All device and queue calls are serialised by an internal mutex.
type Device interface {
	Allocator
	TextureDecoder

	// WGPU returns the underlying device and queue.
	//
	// Returns:
	//   - *wgpu.Device: the device resources are created on
	//   - *wgpu.Queue: the queue uploads are written through
	WGPU() (*wgpu.Device, *wgpu.Queue)

	// Release frees the device, queue, adapter and instance if this Device created them.
	// A Device wrapping a caller supplied device releases nothing.
	Release()
}

var _ Device = &wgpuDevice{}

// NewDevice wraps an existing wgpu device and queue. The caller keeps ownership of both.
//
// Parameters:
//   - device: the wgpu device
//   - queue: the device's queue
//   - options: DeviceBuilderOption functions to configure the Device
//
// Returns:
//   - Device: the wrapped device
func NewDevice(device *wgpu.Device, queue *wgpu.Queue, options ...DeviceBuilderOption) Device {
	d := &wgpuDevice{
		mu:      &sync.Mutex{},
		device:  device,
		queue:   queue,
		sampler: common.DefaultDiffuseSampler(),
		logger:  zap.NewNop(),
	}
	for _, option := range options {
		option(d)
	}
	return d
}

// NewHeadlessDevice requests an adapter and device without a surface, for tools that only
// upload resources.
//
// Parameters:
//   - label: debug label of the device
//   - options: DeviceBuilderOption functions to configure the Device
//
// Returns:
//   - Device: a Device owning its instance, adapter and device
//   - error: if no adapter or device is available
func NewHeadlessDevice(label string, options ...DeviceBuilderOption) (Device, error) {
	instance := wgpu.CreateInstance(nil)

	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{})
	if err != nil {
		instance.Release()
		return nil, fmt.Errorf("requesting adapter: %w", err)
	}

	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: label,
	})
	if err != nil {
		adapter.Release()
		instance.Release()
		return nil, fmt.Errorf("requesting device: %w", err)
	}

	d := NewDevice(device, device.GetQueue(), options...).(*wgpuDevice)
	d.instance = instance
	d.adapter = adapter
	return d, nil
}

func (d *wgpuDevice) WGPU() (*wgpu.Device, *wgpu.Queue) {
	return d.device, d.queue
}

func (d *wgpuDevice) Release() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.instance == nil {
		return
	}
	if d.queue != nil {
		d.queue.Release()
		d.queue = nil
	}
	if d.device != nil {
		d.device.Release()
		d.device = nil
	}
	if d.adapter != nil {
		d.adapter.Release()
		d.adapter = nil
	}
	d.instance.Release()
	d.instance = nil
}

func (d *wgpuDevice) CreateBufferInit(label string, contents []byte, usage wgpu.BufferUsage) (Buffer, error) {
	if len(contents) == 0 {
		return nil, fmt.Errorf("buffer %q: no contents", label)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	buf, err := d.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label:            label,
		Size:             uint64(len(contents)),
		Usage:            usage | wgpu.BufferUsageCopyDst,
		MappedAtCreation: false,
	})
	if err != nil {
		return nil, fmt.Errorf("creating buffer %q: %w", label, err)
	}
	d.queue.WriteBuffer(buf, 0, contents)

	d.logger.Debug("buffer created", zap.String("label", label), zap.Int("bytes", len(contents)))
	return buf, nil
}

func (d *wgpuDevice) CreateBindGroup(label string, layout *wgpu.BindGroupLayoutDescriptor, entries []BindGroupEntry) (BindGroup, error) {
	if layout == nil {
		return nil, fmt.Errorf("%w: no layout", ErrLayoutMismatch)
	}
	if len(entries) != len(layout.Entries) {
		return nil, fmt.Errorf("%w: %d entries for a %d entry layout", ErrLayoutMismatch, len(entries), len(layout.Entries))
	}

	byBinding := make(map[uint32]BindGroupEntry, len(entries))
	for _, e := range entries {
		byBinding[e.Binding] = e
	}

	bindGroupEntries := make([]wgpu.BindGroupEntry, len(layout.Entries))
	for i, entry := range layout.Entries {
		e, ok := byBinding[entry.Binding]
		if !ok {
			return nil, fmt.Errorf("%w: binding %d has no resource", ErrLayoutMismatch, entry.Binding)
		}

		switch {
		case isTextureEntry(entry):
			tv, ok := e.TextureView.(*wgpu.TextureView)
			if !ok || tv == nil {
				return nil, fmt.Errorf("texture binding %d has no wgpu texture view", entry.Binding)
			}
			bindGroupEntries[i] = wgpu.BindGroupEntry{
				Binding:     entry.Binding,
				TextureView: tv,
			}
		case isSamplerEntry(entry):
			samp, ok := e.Sampler.(*wgpu.Sampler)
			if !ok || samp == nil {
				return nil, fmt.Errorf("sampler binding %d has no wgpu sampler", entry.Binding)
			}
			bindGroupEntries[i] = wgpu.BindGroupEntry{
				Binding: entry.Binding,
				Sampler: samp,
			}
		default:
			return nil, fmt.Errorf("%w: binding %d is neither a texture nor a sampler", ErrLayoutMismatch, entry.Binding)
		}
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	bgl, err := d.device.CreateBindGroupLayout(layout)
	if err != nil {
		return nil, fmt.Errorf("creating bind group layout %q: %w", layout.Label, err)
	}
	defer bgl.Release()

	bindGroup, err := d.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   label,
		Layout:  bgl,
		Entries: bindGroupEntries,
	})
	if err != nil {
		return nil, fmt.Errorf("creating bind group %q: %w", label, err)
	}
	return bindGroup, nil
}

func (d *wgpuDevice) DecodeTexture(label string, data []byte, hint string) (*Texture, error) {
	staging, err := DecodeImage(data, hint)
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	size := wgpu.Extent3D{
		Width:              staging.Width,
		Height:             staging.Height,
		DepthOrArrayLayers: 1,
	}
	tex, err := d.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         label,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension:     wgpu.TextureDimension2D,
		Size:          size,
		Format:        wgpu.TextureFormatRGBA8UnormSrgb,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return nil, fmt.Errorf("creating texture %q: %w", label, err)
	}

	d.queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  tex,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		staging.Pixels,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  staging.Width * 4,
			RowsPerImage: staging.Height,
		},
		&size,
	)

	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, fmt.Errorf("creating view for %q: %w", label, err)
	}

	s := d.sampler
	samp, err := d.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         label + " Sampler",
		AddressModeU:  common.Coalesce(s.AddressModeU, wgpu.AddressModeClampToEdge),
		AddressModeV:  common.Coalesce(s.AddressModeV, wgpu.AddressModeClampToEdge),
		AddressModeW:  common.Coalesce(s.AddressModeW, wgpu.AddressModeClampToEdge),
		MagFilter:     common.Coalesce(s.MagFilter, wgpu.FilterModeLinear),
		MinFilter:     common.Coalesce(s.MinFilter, wgpu.FilterModeNearest),
		MipmapFilter:  common.Coalesce(s.MipmapFilter, wgpu.MipmapFilterModeNearest),
		LodMinClamp:   common.Coalesce(s.LodMinClamp, 0.0),
		LodMaxClamp:   common.Coalesce(s.LodMaxClamp, 32.0),
		MaxAnisotropy: common.Coalesce(s.MaxAnisotropy, 1),
	})
	if err != nil {
		view.Release()
		tex.Release()
		return nil, fmt.Errorf("creating sampler for %q: %w", label, err)
	}

	d.logger.Debug("texture uploaded",
		zap.String("label", label),
		zap.Uint32("width", staging.Width),
		zap.Uint32("height", staging.Height),
	)

	return &Texture{
		Label:   label,
		Width:   staging.Width,
		Height:  staging.Height,
		Handle:  tex,
		View:    view,
		Sampler: samp,
	}, nil
}

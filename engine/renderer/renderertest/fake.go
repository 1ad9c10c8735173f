// Package renderertest provides an in-memory renderer.Allocator and renderer.TextureDecoder
// for tests. Every handle it hands out is tracked so tests can assert that loads release
// what they create.
package renderertest

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-assets/engine/renderer"
	"github.com/cogentcore/webgpu/wgpu"
)

// ErrInjected is returned by a Device configured to fail.
var ErrInjected = errors.New("injected failure")

// Handle is a fake GPU object.
type Handle struct {
	Kind     string
	Label    string
	Contents []byte
	Usage    wgpu.BufferUsage

	device   *Device
	released bool
}

// Release marks the handle released. Releasing twice is counted as an error on the Device.
func (h *Handle) Release() {
	h.device.mu.Lock()
	defer h.device.mu.Unlock()
	if h.released {
		h.device.doubleReleases++
		return
	}
	h.released = true
	h.device.live--
}

// Released reports whether Release has been called.
func (h *Handle) Released() bool {
	h.device.mu.Lock()
	defer h.device.mu.Unlock()
	return h.released
}

// Device is a fake Allocator and TextureDecoder. The zero value is ready to use.
type Device struct {
	mu sync.Mutex

	// FailBufferAt makes the n-th CreateBufferInit call (1-based) fail. Zero never fails.
	FailBufferAt int
	// FailBindGroup makes every CreateBindGroup call fail.
	FailBindGroup bool
	// FailDecode makes every DecodeTexture call fail.
	FailDecode bool

	buffers        []*Handle
	bindGroups     []*Handle
	hints          []string
	live           int
	doubleReleases int
	bufferCalls    int
}

var (
	_ renderer.Allocator      = &Device{}
	_ renderer.TextureDecoder = &Device{}
)

func (d *Device) newHandle(kind, label string) *Handle {
	d.live++
	return &Handle{Kind: kind, Label: label, device: d}
}

func (d *Device) CreateBufferInit(label string, contents []byte, usage wgpu.BufferUsage) (renderer.Buffer, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.bufferCalls++
	if d.FailBufferAt > 0 && d.bufferCalls == d.FailBufferAt {
		return nil, fmt.Errorf("buffer %q: %w", label, ErrInjected)
	}
	if len(contents) == 0 {
		return nil, fmt.Errorf("buffer %q: no contents", label)
	}

	h := d.newHandle("buffer", label)
	h.Contents = append([]byte(nil), contents...)
	h.Usage = usage
	d.buffers = append(d.buffers, h)
	return h, nil
}

func (d *Device) CreateBindGroup(label string, layout *wgpu.BindGroupLayoutDescriptor, entries []renderer.BindGroupEntry) (renderer.BindGroup, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.FailBindGroup {
		return nil, fmt.Errorf("bind group %q: %w", label, ErrInjected)
	}
	if layout == nil || len(entries) != len(layout.Entries) {
		return nil, fmt.Errorf("bind group %q: %w", label, renderer.ErrLayoutMismatch)
	}

	h := d.newHandle("bind group", label)
	d.bindGroups = append(d.bindGroups, h)
	return h, nil
}

func (d *Device) DecodeTexture(label string, data []byte, hint string) (*renderer.Texture, error) {
	if d.FailDecode {
		return nil, fmt.Errorf("texture %q: %w", label, ErrInjected)
	}
	staging, err := renderer.DecodeImage(data, hint)
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.hints = append(d.hints, hint)
	return &renderer.Texture{
		Label:   label,
		Width:   staging.Width,
		Height:  staging.Height,
		Handle:  d.newHandle("texture", label),
		View:    d.newHandle("view", label),
		Sampler: d.newHandle("sampler", label),
	}, nil
}

// Live returns the number of handles created and not yet released.
func (d *Device) Live() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.live
}

// DoubleReleases returns how many times an already released handle was released again.
func (d *Device) DoubleReleases() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.doubleReleases
}

// Buffers returns every buffer created so far, in creation order.
func (d *Device) Buffers() []*Handle {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]*Handle(nil), d.buffers...)
}

// BindGroups returns every bind group created so far, in creation order.
func (d *Device) BindGroups() []*Handle {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]*Handle(nil), d.bindGroups...)
}

// DecodedHints returns the format hints passed to successful DecodeTexture calls.
func (d *Device) DecodedHints() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.hints...)
}

package loader

import (
	"context"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"net/url"
	"strings"

	"github.com/Carmen-Shannon/oxy-assets/common"
	"github.com/qmuntal/gltf"
)

// maxZeroFillCount bounds accessors without a buffer view, which read as zeros.
const maxZeroFillCount = 1 << 24

// gltfBuffers resolves accessors to bytes for one load. Each external buffer is fetched at
// most once.
type gltfBuffers struct {
	l    *loader
	ctx  context.Context
	name string
	c    *gltfContainer

	fetched map[int][]byte
}

func (l *loader) newGLTFBuffers(ctx context.Context, name string, c *gltfContainer) *gltfBuffers {
	return &gltfBuffers{
		l:       l,
		ctx:     ctx,
		name:    name,
		c:       c,
		fetched: make(map[int][]byte),
	}
}

// buffer returns the full contents of buffer i.
func (b *gltfBuffers) buffer(i int) ([]byte, error) {
	if data, ok := b.fetched[i]; ok {
		return data, nil
	}
	if i < 0 || i >= len(b.c.doc.Buffers) {
		return nil, fmt.Errorf("%w: buffer %d does not exist", common.ErrMalformedAsset, i)
	}

	buf := b.c.doc.Buffers[i]
	var data []byte
	var err error
	switch {
	case buf.URI == "":
		return nil, fmt.Errorf("%w: buffer %d is embedded in the binary container", common.ErrUnsupportedFormat, i)
	case strings.HasPrefix(buf.URI, "data:"):
		data, err = decodeDataURI(buf.URI)
		if err != nil {
			return nil, &common.ParseError{File: b.name, Msg: fmt.Sprintf("buffer %d data URI", i), Err: err}
		}
	default:
		data, err = b.l.source.Retrieve(b.ctx, common.ResolveSibling(b.name, buf.URI))
		if err != nil {
			return nil, fmt.Errorf("buffer %d: %w", i, err)
		}
	}

	b.fetched[i] = data
	return data, nil
}

// view returns exactly bytes [offset, offset+length) of buffer view i.
func (b *gltfBuffers) view(i int) ([]byte, error) {
	if i < 0 || i >= len(b.c.doc.BufferViews) {
		return nil, fmt.Errorf("%w: buffer view %d does not exist", common.ErrMalformedAsset, i)
	}
	bv := b.c.doc.BufferViews[i]

	data, err := b.buffer(bv.Buffer)
	if err != nil {
		return nil, err
	}
	return sliceView(data, bv.ByteOffset, bv.ByteLength)
}

// sliceView cuts [offset, offset+length) out of data.
func sliceView(data []byte, offset, length int) ([]byte, error) {
	if offset < 0 || length < 0 || offset > len(data) || length > len(data)-offset {
		return nil, fmt.Errorf("%w: view of %d bytes at offset %d of a %d byte buffer", common.ErrBufferSlice, length, offset, len(data))
	}
	return data[offset : offset+length : offset+length], nil
}

// accessor returns accessor i after rejecting the forms this loader does not read.
func (b *gltfBuffers) accessor(i int) (*gltf.Accessor, error) {
	if i < 0 || i >= len(b.c.doc.Accessors) {
		return nil, fmt.Errorf("%w: accessor %d does not exist", common.ErrMalformedAsset, i)
	}
	acc := b.c.doc.Accessors[i]
	if acc.Sparse != nil {
		return nil, fmt.Errorf("%w: accessor %d is sparse", common.ErrUnsupportedFormat, i)
	}
	if acc.Count < 0 {
		return nil, fmt.Errorf("%w: accessor %d has negative count", common.ErrMalformedAsset, i)
	}
	return acc, nil
}

// elements returns the view bytes and element stride for an accessor of elemSize bytes.
// An accessor without a buffer view reads as zeros.
func (b *gltfBuffers) elements(i int, acc *gltf.Accessor, elemSize int) ([]byte, int, error) {
	if acc.BufferView == nil {
		if acc.Count > maxZeroFillCount {
			return nil, 0, fmt.Errorf("%w: accessor %d has %d elements and no buffer view", common.ErrMalformedAsset, i, acc.Count)
		}
		return make([]byte, acc.Count*elemSize), elemSize, nil
	}

	data, err := b.view(*acc.BufferView)
	if err != nil {
		return nil, 0, fmt.Errorf("accessor %d: %w", i, err)
	}

	stride := b.c.doc.BufferViews[*acc.BufferView].ByteStride
	if stride == 0 {
		stride = elemSize
	}
	if stride < elemSize {
		return nil, 0, fmt.Errorf("%w: accessor %d stride %d is smaller than its %d byte element", common.ErrMalformedAsset, i, stride, elemSize)
	}

	if acc.ByteOffset < 0 || acc.ByteOffset > len(data) {
		return nil, 0, fmt.Errorf("%w: accessor %d offset %d is outside a %d byte view", common.ErrBufferSlice, i, acc.ByteOffset, len(data))
	}
	data = data[acc.ByteOffset:]
	if acc.Count > 0 {
		// The last element needs elemSize bytes, every earlier one needs stride.
		if len(data) < elemSize || acc.Count > (len(data)-elemSize)/stride+1 {
			return nil, 0, fmt.Errorf("%w: accessor %d reads %d elements of stride %d from %d bytes", common.ErrBufferSlice, i, acc.Count, stride, len(data))
		}
	}
	return data, stride, nil
}

// readFloats de-interleaves a FLOAT accessor of the given type into a flat slice.
// It returns the values and the element count.
func (b *gltfBuffers) readFloats(i int, want gltf.AccessorType) ([]float32, int, error) {
	acc, err := b.accessor(i)
	if err != nil {
		return nil, 0, err
	}
	if acc.ComponentType != gltf.ComponentFloat {
		return nil, 0, fmt.Errorf("%w: accessor %d component type %s, want FLOAT", common.ErrUnsupportedFormat, i, acc.ComponentType)
	}
	if acc.Type != want {
		return nil, 0, fmt.Errorf("%w: accessor %d type %s, want %s", common.ErrUnsupportedFormat, i, acc.Type, want)
	}

	components := accessorComponents(acc.Type)
	data, stride, err := b.elements(i, acc, components*4)
	if err != nil {
		return nil, 0, err
	}

	out := make([]float32, acc.Count*components)
	for e := 0; e < acc.Count; e++ {
		base := e * stride
		for c := 0; c < components; c++ {
			out[e*components+c] = common.Float32At(data, base+c*4)
		}
	}
	return out, acc.Count, nil
}

// readIndices reads a SCALAR index accessor widened to uint32.
func (b *gltfBuffers) readIndices(i int) ([]uint32, error) {
	acc, err := b.accessor(i)
	if err != nil {
		return nil, err
	}
	if acc.Type != gltf.AccessorScalar {
		return nil, fmt.Errorf("%w: index accessor %d type %s, want SCALAR", common.ErrUnsupportedFormat, i, acc.Type)
	}

	var size int
	switch acc.ComponentType {
	case gltf.ComponentUbyte:
		size = 1
	case gltf.ComponentUshort:
		size = 2
	case gltf.ComponentUint:
		size = 4
	default:
		return nil, fmt.Errorf("%w: index accessor %d component type %s", common.ErrUnsupportedFormat, i, acc.ComponentType)
	}

	data, stride, err := b.elements(i, acc, size)
	if err != nil {
		return nil, err
	}

	out := make([]uint32, acc.Count)
	for e := range out {
		off := e * stride
		switch size {
		case 1:
			out[e] = uint32(data[off])
		case 2:
			out[e] = uint32(binary.LittleEndian.Uint16(data[off:]))
		case 4:
			out[e] = binary.LittleEndian.Uint32(data[off:])
		}
	}
	return out, nil
}

func accessorComponents(t gltf.AccessorType) int {
	switch t {
	case gltf.AccessorScalar:
		return 1
	case gltf.AccessorVec2:
		return 2
	case gltf.AccessorVec3:
		return 3
	case gltf.AccessorVec4, gltf.AccessorMat2:
		return 4
	case gltf.AccessorMat3:
		return 9
	case gltf.AccessorMat4:
		return 16
	default:
		return 0
	}
}

// decodeDataURI decodes a base64 data URI.
// Format: data:[<mediatype>][;base64],<data>
func decodeDataURI(uri string) ([]byte, error) {
	header, payload, ok := strings.Cut(strings.TrimPrefix(uri, "data:"), ",")
	if !ok {
		return nil, fmt.Errorf("data URI has no payload")
	}
	if !strings.HasSuffix(header, ";base64") {
		unescaped, err := url.PathUnescape(payload)
		if err != nil {
			return nil, err
		}
		return []byte(unescaped), nil
	}
	return base64.StdEncoding.DecodeString(payload)
}

// dataURIMediaType returns the media type of a data URI, e.g. "image/png".
func dataURIMediaType(uri string) string {
	header, _, _ := strings.Cut(strings.TrimPrefix(uri, "data:"), ",")
	mediaType, _, _ := strings.Cut(header, ";")
	return mediaType
}

package common

import (
	"encoding/binary"
	"math"
)

// Float32sToBytes packs float32 values into a little-endian byte slice for GPU upload.
//
// Parameters:
//   - values: the values to pack
//
// Returns:
//   - []byte: 4*len(values) bytes, or nil if values is empty
func Float32sToBytes(values []float32) []byte {
	if len(values) == 0 {
		return nil
	}
	buf := make([]byte, 4*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

// Uint32sToBytes packs uint32 values into a little-endian byte slice for GPU upload.
//
// Parameters:
//   - values: the values to pack
//
// Returns:
//   - []byte: 4*len(values) bytes, or nil if values is empty
func Uint32sToBytes(values []uint32) []byte {
	if len(values) == 0 {
		return nil
	}
	buf := make([]byte, 4*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint32(buf[i*4:], v)
	}
	return buf
}

// Float32At reads a little-endian float32 at byte offset off.
func Float32At(b []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b[off:]))
}

package model

import (
	"encoding/binary"
	"math"

	"github.com/cogentcore/webgpu/wgpu"
)

// VertexSize is the byte size of a marshalled Vertex.
const VertexSize = 32

// Vertex is the interleaved per-vertex record uploaded to vertex buffers.
// Layout: position at offset 0 (12 bytes), tex coord at 12 (8 bytes), normal at 20 (12 bytes).
type Vertex struct {
	Position [3]float32
	TexCoord [2]float32
	Normal   [3]float32
}

// Marshal serializes the Vertex into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 32-byte little-endian buffer
func (v *Vertex) Marshal() []byte {
	buf := make([]byte, VertexSize)
	v.put(buf)
	return buf
}

func (v *Vertex) put(buf []byte) {
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(v.Position[0]))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(v.Position[1]))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(v.Position[2]))
	binary.LittleEndian.PutUint32(buf[12:16], math.Float32bits(v.TexCoord[0]))
	binary.LittleEndian.PutUint32(buf[16:20], math.Float32bits(v.TexCoord[1]))
	binary.LittleEndian.PutUint32(buf[20:24], math.Float32bits(v.Normal[0]))
	binary.LittleEndian.PutUint32(buf[24:28], math.Float32bits(v.Normal[1]))
	binary.LittleEndian.PutUint32(buf[28:32], math.Float32bits(v.Normal[2]))
}

// VertexBufferLayout describes Vertex to a render pipeline: position at location 0,
// tex coord at location 1, normal at location 2.
//
// Returns:
//   - wgpu.VertexBufferLayout: the per-vertex buffer layout
func VertexBufferLayout() wgpu.VertexBufferLayout {
	return wgpu.VertexBufferLayout{
		ArrayStride: VertexSize,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{Offset: 0, ShaderLocation: 0, Format: wgpu.VertexFormatFloat32x3},
			{Offset: 12, ShaderLocation: 1, Format: wgpu.VertexFormatFloat32x2},
			{Offset: 20, ShaderLocation: 2, Format: wgpu.VertexFormatFloat32x3},
		},
	}
}

// MarshalVertices packs vertices back to back for a vertex buffer.
//
// Parameters:
//   - vertices: the vertices to pack
//
// Returns:
//   - []byte: len(vertices)*VertexSize little-endian bytes
func MarshalVertices(vertices []Vertex) []byte {
	buf := make([]byte, len(vertices)*VertexSize)
	for i := range vertices {
		vertices[i].put(buf[i*VertexSize:])
	}
	return buf
}

// MarshalIndices packs indices as little-endian uint32 for an index buffer.
func MarshalIndices(indices []uint32) []byte {
	buf := make([]byte, 4*len(indices))
	for i, idx := range indices {
		binary.LittleEndian.PutUint32(buf[i*4:], idx)
	}
	return buf
}

// Package model holds the in-memory aggregates produced by an asset load: interleaved
// vertices, indices, GPU buffers and materials. Aggregates are built once per load and are
// not mutated afterwards; Release frees the GPU resources they own.
package model

import (
	"github.com/Carmen-Shannon/oxy-assets/engine/renderer"
	"github.com/go-gl/mathgl/mgl32"
)

// Material is a diffuse texture bound for a fragment shader. The bind group puts the
// texture view at binding 0 and the sampler at binding 1. The Material owns both.
type Material struct {
	Name           string
	DiffuseTexture *renderer.Texture
	BindGroup      renderer.BindGroup
}

// Release frees the bind group, then the texture.
func (m *Material) Release() {
	if m == nil {
		return
	}
	if m.BindGroup != nil {
		m.BindGroup.Release()
		m.BindGroup = nil
	}
	m.DiffuseTexture.Release()
	m.DiffuseTexture = nil
}

// Mesh is one OBJ submesh uploaded as a vertex and index buffer pair.
type Mesh struct {
	Name     string
	Vertices []Vertex
	Indices  []uint32
	// Material indexes Model.Materials; 0 is the default.
	Material int

	VertexBuffer renderer.Buffer
	IndexBuffer  renderer.Buffer
	NumElements  uint32

	BoundsMin mgl32.Vec3
	BoundsMax mgl32.Vec3
}

// Release frees the mesh buffers.
func (m *Mesh) Release() {
	releaseBuffers(&m.VertexBuffer, &m.IndexBuffer)
}

// Model is a decoded OBJ asset. It owns every mesh buffer and material.
type Model struct {
	Meshes    []Mesh
	Materials []Material
}

// Release frees all GPU resources held by the model.
func (m *Model) Release() {
	if m == nil {
		return
	}
	for i := range m.Meshes {
		m.Meshes[i].Release()
	}
	for i := range m.Materials {
		m.Materials[i].Release()
	}
}

// GLTFPrimitive is one glTF primitive with its own buffers and material reference.
type GLTFPrimitive struct {
	Vertices []Vertex
	Indices  []uint32
	// Material indexes GLTFModel.Materials; 0 is the default.
	Material int

	VertexBuffer renderer.Buffer
	IndexBuffer  renderer.Buffer
	NumElements  uint32

	BoundsMin mgl32.Vec3
	BoundsMax mgl32.Vec3
}

// Release frees the primitive buffers.
func (p *GLTFPrimitive) Release() {
	releaseBuffers(&p.VertexBuffer, &p.IndexBuffer)
}

// GLTFMesh groups the primitives of one glTF mesh.
type GLTFMesh struct {
	Name       string
	Primitives []GLTFPrimitive
}

// GLTFModel is a decoded glTF asset.
type GLTFModel struct {
	Name      string
	Meshes    []GLTFMesh
	Materials []Material
}

// Release frees all GPU resources held by the model.
func (m *GLTFModel) Release() {
	if m == nil {
		return
	}
	for i := range m.Meshes {
		for j := range m.Meshes[i].Primitives {
			m.Meshes[i].Primitives[j].Release()
		}
	}
	for i := range m.Materials {
		m.Materials[i].Release()
	}
}

func releaseBuffers(bufs ...*renderer.Buffer) {
	for _, b := range bufs {
		if *b != nil {
			(*b).Release()
			*b = nil
		}
	}
}

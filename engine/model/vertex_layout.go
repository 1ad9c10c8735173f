package model

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-assets/common"
	"github.com/go-gl/mathgl/mgl32"
)

// BuildVertices interleaves flat attribute streams into Vertex records. Vertex i reads
// positions[3i:3i+3], texCoords[2i:2i+2] and normals[3i:3i+3].
//
// Parameters:
//   - positions: xyz triples
//   - texCoords: uv pairs, one per position
//   - normals: xyz triples, one per position
//
// Returns:
//   - []Vertex: one vertex per position
//   - error: ErrAttributeLengthMismatch (wrapped) if the streams disagree on the vertex count
func BuildVertices(positions, texCoords, normals []float32) ([]Vertex, error) {
	if len(positions)%3 != 0 {
		return nil, fmt.Errorf("%w: %d position components is not a multiple of 3", common.ErrAttributeLengthMismatch, len(positions))
	}
	n := len(positions) / 3
	if len(texCoords) != n*2 {
		return nil, fmt.Errorf("%w: %d tex coord components for %d vertices", common.ErrAttributeLengthMismatch, len(texCoords), n)
	}
	if len(normals) != n*3 {
		return nil, fmt.Errorf("%w: %d normal components for %d vertices", common.ErrAttributeLengthMismatch, len(normals), n)
	}

	vertices := make([]Vertex, n)
	for i := range vertices {
		vertices[i] = Vertex{
			Position: [3]float32{positions[i*3], positions[i*3+1], positions[i*3+2]},
			TexCoord: [2]float32{texCoords[i*2], texCoords[i*2+1]},
			Normal:   [3]float32{normals[i*3], normals[i*3+1], normals[i*3+2]},
		}
	}
	return vertices, nil
}

// Bounds returns the axis aligned min and max corners of the vertex positions.
// Both are zero for an empty slice.
func Bounds(vertices []Vertex) (mgl32.Vec3, mgl32.Vec3) {
	if len(vertices) == 0 {
		return mgl32.Vec3{}, mgl32.Vec3{}
	}
	lo := mgl32.Vec3(vertices[0].Position)
	hi := lo
	for _, v := range vertices[1:] {
		p := mgl32.Vec3(v.Position)
		for axis := 0; axis < 3; axis++ {
			lo[axis] = min(lo[axis], p[axis])
			hi[axis] = max(hi[axis], p[axis])
		}
	}
	return lo, hi
}

// BoundingSphere returns the sphere around the box [lo, hi]: its center and the distance
// from the center to a corner.
func BoundingSphere(lo, hi mgl32.Vec3) (mgl32.Vec3, float32) {
	center := lo.Add(hi).Mul(0.5)
	return center, hi.Sub(center).Len()
}

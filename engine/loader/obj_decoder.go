package loader

import (
	"context"
	"fmt"

	"github.com/Carmen-Shannon/oxy-assets/common"
	"github.com/Carmen-Shannon/oxy-assets/engine/model"
	"go.uber.org/zap"
)

// objMesh is a re-indexed submesh ready for upload.
type objMesh struct {
	name     string
	material string
	vertices []model.Vertex
	indices  []uint32
}

// reindex collapses the per-attribute OBJ indices of sm into one shared index space: each
// distinct (position, tex coord, normal) triple becomes one vertex, in first-use order.
func reindex(file string, f *objFile, sm *objSubmesh) (*objMesh, error) {
	seen := make(map[objCorner]uint32)
	var positions, texCoords, normals []float32
	indices := make([]uint32, 0, len(sm.triangles))

	var withTex, withNormal int
	for _, c := range sm.triangles {
		if c.vt >= 0 {
			withTex++
		}
		if c.vn >= 0 {
			withNormal++
		}
	}
	switch {
	case withTex == 0:
		return nil, fmt.Errorf("%w: %s: submesh %q has no tex coords", common.ErrMissingAttribute, file, sm.name)
	case withNormal == 0:
		return nil, fmt.Errorf("%w: %s: submesh %q has no normals", common.ErrMissingAttribute, file, sm.name)
	case withTex != len(sm.triangles):
		return nil, fmt.Errorf("%w: %s: submesh %q mixes vertices with and without tex coords", common.ErrMissingAttribute, file, sm.name)
	case withNormal != len(sm.triangles):
		return nil, fmt.Errorf("%w: %s: submesh %q mixes vertices with and without normals", common.ErrMissingAttribute, file, sm.name)
	}

	for _, c := range sm.triangles {
		idx, ok := seen[c]
		if !ok {
			idx = uint32(len(positions) / 3)
			seen[c] = idx
			positions = append(positions, f.positions[c.v*3:c.v*3+3]...)
			texCoords = append(texCoords, f.texCoords[c.vt*2:c.vt*2+2]...)
			normals = append(normals, f.normals[c.vn*3:c.vn*3+3]...)
		}
		indices = append(indices, idx)
	}

	vertices, err := model.BuildVertices(positions, texCoords, normals)
	if err != nil {
		return nil, err
	}
	return &objMesh{
		name:     sm.name,
		material: sm.material,
		vertices: vertices,
		indices:  indices,
	}, nil
}

// loadOBJ decodes an OBJ asset. Geometry is validated before any GPU resource is created.
func (l *loader) loadOBJ(ctx context.Context, name string) (*model.Model, error) {
	r, err := l.text.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	parsed, err := decodeOBJ(name, r)
	if err != nil {
		return nil, err
	}

	var meshes []*objMesh
	for _, sm := range parsed.submeshes {
		if len(sm.triangles) == 0 {
			continue
		}
		m, err := reindex(name, parsed, sm)
		if err != nil {
			return nil, err
		}
		meshes = append(meshes, m)
	}
	if len(meshes) == 0 {
		return nil, fmt.Errorf("%w: %s has no triangles", common.ErrMalformedAsset, name)
	}

	sources, err := l.objMaterialSources(ctx, name, parsed.mtllibs)
	if err != nil {
		return nil, err
	}
	if err := l.fetchAll(ctx, sources); err != nil {
		return nil, err
	}

	materialIndex := make(map[string]int, len(sources))
	for i, src := range sources {
		if _, dup := materialIndex[src.name]; !dup {
			materialIndex[src.name] = i
		}
	}

	out := &model.Model{}
	out.Materials, err = l.buildMaterials(sources)
	if err != nil {
		return nil, err
	}

	for _, m := range meshes {
		matIdx, ok := materialIndex[m.material]
		if !ok {
			if m.material != "" {
				l.logger.Warn("unknown material, using default",
					zap.String("asset", name),
					zap.String("mesh", m.name),
					zap.String("material", m.material),
				)
			}
			matIdx = 0
		}

		vb, ib, err := l.uploadGeometry(fmt.Sprintf("%s %s", name, m.name), m.vertices, m.indices)
		if err != nil {
			out.Release()
			return nil, err
		}
		lo, hi := model.Bounds(m.vertices)
		out.Meshes = append(out.Meshes, model.Mesh{
			Name:         m.name,
			Vertices:     m.vertices,
			Indices:      m.indices,
			Material:     matIdx,
			VertexBuffer: vb,
			IndexBuffer:  ib,
			NumElements:  uint32(len(m.indices)),
			BoundsMin:    lo,
			BoundsMax:    hi,
		})
	}

	l.logger.Debug("obj decoded",
		zap.String("asset", name),
		zap.Int("meshes", len(out.Meshes)),
		zap.Int("materials", len(out.Materials)),
	)
	return out, nil
}

// objMaterialSources reads the material library and resolves each material's diffuse map
// relative to its MTL file.
func (l *loader) objMaterialSources(ctx context.Context, objName string, libs []string) ([]materialSource, error) {
	var sources []materialSource
	for _, lib := range libs {
		mtlName := common.ResolveSibling(objName, lib)
		r, err := l.text.Open(ctx, mtlName)
		if err != nil {
			return nil, fmt.Errorf("material library %s: %w", mtlName, err)
		}
		mats, err := decodeMTL(mtlName, r)
		if err != nil {
			return nil, err
		}
		for _, m := range mats {
			src := materialSource{name: m.Name}
			if m.DiffuseMap != "" {
				src.fetch = common.ResolveSibling(mtlName, m.DiffuseMap)
				src.hint = src.fetch
			}
			l.logger.Debug("mtl material",
				zap.String("material", m.Name),
				zap.Float32s("kd", m.Diffuse[:]),
				zap.Float32("d", m.Opacity),
				zap.Int("illum", m.Illum),
				zap.String("map_kd", src.fetch),
			)
			sources = append(sources, src)
		}
	}
	return sources, nil
}

package loader

import (
	"context"
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-assets/common"
	"github.com/Carmen-Shannon/oxy-assets/engine/model"
	"github.com/qmuntal/gltf"
	"go.uber.org/zap"
)

// gltfDecodedPrimitive is one primitive validated and interleaved, not yet uploaded.
type gltfDecodedPrimitive struct {
	vertices []model.Vertex
	indices  []uint32
	material int
}

type gltfDecodedMesh struct {
	name       string
	primitives []gltfDecodedPrimitive
}

// loadGLTF decodes a .gltf or .glb asset. All geometry is read and validated before any GPU
// resource is created.
func (l *loader) loadGLTF(ctx context.Context, name string) (*model.GLTFModel, error) {
	data, err := l.source.Retrieve(ctx, name)
	if err != nil {
		return nil, err
	}
	c, err := parseGLTFContainer(name, data)
	if err != nil {
		return nil, err
	}
	bufs := l.newGLTFBuffers(ctx, name, c)

	meshes := make([]gltfDecodedMesh, 0, len(c.doc.Meshes))
	for mi, mesh := range c.doc.Meshes {
		dm := gltfDecodedMesh{name: mesh.Name}
		if dm.name == "" {
			dm.name = fmt.Sprintf("mesh_%d", mi)
		}
		for pi, prim := range mesh.Primitives {
			dp, err := decodePrimitive(bufs, prim, len(c.doc.Materials))
			if err != nil {
				return nil, fmt.Errorf("mesh %q primitive %d: %w", dm.name, pi, err)
			}
			dm.primitives = append(dm.primitives, *dp)
		}
		meshes = append(meshes, dm)
	}

	sources, err := gltfMaterialSources(bufs)
	if err != nil {
		return nil, err
	}
	if err := l.fetchAll(ctx, sources); err != nil {
		return nil, err
	}

	out := &model.GLTFModel{Name: name}
	out.Materials, err = l.buildMaterials(sources)
	if err != nil {
		return nil, err
	}

	for _, dm := range meshes {
		gm := model.GLTFMesh{Name: dm.name}
		for pi, dp := range dm.primitives {
			vb, ib, err := l.uploadGeometry(fmt.Sprintf("%s %s %d", name, dm.name, pi), dp.vertices, dp.indices)
			if err != nil {
				out.Meshes = append(out.Meshes, gm)
				out.Release()
				return nil, err
			}
			lo, hi := model.Bounds(dp.vertices)
			gm.Primitives = append(gm.Primitives, model.GLTFPrimitive{
				Vertices:     dp.vertices,
				Indices:      dp.indices,
				Material:     dp.material,
				VertexBuffer: vb,
				IndexBuffer:  ib,
				NumElements:  uint32(len(dp.indices)),
				BoundsMin:    lo,
				BoundsMax:    hi,
			})
		}
		out.Meshes = append(out.Meshes, gm)
	}

	l.logger.Debug("gltf decoded",
		zap.String("asset", name),
		zap.Bool("glb", c.bin != nil),
		zap.Int("meshes", len(out.Meshes)),
		zap.Int("materials", len(out.Materials)),
	)
	return out, nil
}

// decodePrimitive reads and interleaves one triangle primitive. POSITION and indices are
// required; NORMAL and TEXCOORD_0 default to zero.
func decodePrimitive(bufs *gltfBuffers, prim *gltf.Primitive, numMaterials int) (*gltfDecodedPrimitive, error) {
	if prim.Mode != gltf.PrimitiveTriangles {
		return nil, fmt.Errorf("%w: primitive mode %d, only triangles are supported", common.ErrUnsupportedFormat, prim.Mode)
	}
	if prim.Indices == nil {
		return nil, common.ErrMissingIndices
	}
	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil, fmt.Errorf("%w: %s", common.ErrMissingAttribute, gltf.POSITION)
	}

	positions, count, err := bufs.readFloats(posIdx, gltf.AccessorVec3)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", gltf.POSITION, err)
	}
	normals, err := optionalFloats(bufs, prim, gltf.NORMAL, gltf.AccessorVec3, count)
	if err != nil {
		return nil, err
	}
	texCoords, err := optionalFloats(bufs, prim, gltf.TEXCOORD_0, gltf.AccessorVec2, count)
	if err != nil {
		return nil, err
	}

	vertices, err := model.BuildVertices(positions, texCoords, normals)
	if err != nil {
		return nil, err
	}

	indices, err := bufs.readIndices(*prim.Indices)
	if err != nil {
		return nil, fmt.Errorf("indices: %w", err)
	}
	if len(indices) == 0 {
		return nil, fmt.Errorf("%w: index accessor is empty", common.ErrMissingIndices)
	}
	for _, idx := range indices {
		if int(idx) >= len(vertices) {
			return nil, fmt.Errorf("%w: index %d out of range for %d vertices", common.ErrMalformedAsset, idx, len(vertices))
		}
	}

	// With no materials the fallback sits at 0.
	matIdx := 0
	if prim.Material != nil && numMaterials > 0 {
		matIdx = *prim.Material
		if matIdx < 0 || matIdx >= numMaterials {
			return nil, fmt.Errorf("%w: material %d of %d", common.ErrMalformedAsset, matIdx, numMaterials)
		}
	}

	return &gltfDecodedPrimitive{
		vertices: vertices,
		indices:  indices,
		material: matIdx,
	}, nil
}

// optionalFloats reads an optional attribute, returning zeros when it is absent. A present
// attribute must have exactly count elements.
func optionalFloats(bufs *gltfBuffers, prim *gltf.Primitive, attr string, t gltf.AccessorType, count int) ([]float32, error) {
	idx, ok := prim.Attributes[attr]
	if !ok {
		return make([]float32, count*accessorComponents(t)), nil
	}
	values, n, err := bufs.readFloats(idx, t)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", attr, err)
	}
	if n != count {
		return nil, fmt.Errorf("%w: %s has %d elements, %s has %d", common.ErrMalformedAsset, attr, n, gltf.POSITION, count)
	}
	return values, nil
}

// gltfMaterialSources resolves the base color image of every material. Materials without one
// get the fallback texture.
func gltfMaterialSources(bufs *gltfBuffers) ([]materialSource, error) {
	doc := bufs.c.doc
	sources := make([]materialSource, 0, len(doc.Materials))
	for i, mat := range doc.Materials {
		src := materialSource{name: mat.Name}
		if src.name == "" {
			src.name = fmt.Sprintf("material_%d", i)
		}
		if mat.PBRMetallicRoughness == nil || mat.PBRMetallicRoughness.BaseColorTexture == nil {
			sources = append(sources, src)
			continue
		}

		img, err := baseColorImage(doc, mat.PBRMetallicRoughness.BaseColorTexture.Index)
		if err != nil {
			return nil, fmt.Errorf("material %q: %w", src.name, err)
		}
		if img == nil {
			sources = append(sources, src)
			continue
		}

		switch {
		case img.BufferView != nil:
			src.data, err = bufs.view(*img.BufferView)
			if err != nil {
				return nil, fmt.Errorf("material %q image: %w", src.name, err)
			}
			src.hint = mimeTypeHint(img.MimeType)
		case strings.HasPrefix(img.URI, "data:"):
			src.data, err = decodeDataURI(img.URI)
			if err != nil {
				return nil, &common.ParseError{File: bufs.name, Msg: fmt.Sprintf("material %q image data URI", src.name), Err: err}
			}
			src.hint = mimeTypeHint(dataURIMediaType(img.URI))
		case img.URI != "":
			src.fetch = common.ResolveSibling(bufs.name, img.URI)
			src.hint = src.fetch
		}
		sources = append(sources, src)
	}
	return sources, nil
}

// baseColorImage follows texture -> image. A texture without a source yields nil.
func baseColorImage(doc *gltf.Document, textureIdx int) (*gltf.Image, error) {
	if textureIdx < 0 || textureIdx >= len(doc.Textures) {
		return nil, fmt.Errorf("%w: texture %d does not exist", common.ErrMalformedAsset, textureIdx)
	}
	tex := doc.Textures[textureIdx]
	if tex.Source == nil {
		return nil, nil
	}
	if *tex.Source < 0 || *tex.Source >= len(doc.Images) {
		return nil, fmt.Errorf("%w: image %d does not exist", common.ErrMalformedAsset, *tex.Source)
	}
	return doc.Images[*tex.Source], nil
}

// mimeTypeHint maps an image MIME type to a file name hint for the decoder.
func mimeTypeHint(mimeType string) string {
	switch strings.ToLower(mimeType) {
	case "image/png":
		return "image.png"
	case "image/jpeg":
		return "image.jpg"
	case "image/webp":
		return "image.webp"
	default:
		return ""
	}
}

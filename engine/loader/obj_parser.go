package loader

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/Carmen-Shannon/oxy-assets/common"
	"github.com/g3n/engine/loader/obj"
)

// objNoIndex is what the OBJ decoder stores for a face corner without a tex coord or normal.
const objNoIndex = math.MaxUint32

// objCorner is one face corner as 0-based indices into the file-wide attribute lists.
// A missing tex coord or normal is -1.
type objCorner struct {
	v, vt, vn int
}

// objSubmesh is a run of faces sharing an object name and a material.
type objSubmesh struct {
	name     string
	material string
	// triangles holds three corners per triangle after fan triangulation.
	triangles []objCorner
}

// objFile is a decoded OBJ document before re-indexing.
type objFile struct {
	positions []float32
	texCoords []float32
	normals   []float32
	submeshes []*objSubmesh
	mtllibs   []string
}

// decodeOBJReaders runs the g3n decoder over an OBJ and an MTL stream. Either may be empty.
// A decoder failure, including a panic on input it does not guard against, becomes a
// ParseError for name.
func decodeOBJReaders(name string, objText, mtlText io.Reader) (dec *obj.Decoder, err error) {
	defer func() {
		if r := recover(); r != nil {
			dec, err = nil, &common.ParseError{File: name, Msg: fmt.Sprintf("decoder failed: %v", r)}
		}
	}()
	dec, err = obj.DecodeReader(objText, mtlText)
	if err != nil {
		return nil, &common.ParseError{File: name, Msg: "decoding", Err: err}
	}
	return dec, nil
}

// decodeOBJ decodes OBJ text into submeshes. Each object is split wherever its material
// changes, and polygons are fan triangulated.
func decodeOBJ(name string, r io.Reader) (*objFile, error) {
	dec, err := decodeOBJReaders(name, r, strings.NewReader(""))
	if err != nil {
		return nil, err
	}

	f := &objFile{
		positions: dec.Vertices,
		texCoords: dec.Uvs,
		normals:   dec.Normals,
	}
	if dec.Matlib != "" {
		f.mtllibs = append(f.mtllibs, dec.Matlib)
	}

	for _, o := range dec.Objects {
		meshName := o.Name
		if meshName == "" {
			meshName = name
		}
		var current *objSubmesh
		for fi := range o.Faces {
			face := &o.Faces[fi]
			if len(face.Vertices) < 3 {
				return nil, &common.ParseError{File: name, Msg: fmt.Sprintf("object %q face %d has %d vertices", meshName, fi, len(face.Vertices))}
			}
			if current == nil || current.material != face.Material {
				current = &objSubmesh{name: meshName, material: face.Material}
				f.submeshes = append(f.submeshes, current)
			}

			corners := make([]objCorner, len(face.Vertices))
			for i := range face.Vertices {
				c, err := f.corner(face, i)
				if err != nil {
					return nil, &common.ParseError{File: name, Msg: fmt.Sprintf("object %q face %d", meshName, fi), Err: err}
				}
				corners[i] = c
			}
			for i := 1; i+1 < len(corners); i++ {
				current.triangles = append(current.triangles, corners[0], corners[i], corners[i+1])
			}
		}
	}
	return f, nil
}

// corner checks corner i of face against the attribute lists.
func (f *objFile) corner(face *obj.Face, i int) (objCorner, error) {
	c := objCorner{v: face.Vertices[i], vt: -1, vn: -1}
	if c.v < 0 || c.v >= len(f.positions)/3 {
		return objCorner{}, fmt.Errorf("position %d out of range (have %d)", c.v+1, len(f.positions)/3)
	}
	var err error
	if i < len(face.Uvs) {
		if c.vt, err = optionalIndex(face.Uvs[i], len(f.texCoords)/2); err != nil {
			return objCorner{}, fmt.Errorf("tex coord: %w", err)
		}
	}
	if i < len(face.Normals) {
		if c.vn, err = optionalIndex(face.Normals[i], len(f.normals)/3); err != nil {
			return objCorner{}, fmt.Errorf("normal: %w", err)
		}
	}
	return c, nil
}

// optionalIndex maps the decoder's missing marker to -1 and rejects indices past count.
func optionalIndex(idx, count int) (int, error) {
	if idx < 0 || int64(idx) == objNoIndex {
		return -1, nil
	}
	if idx >= count {
		return 0, fmt.Errorf("index %d out of range (have %d)", idx+1, count)
	}
	return idx, nil
}

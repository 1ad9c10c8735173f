package loader

import (
	"io"
	"sort"
	"strings"
)

// mtlMaterial is one newmtl block. Only DiffuseMap feeds the GPU material; the other terms
// are logged for diagnostics.
type mtlMaterial struct {
	Name       string
	Diffuse    [3]float32
	Opacity    float32
	Illum      int
	DiffuseMap string
}

// decodeMTL decodes MTL text. Materials are returned sorted by name.
func decodeMTL(name string, r io.Reader) ([]mtlMaterial, error) {
	dec, err := decodeOBJReaders(name, strings.NewReader(""), r)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(dec.Materials))
	for n, m := range dec.Materials {
		if m != nil {
			names = append(names, n)
		}
	}
	sort.Strings(names)

	materials := make([]mtlMaterial, 0, len(names))
	for _, n := range names {
		m := dec.Materials[n]
		materials = append(materials, mtlMaterial{
			Name:       n,
			Diffuse:    [3]float32{m.Diffuse.R, m.Diffuse.G, m.Diffuse.B},
			Opacity:    m.Opacity,
			Illum:      m.Illum,
			DiffuseMap: m.MapKd,
		})
	}
	return materials, nil
}

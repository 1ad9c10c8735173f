package loader

import (
	"errors"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-assets/common"
	"github.com/g3n/engine/loader/obj"
)

func TestDecodeOBJQuadIsFanTriangulated(t *testing.T) {
	text := `o Quad
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vt 0 0
vn 0 0 1
f 1/1/1 2/1/1 3/1/1 4/1/1
`
	f, err := decodeOBJ("quad.obj", strings.NewReader(text))
	if err != nil {
		t.Fatalf("decodeOBJ failed: %v", err)
	}
	if len(f.submeshes) != 1 {
		t.Fatalf("expected 1 submesh, got %d", len(f.submeshes))
	}
	sm := f.submeshes[0]
	if sm.name != "Quad" {
		t.Errorf("expected submesh Quad, got %q", sm.name)
	}

	want := []int{0, 1, 2, 0, 2, 3}
	if len(sm.triangles) != len(want) {
		t.Fatalf("expected %d corners, got %d", len(want), len(sm.triangles))
	}
	for i, c := range sm.triangles {
		if c.v != want[i] || c.vt != 0 || c.vn != 0 {
			t.Errorf("corner %d: expected position %d, got %+v", i, want[i], c)
		}
	}
}

func TestDecodeOBJNegativeIndices(t *testing.T) {
	text := `o Tri
v 0 0 0
v 1 0 0
v 0 1 0
vt 0 0
vn 0 0 1
f -3/-1/-1 -2/-1/-1 -1/-1/-1
`
	f, err := decodeOBJ("tri.obj", strings.NewReader(text))
	if err != nil {
		t.Fatalf("decodeOBJ failed: %v", err)
	}
	tris := f.submeshes[0].triangles
	for i, c := range tris {
		if c.v != i || c.vt != 0 || c.vn != 0 {
			t.Errorf("corner %d resolved to %+v", i, c)
		}
	}
}

func TestDecodeOBJMissingCornerAttributes(t *testing.T) {
	text := `o Tri
v 0 0 0
v 1 0 0
v 0 1 0
vn 0 0 1
f 1//1 2//1 3//1
`
	f, err := decodeOBJ("tri.obj", strings.NewReader(text))
	if err != nil {
		t.Fatalf("decodeOBJ failed: %v", err)
	}
	for i, c := range f.submeshes[0].triangles {
		if c.vt != -1 || c.vn != 0 {
			t.Errorf("corner %d: expected no tex coord and normal 0, got %+v", i, c)
		}
	}
}

func TestDecodeOBJSyntaxError(t *testing.T) {
	_, err := decodeOBJ("bad.obj", strings.NewReader("v 0 0 0\n# comment\nv 1 nope 0\n"))

	var perr *common.ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if perr.File != "bad.obj" {
		t.Errorf("expected bad.obj, got %s", perr.File)
	}
	if !errors.Is(err, common.ErrParse) {
		t.Error("ParseError should match ErrParse")
	}
}

func TestDecodeOBJFaceOutOfRange(t *testing.T) {
	cases := map[string]string{
		"position":  "o m\nv 0 0 0\nf 1 2 3\n",
		"tex coord": "o m\nv 0 0 0\nv 1 0 0\nv 0 1 0\nvt 0 0\nf 1/1 2/2 3/1\n",
		"normal":    "o m\nv 0 0 0\nv 1 0 0\nv 0 1 0\nvn 0 0 1\nf 1//1 2//1 3//4\n",
	}
	for name, text := range cases {
		if _, err := decodeOBJ("bad.obj", strings.NewReader(text)); !errors.Is(err, common.ErrParse) {
			t.Errorf("%s: expected ErrParse, got %v", name, err)
		}
	}
}

func TestDecodeOBJObjectsAndMaterials(t *testing.T) {
	text := `mtllib a.mtl
v 0 0 0
v 1 0 0
v 0 1 0
o first
usemtl red
f 1 2 3
usemtl blue
f 1 2 3
o second
usemtl blue
f 1 2 3
s off
`
	f, err := decodeOBJ("m.obj", strings.NewReader(text))
	if err != nil {
		t.Fatalf("decodeOBJ failed: %v", err)
	}
	if len(f.mtllibs) != 1 || f.mtllibs[0] != "a.mtl" {
		t.Errorf("unexpected mtllibs %v", f.mtllibs)
	}

	want := []struct{ name, material string }{
		{"first", "red"},
		{"first", "blue"},
		{"second", "blue"},
	}
	if len(f.submeshes) != len(want) {
		t.Fatalf("expected %d submeshes, got %d", len(want), len(f.submeshes))
	}
	for i, w := range want {
		sm := f.submeshes[i]
		if sm.name != w.name || sm.material != w.material || len(sm.triangles) != 3 {
			t.Errorf("submesh %d: got %q/%q with %d corners", i, sm.name, sm.material, len(sm.triangles))
		}
	}
}

func TestObjCornerIndices(t *testing.T) {
	f := &objFile{
		positions: make([]float32, 9),
		texCoords: make([]float32, 4),
		normals:   make([]float32, 6),
	}
	face := &obj.Face{
		Vertices: []int{0, 1, 2},
		Uvs:      []int{0, 1, objNoIndex},
		Normals:  []int{1, objNoIndex, 0},
	}
	want := []objCorner{{0, 0, 1}, {1, 1, -1}, {2, -1, 0}}
	for i := range want {
		got, err := f.corner(face, i)
		if err != nil {
			t.Fatalf("corner %d: %v", i, err)
		}
		if got != want[i] {
			t.Errorf("corner %d: expected %+v, got %+v", i, want[i], got)
		}
	}

	face.Vertices[1] = 3
	if _, err := f.corner(face, 1); err == nil {
		t.Error("expected an error for a position past the list")
	}
	face.Normals[2] = 2
	if _, err := f.corner(face, 2); err == nil {
		t.Error("expected an error for a normal past the list")
	}
}

func TestReindexSharesTriples(t *testing.T) {
	f := &objFile{
		positions: []float32{0, 0, 0, 1, 0, 0, 0, 1, 0, 1, 1, 0},
		texCoords: []float32{0, 0, 1, 1},
		normals:   []float32{0, 0, 1},
	}
	sm := &objSubmesh{name: "s", triangles: []objCorner{
		{0, 0, 0}, {1, 0, 0}, {2, 1, 0},
		{1, 0, 0}, {3, 1, 0}, {2, 1, 0},
	}}

	m, err := reindex("s.obj", f, sm)
	if err != nil {
		t.Fatalf("reindex failed: %v", err)
	}
	if len(m.vertices) != 4 {
		t.Errorf("expected 4 unique vertices, got %d", len(m.vertices))
	}
	want := []uint32{0, 1, 2, 1, 3, 2}
	for i := range want {
		if m.indices[i] != want[i] {
			t.Fatalf("expected indices %v, got %v", want, m.indices)
		}
	}
	if m.vertices[2].TexCoord != [2]float32{1, 1} {
		t.Errorf("unexpected tex coord %v", m.vertices[2].TexCoord)
	}
}

func TestReindexMissingAttributes(t *testing.T) {
	f := &objFile{
		positions: make([]float32, 9),
		texCoords: make([]float32, 2),
		normals:   make([]float32, 3),
	}
	cases := map[string][]objCorner{
		"no tex coords": {{0, -1, 0}, {1, -1, 0}, {2, -1, 0}},
		"no normals":    {{0, 0, -1}, {1, 0, -1}, {2, 0, -1}},
		"mixed":         {{0, 0, 0}, {1, -1, 0}, {2, 0, 0}},
	}
	for name, corners := range cases {
		_, err := reindex("x.obj", f, &objSubmesh{name: name, triangles: corners})
		if !errors.Is(err, common.ErrMissingAttribute) {
			t.Errorf("%s: expected ErrMissingAttribute, got %v", name, err)
		}
	}
}

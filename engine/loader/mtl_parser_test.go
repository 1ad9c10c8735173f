package loader

import (
	"errors"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-assets/common"
)

func TestDecodeMTL(t *testing.T) {
	text := `# exported
newmtl Plain
Kd 1 0 0

newmtl Material
Ka 1 1 1
Kd 0.8 0.5 0.2
Ns 96.0
d 0.75
illum 2
map_Kd diffuse.png
`
	mats, err := decodeMTL("cube.mtl", strings.NewReader(text))
	if err != nil {
		t.Fatalf("decodeMTL failed: %v", err)
	}
	if len(mats) != 2 {
		t.Fatalf("expected 2 materials, got %d", len(mats))
	}

	m := mats[0]
	if m.Name != "Material" || m.Illum != 2 || m.Opacity != 0.75 {
		t.Errorf("unexpected material %+v", m)
	}
	if m.Diffuse != [3]float32{0.8, 0.5, 0.2} {
		t.Errorf("unexpected Kd %v", m.Diffuse)
	}
	if m.DiffuseMap != "diffuse.png" {
		t.Errorf("unexpected map_Kd %q", m.DiffuseMap)
	}

	p := mats[1]
	if p.Name != "Plain" || p.DiffuseMap != "" || p.Diffuse != [3]float32{1, 0, 0} {
		t.Errorf("unexpected material %+v", p)
	}
}

func TestDecodeMTLError(t *testing.T) {
	_, err := decodeMTL("a.mtl", strings.NewReader("newmtl a\nKd 1 x 1\n"))

	var perr *common.ParseError
	if !errors.As(err, &perr) || perr.File != "a.mtl" {
		t.Fatalf("expected a ParseError for a.mtl, got %v", err)
	}
	if !errors.Is(err, common.ErrParse) {
		t.Error("ParseError should match ErrParse")
	}
}

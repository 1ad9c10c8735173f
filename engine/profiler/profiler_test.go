package profiler

import (
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestSpanRecordsStats(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	p := NewProfiler(WithLogger(zap.New(core)), WithHeapSampling(false))

	p.Start("obj", "cube.obj").End(nil)
	p.Start("obj", "missing.obj").End(errors.New("not found"))
	p.Start("gltf", "box.gltf").End(nil)

	stats := p.Stats()
	if stats["obj"].Count != 2 || stats["obj"].Failures != 1 {
		t.Errorf("unexpected obj stats %+v", stats["obj"])
	}
	if stats["gltf"].Count != 1 {
		t.Errorf("unexpected gltf stats %+v", stats["gltf"])
	}

	if n := logs.FilterMessage("asset load failed").Len(); n != 1 {
		t.Errorf("expected 1 failure log, got %d", n)
	}
	if n := logs.FilterMessage("asset loaded").Len(); n != 2 {
		t.Errorf("expected 2 success logs, got %d", n)
	}

	p.LogSummary()
	if n := logs.FilterMessage("load summary").Len(); n != 2 {
		t.Errorf("expected a summary line per kind, got %d", n)
	}
}

func TestNilProfiler(t *testing.T) {
	var p *Profiler
	if d := p.Start("obj", "cube.obj").End(nil); d != 0 {
		t.Errorf("nil profiler should record nothing, got %v", d)
	}
	if p.Stats() != nil {
		t.Error("nil profiler should have no stats")
	}
}

func TestStatAverage(t *testing.T) {
	s := Stat{Count: 4, Total: 400}
	if s.Average() != 100 {
		t.Errorf("expected 100, got %v", s.Average())
	}
	if (Stat{}).Average() != 0 {
		t.Error("empty stat should average 0")
	}
}

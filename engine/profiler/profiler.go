// Package profiler times asset loads and samples heap growth per load. Results are logged
// through zap and aggregated per load kind.
package profiler

import (
	"runtime"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Stat aggregates the loads of one kind.
type Stat struct {
	Count    int
	Failures int
	Total    time.Duration
	Max      time.Duration
	// HeapDelta is the live heap growth across the most recent load, in bytes. It is
	// approximate: concurrent loads and GC cycles both move it.
	HeapDelta int64
}

// Average returns the mean load duration.
func (s Stat) Average() time.Duration {
	if s.Count == 0 {
		return 0
	}
	return s.Total / time.Duration(s.Count)
}

// Profiler tracks per-kind load timings. A nil *Profiler is valid and records nothing.
type Profiler struct {
	mu         sync.Mutex
	logger     *zap.Logger
	sampleHeap bool
	stats      map[string]*Stat
}

// NewProfiler creates a new Profiler. Heap sampling is on by default.
//
// Parameters:
//   - options: ProfilerBuilderOption functions to configure the profiler
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerBuilderOption) *Profiler {
	p := &Profiler{
		logger:     zap.NewNop(),
		sampleHeap: true,
		stats:      make(map[string]*Stat),
	}
	for _, option := range options {
		option(p)
	}
	return p
}

// Span is one in-flight load.
type Span struct {
	p         *Profiler
	kind      string
	name      string
	start     time.Time
	heapStart uint64
}

// Start begins timing a load.
//
// Parameters:
//   - kind: the load kind, e.g. "obj", "gltf" or "texture"
//   - name: the asset name
//
// Returns:
//   - *Span: the span to End when the load finishes
func (p *Profiler) Start(kind, name string) *Span {
	if p == nil {
		return nil
	}
	s := &Span{p: p, kind: kind, name: name}
	if p.sampleHeap {
		s.heapStart = heapAlloc()
	}
	s.start = time.Now()
	return s
}

// End records the load and logs it. err is the load's result.
//
// Returns:
//   - time.Duration: the elapsed time, zero for a nil span
func (s *Span) End(err error) time.Duration {
	if s == nil {
		return 0
	}
	elapsed := time.Since(s.start)

	var heapDelta int64
	if s.p.sampleHeap {
		heapDelta = int64(heapAlloc()) - int64(s.heapStart)
	}

	s.p.mu.Lock()
	st, ok := s.p.stats[s.kind]
	if !ok {
		st = &Stat{}
		s.p.stats[s.kind] = st
	}
	st.Count++
	if err != nil {
		st.Failures++
	}
	st.Total += elapsed
	st.Max = max(st.Max, elapsed)
	st.HeapDelta = heapDelta
	s.p.mu.Unlock()

	fields := []zap.Field{
		zap.String("kind", s.kind),
		zap.String("asset", s.name),
		zap.Duration("elapsed", elapsed),
		zap.Float64("heap_delta_mb", float64(heapDelta)/1024/1024),
	}
	if err != nil {
		s.p.logger.Warn("asset load failed", append(fields, zap.Error(err))...)
	} else {
		s.p.logger.Info("asset loaded", fields...)
	}
	return elapsed
}

// Stats returns a copy of the per-kind statistics.
func (p *Profiler) Stats() map[string]Stat {
	if p == nil {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make(map[string]Stat, len(p.stats))
	for k, v := range p.stats {
		out[k] = *v
	}
	return out
}

// LogSummary logs one line per load kind, sorted by kind.
func (p *Profiler) LogSummary() {
	stats := p.Stats()
	kinds := make([]string, 0, len(stats))
	for k := range stats {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)

	for _, k := range kinds {
		st := stats[k]
		p.logger.Info("load summary",
			zap.String("kind", k),
			zap.Int("count", st.Count),
			zap.Int("failures", st.Failures),
			zap.Duration("avg", st.Average()),
			zap.Duration("max", st.Max),
		)
	}
}

func heapAlloc() uint64 {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return m.HeapAlloc
}

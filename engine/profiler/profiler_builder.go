package profiler

import "go.uber.org/zap"

// ProfilerBuilderOption is a functional option applied to a Profiler during construction via NewProfiler.
type ProfilerBuilderOption func(*Profiler)

// WithLogger sets the logger load results are written to.
//
// Parameters:
//   - logger: the zap logger, nil keeps the no-op logger
//
// Returns:
//   - ProfilerBuilderOption: a function that applies the logger option to a profiler
func WithLogger(logger *zap.Logger) ProfilerBuilderOption {
	return func(p *Profiler) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithHeapSampling toggles the runtime.ReadMemStats call made at the start and end of every
// load. ReadMemStats stops the world briefly.
func WithHeapSampling(enabled bool) ProfilerBuilderOption {
	return func(p *Profiler) {
		p.sampleHeap = enabled
	}
}

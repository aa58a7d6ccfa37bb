package profiler

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-scene/common"
)

// Stats is an accumulated view of the culling and picking passes since the last report.
type Stats struct {
	CullPasses int           // number of Cull calls
	Candidates int           // bounded nodes tested across all cull passes
	Visible    int           // nodes that survived culling across all passes
	CullTime   time.Duration // wall time spent culling
	PickPasses int           // number of Pick calls
	Hits       int           // intersections reported across all pick passes
	PickTime   time.Duration // wall time spent picking
}

// CullRatio returns the fraction of tested nodes that were culled, or 0 when nothing was tested.
func (s Stats) CullRatio() float64 {
	if s.Candidates == 0 {
		return 0
	}
	return 1 - float64(s.Visible)/float64(s.Candidates)
}

// Profiler accumulates scene pass statistics and logs them through common.Logger at a
// configurable interval. Safe for concurrent use.
type Profiler struct {
	mu             sync.Mutex
	stats          Stats
	lastTime       time.Time
	updateInterval time.Duration
	now            func() time.Time
	memStats       runtime.MemStats
	lastGCCount    uint32
}

// ProfilerOption is a functional option for configuring a Profiler.
type ProfilerOption func(*Profiler)

// WithUpdateInterval sets how often Tick reports. Defaults to 1 second.
//
// Parameters:
//   - d: the report interval
//
// Returns:
//   - ProfilerOption: a function that sets the interval
func WithUpdateInterval(d time.Duration) ProfilerOption {
	return func(p *Profiler) {
		p.updateInterval = d
	}
}

// WithClock replaces the time source.
//
// Parameters:
//   - now: a function returning the current time
//
// Returns:
//   - ProfilerOption: a function that sets the clock
func WithClock(now func() time.Time) ProfilerOption {
	return func(p *Profiler) {
		p.now = now
	}
}

// NewProfiler creates a new Profiler with default settings.
// Update interval defaults to 1 second.
//
// Parameters:
//   - options: functional options to configure the profiler
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerOption) *Profiler {
	p := &Profiler{
		updateInterval: time.Second,
		now:            time.Now,
	}
	for _, option := range options {
		option(p)
	}
	p.lastTime = p.now()
	return p
}

// RecordCull adds one culling pass to the current window.
//
// Parameters:
//   - candidates: the number of nodes tested
//   - visible: the number of nodes that passed
//   - elapsed: the time the pass took
func (p *Profiler) RecordCull(candidates, visible int, elapsed time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stats.CullPasses++
	p.stats.Candidates += candidates
	p.stats.Visible += visible
	p.stats.CullTime += elapsed
}

// RecordPick adds one picking pass to the current window.
//
// Parameters:
//   - hits: the number of intersections found
//   - elapsed: the time the pass took
func (p *Profiler) RecordPick(hits int, elapsed time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stats.PickPasses++
	p.stats.Hits += hits
	p.stats.PickTime += elapsed
}

// Snapshot returns the statistics accumulated since the last report.
func (p *Profiler) Snapshot() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stats
}

// Tick should be called once per frame.
// Logs the accumulated pass statistics when the update interval has elapsed and starts a
// new window. Statistics include: cull passes, cull ratio, average cull time, pick passes,
// hits, heap usage and GC count.
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	runtime.ReadMemStats(&p.memStats)
	allocMB := float64(p.memStats.Alloc) / 1024 / 1024
	gcDelta := p.memStats.NumGC - p.lastGCCount

	s := p.stats
	var avgCull, avgPick time.Duration
	if s.CullPasses > 0 {
		avgCull = s.CullTime / time.Duration(s.CullPasses)
	}
	if s.PickPasses > 0 {
		avgPick = s.PickTime / time.Duration(s.PickPasses)
	}

	common.Logger().Info(fmt.Sprintf("[Profiler] Cull: %d passes (avg %s, %d/%d visible, %.1f%% culled) | Pick: %d passes (avg %s, %d hits) | Heap: %.2f MB | GC: %d",
		s.CullPasses, avgCull, s.Visible, s.Candidates, s.CullRatio()*100,
		s.PickPasses, avgPick, s.Hits, allocMB, gcDelta))

	p.stats = Stats{}
	p.lastTime = currentTime
	p.lastGCCount = p.memStats.NumGC
	return true
}

package profiler

import (
	"bytes"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-scene/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func TestRecordAndSnapshot(t *testing.T) {
	p := NewProfiler()
	p.RecordCull(10, 4, 2*time.Millisecond)
	p.RecordCull(10, 6, 4*time.Millisecond)
	p.RecordPick(3, time.Millisecond)

	s := p.Snapshot()
	assert.Equal(t, 2, s.CullPasses)
	assert.Equal(t, 20, s.Candidates)
	assert.Equal(t, 10, s.Visible)
	assert.Equal(t, 6*time.Millisecond, s.CullTime)
	assert.Equal(t, 1, s.PickPasses)
	assert.Equal(t, 3, s.Hits)
	assert.InDelta(t, 0.5, s.CullRatio(), 1e-9)
	assert.Zero(t, Stats{}.CullRatio())
}

func TestTickReportsOncePerInterval(t *testing.T) {
	var buf bytes.Buffer
	prev := common.Logger()
	common.SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { common.SetLogger(prev) })

	clock := &fakeClock{t: time.Unix(100, 0)}
	p := NewProfiler(WithClock(clock.now), WithUpdateInterval(time.Second))
	p.RecordCull(8, 2, time.Millisecond)

	clock.t = clock.t.Add(500 * time.Millisecond)
	assert.False(t, p.Tick())
	assert.Empty(t, buf.String())

	clock.t = clock.t.Add(600 * time.Millisecond)
	require.True(t, p.Tick())
	assert.Contains(t, buf.String(), "[Profiler] Cull: 1 passes")
	assert.Contains(t, buf.String(), "2/8 visible")
	assert.Zero(t, p.Snapshot().CullPasses)

	assert.False(t, p.Tick())
}

func TestConcurrentRecording(t *testing.T) {
	p := NewProfiler()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				p.RecordCull(1, 1, 0)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 800, p.Snapshot().CullPasses)
}

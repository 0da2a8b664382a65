package orion

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSamplerSnapshotIsPure(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	sampler := NewSampler(clock)

	clock.Advance(time.Second)
	sampler.Record()

	first := sampler.Snapshot()
	second := sampler.Snapshot()

	assert.Equal(t, first, second)
	assert.Equal(t, time.Second, first.Elapsed)
	assert.Equal(t, time.Second, first.Delta)
	assert.Equal(t, uint64(1), first.Frame)
}

func TestSamplerRecord(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	sampler := NewSampler(clock)

	initial := sampler.Snapshot()
	assert.Zero(t, initial.Elapsed)
	assert.Zero(t, initial.Delta)
	assert.Zero(t, initial.Frame)

	for _, delta := range []time.Duration{10, 20, 5} {
		clock.Advance(delta * time.Millisecond)
		sampler.Record()
	}

	timing := sampler.Snapshot()
	assert.Equal(t, 35*time.Millisecond, timing.Elapsed)
	assert.Equal(t, 5*time.Millisecond, timing.Delta)
	assert.Equal(t, uint64(3), timing.Frame)

	assert.Equal(t, 20*time.Millisecond, sampler.Times.MaxDuration)
}

func TestFrameTimesFPS(t *testing.T) {
	var times FrameTimes
	assert.Zero(t, times.FPS())

	for range 100 {
		times.update(10 * time.Millisecond)
	}

	assert.InDelta(t, 100.0, times.FPS(), 0.01)
	assert.Equal(t, uint64(100), times.FrameCount)
}

func TestSystemClock(t *testing.T) {
	before := time.Now()
	now := SystemClock{}.Now()

	assert.False(t, now.Before(before))
}

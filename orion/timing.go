package orion

import (
	"time"

	"github.com/oliverbestmann/selis/pulse"
)

type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

// FrameTimes keeps a rolling average of the frame duration
type FrameTimes struct {
	FrameCount      uint64
	AverageDuration time.Duration
	MaxDuration     time.Duration
}

func (t *FrameTimes) update(d time.Duration) {
	const window = 64

	t.MaxDuration = max(t.MaxDuration, d)

	if t.FrameCount < window/2 {
		t.AverageDuration = d
	} else {
		t.AverageDuration = ((window-1)*t.AverageDuration + d) / window
	}

	t.FrameCount += 1
}

func (t *FrameTimes) FPS() float64 {
	if t.AverageDuration <= 0 {
		return 0
	}

	return 1.0 / t.AverageDuration.Seconds()
}

// Sampler measures the time since it was created and the duration between
// two rendered frames.
type Sampler struct {
	clock Clock

	start time.Time
	last  time.Time

	frame uint64
	delta time.Duration

	Times FrameTimes
}

func NewSampler(clock Clock) *Sampler {
	if clock == nil {
		clock = SystemClock{}
	}

	now := clock.Now()

	return &Sampler{
		clock: clock,
		start: now,
		last:  now,
	}
}

// Record marks the start of a new frame.
func (s *Sampler) Record() {
	now := s.clock.Now()

	s.delta = now.Sub(s.last)
	s.last = now

	s.frame += 1
	s.Times.update(s.delta)
}

// Snapshot returns the current timing. It does not modify the sampler.
func (s *Sampler) Snapshot() pulse.Timing {
	return pulse.Timing{
		Elapsed: s.clock.Now().Sub(s.start),
		Delta:   s.delta,
		Frame:   s.frame,
	}
}

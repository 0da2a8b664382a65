package orion

import (
	"log/slog"
	"runtime"
	"time"
)

// statsInterval is the number of frames between two log lines
const statsInterval = 600

type Stats struct {
	mem runtime.MemStats
}

// Frame logs frame and memory statistics every statsInterval frames.
func (s *Stats) Frame(frame uint64, times *FrameTimes) {
	if frame == 0 || frame%statsInterval != 0 {
		return
	}

	runtime.ReadMemStats(&s.mem)

	lastCycle := (s.mem.NumGC + 255) % 256
	lastCycleDur := time.Duration(s.mem.PauseNs[lastCycle])

	slog.Debug("Frame statistics",
		slog.Uint64("frame", frame),
		slog.Float64("fps", times.FPS()),
		slog.Duration("maxFrameTime", times.MaxDuration),
		slog.Group("memory",
			slog.Uint64("heapObjects", s.mem.HeapObjects),
			slog.Float64("heapInUseMb", float64(s.mem.HeapInuse)/(1024.0*1024.0)),
			slog.Float64("stackInUseMb", float64(s.mem.StackInuse)/(1024.0*1024.0)),
		),
		slog.Group("gc",
			slog.Uint64("cycles", uint64(s.mem.NumGC)),
			slog.Float64("fraction", s.mem.GCCPUFraction),
			slog.Duration("lastPause", lastCycleDur),
		),
	)

	times.MaxDuration = 0
}

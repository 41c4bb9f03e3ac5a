package render

import (
	"time"

	"go.uber.org/zap"
)

const statsInterval = time.Second

type frameStats struct {
	frames     int
	busy       time.Duration
	lastReport time.Time
}

// record adds one frame and logs the averages once per statsInterval.
func (f *frameStats) record(log *zap.Logger, start, end time.Time) {
	if f.lastReport.IsZero() {
		f.lastReport = start
	}
	f.frames++
	f.busy += end.Sub(start)

	elapsed := end.Sub(f.lastReport)
	if elapsed < statsInterval {
		return
	}

	log.Debug("frame stats",
		zap.Int("frames", f.frames),
		zap.Duration("avgFrame", f.busy/time.Duration(f.frames)),
		zap.Float64("fps", float64(f.frames)/elapsed.Seconds()),
	)
	f.frames = 0
	f.busy = 0
	f.lastReport = end
}

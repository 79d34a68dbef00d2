package electric

import (
	"time"

	"go.uber.org/zap"
)

// debugInterval is how often aggregated frame stats are logged.
const debugInterval = 1.0

// debugLog accumulates frame stats and logs a summary about once per
// second. Only called when debug mode is on.
func (rt *Runtime) debugLog(dt float64, stats renderStats) {
	rt.statsElapsed += dt
	rt.statsFrames++
	if rt.statsElapsed < debugInterval {
		return
	}
	fps := float64(rt.statsFrames) / rt.statsElapsed
	rt.log.Debug("frame stats",
		zap.Float64("fps", fps),
		zap.Int("updated", stats.updated),
		zap.Int("drawn", stats.drawn),
		zap.Int("particles", stats.particles),
		zap.Duration("update", stats.updateTime),
		zap.Duration("hook", stats.hookTime),
		zap.Duration("draw", stats.drawTime),
		zap.Duration("total", stats.updateTime+stats.hookTime+stats.drawTime),
	)
	rt.statsElapsed = 0
	rt.statsFrames = 0
}

// LastFrameStats returns the counters of the most recent debug frame:
// objects updated, objects drawn and live particles drawn.
func (rt *Runtime) LastFrameStats() (updated, drawn, particles int, elapsed time.Duration) {
	s := rt.lastStats
	return s.updated, s.drawn, s.particles, s.updateTime + s.hookTime + s.drawTime
}

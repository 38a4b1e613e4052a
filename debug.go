package milun

import "time"

// FrameStats holds timing and draw metrics of one completed frame.
type FrameStats struct {
	Frame        uint64
	CallbackTime time.Duration
	SortTime     time.Duration
	FlushTime    time.Duration
	PresentTime  time.Duration
	Commands     int // commands recorded by the callback
	Drawn        int // commands rasterized
	Culled       int // commands skipped by camera culling
	PageSwitches int // texture page changes while rasterizing
}

// Total returns the time spent in the callback, flush, and present.
func (s FrameStats) Total() time.Duration {
	return s.CallbackTime + s.SortTime + s.FlushTime + s.PresentTime
}

// Stats returns the stats of the most recently completed frame.
func (r *Renderer) Stats() FrameStats {
	return r.stats
}

// debugLog logs frame stats at debug level when Config.Debug is set.
func (r *Renderer) debugLog(stats FrameStats) {
	if !r.cfg.Debug {
		return
	}
	Logger().Debug("milun: frame",
		"frame", stats.Frame,
		"callback", stats.CallbackTime,
		"sort", stats.SortTime,
		"flush", stats.FlushTime,
		"present", stats.PresentTime,
		"total", stats.Total())
	Logger().Debug("milun: draw",
		"frame", stats.Frame,
		"commands", stats.Commands,
		"drawn", stats.Drawn,
		"culled", stats.Culled,
		"page_switches", stats.PageSwitches)
}

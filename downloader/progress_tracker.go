package downloader

import (
	"sync"
	"time"
)

// ProgressTracker sits in front of a slow emitter and forwards at most one
// Progress event per update interval. Started and Finished always pass through,
// and the final Progress of a download (bytes == total) is never dropped.
type ProgressTracker struct {
	updateInterval time.Duration
	next           Emitter
	now            func() time.Time

	mu           sync.Mutex
	lastForward  time.Time
	lastProgress Progress
	pending      bool
}

// NewProgressTracker creates a ProgressTracker with a 2-second interval
func NewProgressTracker(next Emitter) *ProgressTracker {
	return NewProgressTrackerWithInterval(next, 2*time.Second)
}

// NewProgressTrackerWithInterval creates a ProgressTracker with a custom update interval
func NewProgressTrackerWithInterval(next Emitter, interval time.Duration) *ProgressTracker {
	return &ProgressTracker{
		updateInterval: interval,
		next:           next,
		now:            time.Now,
	}
}

// Emit implements Emitter
func (pt *ProgressTracker) Emit(event Event) error {
	pt.mu.Lock()
	defer pt.mu.Unlock()

	switch ev := event.(type) {
	case Started:
		pt.lastForward = time.Time{}
		pt.pending = false
		return pt.next.Emit(ev)

	case Progress:
		now := pt.now()
		complete := ev.TotalBytes > 0 && ev.BytesDownloaded >= ev.TotalBytes
		if !complete && !pt.lastForward.IsZero() && now.Sub(pt.lastForward) < pt.updateInterval {
			pt.lastProgress = ev
			pt.pending = true
			return nil
		}
		pt.lastForward = now
		pt.lastProgress = ev
		pt.pending = false
		return pt.next.Emit(ev)

	case Finished:
		// flush whatever was coalesced so the sink sees the last byte count
		if pt.pending {
			pt.pending = false
			if err := pt.next.Emit(pt.lastProgress); err != nil {
				return err
			}
		}
		return pt.next.Emit(ev)

	default:
		return pt.next.Emit(event)
	}
}

// LastProgress returns the most recent Progress seen and whether it is still
// held back from the next emitter
func (pt *ProgressTracker) LastProgress() (Progress, bool) {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	return pt.lastProgress, pt.pending
}

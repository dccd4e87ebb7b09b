package combat

import (
	"sync"
	"time"
)

// Pacing delays. Monster turns and narration-triggered encounters run after
// a short delay so turn-taking reads naturally, never concurrently with
// player input.
const (
	MonsterTurnDelay = 1500 * time.Millisecond
	TriggerDelay     = 1 * time.Second
)

// DelayTimer fires a callback once after a duration unless stopped.
// It is safe for concurrent use.
type DelayTimer struct {
	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
}

// NewDelayTimer creates and starts a timer that calls onFire after duration.
// onFire runs in its own goroutine.
//
// Precondition: duration > 0; onFire must not be nil.
// Postcondition: onFire will be called unless Stop is called first.
func NewDelayTimer(duration time.Duration, onFire func()) *DelayTimer {
	dt := &DelayTimer{}
	dt.timer = time.AfterFunc(duration, func() {
		dt.mu.Lock()
		stopped := dt.stopped
		dt.mu.Unlock()
		if !stopped {
			onFire()
		}
	})
	return dt
}

// Stop prevents the callback from firing. Safe to call multiple times.
//
// Postcondition: onFire will not be called after Stop returns.
func (dt *DelayTimer) Stop() {
	dt.mu.Lock()
	defer dt.mu.Unlock()
	dt.stopped = true
	dt.timer.Stop()
}

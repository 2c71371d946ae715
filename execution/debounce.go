package execution

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Debouncer coalesces bursts of calls per key. Each Schedule resets the key's timer; fn
// runs once the key has been quiet for the given delay.
type Debouncer struct {
	timers map[string]*pendingTimer
	mutex  sync.RWMutex
}

type pendingTimer struct {
	timer  *time.Timer
	cancel context.CancelFunc
}

func NewDebouncer() *Debouncer {
	return &Debouncer{
		timers: make(map[string]*pendingTimer),
	}
}

// Schedule runs fn after delay unless another Schedule for key arrives first.
func (d *Debouncer) Schedule(key string, delay time.Duration, fn func()) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if existing, exists := d.timers[key]; exists {
		log.Debug().Str("key", key).Msg("Resetting debounce timer")
		existing.timer.Stop()
		existing.cancel()
	}

	ctx, cancel := context.WithCancel(context.Background())

	entry := &pendingTimer{cancel: cancel}
	entry.timer = time.AfterFunc(delay, func() {
		select {
		case <-ctx.Done():
			return
		default:
		}
		d.cleanup(key, entry)
		fn()
	})

	d.timers[key] = entry
}

func (d *Debouncer) cleanup(key string, entry *pendingTimer) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if d.timers[key] == entry {
		delete(d.timers, key)
	}
}

// Cancel drops any pending call for key.
func (d *Debouncer) Cancel(key string) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if existing, exists := d.timers[key]; exists {
		existing.timer.Stop()
		existing.cancel()
		delete(d.timers, key)
	}
}

// Pending returns the number of keys waiting to fire.
func (d *Debouncer) Pending() int {
	d.mutex.RLock()
	defer d.mutex.RUnlock()
	return len(d.timers)
}

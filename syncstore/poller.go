package syncstore

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	pollRun     = "poll"
	nudgeKey    = "refresh"
	loadTimeout = 30 * time.Second
)

// Watch switches to scope and starts polling it. The first load is a visible one; every
// tick after that is silent. Calling Watch again, or the returned stop, ends the previous
// loop along with its in-flight fetch. Other loads that resolve for an old scope are
// discarded.
func (s *Store) Watch(parent context.Context, scope Scope) (stop func()) {
	if scope != s.Scope() {
		s.SetScope(scope)
	}

	ctx := s.runs.Start(parent, pollRun)

	s.mu.Lock()
	s.pollCtx = ctx
	s.mu.Unlock()

	s.hydrate(ctx)

	log.Info().
		Str("scope", scope.String()).
		Dur("interval", s.pollInterval).
		Msg("Watching conversations")

	go s.poll(ctx)

	return func() {
		s.debouncer.Cancel(nudgeKey)
		s.runs.Cleanup(pollRun, ctx)
	}
}

// Unwatch stops the current poll loop, if any.
func (s *Store) Unwatch() {
	s.debouncer.Cancel(nudgeKey)
	s.runs.Stop(pollRun)
}

func (s *Store) poll(ctx context.Context) {
	s.loadWithTimeout(ctx, false)

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Debug().Msg("Poll loop stopped")
			return
		case <-ticker.C:
			s.loadWithTimeout(ctx, true)
		}
	}
}

func (s *Store) loadWithTimeout(ctx context.Context, silent bool) {
	if ctx.Err() != nil {
		return
	}
	loadCtx, cancel := context.WithTimeout(ctx, loadTimeout)
	defer cancel()
	_ = s.Load(loadCtx, silent)
}

// Nudge schedules a silent refresh shortly, coalescing bursts of calls. It does nothing
// when the store is not watching.
func (s *Store) Nudge() {
	s.mu.RLock()
	ctx := s.pollCtx
	s.mu.RUnlock()

	if ctx == nil || ctx.Err() != nil {
		return
	}

	s.debouncer.Schedule(nudgeKey, s.nudgeDelay, func() {
		s.loadWithTimeout(ctx, true)
	})
}

// Package syncstore keeps a local view of leads and interactions eventually consistent
// with the polled CRM backend.
//
// Every mutation builds new slices under the store mutex and swaps them in, so a reader
// holding an earlier snapshot never observes a half-applied update.
package syncstore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/NextMind-AI/leadsync/crm"
	"github.com/NextMind-AI/leadsync/execution"
	"github.com/NextMind-AI/leadsync/redis"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultPollInterval = 15 * time.Second
	DefaultNudgeDelay   = 500 * time.Millisecond
)

var (
	ErrLeadNotFound = errors.New("lead not found")
	// ErrStaleScope is returned by loads that resolved after the scope changed.
	ErrStaleScope = errors.New("scope changed while loading")
)

type Options struct {
	Scope        Scope
	PollInterval time.Duration
	NudgeDelay   time.Duration
	Cache        SnapshotCacheInterface
	Notifier     NotifierInterface
}

type Store struct {
	backend      BackendInterface
	cache        SnapshotCacheInterface
	notifier     NotifierInterface
	runs         *execution.Manager
	debouncer    *execution.Debouncer
	pollInterval time.Duration
	nudgeDelay   time.Duration

	mu           sync.RWMutex
	scope        Scope
	generation   uint64
	leads        []crm.Lead
	interactions []crm.Interaction
	local        map[int64]struct{}
	loading      int
	sending      int
	err          error
	lastSync     time.Time
	pollCtx      context.Context
}

func New(backend BackendInterface, opts Options) *Store {
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	if opts.NudgeDelay <= 0 {
		opts.NudgeDelay = DefaultNudgeDelay
	}
	if opts.Notifier == nil {
		opts.Notifier = LogNotifier{}
	}

	return &Store{
		backend:      backend,
		cache:        opts.Cache,
		notifier:     opts.Notifier,
		runs:         execution.NewManager(),
		debouncer:    execution.NewDebouncer(),
		pollInterval: opts.PollInterval,
		nudgeDelay:   opts.NudgeDelay,
		scope:        opts.Scope,
		local:        make(map[int64]struct{}),
	}
}

// Load fetches leads and interactions for the current scope in parallel and replaces
// both wholesale. A silent load never touches the error state or notifies; a failed
// silent load leaves state as it was. Whichever load resolves last wins.
func (s *Store) Load(ctx context.Context, silent bool) error {
	s.mu.Lock()
	scope := s.scope
	generation := s.generation
	if !silent {
		s.loading++
	}
	s.mu.Unlock()

	leads, interactions, err := s.fetch(ctx, scope.AccountID)

	s.mu.Lock()
	if !silent {
		s.loading--
	}
	if generation != s.generation {
		s.mu.Unlock()
		log.Debug().Str("scope", scope.String()).Msg("Discarding load for previous scope")
		return ErrStaleScope
	}
	if err != nil {
		// an abandoned load is neither shown nor kept as the error state
		abandoned := ctx.Err() != nil
		if !silent && !abandoned {
			s.err = err
		}
		s.mu.Unlock()

		if silent || abandoned {
			log.Debug().Err(err).Str("scope", scope.String()).Msg("Background refresh failed")
		} else {
			log.Error().Err(err).Str("scope", scope.String()).Msg("Error loading conversations")
			s.notifier.Notify(Notification{
				Kind:    NotifyError,
				Message: "Failed to load conversations",
				Err:     err,
			})
		}
		return err
	}

	s.leads = leads
	s.interactions = s.withLocal(interactions, s.interactions)
	s.err = nil
	s.lastSync = time.Now()
	s.mu.Unlock()

	log.Debug().
		Str("scope", scope.String()).
		Int("leads", len(leads)).
		Int("interactions", len(interactions)).
		Bool("silent", silent).
		Msg("Conversations refreshed")

	s.saveSnapshot(ctx, scope, leads, interactions)
	return nil
}

func (s *Store) fetch(ctx context.Context, accountID int64) ([]crm.Lead, []crm.Interaction, error) {
	var leads []crm.Lead
	var interactions []crm.Interaction

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		leads, err = s.backend.ListLeads(gctx, accountID)
		if err != nil {
			return fmt.Errorf("failed to list leads: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		interactions, err = s.backend.ListInteractions(gctx, accountID)
		if err != nil {
			return fmt.Errorf("failed to list interactions: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return leads, interactions, nil
}

// RefreshLead replaces the server rows of one lead with a fresh fetch.
func (s *Store) RefreshLead(ctx context.Context, leadID int64) error {
	s.mu.RLock()
	generation := s.generation
	s.mu.RUnlock()

	fetched, err := s.backend.ListLeadInteractions(ctx, leadID)
	if err != nil {
		log.Error().Err(err).Int64("lead_id", leadID).Msg("Error refreshing lead interactions")
		s.notifier.Notify(Notification{
			Kind:    NotifyError,
			Message: "Failed to refresh conversation",
			Err:     err,
		})
		return fmt.Errorf("failed to refresh lead %d: %w", leadID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if generation != s.generation {
		return ErrStaleScope
	}

	next := make([]crm.Interaction, 0, len(s.interactions)+len(fetched))
	for _, i := range s.interactions {
		if i.LeadID != leadID && !s.isLocal(i.ID) {
			next = append(next, i)
		}
	}
	for _, i := range fetched {
		if i.LeadID == leadID {
			next = append(next, i)
		}
	}
	s.interactions = s.withLocal(next, s.interactions)
	return nil
}

// withLocal appends the optimistic entries of previous to server. Callers hold s.mu.
func (s *Store) withLocal(server, previous []crm.Interaction) []crm.Interaction {
	if len(s.local) == 0 {
		return server
	}
	seen := make(map[int64]struct{}, len(server))
	for _, i := range server {
		seen[i.ID] = struct{}{}
	}
	next := make([]crm.Interaction, len(server), len(server)+len(s.local))
	copy(next, server)
	for _, i := range previous {
		if _, ok := s.local[i.ID]; !ok {
			continue
		}
		if _, dup := seen[i.ID]; dup {
			continue
		}
		next = append(next, i)
	}
	return next
}

func (s *Store) isLocal(id int64) bool {
	_, ok := s.local[id]
	return ok
}

// SetScope switches the store to scope. Server state is dropped; optimistic entries are
// kept. Loads still in flight for the previous scope will be discarded.
func (s *Store) SetScope(scope Scope) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.scope = scope
	s.generation++
	s.leads = nil
	s.interactions = s.withLocal(nil, s.interactions)
	s.err = nil
	s.lastSync = time.Time{}
}

func (s *Store) Scope() Scope {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scope
}

func (s *Store) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	status := Status{
		Scope:        s.scope,
		Loading:      s.loading > 0,
		Sending:      s.sending > 0,
		LastSync:     s.lastSync,
		Leads:        len(s.leads),
		Interactions: len(s.interactions),
		Pending:      len(s.local),
		Watching:     s.pollCtx != nil && s.pollCtx.Err() == nil,
	}
	if s.err != nil {
		status.Error = s.err.Error()
	}
	return status
}

// Snapshot returns the current leads and interactions. The slices must not be modified.
func (s *Store) Snapshot() ([]crm.Lead, []crm.Interaction) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.leads, s.interactions
}

func (s *Store) hydrate(ctx context.Context) {
	if s.cache == nil {
		return
	}

	s.mu.RLock()
	scope := s.scope
	generation := s.generation
	empty := len(s.leads) == 0
	s.mu.RUnlock()
	if !empty {
		return
	}

	snapshot, err := s.cache.LoadSnapshot(ctx, scope.cacheKey())
	if err != nil {
		log.Warn().Err(err).Str("scope", scope.String()).Msg("Error reading snapshot")
		return
	}
	if snapshot == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if generation != s.generation || len(s.leads) != 0 {
		return
	}
	s.leads = snapshot.Leads
	s.interactions = s.withLocal(snapshot.Interactions, s.interactions)
	s.lastSync = snapshot.FetchedAt

	log.Info().
		Str("scope", scope.String()).
		Time("fetched_at", snapshot.FetchedAt).
		Msg("Seeded conversations from snapshot")
}

func (s *Store) saveSnapshot(ctx context.Context, scope Scope, leads []crm.Lead, interactions []crm.Interaction) {
	if s.cache == nil {
		return
	}
	err := s.cache.SaveSnapshot(ctx, scope.cacheKey(), redis.Snapshot{
		Leads:        leads,
		Interactions: interactions,
		FetchedAt:    time.Now(),
	})
	if err != nil {
		log.Warn().Err(err).Str("scope", scope.String()).Msg("Error saving snapshot")
	}
}

// Package execution tracks named cancellable runs. Starting a run under a name cancels
// whichever run held that name before.
package execution

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

type run struct {
	ctx    context.Context
	cancel context.CancelFunc
}

type Manager struct {
	runs  map[string]*run
	mutex sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		runs: make(map[string]*run),
	}
}

// Start cancels the previous run registered under name and returns the context of the
// new one, derived from parent.
func (m *Manager) Start(parent context.Context, name string) context.Context {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if existing, exists := m.runs[name]; exists {
		log.Debug().Str("run", name).Msg("Cancelling previous run")
		existing.cancel()
	}

	ctx, cancel := context.WithCancel(parent)
	m.runs[name] = &run{
		ctx:    ctx,
		cancel: cancel,
	}

	return ctx
}

// Stop cancels the run registered under name, if any.
func (m *Manager) Stop(name string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if existing, exists := m.runs[name]; exists {
		existing.cancel()
		delete(m.runs, name)
	}
}

// Cleanup forgets the run when ctx is still the one registered under name. A run that
// was already replaced is left alone.
func (m *Manager) Cleanup(name string, ctx context.Context) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if existing, exists := m.runs[name]; exists && existing.ctx == ctx {
		existing.cancel()
		delete(m.runs, name)
	}
}

// Current reports whether ctx is the live run for name.
func (m *Manager) Current(name string, ctx context.Context) bool {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	existing, exists := m.runs[name]
	return exists && existing.ctx == ctx && ctx.Err() == nil
}

// StopAll cancels every run.
func (m *Manager) StopAll() {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for name, existing := range m.runs {
		existing.cancel()
		delete(m.runs, name)
	}
}

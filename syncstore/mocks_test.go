package syncstore

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/NextMind-AI/leadsync/crm"
	"github.com/NextMind-AI/leadsync/redis"
)

// MockBackend serves fixed leads and interactions. When gate is set, list calls block
// until it is closed.
type MockBackend struct {
	mu           sync.Mutex
	leads        []crm.Lead
	interactions []crm.Interaction
	err          error
	gate         chan struct{}
	leadCalls    atomic.Int32
}

func (m *MockBackend) set(leads []crm.Lead, interactions []crm.Interaction, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.leads = leads
	m.interactions = interactions
	m.err = err
}

func (m *MockBackend) wait(ctx context.Context) error {
	m.mu.Lock()
	gate := m.gate
	m.mu.Unlock()
	if gate == nil {
		return nil
	}
	select {
	case <-gate:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *MockBackend) ListLeads(ctx context.Context, accountID int64) ([]crm.Lead, error) {
	m.leadCalls.Add(1)
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.leads, nil
}

func (m *MockBackend) ListInteractions(ctx context.Context, accountID int64) ([]crm.Interaction, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.interactions, nil
}

func (m *MockBackend) ListLeadInteractions(ctx context.Context, leadID int64) ([]crm.Interaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var result []crm.Interaction
	for _, i := range m.interactions {
		if i.LeadID == leadID {
			result = append(result, i)
		}
	}
	return result, nil
}

type MockNotifier struct {
	mu   sync.Mutex
	sent []Notification
}

func (m *MockNotifier) Notify(n Notification) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, n)
}

func (m *MockNotifier) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

type MockSnapshotCache struct {
	mu        sync.Mutex
	snapshots map[string]redis.Snapshot
}

func NewMockSnapshotCache() *MockSnapshotCache {
	return &MockSnapshotCache{snapshots: make(map[string]redis.Snapshot)}
}

func (m *MockSnapshotCache) LoadSnapshot(ctx context.Context, key string) (*redis.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	snapshot, ok := m.snapshots[key]
	if !ok {
		return nil, nil
	}
	return &snapshot, nil
}

func (m *MockSnapshotCache) SaveSnapshot(ctx context.Context, key string, snapshot redis.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots[key] = snapshot
	return nil
}

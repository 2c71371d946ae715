package syncstore

import (
	"context"

	"github.com/NextMind-AI/leadsync/crm"
	"github.com/NextMind-AI/leadsync/redis"
)

// BackendInterface is the read side of the CRM backend used by the store.
type BackendInterface interface {
	ListLeads(ctx context.Context, accountID int64) ([]crm.Lead, error)
	ListInteractions(ctx context.Context, accountID int64) ([]crm.Interaction, error)
	ListLeadInteractions(ctx context.Context, leadID int64) ([]crm.Interaction, error)
}

// SnapshotCacheInterface persists the last known state per scope.
type SnapshotCacheInterface interface {
	LoadSnapshot(ctx context.Context, key string) (*redis.Snapshot, error)
	SaveSnapshot(ctx context.Context, key string, snapshot redis.Snapshot) error
}

// NotifierInterface surfaces user-visible failures.
type NotifierInterface interface {
	Notify(n Notification)
}

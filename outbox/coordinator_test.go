package outbox

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/NextMind-AI/leadsync/crm"
	"github.com/NextMind-AI/leadsync/syncstore"
)

type MockReader struct{}

func (MockReader) ListLeads(ctx context.Context, accountID int64) ([]crm.Lead, error) {
	return nil, nil
}

func (MockReader) ListInteractions(ctx context.Context, accountID int64) ([]crm.Interaction, error) {
	return nil, nil
}

func (MockReader) ListLeadInteractions(ctx context.Context, leadID int64) ([]crm.Interaction, error) {
	return nil, nil
}

type quietNotifier struct{}

func (quietNotifier) Notify(n syncstore.Notification) {}

// MockBackend records posted messages. When err is set every call fails; when gate is
// set CreateInteraction blocks until it is closed.
type MockBackend struct {
	mu     sync.Mutex
	posted []crm.NewInteraction
	err    error
	gate   chan struct{}
	nextID int64
}

func (m *MockBackend) CreateInteraction(ctx context.Context, msg crm.NewInteraction) (crm.Interaction, error) {
	if m.gate != nil {
		<-m.gate
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.posted = append(m.posted, msg)
	if m.err != nil {
		return crm.Interaction{}, m.err
	}
	m.nextID++
	return crm.Interaction{
		ID:        m.nextID,
		LeadID:    msg.LeadsID,
		Direction: msg.Direction,
		Content:   msg.Content,
		Status:    crm.StatusSent,
		CreatedAt: "2024-05-01T10:00:00.000Z",
	}, nil
}

func (m *MockBackend) SetManualTakeover(ctx context.Context, leadID int64, on bool) (crm.Lead, error) {
	if m.err != nil {
		return crm.Lead{}, m.err
	}
	return crm.Lead{ID: leadID, FirstName: "Ana", ManualTakeover: on}, nil
}

func (m *MockBackend) postedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.posted)
}

type MockUploader struct {
	err error
}

func (m *MockUploader) UploadAttachment(ctx context.Context, leadID int64, name, contentType string, data []byte) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return "https://bucket.s3.us-east-1.amazonaws.com/attachments/" + name, nil
}

func newTestCoordinator(backend *MockBackend, opts Options) (*Coordinator, *syncstore.Store) {
	store := syncstore.New(MockReader{}, syncstore.Options{Notifier: quietNotifier{}})
	store.UpsertLead(crm.Lead{ID: 7, FirstName: "Ana", AccountID: 4, CampaignID: 9})
	return New(backend, store, opts), store
}

func interactionCount(store *syncstore.Store) int {
	_, interactions := store.Snapshot()
	return len(interactions)
}

func TestCoordinator_RejectsNoOps(t *testing.T) {
	backend := &MockBackend{}
	coordinator, store := newTestCoordinator(backend, Options{})

	tests := []struct {
		name    string
		leadID  int64
		content string
	}{
		{"empty content", 7, ""},
		{"whitespace content", 7, "  \n\t"},
		{"unknown lead", 42, "hello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sent, err := coordinator.Send(context.Background(), tt.leadID, tt.content)
			if err != nil {
				t.Errorf("Expected no error, got %v", err)
			}
			if sent != nil {
				t.Errorf("Expected no message, got %+v", sent)
			}
		})
	}

	if got := interactionCount(store); got != 0 {
		t.Errorf("Expected no interactions, got %d", got)
	}
	if got := backend.postedCount(); got != 0 {
		t.Errorf("Expected no network calls, got %d", got)
	}
}

func TestCoordinator_SendReplacesPlaceholder(t *testing.T) {
	backend := &MockBackend{}
	coordinator, store := newTestCoordinator(backend, Options{AgentName: "Maria", ChannelType: "sms"})

	pending, ok := coordinator.Begin(7, "hi")
	if !ok {
		t.Fatal("Expected send to begin")
	}
	if got := interactionCount(store); got != 1 {
		t.Fatalf("Expected 1 interaction after begin, got %d", got)
	}
	placeholder, _ := store.Local(pending.TempID())
	if placeholder.Status != crm.StatusSending {
		t.Errorf("Expected status sending, got %s", placeholder.Status)
	}

	created, err := pending.Commit(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	_, interactions := store.Snapshot()
	if len(interactions) != 1 {
		t.Fatalf("Expected length to stay 1, got %d", len(interactions))
	}
	if interactions[0].ID != created.ID || interactions[0].Status != crm.StatusSent {
		t.Errorf("Expected confirmed row, got %+v", interactions[0])
	}
	if store.Sending() {
		t.Error("Expected sending flag to be cleared")
	}

	posted := backend.posted[0]
	if posted.LeadsID != 7 || posted.AccountsID != 4 || posted.CampaignsID != 9 {
		t.Errorf("Expected lead scope in body, got %+v", posted)
	}
	if posted.Who != "Maria" || posted.Type != "sms" || posted.Direction != crm.Outbound {
		t.Errorf("Expected agent fields in body, got %+v", posted)
	}
}

func TestCoordinator_OfflineSendMarksFailed(t *testing.T) {
	backend := &MockBackend{err: errors.New("network unreachable")}
	coordinator, store := newTestCoordinator(backend, Options{})

	pending, ok := coordinator.Begin(7, "hi")
	if !ok {
		t.Fatal("Expected send to begin")
	}
	if got := interactionCount(store); got != 1 {
		t.Fatalf("Expected 1 interaction after begin, got %d", got)
	}

	if _, err := pending.Commit(context.Background()); err == nil {
		t.Fatal("Expected error")
	}

	if got := interactionCount(store); got != 1 {
		t.Errorf("Expected length to stay 1, got %d", got)
	}
	failed, ok := store.Local(pending.TempID())
	if !ok {
		t.Fatal("Expected failed placeholder to remain")
	}
	if failed.Status != crm.StatusFailed {
		t.Errorf("Expected status failed, got %s", failed.Status)
	}
	if store.Sending() {
		t.Error("Expected sending flag to be cleared")
	}
}

func TestCoordinator_SendingFlagDuringCommit(t *testing.T) {
	backend := &MockBackend{gate: make(chan struct{})}
	coordinator, store := newTestCoordinator(backend, Options{})

	pending, _ := coordinator.Begin(7, "hi")
	done := make(chan struct{})
	go func() {
		pending.Commit(context.Background())
		close(done)
	}()

	deadline := time.Now().Add(time.Second)
	for !store.Sending() && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if !store.Sending() {
		t.Error("Expected sending flag while the post is in flight")
	}

	close(backend.gate)
	<-done
	if store.Sending() {
		t.Error("Expected sending flag to be cleared")
	}
}

func TestCoordinator_RetryAndDiscard(t *testing.T) {
	backend := &MockBackend{err: errors.New("timeout")}
	coordinator, store := newTestCoordinator(backend, Options{})

	pending, _ := coordinator.Begin(7, "hi")
	pending.Commit(context.Background())
	tempID := pending.TempID()

	backend.err = nil
	sent, err := coordinator.Retry(context.Background(), tempID)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if sent == nil || sent.Status != crm.StatusSent {
		t.Errorf("Expected sent message, got %+v", sent)
	}
	if got := interactionCount(store); got != 1 {
		t.Errorf("Expected 1 interaction, got %d", got)
	}

	if _, err := coordinator.Retry(context.Background(), tempID); !errors.Is(err, ErrMessageNotFound) {
		t.Errorf("Expected ErrMessageNotFound, got %v", err)
	}

	backend.err = errors.New("timeout")
	second, _ := coordinator.Begin(7, "again")
	second.Commit(context.Background())
	if err := coordinator.Discard(second.TempID()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got := interactionCount(store); got != 1 {
		t.Errorf("Expected discarded placeholder to be removed, got %d interactions", got)
	}
}

func TestCoordinator_RetryRequiresFailed(t *testing.T) {
	backend := &MockBackend{}
	coordinator, _ := newTestCoordinator(backend, Options{})

	pending, _ := coordinator.Begin(7, "hi")
	if _, err := coordinator.Retry(context.Background(), pending.TempID()); !errors.Is(err, ErrNotFailed) {
		t.Errorf("Expected ErrNotFailed, got %v", err)
	}
	if err := coordinator.Discard(pending.TempID()); !errors.Is(err, ErrNotFailed) {
		t.Errorf("Expected ErrNotFailed, got %v", err)
	}
}

func TestCoordinator_TempIDsAreUnique(t *testing.T) {
	coordinator, _ := newTestCoordinator(&MockBackend{}, Options{})
	fixed := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	coordinator.now = func() time.Time { return fixed }

	seen := make(map[int64]bool)
	for i := 0; i < 5; i++ {
		pending, ok := coordinator.Begin(7, "burst")
		if !ok {
			t.Fatal("Expected send to begin")
		}
		if seen[pending.TempID()] {
			t.Errorf("Expected unique temp id, got duplicate %d", pending.TempID())
		}
		seen[pending.TempID()] = true
	}
	if !seen[fixed.UnixMilli()] {
		t.Errorf("Expected first temp id to be the epoch milliseconds %d", fixed.UnixMilli())
	}
}

func TestCoordinator_SendAttachment(t *testing.T) {
	backend := &MockBackend{}
	coordinator, store := newTestCoordinator(backend, Options{Uploader: &MockUploader{}})

	sent, err := coordinator.SendAttachment(context.Background(), 7, "", "photo.jpg", "image/jpeg", []byte{0xff, 0xd8})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if sent == nil {
		t.Fatal("Expected message")
	}
	if got := backend.posted[0].Attachment; got != "https://bucket.s3.us-east-1.amazonaws.com/attachments/photo.jpg" {
		t.Errorf("Expected attachment url in body, got %q", got)
	}
	if got := interactionCount(store); got != 1 {
		t.Errorf("Expected 1 interaction, got %d", got)
	}

	failing, _ := newTestCoordinator(&MockBackend{}, Options{Uploader: &MockUploader{err: errors.New("denied")}})
	if _, err := failing.SendAttachment(context.Background(), 7, "", "a.pdf", "application/pdf", []byte("x")); err == nil {
		t.Error("Expected upload error")
	}

	bare, _ := newTestCoordinator(&MockBackend{}, Options{})
	if _, err := bare.SendAttachment(context.Background(), 7, "", "a.pdf", "application/pdf", []byte("x")); !errors.Is(err, ErrNoUploader) {
		t.Errorf("Expected ErrNoUploader, got %v", err)
	}
}

func TestCoordinator_SetTakeover(t *testing.T) {
	coordinator, store := newTestCoordinator(&MockBackend{}, Options{})

	lead, err := coordinator.SetTakeover(context.Background(), 7, true)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !lead.ManualTakeover {
		t.Error("Expected manual takeover on")
	}
	cached, _ := store.Lead(7)
	if !cached.ManualTakeover {
		t.Error("Expected cached lead to be updated")
	}

	if _, err := coordinator.SetTakeover(context.Background(), 42, true); !errors.Is(err, syncstore.ErrLeadNotFound) {
		t.Errorf("Expected ErrLeadNotFound, got %v", err)
	}
}

package outbox

import (
	"context"

	"github.com/NextMind-AI/leadsync/crm"
)

// BackendInterface is the write side of the CRM backend.
type BackendInterface interface {
	CreateInteraction(ctx context.Context, msg crm.NewInteraction) (crm.Interaction, error)
	SetManualTakeover(ctx context.Context, leadID int64, on bool) (crm.Lead, error)
}

// StoreInterface is the part of the sync store a send touches.
type StoreInterface interface {
	Lead(id int64) (crm.Lead, bool)
	UpsertLead(lead crm.Lead)
	AppendLocal(i crm.Interaction)
	ReplaceLocal(tempID int64, confirmed crm.Interaction) bool
	MarkFailed(tempID int64) bool
	MarkSending(tempID int64) bool
	DiscardLocal(tempID int64) bool
	Local(tempID int64) (crm.Interaction, bool)
	BeginSend()
	EndSend()
	Nudge()
}

// AttachmentUploaderInterface stores a file and returns its public URL.
type AttachmentUploaderInterface interface {
	UploadAttachment(ctx context.Context, leadID int64, name, contentType string, data []byte) (string, error)
}

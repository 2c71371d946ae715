// Package outbox sends agent messages optimistically. A placeholder is appended to the
// store before the backend is called and is then replaced by the confirmed row, or left
// in place marked failed.
package outbox

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/NextMind-AI/leadsync/crm"
	"github.com/NextMind-AI/leadsync/record"
	"github.com/NextMind-AI/leadsync/syncstore"

	"github.com/rs/zerolog/log"
)

const (
	DefaultAgentName   = "agent"
	DefaultChannelType = "whatsapp"
)

var (
	ErrMessageNotFound = errors.New("pending message not found")
	ErrNotFailed       = errors.New("message has not failed")
	ErrNoUploader      = errors.New("attachments are not configured")
)

type Options struct {
	// AgentName is sent as the "who" of every outbound message.
	AgentName   string
	ChannelType string
	Uploader    AttachmentUploaderInterface
}

type Coordinator struct {
	backend     BackendInterface
	store       StoreInterface
	uploader    AttachmentUploaderInterface
	agentName   string
	channelType string
	now         func() time.Time

	mu     sync.Mutex
	lastID int64
}

func New(backend BackendInterface, store StoreInterface, opts Options) *Coordinator {
	if opts.AgentName == "" {
		opts.AgentName = DefaultAgentName
	}
	if opts.ChannelType == "" {
		opts.ChannelType = DefaultChannelType
	}

	return &Coordinator{
		backend:     backend,
		store:       store,
		uploader:    opts.Uploader,
		agentName:   opts.AgentName,
		channelType: opts.ChannelType,
		now:         time.Now,
	}
}

// Pending is a placeholder waiting for its backend round trip.
type Pending struct {
	coordinator *Coordinator
	placeholder crm.Interaction
}

func (p *Pending) TempID() int64 {
	return p.placeholder.ID
}

func (p *Pending) Placeholder() crm.Interaction {
	return p.placeholder
}

// Begin appends a sending placeholder for content and returns it. Blank content or an
// unknown lead is not an error; nothing happens and ok is false.
func (c *Coordinator) Begin(leadID int64, content string) (*Pending, bool) {
	if strings.TrimSpace(content) == "" {
		return nil, false
	}
	return c.begin(leadID, content, "")
}

func (c *Coordinator) begin(leadID int64, content, attachment string) (*Pending, bool) {
	lead, ok := c.store.Lead(leadID)
	if !ok {
		log.Debug().Int64("lead_id", leadID).Msg("Ignoring send to unknown lead")
		return nil, false
	}

	now := c.now()
	placeholder := crm.Interaction{
		ID:         c.nextTempID(now),
		LeadID:     lead.ID,
		AccountID:  lead.AccountID,
		CampaignID: lead.CampaignID,
		Direction:  crm.Outbound,
		Content:    content,
		Attachment: attachment,
		Status:     crm.StatusSending,
		Type:       c.channelType,
		CreatedAt:  record.FormatTime(now),
		Who:        c.agentName,
	}
	c.store.AppendLocal(placeholder)

	return &Pending{coordinator: c, placeholder: placeholder}, true
}

// nextTempID is the send time in epoch milliseconds, bumped past the previous id so two
// sends in the same millisecond never collide.
func (c *Coordinator) nextTempID(now time.Time) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := now.UnixMilli()
	if id <= c.lastID {
		id = c.lastID + 1
	}
	c.lastID = id
	return id
}

// Commit posts the placeholder. On success the placeholder is replaced by the returned
// row; on failure it stays visible with status failed.
func (p *Pending) Commit(ctx context.Context) (crm.Interaction, error) {
	c := p.coordinator
	msg := p.placeholder

	c.store.BeginSend()
	defer c.store.EndSend()

	created, err := c.backend.CreateInteraction(ctx, crm.NewInteraction{
		LeadsID:     msg.LeadID,
		AccountsID:  msg.AccountID,
		CampaignsID: msg.CampaignID,
		Content:     msg.Content,
		Type:        msg.Type,
		Direction:   msg.Direction,
		Status:      crm.StatusSent,
		Who:         msg.Who,
		Attachment:  msg.Attachment,
	})
	if err != nil {
		c.store.MarkFailed(msg.ID)
		log.Error().
			Err(err).
			Int64("lead_id", msg.LeadID).
			Int64("temp_id", msg.ID).
			Msg("Error sending message")
		return crm.Interaction{}, fmt.Errorf("failed to send message: %w", err)
	}

	if !c.store.ReplaceLocal(msg.ID, created) {
		log.Debug().Int64("temp_id", msg.ID).Msg("Placeholder gone before confirmation, appended confirmed row")
	}
	c.store.Nudge()

	log.Info().
		Int64("lead_id", msg.LeadID).
		Int64("temp_id", msg.ID).
		Int64("interaction_id", created.ID).
		Msg("Message sent")

	return created, nil
}

// Send is Begin followed by Commit. It returns nil and no error for a rejected send.
func (c *Coordinator) Send(ctx context.Context, leadID int64, content string) (*crm.Interaction, error) {
	pending, ok := c.Begin(leadID, content)
	if !ok {
		return nil, nil
	}
	created, err := pending.Commit(ctx)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// Retry resends a failed placeholder under the same temp id.
func (c *Coordinator) Retry(ctx context.Context, tempID int64) (*crm.Interaction, error) {
	pending, err := c.resume(tempID)
	if err != nil {
		return nil, err
	}
	created, err := pending.Commit(ctx)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// Resume moves a failed placeholder back to sending and returns it for a new Commit.
func (c *Coordinator) Resume(tempID int64) (*Pending, error) {
	return c.resume(tempID)
}

func (c *Coordinator) resume(tempID int64) (*Pending, error) {
	local, ok := c.store.Local(tempID)
	if !ok {
		return nil, ErrMessageNotFound
	}
	if local.Status != crm.StatusFailed {
		return nil, ErrNotFailed
	}
	c.store.MarkSending(tempID)
	local.Status = crm.StatusSending

	log.Info().Int64("lead_id", local.LeadID).Int64("temp_id", tempID).Msg("Retrying message")
	return &Pending{coordinator: c, placeholder: local}, nil
}

// Discard removes a failed placeholder.
func (c *Coordinator) Discard(tempID int64) error {
	local, ok := c.store.Local(tempID)
	if !ok {
		return ErrMessageNotFound
	}
	if local.Status != crm.StatusFailed {
		return ErrNotFailed
	}
	c.store.DiscardLocal(tempID)
	return nil
}

// SendAttachment uploads data and sends it with an optional caption. Empty data or an
// unknown lead is rejected like a blank message.
func (c *Coordinator) SendAttachment(ctx context.Context, leadID int64, caption, name, contentType string, data []byte) (*crm.Interaction, error) {
	if c.uploader == nil {
		return nil, ErrNoUploader
	}
	if len(data) == 0 {
		return nil, nil
	}
	if _, ok := c.store.Lead(leadID); !ok {
		return nil, nil
	}

	url, err := c.uploader.UploadAttachment(ctx, leadID, name, contentType, data)
	if err != nil {
		return nil, fmt.Errorf("failed to upload attachment: %w", err)
	}

	pending, ok := c.begin(leadID, caption, url)
	if !ok {
		return nil, nil
	}
	created, err := pending.Commit(ctx)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// SetTakeover toggles manual takeover for a lead and caches the updated lead.
func (c *Coordinator) SetTakeover(ctx context.Context, leadID int64, on bool) (crm.Lead, error) {
	if _, ok := c.store.Lead(leadID); !ok {
		return crm.Lead{}, syncstore.ErrLeadNotFound
	}

	lead, err := c.backend.SetManualTakeover(ctx, leadID, on)
	if err != nil {
		return crm.Lead{}, fmt.Errorf("failed to set manual takeover: %w", err)
	}
	c.store.UpsertLead(lead)

	log.Info().Int64("lead_id", leadID).Bool("manual_takeover", on).Msg("Manual takeover updated")
	return lead, nil
}

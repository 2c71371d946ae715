package crm

import "strings"

type Direction string

const (
	Inbound  Direction = "Inbound"
	Outbound Direction = "Outbound"
)

type Status string

const (
	StatusSending   Status = "sending"
	StatusSent      Status = "sent"
	StatusDelivered Status = "delivered"
	StatusRead      Status = "read"
	StatusFailed    Status = "failed"
)

// Lead is a contact record. Scoping keys are already resolved across naming variants.
type Lead struct {
	ID                   int64    `json:"id"`
	FirstName            string   `json:"first_name,omitempty"`
	LastName             string   `json:"last_name,omitempty"`
	FullName             string   `json:"full_name,omitempty"`
	Phone                string   `json:"phone,omitempty"`
	Email                string   `json:"email,omitempty"`
	AccountID            int64    `json:"account_id,omitempty"`
	CampaignID           int64    `json:"campaign_id,omitempty"`
	ManualTakeover       bool     `json:"manual_takeover"`
	MessageCountReceived int64    `json:"message_count_received"`
	Tags                 []string `json:"tags,omitempty"`
}

// Name returns the display name of the lead.
func (l Lead) Name() string {
	name := strings.TrimSpace(l.FirstName + " " + l.LastName)
	if name == "" {
		return l.FullName
	}
	return name
}

// Interaction is one message belonging to a lead.
type Interaction struct {
	ID                   int64     `json:"id"`
	LeadID               int64     `json:"lead_id"`
	AccountID            int64     `json:"account_id,omitempty"`
	CampaignID           int64     `json:"campaign_id,omitempty"`
	Direction            Direction `json:"direction"`
	Content              string    `json:"content"`
	Attachment           string    `json:"attachment,omitempty"`
	Status               Status    `json:"status,omitempty"`
	Type                 string    `json:"type,omitempty"`
	CreatedAt            string    `json:"created_at,omitempty"`
	ConversationThreadID string    `json:"conversation_thread_id,omitempty"`
	BumpNumber           *int64    `json:"bump_number,omitempty"`
	IsBump               bool      `json:"is_bump,omitempty"`
	Who                  string    `json:"who,omitempty"`
}

// NewInteraction is the POST /api/interactions body.
type NewInteraction struct {
	LeadsID     int64     `json:"leadsId"`
	AccountsID  int64     `json:"accountsId,omitempty"`
	CampaignsID int64     `json:"campaignsId,omitempty"`
	Content     string    `json:"content"`
	Type        string    `json:"type"`
	Direction   Direction `json:"direction"`
	Status      Status    `json:"status"`
	Who         string    `json:"who"`
	Attachment  string    `json:"attachment,omitempty"`
}

type takeoverPayload struct {
	ManualTakeover bool `json:"manual_takeover"`
}

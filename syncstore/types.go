package syncstore

import (
	"fmt"
	"time"

	"github.com/NextMind-AI/leadsync/crm"
	"github.com/NextMind-AI/leadsync/threads"
)

// Scope narrows the workspace to an account and optionally a campaign. Zero means any.
type Scope struct {
	AccountID  int64 `json:"account_id"`
	CampaignID int64 `json:"campaign_id"`
}

func (s Scope) String() string {
	return fmt.Sprintf("account:%d/campaign:%d", s.AccountID, s.CampaignID)
}

// cacheKey is per account since loads are only scoped by account.
func (s Scope) cacheKey() string {
	return fmt.Sprintf("account:%d", s.AccountID)
}

type Tab string

const (
	TabAll    Tab = "all"
	TabUnread Tab = "unread"
)

// Thread is one lead with its conversation, derived on every read.
type Thread struct {
	Lead     crm.Lead          `json:"lead"`
	Messages []crm.Interaction `json:"messages"`
	Last     *crm.Interaction  `json:"last,omitempty"`
	Unread   bool              `json:"unread"`
}

// Groups splits the thread into conversation sessions.
func (t Thread) Groups() []threads.Group {
	return threads.Partition(t.Messages)
}

// Status is a point-in-time view of the store's flags.
type Status struct {
	Scope        Scope     `json:"scope"`
	Loading      bool      `json:"loading"`
	Sending      bool      `json:"sending"`
	Error        string    `json:"error,omitempty"`
	LastSync     time.Time `json:"last_sync"`
	Leads        int       `json:"leads"`
	Interactions int       `json:"interactions"`
	Pending      int       `json:"pending"`
	Watching     bool      `json:"watching"`
}

type NotificationKind string

const (
	NotifyError NotificationKind = "error"
	NotifyInfo  NotificationKind = "info"
)

type Notification struct {
	Kind    NotificationKind
	Message string
	Err     error
}

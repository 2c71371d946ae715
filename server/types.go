package server

import (
	"github.com/NextMind-AI/leadsync/crm"
	"github.com/NextMind-AI/leadsync/openai"
)

// ThreadSummary is one row of the thread list.
type ThreadSummary struct {
	Lead         crm.Lead         `json:"lead"`
	Last         *crm.Interaction `json:"last,omitempty"`
	Unread       bool             `json:"unread"`
	MessageCount int              `json:"message_count"`
}

// ThreadGroup is one conversation session of a thread.
type ThreadGroup struct {
	Key      string            `json:"key"`
	Label    string            `json:"label"`
	Index    int               `json:"index"`
	Messages []crm.Interaction `json:"messages"`
}

type ThreadResponse struct {
	Lead   crm.Lead      `json:"lead"`
	Unread bool          `json:"unread"`
	Groups []ThreadGroup `json:"groups"`
}

type SendMessageRequest struct {
	Content string `json:"content"`
}

type TakeoverRequest struct {
	ManualTakeover bool `json:"manual_takeover"`
}

type ScopeRequest struct {
	AccountID  int64 `json:"account_id"`
	CampaignID int64 `json:"campaign_id"`
}

type SuggestResponse struct {
	Suggestions []openai.Suggestion `json:"suggestions"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

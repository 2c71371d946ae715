package syncstore

import (
	"sort"
	"strings"

	"github.com/NextMind-AI/leadsync/crm"
)

// Threads builds the thread list for scope, newest conversation first. Leads without any
// message sort last. The unread tab is applied after sorting.
func (s *Store) Threads(scope Scope, tab Tab, query string) []Thread {
	leads, interactions := s.Snapshot()
	return buildThreads(leads, interactions, scope, tab, query)
}

// Thread returns the thread of one lead regardless of scope.
func (s *Store) Thread(leadID int64) (Thread, bool) {
	leads, interactions := s.Snapshot()
	for _, l := range leads {
		if l.ID == leadID {
			return newThread(l, messagesOf(interactions, leadID)), true
		}
	}
	return Thread{}, false
}

func buildThreads(leads []crm.Lead, interactions []crm.Interaction, scope Scope, tab Tab, query string) []Thread {
	byLead := make(map[int64][]crm.Interaction)
	for _, i := range interactions {
		byLead[i.LeadID] = append(byLead[i.LeadID], i)
	}

	needle := strings.ToLower(strings.TrimSpace(query))

	result := make([]Thread, 0, len(leads))
	for _, l := range leads {
		if !inScope(l, scope) {
			continue
		}
		messages := byLead[l.ID]
		sortMessages(messages)
		t := newThread(l, messages)
		if needle != "" && !t.matches(needle) {
			continue
		}
		result = append(result, t)
	}

	sort.SliceStable(result, func(a, b int) bool {
		return lastCreatedAt(result[a]) > lastCreatedAt(result[b])
	})

	if tab == TabUnread {
		unread := result[:0]
		for _, t := range result {
			if t.Unread {
				unread = append(unread, t)
			}
		}
		result = unread
	}
	return result
}

func inScope(l crm.Lead, scope Scope) bool {
	if scope.AccountID != 0 && l.AccountID != scope.AccountID {
		return false
	}
	if scope.CampaignID != 0 && l.CampaignID != scope.CampaignID {
		return false
	}
	return true
}

func messagesOf(interactions []crm.Interaction, leadID int64) []crm.Interaction {
	var messages []crm.Interaction
	for _, i := range interactions {
		if i.LeadID == leadID {
			messages = append(messages, i)
		}
	}
	sortMessages(messages)
	return messages
}

// sortMessages orders by canonical timestamp, which compares correctly as a string.
// Messages without a timestamp sort first; ties keep insertion order.
func sortMessages(messages []crm.Interaction) {
	sort.SliceStable(messages, func(a, b int) bool {
		return messages[a].CreatedAt < messages[b].CreatedAt
	})
}

func newThread(l crm.Lead, messages []crm.Interaction) Thread {
	t := Thread{Lead: l, Messages: messages}
	if n := len(messages); n > 0 {
		last := messages[n-1]
		t.Last = &last
	}
	t.Unread = hasInbound(messages) && l.MessageCountReceived > 0
	return t
}

func hasInbound(messages []crm.Interaction) bool {
	for _, m := range messages {
		if m.Direction == crm.Inbound {
			return true
		}
	}
	return false
}

func (t Thread) matches(needle string) bool {
	fields := []string{t.Lead.Name(), t.Lead.Phone, t.Lead.Email}
	if t.Last != nil {
		fields = append(fields, t.Last.Content)
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

func lastCreatedAt(t Thread) string {
	if t.Last == nil {
		return ""
	}
	return t.Last.CreatedAt
}

// Package threads reconstructs conversation sessions from one lead's flat message history.
package threads

import (
	"fmt"
	"strings"
	"time"

	"github.com/NextMind-AI/leadsync/crm"
	"github.com/NextMind-AI/leadsync/record"
)

// GapThreshold splits keyless messages into separate sessions.
const GapThreshold = 2 * time.Hour

const (
	threadPrefix  = "thread-"
	bumpPrefix    = "bump-"
	bumpWhoPrefix = "bump-who-"
)

// Group is a contiguous run of messages considered one conversation session.
type Group struct {
	// Key is the render key, unique within one lead's groups.
	Key string
	// ThreadKey is the linkage key shared by the members, "" for time-gap sessions.
	ThreadKey string
	Index     int
	Messages  []crm.Interaction
}

// Key returns the linkage key of a message, or "" when it carries no linkage hint.
func Key(m crm.Interaction) string {
	if m.ConversationThreadID != "" {
		return threadPrefix + m.ConversationThreadID
	}
	if m.BumpNumber != nil {
		return fmt.Sprintf("%s%d", bumpPrefix, *m.BumpNumber)
	}
	if m.IsBump {
		if who := normalizeWho(m.Who); who != "" {
			return bumpWhoPrefix + who
		}
	}
	return ""
}

func normalizeWho(who string) string {
	return strings.Join(strings.Fields(strings.ToLower(who)), "-")
}

// Partition splits messages, already sorted ascending, into sessions. Concatenating the
// result in order always yields the input.
func Partition(messages []crm.Interaction) []Group {
	var groups []Group
	var current *Group
	var lastSeen time.Time
	haveLastSeen := false

	for _, m := range messages {
		key := Key(m)
		ts, haveTS := record.ParseTime(m.CreatedAt)
		gapExceeded := haveTS && haveLastSeen && ts.Sub(lastSeen) > GapThreshold

		switch {
		case current == nil:
			current = startGroup(&groups, key)
		case key != "" && current.ThreadKey != "" && key != current.ThreadKey:
			current = startGroup(&groups, key)
		case key != "" && current.ThreadKey == "":
			// a keyless session adopts the first linkage key seen inside the gap
			if gapExceeded {
				current = startGroup(&groups, key)
			} else {
				current.ThreadKey = key
			}
		case key == "" && gapExceeded:
			current = startGroup(&groups, key)
		}

		current.Messages = append(current.Messages, m)
		if haveTS {
			lastSeen = ts
			haveLastSeen = true
		}
	}

	for i := range groups {
		groups[i].Key = renderKey(groups[i])
	}
	return groups
}

func startGroup(groups *[]Group, key string) *Group {
	*groups = append(*groups, Group{
		ThreadKey: key,
		Index:     len(*groups),
	})
	return &(*groups)[len(*groups)-1]
}

// renderKey is stable across recomputation as long as the first member does not change.
func renderKey(g Group) string {
	base := g.ThreadKey
	if base == "" {
		base = "session"
	}
	if len(g.Messages) == 0 {
		return fmt.Sprintf("%s:%d", base, g.Index)
	}
	return fmt.Sprintf("%s:%d", base, g.Messages[0].ID)
}

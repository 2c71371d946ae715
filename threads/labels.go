package threads

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Label is the human readable title of a group. total is the number of groups in the
// thread, used to number keyless sessions.
func Label(g Group, total int) string {
	switch key := g.ThreadKey; {
	case strings.HasPrefix(key, bumpWhoPrefix):
		return titleCase(strings.TrimPrefix(key, bumpWhoPrefix))
	case strings.HasPrefix(key, bumpPrefix):
		return "Bump " + strings.TrimPrefix(key, bumpPrefix)
	case strings.HasPrefix(key, threadPrefix):
		id := strings.TrimPrefix(key, threadPrefix)
		if u, err := uuid.Parse(id); err == nil {
			return "Thread " + u.String()[:8]
		}
		return "Thread " + id
	}
	if total <= 1 {
		return "Conversation"
	}
	return fmt.Sprintf("Conversation %d", g.Index+1)
}

func titleCase(slug string) string {
	words := strings.Split(slug, "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

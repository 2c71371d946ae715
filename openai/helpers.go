package openai

import (
	"strings"

	"github.com/NextMind-AI/leadsync/crm"
	"github.com/openai/openai-go"
)

// maxTurns caps how much history is sent with a suggestion request.
const maxTurns = 30

type turn struct {
	role    string
	content string
}

// transcript maps a conversation to chat turns. Inbound messages are the user side,
// outbound ones the assistant side. Messages without text are described by their
// attachment so the model still sees that something was sent.
func transcript(messages []crm.Interaction) []turn {
	if len(messages) > maxTurns {
		messages = messages[len(messages)-maxTurns:]
	}

	turns := make([]turn, 0, len(messages))
	for _, m := range messages {
		content := strings.TrimSpace(m.Content)
		if content == "" && m.Attachment != "" {
			content = "[anexo: " + m.Attachment + "]"
		}
		if content == "" {
			continue
		}

		role := "assistant"
		if m.Direction == crm.Inbound {
			role = "user"
		}
		turns = append(turns, turn{role: role, content: content})
	}
	return turns
}

// createPersonalizedSystemPrompt adds the lead's name and phone to the system prompt.
func createPersonalizedSystemPrompt(lead crm.Lead) string {
	name := lead.Name()
	var leadContext string

	if name != "" && lead.Phone != "" {
		leadContext = "O lead se chama " + name + " (telefone: " + lead.Phone + ").\n\n"
	} else if name != "" {
		leadContext = "O lead se chama " + name + ".\n\n"
	} else if lead.Phone != "" {
		leadContext = "O lead usa o telefone " + lead.Phone + ".\n\n"
	}

	return leadContext + systemPrompt
}

func convertTranscript(lead crm.Lead, messages []crm.Interaction) []openai.ChatCompletionMessageParamUnion {
	params := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(createPersonalizedSystemPrompt(lead)),
	}
	for _, t := range transcript(messages) {
		switch t.role {
		case "user":
			params = append(params, openai.UserMessage(t.content))
		case "assistant":
			params = append(params, openai.AssistantMessage(t.content))
		}
	}
	return params
}

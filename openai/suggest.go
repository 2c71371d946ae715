package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/NextMind-AI/leadsync/crm"
	"github.com/openai/openai-go"
	"github.com/rs/zerolog/log"
)

var ErrEmptyConversation = errors.New("conversation has no text to reply to")

// SuggestReply asks the model for replies to the given conversation, usually the latest
// thread group of the lead.
func (c *Client) SuggestReply(ctx context.Context, lead crm.Lead, messages []crm.Interaction) ([]Suggestion, error) {
	if len(transcript(messages)) == 0 {
		return nil, ErrEmptyConversation
	}

	log.Info().
		Int64("lead_id", lead.ID).
		Int("message_count", len(messages)).
		Msg("Requesting reply suggestions")

	chatCompletion, err := c.client.Chat.Completions.New(
		ctx,
		openai.ChatCompletionNewParams{
			Messages: convertTranscript(lead, messages),
			Model:    openai.ChatModelGPT4_1Mini,
			ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
				OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
					JSONSchema: createSchemaParam(),
				},
			},
		},
	)
	if err != nil {
		log.Error().Err(err).Int64("lead_id", lead.ID).Msg("Error requesting reply suggestions")
		return nil, fmt.Errorf("failed to request suggestions: %w", err)
	}
	if len(chatCompletion.Choices) == 0 {
		return nil, errors.New("no choices in completion")
	}

	suggestions, err := parseSuggestions(chatCompletion.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}

	log.Info().
		Int64("lead_id", lead.ID).
		Int("suggestion_count", len(suggestions)).
		Msg("Reply suggestions received")

	return suggestions, nil
}

// parseSuggestions decodes the structured output and drops blank entries.
func parseSuggestions(content string) ([]Suggestion, error) {
	var list SuggestionList
	if err := json.Unmarshal([]byte(content), &list); err != nil {
		return nil, fmt.Errorf("failed to parse suggestions: %w", err)
	}

	suggestions := make([]Suggestion, 0, len(list.Suggestions))
	for _, s := range list.Suggestions {
		s.Content = strings.TrimSpace(s.Content)
		if s.Content != "" {
			suggestions = append(suggestions, s)
		}
	}
	return suggestions, nil
}

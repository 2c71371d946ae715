package openai

import (
	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
)

// Suggestion is one reply an agent could send.
type Suggestion struct {
	Content string `json:"content" jsonschema_description:"The reply text to send to the lead"`
	Tone    string `json:"tone" jsonschema:"enum=friendly,enum=formal,enum=direct" jsonschema_description:"The tone of the reply"`
}

// SuggestionList is the structured output of a suggestion request.
type SuggestionList struct {
	Suggestions []Suggestion `json:"suggestions" jsonschema_description:"A list of suggested replies"`
}

// GenerateSchema creates a strict JSON schema for T without references, as required by
// structured outputs.
func GenerateSchema[T any]() any {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	schema := reflector.Reflect(v)
	return schema
}

var SuggestionListResponseSchema = GenerateSchema[SuggestionList]()

func createSchemaParam() openai.ResponseFormatJSONSchemaJSONSchemaParam {
	return openai.ResponseFormatJSONSchemaJSONSchemaParam{
		Name:        "suggestion_list",
		Description: openai.String("A list of replies the agent could send to the lead"),
		Schema:      SuggestionListResponseSchema,
		Strict:      openai.Bool(true),
	}
}

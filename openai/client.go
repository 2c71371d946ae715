// Package openai drafts reply suggestions for agents from a lead's conversation.
package openai

import (
	"net/http"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type Client struct {
	client *openai.Client
}

// NewClient creates a client with the given API key. The HTTP client carries timeouts.
func NewClient(apiKey string, httpClient http.Client) *Client {
	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(&httpClient),
	)

	return &Client{
		client: &client,
	}
}

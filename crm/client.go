// Package crm is the REST client for the CRM backend that owns leads and interactions.
package crm

import (
	"net/http"
	"strings"
)

type Config struct {
	BaseURL string
	Token   string
}

type Client struct {
	config     Config
	httpClient *http.Client
}

func NewClient(baseURL, token string, httpClient http.Client) *Client {
	return &Client{
		config: Config{
			BaseURL: strings.TrimRight(baseURL, "/"),
			Token:   token,
		},
		httpClient: &httpClient,
	}
}

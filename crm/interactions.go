package crm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/NextMind-AI/leadsync/record"
)

// ListInteractions fetches interactions, scoped to an account when accountID is non-zero.
func (c *Client) ListInteractions(ctx context.Context, accountID int64) ([]Interaction, error) {
	query := url.Values{}
	if accountID != 0 {
		query.Set("accountId", strconv.FormatInt(accountID, 10))
	}
	return c.listInteractions(ctx, query)
}

// ListLeadInteractions fetches the interactions of a single lead.
func (c *Client) ListLeadInteractions(ctx context.Context, leadID int64) ([]Interaction, error) {
	return c.listInteractions(ctx, url.Values{"leadId": {strconv.FormatInt(leadID, 10)}})
}

func (c *Client) listInteractions(ctx context.Context, query url.Values) ([]Interaction, error) {
	path := "/api/interactions"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	body, err := c.sendRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	interactions, err := DecodeInteractions(body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode interactions: %w", err)
	}
	return interactions, nil
}

// CreateInteraction posts a new message and returns the server's record of it.
func (c *Client) CreateInteraction(ctx context.Context, msg NewInteraction) (Interaction, error) {
	body, err := c.sendRequest(ctx, http.MethodPost, "/api/interactions", msg)
	if err != nil {
		return Interaction{}, err
	}

	rec, err := record.Object(body)
	if err != nil {
		return Interaction{}, fmt.Errorf("failed to decode interaction: %w", err)
	}
	return DecodeInteraction(rec)
}

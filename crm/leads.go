package crm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/NextMind-AI/leadsync/record"
)

// ListLeads fetches leads, scoped to an account when accountID is non-zero.
func (c *Client) ListLeads(ctx context.Context, accountID int64) ([]Lead, error) {
	path := "/api/leads"
	if accountID != 0 {
		path += "?" + url.Values{"accountId": {strconv.FormatInt(accountID, 10)}}.Encode()
	}

	body, err := c.sendRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	leads, err := DecodeLeads(body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode leads: %w", err)
	}
	return leads, nil
}

// SetManualTakeover toggles whether a human agent owns the conversation.
func (c *Client) SetManualTakeover(ctx context.Context, leadID int64, on bool) (Lead, error) {
	path := fmt.Sprintf("/api/leads/%d", leadID)

	body, err := c.sendRequest(ctx, http.MethodPatch, path, takeoverPayload{ManualTakeover: on})
	if err != nil {
		return Lead{}, err
	}

	rec, err := record.Object(body)
	if err != nil {
		return Lead{}, fmt.Errorf("failed to decode lead: %w", err)
	}
	return DecodeLead(rec)
}

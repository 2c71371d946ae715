package server

import (
	"context"
	"errors"
	"io"

	"github.com/NextMind-AI/leadsync/openai"
	"github.com/NextMind-AI/leadsync/outbox"
	"github.com/NextMind-AI/leadsync/syncstore"
	"github.com/NextMind-AI/leadsync/threads"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"
)

// threadsHandler handles GET /crm/threads. Scope parameters default to the watched scope.
func (s *Server) threadsHandler(c fiber.Ctx) error {
	current := s.store.Scope()
	scope := syncstore.Scope{
		AccountID:  queryID(c, "accountId", current.AccountID),
		CampaignID: queryID(c, "campaignId", current.CampaignID),
	}

	tab := syncstore.TabAll
	if c.Query("tab") == string(syncstore.TabUnread) {
		tab = syncstore.TabUnread
	}

	list := s.store.Threads(scope, tab, c.Query("q"))

	summaries := make([]ThreadSummary, 0, len(list))
	for _, t := range list {
		summaries = append(summaries, ThreadSummary{
			Lead:         t.Lead,
			Last:         t.Last,
			Unread:       t.Unread,
			MessageCount: len(t.Messages),
		})
	}
	return c.JSON(summaries)
}

// threadHandler handles GET /crm/threads/{leadId}. refresh=1 refetches the lead first.
func (s *Server) threadHandler(c fiber.Ctx) error {
	leadID, ok := idParam(c, "leadId")
	if !ok {
		return invalidParam(c, "leadId")
	}

	if c.Query("refresh") == "1" {
		if err := s.store.RefreshLead(c.Context(), leadID); err != nil && !errors.Is(err, syncstore.ErrStaleScope) {
			return errorJSON(c, fiber.StatusBadGateway, "BACKEND_ERROR", "Failed to refresh conversation")
		}
	}

	thread, found := s.store.Thread(leadID)
	if !found {
		return errorJSON(c, fiber.StatusNotFound, "NOT_FOUND", "Lead not found")
	}

	groups := thread.Groups()
	response := ThreadResponse{
		Lead:   thread.Lead,
		Unread: thread.Unread,
		Groups: make([]ThreadGroup, 0, len(groups)),
	}
	for _, g := range groups {
		response.Groups = append(response.Groups, ThreadGroup{
			Key:      g.Key,
			Label:    threads.Label(g, len(groups)),
			Index:    g.Index,
			Messages: g.Messages,
		})
	}
	return c.JSON(response)
}

// sendMessageHandler handles POST /crm/threads/{leadId}/messages. The placeholder is
// returned right away and the backend round trip finishes in the background.
func (s *Server) sendMessageHandler(c fiber.Ctx) error {
	leadID, ok := idParam(c, "leadId")
	if !ok {
		return invalidParam(c, "leadId")
	}

	var req SendMessageRequest
	if err := c.Bind().JSON(&req); err != nil {
		log.Error().Err(err).Msg("Error parsing JSON")
		return errorJSON(c, fiber.StatusBadRequest, "INVALID_BODY", "Error parsing JSON")
	}

	pending, ok := s.outbox.Begin(leadID, req.Content)
	if !ok {
		return c.SendStatus(fiber.StatusNoContent)
	}

	go s.commit(pending)

	return c.Status(fiber.StatusAccepted).JSON(pending.Placeholder())
}

func (s *Server) commit(pending *outbox.Pending) {
	ctx, cancel := context.WithTimeout(s.ctx, sendTimeout)
	defer cancel()
	_, _ = pending.Commit(ctx)
}

// retryMessageHandler handles POST /crm/threads/{leadId}/messages/{tempId}/retry.
func (s *Server) retryMessageHandler(c fiber.Ctx) error {
	tempID, ok := idParam(c, "tempId")
	if !ok {
		return invalidParam(c, "tempId")
	}

	pending, err := s.outbox.Resume(tempID)
	if err != nil {
		return outboxError(c, err)
	}

	go s.commit(pending)

	return c.Status(fiber.StatusAccepted).JSON(pending.Placeholder())
}

// discardMessageHandler handles DELETE /crm/threads/{leadId}/messages/{tempId}.
func (s *Server) discardMessageHandler(c fiber.Ctx) error {
	tempID, ok := idParam(c, "tempId")
	if !ok {
		return invalidParam(c, "tempId")
	}

	if err := s.outbox.Discard(tempID); err != nil {
		return outboxError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func outboxError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, outbox.ErrMessageNotFound):
		return errorJSON(c, fiber.StatusNotFound, "NOT_FOUND", "Pending message not found")
	case errors.Is(err, outbox.ErrNotFailed):
		return errorJSON(c, fiber.StatusConflict, "NOT_FAILED", "Only failed messages can be retried or discarded")
	default:
		return errorJSON(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
	}
}

// sendAttachmentHandler handles POST /crm/threads/{leadId}/attachments with a multipart
// "file" and optional "caption".
func (s *Server) sendAttachmentHandler(c fiber.Ctx) error {
	leadID, ok := idParam(c, "leadId")
	if !ok {
		return invalidParam(c, "leadId")
	}

	header, err := c.FormFile("file")
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "INVALID_BODY", "file field is required")
	}

	file, err := header.Open()
	if err != nil {
		log.Error().Err(err).Msg("Error opening uploaded file")
		return errorJSON(c, fiber.StatusBadRequest, "INVALID_BODY", "Failed to read file")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		log.Error().Err(err).Msg("Error reading uploaded file")
		return errorJSON(c, fiber.StatusBadRequest, "INVALID_BODY", "Failed to read file")
	}

	contentType := header.Header.Get("Content-Type")
	sent, err := s.outbox.SendAttachment(c.Context(), leadID, c.FormValue("caption"), header.Filename, contentType, data)
	switch {
	case errors.Is(err, outbox.ErrNoUploader):
		return errorJSON(c, fiber.StatusNotImplemented, "NOT_CONFIGURED", "Attachments are not configured")
	case err != nil:
		return errorJSON(c, fiber.StatusBadGateway, "BACKEND_ERROR", "Failed to send attachment")
	case sent == nil:
		return c.SendStatus(fiber.StatusNoContent)
	}
	return c.Status(fiber.StatusCreated).JSON(sent)
}

// takeoverHandler handles PATCH /crm/threads/{leadId}/takeover.
func (s *Server) takeoverHandler(c fiber.Ctx) error {
	leadID, ok := idParam(c, "leadId")
	if !ok {
		return invalidParam(c, "leadId")
	}

	var req TakeoverRequest
	if err := c.Bind().JSON(&req); err != nil {
		log.Error().Err(err).Msg("Error parsing JSON")
		return errorJSON(c, fiber.StatusBadRequest, "INVALID_BODY", "Error parsing JSON")
	}

	lead, err := s.outbox.SetTakeover(c.Context(), leadID, req.ManualTakeover)
	switch {
	case errors.Is(err, syncstore.ErrLeadNotFound):
		return errorJSON(c, fiber.StatusNotFound, "NOT_FOUND", "Lead not found")
	case err != nil:
		return errorJSON(c, fiber.StatusBadGateway, "BACKEND_ERROR", "Failed to update manual takeover")
	}
	return c.JSON(lead)
}

// suggestHandler handles POST /crm/threads/{leadId}/suggest using the latest session.
func (s *Server) suggestHandler(c fiber.Ctx) error {
	if s.suggester == nil {
		return errorJSON(c, fiber.StatusNotImplemented, "NOT_CONFIGURED", "Reply suggestions are not configured")
	}

	leadID, ok := idParam(c, "leadId")
	if !ok {
		return invalidParam(c, "leadId")
	}

	thread, found := s.store.Thread(leadID)
	if !found {
		return errorJSON(c, fiber.StatusNotFound, "NOT_FOUND", "Lead not found")
	}

	groups := thread.Groups()
	if len(groups) == 0 {
		return errorJSON(c, fiber.StatusUnprocessableEntity, "EMPTY_CONVERSATION", "Conversation has no messages")
	}
	latest := groups[len(groups)-1]

	suggestions, err := s.suggester.SuggestReply(c.Context(), thread.Lead, latest.Messages)
	switch {
	case errors.Is(err, openai.ErrEmptyConversation):
		return errorJSON(c, fiber.StatusUnprocessableEntity, "EMPTY_CONVERSATION", "Conversation has no text to reply to")
	case err != nil:
		return errorJSON(c, fiber.StatusBadGateway, "UPSTREAM_ERROR", "Failed to generate suggestions")
	}
	return c.JSON(SuggestResponse{Suggestions: suggestions})
}

package server

import (
	"strconv"

	"github.com/NextMind-AI/leadsync/syncstore"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"
)

func (s *Server) healthCheckHandler(c fiber.Ctx) error {
	status := s.store.Status()
	return c.JSON(fiber.Map{
		"status":    "ok",
		"watching":  status.Watching,
		"last_sync": status.LastSync,
	})
}

func (s *Server) statusHandler(c fiber.Ctx) error {
	return c.JSON(s.store.Status())
}

// refreshHandler handles POST /crm/refresh as a visible load.
func (s *Server) refreshHandler(c fiber.Ctx) error {
	log.Info().Msg("Received manual refresh request")

	if err := s.store.Load(c.Context(), false); err != nil {
		return errorJSON(c, fiber.StatusBadGateway, "BACKEND_ERROR", "Failed to load conversations")
	}
	return c.JSON(s.store.Status())
}

// scopeHandler handles PUT /crm/scope and restarts polling for the new scope.
func (s *Server) scopeHandler(c fiber.Ctx) error {
	var req ScopeRequest
	if err := c.Bind().JSON(&req); err != nil {
		log.Error().Err(err).Msg("Error parsing JSON")
		return errorJSON(c, fiber.StatusBadRequest, "INVALID_BODY", "Error parsing JSON")
	}

	scope := syncstore.Scope{AccountID: req.AccountID, CampaignID: req.CampaignID}
	log.Info().Str("scope", scope.String()).Msg("Changing scope")

	s.store.Watch(s.ctx, scope)
	return c.JSON(scope)
}

func errorJSON(c fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}

// idParam parses a positive integer path parameter.
func idParam(c fiber.Ctx, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func invalidParam(c fiber.Ctx, name string) error {
	return errorJSON(c, fiber.StatusBadRequest, "INVALID_PARAMETER", name+" must be a positive integer")
}

// queryID parses an optional integer query parameter, falling back when absent.
func queryID(c fiber.Ctx, name string, fallback int64) int64 {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fallback
	}
	return id
}

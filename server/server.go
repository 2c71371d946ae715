// Package server exposes the conversation workspace over HTTP.
package server

import (
	"context"
	"time"

	"github.com/NextMind-AI/leadsync/crm"
	"github.com/NextMind-AI/leadsync/openai"
	"github.com/NextMind-AI/leadsync/outbox"
	"github.com/NextMind-AI/leadsync/syncstore"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"
)

const (
	sendTimeout    = 30 * time.Second
	maxUploadBytes = 16 * 1024 * 1024
)

type StoreInterface interface {
	Scope() syncstore.Scope
	Status() syncstore.Status
	Threads(scope syncstore.Scope, tab syncstore.Tab, query string) []syncstore.Thread
	Thread(leadID int64) (syncstore.Thread, bool)
	Load(ctx context.Context, silent bool) error
	RefreshLead(ctx context.Context, leadID int64) error
	Watch(parent context.Context, scope syncstore.Scope) (stop func())
}

type OutboxInterface interface {
	Begin(leadID int64, content string) (*outbox.Pending, bool)
	Resume(tempID int64) (*outbox.Pending, error)
	Discard(tempID int64) error
	SendAttachment(ctx context.Context, leadID int64, caption, name, contentType string, data []byte) (*crm.Interaction, error)
	SetTakeover(ctx context.Context, leadID int64, on bool) (crm.Lead, error)
}

type SuggesterInterface interface {
	SuggestReply(ctx context.Context, lead crm.Lead, messages []crm.Interaction) ([]openai.Suggestion, error)
}

type Server struct {
	app       *fiber.App
	ctx       context.Context
	store     StoreInterface
	outbox    OutboxInterface
	suggester SuggesterInterface
}

// New builds the server. ctx bounds background sends and the poll loop started by scope
// changes. suggester may be nil.
func New(ctx context.Context, store StoreInterface, sender OutboxInterface, suggester SuggesterInterface) *Server {
	app := fiber.New(fiber.Config{
		BodyLimit: maxUploadBytes,
	})

	server := &Server{
		app:       app,
		ctx:       ctx,
		store:     store,
		outbox:    sender,
		suggester: suggester,
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

func (s *Server) Start(port string) {
	log.Info().Str("port", port).Msg("Starting leadsync server")

	err := s.app.Listen(":"+port, fiber.ListenConfig{
		DisableStartupMessage: true,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to start server")
	}
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

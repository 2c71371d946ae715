// Package leadsync wires the CRM conversation workspace: the polled sync store, the
// optimistic outbox and the HTTP server in front of them.
package leadsync

import (
	"context"
	"net/http"

	"github.com/NextMind-AI/leadsync/aws"
	"github.com/NextMind-AI/leadsync/config"
	"github.com/NextMind-AI/leadsync/crm"
	"github.com/NextMind-AI/leadsync/openai"
	"github.com/NextMind-AI/leadsync/outbox"
	"github.com/NextMind-AI/leadsync/redis"
	"github.com/NextMind-AI/leadsync/server"
	"github.com/NextMind-AI/leadsync/syncstore"

	"github.com/rs/zerolog/log"
)

// App is a running workspace.
type App struct {
	config *config.Config
	ctx    context.Context
	cancel context.CancelFunc
	store  *syncstore.Store
	redis  *redis.Client
	server *server.Server
}

// New builds the workspace from the environment. Redis, S3 and OpenAI are optional and
// only wired when configured.
func New() *App {
	cfg := config.Load()
	httpClient := http.Client{Timeout: cfg.HTTPTimeout}

	backend := crm.NewClient(cfg.BackendURL, cfg.BackendToken, httpClient)

	opts := syncstore.Options{
		Scope:        syncstore.Scope{AccountID: cfg.AccountID, CampaignID: cfg.CampaignID},
		PollInterval: cfg.PollInterval,
		NudgeDelay:   cfg.NudgeDelay,
	}

	var redisClient *redis.Client
	if cfg.RedisEnabled {
		redisClient = redis.NewClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		opts.Cache = redisClient
	}

	store := syncstore.New(backend, opts)

	outboxOpts := outbox.Options{
		AgentName:   cfg.AgentName,
		ChannelType: cfg.ChannelType,
	}
	if cfg.S3Bucket != "" {
		outboxOpts.Uploader = aws.NewClient(cfg.S3Region, cfg.S3Bucket)
	}
	coordinator := outbox.New(backend, store, outboxOpts)

	var suggester server.SuggesterInterface
	if cfg.OpenAIKey != "" {
		suggester = openai.NewClient(cfg.OpenAIKey, httpClient)
	} else {
		log.Info().Msg("OPENAI_API_KEY not set, reply suggestions disabled")
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &App{
		config: cfg,
		ctx:    ctx,
		cancel: cancel,
		store:  store,
		redis:  redisClient,
		server: server.New(ctx, store, coordinator, suggester),
	}
}

// Run starts polling the configured scope and serves HTTP until the server stops.
func (a *App) Run() {
	a.store.Watch(a.ctx, a.store.Scope())
	a.server.Start(a.config.Port)
}

// Stop ends polling, cancels in-flight sends and shuts the server down.
func (a *App) Stop() {
	a.store.Unwatch()
	a.cancel()

	if err := a.server.Shutdown(); err != nil {
		log.Error().Err(err).Msg("Error shutting down server")
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing redis")
		}
	}
}

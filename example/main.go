package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/NextMind-AI/leadsync"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	app := leadsync.New()

	go func() {
		signals := make(chan os.Signal, 1)
		signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
		<-signals

		log.Info().Msg("Shutting down")
		app.Stop()
	}()

	app.Run()
}

package discord

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
)

// SetupCloseHandler creates a handler that will catch SIGINT and SIGTERM signals
// and gracefully close the application
func SetupCloseHandler(log zerolog.Logger, cleanupFunc func() error) {
	c := make(chan os.Signal, 2)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		log.Info().Msg("Shutting down...")
		err := cleanupFunc()
		if err != nil {
			log.Error().Err(err).Msg("Error during cleanup")
			os.Exit(1)
		}
		os.Exit(0)
	}()
}

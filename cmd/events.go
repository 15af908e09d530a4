/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/wargaid/apiserver/config"
	"github.com/wargaid/apiserver/internal/events"
	"github.com/wargaid/apiserver/internal/logger"
)

// eventsCmd represents the events command
var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Consume account lifecycle events from the configured broker",
	Long: `Consume account lifecycle events from the configured broker and log
them. Requires MQ_BACKEND to be set. Usage:

	apiserver events
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()
		log := logger.New("account-events", cfg.LogLevel())

		backend, err := events.NewBackend(cmd.Context(), cfg)
		if err != nil {
			return fmt.Errorf("connect broker: %w", err)
		}
		if backend == nil {
			fmt.Fprintln(os.Stderr, "no broker configured: set MQ_BACKEND to rabbitmq or pubsub")
			os.Exit(1)
		}
		defer func() {
			_ = backend.Close()
		}()

		log.Info("consuming account events", "channel", events.Channel)
		consumer := events.NewConsumer(backend, log)
		if err := consumer.Run(cmd.Context()); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(eventsCmd)
}

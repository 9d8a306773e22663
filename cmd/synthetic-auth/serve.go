package main

import (
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Vero-Ventures/clasibot-sub001/pkg/config"
	"github.com/Vero-Ventures/clasibot-sub001/pkg/server"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the synthetic login HTTP service",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			authenticator := buildAuthenticator(&cfg)
			webhook := buildWebhook(&cfg)

			srv := server.New(cfg.WebServer, authenticator, webhook)

			log.Info().Msg("starting synthetic login service")
			return srv.ListenAndServe(ctx)
		},
	}
}

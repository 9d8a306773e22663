package main

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Vero-Ventures/clasibot-sub001/pkg/config"
)

func newLoginCmd() *cobra.Command {
	var (
		realmID  string
		firmName string
		deliver  bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Run one synthetic login and print the acquired credentials",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			authenticator := buildAuthenticator(&cfg)

			token, err := authenticator.Authenticate(cmd.Context(), realmID, firmName)
			if err != nil {
				return err
			}

			if deliver {
				webhook := buildWebhook(&cfg)
				if !webhook.Enabled() {
					return fmt.Errorf("--deliver requires WEBHOOK_URL to be configured")
				}
				if err := webhook.Deliver(cmd.Context(), token); err != nil {
					// The credentials were acquired; report the delivery
					// failure but still print them so they are not lost.
					log.Error().Err(err).Msg("webhook delivery failed")
				}
			}

			out, err := json.Marshal(token)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	cmd.Flags().StringVar(&realmID, "realm-id", "", "realm id of the target company")
	cmd.Flags().StringVar(&firmName, "firm-name", "", "optional firm hint to search")
	cmd.Flags().BoolVar(&deliver, "deliver", false, "also post the credentials to the backend webhook")
	_ = cmd.MarkFlagRequired("realm-id")

	return cmd
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Vero-Ventures/clasibot-sub001/pkg/config"
)

func newAcceptInviteCmd() *cobra.Command {
	var (
		link       string
		inviteType string
	)

	cmd := &cobra.Command{
		Use:   "accept-invite",
		Short: "Accept a platform invite via its direct link",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			authenticator := buildAuthenticator(&cfg)

			if err := authenticator.AcceptInvite(cmd.Context(), link, inviteType); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "invite accepted")
			return nil
		},
	}

	cmd.Flags().StringVar(&link, "link", "", "invite link from the invitation email")
	cmd.Flags().StringVar(&inviteType, "type", "personal", "invite type: personal or company")
	_ = cmd.MarkFlagRequired("link")

	return cmd
}

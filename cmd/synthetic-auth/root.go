package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Vero-Ventures/clasibot-sub001/pkg/auth"
	"github.com/Vero-Ventures/clasibot-sub001/pkg/browser"
	"github.com/Vero-Ventures/clasibot-sub001/pkg/config"
	"github.com/Vero-Ventures/clasibot-sub001/pkg/delivery"
	"github.com/Vero-Ventures/clasibot-sub001/pkg/mailbox"
	"github.com/Vero-Ventures/clasibot-sub001/pkg/version"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "synthetic-auth",
		Short: "Synthetic bookkeeper login agent",
		Long:  "Acquires delegated bookkeeping platform sessions via automated login, email OTP and tenant selection.",
	}

	root.AddCommand(newServeCmd())
	root.AddCommand(newLoginCmd())
	root.AddCommand(newAcceptInviteCmd())
	root.AddCommand(newVersionCmd())

	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.Version)
		},
	}
}

// buildAuthenticator wires the production dependency graph from config.
func buildAuthenticator(cfg *config.Config) *auth.Authenticator {
	browsers := browser.NewManager(cfg.Browser)
	fetcher := mailbox.NewIMAPFetcher(cfg.Mailbox)
	otp := mailbox.NewResolver(fetcher, cfg.OTP.SkewWindow)
	return auth.New(cfg, browsers, otp)
}

func buildWebhook(cfg *config.Config) *delivery.Webhook {
	return delivery.NewWebhook(cfg.Webhook)
}

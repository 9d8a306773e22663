package main

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/rs/zerolog/log"

	"github.com/Vero-Ventures/clasibot-sub001/pkg/auth"
	"github.com/Vero-Ventures/clasibot-sub001/pkg/browser"
	"github.com/Vero-Ventures/clasibot-sub001/pkg/config"
	"github.com/Vero-Ventures/clasibot-sub001/pkg/mailbox"
	"github.com/Vero-Ventures/clasibot-sub001/pkg/types"
)

// handler wires the same core as the HTTP service behind an API Gateway
// invocation: credentials come back as the function response rather than via
// the webhook.
type handler struct {
	authenticator *auth.Authenticator
}

func (h *handler) handle(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if event.Body == "" {
		return respond(http.StatusBadRequest, map[string]string{"error": "Missing request body"})
	}

	var req types.AuthRequest
	if err := json.Unmarshal([]byte(event.Body), &req); err != nil {
		return respond(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.InviteLink == "null" {
		req.InviteLink = ""
	}
	if req.FirmName == "null" {
		req.FirmName = ""
	}

	if req.InviteLink != "" {
		if err := h.authenticator.AcceptInvite(ctx, req.InviteLink, req.InviteType); err != nil {
			log.Error().Err(err).Msg("invite accept failed")
			return respond(http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
		return respond(http.StatusOK, map[string]string{"result": "Invite Accepted Successfully"})
	}

	if req.RealmID == "" {
		return respond(http.StatusBadRequest, map[string]string{"error": "Missing Value: realmId is required."})
	}

	token, err := h.authenticator.Authenticate(ctx, req.RealmID, req.FirmName)
	if err != nil {
		log.Error().Err(err).Str("kind", string(types.KindOf(err))).Msg("synthetic login failed")
		return respond(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return respond(http.StatusOK, token)
}

func respond(status int, body any) (events.APIGatewayProxyResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return events.APIGatewayProxyResponse{StatusCode: http.StatusInternalServerError}, nil
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(payload),
	}, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("error loading config")
	}

	browsers := browser.NewManager(cfg.Browser)
	fetcher := mailbox.NewIMAPFetcher(cfg.Mailbox)
	otp := mailbox.NewResolver(fetcher, cfg.OTP.SkewWindow)

	h := &handler{authenticator: auth.New(&cfg, browsers, otp)}
	lambda.Start(h.handle)
}

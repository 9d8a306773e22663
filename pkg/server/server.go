package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Vero-Ventures/clasibot-sub001/pkg/config"
	"github.com/Vero-Ventures/clasibot-sub001/pkg/types"
)

// Service is what the HTTP surface needs from the session orchestrator.
type Service interface {
	Authenticate(ctx context.Context, realmID, firmHint string) (*types.TokenData, error)
	AcceptInvite(ctx context.Context, inviteLink, inviteType string) error
}

// Deliverer ships acquired credentials to the backend webhook.
type Deliverer interface {
	Enabled() bool
	Deliver(ctx context.Context, token *types.TokenData) error
}

type Server struct {
	cfg     config.WebServer
	svc     Service
	webhook Deliverer
	log     zerolog.Logger
}

func New(cfg config.WebServer, svc Service, webhook Deliverer) *Server {
	return &Server{
		cfg:     cfg,
		svc:     svc,
		webhook: webhook,
		log:     log.With().Str("component", "server").Logger(),
	}
}

func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/v1/synthetic-auth", s.handleSyntheticAuth).Methods(http.MethodPost)
	r.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)
	return r
}

// ListenAndServe blocks until ctx is cancelled, then shuts the listener down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", srv.Addr).Msg("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleSyntheticAuth(w http.ResponseWriter, r *http.Request) {
	invocationID := uuid.NewString()
	logger := s.log.With().Str("invocation_id", invocationID).Logger()
	w.Header().Set("X-Invocation-ID", invocationID)

	var req types.AuthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// Older callers send the literal string "null" for absent fields.
	if req.InviteLink == "null" {
		req.InviteLink = ""
	}
	if req.FirmName == "null" {
		req.FirmName = ""
	}

	if req.InviteLink != "" {
		logger.Info().Str("invite_type", req.InviteType).Msg("invite accept requested")
		if err := s.svc.AcceptInvite(r.Context(), req.InviteLink, req.InviteType); err != nil {
			logger.Error().Err(err).Msg("invite accept failed")
			writeError(w, statusForError(err), err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"result": "Invite Accepted Successfully"})
		return
	}

	if req.RealmID == "" {
		writeError(w, http.StatusBadRequest, "Missing Value: realmId is required.")
		return
	}

	logger.Info().Str("realm_id", req.RealmID).Msg("synthetic login requested")
	token, err := s.svc.Authenticate(r.Context(), req.RealmID, req.FirmName)
	if err != nil {
		logger.Error().Err(err).Str("kind", string(types.KindOf(err))).Msg("synthetic login failed")
		writeError(w, statusForError(err), err.Error())
		return
	}

	// Delivery failures do not invalidate the credentials already extracted;
	// the response still carries them and the caller may resend.
	if s.webhook != nil && s.webhook.Enabled() {
		if err := s.webhook.Deliver(r.Context(), token); err != nil {
			logger.Error().Err(err).Msg("webhook delivery failed")
		}
	}

	writeJSON(w, http.StatusOK, token)
}

func statusForError(err error) int {
	switch types.KindOf(err) {
	case types.KindTenantNotFound:
		return http.StatusNotFound
	case types.KindNavigationTimeout:
		return http.StatusGatewayTimeout
	case types.KindMFACodeUnavailable, types.KindCredentialExtraction:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("error encoding response")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

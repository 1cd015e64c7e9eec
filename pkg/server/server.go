package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-go-golems/fitcoach/pkg/chat"
	"github.com/go-go-golems/fitcoach/pkg/conversation"
	"github.com/go-go-golems/fitcoach/pkg/pipeline"
	"github.com/go-go-golems/fitcoach/pkg/session"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const SessionCookie = "fitcoach_session"

// Server exposes the chat over a small JSON API. Each browser gets its own session,
// identified by a cookie.
type Server struct {
	pipeline *pipeline.Pipeline
	store    *session.Store
	now      func() time.Time
}

type Option func(*Server)

func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		s.now = now
	}
}

func NewServer(p *pipeline.Pipeline, store *session.Store, options ...Option) *Server {
	ret := &Server{
		pipeline: p,
		store:    store,
		now:      time.Now,
	}
	for _, option := range options {
		option(ret)
	}
	return ret
}

type TranscriptResponse struct {
	SessionID     string              `json:"session_id"`
	HasCredential bool                `json:"has_credential"`
	Turns         []conversation.Turn `json:"turns"`
}

type MessageRequest struct {
	Text string `json:"text"`
}

type MessageResponse struct {
	Reply   string              `json:"reply"`
	Outcome pipeline.Outcome    `json:"outcome"`
	Error   string              `json:"error,omitempty"`
	Turns   []conversation.Turn `json:"turns"`
}

type CredentialRequest struct {
	Key string `json:"key"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/transcript", s.handleTranscript)
	mux.HandleFunc("POST /api/messages", s.handleMessage)
	mux.HandleFunc("PUT /api/credential", s.handleCredential)
	mux.HandleFunc("DELETE /api/credential", s.handleCredential)
	mux.HandleFunc("GET /api/info", s.handleInfo)
	return mux
}

// ListenAndServe serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("failed to shut down http server")
		}
	}()

	log.Info().Str("addr", addr).Msg("Starting web server")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// sessionFor returns the session of the request, creating it and setting the
// cookie when needed.
func (s *Server) sessionFor(w http.ResponseWriter, r *http.Request) *session.Session {
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
		return s.store.GetOrCreate(c.Value)
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	return s.store.GetOrCreate(id)
}

func (s *Server) handleTranscript(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFor(w, r)
	_, hasCredential := sess.Credential()
	writeJSON(w, http.StatusOK, TranscriptResponse{
		SessionID:     sess.ID,
		HasCredential: hasCredential,
		Turns:         sess.Transcript().Turns(),
	})
}

func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFor(w, r)

	var req MessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	// make sure the welcome turn comes first, even if the client never fetched
	// the transcript
	_ = sess.Transcript().Turns()

	reply, err := s.pipeline.Submit(r.Context(), sess, req.Text)
	switch {
	case errors.Is(err, pipeline.ErrMissingCredential):
		writeJSON(w, http.StatusPreconditionRequired, ErrorResponse{Error: "Please enter your API key first."})
		return
	case errors.Is(err, pipeline.ErrEmptyInput):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	case err != nil:
		log.Error().Err(err).Str("session_id", sess.ID).Msg("could not submit message")
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	resp := MessageResponse{
		Reply:   reply.Text,
		Outcome: reply.Kind,
		Turns:   sess.Transcript().Turns(),
	}
	if reply.Err != nil {
		resp.Error = reply.Err.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCredential(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFor(w, r)
	if r.Method == http.MethodDelete {
		sess.SetCredential("")
		w.WriteHeader(http.StatusNoContent)
		return
	}

	var req CredentialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	sess.SetCredential(req.Key)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, chat.NewInfoPanel(s.now()))
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to write response")
	}
}

// Package panel serves the chat UI a CAD plugin panel embeds: a single
// static page plus a JSON message endpoint.
package panel

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/sandevgo/cadpilot/internal/config"
	"github.com/sandevgo/cadpilot/internal/core"
	"github.com/sandevgo/cadpilot/internal/service/session"
	"github.com/sandevgo/cadpilot/pkg/conv"
	"github.com/sandevgo/cadpilot/pkg/log"
)

//go:embed static
var staticFiles embed.FS

const requestBodyLimit = 1 << 20

type Server struct {
	cfg     *config.PanelConfig
	session *session.Session
	srv     *http.Server
	baseCtx context.Context
}

func NewServer(ctx context.Context, cfg *config.PanelConfig, chat *session.Session) *Server {
	s := &Server{
		cfg:     cfg,
		session: chat,
		baseCtx: ctx,
	}

	static, _ := fs.Sub(staticFiles, "static")

	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.FS(static)))
	mux.HandleFunc("POST /api/message", s.handleMessage)
	mux.HandleFunc("GET /api/health", s.handleHealth)

	s.srv = &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

func (s *Server) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Str("addr", s.cfg.ListenAddr).Msg("starting panel server")

	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("panel server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

type messageRequest struct {
	SessionID string `json:"session_id"`
	Text      string `json:"text"`
	Code      string `json:"code,omitempty"`
}

type messageResponse struct {
	Reply string `json:"reply"`
	HTML  string `json:"html"`
}

func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	ctx := s.baseCtx
	logger := log.FromCtx(ctx)

	var req messageRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, requestBodyLimit)).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Text == "" {
		http.Error(w, "text is required", http.StatusBadRequest)
		return
	}
	if req.SessionID == "" {
		req.SessionID = "panel"
	}

	reply := s.session.HandleMessage(ctx, "panel-"+req.SessionID, session.Inbound{
		Text: req.Text,
		Code: req.Code,
	})

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(messageResponse{
		Reply: reply,
		HTML:  conv.MarkdownToPanelHTML([]byte(reply)),
	}); err != nil {
		logger.Error().Err(err).Msg("failed to encode panel response")
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"status":"ok","version":%q}`, core.AppVersion)
}

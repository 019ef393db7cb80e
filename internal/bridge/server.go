// File: internal/bridge/server.go

// Package bridge exposes the agent over a local HTTP endpoint so editor
// plugins and scripts can drive fills without the CLI. Supervised requests
// have no reviewer on this surface, so auto-apply responses are staged:
// candidates come back, nothing is clicked.
package bridge

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/autoapply/autoapply-cli/api/schemas"
	"github.com/autoapply/autoapply-cli/internal/config"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Handler is the action entry point; the agent satisfies it.
type Handler interface {
	Handle(ctx context.Context, req schemas.ActionRequest) schemas.ActionResponse
}

// Server hosts the bridge endpoints.
type Server struct {
	cfg     config.BridgeConfig
	logger  *zap.Logger
	handler Handler
	srv     *http.Server
}

// NewServer builds the bridge around an action handler.
func NewServer(cfg config.BridgeConfig, handler Handler, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		cfg:     cfg,
		logger:  logger.Named("bridge"),
		handler: handler,
	}
	s.srv = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.cfg.RequestTimeout))

	r.Get("/ping", s.handlePing)
	r.Post("/v1/actions/{action}", s.handleAction)
	return r
}

func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	action := schemas.Action(chi.URLParam(r, "action"))
	if !action.Valid() {
		s.writeJSON(w, http.StatusNotFound,
			schemas.Fail("", fmt.Errorf("unknown action %q", action)))
		return
	}

	var req schemas.ActionRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeJSON(w, http.StatusBadRequest,
				schemas.Fail("", fmt.Errorf("invalid request body: %w", err)))
			return
		}
	}
	// The path segment is authoritative over whatever the body says.
	req.Action = action

	resp := s.handler.Handle(r.Context(), req)
	status := http.StatusOK
	if !resp.Success {
		status = http.StatusUnprocessableEntity
	}
	s.writeJSON(w, status, resp)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("Failed to encode response", zap.Error(err))
	}
}

// ListenAndServe blocks until ctx is cancelled or the listener fails, then
// shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Bridge listening", zap.String("addr", s.cfg.Addr))
		errCh <- s.srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("bridge shutdown failed: %w", err)
	}
	s.logger.Info("Bridge stopped")
	return nil
}

// ServeMux exposes the router for tests.
func (s *Server) ServeMux() http.Handler { return s.srv.Handler }

// Package webhook is the HTTP transport boundary: it accepts platform
// webhook posts, normalizes them, runs the pipeline, and always acknowledges
// so the platform's retry semantics are never triggered by downstream
// failures.
package webhook

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/Jking123456/gemini-ai-by-homer/internal/domain"
	"github.com/Jking123456/gemini-ai-by-homer/internal/telegram"
)

// maxBodyBytes caps the webhook payload read.
const maxBodyBytes = 1 << 20

// Handler runs the pipeline for one normalized event.
type Handler interface {
	Handle(ctx context.Context, ev *domain.InboundEvent)
}

// Server hosts the webhook endpoint.
type Server struct {
	port    int
	path    string
	handler Handler
	sender  domain.Sender
	logger  *slog.Logger
	server  *http.Server
}

type Config struct {
	Port    int
	Path    string
	Handler Handler
	Sender  domain.Sender
	Logger  *slog.Logger
}

func NewServer(cfg Config) *Server {
	if cfg.Path == "" {
		cfg.Path = "/webhook"
	}
	if cfg.Port == 0 {
		cfg.Port = 8080
	}
	return &Server{
		port:    cfg.Port,
		path:    cfg.Path,
		handler: cfg.Handler,
		sender:  cfg.Sender,
		logger:  cfg.Logger,
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc(s.path, s.handleUpdate)

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	s.logger.Info("webhook server starting", "port", s.port, "path", s.path)

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("webhook server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return fmt.Errorf("webhook server: %w", err)
	}
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		// Same contract as a malformed payload: acknowledge, don't retry.
		w.WriteHeader(http.StatusOK)
		return
	}
	defer r.Body.Close()

	ev := telegram.Normalize(body)
	if ev == nil {
		// No message-like object. Acknowledge so the platform drops it.
		w.WriteHeader(http.StatusOK)
		return
	}

	defer func() {
		if rec := recover(); rec != nil {
			s.logger.Error("pipeline panic", "chat_id", ev.ChatID, "panic", rec)
			w.WriteHeader(http.StatusInternalServerError)
			s.apologize(r.Context(), ev.ChatID)
		}
	}()

	s.handler.Handle(r.Context(), ev)
	w.WriteHeader(http.StatusOK)
}

// apologize makes one fire-and-forget attempt to tell the user something
// went wrong. Never surfaces upstream errors or stack traces.
func (s *Server) apologize(ctx context.Context, chatID int64) {
	sendCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	_ = s.sender.Send(sendCtx, domain.OutboundMessage{
		ChatID: chatID,
		Text:   "⚠️ Something went wrong on my side. Please try again.",
	})
}

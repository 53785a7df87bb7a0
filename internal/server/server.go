package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"bundle-bot/internal/bot"
)

const (
	greeting        = "Welcome to my Telegram bot!"
	maxUpdateSize   = 1 << 20
	readTimeout     = 10 * time.Second
	writeTimeout    = 30 * time.Second
	idleTimeout     = 60 * time.Second
	webhookPath     = "/webhook"
	metricsPath     = "/metrics"
	contentTypeText = "text/plain; charset=utf-8"
)

type UpdateHandler interface {
	HandleUpdate(ctx context.Context, update tgbotapi.Update) error
}

// NewHandler builds the HTTP routes: greeting, webhook and metrics.
func NewHandler(updates UpdateHandler, gatherer prometheus.Gatherer, logger *zap.Logger) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", handleIndex)
	mux.Handle(webhookPath, &webhookHandler{updates: updates, logger: logger})
	mux.Handle(metricsPath, promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	return mux
}

func handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", contentTypeText)
	_, _ = io.WriteString(w, greeting)
}

type webhookHandler struct {
	updates UpdateHandler
	logger  *zap.Logger
}

func (h *webhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var update tgbotapi.Update
	if err := json.NewDecoder(io.LimitReader(r.Body, maxUpdateSize)).Decode(&update); err != nil {
		h.logger.Warn("Failed to decode update", zap.Error(err))
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	// Telegram may drop the connection early; the flow still runs to completion.
	ctx := context.WithoutCancel(r.Context())
	if err := h.updates.HandleUpdate(ctx, update); err != nil {
		if bot.IsUserError(err) {
			h.logger.Warn("Update rejected",
				zap.Int("update_id", update.UpdateID),
				zap.Error(err))
		} else {
			h.logger.Error("Failed to handle update",
				zap.Int("update_id", update.UpdateID),
				zap.Error(err))
		}
	}

	w.Header().Set("Content-Type", contentTypeText)
	_, _ = io.WriteString(w, "OK")
}

// Server is the HTTP listener for the webhook.
type Server struct {
	srv             *http.Server
	shutdownTimeout time.Duration
	logger          *zap.Logger
}

func New(addr string, handler http.Handler, shutdownTimeout time.Duration, logger *zap.Logger) *Server {
	return &Server{
		srv: &http.Server{
			Addr:         addr,
			Handler:      handler,
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
			IdleTimeout:  idleTimeout,
		},
		shutdownTimeout: shutdownTimeout,
		logger:          logger,
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", zap.String("addr", s.srv.Addr))
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

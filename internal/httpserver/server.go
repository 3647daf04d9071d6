package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"industriguard/internal/bootstrap/config"
	"industriguard/internal/bootstrap/logging"
	"industriguard/internal/errs"
	usecasesafety "industriguard/internal/usecase/safety"
)

// Server owns the HTTP listener for the dashboard API.
type Server struct {
	cfg  config.ServerConfig
	http *http.Server
}

func NewServer(cfg config.Config, svc *usecasesafety.Service, hub *Hub) *Server {
	addr := net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))
	return &Server{
		cfg: cfg.Server,
		http: &http.Server{
			Addr:              addr,
			Handler:           NewRouter(svc, hub),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Start begins serving in a background goroutine and returns immediately.
func (s *Server) Start(ctx context.Context) error {
	if ctx == nil {
		return errors.New("context is required")
	}

	logCtx := logging.WithAttrs(ctx, slog.String("component", "httpserver"))
	logging.Info(logCtx, "backend listening", slog.String("addr", s.http.Addr))

	go func() {
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error(logCtx, "http server stopped", slog.Any("err", errs.Loggable(err)))
		}
	}()
	return nil
}

// Shutdown drains in-flight requests and closes the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := s.http.Shutdown(ctx); err != nil {
		return errs.Wrap(err, "shutdown http server")
	}
	logging.Info(logging.WithAttrs(ctx, slog.String("component", "httpserver")), "http server stopped")
	return nil
}

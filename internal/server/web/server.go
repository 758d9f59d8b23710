package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/mkravets/paperjobs/internal/logging"
)

// shutdownTimeout bounds in-flight request draining on shutdown.
const shutdownTimeout = 10 * time.Second

// Server runs the HTTP listener with graceful shutdown.
type Server struct {
	httpServer *http.Server
	logger     logging.Logger
}

// NewServer binds the handler tree to addr.
func NewServer(addr string, handler http.Handler, logger logging.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger.With("module", "http_server"),
	}
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info(ctx, "http server starting", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "http server stopping")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return s.httpServer.Shutdown(shutdownCtx)
}

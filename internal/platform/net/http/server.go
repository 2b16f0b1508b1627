package http

import (
	"context"
	"errors"
	stdhttp "net/http"
	"time"

	"archiver/internal/platform/config"
	"archiver/internal/platform/logger"

	"github.com/go-chi/chi/v5"
)

// DefaultPort is where the archiver listens when PORT is unset
const DefaultPort = 5115

// ShutdownGrace bounds how long Run waits for in-flight requests after cancel
var ShutdownGrace = 10 * time.Second

// Server is a thin wrapper over chi + stdlib http.Server
type Server struct {
	addr string
	mux  *chi.Mux
	srv  *stdhttp.Server
}

// NewServer creates a server listening on cfg's PORT
// opts receive the *chi.Mux so callers can mount routes/mw
func NewServer(cfg config.Conf, opts ...func(*chi.Mux)) *Server {
	addr := cfg.MayPort("PORT", DefaultPort)
	m := chi.NewRouter()
	for _, o := range opts {
		o(m)
	}
	return &Server{
		addr: addr,
		mux:  m,
		srv: &stdhttp.Server{
			Addr:              addr,
			Handler:           m,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Router returns a Router facade over the internal chi mux
func (s *Server) Router() Router {
	return AdaptChi(s.mux)
}

// Addr returns the listening address
func (s *Server) Addr() string { return s.addr }

// Run starts the server and blocks until it stops or ctx is cancelled
// on cancel it returns only after in-flight requests have drained or the grace period ends
func (s *Server) Run(ctx context.Context) error {
	log := logger.Named("http")
	drained := make(chan error, 1)
	stop := context.AfterFunc(ctx, func() {
		sctx, cancel := context.WithTimeout(context.Background(), ShutdownGrace)
		defer cancel()
		err := s.srv.Shutdown(sctx)
		if err != nil {
			log.Error().Err(err).Msg("http shutdown")
		}
		drained <- err
	})

	log.Info().Str("addr", s.addr).Msg("http listening")
	err := s.srv.ListenAndServe()
	if !errors.Is(err, stdhttp.ErrServerClosed) {
		stop()
		return err
	}
	if stop() {
		// closed through Shutdown, the caller owns the drain
		return nil
	}
	return <-drained
}

// Shutdown stops the server gracefully
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

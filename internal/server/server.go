// Package server wires the Connect services into an HTTP server.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/sync/errgroup"

	"github.com/mmynk/dues/internal/events"
	"github.com/mmynk/dues/internal/middleware"
	"github.com/mmynk/dues/internal/service"
	"github.com/mmynk/dues/internal/storage"
	"github.com/mmynk/dues/pkg/api/apiconnect"
)

// Options configure a Server.
type Options struct {
	Addr            string
	ShutdownTimeout time.Duration
	Settings        service.Settings

	// Publisher receives expense events; nil discards them.
	Publisher events.Publisher

	// Registry is exposed on /metrics; nil leaves the endpoint out.
	Registry *prometheus.Registry
}

// Server serves the dues RPC API.
type Server struct {
	httpServer      *http.Server
	shutdownTimeout time.Duration
}

// NewHandler builds the HTTP handler serving every service.
func NewHandler(store storage.Store, opts Options) http.Handler {
	interceptors := connect.WithInterceptors(
		middleware.MetricsInterceptor(),
		middleware.LoggingInterceptor(),
	)

	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewMemberServiceHandler(
		service.NewMemberService(store, opts.Settings), interceptors))
	mux.Handle(apiconnect.NewExpenseTypeServiceHandler(
		service.NewExpenseTypeService(store), interceptors))
	mux.Handle(apiconnect.NewExpenseServiceHandler(
		service.NewExpenseService(store, opts.Publisher, opts.Settings), interceptors))
	mux.Handle(apiconnect.NewBalanceServiceHandler(
		service.NewBalanceService(store, opts.Publisher, opts.Settings), interceptors))

	if opts.Registry != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{Registry: opts.Registry}))
	}
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})

	// h2c serves HTTP/2 without TLS, which Connect and gRPC clients need.
	return h2c.NewHandler(middleware.Logging(middleware.CORS(mux)), &http2.Server{})
}

func New(store storage.Store, opts Options) *Server {
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 15 * time.Second
	}
	return &Server{
		httpServer: &http.Server{
			Addr:              opts.Addr,
			Handler:           NewHandler(store, opts),
			ReadHeaderTimeout: 10 * time.Second,
			IdleTimeout:       60 * time.Second,
			MaxHeaderBytes:    1 << 16,
		},
		shutdownTimeout: opts.ShutdownTimeout,
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("Connect server starting", "address", ln.Addr().String())
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		slog.Info("Shutting down server", "timeout", s.shutdownTimeout)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	slog.Info("Server stopped gracefully")
	return nil
}

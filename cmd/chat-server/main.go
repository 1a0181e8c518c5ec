// Command chat-server runs the multi-room text chat broker described
// in spec.md. Usage: chat-server [port]. Process bootstrap, signal
// installation, and the listening socket are the external
// collaborators spec.md §1 scopes out of the core; this file is that
// thin plumbing, modeled on go-server-3/cmd/odin-ws/main.go.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"syscall"
	"time"

	"go.uber.org/zap"
	_ "go.uber.org/automaxprocs"

	"os/signal"

	"github.com/amol1000/chat-server/internal/broker"
	"github.com/amol1000/chat-server/internal/config"
	"github.com/amol1000/chat-server/internal/diagnostics"
	"github.com/amol1000/chat-server/internal/logging"
	"github.com/amol1000/chat-server/internal/metrics"
	"github.com/amol1000/chat-server/internal/transport"
)

func main() {
	port, ok := parsePort(os.Args[1:])
	if !ok {
		fmt.Fprintln(os.Stderr, "usage: chat-server [port]")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck

	reg := metrics.NewRegistry()
	b := broker.New(logger, reg)

	server := transport.New(b)
	addr := fmt.Sprintf(":%d", port)
	if err := server.Start(addr); err != nil {
		logger.Fatal("startup failed", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGABRT)
	defer stop()

	if cfg.Metrics.Enabled {
		go serveMetrics(ctx, cfg.Metrics.ListenAddr, reg, logger)
	}

	reporter := diagnostics.New(logger, reg, time.Duration(cfg.Diagnostics.IntervalSeconds)*time.Second)
	go reporter.Run(ctx)

	<-ctx.Done()
	logger.Info("shutdown signal received")

	// Best-effort teardown: the listener stops accepting and in-flight
	// connections are severed by process exit (spec.md §5, "Graceful
	// drain is not required").
	server.Stop()
}

// parsePort implements spec.md §6's CLI contract: zero or one
// positional argument. More than one argument is handled by returning
// ok=false so the caller can print usage and exit without crashing.
func parsePort(args []string) (port int, ok bool) {
	switch len(args) {
	case 0:
		return config.DefaultPort, true
	case 1:
		p, err := strconv.Atoi(args[0])
		if err != nil || p <= 0 || p > 65535 {
			return 0, false
		}
		return p, true
	default:
		return 0, false
	}
}

func serveMetrics(ctx context.Context, addr string, reg *metrics.Registry, logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", reg.Handler())

	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Warn("metrics server error", zap.Error(err))
	}
}

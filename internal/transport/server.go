// Package transport is the listener glue named as an external
// collaborator in spec.md §2 item 7: it accepts connections and hands
// each to a fresh session.Handler actor. It carries no protocol logic
// of its own, mirroring the thin accept loop in
// go-server-3/internal/transport/server.go.
package transport

import (
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/amol1000/chat-server/internal/broker"
	"github.com/amol1000/chat-server/internal/session"
)

// Server owns the listening socket and the accept loop. One
// independent actor runs per accepted connection (spec.md §5); the
// listener itself runs in its own goroutine and only ever logs accept
// failures (spec.md §7: "the listener actor only ever logs accept
// failures").
type Server struct {
	broker   *broker.Broker
	logger   *zap.Logger
	listener net.Listener
	wg       sync.WaitGroup
}

// New constructs a Server. Call Start to begin listening.
func New(b *broker.Broker) *Server {
	var logger *zap.Logger
	if b != nil {
		logger = b.Logger
	}
	return &Server{broker: b, logger: logger}
}

// Start binds addr and begins accepting connections in the
// background. Returns an error immediately on bind/listen failure
// (spec.md §6: non-zero exit on startup failure).
//
// Go's net.Listen does not expose the POSIX listen(2) backlog
// directly; on Linux the runtime requests net.core.somaxconn (commonly
// well above the ≥1000 spec.md §6 asks for) rather than a fixed small
// constant, so the default already satisfies the requirement without
// reaching for raw socket options.
func (s *Server) Start(addr string) error {
	ln, err := net.Listen("tcp4", addr)
	if err != nil {
		return fmt.Errorf("transport: listen on %s: %w", addr, err)
	}
	s.listener = ln

	if s.logger != nil {
		s.logger.Info("listening", zap.String("addr", addr))
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.acceptLoop()
	}()
	return nil
}

// Stop closes the listener and waits for the accept loop to exit.
// In-flight connection handlers are not drained — spec.md §5:
// "Graceful drain is not required."
func (s *Server) Stop() {
	if s.listener != nil {
		_ = s.listener.Close()
	}
	s.wg.Wait()
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			if s.broker.Metrics != nil {
				s.broker.Metrics.AcceptErrors.Inc()
			}
			if s.logger != nil {
				s.logger.Warn("accept error", zap.Error(err))
			}
			time.Sleep(50 * time.Millisecond)
			continue
		}

		go session.New(s.broker, conn).Serve()
	}
}

// Package broker wires the room directory, logger, and metrics into a
// single explicit value threaded through every connection handler.
// Spec.md §9 calls out the reference implementation's file-scope
// globals for the directory and its mutex as the one thing to
// re-architect: Broker is that re-architecture, constructed once in
// main and passed down instead of referenced through package state.
package broker

import (
	"go.uber.org/zap"

	"github.com/amol1000/chat-server/internal/metrics"
	"github.com/amol1000/chat-server/internal/room"
)

// Broker is the process-wide service owning the room directory. Two
// independent Brokers never share state, which is what makes the
// system unit-testable without a process-wide singleton.
type Broker struct {
	Directory *room.Directory
	Logger    *zap.Logger
	Metrics   *metrics.Registry
}

// New constructs a Broker with a fresh, empty directory. logger and
// reg may be nil for tests that don't care about logging or metrics.
func New(logger *zap.Logger, reg *metrics.Registry) *Broker {
	return &Broker{
		Directory: room.NewDirectory(logger, reg),
		Logger:    logger,
		Metrics:   reg,
	}
}

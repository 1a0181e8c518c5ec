// Package session implements the per-connection state machine of
// spec.md §4.6: read -> handshake -> register -> loop(read/broadcast)
// -> on error/EOF deregister and announce departure. It is the
// connection-handler analog of go-server-3/internal/transport's
// handleConnection/readLoop/writeLoop split, adapted from a WebSocket
// upgrade to the newline-framed JOIN protocol in internal/protocol.
package session

import (
	"errors"
	"io"
	"net"

	"go.uber.org/zap"

	"github.com/amol1000/chat-server/internal/broker"
	"github.com/amol1000/chat-server/internal/protocol"
	"github.com/amol1000/chat-server/internal/room"
)

// connHandle adapts a net.Conn to room.Handle. Each handler owns
// exactly one connHandle for the lifetime of the connection, so
// interface equality over its pointer gives the room the identity
// comparison spec.md's data model requires (I2).
type connHandle struct {
	conn net.Conn
}

func (c *connHandle) Write(p []byte) (int, error) {
	return c.conn.Write(p)
}

// Handler owns one accepted connection from the first read to the
// final close. All of its state (frame reader, parsed tokens, session
// record) is handler-local; the only shared resources it ever touches
// are the directory and whichever room it joins (spec.md §5).
type Handler struct {
	broker *broker.Broker
	conn   net.Conn
	logger *zap.Logger

	frames *protocol.FrameReader
	handle *connHandle
}

// New constructs a Handler for one freshly accepted connection.
func New(b *broker.Broker, conn net.Conn) *Handler {
	var logger *zap.Logger
	if b != nil {
		logger = b.Logger
	}
	return &Handler{
		broker: b,
		conn:   conn,
		logger: logger,
		frames: protocol.NewFrameReader(conn),
		handle: &connHandle{conn: conn},
	}
}

// Serve runs the connection to completion: it never returns until the
// connection is done, one way or another, and it never lets an error
// escape to the caller — every error kind in spec.md §7 is handled
// here and nowhere else.
func (h *Handler) Serve() {
	defer h.conn.Close()

	roomName, nick, ok := h.awaitJoin()
	if !ok {
		return
	}

	r := h.broker.Directory.GetOrCreate(roomName)
	if err := r.Add(h.handle); err != nil {
		// ResourceError / InvariantViolation on the join path: no
		// membership was established, so no announcement, no leave.
		h.logAndFail("join: failed to add member", err)
		return
	}
	if h.broker.Metrics != nil {
		h.broker.Metrics.ClientsConnected.Inc()
	}

	r.Broadcast(protocol.JoinAnnouncement(nick))

	h.active(r, roomName, nick)
}

// awaitJoin reads the first frame and validates it as a JOIN. Per
// spec.md §7: a clean EOF or transport error before any data closes
// the connection silently (no membership was ever created, so there's
// nothing to announce); a malformed or oversize first frame is a
// ProtocolError and gets ERROR\n before closing.
func (h *Handler) awaitJoin() (roomName, nick string, ok bool) {
	frame, err := h.frames.ReadFrame()
	if err != nil {
		switch {
		case errors.Is(err, protocol.ErrIncompleteFrame), errors.Is(err, protocol.ErrFrameTooLarge):
			h.failEarly(err)
		}
		return "", "", false
	}

	roomName, nick, err = protocol.ParseJoin(frame)
	if err != nil {
		h.failEarly(err)
		return "", "", false
	}
	return roomName, nick, true
}

// active runs the BROADCAST loop until the connection ends, then
// performs the LEAVE transition.
func (h *Handler) active(r *room.Room, roomName, nick string) {
	for {
		frame, err := h.frames.ReadFrame()
		if err != nil {
			h.leave(r, roomName, nick, err)
			return
		}
		if len(frame) == 0 {
			// A frame consisting only of "\n" is a valid empty frame
			// and must be dropped silently (spec.md §4.1).
			continue
		}
		r.Broadcast(protocol.UserLine(nick, frame))
	}
}

// leave removes the member, unmaps the room from the directory if it
// is now empty, and announces the departure to whoever remains.
func (h *Handler) leave(r *room.Room, roomName, nick string, cause error) {
	remaining, err := r.Remove(h.handle)
	if err != nil {
		// InvariantViolation: log and continue, must not crash the
		// handler or the process (spec.md §7).
		h.logAndFail("leave: remove failed", err)
	}
	if h.broker.Metrics != nil {
		h.broker.Metrics.ClientsConnected.Dec()
	}

	if remaining == 0 {
		h.broker.Directory.ReleaseIfEmpty(roomName, r)
	}

	r.Broadcast(protocol.LeaveAnnouncement(nick))

	if h.logger != nil && !errors.Is(cause, io.EOF) {
		h.logger.Debug("connection ended", zap.String("nick", nick), zap.String("room", roomName), zap.Error(cause))
	}
}

// failEarly writes ERROR\n and closes. Used for a malformed JOIN or an
// oversize first frame, before any room membership exists.
func (h *Handler) failEarly(cause error) {
	if h.broker.Metrics != nil {
		h.broker.Metrics.ProtocolErrors.Inc()
	}
	_, _ = h.conn.Write(protocol.ErrorReply())
	if h.logger != nil {
		h.logger.Debug("rejected connection", zap.Error(cause))
	}
}

func (h *Handler) logAndFail(msg string, err error) {
	if h.logger != nil {
		h.logger.Warn(msg, zap.Error(err))
	}
}

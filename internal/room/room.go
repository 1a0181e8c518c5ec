package room

import (
	"sync"

	"go.uber.org/zap"

	"github.com/amol1000/chat-server/internal/metrics"
)

// Room holds a name, a member list, and a serializer. Per spec.md I5,
// the member list is read or written only while mu is held. Name is
// immutable after newRoom.
type Room struct {
	name string

	mu      sync.Mutex
	members memberList

	logger  *zap.Logger
	metrics *metrics.Registry
}

func newRoom(name string, logger *zap.Logger, reg *metrics.Registry) *Room {
	return &Room{
		name:    name,
		members: newMemberList(),
		logger:  logger,
		metrics: reg,
	}
}

// Name returns the room's immutable name.
func (r *Room) Name() string {
	return r.name
}

// MemberCount returns the current member count under the room's
// serializer.
func (r *Room) MemberCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.members.len()
}

// Add appends h to the member list. Fails only if h is already a
// member (I2: a handle appears in at most one room at a time, enforced
// one room at a time here — the caller is responsible for not adding
// the same handle to two different rooms).
func (r *Room) Add(h Handle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.members.add(h)
}

// Remove removes h from the member list and returns the member count
// immediately after removal. A caller that observes 0 must go through
// Directory.ReleaseIfEmpty to unmap the room — Remove itself never
// touches the directory (spec.md §4.5: never acquire D while holding R).
func (r *Room) Remove(h Handle) (remaining int, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.members.remove(h); err != nil {
		if r.logger != nil {
			r.logger.Warn("remove: member not found", zap.String("room", r.name), zap.Error(err))
		}
		return r.members.len(), err
	}
	return r.members.len(), nil
}

// Broadcast writes payload to every current member, under the room
// serializer. A write failure on one member is logged and swallowed —
// it must not prevent delivery to the remaining members, and the
// member is not removed here; its own handler will notice the broken
// connection on its next read and deregister itself (spec.md §4.4).
func (r *Room) Broadcast(payload []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, h := range r.members.handles {
		if _, err := h.Write(payload); err != nil {
			if r.logger != nil {
				r.logger.Debug("broadcast: write failed, skipping recipient",
					zap.String("room", r.name), zap.Error(err))
			}
			if r.metrics != nil {
				r.metrics.BroadcastWriteErrors.Inc()
			}
			continue
		}
		if r.metrics != nil {
			r.metrics.MessagesBroadcast.Inc()
		}
	}
}

// Package room implements the broker's core: the member list, the room
// (member list + serializer + broadcast), and the room directory (name ->
// room, itself serialized).
package room

import "errors"

// Handle is the broker's opaque reference to one connected client. The
// broker only ever writes bytes to it and compares it for equality — two
// Handles compare equal iff they are the same connection. Callers
// typically hold a concrete *connHandle (see package session) behind
// this interface; interface equality over a pointer receiver gives
// exactly the identity comparison the room needs.
type Handle interface {
	Write(p []byte) (int, error)
}

// ErrDuplicateMember is returned by memberList.add when the handle is
// already present. Per spec.md's design notes, the reference C
// implementation has a latent out-of-bounds check here; this
// implementation instead maintains an auxiliary index for an exact,
// always-correct duplicate check.
var ErrDuplicateMember = errors.New("room: member already present")

// ErrMemberNotFound is returned by memberList.remove when the handle is
// not a member. Spec.md classifies this as an InvariantViolation: it
// should never happen if callers respect I2, so callers log and move on
// rather than treat it as fatal.
var ErrMemberNotFound = errors.New("room: member not found")

const initialMemberCapacity = 1000

// memberList is the append-and-remove container backing a room. It
// grows by doubling from an initial capacity of 1000, mirroring
// utils.c's rs_array_t, and removes by locating the member and shifting
// the tail left by one so that add-then-remove leaves the list
// byte-identical to its prior state (spec.md R2).
type memberList struct {
	handles []Handle
	index   map[Handle]int
}

func newMemberList() memberList {
	return memberList{
		handles: make([]Handle, 0, initialMemberCapacity),
		index:   make(map[Handle]int, initialMemberCapacity),
	}
}

func (m *memberList) len() int {
	return len(m.handles)
}

// add appends h, growing the backing array by doubling when full.
// Rejects a handle already present rather than the reference
// implementation's out-of-bounds `data[size-1] == user_fd` check.
func (m *memberList) add(h Handle) error {
	if _, ok := m.index[h]; ok {
		return ErrDuplicateMember
	}
	if len(m.handles) == cap(m.handles) {
		grown := make([]Handle, len(m.handles), grownCapacity(cap(m.handles)))
		copy(grown, m.handles)
		m.handles = grown
	}
	m.handles = append(m.handles, h)
	m.index[h] = len(m.handles) - 1
	return nil
}

// remove locates h by equality and shifts the tail left by one,
// preserving the relative order of the remaining members.
func (m *memberList) remove(h Handle) error {
	idx, ok := m.index[h]
	if !ok {
		return ErrMemberNotFound
	}
	copy(m.handles[idx:], m.handles[idx+1:])
	m.handles = m.handles[:len(m.handles)-1]
	delete(m.index, h)
	for i := idx; i < len(m.handles); i++ {
		m.index[m.handles[i]] = i
	}
	return nil
}

func grownCapacity(current int) int {
	if current == 0 {
		return initialMemberCapacity
	}
	return current * 2
}

package protocol

import (
	"bytes"
	"errors"
)

// MaxNameLen bounds both room names and nicknames: 1..20 bytes, no
// space, no newline (spec.md §4.2). Newlines can never appear inside a
// token because FrameReader already strips them at frame boundaries;
// the length and space checks are enforced here.
const MaxNameLen = 20

var joinKeyword = []byte("JOIN")

// ErrMalformedJoin is returned for anything that isn't exactly
// `JOIN <room> <nick>` with both tokens 1..20 bytes and no spaces.
var ErrMalformedJoin = errors.New("protocol: malformed JOIN")

// ParseJoin parses the first frame of a connection. It requires
// exactly three whitespace-separated tokens — case-insensitive `JOIN`,
// a room name, and a nickname — matching original_source/chat_server.c's
// validate_join (built on sscanf's %s, which also skips runs of
// whitespace rather than requiring single spaces).
func ParseJoin(frame []byte) (roomName, nick string, err error) {
	tokens := bytes.Fields(frame)
	if len(tokens) != 3 {
		return "", "", ErrMalformedJoin
	}
	if !bytes.EqualFold(tokens[0], joinKeyword) {
		return "", "", ErrMalformedJoin
	}
	room, nickTok := tokens[1], tokens[2]
	if len(room) == 0 || len(room) > MaxNameLen {
		return "", "", ErrMalformedJoin
	}
	if len(nickTok) == 0 || len(nickTok) > MaxNameLen {
		return "", "", ErrMalformedJoin
	}
	return string(room), string(nickTok), nil
}

// FormatJoin re-serializes a (room, nick) pair as the wire-format JOIN
// line. Round-trips with ParseJoin for any valid pair (spec.md R1).
func FormatJoin(roomName, nick string) []byte {
	buf := make([]byte, 0, len(joinKeyword)+len(roomName)+len(nick)+3)
	buf = append(buf, joinKeyword...)
	buf = append(buf, ' ')
	buf = append(buf, roomName...)
	buf = append(buf, ' ')
	buf = append(buf, nick...)
	buf = append(buf, '\n')
	return buf
}

// JoinAnnouncement is broadcast after a new member has been added, so
// the new member also receives their own announcement (spec.md §4.6).
func JoinAnnouncement(nick string) []byte {
	return []byte(nick + " has joined\n")
}

// LeaveAnnouncement is broadcast after removal, so the departing
// client — whose socket is already closed — never sees it.
func LeaveAnnouncement(nick string) []byte {
	return []byte(nick + " has left\n")
}

// UserLine formats one broadcast payload line for ordinary chat text.
func UserLine(nick string, line []byte) []byte {
	buf := make([]byte, 0, len(nick)+2+len(line)+1)
	buf = append(buf, nick...)
	buf = append(buf, ':', ' ')
	buf = append(buf, line...)
	buf = append(buf, '\n')
	return buf
}

// ErrorReply is the literal error line written before closing a
// connection that failed its handshake.
func ErrorReply() []byte {
	return []byte("ERROR\n")
}

package protocol

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestParseJoinValid(t *testing.T) {
	room, nick, err := ParseJoin([]byte("JOIN general alice"))
	if err != nil {
		t.Fatalf("ParseJoin: %v", err)
	}
	if room != "general" || nick != "alice" {
		t.Fatalf("got (%q, %q), want (%q, %q)", room, nick, "general", "alice")
	}
}

func TestParseJoinCaseInsensitiveKeyword(t *testing.T) {
	if _, _, err := ParseJoin([]byte("join general alice")); err != nil {
		t.Fatalf("ParseJoin: %v", err)
	}
	if _, _, err := ParseJoin([]byte("JoIn general alice")); err != nil {
		t.Fatalf("ParseJoin: %v", err)
	}
}

func TestParseJoinCollapsesWhitespaceRuns(t *testing.T) {
	room, nick, err := ParseJoin([]byte("JOIN   general    alice"))
	if err != nil {
		t.Fatalf("ParseJoin: %v", err)
	}
	if room != "general" || nick != "alice" {
		t.Fatalf("got (%q, %q)", room, nick)
	}
}

func TestParseJoinRejectsWrongTokenCount(t *testing.T) {
	cases := []string{
		"JOIN general",
		"JOIN general alice extra",
		"JOIN",
		"",
	}
	for _, c := range cases {
		if _, _, err := ParseJoin([]byte(c)); !errors.Is(err, ErrMalformedJoin) {
			t.Errorf("ParseJoin(%q) = %v, want ErrMalformedJoin", c, err)
		}
	}
}

func TestParseJoinRejectsWrongKeyword(t *testing.T) {
	if _, _, err := ParseJoin([]byte("JOYN general alice")); !errors.Is(err, ErrMalformedJoin) {
		t.Fatalf("got %v, want ErrMalformedJoin", err)
	}
}

func TestParseJoinRejectsOversizeTokens(t *testing.T) {
	longToken := strings.Repeat("a", MaxNameLen+1)
	if _, _, err := ParseJoin([]byte("JOIN " + longToken + " alice")); !errors.Is(err, ErrMalformedJoin) {
		t.Fatalf("oversize room: got %v, want ErrMalformedJoin", err)
	}
	if _, _, err := ParseJoin([]byte("JOIN general " + longToken)); !errors.Is(err, ErrMalformedJoin) {
		t.Fatalf("oversize nick: got %v, want ErrMalformedJoin", err)
	}
}

func TestParseJoinAcceptsMaxLengthTokens(t *testing.T) {
	maxToken := strings.Repeat("a", MaxNameLen)
	room, nick, err := ParseJoin([]byte("JOIN " + maxToken + " " + maxToken))
	if err != nil {
		t.Fatalf("ParseJoin: %v", err)
	}
	if room != maxToken || nick != maxToken {
		t.Fatal("max-length tokens were not preserved")
	}
}

func TestFormatJoinRoundTripsWithParseJoin(t *testing.T) {
	wire := FormatJoin("general", "alice")
	room, nick, err := ParseJoin(bytes.TrimSuffix(wire, []byte("\n")))
	if err != nil {
		t.Fatalf("ParseJoin(FormatJoin(...)): %v", err)
	}
	if room != "general" || nick != "alice" {
		t.Fatalf("got (%q, %q)", room, nick)
	}
}

func TestAnnouncementsAndUserLine(t *testing.T) {
	if got := string(JoinAnnouncement("alice")); got != "alice has joined\n" {
		t.Fatalf("JoinAnnouncement = %q", got)
	}
	if got := string(LeaveAnnouncement("alice")); got != "alice has left\n" {
		t.Fatalf("LeaveAnnouncement = %q", got)
	}
	if got := string(UserLine("alice", []byte("hi there"))); got != "alice: hi there\n" {
		t.Fatalf("UserLine = %q", got)
	}
}

func TestErrorReply(t *testing.T) {
	if got := string(ErrorReply()); got != "ERROR\n" {
		t.Fatalf("ErrorReply = %q", got)
	}
}

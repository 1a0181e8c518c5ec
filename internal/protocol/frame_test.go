package protocol

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestReadFrameSingle(t *testing.T) {
	fr := NewFrameReader(strings.NewReader("hello\n"))
	frame, err := fr.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if string(frame) != "hello" {
		t.Fatalf("frame = %q, want %q", frame, "hello")
	}
}

func TestReadFrameMergedPackets(t *testing.T) {
	// Simulates two frames arriving in a single underlying Read, as the
	// kernel may coalesce separate writes into one delivered segment.
	fr := NewFrameReader(strings.NewReader("one\ntwo\n"))

	first, err := fr.ReadFrame()
	if err != nil {
		t.Fatalf("first ReadFrame: %v", err)
	}
	if string(first) != "one" {
		t.Fatalf("first = %q, want %q", first, "one")
	}

	second, err := fr.ReadFrame()
	if err != nil {
		t.Fatalf("second ReadFrame: %v", err)
	}
	if string(second) != "two" {
		t.Fatalf("second = %q, want %q", second, "two")
	}

	if _, err := fr.ReadFrame(); !errors.Is(err, io.EOF) {
		t.Fatalf("final ReadFrame = %v, want io.EOF", err)
	}
}

func TestReadFrameEmptyLineIsNotEOF(t *testing.T) {
	fr := NewFrameReader(strings.NewReader("\nafter\n"))
	frame, err := fr.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if len(frame) != 0 {
		t.Fatalf("frame = %q, want empty", frame)
	}

	second, err := fr.ReadFrame()
	if err != nil {
		t.Fatalf("second ReadFrame: %v", err)
	}
	if string(second) != "after" {
		t.Fatalf("second = %q, want %q", second, "after")
	}
}

func TestReadFrameCleanEOFBetweenFrames(t *testing.T) {
	fr := NewFrameReader(strings.NewReader(""))
	if _, err := fr.ReadFrame(); !errors.Is(err, io.EOF) {
		t.Fatalf("ReadFrame = %v, want io.EOF", err)
	}
}

func TestReadFrameIncompleteAtEOF(t *testing.T) {
	fr := NewFrameReader(strings.NewReader("no newline here"))
	if _, err := fr.ReadFrame(); !errors.Is(err, ErrIncompleteFrame) {
		t.Fatalf("ReadFrame = %v, want ErrIncompleteFrame", err)
	}
}

func TestReadFrameTooLarge(t *testing.T) {
	oversize := bytes.Repeat([]byte("a"), MaxFrame+1)
	fr := NewFrameReader(bytes.NewReader(oversize))
	if _, err := fr.ReadFrame(); !errors.Is(err, ErrFrameTooLarge) {
		t.Fatalf("ReadFrame = %v, want ErrFrameTooLarge", err)
	}
}

// smallReader forces many short Read calls, exercising the pending
// buffer's accumulation across reads that each deliver less than one
// full frame.
type smallReader struct {
	data []byte
}

func (s *smallReader) Read(p []byte) (int, error) {
	if len(s.data) == 0 {
		return 0, io.EOF
	}
	n := copy(p[:1], s.data)
	s.data = s.data[n:]
	return n, nil
}

func TestReadFrameAcrossManySmallReads(t *testing.T) {
	fr := NewFrameReader(&smallReader{data: []byte("chunked\n")})
	frame, err := fr.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if string(frame) != "chunked" {
		t.Fatalf("frame = %q, want %q", frame, "chunked")
	}
}

// Package protocol implements the wire framing and JOIN handshake
// grammar described in spec.md §4.1–§4.2, grounded on the
// newline-delimited read loop in original_source/chat_server.c's
// read_wrapper.
package protocol

import (
	"errors"
	"io"
)

// MaxFrame bounds the length of a single frame, excluding the
// terminating newline. A frame that would exceed this without a
// newline is an error and the connection must be terminated
// (spec.md §4.1, §8 P6).
const MaxFrame = 20000

// ErrFrameTooLarge is returned when a frame exceeds MaxFrame bytes
// without a newline.
var ErrFrameTooLarge = errors.New("protocol: frame exceeds maximum size")

// ErrIncompleteFrame is returned when the connection reaches EOF with
// unterminated bytes pending (spec.md §4.1: "EOF with pending bytes is
// an ERR").
var ErrIncompleteFrame = errors.New("protocol: connection closed mid-frame")

// FrameReader turns a byte stream into newline-delimited frames. A
// single underlying Read may deliver zero, one, or several frames;
// FrameReader retains whatever trails the last newline and serves it
// on the next call before issuing another Read — this is what makes
// the "merged packets" case (spec.md S4) transparent to callers.
type FrameReader struct {
	r       io.Reader
	pending []byte
	scratch [4096]byte
}

// NewFrameReader wraps r.
func NewFrameReader(r io.Reader) *FrameReader {
	return &FrameReader{r: r}
}

// ReadFrame returns the next frame, with the terminating newline
// stripped. A frame consisting only of the newline itself (i.e. an
// empty line) is returned as a zero-length, non-nil slice — callers
// must drop it silently per spec.md §4.1, not treat it as EOF.
//
// Returns io.EOF once the peer has closed the connection cleanly
// between frames. Returns ErrIncompleteFrame if EOF arrives with a
// partial frame pending, and ErrFrameTooLarge if MaxFrame is exceeded
// before a newline appears.
//
// The returned slice aliases FrameReader's internal buffer and is only
// valid until the next call to ReadFrame, matching bufio.Scanner.Bytes.
func (fr *FrameReader) ReadFrame() ([]byte, error) {
	for {
		if idx := indexNewline(fr.pending); idx >= 0 {
			if idx > MaxFrame {
				fr.pending = nil
				return nil, ErrFrameTooLarge
			}
			frame := fr.pending[:idx]
			fr.pending = fr.pending[idx+1:]
			return frame, nil
		}

		if len(fr.pending) > MaxFrame {
			fr.pending = nil
			return nil, ErrFrameTooLarge
		}

		n, err := fr.r.Read(fr.scratch[:])
		if n > 0 {
			fr.pending = append(fr.pending, fr.scratch[:n]...)
		}
		if err != nil {
			if n > 0 && indexNewline(fr.pending) >= 0 {
				// Serve complete frames first; the next Read reports err again.
				continue
			}
			if len(fr.pending) > 0 {
				fr.pending = nil
				return nil, ErrIncompleteFrame
			}
			if errors.Is(err, io.EOF) {
				return nil, io.EOF
			}
			return nil, err
		}
	}
}

func indexNewline(b []byte) int {
	for i, c := range b {
		if c == '\n' {
			return i
		}
	}
	return -1
}

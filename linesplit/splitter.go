// Package linesplit converts a raw subprocess output stream into
// discrete text lines.
//
// A Splitter is a push-style decoder: the pump goroutine draining a
// child process pipe writes whatever chunk sizes the pipe yields, and
// the Splitter invokes its sink exactly once per complete line,
// regardless of where chunk boundaries fall. All three line-ending
// conventions (LF, CRLF, bare CR) are handled, including terminators
// split across writes.
//
// Bytes are buffered until a full line is assembled and only then
// decoded to a string, so multi-byte UTF-8 sequences that straddle a
// write boundary come out intact.
//
// A Splitter is single-owner state: one instance per stream, pumped
// from one goroutine. Two instances (stdout, stderr) may run
// concurrently with each other.
package linesplit

import "errors"

// ErrClosed is returned by Write after Close.
var ErrClosed = errors.New("linesplit: write after close")

// Sink receives one decoded line per call, terminator excluded.
type Sink func(line string)

// Splitter accumulates bytes and emits complete lines to its sink.
type Splitter struct {
	sink    Sink
	pending []byte // carry-over: bytes after the last terminator seen
	lastCR  bool   // previous byte was '\r'; a following '\n' is swallowed
	closed  bool
}

// New creates a Splitter emitting to sink. The sink must be non-nil
// and is invoked synchronously from Write and Close.
func New(sink Sink) *Splitter {
	return &Splitter{sink: sink}
}

// Write scans p for line terminators and emits every completed line.
// Bytes after the last terminator are retained until the next Write or
// Close. Write always consumes all of p; it fails only after Close.
func (s *Splitter) Write(p []byte) (int, error) {
	if s.closed {
		return 0, ErrClosed
	}
	for _, b := range p {
		switch b {
		case '\n':
			if s.lastCR {
				// Second half of a CRLF pair; the '\r' already
				// terminated the line.
				s.lastCR = false
				continue
			}
			s.emit()
		case '\r':
			// Emit immediately rather than waiting to see whether an
			// LF follows; lastCR suppresses the duplicate.
			s.emit()
			s.lastCR = true
		default:
			s.pending = append(s.pending, b)
			s.lastCR = false
		}
	}
	return len(p), nil
}

// Close flushes a non-empty trailing fragment as a final line.
// Safe to call more than once; only the first call can emit.
func (s *Splitter) Close() error {
	if len(s.pending) > 0 {
		s.emit()
	}
	s.lastCR = false
	s.closed = true
	return nil
}

// emit hands the buffered line to the sink and resets the buffer,
// keeping its capacity for the next line.
func (s *Splitter) emit() {
	s.sink(string(s.pending))
	s.pending = s.pending[:0]
}

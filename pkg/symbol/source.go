// Package symbol reads encoded symbols from in-memory buffers and one-pass
// streams behind a single Source interface with bounded seek-back.
package symbol

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

// MinRetention is the smallest seek-back window a StreamSource keeps.
// It covers one symbol of the widest encoding and one UTF-8 window.
const MinRetention = MaxWidth

// ErrBacktrackOverflow marks a seek-back past the retained history.
// It signals a bug in the caller, never bad input.
var ErrBacktrackOverflow = errors.New("seek back exceeds retained history")

// BacktrackError is the panic value raised by SeekBack on overflow.
type BacktrackError struct {
	Requested int
	Available int
}

func (e *BacktrackError) Error() string {
	return fmt.Sprintf("%v: requested %d bytes, %d available", ErrBacktrackOverflow, e.Requested, e.Available)
}

func (e *BacktrackError) Unwrap() error { return ErrBacktrackOverflow }

// Source yields raw symbols and allows un-reading recently consumed bytes.
type Source interface {
	// ReadSymbol reads enc.Width() bytes and composes them into one value.
	// At end of input it returns the bytes that were available, or io.EOF
	// when there were none.
	ReadSymbol(enc Encoding) (value uint32, n int, err error)
	// ReadByte is ReadSymbol(Bit8) truncated to a byte.
	ReadByte() (byte, error)
	// SeekBack un-reads n bytes. Panics with *BacktrackError when the
	// bytes are no longer available.
	SeekBack(n int)
	// Offset is the number of bytes consumed so far.
	Offset() int64
}

func readSymbol(next func() (byte, error), enc Encoding) (uint32, int, error) {
	var value uint32
	n := 0
	for n < enc.Width() {
		b, err := next()
		if err != nil {
			if n == 0 {
				return 0, 0, err
			}
			break
		}
		value = value<<8 | uint32(b)
		n++
	}
	return enc.order(value), n, nil
}

// SliceSource reads symbols from a byte slice, e.g. an object file section.
// Seek-back is unbounded within the slice.
type SliceSource struct {
	data []byte
	pos  int
}

func NewSliceSource(data []byte) *SliceSource {
	return &SliceSource{data: data}
}

func (s *SliceSource) next() (byte, error) {
	if s.pos >= len(s.data) {
		return 0, io.EOF
	}
	b := s.data[s.pos]
	s.pos++
	return b, nil
}

func (s *SliceSource) ReadSymbol(enc Encoding) (uint32, int, error) {
	return readSymbol(s.next, enc)
}

func (s *SliceSource) ReadByte() (byte, error) {
	v, _, err := s.ReadSymbol(Bit8)
	return byte(v), err
}

func (s *SliceSource) SeekBack(n int) {
	if n < 0 || n > s.pos {
		panic(&BacktrackError{Requested: n, Available: s.pos})
	}
	s.pos -= n
}

func (s *SliceSource) Offset() int64 { return int64(s.pos) }

// StreamSource reads symbols from a one-pass reader such as a pipe. It keeps
// the most recent bytes so that a bounded number of them can be un-read.
type StreamSource struct {
	r         io.ByteReader
	history   []byte
	back      int
	retention int
	consumed  int64
	err       error
}

// StreamOption configures a StreamSource.
type StreamOption func(*StreamSource)

// WithRetention sets how many recently read bytes stay available for
// SeekBack. Values below MinRetention are raised to it.
func WithRetention(n int) StreamOption {
	return func(s *StreamSource) {
		s.retention = max(n, MinRetention)
	}
}

// NewStreamSource wraps r. Readers that do not implement io.ByteReader are
// buffered with bufio.
func NewStreamSource(r io.Reader, opts ...StreamOption) *StreamSource {
	br, ok := r.(io.ByteReader)
	if !ok {
		br = bufio.NewReader(r)
	}
	s := &StreamSource{r: br, retention: MinRetention}
	for _, opt := range opts {
		opt(s)
	}
	s.history = make([]byte, 0, 2*s.retention)
	return s
}

func (s *StreamSource) next() (byte, error) {
	if s.back > 0 {
		b := s.history[len(s.history)-s.back]
		s.back--
		s.consumed++
		return b, nil
	}
	if s.err != nil {
		return 0, s.err
	}

	b, err := s.r.ReadByte()
	if err != nil {
		s.err = err
		return 0, err
	}

	// Drop the oldest bytes once the history doubles the retention.
	if len(s.history) == 2*s.retention {
		n := copy(s.history, s.history[len(s.history)-s.retention:])
		s.history = s.history[:n]
	}
	s.history = append(s.history, b)
	s.consumed++
	return b, nil
}

func (s *StreamSource) ReadSymbol(enc Encoding) (uint32, int, error) {
	return readSymbol(s.next, enc)
}

func (s *StreamSource) ReadByte() (byte, error) {
	v, _, err := s.ReadSymbol(Bit8)
	return byte(v), err
}

func (s *StreamSource) SeekBack(n int) {
	available := min(len(s.history), s.retention) - s.back
	if n < 0 || n > available {
		panic(&BacktrackError{Requested: n, Available: available})
	}
	s.back += n
	s.consumed -= int64(n)
}

func (s *StreamSource) Offset() int64 { return s.consumed }

// Package scanner finds runs of printable units in a symbol source and
// writes them, optionally prefixed with the file name and offset.
package scanner

import (
	"errors"
	"fmt"
	"io"

	"github.com/CompassSecurity/binstrings/pkg/render"
	"github.com/CompassSecurity/binstrings/pkg/symbol"
)

// ErrOutput wraps failures of the output writer. They are never specific to
// one input.
var ErrOutput = errors.New("write output")

// Scanner extracts strings from sources with one fixed configuration.
// It is not safe for concurrent use.
type Scanner struct {
	opts      Options
	out       io.Writer
	reader    unitReader
	formatter render.Formatter
	prefix    render.Prefix
	run       run
}

// run holds the units of a candidate string until it reaches the minimum length.
type run struct {
	start int64
	raw   []byte
	lens  []uint8
}

func (r *run) reset(start int64) {
	r.start = start
	r.raw = r.raw[:0]
	r.lens = r.lens[:0]
}

func (r *run) add(u *unit) {
	r.raw = append(r.raw, u.content()...)
	r.lens = append(r.lens, uint8(u.n))
}

func (r *run) units() int { return len(r.lens) }

// New validates opts and returns a Scanner writing to out. color enables
// terminal escapes in the highlight display mode.
func New(opts Options, out io.Writer, color bool) (*Scanner, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	s := &Scanner{
		opts:      opts,
		out:       out,
		formatter: render.Formatter{Mode: opts.Display, Color: color},
		prefix:    opts.prefix(),
	}
	if opts.unicodeAware() {
		s.opts.Encoding = symbol.Bit8
		s.reader = utf8Reader{whitespace: opts.IncludeAllWhitespace, invalid: opts.Display == render.Invalid}
	} else {
		s.reader = fixedReader{encoding: opts.Encoding, whitespace: opts.IncludeAllWhitespace}
	}
	return s, nil
}

// Options returns the options in effect, with the encoding forced to 8-bit
// for unicode-aware display modes.
func (s *Scanner) Options() Options { return s.opts }

// Scan writes every run of at least MinLength printable units in src. Offsets
// are reported relative to base. Reaching the end of src is not an error.
func (s *Scanner) Scan(name string, base uint64, src symbol.Source) (err error) {
	defer func() {
		if r := recover(); r != nil {
			bt, ok := r.(*symbol.BacktrackError)
			if !ok {
				panic(r)
			}
			err = fmt.Errorf("scan %s: %w", name, bt)
		}
	}()

	for {
		found, err := s.findRun(src)
		if err != nil || !found {
			return err
		}
		if err := s.emit(name, base, src); err != nil {
			return err
		}
	}
}

// findRun collects MinLength consecutive printable units. A failing unit
// restarts the search one byte after its first byte. found is false once the
// source is exhausted.
func (s *Scanner) findRun(src symbol.Source) (found bool, err error) {
	var u unit
	s.run.reset(src.Offset())

	for s.run.units() < s.opts.MinLength {
		if err := s.reader.next(src, &u); err != nil {
			if errors.Is(err, io.EOF) {
				return false, nil
			}
			return false, fmt.Errorf("read input: %w", err)
		}
		if !u.printable {
			src.SeekBack(u.size - 1)
			s.run.reset(src.Offset())
			continue
		}
		s.run.add(&u)
	}
	return true, nil
}

// emit writes the prefix and the collected units, then extends the run until a
// unit fails or the source ends, and terminates it with the separator.
func (s *Scanner) emit(name string, base uint64, src symbol.Source) error {
	if err := s.prefix.Write(s.out, name, base+uint64(s.run.start)); err != nil {
		return fmt.Errorf("%w: %w", ErrOutput, err)
	}

	raw := s.run.raw
	for _, n := range s.run.lens {
		if err := s.write(raw[:n]); err != nil {
			return err
		}
		raw = raw[n:]
	}

	var u unit
	for {
		err := s.reader.next(src, &u)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}
		if !u.printable {
			src.SeekBack(u.size)
			break
		}
		if err := s.write(u.content()); err != nil {
			return err
		}
	}

	if _, err := io.WriteString(s.out, s.opts.Separator); err != nil {
		return fmt.Errorf("%w: %w", ErrOutput, err)
	}
	return nil
}

// write renders one unit: single bytes verbatim, multi-byte characters
// through the formatter.
func (s *Scanner) write(content []byte) error {
	var err error
	if len(content) == 1 {
		_, err = s.out.Write(content)
	} else {
		_, err = s.formatter.Display(s.out, content)
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrOutput, err)
	}
	return nil
}

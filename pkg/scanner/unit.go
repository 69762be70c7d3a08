package scanner

import (
	"github.com/CompassSecurity/binstrings/pkg/render"
	"github.com/CompassSecurity/binstrings/pkg/symbol"
)

// unit is one classifiable element: a symbol in fixed-width mode, an ASCII
// byte or a whole UTF-8 sequence in unicode mode.
type unit struct {
	raw       [symbol.MaxWidth]byte
	n         int // bytes of raw holding the content to render
	size      int // bytes consumed from the source
	printable bool
}

func (u *unit) content() []byte { return u.raw[:u.n] }

// unitReader pulls the next unit from a source. It returns the source's
// error, io.EOF included, only when nothing was consumed.
type unitReader interface {
	next(src symbol.Source, u *unit) error
}

type fixedReader struct {
	encoding   symbol.Encoding
	whitespace bool
}

func (r fixedReader) next(src symbol.Source, u *unit) error {
	v, n, err := src.ReadSymbol(r.encoding)
	if err != nil {
		return err
	}
	u.raw[0] = byte(v)
	u.n = 1
	u.size = n
	u.printable = symbol.IsPrintable(v, r.encoding, r.whitespace)
	return nil
}

type utf8Reader struct {
	whitespace bool
	invalid    bool
}

func (r utf8Reader) next(src symbol.Source, u *unit) error {
	b, err := src.ReadByte()
	if err != nil {
		return err
	}
	u.raw[0] = b
	u.n = 1
	u.size = 1

	switch {
	case !symbol.IsPrintable(uint32(b), symbol.Bit8, r.whitespace):
		u.printable = false
	case b < 0x7f:
		u.printable = true
	case b < 0xc0:
		u.printable = false
	default:
		r.window(src, u)
	}
	return nil
}

// window reads the continuation bytes of a lead byte already in u.raw[0].
// A valid sequence gives back whatever was read past its end; an invalid one
// keeps everything consumed so the caller can rewind to just past the lead.
func (r utf8Reader) window(src symbol.Source, u *unit) {
	n := 1
	for n < len(u.raw) {
		c, err := src.ReadByte()
		if err != nil {
			break
		}
		u.raw[n] = c
		n++
	}

	length := render.UTF8Length(u.raw[:n])
	if length == 0 || r.invalid {
		u.n = n
		u.size = n
		u.printable = false
		return
	}

	src.SeekBack(n - length)
	u.n = length
	u.size = length
	u.printable = true
}

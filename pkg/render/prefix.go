package render

import (
	"errors"
	"fmt"
	"io"
)

// Radix is the base used to print string offsets.
type Radix byte

const (
	Octal   Radix = 'o'
	Decimal Radix = 'd'
	Hex16   Radix = 'x'
)

var ErrInvalidRadix = errors.New("invalid radix")

// ParseRadix accepts o, d and x.
func ParseRadix(s string) (Radix, error) {
	switch s {
	case "o":
		return Octal, nil
	case "d":
		return Decimal, nil
	case "x":
		return Hex16, nil
	default:
		return Hex16, fmt.Errorf("%w: %q (valid values are o, d, x)", ErrInvalidRadix, s)
	}
}

func (r Radix) String() string {
	if r == 0 {
		return string(Hex16)
	}
	return string(r)
}

// Prefix describes what precedes each emitted string.
type Prefix struct {
	FileName bool
	Offset   bool
	Radix    Radix
}

// Write emits "name: " and the offset right aligned to 7 columns, as enabled.
func (p Prefix) Write(w io.Writer, name string, offset uint64) error {
	if p.FileName {
		if _, err := fmt.Fprintf(w, "%s: ", name); err != nil {
			return err
		}
	}
	if !p.Offset {
		return nil
	}

	var err error
	switch p.Radix {
	case Octal:
		_, err = fmt.Fprintf(w, "%7o ", offset)
	case Decimal:
		_, err = fmt.Fprintf(w, "%7d ", offset)
	default:
		_, err = fmt.Fprintf(w, "%7x ", offset)
	}
	return err
}

package symbol

import (
	"errors"
	"fmt"
)

// Encoding selects the width and byte order of the symbols read from a Source.
type Encoding uint8

const (
	Bit7 Encoding = iota
	Bit8
	BigEndian16
	LittleEndian16
	BigEndian32
	LittleEndian32
)

// MaxWidth is the widest symbol any Encoding reads.
const MaxWidth = 4

// ErrInvalidEncoding is returned by ParseEncoding for unknown selectors.
var ErrInvalidEncoding = errors.New("invalid encoding")

// Width returns the number of raw bytes per symbol.
func (e Encoding) Width() int {
	switch e {
	case BigEndian16, LittleEndian16:
		return 2
	case BigEndian32, LittleEndian32:
		return 4
	default:
		return 1
	}
}

// String returns the single letter selector used on the command line.
func (e Encoding) String() string {
	switch e {
	case Bit7:
		return "s"
	case Bit8:
		return "S"
	case BigEndian16:
		return "b"
	case LittleEndian16:
		return "l"
	case BigEndian32:
		return "B"
	case LittleEndian32:
		return "L"
	default:
		return fmt.Sprintf("Encoding(%d)", uint8(e))
	}
}

// ParseEncoding maps the strings(1) selectors s, S, b, l, B and L to an Encoding.
func ParseEncoding(s string) (Encoding, error) {
	switch s {
	case "s":
		return Bit7, nil
	case "S":
		return Bit8, nil
	case "b":
		return BigEndian16, nil
	case "l":
		return LittleEndian16, nil
	case "B":
		return BigEndian32, nil
	case "L":
		return LittleEndian32, nil
	default:
		return Bit7, fmt.Errorf("%w: %q (valid values are s, S, b, l, B, L)", ErrInvalidEncoding, s)
	}
}

// order converts a big-endian composed value into the value of the encoding's byte order.
func (e Encoding) order(v uint32) uint32 {
	switch e {
	case LittleEndian16:
		return (v&0xff)<<8 | (v&0xff00)>>8
	case LittleEndian32:
		return (v&0xff)<<24 | (v&0xff00)<<8 | (v&0xff0000)>>8 | (v&0xff000000)>>24
	default:
		return v
	}
}

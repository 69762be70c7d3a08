package scanner

import (
	"errors"
	"fmt"

	"github.com/CompassSecurity/binstrings/pkg/render"
	"github.com/CompassSecurity/binstrings/pkg/symbol"
)

const (
	// MinStringLength is the default minimum run length, as in strings(1).
	MinStringLength = 4
	// DefaultSeparator terminates every emitted string unless overridden.
	DefaultSeparator = "\n"
)

var ErrInvalidOption = errors.New("invalid scan option")

// Options is the resolved configuration of one scan.
type Options struct {
	MinLength            int
	IncludeAllWhitespace bool
	Encoding             symbol.Encoding
	Display              render.DisplayMode
	Separator            string
	Radix                render.Radix
	PrintFileName        bool
	PrintOffset          bool
}

// DefaultOptions mirrors plain `strings` without flags.
func DefaultOptions() Options {
	return Options{
		MinLength: MinStringLength,
		Encoding:  symbol.Bit7,
		Display:   render.Default,
		Separator: DefaultSeparator,
		Radix:     render.Hex16,
	}
}

// Validate checks the options for values no scan can honor.
func (o Options) Validate() error {
	if o.MinLength < 1 {
		return fmt.Errorf("%w: minimum string length must be at least 1, got %d", ErrInvalidOption, o.MinLength)
	}
	if o.Encoding > symbol.LittleEndian32 {
		return fmt.Errorf("%w: unknown encoding %s", ErrInvalidOption, o.Encoding)
	}
	if o.Display > render.Invalid {
		return fmt.Errorf("%w: unknown display mode %s", ErrInvalidOption, o.Display)
	}
	return nil
}

// unicodeAware reports whether multi-byte UTF-8 sequences are decoded.
// Any mode other than Default implies 8-bit encoding.
func (o Options) unicodeAware() bool {
	return o.Display != render.Default
}

func (o Options) prefix() render.Prefix {
	return render.Prefix{
		FileName: o.PrintFileName,
		Offset:   o.PrintOffset,
		Radix:    o.Radix,
	}
}

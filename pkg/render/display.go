package render

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// DisplayMode controls how multi-byte UTF-8 characters are printed.
type DisplayMode uint8

const (
	// Default applies no UTF-8 handling; bytes are classified one by one.
	Default DisplayMode = iota
	// Show prints the raw bytes as a bracketed list of decimal values.
	Show
	// Escape prints \u escapes.
	Escape
	// Hex prints <0x..> byte sequences.
	Hex
	// Highlight prints colored \u escapes on terminals.
	Highlight
	// Invalid treats valid multi-byte sequences as non-graphic.
	Invalid
)

const (
	highlightOn  = "\x1b[31;47m"
	highlightOff = "\x1b[0m"
)

var (
	ErrInvalidDisplayMode = errors.New("invalid unicode display mode")
	ErrUnsupportedMode    = errors.New("display mode does not render multi-byte characters")
	ErrShortWindow        = errors.New("window shorter than its declared UTF-8 length")
)

var displayModeNames = map[string]DisplayMode{
	"default":   Default,
	"d":         Default,
	"show":      Show,
	"s":         Show,
	"locale":    Show,
	"l":         Show,
	"escape":    Escape,
	"e":         Escape,
	"hex":       Hex,
	"x":         Hex,
	"highlight": Highlight,
	"h":         Highlight,
	"invalid":   Invalid,
	"i":         Invalid,
}

// ParseDisplayMode accepts the long and one-letter names of a mode.
func ParseDisplayMode(s string) (DisplayMode, error) {
	if m, ok := displayModeNames[strings.ToLower(s)]; ok {
		return m, nil
	}
	return Default, fmt.Errorf("%w: %q (valid values are default, show, invalid, hex, escape, highlight)", ErrInvalidDisplayMode, s)
}

func (m DisplayMode) String() string {
	switch m {
	case Default:
		return "default"
	case Show:
		return "show"
	case Escape:
		return "escape"
	case Hex:
		return "hex"
	case Highlight:
		return "highlight"
	case Invalid:
		return "invalid"
	default:
		return fmt.Sprintf("DisplayMode(%d)", uint8(m))
	}
}

// Formatter renders validated multi-byte UTF-8 characters.
// Color is only honored by Highlight and should be set when the output is a terminal.
type Formatter struct {
	Mode  DisplayMode
	Color bool
}

// Display writes the character starting window and returns its length in
// bytes as declared by the lead byte.
func (f Formatter) Display(w io.Writer, window []byte) (int, error) {
	if len(window) == 0 {
		return 0, ErrShortWindow
	}
	n := declaredLength(window[0])
	if len(window) < n {
		return 0, fmt.Errorf("%w: need %d bytes, have %d", ErrShortWindow, n, len(window))
	}
	seq := window[:n]

	var err error
	switch f.Mode {
	case Escape:
		err = writeEscape(w, seq)
	case Highlight:
		if f.Color {
			if _, err = io.WriteString(w, highlightOn); err != nil {
				return 0, err
			}
		}
		if err = writeEscape(w, seq); err != nil {
			return 0, err
		}
		if f.Color {
			_, err = io.WriteString(w, highlightOff)
		}
	case Hex:
		_, err = fmt.Fprintf(w, "<0x%x>", seq)
	case Show:
		err = writeList(w, seq)
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedMode, f.Mode)
	}
	if err != nil {
		return 0, err
	}
	return n, nil
}

// writeEscape reassembles the payload bits into two-digit hex groups with
// byte-wide arithmetic. Four-byte sequences therefore lose their top bits and
// U+10348 prints as \u040348, the output GNU strings produces.
func writeEscape(w io.Writer, seq []byte) error {
	var err error
	switch len(seq) {
	case 2:
		_, err = fmt.Fprintf(w, "\\u%02x%02x",
			(seq[0]&0x1c)>>2,
			(seq[0]&0x03)<<6|seq[1]&0x3f)
	case 3:
		_, err = fmt.Fprintf(w, "\\u%02x%02x",
			(seq[0]&0x0f)<<4|(seq[1]&0x3c)>>2,
			(seq[1]&0x03)<<6|seq[2]&0x3f)
	default:
		_, err = fmt.Fprintf(w, "\\u%02x%02x%02x",
			(seq[0]&0x07)<<6|(seq[1]&0x3c)>>2,
			(seq[1]&0x03)<<6|(seq[2]&0x3c)>>2,
			(seq[2]&0x03)<<6|seq[3]&0x3f)
	}
	return err
}

func writeList(w io.Writer, seq []byte) error {
	buf := make([]byte, 0, 2+5*len(seq))
	buf = append(buf, '[')
	for i, b := range seq {
		if i > 0 {
			buf = append(buf, ", "...)
		}
		buf = strconv.AppendUint(buf, uint64(b), 10)
	}
	buf = append(buf, ']')
	_, err := w.Write(buf)
	return err
}

package symbol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsPrintable_GraphicRange(t *testing.T) {
	for v := uint32(' '); v <= '~'; v++ {
		assert.True(t, IsPrintable(v, Bit7, false), "0x%02x should be printable", v)
	}
	for v := uint32(0); v < ' '; v++ {
		if v == '\t' {
			continue
		}
		assert.False(t, IsPrintable(v, Bit7, false), "0x%02x should not be printable", v)
	}
	assert.False(t, IsPrintable(0x7f, Bit7, false))
	assert.False(t, IsPrintable(0x7f, Bit8, false))
}

func TestIsPrintable_Whitespace(t *testing.T) {
	for _, c := range []uint32{'\n', '\f', '\r', '\v'} {
		assert.True(t, IsPrintable(c, Bit7, true), "0x%02x with all whitespace", c)
		assert.False(t, IsPrintable(c, Bit7, false), "0x%02x without all whitespace", c)
	}
	assert.True(t, IsPrintable('\t', Bit7, false), "tab is always printable")
}

func TestIsPrintable_HighBytes(t *testing.T) {
	for v := uint32(0x80); v <= 0xff; v++ {
		assert.False(t, IsPrintable(v, Bit7, false))
		assert.True(t, IsPrintable(v, Bit8, false))
		assert.False(t, IsPrintable(v, BigEndian16, false))
	}
}

func TestIsPrintable_WideValues(t *testing.T) {
	assert.False(t, IsPrintable(0x100, Bit8, false))
	assert.False(t, IsPrintable(0x6100, LittleEndian16, true))
	assert.False(t, IsPrintable(0x61000000, BigEndian32, false))
}

func TestParseEncoding(t *testing.T) {
	tests := []struct {
		input    string
		expected Encoding
		width    int
	}{
		{"s", Bit7, 1},
		{"S", Bit8, 1},
		{"b", BigEndian16, 2},
		{"l", LittleEndian16, 2},
		{"B", BigEndian32, 4},
		{"L", LittleEndian32, 4},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			enc, err := ParseEncoding(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, enc)
			assert.Equal(t, tt.width, enc.Width())
			assert.Equal(t, tt.input, enc.String())
		})
	}

	_, err := ParseEncoding("x")
	assert.ErrorIs(t, err, ErrInvalidEncoding)
	_, err = ParseEncoding("")
	assert.ErrorIs(t, err, ErrInvalidEncoding)
}

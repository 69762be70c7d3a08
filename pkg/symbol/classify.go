package symbol

// IsPrintable reports whether a symbol value counts as part of a string.
// Tab and the ASCII graphic range always qualify, bytes above 0x7F only for
// Bit8, and the remaining ASCII whitespace only when includeAllWhitespace is set.
func IsPrintable(v uint32, enc Encoding, includeAllWhitespace bool) bool {
	if v > 0xff {
		return false
	}

	switch {
	case v == '\t':
		return true
	case v >= 0x20 && v <= 0x7e:
		return true
	case enc == Bit8 && v > 0x7f:
		return true
	case includeAllWhitespace && isSpace(byte(v)):
		return true
	}
	return false
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

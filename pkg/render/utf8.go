package render

// UTF8Length returns the length of the multi-byte UTF-8 sequence starting
// window, or 0 when window does not start a complete 2, 3 or 4 byte sequence.
// ASCII bytes are never reported; callers handle them separately.
func UTF8Length(window []byte) int {
	if len(window) == 0 || window[0] < 0xc0 {
		return 0
	}

	lead := window[0]
	for i := 1; i < len(window) && i < 4; i++ {
		if window[i]&0xc0 != 0x80 {
			return 0
		}
		switch {
		case i == 1 && lead&0x20 == 0:
			return 2
		case i == 2 && lead&0x10 == 0:
			return 3
		case i == 3:
			return 4
		}
	}
	return 0
}

// declaredLength derives the sequence length from the lead byte alone.
func declaredLength(lead byte) int {
	switch lead & 0x30 {
	case 0x00, 0x10:
		return 2
	case 0x20:
		return 3
	default:
		return 4
	}
}

package format

import (
	"bytes"
	"strconv"
	"unicode/utf16"
	"unicode/utf8"
)

// unescapeNonASCII rewrites \uXXXX escapes inside JSON strings as raw UTF-8
// when the code point is at or above U+0080. Surrogate pairs collapse to one
// code point. Lone surrogates, control characters, quotes and backslashes stay
// escaped. Input must be valid JSON.
func unescapeNonASCII(input []byte) []byte {
	if !bytes.Contains(input, []byte(`\u`)) {
		return input
	}

	out := make([]byte, 0, len(input))
	inString := false
	for i := 0; i < len(input); i++ {
		c := input[i]
		if !inString {
			if c == '"' {
				inString = true
			}
			out = append(out, c)
			continue
		}

		switch c {
		case '"':
			inString = false
			out = append(out, c)
		case '\\':
			if r, n := decodeEscape(input[i:]); n > 0 && r >= utf8.RuneSelf {
				out = utf8.AppendRune(out, r)
				i += n - 1
				continue
			}
			// keep the pair together so \\ and \" never end the scan early
			out = append(out, c)
			if i+1 < len(input) {
				i++
				out = append(out, input[i])
			}
		default:
			out = append(out, c)
		}
	}
	return out
}

// decodeEscape reads a \uXXXX escape, or a \uD8XX\uDCXX surrogate pair, at the
// start of b. It returns the rune and the bytes consumed, or 0 bytes when b
// does not start with a complete escape.
func decodeEscape(b []byte) (rune, int) {
	r1, ok := hexEscape(b)
	if !ok {
		return 0, 0
	}
	if !utf16.IsSurrogate(r1) {
		return r1, 6
	}
	r2, ok := hexEscape(b[6:])
	if !ok {
		return 0, 0
	}
	r := utf16.DecodeRune(r1, r2)
	if r == utf8.RuneError {
		return 0, 0
	}
	return r, 12
}

func hexEscape(b []byte) (rune, bool) {
	if len(b) < 6 || b[0] != '\\' || b[1] != 'u' {
		return 0, false
	}
	v, err := strconv.ParseUint(string(b[2:6]), 16, 32)
	if err != nil {
		return 0, false
	}
	return rune(v), true
}

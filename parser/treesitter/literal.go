package treesitter

import (
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// numberValue decodes a numeric literal. For BigInt literals it returns the digits in the second value.
func numberValue(raw string) (float64, string) {
	s := strings.ReplaceAll(raw, "_", "")
	if strings.HasSuffix(s, "n") {
		return 0, strings.TrimSuffix(s, "n")
	}
	if len(s) > 2 && s[0] == '0' {
		base := 0
		switch s[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			v, _ := strconv.ParseUint(s[2:], base, 64)
			return float64(v), ""
		}
	}
	if len(s) > 1 && s[0] == '0' && strings.Trim(s[1:], "01234567") == "" {
		// legacy octal
		v, _ := strconv.ParseUint(s[1:], 8, 64)
		return float64(v), ""
	}
	v, _ := strconv.ParseFloat(s, 64)
	return v, ""
}

func hexValue(s string) (rune, bool) {
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, false
	}
	return rune(v), true
}

// unescape decodes escape sequences of string and template literals.
func unescape(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	var buf strings.Builder
	buf.Grow(len(s))
	var high rune // pending high surrogate
	flush := func() {
		if high != 0 {
			buf.WriteRune(utf8.RuneError)
			high = 0
		}
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 >= len(s) {
			flush()
			buf.WriteByte(c)
			continue
		}
		i++
		var r rune = -1
		switch e := s[i]; e {
		case 'n':
			r = '\n'
		case 'r':
			r = '\r'
		case 't':
			r = '\t'
		case 'b':
			r = '\b'
		case 'f':
			r = '\f'
		case 'v':
			r = '\v'
		case '0':
			r = 0
		case '\r':
			// line continuation
			if i+1 < len(s) && s[i+1] == '\n' {
				i++
			}
			continue
		case '\n':
			continue
		case 'x':
			if i+2 < len(s) {
				if v, ok := hexValue(s[i+1 : i+3]); ok {
					r = v
					i += 2
				}
			}
		case 'u':
			if i+1 < len(s) && s[i+1] == '{' {
				if end := strings.IndexByte(s[i:], '}'); end > 0 {
					if v, ok := hexValue(s[i+2 : i+end]); ok {
						r = v
						i += end
					}
				}
			} else if i+4 < len(s) {
				if v, ok := hexValue(s[i+1 : i+5]); ok {
					r = v
					i += 4
				}
			}
		default:
			flush()
			buf.WriteByte(e)
			continue
		}
		if r < 0 {
			flush()
			buf.WriteByte(s[i])
			continue
		}
		switch {
		case utf16.IsSurrogate(r) && r < 0xDC00:
			flush()
			high = r
			continue
		case utf16.IsSurrogate(r) && high != 0:
			buf.WriteRune(utf16.DecodeRune(high, r))
			high = 0
			continue
		}
		flush()
		buf.WriteRune(r)
	}
	flush()
	return buf.String()
}

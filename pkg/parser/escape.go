package parser

import (
	"errors"
	"strconv"
	"strings"
	"unicode/utf8"
)

var errBadEscape = errors.New("bad escape")

// unescape decodes the escape sequences of a string or template chunk. Unknown
// escapes stand for the escaped character itself and an escaped line break is a
// line continuation.
func unescape(s string) (string, error) {
	if !strings.ContainsRune(s, '\\') {
		return s, nil
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		c := s[i]
		if c != '\\' {
			b.WriteByte(c)
			i++
			continue
		}
		if i+1 >= len(s) {
			return "", errBadEscape
		}
		i++
		switch e := s[i]; e {
		case 'n':
			b.WriteByte('\n')
			i++
		case 't':
			b.WriteByte('\t')
			i++
		case 'r':
			b.WriteByte('\r')
			i++
		case 'b':
			b.WriteByte('\b')
			i++
		case 'f':
			b.WriteByte('\f')
			i++
		case 'v':
			b.WriteByte('\v')
			i++
		case '0':
			if i+1 < len(s) && s[i+1] >= '0' && s[i+1] <= '9' {
				return "", errBadEscape
			}
			b.WriteByte(0)
			i++
		case '\n':
			i++
		case '\r':
			i++
			if i < len(s) && s[i] == '\n' {
				i++
			}
		case 'x':
			r, n, err := hexRune(s[i+1:], 2)
			if err != nil {
				return "", err
			}
			b.WriteRune(r)
			i += 1 + n
		case 'u':
			var (
				r   rune
				n   int
				err error
			)
			if i+1 < len(s) && s[i+1] == '{' {
				end := strings.IndexByte(s[i+2:], '}')
				if end <= 0 {
					return "", errBadEscape
				}
				r, _, err = hexRune(s[i+2:i+2+end], end)
				n = end + 2
			} else {
				r, n, err = hexRune(s[i+1:], 4)
			}
			if err != nil || r > utf8.MaxRune {
				return "", errBadEscape
			}
			b.WriteRune(r)
			i += 1 + n
		default:
			r, size := utf8.DecodeRuneInString(s[i:])
			b.WriteRune(r)
			i += size
		}
	}
	return b.String(), nil
}

func hexRune(s string, digits int) (rune, int, error) {
	if len(s) < digits {
		return 0, 0, errBadEscape
	}
	v, err := strconv.ParseUint(s[:digits], 16, 32)
	if err != nil {
		return 0, 0, errBadEscape
	}
	return rune(v), digits, nil
}

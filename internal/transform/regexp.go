package transform

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

const (
	// what `.` matches under the u flag, spelled without it
	unicodeDot       = `(?:[\0-\t\x0B\f\x0E-\u2027\u202A-\uD7FF\uE000-\uFFFF]|[\uD800-\uDBFF][\uDC00-\uDFFF]|[\uD800-\uDBFF](?![\uDC00-\uDFFF])|(?:[^\uD800-\uDBFF]|^)[\uDC00-\uDFFF])`
	unicodeDotAll    = `(?:[\0-\uD7FF\uE000-\uFFFF]|[\uD800-\uDBFF][\uDC00-\uDFFF]|[\uD800-\uDBFF](?![\uDC00-\uDFFF])|(?:[^\uD800-\uDBFF]|^)[\uDC00-\uDFFF])`
	surrogatePair    = `[\uD800-\uDBFF][\uDC00-\uDFFF]`
	loneSurrogate    = `[\uD800-\uDFFF]`
	surrogateExclude = `\uD800-\uDFFF`
)

var errUnterminatedEscape = errors.New("unterminated \\u{...} escape")

// rewriteUnicodePattern rewrites a pattern written for the u flag into one
// with the same meaning without it: code point escapes and astral symbols
// become surrogate pairs, `.` and negated classes learn to step over a
// whole pair. Patterns whose meaning cannot be kept are rejected.
func rewriteUnicodePattern(pattern, flags string) (string, error) {
	dot := unicodeDot
	if strings.Contains(flags, "s") {
		dot = unicodeDotAll
	}

	var out strings.Builder
	inClass := false
	negated := false

	for i := 0; i < len(pattern); {
		r, size := utf8.DecodeRuneInString(pattern[i:])

		switch {
		case r == '\\':
			if i+1 >= len(pattern) {
				return "", errors.New("pattern ends with a lone backslash")
			}
			next := pattern[i+1]
			switch next {
			case 'u':
				cp, n, err := parseUnicodeEscape(pattern[i:])
				if err != nil {
					return "", err
				}
				if cp > 0xFFFF && inClass {
					return "", fmt.Errorf("astral symbol \\u{%X} in a character class is not supported", cp)
				}
				out.WriteString(codeUnits(rune(cp)))
				i += n
				continue
			case 'p', 'P':
				return "", errors.New("unicode property escapes are not supported")
			}
			out.WriteString(pattern[i : i+2])
			i += 2
			continue

		case inClass && r == ']':
			inClass = false
			if negated {
				out.WriteString(surrogateExclude + "]|" + surrogatePair + "|" + loneSurrogate + ")")
			} else {
				out.WriteByte(']')
			}

		case !inClass && r == '[':
			inClass = true
			negated = strings.HasPrefix(pattern[i+1:], "^")
			if negated {
				out.WriteString("(?:[^")
				i += 2
				continue
			}
			out.WriteByte('[')

		case !inClass && r == '.':
			out.WriteString(dot)

		case r > 0xFFFF:
			if inClass {
				return "", fmt.Errorf("astral symbol %q in a character class is not supported", r)
			}
			out.WriteString(codeUnits(r))

		default:
			out.WriteString(pattern[i : i+size])
		}
		i += size
	}

	if inClass {
		return "", errors.New("unterminated character class")
	}
	return out.String(), nil
}

// parseUnicodeEscape reads `\uXXXX`, `\uXXXX\uXXXX` (a surrogate pair) or
// `\u{X...}` at the start of s and returns the code point and the bytes
// consumed.
func parseUnicodeEscape(s string) (int, int, error) {
	if strings.HasPrefix(s, `\u{`) {
		end := strings.IndexByte(s, '}')
		if end < 0 {
			return 0, 0, errUnterminatedEscape
		}
		cp, err := strconv.ParseUint(s[3:end], 16, 32)
		if err != nil || cp > utf8.MaxRune {
			return 0, 0, fmt.Errorf("invalid code point escape %s", s[:end+1])
		}
		return int(cp), end + 1, nil
	}

	hi, ok := hex4(s[2:])
	if !ok {
		// identity escape of `u`, left alone
		return 'u', 2, nil
	}
	if utf16.IsSurrogate(rune(hi)) && hi < 0xDC00 && strings.HasPrefix(s[6:], `\u`) {
		if lo, ok := hex4(s[8:]); ok && lo >= 0xDC00 && lo <= 0xDFFF {
			return int(utf16.DecodeRune(rune(hi), rune(lo))), 12, nil
		}
	}
	return hi, 6, nil
}

func hex4(s string) (int, bool) {
	if len(s) < 4 {
		return 0, false
	}
	v, err := strconv.ParseUint(s[:4], 16, 32)
	if err != nil {
		return 0, false
	}
	return int(v), true
}

// codeUnits spells r as \u escapes; astral symbols become a grouped
// surrogate pair so a following quantifier applies to the whole symbol.
func codeUnits(r rune) string {
	if r <= 0xFFFF {
		return fmt.Sprintf(`\u%04X`, r)
	}
	hi, lo := utf16.EncodeRune(r)
	return fmt.Sprintf(`(?:\u%04X\u%04X)`, hi, lo)
}

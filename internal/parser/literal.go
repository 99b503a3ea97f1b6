package parser

import (
	"math"
	"math/big"
	"strconv"
	"strings"
	"unicode/utf8"
)

// cookString decodes the escape sequences of a string or template body.
// ok is false when the body holds an escape that is invalid in a template
// (the cooked value of such a quasi is undefined).
func cookString(raw string, template bool) (string, bool) {
	if !strings.ContainsRune(raw, '\\') && (!template || !strings.ContainsRune(raw, '\r')) {
		return raw, true
	}
	var sb strings.Builder
	sb.Grow(len(raw))
	ok := true
	for i := 0; i < len(raw); {
		ch := raw[i]
		if ch == '\r' && template {
			sb.WriteByte('\n')
			i++
			if i < len(raw) && raw[i] == '\n' {
				i++
			}
			continue
		}
		if ch != '\\' || i+1 >= len(raw) {
			sb.WriteByte(ch)
			i++
			continue
		}
		i++
		esc := raw[i]
		i++
		switch esc {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case 'r':
			sb.WriteByte('\r')
		case 'b':
			sb.WriteByte('\b')
		case 'f':
			sb.WriteByte('\f')
		case 'v':
			sb.WriteByte('\v')
		case '\r':
			if i < len(raw) && raw[i] == '\n' {
				i++
			}
		case '\n':
			// продолжение строки
		case 'x':
			if i+2 <= len(raw) {
				if v, err := strconv.ParseUint(raw[i:i+2], 16, 8); err == nil {
					sb.WriteRune(rune(v))
					i += 2
					continue
				}
			}
			ok = false
			sb.WriteByte('x')
		case 'u':
			r, n := decodeUnicodeEscape(raw[i:])
			if n == 0 {
				ok = false
				sb.WriteByte('u')
				continue
			}
			i += n
			// суррогатная пара из двух \u escape
			if r >= 0xD800 && r <= 0xDBFF && strings.HasPrefix(raw[i:], `\u`) {
				if lo, m := decodeUnicodeEscape(raw[i+2:]); m > 0 && lo >= 0xDC00 && lo <= 0xDFFF {
					r = (r-0xD800)<<10 + (lo - 0xDC00) + 0x10000
					i += 2 + m
				}
			}
			sb.WriteRune(r)
		case '0', '1', '2', '3', '4', '5', '6', '7':
			if template && !(esc == '0' && (i >= len(raw) || raw[i] < '0' || raw[i] > '9')) {
				ok = false
			}
			j := i - 1
			end := j + 1
			limit := 3
			if esc > '3' {
				limit = 2
			}
			for end < len(raw) && end-j < limit && raw[end] >= '0' && raw[end] <= '7' {
				end++
			}
			v, _ := strconv.ParseUint(raw[j:end], 8, 16)
			sb.WriteRune(rune(v))
			i = end
		default:
			// любой другой символ экранирует сам себя
			r, size := utf8.DecodeRuneInString(raw[i-1:])
			sb.WriteRune(r)
			i += size - 1
		}
	}
	return sb.String(), ok
}

// decodeUnicodeEscape decodes the part after `\u`: either four hex digits
// or a braced code point. n is the number of bytes consumed, 0 on error.
func decodeUnicodeEscape(s string) (rune, int) {
	if strings.HasPrefix(s, "{") {
		end := strings.IndexByte(s, '}')
		if end < 2 {
			return 0, 0
		}
		v, err := strconv.ParseUint(s[1:end], 16, 32)
		if err != nil || v > utf8.MaxRune {
			return 0, 0
		}
		return rune(v), end + 1
	}
	if len(s) < 4 {
		return 0, 0
	}
	v, err := strconv.ParseUint(s[:4], 16, 32)
	if err != nil {
		return 0, 0
	}
	return rune(v), 4
}

// numberValue evaluates a numeric literal and renders the result the way
// JavaScript's String(number) does. BigInt literals return their digits.
func numberValue(raw string) (string, bool) {
	s := strings.ReplaceAll(raw, "_", "")
	if strings.HasSuffix(s, "n") {
		s = strings.TrimSuffix(s, "n")
		v, ok := new(big.Int).SetString(s, 0)
		if !ok {
			return raw, true
		}
		return v.String(), true
	}

	var f float64
	lower := strings.ToLower(s)
	switch {
	case strings.HasPrefix(lower, "0x"), strings.HasPrefix(lower, "0o"), strings.HasPrefix(lower, "0b"):
		v, ok := new(big.Int).SetString(lower, 0)
		if !ok {
			return raw, false
		}
		f, _ = new(big.Float).SetInt(v).Float64()
	case len(s) > 1 && s[0] == '0' && isOctalDigits(s[1:]):
		v, err := strconv.ParseUint(s[1:], 8, 64)
		if err != nil {
			return raw, false
		}
		f = float64(v)
	default:
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return raw, false
		}
		f = v
	}
	return formatNumber(f), false
}

func isOctalDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '7' {
			return false
		}
	}
	return s != ""
}

func formatNumber(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsNaN(f):
		return "NaN"
	case f == math.Trunc(f) && math.Abs(f) < 1e21:
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	abs := math.Abs(f)
	if abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	s := strconv.FormatFloat(f, 'e', -1, 64)
	// 1e+21 остаётся, а 1e-07 → 1e-7
	mant, exp, _ := strings.Cut(s, "e")
	sign := exp[:1]
	digits := strings.TrimLeft(exp[1:], "0")
	return mant + "e" + sign + digits
}

package transform

import (
	"bytes"
	"encoding/json"
	"math"
	"math/big"
	"strconv"
	"strings"

	"buble/internal/ast"
)

// jsonString quotes s the way JSON.stringify does, without escaping HTML
// characters.
func jsonString(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return strconv.Quote(s)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

// literalString is the string value of a literal key: the content of a
// string and the canonical spelling of a number.
func (p *program) literalString(id ast.NodeID) string {
	lit := ast.As[*ast.Lit](p.tree, id)
	if lit == nil {
		return p.text(id)
	}
	switch lit.Kind {
	case ast.LitString:
		return lit.Value
	case ast.LitNumber:
		return jsNumberString(lit.Raw)
	}
	return lit.Raw
}

// jsNumberString converts the source spelling of a numeric literal to the
// string JavaScript would print for its value.
func jsNumberString(raw string) string {
	clean := strings.ReplaceAll(raw, "_", "")
	lower := strings.ToLower(clean)

	base := 0
	digits := clean
	switch {
	case strings.HasPrefix(lower, "0x"):
		base, digits = 16, clean[2:]
	case strings.HasPrefix(lower, "0o"):
		base, digits = 8, clean[2:]
	case strings.HasPrefix(lower, "0b"):
		base, digits = 2, clean[2:]
	case len(clean) > 1 && clean[0] == '0' && strings.Trim(clean, "01234567") == "":
		// legacy octal
		base, digits = 8, clean[1:]
	}

	if base != 0 {
		n, ok := new(big.Int).SetString(digits, base)
		if !ok {
			return raw
		}
		f, _ := new(big.Float).SetInt(n).Float64()
		return formatJSNumber(f)
	}

	f, err := strconv.ParseFloat(clean, 64)
	if err != nil && !math.IsInf(f, 0) {
		return raw
	}
	return formatJSNumber(f)
}

// formatJSNumber implements Number.prototype.toString for base 10.
func formatJSNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	case f < 0:
		return "-" + formatJSNumber(-f)
	}

	// shortest round-tripping digits and the decimal exponent
	e := strconv.FormatFloat(f, 'e', -1, 64)
	mant, expPart, _ := strings.Cut(e, "e")
	digits := strings.Replace(mant, ".", "", 1)
	exp, _ := strconv.Atoi(expPart)
	k := len(digits)
	n := exp + 1

	switch {
	case k <= n && n <= 21:
		return digits + strings.Repeat("0", n-k)
	case 0 < n && n <= 21:
		return digits[:n] + "." + digits[n:]
	case -6 < n && n <= 0:
		return "0." + strings.Repeat("0", -n) + digits
	}

	sign := "+"
	if n-1 < 0 {
		sign = "-"
	}
	abs := n - 1
	if abs < 0 {
		abs = -abs
	}
	if k == 1 {
		return digits + "e" + sign + strconv.Itoa(abs)
	}
	return digits[:1] + "." + digits[1:] + "e" + sign + strconv.Itoa(abs)
}

package lexer

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// coerceNumber applies the lenient string-to-number grammar used to decide
// whether a scanned run is a NUMBER:
//
//   - surrounding whitespace is ignored, and an empty remainder is 0
//   - Infinity, +Infinity, -Infinity
//   - an optionally signed decimal with optional fraction and exponent
//     (1, 1.5, .5, 5., 1e9, 2E-3)
//   - 0x, 0o and 0b prefixed unsigned integers, either case
//
// Anything else is not a number.
func coerceNumber(text string) (float64, bool) {
	s := strings.TrimFunc(text, isNumericSpace)
	if s == "" {
		return 0, true
	}

	switch s {
	case "Infinity", "+Infinity":
		return math.Inf(1), true
	case "-Infinity":
		return math.Inf(-1), true
	}

	if len(s) > 2 && s[0] == '0' {
		switch s[1] {
		case 'x', 'X':
			return radixValue(s[2:], 16)
		case 'o', 'O':
			return radixValue(s[2:], 8)
		case 'b', 'B':
			return radixValue(s[2:], 2)
		}
	}

	if !isDecimalLiteral(s) {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	return v, true
}

// isDecimalLiteral matches [+-]? (digits [. digits?] | . digits) ([eE] [+-]? digits)?
func isDecimalLiteral(s string) bool {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	intDigits := countDigits(s[i:])
	i += intDigits
	fracDigits := 0
	if i < len(s) && s[i] == '.' {
		i++
		fracDigits = countDigits(s[i:])
		i += fracDigits
	}
	if intDigits == 0 && fracDigits == 0 {
		return false
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			i++
		}
		exp := countDigits(s[i:])
		if exp == 0 {
			return false
		}
		i += exp
	}
	return i == len(s)
}

func countDigits(s string) int {
	n := 0
	for n < len(s) && isDigit(s[n]) {
		n++
	}
	return n
}

// radixValue accumulates digits into a float64 so that values wider than
// 64 bits still coerce, as the decimal form does.
func radixValue(digits string, base int) (float64, bool) {
	var v float64
	for i := 0; i < len(digits); i++ {
		d, ok := hexValue(digits[i])
		if !ok || int(d) >= base {
			return 0, false
		}
		v = v*float64(base) + float64(d)
	}
	return v, true
}

// isNumericSpace reports the whitespace the numeric grammar trims: Unicode
// White_Space plus the byte order mark, excluding NEL.
func isNumericSpace(r rune) bool {
	if r == '\uFEFF' {
		return true
	}
	return r != '\u0085' && unicode.IsSpace(r)
}

package lexer

import (
	"fmt"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// ScanReason classifies a string literal scan failure.
type ScanReason int

const (
	UnterminatedString ScanReason = iota
	TrailingBackslash
	InvalidHexDigit
	UnterminatedCodePoint
	CodePointRange
)

var scanMessages = map[ScanReason]string{
	UnterminatedString:    "unterminated string literal",
	TrailingBackslash:     "unexpected end of input after '\\'",
	InvalidHexDigit:       "invalid hexadecimal digit in escape sequence",
	UnterminatedCodePoint: "unterminated \\u{...} escape",
	CodePointRange:        "code point out of range in \\u{...} escape",
}

// Code returns the stable diagnostic code for the reason.
func (r ScanReason) Code() string {
	return fmt.Sprintf("E10%02d", int(r)+1)
}

// ScanError reports a malformed string literal. It is a lexer failure, not a
// diagnostic; callers decide how to surface it.
type ScanError struct {
	Reason ScanReason
	Start  int // offset of the opening quote
	Offset int // offset where scanning failed
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("%s at offset %d", scanMessages[e.Reason], e.Offset)
}

// Message returns the failure description without location.
func (e *ScanError) Message() string {
	return scanMessages[e.Reason]
}

// scanString decodes the literal whose opening quote is at src[start]. It
// returns the decoded value and the offset just past the closing quote.
func scanString(src string, start int) (string, int, *ScanError) {
	quote := src[start]
	fail := func(reason ScanReason, at int) (string, int, *ScanError) {
		return "", at, &ScanError{Reason: reason, Start: start, Offset: at}
	}

	var b strings.Builder
	i := start + 1
	for {
		if i >= len(src) {
			return fail(UnterminatedString, i)
		}
		ch := src[i]
		if ch == quote {
			return b.String(), i + 1, nil
		}
		if ch != '\\' {
			b.WriteByte(ch)
			i++
			continue
		}

		i++ // backslash
		if i >= len(src) {
			return fail(TrailingBackslash, i)
		}
		esc := src[i]
		i++
		switch esc {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case 'x':
			v, next, err := fixedHex(src, i, 2)
			if err != nil {
				return fail(err.Reason, err.Offset)
			}
			b.WriteRune(v)
			i = next
		case 'u':
			if i < len(src) && src[i] == '{' {
				v, next, err := bracedHex(src, i+1)
				if err != nil {
					return fail(err.Reason, err.Offset)
				}
				b.WriteRune(v)
				i = next
				continue
			}
			unit, next, err := fixedHex(src, i, 4)
			if err != nil {
				return fail(err.Reason, err.Offset)
			}
			i = next
			// a surrogate pair spelled as two escapes decodes to one code point
			if utf16.IsSurrogate(unit) && strings.HasPrefix(src[i:], `\u`) {
				if low, after, err := fixedHex(src, i+2, 4); err == nil {
					if r := utf16.DecodeRune(unit, low); r != utf8.RuneError {
						b.WriteRune(r)
						i = after
						continue
					}
				}
			}
			b.WriteRune(unit)
		default:
			// \\ \" \' and every unknown escape copy the character through
			r, size := utf8.DecodeRuneInString(src[i-1:])
			b.WriteRune(r)
			i += size - 1
		}
	}
}

// fixedHex decodes exactly n hex digits at src[i:].
func fixedHex(src string, i, n int) (rune, int, *ScanError) {
	var v rune
	for k := 0; k < n; k++ {
		if i >= len(src) {
			return 0, i, &ScanError{Reason: UnterminatedString, Offset: i}
		}
		d, ok := hexValue(src[i])
		if !ok {
			return 0, i, &ScanError{Reason: InvalidHexDigit, Offset: i}
		}
		v = v<<4 | d
		i++
	}
	return v, i, nil
}

// bracedHex decodes one or more hex digits terminated by '}' at src[i:].
func bracedHex(src string, i int) (rune, int, *ScanError) {
	var v rune
	n := 0
	for {
		if i >= len(src) {
			return 0, i, &ScanError{Reason: UnterminatedCodePoint, Offset: i}
		}
		if src[i] == '}' && n > 0 {
			if v > utf8.MaxRune {
				return 0, i, &ScanError{Reason: CodePointRange, Offset: i}
			}
			return v, i + 1, nil
		}
		d, ok := hexValue(src[i])
		if !ok {
			return 0, i, &ScanError{Reason: InvalidHexDigit, Offset: i}
		}
		if v > utf8.MaxRune {
			return 0, i, &ScanError{Reason: CodePointRange, Offset: i}
		}
		v = v<<4 | d
		n++
		i++
	}
}

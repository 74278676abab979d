package parser

import (
	"strconv"
	"strings"
)

// placeholderTokens are the values TAIFEX/TWSE tables publish in place of a
// number when there was no trade: an ASCII or full-width dash, or nothing.
var placeholderTokens = map[string]bool{
	"":   true,
	"-":  true,
	"—":  true,
	"－":  true,
	"--": true,
}

// IsPlaceholder reports whether a raw cell is a "no session" marker rather
// than a numeric value.
func IsPlaceholder(raw string) bool {
	return placeholderTokens[strings.TrimSpace(raw)]
}

// CleanNumber turns a locale-formatted cell ("12,345.5", " 17,850 ") into a
// float64. Placeholders and anything unparsable map to 0. It never fails;
// callers that cannot tolerate a silent zero (the OHLC path) must check
// IsPlaceholder on the raw cell first.
func CleanNumber(raw string) float64 {
	s := strings.TrimSpace(raw)
	if placeholderTokens[s] {
		return 0
	}
	s = strings.ReplaceAll(s, ",", "")
	// Tables occasionally wrap negatives in parentheses.
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		s = "-" + s[1:len(s)-1]
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

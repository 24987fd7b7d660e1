// Package money parses monetary amounts into decimals.
//
// Amounts arrive as JSON numbers, JSON strings or free text typed by a user.
// All of them go through Parse so that "12.50", "12,50" and 12.5 mean the
// same thing and anything else is rejected rather than coerced.
package money

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// Scale is the number of fractional digits kept for stored amounts.
const Scale = 2

// Max is the largest magnitude a numeric(12,2) column holds.
var Max = decimal.RequireFromString("9999999999.99")

var (
	// ErrMalformed is returned for empty, non-numeric or ambiguous amounts.
	ErrMalformed = errors.New("malformed amount")
	// ErrOutOfRange is returned for amounts whose magnitude exceeds Max.
	ErrOutOfRange = errors.New("amount out of range")
)

// Normalize rounds d half-up to Scale digits and rejects magnitudes above Max.
func Normalize(d decimal.Decimal) (decimal.Decimal, error) {
	d = d.Round(Scale)
	if d.Abs().GreaterThan(Max) {
		return decimal.Zero, ErrOutOfRange
	}
	return d, nil
}

// Parse converts a decimal string to a decimal rounded half-up to Scale digits.
// Exponent notation is not accepted in text.
// A single comma is accepted as the decimal separator. Leading signs are kept
// so callers decide which signs are legal.
func Parse(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrMalformed
	}
	if strings.Count(s, ",") > 1 || (strings.Contains(s, ",") && strings.Contains(s, ".")) {
		return decimal.Zero, ErrMalformed
	}
	s = strings.Replace(s, ",", ".", 1)

	body := strings.TrimLeft(s, "+-")
	if len(s)-len(body) > 1 || body == "" || body == "." {
		return decimal.Zero, ErrMalformed
	}
	for _, r := range body {
		if r != '.' && !unicode.IsDigit(r) {
			return decimal.Zero, ErrMalformed
		}
	}

	d, err := decimal.NewFromString(strings.TrimPrefix(s, "+"))
	if err != nil {
		return decimal.Zero, ErrMalformed
	}
	return Normalize(d)
}

// FromJSON parses a raw JSON value holding either a number or a string.
// Strings follow Parse; numbers may use any JSON number form, including
// exponents such as 5e3.
func FromJSON(raw json.RawMessage) (decimal.Decimal, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return decimal.Zero, ErrMalformed
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return decimal.Zero, ErrMalformed
		}
		return Parse(s)
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return decimal.Zero, ErrMalformed
	}
	d, err := decimal.NewFromString(n.String())
	if err != nil {
		return decimal.Zero, ErrMalformed
	}
	return Normalize(d)
}

// Sum adds amounts.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

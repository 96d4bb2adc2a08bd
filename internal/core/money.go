// Package core provides the domain model for the ledger: transactions,
// wallets, categories, budgets, and integer-cent money handling.
//
// This file contains functions for parsing monetary amounts from strings
// and converting between cents and decimal representations. All balance
// math in the rest of the codebase happens on cents; floats appear only
// at display boundaries.
package core

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// ParseDecimalToCents converts a decimal string to cents with proper rounding.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and performs
// half-up rounding on the third decimal place. The result is always non-negative
// cents. Returns an error for invalid formats, signed values, or zero amounts.
//
// Examples:
//
//	ParseDecimalToCents("12.34") -> 1234, nil
//	ParseDecimalToCents("12,34") -> 1234, nil
//	ParseDecimalToCents("12.345") -> 1234, nil (rounds down)
//	ParseDecimalToCents("12.346") -> 1235, nil (rounds up)
func ParseDecimalToCents(s string) (int64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" {
		return 0, ErrInvalidAmount
	}
	if s[0] == '+' || s[0] == '-' {
		// Sign is carried by the transaction type, never by the amount
		return 0, ErrInvalidAmount
	}

	whole, frac, _ := strings.Cut(s, ".")
	if strings.Contains(frac, ".") {
		return 0, ErrInvalidAmount
	}
	if whole == "" {
		whole = "0"
	}
	if !allDigits(whole) || !allDigits(frac) {
		return 0, ErrInvalidAmount
	}

	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	// Multiplying by 100 below must not overflow
	if units > (1<<63-1)/100 {
		return 0, ErrInvalidAmount
	}

	// First two fractional digits are cents; the third rounds half-up
	var sub int64
	switch {
	case len(frac) >= 2:
		sub = int64(frac[0]-'0')*10 + int64(frac[1]-'0')
		if len(frac) > 2 && frac[2] >= '5' {
			sub++
		}
	case len(frac) == 1:
		sub = int64(frac[0]-'0') * 10
	}

	cents := units*100 + sub
	if cents <= 0 {
		return 0, ErrInvalidAmount
	}
	return cents, nil
}

func allDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// FormatCents renders cents as a plain decimal string ("-12.34").
// Used for API responses and report output.
func FormatCents(cents int64) string {
	neg := cents < 0
	if neg {
		cents = -cents
	}
	s := strconv.FormatInt(cents/100, 10) + "." + fmt.Sprintf("%02d", cents%100)
	if neg {
		return "-" + s
	}
	return s
}

// String renders the money value as a decimal string.
func (m Money) String() string {
	return FormatCents(m.Cents)
}

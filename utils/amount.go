// Package utils provides amount conversion and form validation shared by the
// feature orchestrators.
package utils

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/arclabs/arcflow/types"
)

// ParseAmount converts a human-entered amount string into atomic units using
// the token's pinned decimals. Rejects empty, non-numeric and non-positive
// input before any network call.
func ParseAmount(value string, token types.Token) (*big.Int, error) {
	if value == "" {
		return nil, types.NewError(types.ErrCodeValidation, "amount is required", nil)
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return nil, types.NewError(types.ErrCodeValidation,
			fmt.Sprintf("amount %q is not a number", value), err)
	}
	if d.Sign() <= 0 {
		return nil, types.NewError(types.ErrCodeValidation, "amount must be positive", nil)
	}
	atomic := d.Shift(token.Decimals)
	if !atomic.IsInteger() {
		return nil, types.NewError(types.ErrCodeValidation,
			fmt.Sprintf("amount %q has more than %d decimal places", value, token.Decimals), nil)
	}
	return atomic.BigInt(), nil
}

// FormatAmount renders atomic units as a human-readable amount with the
// token's pinned decimals.
func FormatAmount(atomic *big.Int, token types.Token) string {
	if atomic == nil {
		return "0"
	}
	return decimal.NewFromBigInt(atomic, -token.Decimals).String()
}

// ParseSeconds parses a positive whole-second duration field.
func ParseSeconds(value string) (*big.Int, error) {
	if value == "" {
		return nil, types.NewError(types.ErrCodeValidation, "duration is required", nil)
	}
	d, err := decimal.NewFromString(value)
	if err != nil || !d.IsInteger() || d.Sign() <= 0 {
		return nil, types.NewError(types.ErrCodeValidation,
			fmt.Sprintf("duration %q must be a positive whole number of seconds", value), nil)
	}
	return d.BigInt(), nil
}

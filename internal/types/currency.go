package types

import (
	"strings"

	ierr "github.com/courseforge/monetize/internal/errors"
)

// DefaultCurrency is the currency assumed when a course has never picked one.
const DefaultCurrency = "inr"

// SUPPORTED_CURRENCY_CODES is the set of 3 letter ISO currency codes the
// admin console lets an institute price courses in. Symbol lookup is a
// presentation concern and lives outside the engine.
var SUPPORTED_CURRENCY_CODES = map[string]struct{}{
	"usd": {},
	"eur": {},
	"gbp": {},
	"aud": {},
	"cad": {},
	"sgd": {},
	"jpy": {},
	"inr": {},
	"brl": {},
	"mxn": {},
	"zar": {},
	"myr": {},
	"aed": {},
}

// NormalizeCurrency lower-cases a currency code for storage and comparison
func NormalizeCurrency(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

// ValidateCurrencyCode checks that the given code is a supported 3 letter
// ISO currency code
func ValidateCurrencyCode(code string) error {
	normalized := NormalizeCurrency(code)
	if _, ok := SUPPORTED_CURRENCY_CODES[normalized]; !ok {
		return ierr.NewError("invalid currency code").
			WithHint("Please provide a supported 3 letter ISO currency code").
			WithReportableDetails(map[string]any{
				"currency": code,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

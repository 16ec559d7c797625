package service

import (
	"math"

	"esekoir/internal/domain/entity"
)

const (
	squareFactor     = 1.85
	squareBuyFactor  = 1.80
	squareSellFactor = 1.90
)

// QuotedCurrencies are the currencies shown on the rate board, in display order.
var QuotedCurrencies = []string{"EUR", "USD", "GBP", "CAD", "TRY", "AED"}

// FallbackRates is served when the live rate API cannot be reached.
var FallbackRates = entity.RateTable{
	"EUR": 0.0068,
	"USD": 0.0074,
	"GBP": 0.0058,
	"CAD": 0.0101,
	"TRY": 0.24,
	"AED": 0.027,
}

// round rounds half up, so 0.5 becomes 1 and -0.5 becomes 0.
func round(x float64) float64 {
	return math.Floor(x + 0.5)
}

// OfficialRate inverts a "foreign per local" base rate into local units per
// foreign unit. A zero base yields 0. Negative bases are not rejected.
func OfficialRate(base float64) float64 {
	if base == 0 {
		return 0
	}
	return round(1 / base)
}

// DeriveSquareRates computes the parallel market quote from an official rate.
func DeriveSquareRates(official float64) entity.SquareRates {
	return entity.SquareRates{
		Square:     round(official * squareFactor),
		SquareBuy:  round(official * squareBuyFactor),
		SquareSell: round(official * squareSellFactor),
	}
}

// BuildRateEntries derives an entry per quoted currency present in table.
func BuildRateEntries(table entity.RateTable, rng RandSource) []entity.RateEntry {
	entries := make([]entity.RateEntry, 0, len(QuotedCurrencies))
	for _, code := range QuotedCurrencies {
		base, ok := table[code]
		if !ok {
			continue
		}
		official := OfficialRate(base)
		entries = append(entries, entity.RateEntry{
			Code:         code,
			OfficialRate: official,
			Derived:      DeriveSquareRates(official),
			Change24h:    perturb(rng, -1, 1),
		})
	}
	return entries
}

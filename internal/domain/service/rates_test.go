package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"esekoir/internal/domain/entity"
)

func TestDeriveSquareRatesOrdering(t *testing.T) {
	// From 20 up the spread between factors exceeds one unit, so rounding
	// cannot merge neighbours.
	for _, official := range []float64{20, 25, 30, 99, 135, 147, 250, 1000} {
		r := DeriveSquareRates(official)
		assert.Less(t, r.SquareBuy, r.Square, "official %v", official)
		assert.Less(t, r.Square, r.SquareSell, "official %v", official)
		assert.Equal(t, round(official*1.80), r.SquareBuy)
		assert.Equal(t, round(official*1.85), r.Square)
		assert.Equal(t, round(official*1.90), r.SquareSell)
	}
}

func TestDeriveSquareRatesSmallRatesMayTie(t *testing.T) {
	for _, official := range []float64{1, 2, 7, 10} {
		r := DeriveSquareRates(official)
		assert.LessOrEqual(t, r.SquareBuy, r.Square)
		assert.LessOrEqual(t, r.Square, r.SquareSell)
	}
}

func TestDeriveSquareRatesKnownValue(t *testing.T) {
	r := DeriveSquareRates(147)
	assert.Equal(t, entity.SquareRates{Square: 272, SquareBuy: 265, SquareSell: 279}, r)
}

func TestOfficialRate(t *testing.T) {
	assert.Equal(t, float64(147), OfficialRate(0.0068))
	assert.Equal(t, float64(135), OfficialRate(0.0074))
	assert.Equal(t, float64(4), OfficialRate(0.24))
	assert.Equal(t, float64(0), OfficialRate(0))
	assert.Equal(t, float64(-4), OfficialRate(-0.25))
}

func TestBuildRateEntriesSkipsMissing(t *testing.T) {
	entries := BuildRateEntries(entity.RateTable{"USD": 0.0074, "JPY": 1.1}, nil)
	if assert.Len(t, entries, 1) {
		assert.Equal(t, "USD", entries[0].Code)
		assert.Equal(t, float64(135), entries[0].OfficialRate)
		assert.Zero(t, entries[0].Change24h)
	}
}

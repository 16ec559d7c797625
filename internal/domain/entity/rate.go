package entity

// SquareRates is the parallel ("square") market quote derived from an official rate.
type SquareRates struct {
	Square     float64 `json:"square"`
	SquareBuy  float64 `json:"square_buy"`
	SquareSell float64 `json:"square_sell"`
}

// RateEntry is one currency quoted in local units (DZD) per foreign unit.
// It is rebuilt on every fetch and never persisted.
type RateEntry struct {
	Code         string      `json:"code"`
	OfficialRate float64     `json:"official_rate"`
	Derived      SquareRates `json:"derived"`
	Change24h    float64     `json:"change_24h"`
}

// RateSource tells whether a rate table came from the live API or the fallback table.
type RateSource string

const (
	RateSourceLive     RateSource = "live"
	RateSourceFallback RateSource = "fallback"
)

// RateTable maps a currency code to "foreign units per 1 DZD".
type RateTable map[string]float64

package entity

type CatalogCategory string

const (
	CategoryAll      CatalogCategory = "all"
	CategoryCurrency CatalogCategory = "currency"
	CategoryCrypto   CatalogCategory = "crypto"
	CategoryGold     CatalogCategory = "gold"
	CategoryTransfer CatalogCategory = "transfer"
)

func (c CatalogCategory) Valid() bool {
	switch c {
	case CategoryAll, CategoryCurrency, CategoryCrypto, CategoryGold, CategoryTransfer:
		return true
	}
	return false
}

// CatalogItem is a tagged union: Category decides which of the quote
// pointers is set.
type CatalogItem struct {
	ID        string          `json:"id"`
	Category  CatalogCategory `json:"category"`
	Name      string          `json:"name"`
	Symbol    string          `json:"symbol"`
	Icon      string          `json:"icon,omitempty"`
	Change24h float64         `json:"change_24h"`

	Currency *CurrencyQuote `json:"currency,omitempty"`
	Crypto   *CryptoQuote   `json:"crypto,omitempty"`
	Gold     *GoldQuote     `json:"gold,omitempty"`
	Transfer *TransferQuote `json:"transfer,omitempty"`
}

type CurrencyQuote struct {
	Official   float64 `json:"official"`
	Square     float64 `json:"square"`
	SquareBuy  float64 `json:"square_buy"`
	SquareSell float64 `json:"square_sell"`
}

type CryptoQuote struct {
	PriceDZD float64 `json:"price_dzd"`
	PriceUSD float64 `json:"price_usd"`
}

type GoldQuote struct {
	BuyPrice float64 `json:"buy_price"`
	Unit     string  `json:"unit"`
}

type TransferQuote struct {
	Buy    float64 `json:"buy"`
	Sell   float64 `json:"sell"`
	Fees   string  `json:"fees"`
	Speed  string  `json:"speed"`
	Rating float64 `json:"rating"`
}

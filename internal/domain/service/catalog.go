package service

import (
	"math"
	"strings"

	"esekoir/internal/domain/entity"
)

// RandSource is the slice of *rand.Rand the catalog needs.
type RandSource interface {
	Float64() float64
}

// perturb returns a value in [lo, hi] rounded to two decimals. The 24h change
// shown on the board is cosmetic; no price history backs it.
func perturb(rng RandSource, lo, hi float64) float64 {
	if rng == nil {
		return 0
	}
	v := lo + rng.Float64()*(hi-lo)
	return math.Round(v*100) / 100
}

var currencyNames = map[string]struct{ name, icon string }{
	"EUR": {"Euro", "🇪🇺"},
	"USD": {"US Dollar", "🇺🇸"},
	"GBP": {"British Pound", "🇬🇧"},
	"CAD": {"Canadian Dollar", "🇨🇦"},
	"TRY": {"Turkish Lira", "🇹🇷"},
	"AED": {"UAE Dirham", "🇦🇪"},
}

type cryptoSeed struct {
	symbol, name, icon string
	usd, dzd           float64
}

var cryptoSeeds = []cryptoSeed{
	{"BTC", "Bitcoin", "₿", 67500, 16875000},
	{"ETH", "Ethereum", "Ξ", 3500, 875000},
	{"USDT", "Tether", "₮", 1, 250},
	{"BNB", "BNB", "◆", 580, 145000},
	{"SOL", "Solana", "◎", 150, 37500},
	{"XRP", "XRP", "✕", 0.52, 130},
}

type goldSeed struct {
	symbol, name string
	price        float64
}

var goldSeeds = []goldSeed{
	{"24K", "Gold 24K", 21500},
	{"21K", "Gold 21K", 18800},
	{"18K", "Gold 18K", 16100},
	{"AG", "Silver", 280},
}

type transferSeed struct {
	symbol, name string
	buy, sell    float64
	fees, speed  string
	rating       float64
}

var transferSeeds = []transferSeed{
	{"WU", "Western Union", 245, 250, "2-5%", "Minutes", 4.2},
	{"MG", "MoneyGram", 244, 249, "2-4%", "Minutes", 4.0},
	{"WISE", "Wise", 248, 252, "0.5-1%", "1-2 days", 4.7},
	{"PAYSERA", "Paysera", 246, 251, "1%", "1 day", 4.3},
	{"SKRILL", "Skrill", 240, 247, "1-3%", "Instant", 3.9},
	{"PAYPAL", "PayPal", 238, 246, "3-5%", "Instant", 3.8},
}

func catalogID(category entity.CatalogCategory, symbol string) string {
	return string(category) + "-" + strings.ToLower(symbol)
}

// AssembleCatalog builds the rate board: currencies from rates, then the
// static crypto, gold and transfer lists, in that order.
func AssembleCatalog(rates entity.RateTable, rng RandSource) []entity.CatalogItem {
	items := make([]entity.CatalogItem, 0, len(QuotedCurrencies)+len(cryptoSeeds)+len(goldSeeds)+len(transferSeeds))

	for _, entry := range BuildRateEntries(rates, rng) {
		meta := currencyNames[entry.Code]
		items = append(items, entity.CatalogItem{
			ID:        catalogID(entity.CategoryCurrency, entry.Code),
			Category:  entity.CategoryCurrency,
			Name:      meta.name,
			Symbol:    entry.Code,
			Icon:      meta.icon,
			Change24h: entry.Change24h,
			Currency: &entity.CurrencyQuote{
				Official:   entry.OfficialRate,
				Square:     entry.Derived.Square,
				SquareBuy:  entry.Derived.SquareBuy,
				SquareSell: entry.Derived.SquareSell,
			},
		})
	}

	for _, c := range cryptoSeeds {
		items = append(items, entity.CatalogItem{
			ID:        catalogID(entity.CategoryCrypto, c.symbol),
			Category:  entity.CategoryCrypto,
			Name:      c.name,
			Symbol:    c.symbol,
			Icon:      c.icon,
			Change24h: perturb(rng, -5, 5),
			Crypto:    &entity.CryptoQuote{PriceDZD: c.dzd, PriceUSD: c.usd},
		})
	}

	for _, g := range goldSeeds {
		items = append(items, entity.CatalogItem{
			ID:        catalogID(entity.CategoryGold, g.symbol),
			Category:  entity.CategoryGold,
			Name:      g.name,
			Symbol:    g.symbol,
			Change24h: perturb(rng, 0, 2),
			Gold:      &entity.GoldQuote{BuyPrice: g.price, Unit: "g"},
		})
	}

	for _, t := range transferSeeds {
		items = append(items, entity.CatalogItem{
			ID:       catalogID(entity.CategoryTransfer, t.symbol),
			Category: entity.CategoryTransfer,
			Name:     t.name,
			Symbol:   t.symbol,
			Transfer: &entity.TransferQuote{
				Buy:    t.buy,
				Sell:   t.sell,
				Fees:   t.fees,
				Speed:  t.speed,
				Rating: t.rating,
			},
		})
	}

	return items
}

// FilterCatalog keeps the items of category whose name or symbol contains
// query, case-insensitively. An empty or "all" category keeps every category.
func FilterCatalog(items []entity.CatalogItem, category entity.CatalogCategory, query string) []entity.CatalogItem {
	q := strings.ToLower(query)
	out := make([]entity.CatalogItem, 0, len(items))
	for _, item := range items {
		if category != "" && category != entity.CategoryAll && item.Category != category {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(item.Name), q) &&
			!strings.Contains(strings.ToLower(item.Symbol), q) {
			continue
		}
		out = append(out, item)
	}
	return out
}

package service

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"esekoir/internal/domain/entity"
)

func TestAssembleCatalogOrderAndBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	items := AssembleCatalog(FallbackRates, rng)
	require.Len(t, items, 6+len(cryptoSeeds)+len(goldSeeds)+len(transferSeeds))

	seen := make(map[string]bool)
	rank := map[entity.CatalogCategory]int{
		entity.CategoryCurrency: 0,
		entity.CategoryCrypto:   1,
		entity.CategoryGold:     2,
		entity.CategoryTransfer: 3,
	}
	last := 0
	for _, item := range items {
		assert.False(t, seen[item.ID], "duplicate id %s", item.ID)
		seen[item.ID] = true

		assert.GreaterOrEqual(t, rank[item.Category], last)
		last = rank[item.Category]

		switch item.Category {
		case entity.CategoryCurrency:
			require.NotNil(t, item.Currency)
			assert.InDelta(t, 0, item.Change24h, 1)
		case entity.CategoryCrypto:
			require.NotNil(t, item.Crypto)
			assert.InDelta(t, 0, item.Change24h, 5)
		case entity.CategoryGold:
			require.NotNil(t, item.Gold)
			assert.GreaterOrEqual(t, item.Change24h, 0.0)
			assert.LessOrEqual(t, item.Change24h, 2.0)
		case entity.CategoryTransfer:
			require.NotNil(t, item.Transfer)
			assert.Zero(t, item.Change24h)
		}
	}
	assert.Equal(t, "currency-eur", items[0].ID)
	assert.Equal(t, float64(147), items[0].Currency.Official)
}

func sampleCatalog() []entity.CatalogItem {
	items := AssembleCatalog(FallbackRates, nil)
	// 6 currencies followed by 4 other items.
	return items[:10]
}

func TestFilterCatalogByCategory(t *testing.T) {
	items := sampleCatalog()

	got := FilterCatalog(items, entity.CategoryCurrency, "")
	assert.Len(t, got, 6)
	for _, item := range got {
		assert.Equal(t, entity.CategoryCurrency, item.Category)
	}

	assert.Empty(t, FilterCatalog(items, entity.CategoryCurrency, "zzz-nothing"))
	assert.Len(t, FilterCatalog(items, entity.CategoryAll, ""), 10)
	assert.Len(t, FilterCatalog(items, "", ""), 10)
}

func TestFilterCatalogQuery(t *testing.T) {
	items := sampleCatalog()

	got := FilterCatalog(items, entity.CategoryAll, "dollar")
	require.Len(t, got, 2)
	assert.Equal(t, "USD", got[0].Symbol)
	assert.Equal(t, "CAD", got[1].Symbol)

	got = FilterCatalog(items, entity.CategoryAll, "btc")
	require.Len(t, got, 1)
	assert.Equal(t, "Bitcoin", got[0].Name)

	// The query is matched as typed, surrounding spaces included.
	assert.Empty(t, FilterCatalog(items, entity.CategoryAll, "usd "))
	assert.Empty(t, FilterCatalog(items, entity.CategoryAll, " btc"))
}

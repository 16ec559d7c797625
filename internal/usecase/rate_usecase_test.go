package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"esekoir/internal/domain/entity"
	"esekoir/pkg/errors"
)

type staticSource struct {
	table entity.RateTable
}

func (s staticSource) Fetch(context.Context) (entity.RateTable, entity.RateSource) {
	return s.table, entity.RateSourceLive
}

func TestGetRates(t *testing.T) {
	uc := NewRateUseCase(staticSource{table: entity.RateTable{"EUR": 0.004, "USD": 0.0075, "JPY": 1.1}})

	board, err := uc.GetRates(context.Background())
	require.NoError(t, err)
	require.Len(t, board.Rates, 2)
	assert.Equal(t, "EUR", board.Rates[0].Code)
	assert.Equal(t, float64(250), board.Rates[0].OfficialRate)
	assert.Equal(t, float64(463), board.Rates[0].Derived.Square)

	entry, err := uc.GetRate(context.Background(), "usd")
	require.NoError(t, err)
	assert.Equal(t, float64(133), entry.OfficialRate)

	_, err = uc.GetRate(context.Background(), "JPY")
	assert.True(t, errors.Is(err, errors.CodeNotFound))
}

func TestGetCatalog(t *testing.T) {
	uc := NewRateUseCase(staticSource{table: entity.RateTable{"EUR": 0.004}})

	items, err := uc.GetCatalog(context.Background(), "gold", "")
	require.NoError(t, err)
	require.NotEmpty(t, items)
	for _, it := range items {
		assert.Equal(t, entity.CategoryGold, it.Category)
	}

	items, err = uc.GetCatalog(context.Background(), "", "eur")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "currency-eur", items[0].ID)

	_, err = uc.GetCatalog(context.Background(), "stocks", "")
	assert.True(t, errors.Is(err, errors.CodeBadRequest))
}

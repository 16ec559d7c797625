package usecase

import (
	"context"
	"math/rand"
	"strings"
	"time"

	"esekoir/internal/domain/entity"
	"esekoir/internal/domain/service"
	"esekoir/pkg/errors"
	"esekoir/pkg/logger"
)

// globalRand draws from the runtime's concurrency-safe generator.
type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }

type RateUseCase struct {
	source RateSource
	rng    service.RandSource
	now    func() time.Time
}

func NewRateUseCase(source RateSource) *RateUseCase {
	return &RateUseCase{source: source, rng: globalRand{}, now: time.Now}
}

type RateBoard struct {
	Rates     []entity.RateEntry `json:"rates"`
	UpdatedAt time.Time          `json:"updated_at"`
}

func (uc *RateUseCase) fetch(ctx context.Context) entity.RateTable {
	table, source := uc.source.Fetch(ctx)
	if source == entity.RateSourceFallback {
		logger.Debug("[rates] serving fallback table")
	}
	return table
}

func (uc *RateUseCase) GetRates(ctx context.Context) (*RateBoard, error) {
	table := uc.fetch(ctx)
	return &RateBoard{
		Rates:     service.BuildRateEntries(table, uc.rng),
		UpdatedAt: uc.now().UTC(),
	}, nil
}

// GetRate returns the entry for one quoted currency.
func (uc *RateUseCase) GetRate(ctx context.Context, code string) (*entity.RateEntry, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	for _, e := range service.BuildRateEntries(uc.fetch(ctx), uc.rng) {
		if e.Code == code {
			entry := e
			return &entry, nil
		}
	}
	return nil, errors.NotFound("Rate", nil)
}

func (uc *RateUseCase) GetCatalog(ctx context.Context, category, query string) ([]entity.CatalogItem, error) {
	cat := entity.CatalogCategory(strings.ToLower(strings.TrimSpace(category)))
	if cat != "" && !cat.Valid() {
		return nil, errors.BadRequest("Unknown catalog category", nil)
	}

	items := service.AssembleCatalog(uc.fetch(ctx), uc.rng)
	return service.FilterCatalog(items, cat, query), nil
}

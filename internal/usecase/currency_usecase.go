package usecase

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"esekoir/internal/domain/entity"
	"esekoir/internal/domain/repository"
	"esekoir/pkg/errors"
)

type CurrencyUseCase struct {
	currencyRepo repository.CurrencyRepository
}

func NewCurrencyUseCase(currencyRepo repository.CurrencyRepository) *CurrencyUseCase {
	return &CurrencyUseCase{currencyRepo: currencyRepo}
}

type CurrencyInput struct {
	Code         string
	Name         string
	Symbol       string
	Flag         string
	IsActive     bool
	DisplayOrder int
}

func (uc *CurrencyUseCase) List(ctx context.Context, activeOnly bool) ([]*entity.Currency, error) {
	currencies, err := uc.currencyRepo.List(ctx, activeOnly)
	if err != nil {
		return nil, errors.Internal("Failed to list currencies", err)
	}
	return currencies, nil
}

func (uc *CurrencyUseCase) Upsert(ctx context.Context, input CurrencyInput) (*entity.Currency, error) {
	c := &entity.Currency{
		Code:         strings.ToUpper(strings.TrimSpace(input.Code)),
		Name:         strings.TrimSpace(input.Name),
		Symbol:       input.Symbol,
		Flag:         input.Flag,
		IsActive:     input.IsActive,
		DisplayOrder: input.DisplayOrder,
		UpdatedAt:    time.Now().UTC(),
	}
	if err := uc.currencyRepo.Upsert(ctx, c); err != nil {
		return nil, errors.Internal("Failed to save currency", err)
	}
	return c, nil
}

func (uc *CurrencyUseCase) Delete(ctx context.Context, code string) error {
	if err := uc.currencyRepo.Delete(ctx, strings.ToUpper(code)); err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return errors.NotFound("Currency", err)
		}
		return errors.Internal("Failed to delete currency", err)
	}
	return nil
}

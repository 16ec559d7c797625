package handler

import (
	"strings"

	"github.com/labstack/echo/v4"

	"esekoir/internal/usecase"
	"esekoir/pkg/response"
)

type CurrencyHandler struct {
	currencyUseCase *usecase.CurrencyUseCase
}

func NewCurrencyHandler(currencyUseCase *usecase.CurrencyUseCase) *CurrencyHandler {
	return &CurrencyHandler{
		currencyUseCase: currencyUseCase,
	}
}

type currencyRequest struct {
	Name         string `json:"name" validate:"required,max=60"`
	Symbol       string `json:"symbol" validate:"required,max=8"`
	Flag         string `json:"flag,omitempty" validate:"max=16"`
	IsActive     bool   `json:"is_active"`
	DisplayOrder int    `json:"display_order" validate:"gte=0"`
}

func (h *CurrencyHandler) ListActive(c echo.Context) error {
	currencies, err := h.currencyUseCase.List(c.Request().Context(), true)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, currencies)
}

func (h *CurrencyHandler) ListAll(c echo.Context) error {
	currencies, err := h.currencyUseCase.List(c.Request().Context(), false)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, currencies)
}

// Upsert creates or replaces the currency named by the :code path parameter.
func (h *CurrencyHandler) Upsert(c echo.Context) error {
	var req currencyRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	currency, err := h.currencyUseCase.Upsert(c.Request().Context(), usecase.CurrencyInput{
		Code:         strings.ToUpper(c.Param("code")),
		Name:         req.Name,
		Symbol:       req.Symbol,
		Flag:         req.Flag,
		IsActive:     req.IsActive,
		DisplayOrder: req.DisplayOrder,
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, currency)
}

func (h *CurrencyHandler) Delete(c echo.Context) error {
	if err := h.currencyUseCase.Delete(c.Request().Context(), c.Param("code")); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]string{"message": "Currency deleted"})
}

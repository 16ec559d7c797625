package handler

import (
	"github.com/labstack/echo/v4"

	"esekoir/internal/usecase"
	"esekoir/pkg/response"
)

type RateHandler struct {
	rateUseCase *usecase.RateUseCase
}

func NewRateHandler(rateUseCase *usecase.RateUseCase) *RateHandler {
	return &RateHandler{
		rateUseCase: rateUseCase,
	}
}

func (h *RateHandler) GetRates(c echo.Context) error {
	board, err := h.rateUseCase.GetRates(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, board)
}

func (h *RateHandler) GetRate(c echo.Context) error {
	entry, err := h.rateUseCase.GetRate(c.Request().Context(), c.Param("code"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, entry)
}

// GetCatalog serves the market board, filtered by ?category= and ?q=.
func (h *RateHandler) GetCatalog(c echo.Context) error {
	items, err := h.rateUseCase.GetCatalog(c.Request().Context(), c.QueryParam("category"), c.QueryParam("q"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, items)
}

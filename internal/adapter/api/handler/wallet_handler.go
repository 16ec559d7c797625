package handler

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"esekoir/internal/adapter/api/middleware"
	"esekoir/internal/domain/entity"
	"esekoir/internal/usecase"
	"esekoir/pkg/errors"
	"esekoir/pkg/response"
	"esekoir/pkg/utils"
)

type WalletHandler struct {
	walletUseCase *usecase.WalletUseCase
}

func NewWalletHandler(walletUseCase *usecase.WalletUseCase) *WalletHandler {
	return &WalletHandler{
		walletUseCase: walletUseCase,
	}
}

type decisionRequest struct {
	Notes string `json:"notes,omitempty" validate:"max=500"`
}

func (h *WalletHandler) GetWallet(c echo.Context) error {
	wallet, err := h.walletUseCase.GetWallet(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, wallet)
}

func (h *WalletHandler) ListTransactions(c echo.Context) error {
	page := utils.GetPaginationParams(c)
	txns, total, err := h.walletUseCase.ListTransactions(c.Request().Context(), middleware.UserID(c), page)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Paginated(c, txns, total, page.Page, page.Limit)
}

// CreateChargeRequest takes a multipart form: amount, payment_method and an
// optional receipt file.
func (h *WalletHandler) CreateChargeRequest(c echo.Context) error {
	amount, err := decimal.NewFromString(strings.TrimSpace(c.FormValue("amount")))
	if err != nil {
		return response.Error(c, errors.BadRequest("amount must be a number", err))
	}
	method := c.FormValue("payment_method")
	if method == "" {
		return response.Error(c, errors.BadRequest("payment_method is required", nil))
	}

	receipt, err := formFile(c, "receipt", false)
	if err != nil {
		return response.Error(c, err)
	}
	defer receipt.Close()

	input := usecase.ChargeRequestInput{
		Amount:        amount.InexactFloat64(),
		PaymentMethod: method,
		Receipt:       receipt.reader(),
	}
	if receipt != nil {
		input.ReceiptType = receipt.contentType
		input.ReceiptFilename = receipt.filename
	}

	req, err := h.walletUseCase.CreateChargeRequest(c.Request().Context(), middleware.UserID(c), input)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, req)
}

func (h *WalletHandler) ListMyChargeRequests(c echo.Context) error {
	page := utils.GetPaginationParams(c)
	items, total, err := h.walletUseCase.ListMyChargeRequests(c.Request().Context(), middleware.UserID(c), page)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Paginated(c, items, total, page.Page, page.Limit)
}

func (h *WalletHandler) ListChargeRequests(c echo.Context) error {
	page := utils.GetPaginationParams(c)
	status := entity.RequestStatus(c.QueryParam("status"))
	items, total, err := h.walletUseCase.ListChargeRequests(c.Request().Context(), status, page)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Paginated(c, items, total, page.Page, page.Limit)
}

func (h *WalletHandler) ApproveChargeRequest(c echo.Context) error {
	var req decisionRequest
	if err := bindDecision(c, &req); err != nil {
		return response.Error(c, err)
	}

	charge, err := h.walletUseCase.ApproveChargeRequest(c.Request().Context(), middleware.UserID(c), c.Param("id"), req.Notes)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, charge)
}

func (h *WalletHandler) RejectChargeRequest(c echo.Context) error {
	var req decisionRequest
	if err := bindDecision(c, &req); err != nil {
		return response.Error(c, err)
	}

	charge, err := h.walletUseCase.RejectChargeRequest(c.Request().Context(), middleware.UserID(c), c.Param("id"), req.Notes)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, charge)
}

// bindDecision tolerates an empty body; notes are optional.
func bindDecision(c echo.Context, req *decisionRequest) error {
	if c.Request().ContentLength != 0 {
		if err := c.Bind(req); err != nil {
			return err
		}
	}
	return c.Validate(req)
}

package handler

import (
	"github.com/labstack/echo/v4"

	"esekoir/internal/adapter/api/middleware"
	"esekoir/internal/domain/entity"
	"esekoir/internal/usecase"
	"esekoir/pkg/errors"
	"esekoir/pkg/response"
	"esekoir/pkg/utils"
)

type VerificationHandler struct {
	verificationUseCase *usecase.VerificationUseCase
}

func NewVerificationHandler(verificationUseCase *usecase.VerificationUseCase) *VerificationHandler {
	return &VerificationHandler{
		verificationUseCase: verificationUseCase,
	}
}

type planRequest struct {
	Name         string   `json:"name" validate:"required,max=100"`
	Price        float64  `json:"price" validate:"gte=0"`
	DurationDays int      `json:"duration_days" validate:"gt=0"`
	Features     []string `json:"features"`
	IsActive     bool     `json:"is_active"`
}

// ListPlans shows active plans to everyone.
func (h *VerificationHandler) ListPlans(c echo.Context) error {
	plans, err := h.verificationUseCase.ListPlans(c.Request().Context(), true)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, plans)
}

func (h *VerificationHandler) ListAllPlans(c echo.Context) error {
	plans, err := h.verificationUseCase.ListPlans(c.Request().Context(), false)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, plans)
}

func (h *VerificationHandler) CreatePlan(c echo.Context) error {
	return h.savePlan(c, "")
}

func (h *VerificationHandler) UpdatePlan(c echo.Context) error {
	return h.savePlan(c, c.Param("id"))
}

func (h *VerificationHandler) savePlan(c echo.Context, id string) error {
	var req planRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	plan, err := h.verificationUseCase.SavePlan(c.Request().Context(), usecase.PlanInput{
		ID:           id,
		Name:         req.Name,
		Price:        req.Price,
		DurationDays: req.DurationDays,
		Features:     req.Features,
		IsActive:     req.IsActive,
	})
	if err != nil {
		return response.Error(c, err)
	}
	if id == "" {
		return response.Created(c, plan)
	}
	return response.Success(c, plan)
}

func (h *VerificationHandler) DeletePlan(c echo.Context) error {
	if err := h.verificationUseCase.DeletePlan(c.Request().Context(), c.Param("id")); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]string{"message": "Plan deleted"})
}

// SubmitRequest takes a multipart form: plan_id and a document file.
func (h *VerificationHandler) SubmitRequest(c echo.Context) error {
	planID := c.FormValue("plan_id")
	if planID == "" {
		return response.Error(c, errors.BadRequest("plan_id is required", nil))
	}

	document, err := formFile(c, "document", true)
	if err != nil {
		return response.Error(c, err)
	}
	defer document.Close()

	req, err := h.verificationUseCase.SubmitRequest(c.Request().Context(), middleware.UserID(c), usecase.SubmitVerificationInput{
		PlanID:           planID,
		Document:         document.reader(),
		DocumentType:     document.contentType,
		DocumentFilename: document.filename,
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, req)
}

func (h *VerificationHandler) ListMyRequests(c echo.Context) error {
	items, err := h.verificationUseCase.ListMyRequests(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, items)
}

func (h *VerificationHandler) ListRequests(c echo.Context) error {
	page := utils.GetPaginationParams(c)
	status := entity.RequestStatus(c.QueryParam("status"))
	items, total, err := h.verificationUseCase.ListRequests(c.Request().Context(), status, page)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Paginated(c, items, total, page.Page, page.Limit)
}

func (h *VerificationHandler) ApproveRequest(c echo.Context) error {
	var req decisionRequest
	if err := bindDecision(c, &req); err != nil {
		return response.Error(c, err)
	}

	result, err := h.verificationUseCase.ApproveRequest(c.Request().Context(), middleware.UserID(c), c.Param("id"), req.Notes)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, result)
}

func (h *VerificationHandler) RejectRequest(c echo.Context) error {
	var req decisionRequest
	if err := bindDecision(c, &req); err != nil {
		return response.Error(c, err)
	}

	result, err := h.verificationUseCase.RejectRequest(c.Request().Context(), middleware.UserID(c), c.Param("id"), req.Notes)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, result)
}

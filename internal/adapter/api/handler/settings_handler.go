package handler

import (
	"encoding/json"

	"github.com/labstack/echo/v4"

	"esekoir/internal/usecase"
	"esekoir/pkg/errors"
	"esekoir/pkg/response"
)

type SettingsHandler struct {
	settingsUseCase *usecase.SettingsUseCase
}

func NewSettingsHandler(settingsUseCase *usecase.SettingsUseCase) *SettingsHandler {
	return &SettingsHandler{
		settingsUseCase: settingsUseCase,
	}
}

type upsertSettingRequest struct {
	Value json.RawMessage `json:"value"`
}

func (h *SettingsHandler) List(c echo.Context) error {
	settings, err := h.settingsUseCase.List(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, settings)
}

func (h *SettingsHandler) Get(c echo.Context) error {
	setting, err := h.settingsUseCase.Get(c.Request().Context(), c.Param("key"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, setting)
}

func (h *SettingsHandler) Upsert(c echo.Context) error {
	var req upsertSettingRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if len(req.Value) == 0 {
		return response.Error(c, errors.BadRequest("value is required", nil))
	}

	setting, err := h.settingsUseCase.Upsert(c.Request().Context(), c.Param("key"), req.Value)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, setting)
}

func (h *SettingsHandler) UploadCardBackground(c echo.Context) error {
	file, err := formFile(c, "image", true)
	if err != nil {
		return response.Error(c, err)
	}
	defer file.Close()

	setting, err := h.settingsUseCase.UploadCardBackground(c.Request().Context(), file.reader(), file.contentType, file.filename)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, setting)
}

package usecase

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"strings"
	"time"

	"esekoir/internal/domain/entity"
	"esekoir/internal/domain/repository"
	"esekoir/internal/domain/service"
	"esekoir/pkg/errors"
)

type SettingsUseCase struct {
	settingRepo repository.SettingRepository
	blobs       service.BlobStore
}

func NewSettingsUseCase(settingRepo repository.SettingRepository, blobs service.BlobStore) *SettingsUseCase {
	return &SettingsUseCase{settingRepo: settingRepo, blobs: blobs}
}

func (uc *SettingsUseCase) List(ctx context.Context) ([]*entity.SiteSetting, error) {
	settings, err := uc.settingRepo.List(ctx)
	if err != nil {
		return nil, errors.Internal("Failed to list settings", err)
	}
	return settings, nil
}

func (uc *SettingsUseCase) Get(ctx context.Context, key string) (*entity.SiteSetting, error) {
	setting, err := uc.settingRepo.Get(ctx, key)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NotFound("Setting", err)
		}
		return nil, errors.Internal("Failed to load setting", err)
	}
	return setting, nil
}

// Upsert stores any valid JSON document under key.
func (uc *SettingsUseCase) Upsert(ctx context.Context, key string, value json.RawMessage) (*entity.SiteSetting, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, errors.BadRequest("Setting key is required", nil)
	}
	if len(value) == 0 || !json.Valid(value) {
		return nil, errors.BadRequest("Setting value must be valid JSON", nil)
	}

	setting := &entity.SiteSetting{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	if err := uc.settingRepo.Upsert(ctx, setting); err != nil {
		return nil, errors.Internal("Failed to save setting", err)
	}
	return setting, nil
}

// UploadCardBackground replaces the member-card background image and points
// the card_background setting at it.
func (uc *SettingsUseCase) UploadCardBackground(ctx context.Context, r io.Reader, contentType, filename string) (*entity.SiteSetting, error) {
	if !service.AllowedImage(contentType) {
		return nil, errors.BadRequest("Background must be an image", nil)
	}

	objectPath := "settings/card_background" + service.ExtensionFor(contentType, filename)
	if err := uc.blobs.Upload(ctx, objectPath, r, contentType, true); err != nil {
		return nil, errors.Internal("Failed to upload background", err)
	}

	value, err := json.Marshal(map[string]interface{}{
		"url":        uc.blobs.PublicURL(objectPath),
		"updated_at": time.Now().UTC(),
	})
	if err != nil {
		return nil, errors.Internal("Failed to encode setting", err)
	}
	return uc.Upsert(ctx, entity.SettingCardBackground, value)
}

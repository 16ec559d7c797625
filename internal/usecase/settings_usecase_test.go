package usecase

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"esekoir/internal/domain/entity"
	"esekoir/pkg/errors"
)

func TestSettings(t *testing.T) {
	ctx := context.Background()
	gw := newTestGateway(t)
	uc := NewSettingsUseCase(gw.Settings, newTestBlobs(t))

	_, err := uc.Upsert(ctx, "banner", json.RawMessage(`{"text":`))
	assert.True(t, errors.Is(err, errors.CodeBadRequest))

	_, err = uc.Upsert(ctx, "banner", json.RawMessage(`{"text":"Salam"}`))
	require.NoError(t, err)
	_, err = uc.Upsert(ctx, "banner", json.RawMessage(`{"text":"Marhba"}`))
	require.NoError(t, err)

	got, err := uc.Get(ctx, "banner")
	require.NoError(t, err)
	assert.JSONEq(t, `{"text":"Marhba"}`, string(got.Value))

	_, err = uc.Get(ctx, "missing")
	assert.True(t, errors.Is(err, errors.CodeNotFound))

	bg, err := uc.UploadCardBackground(ctx, strings.NewReader("img"), "image/webp", "bg.webp")
	require.NoError(t, err)
	assert.Equal(t, entity.SettingCardBackground, bg.Key)

	var value struct {
		URL string `json:"url"`
	}
	require.NoError(t, json.Unmarshal(bg.Value, &value))
	assert.Equal(t, "http://localhost/uploads/settings/card_background.webp", value.URL)

	all, err := uc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

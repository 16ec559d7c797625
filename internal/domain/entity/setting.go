package entity

import (
	"encoding/json"
	"time"
)

const SettingCardBackground = "card_background"

// SiteSetting is a key with an arbitrary JSON value.
type SiteSetting struct {
	Key       string          `json:"key"`
	Value     json.RawMessage `json:"value"`
	UpdatedAt time.Time       `json:"updated_at"`
}

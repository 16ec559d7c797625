package usecase

import (
	"context"

	"esekoir/internal/domain/entity"
	"esekoir/internal/infrastructure/websocket"
)

// EventPublisher pushes realtime events to a user's open connections.
type EventPublisher interface {
	Publish(userID string, event websocket.Event)
}

// RateSource returns the current DZD rate table. It never fails; on error it
// serves a fallback table and says so.
type RateSource interface {
	Fetch(ctx context.Context) (entity.RateTable, entity.RateSource)
}

type nopPublisher struct{}

func (nopPublisher) Publish(string, websocket.Event) {}

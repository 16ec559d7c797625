package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	sqliterepo "esekoir/internal/adapter/repository"
	"esekoir/internal/domain/entity"
	"esekoir/internal/domain/repository"
	"esekoir/internal/domain/service"
	"esekoir/internal/infrastructure/database"
	"esekoir/internal/infrastructure/storage"
	"esekoir/internal/infrastructure/websocket"
)

func newTestGateway(t *testing.T) *repository.Gateway {
	t.Helper()
	db, err := database.Open(database.MemoryDSN)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqliterepo.NewSQLiteGateway(db.Conn)
}

func newTestBlobs(t *testing.T) service.BlobStore {
	t.Helper()
	store, err := storage.NewDiskStore(t.TempDir(), "http://localhost/uploads")
	require.NoError(t, err)
	return store
}

func createProfile(t *testing.T, gw *repository.Gateway, uid, name string, roles ...entity.Role) {
	t.Helper()
	now := time.Now().UTC()
	require.NoError(t, gw.Profiles.Create(context.Background(), &entity.Profile{
		UserID: uid, FullName: name, Email: uid + "@esekoir.dz", CreatedAt: now, UpdatedAt: now,
	}))
	if len(roles) == 0 {
		roles = []entity.Role{entity.RoleUser}
	}
	require.NoError(t, gw.Roles.SetRoles(context.Background(), uid, roles))
}

type recordedEvent struct {
	UserID string
	Type   string
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (p *recordingPublisher) Publish(userID string, event websocket.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, recordedEvent{UserID: userID, Type: event.Type})
}

func (p *recordingPublisher) count(userID, eventType string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, e := range p.events {
		if e.UserID == userID && e.Type == eventType {
			n++
		}
	}
	return n
}

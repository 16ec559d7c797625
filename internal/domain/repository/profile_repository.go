package repository

import (
	"context"

	"esekoir/internal/domain/entity"
)

type ProfileRepository interface {
	Create(ctx context.Context, profile *entity.Profile) error
	GetByID(ctx context.Context, userID string) (*entity.Profile, error)
	GetByUsername(ctx context.Context, username string) (*entity.Profile, error)
	Update(ctx context.Context, profile *entity.Profile) error
	List(ctx context.Context, limit, offset int) ([]*entity.Profile, int64, error)
	Count(ctx context.Context) (int64, error)

	// Names returns full names keyed by user id. Unknown ids are absent.
	Names(ctx context.Context, userIDs []string) (map[string]string, error)

	// AssignMemberNumber gives the profile max+1 unless it already has a
	// number, in which case the existing one is returned.
	AssignMemberNumber(ctx context.Context, userID string) (int, error)
}

type RoleRepository interface {
	GetRoles(ctx context.Context, userID string) ([]entity.Role, error)
	SetRoles(ctx context.Context, userID string, roles []entity.Role) error
	ListAll(ctx context.Context) (map[string][]entity.Role, error)
}

type CredentialRepository interface {
	Create(ctx context.Context, cred *entity.Credential) error
	GetByEmail(ctx context.Context, email string) (*entity.Credential, error)
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
}

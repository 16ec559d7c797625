package usecase

import (
	"context"
	stderrors "errors"

	"golang.org/x/sync/errgroup"

	"esekoir/internal/domain/entity"
	"esekoir/internal/domain/repository"
	"esekoir/pkg/errors"
	"esekoir/pkg/utils"
)

type AdminUseCase struct {
	gw *repository.Gateway
}

func NewAdminUseCase(gw *repository.Gateway) *AdminUseCase {
	return &AdminUseCase{gw: gw}
}

type AdminStats struct {
	Users                int64   `json:"users"`
	Listings             int64   `json:"listings"`
	Comments             int64   `json:"comments"`
	PendingCharges       int64   `json:"pending_charges"`
	PendingVerifications int64   `json:"pending_verifications"`
	TotalWalletBalance   float64 `json:"total_wallet_balance"`
}

// Stats gathers the dashboard counters concurrently.
func (uc *AdminUseCase) Stats(ctx context.Context) (*AdminStats, error) {
	var s AdminStats
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) { s.Users, err = uc.gw.Profiles.Count(gctx); return })
	g.Go(func() (err error) { s.Listings, err = uc.gw.Listings.Count(gctx); return })
	g.Go(func() (err error) { s.Comments, err = uc.gw.Comments.Count(gctx); return })
	g.Go(func() (err error) {
		s.PendingCharges, err = uc.gw.ChargeRequests.CountByStatus(gctx, entity.StatusPending)
		return
	})
	g.Go(func() (err error) {
		s.PendingVerifications, err = uc.gw.Verifications.CountByStatus(gctx, entity.StatusPending)
		return
	})
	g.Go(func() (err error) { s.TotalWalletBalance, err = uc.gw.Wallets.TotalBalance(gctx); return })

	if err := g.Wait(); err != nil {
		return nil, errors.Internal("Failed to compute stats", err)
	}
	return &s, nil
}

type UserWithRoles struct {
	*entity.Profile
	Roles []entity.Role `json:"roles"`
}

func (uc *AdminUseCase) ListUsers(ctx context.Context, page utils.Pagination) ([]*UserWithRoles, int64, error) {
	profiles, total, err := uc.gw.Profiles.List(ctx, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, errors.Internal("Failed to list users", err)
	}

	roles, err := uc.gw.Roles.ListAll(ctx)
	if err != nil {
		return nil, 0, errors.Internal("Failed to list roles", err)
	}

	users := make([]*UserWithRoles, 0, len(profiles))
	for _, p := range profiles {
		r := roles[p.UserID]
		if r == nil {
			r = []entity.Role{}
		}
		users = append(users, &UserWithRoles{Profile: p, Roles: r})
	}
	return users, total, nil
}

// SetRoles replaces the roles of uid. Admins cannot drop their own admin role.
func (uc *AdminUseCase) SetRoles(ctx context.Context, adminID, uid string, roles []entity.Role) ([]entity.Role, error) {
	seen := make(map[entity.Role]bool)
	clean := make([]entity.Role, 0, len(roles)+1)
	for _, r := range roles {
		if !r.Valid() {
			return nil, errors.BadRequest("Unknown role: "+string(r), nil)
		}
		if !seen[r] {
			seen[r] = true
			clean = append(clean, r)
		}
	}
	if !seen[entity.RoleUser] {
		clean = append(clean, entity.RoleUser)
	}
	if adminID == uid && !seen[entity.RoleAdmin] {
		return nil, errors.BadRequest("You cannot remove your own admin role", nil)
	}

	if _, err := uc.gw.Profiles.GetByID(ctx, uid); err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NotFound("User", err)
		}
		return nil, errors.Internal("Failed to load user", err)
	}

	if err := uc.gw.Roles.SetRoles(ctx, uid, clean); err != nil {
		return nil, errors.Internal("Failed to set roles", err)
	}
	return clean, nil
}

package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"

	"esekoir/internal/domain/entity"
	"esekoir/internal/domain/repository"
	"esekoir/pkg/errors"
)

type firestoreProfileRepository struct {
	client *firestore.Client
}

func (r *firestoreProfileRepository) Create(ctx context.Context, p *entity.Profile) error {
	if _, err := r.client.Collection("profiles").Doc(p.UserID).Create(ctx, p); err != nil {
		if isAlreadyExists(err) {
			return conflict("Profile already exists")
		}
		return errors.Internal("Failed to create profile", err)
	}
	return nil
}

func (r *firestoreProfileRepository) GetByID(ctx context.Context, userID string) (*entity.Profile, error) {
	doc, err := r.client.Collection("profiles").Doc(userID).Get(ctx)
	if err != nil {
		return nil, getError("Profile", err)
	}
	var p entity.Profile
	if err := doc.DataTo(&p); err != nil {
		return nil, errors.Internal("Failed to parse profile data", err)
	}
	return &p, nil
}

func (r *firestoreProfileRepository) GetByUsername(ctx context.Context, username string) (*entity.Profile, error) {
	profiles, err := collect[entity.Profile](ctx,
		r.client.Collection("profiles").Where("username", "==", username).Limit(1), "profiles")
	if err != nil {
		return nil, err
	}
	if len(profiles) == 0 {
		return nil, errors.NotFound("Profile", repository.ErrNotFound)
	}
	return profiles[0], nil
}

func (r *firestoreProfileRepository) Update(ctx context.Context, p *entity.Profile) error {
	if p.Username != "" {
		existing, err := r.GetByUsername(ctx, p.Username)
		if err == nil && existing.UserID != p.UserID {
			return conflict("Username already taken")
		}
	}

	_, err := r.client.Collection("profiles").Doc(p.UserID).Update(ctx, []firestore.Update{
		{Path: "email", Value: p.Email},
		{Path: "fullName", Value: p.FullName},
		{Path: "username", Value: p.Username},
		{Path: "wilaya", Value: p.Wilaya},
		{Path: "avatarUrl", Value: p.AvatarURL},
		{Path: "isVerified", Value: p.IsVerified},
		{Path: "updatedAt", Value: p.UpdatedAt},
	})
	if err != nil {
		return getError("Profile", err)
	}
	return nil
}

func (r *firestoreProfileRepository) List(ctx context.Context, limit, offset int) ([]*entity.Profile, int64, error) {
	query := r.client.Collection("profiles").OrderBy("createdAt", firestore.Desc)
	total, err := countQuery(ctx, query, "profiles")
	if err != nil {
		return nil, 0, err
	}
	profiles, err := collect[entity.Profile](ctx, query.Offset(offset).Limit(limit), "profiles")
	if err != nil {
		return nil, 0, err
	}
	return profiles, total, nil
}

func (r *firestoreProfileRepository) Count(ctx context.Context) (int64, error) {
	return countQuery(ctx, r.client.Collection("profiles").Query, "profiles")
}

func (r *firestoreProfileRepository) Names(ctx context.Context, userIDs []string) (map[string]string, error) {
	names := make(map[string]string, len(userIDs))
	if len(userIDs) == 0 {
		return names, nil
	}

	refs := make([]*firestore.DocumentRef, 0, len(userIDs))
	for _, id := range userIDs {
		refs = append(refs, r.client.Collection("profiles").Doc(id))
	}
	docs, err := r.client.GetAll(ctx, refs)
	if err != nil {
		return nil, errors.Internal("Failed to load profile names", err)
	}
	for _, doc := range docs {
		if !doc.Exists() {
			continue
		}
		var p entity.Profile
		if err := doc.DataTo(&p); err != nil {
			continue
		}
		names[doc.Ref.ID] = p.FullName
	}
	return names, nil
}

// AssignMemberNumber keeps the running maximum in counters/members.
func (r *firestoreProfileRepository) AssignMemberNumber(ctx context.Context, userID string) (int, error) {
	var assigned int
	profileRef := r.client.Collection("profiles").Doc(userID)
	counterRef := r.client.Collection("counters").Doc("members")

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(profileRef)
		if err != nil {
			return err
		}
		var p entity.Profile
		if err := doc.DataTo(&p); err != nil {
			return err
		}
		if p.MemberNumber > 0 {
			assigned = p.MemberNumber
			return nil
		}

		last := int64(0)
		counter, err := tx.Get(counterRef)
		switch {
		case err == nil:
			if v, ok := counter.Data()["last"].(int64); ok {
				last = v
			}
		case !isNotFound(err):
			return err
		}

		assigned = int(last + 1)
		if err := tx.Set(counterRef, map[string]interface{}{"last": last + 1}); err != nil {
			return err
		}
		return tx.Update(profileRef, []firestore.Update{
			{Path: "memberNumber", Value: assigned},
			{Path: "updatedAt", Value: time.Now()},
		})
	})
	if err != nil {
		return 0, getError("Profile", err)
	}
	return assigned, nil
}

type firestoreRoleRepository struct {
	client *firestore.Client
}

type roleDoc struct {
	UserID    string    `firestore:"userId"`
	Roles     []string  `firestore:"roles"`
	UpdatedAt time.Time `firestore:"updatedAt"`
}

func (r *firestoreRoleRepository) GetRoles(ctx context.Context, userID string) ([]entity.Role, error) {
	doc, err := r.client.Collection("user_roles").Doc(userID).Get(ctx)
	if isNotFound(err) {
		return []entity.Role{}, nil
	}
	if err != nil {
		return nil, errors.Internal("Failed to get roles", err)
	}
	var d roleDoc
	if err := doc.DataTo(&d); err != nil {
		return nil, errors.Internal("Failed to parse roles", err)
	}
	roles := make([]entity.Role, 0, len(d.Roles))
	for _, role := range d.Roles {
		roles = append(roles, entity.Role(role))
	}
	return roles, nil
}

func (r *firestoreRoleRepository) SetRoles(ctx context.Context, userID string, roles []entity.Role) error {
	names := make([]string, 0, len(roles))
	for _, role := range roles {
		names = append(names, string(role))
	}
	_, err := r.client.Collection("user_roles").Doc(userID).Set(ctx, roleDoc{
		UserID:    userID,
		Roles:     names,
		UpdatedAt: time.Now(),
	})
	if err != nil {
		return errors.Internal("Failed to set roles", err)
	}
	return nil
}

func (r *firestoreRoleRepository) ListAll(ctx context.Context) (map[string][]entity.Role, error) {
	docs, err := collect[roleDoc](ctx, r.client.Collection("user_roles").Query, "roles")
	if err != nil {
		return nil, err
	}
	out := make(map[string][]entity.Role, len(docs))
	for _, d := range docs {
		for _, role := range d.Roles {
			out[d.UserID] = append(out[d.UserID], entity.Role(role))
		}
	}
	return out, nil
}

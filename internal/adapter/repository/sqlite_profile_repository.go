package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"esekoir/internal/domain/entity"
	"esekoir/internal/domain/repository"
	"esekoir/internal/infrastructure/database"
)

const profileColumns = `user_id, email, full_name, username, wilaya, member_number, avatar_url, is_verified, created_at, updated_at`

type sqliteProfileRepository struct {
	db *sql.DB
}

func scanProfile(row rowScanner) (*entity.Profile, error) {
	var (
		p                    entity.Profile
		username             sql.NullString
		memberNumber         sql.NullInt64
		verified             int
		createdAt, updatedAt int64
	)
	if err := row.Scan(&p.UserID, &p.Email, &p.FullName, &username, &p.Wilaya, &memberNumber,
		&p.AvatarURL, &verified, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	p.Username = username.String
	p.MemberNumber = int(memberNumber.Int64)
	p.IsVerified = verified == 1
	p.CreatedAt = fromUnixNano(createdAt)
	p.UpdatedAt = fromUnixNano(updatedAt)
	return &p, nil
}

func (r *sqliteProfileRepository) Create(ctx context.Context, p *entity.Profile) error {
	var member sql.NullInt64
	if p.MemberNumber > 0 {
		member = sql.NullInt64{Int64: int64(p.MemberNumber), Valid: true}
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO profiles (`+profileColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.UserID, p.Email, p.FullName, nullableString(p.Username), p.Wilaya, member,
		p.AvatarURL, boolInt(p.IsVerified), unixNano(p.CreatedAt), unixNano(p.UpdatedAt))
	if isUniqueViolation(err) {
		return fmt.Errorf("create profile: %w", repository.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("create profile: %w", err)
	}
	return nil
}

func (r *sqliteProfileRepository) GetByID(ctx context.Context, userID string) (*entity.Profile, error) {
	p, err := scanProfile(r.db.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE user_id = ?`, userID))
	if err != nil {
		return nil, notFound("get profile", err)
	}
	return p, nil
}

func (r *sqliteProfileRepository) GetByUsername(ctx context.Context, username string) (*entity.Profile, error) {
	p, err := scanProfile(r.db.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE username = ?`, username))
	if err != nil {
		return nil, notFound("get profile by username", err)
	}
	return p, nil
}

func (r *sqliteProfileRepository) Update(ctx context.Context, p *entity.Profile) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE profiles SET email = ?, full_name = ?, username = ?, wilaya = ?, avatar_url = ?,
		 is_verified = ?, updated_at = ? WHERE user_id = ?`,
		p.Email, p.FullName, nullableString(p.Username), p.Wilaya, p.AvatarURL,
		boolInt(p.IsVerified), unixNano(p.UpdatedAt), p.UserID)
	if isUniqueViolation(err) {
		return fmt.Errorf("update profile: %w", repository.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return requireAffected(res, "update profile")
}

func (r *sqliteProfileRepository) List(ctx context.Context, limit, offset int) ([]*entity.Profile, int64, error) {
	total, err := r.Count(ctx)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+profileColumns+` FROM profiles ORDER BY created_at DESC LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	var profiles []*entity.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan profile: %w", err)
		}
		profiles = append(profiles, p)
	}
	return profiles, total, rows.Err()
}

func (r *sqliteProfileRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM profiles`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count profiles: %w", err)
	}
	return n, nil
}

func (r *sqliteProfileRepository) Names(ctx context.Context, userIDs []string) (map[string]string, error) {
	names := make(map[string]string, len(userIDs))
	if len(userIDs) == 0 {
		return names, nil
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT user_id, full_name FROM profiles WHERE user_id IN (`+placeholders(len(userIDs))+`)`,
		stringArgs(userIDs)...)
	if err != nil {
		return nil, fmt.Errorf("load profile names: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("scan profile name: %w", err)
		}
		names[id] = name
	}
	return names, rows.Err()
}

func (r *sqliteProfileRepository) AssignMemberNumber(ctx context.Context, userID string) (int, error) {
	var assigned int
	err := database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		var current sql.NullInt64
		err := tx.QueryRowContext(ctx,
			`SELECT member_number FROM profiles WHERE user_id = ?`, userID).Scan(&current)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("assign member number: %w", repository.ErrNotFound)
		}
		if err != nil {
			return err
		}
		if current.Valid && current.Int64 > 0 {
			assigned = int(current.Int64)
			return nil
		}

		var next int64
		if err := tx.QueryRowContext(ctx,
			`SELECT COALESCE(MAX(member_number), 0) + 1 FROM profiles`).Scan(&next); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE profiles SET member_number = ?, updated_at = ? WHERE user_id = ?`,
			next, time.Now().UnixNano(), userID); err != nil {
			return err
		}
		assigned = int(next)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return assigned, nil
}

type sqliteRoleRepository struct {
	db *sql.DB
}

func (r *sqliteRoleRepository) GetRoles(ctx context.Context, userID string) ([]entity.Role, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT role FROM user_roles WHERE user_id = ? ORDER BY role`, userID)
	if err != nil {
		return nil, fmt.Errorf("get roles: %w", err)
	}
	defer rows.Close()

	roles := []entity.Role{}
	for rows.Next() {
		var role string
		if err := rows.Scan(&role); err != nil {
			return nil, fmt.Errorf("scan role: %w", err)
		}
		roles = append(roles, entity.Role(role))
	}
	return roles, rows.Err()
}

func (r *sqliteRoleRepository) SetRoles(ctx context.Context, userID string, roles []entity.Role) error {
	return database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM user_roles WHERE user_id = ?`, userID); err != nil {
			return fmt.Errorf("clear roles: %w", err)
		}
		now := time.Now().UnixNano()
		for _, role := range roles {
			if _, err := tx.ExecContext(ctx,
				`INSERT OR IGNORE INTO user_roles (user_id, role, created_at) VALUES (?, ?, ?)`,
				userID, string(role), now); err != nil {
				return fmt.Errorf("insert role: %w", err)
			}
		}
		return nil
	})
}

func (r *sqliteRoleRepository) ListAll(ctx context.Context) (map[string][]entity.Role, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT user_id, role FROM user_roles ORDER BY user_id, role`)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]entity.Role)
	for rows.Next() {
		var userID, role string
		if err := rows.Scan(&userID, &role); err != nil {
			return nil, fmt.Errorf("scan role: %w", err)
		}
		out[userID] = append(out[userID], entity.Role(role))
	}
	return out, rows.Err()
}

type sqliteCredentialRepository struct {
	db *sql.DB
}

func (r *sqliteCredentialRepository) Create(ctx context.Context, c *entity.Credential) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO credentials (user_id, email, password_hash, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		c.UserID, c.Email, c.PasswordHash, unixNano(c.CreatedAt), unixNano(c.UpdatedAt))
	if isUniqueViolation(err) {
		return fmt.Errorf("create credential: %w", repository.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("create credential: %w", err)
	}
	return nil
}

func (r *sqliteCredentialRepository) GetByEmail(ctx context.Context, email string) (*entity.Credential, error) {
	var (
		c                    entity.Credential
		createdAt, updatedAt int64
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT user_id, email, password_hash, created_at, updated_at FROM credentials WHERE email = ?`, email).
		Scan(&c.UserID, &c.Email, &c.PasswordHash, &createdAt, &updatedAt)
	if err != nil {
		return nil, notFound("get credential", err)
	}
	c.CreatedAt = fromUnixNano(createdAt)
	c.UpdatedAt = fromUnixNano(updatedAt)
	return &c, nil
}

func (r *sqliteCredentialRepository) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE credentials SET password_hash = ?, updated_at = ? WHERE user_id = ?`,
		passwordHash, time.Now().UnixNano(), userID)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return requireAffected(res, "update password")
}

package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"esekoir/internal/domain/entity"
	"esekoir/pkg/utils"
)

const (
	planColumns    = `id, name, price, duration_days, features, is_active, created_at, updated_at`
	requestColumns = `id, user_id, plan_id, document_url, status, admin_notes, processed_by, processed_at, created_at, updated_at`
)

type sqliteVerificationRepository struct {
	db *sql.DB
}

func scanPlan(row rowScanner) (*entity.VerificationPlan, error) {
	var (
		p                    entity.VerificationPlan
		features             string
		active               int
		createdAt, updatedAt int64
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Price, &p.DurationDays, &features, &active, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(features), &p.Features); err != nil {
		return nil, fmt.Errorf("decode plan features: %w", err)
	}
	p.IsActive = active == 1
	p.CreatedAt = fromUnixNano(createdAt)
	p.UpdatedAt = fromUnixNano(updatedAt)
	return &p, nil
}

func (r *sqliteVerificationRepository) ListPlans(ctx context.Context, activeOnly bool) ([]*entity.VerificationPlan, error) {
	query := `SELECT ` + planColumns + ` FROM verification_plans`
	if activeOnly {
		query += ` WHERE is_active = 1`
	}
	query += ` ORDER BY price, name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	defer rows.Close()

	out := []*entity.VerificationPlan{}
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan plan: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *sqliteVerificationRepository) GetPlan(ctx context.Context, id string) (*entity.VerificationPlan, error) {
	p, err := scanPlan(r.db.QueryRowContext(ctx, `SELECT `+planColumns+` FROM verification_plans WHERE id = ?`, id))
	if err != nil {
		return nil, notFound("get plan", err)
	}
	return p, nil
}

func (r *sqliteVerificationRepository) UpsertPlan(ctx context.Context, p *entity.VerificationPlan) error {
	features := p.Features
	if features == nil {
		features = []string{}
	}
	encoded, err := json.Marshal(features)
	if err != nil {
		return fmt.Errorf("encode plan features: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO verification_plans (`+planColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET name = excluded.name, price = excluded.price,
		 duration_days = excluded.duration_days, features = excluded.features,
		 is_active = excluded.is_active, updated_at = excluded.updated_at`,
		p.ID, p.Name, p.Price, p.DurationDays, string(encoded), boolInt(p.IsActive),
		unixNano(p.CreatedAt), unixNano(p.UpdatedAt))
	if err != nil {
		return fmt.Errorf("upsert plan: %w", err)
	}
	return nil
}

func (r *sqliteVerificationRepository) DeletePlan(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM verification_plans WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete plan: %w", err)
	}
	return requireAffected(res, "delete plan")
}

func scanVerificationRequest(row rowScanner) (*entity.VerificationRequest, error) {
	var (
		v                    entity.VerificationRequest
		processedAt          sql.NullInt64
		createdAt, updatedAt int64
	)
	if err := row.Scan(&v.ID, &v.UserID, &v.PlanID, &v.DocumentURL, &v.Status, &v.AdminNotes,
		&v.ProcessedBy, &processedAt, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	v.ProcessedAt = timePtr(processedAt)
	v.CreatedAt = fromUnixNano(createdAt)
	v.UpdatedAt = fromUnixNano(updatedAt)
	return &v, nil
}

func (r *sqliteVerificationRepository) CreateRequest(ctx context.Context, v *entity.VerificationRequest) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO verification_requests (`+requestColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		v.ID, v.UserID, v.PlanID, v.DocumentURL, string(v.Status), v.AdminNotes, v.ProcessedBy,
		nullableTime(v.ProcessedAt), unixNano(v.CreatedAt), unixNano(v.UpdatedAt))
	if err != nil {
		return fmt.Errorf("create verification request: %w", err)
	}
	return nil
}

func (r *sqliteVerificationRepository) GetRequest(ctx context.Context, id string) (*entity.VerificationRequest, error) {
	v, err := scanVerificationRequest(r.db.QueryRowContext(ctx,
		`SELECT `+requestColumns+` FROM verification_requests WHERE id = ?`, id))
	if err != nil {
		return nil, notFound("get verification request", err)
	}
	return v, nil
}

func (r *sqliteVerificationRepository) ListRequestsByUser(ctx context.Context, userID string) ([]*entity.VerificationRequest, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+requestColumns+` FROM verification_requests WHERE user_id = ? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list verification requests: %w", err)
	}
	defer rows.Close()

	out := []*entity.VerificationRequest{}
	for rows.Next() {
		v, err := scanVerificationRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan verification request: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *sqliteVerificationRepository) ListRequestsByStatus(ctx context.Context, status entity.RequestStatus, page utils.Pagination) ([]*entity.VerificationRequest, int64, error) {
	where, args := "", []any{}
	if status != "" {
		where, args = ` WHERE status = ?`, []any{string(status)}
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM verification_requests`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count verification requests: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+requestColumns+` FROM verification_requests`+where+` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		append(args, page.Limit, page.Offset())...)
	if err != nil {
		return nil, 0, fmt.Errorf("list verification requests: %w", err)
	}
	defer rows.Close()

	out := []*entity.VerificationRequest{}
	for rows.Next() {
		v, err := scanVerificationRequest(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan verification request: %w", err)
		}
		out = append(out, v)
	}
	return out, total, rows.Err()
}

func (r *sqliteVerificationRepository) DecideRequest(ctx context.Context, id string, d entity.Decision) error {
	return decidePending(ctx, r.db, "verification_requests", id, d)
}

func (r *sqliteVerificationRepository) CountByStatus(ctx context.Context, status entity.RequestStatus) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM verification_requests WHERE status = ?`, string(status)).Scan(&n); err != nil {
		return 0, fmt.Errorf("count verification requests: %w", err)
	}
	return n, nil
}

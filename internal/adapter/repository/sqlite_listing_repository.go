package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"esekoir/internal/domain/entity"
	"esekoir/pkg/utils"
)

const listingColumns = `id, seller_id, title, description, category, asset_code, amount, price, wilaya, phone, status, created_at, updated_at`

type sqliteListingRepository struct {
	db *sql.DB
}

func scanListing(row rowScanner) (*entity.Listing, error) {
	var (
		l                    entity.Listing
		createdAt, updatedAt int64
	)
	if err := row.Scan(&l.ID, &l.SellerID, &l.Title, &l.Description, &l.Category, &l.AssetCode,
		&l.Amount, &l.Price, &l.Wilaya, &l.Phone, &l.Status, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	l.CreatedAt = fromUnixNano(createdAt)
	l.UpdatedAt = fromUnixNano(updatedAt)
	return &l, nil
}

func (r *sqliteListingRepository) Create(ctx context.Context, l *entity.Listing) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO listings (`+listingColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.SellerID, l.Title, l.Description, l.Category, l.AssetCode, l.Amount, l.Price,
		l.Wilaya, l.Phone, l.Status, unixNano(l.CreatedAt), unixNano(l.UpdatedAt))
	if err != nil {
		return fmt.Errorf("create listing: %w", err)
	}
	return nil
}

func (r *sqliteListingRepository) GetByID(ctx context.Context, id string) (*entity.Listing, error) {
	l, err := scanListing(r.db.QueryRowContext(ctx,
		`SELECT `+listingColumns+` FROM listings WHERE id = ?`, id))
	if err != nil {
		return nil, notFound("get listing", err)
	}
	return l, nil
}

func (r *sqliteListingRepository) Update(ctx context.Context, l *entity.Listing) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE listings SET title = ?, description = ?, category = ?, asset_code = ?, amount = ?,
		 price = ?, wilaya = ?, phone = ?, status = ?, updated_at = ? WHERE id = ?`,
		l.Title, l.Description, l.Category, l.AssetCode, l.Amount, l.Price, l.Wilaya, l.Phone,
		l.Status, unixNano(l.UpdatedAt), l.ID)
	if err != nil {
		return fmt.Errorf("update listing: %w", err)
	}
	return requireAffected(res, "update listing")
}

func (r *sqliteListingRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM listings WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete listing: %w", err)
	}
	return requireAffected(res, "delete listing")
}

func (r *sqliteListingRepository) List(ctx context.Context, filter entity.ListingFilter, page utils.Pagination) ([]*entity.Listing, int64, error) {
	var (
		conds []string
		args  []any
	)
	if filter.Category != "" {
		conds = append(conds, "category = ?")
		args = append(args, filter.Category)
	}
	if filter.Wilaya != "" {
		conds = append(conds, "wilaya = ?")
		args = append(args, filter.Wilaya)
	}
	if filter.SellerID != "" {
		conds = append(conds, "seller_id = ?")
		args = append(args, filter.SellerID)
	}
	if filter.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, filter.Status)
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		conds = append(conds, "(LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(asset_code) LIKE ?)")
		like := "%" + strings.ToLower(q) + "%"
		args = append(args, like, like, like)
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM listings`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count listings: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+listingColumns+` FROM listings`+where+` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		append(args, page.Limit, page.Offset())...)
	if err != nil {
		return nil, 0, fmt.Errorf("list listings: %w", err)
	}
	defer rows.Close()

	listings := []*entity.Listing{}
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan listing: %w", err)
		}
		listings = append(listings, l)
	}
	return listings, total, rows.Err()
}

func (r *sqliteListingRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM listings`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count listings: %w", err)
	}
	return n, nil
}

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
	"esekoir/pkg/utils"
)

const walletColumns = `id, user_id, balance, currency, status, last_txn_at, created_at, updated_at`

type sqliteWalletRepository struct {
	db *sql.DB
}

func scanWallet(row rowScanner) (*entity.Wallet, error) {
	var (
		w                               entity.Wallet
		lastTxnAt, createdAt, updatedAt int64
	)
	if err := row.Scan(&w.ID, &w.UserID, &w.Balance, &w.Currency, &w.Status,
		&lastTxnAt, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	w.LastTxnAt = fromUnixNano(lastTxnAt)
	w.CreatedAt = fromUnixNano(createdAt)
	w.UpdatedAt = fromUnixNano(updatedAt)
	return &w, nil
}

// ensureWallet creates the user's wallet if missing. The wallet id is the user id.
func ensureWallet(ctx context.Context, q database.Querier, userID string) (*entity.Wallet, error) {
	now := time.Now().UnixNano()
	if _, err := q.ExecContext(ctx,
		`INSERT OR IGNORE INTO wallets (`+walletColumns+`) VALUES (?, ?, 0, ?, 'active', 0, ?, ?)`,
		userID, userID, entity.DefaultWalletCurrency, now, now); err != nil {
		return nil, fmt.Errorf("create wallet: %w", err)
	}
	w, err := scanWallet(q.QueryRowContext(ctx,
		`SELECT `+walletColumns+` FROM wallets WHERE user_id = ?`, userID))
	if err != nil {
		return nil, notFound("get wallet", err)
	}
	return w, nil
}

func (r *sqliteWalletRepository) GetOrCreate(ctx context.Context, userID string) (*entity.Wallet, error) {
	return ensureWallet(ctx, r.db, userID)
}

func (r *sqliteWalletRepository) Credit(ctx context.Context, userID string, txn *entity.WalletTransaction) (*entity.Wallet, bool, error) {
	var (
		wallet  *entity.Wallet
		applied bool
	)

	err := database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		w, err := ensureWallet(ctx, tx, userID)
		if err != nil {
			return err
		}
		wallet = w

		var exists int
		err = tx.QueryRowContext(ctx, `SELECT 1 FROM wallet_transactions WHERE id = ?`, txn.ID).Scan(&exists)
		if err == nil {
			return nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("check wallet transaction: %w", err)
		}

		prev, next := w.Credit(txn.Amount)
		if next < 0 {
			return fmt.Errorf("insufficient balance: %w", repository.ErrConflict)
		}
		now := time.Now()
		if txn.CreatedAt.IsZero() {
			txn.CreatedAt = now
		}
		txn.WalletID = w.ID
		txn.UserID = userID
		txn.PreviousBalance = prev
		txn.NewBalance = next

		if _, err := tx.ExecContext(ctx,
			`UPDATE wallets SET balance = ?, last_txn_at = ?, updated_at = ? WHERE id = ?`,
			next, now.UnixNano(), now.UnixNano(), w.ID); err != nil {
			return fmt.Errorf("update wallet balance: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO wallet_transactions (id, wallet_id, user_id, type, amount, previous_balance,
			 new_balance, reference, description, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			txn.ID, txn.WalletID, txn.UserID, txn.Type, txn.Amount, txn.PreviousBalance,
			txn.NewBalance, txn.Reference, txn.Description, unixNano(txn.CreatedAt)); err != nil {
			return fmt.Errorf("insert wallet transaction: %w", err)
		}

		w.Balance = next
		w.LastTxnAt = now
		w.UpdatedAt = now
		applied = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return wallet, applied, nil
}

func (r *sqliteWalletRepository) ListTransactions(ctx context.Context, userID string, page utils.Pagination) ([]*entity.WalletTransaction, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM wallet_transactions WHERE user_id = ?`, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count wallet transactions: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, wallet_id, user_id, type, amount, previous_balance, new_balance, reference, description, created_at
		 FROM wallet_transactions WHERE user_id = ? ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		userID, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list wallet transactions: %w", err)
	}
	defer rows.Close()

	out := []*entity.WalletTransaction{}
	for rows.Next() {
		var (
			t         entity.WalletTransaction
			createdAt int64
		)
		if err := rows.Scan(&t.ID, &t.WalletID, &t.UserID, &t.Type, &t.Amount, &t.PreviousBalance,
			&t.NewBalance, &t.Reference, &t.Description, &createdAt); err != nil {
			return nil, 0, fmt.Errorf("scan wallet transaction: %w", err)
		}
		t.CreatedAt = fromUnixNano(createdAt)
		out = append(out, &t)
	}
	return out, total, rows.Err()
}

func (r *sqliteWalletRepository) TotalBalance(ctx context.Context) (float64, error) {
	var total float64
	if err := r.db.QueryRowContext(ctx, `SELECT COALESCE(SUM(balance), 0) FROM wallets`).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum wallet balances: %w", err)
	}
	return total, nil
}

const chargeColumns = `id, user_id, amount, payment_method, receipt_url, status, admin_notes, processed_by, processed_at, created_at, updated_at`

type sqliteChargeRequestRepository struct {
	db *sql.DB
}

func scanChargeRequest(row rowScanner) (*entity.ChargeRequest, error) {
	var (
		c                    entity.ChargeRequest
		processedAt          sql.NullInt64
		createdAt, updatedAt int64
	)
	if err := row.Scan(&c.ID, &c.UserID, &c.Amount, &c.PaymentMethod, &c.ReceiptURL, &c.Status,
		&c.AdminNotes, &c.ProcessedBy, &processedAt, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	c.ProcessedAt = timePtr(processedAt)
	c.CreatedAt = fromUnixNano(createdAt)
	c.UpdatedAt = fromUnixNano(updatedAt)
	return &c, nil
}

func (r *sqliteChargeRequestRepository) Create(ctx context.Context, c *entity.ChargeRequest) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO charge_requests (`+chargeColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.UserID, c.Amount, c.PaymentMethod, c.ReceiptURL, string(c.Status), c.AdminNotes,
		c.ProcessedBy, nullableTime(c.ProcessedAt), unixNano(c.CreatedAt), unixNano(c.UpdatedAt))
	if err != nil {
		return fmt.Errorf("create charge request: %w", err)
	}
	return nil
}

func (r *sqliteChargeRequestRepository) GetByID(ctx context.Context, id string) (*entity.ChargeRequest, error) {
	c, err := scanChargeRequest(r.db.QueryRowContext(ctx,
		`SELECT `+chargeColumns+` FROM charge_requests WHERE id = ?`, id))
	if err != nil {
		return nil, notFound("get charge request", err)
	}
	return c, nil
}

func (r *sqliteChargeRequestRepository) list(ctx context.Context, where string, args []any, page utils.Pagination) ([]*entity.ChargeRequest, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM charge_requests`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count charge requests: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+chargeColumns+` FROM charge_requests`+where+` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		append(args, page.Limit, page.Offset())...)
	if err != nil {
		return nil, 0, fmt.Errorf("list charge requests: %w", err)
	}
	defer rows.Close()

	out := []*entity.ChargeRequest{}
	for rows.Next() {
		c, err := scanChargeRequest(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan charge request: %w", err)
		}
		out = append(out, c)
	}
	return out, total, rows.Err()
}

func (r *sqliteChargeRequestRepository) ListByUser(ctx context.Context, userID string, page utils.Pagination) ([]*entity.ChargeRequest, int64, error) {
	return r.list(ctx, ` WHERE user_id = ?`, []any{userID}, page)
}

func (r *sqliteChargeRequestRepository) ListByStatus(ctx context.Context, status entity.RequestStatus, page utils.Pagination) ([]*entity.ChargeRequest, int64, error) {
	if status == "" {
		return r.list(ctx, "", nil, page)
	}
	return r.list(ctx, ` WHERE status = ?`, []any{string(status)}, page)
}

func (r *sqliteChargeRequestRepository) Decide(ctx context.Context, id string, d entity.Decision) error {
	return decidePending(ctx, r.db, "charge_requests", id, d)
}

func (r *sqliteChargeRequestRepository) CountByStatus(ctx context.Context, status entity.RequestStatus) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM charge_requests WHERE status = ?`, string(status)).Scan(&n); err != nil {
		return 0, fmt.Errorf("count charge requests: %w", err)
	}
	return n, nil
}

// decidePending is the compare-and-set shared by charge and verification
// requests: only a pending row changes.
func decidePending(ctx context.Context, db *sql.DB, table, id string, d entity.Decision) error {
	at := d.At
	if at.IsZero() {
		at = time.Now()
	}
	res, err := db.ExecContext(ctx,
		`UPDATE `+table+` SET status = ?, admin_notes = ?, processed_by = ?, processed_at = ?, updated_at = ?
		 WHERE id = ? AND status = 'pending'`,
		string(d.Status()), d.Notes, d.AdminID, at.UnixNano(), at.UnixNano(), id)
	if err != nil {
		return fmt.Errorf("decide %s: %w", table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("decide %s: %w", table, err)
	}
	if n == 1 {
		return nil
	}

	var status string
	err = db.QueryRowContext(ctx, `SELECT status FROM `+table+` WHERE id = ?`, id).Scan(&status)
	if err != nil {
		return notFound("decide "+table, err)
	}
	return fmt.Errorf("decide %s: already %s: %w", table, status, repository.ErrConflict)
}

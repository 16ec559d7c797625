package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"

	"esekoir/internal/domain/entity"
	"esekoir/pkg/errors"
	"esekoir/pkg/logger"
	"esekoir/pkg/utils"
)

type firestoreWalletRepository struct {
	client *firestore.Client
}

func newWallet(userID string, now time.Time) *entity.Wallet {
	return &entity.Wallet{
		ID:        userID,
		UserID:    userID,
		Currency:  entity.DefaultWalletCurrency,
		Status:    "active",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (r *firestoreWalletRepository) GetOrCreate(ctx context.Context, userID string) (*entity.Wallet, error) {
	var wallet *entity.Wallet
	ref := r.client.Collection("wallets").Doc(userID)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(ref)
		if isNotFound(err) {
			wallet = newWallet(userID, time.Now())
			return tx.Create(ref, wallet)
		}
		if err != nil {
			return err
		}
		var w entity.Wallet
		if err := doc.DataTo(&w); err != nil {
			return err
		}
		wallet = &w
		return nil
	})
	if err != nil {
		return nil, errors.Internal("Failed to load wallet", err)
	}
	return wallet, nil
}

func (r *firestoreWalletRepository) Credit(ctx context.Context, userID string, txn *entity.WalletTransaction) (*entity.Wallet, bool, error) {
	var (
		wallet  *entity.Wallet
		applied bool
	)
	walletRef := r.client.Collection("wallets").Doc(userID)
	txnRef := r.client.Collection("wallet_transactions").Doc(txn.ID)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		applied = false

		_, txnErr := tx.Get(txnRef)
		if txnErr != nil && !isNotFound(txnErr) {
			return txnErr
		}

		now := time.Now()
		walletDoc, err := tx.Get(walletRef)
		switch {
		case isNotFound(err):
			wallet = newWallet(userID, now)
		case err != nil:
			return err
		default:
			var w entity.Wallet
			if err := walletDoc.DataTo(&w); err != nil {
				return err
			}
			wallet = &w
		}

		if txnErr == nil {
			return nil
		}

		prev, next := wallet.Credit(txn.Amount)
		if next < 0 {
			return conflict("Insufficient balance")
		}
		if txn.CreatedAt.IsZero() {
			txn.CreatedAt = now
		}
		txn.WalletID = wallet.ID
		txn.UserID = userID
		txn.PreviousBalance = prev
		txn.NewBalance = next

		wallet.Balance = next
		wallet.LastTxnAt = now
		wallet.UpdatedAt = now
		if err := tx.Set(walletRef, wallet); err != nil {
			return err
		}
		applied = true
		return tx.Create(txnRef, txn)
	})
	if err != nil {
		if errors.Is(err, errors.CodeConflict) {
			return nil, false, err
		}
		return nil, false, errors.Internal("Failed to credit wallet", err)
	}
	return wallet, applied, nil
}

func (r *firestoreWalletRepository) ListTransactions(ctx context.Context, userID string, page utils.Pagination) ([]*entity.WalletTransaction, int64, error) {
	query := r.client.Collection("wallet_transactions").
		Where("userId", "==", userID).
		OrderBy("createdAt", firestore.Desc)

	total, err := countQuery(ctx, query, "wallet transactions")
	if err != nil {
		return nil, 0, err
	}
	txns, err := collect[entity.WalletTransaction](ctx, query.Offset(page.Offset()).Limit(page.Limit), "wallet transactions")
	if err != nil {
		return nil, 0, err
	}
	return txns, total, nil
}

func (r *firestoreWalletRepository) TotalBalance(ctx context.Context) (float64, error) {
	wallets, err := collect[entity.Wallet](ctx, r.client.Collection("wallets").Query, "wallets")
	if err != nil {
		logger.Warn("Error calculating total balance: %v", err)
		return 0, err
	}
	total := 0.0
	for _, w := range wallets {
		total += w.Balance
	}
	return total, nil
}

type firestoreChargeRequestRepository struct {
	client *firestore.Client
}

func (r *firestoreChargeRequestRepository) Create(ctx context.Context, c *entity.ChargeRequest) error {
	if _, err := r.client.Collection("charge_requests").Doc(c.ID).Set(ctx, c); err != nil {
		return errors.Internal("Failed to create charge request", err)
	}
	return nil
}

func (r *firestoreChargeRequestRepository) GetByID(ctx context.Context, id string) (*entity.ChargeRequest, error) {
	doc, err := r.client.Collection("charge_requests").Doc(id).Get(ctx)
	if err != nil {
		return nil, getError("Charge request", err)
	}
	var c entity.ChargeRequest
	if err := doc.DataTo(&c); err != nil {
		return nil, errors.Internal("Failed to parse charge request data", err)
	}
	return &c, nil
}

func (r *firestoreChargeRequestRepository) page(ctx context.Context, query firestore.Query, page utils.Pagination) ([]*entity.ChargeRequest, int64, error) {
	query = query.OrderBy("createdAt", firestore.Desc)
	total, err := countQuery(ctx, query, "charge requests")
	if err != nil {
		return nil, 0, err
	}
	list, err := collect[entity.ChargeRequest](ctx, query.Offset(page.Offset()).Limit(page.Limit), "charge requests")
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *firestoreChargeRequestRepository) ListByUser(ctx context.Context, userID string, page utils.Pagination) ([]*entity.ChargeRequest, int64, error) {
	return r.page(ctx, r.client.Collection("charge_requests").Where("userId", "==", userID), page)
}

func (r *firestoreChargeRequestRepository) ListByStatus(ctx context.Context, status entity.RequestStatus, page utils.Pagination) ([]*entity.ChargeRequest, int64, error) {
	query := r.client.Collection("charge_requests").Query
	if status != "" {
		query = query.Where("status", "==", string(status))
	}
	return r.page(ctx, query, page)
}

func (r *firestoreChargeRequestRepository) Decide(ctx context.Context, id string, d entity.Decision) error {
	return decidePendingDoc(ctx, r.client, r.client.Collection("charge_requests").Doc(id), "Charge request", d)
}

func (r *firestoreChargeRequestRepository) CountByStatus(ctx context.Context, status entity.RequestStatus) (int64, error) {
	return countQuery(ctx, r.client.Collection("charge_requests").Where("status", "==", string(status)), "charge requests")
}

// decidePendingDoc moves a pending request document to the decision's status
// inside a transaction.
func decidePendingDoc(ctx context.Context, client *firestore.Client, ref *firestore.DocumentRef, resource string, d entity.Decision) error {
	at := d.At
	if at.IsZero() {
		at = time.Now()
	}

	err := client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(ref)
		if err != nil {
			return err
		}
		current, _ := doc.Data()["status"].(string)
		if entity.RequestStatus(current) != entity.StatusPending {
			return conflict(resource + " is already " + current)
		}
		return tx.Update(ref, []firestore.Update{
			{Path: "status", Value: string(d.Status())},
			{Path: "adminNotes", Value: d.Notes},
			{Path: "processedBy", Value: d.AdminID},
			{Path: "processedAt", Value: at},
			{Path: "updatedAt", Value: at},
		})
	})
	if err == nil {
		return nil
	}
	if errors.Is(err, errors.CodeConflict) {
		return err
	}
	return getError(resource, err)
}

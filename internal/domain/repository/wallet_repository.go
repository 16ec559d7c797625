package repository

import (
	"context"

	"esekoir/internal/domain/entity"
	"esekoir/pkg/utils"
)

type WalletRepository interface {
	// GetOrCreate returns the user's wallet, creating an empty DZD one if missing.
	GetOrCreate(ctx context.Context, userID string) (*entity.Wallet, error)
	// Credit adds txn.Amount to the user's wallet and records txn. If a
	// transaction with txn.ID already exists nothing changes and applied is false.
	Credit(ctx context.Context, userID string, txn *entity.WalletTransaction) (wallet *entity.Wallet, applied bool, err error)
	ListTransactions(ctx context.Context, userID string, page utils.Pagination) ([]*entity.WalletTransaction, int64, error)
	TotalBalance(ctx context.Context) (float64, error)
}

type ChargeRequestRepository interface {
	Create(ctx context.Context, req *entity.ChargeRequest) error
	GetByID(ctx context.Context, id string) (*entity.ChargeRequest, error)
	ListByUser(ctx context.Context, userID string, page utils.Pagination) ([]*entity.ChargeRequest, int64, error)
	// ListByStatus lists every request when status is empty.
	ListByStatus(ctx context.Context, status entity.RequestStatus, page utils.Pagination) ([]*entity.ChargeRequest, int64, error)
	// Decide moves a pending request to the decision's status. ErrConflict
	// means the request was no longer pending.
	Decide(ctx context.Context, id string, decision entity.Decision) error
	CountByStatus(ctx context.Context, status entity.RequestStatus) (int64, error)
}

type VerificationRepository interface {
	ListPlans(ctx context.Context, activeOnly bool) ([]*entity.VerificationPlan, error)
	GetPlan(ctx context.Context, id string) (*entity.VerificationPlan, error)
	UpsertPlan(ctx context.Context, plan *entity.VerificationPlan) error
	DeletePlan(ctx context.Context, id string) error

	CreateRequest(ctx context.Context, req *entity.VerificationRequest) error
	GetRequest(ctx context.Context, id string) (*entity.VerificationRequest, error)
	ListRequestsByUser(ctx context.Context, userID string) ([]*entity.VerificationRequest, error)
	ListRequestsByStatus(ctx context.Context, status entity.RequestStatus, page utils.Pagination) ([]*entity.VerificationRequest, int64, error)
	DecideRequest(ctx context.Context, id string, decision entity.Decision) error
	CountByStatus(ctx context.Context, status entity.RequestStatus) (int64, error)
}

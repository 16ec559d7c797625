package usecase

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"esekoir/internal/domain/entity"
	"esekoir/internal/domain/repository"
	"esekoir/internal/domain/service"
	"esekoir/internal/infrastructure/metrics"
	"esekoir/pkg/errors"
	"esekoir/pkg/logger"
	"esekoir/pkg/utils"
)

var (
	minChargeAmount = decimal.NewFromInt(100)
	maxChargeAmount = decimal.NewFromInt(10_000_000)
)

type WalletUseCase struct {
	walletRepo repository.WalletRepository
	chargeRepo repository.ChargeRequestRepository
	notifier   *NotificationUseCase
	blobs      service.BlobStore
	metrics    *metrics.Metrics
}

func NewWalletUseCase(
	walletRepo repository.WalletRepository,
	chargeRepo repository.ChargeRequestRepository,
	notifier *NotificationUseCase,
	blobs service.BlobStore,
	m *metrics.Metrics,
) *WalletUseCase {
	if m == nil {
		m = metrics.Nop()
	}
	return &WalletUseCase{
		walletRepo: walletRepo,
		chargeRepo: chargeRepo,
		notifier:   notifier,
		blobs:      blobs,
		metrics:    m,
	}
}

type ChargeRequestInput struct {
	Amount        float64
	PaymentMethod string
	// Receipt is optional.
	Receipt         io.Reader
	ReceiptType     string
	ReceiptFilename string
}

func (uc *WalletUseCase) GetWallet(ctx context.Context, uid string) (*entity.Wallet, error) {
	wallet, err := uc.walletRepo.GetOrCreate(ctx, uid)
	if err != nil {
		return nil, errors.Internal("Failed to load wallet", err)
	}
	return wallet, nil
}

func (uc *WalletUseCase) ListTransactions(ctx context.Context, uid string, page utils.Pagination) ([]*entity.WalletTransaction, int64, error) {
	txns, total, err := uc.walletRepo.ListTransactions(ctx, uid, page)
	if err != nil {
		return nil, 0, errors.Internal("Failed to get wallet transactions", err)
	}
	return txns, total, nil
}

func (uc *WalletUseCase) CreateChargeRequest(ctx context.Context, uid string, input ChargeRequestInput) (*entity.ChargeRequest, error) {
	if math.IsNaN(input.Amount) || math.IsInf(input.Amount, 0) {
		return nil, errors.BadRequest("Amount must be a finite number", nil)
	}
	amount := decimal.NewFromFloat(input.Amount).Round(2)
	if amount.LessThan(minChargeAmount) || amount.GreaterThan(maxChargeAmount) {
		return nil, errors.BadRequest(fmt.Sprintf("Amount must be between %s and %s DZD", minChargeAmount, maxChargeAmount), nil)
	}

	now := time.Now().UTC()
	req := &entity.ChargeRequest{
		ID:            uuid.New().String(),
		UserID:        uid,
		Amount:        amount.InexactFloat64(),
		PaymentMethod: strings.TrimSpace(input.PaymentMethod),
		Status:        entity.StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if input.Receipt != nil {
		if !service.AllowedImage(input.ReceiptType) && input.ReceiptType != "application/pdf" {
			return nil, errors.BadRequest("Receipt must be an image or a PDF", nil)
		}
		objectPath := fmt.Sprintf("receipts/%s/%s%s", uid, req.ID, service.ExtensionFor(input.ReceiptType, input.ReceiptFilename))
		if err := uc.blobs.Upload(ctx, objectPath, input.Receipt, input.ReceiptType, false); err != nil {
			return nil, errors.Internal("Failed to upload receipt", err)
		}
		req.ReceiptURL = uc.blobs.PublicURL(objectPath)
	}

	if err := uc.chargeRepo.Create(ctx, req); err != nil {
		return nil, errors.Internal("Failed to create charge request", err)
	}
	return req, nil
}

func (uc *WalletUseCase) ListMyChargeRequests(ctx context.Context, uid string, page utils.Pagination) ([]*entity.ChargeRequest, int64, error) {
	items, total, err := uc.chargeRepo.ListByUser(ctx, uid, page)
	if err != nil {
		return nil, 0, errors.Internal("Failed to list charge requests", err)
	}
	return items, total, nil
}

func (uc *WalletUseCase) ListChargeRequests(ctx context.Context, status entity.RequestStatus, page utils.Pagination) ([]*entity.ChargeRequest, int64, error) {
	if status != "" && !status.Valid() {
		return nil, 0, errors.BadRequest("Invalid status", nil)
	}
	items, total, err := uc.chargeRepo.ListByStatus(ctx, status, page)
	if err != nil {
		return nil, 0, errors.Internal("Failed to list charge requests", err)
	}
	return items, total, nil
}

func (uc *WalletUseCase) getCharge(ctx context.Context, id string) (*entity.ChargeRequest, error) {
	req, err := uc.chargeRepo.GetByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NotFound("Charge request", err)
		}
		return nil, errors.Internal("Failed to load charge request", err)
	}
	return req, nil
}

// decide moves a pending request to the decision's status. A request that
// already carries that status is returned as is so later steps can resume.
func (uc *WalletUseCase) decide(ctx context.Context, id string, d entity.Decision) (*entity.ChargeRequest, error) {
	req, err := uc.getCharge(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Status == entity.StatusPending {
		err := uc.chargeRepo.Decide(ctx, id, d)
		if err != nil && !stderrors.Is(err, repository.ErrConflict) {
			uc.stepFailed(chargeWorkflow(d), "status", id, err)
			return nil, errors.Internal("Failed to update charge request", err)
		}
		// Re-read: either our write or a concurrent admin's decision won.
		if req, err = uc.getCharge(ctx, id); err != nil {
			return nil, err
		}
	}

	if req.Status != d.Status() {
		return nil, errors.Conflict(fmt.Sprintf("Charge request is already %s", req.Status))
	}
	return req, nil
}

// ApproveChargeRequest runs three idempotent steps: mark approved, credit
// the wallet, notify the user. Approving an approved request re-runs the
// last two, which are no-ops when they already happened.
func (uc *WalletUseCase) ApproveChargeRequest(ctx context.Context, adminID, id, notes string) (*entity.ChargeRequest, error) {
	req, err := uc.decide(ctx, id, entity.Decision{Approve: true, AdminID: adminID, Notes: notes, At: time.Now().UTC()})
	if err != nil {
		return nil, err
	}

	txn := &entity.WalletTransaction{
		ID:          "charge_" + req.ID,
		UserID:      req.UserID,
		Type:        entity.WalletTxnCharge,
		Amount:      req.Amount,
		Reference:   req.ID,
		Description: "Wallet charge via " + req.PaymentMethod,
		CreatedAt:   time.Now().UTC(),
	}
	wallet, applied, err := uc.walletRepo.Credit(ctx, req.UserID, txn)
	if err != nil {
		uc.stepFailed("charge_approve", "credit", id, err)
		return nil, errors.Internal("Failed to credit wallet", err)
	}
	if applied {
		logger.Info("[wallet] credited %.2f DZD to %s for charge %s (balance %.2f)", req.Amount, req.UserID, req.ID, wallet.Balance)
	}

	if err := uc.notifier.Notify(ctx, &entity.Notification{
		ID:     "charge_" + req.ID,
		UserID: req.UserID,
		Type:   entity.NotificationChargeApproved,
		Title:  "Charge approved",
		Body:   fmt.Sprintf("%s DZD were added to your wallet", decimal.NewFromFloat(req.Amount).StringFixed(2)),
		Link:   "/wallet",
	}); err != nil {
		uc.stepFailed("charge_approve", "notify", id, err)
		return nil, err
	}

	return req, nil
}

func (uc *WalletUseCase) RejectChargeRequest(ctx context.Context, adminID, id, notes string) (*entity.ChargeRequest, error) {
	req, err := uc.decide(ctx, id, entity.Decision{Approve: false, AdminID: adminID, Notes: notes, At: time.Now().UTC()})
	if err != nil {
		return nil, err
	}

	body := "Your wallet charge request was rejected"
	if notes != "" {
		body += ": " + notes
	}
	if err := uc.notifier.Notify(ctx, &entity.Notification{
		ID:     "charge_" + req.ID,
		UserID: req.UserID,
		Type:   entity.NotificationChargeRejected,
		Title:  "Charge rejected",
		Body:   body,
		Link:   "/wallet",
	}); err != nil {
		uc.stepFailed("charge_reject", "notify", id, err)
		return nil, err
	}

	return req, nil
}

func chargeWorkflow(d entity.Decision) string {
	if d.Approve {
		return "charge_approve"
	}
	return "charge_reject"
}

func (uc *WalletUseCase) stepFailed(workflow, step, id string, err error) {
	uc.metrics.WorkflowFailures.WithLabelValues(workflow, step).Inc()
	logger.Error("[%s] step %s failed for %s: %v", workflow, step, id, err)
}

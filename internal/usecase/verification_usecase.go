package usecase

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"esekoir/internal/domain/entity"
	"esekoir/internal/domain/repository"
	"esekoir/internal/domain/service"
	"esekoir/internal/infrastructure/metrics"
	"esekoir/pkg/errors"
	"esekoir/pkg/logger"
	"esekoir/pkg/utils"
)

type VerificationUseCase struct {
	verificationRepo repository.VerificationRepository
	profileRepo      repository.ProfileRepository
	notifier         *NotificationUseCase
	blobs            service.BlobStore
	metrics          *metrics.Metrics
}

func NewVerificationUseCase(
	verificationRepo repository.VerificationRepository,
	profileRepo repository.ProfileRepository,
	notifier *NotificationUseCase,
	blobs service.BlobStore,
	m *metrics.Metrics,
) *VerificationUseCase {
	if m == nil {
		m = metrics.Nop()
	}
	return &VerificationUseCase{
		verificationRepo: verificationRepo,
		profileRepo:      profileRepo,
		notifier:         notifier,
		blobs:            blobs,
		metrics:          m,
	}
}

type PlanInput struct {
	ID           string
	Name         string
	Price        float64
	DurationDays int
	Features     []string
	IsActive     bool
}

type SubmitVerificationInput struct {
	PlanID           string
	Document         io.Reader
	DocumentType     string
	DocumentFilename string
}

func (uc *VerificationUseCase) ListPlans(ctx context.Context, activeOnly bool) ([]*entity.VerificationPlan, error) {
	plans, err := uc.verificationRepo.ListPlans(ctx, activeOnly)
	if err != nil {
		return nil, errors.Internal("Failed to list plans", err)
	}
	return plans, nil
}

// SavePlan creates a plan when input.ID is empty and replaces it otherwise.
func (uc *VerificationUseCase) SavePlan(ctx context.Context, input PlanInput) (*entity.VerificationPlan, error) {
	now := time.Now().UTC()
	plan := &entity.VerificationPlan{
		ID:           input.ID,
		Name:         strings.TrimSpace(input.Name),
		Price:        input.Price,
		DurationDays: input.DurationDays,
		Features:     input.Features,
		IsActive:     input.IsActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if plan.Features == nil {
		plan.Features = []string{}
	}

	if plan.ID == "" {
		plan.ID = uuid.New().String()
	} else {
		existing, err := uc.verificationRepo.GetPlan(ctx, plan.ID)
		if err != nil {
			if stderrors.Is(err, repository.ErrNotFound) {
				return nil, errors.NotFound("Plan", err)
			}
			return nil, errors.Internal("Failed to load plan", err)
		}
		plan.CreatedAt = existing.CreatedAt
	}

	if err := uc.verificationRepo.UpsertPlan(ctx, plan); err != nil {
		return nil, errors.Internal("Failed to save plan", err)
	}
	return plan, nil
}

func (uc *VerificationUseCase) DeletePlan(ctx context.Context, id string) error {
	if err := uc.verificationRepo.DeletePlan(ctx, id); err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return errors.NotFound("Plan", err)
		}
		return errors.Internal("Failed to delete plan", err)
	}
	return nil
}

func (uc *VerificationUseCase) SubmitRequest(ctx context.Context, uid string, input SubmitVerificationInput) (*entity.VerificationRequest, error) {
	plan, err := uc.verificationRepo.GetPlan(ctx, input.PlanID)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NotFound("Plan", err)
		}
		return nil, errors.Internal("Failed to load plan", err)
	}
	if !plan.IsActive {
		return nil, errors.BadRequest("Plan is not available", nil)
	}

	existing, err := uc.verificationRepo.ListRequestsByUser(ctx, uid)
	if err != nil {
		return nil, errors.Internal("Failed to list verification requests", err)
	}
	for _, r := range existing {
		if r.Status == entity.StatusPending {
			return nil, errors.Conflict("You already have a pending verification request")
		}
	}

	now := time.Now().UTC()
	req := &entity.VerificationRequest{
		ID:        uuid.New().String(),
		UserID:    uid,
		PlanID:    plan.ID,
		Status:    entity.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if input.Document != nil {
		if !service.AllowedImage(input.DocumentType) && input.DocumentType != "application/pdf" {
			return nil, errors.BadRequest("Document must be an image or a PDF", nil)
		}
		objectPath := fmt.Sprintf("verifications/%s/%s%s", uid, req.ID, service.ExtensionFor(input.DocumentType, input.DocumentFilename))
		if err := uc.blobs.Upload(ctx, objectPath, input.Document, input.DocumentType, false); err != nil {
			return nil, errors.Internal("Failed to upload document", err)
		}
		req.DocumentURL = uc.blobs.PublicURL(objectPath)
	}

	if err := uc.verificationRepo.CreateRequest(ctx, req); err != nil {
		return nil, errors.Internal("Failed to create verification request", err)
	}
	return req, nil
}

func (uc *VerificationUseCase) ListMyRequests(ctx context.Context, uid string) ([]*entity.VerificationRequest, error) {
	items, err := uc.verificationRepo.ListRequestsByUser(ctx, uid)
	if err != nil {
		return nil, errors.Internal("Failed to list verification requests", err)
	}
	return items, nil
}

func (uc *VerificationUseCase) ListRequests(ctx context.Context, status entity.RequestStatus, page utils.Pagination) ([]*entity.VerificationRequest, int64, error) {
	if status != "" && !status.Valid() {
		return nil, 0, errors.BadRequest("Invalid status", nil)
	}
	items, total, err := uc.verificationRepo.ListRequestsByStatus(ctx, status, page)
	if err != nil {
		return nil, 0, errors.Internal("Failed to list verification requests", err)
	}
	return items, total, nil
}

func (uc *VerificationUseCase) getRequest(ctx context.Context, id string) (*entity.VerificationRequest, error) {
	req, err := uc.verificationRepo.GetRequest(ctx, id)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NotFound("Verification request", err)
		}
		return nil, errors.Internal("Failed to load verification request", err)
	}
	return req, nil
}

func (uc *VerificationUseCase) decide(ctx context.Context, id string, d entity.Decision) (*entity.VerificationRequest, error) {
	req, err := uc.getRequest(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Status == entity.StatusPending {
		err := uc.verificationRepo.DecideRequest(ctx, id, d)
		if err != nil && !stderrors.Is(err, repository.ErrConflict) {
			uc.stepFailed("verification", "status", id, err)
			return nil, errors.Internal("Failed to update verification request", err)
		}
		if req, err = uc.getRequest(ctx, id); err != nil {
			return nil, err
		}
	}

	if req.Status != d.Status() {
		return nil, errors.Conflict(fmt.Sprintf("Verification request is already %s", req.Status))
	}
	return req, nil
}

// ApproveRequest marks the request approved, flags the profile verified and
// notifies the user. Every step is safe to repeat.
func (uc *VerificationUseCase) ApproveRequest(ctx context.Context, adminID, id, notes string) (*entity.VerificationRequest, error) {
	req, err := uc.decide(ctx, id, entity.Decision{Approve: true, AdminID: adminID, Notes: notes, At: time.Now().UTC()})
	if err != nil {
		return nil, err
	}

	profile, err := uc.profileRepo.GetByID(ctx, req.UserID)
	if err != nil {
		uc.stepFailed("verification", "profile", id, err)
		return nil, errors.Internal("Failed to load profile", err)
	}
	if !profile.IsVerified {
		profile.IsVerified = true
		profile.UpdatedAt = time.Now().UTC()
		if err := uc.profileRepo.Update(ctx, profile); err != nil {
			uc.stepFailed("verification", "profile", id, err)
			return nil, errors.Internal("Failed to verify profile", err)
		}
	}

	if err := uc.notifier.Notify(ctx, &entity.Notification{
		ID:     "verification_" + req.ID,
		UserID: req.UserID,
		Type:   entity.NotificationVerificationApproved,
		Title:  "Account verified",
		Body:   "Your account is now verified",
		Link:   "/profile",
	}); err != nil {
		uc.stepFailed("verification", "notify", id, err)
		return nil, err
	}
	return req, nil
}

func (uc *VerificationUseCase) RejectRequest(ctx context.Context, adminID, id, notes string) (*entity.VerificationRequest, error) {
	req, err := uc.decide(ctx, id, entity.Decision{Approve: false, AdminID: adminID, Notes: notes, At: time.Now().UTC()})
	if err != nil {
		return nil, err
	}

	body := "Your verification request was rejected"
	if notes != "" {
		body += ": " + notes
	}
	if err := uc.notifier.Notify(ctx, &entity.Notification{
		ID:     "verification_" + req.ID,
		UserID: req.UserID,
		Type:   entity.NotificationVerificationRejected,
		Title:  "Verification rejected",
		Body:   body,
		Link:   "/verification",
	}); err != nil {
		uc.stepFailed("verification", "notify", id, err)
		return nil, err
	}
	return req, nil
}

func (uc *VerificationUseCase) stepFailed(workflow, step, id string, err error) {
	uc.metrics.WorkflowFailures.WithLabelValues(workflow, step).Inc()
	logger.Error("[%s] step %s failed for %s: %v", workflow, step, id, err)
}

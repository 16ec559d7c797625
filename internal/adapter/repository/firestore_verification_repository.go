package repository

import (
	"context"

	"cloud.google.com/go/firestore"

	"esekoir/internal/domain/entity"
	"esekoir/pkg/errors"
	"esekoir/pkg/utils"
)

type firestoreVerificationRepository struct {
	client *firestore.Client
}

func (r *firestoreVerificationRepository) ListPlans(ctx context.Context, activeOnly bool) ([]*entity.VerificationPlan, error) {
	query := r.client.Collection("verification_plans").Query
	if activeOnly {
		query = query.Where("isActive", "==", true)
	}
	return collect[entity.VerificationPlan](ctx, query.OrderBy("price", firestore.Asc), "verification plans")
}

func (r *firestoreVerificationRepository) GetPlan(ctx context.Context, id string) (*entity.VerificationPlan, error) {
	doc, err := r.client.Collection("verification_plans").Doc(id).Get(ctx)
	if err != nil {
		return nil, getError("Verification plan", err)
	}
	var p entity.VerificationPlan
	if err := doc.DataTo(&p); err != nil {
		return nil, errors.Internal("Failed to parse verification plan data", err)
	}
	return &p, nil
}

func (r *firestoreVerificationRepository) UpsertPlan(ctx context.Context, p *entity.VerificationPlan) error {
	if _, err := r.client.Collection("verification_plans").Doc(p.ID).Set(ctx, p); err != nil {
		return errors.Internal("Failed to save verification plan", err)
	}
	return nil
}

func (r *firestoreVerificationRepository) DeletePlan(ctx context.Context, id string) error {
	ref := r.client.Collection("verification_plans").Doc(id)
	if _, err := ref.Get(ctx); err != nil {
		return getError("Verification plan", err)
	}
	if _, err := ref.Delete(ctx); err != nil {
		return errors.Internal("Failed to delete verification plan", err)
	}
	return nil
}

func (r *firestoreVerificationRepository) CreateRequest(ctx context.Context, v *entity.VerificationRequest) error {
	if _, err := r.client.Collection("verification_requests").Doc(v.ID).Set(ctx, v); err != nil {
		return errors.Internal("Failed to create verification request", err)
	}
	return nil
}

func (r *firestoreVerificationRepository) GetRequest(ctx context.Context, id string) (*entity.VerificationRequest, error) {
	doc, err := r.client.Collection("verification_requests").Doc(id).Get(ctx)
	if err != nil {
		return nil, getError("Verification request", err)
	}
	var v entity.VerificationRequest
	if err := doc.DataTo(&v); err != nil {
		return nil, errors.Internal("Failed to parse verification request data", err)
	}
	return &v, nil
}

func (r *firestoreVerificationRepository) ListRequestsByUser(ctx context.Context, userID string) ([]*entity.VerificationRequest, error) {
	return collect[entity.VerificationRequest](ctx, r.client.Collection("verification_requests").
		Where("userId", "==", userID).
		OrderBy("createdAt", firestore.Desc), "verification requests")
}

func (r *firestoreVerificationRepository) ListRequestsByStatus(ctx context.Context, status entity.RequestStatus, page utils.Pagination) ([]*entity.VerificationRequest, int64, error) {
	query := r.client.Collection("verification_requests").Query
	if status != "" {
		query = query.Where("status", "==", string(status))
	}
	query = query.OrderBy("createdAt", firestore.Desc)

	total, err := countQuery(ctx, query, "verification requests")
	if err != nil {
		return nil, 0, err
	}
	list, err := collect[entity.VerificationRequest](ctx, query.Offset(page.Offset()).Limit(page.Limit), "verification requests")
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *firestoreVerificationRepository) DecideRequest(ctx context.Context, id string, d entity.Decision) error {
	return decidePendingDoc(ctx, r.client, r.client.Collection("verification_requests").Doc(id), "Verification request", d)
}

func (r *firestoreVerificationRepository) CountByStatus(ctx context.Context, status entity.RequestStatus) (int64, error) {
	return countQuery(ctx, r.client.Collection("verification_requests").Where("status", "==", string(status)), "verification requests")
}

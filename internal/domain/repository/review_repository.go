package repository

import (
	"context"

	"greenloop/internal/domain/entity"
)

type ReviewRepository interface {
	// CreateEligibility inserts the eligibility record under its compound
	// key (userId, productId, orderId). A second insert for the same triple
	// returns Conflict; the storage layer enforces this, not the caller.
	CreateEligibility(ctx context.Context, eligibility *entity.ReviewEligibility) error
	GetEligibility(ctx context.Context, userID, productID, orderID string) (*entity.ReviewEligibility, error)
	ListEligibilitiesByUser(ctx context.Context, userID string) ([]*entity.ReviewEligibility, error)
	UpdateEligibility(ctx context.Context, eligibility *entity.ReviewEligibility) error

	// CreateReview persists the review and consumes the matching
	// eligibility (hasReviewed=true, reviewId set) in one transaction.
	CreateReview(ctx context.Context, review *entity.Review) error
	GetReviewByID(ctx context.Context, id string) (*entity.Review, error)
	ListReviewsByProduct(ctx context.Context, productID string, limit, offset int) ([]*entity.Review, int64, error)

	// DeleteReview removes the review and reopens its eligibility window in
	// one transaction, allowing re-review.
	DeleteReview(ctx context.Context, review *entity.Review) error
}

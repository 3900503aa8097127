package repository

import (
	"context"
	"fmt"
	"log"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"greenloop/internal/domain/entity"
	"greenloop/internal/domain/repository"
	"greenloop/pkg/errors"
)

type firestoreReviewRepository struct {
	client *firestore.Client
}

func NewFirestoreReviewRepository(client *firestore.Client) repository.ReviewRepository {
	return &firestoreReviewRepository{
		client: client,
	}
}

// Eligibility documents are keyed by the (user, product, order) triple, so
// uniqueness is a property of the store rather than application logic.
func eligibilityDocID(userID, productID, orderID string) string {
	return fmt.Sprintf("%s_%s_%s", userID, productID, orderID)
}

func (r *firestoreReviewRepository) CreateEligibility(ctx context.Context, eligibility *entity.ReviewEligibility) error {
	eligibility.ID = eligibilityDocID(eligibility.UserID, eligibility.ProductID, eligibility.OrderID)

	now := time.Now()
	eligibility.CreatedAt = now
	eligibility.UpdatedAt = now

	_, err := r.client.Collection("review_eligibilities").Doc(eligibility.ID).Create(ctx, eligibility)
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return errors.Conflict("Review eligibility already exists for this order")
		}
		return errors.Internal("Failed to create review eligibility", err)
	}

	return nil
}

func (r *firestoreReviewRepository) GetEligibility(ctx context.Context, userID, productID, orderID string) (*entity.ReviewEligibility, error) {
	doc, err := r.client.Collection("review_eligibilities").Doc(eligibilityDocID(userID, productID, orderID)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Review eligibility", nil)
		}
		return nil, errors.Internal("Failed to get review eligibility", err)
	}

	var eligibility entity.ReviewEligibility
	if err := doc.DataTo(&eligibility); err != nil {
		return nil, errors.Internal("Failed to parse review eligibility data", err)
	}

	return &eligibility, nil
}

func (r *firestoreReviewRepository) ListEligibilitiesByUser(ctx context.Context, userID string) ([]*entity.ReviewEligibility, error) {
	docs, err := r.client.Collection("review_eligibilities").
		Where("userId", "==", userID).
		OrderBy("completedAt", firestore.Desc).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, errors.Internal("Failed to fetch review eligibilities", err)
	}

	var eligibilities []*entity.ReviewEligibility
	for _, doc := range docs {
		var eligibility entity.ReviewEligibility
		if err := doc.DataTo(&eligibility); err != nil {
			log.Printf("Error parsing review eligibility data for user %s: %v", userID, err)
			continue
		}
		eligibilities = append(eligibilities, &eligibility)
	}

	return eligibilities, nil
}

func (r *firestoreReviewRepository) UpdateEligibility(ctx context.Context, eligibility *entity.ReviewEligibility) error {
	eligibility.UpdatedAt = time.Now()

	_, err := r.client.Collection("review_eligibilities").Doc(eligibility.ID).Set(ctx, eligibility)
	if err != nil {
		return errors.Internal("Failed to update review eligibility", err)
	}

	return nil
}

func (r *firestoreReviewRepository) CreateReview(ctx context.Context, review *entity.Review) error {
	if review.ID == "" {
		review.ID = uuid.New().String()
	}

	now := time.Now()
	review.CreatedAt = now
	review.UpdatedAt = now

	eligibilityRef := r.client.Collection("review_eligibilities").
		Doc(eligibilityDocID(review.UserID, review.ProductID, review.OrderID))
	reviewRef := r.client.Collection("reviews").Doc(review.ID)

	return r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(eligibilityRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("Review eligibility", nil)
			}
			return errors.Internal("Failed to get review eligibility", err)
		}

		var eligibility entity.ReviewEligibility
		if err := snap.DataTo(&eligibility); err != nil {
			return errors.Internal("Failed to parse review eligibility data", err)
		}
		if eligibility.HasReviewed {
			return errors.Conflict("A review for this order already exists")
		}

		if err := tx.Set(reviewRef, review); err != nil {
			return errors.Internal("Failed to create review", err)
		}

		return tx.Update(eligibilityRef, []firestore.Update{
			{Path: "hasReviewed", Value: true},
			{Path: "reviewId", Value: review.ID},
			{Path: "updatedAt", Value: now},
		})
	})
}

func (r *firestoreReviewRepository) GetReviewByID(ctx context.Context, id string) (*entity.Review, error) {
	doc, err := r.client.Collection("reviews").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Review", nil)
		}
		return nil, errors.Internal("Failed to get review", err)
	}

	var review entity.Review
	if err := doc.DataTo(&review); err != nil {
		return nil, errors.Internal("Failed to parse review data", err)
	}

	return &review, nil
}

func (r *firestoreReviewRepository) ListReviewsByProduct(ctx context.Context, productID string, limit, offset int) ([]*entity.Review, int64, error) {
	query := r.client.Collection("reviews").
		Where("productId", "==", productID).
		OrderBy("createdAt", firestore.Desc)

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to fetch reviews", err)
	}
	total := int64(len(docs))

	start := offset
	if start > len(docs) {
		start = len(docs)
	}
	end := len(docs)
	if limit > 0 && start+limit < end {
		end = start + limit
	}

	var reviews []*entity.Review
	for _, doc := range docs[start:end] {
		var review entity.Review
		if err := doc.DataTo(&review); err != nil {
			log.Printf("Error parsing review data for product %s: %v", productID, err)
			continue
		}
		reviews = append(reviews, &review)
	}

	return reviews, total, nil
}

// DeleteReview removes the review and reopens its eligibility window in the
// same transaction, which is what allows edit-via-delete-and-recreate.
func (r *firestoreReviewRepository) DeleteReview(ctx context.Context, review *entity.Review) error {
	eligibilityRef := r.client.Collection("review_eligibilities").
		Doc(eligibilityDocID(review.UserID, review.ProductID, review.OrderID))
	reviewRef := r.client.Collection("reviews").Doc(review.ID)

	return r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(reviewRef); err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("Review", nil)
			}
			return errors.Internal("Failed to get review", err)
		}

		if err := tx.Delete(reviewRef); err != nil {
			return errors.Internal("Failed to delete review", err)
		}

		return tx.Update(eligibilityRef, []firestore.Update{
			{Path: "hasReviewed", Value: false},
			{Path: "reviewId", Value: firestore.Delete},
			{Path: "updatedAt", Value: time.Now()},
		})
	})
}

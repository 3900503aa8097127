package usecase

import (
	"context"
	"log"
	"time"

	"greenloop/internal/domain/entity"
	"greenloop/internal/domain/repository"
	"greenloop/pkg/errors"
)

// ReviewUseCase gates review creation on the eligibility records the chat
// state machine writes at order completion. Eligibility is the sole gate;
// everything else here is defense in depth.
type ReviewUseCase struct {
	reviewRepo  repository.ReviewRepository
	productRepo repository.ProductRepository
	orderRepo   repository.OrderRepository
	userRepo    repository.UserRepository
}

func NewReviewUseCase(
	reviewRepo repository.ReviewRepository,
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
	userRepo repository.UserRepository,
) *ReviewUseCase {
	return &ReviewUseCase{
		reviewRepo:  reviewRepo,
		productRepo: productRepo,
		orderRepo:   orderRepo,
		userRepo:    userRepo,
	}
}

type CreateReviewInput struct {
	ProductID string
	OrderID   string
	Rating    int
	Content   string
}

func (uc *ReviewUseCase) CreateReview(ctx context.Context, userID string, input CreateReviewInput) (*entity.Review, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, errors.BadRequest("Rating must be between 1 and 5", nil)
	}

	eligibility, err := uc.reviewRepo.GetEligibility(ctx, userID, input.ProductID, input.OrderID)
	if err != nil {
		return nil, err
	}
	if eligibility.HasReviewed {
		return nil, errors.Conflict("A review for this order already exists")
	}

	product, err := uc.productRepo.GetByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	if product.SellerID == userID {
		// Cannot happen through the normal flow, but a forged eligibility
		// must still not allow self-reviews.
		return nil, errors.Forbidden("You cannot review your own product", nil)
	}

	order, err := uc.orderRepo.GetByID(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}
	if order.BuyerID != userID {
		return nil, errors.NotFound("Order", nil)
	}

	review := &entity.Review{
		ProductID: input.ProductID,
		OrderID:   input.OrderID,
		UserID:    userID,
		SellerID:  product.SellerID,
		Rating:    input.Rating,
		Content:   input.Content,
	}

	if err := uc.reviewRepo.CreateReview(ctx, review); err != nil {
		return nil, err
	}

	if err := uc.applySellerRating(ctx, product.SellerID, input.Rating, 1); err != nil {
		log.Printf("CreateReview Warning: Failed to update seller rating for %s: %v", product.SellerID, err)
	}

	return review, nil
}

// DeleteReview removes the user's review and reopens the eligibility
// window, which is how review editing works (delete, then recreate).
func (uc *ReviewUseCase) DeleteReview(ctx context.Context, userID, reviewID string) error {
	review, err := uc.reviewRepo.GetReviewByID(ctx, reviewID)
	if err != nil {
		return err
	}
	if review.UserID != userID {
		return errors.NotFound("Review", nil)
	}

	if err := uc.reviewRepo.DeleteReview(ctx, review); err != nil {
		return err
	}

	if err := uc.applySellerRating(ctx, review.SellerID, -review.Rating, -1); err != nil {
		log.Printf("DeleteReview Warning: Failed to update seller rating for %s: %v", review.SellerID, err)
	}

	return nil
}

// DeclinePrompt records that the user waved away the review prompt. The
// eligibility stays open; they can still review later.
func (uc *ReviewUseCase) DeclinePrompt(ctx context.Context, userID, productID, orderID string) error {
	eligibility, err := uc.reviewRepo.GetEligibility(ctx, userID, productID, orderID)
	if err != nil {
		return err
	}

	now := time.Now()
	eligibility.PromptDeclined = true
	eligibility.DeclinedAt = &now

	return uc.reviewRepo.UpdateEligibility(ctx, eligibility)
}

// PendingPrompts returns the completed orders the user has not reviewed or
// declined to review yet, marking each as shown.
func (uc *ReviewUseCase) PendingPrompts(ctx context.Context, userID string) ([]*entity.ReviewEligibility, error) {
	eligibilities, err := uc.reviewRepo.ListEligibilitiesByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	var pending []*entity.ReviewEligibility
	for _, eligibility := range eligibilities {
		if eligibility.HasReviewed || eligibility.PromptDeclined {
			continue
		}
		if !eligibility.PromptShown {
			eligibility.PromptShown = true
			if err := uc.reviewRepo.UpdateEligibility(ctx, eligibility); err != nil {
				log.Printf("PendingPrompts Warning: Failed to mark prompt shown for %s: %v", eligibility.ID, err)
			}
		}
		pending = append(pending, eligibility)
	}

	return pending, nil
}

func (uc *ReviewUseCase) ListProductReviews(ctx context.Context, productID string, limit, offset int) ([]*entity.Review, int64, error) {
	return uc.reviewRepo.ListReviewsByProduct(ctx, productID, limit, offset)
}

// applySellerRating folds a rating delta into the seller's running average.
func (uc *ReviewUseCase) applySellerRating(ctx context.Context, sellerID string, ratingDelta, countDelta int) error {
	seller, err := uc.userRepo.GetByID(ctx, sellerID)
	if err != nil {
		return err
	}

	total := seller.SellerRating*float64(seller.SellerReviewCount) + float64(ratingDelta)
	seller.SellerReviewCount += countDelta
	if seller.SellerReviewCount <= 0 {
		seller.SellerReviewCount = 0
		seller.SellerRating = 0
	} else {
		seller.SellerRating = total / float64(seller.SellerReviewCount)
	}

	return uc.userRepo.Update(ctx, seller)
}

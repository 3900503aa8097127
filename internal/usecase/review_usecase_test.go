package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"greenloop/internal/domain/entity"
	"greenloop/pkg/errors"
)

type reviewFixture struct {
	uc       *ReviewUseCase
	reviews  *memReviewRepository
	products *memProductRepository
	orders   *memOrderRepository
	users    *memUserRepository

	product *entity.Product
	order   *entity.Order
}

func newReviewFixture(t *testing.T) *reviewFixture {
	t.Helper()

	f := &reviewFixture{
		reviews:  newMemReviewRepository(),
		products: newMemProductRepository(),
		orders:   newMemOrderRepository(),
		users:    newMemUserRepository(),
	}
	f.uc = NewReviewUseCase(f.reviews, f.products, f.orders, f.users)

	ctx := context.Background()

	f.users.add(&entity.User{ID: "buyer-1", Email: "buyer@example.com", Username: "buyer"})
	f.users.add(&entity.User{ID: "seller-1", Email: "seller@example.com", Username: "seller"})

	f.product = &entity.Product{SellerID: "seller-1", Name: "Organic Soap", Price: 6}
	require.NoError(t, f.products.Create(ctx, f.product))

	f.order = &entity.Order{BuyerID: "buyer-1", SellerID: "seller-1", ProductID: f.product.ID, Status: entity.OrderStatusDelivered}
	require.NoError(t, f.orders.Create(ctx, f.order))

	return f
}

func (f *reviewFixture) grantEligibility(t *testing.T) {
	t.Helper()
	require.NoError(t, f.reviews.CreateEligibility(context.Background(), &entity.ReviewEligibility{
		UserID:      "buyer-1",
		ProductID:   f.product.ID,
		OrderID:     f.order.ID,
		CompletedAt: time.Now(),
	}))
}

func TestCreateReviewRequiresEligibility(t *testing.T) {
	f := newReviewFixture(t)

	_, err := f.uc.CreateReview(context.Background(), "buyer-1", CreateReviewInput{
		ProductID: f.product.ID,
		OrderID:   f.order.ID,
		Rating:    5,
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, "NOT_FOUND"))
}

func TestCreateReviewConsumesEligibility(t *testing.T) {
	f := newReviewFixture(t)
	f.grantEligibility(t)
	ctx := context.Background()

	review, err := f.uc.CreateReview(ctx, "buyer-1", CreateReviewInput{
		ProductID: f.product.ID,
		OrderID:   f.order.ID,
		Rating:    4,
		Content:   "Lovely scent, minimal packaging.",
	})
	require.NoError(t, err)
	assert.Equal(t, "seller-1", review.SellerID)

	eligibility, err := f.reviews.GetEligibility(ctx, "buyer-1", f.product.ID, f.order.ID)
	require.NoError(t, err)
	assert.True(t, eligibility.HasReviewed)
	assert.Equal(t, review.ID, eligibility.ReviewID)

	_, err = f.uc.CreateReview(ctx, "buyer-1", CreateReviewInput{
		ProductID: f.product.ID,
		OrderID:   f.order.ID,
		Rating:    1,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, "CONFLICT"))
}

func TestCreateReviewValidatesRating(t *testing.T) {
	f := newReviewFixture(t)
	f.grantEligibility(t)

	for _, rating := range []int{0, 6, -1} {
		_, err := f.uc.CreateReview(context.Background(), "buyer-1", CreateReviewInput{
			ProductID: f.product.ID,
			OrderID:   f.order.ID,
			Rating:    rating,
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, "BAD_REQUEST"))
	}
}

func TestSelfReviewRejectedEvenWithEligibility(t *testing.T) {
	f := newReviewFixture(t)
	ctx := context.Background()

	// A forged eligibility record must not let a seller review their own
	// product.
	require.NoError(t, f.reviews.CreateEligibility(ctx, &entity.ReviewEligibility{
		UserID:    "seller-1",
		ProductID: f.product.ID,
		OrderID:   f.order.ID,
	}))

	_, err := f.uc.CreateReview(ctx, "seller-1", CreateReviewInput{
		ProductID: f.product.ID,
		OrderID:   f.order.ID,
		Rating:    5,
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, "FORBIDDEN"))
}

func TestDeleteReviewReopensWindow(t *testing.T) {
	f := newReviewFixture(t)
	f.grantEligibility(t)
	ctx := context.Background()

	review, err := f.uc.CreateReview(ctx, "buyer-1", CreateReviewInput{
		ProductID: f.product.ID,
		OrderID:   f.order.ID,
		Rating:    2,
	})
	require.NoError(t, err)

	require.NoError(t, f.uc.DeleteReview(ctx, "buyer-1", review.ID))

	// Editing is delete-then-recreate; the window reopens.
	replacement, err := f.uc.CreateReview(ctx, "buyer-1", CreateReviewInput{
		ProductID: f.product.ID,
		OrderID:   f.order.ID,
		Rating:    5,
	})
	require.NoError(t, err)
	assert.NotEqual(t, review.ID, replacement.ID)
}

func TestDeleteReviewIsOwnerOnly(t *testing.T) {
	f := newReviewFixture(t)
	f.grantEligibility(t)
	ctx := context.Background()

	review, err := f.uc.CreateReview(ctx, "buyer-1", CreateReviewInput{
		ProductID: f.product.ID,
		OrderID:   f.order.ID,
		Rating:    3,
	})
	require.NoError(t, err)

	err = f.uc.DeleteReview(ctx, "seller-1", review.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, "NOT_FOUND"))
}

func TestDeclinePromptKeepsEligibilityOpen(t *testing.T) {
	f := newReviewFixture(t)
	f.grantEligibility(t)
	ctx := context.Background()

	require.NoError(t, f.uc.DeclinePrompt(ctx, "buyer-1", f.product.ID, f.order.ID))

	pending, err := f.uc.PendingPrompts(ctx, "buyer-1")
	require.NoError(t, err)
	assert.Empty(t, pending)

	// Declining only silences the prompt; the buyer can still review later.
	_, err = f.uc.CreateReview(ctx, "buyer-1", CreateReviewInput{
		ProductID: f.product.ID,
		OrderID:   f.order.ID,
		Rating:    4,
	})
	assert.NoError(t, err)
}

func TestPendingPromptsMarksShown(t *testing.T) {
	f := newReviewFixture(t)
	f.grantEligibility(t)
	ctx := context.Background()

	pending, err := f.uc.PendingPrompts(ctx, "buyer-1")
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.True(t, pending[0].PromptShown)

	stored, err := f.reviews.GetEligibility(ctx, "buyer-1", f.product.ID, f.order.ID)
	require.NoError(t, err)
	assert.True(t, stored.PromptShown)
}

func TestSellerRatingTracksReviews(t *testing.T) {
	f := newReviewFixture(t)
	f.grantEligibility(t)
	ctx := context.Background()

	order2 := &entity.Order{BuyerID: "buyer-1", SellerID: "seller-1", ProductID: f.product.ID, Status: entity.OrderStatusDelivered}
	require.NoError(t, f.orders.Create(ctx, order2))
	require.NoError(t, f.reviews.CreateEligibility(ctx, &entity.ReviewEligibility{
		UserID:    "buyer-1",
		ProductID: f.product.ID,
		OrderID:   order2.ID,
	}))

	_, err := f.uc.CreateReview(ctx, "buyer-1", CreateReviewInput{ProductID: f.product.ID, OrderID: f.order.ID, Rating: 5})
	require.NoError(t, err)
	_, err = f.uc.CreateReview(ctx, "buyer-1", CreateReviewInput{ProductID: f.product.ID, OrderID: order2.ID, Rating: 3})
	require.NoError(t, err)

	seller, err := f.users.GetByID(ctx, "seller-1")
	require.NoError(t, err)
	assert.Equal(t, 2, seller.SellerReviewCount)
	assert.InDelta(t, 4.0, seller.SellerRating, 0.001)

	review, err := f.reviews.GetEligibility(ctx, "buyer-1", f.product.ID, f.order.ID)
	require.NoError(t, err)
	require.NoError(t, f.uc.DeleteReview(ctx, "buyer-1", review.ReviewID))

	seller, err = f.users.GetByID(ctx, "seller-1")
	require.NoError(t, err)
	assert.Equal(t, 1, seller.SellerReviewCount)
	assert.InDelta(t, 3.0, seller.SellerRating, 0.001)
}

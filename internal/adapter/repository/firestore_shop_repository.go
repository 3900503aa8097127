package repository

import (
	"context"
	"log"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"greenloop/internal/domain/entity"
	"greenloop/internal/domain/repository"
	"greenloop/pkg/errors"
)

type firestoreShopRepository struct {
	client *firestore.Client
}

func NewFirestoreShopRepository(client *firestore.Client) repository.ShopRepository {
	return &firestoreShopRepository{
		client: client,
	}
}

func (r *firestoreShopRepository) Create(ctx context.Context, shop *entity.Shop) error {
	if shop.ID == "" {
		shop.ID = uuid.New().String()
	}

	now := time.Now()
	shop.CreatedAt = now
	shop.UpdatedAt = now
	if shop.Status == "" {
		shop.Status = entity.ShopStatusActive
	}

	_, err := r.client.Collection("shops").Doc(shop.ID).Set(ctx, shop)
	if err != nil {
		return errors.Internal("Failed to create shop", err)
	}

	return nil
}

func (r *firestoreShopRepository) GetByID(ctx context.Context, id string) (*entity.Shop, error) {
	doc, err := r.client.Collection("shops").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Shop", nil)
		}
		return nil, errors.Internal("Failed to get shop", err)
	}

	var shop entity.Shop
	if err := doc.DataTo(&shop); err != nil {
		return nil, errors.Internal("Failed to parse shop data", err)
	}

	return &shop, nil
}

func (r *firestoreShopRepository) GetByOwnerID(ctx context.Context, ownerID string) (*entity.Shop, error) {
	query := r.client.Collection("shops").Where("ownerId", "==", ownerID).Limit(1)
	doc, err := query.Documents(ctx).Next()
	if err != nil {
		if err == iterator.Done {
			return nil, errors.NotFound("Shop", nil)
		}
		return nil, errors.Internal("Failed to query shop by owner", err)
	}

	var shop entity.Shop
	if err := doc.DataTo(&shop); err != nil {
		return nil, errors.Internal("Failed to parse shop data", err)
	}

	return &shop, nil
}

func (r *firestoreShopRepository) Update(ctx context.Context, shop *entity.Shop) error {
	shop.UpdatedAt = time.Now()

	_, err := r.client.Collection("shops").Doc(shop.ID).Set(ctx, shop)
	if err != nil {
		return errors.Internal("Failed to update shop", err)
	}

	return nil
}

// SweepTransition deliberately leaves updatedAt untouched: the dormancy
// thresholds are all measured from the shop's last real activity, so the
// sweep changing status must not look like activity itself.
func (r *firestoreShopRepository) SweepTransition(ctx context.Context, fromStatus, toStatus string, updatedBefore time.Time, reason string) (int, error) {
	docs, err := r.client.Collection("shops").
		Where("status", "==", fromStatus).
		Where("updatedAt", "<", updatedBefore).
		Documents(ctx).GetAll()
	if err != nil {
		return 0, errors.Internal("Failed to query shops for sweep", err)
	}

	moved := 0
	now := time.Now()

	for _, doc := range docs {
		ref := doc.Ref
		err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
			snap, err := tx.Get(ref)
			if err != nil {
				return err
			}

			var shop entity.Shop
			if err := snap.DataTo(&shop); err != nil {
				return err
			}

			// Exact-status guard so a slow sweep never double-transitions a
			// shop that another process already moved.
			if shop.Status != fromStatus || !shop.UpdatedAt.Before(updatedBefore) {
				return nil
			}

			updates := []firestore.Update{
				{Path: "status", Value: toStatus},
				{Path: "dormancyReason", Value: reason},
			}
			if shop.DormantSince == nil {
				updates = append(updates, firestore.Update{Path: "dormantSince", Value: now})
			}

			return tx.Update(ref, updates)
		})
		if err != nil {
			log.Printf("Sweep transition %s->%s failed for shop %s: %v", fromStatus, toStatus, ref.ID, err)
			continue
		}
		moved++
	}

	return moved, nil
}

func (r *firestoreShopRepository) Reactivate(ctx context.Context, shopID string) (bool, error) {
	ref := r.client.Collection("shops").Doc(shopID)
	reactivated := false

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("Shop", nil)
			}
			return errors.Internal("Failed to get shop", err)
		}

		var shop entity.Shop
		if err := snap.DataTo(&shop); err != nil {
			return errors.Internal("Failed to parse shop data", err)
		}

		// Only dormancy states come back; suspended and archived stay put,
		// and an already-active shop is a no-op.
		if shop.Status != entity.ShopStatusDormant && shop.Status != entity.ShopStatusInactive {
			reactivated = false
			return nil
		}

		reactivated = true
		return tx.Update(ref, []firestore.Update{
			{Path: "status", Value: entity.ShopStatusActive},
			{Path: "dormancyReason", Value: firestore.Delete},
			{Path: "dormantSince", Value: firestore.Delete},
			{Path: "updatedAt", Value: time.Now()},
		})
	})
	if err != nil {
		return false, err
	}

	return reactivated, nil
}

package repository

import (
	"context"
	"time"

	"greenloop/internal/domain/entity"
)

type ShopRepository interface {
	Create(ctx context.Context, shop *entity.Shop) error
	GetByID(ctx context.Context, id string) (*entity.Shop, error)
	GetByOwnerID(ctx context.Context, ownerID string) (*entity.Shop, error)
	Update(ctx context.Context, shop *entity.Shop) error

	// SweepTransition bulk-moves shops from exactly fromStatus to toStatus
	// when their last activity is before the cutoff. Restricting to the
	// exact prerequisite status keeps a slow sweep from double-transitioning
	// a shop another process already moved.
	SweepTransition(ctx context.Context, fromStatus, toStatus string, updatedBefore time.Time, reason string) (int, error)

	// Reactivate flips a dormant or inactive shop back to active and clears
	// its dormancy metadata, in a transaction guarded on the current status.
	// Returns false for any other status, including active itself.
	Reactivate(ctx context.Context, shopID string) (bool, error)
}

package usecase

import (
	"context"
	"log"
	"time"

	"greenloop/internal/domain/entity"
	"greenloop/internal/domain/repository"
	"greenloop/pkg/errors"
)

// Dormancy thresholds, measured in days since the shop's last activity.
const (
	dormantAfterDays  = 30
	inactiveAfterDays = 60
	archivedAfterDays = 90
)

// ShopUseCase owns shop lifecycle: the periodic dormancy sweep, reactivation
// on seller activity, and the admin override. The sweep only changes status;
// hiding dormant shops from listings is the query layer's job.
type ShopUseCase struct {
	shopRepo    repository.ShopRepository
	productRepo repository.ProductRepository
	interval    time.Duration
}

func NewShopUseCase(shopRepo repository.ShopRepository, productRepo repository.ProductRepository, sweepInterval time.Duration) *ShopUseCase {
	return &ShopUseCase{
		shopRepo:    shopRepo,
		productRepo: productRepo,
		interval:    sweepInterval,
	}
}

// StartSweepJob runs one sweep immediately and then on every tick until the
// context is cancelled.
func (uc *ShopUseCase) StartSweepJob(ctx context.Context) {
	go func() {
		if err := uc.Sweep(ctx); err != nil {
			log.Printf("Shop sweep error: %v", err)
		}

		ticker := time.NewTicker(uc.interval)
		for {
			select {
			case <-ticker.C:
				if err := uc.Sweep(ctx); err != nil {
					log.Printf("Shop sweep error: %v", err)
				}
			case <-ctx.Done():
				ticker.Stop()
				return
			}
		}
	}()

	log.Printf("Shop lifecycle sweep started (every %s)", uc.interval)
}

// Sweep ages shops one step along active -> dormant -> inactive -> archived
// based on days since their last activity. Each transition only touches
// shops currently in the exact prerequisite status, so suspended shops are
// never moved and nothing ever skips a step within one invariant's window.
func (uc *ShopUseCase) Sweep(ctx context.Context) error {
	now := time.Now()

	steps := []struct {
		from string
		to   string
		days int
	}{
		{entity.ShopStatusActive, entity.ShopStatusDormant, dormantAfterDays},
		{entity.ShopStatusDormant, entity.ShopStatusInactive, inactiveAfterDays},
		{entity.ShopStatusInactive, entity.ShopStatusArchived, archivedAfterDays},
	}

	for _, step := range steps {
		cutoff := now.AddDate(0, 0, -step.days)
		moved, err := uc.shopRepo.SweepTransition(ctx, step.from, step.to, cutoff, "inactivity")
		if err != nil {
			return err
		}
		if moved > 0 {
			log.Printf("Shop sweep: moved %d shops %s -> %s", moved, step.from, step.to)
		}
	}

	return nil
}

// ReactivateShop flips a dormant or inactive shop back to active. Returns
// false for every other status: active is a no-op, suspended is admin-only,
// archived stays archived.
func (uc *ShopUseCase) ReactivateShop(ctx context.Context, shopID string) (bool, error) {
	return uc.shopRepo.Reactivate(ctx, shopID)
}

type AddProductInput struct {
	Name        string
	Description string
	Category    string
	Price       float64
	Stock       int
	Materials   []string
	EcoBadges   []string
	Images      []entity.ProductImage
}

// AddProduct creates a product in the seller's shop. Adding a product is the
// qualifying activity that wakes a dormant shop.
func (uc *ShopUseCase) AddProduct(ctx context.Context, sellerID string, input AddProductInput) (*entity.Product, error) {
	shop, err := uc.shopRepo.GetByOwnerID(ctx, sellerID)
	if err != nil {
		return nil, err
	}

	if shop.Status == entity.ShopStatusSuspended {
		return nil, errors.Forbidden("Suspended shops cannot add products", nil)
	}

	product := &entity.Product{
		ShopID:      shop.ID,
		SellerID:    sellerID,
		Name:        input.Name,
		Description: input.Description,
		Category:    input.Category,
		Price:       input.Price,
		Stock:       input.Stock,
		Materials:   input.Materials,
		EcoBadges:   input.EcoBadges,
		Images:      input.Images,
		Status:      "active",
	}

	if err := uc.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	if reactivated, err := uc.ReactivateShop(ctx, shop.ID); err != nil {
		log.Printf("AddProduct Warning: Failed to reactivate shop %s: %v", shop.ID, err)
	} else if reactivated {
		log.Printf("Shop %s reactivated by new product %s", shop.ID, product.ID)
	} else if shop.Status == entity.ShopStatusActive {
		// Still counts as activity for the dormancy clock.
		if err := uc.shopRepo.Update(ctx, shop); err != nil {
			log.Printf("AddProduct Warning: Failed to bump activity for shop %s: %v", shop.ID, err)
		}
	}

	return product, nil
}

// AdminSetStatus is the manual override. It bypasses the sweep's natural
// transition rules entirely and is idempotent per call.
func (uc *ShopUseCase) AdminSetStatus(ctx context.Context, shopID, status string) (*entity.Shop, error) {
	switch status {
	case entity.ShopStatusActive, entity.ShopStatusInactive, entity.ShopStatusPending, entity.ShopStatusSuspended:
	default:
		return nil, errors.BadRequest("Invalid shop status", nil)
	}

	shop, err := uc.shopRepo.GetByID(ctx, shopID)
	if err != nil {
		return nil, err
	}

	shop.Status = status
	if status == entity.ShopStatusActive {
		shop.DormancyReason = ""
		shop.DormantSince = nil
	}

	if err := uc.shopRepo.Update(ctx, shop); err != nil {
		return nil, err
	}

	return shop, nil
}

func (uc *ShopUseCase) GetShop(ctx context.Context, shopID string) (*entity.Shop, error) {
	return uc.shopRepo.GetByID(ctx, shopID)
}

func (uc *ShopUseCase) CreateShop(ctx context.Context, ownerID, name, description string) (*entity.Shop, error) {
	if _, err := uc.shopRepo.GetByOwnerID(ctx, ownerID); err == nil {
		return nil, errors.Conflict("You already have a shop")
	} else if !errors.Is(err, "NOT_FOUND") {
		return nil, err
	}

	shop := &entity.Shop{
		OwnerID:     ownerID,
		Name:        name,
		Description: description,
		Status:      entity.ShopStatusActive,
	}

	if err := uc.shopRepo.Create(ctx, shop); err != nil {
		return nil, err
	}

	return shop, nil
}

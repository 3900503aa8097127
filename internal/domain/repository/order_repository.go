package repository

import (
	"context"

	"greenloop/internal/domain/entity"
)

type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	Update(ctx context.Context, order *entity.Order) error
	ListByBuyer(ctx context.Context, buyerID string) ([]*entity.Order, error)
	ListBySeller(ctx context.Context, sellerID string) ([]*entity.Order, error)
}

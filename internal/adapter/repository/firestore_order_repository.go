package repository

import (
	"context"
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

type firestoreOrderRepository struct {
	client *firestore.Client
}

func NewFirestoreOrderRepository(client *firestore.Client) repository.OrderRepository {
	return &firestoreOrderRepository{
		client: client,
	}
}

func (r *firestoreOrderRepository) Create(ctx context.Context, order *entity.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}

	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now

	_, err := r.client.Collection("orders").Doc(order.ID).Set(ctx, order)
	if err != nil {
		return errors.Internal("Failed to create order", err)
	}

	return nil
}

func (r *firestoreOrderRepository) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	doc, err := r.client.Collection("orders").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Order", nil)
		}
		return nil, errors.Internal("Failed to get order", err)
	}

	var order entity.Order
	if err := doc.DataTo(&order); err != nil {
		return nil, errors.Internal("Failed to parse order data", err)
	}

	return &order, nil
}

func (r *firestoreOrderRepository) Update(ctx context.Context, order *entity.Order) error {
	order.UpdatedAt = time.Now()

	_, err := r.client.Collection("orders").Doc(order.ID).Set(ctx, order)
	if err != nil {
		return errors.Internal("Failed to update order", err)
	}

	return nil
}

func (r *firestoreOrderRepository) ListByBuyer(ctx context.Context, buyerID string) ([]*entity.Order, error) {
	return r.listByField(ctx, "buyerId", buyerID)
}

func (r *firestoreOrderRepository) ListBySeller(ctx context.Context, sellerID string) ([]*entity.Order, error) {
	return r.listByField(ctx, "sellerId", sellerID)
}

func (r *firestoreOrderRepository) listByField(ctx context.Context, field, value string) ([]*entity.Order, error) {
	docs, err := r.client.Collection("orders").
		Where(field, "==", value).
		OrderBy("createdAt", firestore.Desc).
		Documents(ctx).GetAll()
	if err != nil {
		log.Printf("Firestore error while fetching orders by %s=%s: %v", field, value, err)
		return nil, errors.Internal("Failed to fetch orders", err)
	}

	var orders []*entity.Order
	for _, doc := range docs {
		var order entity.Order
		if err := doc.DataTo(&order); err != nil {
			log.Printf("Error parsing order data: %v", err)
			continue
		}
		orders = append(orders, &order)
	}

	return orders, nil
}

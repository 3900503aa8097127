package usecase

import (
	"context"
	"log"

	"greenloop/internal/domain/entity"
	"greenloop/internal/domain/repository"
	"greenloop/internal/infrastructure/notification"
	"greenloop/pkg/errors"
	"greenloop/pkg/goroutine"
)

type OrderUseCase struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	chatUseCase *ChatUseCase
	notifier    notification.Notifier
}

func NewOrderUseCase(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	chatUseCase *ChatUseCase,
	notifier notification.Notifier,
) *OrderUseCase {
	return &OrderUseCase{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		chatUseCase: chatUseCase,
		notifier:    notifier,
	}
}

type CheckoutItem struct {
	ProductID string
	Quantity  int
}

type CheckoutInput struct {
	Items     []CheckoutItem
	AddressID string
}

// Checkout turns the cart into one Order per line item, each with its own
// chat to the product's seller. Notification emails are fired asynchronously;
// checkout succeeds whether or not they do.
func (uc *OrderUseCase) Checkout(ctx context.Context, buyerID string, input CheckoutInput) ([]*entity.Order, error) {
	if len(input.Items) == 0 {
		return nil, errors.BadRequest("Checkout requires at least one item", nil)
	}

	var orders []*entity.Order

	for _, item := range input.Items {
		product, err := uc.productRepo.GetByID(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}

		if product.SellerID == buyerID {
			return nil, errors.BadRequest("You cannot purchase your own product", nil)
		}

		quantity := item.Quantity
		if quantity < 1 {
			quantity = 1
		}

		order := &entity.Order{
			BuyerID:   buyerID,
			SellerID:  product.SellerID,
			ProductID: product.ID,
			// Snapshot of the product at purchase time; later edits to the
			// product never change what the order shows.
			ProductName:   product.Name,
			ProductImage:  product.PrimaryImage(),
			Quantity:      quantity,
			Subtotal:      product.Price * float64(quantity),
			Total:         product.Price * float64(quantity),
			PaymentStatus: entity.PaymentStatusPending,
			AddressID:     input.AddressID,
			Status:        entity.OrderStatusPending,
		}

		if err := uc.orderRepo.Create(ctx, order); err != nil {
			log.Printf("Checkout Error: Failed to create order for product %s: %v", product.ID, err)
			return nil, err
		}

		if _, err := uc.chatUseCase.CreateChat(ctx, buyerID, CreateChatInput{
			ProductID: product.ID,
			OrderID:   order.ID,
		}); err != nil {
			log.Printf("Checkout Warning: Failed to create chat for order %s: %v", order.ID, err)
		}

		uc.emailSellerOrderPlaced(ctx, order)
		orders = append(orders, order)
	}

	return orders, nil
}

// UpdateOrderStatus lets the seller progress a confirmed order, currently to
// shipped. Confirmation and completion run through the chat state machine.
func (uc *OrderUseCase) UpdateOrderStatus(ctx context.Context, sellerID, orderID, status string) (*entity.Order, error) {
	if status != entity.OrderStatusShipped {
		return nil, errors.BadRequest("Unsupported status transition", nil)
	}

	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.SellerID != sellerID {
		return nil, errors.NotFound("Order", nil)
	}
	if order.Status != entity.OrderStatusConfirmed {
		return nil, errors.InvalidState("Only confirmed orders can be shipped", nil)
	}

	order.Status = status
	if err := uc.orderRepo.Update(ctx, order); err != nil {
		return nil, err
	}

	uc.emailBuyerStatusUpdate(ctx, order)

	return order, nil
}

func (uc *OrderUseCase) GetOrder(ctx context.Context, userID, orderID string) (*entity.Order, error) {
	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.BuyerID != userID && order.SellerID != userID {
		return nil, errors.NotFound("Order", nil)
	}

	return order, nil
}

func (uc *OrderUseCase) ListOrders(ctx context.Context, userID, role string) ([]*entity.Order, error) {
	if role == "seller" {
		return uc.orderRepo.ListBySeller(ctx, userID)
	}
	return uc.orderRepo.ListByBuyer(ctx, userID)
}

func (uc *OrderUseCase) emailSellerOrderPlaced(ctx context.Context, order *entity.Order) {
	seller, err := uc.userRepo.GetByID(ctx, order.SellerID)
	if err != nil {
		log.Printf("Checkout Warning: Seller %s not found for email: %v", order.SellerID, err)
		return
	}

	msg := notification.OrderPlacedEmail(seller.Email, seller.Username, order.ProductName, order.ID, order.Total)
	orderID := order.ID

	goroutine.SafeGo(func() {
		if err := uc.notifier.SendEmail(context.Background(), msg); err != nil {
			log.Printf("Checkout Warning: Order email for %s to %s failed: %v", orderID, seller.Email, err)
			return
		}
		// Best-effort bookkeeping; the order itself is already durable.
		if order, err := uc.orderRepo.GetByID(context.Background(), orderID); err == nil {
			order.SellerNotified = true
			if err := uc.orderRepo.Update(context.Background(), order); err != nil {
				log.Printf("Checkout Warning: Failed to flag seller notification for order %s: %v", orderID, err)
			}
		}
	})
}

func (uc *OrderUseCase) emailBuyerStatusUpdate(ctx context.Context, order *entity.Order) {
	buyer, err := uc.userRepo.GetByID(ctx, order.BuyerID)
	if err != nil {
		log.Printf("UpdateOrderStatus Warning: Buyer %s not found for email: %v", order.BuyerID, err)
		return
	}

	msg := notification.OrderStatusEmail(buyer.Email, buyer.Username, order.ProductName, order.ID, order.Status)
	goroutine.SafeGo(func() {
		if err := uc.notifier.SendEmail(context.Background(), msg); err != nil {
			log.Printf("UpdateOrderStatus Warning: Status email to %s failed: %v", buyer.Email, err)
		}
	})
}

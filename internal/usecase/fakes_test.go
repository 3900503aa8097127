package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"greenloop/internal/domain/entity"
	"greenloop/internal/domain/repository"
	"greenloop/internal/infrastructure/notification"
	"greenloop/pkg/errors"
)

// In-memory repositories mirroring the Firestore adapters' semantics,
// deterministic document IDs and transactional guards included.

type memChatRepository struct {
	mu       sync.Mutex
	chats    map[string]*entity.Chat
	messages []*entity.Message
	nextMsg  int
}

func newMemChatRepository() *memChatRepository {
	return &memChatRepository{chats: make(map[string]*entity.Chat)}
}

func memChatID(chat *entity.Chat) string {
	if chat.OrderID != "" {
		return fmt.Sprintf("ord_%s_%s", chat.OrderID, chat.ProductID)
	}
	return fmt.Sprintf("dm_%s_%s_%s", chat.BuyerID, chat.SellerID, chat.ProductID)
}

func copyChat(chat *entity.Chat) *entity.Chat {
	c := *chat
	return &c
}

func (r *memChatRepository) Create(ctx context.Context, chat *entity.Chat) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if chat.ID == "" {
		chat.ID = memChatID(chat)
	}
	if _, exists := r.chats[chat.ID]; exists {
		return errors.Conflict("Chat already exists")
	}

	now := time.Now()
	chat.CreatedAt = now
	chat.UpdatedAt = now
	if chat.LastMessageAt.IsZero() {
		chat.LastMessageAt = now
	}

	r.chats[chat.ID] = copyChat(chat)
	return nil
}

func (r *memChatRepository) GetByID(ctx context.Context, id string) (*entity.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	chat, ok := r.chats[id]
	if !ok {
		return nil, errors.NotFound("Chat", nil)
	}
	return copyChat(chat), nil
}

func (r *memChatRepository) FindByOrderAndProduct(ctx context.Context, orderID, productID string) (*entity.Chat, error) {
	return r.GetByID(ctx, fmt.Sprintf("ord_%s_%s", orderID, productID))
}

func (r *memChatRepository) FindDirect(ctx context.Context, buyerID, sellerID, productID string) (*entity.Chat, error) {
	return r.GetByID(ctx, fmt.Sprintf("dm_%s_%s_%s", buyerID, sellerID, productID))
}

func (r *memChatRepository) ListByUserID(ctx context.Context, userID string) ([]*entity.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*entity.Chat
	for _, chat := range r.chats {
		if chat.BuyerID == userID || chat.SellerID == userID {
			out = append(out, copyChat(chat))
		}
	}
	return out, nil
}

func (r *memChatRepository) Update(ctx context.Context, chat *entity.Chat) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.chats[chat.ID]; !ok {
		return errors.NotFound("Chat", nil)
	}
	chat.UpdatedAt = time.Now()
	r.chats[chat.ID] = copyChat(chat)
	return nil
}

func (r *memChatRepository) ConfirmOrder(ctx context.Context, chatID string) (*entity.Chat, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	chat, ok := r.chats[chatID]
	if !ok {
		return nil, false, errors.NotFound("Chat", nil)
	}
	if chat.OrderConfirmed {
		return copyChat(chat), false, nil
	}

	now := time.Now()
	chat.OrderConfirmed = true
	chat.OrderConfirmedAt = &now
	chat.UpdatedAt = now
	return copyChat(chat), true, nil
}

func (r *memChatRepository) CompleteOrder(ctx context.Context, chatID string) (*entity.Chat, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	chat, ok := r.chats[chatID]
	if !ok {
		return nil, false, errors.NotFound("Chat", nil)
	}
	if !chat.OrderConfirmed {
		return nil, false, errors.InvalidState("Order must be confirmed before it can be completed", nil)
	}
	if chat.OrderCompleted {
		return copyChat(chat), false, nil
	}

	now := time.Now()
	chat.OrderCompleted = true
	chat.CompletedAt = &now
	chat.UpdatedAt = now
	return copyChat(chat), true, nil
}

func (r *memChatRepository) SoftDelete(ctx context.Context, chatID, userID string) (*entity.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	chat, ok := r.chats[chatID]
	if !ok {
		return nil, errors.NotFound("Chat", nil)
	}

	now := time.Now()
	if userID == chat.BuyerID {
		chat.DeletedByBuyer = true
		chat.DeletedByBuyerAt = &now
	} else if userID == chat.SellerID {
		chat.DeletedBySeller = true
		chat.DeletedBySellerAt = &now
	}
	chat.IsActive = !(chat.DeletedByBuyer && chat.DeletedBySeller)
	chat.UpdatedAt = now
	return copyChat(chat), nil
}

func (r *memChatRepository) CreateMessage(ctx context.Context, message *entity.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextMsg++
	message.ID = fmt.Sprintf("msg-%d", r.nextMsg)
	message.CreatedAt = time.Now()
	stored := *message
	r.messages = append(r.messages, &stored)
	return nil
}

func (r *memChatRepository) ListMessages(ctx context.Context, chatID string, limit, offset int) ([]*entity.Message, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var all []*entity.Message
	for _, m := range r.messages {
		if m.ChatID == chatID {
			copied := *m
			all = append(all, &copied)
		}
	}

	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := len(all)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return all[offset:end], total, nil
}

func (r *memChatRepository) MarkMessagesRead(ctx context.Context, chatID, readerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	for _, m := range r.messages {
		if m.ChatID == chatID && m.ReceiverID == readerID && !m.Read {
			m.Read = true
			m.ReadAt = &now
		}
	}
	return nil
}

type memOrderRepository struct {
	mu     sync.Mutex
	orders map[string]*entity.Order
	nextID int
}

func newMemOrderRepository() *memOrderRepository {
	return &memOrderRepository{orders: make(map[string]*entity.Order)}
}

func (r *memOrderRepository) Create(ctx context.Context, order *entity.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if order.ID == "" {
		r.nextID++
		order.ID = fmt.Sprintf("order-%d", r.nextID)
	}
	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now
	stored := *order
	r.orders[order.ID] = &stored
	return nil
}

func (r *memOrderRepository) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, errors.NotFound("Order", nil)
	}
	copied := *order
	return &copied, nil
}

func (r *memOrderRepository) Update(ctx context.Context, order *entity.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[order.ID]; !ok {
		return errors.NotFound("Order", nil)
	}
	order.UpdatedAt = time.Now()
	stored := *order
	r.orders[order.ID] = &stored
	return nil
}

func (r *memOrderRepository) ListByBuyer(ctx context.Context, buyerID string) ([]*entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*entity.Order
	for _, o := range r.orders {
		if o.BuyerID == buyerID {
			copied := *o
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *memOrderRepository) ListBySeller(ctx context.Context, sellerID string) ([]*entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*entity.Order
	for _, o := range r.orders {
		if o.SellerID == sellerID {
			copied := *o
			out = append(out, &copied)
		}
	}
	return out, nil
}

type memProductRepository struct {
	mu       sync.Mutex
	products map[string]*entity.Product
	nextID   int
}

func newMemProductRepository() *memProductRepository {
	return &memProductRepository{products: make(map[string]*entity.Product)}
}

func (r *memProductRepository) Create(ctx context.Context, product *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == "" {
		r.nextID++
		product.ID = fmt.Sprintf("product-%d", r.nextID)
	}
	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now
	stored := *product
	r.products[product.ID] = &stored
	return nil
}

func (r *memProductRepository) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok {
		return nil, errors.NotFound("Product", nil)
	}
	copied := *product
	return &copied, nil
}

func (r *memProductRepository) Update(ctx context.Context, product *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[product.ID]; !ok {
		return errors.NotFound("Product", nil)
	}
	stored := *product
	r.products[product.ID] = &stored
	return nil
}

type memUserRepository struct {
	mu    sync.Mutex
	users map[string]*entity.User
}

func newMemUserRepository() *memUserRepository {
	return &memUserRepository{users: make(map[string]*entity.User)}
}

func (r *memUserRepository) add(user *entity.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *user
	r.users[user.ID] = &stored
}

func (r *memUserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	copied := *user
	return &copied, nil
}

func (r *memUserRepository) Update(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; !ok {
		return errors.NotFound("User", nil)
	}
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

type memReviewRepository struct {
	mu            sync.Mutex
	eligibilities map[string]*entity.ReviewEligibility
	reviews       map[string]*entity.Review
	nextID        int
}

func newMemReviewRepository() *memReviewRepository {
	return &memReviewRepository{
		eligibilities: make(map[string]*entity.ReviewEligibility),
		reviews:       make(map[string]*entity.Review),
	}
}

func eligibilityKey(userID, productID, orderID string) string {
	return fmt.Sprintf("%s_%s_%s", userID, productID, orderID)
}

func (r *memReviewRepository) CreateEligibility(ctx context.Context, eligibility *entity.ReviewEligibility) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := eligibilityKey(eligibility.UserID, eligibility.ProductID, eligibility.OrderID)
	if _, exists := r.eligibilities[key]; exists {
		return errors.Conflict("Review eligibility already exists")
	}
	eligibility.ID = key
	now := time.Now()
	eligibility.CreatedAt = now
	eligibility.UpdatedAt = now
	stored := *eligibility
	r.eligibilities[key] = &stored
	return nil
}

func (r *memReviewRepository) GetEligibility(ctx context.Context, userID, productID, orderID string) (*entity.ReviewEligibility, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	eligibility, ok := r.eligibilities[eligibilityKey(userID, productID, orderID)]
	if !ok {
		return nil, errors.NotFound("Review eligibility", nil)
	}
	copied := *eligibility
	return &copied, nil
}

func (r *memReviewRepository) ListEligibilitiesByUser(ctx context.Context, userID string) ([]*entity.ReviewEligibility, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*entity.ReviewEligibility
	for _, e := range r.eligibilities {
		if e.UserID == userID {
			copied := *e
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *memReviewRepository) UpdateEligibility(ctx context.Context, eligibility *entity.ReviewEligibility) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.eligibilities[eligibility.ID]; !ok {
		return errors.NotFound("Review eligibility", nil)
	}
	eligibility.UpdatedAt = time.Now()
	stored := *eligibility
	r.eligibilities[eligibility.ID] = &stored
	return nil
}

func (r *memReviewRepository) CreateReview(ctx context.Context, review *entity.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := eligibilityKey(review.UserID, review.ProductID, review.OrderID)
	eligibility, ok := r.eligibilities[key]
	if !ok {
		return errors.NotFound("Review eligibility", nil)
	}
	if eligibility.HasReviewed {
		return errors.Conflict("A review for this order already exists")
	}

	r.nextID++
	review.ID = fmt.Sprintf("review-%d", r.nextID)
	now := time.Now()
	review.CreatedAt = now
	review.UpdatedAt = now
	stored := *review
	r.reviews[review.ID] = &stored

	eligibility.HasReviewed = true
	eligibility.ReviewID = review.ID
	eligibility.UpdatedAt = now
	return nil
}

func (r *memReviewRepository) GetReviewByID(ctx context.Context, id string) (*entity.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	review, ok := r.reviews[id]
	if !ok {
		return nil, errors.NotFound("Review", nil)
	}
	copied := *review
	return &copied, nil
}

func (r *memReviewRepository) ListReviewsByProduct(ctx context.Context, productID string, limit, offset int) ([]*entity.Review, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var all []*entity.Review
	for _, rv := range r.reviews {
		if rv.ProductID == productID {
			copied := *rv
			all = append(all, &copied)
		}
	}

	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := len(all)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return all[offset:end], total, nil
}

func (r *memReviewRepository) DeleteReview(ctx context.Context, review *entity.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.reviews[review.ID]; !ok {
		return errors.NotFound("Review", nil)
	}
	delete(r.reviews, review.ID)

	key := eligibilityKey(review.UserID, review.ProductID, review.OrderID)
	if eligibility, ok := r.eligibilities[key]; ok {
		eligibility.HasReviewed = false
		eligibility.ReviewID = ""
		eligibility.UpdatedAt = time.Now()
	}
	return nil
}

type memShopRepository struct {
	mu     sync.Mutex
	shops  map[string]*entity.Shop
	nextID int
}

func newMemShopRepository() *memShopRepository {
	return &memShopRepository{shops: make(map[string]*entity.Shop)}
}

func (r *memShopRepository) Create(ctx context.Context, shop *entity.Shop) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if shop.ID == "" {
		r.nextID++
		shop.ID = fmt.Sprintf("shop-%d", r.nextID)
	}
	now := time.Now()
	shop.CreatedAt = now
	shop.UpdatedAt = now
	stored := *shop
	r.shops[shop.ID] = &stored
	return nil
}

func (r *memShopRepository) GetByID(ctx context.Context, id string) (*entity.Shop, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	shop, ok := r.shops[id]
	if !ok {
		return nil, errors.NotFound("Shop", nil)
	}
	copied := *shop
	return &copied, nil
}

func (r *memShopRepository) GetByOwnerID(ctx context.Context, ownerID string) (*entity.Shop, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, shop := range r.shops {
		if shop.OwnerID == ownerID {
			copied := *shop
			return &copied, nil
		}
	}
	return nil, errors.NotFound("Shop", nil)
}

func (r *memShopRepository) Update(ctx context.Context, shop *entity.Shop) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.shops[shop.ID]; !ok {
		return errors.NotFound("Shop", nil)
	}
	shop.UpdatedAt = time.Now()
	stored := *shop
	r.shops[shop.ID] = &stored
	return nil
}

// SweepTransition mirrors the Firestore adapter: exact prerequisite status,
// activity cutoff on UpdatedAt, and no UpdatedAt bump on transition.
func (r *memShopRepository) SweepTransition(ctx context.Context, fromStatus, toStatus string, updatedBefore time.Time, reason string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	moved := 0
	for _, shop := range r.shops {
		if shop.Status != fromStatus || !shop.UpdatedAt.Before(updatedBefore) {
			continue
		}
		shop.Status = toStatus
		shop.DormancyReason = reason
		if shop.DormantSince == nil {
			since := time.Now()
			shop.DormantSince = &since
		}
		moved++
	}
	return moved, nil
}

func (r *memShopRepository) Reactivate(ctx context.Context, shopID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	shop, ok := r.shops[shopID]
	if !ok {
		return false, errors.NotFound("Shop", nil)
	}
	if shop.Status != entity.ShopStatusDormant && shop.Status != entity.ShopStatusInactive {
		return false, nil
	}

	shop.Status = entity.ShopStatusActive
	shop.DormancyReason = ""
	shop.DormantSince = nil
	shop.UpdatedAt = time.Now()
	return true, nil
}

type memNotifier struct {
	mu       sync.Mutex
	emails   []notification.EmailMessage
	pushes   []string
	emailErr error
}

func (n *memNotifier) SendEmail(ctx context.Context, msg notification.EmailMessage) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.emails = append(n.emails, msg)
	return n.emailErr
}

func (n *memNotifier) emailCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.emails)
}

func (n *memNotifier) SendPush(ctx context.Context, deviceToken, title, body string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.pushes = append(n.pushes, deviceToken)
	return nil
}

var (
	_ repository.ChatRepository    = (*memChatRepository)(nil)
	_ repository.OrderRepository   = (*memOrderRepository)(nil)
	_ repository.ProductRepository = (*memProductRepository)(nil)
	_ repository.UserRepository    = (*memUserRepository)(nil)
	_ repository.ReviewRepository  = (*memReviewRepository)(nil)
	_ repository.ShopRepository    = (*memShopRepository)(nil)
	_ notification.Notifier        = (*memNotifier)(nil)
)

package repository

import (
	"agribid/internal/auctionerrors"
	model "agribid/internal/models"
	"fmt"
	"strings"
	"sync"
)

// MarketDB defines the product, bid and user storage interface for the marketplace
type MarketDB interface {
	AddProduct(product model.Product) error
	GetProduct(productID string) (model.Product, error)
	ListProducts() ([]model.Product, error)
	RecordBidForProduct(bid model.Bid) error
	GetBidsByProduct(productID string) ([]model.Bid, error)
	GetWinningBid(productID string) (model.Bid, error)
	GetBidsByUser(userID string) ([]model.Bid, error)
	CreateUser(user model.User) error
	GetUserByEmail(email string) (model.User, error)
	GetUserByID(userID string) (model.User, error)
}

// MemoryRepo is a concurrency-safe in-memory implementation of MarketDB
type MemoryRepo struct {
	mu           sync.RWMutex
	products     map[string]model.Product // key: productID -> value: product with its bids
	productOrder []string                 // productIDs in listing order
	users        map[string]model.User    // key: userID -> value: user
	usersByEmail map[string]string        // key: lowercased email -> value: userID
}

// NewMemoryRepo creates a new in-memory repository instance
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		products:     make(map[string]model.Product),
		users:        make(map[string]model.User),
		usersByEmail: make(map[string]string),
	}
}

// AddProduct stores a new product listing
func (r *MemoryRepo) AddProduct(product model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ProductID == "" {
		return fmt.Errorf("add product: %w", auctionerrors.ErrProductNotFound)
	}
	if _, ok := r.products[product.ProductID]; !ok {
		r.productOrder = append(r.productOrder, product.ProductID)
	}
	r.products[product.ProductID] = product
	return nil
}

// GetProduct returns a copy of the product including its bid history
func (r *MemoryRepo) GetProduct(productID string) (model.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[productID]
	if !ok {
		return model.Product{}, fmt.Errorf("get product %s: %w", productID, auctionerrors.ErrProductNotFound)
	}
	return cloneProduct(product), nil
}

// ListProducts returns all products in listing order
func (r *MemoryRepo) ListProducts() ([]model.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	products := make([]model.Product, 0, len(r.productOrder))
	for _, id := range r.productOrder {
		products = append(products, cloneProduct(r.products[id]))
	}
	return products, nil
}

// RecordBidForProduct appends a bid to the product and raises its current
// price in a single critical section, so readers never observe one without
// the other.
func (r *MemoryRepo) RecordBidForProduct(bid model.Bid) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[bid.ProductID]
	if !ok {
		return fmt.Errorf("record bid for product %s: %w", bid.ProductID, auctionerrors.ErrProductNotFound)
	}

	product.Bids = append(product.Bids, bid)
	if bid.Amount > product.CurrentPrice {
		product.CurrentPrice = bid.Amount
	}
	r.products[bid.ProductID] = product

	return nil
}

// GetBidsByProduct returns all bids for a product in submission order
func (r *MemoryRepo) GetBidsByProduct(productID string) ([]model.Bid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[productID]
	if !ok {
		return nil, fmt.Errorf("get bids for product %s: %w", productID, auctionerrors.ErrProductNotFound)
	}
	if len(product.Bids) == 0 {
		return nil, fmt.Errorf("get bids for product %s: %w", productID, auctionerrors.ErrNoBids)
	}
	return append([]model.Bid(nil), product.Bids...), nil
}

// GetWinningBid returns the highest bid for a product. Ties resolve to the
// earliest bid, which a linear maximum scan over the submission-ordered
// slice gives for free.
func (r *MemoryRepo) GetWinningBid(productID string) (model.Bid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[productID]
	if !ok {
		return model.Bid{}, fmt.Errorf("get winning bid for product %s: %w", productID, auctionerrors.ErrProductNotFound)
	}
	if len(product.Bids) == 0 {
		return model.Bid{}, fmt.Errorf("get winning bid for product %s: %w", productID, auctionerrors.ErrNoBids)
	}

	winning := product.Bids[0]
	for _, b := range product.Bids[1:] {
		if b.Amount > winning.Amount {
			winning = b
		}
	}
	return winning, nil
}

// GetBidsByUser returns the user's bids across all products, preserving each
// product's submission order
func (r *MemoryRepo) GetBidsByUser(userID string) ([]model.Bid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var bids []model.Bid
	for _, id := range r.productOrder {
		for _, b := range r.products[id].Bids {
			if b.UserID == userID {
				bids = append(bids, b)
			}
		}
	}
	if len(bids) == 0 {
		return nil, fmt.Errorf("get bids for user %s: %w", userID, auctionerrors.ErrUserNoBids)
	}
	return bids, nil
}

// CreateUser stores a new user. Email uniqueness is role-independent.
func (r *MemoryRepo) CreateUser(user model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(user.Email)
	if _, ok := r.usersByEmail[key]; ok {
		return fmt.Errorf("create user %s: %w", user.Email, auctionerrors.ErrEmailInUse)
	}
	r.users[user.UserID] = user
	r.usersByEmail[key] = user.UserID
	return nil
}

// GetUserByEmail looks up a user by email, case-insensitive
func (r *MemoryRepo) GetUserByEmail(email string) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	userID, ok := r.usersByEmail[strings.ToLower(email)]
	if !ok {
		return model.User{}, fmt.Errorf("get user by email %s: %w", email, auctionerrors.ErrUserNotFound)
	}
	return r.users[userID], nil
}

// GetUserByID looks up a user by id
func (r *MemoryRepo) GetUserByID(userID string) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[userID]
	if !ok {
		return model.User{}, fmt.Errorf("get user %s: %w", userID, auctionerrors.ErrUserNotFound)
	}
	return user, nil
}

// cloneProduct copies a product with its bid slice so callers cannot mutate
// stored state. Callers must hold at least the read lock.
func cloneProduct(product model.Product) model.Product {
	if product.Bids != nil {
		product.Bids = append([]model.Bid{}, product.Bids...)
	}
	if product.Certifications != nil {
		product.Certifications = append([]string{}, product.Certifications...)
	}
	return product
}

package checkout

import (
	"agribid/internal/auctionerrors"
	"agribid/internal/models"
	"agribid/internal/repository"
	"agribid/utils"
	"fmt"
	"sync"
	"time"
)

// Step is a checkout state. Transitions run strictly forward
// (shipping -> payment -> review -> complete) or backward by one step.
type Step string

const (
	StepShipping Step = "shipping"
	StepPayment  Step = "payment"
	StepReview   Step = "review"
	StepComplete Step = "complete"
)

// Order pricing policy
const (
	ShippingFee = 10.0
	TaxRate     = 0.085
)

// Checkout tracks one buyer's progress through the purchase steps
type Checkout struct {
	CheckoutID string                 `json:"checkout_id"`
	ProductID  string                 `json:"product_id"`
	UserID     string                 `json:"user_id"`
	Step       Step                   `json:"step"`
	Shipping   models.ShippingDetails `json:"shipping"`
	Payment    models.PaymentDetails  `json:"payment"`
	Order      *models.OrderSummary   `json:"order,omitempty"`
}

// WinnerChecker gates checkout on having won the auction
type WinnerChecker interface {
	IsHighestBidder(productID, userID string) (bool, error)
}

// CheckoutService drives the post-auction purchase state machine
type CheckoutService struct {
	repo         repository.MarketDB
	winners      WinnerChecker
	now          func() time.Time
	confirmDelay time.Duration

	mu        sync.Mutex
	checkouts map[string]*Checkout
}

// Option configures a CheckoutService
type Option func(*CheckoutService)

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(s *CheckoutService) { s.now = now }
}

// WithConfirmDelay adds a fixed delay to order confirmation, emulating
// network round-trip time
func WithConfirmDelay(d time.Duration) Option {
	return func(s *CheckoutService) { s.confirmDelay = d }
}

// NewCheckoutService creates a new CheckoutService instance
func NewCheckoutService(repo repository.MarketDB, winners WinnerChecker, opts ...Option) *CheckoutService {
	s := &CheckoutService{
		repo:      repo,
		winners:   winners,
		now:       time.Now,
		checkouts: make(map[string]*Checkout),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Begin opens a checkout for the product's winning bidder
func (s *CheckoutService) Begin(productID string, user *models.User) (Checkout, error) {
	if user == nil {
		return Checkout{}, fmt.Errorf("checkout: %w - no session user", auctionerrors.ErrNotAuthenticated)
	}
	if productID == "" {
		return Checkout{}, fmt.Errorf("checkout: %w - empty product ID", auctionerrors.ErrCheckoutNotFound)
	}

	if _, err := s.repo.GetProduct(productID); err != nil {
		return Checkout{}, fmt.Errorf("checkout: failed to load product %s: %w", productID, err)
	}

	won, err := s.winners.IsHighestBidder(productID, user.UserID)
	if err != nil {
		return Checkout{}, fmt.Errorf("checkout: failed to verify winning bidder: %w", err)
	}
	if !won {
		return Checkout{}, fmt.Errorf("checkout: %w - user %s did not win product %s", auctionerrors.ErrNotWinningBidder, user.UserID, productID)
	}

	co := &Checkout{
		CheckoutID: utils.GenerateID(),
		ProductID:  productID,
		UserID:     user.UserID,
		Step:       StepShipping,
	}

	s.mu.Lock()
	s.checkouts[co.CheckoutID] = co
	s.mu.Unlock()

	return *co, nil
}

// Get returns the checkout's current state
func (s *CheckoutService) Get(checkoutID string) (Checkout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	co, err := s.find(checkoutID)
	if err != nil {
		return Checkout{}, err
	}
	return *co, nil
}

// SubmitShipping records the shipping form and advances to payment
func (s *CheckoutService) SubmitShipping(checkoutID string, details models.ShippingDetails) (Checkout, error) {
	if err := validateShipping(details); err != nil {
		return Checkout{}, err
	}
	if details.Country == "" {
		details.Country = "United States"
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	co, err := s.find(checkoutID)
	if err != nil {
		return Checkout{}, err
	}
	if co.Step != StepShipping {
		return Checkout{}, fmt.Errorf("checkout: %w - expected shipping, at %s", auctionerrors.ErrWrongStep, co.Step)
	}

	co.Shipping = details
	co.Step = StepPayment
	return *co, nil
}

// SubmitPayment records the payment form and advances to review.
// Presence-only validation; card fields are never verified.
func (s *CheckoutService) SubmitPayment(checkoutID string, details models.PaymentDetails) (Checkout, error) {
	if err := validatePayment(details); err != nil {
		return Checkout{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	co, err := s.find(checkoutID)
	if err != nil {
		return Checkout{}, err
	}
	if co.Step != StepPayment {
		return Checkout{}, fmt.Errorf("checkout: %w - expected payment, at %s", auctionerrors.ErrWrongStep, co.Step)
	}

	co.Payment = details
	co.Step = StepReview
	return *co, nil
}

// Back moves one step backward (payment -> shipping, review -> payment)
func (s *CheckoutService) Back(checkoutID string) (Checkout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	co, err := s.find(checkoutID)
	if err != nil {
		return Checkout{}, err
	}

	switch co.Step {
	case StepPayment:
		co.Step = StepShipping
	case StepReview:
		co.Step = StepPayment
	default:
		return Checkout{}, fmt.Errorf("checkout: %w - cannot go back from %s", auctionerrors.ErrWrongStep, co.Step)
	}
	return *co, nil
}

// ConfirmOrder finalizes the purchase from the review step and produces the
// order summary
func (s *CheckoutService) ConfirmOrder(checkoutID string) (Checkout, error) {
	s.mu.Lock()
	co, err := s.find(checkoutID)
	if err != nil {
		s.mu.Unlock()
		return Checkout{}, err
	}
	if co.Step != StepReview {
		s.mu.Unlock()
		return Checkout{}, fmt.Errorf("checkout: %w - expected review, at %s", auctionerrors.ErrWrongStep, co.Step)
	}
	productID := co.ProductID
	s.mu.Unlock()

	if s.confirmDelay > 0 {
		time.Sleep(s.confirmDelay)
	}

	product, err := s.repo.GetProduct(productID)
	if err != nil {
		return Checkout{}, fmt.Errorf("checkout: failed to load product %s: %w", productID, err)
	}

	subtotal, shipping, tax, total := Totals(product.CurrentPrice)
	order := &models.OrderSummary{
		OrderNumber: utils.GenerateOrderNumber(),
		ProductID:   product.ProductID,
		ProductName: product.Name,
		Subtotal:    subtotal,
		ShippingFee: shipping,
		Tax:         tax,
		Total:       total,
		PlacedAt:    s.now().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	co, err = s.find(checkoutID)
	if err != nil {
		return Checkout{}, err
	}
	if co.Step != StepReview {
		return Checkout{}, fmt.Errorf("checkout: %w - expected review, at %s", auctionerrors.ErrWrongStep, co.Step)
	}
	co.Order = order
	co.Step = StepComplete
	return *co, nil
}

// Totals computes the order amounts for a winning price
func Totals(currentPrice float64) (subtotal, shipping, tax, total float64) {
	subtotal = currentPrice
	shipping = ShippingFee
	tax = currentPrice * TaxRate
	total = subtotal + shipping + tax
	return
}

// find must be called with the lock held
func (s *CheckoutService) find(checkoutID string) (*Checkout, error) {
	co, ok := s.checkouts[checkoutID]
	if !ok {
		return nil, fmt.Errorf("checkout: %w - %s", auctionerrors.ErrCheckoutNotFound, checkoutID)
	}
	return co, nil
}

func validateShipping(details models.ShippingDetails) error {
	required := []struct {
		field string
		value string
	}{
		{"full_name", details.FullName},
		{"email", details.Email},
		{"address_line1", details.AddressLine1},
		{"city", details.City},
		{"state", details.State},
		{"zip_code", details.ZipCode},
		{"phone", details.Phone},
	}
	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("checkout: %w - %s", auctionerrors.ErrMissingField, r.field)
		}
	}
	return nil
}

func validatePayment(details models.PaymentDetails) error {
	required := []struct {
		field string
		value string
	}{
		{"card_number", details.CardNumber},
		{"card_holder", details.CardHolder},
		{"expiry_date", details.ExpiryDate},
		{"cvv", details.CVV},
	}
	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("checkout: %w - %s", auctionerrors.ErrMissingField, r.field)
		}
	}
	return nil
}

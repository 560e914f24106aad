package auction

import (
	"agribid/internal/auctionerrors"
	"agribid/internal/models"
	"agribid/internal/repository"
	"agribid/utils"
	"fmt"
	"time"
)

// AuctionService defines the business logic for listing and bidding
type AuctionService struct {
	repo        repository.MarketDB
	now         func() time.Time
	commitDelay time.Duration
}

// Option configures an AuctionService
type Option func(*AuctionService)

// WithClock overrides the time source, used for auction-close evaluation
func WithClock(now func() time.Time) Option {
	return func(s *AuctionService) { s.now = now }
}

// WithCommitDelay adds a fixed delay before each bid commit, emulating
// network round-trip time. Zero disables it; correctness never depends on it.
func WithCommitDelay(d time.Duration) Option {
	return func(s *AuctionService) { s.commitDelay = d }
}

// NewAuctionService creates a new AuctionService instance
func NewAuctionService(repo repository.MarketDB, opts ...Option) *AuctionService {
	s := &AuctionService{
		repo: repo,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ProductInput carries the fields a farmer supplies when listing a product
type ProductInput struct {
	Name           string
	Description    string
	ImageURL       string
	StartingPrice  float64
	Location       string
	Quantity       int
	Category       string
	HarvestDate    string
	ExpiryDate     string
	Certifications []string
	AuctionEndTime *time.Time
}

// PlaceBid validates and records a buyer's bid on a product
func (s *AuctionService) PlaceBid(productID string, bidder *models.User, amount float64) (models.Bid, error) {
	if bidder == nil {
		return models.Bid{}, fmt.Errorf("service: %w - no session user", auctionerrors.ErrNotAuthenticated)
	}
	if bidder.UserType != models.UserTypeBuyer {
		return models.Bid{}, fmt.Errorf("service: %w - only buyers may bid", auctionerrors.ErrWrongRole)
	}
	if productID == "" || amount <= 0 {
		return models.Bid{}, fmt.Errorf("service: %w - missing productID or non-positive amount", auctionerrors.ErrInvalidBid)
	}

	product, err := s.repo.GetProduct(productID)
	if err != nil {
		return models.Bid{}, fmt.Errorf("service: failed to load product %s: %w", productID, err)
	}

	if s.auctionClosed(product) {
		return models.Bid{}, fmt.Errorf("service: %w - bidding ended at %s", auctionerrors.ErrAuctionClosed, product.AuctionEndTime.Format(time.RFC3339))
	}

	minimum := MinimumBid(product)
	if amount < minimum {
		return models.Bid{}, fmt.Errorf("service: %w - minimum acceptable bid is %.2f", auctionerrors.ErrBidTooLow, minimum)
	}

	if s.commitDelay > 0 {
		time.Sleep(s.commitDelay)
	}

	bid := models.Bid{
		BidID:     utils.GenerateID(),
		ProductID: productID,
		UserID:    bidder.UserID,
		UserName:  bidder.Name,
		Amount:    amount,
		CreatedAt: s.now().UTC(),
		Status:    models.BidStatusActive,
	}

	if err := s.repo.RecordBidForProduct(bid); err != nil {
		return models.Bid{}, fmt.Errorf("service: failed to record bid for product %s by user %s: %w", productID, bidder.UserID, err)
	}

	return bid, nil
}

// MinimumBid returns the lowest acceptable bid for the product: the starting
// price while no bids exist (a first bid may equal it), then one currency
// unit above the highest bid.
func MinimumBid(product models.Product) float64 {
	if len(product.Bids) == 0 {
		return product.StartingPrice
	}
	return highestAmount(product) + 1
}

// GetHighestBid returns the highest bid amount for a product, or its
// starting price when no bids exist
func (s *AuctionService) GetHighestBid(productID string) (float64, error) {
	if productID == "" {
		return 0, fmt.Errorf("service: %w - empty product ID", auctionerrors.ErrInvalidBid)
	}

	product, err := s.repo.GetProduct(productID)
	if err != nil {
		return 0, fmt.Errorf("service: failed to get highest bid for product %s: %w", productID, err)
	}
	if len(product.Bids) == 0 {
		return product.StartingPrice, nil
	}
	return highestAmount(product), nil
}

// GetWinningBid returns the winning bid for a product once the auction has
// closed. While bidding is open there is no winner yet.
func (s *AuctionService) GetWinningBid(productID string) (models.Bid, error) {
	if productID == "" {
		return models.Bid{}, fmt.Errorf("service: %w - empty product ID", auctionerrors.ErrInvalidBid)
	}

	product, err := s.repo.GetProduct(productID)
	if err != nil {
		return models.Bid{}, fmt.Errorf("service: failed to load product %s: %w", productID, err)
	}
	if !s.auctionClosed(product) {
		return models.Bid{}, fmt.Errorf("service: %w - auction still open for product %s", auctionerrors.ErrNoBids, productID)
	}

	winning, err := s.repo.GetWinningBid(productID)
	if err != nil {
		return models.Bid{}, fmt.Errorf("service: failed to get winning bid for product %s: %w", productID, err)
	}
	winning.Status = models.BidStatusWon
	return winning, nil
}

// IsHighestBidder reports whether the user holds the winning amount on a
// closed auction. It is false for everyone while bidding is open.
func (s *AuctionService) IsHighestBidder(productID, userID string) (bool, error) {
	if productID == "" || userID == "" {
		return false, fmt.Errorf("service: %w - missing productID or userID", auctionerrors.ErrInvalidBid)
	}

	product, err := s.repo.GetProduct(productID)
	if err != nil {
		return false, fmt.Errorf("service: failed to load product %s: %w", productID, err)
	}
	if !s.auctionClosed(product) || len(product.Bids) == 0 {
		return false, nil
	}

	highest := highestAmount(product)
	for _, b := range product.Bids {
		if b.UserID == userID && b.Amount == highest {
			return true, nil
		}
	}
	return false, nil
}

// GetUserBids returns the user's bids across all products. Statuses are
// derived per bid: won/lost once the product's auction has closed, active
// before.
func (s *AuctionService) GetUserBids(userID string) ([]models.Bid, error) {
	if userID == "" {
		return nil, fmt.Errorf("service: %w - empty user ID", auctionerrors.ErrInvalidBid)
	}

	bids, err := s.repo.GetBidsByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get bids for user %s: %w", userID, err)
	}

	winners := make(map[string]string) // productID -> winning bidID, for closed auctions only
	closed := make(map[string]bool)
	for i, b := range bids {
		if _, seen := closed[b.ProductID]; !seen {
			product, err := s.repo.GetProduct(b.ProductID)
			if err != nil {
				return nil, fmt.Errorf("service: failed to load product %s: %w", b.ProductID, err)
			}
			closed[b.ProductID] = s.auctionClosed(product)
			if closed[b.ProductID] {
				if winning, err := s.repo.GetWinningBid(b.ProductID); err == nil {
					winners[b.ProductID] = winning.BidID
				}
			}
		}
		if closed[b.ProductID] {
			if winners[b.ProductID] == b.BidID {
				bids[i].Status = models.BidStatusWon
			} else {
				bids[i].Status = models.BidStatusLost
			}
		}
	}

	return bids, nil
}

// AddProduct validates and stores a farmer's new listing
func (s *AuctionService) AddProduct(input ProductInput, seller *models.User) (models.Product, error) {
	if seller == nil {
		return models.Product{}, fmt.Errorf("service: %w - no session user", auctionerrors.ErrNotAuthenticated)
	}
	if seller.UserType != models.UserTypeFarmer {
		return models.Product{}, fmt.Errorf("service: %w - only farmers may list products", auctionerrors.ErrWrongRole)
	}
	if err := validateProductInput(input); err != nil {
		return models.Product{}, err
	}
	if input.AuctionEndTime != nil && !input.AuctionEndTime.After(s.now()) {
		return models.Product{}, fmt.Errorf("service: %w - got %s", auctionerrors.ErrPastEndTime, input.AuctionEndTime.Format(time.RFC3339))
	}

	product := models.Product{
		ProductID:      utils.GenerateID(),
		Name:           input.Name,
		Description:    input.Description,
		ImageURL:       input.ImageURL,
		StartingPrice:  input.StartingPrice,
		CurrentPrice:   input.StartingPrice,
		Seller:         seller.Name,
		Location:       input.Location,
		Quantity:       input.Quantity,
		Category:       input.Category,
		HarvestDate:    input.HarvestDate,
		ExpiryDate:     input.ExpiryDate,
		Certifications: input.Certifications,
		AuctionEndTime: input.AuctionEndTime,
		Bids:           []models.Bid{},
	}

	if err := s.repo.AddProduct(product); err != nil {
		return models.Product{}, fmt.Errorf("service: failed to add product %s: %w", product.ProductID, err)
	}

	return product, nil
}

// GetProduct returns a product with its bid history
func (s *AuctionService) GetProduct(productID string) (models.Product, error) {
	if productID == "" {
		return models.Product{}, fmt.Errorf("service: %w - empty product ID", auctionerrors.ErrInvalidBid)
	}

	product, err := s.repo.GetProduct(productID)
	if err != nil {
		return models.Product{}, fmt.Errorf("service: failed to get product %s: %w", productID, err)
	}
	return product, nil
}

// ListProducts returns all products in listing order
func (s *AuctionService) ListProducts() ([]models.Product, error) {
	products, err := s.repo.ListProducts()
	if err != nil {
		return nil, fmt.Errorf("service: failed to list products: %w", err)
	}
	return products, nil
}

// auctionClosed evaluates auction close lazily against the injected clock.
// A product without an end time never closes.
func (s *AuctionService) auctionClosed(product models.Product) bool {
	return product.AuctionEndTime != nil && s.now().After(*product.AuctionEndTime)
}

func highestAmount(product models.Product) float64 {
	highest := product.Bids[0].Amount
	for _, b := range product.Bids[1:] {
		if b.Amount > highest {
			highest = b.Amount
		}
	}
	return highest
}

func validateProductInput(input ProductInput) error {
	required := []struct {
		field string
		ok    bool
	}{
		{"name", input.Name != ""},
		{"description", input.Description != ""},
		{"image_url", input.ImageURL != ""},
		{"category", input.Category != ""},
		{"location", input.Location != ""},
		{"quantity", input.Quantity > 0},
		{"starting_price", input.StartingPrice >= 0},
	}
	for _, r := range required {
		if !r.ok {
			return fmt.Errorf("service: %w - %s", auctionerrors.ErrMissingField, r.field)
		}
	}
	return nil
}

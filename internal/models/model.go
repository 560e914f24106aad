package models

import "time"

// UserType distinguishes who may list products from who may bid on them.
// It is fixed at registration and never changes.
type UserType string

const (
	UserTypeFarmer UserType = "farmer"
	UserTypeBuyer  UserType = "buyer"
)

// BidStatus is the lifecycle state of a bid. The store never flips a
// recorded bid's status itself; won/lost is derived at query time once
// the auction has closed.
type BidStatus string

const (
	BidStatusActive BidStatus = "active"
	BidStatusWon    BidStatus = "won"
	BidStatusLost   BidStatus = "lost"
)

// User represents a registered marketplace participant
type User struct {
	UserID   string   `json:"user_id"`
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	UserType UserType `json:"user_type"`
	Address  string   `json:"address,omitempty"`
	Phone    string   `json:"phone,omitempty"`
}

// Product represents a listed agricultural good open for bidding
type Product struct {
	ProductID      string     `json:"product_id"`
	Name           string     `json:"name"`
	Description    string     `json:"description"`
	ImageURL       string     `json:"image_url"`
	StartingPrice  float64    `json:"starting_price"`
	CurrentPrice   float64    `json:"current_price"`
	Seller         string     `json:"seller"`
	Location       string     `json:"location"`
	Quantity       int        `json:"quantity"`
	Category       string     `json:"category"`
	HarvestDate    string     `json:"harvest_date,omitempty"`
	ExpiryDate     string     `json:"expiry_date,omitempty"`
	Certifications []string   `json:"certifications,omitempty"`
	AuctionEndTime *time.Time `json:"auction_end_time,omitempty"` // nil means bidding never closes
	Bids           []Bid      `json:"bids"`
}

// Bid represents a buyer's offer on a product. Bids are append-only and
// kept in submission order.
type Bid struct {
	BidID     string    `json:"bid_id"`
	ProductID string    `json:"product_id"`
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name"`
	Amount    float64   `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
	Status    BidStatus `json:"status"`
}

// ShippingDetails is the first checkout step's form data
type ShippingDetails struct {
	FullName     string `json:"full_name"`
	Email        string `json:"email"`
	AddressLine1 string `json:"address_line1"`
	AddressLine2 string `json:"address_line2,omitempty"`
	City         string `json:"city"`
	State        string `json:"state"`
	ZipCode      string `json:"zip_code"`
	Country      string `json:"country"`
	Phone        string `json:"phone"`
}

// PaymentDetails is the second checkout step's form data. Presence-only
// validation; no real card processing happens anywhere in the system.
type PaymentDetails struct {
	CardNumber     string `json:"card_number"`
	CardHolder     string `json:"card_holder"`
	ExpiryDate     string `json:"expiry_date"`
	CVV            string `json:"cvv"`
	BillingAddress string `json:"billing_address,omitempty"`
}

// OrderSummary is produced when a checkout completes
type OrderSummary struct {
	OrderNumber string    `json:"order_number"`
	ProductID   string    `json:"product_id"`
	ProductName string    `json:"product_name"`
	Subtotal    float64   `json:"subtotal"`
	ShippingFee float64   `json:"shipping_fee"`
	Tax         float64   `json:"tax"`
	Total       float64   `json:"total"`
	PlacedAt    time.Time `json:"placed_at"`
}

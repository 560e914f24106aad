package helpers

import (
	auction "agribid/internal/auctionService"
	checkout "agribid/internal/checkoutService"
	"agribid/internal/models"
	"time"
)

// Request/Response DTOs

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	UserType string `json:"user_type" binding:"required,oneof=farmer buyer"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	UserType string `json:"user_type" binding:"required,oneof=farmer buyer"`
}

type UserResponse struct {
	UserID   string `json:"user_id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	UserType string `json:"user_type"`
	Address  string `json:"address,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

type AddProductRequest struct {
	Name           string   `json:"name" binding:"required"`
	Description    string   `json:"description" binding:"required"`
	ImageURL       string   `json:"image_url" binding:"required"`
	StartingPrice  float64  `json:"starting_price" binding:"gte=0"`
	Location       string   `json:"location" binding:"required"`
	Quantity       int      `json:"quantity" binding:"required,gt=0"`
	Category       string   `json:"category" binding:"required"`
	HarvestDate    string   `json:"harvest_date"`
	ExpiryDate     string   `json:"expiry_date"`
	Certifications []string `json:"certifications"`
	AuctionEndTime string   `json:"auction_end_time"` // RFC3339, empty means bidding never closes
}

type ProductResponse struct {
	ProductID      string   `json:"product_id"`
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	ImageURL       string   `json:"image_url"`
	StartingPrice  float64  `json:"starting_price"`
	CurrentPrice   float64  `json:"current_price"`
	Seller         string   `json:"seller"`
	Location       string   `json:"location"`
	Quantity       int      `json:"quantity"`
	Category       string   `json:"category"`
	HarvestDate    string   `json:"harvest_date,omitempty"`
	ExpiryDate     string   `json:"expiry_date,omitempty"`
	Certifications []string `json:"certifications,omitempty"`
	AuctionEndTime string   `json:"auction_end_time,omitempty"`
	AuctionStatus  string   `json:"auction_status"`
	MinimumBid     float64  `json:"minimum_bid"`
	BidCount       int      `json:"bid_count"`
}

type PlaceBidRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

type BidResponse struct {
	BidID          string  `json:"bid_id"`
	ProductID      string  `json:"product_id"`
	UserID         string  `json:"user_id"`
	UserName       string  `json:"user_name"`
	Amount         float64 `json:"amount"`
	Status         string  `json:"status"`
	CreatedAt      string  `json:"created_at"`
	NextMinimumBid float64 `json:"next_minimum_bid,omitempty"`
}

type HighestBidResponse struct {
	ProductID  string  `json:"product_id"`
	HighestBid float64 `json:"highest_bid"`
	MinimumBid float64 `json:"minimum_bid"`
}

// Checkout form DTOs carry no binding tags on purpose: required-field
// presence is the checkout service's own rule and surfaces as a
// missing-field error, not a payload error.

type ShippingRequest struct {
	FullName     string `json:"full_name"`
	Email        string `json:"email"`
	AddressLine1 string `json:"address_line1"`
	AddressLine2 string `json:"address_line2"`
	City         string `json:"city"`
	State        string `json:"state"`
	ZipCode      string `json:"zip_code"`
	Country      string `json:"country"`
	Phone        string `json:"phone"`
}

type PaymentRequest struct {
	CardNumber     string `json:"card_number"`
	CardHolder     string `json:"card_holder"`
	ExpiryDate     string `json:"expiry_date"`
	CVV            string `json:"cvv"`
	BillingAddress string `json:"billing_address"`
}

type CheckoutResponse struct {
	CheckoutID string               `json:"checkout_id"`
	ProductID  string               `json:"product_id"`
	UserID     string               `json:"user_id"`
	Step       string               `json:"step"`
	Order      *models.OrderSummary `json:"order,omitempty"`
}

// ToUserResponse maps a user to its response DTO
func ToUserResponse(user *models.User) UserResponse {
	return UserResponse{
		UserID:   user.UserID,
		Name:     user.Name,
		Email:    user.Email,
		UserType: string(user.UserType),
		Address:  user.Address,
		Phone:    user.Phone,
	}
}

// ToProductResponse maps a product to its response DTO. Auction status is
// display-only and evaluated against the wall clock.
func ToProductResponse(product models.Product) ProductResponse {
	resp := ProductResponse{
		ProductID:      product.ProductID,
		Name:           product.Name,
		Description:    product.Description,
		ImageURL:       product.ImageURL,
		StartingPrice:  product.StartingPrice,
		CurrentPrice:   product.CurrentPrice,
		Seller:         product.Seller,
		Location:       product.Location,
		Quantity:       product.Quantity,
		Category:       product.Category,
		HarvestDate:    product.HarvestDate,
		ExpiryDate:     product.ExpiryDate,
		Certifications: product.Certifications,
		AuctionStatus:  "open",
		MinimumBid:     auction.MinimumBid(product),
		BidCount:       len(product.Bids),
	}
	if product.AuctionEndTime != nil {
		resp.AuctionEndTime = product.AuctionEndTime.UTC().Format(time.RFC3339)
		if time.Now().After(*product.AuctionEndTime) {
			resp.AuctionStatus = "closed"
		}
	}
	return resp
}

// ToBidResponse maps a bid to its response DTO
func ToBidResponse(bid models.Bid) BidResponse {
	return BidResponse{
		BidID:     bid.BidID,
		ProductID: bid.ProductID,
		UserID:    bid.UserID,
		UserName:  bid.UserName,
		Amount:    bid.Amount,
		Status:    string(bid.Status),
		CreatedAt: bid.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// ToCheckoutResponse maps a checkout to its response DTO
func ToCheckoutResponse(co checkout.Checkout) CheckoutResponse {
	return CheckoutResponse{
		CheckoutID: co.CheckoutID,
		ProductID:  co.ProductID,
		UserID:     co.UserID,
		Step:       string(co.Step),
		Order:      co.Order,
	}
}

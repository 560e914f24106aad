package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	auction "agribid/internal/auctionService"
	"agribid/internal/auctionerrors"
	model "agribid/internal/models"
	"agribid/services/market/helpers"
	"agribid/utils"

	"github.com/gin-gonic/gin"
)

type AuctionServiceInterface interface {
	PlaceBid(productID string, bidder *model.User, amount float64) (model.Bid, error)
	GetHighestBid(productID string) (float64, error)
	GetWinningBid(productID string) (model.Bid, error)
	IsHighestBidder(productID, userID string) (bool, error)
	GetUserBids(userID string) ([]model.Bid, error)
	AddProduct(input auction.ProductInput, seller *model.User) (model.Product, error)
	GetProduct(productID string) (model.Product, error)
	ListProducts() ([]model.Product, error)
}

type SessionReader interface {
	Current() *model.User
}

type AuctionHandler struct {
	service AuctionServiceInterface
	session SessionReader
}

func NewAuctionHandler(service AuctionServiceInterface, session SessionReader) *AuctionHandler {
	return &AuctionHandler{service: service, session: session}
}

// ListProductsHandler handles GET /products
func (h *AuctionHandler) ListProductsHandler(c *gin.Context) {
	products, err := h.service.ListProducts()
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("ListProductsHandler: error listing products", map[string]any{"error": err.Error()})
		return
	}

	resp := make([]helpers.ProductResponse, 0, len(products))
	for _, p := range products {
		resp = append(resp, helpers.ToProductResponse(p))
	}

	utils.JSONResponse(c, http.StatusOK, resp, "products retrieved successfully")
}

// AddProductHandler handles POST /products
func (h *AuctionHandler) AddProductHandler(c *gin.Context) {
	var req helpers.AddProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "AddProductHandler", err)
		return
	}

	input := auction.ProductInput{
		Name:           req.Name,
		Description:    req.Description,
		ImageURL:       req.ImageURL,
		StartingPrice:  req.StartingPrice,
		Location:       req.Location,
		Quantity:       req.Quantity,
		Category:       req.Category,
		HarvestDate:    req.HarvestDate,
		ExpiryDate:     req.ExpiryDate,
		Certifications: req.Certifications,
	}
	if req.AuctionEndTime != "" {
		end, err := time.Parse(time.RFC3339, req.AuctionEndTime)
		if err != nil {
			helpers.HandleBindError(c, "AddProductHandler", fmt.Errorf("auction_end_time: %w", err))
			return
		}
		input.AuctionEndTime = &end
	}

	product, err := h.service.AddProduct(input, h.session.Current())
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Error("AddProductHandler: failed to add product", map[string]any{
			"handler": "AddProductHandler",
			"name":    req.Name,
			"error":   err.Error(),
		})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, helpers.ToProductResponse(product), "product listed successfully")
	helpers.LogSuccess("AddProductHandler", "product listed successfully", map[string]any{
		"product_id": product.ProductID,
		"name":       product.Name,
		"seller":     product.Seller,
	})
}

// GetProductHandler handles GET /products/:product_id
func (h *AuctionHandler) GetProductHandler(c *gin.Context) {
	productID := c.Param("product_id")
	product, err := h.service.GetProduct(productID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("GetProductHandler: error retrieving product", map[string]any{"product_id": productID, "error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.ToProductResponse(product), "product retrieved successfully")
}

// PlaceBidHandler handles POST /products/:product_id/bids
func (h *AuctionHandler) PlaceBidHandler(c *gin.Context) {
	var req helpers.PlaceBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "PlaceBidHandler", err)
		return
	}

	productID := c.Param("product_id")
	bidder := h.session.Current()

	bid, err := h.service.PlaceBid(productID, bidder, req.Amount)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Error("PlaceBidHandler: failed to place bid", map[string]any{
			"handler":    "PlaceBidHandler",
			"product_id": productID,
			"amount":     req.Amount,
			"error":      err.Error(),
		})
		return
	}

	resp := helpers.ToBidResponse(bid)
	// Convenience floor for the bidder's next attempt, mirroring the bid
	// form resetting to amount+1.
	resp.NextMinimumBid = bid.Amount + 1

	utils.JSONResponse(c, http.StatusCreated, resp, "bid placed successfully")
	helpers.LogSuccess("PlaceBidHandler", "bid placed successfully", map[string]any{
		"bid_id":     bid.BidID,
		"product_id": bid.ProductID,
		"user_id":    bid.UserID,
		"amount":     bid.Amount,
	})
}

// GetBidsByProductHandler handles GET /products/:product_id/bids
func (h *AuctionHandler) GetBidsByProductHandler(c *gin.Context) {
	productID := c.Param("product_id")
	product, err := h.service.GetProduct(productID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("GetBidsByProductHandler: error retrieving bids", map[string]any{"product_id": productID, "error": err.Error()})
		return
	}

	resp := make([]helpers.BidResponse, 0, len(product.Bids))
	for _, b := range product.Bids {
		resp = append(resp, helpers.ToBidResponse(b))
	}

	utils.JSONResponse(c, http.StatusOK, resp, "bids retrieved successfully")
	helpers.LogSuccess("GetBidsByProductHandler", "bids retrieved successfully", map[string]any{
		"product_id": productID,
		"count":      len(resp),
	})
}

// GetHighestBidHandler handles GET /products/:product_id/highest
func (h *AuctionHandler) GetHighestBidHandler(c *gin.Context) {
	productID := c.Param("product_id")
	highest, err := h.service.GetHighestBid(productID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("GetHighestBidHandler: highest bid error", map[string]any{"product_id": productID, "error": err.Error()})
		return
	}

	product, err := h.service.GetProduct(productID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		return
	}

	resp := helpers.HighestBidResponse{
		ProductID:  productID,
		HighestBid: highest,
		MinimumBid: auction.MinimumBid(product),
	}
	utils.JSONResponse(c, http.StatusOK, resp, "highest bid retrieved successfully")
}

// GetWinningBidHandler handles GET /products/:product_id/winning
func (h *AuctionHandler) GetWinningBidHandler(c *gin.Context) {
	productID := c.Param("product_id")
	bid, err := h.service.GetWinningBid(productID)
	if err != nil {
		// No winner while bidding is open or without bids -> 404
		if errors.Is(err, auctionerrors.ErrNoBids) {
			utils.JSONError(c, http.StatusNotFound, err, "no winning bid found")
			utils.Info("GetWinningBidHandler: no winning bid found", map[string]any{"product_id": productID})
			return
		}
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("GetWinningBidHandler: winning bid error", map[string]any{"product_id": productID, "error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.ToBidResponse(bid), "winning bid retrieved successfully")
	helpers.LogSuccess("GetWinningBidHandler", "winning bid retrieved successfully", map[string]any{
		"bid_id":     bid.BidID,
		"product_id": bid.ProductID,
		"user_id":    bid.UserID,
		"amount":     bid.Amount,
	})
}

// GetUserBidsHandler handles GET /users/:user_id/bids
func (h *AuctionHandler) GetUserBidsHandler(c *gin.Context) {
	userID := c.Param("user_id")
	bids, err := h.service.GetUserBids(userID)
	if err != nil && !errors.Is(err, auctionerrors.ErrUserNoBids) {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("GetUserBidsHandler: error retrieving bids", map[string]any{"user_id": userID, "error": err.Error()})
		return
	}

	resp := make([]helpers.BidResponse, 0, len(bids))
	for _, b := range bids {
		resp = append(resp, helpers.ToBidResponse(b))
	}

	utils.JSONResponse(c, http.StatusOK, resp, "bids retrieved successfully")
	helpers.LogSuccess("GetUserBidsHandler", "bids retrieved successfully", map[string]any{
		"user_id": userID,
		"count":   len(resp),
	})
}

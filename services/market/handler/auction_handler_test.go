package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"agribid/internal/auctionerrors"
	model "agribid/internal/models"
	"agribid/services/market/helpers"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// stubSession satisfies SessionReader with a fixed user
type stubSession struct {
	user *model.User
}

func (s stubSession) Current() *model.User { return s.user }

func performRequest(router *gin.Engine, method, url string, body any) *httptest.ResponseRecorder {
	var reqBody []byte
	switch v := body.(type) {
	case nil:
	case string:
		reqBody = []byte(v)
	default:
		reqBody, _ = json.Marshal(v)
	}

	req := httptest.NewRequest(method, url, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func parseEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

// Test PlaceBidHandler
func TestPlaceBidHandler(t *testing.T) {
	buyer := &model.User{UserID: "user1", Name: "Bob", Email: "bob@example.com", UserType: model.UserTypeBuyer}
	now := time.Now().UTC()

	tests := []struct {
		name           string
		sessionUser    *model.User
		requestBody    any
		mockSetup      func(service *MockAuctionServiceInterface)
		expectedStatus int
		expectedMsg    string
		validateData   func(t *testing.T, data map[string]any)
	}{
		{
			name:        "success_valid_bid",
			sessionUser: buyer,
			requestBody: helpers.PlaceBidRequest{Amount: 150},
			mockSetup: func(service *MockAuctionServiceInterface) {
				service.EXPECT().
					PlaceBid("product1", buyer, 150.0).
					Return(model.Bid{
						BidID:     uuid.NewString(),
						ProductID: "product1",
						UserID:    "user1",
						UserName:  "Bob",
						Amount:    150.0,
						CreatedAt: now,
						Status:    model.BidStatusActive,
					}, nil)
			},
			expectedStatus: http.StatusCreated,
			expectedMsg:    "bid placed successfully",
			validateData: func(t *testing.T, data map[string]any) {
				require.NotEmpty(t, data["bid_id"])
				require.Equal(t, "product1", data["product_id"])
				require.Equal(t, "user1", data["user_id"])
				require.Equal(t, 150.0, data["amount"])
				require.Equal(t, 151.0, data["next_minimum_bid"])
				_, err := time.Parse(time.RFC3339, data["created_at"].(string))
				require.NoError(t, err)
			},
		},
		{
			name:           "invalid_json",
			sessionUser:    buyer,
			requestBody:    `{amount: 100}`,
			mockSetup:      func(service *MockAuctionServiceInterface) {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
		{
			name:           "zero_amount",
			sessionUser:    buyer,
			requestBody:    helpers.PlaceBidRequest{Amount: 0},
			mockSetup:      func(service *MockAuctionServiceInterface) {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
		{
			name:        "not_authenticated",
			sessionUser: nil,
			requestBody: helpers.PlaceBidRequest{Amount: 150},
			mockSetup: func(service *MockAuctionServiceInterface) {
				service.EXPECT().
					PlaceBid("product1", gomock.Nil(), 150.0).
					Return(model.Bid{}, fmt.Errorf("service: %w - no session user", auctionerrors.ErrNotAuthenticated))
			},
			expectedStatus: http.StatusUnauthorized,
			expectedMsg:    "authentication required",
		},
		{
			name:        "bid_too_low",
			sessionUser: buyer,
			requestBody: helpers.PlaceBidRequest{Amount: 150},
			mockSetup: func(service *MockAuctionServiceInterface) {
				service.EXPECT().
					PlaceBid("product1", buyer, 150.0).
					Return(model.Bid{}, fmt.Errorf("service: %w - minimum acceptable bid is 151.00", auctionerrors.ErrBidTooLow))
			},
			expectedStatus: http.StatusConflict,
			expectedMsg:    "bid amount too low",
		},
		{
			name:        "auction_closed",
			sessionUser: buyer,
			requestBody: helpers.PlaceBidRequest{Amount: 150},
			mockSetup: func(service *MockAuctionServiceInterface) {
				service.EXPECT().
					PlaceBid("product1", buyer, 150.0).
					Return(model.Bid{}, fmt.Errorf("service: %w", auctionerrors.ErrAuctionClosed))
			},
			expectedStatus: http.StatusConflict,
			expectedMsg:    "auction has closed",
		},
		{
			name:        "wrong_role",
			sessionUser: buyer,
			requestBody: helpers.PlaceBidRequest{Amount: 150},
			mockSetup: func(service *MockAuctionServiceInterface) {
				service.EXPECT().
					PlaceBid("product1", buyer, 150.0).
					Return(model.Bid{}, fmt.Errorf("service: %w", auctionerrors.ErrWrongRole))
			},
			expectedStatus: http.StatusForbidden,
			expectedMsg:    "operation not allowed for this role",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockService := NewMockAuctionServiceInterface(ctrl)
			tc.mockSetup(mockService)

			gin.SetMode(gin.TestMode)
			router := gin.New()
			h := NewAuctionHandler(mockService, stubSession{user: tc.sessionUser})
			router.POST("/products/:product_id/bids", h.PlaceBidHandler)

			w := performRequest(router, http.MethodPost, "/products/product1/bids", tc.requestBody)
			require.Equal(t, tc.expectedStatus, w.Code)

			resp := parseEnvelope(t, w)
			require.Equal(t, tc.expectedMsg, resp["message"])
			if tc.validateData != nil {
				tc.validateData(t, resp["data"].(map[string]any))
			}
		})
	}
}

// Test GetWinningBidHandler
func TestGetWinningBidHandler(t *testing.T) {
	tests := []struct {
		name           string
		mockSetup      func(service *MockAuctionServiceInterface)
		expectedStatus int
	}{
		{
			name: "winning_bid_found",
			mockSetup: func(service *MockAuctionServiceInterface) {
				service.EXPECT().GetWinningBid("product1").Return(model.Bid{
					BidID:     uuid.NewString(),
					ProductID: "product1",
					UserID:    "user1",
					UserName:  "Bob",
					Amount:    150,
					CreatedAt: time.Now().UTC(),
					Status:    model.BidStatusWon,
				}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "no_winner_yet",
			mockSetup: func(service *MockAuctionServiceInterface) {
				service.EXPECT().GetWinningBid("product1").
					Return(model.Bid{}, fmt.Errorf("service: %w", auctionerrors.ErrNoBids))
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name: "product_not_found",
			mockSetup: func(service *MockAuctionServiceInterface) {
				service.EXPECT().GetWinningBid("product1").
					Return(model.Bid{}, fmt.Errorf("service: %w", auctionerrors.ErrProductNotFound))
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockService := NewMockAuctionServiceInterface(ctrl)
			tc.mockSetup(mockService)

			gin.SetMode(gin.TestMode)
			router := gin.New()
			h := NewAuctionHandler(mockService, stubSession{})
			router.GET("/products/:product_id/winning", h.GetWinningBidHandler)

			w := performRequest(router, http.MethodGet, "/products/product1/winning", nil)
			require.Equal(t, tc.expectedStatus, w.Code)
		})
	}
}

// Test AddProductHandler end-time parsing
func TestAddProductHandler_EndTimeParsing(t *testing.T) {
	farmer := &model.User{UserID: "f1", Name: "Alice", Email: "alice@example.com", UserType: model.UserTypeFarmer}

	t.Run("malformed_end_time", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockService := NewMockAuctionServiceInterface(ctrl)

		gin.SetMode(gin.TestMode)
		router := gin.New()
		h := NewAuctionHandler(mockService, stubSession{user: farmer})
		router.POST("/products", h.AddProductHandler)

		body := helpers.AddProductRequest{
			Name:           "Apples",
			Description:    "desc",
			ImageURL:       "https://example.com/a.jpg",
			StartingPrice:  25,
			Location:       "CA",
			Quantity:       10,
			Category:       "Fruits",
			AuctionEndTime: "tomorrow",
		}
		w := performRequest(router, http.MethodPost, "/products", body)
		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("valid_end_time_passed_through", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		end := time.Now().Add(24 * time.Hour).UTC().Truncate(time.Second)

		mockService := NewMockAuctionServiceInterface(ctrl)
		mockService.EXPECT().
			AddProduct(gomock.Any(), farmer).
			Return(model.Product{
				ProductID:      uuid.NewString(),
				Name:           "Apples",
				StartingPrice:  25,
				CurrentPrice:   25,
				Seller:         farmer.Name,
				AuctionEndTime: &end,
				Bids:           []model.Bid{},
			}, nil)

		gin.SetMode(gin.TestMode)
		router := gin.New()
		h := NewAuctionHandler(mockService, stubSession{user: farmer})
		router.POST("/products", h.AddProductHandler)

		body := helpers.AddProductRequest{
			Name:           "Apples",
			Description:    "desc",
			ImageURL:       "https://example.com/a.jpg",
			StartingPrice:  25,
			Location:       "CA",
			Quantity:       10,
			Category:       "Fruits",
			AuctionEndTime: end.Format(time.RFC3339),
		}
		w := performRequest(router, http.MethodPost, "/products", body)
		require.Equal(t, http.StatusCreated, w.Code)

		resp := parseEnvelope(t, w)
		data := resp["data"].(map[string]any)
		require.Equal(t, "open", data["auction_status"])
		require.Equal(t, end.Format(time.RFC3339), data["auction_end_time"])
	})
}

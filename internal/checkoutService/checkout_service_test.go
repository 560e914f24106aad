package checkout

import (
	auction "agribid/internal/auctionService"
	"agribid/internal/auctionerrors"
	model "agribid/internal/models"
	"agribid/internal/repository"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

// setupWonAuction seeds a closed auction won by winner at the given price
// and returns a checkout service wired to it.
func setupWonAuction(t *testing.T, winner *model.User, price float64) (*CheckoutService, *repository.MemoryRepo) {
	t.Helper()

	repo := repository.NewMemoryRepo()
	end := fixedNow.Add(-time.Minute)
	product := model.Product{
		ProductID:      "p1",
		Name:           "Premium Organic Apples",
		Description:    "test",
		ImageURL:       "https://example.com/apples.jpg",
		StartingPrice:  25,
		CurrentPrice:   price,
		Seller:         "Green Valley Farms",
		Location:       "Napa Valley, CA",
		Quantity:       100,
		Category:       "Fruits",
		AuctionEndTime: &end,
		Bids: []model.Bid{
			{BidID: "b1", ProductID: "p1", UserID: winner.UserID, UserName: winner.Name, Amount: price, CreatedAt: fixedNow.Add(-time.Hour), Status: model.BidStatusActive},
		},
	}
	require.NoError(t, repo.AddProduct(product))

	auctions := auction.NewAuctionService(repo, auction.WithClock(fixedClock))
	return NewCheckoutService(repo, auctions, WithClock(fixedClock)), repo
}

func validShipping() model.ShippingDetails {
	return model.ShippingDetails{
		FullName:     "Bob Buyer",
		Email:        "bob@example.com",
		AddressLine1: "123 Main St",
		City:         "San Francisco",
		State:        "CA",
		ZipCode:      "94105",
		Phone:        "555-123-4567",
	}
}

func validPayment() model.PaymentDetails {
	return model.PaymentDetails{
		CardNumber: "4111111111111111",
		CardHolder: "Bob Buyer",
		ExpiryDate: "12/27",
		CVV:        "123",
	}
}

func TestCheckoutService_Begin(t *testing.T) {
	t.Parallel()

	winner := &model.User{UserID: "u1", Name: "Bob", Email: "bob@example.com", UserType: model.UserTypeBuyer}

	t.Run("winner_opens_checkout", func(t *testing.T) {
		t.Parallel()

		service, _ := setupWonAuction(t, winner, 150)
		co, err := service.Begin("p1", winner)
		require.NoError(t, err)
		require.NotEmpty(t, co.CheckoutID)
		require.Equal(t, StepShipping, co.Step)
		require.Equal(t, "p1", co.ProductID)
		require.Equal(t, winner.UserID, co.UserID)
	})

	t.Run("non_winner_rejected", func(t *testing.T) {
		t.Parallel()

		service, _ := setupWonAuction(t, winner, 150)
		loser := &model.User{UserID: "u2", Name: "Carol", Email: "carol@example.com", UserType: model.UserTypeBuyer}
		_, err := service.Begin("p1", loser)
		require.ErrorIs(t, err, auctionerrors.ErrNotWinningBidder)
	})

	t.Run("nil_user_rejected", func(t *testing.T) {
		t.Parallel()

		service, _ := setupWonAuction(t, winner, 150)
		_, err := service.Begin("p1", nil)
		require.ErrorIs(t, err, auctionerrors.ErrNotAuthenticated)
	})

	t.Run("unknown_product", func(t *testing.T) {
		t.Parallel()

		service, _ := setupWonAuction(t, winner, 150)
		_, err := service.Begin("missing", winner)
		require.ErrorIs(t, err, auctionerrors.ErrProductNotFound)
	})
}

// Full forward walk through the state machine with totals check
func TestCheckoutService_FullSequence(t *testing.T) {
	t.Parallel()

	winner := &model.User{UserID: "u1", Name: "Bob", Email: "bob@example.com", UserType: model.UserTypeBuyer}
	service, _ := setupWonAuction(t, winner, 150)

	co, err := service.Begin("p1", winner)
	require.NoError(t, err)

	co, err = service.SubmitShipping(co.CheckoutID, validShipping())
	require.NoError(t, err)
	require.Equal(t, StepPayment, co.Step)
	require.Equal(t, "United States", co.Shipping.Country, "country defaults when omitted")

	co, err = service.SubmitPayment(co.CheckoutID, validPayment())
	require.NoError(t, err)
	require.Equal(t, StepReview, co.Step)

	co, err = service.ConfirmOrder(co.CheckoutID)
	require.NoError(t, err)
	require.Equal(t, StepComplete, co.Step)
	require.NotNil(t, co.Order)

	order := co.Order
	require.True(t, strings.HasPrefix(order.OrderNumber, "AGB-"))
	require.Equal(t, 150.0, order.Subtotal)
	require.Equal(t, ShippingFee, order.ShippingFee)
	require.InDelta(t, 150*0.085, order.Tax, 1e-9)
	require.InDelta(t, 150+10+150*0.085, order.Total, 1e-9)
	require.Equal(t, fixedNow, order.PlacedAt)

	// Confirming again is a wrong-step error.
	_, err = service.ConfirmOrder(co.CheckoutID)
	require.ErrorIs(t, err, auctionerrors.ErrWrongStep)
}

func TestCheckoutService_StepValidation(t *testing.T) {
	t.Parallel()

	winner := &model.User{UserID: "u1", Name: "Bob", Email: "bob@example.com", UserType: model.UserTypeBuyer}
	service, _ := setupWonAuction(t, winner, 150)

	co, err := service.Begin("p1", winner)
	require.NoError(t, err)
	id := co.CheckoutID

	t.Run("no_skipping_to_payment", func(t *testing.T) {
		_, err := service.SubmitPayment(id, validPayment())
		require.ErrorIs(t, err, auctionerrors.ErrWrongStep)
	})

	t.Run("no_confirm_from_shipping", func(t *testing.T) {
		_, err := service.ConfirmOrder(id)
		require.ErrorIs(t, err, auctionerrors.ErrWrongStep)
	})

	t.Run("no_back_from_shipping", func(t *testing.T) {
		_, err := service.Back(id)
		require.ErrorIs(t, err, auctionerrors.ErrWrongStep)
	})

	t.Run("missing_shipping_field", func(t *testing.T) {
		details := validShipping()
		details.ZipCode = ""
		_, err := service.SubmitShipping(id, details)
		require.ErrorIs(t, err, auctionerrors.ErrMissingField)
	})

	t.Run("missing_payment_field", func(t *testing.T) {
		co, err := service.SubmitShipping(id, validShipping())
		require.NoError(t, err)
		require.Equal(t, StepPayment, co.Step)

		details := validPayment()
		details.CVV = ""
		_, err = service.SubmitPayment(id, details)
		require.ErrorIs(t, err, auctionerrors.ErrMissingField)
	})

	t.Run("unknown_checkout", func(t *testing.T) {
		_, err := service.Get("missing")
		require.ErrorIs(t, err, auctionerrors.ErrCheckoutNotFound)
	})
}

// Backward transitions move exactly one step and re-submitting re-advances
func TestCheckoutService_Back(t *testing.T) {
	t.Parallel()

	winner := &model.User{UserID: "u1", Name: "Bob", Email: "bob@example.com", UserType: model.UserTypeBuyer}
	service, _ := setupWonAuction(t, winner, 150)

	co, err := service.Begin("p1", winner)
	require.NoError(t, err)
	id := co.CheckoutID

	_, err = service.SubmitShipping(id, validShipping())
	require.NoError(t, err)
	co, err = service.SubmitPayment(id, validPayment())
	require.NoError(t, err)
	require.Equal(t, StepReview, co.Step)

	co, err = service.Back(id)
	require.NoError(t, err)
	require.Equal(t, StepPayment, co.Step)

	co, err = service.Back(id)
	require.NoError(t, err)
	require.Equal(t, StepShipping, co.Step)

	// Forward again all the way to completion.
	_, err = service.SubmitShipping(id, validShipping())
	require.NoError(t, err)
	_, err = service.SubmitPayment(id, validPayment())
	require.NoError(t, err)
	co, err = service.ConfirmOrder(id)
	require.NoError(t, err)
	require.Equal(t, StepComplete, co.Step)
}

func TestTotals(t *testing.T) {
	t.Parallel()

	subtotal, shipping, tax, total := Totals(100)
	require.Equal(t, 100.0, subtotal)
	require.Equal(t, 10.0, shipping)
	require.InDelta(t, 8.5, tax, 1e-9)
	require.InDelta(t, 118.5, total, 1e-9)
	require.True(t, math.Abs(total-(subtotal+shipping+tax)) < 1e-9)
}

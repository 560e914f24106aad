package auctionerrors

import "errors"

// Repository-level errors
var (
	ErrProductNotFound = errors.New("product not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrNoBids          = errors.New("no bids found for product")
	ErrUserNoBids      = errors.New("user has not placed any bids")
)

// business logic errors
var (
	ErrInvalidBid       = errors.New("invalid bid")
	ErrBidTooLow        = errors.New("bid amount too low")
	ErrAuctionClosed    = errors.New("auction has closed")
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrWrongRole        = errors.New("operation not allowed for this role")
	ErrPastEndTime      = errors.New("auction end time is not in the future")
	ErrMissingField     = errors.New("missing required field")
)

// session errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailInUse         = errors.New("email already in use")
)

// checkout errors
var (
	ErrCheckoutNotFound = errors.New("checkout not found")
	ErrWrongStep        = errors.New("action not valid in current checkout step")
	ErrNotWinningBidder = errors.New("user is not the winning bidder")
)

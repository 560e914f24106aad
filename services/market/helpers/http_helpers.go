package helpers

import (
	"errors"
	"fmt"
	"net/http"

	"agribid/internal/auctionerrors"
	"agribid/utils"

	"github.com/gin-gonic/gin"
)

// HandleBindError sends a standardized JSON error for binding failures
func HandleBindError(c *gin.Context, handlerName string, err error) {
	wrappedErr := fmt.Errorf("invalid request payload: %w", err)
	utils.JSONError(c, http.StatusBadRequest, wrappedErr, "invalid request payload")
	utils.Warn(handlerName+": binding error", map[string]any{"error": err.Error()})
}

// MapErrorToHTTP maps domain/service errors to HTTP status code and message
func MapErrorToHTTP(err error) (int, string) {
	switch {
	case errors.Is(err, auctionerrors.ErrNotAuthenticated):
		return http.StatusUnauthorized, "authentication required"
	case errors.Is(err, auctionerrors.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, auctionerrors.ErrWrongRole):
		return http.StatusForbidden, "operation not allowed for this role"
	case errors.Is(err, auctionerrors.ErrNotWinningBidder):
		return http.StatusForbidden, "only the winning bidder may check out"
	case errors.Is(err, auctionerrors.ErrProductNotFound):
		return http.StatusNotFound, "product not found"
	case errors.Is(err, auctionerrors.ErrUserNotFound):
		return http.StatusNotFound, "user not found"
	case errors.Is(err, auctionerrors.ErrCheckoutNotFound):
		return http.StatusNotFound, "checkout not found"
	case errors.Is(err, auctionerrors.ErrInvalidBid):
		return http.StatusBadRequest, "invalid bid details"
	case errors.Is(err, auctionerrors.ErrMissingField):
		return http.StatusBadRequest, "missing required field"
	case errors.Is(err, auctionerrors.ErrPastEndTime):
		return http.StatusBadRequest, "auction end time must be in the future"
	case errors.Is(err, auctionerrors.ErrBidTooLow):
		return http.StatusConflict, "bid amount too low"
	case errors.Is(err, auctionerrors.ErrAuctionClosed):
		return http.StatusConflict, "auction has closed"
	case errors.Is(err, auctionerrors.ErrEmailInUse):
		return http.StatusConflict, "email already in use"
	case errors.Is(err, auctionerrors.ErrWrongStep):
		return http.StatusConflict, "action not valid in current checkout step"
	case errors.Is(err, auctionerrors.ErrNoBids):
		return http.StatusOK, "no bids found for product"
	case errors.Is(err, auctionerrors.ErrUserNoBids):
		return http.StatusOK, "no bids found for user"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// LogSuccess is a small helper to standardize logging of successful operations
func LogSuccess(handlerName, message string, ctx map[string]any) {
	utils.Info(handlerName+": "+message, ctx)
}

package helpers

import (
	"errors"
	"fmt"
	"net/http"

	"studentbidz/internal/auctionerrors"
	"studentbidz/utils"

	"github.com/gin-gonic/gin"
)

// HandleBindError sends a standardized JSON error for binding failures
func HandleBindError(c *gin.Context, handlerName string, err error) {
	wrappedErr := fmt.Errorf("invalid request payload: %w", err)
	utils.JSONError(c, http.StatusBadRequest, wrappedErr, "invalid request payload")
	utils.Warn(handlerName+": binding error", map[string]any{"error": err.Error()})
}

// MapErrorToHTTP maps domain errors to an HTTP status code and a stable
// message the UI can special-case (cooldown and restriction in particular).
func MapErrorToHTTP(err error) (int, string) {
	switch {
	case errors.Is(err, auctionerrors.ErrAuctionNotFound):
		return http.StatusNotFound, "auction not found"
	case errors.Is(err, auctionerrors.ErrAuctionExists):
		return http.StatusConflict, "auction already exists"
	case errors.Is(err, auctionerrors.ErrAuctionNotActive):
		return http.StatusBadRequest, "auction is not active"
	case errors.Is(err, auctionerrors.ErrSellerCannotBid):
		return http.StatusBadRequest, "seller cannot bid"
	case errors.Is(err, auctionerrors.ErrBidderRestricted):
		return http.StatusForbidden, "bidder restricted by seller"
	case errors.Is(err, auctionerrors.ErrBidTooLow):
		return http.StatusBadRequest, "bid too low"
	case errors.Is(err, auctionerrors.ErrBidTooHigh):
		return http.StatusBadRequest, "bid too high"
	case errors.Is(err, auctionerrors.ErrTooFrequent):
		return http.StatusTooManyRequests, "bid cooldown in effect"
	case errors.Is(err, auctionerrors.ErrDailyProductCapExceeded):
		return http.StatusTooManyRequests, "daily bid limit for this auction reached"
	case errors.Is(err, auctionerrors.ErrDailyTotalCapExceeded):
		return http.StatusTooManyRequests, "daily bid limit reached"
	case errors.Is(err, auctionerrors.ErrNotOwner):
		return http.StatusForbidden, "not the seller"
	case errors.Is(err, auctionerrors.ErrInvalidEndTime):
		return http.StatusBadRequest, "invalid end time"
	case errors.Is(err, auctionerrors.ErrInvalidState):
		return http.StatusConflict, "auction must be ended or sold"
	case errors.Is(err, auctionerrors.ErrNoSuchBidder):
		return http.StatusNotFound, "bidder has not bid on this auction"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// LogSuccess is a small helper to standardize logging of successful operations
func LogSuccess(handlerName, message string, ctx map[string]any) {
	utils.Info(handlerName+": "+message, ctx)
}

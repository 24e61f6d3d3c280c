package auctionerrors

import (
	"errors"
	"fmt"
)

// Repository-level errors
var (
	ErrAuctionNotFound = errors.New("auction not found")
	ErrAuctionExists   = errors.New("auction already exists")
)

// Bid admission rejections. This is a closed set: callers match with
// errors.Is and the message text is stable for UI special-casing.
var (
	ErrAuctionNotActive        = errors.New("auction is not active")
	ErrSellerCannotBid         = errors.New("seller cannot bid on their own auction")
	ErrBidderRestricted        = errors.New("bidder is restricted from this auction by the seller")
	ErrBidTooLow               = errors.New("bid must be at least 1 higher than the current price")
	ErrBidTooHigh              = errors.New("bid cannot be more than 2x the current price")
	ErrTooFrequent             = errors.New("only one bid per minute is allowed on this auction")
	ErrDailyProductCapExceeded = errors.New("daily bid limit for this auction reached (20)")
	ErrDailyTotalCapExceeded   = errors.New("daily bid limit reached (50)")
)

// Lifecycle command rejections
var (
	ErrNotOwner       = errors.New("only the seller may perform this action")
	ErrInvalidEndTime = errors.New("new end time must be in the future")
	ErrInvalidState   = errors.New("auction must be ended or sold")
	ErrNoSuchBidder   = errors.New("bidder has not bid on this auction")
)

// InvariantError signals corrupted internal state. It is a bug, not a
// user-facing validation failure, and must surface as an internal error.
type InvariantError struct {
	AuctionID string
	Detail    string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("invariant violation on auction %s: %s", e.AuctionID, e.Detail)
}

// IsValidation reports whether err belongs to the expected, recoverable
// rejection set (as opposed to invariant violations or unknown faults).
func IsValidation(err error) bool {
	for _, target := range []error{
		ErrAuctionNotFound, ErrAuctionExists,
		ErrAuctionNotActive, ErrSellerCannotBid, ErrBidderRestricted,
		ErrBidTooLow, ErrBidTooHigh, ErrTooFrequent,
		ErrDailyProductCapExceeded, ErrDailyTotalCapExceeded,
		ErrNotOwner, ErrInvalidEndTime, ErrInvalidState, ErrNoSuchBidder,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

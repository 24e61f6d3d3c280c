package engine

import (
	"fmt"
	"time"

	"studentbidz/internal/auctionerrors"
	"studentbidz/internal/clock"
	"studentbidz/internal/events"
	"studentbidz/internal/models"
	"studentbidz/internal/ratelimit"
	"studentbidz/internal/store"
	"studentbidz/utils"
)

// Publisher is the slice of the fanout the engine needs. Publish must be a
// non-blocking handoff; it is called while the auction's lock is held so that
// event order matches admission order.
type Publisher interface {
	Publish(topic string, ev events.Event)
}

// Anti-sniping window: a bid accepted with less than ExtendWindow remaining
// pushes the end time out by ExtendBy.
const (
	ExtendWindow = time.Minute
	ExtendBy     = 2 * time.Minute
)

// Engine validates and applies one bid at a time per auction.
type Engine struct {
	store   *store.AuctionStore
	limiter *ratelimit.Limiter
	fanout  Publisher
	clock   clock.Clock
}

// New creates a bid admission engine.
func New(st *store.AuctionStore, limiter *ratelimit.Limiter, pub Publisher, clk clock.Clock) *Engine {
	return &Engine{store: st, limiter: limiter, fanout: pub, clock: clk}
}

// SubmitBid validates a bid against the auction's current state and, when it
// passes, applies it atomically. The validation order is fixed and
// short-circuiting so rejection reasons are deterministic:
//
//	1. auction active and not past its end time
//	2. bidder is not the seller
//	3. bidder is not restricted
//	4. amount at least current price + 1
//	5. amount at most 2x current price
//	6. per-auction cooldown
//	7. per-auction daily cap
//	8. total daily cap
//
// A rejection mutates nothing.
func (e *Engine) SubmitBid(auctionID, bidderID string, amount int64) (models.AuctionSnapshot, models.Bid, error) {
	now := e.clock.Now()

	var snap models.AuctionSnapshot
	var accepted models.Bid

	err := e.store.Update(auctionID, func(txn store.Txn) error {
		a := txn.Auction

		if a.Status != models.StatusActive || !now.Before(a.EndTime) {
			return fmt.Errorf("engine: %w", auctionerrors.ErrAuctionNotActive)
		}
		if bidderID == a.SellerID {
			return fmt.Errorf("engine: %w", auctionerrors.ErrSellerCannotBid)
		}
		if a.RestrictedBidders[bidderID] {
			return fmt.Errorf("engine: %w", auctionerrors.ErrBidderRestricted)
		}

		current := a.CurrentPrice()
		if amount < current+1 {
			return fmt.Errorf("engine: %w (current price %d)", auctionerrors.ErrBidTooLow, current)
		}
		if amount > 2*current {
			return fmt.Errorf("engine: %w (current price %d)", auctionerrors.ErrBidTooHigh, current)
		}

		if err := e.limiter.Check(bidderID, auctionID, now); err != nil {
			return fmt.Errorf("engine: %w", err)
		}

		// Admission: all checks passed, mutate under the same lock.
		prevHigh := a.HighBid
		a.SecondHighBid = prevHigh
		a.HighBid = &models.BidRef{Amount: amount, BidderID: bidderID, BidTime: now}

		accepted = models.Bid{
			BidID:     utils.GenerateID(),
			AuctionID: auctionID,
			BidderID:  bidderID,
			Amount:    amount,
			BidTime:   now,
		}
		*txn.Bids = append(*txn.Bids, accepted)

		e.limiter.Record(bidderID, auctionID, now)

		extended := false
		if remaining := a.EndTime.Sub(now); remaining < ExtendWindow {
			a.EndTime = a.EndTime.Add(ExtendBy)
			a.EndingSoonNotified = false
			extended = true
		}

		snap = a.Snapshot()

		// Events are handed off inside the critical section (the handoff
		// never blocks), so per-topic order matches admission order.
		if prevHigh != nil && prevHigh.BidderID != bidderID {
			e.fanout.Publish(events.UserTopic(prevHigh.BidderID), events.Event{
				Kind: events.KindOutbid,
				Time: now,
				Payload: events.OutbidPayload{
					AuctionID: a.ID,
					Title:     a.Title,
					ByBidder:  bidderID,
					Amount:    amount,
					Message:   events.OutbidMessage(bidderID, a.Title, amount),
				},
			})
		}
		e.fanout.Publish(events.AuctionTopic(a.ID), events.Event{
			Kind: events.KindBidAccepted,
			Time: now,
			Payload: events.BidAcceptedPayload{
				AuctionID: a.ID,
				BidderID:  bidderID,
				Amount:    amount,
				BidTime:   now,
				EndTime:   a.EndTime,
			},
		})
		if extended {
			e.fanout.Publish(events.AuctionTopic(a.ID), events.Event{
				Kind: events.KindTimeUpdated,
				Time: now,
				Payload: events.TimeUpdatedPayload{
					AuctionID:  a.ID,
					NewEndTime: a.EndTime,
					Reason:     "auto-extended",
					UpdatedBy:  a.SellerID,
				},
			})
		}
		return nil
	})
	if err != nil {
		return models.AuctionSnapshot{}, models.Bid{}, err
	}

	utils.Info("bid accepted", map[string]any{
		"auction_id": auctionID,
		"bidder_id":  bidderID,
		"amount":     amount,
	})
	return snap, accepted, nil
}

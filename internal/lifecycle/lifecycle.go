package lifecycle

import (
	"context"
	"fmt"
	"time"

	"studentbidz/internal/auctionerrors"
	"studentbidz/internal/clock"
	"studentbidz/internal/engine"
	"studentbidz/internal/events"
	"studentbidz/internal/models"
	"studentbidz/internal/store"
	"studentbidz/utils"
)

// Manager drives auction state transitions: seller commands (declare winner,
// update end time, relist, restrict) and the periodic expiry sweep.
type Manager struct {
	store      *store.AuctionStore
	fanout     engine.Publisher
	clock      clock.Clock
	endingSoon time.Duration
}

// NewManager creates a lifecycle manager. endingSoon is how far ahead of the
// end time the AUCTION_ENDING warning fires.
func NewManager(st *store.AuctionStore, pub engine.Publisher, clk clock.Clock, endingSoon time.Duration) *Manager {
	return &Manager{store: st, fanout: pub, clock: clk, endingSoon: endingSoon}
}

// DeclareWinner lets the seller pick a winner while the auction is still
// running. Declaring after the end time has passed is rejected even if the
// expiry sweep has not caught up yet.
func (m *Manager) DeclareWinner(auctionID, sellerID, bidderID string) (models.AuctionSnapshot, error) {
	now := m.clock.Now()
	var snap models.AuctionSnapshot

	err := m.store.Update(auctionID, func(txn store.Txn) error {
		a := txn.Auction

		if sellerID != a.SellerID {
			return fmt.Errorf("lifecycle: declare winner: %w", auctionerrors.ErrNotOwner)
		}
		if a.Status != models.StatusActive || !now.Before(a.EndTime) {
			return fmt.Errorf("lifecycle: declare winner: %w", auctionerrors.ErrAuctionNotActive)
		}
		hasBid := false
		for _, b := range *txn.Bids {
			if b.BidderID == bidderID {
				hasBid = true
				break
			}
		}
		if !hasBid {
			return fmt.Errorf("lifecycle: declare winner: %w", auctionerrors.ErrNoSuchBidder)
		}

		a.Status = models.StatusSold
		a.WinnerID = bidderID
		snap = a.Snapshot()

		payload := events.WinnerPayload{
			AuctionID: a.ID,
			Title:     a.Title,
			WinnerID:  bidderID,
			Amount:    a.CurrentPrice(),
		}
		m.fanout.Publish(events.UserTopic(bidderID), events.Event{
			Kind: events.KindDeclaredWinner, Time: now, Payload: payload,
		})
		m.fanout.Publish(events.AuctionTopic(a.ID), events.Event{
			Kind: events.KindWinnerDeclared, Time: now, Payload: payload,
		})
		return nil
	})
	if err != nil {
		return models.AuctionSnapshot{}, err
	}

	utils.Info("winner declared", map[string]any{"auction_id": auctionID, "winner_id": bidderID})
	return snap, nil
}

// UpdateEndTime overwrites an active auction's deadline.
func (m *Manager) UpdateEndTime(auctionID, sellerID string, newEndTime time.Time, reason string) (models.AuctionSnapshot, error) {
	now := m.clock.Now()
	var snap models.AuctionSnapshot

	err := m.store.Update(auctionID, func(txn store.Txn) error {
		a := txn.Auction

		if sellerID != a.SellerID {
			return fmt.Errorf("lifecycle: update end time: %w", auctionerrors.ErrNotOwner)
		}
		if a.Status != models.StatusActive {
			return fmt.Errorf("lifecycle: update end time: %w", auctionerrors.ErrAuctionNotActive)
		}
		if !newEndTime.After(now) {
			return fmt.Errorf("lifecycle: update end time: %w", auctionerrors.ErrInvalidEndTime)
		}

		a.EndTime = newEndTime
		a.EndingSoonNotified = false
		snap = a.Snapshot()

		m.fanout.Publish(events.AuctionTopic(a.ID), events.Event{
			Kind: events.KindTimeUpdated,
			Time: now,
			Payload: events.TimeUpdatedPayload{
				AuctionID:  a.ID,
				NewEndTime: newEndTime,
				Reason:     reason,
				UpdatedBy:  sellerID,
			},
		})
		return nil
	})
	if err != nil {
		return models.AuctionSnapshot{}, err
	}

	utils.Info("auction end time updated", map[string]any{"auction_id": auctionID, "new_end_time": newEndTime})
	return snap, nil
}

// Relist restarts an ended or sold auction as a fresh cycle under the same
// ID: bids cleared, winner cleared, ACTIVE again. A sold auction reopens at
// its second-highest bid when one exists; otherwise the original listing
// price applies.
func (m *Manager) Relist(auctionID, sellerID string, newEndTime time.Time) (models.AuctionSnapshot, error) {
	now := m.clock.Now()
	var snap models.AuctionSnapshot

	err := m.store.Update(auctionID, func(txn store.Txn) error {
		a := txn.Auction

		if sellerID != a.SellerID {
			return fmt.Errorf("lifecycle: relist: %w", auctionerrors.ErrNotOwner)
		}
		if a.Status != models.StatusEnded && a.Status != models.StatusSold {
			return fmt.Errorf("lifecycle: relist: %w", auctionerrors.ErrInvalidState)
		}
		if !newEndTime.After(now) {
			return fmt.Errorf("lifecycle: relist: %w", auctionerrors.ErrInvalidEndTime)
		}

		price := a.OriginalStartingPrice
		if a.Status == models.StatusSold && a.SecondHighBid != nil {
			price = a.SecondHighBid.Amount
		}

		a.Status = models.StatusActive
		a.StartingPrice = price
		a.EndTime = newEndTime
		a.HighBid = nil
		a.SecondHighBid = nil
		a.WinnerID = ""
		a.EndingSoonNotified = false
		*txn.Bids = nil
		snap = a.Snapshot()

		m.fanout.Publish(events.AuctionTopic(a.ID), events.Event{
			Kind: events.KindProductRelisted,
			Time: now,
			Payload: events.RelistPayload{
				AuctionID:     a.ID,
				NewEndTime:    newEndTime,
				StartingPrice: price,
				RelistedBy:    sellerID,
			},
		})
		return nil
	})
	if err != nil {
		return models.AuctionSnapshot{}, err
	}

	utils.Info("auction relisted", map[string]any{"auction_id": auctionID, "starting_price": snap.StartingPrice})
	return snap, nil
}

// RestrictBidder bars a bidder from the auction, effective for every
// subsequent bid attempt.
func (m *Manager) RestrictBidder(auctionID, sellerID, bidderID string) error {
	return m.setRestriction(auctionID, sellerID, bidderID, true)
}

// UnrestrictBidder lifts a restriction.
func (m *Manager) UnrestrictBidder(auctionID, sellerID, bidderID string) error {
	return m.setRestriction(auctionID, sellerID, bidderID, false)
}

func (m *Manager) setRestriction(auctionID, sellerID, bidderID string, restricted bool) error {
	return m.store.Update(auctionID, func(txn store.Txn) error {
		a := txn.Auction
		if sellerID != a.SellerID {
			return fmt.Errorf("lifecycle: restrict: %w", auctionerrors.ErrNotOwner)
		}
		if restricted {
			a.RestrictedBidders[bidderID] = true
		} else {
			delete(a.RestrictedBidders, bidderID)
		}
		return nil
	})
}

// SweepExpired transitions every active auction whose end time has passed to
// ENDED. It is idempotent: auctions already out of ACTIVE are skipped, so
// re-running never emits a duplicate AUCTION_ENDED.
func (m *Manager) SweepExpired(now time.Time) {
	for _, id := range m.store.IDs() {
		err := m.store.Update(id, func(txn store.Txn) error {
			a := txn.Auction
			if a.Status != models.StatusActive || a.EndTime.After(now) {
				return nil
			}

			a.Status = models.StatusEnded
			payload := events.AuctionEndedPayload{
				AuctionID:  a.ID,
				Title:      a.Title,
				FinalPrice: a.CurrentPrice(),
				EndTime:    a.EndTime,
			}
			m.fanout.Publish(events.AuctionTopic(a.ID), events.Event{
				Kind: events.KindAuctionEnded, Time: now, Payload: payload,
			})
			for _, bidder := range distinctBidders(*txn.Bids) {
				m.fanout.Publish(events.UserTopic(bidder), events.Event{
					Kind: events.KindAuctionEnded, Time: now, Payload: payload,
				})
			}
			utils.Info("auction expired", map[string]any{"auction_id": a.ID})
			return nil
		})
		if err != nil {
			utils.Error("sweep failed", map[string]any{"auction_id": id, "error": err.Error()})
		}
	}
}

// NotifyEndingSoon warns every bidder of an active auction that ends within
// the configured window. The warning fires once per cycle.
func (m *Manager) NotifyEndingSoon(now time.Time) {
	for _, id := range m.store.IDs() {
		_ = m.store.Update(id, func(txn store.Txn) error {
			a := txn.Auction
			if a.Status != models.StatusActive || a.EndingSoonNotified {
				return nil
			}
			if !a.EndTime.After(now) || a.EndTime.Sub(now) > m.endingSoon {
				return nil
			}

			a.EndingSoonNotified = true
			payload := events.AuctionEndedPayload{
				AuctionID:  a.ID,
				Title:      a.Title,
				FinalPrice: a.CurrentPrice(),
				EndTime:    a.EndTime,
			}
			for _, bidder := range distinctBidders(*txn.Bids) {
				m.fanout.Publish(events.UserTopic(bidder), events.Event{
					Kind: events.KindAuctionEnding, Time: now, Payload: payload,
				})
			}
			return nil
		})
	}
}

// Run drives the sweep and the ending-soon warnings until ctx is cancelled.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			now := m.clock.Now()
			m.NotifyEndingSoon(now)
			m.SweepExpired(now)
		}
	}
}

func distinctBidders(bids []models.Bid) []string {
	seen := make(map[string]bool, len(bids))
	var out []string
	for _, b := range bids {
		if !seen[b.BidderID] {
			seen[b.BidderID] = true
			out = append(out, b.BidderID)
		}
	}
	return out
}

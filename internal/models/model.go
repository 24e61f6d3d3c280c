package models

import "time"

// AuctionStatus is the lifecycle state of one auction cycle.
type AuctionStatus string

const (
	StatusActive AuctionStatus = "ACTIVE"
	StatusEnded  AuctionStatus = "ENDED"
	StatusSold   AuctionStatus = "SOLD"
)

// BidRef is a lightweight reference to an accepted bid kept on the auction
// itself (the current high bid and the demoted runner-up).
type BidRef struct {
	Amount   int64     `json:"amount"`
	BidderID string    `json:"bidder_id"`
	BidTime  time.Time `json:"bid_time"`
}

// Auction is the canonical mutable state of one listed item.
// All fields are owned by the AuctionStore; external readers only ever see
// snapshot copies.
type Auction struct {
	ID            string
	SellerID      string
	Title         string
	StartingPrice int64
	// OriginalStartingPrice is the price the item was first listed at.
	// Relisting a never-sold auction resets StartingPrice back to it.
	OriginalStartingPrice int64
	Status                AuctionStatus
	EndTime               time.Time
	HighBid               *BidRef
	SecondHighBid         *BidRef
	WinnerID              string
	RestrictedBidders     map[string]bool
	// EndingSoonNotified dedupes the ending-soon warning per cycle.
	EndingSoonNotified bool
}

// Bid is one accepted bid attempt, append-only within an auction cycle.
type Bid struct {
	BidID     string    `json:"bid_id"`
	AuctionID string    `json:"auction_id"`
	BidderID  string    `json:"bidder_id"`
	Amount    int64     `json:"amount"`
	BidTime   time.Time `json:"bid_time"`
}

// AuctionSnapshot is an immutable copy of auction state handed to callers
// outside the store's critical section.
type AuctionSnapshot struct {
	ID                string        `json:"id"`
	SellerID          string        `json:"seller_id"`
	Title             string        `json:"title"`
	StartingPrice     int64         `json:"starting_price"`
	Status            AuctionStatus `json:"status"`
	EndTime           time.Time     `json:"end_time"`
	HighBid           *BidRef       `json:"high_bid,omitempty"`
	SecondHighBid     *BidRef       `json:"second_high_bid,omitempty"`
	WinnerID          string        `json:"winner_id,omitempty"`
	RestrictedBidders []string      `json:"restricted_bidders"`
}

// Snapshot copies the auction into an AuctionSnapshot. Must be called while
// the auction's lock is held.
func (a *Auction) Snapshot() AuctionSnapshot {
	restricted := make([]string, 0, len(a.RestrictedBidders))
	for id := range a.RestrictedBidders {
		restricted = append(restricted, id)
	}
	snap := AuctionSnapshot{
		ID:                a.ID,
		SellerID:          a.SellerID,
		Title:             a.Title,
		StartingPrice:     a.StartingPrice,
		Status:            a.Status,
		EndTime:           a.EndTime,
		WinnerID:          a.WinnerID,
		RestrictedBidders: restricted,
	}
	if a.HighBid != nil {
		hb := *a.HighBid
		snap.HighBid = &hb
	}
	if a.SecondHighBid != nil {
		shb := *a.SecondHighBid
		snap.SecondHighBid = &shb
	}
	return snap
}

// CurrentPrice is the amount the next bid competes against: the high bid if
// one exists, else the starting price.
func (a *Auction) CurrentPrice() int64 {
	if a.HighBid != nil {
		return a.HighBid.Amount
	}
	return a.StartingPrice
}

package store

import (
	"fmt"
	"sort"
	"sync"

	"studentbidz/internal/auctionerrors"
	"studentbidz/internal/models"
)

// AuctionStore owns the canonical mutable state of every auction. Each
// auction lives behind its own lock, so bids on unrelated auctions never
// contend; the map-level RWMutex only guards entry lookup and creation.
type AuctionStore struct {
	mu       sync.RWMutex
	auctions map[string]*auctionEntry
}

type auctionEntry struct {
	mu      sync.Mutex
	auction models.Auction
	bids    []models.Bid
}

// Txn is the view of one auction handed to an Update callback while its lock
// is held. The callback must not retain either pointer past its return.
type Txn struct {
	Auction *models.Auction
	Bids    *[]models.Bid
}

// NewAuctionStore creates an empty store.
func NewAuctionStore() *AuctionStore {
	return &AuctionStore{auctions: make(map[string]*auctionEntry)}
}

// Create registers a new auction. The stored copy becomes the only live
// mutable instance; callers keep no reference.
func (s *AuctionStore) Create(a models.Auction) error {
	if a.RestrictedBidders == nil {
		a.RestrictedBidders = make(map[string]bool)
	}
	if a.OriginalStartingPrice == 0 {
		a.OriginalStartingPrice = a.StartingPrice
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.auctions[a.ID]; ok {
		return fmt.Errorf("store: create auction %s: %w", a.ID, auctionerrors.ErrAuctionExists)
	}
	s.auctions[a.ID] = &auctionEntry{auction: a}
	return nil
}

// Update runs fn as the exclusive critical section for one auction:
// read-validate-write under fn is atomic with respect to every other bid and
// lifecycle operation on the same auction. If fn returns an error the caller
// must have left the state untouched (rejections are pure checks), and after
// every successful mutation the auction invariants are re-verified.
func (s *AuctionStore) Update(auctionID string, fn func(txn Txn) error) error {
	entry, err := s.entry(auctionID)
	if err != nil {
		return err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if err := fn(Txn{Auction: &entry.auction, Bids: &entry.bids}); err != nil {
		return err
	}
	return verifyInvariants(&entry.auction)
}

// Snapshot returns an immutable copy of the auction's current state.
func (s *AuctionStore) Snapshot(auctionID string) (models.AuctionSnapshot, error) {
	entry, err := s.entry(auctionID)
	if err != nil {
		return models.AuctionSnapshot{}, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.auction.Snapshot(), nil
}

// Bids returns the auction's accepted bids ordered by amount descending.
// The ordering is a display concern; acceptance order is what the engine
// relies on internally.
func (s *AuctionStore) Bids(auctionID string) ([]models.Bid, error) {
	entry, err := s.entry(auctionID)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	bids := append([]models.Bid(nil), entry.bids...)
	entry.mu.Unlock()

	sort.SliceStable(bids, func(i, j int) bool { return bids[i].Amount > bids[j].Amount })
	return bids, nil
}

// BidsByUser returns every accepted bid a bidder currently holds across all
// auctions.
func (s *AuctionStore) BidsByUser(bidderID string) []models.Bid {
	s.mu.RLock()
	entries := make([]*auctionEntry, 0, len(s.auctions))
	for _, e := range s.auctions {
		entries = append(entries, e)
	}
	s.mu.RUnlock()

	var bids []models.Bid
	for _, e := range entries {
		e.mu.Lock()
		for _, b := range e.bids {
			if b.BidderID == bidderID {
				bids = append(bids, b)
			}
		}
		e.mu.Unlock()
	}
	return bids
}

// IDs returns the IDs of all known auctions.
func (s *AuctionStore) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.auctions))
	for id := range s.auctions {
		ids = append(ids, id)
	}
	return ids
}

// Snapshots returns a snapshot of every auction, for listing endpoints.
func (s *AuctionStore) Snapshots() []models.AuctionSnapshot {
	ids := s.IDs()
	snaps := make([]models.AuctionSnapshot, 0, len(ids))
	for _, id := range ids {
		if snap, err := s.Snapshot(id); err == nil {
			snaps = append(snaps, snap)
		}
	}
	sort.Slice(snaps, func(i, j int) bool { return snaps[i].EndTime.Before(snaps[j].EndTime) })
	return snaps
}

func (s *AuctionStore) entry(auctionID string) (*auctionEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.auctions[auctionID]
	if !ok {
		return nil, fmt.Errorf("store: auction %s: %w", auctionID, auctionerrors.ErrAuctionNotFound)
	}
	return entry, nil
}

// verifyInvariants catches corrupted state before it leaks out of the
// critical section. A failure here is a bug, never a validation error.
func verifyInvariants(a *models.Auction) error {
	if a.HighBid != nil && a.HighBid.Amount < a.StartingPrice {
		return &auctionerrors.InvariantError{
			AuctionID: a.ID,
			Detail:    fmt.Sprintf("high bid %d below starting price %d", a.HighBid.Amount, a.StartingPrice),
		}
	}
	if a.HighBid != nil && a.SecondHighBid != nil && a.SecondHighBid.Amount > a.HighBid.Amount {
		return &auctionerrors.InvariantError{
			AuctionID: a.ID,
			Detail:    fmt.Sprintf("second-high bid %d above high bid %d", a.SecondHighBid.Amount, a.HighBid.Amount),
		}
	}
	if a.Status == models.StatusSold && a.WinnerID == "" {
		return &auctionerrors.InvariantError{AuctionID: a.ID, Detail: "sold without a winner"}
	}
	return nil
}

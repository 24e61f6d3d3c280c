package ratelimit

import (
	"fmt"
	"sync"
	"time"

	"studentbidz/internal/auctionerrors"
)

// Limits are the anti-abuse thresholds applied to every bidder.
type Limits struct {
	// Cooldown is the minimum gap between two accepted bids by the same
	// bidder on the same auction.
	Cooldown time.Duration
	// DailyPerAuction caps accepted bids per bidder per auction per UTC day.
	DailyPerAuction int
	// DailyTotal caps accepted bids per bidder per UTC day across all auctions.
	DailyTotal int
}

// DefaultLimits mirror the marketplace bidding rules: one bid per minute per
// auction, 20 per auction per day, 50 per day in total.
func DefaultLimits() Limits {
	return Limits{
		Cooldown:        time.Minute,
		DailyPerAuction: 20,
		DailyTotal:      50,
	}
}

type productKey struct {
	bidderID  string
	auctionID string
}

type productCounter struct {
	lastBidTime time.Time
	day         string
	countToday  int
}

type dailyCounter struct {
	day        string
	countToday int
}

// Limiter tracks per-bidder bid counters. Counters are created lazily on the
// first accepted bid, reset at UTC day rollover and pruned after long
// inactivity. Check and Record are intended to run inside the same per-auction
// critical section as the bid admission itself, so two racing bids can never
// both observe a stale count.
type Limiter struct {
	mu         sync.Mutex
	limits     Limits
	perProduct map[productKey]*productCounter
	perBidder  map[string]*dailyCounter
}

// NewLimiter creates a Limiter enforcing the given limits.
func NewLimiter(limits Limits) *Limiter {
	return &Limiter{
		limits:     limits,
		perProduct: make(map[productKey]*productCounter),
		perBidder:  make(map[string]*dailyCounter),
	}
}

// Check reports whether a bid by bidderID on auctionID at now would violate
// the cooldown or either daily cap. It mutates nothing.
func (l *Limiter) Check(bidderID, auctionID string, now time.Time) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	day := dayOf(now)

	if pc, ok := l.perProduct[productKey{bidderID, auctionID}]; ok {
		if now.Sub(pc.lastBidTime) < l.limits.Cooldown {
			return fmt.Errorf("ratelimit: %w", auctionerrors.ErrTooFrequent)
		}
		if pc.day == day && pc.countToday >= l.limits.DailyPerAuction {
			return fmt.Errorf("ratelimit: %w", auctionerrors.ErrDailyProductCapExceeded)
		}
	}

	if dc, ok := l.perBidder[bidderID]; ok {
		if dc.day == day && dc.countToday >= l.limits.DailyTotal {
			return fmt.Errorf("ratelimit: %w", auctionerrors.ErrDailyTotalCapExceeded)
		}
	}

	return nil
}

// Record registers one accepted bid. Call only after Check passed, inside the
// same critical section.
func (l *Limiter) Record(bidderID, auctionID string, now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	day := dayOf(now)
	key := productKey{bidderID, auctionID}

	pc := l.perProduct[key]
	if pc == nil {
		pc = &productCounter{}
		l.perProduct[key] = pc
	}
	if pc.day != day {
		pc.day = day
		pc.countToday = 0
	}
	pc.lastBidTime = now
	pc.countToday++

	dc := l.perBidder[bidderID]
	if dc == nil {
		dc = &dailyCounter{}
		l.perBidder[bidderID] = dc
	}
	if dc.day != day {
		dc.day = day
		dc.countToday = 0
	}
	dc.countToday++
}

// Prune discards counters untouched for at least maxIdle. Purely a memory
// bound; correctness never depends on it.
func (l *Limiter) Prune(now time.Time, maxIdle time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for key, pc := range l.perProduct {
		if now.Sub(pc.lastBidTime) >= maxIdle {
			delete(l.perProduct, key)
		}
	}
	today := dayOf(now)
	yesterday := dayOf(now.Add(-24 * time.Hour))
	for bidder, dc := range l.perBidder {
		if dc.day != today && dc.day != yesterday {
			delete(l.perBidder, bidder)
		}
	}
}

// dayOf buckets a timestamp into its UTC calendar day.
func dayOf(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

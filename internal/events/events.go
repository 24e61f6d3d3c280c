package events

import (
	"fmt"
	"time"
)

// Kind identifies the type of a state-change event.
type Kind string

// Auction topic events
const (
	KindBidAccepted     Kind = "BID_ACCEPTED"
	KindTimeUpdated     Kind = "TIME_UPDATED"
	KindWinnerDeclared  Kind = "WINNER_DECLARED"
	KindProductRelisted Kind = "PRODUCT_RELISTED"
	KindAuctionEnded    Kind = "AUCTION_ENDED"
)

// User topic events (personal notifications)
const (
	KindOutbid         Kind = "OUTBID"
	KindDeclaredWinner Kind = "DECLARED_WINNER"
	KindChatMessage    Kind = "CHAT_MESSAGE"
	KindAuctionEnding  Kind = "AUCTION_ENDING"
)

// Critical reports whether an event of this kind may never be silently
// dropped on subscriber backpressure.
func (k Kind) Critical() bool {
	switch k {
	case KindBidAccepted, KindWinnerDeclared, KindDeclaredWinner, KindProductRelisted:
		return true
	}
	return false
}

// Event is one state-change notification delivered to topic subscribers.
type Event struct {
	Kind    Kind      `json:"kind"`
	Topic   string    `json:"topic"`
	Time    time.Time `json:"time"`
	Payload any       `json:"payload"`
}

// AuctionTopic names the topic carrying bid/time/winner events for one auction.
func AuctionTopic(auctionID string) string { return "auction:" + auctionID }

// UserTopic names the topic carrying personal notifications for one user.
func UserTopic(userID string) string { return "user:" + userID }

// ChatTopic names the topic carrying chat messages for one product.
func ChatTopic(productID string) string { return "chat:" + productID }

// BidAcceptedPayload accompanies KindBidAccepted.
type BidAcceptedPayload struct {
	AuctionID string    `json:"auction_id"`
	BidderID  string    `json:"bidder_id"`
	Amount    int64     `json:"amount"`
	BidTime   time.Time `json:"bid_time"`
	EndTime   time.Time `json:"end_time"`
}

// OutbidPayload accompanies KindOutbid.
type OutbidPayload struct {
	AuctionID string `json:"auction_id"`
	Title     string `json:"title"`
	ByBidder  string `json:"by_bidder"`
	Amount    int64  `json:"amount"`
	Message   string `json:"message"`
}

// TimeUpdatedPayload accompanies KindTimeUpdated.
type TimeUpdatedPayload struct {
	AuctionID  string    `json:"auction_id"`
	NewEndTime time.Time `json:"new_end_time"`
	Reason     string    `json:"reason,omitempty"`
	UpdatedBy  string    `json:"updated_by"`
}

// WinnerPayload accompanies KindWinnerDeclared and KindDeclaredWinner.
type WinnerPayload struct {
	AuctionID string `json:"auction_id"`
	Title     string `json:"title"`
	WinnerID  string `json:"winner_id"`
	Amount    int64  `json:"amount"`
}

// RelistPayload accompanies KindProductRelisted.
type RelistPayload struct {
	AuctionID     string    `json:"auction_id"`
	NewEndTime    time.Time `json:"new_end_time"`
	StartingPrice int64     `json:"starting_price"`
	RelistedBy    string    `json:"relisted_by"`
}

// AuctionEndedPayload accompanies KindAuctionEnded and KindAuctionEnding.
type AuctionEndedPayload struct {
	AuctionID  string    `json:"auction_id"`
	Title      string    `json:"title"`
	FinalPrice int64     `json:"final_price"`
	EndTime    time.Time `json:"end_time"`
}

// ChatPayload accompanies KindChatMessage. Message history is owned by the
// storage collaborator, not by the fanout.
type ChatPayload struct {
	ProductID   string    `json:"product_id"`
	SenderID    string    `json:"sender_id"`
	RecipientID string    `json:"recipient_id,omitempty"`
	Text        string    `json:"text"`
	SentAt      time.Time `json:"sent_at"`
}

// OutbidMessage renders the human-readable outbid notification text.
func OutbidMessage(byBidder, title string, amount int64) string {
	return fmt.Sprintf("%s has outbid you on %q with %d", byBidder, title, amount)
}

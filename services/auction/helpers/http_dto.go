package helpers

// Request/Response DTOs
type CreateAuctionRequest struct {
	SellerID      string `json:"seller_id" binding:"required"`
	Title         string `json:"title" binding:"required"`
	StartingPrice int64  `json:"starting_price" binding:"required,gt=0"`
	EndTime       string `json:"end_time" binding:"required"`
}

type PlaceBidRequest struct {
	BidderID string `json:"bidder_id" binding:"required"`
	Amount   int64  `json:"amount" binding:"required,gt=0"`
}

type UpdateEndTimeRequest struct {
	SellerID   string `json:"seller_id" binding:"required"`
	NewEndTime string `json:"new_end_time" binding:"required"`
	Reason     string `json:"reason"`
}

type DeclareWinnerRequest struct {
	SellerID string `json:"seller_id" binding:"required"`
}

type RestrictRequest struct {
	SellerID string `json:"seller_id" binding:"required"`
}

type RelistRequest struct {
	SellerID   string `json:"seller_id" binding:"required"`
	NewEndTime string `json:"new_end_time" binding:"required"`
}

type ChatMessageRequest struct {
	SenderID    string `json:"sender_id" binding:"required"`
	RecipientID string `json:"recipient_id"`
	Text        string `json:"text" binding:"required"`
}

type BidResponse struct {
	BidID     string `json:"bid_id"`
	AuctionID string `json:"auction_id"`
	BidderID  string `json:"bidder_id"`
	Amount    int64  `json:"amount"`
	BidTime   string `json:"bid_time"`
}

package handler

import (
	"net/http"
	"time"

	"studentbidz/internal/clock"
	"studentbidz/internal/events"
	"studentbidz/internal/models"
	"studentbidz/internal/store"
	"studentbidz/services/auction/helpers"
	"studentbidz/utils"

	"github.com/gin-gonic/gin"
)

type BidEngineInterface interface {
	SubmitBid(auctionID, bidderID string, amount int64) (models.AuctionSnapshot, models.Bid, error)
}

type LifecycleInterface interface {
	DeclareWinner(auctionID, sellerID, bidderID string) (models.AuctionSnapshot, error)
	UpdateEndTime(auctionID, sellerID string, newEndTime time.Time, reason string) (models.AuctionSnapshot, error)
	Relist(auctionID, sellerID string, newEndTime time.Time) (models.AuctionSnapshot, error)
	RestrictBidder(auctionID, sellerID, bidderID string) error
	UnrestrictBidder(auctionID, sellerID, bidderID string) error
}

type PublisherInterface interface {
	Publish(topic string, ev events.Event)
}

type AuctionHandler struct {
	engine    BidEngineInterface
	lifecycle LifecycleInterface
	store     *store.AuctionStore
	fanout    PublisherInterface
	clock     clock.Clock
}

func NewAuctionHandler(engine BidEngineInterface, lifecycle LifecycleInterface, st *store.AuctionStore, fanout PublisherInterface, clk clock.Clock) *AuctionHandler {
	return &AuctionHandler{engine: engine, lifecycle: lifecycle, store: st, fanout: fanout, clock: clk}
}

// CreateAuctionHandler handles POST /auctions
func (h *AuctionHandler) CreateAuctionHandler(c *gin.Context) {
	var req helpers.CreateAuctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "CreateAuctionHandler", err)
		return
	}

	endTime, err := time.Parse(time.RFC3339, req.EndTime)
	if err != nil {
		helpers.HandleBindError(c, "CreateAuctionHandler", err)
		return
	}

	auction := models.Auction{
		ID:            utils.GenerateID(),
		SellerID:      req.SellerID,
		Title:         req.Title,
		StartingPrice: req.StartingPrice,
		Status:        models.StatusActive,
		EndTime:       endTime,
	}
	if err := h.store.Create(auction); err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, err, message)
		return
	}

	snap, _ := h.store.Snapshot(auction.ID)
	utils.JSONResponse(c, http.StatusCreated, snap, "auction created")
	helpers.LogSuccess("CreateAuctionHandler", "auction created", map[string]any{
		"auction_id": auction.ID,
		"seller_id":  req.SellerID,
	})
}

// ListAuctionsHandler handles GET /auctions
func (h *AuctionHandler) ListAuctionsHandler(c *gin.Context) {
	utils.JSONResponse(c, http.StatusOK, h.store.Snapshots(), "auctions retrieved")
}

// GetAuctionHandler handles GET /auctions/:auction_id
func (h *AuctionHandler) GetAuctionHandler(c *gin.Context) {
	snap, err := h.store.Snapshot(c.Param("auction_id"))
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, err, message)
		return
	}
	utils.JSONResponse(c, http.StatusOK, snap, "auction retrieved")
}

// PlaceBidHandler handles POST /auctions/:auction_id/bids
func (h *AuctionHandler) PlaceBidHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")

	var req helpers.PlaceBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "PlaceBidHandler", err)
		return
	}

	snap, bid, err := h.engine.SubmitBid(auctionID, req.BidderID, req.Amount)
	if err != nil {
		h.rejectOrFail(c, "PlaceBidHandler", err, map[string]any{
			"auction_id": auctionID,
			"bidder_id":  req.BidderID,
			"amount":     req.Amount,
		})
		return
	}

	utils.JSONResponse(c, http.StatusOK, gin.H{"auction": snap, "bid": toBidResponse(bid)}, "bid accepted")
}

// GetBidsHandler handles GET /auctions/:auction_id/bids
// Bids are returned ordered by amount descending for display.
func (h *AuctionHandler) GetBidsHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	bids, err := h.store.Bids(auctionID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, err, message)
		return
	}

	resp := make([]helpers.BidResponse, 0, len(bids))
	for _, b := range bids {
		resp = append(resp, toBidResponse(b))
	}
	utils.JSONResponse(c, http.StatusOK, resp, "bids retrieved")
}

// GetBidsByUserHandler handles GET /users/:user_id/bids
func (h *AuctionHandler) GetBidsByUserHandler(c *gin.Context) {
	bids := h.store.BidsByUser(c.Param("user_id"))
	resp := make([]helpers.BidResponse, 0, len(bids))
	for _, b := range bids {
		resp = append(resp, toBidResponse(b))
	}
	utils.JSONResponse(c, http.StatusOK, resp, "bids retrieved")
}

// UpdateEndTimeHandler handles PATCH /auctions/:auction_id/end-time
func (h *AuctionHandler) UpdateEndTimeHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")

	var req helpers.UpdateEndTimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "UpdateEndTimeHandler", err)
		return
	}
	newEndTime, err := time.Parse(time.RFC3339, req.NewEndTime)
	if err != nil {
		helpers.HandleBindError(c, "UpdateEndTimeHandler", err)
		return
	}

	snap, err := h.lifecycle.UpdateEndTime(auctionID, req.SellerID, newEndTime, req.Reason)
	if err != nil {
		h.rejectOrFail(c, "UpdateEndTimeHandler", err, map[string]any{"auction_id": auctionID})
		return
	}
	utils.JSONResponse(c, http.StatusOK, snap, "end time updated")
}

// DeclareWinnerHandler handles PATCH /auctions/:auction_id/winner/:bidder_id
func (h *AuctionHandler) DeclareWinnerHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	bidderID := c.Param("bidder_id")

	var req helpers.DeclareWinnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "DeclareWinnerHandler", err)
		return
	}

	snap, err := h.lifecycle.DeclareWinner(auctionID, req.SellerID, bidderID)
	if err != nil {
		h.rejectOrFail(c, "DeclareWinnerHandler", err, map[string]any{
			"auction_id": auctionID,
			"bidder_id":  bidderID,
		})
		return
	}
	utils.JSONResponse(c, http.StatusOK, snap, "winner declared")
}

// RestrictBidderHandler handles PATCH /auctions/:auction_id/restrict/:bidder_id
func (h *AuctionHandler) RestrictBidderHandler(c *gin.Context) {
	h.toggleRestriction(c, true)
}

// UnrestrictBidderHandler handles PATCH /auctions/:auction_id/unrestrict/:bidder_id
func (h *AuctionHandler) UnrestrictBidderHandler(c *gin.Context) {
	h.toggleRestriction(c, false)
}

func (h *AuctionHandler) toggleRestriction(c *gin.Context, restrict bool) {
	auctionID := c.Param("auction_id")
	bidderID := c.Param("bidder_id")

	var req helpers.RestrictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "RestrictBidderHandler", err)
		return
	}

	var err error
	if restrict {
		err = h.lifecycle.RestrictBidder(auctionID, req.SellerID, bidderID)
	} else {
		err = h.lifecycle.UnrestrictBidder(auctionID, req.SellerID, bidderID)
	}
	if err != nil {
		h.rejectOrFail(c, "RestrictBidderHandler", err, map[string]any{
			"auction_id": auctionID,
			"bidder_id":  bidderID,
		})
		return
	}

	message := "bidder restricted"
	if !restrict {
		message = "bidder unrestricted"
	}
	utils.JSONResponse(c, http.StatusOK, nil, message)
}

// RelistHandler handles POST /auctions/:auction_id/relist
func (h *AuctionHandler) RelistHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")

	var req helpers.RelistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "RelistHandler", err)
		return
	}
	newEndTime, err := time.Parse(time.RFC3339, req.NewEndTime)
	if err != nil {
		helpers.HandleBindError(c, "RelistHandler", err)
		return
	}

	snap, err := h.lifecycle.Relist(auctionID, req.SellerID, newEndTime)
	if err != nil {
		h.rejectOrFail(c, "RelistHandler", err, map[string]any{"auction_id": auctionID})
		return
	}
	utils.JSONResponse(c, http.StatusOK, snap, "auction relisted")
}

// PostChatMessageHandler handles POST /auctions/:auction_id/chat
// Messages are fanned out in real time; history is owned by the storage
// collaborator, not this service.
func (h *AuctionHandler) PostChatMessageHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")

	var req helpers.ChatMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "PostChatMessageHandler", err)
		return
	}
	if _, err := h.store.Snapshot(auctionID); err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, err, message)
		return
	}

	now := h.clock.Now()
	payload := events.ChatPayload{
		ProductID:   auctionID,
		SenderID:    req.SenderID,
		RecipientID: req.RecipientID,
		Text:        req.Text,
		SentAt:      now,
	}
	h.fanout.Publish(events.ChatTopic(auctionID), events.Event{
		Kind: events.KindChatMessage, Time: now, Payload: payload,
	})
	if req.RecipientID != "" {
		h.fanout.Publish(events.UserTopic(req.RecipientID), events.Event{
			Kind: events.KindChatMessage, Time: now, Payload: payload,
		})
	}
	utils.JSONResponse(c, http.StatusOK, payload, "message sent")
}

// rejectOrFail maps err to an HTTP response: validation rejections are
// expected outcomes logged at warn level; anything else is a fault.
func (h *AuctionHandler) rejectOrFail(c *gin.Context, handlerName string, err error, fields map[string]any) {
	status, message := helpers.MapErrorToHTTP(err)
	utils.JSONError(c, status, err, message)

	fields["error"] = err.Error()
	if status == http.StatusInternalServerError {
		utils.Error(handlerName+": internal error", fields)
		return
	}
	utils.Warn(handlerName+": rejected", fields)
}

func toBidResponse(b models.Bid) helpers.BidResponse {
	return helpers.BidResponse{
		BidID:     b.BidID,
		AuctionID: b.AuctionID,
		BidderID:  b.BidderID,
		Amount:    b.Amount,
		BidTime:   b.BidTime.UTC().Format(time.RFC3339),
	}
}

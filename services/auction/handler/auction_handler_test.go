package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"studentbidz/internal/auctionerrors"
	"studentbidz/internal/clock"
	"studentbidz/internal/events"
	"studentbidz/internal/models"
	"studentbidz/internal/store"
	"studentbidz/services/auction/helpers"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

type handlerFixture struct {
	engine    *MockBidEngineInterface
	lifecycle *MockLifecycleInterface
	fanout    *MockPublisherInterface
	store     *store.AuctionStore
	router    *gin.Engine
}

func newHandlerFixture(t *testing.T, ctrl *gomock.Controller) *handlerFixture {
	gin.SetMode(gin.TestMode)

	f := &handlerFixture{
		engine:    NewMockBidEngineInterface(ctrl),
		lifecycle: NewMockLifecycleInterface(ctrl),
		fanout:    NewMockPublisherInterface(ctrl),
		store:     store.NewAuctionStore(),
	}
	h := NewAuctionHandler(f.engine, f.lifecycle, f.store, f.fanout, clock.NewFake(testNow))

	router := gin.New()
	router.POST("/auctions", h.CreateAuctionHandler)
	router.GET("/auctions/:auction_id", h.GetAuctionHandler)
	router.POST("/auctions/:auction_id/bids", h.PlaceBidHandler)
	router.GET("/auctions/:auction_id/bids", h.GetBidsHandler)
	router.PATCH("/auctions/:auction_id/end-time", h.UpdateEndTimeHandler)
	router.PATCH("/auctions/:auction_id/winner/:bidder_id", h.DeclareWinnerHandler)
	router.PATCH("/auctions/:auction_id/restrict/:bidder_id", h.RestrictBidderHandler)
	router.POST("/auctions/:auction_id/chat", h.PostChatMessageHandler)
	f.router = router
	return f
}

func (f *handlerFixture) do(t *testing.T, method, url string, body any) (map[string]any, *httptest.ResponseRecorder) {
	var reqBody []byte
	switch v := body.(type) {
	case nil:
	case string:
		reqBody = []byte(v)
	default:
		var err error
		reqBody, err = json.Marshal(v)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(method, url, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	var resp map[string]any
	if len(w.Body.Bytes()) > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return resp, w
}

func (f *handlerFixture) seedAuction(t *testing.T, id string) {
	err := f.store.Create(models.Auction{
		ID:            id,
		SellerID:      "seller1",
		Title:         "vintage camera",
		StartingPrice: 100,
		Status:        models.StatusActive,
		EndTime:       testNow.Add(time.Hour),
	})
	require.NoError(t, err)
}

// Tests PlaceBidHandler
func TestPlaceBidHandler(t *testing.T) {
	acceptedSnap := models.AuctionSnapshot{
		ID:            "a1",
		SellerID:      "seller1",
		Title:         "vintage camera",
		StartingPrice: 100,
		Status:        models.StatusActive,
		EndTime:       testNow.Add(time.Hour),
		HighBid:       &models.BidRef{Amount: 150, BidderID: "bidder1", BidTime: testNow},
	}
	acceptedBid := models.Bid{
		BidID:     "bid-1",
		AuctionID: "a1",
		BidderID:  "bidder1",
		Amount:    150,
		BidTime:   testNow,
	}

	tests := []struct {
		name           string
		requestBody    any
		mockSetup      func(f *handlerFixture)
		expectedStatus int
		expectedMsg    string
		validateData   func(t *testing.T, data map[string]any)
	}{
		{
			name:        "success_valid_bid",
			requestBody: helpers.PlaceBidRequest{BidderID: "bidder1", Amount: 150},
			mockSetup: func(f *handlerFixture) {
				f.engine.EXPECT().
					SubmitBid("a1", "bidder1", int64(150)).
					Return(acceptedSnap, acceptedBid, nil)
			},
			expectedStatus: http.StatusOK,
			expectedMsg:    "bid accepted",
			validateData: func(t *testing.T, data map[string]any) {
				bid := data["bid"].(map[string]any)
				require.Equal(t, "bid-1", bid["bid_id"])
				require.Equal(t, "bidder1", bid["bidder_id"])
				require.Equal(t, 150.0, bid["amount"])
				_, parseErr := time.Parse(time.RFC3339, bid["bid_time"].(string))
				require.NoError(t, parseErr)

				auction := data["auction"].(map[string]any)
				high := auction["high_bid"].(map[string]any)
				require.Equal(t, 150.0, high["amount"])
			},
		},
		{
			name:           "invalid_json",
			requestBody:    `{invalid json}`,
			mockSetup:      func(f *handlerFixture) {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
		{
			name:           "missing_bidder_id",
			requestBody:    helpers.PlaceBidRequest{BidderID: "", Amount: 150},
			mockSetup:      func(f *handlerFixture) {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
		{
			name:           "invalid_amount_zero",
			requestBody:    helpers.PlaceBidRequest{BidderID: "bidder1", Amount: 0},
			mockSetup:      func(f *handlerFixture) {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
		{
			name:        "auction_not_found",
			requestBody: helpers.PlaceBidRequest{BidderID: "bidder1", Amount: 150},
			mockSetup: func(f *handlerFixture) {
				f.engine.EXPECT().
					SubmitBid("a1", "bidder1", int64(150)).
					Return(models.AuctionSnapshot{}, models.Bid{}, auctionerrors.ErrAuctionNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedMsg:    "auction not found",
		},
		{
			name:        "auction_not_active",
			requestBody: helpers.PlaceBidRequest{BidderID: "bidder1", Amount: 150},
			mockSetup: func(f *handlerFixture) {
				f.engine.EXPECT().
					SubmitBid("a1", "bidder1", int64(150)).
					Return(models.AuctionSnapshot{}, models.Bid{}, auctionerrors.ErrAuctionNotActive)
			},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "auction is not active",
		},
		{
			name:        "seller_cannot_bid",
			requestBody: helpers.PlaceBidRequest{BidderID: "seller1", Amount: 150},
			mockSetup: func(f *handlerFixture) {
				f.engine.EXPECT().
					SubmitBid("a1", "seller1", int64(150)).
					Return(models.AuctionSnapshot{}, models.Bid{}, auctionerrors.ErrSellerCannotBid)
			},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "seller cannot bid",
		},
		{
			name:        "bidder_restricted",
			requestBody: helpers.PlaceBidRequest{BidderID: "bidder1", Amount: 150},
			mockSetup: func(f *handlerFixture) {
				f.engine.EXPECT().
					SubmitBid("a1", "bidder1", int64(150)).
					Return(models.AuctionSnapshot{}, models.Bid{}, auctionerrors.ErrBidderRestricted)
			},
			expectedStatus: http.StatusForbidden,
			expectedMsg:    "bidder restricted by seller",
		},
		{
			name:        "bid_too_low",
			requestBody: helpers.PlaceBidRequest{BidderID: "bidder1", Amount: 100},
			mockSetup: func(f *handlerFixture) {
				f.engine.EXPECT().
					SubmitBid("a1", "bidder1", int64(100)).
					Return(models.AuctionSnapshot{}, models.Bid{}, fmt.Errorf("amount 100: %w", auctionerrors.ErrBidTooLow))
			},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "bid too low",
		},
		{
			name:        "bid_too_high",
			requestBody: helpers.PlaceBidRequest{BidderID: "bidder1", Amount: 500},
			mockSetup: func(f *handlerFixture) {
				f.engine.EXPECT().
					SubmitBid("a1", "bidder1", int64(500)).
					Return(models.AuctionSnapshot{}, models.Bid{}, auctionerrors.ErrBidTooHigh)
			},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "bid too high",
		},
		{
			name:        "cooldown_in_effect",
			requestBody: helpers.PlaceBidRequest{BidderID: "bidder1", Amount: 150},
			mockSetup: func(f *handlerFixture) {
				f.engine.EXPECT().
					SubmitBid("a1", "bidder1", int64(150)).
					Return(models.AuctionSnapshot{}, models.Bid{}, auctionerrors.ErrTooFrequent)
			},
			expectedStatus: http.StatusTooManyRequests,
			expectedMsg:    "bid cooldown in effect",
		},
		{
			name:        "daily_total_cap",
			requestBody: helpers.PlaceBidRequest{BidderID: "bidder1", Amount: 150},
			mockSetup: func(f *handlerFixture) {
				f.engine.EXPECT().
					SubmitBid("a1", "bidder1", int64(150)).
					Return(models.AuctionSnapshot{}, models.Bid{}, auctionerrors.ErrDailyTotalCapExceeded)
			},
			expectedStatus: http.StatusTooManyRequests,
			expectedMsg:    "daily bid limit reached",
		},
		{
			name:        "unexpected_error_is_internal",
			requestBody: helpers.PlaceBidRequest{BidderID: "bidder1", Amount: 150},
			mockSetup: func(f *handlerFixture) {
				f.engine.EXPECT().
					SubmitBid("a1", "bidder1", int64(150)).
					Return(models.AuctionSnapshot{}, models.Bid{}, errors.New("boom"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedMsg:    "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			f := newHandlerFixture(t, ctrl)
			tt.mockSetup(f)

			resp, w := f.do(t, http.MethodPost, "/auctions/a1/bids", tt.requestBody)
			require.Equal(t, tt.expectedStatus, w.Code)
			require.Equal(t, tt.expectedMsg, resp["message"])

			if tt.validateData != nil {
				tt.validateData(t, resp["data"].(map[string]any))
			}
		})
	}
}

// Tests CreateAuctionHandler
func TestCreateAuctionHandler(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    any
		expectedStatus int
		expectedMsg    string
	}{
		{
			name: "success",
			requestBody: helpers.CreateAuctionRequest{
				SellerID:      "seller1",
				Title:         "vintage camera",
				StartingPrice: 100,
				EndTime:       testNow.Add(time.Hour).Format(time.RFC3339),
			},
			expectedStatus: http.StatusCreated,
			expectedMsg:    "auction created",
		},
		{
			name: "bad_end_time",
			requestBody: helpers.CreateAuctionRequest{
				SellerID:      "seller1",
				Title:         "vintage camera",
				StartingPrice: 100,
				EndTime:       "tomorrow",
			},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
		{
			name: "missing_starting_price",
			requestBody: helpers.CreateAuctionRequest{
				SellerID: "seller1",
				Title:    "vintage camera",
				EndTime:  testNow.Add(time.Hour).Format(time.RFC3339),
			},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			f := newHandlerFixture(t, ctrl)
			resp, w := f.do(t, http.MethodPost, "/auctions", tt.requestBody)
			require.Equal(t, tt.expectedStatus, w.Code)
			require.Equal(t, tt.expectedMsg, resp["message"])

			if w.Code == http.StatusCreated {
				data := resp["data"].(map[string]any)
				require.NotEmpty(t, data["id"])
				require.Equal(t, "ACTIVE", data["status"])
				require.Equal(t, 100.0, data["starting_price"])
			}
		})
	}
}

// Tests GetAuctionHandler
func TestGetAuctionHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newHandlerFixture(t, ctrl)
	f.seedAuction(t, "a1")

	resp, w := f.do(t, http.MethodGet, "/auctions/a1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := resp["data"].(map[string]any)
	require.Equal(t, "a1", data["id"])
	require.Equal(t, "vintage camera", data["title"])

	resp, w = f.do(t, http.MethodGet, "/auctions/nope", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, "auction not found", resp["message"])
}

// Tests DeclareWinnerHandler
func TestDeclareWinnerHandler(t *testing.T) {
	soldSnap := models.AuctionSnapshot{
		ID:       "a1",
		SellerID: "seller1",
		Status:   models.StatusSold,
		WinnerID: "bidder1",
	}

	tests := []struct {
		name           string
		mockSetup      func(f *handlerFixture)
		expectedStatus int
		expectedMsg    string
	}{
		{
			name: "success",
			mockSetup: func(f *handlerFixture) {
				f.lifecycle.EXPECT().
					DeclareWinner("a1", "seller1", "bidder1").
					Return(soldSnap, nil)
			},
			expectedStatus: http.StatusOK,
			expectedMsg:    "winner declared",
		},
		{
			name: "not_owner",
			mockSetup: func(f *handlerFixture) {
				f.lifecycle.EXPECT().
					DeclareWinner("a1", "seller1", "bidder1").
					Return(models.AuctionSnapshot{}, auctionerrors.ErrNotOwner)
			},
			expectedStatus: http.StatusForbidden,
			expectedMsg:    "not the seller",
		},
		{
			name: "no_such_bidder",
			mockSetup: func(f *handlerFixture) {
				f.lifecycle.EXPECT().
					DeclareWinner("a1", "seller1", "bidder1").
					Return(models.AuctionSnapshot{}, auctionerrors.ErrNoSuchBidder)
			},
			expectedStatus: http.StatusNotFound,
			expectedMsg:    "bidder has not bid on this auction",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			f := newHandlerFixture(t, ctrl)
			tt.mockSetup(f)

			body := helpers.DeclareWinnerRequest{SellerID: "seller1"}
			resp, w := f.do(t, http.MethodPatch, "/auctions/a1/winner/bidder1", body)
			require.Equal(t, tt.expectedStatus, w.Code)
			require.Equal(t, tt.expectedMsg, resp["message"])

			if w.Code == http.StatusOK {
				data := resp["data"].(map[string]any)
				require.Equal(t, "SOLD", data["status"])
				require.Equal(t, "bidder1", data["winner_id"])
			}
		})
	}
}

// Tests UpdateEndTimeHandler
func TestUpdateEndTimeHandler(t *testing.T) {
	newEnd := testNow.Add(2 * time.Hour)

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newHandlerFixture(t, ctrl)
	f.lifecycle.EXPECT().
		UpdateEndTime("a1", "seller1", newEnd, "extending for more interest").
		Return(models.AuctionSnapshot{ID: "a1", Status: models.StatusActive, EndTime: newEnd}, nil)

	body := helpers.UpdateEndTimeRequest{
		SellerID:   "seller1",
		NewEndTime: newEnd.Format(time.RFC3339),
		Reason:     "extending for more interest",
	}
	resp, w := f.do(t, http.MethodPatch, "/auctions/a1/end-time", body)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "end time updated", resp["message"])
}

// Tests RestrictBidderHandler
func TestRestrictBidderHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newHandlerFixture(t, ctrl)
	f.lifecycle.EXPECT().
		RestrictBidder("a1", "seller1", "bidder1").
		Return(nil)

	resp, w := f.do(t, http.MethodPatch, "/auctions/a1/restrict/bidder1",
		helpers.RestrictRequest{SellerID: "seller1"})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "bidder restricted", resp["message"])
}

// Tests PostChatMessageHandler
func TestPostChatMessageHandler(t *testing.T) {
	t.Run("broadcast_and_direct_copy", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		f := newHandlerFixture(t, ctrl)
		f.seedAuction(t, "a1")

		var published []string
		f.fanout.EXPECT().
			Publish(gomock.Any(), gomock.Any()).
			Do(func(topic string, ev events.Event) {
				require.Equal(t, events.KindChatMessage, ev.Kind)
				published = append(published, topic)
			}).
			Times(2)

		body := helpers.ChatMessageRequest{
			SenderID:    "bidder1",
			RecipientID: "seller1",
			Text:        "is the lens original?",
		}
		resp, w := f.do(t, http.MethodPost, "/auctions/a1/chat", body)
		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, "message sent", resp["message"])
		require.ElementsMatch(t, []string{
			events.ChatTopic("a1"),
			events.UserTopic("seller1"),
		}, published)
	})

	t.Run("no_recipient_broadcast_only", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		f := newHandlerFixture(t, ctrl)
		f.seedAuction(t, "a1")

		f.fanout.EXPECT().
			Publish(events.ChatTopic("a1"), gomock.Any()).
			Times(1)

		body := helpers.ChatMessageRequest{SenderID: "bidder1", Text: "hello"}
		_, w := f.do(t, http.MethodPost, "/auctions/a1/chat", body)
		require.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("unknown_auction", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		f := newHandlerFixture(t, ctrl)

		body := helpers.ChatMessageRequest{SenderID: "bidder1", Text: "hello"}
		resp, w := f.do(t, http.MethodPost, "/auctions/nope/chat", body)
		require.Equal(t, http.StatusNotFound, w.Code)
		require.Equal(t, "auction not found", resp["message"])
	})
}

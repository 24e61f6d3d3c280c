package server

import (
	"studentbidz/internal/fanout"
	"studentbidz/services/auction/handler"
	"studentbidz/services/realtime"
	"studentbidz/utils"

	"github.com/gin-gonic/gin"
)

// SetupRouter configures all Gin routes for the application
func SetupRouter(auctionHandler *handler.AuctionHandler, hub *fanout.Hub) *gin.Engine {
	router := gin.New() // New router without default middleware for full control over middleware and logging

	router.Use(gin.Recovery())          // recover from panics
	router.Use(RequestLoggerMiddleware) // custom request logging

	auctions := router.Group("/auctions")
	{
		auctions.POST("", auctionHandler.CreateAuctionHandler)
		auctions.GET("", auctionHandler.ListAuctionsHandler)
		auctions.GET("/:auction_id", auctionHandler.GetAuctionHandler)
		auctions.POST("/:auction_id/bids", auctionHandler.PlaceBidHandler)
		auctions.GET("/:auction_id/bids", auctionHandler.GetBidsHandler)
		auctions.PATCH("/:auction_id/end-time", auctionHandler.UpdateEndTimeHandler)
		auctions.PATCH("/:auction_id/winner/:bidder_id", auctionHandler.DeclareWinnerHandler)
		auctions.PATCH("/:auction_id/restrict/:bidder_id", auctionHandler.RestrictBidderHandler)
		auctions.PATCH("/:auction_id/unrestrict/:bidder_id", auctionHandler.UnrestrictBidderHandler)
		auctions.POST("/:auction_id/relist", auctionHandler.RelistHandler)
		auctions.POST("/:auction_id/chat", auctionHandler.PostChatMessageHandler)
	}

	users := router.Group("/users")
	{
		users.GET("/:user_id/bids", auctionHandler.GetBidsByUserHandler)
	}

	router.GET("/ws", func(c *gin.Context) {
		if err := realtime.Upgrade(c.Writer, c.Request, hub); err != nil {
			utils.Warn("websocket upgrade failed", map[string]any{"error": err.Error()})
		}
	})

	return router
}

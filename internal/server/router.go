package server

import (
	handler "github.com/budisantoso88/shipbid-app/services/auction/handler"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRouter configures all Gin routes for the application
func SetupRouter(service handler.AuctionServiceInterface) *gin.Engine {
	router := gin.New() // New router without default middleware for full control over middleware and logging

	router.Use(gin.Recovery())          // recover from panics
	router.Use(RequestLoggerMiddleware) // custom request logging

	auctionHandler := handler.NewAuctionHandler(service)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/token-packages", auctionHandler.ListTokenPackagesHandler)

	users := router.Group("/users")
	{
		users.POST("", auctionHandler.RegisterUserHandler)
		users.GET("/:user_id", auctionHandler.GetUserHandler)
		users.GET("/:user_id/auctions", auctionHandler.GetAuctionsByBidderHandler)
		users.GET("/:user_id/notifications", auctionHandler.GetNotificationsHandler)
		users.POST("/:user_id/notifications/read", auctionHandler.MarkAllReadHandler)
		users.GET("/:user_id/tokens", auctionHandler.GetTokensHandler)
		users.POST("/:user_id/tokens/purchase", auctionHandler.PurchaseTokensHandler)
	}

	notifications := router.Group("/notifications")
	{
		notifications.POST("/:notification_id/read", auctionHandler.MarkReadHandler)
	}

	auctions := router.Group("/auctions")
	{
		auctions.POST("", auctionHandler.CreateAuctionHandler)
		auctions.GET("", auctionHandler.ListAuctionsHandler)
		auctions.GET("/:auction_id", auctionHandler.GetAuctionHandler)
		auctions.POST("/:auction_id/bids", auctionHandler.PlaceBidHandler)
		auctions.GET("/:auction_id/bids", auctionHandler.GetBidsHandler)
		auctions.GET("/:auction_id/winning", auctionHandler.GetWinningBidHandler)
		auctions.POST("/:auction_id/bids/:bid_id/accept", auctionHandler.AcceptBidHandler)
		auctions.POST("/:auction_id/cancel", auctionHandler.CancelAuctionHandler)
		auctions.POST("/:auction_id/ratings", auctionHandler.RateHandler)
	}

	return router
}

package handler

import (
	"net/http"

	model "github.com/budisantoso88/shipbid-app/internal/models"
	"github.com/budisantoso88/shipbid-app/services/auction/helpers"
	"github.com/budisantoso88/shipbid-app/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=auction_handler.go -destination=mock_auction_service.go -package=handler

type AuctionServiceInterface interface {
	RegisterUser(user model.User, openingBalance int) (model.User, error)
	GetUser(userID string) (model.User, error)
	CreateAuction(spec model.AuctionSpec, shipperID string) (model.Auction, error)
	PlaceBid(auctionID, transporterID string, amount decimal.Decimal, notes string) (model.Bid, error)
	AcceptBid(auctionID, bidID string) (model.Auction, error)
	CancelAuction(auctionID, shipperID string) (model.Auction, error)
	ListAuctions(filter model.AuctionFilter) ([]model.Auction, error)
	GetAuction(auctionID string) (model.Auction, error)
	GetBids(auctionID string, ranked bool) ([]model.Bid, error)
	GetWinningBid(auctionID string) (model.Bid, error)
	GetAuctionsByBidder(userID string) ([]model.Auction, error)
	TokenPackages() []model.TokenPackage
	PurchaseTokens(userID, packageID string) (int, error)
	TokenHistory(userID string) ([]model.LedgerEntry, error)
	ListNotifications(userID string) ([]model.Notification, error)
	UnreadCount(userID string) int
	MarkRead(notificationID string) (model.Notification, error)
	MarkAllRead(userID string) (int, error)
	RateCounterpart(auctionID, fromUserID string, score int, review string) (model.Rating, error)
}

type AuctionHandler struct {
	service AuctionServiceInterface
}

func NewAuctionHandler(service AuctionServiceInterface) *AuctionHandler {
	return &AuctionHandler{service: service}
}

// RegisterUserHandler handles POST /users
func (h *AuctionHandler) RegisterUserHandler(c *gin.Context) {
	var req helpers.RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "RegisterUserHandler", err)
		return
	}

	user, err := h.service.RegisterUser(model.User{
		UserID:   req.UserID,
		Name:     req.Name,
		Email:    req.Email,
		UserType: req.UserType,
	}, req.OpeningBalance)
	if err != nil {
		helpers.HandleServiceError(c, "RegisterUserHandler", err, map[string]any{"user_id": req.UserID})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, user, "user registered successfully")
	helpers.LogSuccess("RegisterUserHandler", "user registered successfully", map[string]any{
		"user_id":   user.UserID,
		"user_type": user.UserType,
		"balance":   user.TokenBalance,
	})
}

// GetUserHandler handles GET /users/:user_id
func (h *AuctionHandler) GetUserHandler(c *gin.Context) {
	userID := c.Param("user_id")
	user, err := h.service.GetUser(userID)
	if err != nil {
		helpers.HandleServiceError(c, "GetUserHandler", err, map[string]any{"user_id": userID})
		return
	}
	utils.JSONResponse(c, http.StatusOK, user, "user retrieved successfully")
}

// GetAuctionsByBidderHandler handles GET /users/:user_id/auctions
func (h *AuctionHandler) GetAuctionsByBidderHandler(c *gin.Context) {
	userID := c.Param("user_id")
	auctions, err := h.service.GetAuctionsByBidder(userID)
	if err != nil {
		helpers.HandleServiceError(c, "GetAuctionsByBidderHandler", err, map[string]any{"user_id": userID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.ToAuctionResponses(auctions), "auctions retrieved successfully")
	helpers.LogSuccess("GetAuctionsByBidderHandler", "auctions retrieved successfully", map[string]any{
		"user_id":        userID,
		"auctions_count": len(auctions),
	})
}

// GetNotificationsHandler handles GET /users/:user_id/notifications
func (h *AuctionHandler) GetNotificationsHandler(c *gin.Context) {
	userID := c.Param("user_id")
	notifications, err := h.service.ListNotifications(userID)
	if err != nil {
		helpers.HandleServiceError(c, "GetNotificationsHandler", err, map[string]any{"user_id": userID})
		return
	}
	if notifications == nil {
		notifications = []model.Notification{}
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NotificationsResponse{
		Notifications: notifications,
		UnreadCount:   h.service.UnreadCount(userID),
	}, "notifications retrieved successfully")
}

// MarkAllReadHandler handles POST /users/:user_id/notifications/read
func (h *AuctionHandler) MarkAllReadHandler(c *gin.Context) {
	userID := c.Param("user_id")
	updated, err := h.service.MarkAllRead(userID)
	if err != nil {
		helpers.HandleServiceError(c, "MarkAllReadHandler", err, map[string]any{"user_id": userID})
		return
	}
	utils.JSONResponse(c, http.StatusOK, helpers.MarkAllReadResponse{UserID: userID, Updated: updated}, "notifications marked as read")
}

// MarkReadHandler handles POST /notifications/:notification_id/read
func (h *AuctionHandler) MarkReadHandler(c *gin.Context) {
	notificationID := c.Param("notification_id")
	notification, err := h.service.MarkRead(notificationID)
	if err != nil {
		helpers.HandleServiceError(c, "MarkReadHandler", err, map[string]any{"notification_id": notificationID})
		return
	}
	utils.JSONResponse(c, http.StatusOK, notification, "notification marked as read")
}

// GetTokensHandler handles GET /users/:user_id/tokens
func (h *AuctionHandler) GetTokensHandler(c *gin.Context) {
	userID := c.Param("user_id")
	user, err := h.service.GetUser(userID)
	if err != nil {
		helpers.HandleServiceError(c, "GetTokensHandler", err, map[string]any{"user_id": userID})
		return
	}
	history, err := h.service.TokenHistory(userID)
	if err != nil {
		helpers.HandleServiceError(c, "GetTokensHandler", err, map[string]any{"user_id": userID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.TokensResponse{
		UserID:  userID,
		Balance: user.TokenBalance,
		History: history,
	}, "token balance retrieved successfully")
}

// PurchaseTokensHandler handles POST /users/:user_id/tokens/purchase
func (h *AuctionHandler) PurchaseTokensHandler(c *gin.Context) {
	userID := c.Param("user_id")
	var req helpers.PurchaseTokensRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "PurchaseTokensHandler", err)
		return
	}

	balance, err := h.service.PurchaseTokens(userID, req.PackageID)
	if err != nil {
		helpers.HandleServiceError(c, "PurchaseTokensHandler", err, map[string]any{
			"user_id":    userID,
			"package_id": req.PackageID,
		})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.BalanceResponse{UserID: userID, Balance: balance}, "tokens purchased successfully")
	helpers.LogSuccess("PurchaseTokensHandler", "tokens purchased successfully", map[string]any{
		"user_id":    userID,
		"package_id": req.PackageID,
		"balance":    balance,
	})
}

// ListTokenPackagesHandler handles GET /token-packages
func (h *AuctionHandler) ListTokenPackagesHandler(c *gin.Context) {
	utils.JSONResponse(c, http.StatusOK, h.service.TokenPackages(), "token packages retrieved successfully")
}

// CreateAuctionHandler handles POST /auctions
func (h *AuctionHandler) CreateAuctionHandler(c *gin.Context) {
	var req helpers.CreateAuctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "CreateAuctionHandler", err)
		return
	}

	spec := model.AuctionSpec{
		Title:       req.Title,
		Description: req.Description,
		Origin:      req.Origin,
		Destination: req.Destination,
		Weight:      req.Weight,
		Dimensions:  req.Dimensions,
		Budget:      req.Budget,
	}
	if req.EndTime != nil {
		spec.EndTime = *req.EndTime
	}

	auction, err := h.service.CreateAuction(spec, req.ShipperID)
	if err != nil {
		helpers.HandleServiceError(c, "CreateAuctionHandler", err, map[string]any{"shipper_id": req.ShipperID})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, helpers.ToAuctionResponse(auction), "auction created successfully")
	helpers.LogSuccess("CreateAuctionHandler", "auction created successfully", map[string]any{
		"auction_id": auction.AuctionID,
		"shipper_id": auction.ShipperID,
		"budget":     auction.Budget.String(),
		"end_time":   auction.EndTime,
	})
}

// ListAuctionsHandler handles GET /auctions
func (h *AuctionHandler) ListAuctionsHandler(c *gin.Context) {
	filter, err := helpers.ParseAuctionFilter(c)
	if err != nil {
		helpers.HandleBindError(c, "ListAuctionsHandler", err)
		return
	}

	auctions, err := h.service.ListAuctions(filter)
	if err != nil {
		helpers.HandleServiceError(c, "ListAuctionsHandler", err, nil)
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.ToAuctionResponses(auctions), "auctions retrieved successfully")
}

// GetAuctionHandler handles GET /auctions/:auction_id
func (h *AuctionHandler) GetAuctionHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	auction, err := h.service.GetAuction(auctionID)
	if err != nil {
		helpers.HandleServiceError(c, "GetAuctionHandler", err, map[string]any{"auction_id": auctionID})
		return
	}
	utils.JSONResponse(c, http.StatusOK, helpers.ToAuctionResponse(auction), "auction retrieved successfully")
}

// PlaceBidHandler handles POST /auctions/:auction_id/bids
func (h *AuctionHandler) PlaceBidHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	var req helpers.PlaceBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "PlaceBidHandler", err)
		return
	}

	bid, err := h.service.PlaceBid(auctionID, req.TransporterID, req.Amount, req.Notes)
	if err != nil {
		helpers.HandleServiceError(c, "PlaceBidHandler", err, map[string]any{
			"auction_id":     auctionID,
			"transporter_id": req.TransporterID,
		})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, helpers.ToBidResponse(bid), "bid placed successfully")
	helpers.LogSuccess("PlaceBidHandler", "bid placed successfully", map[string]any{
		"bid_id":         bid.BidID,
		"auction_id":     auctionID,
		"transporter_id": bid.TransporterID,
		"amount":         bid.Amount.String(),
	})
}

// GetBidsHandler handles GET /auctions/:auction_id/bids
func (h *AuctionHandler) GetBidsHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	ranked := c.Query("sort") == "rank"
	bids, err := h.service.GetBids(auctionID, ranked)
	if err != nil {
		helpers.HandleServiceError(c, "GetBidsHandler", err, map[string]any{"auction_id": auctionID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.ToBidResponses(bids), "bids retrieved successfully")
	helpers.LogSuccess("GetBidsHandler", "bids retrieved successfully", map[string]any{
		"auction_id": auctionID,
		"ranked":     ranked,
		"count":      len(bids),
	})
}

// GetWinningBidHandler handles GET /auctions/:auction_id/winning
func (h *AuctionHandler) GetWinningBidHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	bid, err := h.service.GetWinningBid(auctionID)
	if err != nil {
		helpers.HandleServiceError(c, "GetWinningBidHandler", err, map[string]any{"auction_id": auctionID})
		return
	}
	utils.JSONResponse(c, http.StatusOK, helpers.ToBidResponse(bid), "winning bid retrieved successfully")
}

// AcceptBidHandler handles POST /auctions/:auction_id/bids/:bid_id/accept
func (h *AuctionHandler) AcceptBidHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	bidID := c.Param("bid_id")
	auction, err := h.service.AcceptBid(auctionID, bidID)
	if err != nil {
		helpers.HandleServiceError(c, "AcceptBidHandler", err, map[string]any{
			"auction_id": auctionID,
			"bid_id":     bidID,
		})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.ToAuctionResponse(auction), "bid accepted successfully")
	helpers.LogSuccess("AcceptBidHandler", "bid accepted successfully", map[string]any{
		"auction_id":     auctionID,
		"bid_id":         bidID,
		"transporter_id": auction.WinningTransporterID,
	})
}

// CancelAuctionHandler handles POST /auctions/:auction_id/cancel
func (h *AuctionHandler) CancelAuctionHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	var req helpers.CancelAuctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "CancelAuctionHandler", err)
		return
	}

	auction, err := h.service.CancelAuction(auctionID, req.ShipperID)
	if err != nil {
		helpers.HandleServiceError(c, "CancelAuctionHandler", err, map[string]any{
			"auction_id": auctionID,
			"shipper_id": req.ShipperID,
		})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.ToAuctionResponse(auction), "auction cancelled successfully")
	helpers.LogSuccess("CancelAuctionHandler", "auction cancelled successfully", map[string]any{"auction_id": auctionID})
}

// RateHandler handles POST /auctions/:auction_id/ratings
func (h *AuctionHandler) RateHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	var req helpers.RateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "RateHandler", err)
		return
	}

	rating, err := h.service.RateCounterpart(auctionID, req.FromUserID, req.Score, req.Review)
	if err != nil {
		helpers.HandleServiceError(c, "RateHandler", err, map[string]any{
			"auction_id":   auctionID,
			"from_user_id": req.FromUserID,
		})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, rating, "rating recorded successfully")
	helpers.LogSuccess("RateHandler", "rating recorded successfully", map[string]any{
		"auction_id": auctionID,
		"to_user_id": rating.ToUserID,
		"score":      rating.Score,
	})
}

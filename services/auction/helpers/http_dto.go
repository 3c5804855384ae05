package helpers

import (
	"time"

	"github.com/budisantoso88/shipbid-app/internal/evaluator"
	model "github.com/budisantoso88/shipbid-app/internal/models"

	"github.com/shopspring/decimal"
)

// Request DTOs. Amounts are decimals so cents survive the JSON round trip;
// their range is checked by the lifecycle, not by binding.
type RegisterUserRequest struct {
	UserID         string         `json:"user_id"`
	Name           string         `json:"name" binding:"required"`
	Email          string         `json:"email" binding:"omitempty,email"`
	UserType       model.UserType `json:"user_type" binding:"required,oneof=shipper transporter"`
	OpeningBalance int            `json:"opening_balance" binding:"gte=0"`
}

type CreateAuctionRequest struct {
	ShipperID   string          `json:"shipper_id" binding:"required"`
	Title       string          `json:"title" binding:"required"`
	Description string          `json:"description"`
	Origin      string          `json:"origin" binding:"required"`
	Destination string          `json:"destination" binding:"required"`
	Weight      float64         `json:"weight" binding:"gte=0"`
	Dimensions  string          `json:"dimensions"`
	Budget      decimal.Decimal `json:"budget"`
	EndTime     *time.Time      `json:"end_time"`
}

type PlaceBidRequest struct {
	TransporterID string          `json:"transporter_id" binding:"required"`
	Amount        decimal.Decimal `json:"amount"`
	Notes         string          `json:"notes"`
}

type CancelAuctionRequest struct {
	ShipperID string `json:"shipper_id" binding:"required"`
}

type PurchaseTokensRequest struct {
	PackageID string `json:"package_id" binding:"required"`
}

type RateRequest struct {
	FromUserID string `json:"from_user_id" binding:"required"`
	Score      int    `json:"score" binding:"required"`
	Review     string `json:"review"`
}

// Response DTOs
type BidResponse struct {
	BidID         string          `json:"bid_id"`
	AuctionID     string          `json:"auction_id"`
	TransporterID string          `json:"transporter_id"`
	Amount        decimal.Decimal `json:"amount"`
	Notes         string          `json:"notes"`
	Status        model.BidStatus `json:"status"`
	CreatedAt     string          `json:"created_at"`
	// set only where the auction budget is known
	ExceedsBudget *bool `json:"exceeds_budget,omitempty"`
}

type AuctionResponse struct {
	AuctionID            string              `json:"auction_id"`
	Title                string              `json:"title"`
	Description          string              `json:"description"`
	Origin               string              `json:"origin"`
	Destination          string              `json:"destination"`
	Weight               float64             `json:"weight"`
	Dimensions           string              `json:"dimensions"`
	Budget               decimal.Decimal     `json:"budget"`
	CreatedAt            string              `json:"created_at"`
	EndTime              string              `json:"end_time"`
	Status               model.AuctionStatus `json:"status"`
	ShipperID            string              `json:"shipper_id"`
	WinningBidID         string              `json:"winning_bid_id,omitempty"`
	WinningTransporterID string              `json:"winning_transporter_id,omitempty"`
	BestBidID            string              `json:"best_bid_id,omitempty"`
	Bids                 []BidResponse       `json:"bids"`
}

type NotificationsResponse struct {
	Notifications []model.Notification `json:"notifications"`
	UnreadCount   int                  `json:"unread_count"`
}

type TokensResponse struct {
	UserID  string              `json:"user_id"`
	Balance int                 `json:"balance"`
	History []model.LedgerEntry `json:"history"`
}

type BalanceResponse struct {
	UserID  string `json:"user_id"`
	Balance int    `json:"balance"`
}

type MarkAllReadResponse struct {
	UserID  string `json:"user_id"`
	Updated int    `json:"updated"`
}

func ToBidResponse(b model.Bid) BidResponse {
	return BidResponse{
		BidID:         b.BidID,
		AuctionID:     b.AuctionID,
		TransporterID: b.TransporterID,
		Amount:        b.Amount,
		Notes:         b.Notes,
		Status:        b.Status,
		CreatedAt:     b.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func ToBidResponses(bids []model.Bid) []BidResponse {
	out := make([]BidResponse, 0, len(bids))
	for _, b := range bids {
		out = append(out, ToBidResponse(b))
	}
	return out
}

// ToAuctionResponse also flags bids above the budget and, while the auction is
// active, suggests the best pending bid
func ToAuctionResponse(a model.Auction) AuctionResponse {
	bids := make([]BidResponse, 0, len(a.Bids))
	for _, b := range a.Bids {
		resp := ToBidResponse(b)
		exceeds := evaluator.ExceedsBudget(b, a)
		resp.ExceedsBudget = &exceeds
		bids = append(bids, resp)
	}

	var bestBidID string
	if a.Status == model.AuctionActive {
		if best, ok := evaluator.Best(a.Bids); ok {
			bestBidID = best.BidID
		}
	}

	return AuctionResponse{
		AuctionID:            a.AuctionID,
		Title:                a.Title,
		Description:          a.Description,
		Origin:               a.Origin,
		Destination:          a.Destination,
		Weight:               a.Weight,
		Dimensions:           a.Dimensions,
		Budget:               a.Budget,
		CreatedAt:            a.CreatedAt.UTC().Format(time.RFC3339),
		EndTime:              a.EndTime.UTC().Format(time.RFC3339),
		Status:               a.Status,
		ShipperID:            a.ShipperID,
		WinningBidID:         a.WinningBidID,
		WinningTransporterID: a.WinningTransporterID,
		BestBidID:            bestBidID,
		Bids:                 bids,
	}
}

func ToAuctionResponses(auctions []model.Auction) []AuctionResponse {
	out := make([]AuctionResponse, 0, len(auctions))
	for _, a := range auctions {
		out = append(out, ToAuctionResponse(a))
	}
	return out
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// UserType distinguishes the two sides of the marketplace
type UserType string

const (
	UserTypeShipper     UserType = "shipper"
	UserTypeTransporter UserType = "transporter"
)

// AuctionStatus is the lifecycle state of an auction
type AuctionStatus string

const (
	AuctionActive    AuctionStatus = "active"
	AuctionCompleted AuctionStatus = "completed"
	AuctionCancelled AuctionStatus = "cancelled"
)

// BidStatus is the lifecycle state of a bid
type BidStatus string

const (
	BidPending  BidStatus = "pending"
	BidAccepted BidStatus = "accepted"
	BidRejected BidStatus = "rejected"
)

// NotificationType groups notifications by what triggered them
type NotificationType string

const (
	NotificationAuction NotificationType = "auction"
	NotificationBid     NotificationType = "bid"
	NotificationToken   NotificationType = "token"
	NotificationSystem  NotificationType = "system"
)

// User represents a marketplace participant
type User struct {
	UserID       string   `json:"user_id"`
	Name         string   `json:"name"`
	Email        string   `json:"email"`
	UserType     UserType `json:"user_type"`
	TokenBalance int      `json:"token_balance"`
	Rating       float64  `json:"rating"`
	ReviewCount  int      `json:"review_count"`
}

// Auction represents a shipment lot open for transporter bids
type Auction struct {
	AuctionID            string          `json:"auction_id"`
	Title                string          `json:"title"`
	Description          string          `json:"description"`
	Origin               string          `json:"origin"`
	Destination          string          `json:"destination"`
	Weight               float64         `json:"weight"`
	Dimensions           string          `json:"dimensions"`
	Budget               decimal.Decimal `json:"budget"`
	CreatedAt            time.Time       `json:"created_at"`
	EndTime              time.Time       `json:"end_time"`
	Status               AuctionStatus   `json:"status"`
	ShipperID            string          `json:"shipper_id"`
	WinningBidID         string          `json:"winning_bid_id,omitempty"`
	WinningTransporterID string          `json:"winning_transporter_id,omitempty"`
	Bids                 []Bid           `json:"bids"`
}

// Clone returns a copy of the auction that does not share its bid slice
func (a Auction) Clone() Auction {
	a.Bids = append([]Bid(nil), a.Bids...)
	return a
}

// FindBid returns the index of the bid with the given ID, or -1
func (a Auction) FindBid(bidID string) int {
	for i, b := range a.Bids {
		if b.BidID == bidID {
			return i
		}
	}
	return -1
}

// Bid represents a transporter's offer against an auction
type Bid struct {
	BidID         string          `json:"bid_id"`
	AuctionID     string          `json:"auction_id"`
	TransporterID string          `json:"transporter_id"`
	Amount        decimal.Decimal `json:"amount"`
	Notes         string          `json:"notes"`
	CreatedAt     time.Time       `json:"created_at"`
	Status        BidStatus       `json:"status"`
}

// AuctionSpec carries the shipper-supplied fields of a new auction.
// A zero EndTime means the configured default duration applies.
type AuctionSpec struct {
	Title       string
	Description string
	Origin      string
	Destination string
	Weight      float64
	Dimensions  string
	Budget      decimal.Decimal
	EndTime     time.Time
}

// PriceRange bounds an auction's budget; nil ends are open
type PriceRange struct {
	Min *decimal.Decimal
	Max *decimal.Decimal
}

// AuctionFilter narrows ListAuctions. Zero values match everything.
type AuctionFilter struct {
	Status              AuctionStatus
	OriginContains      string
	DestinationContains string
	Search              string
	PriceRange          PriceRange
}

// Notification is a message delivered to a single user
type Notification struct {
	NotificationID string           `json:"notification_id"`
	UserID         string           `json:"user_id"`
	Title          string           `json:"title"`
	Message        string           `json:"message"`
	Read           bool             `json:"read"`
	CreatedAt      time.Time        `json:"created_at"`
	Type           NotificationType `json:"type"`
	LinkTo         string           `json:"link_to,omitempty"`
}

// TokenPackage is a purchasable bundle of tokens
type TokenPackage struct {
	PackageID   string          `json:"package_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	TokenAmount int             `json:"token_amount"`
	Price       decimal.Decimal `json:"price"`
	Popular     bool            `json:"popular"`
}

// LedgerReason explains why a user's token balance changed
type LedgerReason string

const (
	ReasonOpeningBalance  LedgerReason = "opening_balance"
	ReasonAuctionCreation LedgerReason = "auction_creation"
	ReasonBidPlacement    LedgerReason = "bid_placement"
	ReasonTokenPurchase   LedgerReason = "token_purchase"
)

// LedgerEntry records one change to a user's token balance
type LedgerEntry struct {
	EntryID   string       `json:"entry_id"`
	UserID    string       `json:"user_id"`
	Delta     int          `json:"delta"`
	Balance   int          `json:"balance"`
	Reason    LedgerReason `json:"reason"`
	Reference string       `json:"reference,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}

// Rating is feedback left by one party of a completed auction for the other
type Rating struct {
	RatingID   string    `json:"rating_id"`
	FromUserID string    `json:"from_user_id"`
	ToUserID   string    `json:"to_user_id"`
	AuctionID  string    `json:"auction_id"`
	Score      int       `json:"score"`
	Review     string    `json:"review"`
	CreatedAt  time.Time `json:"created_at"`
}

// Package evaluator holds the stateless bid rules: whether a bid may be
// placed against an auction, and how competing bids are ordered.
package evaluator

import (
	"fmt"
	"slices"

	"github.com/budisantoso88/shipbid-app/internal/auctionerrors"
	model "github.com/budisantoso88/shipbid-app/internal/models"

	"github.com/shopspring/decimal"
)

// monetaryPrecision is the number of decimal places kept for currency amounts
const monetaryPrecision int32 = 2

// Normalize rounds a currency amount to monetaryPrecision
func Normalize(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(monetaryPrecision)
}

// Validate checks that bid may be placed against auction.
// The auction budget is a reference figure only; bids above it are accepted.
func Validate(bid model.Bid, auction model.Auction) error {
	if bid.AuctionID != auction.AuctionID {
		return fmt.Errorf("evaluator: %w - bid targets auction %s, not %s",
			auctionerrors.ErrInvalidState, bid.AuctionID, auction.AuctionID)
	}
	if auction.Status != model.AuctionActive {
		return fmt.Errorf("evaluator: %w - auction %s is %s", auctionerrors.ErrAuctionClosed, auction.AuctionID, auction.Status)
	}
	if !bid.CreatedAt.Before(auction.EndTime) {
		return fmt.Errorf("evaluator: %w - auction %s ended at %s",
			auctionerrors.ErrAuctionClosed, auction.AuctionID, auction.EndTime.UTC().Format("2006-01-02T15:04:05Z07:00"))
	}
	if Normalize(bid.Amount).Sign() <= 0 {
		return fmt.Errorf("evaluator: %w - non-positive bid amount %s", auctionerrors.ErrInvalidAmount, bid.Amount)
	}
	return nil
}

// ExceedsBudget reports whether the bid asks for more than the shipper's posted budget
func ExceedsBudget(bid model.Bid, auction model.Auction) bool {
	return Normalize(bid.Amount).GreaterThan(Normalize(auction.Budget))
}

// Rank returns the bids ordered from best to worst for the shipper:
// lowest amount first, earliest submission breaking ties. The input is not modified.
func Rank(bids []model.Bid) []model.Bid {
	ranked := slices.Clone(bids)
	slices.SortStableFunc(ranked, func(a, b model.Bid) int {
		if c := Normalize(a.Amount).Cmp(Normalize(b.Amount)); c != 0 {
			return c
		}
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return ranked
}

// Best returns the top-ranked pending bid, if any
func Best(bids []model.Bid) (model.Bid, bool) {
	for _, b := range Rank(bids) {
		if b.Status == model.BidPending {
			return b, true
		}
	}
	return model.Bid{}, false
}

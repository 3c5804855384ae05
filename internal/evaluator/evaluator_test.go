package evaluator

import (
	"errors"
	"testing"
	"time"

	"github.com/budisantoso88/shipbid-app/internal/auctionerrors"
	model "github.com/budisantoso88/shipbid-app/internal/models"

	"github.com/peterldowns/testy/check"
	"github.com/shopspring/decimal"
)

var now = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func activeAuction() model.Auction {
	return model.Auction{
		AuctionID: "a1",
		Budget:    decimal.NewFromInt(2500000),
		CreatedAt: now.Add(-time.Hour),
		EndTime:   now.Add(time.Hour),
		Status:    model.AuctionActive,
	}
}

func bid(id string, amount string, at time.Time) model.Bid {
	return model.Bid{
		BidID:     id,
		AuctionID: "a1",
		Amount:    decimal.RequireFromString(amount),
		CreatedAt: at,
		Status:    model.BidPending,
	}
}

func ids(bids []model.Bid) []string {
	out := make([]string, 0, len(bids))
	for _, b := range bids {
		out = append(out, b.BidID)
	}
	return out
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		bid     model.Bid
		mutate  func(a *model.Auction)
		wantErr error
	}{
		{name: "valid", bid: bid("b1", "2300000", now)},
		{name: "above_budget_allowed", bid: bid("b1", "9000000", now)},
		{name: "zero_amount", bid: bid("b1", "0", now), wantErr: auctionerrors.ErrInvalidAmount},
		{name: "negative_amount", bid: bid("b1", "-10", now), wantErr: auctionerrors.ErrInvalidAmount},
		{name: "rounds_to_zero", bid: bid("b1", "0.001", now), wantErr: auctionerrors.ErrInvalidAmount},
		{
			name:    "completed_auction",
			bid:     bid("b1", "100", now),
			mutate:  func(a *model.Auction) { a.Status = model.AuctionCompleted },
			wantErr: auctionerrors.ErrAuctionClosed,
		},
		{
			name:    "cancelled_auction",
			bid:     bid("b1", "100", now),
			mutate:  func(a *model.Auction) { a.Status = model.AuctionCancelled },
			wantErr: auctionerrors.ErrAuctionClosed,
		},
		{
			name:    "closed_wins_over_amount",
			bid:     bid("b1", "0", now),
			mutate:  func(a *model.Auction) { a.Status = model.AuctionCancelled },
			wantErr: auctionerrors.ErrAuctionClosed,
		},
		{name: "at_end_time", bid: bid("b1", "100", now.Add(time.Hour)), wantErr: auctionerrors.ErrAuctionClosed},
		{name: "just_before_end", bid: bid("b1", "100", now.Add(time.Hour-time.Nanosecond))},
		{
			name:    "wrong_auction",
			bid:     bid("b1", "100", now),
			mutate:  func(a *model.Auction) { a.AuctionID = "a2" },
			wantErr: auctionerrors.ErrInvalidState,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			auction := activeAuction()
			if tc.mutate != nil {
				tc.mutate(&auction)
			}

			err := Validate(tc.bid, auction)
			if tc.wantErr == nil {
				check.NoError(t, err)
				return
			}
			check.Error(t, err)
			check.True(t, errors.Is(err, tc.wantErr))
		})
	}
}

func TestExceedsBudget(t *testing.T) {
	auction := activeAuction()

	check.False(t, ExceedsBudget(bid("b1", "2300000", now), auction))
	check.False(t, ExceedsBudget(bid("b1", "2500000.004", now), auction))
	check.True(t, ExceedsBudget(bid("b1", "2500000.01", now), auction))
}

func TestRank_LowestFirst(t *testing.T) {
	bids := []model.Bid{
		bid("mid", "2300000", now),
		bid("high", "2800000", now.Add(time.Second)),
		bid("low", "1900000", now.Add(2*time.Second)),
	}

	ranked := Rank(bids)

	check.Equal(t, []string{"low", "mid", "high"}, ids(ranked))
	// input untouched
	check.Equal(t, []string{"mid", "high", "low"}, ids(bids))
}

func TestRank_TiesByEarliest(t *testing.T) {
	bids := []model.Bid{
		bid("later", "2000000", now.Add(time.Minute)),
		bid("earlier", "2000000.00", now),
		bid("cheapest", "1500000", now.Add(time.Hour)),
	}

	check.Equal(t, []string{"cheapest", "earlier", "later"}, ids(Rank(bids)))
}

func TestRank_Empty(t *testing.T) {
	check.Equal(t, 0, len(Rank(nil)))
	check.Equal(t, 0, len(Rank([]model.Bid{})))
}

func TestBest(t *testing.T) {
	rejected := bid("rejected", "1000", now)
	rejected.Status = model.BidRejected
	bids := []model.Bid{
		bid("pending-high", "3000", now),
		rejected,
		bid("pending-low", "2000", now.Add(time.Second)),
	}

	best, ok := Best(bids)
	check.True(t, ok)
	check.Equal(t, "pending-low", best.BidID)

	_, ok = Best([]model.Bid{rejected})
	check.False(t, ok)
}

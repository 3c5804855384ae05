package lifecycle

import (
	"strings"

	model "github.com/budisantoso88/shipbid-app/internal/models"
)

// matches reports whether the auction passes every set field of the filter.
// Text matches are case-insensitive; the price range applies to the budget, inclusive.
func matches(a model.Auction, f model.AuctionFilter) bool {
	if f.Status != "" && a.Status != f.Status {
		return false
	}
	if !containsFold(a.Origin, f.OriginContains) {
		return false
	}
	if !containsFold(a.Destination, f.DestinationContains) {
		return false
	}
	if f.Search != "" &&
		!containsFold(a.Title, f.Search) &&
		!containsFold(a.Origin, f.Search) &&
		!containsFold(a.Destination, f.Search) {
		return false
	}
	if f.PriceRange.Min != nil && a.Budget.LessThan(*f.PriceRange.Min) {
		return false
	}
	if f.PriceRange.Max != nil && a.Budget.GreaterThan(*f.PriceRange.Max) {
		return false
	}
	return true
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(strings.TrimSpace(substr)))
}

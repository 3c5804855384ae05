package app

import (
	"fmt"
	"time"

	"github.com/budisantoso88/shipbid-app/internal/lifecycle"
	model "github.com/budisantoso88/shipbid-app/internal/models"

	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"
)

// Seed loads a small demo marketplace: two shippers, one transporter,
// three open auctions and one pending bid. It goes through the controller,
// so the tokens spent show up in the ledger.
func Seed(c *lifecycle.Controller, clock clockwork.Clock) error {
	users := []struct {
		user    model.User
		balance int
	}{
		{model.User{UserID: "1", Name: "John Doe", Email: "john@example.com", UserType: model.UserTypeShipper, Rating: 4.5, ReviewCount: 12}, 100},
		{model.User{UserID: "2", Name: "Jane Smith", Email: "jane@example.com", UserType: model.UserTypeTransporter, Rating: 4.8, ReviewCount: 24}, 80},
		{model.User{UserID: "3", Name: "CV. Sejahtera", Email: "ops@sejahtera.co.id", UserType: model.UserTypeShipper, Rating: 4.2, ReviewCount: 7}, 60},
	}
	for _, u := range users {
		if _, err := c.RegisterUser(u.user, u.balance); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}

	auctions := []struct {
		shipperID string
		spec      model.AuctionSpec
		duration  time.Duration
	}{
		{"1", model.AuctionSpec{
			Title:       "Jakarta to Surabaya",
			Description: "Electronics shipment requiring careful handling. Delivery needed within 3 days.",
			Origin:      "Jakarta", Destination: "Surabaya",
			Weight: 50, Dimensions: "100x80x60 cm",
			Budget: decimal.NewFromInt(2500000),
		}, 2 * time.Hour},
		{"1", model.AuctionSpec{
			Title:       "Bandung to Jakarta",
			Description: "Furniture shipment including a sofa set and dining table. Requires proper packaging.",
			Origin:      "Bandung", Destination: "Jakarta",
			Weight: 200, Dimensions: "200x150x100 cm",
			Budget: decimal.NewFromInt(3000000),
		}, 4 * time.Hour},
		{"3", model.AuctionSpec{
			Title:       "Surabaya to Malang",
			Description: "Food products requiring temperature-controlled environment. Urgent delivery.",
			Origin:      "Surabaya", Destination: "Malang",
			Weight: 100, Dimensions: "120x80x70 cm",
			Budget: decimal.NewFromInt(1800000),
		}, 5 * time.Hour},
	}

	var first model.Auction
	for i, a := range auctions {
		spec := a.spec
		spec.EndTime = clock.Now().UTC().Add(a.duration)
		created, err := c.CreateAuction(spec, a.shipperID)
		if err != nil {
			return fmt.Errorf("seed: %w", err)
		}
		if i == 0 {
			first = created
		}
	}

	if _, err := c.PlaceBid(first.AuctionID, "2", decimal.NewFromInt(2300000), "Can deliver in 2 days with tracking"); err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	return nil
}

package perftests

import (
	"fmt"
	"io"
	"testing"

	"github.com/budisantoso88/shipbid-app/internal/catalog"
	"github.com/budisantoso88/shipbid-app/internal/ledger"
	"github.com/budisantoso88/shipbid-app/internal/lifecycle"
	model "github.com/budisantoso88/shipbid-app/internal/models"
	"github.com/budisantoso88/shipbid-app/internal/notification"
	"github.com/budisantoso88/shipbid-app/internal/repository"
	"github.com/budisantoso88/shipbid-app/utils"

	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"
)

// benchBalance is large enough that no benchmark runs out of tokens
const benchBalance = 1 << 40

func init() {
	// per-operation logs would dominate the measurements
	utils.SetOutput(io.Discard)
}

// newController wires a controller on the real clock with no outbound publisher
func newController() *lifecycle.Controller {
	clock := clockwork.NewRealClock()
	repo := repository.NewMemoryRepo()
	return lifecycle.NewController(lifecycle.Deps{
		Auctions: repo,
		Users:    repo,
		Ledger:   ledger.New(clock),
		Notifier: notification.NewEmitter(clock, nil, notification.EmitterConfig{}),
		Catalog:  catalog.Default(),
		Clock:    clock,
	}, lifecycle.DefaultConfig)
}

func mustRegister(tb testing.TB, c *lifecycle.Controller, id string, typ model.UserType) {
	tb.Helper()
	if _, err := c.RegisterUser(model.User{UserID: id, Name: id, UserType: typ}, benchBalance); err != nil {
		tb.Fatalf("failed to register %s: %v", id, err)
	}
}

// seedAuctions registers one shipper and opens n auctions, returning their IDs
func seedAuctions(tb testing.TB, c *lifecycle.Controller, n int) []string {
	tb.Helper()
	mustRegister(tb, c, "shipper", model.UserTypeShipper)

	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		a, err := c.CreateAuction(model.AuctionSpec{
			Title:       fmt.Sprintf("Benchmark lot %d", i),
			Origin:      "Jakarta",
			Destination: "Surabaya",
			Budget:      decimal.NewFromInt(2500000),
		}, "shipper")
		if err != nil {
			tb.Fatalf("failed to create auction: %v", err)
		}
		ids = append(ids, a.AuctionID)
	}
	return ids
}

// seedTransporters registers n transporters named transporter_<i>
func seedTransporters(tb testing.TB, c *lifecycle.Controller, n int) []string {
	tb.Helper()
	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("transporter_%d", i)
		mustRegister(tb, c, id, model.UserTypeTransporter)
		ids = append(ids, id)
	}
	return ids
}

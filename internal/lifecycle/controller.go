package lifecycle

import (
	"fmt"
	"math"
	"time"

	"github.com/budisantoso88/shipbid-app/internal/auctionerrors"
	"github.com/budisantoso88/shipbid-app/internal/catalog"
	"github.com/budisantoso88/shipbid-app/internal/evaluator"
	"github.com/budisantoso88/shipbid-app/internal/ledger"
	"github.com/budisantoso88/shipbid-app/internal/metrics"
	model "github.com/budisantoso88/shipbid-app/internal/models"
	"github.com/budisantoso88/shipbid-app/internal/notification"
	"github.com/budisantoso88/shipbid-app/internal/repository"
	"github.com/budisantoso88/shipbid-app/utils"

	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"
)

// Config holds the tunable rules of the auction lifecycle
type Config struct {
	AuctionTokenCost int
	BidTokenCost     int
	DefaultDuration  time.Duration
	EndingSoonWindow time.Duration
}

// DefaultConfig matches the costs and timings the marketplace launched with
var DefaultConfig = Config{
	AuctionTokenCost: 20,
	BidTokenCost:     10,
	DefaultDuration:  4 * time.Hour,
	EndingSoonWindow: 15 * time.Minute,
}

// Deps are the collaborators a Controller drives
type Deps struct {
	Auctions repository.AuctionDB
	Users    repository.UserDB
	Ledger   *ledger.Ledger
	Notifier *notification.Emitter
	Catalog  *catalog.Catalog
	Clock    clockwork.Clock
}

// Controller owns every auction state transition. Operations touching the same
// auction are serialized; a failed operation leaves all state unchanged.
type Controller struct {
	auctions repository.AuctionDB
	users    repository.UserDB
	ledger   *ledger.Ledger
	notifier *notification.Emitter
	catalog  *catalog.Catalog
	clock    clockwork.Clock
	config   Config
	locks    *keyedMutex
}

// NewController creates a Controller
func NewController(deps Deps, config Config) *Controller {
	return &Controller{
		auctions: deps.Auctions,
		users:    deps.Users,
		ledger:   deps.Ledger,
		notifier: deps.Notifier,
		catalog:  deps.Catalog,
		clock:    deps.Clock,
		config:   config,
		locks:    newKeyedMutex(),
	}
}

// RegisterUser creates a user profile and opens their token account
func (c *Controller) RegisterUser(user model.User, openingBalance int) (model.User, error) {
	if user.UserType != model.UserTypeShipper && user.UserType != model.UserTypeTransporter {
		return model.User{}, c.fail("register_user", fmt.Errorf("service: %w - unknown user type %q", auctionerrors.ErrInvalidState, user.UserType))
	}
	if openingBalance < 0 {
		return model.User{}, c.fail("register_user", fmt.Errorf("service: %w - negative opening balance", auctionerrors.ErrInvalidAmount))
	}
	if user.UserID == "" {
		user.UserID = utils.GenerateID()
	}
	user.TokenBalance = 0

	if err := c.users.AddUser(user); err != nil {
		return model.User{}, c.fail("register_user", fmt.Errorf("service: failed to add user %s: %w", user.UserID, err))
	}
	if err := c.ledger.Open(user.UserID, openingBalance); err != nil {
		// a profile without a token account must not stay behind
		if rmErr := c.users.RemoveUser(user.UserID); rmErr != nil {
			utils.Error("service: failed to roll back user", map[string]any{
				"user_id": user.UserID,
				"error":   rmErr.Error(),
			})
		}
		return model.User{}, c.fail("register_user", fmt.Errorf("service: failed to open token account for %s: %w", user.UserID, err))
	}

	user.TokenBalance = openingBalance
	return user, nil
}

// GetUser returns a profile with the current token balance
func (c *Controller) GetUser(userID string) (model.User, error) {
	user, err := c.users.GetUser(userID)
	if err != nil {
		return model.User{}, fmt.Errorf("service: failed to get user %s: %w", userID, err)
	}
	balance, err := c.ledger.Balance(userID)
	if err != nil {
		return model.User{}, fmt.Errorf("service: failed to get balance for %s: %w", userID, err)
	}
	user.TokenBalance = balance
	return user, nil
}

// CreateAuction publishes a new auction for shipperID, paying the auction token cost
func (c *Controller) CreateAuction(spec model.AuctionSpec, shipperID string) (model.Auction, error) {
	shipper, err := c.users.GetUser(shipperID)
	if err != nil {
		return model.Auction{}, c.fail("create_auction", fmt.Errorf("service: failed to get shipper %s: %w", shipperID, err))
	}
	if shipper.UserType != model.UserTypeShipper {
		return model.Auction{}, c.fail("create_auction", fmt.Errorf("service: %w - user %s is a %s, only shippers create auctions",
			auctionerrors.ErrInvalidState, shipperID, shipper.UserType))
	}
	budget := evaluator.Normalize(spec.Budget)
	if !budget.IsPositive() {
		return model.Auction{}, c.fail("create_auction", fmt.Errorf("service: %w - budget must be positive", auctionerrors.ErrInvalidAmount))
	}
	if spec.Weight < 0 || math.IsNaN(spec.Weight) || math.IsInf(spec.Weight, 0) {
		return model.Auction{}, c.fail("create_auction", fmt.Errorf("service: %w - invalid weight %v", auctionerrors.ErrInvalidAmount, spec.Weight))
	}

	now := c.clock.Now().UTC()
	endTime := spec.EndTime.UTC()
	if spec.EndTime.IsZero() {
		endTime = now.Add(c.config.DefaultDuration)
	}

	auction := model.Auction{
		AuctionID:   utils.GenerateID(),
		Title:       spec.Title,
		Description: spec.Description,
		Origin:      spec.Origin,
		Destination: spec.Destination,
		Weight:      spec.Weight,
		Dimensions:  spec.Dimensions,
		Budget:      budget,
		CreatedAt:   now,
		EndTime:     endTime,
		Status:      model.AuctionActive,
		ShipperID:   shipperID,
		Bids:        []model.Bid{},
	}

	err = c.ledger.Spend(shipperID, c.config.AuctionTokenCost, model.ReasonAuctionCreation, auction.AuctionID, func() error {
		return c.auctions.CreateAuction(auction)
	})
	if err != nil {
		return model.Auction{}, c.fail("create_auction", fmt.Errorf("service: failed to create auction for shipper %s: %w", shipperID, err))
	}

	metrics.AuctionsCreatedTotal.Inc()
	metrics.ActiveAuctions.Inc()
	metrics.TokensDebitedTotal.WithLabelValues(string(model.ReasonAuctionCreation)).Add(float64(c.config.AuctionTokenCost))
	return auction, nil
}

// PlaceBid records a pending bid from transporterID, paying the bid token cost,
// and tells the shipper about it
func (c *Controller) PlaceBid(auctionID, transporterID string, amount decimal.Decimal, notes string) (model.Bid, error) {
	transporter, err := c.users.GetUser(transporterID)
	if err != nil {
		return model.Bid{}, c.fail("place_bid", fmt.Errorf("service: failed to get transporter %s: %w", transporterID, err))
	}
	if transporter.UserType != model.UserTypeTransporter {
		return model.Bid{}, c.fail("place_bid", fmt.Errorf("service: %w - user %s is a %s, only transporters bid",
			auctionerrors.ErrInvalidState, transporterID, transporter.UserType))
	}

	unlock := c.locks.Lock(auctionID)
	defer unlock()

	auction, err := c.auctions.GetAuction(auctionID)
	if err != nil {
		return model.Bid{}, c.fail("place_bid", fmt.Errorf("service: failed to get auction %s: %w", auctionID, err))
	}
	now := c.clock.Now().UTC()
	auction = c.expireIfDue(auction, now)

	bid := model.Bid{
		BidID:         utils.GenerateID(),
		AuctionID:     auctionID,
		TransporterID: transporterID,
		Amount:        evaluator.Normalize(amount),
		Notes:         notes,
		CreatedAt:     now,
		Status:        model.BidPending,
	}
	if err := evaluator.Validate(bid, auction); err != nil {
		return model.Bid{}, c.fail("place_bid", fmt.Errorf("service: invalid bid on auction %s: %w", auctionID, err))
	}

	err = c.ledger.Spend(transporterID, c.config.BidTokenCost, model.ReasonBidPlacement, bid.BidID, func() error {
		updated := auction.Clone()
		updated.Bids = append(updated.Bids, bid)
		return c.auctions.SaveAuction(updated)
	})
	if err != nil {
		return model.Bid{}, c.fail("place_bid", fmt.Errorf("service: failed to record bid on auction %s by %s: %w", auctionID, transporterID, err))
	}

	metrics.BidsPlacedTotal.Inc()
	metrics.TokensDebitedTotal.WithLabelValues(string(model.ReasonBidPlacement)).Add(float64(c.config.BidTokenCost))
	message := fmt.Sprintf("Your shipment auction %q has received a new bid", auction.Title)
	if evaluator.ExceedsBudget(bid, auction) {
		message += " above your budget"
	}
	c.notifier.Emit(auction.ShipperID, "New bid received", message, model.NotificationBid, auctionLink(auctionID))
	return bid, nil
}

// AcceptBid picks the winner of an active auction: the bid becomes accepted, every
// other bid rejected, and the auction completed, all in one step
func (c *Controller) AcceptBid(auctionID, bidID string) (model.Auction, error) {
	unlock := c.locks.Lock(auctionID)
	defer unlock()

	auction, err := c.auctions.GetAuction(auctionID)
	if err != nil {
		return model.Auction{}, c.fail("accept_bid", fmt.Errorf("service: failed to get auction %s: %w", auctionID, err))
	}
	auction = c.expireIfDue(auction, c.clock.Now().UTC())

	idx := auction.FindBid(bidID)
	if idx < 0 {
		return model.Auction{}, c.fail("accept_bid", fmt.Errorf("service: bid %s on auction %s: %w", bidID, auctionID, auctionerrors.ErrNotFound))
	}
	if auction.Status != model.AuctionActive {
		return model.Auction{}, c.fail("accept_bid", fmt.Errorf("service: %w - auction %s is %s", auctionerrors.ErrInvalidState, auctionID, auction.Status))
	}
	if auction.Bids[idx].Status != model.BidPending {
		return model.Auction{}, c.fail("accept_bid", fmt.Errorf("service: %w - bid %s is %s", auctionerrors.ErrInvalidState, bidID, auction.Bids[idx].Status))
	}

	updated := auction.Clone()
	for i := range updated.Bids {
		if i == idx {
			updated.Bids[i].Status = model.BidAccepted
		} else {
			updated.Bids[i].Status = model.BidRejected
		}
	}
	updated.Status = model.AuctionCompleted
	updated.WinningBidID = bidID
	updated.WinningTransporterID = updated.Bids[idx].TransporterID

	if err := c.auctions.SaveAuction(updated); err != nil {
		return model.Auction{}, c.fail("accept_bid", fmt.Errorf("service: failed to complete auction %s: %w", auctionID, err))
	}

	metrics.AuctionsClosedTotal.WithLabelValues(metrics.OutcomeAccepted).Inc()
	metrics.ActiveAuctions.Dec()
	c.notifier.Emit(updated.WinningTransporterID, "Bid accepted",
		fmt.Sprintf("Your bid on %q was accepted by the shipper", updated.Title),
		model.NotificationBid, auctionLink(auctionID))
	return updated, nil
}

// CancelAuction withdraws an active auction. Only its shipper may cancel it.
// Spent tokens are not refunded.
func (c *Controller) CancelAuction(auctionID, shipperID string) (model.Auction, error) {
	unlock := c.locks.Lock(auctionID)
	defer unlock()

	auction, err := c.auctions.GetAuction(auctionID)
	if err != nil {
		return model.Auction{}, c.fail("cancel_auction", fmt.Errorf("service: failed to get auction %s: %w", auctionID, err))
	}
	auction = c.expireIfDue(auction, c.clock.Now().UTC())

	if auction.ShipperID != shipperID {
		return model.Auction{}, c.fail("cancel_auction", fmt.Errorf("service: %w - %s does not own auction %s", auctionerrors.ErrInvalidState, shipperID, auctionID))
	}
	if auction.Status != model.AuctionActive {
		return model.Auction{}, c.fail("cancel_auction", fmt.Errorf("service: %w - auction %s is %s", auctionerrors.ErrInvalidState, auctionID, auction.Status))
	}

	updated := auction.Clone()
	rejected := rejectPending(&updated)
	updated.Status = model.AuctionCancelled

	if err := c.auctions.SaveAuction(updated); err != nil {
		return model.Auction{}, c.fail("cancel_auction", fmt.Errorf("service: failed to cancel auction %s: %w", auctionID, err))
	}

	metrics.AuctionsClosedTotal.WithLabelValues(metrics.OutcomeCancelled).Inc()
	metrics.ActiveAuctions.Dec()
	for _, b := range rejected {
		c.notifier.Emit(b.TransporterID, "Auction cancelled",
			fmt.Sprintf("The shipper cancelled %q; your bid was not accepted", updated.Title),
			model.NotificationBid, auctionLink(auctionID))
	}
	return updated, nil
}

// Expire closes an active auction whose end time has passed. It completes with no
// winner and its pending bids are rejected.
func (c *Controller) Expire(auctionID string) (model.Auction, error) {
	unlock := c.locks.Lock(auctionID)
	defer unlock()

	auction, err := c.auctions.GetAuction(auctionID)
	if err != nil {
		return model.Auction{}, fmt.Errorf("service: failed to get auction %s: %w", auctionID, err)
	}
	if auction.Status != model.AuctionActive {
		return model.Auction{}, fmt.Errorf("service: %w - auction %s is already %s", auctionerrors.ErrInvalidState, auctionID, auction.Status)
	}
	now := c.clock.Now().UTC()
	if now.Before(auction.EndTime) {
		return model.Auction{}, fmt.Errorf("service: %w - auction %s runs until %s", auctionerrors.ErrInvalidState, auctionID, auction.EndTime.Format(time.RFC3339))
	}

	expired, err := c.expire(auction)
	if err != nil {
		return model.Auction{}, c.fail("expire_auction", err)
	}
	return expired, nil
}

// NotifyEndingSoon tells the shipper that an active auction is inside the
// ending-soon window. It reports whether a notification was sent.
func (c *Controller) NotifyEndingSoon(auctionID string) (bool, error) {
	unlock := c.locks.Lock(auctionID)
	defer unlock()

	auction, err := c.auctions.GetAuction(auctionID)
	if err != nil {
		return false, fmt.Errorf("service: failed to get auction %s: %w", auctionID, err)
	}
	now := c.clock.Now().UTC()
	if auction.Status != model.AuctionActive || !now.Before(auction.EndTime) ||
		now.Before(auction.EndTime.Add(-c.config.EndingSoonWindow)) {
		return false, nil
	}

	remaining := auction.EndTime.Sub(now).Round(time.Minute)
	c.notifier.Emit(auction.ShipperID, "Auction ending soon",
		fmt.Sprintf("Your auction %q will end in %s", auction.Title, remaining),
		model.NotificationAuction, auctionLink(auctionID))
	return true, nil
}

// expireIfDue closes an auction that is past its end time but was not swept yet.
// Caller holds the auction lock. On failure the original auction is returned.
func (c *Controller) expireIfDue(auction model.Auction, now time.Time) model.Auction {
	if auction.Status != model.AuctionActive || now.Before(auction.EndTime) {
		return auction
	}
	expired, err := c.expire(auction)
	if err != nil {
		utils.Warn("service: lazy expiry failed", map[string]any{"auction_id": auction.AuctionID, "error": err.Error()})
		// still closed for bidding once past the end time
		auction.Status = model.AuctionCompleted
		return auction
	}
	return expired
}

// expire performs the active -> completed (no winner) transition. Caller holds the auction lock.
func (c *Controller) expire(auction model.Auction) (model.Auction, error) {
	updated := auction.Clone()
	rejected := rejectPending(&updated)
	updated.Status = model.AuctionCompleted
	updated.WinningBidID = ""
	updated.WinningTransporterID = ""

	if err := c.auctions.SaveAuction(updated); err != nil {
		return model.Auction{}, fmt.Errorf("service: failed to expire auction %s: %w", auction.AuctionID, err)
	}

	metrics.AuctionsClosedTotal.WithLabelValues(metrics.OutcomeExpired).Inc()
	metrics.ActiveAuctions.Dec()
	utils.Info("auction expired", map[string]any{
		"auction_id": updated.AuctionID,
		"end_time":   updated.EndTime.Format(time.RFC3339),
		"bids":       len(updated.Bids),
	})

	message := fmt.Sprintf("Your auction %q has ended without any bids", updated.Title)
	if len(updated.Bids) > 0 {
		message = fmt.Sprintf("Your auction %q has ended with %d bid(s) and no accepted offer", updated.Title, len(updated.Bids))
	}
	c.notifier.Emit(updated.ShipperID, "Auction ended", message, model.NotificationAuction, auctionLink(updated.AuctionID))
	for _, b := range rejected {
		c.notifier.Emit(b.TransporterID, "Auction ended",
			fmt.Sprintf("%q ended before the shipper accepted a bid", updated.Title),
			model.NotificationBid, auctionLink(updated.AuctionID))
	}
	return updated, nil
}

// rejectPending flips every pending bid to rejected and returns those bids
func rejectPending(auction *model.Auction) []model.Bid {
	var rejected []model.Bid
	for i := range auction.Bids {
		if auction.Bids[i].Status == model.BidPending {
			auction.Bids[i].Status = model.BidRejected
			rejected = append(rejected, auction.Bids[i])
		}
	}
	return rejected
}

// GetAuction returns one auction with its bids in submission order
func (c *Controller) GetAuction(auctionID string) (model.Auction, error) {
	auction, err := c.auctions.GetAuction(auctionID)
	if err != nil {
		return model.Auction{}, fmt.Errorf("service: failed to get auction %s: %w", auctionID, err)
	}
	return auction, nil
}

// ListAuctions returns the auctions matching filter, oldest first
func (c *Controller) ListAuctions(filter model.AuctionFilter) ([]model.Auction, error) {
	all, err := c.auctions.ListAuctions()
	if err != nil {
		return nil, fmt.Errorf("service: failed to list auctions: %w", err)
	}

	out := make([]model.Auction, 0, len(all))
	for _, a := range all {
		if matches(a, filter) {
			out = append(out, a)
		}
	}
	return out, nil
}

// GetBids returns an auction's bids in submission order, or best-first when ranked
func (c *Controller) GetBids(auctionID string, ranked bool) ([]model.Bid, error) {
	auction, err := c.GetAuction(auctionID)
	if err != nil {
		return nil, err
	}
	if ranked {
		return evaluator.Rank(auction.Bids), nil
	}
	return auction.Bids, nil
}

// GetWinningBid returns the accepted bid of a completed auction
func (c *Controller) GetWinningBid(auctionID string) (model.Bid, error) {
	auction, err := c.GetAuction(auctionID)
	if err != nil {
		return model.Bid{}, err
	}
	idx := auction.FindBid(auction.WinningBidID)
	if auction.WinningBidID == "" || idx < 0 {
		return model.Bid{}, fmt.Errorf("service: winning bid for auction %s: %w", auctionID, auctionerrors.ErrNotFound)
	}
	return auction.Bids[idx], nil
}

// GetAuctionsByBidder returns every auction the user has bid on
func (c *Controller) GetAuctionsByBidder(userID string) ([]model.Auction, error) {
	if _, err := c.users.GetUser(userID); err != nil {
		return nil, fmt.Errorf("service: failed to get user %s: %w", userID, err)
	}
	auctions, err := c.auctions.GetAuctionsByBidder(userID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get auctions for bidder %s: %w", userID, err)
	}
	return auctions, nil
}

// TokenPackages returns the purchasable packages
func (c *Controller) TokenPackages() []model.TokenPackage {
	return c.catalog.List()
}

// PurchaseTokens credits the user with a catalog package and returns the new balance
func (c *Controller) PurchaseTokens(userID, packageID string) (int, error) {
	pkg, err := c.catalog.Get(packageID)
	if err != nil {
		return 0, c.fail("purchase_tokens", fmt.Errorf("service: %w", err))
	}
	if _, err := c.users.GetUser(userID); err != nil {
		return 0, c.fail("purchase_tokens", fmt.Errorf("service: failed to get user %s: %w", userID, err))
	}

	balance, err := c.ledger.Credit(userID, pkg.TokenAmount, model.ReasonTokenPurchase, pkg.PackageID)
	if err != nil {
		return 0, c.fail("purchase_tokens", fmt.Errorf("service: failed to credit %s: %w", userID, err))
	}

	metrics.TokensCreditedTotal.Add(float64(pkg.TokenAmount))
	c.notifier.Emit(userID, "Tokens purchased",
		fmt.Sprintf("%d tokens from the %s package were added to your balance", pkg.TokenAmount, pkg.Name),
		model.NotificationToken, "/tokens")
	return balance, nil
}

// TokenHistory returns the user's ledger entries, oldest first
func (c *Controller) TokenHistory(userID string) ([]model.LedgerEntry, error) {
	history, err := c.ledger.History(userID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get token history for %s: %w", userID, err)
	}
	return history, nil
}

// ListNotifications returns the user's notifications, oldest first
func (c *Controller) ListNotifications(userID string) ([]model.Notification, error) {
	if _, err := c.users.GetUser(userID); err != nil {
		return nil, fmt.Errorf("service: failed to get user %s: %w", userID, err)
	}
	return c.notifier.List(userID), nil
}

// UnreadCount returns how many notifications the user has not read
func (c *Controller) UnreadCount(userID string) int {
	return c.notifier.UnreadCount(userID)
}

// MarkRead flags one notification as read; repeating it is harmless
func (c *Controller) MarkRead(notificationID string) (model.Notification, error) {
	n, err := c.notifier.MarkRead(notificationID)
	if err != nil {
		return model.Notification{}, fmt.Errorf("service: %w", err)
	}
	return n, nil
}

// MarkAllRead flags all of the user's notifications as read and returns how many changed
func (c *Controller) MarkAllRead(userID string) (int, error) {
	if _, err := c.users.GetUser(userID); err != nil {
		return 0, fmt.Errorf("service: failed to get user %s: %w", userID, err)
	}
	return c.notifier.MarkAllRead(userID), nil
}

// RateCounterpart lets the shipper or the winning transporter of a completed
// auction rate the other party once
func (c *Controller) RateCounterpart(auctionID, fromUserID string, score int, review string) (model.Rating, error) {
	if score < 1 || score > 5 {
		return model.Rating{}, c.fail("rate_user", fmt.Errorf("service: %w - score must be 1-5, got %d", auctionerrors.ErrInvalidAmount, score))
	}

	unlockAuction := c.locks.Lock(auctionID)
	defer unlockAuction()

	auction, err := c.auctions.GetAuction(auctionID)
	if err != nil {
		return model.Rating{}, c.fail("rate_user", fmt.Errorf("service: failed to get auction %s: %w", auctionID, err))
	}
	if auction.Status != model.AuctionCompleted || auction.WinningBidID == "" {
		return model.Rating{}, c.fail("rate_user", fmt.Errorf("service: %w - auction %s has no winner to rate", auctionerrors.ErrInvalidState, auctionID))
	}

	var toUserID string
	switch fromUserID {
	case auction.ShipperID:
		toUserID = auction.WinningTransporterID
	case auction.WinningTransporterID:
		toUserID = auction.ShipperID
	default:
		return model.Rating{}, c.fail("rate_user", fmt.Errorf("service: %w - %s took no part in auction %s", auctionerrors.ErrInvalidState, fromUserID, auctionID))
	}

	rating := model.Rating{
		RatingID:   utils.GenerateID(),
		FromUserID: fromUserID,
		ToUserID:   toUserID,
		AuctionID:  auctionID,
		Score:      score,
		Review:     review,
		CreatedAt:  c.clock.Now().UTC(),
	}
	rated, err := c.users.AddRating(rating)
	if err != nil {
		return model.Rating{}, c.fail("rate_user", fmt.Errorf("service: failed to store rating: %w", err))
	}

	c.notifier.Emit(toUserID, "New rating received",
		fmt.Sprintf("You received a %d-star rating for %q. Your average is now %.2f", score, auction.Title, rated.Rating),
		model.NotificationSystem, auctionLink(auctionID))
	return rating, nil
}

// fail counts err against operation and returns it unchanged
func (c *Controller) fail(operation string, err error) error {
	metrics.OperationErrorsTotal.WithLabelValues(operation).Inc()
	return err
}

func auctionLink(auctionID string) string {
	return "/auction/" + auctionID
}

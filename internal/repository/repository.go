package repository

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"sync"

	"github.com/budisantoso88/shipbid-app/internal/auctionerrors"
	model "github.com/budisantoso88/shipbid-app/internal/models"
)

//go:generate mockgen -source=repository.go -destination=mock_repository.go -package=repository

// AuctionDB defines the auction storage interface. Bids are stored inside their auction.
type AuctionDB interface {
	CreateAuction(auction model.Auction) error
	GetAuction(auctionID string) (model.Auction, error)
	SaveAuction(auction model.Auction) error
	ListAuctions() ([]model.Auction, error)
	GetAuctionsByBidder(userID string) ([]model.Auction, error)
}

// UserDB defines the user profile and rating storage interface
type UserDB interface {
	AddUser(user model.User) error
	GetUser(userID string) (model.User, error)
	RemoveUser(userID string) error
	AddRating(rating model.Rating) (model.User, error)
	GetRatingsByAuction(auctionID string) ([]model.Rating, error)
}

// MemoryRepo is a concurrency-safe in-memory implementation of AuctionDB and UserDB
type MemoryRepo struct {
	mu            sync.RWMutex
	auctions      map[string]model.Auction  // key: auctionID -> value: auction with its bids
	users         map[string]model.User     // key: userID -> value: profile
	ratings       map[string][]model.Rating // key: auctionID -> value: ratings left for it
	scoreSums     map[string]float64        // key: userID -> value: unrounded sum behind user.Rating
	bidderAuction map[string][]string       // key: userID -> value: auctionIDs the user has bid on
}

// NewMemoryRepo creates a new in-memory repository instance
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		auctions:      make(map[string]model.Auction),
		users:         make(map[string]model.User),
		ratings:       make(map[string][]model.Rating),
		scoreSums:     make(map[string]float64),
		bidderAuction: make(map[string][]string),
	}
}

// CreateAuction stores a new auction
func (r *MemoryRepo) CreateAuction(auction model.Auction) error {
	if auction.AuctionID == "" {
		return fmt.Errorf("create auction: %w - missing auction ID", auctionerrors.ErrInvalidState)
	}
	if !auction.EndTime.After(auction.CreatedAt) {
		return fmt.Errorf("create auction %s: %w", auction.AuctionID, auctionerrors.ErrInvalidRange)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.auctions[auction.AuctionID]; exists {
		return fmt.Errorf("create auction %s: %w - duplicate ID", auction.AuctionID, auctionerrors.ErrInvalidState)
	}
	r.auctions[auction.AuctionID] = auction.Clone()
	r.indexBidders(auction)
	return nil
}

// GetAuction returns a copy of the auction with bids in submission order
func (r *MemoryRepo) GetAuction(auctionID string) (model.Auction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	auction, ok := r.auctions[auctionID]
	if !ok {
		return model.Auction{}, fmt.Errorf("get auction %s: %w", auctionID, auctionerrors.ErrNotFound)
	}
	return auction.Clone(), nil
}

// SaveAuction replaces a stored auction. A terminal auction cannot change status.
func (r *MemoryRepo) SaveAuction(auction model.Auction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.auctions[auction.AuctionID]
	if !ok {
		return fmt.Errorf("save auction %s: %w", auction.AuctionID, auctionerrors.ErrNotFound)
	}
	if current.Status != model.AuctionActive && auction.Status != current.Status {
		return fmt.Errorf("save auction %s: %w - cannot move from %s to %s",
			auction.AuctionID, auctionerrors.ErrInvalidState, current.Status, auction.Status)
	}

	r.auctions[auction.AuctionID] = auction.Clone()
	r.indexBidders(auction)
	return nil
}

// ListAuctions returns every auction ordered by creation time, oldest first
func (r *MemoryRepo) ListAuctions() ([]model.Auction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	auctions := make([]model.Auction, 0, len(r.auctions))
	for _, a := range r.auctions {
		auctions = append(auctions, a.Clone())
	}
	sortAuctions(auctions)
	return auctions, nil
}

// GetAuctionsByBidder returns all auctions a user has bid on
func (r *MemoryRepo) GetAuctionsByBidder(userID string) ([]model.Auction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.bidderAuction[userID]
	auctions := make([]model.Auction, 0, len(ids))
	for _, id := range ids {
		if a, exists := r.auctions[id]; exists {
			auctions = append(auctions, a.Clone())
		}
	}
	sortAuctions(auctions)
	return auctions, nil
}

// indexBidders records which users have bid on the auction. Caller holds the write lock.
func (r *MemoryRepo) indexBidders(auction model.Auction) {
	for _, bid := range auction.Bids {
		if !slices.Contains(r.bidderAuction[bid.TransporterID], auction.AuctionID) {
			r.bidderAuction[bid.TransporterID] = append(r.bidderAuction[bid.TransporterID], auction.AuctionID)
		}
	}
}

// AddUser stores a new user profile
func (r *MemoryRepo) AddUser(user model.User) error {
	if user.UserID == "" {
		return fmt.Errorf("add user: %w - missing user ID", auctionerrors.ErrInvalidState)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.users[user.UserID]; exists {
		return fmt.Errorf("add user %s: %w - duplicate ID", user.UserID, auctionerrors.ErrInvalidState)
	}
	r.users[user.UserID] = user
	r.scoreSums[user.UserID] = user.Rating * float64(user.ReviewCount)
	return nil
}

// GetUser returns a user profile
func (r *MemoryRepo) GetUser(userID string) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[userID]
	if !ok {
		return model.User{}, fmt.Errorf("get user %s: %w", userID, auctionerrors.ErrNotFound)
	}
	return user, nil
}

// RemoveUser deletes a user profile
func (r *MemoryRepo) RemoveUser(userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[userID]; !ok {
		return fmt.Errorf("remove user %s: %w", userID, auctionerrors.ErrNotFound)
	}
	delete(r.users, userID)
	delete(r.scoreSums, userID)
	return nil
}

// AddRating stores a rating and folds its score into the rated user's average in
// one step, returning the updated profile. One rating per rater per auction.
// The average is rounded to two decimals from an unrounded running sum.
func (r *MemoryRepo) AddRating(rating model.Rating) (model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rated, ok := r.users[rating.ToUserID]
	if !ok {
		return model.User{}, fmt.Errorf("add rating for user %s: %w", rating.ToUserID, auctionerrors.ErrNotFound)
	}
	for _, existing := range r.ratings[rating.AuctionID] {
		if existing.FromUserID == rating.FromUserID {
			return model.User{}, fmt.Errorf("add rating for auction %s by %s: %w - already rated",
				rating.AuctionID, rating.FromUserID, auctionerrors.ErrInvalidState)
		}
	}

	sum := r.scoreSums[rating.ToUserID] + float64(rating.Score)
	rated.ReviewCount++
	rated.Rating = math.Round(sum/float64(rated.ReviewCount)*100) / 100

	r.ratings[rating.AuctionID] = append(r.ratings[rating.AuctionID], rating)
	r.scoreSums[rating.ToUserID] = sum
	r.users[rating.ToUserID] = rated
	return rated, nil
}

// GetRatingsByAuction returns the ratings left for an auction
func (r *MemoryRepo) GetRatingsByAuction(auctionID string) ([]model.Rating, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]model.Rating(nil), r.ratings[auctionID]...), nil
}

func sortAuctions(auctions []model.Auction) {
	slices.SortFunc(auctions, func(a, b model.Auction) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.AuctionID, b.AuctionID)
	})
}

package lifecycle

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/budisantoso88/shipbid-app/internal/auctionerrors"
	model "github.com/budisantoso88/shipbid-app/internal/models"
	"github.com/budisantoso88/shipbid-app/utils"

	"github.com/jonboulle/clockwork"
)

// Sweeper periodically closes auctions past their end time and sends the
// ending-soon notice once per auction.
type Sweeper struct {
	controller *Controller
	clock      clockwork.Clock
	interval   time.Duration

	mu     sync.Mutex
	warned map[string]struct{}

	stop     chan struct{}
	stopOnce sync.Once
}

// NewSweeper creates a Sweeper ticking every interval
func NewSweeper(controller *Controller, clock clockwork.Clock, interval time.Duration) *Sweeper {
	return &Sweeper{
		controller: controller,
		clock:      clock,
		interval:   interval,
		warned:     make(map[string]struct{}),
		stop:       make(chan struct{}),
	}
}

// Run sweeps on every tick until ctx is done or Stop is called
func (s *Sweeper) Run(ctx context.Context) error {
	ticker := s.clock.NewTicker(s.interval)
	defer ticker.Stop()

	utils.Info("sweeper started", map[string]any{"interval": s.interval.String()})
	for {
		select {
		case <-ctx.Done():
			utils.Info("sweeper stopped", nil)
			return nil
		case <-s.stop:
			utils.Info("sweeper stopped", nil)
			return nil
		case <-ticker.Chan():
			s.SweepOnce()
		}
	}
}

// Stop ends Run. Safe to call more than once.
func (s *Sweeper) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
}

// SweepOnce checks every active auction once and returns how many it expired
func (s *Sweeper) SweepOnce() int {
	auctions, err := s.controller.ListAuctions(model.AuctionFilter{Status: model.AuctionActive})
	if err != nil {
		utils.Error("sweeper: failed to list auctions", map[string]any{"error": err.Error()})
		return 0
	}

	now := s.clock.Now()
	active := make(map[string]struct{}, len(auctions))
	expired := 0
	for _, a := range auctions {
		if !now.Before(a.EndTime) {
			_, err := s.controller.Expire(a.AuctionID)
			switch {
			case err == nil:
				expired++
			case errors.Is(err, auctionerrors.ErrInvalidState):
				// closed by another operation since the listing
			default:
				utils.Error("sweeper: failed to expire auction", map[string]any{"auction_id": a.AuctionID, "error": err.Error()})
			}
			continue
		}

		active[a.AuctionID] = struct{}{}
		if s.alreadyWarned(a.AuctionID) {
			continue
		}
		sent, err := s.controller.NotifyEndingSoon(a.AuctionID)
		if err != nil {
			utils.Error("sweeper: ending-soon check failed", map[string]any{"auction_id": a.AuctionID, "error": err.Error()})
			continue
		}
		if sent {
			s.markWarned(a.AuctionID)
		}
	}

	s.forgetInactive(active)
	return expired
}

func (s *Sweeper) alreadyWarned(auctionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.warned[auctionID]
	return ok
}

func (s *Sweeper) markWarned(auctionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.warned[auctionID] = struct{}{}
}

// forgetInactive drops warned entries for auctions no longer active
func (s *Sweeper) forgetInactive(active map[string]struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id := range s.warned {
		if _, ok := active[id]; !ok {
			delete(s.warned, id)
		}
	}
}

// Package app assembles the auction service from its configuration and runs it.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/budisantoso88/shipbid-app/internal/catalog"
	"github.com/budisantoso88/shipbid-app/internal/config"
	"github.com/budisantoso88/shipbid-app/internal/ledger"
	"github.com/budisantoso88/shipbid-app/internal/lifecycle"
	"github.com/budisantoso88/shipbid-app/internal/notification"
	"github.com/budisantoso88/shipbid-app/internal/repository"
	"github.com/budisantoso88/shipbid-app/internal/server"
	"github.com/budisantoso88/shipbid-app/utils"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

// App holds the wired components of one service instance
type App struct {
	Config     config.Config
	Controller *lifecycle.Controller
	Sweeper    *lifecycle.Sweeper
	Notifier   *notification.Emitter
	Router     *gin.Engine
}

// New wires every component from cfg. A nil publisher picks Kafka when brokers
// are configured and logging otherwise.
func New(cfg config.Config, clock clockwork.Clock, publisher notification.Publisher) (*App, error) {
	cat := catalog.Default()
	if cfg.CatalogPath != "" {
		var err error
		if cat, err = catalog.Load(cfg.CatalogPath); err != nil {
			return nil, fmt.Errorf("app: %w", err)
		}
	}

	if publisher == nil {
		if len(cfg.KafkaBrokers) > 0 {
			publisher = notification.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
			utils.Info("notifications published to kafka", map[string]any{"brokers": cfg.KafkaBrokers, "topic": cfg.KafkaTopic})
		} else {
			publisher = notification.LogPublisher{}
		}
	}

	repo := repository.NewMemoryRepo()
	notifier := notification.NewEmitter(clock, publisher, notification.DefaultEmitterConfig)
	controller := lifecycle.NewController(lifecycle.Deps{
		Auctions: repo,
		Users:    repo,
		Ledger:   ledger.New(clock),
		Notifier: notifier,
		Catalog:  cat,
		Clock:    clock,
	}, lifecycle.Config{
		AuctionTokenCost: cfg.AuctionTokenCost,
		BidTokenCost:     cfg.BidTokenCost,
		DefaultDuration:  cfg.DefaultDuration,
		EndingSoonWindow: cfg.EndingSoonWindow,
	})

	return &App{
		Config:     cfg,
		Controller: controller,
		Sweeper:    lifecycle.NewSweeper(controller, clock, cfg.SweepInterval),
		Notifier:   notifier,
		Router:     server.SetupRouter(controller),
	}, nil
}

// Run serves HTTP and runs the background workers until ctx is cancelled or one of them fails
func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              a.Config.Addr(),
		Handler:           a.Router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		utils.Info("starting auction server", map[string]any{"addr": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("app: http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("app: http shutdown: %w", err)
		}
		utils.Info("auction server stopped", nil)
		return nil
	})

	g.Go(func() error {
		return a.Sweeper.Run(gctx)
	})

	g.Go(func() error {
		return a.Notifier.Run(gctx)
	})

	return g.Wait()
}

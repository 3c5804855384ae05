package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/budisantoso88/shipbid-app/internal/app"
	"github.com/budisantoso88/shipbid-app/internal/config"
	"github.com/budisantoso88/shipbid-app/utils"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/pflag"
)

func main() {
	envFile := pflag.String("env-file", ".env", "path to a .env file with service settings")
	seed := pflag.Bool("seed", false, "load demo users and auctions on startup")
	pflag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if err := utils.SetLevel(cfg.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid log level: %v\n", err)
		os.Exit(1)
	}
	gin.SetMode(gin.ReleaseMode)

	clock := clockwork.NewRealClock()
	service, err := app.New(cfg, clock, nil)
	if err != nil {
		utils.Fatal("failed to build service", map[string]any{"error": err.Error()})
	}

	if *seed {
		if err := app.Seed(service.Controller, clock); err != nil {
			utils.Fatal("failed to seed demo data", map[string]any{"error": err.Error()})
		}
		utils.Info("demo data loaded", nil)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := service.Run(ctx); err != nil {
		utils.Error("service stopped with error", map[string]any{"error": err.Error()})
		stop()
		os.Exit(1)
	}
}

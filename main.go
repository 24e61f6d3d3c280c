package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"studentbidz/internal/clock"
	"studentbidz/internal/config"
	"studentbidz/internal/engine"
	"studentbidz/internal/fanout"
	"studentbidz/internal/lifecycle"
	"studentbidz/internal/ratelimit"
	"studentbidz/internal/server"
	"studentbidz/internal/store"
	"studentbidz/services/auction/handler"
)

// runLimiterPrune drops rate-limit counters for bidders and auctions idle
// longer than two days, so long-running processes do not accumulate state.
func runLimiterPrune(ctx context.Context, limiter *ratelimit.Limiter, clk clock.Clock) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			limiter.Prune(clk.Now(), 48*time.Hour)
		}
	}
}

func main() {
	cfg := config.MustLoad()

	clk := clock.System()
	auctionStore := store.NewAuctionStore()
	hub := fanout.NewHub(cfg.Fanout.QueueSize)
	limiter := ratelimit.NewLimiter(ratelimit.Limits{
		Cooldown:        cfg.Limits.BidCooldown,
		DailyPerAuction: cfg.Limits.DailyPerAuction,
		DailyTotal:      cfg.Limits.DailyTotal,
	})

	bidEngine := engine.New(auctionStore, limiter, hub, clk)
	lifecycleMgr := lifecycle.NewManager(auctionStore, hub, clk, cfg.Lifecycle.EndingSoon)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go lifecycleMgr.Run(ctx, cfg.Lifecycle.SweepInterval)
	go runLimiterPrune(ctx, limiter, clk)

	auctionHandler := handler.NewAuctionHandler(bidEngine, lifecycleMgr, auctionStore, hub, clk)
	router := server.SetupRouter(auctionHandler, hub)

	addr := cfg.Server.Address()
	fmt.Printf("Starting auction server on %s...\n", addr)
	if err := router.Run(addr); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start server: %v\n", err)
		os.Exit(1)
	}
}

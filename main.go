package main

import (
	auction "agribid/internal/auctionService"
	checkout "agribid/internal/checkoutService"
	"agribid/internal/config"
	"agribid/internal/localstore"
	"agribid/internal/repository"
	"agribid/internal/seed"
	"agribid/internal/server"
	session "agribid/internal/sessionService"
	"agribid/utils"
	"fmt"
	"os"
)

func main() {
	cfg := config.Load()

	repo := repository.NewMemoryRepo()

	if count, err := seed.Populate(repo, cfg.SeedFile); err != nil {
		utils.Warn("seed catalog not loaded", map[string]any{"file": cfg.SeedFile, "error": err.Error()})
	} else {
		utils.Info("seed catalog loaded", map[string]any{"file": cfg.SeedFile, "products": count})
	}

	auctionSvc := auction.NewAuctionService(repo, auction.WithCommitDelay(cfg.BidLatency))
	sessionSvc := session.NewSessionService(repo, localstore.NewFileStore(cfg.SessionFile),
		session.WithLoginDelay(cfg.BidLatency))
	checkoutSvc := checkout.NewCheckoutService(repo, auctionSvc, checkout.WithConfirmDelay(cfg.ConfirmLatency))

	// Restore a persisted session from a previous run, if any.
	if user, err := sessionSvc.Restore(); err != nil {
		utils.Warn("failed to restore persisted session", map[string]any{"error": err.Error()})
	} else if user != nil {
		utils.Info("session restored", map[string]any{"user_id": user.UserID, "user_type": string(user.UserType)})
	}

	router := server.SetupRouter(server.Services{
		Auction:  auctionSvc,
		Session:  sessionSvc,
		Checkout: checkoutSvc,
	})

	port := fmt.Sprintf(":%s", cfg.Port)
	fmt.Printf("Starting marketplace server on %s...\n", port)
	if err := router.Run(port); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start server: %v\n", err)
		os.Exit(1)
	}
}

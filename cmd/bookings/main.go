// Command bookings is a one-shot maintenance tool that confirms pending
// package and hotel bookings and settles unpaid hotel payments.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/travelms/travel-be/internal/config"
	"github.com/travelms/travel-be/internal/storage/postgres"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, nil)))
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found; relying on existing environment")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := postgres.New(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("init database", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	hotelStatus, hotelPayments, packages, err := store.ConfirmPendingBookings(ctx)
	if err != nil {
		slog.Error("update bookings", "error", err)
		os.Exit(1)
	}

	slog.Info("hotel booking statuses confirmed", "rows", hotelStatus)
	slog.Info("hotel booking payments settled", "rows", hotelPayments)
	slog.Info("package booking statuses confirmed", "rows", packages)
}

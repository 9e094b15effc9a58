package main

import (
	"log/slog"
	"os"

	"github.com/RandyMyers/mbzRevamp-sub007/internal/config"
	"github.com/RandyMyers/mbzRevamp-sub007/internal/database"
	"github.com/RandyMyers/mbzRevamp-sub007/internal/server"
)

func main() {
	cfg := config.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	db, err := database.Init(cfg.DatabasePath)
	if err != nil {
		slog.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.SeedAdmin(db, cfg.SeedAdminEmail, cfg.SeedAdminPass); err != nil {
		slog.Error("failed to seed admin account", "error", err)
		os.Exit(1)
	}

	srv, err := server.New(db, cfg)
	if err != nil {
		slog.Error("failed to build server", "error", err)
		os.Exit(1)
	}

	if err := srv.Start(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

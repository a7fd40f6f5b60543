package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/ramit8508/Teacher-managment-system-sub000/internal/config"
	"github.com/ramit8508/Teacher-managment-system-sub000/internal/database"
	"github.com/ramit8508/Teacher-managment-system-sub000/internal/logger"
	"github.com/ramit8508/Teacher-managment-system-sub000/internal/repository"
)

func main() {
	var username string
	var revoke bool
	flag.StringVar(&username, "user", "", "Username or email of the account")
	flag.BoolVar(&revoke, "revoke", false, "Revoke instead of grant")
	flag.Parse()

	if username == "" {
		fmt.Println("Usage: grant-super-admin -user <username|email> [-revoke]")
		return
	}

	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	userRepo := repository.NewUserRepository(pool)

	user, err := userRepo.GetByLogin(ctx, username)
	if err != nil {
		log.Fatal().Err(err).Str("user", username).Msg("Account not found")
	}

	if err := userRepo.SetSuperAdmin(ctx, user.ID, !revoke); err != nil {
		log.Fatal().Err(err).Msg("Failed to update super-admin flag")
	}

	if revoke {
		fmt.Printf("Success! Revoked super-admin from '%s' (ID: %d)\n", user.Username, user.ID)
	} else {
		fmt.Printf("Success! Granted super-admin to '%s' (ID: %d)\n", user.Username, user.ID)
	}
}

package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/stemsi/school-records/internal/config"
	"github.com/stemsi/school-records/internal/database"
	"github.com/stemsi/school-records/internal/logger"
	"github.com/stemsi/school-records/internal/repository"
	"github.com/stemsi/school-records/internal/service"
	"golang.org/x/term"
)

func main() {
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

	// ─── Initialize Service ────────────────────────────────────────────
	store := repository.NewPostgres(pool)
	authService := service.NewAuthService(store.Users(), cfg.BcryptCost, log)

	// ─── CLI Input ─────────────────────────────────────────────────────
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=== Create New API User ===")

	fmt.Print("Enter Username: ")
	username, _ := reader.ReadString('\n')
	username = strings.TrimSpace(username)
	if username == "" {
		fmt.Println("Error: Username is required")
		return
	}

	fmt.Print("Enter Password: ")
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		fmt.Println("\nError reading password")
		return
	}
	fmt.Println() // Newline after password input

	fmt.Print("Confirm Password: ")
	byteConfirm, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		fmt.Println("\nError reading password")
		return
	}
	fmt.Println()

	password := string(bytePassword)
	if password != string(byteConfirm) {
		fmt.Println("Error: Passwords do not match")
		return
	}

	// ─── Logic ─────────────────────────────────────────────────────────
	created, err := authService.EnsureUser(ctx, username, password)
	if err != nil {
		if err == service.ErrPasswordTooShort {
			fmt.Printf("Error: %v\n", err)
			return
		}
		log.Fatal().Err(err).Msg("Failed to create API user")
	}
	if !created {
		fmt.Printf("\nUser '%s' already exists; nothing changed.\n", username)
		return
	}

	fmt.Printf("\nSuccess! API user '%s' created.\n", username)
}

// Command seed provisions client accounts and staff profiles from a TOML
// fixture. It is how the first admin is created on a fresh database.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"studio-service/internal/app"
	"studio-service/internal/audit"
	"studio-service/internal/config"

	"github.com/joho/godotenv"
)

const (
	envFilePath     = ".env"
	defaultSeedFile = "seed.toml"
)

func main() {
	path := flag.String("file", defaultSeedFile, "seed fixture to apply")
	flag.Parse()

	if err := godotenv.Load(envFilePath); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	file, err := Load(*path)
	if err != nil {
		log.Fatalf("Failed to load seed: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if !cfg.UsesPostgres() {
		log.Println("Warning: seeding the memory store, nothing will persist")
	}

	ctx := context.Background()
	backends, err := app.OpenBackends(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open backends: %v", err)
	}
	defer backends.Close()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	auditLog := audit.NewLogger(backends.AuditStore, logger)
	defer auditLog.Wait()

	res, err := NewSeeder(backends.Accounts, backends.Profiles, auditLog, logger).Apply(ctx, file)
	if err != nil {
		auditLog.Wait()
		backends.Close()
		log.Fatalf("Seed failed: %v", err)
	}

	log.Printf("Seed applied: %d accounts created, %d profiles created, %d profiles updated",
		res.AccountsCreated, res.ProfilesCreated, res.ProfilesUpdated)
}

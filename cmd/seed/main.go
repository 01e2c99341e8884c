package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"adlens/internal/cache"
	"adlens/internal/config"
	"adlens/internal/db"
	"adlens/internal/logger"
	"adlens/internal/repository"
	"adlens/internal/service"
)

// Seeds the default users, plus the users listed in SEED_USERS_FILE when it is set.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log := logger.New(cfg.Logging.Level, cfg.Logging.Pretty)

	gormDB, err := db.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	if err := db.Migrate(gormDB, false); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	users := append([]service.SeedUser{}, service.DefaultUsers...)
	if path := os.Getenv("SEED_USERS_FILE"); path != "" {
		extra, err := readUsers(path)
		if err != nil {
			log.Fatal().Err(err).Str("file", path).Msg("Failed to read seed users")
		}
		log.Info().Int("count", len(extra)).Str("file", path).Msg("Loaded seed users")
		users = append(users, extra...)
	}

	cacheClient := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	defer cacheClient.Close()

	userService := service.NewUserService(repository.NewUserRepository(gormDB), cacheClient, log)
	created, err := userService.SeedUsers(context.Background(), users)
	if err != nil {
		log.Fatal().Err(err).Int("created", created).Msg("Seeding failed")
	}

	log.Info().
		Int("created", created).
		Int("skipped", len(users)-created).
		Msg("Seeding completed")
}

func readUsers(path string) ([]service.SeedUser, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var users []service.SeedUser
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return users, nil
}

package main

import (
	"log"

	"github.com/Truthtechno/LockerRoom-sub000/internal/bootstrap"
	"github.com/Truthtechno/LockerRoom-sub000/internal/config"
	"github.com/Truthtechno/LockerRoom-sub000/internal/server"
	"github.com/Truthtechno/LockerRoom-sub000/pkg/database"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db := database.Connect()
	if err := bootstrap.Migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	if err := bootstrap.SeedRoles(db); err != nil {
		log.Fatalf("failed to seed roles: %v", err)
	}

	if !cfg.IsProduction() {
		if err := bootstrap.SeedAdminUser(db); err != nil {
			log.Fatalf("failed to seed admin user: %v", err)
		}
	}

	redisClient := connectRedis(cfg.RedisURL)

	srv := server.NewServer(db, redisClient, cfg)
	if err := srv.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}

// connectRedis returns nil when REDIS_URL is unset or malformed; the server
// runs degraded without Redis instead of refusing to start.
func connectRedis(redisURL string) *redis.Client {
	if redisURL == "" {
		log.Println("REDIS_URL not set, running without Redis")
		return nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Printf("invalid REDIS_URL, running without Redis: %v", err)
		return nil
	}

	return redis.NewClient(opts)
}

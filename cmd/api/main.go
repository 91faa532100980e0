package main

import (
	"context"
	"log"
	"os"

	"call-directory/config"
	"call-directory/internal/handler"
	"call-directory/internal/redis"
	"call-directory/internal/repository"
	"call-directory/internal/server"
	"call-directory/internal/services"
	"call-directory/internal/storage"
	"call-directory/pkg/logger"
)

func main() {
	cfg := config.LoadConfig()

	mode := logger.DevelopmentMode
	if cfg.AppMode == server.ReleaseMode {
		mode = logger.ProductionMode
	}
	l := logger.New(mode)
	logger.SetGlobalLogger(l)

	ctx := context.Background()

	// The storage client authenticates with the web identity token
	// file, so the refresher has to be in place before any store
	// traffic. Local-endpoint deployments use dummy credentials and a
	// placeholder path instead.
	tokenPath := "/tmp/token"
	if cfg.StorageEndpoint == "" {
		tokenPath = os.Getenv("AWS_WEB_IDENTITY_TOKEN_FILE")
		if tokenPath == "" {
			log.Fatal("AWS_WEB_IDENTITY_TOKEN_FILE is not set")
		}
	} else {
		l.Infof("Using endpoint for storage testing: %s", cfg.StorageEndpoint)
	}

	refresher := services.NewIdentityRefresher(cfg, tokenPath, l)
	if cfg.StorageEndpoint == "" {
		// Fetch a token once before the client connects for the first time.
		if err := refresher.FetchOnce(ctx); err != nil {
			log.Fatalf("Failed to fetch initial identity token: %v", err)
		}
	}
	refresher.Start()
	defer refresher.Stop()

	client, err := storage.NewClient(ctx, storage.DynamoConfig{
		Region:   cfg.StorageRegion,
		Table:    cfg.StorageTable,
		Index:    cfg.StorageIndex,
		Endpoint: cfg.StorageEndpoint,
	})
	if err != nil {
		log.Fatalf("Failed to create storage client: %v", err)
	}

	repo := repository.NewCallRecordRepository(client, cfg.StorageTable, cfg.StorageIndex)
	directory := services.NewCallDirectoryService(repo)

	var limiter *redis.RateLimiter
	if cfg.RedisHost != "" {
		rdb := redis.NewClient(redis.Config{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPassword,
		})
		limiter = redis.NewRateLimiter(rdb, redis.DefaultRateLimitConfig())
	}

	srv := server.New(cfg, l)
	srv.SetupRoutes(&server.Handlers{
		Calls: handler.NewCallRecordHandler(directory),
	}, limiter)

	if err := srv.Start(); err != nil {
		log.Fatalf("Server exited with error: %v", err)
	}
}

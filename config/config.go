package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort string
	AppMode string

	// Storage settings for the call record table.
	StorageRegion   string
	StorageTable    string
	StorageIndex    string
	StorageEndpoint string // set only for local/test deployments

	// Identity token refresh for the storage client credentials.
	// An empty URL disables refresh entirely.
	IdentityTokenURL        string
	IdentityFetchIntervalMs int

	JWTSecret string

	RedisHost     string
	RedisPort     string
	RedisPassword string
}

func LoadConfig() *Config {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return &Config{
		AppPort:                 getEnv("APP_PORT", "8080"),
		AppMode:                 getEnv("APP_MODE", "debug"),
		StorageRegion:           getEnv("STORAGE_REGION", "us-east-1"),
		StorageTable:            getEnv("STORAGE_TABLE", "CallRecords"),
		StorageIndex:            getEnv("STORAGE_REGION_INDEX", "region-index"),
		StorageEndpoint:         getEnv("STORAGE_ENDPOINT", ""),
		IdentityTokenURL:        getEnv("IDENTITY_TOKEN_URL", ""),
		IdentityFetchIntervalMs: getEnvAsInt("IDENTITY_FETCH_INTERVAL_MS", 600000),
		JWTSecret:               getEnv("JWT_SECRET", "change-me"),
		RedisHost:               getEnv("REDIS_HOST", ""),
		RedisPort:               getEnv("REDIS_PORT", "6379"),
		RedisPassword:           getEnv("REDIS_PASSWORD", ""),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}

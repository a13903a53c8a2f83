// Package config loads runtime configuration from environment variables.
package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds every runtime setting. Fields map one-to-one to environment
// variables; zero values mean the corresponding feature is disabled.
type Config struct {
	Env  string // APP_ENV: dev, test or prod
	Port string // APP_PORT

	JWTSecret  string        // JWT_SECRET, required
	SessionTTL time.Duration // SESSION_TTL, default 24h
	NonceTTL   time.Duration // NONCE_TTL, default 5m

	RedisURL string // REDIS_URL; empty selects the in-memory nonce store
	MySQLDSN string // MYSQL_DSN, required

	SIWEDomain string // SIWE_DOMAIN; when set, messages must be bound to it
	ChainID    int64  // CHAIN_ID; when non-zero, messages must carry it

	AdminAddresses []string // ADMIN_ADDRESSES, comma-separated seed list
	CORSOrigins    []string // CORS_ORIGINS, comma-separated allowlist

	UploadDir     string // UPLOAD_DIR, default ./uploads
	UploadBaseURL string // UPLOAD_BASE_URL, default /uploads
	MaxUploadSize int64  // MAX_UPLOAD_BYTES, default 5 MiB

	StaticPriceIDR string // STATIC_PRICE_IDR price override, empty disables
	FixedPriceWei  string // FIXED_PRICE_WEI mint unit price, default "0"
	NFTContract    string // NFT_CONTRACT mint target address

	RateLimit RateLimitConfig
}

// Load reads the environment and returns a Config. Missing required
// variables abort the process.
func Load() Config {
	return Config{
		Env:            envStr("APP_ENV", "dev"),
		Port:           envStr("APP_PORT", "9000"),
		JWTSecret:      must("JWT_SECRET"),
		SessionTTL:     envDur("SESSION_TTL", 24*time.Hour),
		NonceTTL:       envDur("NONCE_TTL", 5*time.Minute),
		RedisURL:       os.Getenv("REDIS_URL"),
		MySQLDSN:       must("MYSQL_DSN"),
		SIWEDomain:     os.Getenv("SIWE_DOMAIN"),
		ChainID:        envInt64("CHAIN_ID", 0),
		AdminAddresses: envList("ADMIN_ADDRESSES"),
		CORSOrigins:    envList("CORS_ORIGINS"),
		UploadDir:      envStr("UPLOAD_DIR", "./uploads"),
		UploadBaseURL:  envStr("UPLOAD_BASE_URL", "/uploads"),
		MaxUploadSize:  envInt64("MAX_UPLOAD_BYTES", 5<<20),
		StaticPriceIDR: os.Getenv("STATIC_PRICE_IDR"),
		FixedPriceWei:  envStr("FIXED_PRICE_WEI", "0"),
		NFTContract:    os.Getenv("NFT_CONTRACT"),
		RateLimit:      LoadRateLimitConfig(),
	}
}

func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return def
}

func envInt64(key string, def int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if n, err := strconv.ParseInt(v, 10, 64); err == nil {
		return n
	}
	return def
}

func envBool(key string, def bool) bool {
	switch os.Getenv(key) {
	case "1", "true", "TRUE", "True", "yes", "on":
		return true
	case "0", "false", "FALSE", "False", "no", "off":
		return false
	}
	return def
}

func envDur(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	return def
}

func envList(key string) []string {
	var out []string
	for _, p := range strings.Split(os.Getenv(key), ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

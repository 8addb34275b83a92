package config

import (
	"os"
	"strconv"
	"time"
)

// MatchingConfig holds the tunables of the route/announcement matching
// engine. The per-type weight estimates are deployment configuration, not
// semantic constants: they are rough operational guesses.
type MatchingConfig struct {
	// Sub-score weights, must sum to 1.0.
	LocationWeight float64
	TimeWeight     float64
	CapacityWeight float64
	PriceWeight    float64

	// Pairings below KeepThreshold are not persisted; pairings strictly
	// above NotifyThreshold additionally notify the route's deliverer.
	KeepThreshold   int
	NotifyThreshold int

	// Estimated parcel weight in kg per announcement type.
	WeightEstimates map[string]float64
	// DefaultWeightEstimate applies to types absent from WeightEstimates.
	DefaultWeightEstimate float64
}

type Config struct {
	HTTPAddr    string
	DatabaseURL string
	JWTSecret   string
	JWTTTL      time.Duration

	RedisAddr string
	CacheTTL  time.Duration

	// AmqpURL empty means no broker: matching runs inline after creates.
	AmqpURL string

	Matching MatchingConfig
}

func Load() Config {
	return Config{
		HTTPAddr:    envOrDefault("HTTP_ADDR", ":8080"),
		DatabaseURL: envOrDefault("DATABASE_URL", "ecodeli.db"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		JWTTTL:      envOrDefaultDuration("JWT_TTL", 24*time.Hour),
		RedisAddr:   os.Getenv("REDIS_ADDR"),
		CacheTTL:    envOrDefaultDuration("CACHE_TTL", 5*time.Minute),
		AmqpURL:     os.Getenv("AMQP_URL"),
		Matching:    DefaultMatching(),
	}
}

// DefaultMatching returns the stock scoring configuration.
func DefaultMatching() MatchingConfig {
	return MatchingConfig{
		LocationWeight:  0.40,
		TimeWeight:      0.30,
		CapacityWeight:  0.20,
		PriceWeight:     0.10,
		KeepThreshold:   envOrDefaultInt("MATCH_KEEP_THRESHOLD", 50),
		NotifyThreshold: envOrDefaultInt("MATCH_NOTIFY_THRESHOLD", 75),
		WeightEstimates: map[string]float64{
			"PACKAGE_DELIVERY":       5,
			"SHOPPING":               10,
			"INTERNATIONAL_PURCHASE": 3,
		},
		DefaultWeightEstimate: 2,
	}
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envOrDefaultDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

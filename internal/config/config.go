package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds every runtime setting of the service.
type Config struct {
	Port      string
	LogLevel  string
	LogFormat string

	GeocodeProviders []string
	GeocodeTimeout   time.Duration
	GeocodeUserAgent string

	RouterURL    string
	RouteTimeout time.Duration
	RouteRetries int

	DatabaseURL      string
	AddressCacheSize int
	AddressCacheTTL  time.Duration

	RedisEnabled  bool
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RouteCacheTTL time.Duration

	KafkaBrokers []string
	KafkaTopic   string

	SessionIdleTTL     time.Duration
	CORSAllowedOrigins []string
	SeedPath           string
}

var defaultGeocodeProviders = []string{
	"https://nominatim.openstreetmap.org",
	"https://nominatim.openstreetmap.de",
	"https://nominatim.openstreetmap.fr",
}

// Load reads the configuration from the environment. Callers load .env
// beforehand with godotenv.
func Load() *Config {
	providers := getCSVEnv("GEOCODE_PROVIDERS")
	if len(providers) == 0 {
		providers = append([]string(nil), defaultGeocodeProviders...)
	}

	return &Config{
		Port:      Get("PORT", "8080"),
		LogLevel:  Get("LOG_LEVEL", "info"),
		LogFormat: Get("LOG_FORMAT", "json"),

		GeocodeProviders: providers,
		GeocodeTimeout:   getDurationEnv("GEOCODE_TIMEOUT", 8*time.Second),
		GeocodeUserAgent: Get("GEOCODE_USER_AGENT", "bus-route-service/1.0"),

		RouterURL:    strings.TrimRight(Get("ROUTER_URL", "https://router.project-osrm.org"), "/"),
		RouteTimeout: getDurationEnv("ROUTE_TIMEOUT", 10*time.Second),
		RouteRetries: getIntEnv("ROUTE_RETRIES", 2),

		DatabaseURL:      os.Getenv("DATABASE_URL"),
		AddressCacheSize: getIntEnv("ADDRESS_CACHE_SIZE", 10000),
		AddressCacheTTL:  getDurationEnv("ADDRESS_CACHE_TTL", 24*time.Hour),

		RedisEnabled:  getBoolEnv("REDIS_ENABLED", false),
		RedisAddr:     Get("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getIntEnv("REDIS_DB", 0),
		RouteCacheTTL: getDurationEnv("ROUTE_CACHE_TTL", time.Hour),

		KafkaBrokers: getCSVEnv("KAFKA_BROKERS"),
		KafkaTopic:   Get("KAFKA_TOPIC", "bus-lines.submitted"),

		SessionIdleTTL:     getDurationEnv("SESSION_IDLE_TTL", 30*time.Minute),
		CORSAllowedOrigins: getCSVEnv("CORS_ALLOWED_ORIGINS"),
		SeedPath:           Get("SEED_PATH", "data/seeds/addresses.json"),
	}
}

// Get returns the value of key, or fallback when it is unset or empty.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getBoolEnv(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getCSVEnv(key string) []string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}

	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

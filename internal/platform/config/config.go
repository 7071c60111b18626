package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

const defaultJWTSecret = "a-very-secret-key-should-be-longer-and-random"

// Config holds application configuration.
type Config struct {
	DatabaseURL       string
	Port              string
	IsProduction      bool
	EnableDBCheck     bool
	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// Accounting GraphQL gateway. Client credentials take precedence over the static token.
	GraphQLEndpoint     string
	GraphQLAPIToken     string
	GraphQLClientID     string
	GraphQLClientSecret string
	GraphQLTokenURL     string
	GraphQLTimeout      time.Duration

	BalanceTolerance  decimal.Decimal
	DraftIdleTTL      time.Duration // Drafts untouched for longer are dropped; 0 keeps them
	ReferenceCacheTTL time.Duration // 0 disables the reference-data cache

	RateLimit          string // ulule/limiter format, e.g. "300-M"; empty disables it
	CORSAllowedOrigins []string
	PosthogAPIKey      string
	PosthogEndpoint    string
}

// UsesClientCredentials reports whether the gateway token comes from an OAuth2 client-credentials flow.
func (c *Config) UsesClientCredentials() bool {
	return c.GraphQLClientID != "" && c.GraphQLClientSecret != "" && c.GraphQLTokenURL != ""
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("JWT_SECRET", defaultJWTSecret)
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "journal-draft-app")
	viper.SetDefault("GRAPHQL_ENDPOINT", "http://localhost:4000/graphql")
	viper.SetDefault("GRAPHQL_API_TOKEN", "")
	viper.SetDefault("GRAPHQL_CLIENT_ID", "")
	viper.SetDefault("GRAPHQL_CLIENT_SECRET", "")
	viper.SetDefault("GRAPHQL_TOKEN_URL", "")
	viper.SetDefault("GRAPHQL_TIMEOUT", "15s")
	viper.SetDefault("BALANCE_TOLERANCE", "0.01")
	viper.SetDefault("DRAFT_IDLE_TTL", "24h")
	viper.SetDefault("REFERENCE_CACHE_TTL", "5m")
	viper.SetDefault("RATE_LIMIT", "300-M")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("POSTHOG_API_KEY", "")
	viper.SetDefault("POSTHOG_ENDPOINT", "")

	// Environment variables override .env values and defaults.
	viper.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:         viper.GetString("PGSQL_URL"),
		Port:                viper.GetString("PORT"),
		IsProduction:        viper.GetBool("IS_PRODUCTION"),
		EnableDBCheck:       viper.GetBool("ENABLE_DB_CHECK"),
		JWTSecret:           viper.GetString("JWT_SECRET"),
		JWTIssuer:           viper.GetString("JWT_ISSUER"),
		GraphQLEndpoint:     viper.GetString("GRAPHQL_ENDPOINT"),
		GraphQLAPIToken:     viper.GetString("GRAPHQL_API_TOKEN"),
		GraphQLClientID:     viper.GetString("GRAPHQL_CLIENT_ID"),
		GraphQLClientSecret: viper.GetString("GRAPHQL_CLIENT_SECRET"),
		GraphQLTokenURL:     viper.GetString("GRAPHQL_TOKEN_URL"),
		RateLimit:           viper.GetString("RATE_LIMIT"),
		PosthogAPIKey:       viper.GetString("POSTHOG_API_KEY"),
		PosthogEndpoint:     viper.GetString("POSTHOG_ENDPOINT"),
	}

	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set. Drafts will be kept in memory.")
	}
	if cfg.Port == "" {
		cfg.Port = "8080" // Default port
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}
	if cfg.JWTSecret == "" || cfg.JWTSecret == defaultJWTSecret {
		cfg.JWTSecret = defaultJWTSecret // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}
	if cfg.GraphQLAPIToken == "" && !cfg.UsesClientCredentials() {
		log.Println("Warning: neither GRAPHQL_API_TOKEN nor GRAPHQL_CLIENT_* are set. Gateway requests will be unauthenticated.")
	}

	cfg.JWTExpiryDuration = durationOr("JWT_EXPIRY_DURATION", time.Hour)
	cfg.GraphQLTimeout = durationOr("GRAPHQL_TIMEOUT", 15*time.Second)
	cfg.DraftIdleTTL = durationOr("DRAFT_IDLE_TTL", 24*time.Hour)
	cfg.ReferenceCacheTTL = durationOr("REFERENCE_CACHE_TTL", 5*time.Minute)

	toleranceStr := viper.GetString("BALANCE_TOLERANCE")
	tolerance, err := decimal.NewFromString(strings.TrimSpace(toleranceStr))
	if err != nil || !tolerance.IsPositive() {
		tolerance = decimal.New(1, -2)
		log.Printf("Warning: Invalid value for BALANCE_TOLERANCE ('%s'). Defaulting to %s.\n", toleranceStr, tolerance)
	}
	cfg.BalanceTolerance = tolerance

	cfg.CORSAllowedOrigins = splitList(viper.GetString("CORS_ALLOWED_ORIGINS"))

	return cfg, nil
}

// durationOr reads a duration such as "90s" or "1h", falling back to def when the value is invalid.
func durationOr(key string, def time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, def)
		}
		return def
	}
	return d
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

/* config.go
 * Contains the Config struct and the loading of settings from the environment
 */

package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"l2match/api/external"
)

// Config holds every setting read from the environment
type Config struct {
	FrameAddr   string
	RelayAddr   string
	BaseURL     string
	ReleaseMode bool

	KVBackend     string
	RedisURL      string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	MongoURI      string
	MongoDB       string

	UserID              string
	StoreTimeout        time.Duration
	CollaboratorTimeout time.Duration
	SessionTTL          time.Duration
	MaxSessions         int

	LedgerRPCURL     string
	LedgerContract   string
	LedgerPrivateKey string

	AMQPURL      string
	AMQPExchange string

	RelayURL            string
	RelayRateLimit      float64
	RelayBurst          int
	RelayMaxMessageSize int64
	RelayAllowedOrigin  string

	DiscordToken string
}

// getEnv returns the value of key, or fallback when it is unset or empty
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

// loadConfig reads the configuration from the environment
// Preconditions: .env has already been loaded into the environment if present
// Postconditions: Returns the config, or an error naming the first variable that could not be parsed
func loadConfig() (Config, error) {
	cfg := Config{
		FrameAddr: getEnv("FRAME_ADDR", ":3000"),
		RelayAddr: getEnv("RELAY_ADDR", ":3001"),
		BaseURL:   strings.TrimRight(getEnv("BASE_URL", "https://l2match.vercel.app"), "/"),

		KVBackend:     strings.ToLower(getEnv("KV_BACKEND", "redis")),
		RedisURL:      getEnv("REDIS_URL", ""),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		MongoURI:      getEnv("MONGO_URI", ""),
		MongoDB:       getEnv("MONGO_DB", "l2match"),

		UserID: getEnv("USER_ID", "anonymous"),

		LedgerRPCURL:     getEnv("LEDGER_RPC_URL", "https://mainnet.base.org"),
		LedgerContract:   getEnv("LEDGER_CONTRACT", external.DefaultContractAddress),
		LedgerPrivateKey: getEnv("LEDGER_PRIVATE_KEY", ""),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", external.DefaultExchange),

		RelayURL:           getEnv("RELAY_URL", ""),
		RelayAllowedOrigin: getEnv("RELAY_ALLOWED_ORIGIN", "*"),

		DiscordToken: getEnv("DISCORD_TOKEN", ""),
	}

	var err error
	if cfg.ReleaseMode, err = convertStrToBool(getEnv("RELEASE_MODE", "true")); err != nil {
		return Config{}, fmt.Errorf("RELEASE_MODE: %w", err)
	}
	if cfg.RedisDB, err = strconv.Atoi(getEnv("REDIS_DB", "0")); err != nil {
		return Config{}, fmt.Errorf("REDIS_DB: %w", err)
	}
	if cfg.StoreTimeout, err = time.ParseDuration(getEnv("STORE_TIMEOUT", "10s")); err != nil {
		return Config{}, fmt.Errorf("STORE_TIMEOUT: %w", err)
	}
	if cfg.CollaboratorTimeout, err = time.ParseDuration(getEnv("COLLABORATOR_TIMEOUT", "10s")); err != nil {
		return Config{}, fmt.Errorf("COLLABORATOR_TIMEOUT: %w", err)
	}
	if cfg.RelayRateLimit, err = strconv.ParseFloat(getEnv("RELAY_RATE_LIMIT", "0"), 64); err != nil {
		return Config{}, fmt.Errorf("RELAY_RATE_LIMIT: %w", err)
	}
	if cfg.RelayBurst, err = strconv.Atoi(getEnv("RELAY_BURST", "0")); err != nil {
		return Config{}, fmt.Errorf("RELAY_BURST: %w", err)
	}

	if cfg.RelayMaxMessageSize, err = strconv.ParseInt(getEnv("RELAY_MAX_MESSAGE_SIZE", "1000000"), 10, 64); err != nil {
		return Config{}, fmt.Errorf("RELAY_MAX_MESSAGE_SIZE: %w", err)
	}
	if cfg.SessionTTL, err = time.ParseDuration(getEnv("SESSION_TTL", "30m")); err != nil {
		return Config{}, fmt.Errorf("SESSION_TTL: %w", err)
	}
	if cfg.MaxSessions, err = strconv.Atoi(getEnv("MAX_SESSIONS", "10000")); err != nil {
		return Config{}, fmt.Errorf("MAX_SESSIONS: %w", err)
	}

	switch cfg.KVBackend {
	case "redis", "mongo", "memory":
	default:
		return Config{}, fmt.Errorf("KV_BACKEND: unknown backend %q", cfg.KVBackend)
	}

	return cfg, nil
}

// allowedOrigins returns the frame API origins for the configured relay origin
func (c Config) allowedOrigins() []string {
	if c.RelayAllowedOrigin == "" || c.RelayAllowedOrigin == "*" {
		return []string{"*"}
	}
	var origins []string
	for _, o := range strings.Split(c.RelayAllowedOrigin, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

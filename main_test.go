/* main_test.go
 * Contains unit tests for the configuration helpers of the main package
 */

package main

import (
	"testing"
	"time"

	"l2match/api/external"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// region convertStrToBool

// TestConvertStrToBool_True tests converting "true" string
func TestConvertStrToBool_True(t *testing.T) {
	result, err := convertStrToBool("true")

	assert.NoError(t, err)
	assert.True(t, result)
}

// TestConvertStrToBool_False tests converting "false" string
func TestConvertStrToBool_False(t *testing.T) {
	result, err := convertStrToBool("false")

	assert.NoError(t, err)
	assert.False(t, result)
}

// TestConvertStrToBool_CaseInsensitiveTrue tests case-insensitive "TRUE"
func TestConvertStrToBool_CaseInsensitiveTrue(t *testing.T) {
	result, err := convertStrToBool("TRUE")

	assert.NoError(t, err)
	assert.True(t, result)
}

// TestConvertStrToBool_CaseInsensitiveFalse tests case-insensitive "FALSE"
func TestConvertStrToBool_CaseInsensitiveFalse(t *testing.T) {
	result, err := convertStrToBool("FALSE")

	assert.NoError(t, err)
	assert.False(t, result)
}

// TestConvertStrToBool_MixedCase tests mixed case "TrUe"
func TestConvertStrToBool_MixedCase(t *testing.T) {
	result, err := convertStrToBool("TrUe")

	assert.NoError(t, err)
	assert.True(t, result)
}

// TestConvertStrToBool_WithWhitespace tests string with leading/trailing whitespace
func TestConvertStrToBool_WithWhitespace(t *testing.T) {
	result, err := convertStrToBool("  true  ")

	assert.NoError(t, err)
	assert.True(t, result)
}

// TestConvertStrToBool_InvalidString tests invalid boolean string
func TestConvertStrToBool_InvalidString(t *testing.T) {
	_, err := convertStrToBool("yes")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid boolean string")
}

// TestConvertStrToBool_EmptyString tests empty string
func TestConvertStrToBool_EmptyString(t *testing.T) {
	_, err := convertStrToBool("")

	assert.Error(t, err)
}

// TestConvertStrToBool_NumberString tests numeric string
func TestConvertStrToBool_NumberString(t *testing.T) {
	_, err := convertStrToBool("1")

	assert.Error(t, err)
}

// TestConvertStrToBool_OnlyWhitespace tests string with only whitespace
func TestConvertStrToBool_OnlyWhitespace(t *testing.T) {
	_, err := convertStrToBool("   ")

	assert.Error(t, err)
}

// endregion

// region getEnv

func TestGetEnv_Set(t *testing.T) {
	t.Setenv("L2MATCH_TEST_KEY", "value")

	assert.Equal(t, "value", getEnv("L2MATCH_TEST_KEY", "fallback"))
}

func TestGetEnv_EmptyUsesFallback(t *testing.T) {
	t.Setenv("L2MATCH_TEST_KEY", "")

	assert.Equal(t, "fallback", getEnv("L2MATCH_TEST_KEY", "fallback"))
}

func TestGetEnv_Unset(t *testing.T) {
	assert.Equal(t, "fallback", getEnv("L2MATCH_TEST_KEY_NEVER_SET", "fallback"))
}

// endregion

// region loadConfig

var configKeys = []string{
	"FRAME_ADDR", "RELAY_ADDR", "BASE_URL", "RELEASE_MODE", "KV_BACKEND", "REDIS_URL", "REDIS_ADDR",
	"REDIS_PASSWORD", "REDIS_DB", "MONGO_URI", "MONGO_DB", "USER_ID", "STORE_TIMEOUT", "COLLABORATOR_TIMEOUT",
	"LEDGER_RPC_URL", "LEDGER_CONTRACT", "LEDGER_PRIVATE_KEY", "AMQP_URL", "AMQP_EXCHANGE", "RELAY_URL",
	"RELAY_RATE_LIMIT", "RELAY_BURST", "RELAY_MAX_MESSAGE_SIZE", "RELAY_ALLOWED_ORIGIN", "DISCORD_TOKEN",
	"SESSION_TTL", "MAX_SESSIONS",
}

// clearConfigEnv blanks every configuration variable for the duration of the test
func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := loadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":3000", cfg.FrameAddr)
	assert.Equal(t, ":3001", cfg.RelayAddr)
	assert.Equal(t, "https://l2match.vercel.app", cfg.BaseURL)
	assert.True(t, cfg.ReleaseMode)
	assert.Equal(t, "redis", cfg.KVBackend)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 0, cfg.RedisDB)
	assert.Equal(t, "l2match", cfg.MongoDB)
	assert.Equal(t, "anonymous", cfg.UserID)
	assert.Equal(t, 10*time.Second, cfg.StoreTimeout)
	assert.Equal(t, 10*time.Second, cfg.CollaboratorTimeout)
	assert.Equal(t, external.DefaultContractAddress, cfg.LedgerContract)
	assert.Equal(t, external.DefaultExchange, cfg.AMQPExchange)
	assert.Zero(t, cfg.RelayRateLimit)
	assert.Zero(t, cfg.RelayBurst)
	assert.Equal(t, int64(1000000), cfg.RelayMaxMessageSize)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, 10000, cfg.MaxSessions)
	assert.Equal(t, "*", cfg.RelayAllowedOrigin)
	assert.Empty(t, cfg.RelayURL)
	assert.Empty(t, cfg.LedgerPrivateKey)
}

func TestLoadConfig_Overrides(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("FRAME_ADDR", ":8080")
	t.Setenv("BASE_URL", "https://example.com/")
	t.Setenv("RELEASE_MODE", "FALSE")
	t.Setenv("KV_BACKEND", "Mongo")
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("STORE_TIMEOUT", "250ms")
	t.Setenv("RELAY_RATE_LIMIT", "1.5")
	t.Setenv("RELAY_BURST", "2")
	t.Setenv("SESSION_TTL", "5m")
	t.Setenv("MAX_SESSIONS", "50")
	t.Setenv("RELAY_URL", "ws://localhost:3001/")

	cfg, err := loadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.FrameAddr)
	assert.Equal(t, "https://example.com", cfg.BaseURL)
	assert.False(t, cfg.ReleaseMode)
	assert.Equal(t, "mongo", cfg.KVBackend)
	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoURI)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, 250*time.Millisecond, cfg.StoreTimeout)
	assert.Equal(t, 1.5, cfg.RelayRateLimit)
	assert.Equal(t, 2, cfg.RelayBurst)
	assert.Equal(t, 5*time.Minute, cfg.SessionTTL)
	assert.Equal(t, 50, cfg.MaxSessions)
	assert.Equal(t, "ws://localhost:3001/", cfg.RelayURL)
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"RELEASE_MODE", "yes"},
		{"REDIS_DB", "one"},
		{"STORE_TIMEOUT", "10"},
		{"COLLABORATOR_TIMEOUT", "soon"},
		{"RELAY_RATE_LIMIT", "fast"},
		{"RELAY_BURST", "1.5"},
		{"RELAY_MAX_MESSAGE_SIZE", "1MB"},
		{"SESSION_TTL", "forever"},
		{"MAX_SESSIONS", "many"},
		{"KV_BACKEND", "postgres"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			clearConfigEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := loadConfig()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestAllowedOrigins(t *testing.T) {
	assert.Equal(t, []string{"*"}, Config{RelayAllowedOrigin: "*"}.allowedOrigins())
	assert.Equal(t, []string{"*"}, Config{}.allowedOrigins())
	assert.Equal(t, []string{"https://a.example", "https://b.example"},
		Config{RelayAllowedOrigin: "https://a.example, https://b.example,"}.allowedOrigins())
}

// endregion

package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg := Load()

		assert.Equal(t, 8094, cfg.HTTPPort)
		assert.Equal(t, "ledger_core", cfg.DB.Name)
		assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
		assert.Equal(t, "ledger.events", cfg.Kafka.Topic)
		assert.True(t, cfg.Policy.PenaltyRatePct.Equal(decimal.NewFromInt(5)))
		assert.False(t, cfg.Policy.RejectOverpayment)
		assert.Equal(t, 3, cfg.Policy.MatchDateWindowDays)
		assert.Equal(t, 95, cfg.Policy.AutoMatchThreshold)
		assert.Equal(t, 24*time.Hour, cfg.PenaltyInterval)
		assert.Equal(t, 5*time.Second, cfg.OutboxInterval)
		assert.Equal(t, 100, cfg.OutboxBatchSize)
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("HTTP_PORT", "9000")
		t.Setenv("PENALTY_RATE_PCT", "2.5")
		t.Setenv("REJECT_OVERPAYMENT", "true")
		t.Setenv("PENALTY_INTERVAL", "1h")

		cfg := Load()

		assert.Equal(t, 9000, cfg.HTTPPort)
		assert.True(t, cfg.Policy.PenaltyRatePct.Equal(decimal.RequireFromString("2.5")))
		assert.True(t, cfg.Policy.RejectOverpayment)
		assert.Equal(t, time.Hour, cfg.PenaltyInterval)
	})

	t.Run("malformed values fall back to defaults", func(t *testing.T) {
		t.Setenv("HTTP_PORT", "not-a-port")
		t.Setenv("PENALTY_RATE_PCT", "lots")

		cfg := Load()

		assert.Equal(t, 8094, cfg.HTTPPort)
		assert.True(t, cfg.Policy.PenaltyRatePct.Equal(decimal.NewFromInt(5)))
	})
}

func TestValidate(t *testing.T) {
	t.Run("panics without a database password", func(t *testing.T) {
		t.Setenv("DB_PASSWORD", "")
		cfg := Load()

		assert.Panics(t, func() { cfg.Validate() })
	})

	t.Run("passes with a database password", func(t *testing.T) {
		t.Setenv("DB_PASSWORD", "secret")
		cfg := Load()

		assert.NotPanics(t, func() { cfg.Validate() })
	})
}

func TestPolicy(t *testing.T) {
	policy := NewPolicy(PolicyConfig{
		PenaltyRatePct:            decimal.NewFromInt(7),
		RejectOverpayment:         true,
		MatchDateWindowDays:       5,
		MatchAmountToleranceMinor: 50,
		AutoMatchThreshold:        90,
	})

	assert.True(t, policy.PenaltyRatePct().Equal(decimal.NewFromInt(7)))
	assert.True(t, policy.RejectOverpayment())
	assert.Equal(t, 5, policy.MatchDateWindowDays())
	assert.Equal(t, int64(50), policy.MatchAmountToleranceMinor())
	assert.Equal(t, 90, policy.AutoMatchThreshold())
}

func TestUTCClock(t *testing.T) {
	now := UTCClock{}.Now()
	assert.Equal(t, time.UTC, now.Location())
}

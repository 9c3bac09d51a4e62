package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/elie009/utlityhub360-sub005/internal/domain/port"
)

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

type KafkaConfig struct {
	Brokers       []string
	Topic         string
	TLS           bool
	SASLEnabled   bool
	SASLMechanism string
	SASLUsername  string
	SASLPassword  string
}

// PolicyConfig carries the tunable knobs of the ledger core: penalty pricing,
// overpayment handling and the matcher thresholds.
type PolicyConfig struct {
	PenaltyRatePct            decimal.Decimal
	RejectOverpayment         bool
	MatchDateWindowDays       int
	MatchAmountToleranceMinor int64
	AutoMatchThreshold        int
}

type Config struct {
	HTTPPort        int
	DB              DatabaseConfig
	Kafka           KafkaConfig
	Policy          PolicyConfig
	PenaltyInterval time.Duration
	OutboxInterval  time.Duration
	OutboxBatchSize int
	LogLevel        string
	LogFormat       string
	ServiceName     string
}

func (c Config) Validate() {
	if c.DB.Password == "" {
		panic("DB_PASSWORD environment variable is required")
	}
}

func Load() Config {
	return Config{
		HTTPPort: getEnvInt("HTTP_PORT", 8094),
		DB: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "ledger"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "ledger_core"),
			SSLMode:  getEnv("DB_SSLMODE", "require"),
			MaxConns: int32(getEnvInt("DB_MAX_CONNS", 10)),
			MinConns: int32(getEnvInt("DB_MIN_CONNS", 2)),
		},
		Kafka: KafkaConfig{
			Brokers:       []string{getEnv("KAFKA_BROKERS", "localhost:9092")},
			Topic:         getEnv("KAFKA_TOPIC", "ledger.events"),
			TLS:           getEnvBool("KAFKA_TLS", false),
			SASLEnabled:   getEnvBool("KAFKA_SASL_ENABLED", false),
			SASLMechanism: getEnv("KAFKA_SASL_MECHANISM", "PLAIN"),
			SASLUsername:  getEnv("KAFKA_SASL_USERNAME", ""),
			SASLPassword:  getEnv("KAFKA_SASL_PASSWORD", ""),
		},
		Policy: PolicyConfig{
			PenaltyRatePct:            getEnvDecimal("PENALTY_RATE_PCT", decimal.NewFromInt(5)),
			RejectOverpayment:         getEnvBool("REJECT_OVERPAYMENT", false),
			MatchDateWindowDays:       getEnvInt("MATCH_DATE_WINDOW_DAYS", 3),
			MatchAmountToleranceMinor: int64(getEnvInt("MATCH_AMOUNT_TOLERANCE_MINOR", 0)),
			AutoMatchThreshold:        getEnvInt("AUTO_MATCH_THRESHOLD", 95),
		},
		PenaltyInterval: getEnvDuration("PENALTY_INTERVAL", 24*time.Hour),
		OutboxInterval:  getEnvDuration("OUTBOX_INTERVAL", 5*time.Second),
		OutboxBatchSize: getEnvInt("OUTBOX_BATCH_SIZE", 100),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       getEnv("LOG_FORMAT", "json"),
		ServiceName:     "ledger-core",
	}
}

func (c Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// Policy adapts PolicyConfig to port.PolicyProvider.
type Policy struct {
	cfg PolicyConfig
}

var _ port.PolicyProvider = Policy{}

// NewPolicy wraps the loaded policy knobs as a provider.
func NewPolicy(cfg PolicyConfig) Policy {
	return Policy{cfg: cfg}
}

func (p Policy) PenaltyRatePct() decimal.Decimal  { return p.cfg.PenaltyRatePct }
func (p Policy) RejectOverpayment() bool          { return p.cfg.RejectOverpayment }
func (p Policy) MatchDateWindowDays() int         { return p.cfg.MatchDateWindowDays }
func (p Policy) MatchAmountToleranceMinor() int64 { return p.cfg.MatchAmountToleranceMinor }
func (p Policy) AutoMatchThreshold() int          { return p.cfg.AutoMatchThreshold }

// UTCClock implements port.Clock with the system time in UTC.
type UTCClock struct{}

var _ port.Clock = UTCClock{}

func (UTCClock) Now() time.Time { return time.Now().UTC() }

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDecimal(key string, fallback decimal.Decimal) decimal.Decimal {
	if v := os.Getenv(key); v != "" {
		if d, err := decimal.NewFromString(v); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

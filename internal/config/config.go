package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Port        int    `validate:"min=1,max=65535"`
	APIKey      string `validate:"required"`
	LogLevel    string
	LogFormat   string `validate:"oneof=text json"`
	LogDir      string
	ServiceName string
	Version     string
	Environment string

	StorageDriver     string `validate:"oneof=postgres bolt"`
	DBUser            string
	DBPassword        string
	DBHost            string
	DBPort            string
	DBName            string
	DBMaxConns        int `validate:"min=1"`
	DBMaxConnIdleTime time.Duration
	DBMaxConnLifetime time.Duration
	BoltPath          string `validate:"required_if=StorageDriver bolt"`

	PoolID            string `validate:"required"`
	Network           string `validate:"required"`
	NetworkConfigPath string `validate:"required"`

	KeeperInterval  time.Duration `validate:"gt=0"`
	DrawTimeout     time.Duration `validate:"gt=0"`
	VRFFulfillDelay time.Duration `validate:"gte=0"`
	DrawCacheSize   int           `validate:"min=1"`
	DrawCacheTTL    time.Duration
	WorkerCount     int `validate:"min=1"`

	EventMaxRetries     int `validate:"gte=0"`
	EventRetryDelay     time.Duration
	EventDeadLetterPath string

	DiscordToken     string
	DiscordAppID     string
	DiscordChannelID string `validate:"required_with=DiscordToken"`

	TrustedProxies []string
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// .env is optional, real env vars win
	_ = godotenv.Load()

	cfg := &Config{
		APIKey:      getEnv("API_KEY", ""),
		LogLevel:    strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat:   strings.ToLower(getEnv("LOG_FORMAT", "text")),
		LogDir:      getEnv("LOG_DIR", "logs"),
		ServiceName: getEnv("SERVICE_NAME", "lotto"),
		Version:     getEnv("VERSION", "dev"),
		Environment: getEnv("ENVIRONMENT", "dev"),

		StorageDriver:     strings.ToLower(getEnv("STORAGE_DRIVER", StorageDriverPostgres)),
		DBUser:            getEnv("DB_USER", "postgres"),
		DBPassword:        getEnv("DB_PASSWORD", "postgres"),
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBPort:            getEnv("DB_PORT", "5432"),
		DBName:            getEnv("DB_NAME", "lotto"),
		DBMaxConns:        getEnvAsInt("DB_MAX_CONNS", DefaultDBMaxConns),
		DBMaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", DefaultDBMaxConnIdleTime),
		DBMaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", DefaultDBMaxConnLifetime),
		BoltPath:          getEnv("BOLT_PATH", DefaultBoltPath),

		PoolID:            getEnv("POOL_ID", DefaultPoolID),
		Network:           getEnv("NETWORK", DefaultNetwork),
		NetworkConfigPath: getEnv("NETWORK_CONFIG_PATH", ConfigPathNetworks),

		KeeperInterval:  getEnvAsDuration("KEEPER_INTERVAL", DefaultKeeperInterval),
		DrawTimeout:     getEnvAsDuration("DRAW_TIMEOUT", DefaultDrawTimeout),
		VRFFulfillDelay: getEnvAsDuration("VRF_FULFILL_DELAY", DefaultVRFFulfillDelay),
		DrawCacheSize:   getEnvAsInt("DRAW_CACHE_SIZE", DefaultDrawCacheSize),
		DrawCacheTTL:    getEnvAsDuration("DRAW_CACHE_TTL", DefaultDrawCacheTTL),
		WorkerCount:     getEnvAsInt("WORKER_COUNT", DefaultWorkerCount),

		EventMaxRetries:     getEnvAsInt("EVENT_MAX_RETRIES", DefaultEventMaxRetries),
		EventRetryDelay:     getEnvAsDuration("EVENT_RETRY_DELAY", DefaultEventRetryDelay),
		EventDeadLetterPath: getEnv("DEAD_LETTER_PATH", DefaultEventDeadLetterPath),

		DiscordToken:     getEnv("DISCORD_TOKEN", ""),
		DiscordAppID:     getEnv("DISCORD_APP_ID", ""),
		DiscordChannelID: getEnv("DISCORD_CHANNEL_ID", ""),

		TrustedProxies: getEnvAsList("TRUSTED_PROXIES"),
	}

	port, err := strconv.Atoi(getEnv("PORT", strconv.Itoa(DefaultPort)))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgInvalidPort, err)
	}
	cfg.Port = port

	if cfg.APIKey == "" {
		return nil, errors.New(ErrMsgAPIKeyMissing)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks field constraints
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgInvalidConfig, err)
	}
	return nil
}

// DiscordEnabled reports whether winner announcements should be sent
func (c *Config) DiscordEnabled() bool {
	return c.DiscordToken != ""
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return v
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return d
}

// getEnvAsList splits a comma separated variable, dropping empty items
func getEnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}

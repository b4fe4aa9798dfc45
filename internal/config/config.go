package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

const (
	minJWTSecretLength       = 32
	minUniqueCharsInSecret   = 16
	minRepeatedCharThreshold = 4
	maxRepeatedChars         = 2

	errPortRequiredFmt           = "PORT must be set"
	errUnknownDriverFmt          = "STORE_DRIVER must be %q or %q, got %q"
	errDBPasswordRequiredFmt     = "DB_PASSWORD must be set"
	errRegionRequiredFmt         = "REGION must be set"
	errBucketRequiredFmt         = "S3_BUCKET must be set"
	errAWSAccessKeyRequiredFmt   = "AWS_ACCESS_KEY_ID must be set"
	errAWSSecretKeyRequiredFmt   = "AWS_SECRET_ACCESS_KEY must be set"
	errJWTSecretRequiredFmt      = "JWT_SECRET must be set"
	errJWTSecretMinLengthFmt     = "JWT_SECRET must be at least %d characters"
	errJWTSecretLowEntropyFmt    = "JWT_SECRET has insufficient entropy (appears non-random). Use a cryptographically secure random string."
	errPageSizeFmt               = "PAGINATION_PAGE_SIZE must be between 1 and %d"
	errGenerationTimeoutFmt      = "GENERATION_TIMEOUT must be positive"
	errRateLimitFmt              = "rate limits must be positive"
	errMaxUploadSizeFmt          = "MAX_UPLOAD_SIZE must be positive"
	errInvalidConfigurationFmt   = "invalid configuration: %w"
	errFailedParseEnvironmentFmt = "failed to parse environment: %w"
)

const maxPageSize = 200

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	AWS        AWSConfig
	JWT        JWTConfig
	App        AppConfig
	RateLimit  RateLimitConfig
	Generation GenerationConfig
}

type ServerConfig struct {
	Port            string        `env:"PORT" envDefault:"8080"`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	// EnableProfiling mounts pprof under /api/admin/debug/pprof.
	EnableProfiling bool `env:"ENABLE_PROFILING" envDefault:"false"`
}

type DatabaseConfig struct {
	Driver   string `env:"STORE_DRIVER" envDefault:"postgres"`
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     int    `env:"DB_PORT" envDefault:"5432"`
	Database string `env:"DB_NAME" envDefault:"studio"`
	User     string `env:"DB_USER" envDefault:"studio_app"`
	Password string `env:"DB_PASSWORD"`
	SSLMode  string `env:"DB_SSL_MODE" envDefault:"disable"`
	MaxConns int    `env:"DB_MAX_CONNS" envDefault:"25"`
	MinConns int    `env:"DB_MIN_CONNS" envDefault:"5"`
}

type AWSConfig struct {
	Region          string `env:"REGION"`
	AccessKeyID     string `env:"AWS_ACCESS_KEY_ID"`
	SecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY"`
	Bucket          string `env:"S3_BUCKET"`
	// Endpoint overrides the S3 endpoint (MinIO, localstack).
	Endpoint string `env:"S3_ENDPOINT"`
	// PublicBaseURL is prepended to object keys to form asset URLs. Empty
	// means the bucket's virtual-hosted URL.
	PublicBaseURL string `env:"S3_PUBLIC_BASE_URL"`
}

type JWTConfig struct {
	Secret         string        `env:"JWT_SECRET"`
	ExpiryDuration time.Duration `env:"JWT_EXPIRY" envDefault:"60m"`
}

type AppConfig struct {
	PageSize      int   `env:"PAGINATION_PAGE_SIZE" envDefault:"50"`
	MaxUploadSize int64 `env:"MAX_UPLOAD_SIZE" envDefault:"104857600"`
}

// RateLimitConfig sizes the token buckets: one per client IP in front of
// everything, one per authenticated user on /api.
type RateLimitConfig struct {
	IPRequestsPerSecond   int `env:"RATE_LIMIT_IP_RPS" envDefault:"100"`
	IPBurst               int `env:"RATE_LIMIT_IP_BURST" envDefault:"200"`
	UserRequestsPerSecond int `env:"RATE_LIMIT_USER_RPS" envDefault:"20"`
	UserBurst             int `env:"RATE_LIMIT_USER_BURST" envDefault:"40"`
}

type GenerationConfig struct {
	URL     string        `env:"GENERATION_URL"`
	APIKey  string        `env:"GENERATION_API_KEY"`
	Timeout time.Duration `env:"GENERATION_TIMEOUT" envDefault:"60s"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf(errFailedParseEnvironmentFmt, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf(errInvalidConfigurationFmt, err)
	}

	return cfg, nil
}

func (c *Config) UsesPostgres() bool {
	return c.Database.Driver == DriverPostgres
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf(errPortRequiredFmt)
	}

	switch c.Database.Driver {
	case DriverPostgres:
		if err := c.validateBackends(); err != nil {
			return err
		}
	case DriverMemory:
	default:
		return fmt.Errorf(errUnknownDriverFmt, DriverPostgres, DriverMemory, c.Database.Driver)
	}

	if c.App.PageSize < 1 || c.App.PageSize > maxPageSize {
		return fmt.Errorf(errPageSizeFmt, maxPageSize)
	}

	if c.App.MaxUploadSize <= 0 {
		return fmt.Errorf(errMaxUploadSizeFmt)
	}

	rl := c.RateLimit
	if rl.IPRequestsPerSecond <= 0 || rl.IPBurst <= 0 || rl.UserRequestsPerSecond <= 0 || rl.UserBurst <= 0 {
		return fmt.Errorf(errRateLimitFmt)
	}

	if c.Generation.Timeout <= 0 {
		return fmt.Errorf(errGenerationTimeoutFmt)
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf(errJWTSecretRequiredFmt)
	}

	if len(c.JWT.Secret) < minJWTSecretLength {
		return fmt.Errorf(errJWTSecretMinLengthFmt, minJWTSecretLength)
	}

	if !hasMinimumEntropy(c.JWT.Secret) {
		return fmt.Errorf(errJWTSecretLowEntropyFmt)
	}

	return nil
}

func (c *Config) validateBackends() error {
	if c.Database.Password == "" {
		return fmt.Errorf(errDBPasswordRequiredFmt)
	}

	if c.AWS.Region == "" {
		return fmt.Errorf(errRegionRequiredFmt)
	}

	if c.AWS.Bucket == "" {
		return fmt.Errorf(errBucketRequiredFmt)
	}

	if c.AWS.AccessKeyID == "" {
		return fmt.Errorf(errAWSAccessKeyRequiredFmt)
	}

	if c.AWS.SecretAccessKey == "" {
		return fmt.Errorf(errAWSSecretKeyRequiredFmt)
	}

	return nil
}

func hasMinimumEntropy(secret string) bool {
	if len(secret) < minJWTSecretLength {
		return false
	}

	charCounts := make(map[rune]int)
	for _, char := range secret {
		charCounts[char]++
	}

	if len(charCounts) < minUniqueCharsInSecret {
		return false
	}

	repeatedChars := 0
	for _, count := range charCounts {
		if count > len(secret)/minRepeatedCharThreshold {
			repeatedChars++
		}
	}

	return repeatedChars <= maxRepeatedChars
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// MigrationURL is the golang-migrate form of DSN.
func (c *DatabaseConfig) MigrationURL() string {
	u := url.URL{
		Scheme:   "pgx5",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.Database,
		RawQuery: "sslmode=" + url.QueryEscape(c.SSLMode),
	}
	return u.String()
}

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "k9$Lq2!vX7#pR4@mZ8&wT1^bN6*hF3%dJ5"

func memoryConfig() *Config {
	return &Config{
		Server:     ServerConfig{Port: "8080"},
		Database:   DatabaseConfig{Driver: DriverMemory},
		JWT:        JWTConfig{Secret: testSecret},
		App:        AppConfig{PageSize: 50, MaxUploadSize: 1 << 20},
		RateLimit:  RateLimitConfig{IPRequestsPerSecond: 10, IPBurst: 10, UserRequestsPerSecond: 5, UserBurst: 5},
		Generation: GenerationConfig{Timeout: 1},
	}
}

func TestLoad_MemoryDriver(t *testing.T) {
	t.Setenv("STORE_DRIVER", DriverMemory)
	t.Setenv("JWT_SECRET", testSecret)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 50, cfg.App.PageSize)
	assert.Equal(t, 20, cfg.RateLimit.UserRequestsPerSecond)
	assert.False(t, cfg.UsesPostgres())
}

func TestLoad_PostgresRequiresBackends(t *testing.T) {
	t.Setenv("STORE_DRIVER", DriverPostgres)
	t.Setenv("JWT_SECRET", testSecret)

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_PASSWORD")
}

func TestValidate(t *testing.T) {
	t.Run("valid memory config", func(t *testing.T) {
		assert.NoError(t, memoryConfig().Validate())
	})

	t.Run("unknown driver", func(t *testing.T) {
		cfg := memoryConfig()
		cfg.Database.Driver = "sqlite"
		assert.Error(t, cfg.Validate())
	})

	t.Run("short secret", func(t *testing.T) {
		cfg := memoryConfig()
		cfg.JWT.Secret = "short"
		assert.Error(t, cfg.Validate())
	})

	t.Run("low entropy secret", func(t *testing.T) {
		cfg := memoryConfig()
		cfg.JWT.Secret = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
		assert.Error(t, cfg.Validate())
	})

	t.Run("page size out of range", func(t *testing.T) {
		cfg := memoryConfig()
		cfg.App.PageSize = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("zero rate limit", func(t *testing.T) {
		cfg := memoryConfig()
		cfg.RateLimit.UserBurst = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("postgres needs bucket", func(t *testing.T) {
		cfg := memoryConfig()
		cfg.Database = DatabaseConfig{Driver: DriverPostgres, Password: "pw"}
		cfg.AWS = AWSConfig{Region: "us-east-1", AccessKeyID: "id", SecretAccessKey: "secret"}
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "S3_BUCKET")
	})
}

func TestDatabaseConfig_MigrationURL(t *testing.T) {
	db := DatabaseConfig{Host: "db", Port: 5432, Database: "studio", User: "app", Password: "p@ss", SSLMode: "disable"}

	assert.Equal(t, "pgx5://app:p%40ss@db:5432/studio?sslmode=disable", db.MigrationURL())
	assert.Equal(t, "host=db port=5432 user=app password=p@ss dbname=studio sslmode=disable", db.DSN())
}

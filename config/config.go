package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Config struct {
	Port        string `env:"PORT" envDefault:"8000"`
	BindAddress string `env:"BIND_ADDRESS" envDefault:"localhost"`
	GinMode     string `env:"GIN_MODE" envDefault:"debug"`

	DatabaseURL       string        `env:"DATABASE_URL"`
	DBHost            string        `env:"DB_HOST" envDefault:"localhost"`
	DBPort            string        `env:"DB_PORT" envDefault:"5432"`
	DBUser            string        `env:"DB_USER" envDefault:"scoreboard"`
	DBPassword        string        `env:"DB_PASSWORD" envDefault:"scoreboard"`
	DBName            string        `env:"DB_NAME" envDefault:"scoreboard"`
	DBMaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"10"`
	DBMaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"10"`
	DBConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"5m"`
	DBLockTimeout     time.Duration `env:"DB_LOCK_TIMEOUT" envDefault:"5s"`
	AutoMigrate       bool          `env:"AUTO_MIGRATE" envDefault:"true"`
	SeedOnStart       bool          `env:"SEED_ON_START" envDefault:"true"`

	RedisHost      string        `env:"REDIS_HOST"`
	RedisPort      string        `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword  string        `env:"REDIS_PASSWORD"`
	ScoresCacheTTL time.Duration `env:"SCORES_CACHE_TTL" envDefault:"30s"`

	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,http://localhost:5173,http://127.0.0.1:3000,http://127.0.0.1:5173,https://scoreboard-app-snowy.vercel.app"`

	OTelEndpoint string `env:"OTEL_ENDPOINT"`
}

// LoadDotEnv loads environment variables from a .env file if present.
// Existing environment variables are not overwritten.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Load(path)
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// DSN prefers DATABASE_URL and falls back to the discrete DB_* settings.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}

func (c *Config) ListenAddr() string {
	return c.BindAddress + ":" + c.Port
}

func InitDB(cfg *Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access connection pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.DBConnMaxLifetime)

	return db, nil
}

// InitRedis returns nil when no redis host is configured; the scores cache is
// optional.
func InitRedis(cfg *Config) *redis.Client {
	if strings.TrimSpace(cfg.RedisHost) == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       0,
	})
}

package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string        `env:"PORT,      default=8080"`
	Env       string        `env:"ENV,       default=development"`
	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL, default=1h"`
	LogLevel  string        `env:"LOG_LEVEL, default=info"`
	XPWorkers int           `env:"XP_WORKERS, default=4"`

	Mongo   MongoConfig
	Redis   RedisConfig
	Storage StorageConfig
	Admin   AdminConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=library_system"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

type StorageConfig struct {
	// Driver selects the upload sink: "disk" or "s3".
	Driver      string `env:"STORAGE_DRIVER, default=disk"`
	UploadDir   string `env:"UPLOAD_DIR,     default=uploads"`
	S3Bucket    string `env:"S3_BUCKET"`
	MaxUploadMB int64  `env:"MAX_UPLOAD_MB,  default=32"`
}

// AdminConfig describes the admin account seeded at startup when absent.
type AdminConfig struct {
	Username string `env:"ADMIN_USERNAME, default=admin"`
	Password string `env:"ADMIN_PASSWORD"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

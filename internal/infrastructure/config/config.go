package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	// PublicBaseURL is the externally reachable URL of the site, used to
	// build unsubscribe links in newsletter mail.
	PublicBaseURL string `env:"PUBLIC_BASE_URL, default=http://localhost:8080"`

	Mongo      MongoConfig
	Redis      RedisConfig
	Email      EmailConfig
	Newsletter NewsletterConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=civicvoice"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

type EmailConfig struct {
	// ResendAPIKey enables outbound mail via Resend. When empty the server
	// logs deliveries instead of sending them.
	ResendAPIKey string `env:"RESEND_API_KEY"`
	From         string `env:"EMAIL_FROM, default=CivicVoice <hello@civicvoice.org>"`
}

type NewsletterConfig struct {
	// Workers is the number of campaign delivery workers. Recipients are
	// sharded by email so per-recipient ordering is preserved.
	Workers int `env:"NEWSLETTER_WORKERS, default=4"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}

package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config is loaded once at startup and passed into constructors; nothing
// reads the environment after Load returns.
type Config struct {
	Port     string `env:"PORT,     default=8080"`
	Env      string `env:"ENV,      default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Auth  AuthConfig
	Mongo MongoConfig
	Redis RedisConfig
	Mail  MailConfig
}

// AuthConfig carries the authentication knobs: per-platform JWT secrets, the
// session TTL, and the login throttle constants.
type AuthConfig struct {
	UserAppSecret      string        `env:"JWT_USERAPP_SECRET"`
	AdminSecret        string        `env:"JWT_ADMIN_SECRET"`
	TokenTTLSeconds    int           `env:"JWT_EXPIRES_IN,        default=86400"`
	MaxLoginRetries    int           `env:"MAX_LOGIN_RETRY_LIMIT, default=5"`
	LoginReactiveTime  time.Duration `env:"LOGIN_REACTIVE_TIME,   default=2m"`
	OTPExpireTime      time.Duration `env:"OTP_EXPIRE_TIME,       default=5m"`
	OTPRequestCooldown time.Duration `env:"OTP_REQUEST_COOLDOWN,  default=60s"`
}

// TokenTTL returns the session token lifetime as a duration.
func (c AuthConfig) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLSeconds) * time.Second
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=ecommerce"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// MailConfig selects the notifier. Driver "log" writes notifications to the
// log only; "ses" sends through AWS SES.
type MailConfig struct {
	Driver      string `env:"MAIL_DRIVER, default=log"`
	Region      string `env:"AWS_REGION,  default=us-east-1"`
	FromAddress string `env:"MAIL_FROM,   default=no-reply@shopstack.dev"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.Auth.UserAppSecret == "" || cfg.Auth.AdminSecret == "" {
		return nil, fmt.Errorf("config: JWT_USERAPP_SECRET and JWT_ADMIN_SECRET are required")
	}
	return &cfg, nil
}

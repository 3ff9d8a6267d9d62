package app

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Env       string `env:"ENV" envDefault:"dev"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	Port                int           `env:"PORT" envDefault:"8080"`
	ShutdownGracePeriod time.Duration `env:"SHUTDOWN_GRACE_PERIOD" envDefault:"10s"`

	// ContactChannel selects how one-time codes are delivered: "sms"
	// (default) or "email".
	ContactChannel string `env:"CONTACT_CHANNEL" envDefault:"sms"`

	MySQL     MySQLConfig     `envPrefix:"MYSQL_"`
	Redis     RedisConfig     `envPrefix:"REDIS_"`
	JWT       JWTConfig       `envPrefix:"JWT_"`
	Risk      RiskConfig      `envPrefix:"RISK_"`
	RateLimit RateLimitConfig `envPrefix:"RATE_LIMIT_"`
	MFA       MFAConfig       `envPrefix:"MFA_"`
	SMS       SMSConfig       `envPrefix:"SMS_"`
	SMTP      SMTPConfig      `envPrefix:"SMTP_"`
}

type MySQLConfig struct {
	DSN string `env:"DSN,required,notEmpty"`
}

type RedisConfig struct {
	Addr     string `env:"ADDR" envDefault:"localhost:6379"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB" envDefault:"0"`
}

// JWTConfig carries the RS256 key pair as newline-escaped PEM strings, the
// way they arrive from environment files and secret managers.
type JWTConfig struct {
	PrivateKeyPEM string        `env:"PRIVATE_KEY,required,notEmpty"`
	PublicKeyPEM  string        `env:"PUBLIC_KEY,required,notEmpty"`
	TTL           time.Duration `env:"TTL" envDefault:"1h"`
}

type RiskConfig struct {
	Vendor      string  `env:"VENDOR" envDefault:"recaptcha"`
	ProjectID   string  `env:"PROJECT_ID"`
	SiteKey     string  `env:"SITE_KEY"`
	APIKey      string  `env:"API_KEY"`
	StaticScore float64 `env:"STATIC_SCORE" envDefault:"0.9"`
	BlockBelow  float64 `env:"BLOCK_BELOW" envDefault:"0.3"`
	AllowFrom   float64 `env:"ALLOW_FROM" envDefault:"0.7"`
}

type RateLimitConfig struct {
	MaxFailures int64         `env:"MAX_FAILURES" envDefault:"10"`
	Window      time.Duration `env:"WINDOW" envDefault:"5m"`
}

type MFAConfig struct {
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"5m"`
	OTPTTL     time.Duration `env:"OTP_TTL" envDefault:"5m"`
}

type SMSConfig struct {
	AppKey      string `env:"APP_KEY"`
	AppSecret   string `env:"APP_SECRET"`
	ConsumerKey string `env:"CONSUMER_KEY"`
	ServiceName string `env:"SERVICE_NAME"`
	Sender      string `env:"SENDER"`
}

type SMTPConfig struct {
	Host     string `env:"HOST"`
	Port     int    `env:"PORT" envDefault:"587"`
	From     string `env:"FROM"`
	Username string `env:"USERNAME"`
	Password string `env:"PASSWORD"`
}

// LoadConfig reads the full configuration from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

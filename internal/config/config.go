package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort        string   `env:"APP_PORT" envDefault:"3000"`
	AppEnv         string   `env:"APP_ENV" envDefault:"development"`
	LogLevel       string   `env:"LOG_LEVEL" envDefault:"info"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173"` // CORS allowed origins

	// Backends: "memory" keeps everything in-process, the others use external services.
	StoreBackend        string `env:"STORE_BACKEND" envDefault:"memory"`         // memory | dynamo
	SessionBackend      string `env:"SESSION_BACKEND" envDefault:"memory"`       // memory | redis | dynamo
	RateLimitBackend    string `env:"RATE_LIMIT_BACKEND" envDefault:"memory"`    // memory | redis
	TemplateBodyBackend string `env:"TEMPLATE_BODY_BACKEND" envDefault:"memory"` // memory | s3

	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"15s"`
	// Honour X-Forwarded-For / X-Real-IP only behind a trusted proxy.
	TrustProxyHeaders bool `env:"TRUST_PROXY_HEADERS" envDefault:"false"`

	AWSRegion      string `env:"AWS_REGION" envDefault:"us-east-1"`
	AWSEndpointURL string `env:"AWS_ENDPOINT_URL"` // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string `env:"AWS_ACCESS_KEY_ID"`
	AWSSecretKey   string `env:"AWS_SECRET_ACCESS_KEY"`
	DynamoTables   DynamoTables
	S3BucketName   string `env:"S3_BUCKET_NAME" envDefault:"buh-templates"`

	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	JWTPrivateKeyPath string        `env:"JWT_PRIVATE_KEY_PATH" envDefault:"./private_key.pem"`
	JWTPublicKeyPath  string        `env:"JWT_PUBLIC_KEY_PATH" envDefault:"./public_key.pem"`
	SessionTTL        time.Duration `env:"SESSION_TTL" envDefault:"12h"`
	RefreshTTL        time.Duration `env:"REFRESH_TTL" envDefault:"168h"`
	CookieSecure      bool          `env:"COOKIE_SECURE" envDefault:"true"`
	CookieDomain      string        `env:"COOKIE_DOMAIN"`

	OTP       OTP
	RateLimit RateLimit
	Mail      Mail

	SecurityTopicARN  string `env:"SECURITY_TOPIC_ARN"`
	AdminEmail        string `env:"ADMIN_EMAIL"`
	DemoDocumentLimit int    `env:"DEMO_DOCUMENT_LIMIT" envDefault:"5"`
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Users         string `env:"DYNAMO_TABLE_USERS" envDefault:"users"`
	Sessions      string `env:"DYNAMO_TABLE_SESSIONS" envDefault:"sessions"`
	Verifications string `env:"DYNAMO_TABLE_VERIFICATIONS" envDefault:"pending_verifications"`
	Organizations string `env:"DYNAMO_TABLE_ORGANIZATIONS" envDefault:"organizations"`
	Documents     string `env:"DYNAMO_TABLE_DOCUMENTS" envDefault:"documents"`
	Templates     string `env:"DYNAMO_TABLE_TEMPLATES" envDefault:"templates"`
}

// OTP controls the lifetime and hashing of one-time codes.
type OTP struct {
	TTL         time.Duration `env:"OTP_TTL" envDefault:"10m"`
	MaxAttempts int           `env:"OTP_MAX_ATTEMPTS" envDefault:"5"`
	HashCost    int           `env:"OTP_HASH_COST" envDefault:"10"`
}

// RateLimit holds the fixed-window thresholds for send and verify.
type RateLimit struct {
	SendPerEmail         int           `env:"RL_SEND_PER_EMAIL" envDefault:"3"`
	SendPerEmailWindow   time.Duration `env:"RL_SEND_PER_EMAIL_WINDOW" envDefault:"10m"`
	SendPerAddr          int           `env:"RL_SEND_PER_ADDR" envDefault:"10"`
	SendPerAddrWindow    time.Duration `env:"RL_SEND_PER_ADDR_WINDOW" envDefault:"10m"`
	VerifyPerEmail       int           `env:"RL_VERIFY_PER_EMAIL" envDefault:"10"`
	VerifyPerEmailWindow time.Duration `env:"RL_VERIFY_PER_EMAIL_WINDOW" envDefault:"10m"`
	VerifyPerAddr        int           `env:"RL_VERIFY_PER_ADDR" envDefault:"30"`
	VerifyPerAddrWindow  time.Duration `env:"RL_VERIFY_PER_ADDR_WINDOW" envDefault:"10m"`
	// Coarse per-IP token bucket in front of every /api route.
	GlobalRPS   float64 `env:"RL_GLOBAL_RPS" envDefault:"20"`
	GlobalBurst int     `env:"RL_GLOBAL_BURST" envDefault:"40"`
}

// Mail selects and configures the outbound mail provider.
type Mail struct {
	Provider      string        `env:"MAIL_PROVIDER" envDefault:"log"` // log | smtp | mailersend
	From          string        `env:"MAIL_FROM" envDefault:"noreply@example.com"`
	FromName      string        `env:"MAIL_FROM_NAME" envDefault:"Buh AI Assistant"`
	SMTPHost      string        `env:"SMTP_HOST" envDefault:"localhost"`
	SMTPPort      string        `env:"SMTP_PORT" envDefault:"1025"`
	SMTPUsername  string        `env:"SMTP_USERNAME"`
	SMTPPassword  string        `env:"SMTP_PASSWORD"`
	MailerSendKey string        `env:"MAILERSEND_API_KEY"`
	Workers       int           `env:"MAIL_WORKERS" envDefault:"4"`
	QueueSize     int           `env:"MAIL_QUEUE_SIZE" envDefault:"256"`
	SendTimeout   time.Duration `env:"MAIL_SEND_TIMEOUT" envDefault:"10s"`
}

// Load reads all configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &cfg, nil
}

// IsProduction reports whether the service runs with production defaults.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

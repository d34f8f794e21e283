package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string
	AppEnv  string

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables
	S3BucketName   string
	SNSTopicARN    string // empty disables answer notifications

	JWTPrivateKeyPath string
	JWTPublicKeyPath  string
	JWTExpiry         time.Duration

	RefreshTokenExpiry time.Duration
	EmailCodeExpiry    time.Duration

	RateLimits RateLimits

	SMTPHost     string
	SMTPPort     string
	SMTPFrom     string
	SMTPUsername string
	SMTPPassword string

	AllowedOrigins []string // CORS allowed origins
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Users            string
	RefreshTokens    string
	EmailValidations string
	RateLimits       string
	Questions        string
	Answers          string
	Comments         string
	Attachments      string
}

// RateLimitPolicy is one attempt budget: at most MaxAttempts per Window.
type RateLimitPolicy struct {
	MaxAttempts int64
	Window      time.Duration
}

// RateLimits holds the per-action budgets for security-sensitive endpoints.
type RateLimits struct {
	Auth            RateLimitPolicy
	UserCreation    RateLimitPolicy
	EmailValidation RateLimitPolicy
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort: getEnv("APP_PORT", "3000"),
		AppEnv:  getEnv("APP_ENV", "development"),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Users:            getEnv("DYNAMO_TABLE_USERS", "users"),
			RefreshTokens:    getEnv("DYNAMO_TABLE_REFRESH_TOKENS", "refresh_tokens"),
			EmailValidations: getEnv("DYNAMO_TABLE_EMAIL_VALIDATIONS", "email_validations"),
			RateLimits:       getEnv("DYNAMO_TABLE_RATE_LIMITS", "rate_limits"),
			Questions:        getEnv("DYNAMO_TABLE_QUESTIONS", "questions"),
			Answers:          getEnv("DYNAMO_TABLE_ANSWERS", "answers"),
			Comments:         getEnv("DYNAMO_TABLE_COMMENTS", "comments"),
			Attachments:      getEnv("DYNAMO_TABLE_ATTACHMENTS", "attachments"),
		},
		S3BucketName: getEnv("S3_BUCKET_NAME", "qna-attachments"),
		SNSTopicARN:  getEnv("SNS_TOPIC_ARN", ""),

		JWTPrivateKeyPath: getEnv("JWT_PRIVATE_KEY_PATH", "./private_key.pem"),
		JWTPublicKeyPath:  getEnv("JWT_PUBLIC_KEY_PATH", "./public_key.pem"),
		JWTExpiry:         time.Duration(getEnvInt("JWT_EXPIRY_MINUTES", 15)) * time.Minute,

		RefreshTokenExpiry: time.Duration(getEnvInt("REFRESH_TOKEN_EXPIRY_DAYS", 7)) * 24 * time.Hour,
		EmailCodeExpiry:    time.Duration(getEnvInt("EMAIL_CODE_EXPIRY_MINUTES", 10)) * time.Minute,

		RateLimits: RateLimits{
			Auth: RateLimitPolicy{
				MaxAttempts: int64(getEnvInt("RATE_LIMIT_AUTH_MAX", 10)),
				Window:      time.Duration(getEnvInt("RATE_LIMIT_AUTH_WINDOW_MINUTES", 15)) * time.Minute,
			},
			UserCreation: RateLimitPolicy{
				MaxAttempts: int64(getEnvInt("RATE_LIMIT_USER_CREATION_MAX", 5)),
				Window:      time.Duration(getEnvInt("RATE_LIMIT_USER_CREATION_WINDOW_MINUTES", 60)) * time.Minute,
			},
			EmailValidation: RateLimitPolicy{
				MaxAttempts: int64(getEnvInt("RATE_LIMIT_EMAIL_VALIDATION_MAX", 5)),
				Window:      time.Duration(getEnvInt("RATE_LIMIT_EMAIL_VALIDATION_WINDOW_MINUTES", 60)) * time.Minute,
			},
		},

		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPPort:     getEnv("SMTP_PORT", "1025"),
		SMTPFrom:     getEnv("SMTP_FROM", "noreply@example.com"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

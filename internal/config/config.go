package config

import (
	"fmt"
	"os"
	"strconv"

	pipeline_errors "notify-pipeline/pkg/errors"
)

// Config holds all configuration for the application.
// It follows the 12-factor app methodology by prioritizing environment
// variables. Secrets (database credentials, transport credentials, topic
// names) are supplied by the hosting environment; there is no teardown since
// each consumer invocation is stateless.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Twilio   TwilioConfig
	Email    EmailConfig
	Export   ExportConfig
	Topics   TopicsConfig
	Consumer ConsumerConfig
}

type ServerConfig struct {
	Port        string
	Environment string
	Mode        string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.User, c.Password, c.Host, c.Port, c.Name)
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	FromNumber string
}

type EmailConfig struct {
	Region      string
	AccessKey   string
	SecretKey   string
	SenderEmail string
}

type ExportConfig struct {
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
}

type TopicsConfig struct {
	OTPDelivery string
	Logging     string
}

type ConsumerConfig struct {
	BatchSize     int
	FlushInterval int // milliseconds
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:        getEnv("APP_PORT", "8080"),
			Environment: getEnv("APP_ENV", "development"),
			Mode:        getEnv("APP_MODE", "debug"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			Name:     getEnv("DB_NAME", "notify"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Twilio: TwilioConfig{
			AccountSID: getEnv("TWILIO_ACCOUNT_SID", ""),
			AuthToken:  getEnv("TWILIO_AUTH_TOKEN", ""),
			FromNumber: getEnv("TWILIO_PHONE_NUMBER", ""),
		},
		Email: EmailConfig{
			Region:      getEnv("SES_REGION", "us-east-1"),
			AccessKey:   getEnv("SES_ACCESS_KEY", ""),
			SecretKey:   getEnv("SES_SECRET_KEY", ""),
			SenderEmail: getEnv("SES_SENDER_EMAIL", "no-reply@example.com"),
		},
		Export: ExportConfig{
			Region:    getEnv("EXPORT_S3_REGION", "us-east-1"),
			Bucket:    getEnv("EXPORT_S3_BUCKET", ""),
			AccessKey: getEnv("EXPORT_S3_ACCESS_KEY", ""),
			SecretKey: getEnv("EXPORT_S3_SECRET_KEY", ""),
		},
		Topics: TopicsConfig{
			OTPDelivery: getEnv("OTP_DELIVERY_TOPIC", "topic:otp:delivery"),
			Logging:     getEnv("LOGGING_TOPIC", "topic:logging"),
		},
		Consumer: ConsumerConfig{
			BatchSize:     getEnvAsInt("CONSUMER_BATCH_SIZE", 10),
			FlushInterval: getEnvAsInt("CONSUMER_FLUSH_INTERVAL_MS", 250),
		},
	}
	return cfg, nil
}

// Validate checks the credentials the pipeline cannot run without.
// A missing required value is fatal at startup, before any record is
// processed.
func (c *Config) Validate() error {
	required := map[string]string{
		"DB_HOST":             c.Database.Host,
		"DB_NAME":             c.Database.Name,
		"DB_USER":             c.Database.User,
		"DB_PASSWORD":         c.Database.Password,
		"TWILIO_ACCOUNT_SID":  c.Twilio.AccountSID,
		"TWILIO_AUTH_TOKEN":   c.Twilio.AuthToken,
		"TWILIO_PHONE_NUMBER": c.Twilio.FromNumber,
		"SES_SENDER_EMAIL":    c.Email.SenderEmail,
		"OTP_DELIVERY_TOPIC":  c.Topics.OTPDelivery,
		"LOGGING_TOPIC":       c.Topics.Logging,
	}
	for key, value := range required {
		if value == "" {
			return fmt.Errorf("%w: %s", pipeline_errors.ErrMissingConfig, key)
		}
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

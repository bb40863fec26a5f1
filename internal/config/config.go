package config

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	StorePostgres = "postgres"
	StoreMongo    = "mongo"
	StoreMemory   = "memory"
)

type Config struct {
	Port        string   `env:"PORT" envDefault:"8080"`
	DatabaseURL string   `env:"DATABASE_URL"`
	LeadStore   string   `env:"LEAD_STORE" envDefault:"postgres"`
	MongoURI    string   `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
	MongoDB     string   `env:"MONGO_DB" envDefault:"travel_crm"`
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
	AppBaseURL  string   `env:"APP_BASE_URL" envDefault:"http://localhost:3000"`
	AdminEmail  string   `env:"ADMIN_NOTIFY_EMAIL"`

	JWTSecret     string        `env:"JWT_SECRET"`
	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	OnboardingTTL time.Duration `env:"ONBOARDING_TTL" envDefault:"72h"`

	CronSecret         string        `env:"CRON_SECRET"`
	StaleSweepInterval time.Duration `env:"STALE_SWEEP_INTERVAL" envDefault:"0"`

	AMQPURL string `env:"AMQP_URL"`
	Mail    Mail   `envPrefix:"MAIL_"`
	SMS     SMS    `envPrefix:"SMS_"`
	CDN     CDN    `envPrefix:"CDN_"`
}

type Mail struct {
	Host string `env:"HOST"`
	Port int    `env:"PORT" envDefault:"587"`
	User string `env:"USER"`
	Pass string `env:"PASS"`
	From string `env:"FROM"`
}

type SMS struct {
	BaseURL     string `env:"BASE_URL"`
	CustomerID  string `env:"CUSTOMER_ID"`
	APIKey      string `env:"API_KEY"`
	CountryCode string `env:"COUNTRY_CODE" envDefault:"91"`
}

type CDN struct {
	CloudName string `env:"CLOUD_NAME"`
	APIKey    string `env:"API_KEY"`
	APISecret string `env:"API_SECRET"`
}

// Load reads an optional .env file and parses the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("ℹ️ no .env file, using process environment")
	}
	return Parse()
}

func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	switch c.LeadStore {
	case StorePostgres, StoreMongo, StoreMemory:
	default:
		errs = append(errs, fmt.Errorf("LEAD_STORE must be postgres, mongo or memory, got %q", c.LeadStore))
	}
	if c.StaleSweepInterval < 0 {
		errs = append(errs, errors.New("STALE_SWEEP_INTERVAL must not be negative"))
	}
	return errors.Join(errs...)
}

func (c *Config) MailConfigured() bool { return c.Mail.Host != "" }

func (c *Config) SMSConfigured() bool { return c.SMS.BaseURL != "" && c.SMS.APIKey != "" }

func (c *Config) CDNConfigured() bool { return c.CDN.CloudName != "" && c.CDN.APISecret != "" }

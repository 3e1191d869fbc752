package cliparse

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Port         int           `yaml:"port"`
	DatabaseURL  string        `yaml:"database_url"`
	DatabaseType string        `yaml:"database_type"`
	JWTSecret    string        `yaml:"jwt_secret"`
	TokenTTL     time.Duration `yaml:"token_ttl"`
	Env          string        `yaml:"env"`
	BaseURL      string        `yaml:"base_url"`
	SMTPHost     string        `yaml:"smtp_host"`
	SMTPPort     int           `yaml:"smtp_port"`
	SMTPUser     string        `yaml:"smtp_user"`
	SMTPPassword string        `yaml:"smtp_password"`
	MailFrom     string        `yaml:"mail_from"`
	ConfigFile   string        `yaml:"-"`
}

// BindFlags registers every config flag on fs.
func BindFlags(fs *pflag.FlagSet, cfg *Config) {
	// Network config (can be CLI args or env)
	fs.IntVarP(&cfg.Port, "port", "p", 0, "Server port")
	fs.StringVarP(&cfg.DatabaseURL, "database-url", "d", "", "Database URL")
	fs.StringVarP(&cfg.DatabaseType, "database-type", "t", "", "Database type (sqlite or postgres)")
	fs.StringVar(&cfg.BaseURL, "base-url", "", "Public URL of the web app")
	fs.StringVar(&cfg.Env, "env", "", "Environment (development or production)")
	fs.StringVarP(&cfg.ConfigFile, "config", "c", "", "YAML config file")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", "", "JWT signing secret (prefer env)")
	fs.DurationVar(&cfg.TokenTTL, "token-ttl", 0, "Lifetime of issued tokens")

	fs.StringVar(&cfg.SMTPHost, "smtp-host", "", "SMTP relay host")
	fs.IntVar(&cfg.SMTPPort, "smtp-port", 0, "SMTP relay port")
	fs.StringVar(&cfg.MailFrom, "mail-from", "", "Sender address for outgoing mail")
}

// ParseFlags parses args and resolves the remaining settings.
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := pflag.NewFlagSet("hackdesk", pflag.ContinueOnError)
	BindFlags(fs, &cfg)

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	return Resolve(cfg)
}

// Resolve fills unset fields from the YAML file, the environment (including
// a .env file) and defaults, then validates the result. Values already set
// on cfg win.
func Resolve(cfg Config) (Config, error) {
	// A missing .env file is fine
	_ = godotenv.Load()

	if cfg.ConfigFile == "" {
		cfg.ConfigFile = os.Getenv("HACKDESK_CONFIG")
	}

	var file Config
	if cfg.ConfigFile != "" {
		data, err := os.ReadFile(cfg.ConfigFile)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &file); err != nil {
			return Config{}, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	// Fall back to environment variables, then the config file
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else if file.Port != 0 {
			cfg.Port = file.Port
		} else {
			cfg.Port = 3318 // default
		}
	}

	cfg.DatabaseURL = firstNonEmpty(cfg.DatabaseURL, os.Getenv("DATABASE_URL"), file.DatabaseURL)
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	cfg.DatabaseType = firstNonEmpty(cfg.DatabaseType, os.Getenv("DATABASE_TYPE"), file.DatabaseType, "sqlite")
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}

	cfg.Env = firstNonEmpty(cfg.Env, os.Getenv("ENV"), file.Env, "development")
	cfg.BaseURL = firstNonEmpty(cfg.BaseURL, os.Getenv("BASE_URL"), file.BaseURL, "http://localhost:3000")

	// Secrets - MUST be provided
	cfg.JWTSecret = firstNonEmpty(cfg.JWTSecret, os.Getenv("JWT_SECRET"), file.JWTSecret)
	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET required")
	}

	if cfg.TokenTTL == 0 {
		if ttl := os.Getenv("TOKEN_TTL"); ttl != "" {
			d, err := time.ParseDuration(ttl)
			if err != nil {
				return Config{}, errors.New("invalid TOKEN_TTL env variable")
			}
			cfg.TokenTTL = d
		} else if file.TokenTTL != 0 {
			cfg.TokenTTL = file.TokenTTL
		} else {
			cfg.TokenTTL = 24 * time.Hour
		}
	}

	// Mail is optional; without a host messages are only logged
	cfg.SMTPHost = firstNonEmpty(cfg.SMTPHost, os.Getenv("SMTP_HOST"), file.SMTPHost)
	if cfg.SMTPPort == 0 {
		if portStr := os.Getenv("SMTP_PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid SMTP_PORT env variable")
			}
			cfg.SMTPPort = port
		} else if file.SMTPPort != 0 {
			cfg.SMTPPort = file.SMTPPort
		} else {
			cfg.SMTPPort = 587
		}
	}
	cfg.SMTPUser = firstNonEmpty(cfg.SMTPUser, os.Getenv("SMTP_USER"), file.SMTPUser)
	cfg.SMTPPassword = firstNonEmpty(cfg.SMTPPassword, os.Getenv("SMTP_PASSWORD"), file.SMTPPassword)
	cfg.MailFrom = firstNonEmpty(cfg.MailFrom, os.Getenv("MAIL_FROM"), file.MailFrom, "noreply@hackdesk.local")

	return cfg, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config agrupa toda la configuración del servicio.
type Config struct {
	Server    ServerConfig
	Storage   StorageConfig
	Auth      AuthConfig
	Notify    NotifyConfig
	Reminders RemindersConfig
	Log       LogConfig
	App       AppConfig
}

type ServerConfig struct {
	Port string
}

// StorageConfig elige el backend de repositorios.
// Driver: memory (default), postgres o sqlite.
type StorageConfig struct {
	Driver string
	DSN    string
}

// AuthConfig: si Secret está vacío el router corre en modo dev
// (usuario vía X-Debug-User-ID, tokens firmados con un secreto efímero).
type AuthConfig struct {
	Secret   string
	TokenTTL time.Duration
}

type NotifyConfig struct {
	WebhookURL string
	Timeout    time.Duration
}

type RemindersConfig struct {
	Cron   string
	Window time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

type AppConfig struct {
	Name        string
	Version     string
	Environment string
}

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Load lee variables de entorno (opcionalmente desde envFile) y arma Config.
// Un .env ausente no es error: la config puede venir directo del entorno.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		_ = godotenv.Load()
	}

	ttl, err := getDuration("JWT_TTL", 24*time.Hour)
	if err != nil {
		return nil, err
	}
	notifyTimeout, err := getDuration("NOTIFY_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}
	window, err := getDuration("REMINDER_WINDOW", 7*24*time.Hour)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("PORT", "8080"),
		},
		Storage: StorageConfig{
			Driver: strings.ToLower(getenvWithDefault("DB_DRIVER", "")),
			DSN:    os.Getenv("DB_DSN"),
		},
		Auth: AuthConfig{
			Secret:   os.Getenv("JWT_SECRET"),
			TokenTTL: ttl,
		},
		Notify: NotifyConfig{
			WebhookURL: os.Getenv("NOTIFY_WEBHOOK_URL"),
			Timeout:    notifyTimeout,
		},
		Reminders: RemindersConfig{
			Cron:   getenvWithDefault("REMINDER_CRON", "0 7 * * *"),
			Window: window,
		},
		Log: LogConfig{
			Level:  os.Getenv("LOG_LEVEL"),
			Format: os.Getenv("LOG_FORMAT"),
		},
		App: AppConfig{
			Name:        getenvWithDefault("APP_NAME", "axolotary"),
			Version:     getenvWithDefault("APP_VERSION", "1.0.0"),
			Environment: getenvWithDefault("APP_ENV", "development"),
		},
	}

	// Compat: DB_DSN sin driver explícito => postgres (como antes).
	if cfg.Storage.Driver == "" {
		if cfg.Storage.DSN != "" {
			cfg.Storage.Driver = DriverPostgres
		} else {
			cfg.Storage.Driver = DriverMemory
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate revisa combinaciones inválidas.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverMemory:
	case DriverPostgres, DriverSQLite:
		if strings.TrimSpace(c.Storage.DSN) == "" {
			return fmt.Errorf("DB_DSN must be provided for driver %s", c.Storage.Driver)
		}
	default:
		return fmt.Errorf("unknown DB_DRIVER %q", c.Storage.Driver)
	}

	if c.Auth.TokenTTL <= 0 {
		return errors.New("JWT_TTL must be positive")
	}
	if strings.TrimSpace(c.Server.Port) == "" {
		return errors.New("PORT must not be empty")
	}
	return nil
}

// DevAuth indica si no hay secreto JWT configurado.
func (c *Config) DevAuth() bool {
	return strings.TrimSpace(c.Auth.Secret) == ""
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}
	return d, nil
}

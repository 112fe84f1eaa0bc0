package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	yaml "go.yaml.in/yaml/v3"
)

const (
	SignatureRaw  = "raw"
	SignatureHMAC = "hmac-sha256"
)

type Config struct {
	App       string
	HTTP      HTTPConfig
	Log       LogConfig
	Database  DatabaseConfig
	Auth      AuthConfig
	Webhooks  WebhooksConfig
	Scheduler SchedulerConfig
}

type HTTPConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

// DatabaseConfig: DSN vacío => repos in-memory.
type DatabaseConfig struct {
	DSN string
}

type AuthConfig struct {
	// JWTSecret vacío => modo dev (X-Debug-User-ID).
	JWTSecret string
	// ProcessToken protege POST /lembretes/webhook. Vacío => abierto.
	ProcessToken string
}

type WebhooksConfig struct {
	DefaultURL    string
	Timeout       time.Duration
	RatePerSec    int
	SignatureMode string // raw | hmac-sha256
}

// SchedulerConfig activa un disparo periódico in-process del procesamiento.
// Sin expresión => deshabilitado (el procesamiento lo dispara un caller externo).
type SchedulerConfig struct {
	Spec     string // cron o "@every 1m"
	Timezone string
}

func Default() Config {
	return Config{
		App: "backoffice-api",
		HTTP: HTTPConfig{
			Addr:         ":8080",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Webhooks: WebhooksConfig{
			Timeout:       10 * time.Second,
			RatePerSec:    10,
			SignatureMode: SignatureRaw,
		},
	}
}

// fileConfig es el formato YAML. Las duraciones van como string ("10s", "1m").
type fileConfig struct {
	App  string `yaml:"app"`
	HTTP struct {
		Addr         string `yaml:"addr"`
		ReadTimeout  string `yaml:"read_timeout"`
		WriteTimeout string `yaml:"write_timeout"`
	} `yaml:"http"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
	Database struct {
		DSN string `yaml:"dsn"`
	} `yaml:"database"`
	Auth struct {
		JWTSecret    string `yaml:"jwt_secret"`
		ProcessToken string `yaml:"process_token"`
	} `yaml:"auth"`
	Webhooks struct {
		DefaultURL    string `yaml:"default_url"`
		Timeout       string `yaml:"timeout"`
		RatePerSec    int    `yaml:"rate_per_sec"`
		SignatureMode string `yaml:"signature_mode"`
	} `yaml:"webhooks"`
	Scheduler struct {
		Spec     string `yaml:"spec"`
		Timezone string `yaml:"timezone"`
	} `yaml:"scheduler"`
}

// Load arma la config: defaults -> archivo YAML (opcional) -> env.
func Load(path string) (Config, error) {
	cfg := Default()

	if strings.TrimSpace(path) == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	if strings.TrimSpace(path) != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := applyYAML(&cfg, data); err != nil {
			return Config{}, fmt.Errorf("%s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyYAML(cfg *Config, data []byte) error {
	var fc fileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("yaml decode: %w", err)
	}

	setStr(&cfg.App, fc.App)
	setStr(&cfg.HTTP.Addr, fc.HTTP.Addr)
	setStr(&cfg.Log.Level, fc.Log.Level)
	setStr(&cfg.Log.Format, fc.Log.Format)
	setStr(&cfg.Database.DSN, fc.Database.DSN)
	setStr(&cfg.Auth.JWTSecret, fc.Auth.JWTSecret)
	setStr(&cfg.Auth.ProcessToken, fc.Auth.ProcessToken)
	setStr(&cfg.Webhooks.DefaultURL, fc.Webhooks.DefaultURL)
	setStr(&cfg.Webhooks.SignatureMode, fc.Webhooks.SignatureMode)
	setStr(&cfg.Scheduler.Spec, fc.Scheduler.Spec)
	setStr(&cfg.Scheduler.Timezone, fc.Scheduler.Timezone)
	if fc.Webhooks.RatePerSec > 0 {
		cfg.Webhooks.RatePerSec = fc.Webhooks.RatePerSec
	}

	var err error
	if cfg.HTTP.ReadTimeout, err = ParseDurationOrDefault("http.read_timeout", fc.HTTP.ReadTimeout, cfg.HTTP.ReadTimeout); err != nil {
		return err
	}
	if cfg.HTTP.WriteTimeout, err = ParseDurationOrDefault("http.write_timeout", fc.HTTP.WriteTimeout, cfg.HTTP.WriteTimeout); err != nil {
		return err
	}
	if cfg.Webhooks.Timeout, err = ParseDurationOrDefault("webhooks.timeout", fc.Webhooks.Timeout, cfg.Webhooks.Timeout); err != nil {
		return err
	}
	return nil
}

type lookupFunc func(string) (string, bool)

func applyEnv(cfg *Config, lookup lookupFunc) error {
	get := func(k string) string {
		v, ok := lookup(k)
		if !ok {
			return ""
		}
		return strings.TrimSpace(v)
	}

	if v := get("PORT"); v != "" {
		cfg.HTTP.Addr = ":" + strings.TrimPrefix(v, ":")
	}
	setStr(&cfg.App, get("APP_NAME"))
	setStr(&cfg.Log.Level, get("LOG_LEVEL"))
	setStr(&cfg.Log.Format, get("LOG_FORMAT"))
	setStr(&cfg.Database.DSN, get("DB_DSN"))
	setStr(&cfg.Auth.JWTSecret, get("JWT_SECRET"))
	setStr(&cfg.Auth.ProcessToken, get("PROCESS_TOKEN"))
	setStr(&cfg.Webhooks.DefaultURL, get("WEBHOOK_DEFAULT_URL"))
	setStr(&cfg.Webhooks.SignatureMode, get("WEBHOOK_SIGNATURE_MODE"))
	setStr(&cfg.Scheduler.Spec, get("PROCESS_SCHEDULE"))
	setStr(&cfg.Scheduler.Timezone, get("PROCESS_TIMEZONE"))

	if v := get("WEBHOOK_TIMEOUT"); v != "" {
		d, err := ParseDurationOrDefault("WEBHOOK_TIMEOUT", v, cfg.Webhooks.Timeout)
		if err != nil {
			return err
		}
		cfg.Webhooks.Timeout = d
	}
	if v := get("WEBHOOK_RATE_PER_SEC"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("WEBHOOK_RATE_PER_SEC: invalid int %q", v)
		}
		cfg.Webhooks.RatePerSec = n
	}
	return nil
}

func (c Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.HTTP.Addr) == "" {
		errs = append(errs, errors.New("http.addr required"))
	}
	if c.Webhooks.Timeout <= 0 {
		errs = append(errs, errors.New("webhooks.timeout must be > 0"))
	}
	if c.Webhooks.RatePerSec <= 0 {
		errs = append(errs, errors.New("webhooks.rate_per_sec must be > 0"))
	}
	switch c.Webhooks.SignatureMode {
	case SignatureRaw, SignatureHMAC:
	default:
		errs = append(errs, fmt.Errorf("webhooks.signature_mode must be %q or %q", SignatureRaw, SignatureHMAC))
	}
	if u := strings.TrimSpace(c.Webhooks.DefaultURL); u != "" {
		pu, err := url.ParseRequestURI(u)
		if err != nil || (pu.Scheme != "http" && pu.Scheme != "https") {
			errs = append(errs, fmt.Errorf("webhooks.default_url invalid: %q", u))
		}
	}
	if tz := strings.TrimSpace(c.Scheduler.Timezone); tz != "" {
		if _, err := time.LoadLocation(tz); err != nil {
			errs = append(errs, fmt.Errorf("scheduler.timezone: %w", err))
		}
	}

	return errors.Join(errs...)
}

func setStr(dst *string, v string) {
	if strings.TrimSpace(v) != "" {
		*dst = strings.TrimSpace(v)
	}
}

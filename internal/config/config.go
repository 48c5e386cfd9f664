package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Port    string `yaml:"port"`
	GinMode string `yaml:"gin_mode"`
	SiteURL string `yaml:"site_url"`

	Log      LogConfig      `yaml:"log"`
	Database DatabaseConfig `yaml:"database"`
	JWT      JWTConfig      `yaml:"jwt"`
	Admin    AdminConfig    `yaml:"admin"`
	Mail     MailConfig     `yaml:"mail"`
	GeoIP    GeoIPConfig    `yaml:"geoip"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"` // postgres or sqlite
	DSN    string `yaml:"dsn"`
}

type JWTConfig struct {
	Secret  string        `yaml:"secret"`
	Expires time.Duration `yaml:"expires"`
}

type AdminConfig struct {
	Name     string `yaml:"name"`
	Password string `yaml:"password"`
}

type MailConfig struct {
	Host      string `yaml:"host"`
	Port      string `yaml:"port"`
	User      string `yaml:"user"`
	Pass      string `yaml:"pass"`
	From      string `yaml:"from"`
	Owner     string `yaml:"owner"` // receives new-comment notifications
	QueueSize int    `yaml:"queue_size"`
}

// Enabled reports whether every SMTP setting is present.
func (m MailConfig) Enabled() bool {
	return m.Host != "" && m.Port != "" && m.User != "" && m.Pass != "" && m.From != ""
}

type GeoIPConfig struct {
	Database string        `yaml:"database"`
	Timeout  time.Duration `yaml:"timeout"`
}

func Default() Config {
	return Config{
		Port:    "8080",
		GinMode: "release",
		SiteURL: "http://localhost:8080",
		Log:     LogConfig{Level: "info", Format: "json"},
		Database: DatabaseConfig{
			Driver: "postgres",
			DSN:    "host=localhost user=postgres password=postgres dbname=blog port=5432 sslmode=disable TimeZone=Asia/Shanghai",
		},
		JWT:   JWTConfig{Secret: "secret_key_change_me", Expires: 4 * time.Hour},
		Admin: AdminConfig{Name: "admin", Password: "admin"},
		Mail:  MailConfig{QueueSize: 100},
		GeoIP: GeoIPConfig{Timeout: 300 * time.Millisecond},
	}
}

// Load reads .env (if any), the optional YAML file named by CONFIG_FILE, and
// finally the environment. Later sources win.
func Load() (Config, bool, error) {
	dotenv := godotenv.Load() == nil

	cfg := Default()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return cfg, dotenv, err
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return cfg, dotenv, err
	}
	return cfg, dotenv, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	str := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	str("PORT", &cfg.Port)
	str("GIN_MODE", &cfg.GinMode)
	str("SITE_URL", &cfg.SiteURL)
	str("LOG_LEVEL", &cfg.Log.Level)
	str("LOG_FORMAT", &cfg.Log.Format)
	str("DB_DRIVER", &cfg.Database.Driver)
	str("DATABASE_URL", &cfg.Database.DSN)
	str("JWT_SECRET", &cfg.JWT.Secret)
	str("ADMIN_USER", &cfg.Admin.Name)
	str("ADMIN_PASSWORD", &cfg.Admin.Password)
	str("SMTP_HOST", &cfg.Mail.Host)
	str("SMTP_PORT", &cfg.Mail.Port)
	str("SMTP_USER", &cfg.Mail.User)
	str("SMTP_PASS", &cfg.Mail.Pass)
	str("SMTP_FROM", &cfg.Mail.From)
	str("MAIL_OWNER", &cfg.Mail.Owner)
	str("GEOIP_DB", &cfg.GeoIP.Database)

	if v := os.Getenv("JWT_EXPIRES"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("JWT_EXPIRES: %w", err)
		}
		cfg.JWT.Expires = d
	}
	if v := os.Getenv("GEOIP_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("GEOIP_TIMEOUT: %w", err)
		}
		cfg.GeoIP.Timeout = d
	}
	if v := os.Getenv("NOTIFY_QUEUE_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return fmt.Errorf("NOTIFY_QUEUE_SIZE must be a positive integer, got %q", v)
		}
		cfg.Mail.QueueSize = n
	}

	// The owner address defaults to the SMTP account itself.
	if cfg.Mail.Owner == "" {
		cfg.Mail.Owner = cfg.Mail.User
	}
	return nil
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

type Config struct {
	DB       Postgres `yaml:"database"`
	RMQ      RabbitMQ `yaml:"rabbitmq"`
	HTTP     HTTP     `yaml:"http"`
	Tracking Tracking `yaml:"tracking"`
	Log      Log      `yaml:"log"`
}

type Postgres struct {
	Host     string `yaml:"host" env:"CRISPY_DB_HOST"`
	Port     string `yaml:"port" env:"CRISPY_DB_PORT"`
	User     string `yaml:"user" env:"CRISPY_DB_USER"`
	Password string `yaml:"password" env:"CRISPY_DB_PASSWORD"`
	Database string `yaml:"database" env:"CRISPY_DB_NAME"`
	SSLMode  string `yaml:"sslmode" env:"CRISPY_DB_SSLMODE"`
	MaxConns int32  `yaml:"max_conns" env:"CRISPY_DB_MAX_CONNS"`
}

type RabbitMQ struct {
	Enabled  bool   `yaml:"enabled" env:"CRISPY_RMQ_ENABLED"`
	User     string `yaml:"user" env:"CRISPY_RMQ_USER"`
	Password string `yaml:"password" env:"CRISPY_RMQ_PASSWORD"`
	Host     string `yaml:"host" env:"CRISPY_RMQ_HOST"`
	Port     string `yaml:"port" env:"CRISPY_RMQ_PORT"`
	VHost    string `yaml:"vhost" env:"CRISPY_RMQ_VHOST"`
	Exchange string `yaml:"exchange" env:"CRISPY_RMQ_EXCHANGE"`
	Queue    string `yaml:"queue" env:"CRISPY_RMQ_QUEUE"`
}

type HTTP struct {
	Port            int           `yaml:"port" env:"CRISPY_HTTP_PORT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"CRISPY_HTTP_SHUTDOWN_TIMEOUT"`
}

type Tracking struct {
	// StrictTransitions rejects jumps between non-adjacent statuses.
	StrictTransitions     bool `yaml:"strict_transitions" env:"CRISPY_STRICT_TRANSITIONS"`
	EstimatedReadyMinutes int  `yaml:"estimated_ready_minutes" env:"CRISPY_ESTIMATED_READY_MINUTES"`
}

type Log struct {
	Level string `yaml:"level" env:"CRISPY_LOG_LEVEL"`
}

func Default() *Config {
	return &Config{
		DB: Postgres{
			Host:     "localhost",
			Port:     "5432",
			User:     "crispy",
			Database: "crispy",
			SSLMode:  "disable",
			MaxConns: 10,
		},
		RMQ: RabbitMQ{
			Host:     "localhost",
			Port:     "5672",
			User:     "guest",
			Password: "guest",
			Exchange: "order_status_fanout",
			Queue:    "order_status_notifications",
		},
		HTTP: HTTP{
			Port:            8080,
			ShutdownTimeout: 10 * time.Second,
		},
		Tracking: Tracking{EstimatedReadyMinutes: 15},
		Log:      Log{Level: "INFO"},
	}
}

// LoadConfig reads the YAML file at configPath on top of the defaults and
// then applies CRISPY_* environment overrides. A missing file is not an
// error.
func LoadConfig(configPath string) (*Config, error) {
	cfg := Default()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", configPath, err)
			}
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port >= 65536 {
		return fmt.Errorf("port must be in [1: 65,535]: %d", c.HTTP.Port)
	}
	if c.DB.Host == "" || c.DB.Database == "" {
		return fmt.Errorf("database host and name are required")
	}
	if c.Tracking.EstimatedReadyMinutes <= 0 {
		return fmt.Errorf("estimated ready minutes must be positive: %d", c.Tracking.EstimatedReadyMinutes)
	}
	if c.RMQ.Enabled && (c.RMQ.Host == "" || c.RMQ.Exchange == "") {
		return fmt.Errorf("rabbitmq host and exchange are required when enabled")
	}
	return nil
}

// DSN builds the pgx connection string.
func (p Postgres) DSN() string {
	sslmode := p.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		p.User,
		p.Password,
		p.Host,
		p.Port,
		p.Database,
		sslmode,
	)
}

func (r RabbitMQ) URL() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s/%s",
		r.User,
		r.Password,
		r.Host,
		r.Port,
		r.VHost,
	)
}

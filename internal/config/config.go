package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const (
	NotifierDriverAMQP = "amqp"
	NotifierDriverHTTP = "http"
	NotifierDriverNone = "none"

	FeedDriverRedis  = "redis"
	FeedDriverMemory = "memory"
)

// Переменные окружения, перекрывающие значения из файла
const (
	envDBPassword = "DB_PASSWORD"
	envJWTSecret  = "JWT_SECRET"
	envAMQPURI    = "AMQP_URI"
	envRedisAddr  = "REDIS_ADDR"
)

// Config конфигурация сервиса
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Logs     LogsConfig     `toml:"logs"`
	Metrics  MetricsConfig  `toml:"metrics"`
	Auth     AuthConfig     `toml:"auth"`
	Notifier NotifierConfig `toml:"notifier"`
	Feed     FeedConfig     `toml:"feed"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`  // секунды
	WriteTimeout    int `toml:"write_timeout"` // секунды, 0 = без ограничения (нужно для SSE)
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	ServiceName string `toml:"service_name"`
	Path        string `toml:"path"`
}

type AuthConfig struct {
	JWTSecret string `toml:"jwt_secret"`
}

type NotifierConfig struct {
	Driver  string `toml:"driver"` // amqp | http | none
	AMQPURI string `toml:"amqp_uri"`
	Queue   string `toml:"queue"`
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"` // секунды, для http
}

type FeedConfig struct {
	Driver        string `toml:"driver"` // redis | memory
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
}

// Load читает конфигурацию из TOML файла.
// Перед этим подгружается .env из рабочей директории, если он есть;
// секреты из окружения перекрывают значения файла.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}

	cfg := defaults()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			ServiceName: "grooming-service",
			Path:        "/metrics",
		},
		Notifier: NotifierConfig{
			Driver:  NotifierDriverNone,
			Queue:   "booking.created",
			Timeout: 5,
		},
		Feed: FeedConfig{
			Driver: FeedDriverMemory,
		},
	}
}

func (c *Config) applyEnv() {
	if v, ok := os.LookupEnv(envDBPassword); ok {
		c.Database.Password = v
	}
	if v, ok := os.LookupEnv(envJWTSecret); ok {
		c.Auth.JWTSecret = v
	}
	if v, ok := os.LookupEnv(envAMQPURI); ok {
		c.Notifier.AMQPURI = v
	}
	if v, ok := os.LookupEnv(envRedisAddr); ok {
		c.Feed.RedisAddr = v
	}
}

// Validate проверяет обязательные поля и допустимые значения
func (c *Config) Validate() error {
	var problems []string

	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		problems = append(problems, fmt.Sprintf("server.http_port out of range: %d", c.Server.HTTPPort))
	}
	if c.Database.Host == "" {
		problems = append(problems, "database.host is required")
	}
	if c.Database.DBName == "" {
		problems = append(problems, "database.dbname is required")
	}
	if c.Database.User == "" {
		problems = append(problems, "database.user is required")
	}
	if c.Auth.JWTSecret == "" {
		problems = append(problems, "auth.jwt_secret is required (or "+envJWTSecret+")")
	}
	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		problems = append(problems, fmt.Sprintf("metrics.path must start with '/': %q", c.Metrics.Path))
	}

	switch c.Notifier.Driver {
	case NotifierDriverAMQP:
		if c.Notifier.AMQPURI == "" || c.Notifier.Queue == "" {
			problems = append(problems, "notifier.amqp_uri and notifier.queue are required for amqp driver")
		}
	case NotifierDriverHTTP:
		if c.Notifier.URL == "" {
			problems = append(problems, "notifier.url is required for http driver")
		}
	case NotifierDriverNone:
	default:
		problems = append(problems, fmt.Sprintf("unknown notifier.driver %q", c.Notifier.Driver))
	}

	switch c.Feed.Driver {
	case FeedDriverRedis:
		if c.Feed.RedisAddr == "" {
			problems = append(problems, "feed.redis_addr is required for redis driver")
		}
	case FeedDriverMemory:
	default:
		problems = append(problems, fmt.Sprintf("unknown feed.driver %q", c.Feed.Driver))
	}

	if len(problems) > 0 {
		return fmt.Errorf("config: invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// NotifierTimeout таймаут HTTP уведомлений
func (c *Config) NotifierTimeout() time.Duration {
	return time.Duration(c.Notifier.Timeout) * time.Second
}

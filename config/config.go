package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const (
	NotificationModeInline = "inline"
	NotificationModeKafka  = "kafka"
)

type Config struct {
	HTTP          HTTPConfig          `yaml:"http"`
	GRPC          GRPCConfig          `yaml:"grpc"`
	Database      DatabaseConfig      `yaml:"database"`
	Redis         RedisConfig         `yaml:"redis"`
	Kafka         KafkaConfig         `yaml:"kafka"`
	SMTP          SMTPConfig          `yaml:"smtp"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Booking       BookingConfig       `yaml:"booking"`
	Log           LogConfig           `yaml:"log"`
}

type HTTPConfig struct {
	Address    string `yaml:"address" env:"HTTP_ADDRESS"`
	SwaggerDir string `yaml:"swagger_dir" env:"HTTP_SWAGGER_DIR"`
	GinMode    string `yaml:"gin_mode" env:"GIN_MODE"`
}

type GRPCConfig struct {
	Address string `yaml:"address" env:"GRPC_ADDRESS"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host" env:"DB_HOST"`
	Port     int    `yaml:"port" env:"DB_PORT"`
	User     string `yaml:"user" env:"DB_USER"`
	Password string `yaml:"password" env:"DB_PASSWORD"`
	Name     string `yaml:"name" env:"DB_NAME"`
	SSLMode  string `yaml:"ssl_mode" env:"DB_SSLMODE"`
	Migrate  bool   `yaml:"migrate" env:"DB_MIGRATE"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB"`
}

type KafkaConfig struct {
	Brokers            []string `yaml:"brokers" env:"KAFKA_BROKERS" envSeparator:","`
	NotificationsTopic string   `yaml:"notifications_topic" env:"KAFKA_NOTIFICATIONS_TOPIC"`
	GroupID            string   `yaml:"group_id" env:"KAFKA_GROUP_ID"`
}

type SMTPConfig struct {
	Host     string `yaml:"host" env:"SMTP_HOST"`
	Port     int    `yaml:"port" env:"SMTP_PORT"`
	Username string `yaml:"username" env:"SMTP_USERNAME"`
	Password string `yaml:"password" env:"SMTP_PASSWORD"`
	From     string `yaml:"from" env:"SMTP_FROM"`
	TLS      bool   `yaml:"tls" env:"SMTP_TLS"`
	// TimeoutSeconds bounds a single delivery attempt.
	TimeoutSeconds int `yaml:"timeout_seconds" env:"SMTP_TIMEOUT_SECONDS"`
}

func (s SMTPConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

type NotificationsConfig struct {
	Mode          string `yaml:"mode" env:"NOTIFICATIONS_MODE"`
	QueueSize     int    `yaml:"queue_size"`
	Workers       int    `yaml:"workers"`
	ReviewBaseURL string `yaml:"review_base_url" env:"REVIEW_BASE_URL"`
}

type BookingConfig struct {
	IDAttempts             int `yaml:"id_attempts"`
	ReviewsCacheTTLSeconds int `yaml:"reviews_cache_ttl_seconds"`
}

func (b BookingConfig) ReviewsCacheTTL() time.Duration {
	return time.Duration(b.ReviewsCacheTTLSeconds) * time.Second
}

type LogConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL"`
	Pretty bool   `yaml:"pretty" env:"LOG_PRETTY"`
}

func defaults() Config {
	return Config{
		HTTP:     HTTPConfig{Address: ":8080", GinMode: "release"},
		GRPC:     GRPCConfig{Address: ":9090"},
		Database: DatabaseConfig{Host: "localhost", Port: 5432, SSLMode: "disable", Migrate: true},
		Kafka:    KafkaConfig{NotificationsTopic: "booking-notifications", GroupID: "booking-notifier"},
		SMTP:     SMTPConfig{Port: 587, TimeoutSeconds: 15},
		Notifications: NotificationsConfig{
			Mode:          NotificationModeInline,
			QueueSize:     100,
			Workers:       2,
			ReviewBaseURL: "http://localhost:3000/review",
		},
		Booking: BookingConfig{IDAttempts: 3, ReviewsCacheTTLSeconds: 60},
		Log:     LogConfig{Level: "info"},
	}
}

// LoadConfig reads the YAML file at path on top of the defaults, then applies
// environment overrides.
func LoadConfig(path string) (*Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to apply env overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.HTTP.Address == "" {
		errs = append(errs, errors.New("http.address is required"))
	}
	if c.Database.Name == "" {
		errs = append(errs, errors.New("database.name is required"))
	}
	switch c.Notifications.Mode {
	case NotificationModeInline:
	case NotificationModeKafka:
		if len(c.Kafka.Brokers) == 0 || c.Kafka.NotificationsTopic == "" {
			errs = append(errs, errors.New("kafka.brokers and kafka.notifications_topic are required in kafka mode"))
		}
	default:
		errs = append(errs, fmt.Errorf("notifications.mode %q is not supported", c.Notifications.Mode))
	}
	if c.SMTP.Host != "" && c.SMTP.From == "" {
		errs = append(errs, errors.New("smtp.from is required when smtp.host is set"))
	}
	if c.Booking.IDAttempts < 1 {
		errs = append(errs, errors.New("booking.id_attempts must be at least 1"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

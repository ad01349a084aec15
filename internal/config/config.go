package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/m04kA/SMC-TrainingBooking/internal/domain"
	"github.com/m04kA/SMC-TrainingBooking/pkg/types"
)

// EnvPrefix префикс переменных окружения, переопределяющих config.toml
const EnvPrefix = "TRAINING"

var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	Server    ServerConfig    `toml:"server"`
	Database  DatabaseConfig  `toml:"database"`
	Logs      LogsConfig      `toml:"logs"`
	Metrics   MetricsConfig   `toml:"metrics"`
	Booking   BookingConfig   `toml:"booking"`
	Schedule  ScheduleConfig  `toml:"schedule"`
	Redis     RedisConfig     `toml:"redis"`
	Telegram  TelegramConfig  `toml:"telegram"`
	Auth      AuthConfig      `toml:"auth"`
	CORS      CORSConfig      `toml:"cors"`
	RateLimit RateLimitConfig `toml:"rate_limit"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // секунды
	WriteTimeout    int `toml:"write_timeout"`    // секунды
	IdleTimeout     int `toml:"idle_timeout"`     // секунды
	ShutdownTimeout int `toml:"shutdown_timeout"` // секунды
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
	TxRetries       int    `toml:"tx_retries"`
	TxRetryBackoff  int    `toml:"tx_retry_backoff_ms"`
}

// DSN строка подключения в формате key=value для lib/pq
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

type BookingConfig struct {
	SlotDurationMinutes int `toml:"slot_duration_minutes"`
	SlotCapacity        int `toml:"slot_capacity"`
	MinDurationMinutes  int `toml:"min_duration_minutes"`
}

// Policy правила бронирования для finder и use case
func (c BookingConfig) Policy() domain.BookingPolicy {
	return domain.BookingPolicy{
		SlotDurationMinutes: c.SlotDurationMinutes,
		SlotCapacity:        c.SlotCapacity,
		MinDurationMinutes:  c.MinDurationMinutes,
	}
}

type ScheduleConfig struct {
	DayStart string `toml:"day_start"`
	DayEnd   string `toml:"day_end"`
	Days     int    `toml:"days"`
}

// Window рабочие часы для сетки слотов
func (c ScheduleConfig) Window() (domain.ScheduleWindow, error) {
	start, err := types.NewTimeStringFromString(c.DayStart)
	if err != nil {
		return domain.ScheduleWindow{}, fmt.Errorf("%w: schedule.day_start: %v", ErrInvalidConfig, err)
	}
	end, err := types.NewTimeStringFromString(c.DayEnd)
	if err != nil {
		return domain.ScheduleWindow{}, fmt.Errorf("%w: schedule.day_end: %v", ErrInvalidConfig, err)
	}
	return domain.ScheduleWindow{DayStart: start, DayEnd: end}, nil
}

type RedisConfig struct {
	Enabled  bool   `toml:"enabled"`
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Channel  string `toml:"channel"`
}

type TelegramConfig struct {
	Enabled bool   `toml:"enabled"`
	APIURL  string `toml:"api_url"`
	Token   string `toml:"token"`
	Timeout int    `toml:"timeout"` // секунды
}

type AuthConfig struct {
	JWTSecret string `toml:"jwt_secret"`
}

type CORSConfig struct {
	AllowedOrigins []string `toml:"allowed_origins"`
	AllowedMethods []string `toml:"allowed_methods"`
	AllowedHeaders []string `toml:"allowed_headers"`
	MaxAge         int      `toml:"max_age"` // секунды
}

type RateLimitConfig struct {
	Enabled           bool    `toml:"enabled"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	Burst             int     `toml:"burst"`
	IdleTTL           int     `toml:"idle_ttl"` // секунды
}

// IdleTTLDuration время жизни неактивного лимитера
func (c RateLimitConfig) IdleTTLDuration() time.Duration {
	return time.Duration(c.IdleTTL) * time.Second
}

// envOverrides значения, которые можно задать через окружение
type envOverrides struct {
	DBHost        string `envconfig:"DB_HOST"`
	DBPassword    string `envconfig:"DB_PASSWORD"`
	RedisAddr     string `envconfig:"REDIS_ADDR"`
	TelegramToken string `envconfig:"TELEGRAM_TOKEN"`
	JWTSecret     string `envconfig:"JWT_SECRET"`
	HTTPPort      int    `envconfig:"HTTP_PORT"`
}

// Default конфигурация по умолчанию, поверх нее декодируется config.toml
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     10,
			WriteTimeout:    10,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			DBName:          "training",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
			TxRetries:       3,
			TxRetryBackoff:  50,
		},
		Logs: LogsConfig{Level: "info"},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "training_booking",
		},
		Booking: BookingConfig{
			SlotDurationMinutes: domain.DefaultSlotDurationMinutes,
			SlotCapacity:        domain.DefaultSlotCapacity,
			MinDurationMinutes:  domain.DefaultMinDurationMinutes,
		},
		Schedule: ScheduleConfig{
			DayStart: domain.DefaultDayStart,
			DayEnd:   domain.DefaultDayEnd,
			Days:     domain.DefaultScheduleDays,
		},
		Redis: RedisConfig{
			Addr:    "localhost:6379",
			Channel: "booking-events",
		},
		Telegram: TelegramConfig{
			APIURL:  "https://api.telegram.org",
			Timeout: 5,
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type", "Authorization", "X-User-ID"},
			MaxAge:         600,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 10,
			Burst:             20,
			IdleTTL:           300,
		},
	}
}

// Load читает config.toml, затем .env (если есть) и переменные TRAINING_*
func Load(path string) (*Config, error) {
	cfg := Default()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
	}

	// .env не обязателен
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	var env envOverrides
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return fmt.Errorf("failed to process env config: %w", err)
	}

	if env.DBHost != "" {
		c.Database.Host = env.DBHost
	}
	if env.DBPassword != "" {
		c.Database.Password = env.DBPassword
	}
	if env.RedisAddr != "" {
		c.Redis.Addr = env.RedisAddr
	}
	if env.TelegramToken != "" {
		c.Telegram.Token = env.TelegramToken
	}
	if env.JWTSecret != "" {
		c.Auth.JWTSecret = env.JWTSecret
	}
	if env.HTTPPort != 0 {
		c.Server.HTTPPort = env.HTTPPort
	}
	return nil
}

// Validate проверяет согласованность настроек
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port %d", ErrInvalidConfig, c.Server.HTTPPort)
	}

	if err := c.Booking.Policy().Validate(); err != nil {
		return fmt.Errorf("%w: booking: %v", ErrInvalidConfig, err)
	}

	window, err := c.Schedule.Window()
	if err != nil {
		return err
	}
	if !window.DayStart.IsBefore(window.DayEnd) {
		return fmt.Errorf("%w: schedule.day_end %s is not after day_start %s",
			ErrInvalidConfig, window.DayEnd, window.DayStart)
	}
	if c.Schedule.Days < 1 || c.Schedule.Days > domain.MaxScheduleDays {
		return fmt.Errorf("%w: schedule.days %d", ErrInvalidConfig, c.Schedule.Days)
	}

	if c.Telegram.Enabled && c.Telegram.Token == "" {
		return fmt.Errorf("%w: telegram enabled without token", ErrInvalidConfig)
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("%w: redis enabled without addr", ErrInvalidConfig)
	}
	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst < 1) {
		return fmt.Errorf("%w: rate_limit requires positive rate and burst", ErrInvalidConfig)
	}

	return nil
}

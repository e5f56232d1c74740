package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config конфигурация сервиса
type Config struct {
	Server         ServerConfig      `toml:"server"`
	Database       DatabaseConfig    `toml:"database"`
	Logs           LogsConfig        `toml:"logs"`
	Metrics        MetricsConfig     `toml:"metrics"`
	MemberService  IntegrationConfig `toml:"member_service"`
	PaymentService IntegrationConfig `toml:"payment_service"`
	NotifyService  IntegrationConfig `toml:"notify_service"`
	Allocation     AllocationConfig  `toml:"allocation"`
}

// ServerConfig конфигурация HTTP сервера
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig конфигурация подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
}

// DSN возвращает строку подключения к базе данных
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// LogsConfig конфигурация логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig конфигурация Prometheus метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	ServiceName string `toml:"service_name"`
	Path        string `toml:"path"`
}

// IntegrationConfig конфигурация внешнего сервиса
type IntegrationConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"`
}

// AllocationConfig конфигурация планировщика окон распределения
type AllocationConfig struct {
	// OrganisationID организация, чьи окна ведет этот инстанс
	OrganisationID int64 `toml:"organisation_id"`
	// Timezone локальная таймзона площадки (IANA, например "Europe/London").
	// Все границы окон считаются в ней, поэтому переходы на летнее время
	// не сдвигают момент открытия
	Timezone string `toml:"timezone"`
	// AdvanceDays горизонт бронирования организации в днях: окно,
	// открывшееся сегодня, распределяет дату через столько дней
	AdvanceDays int `toml:"advance_days"`
	// TickSeconds период опроса окон планировщиком
	TickSeconds int `toml:"tick_seconds"`
	// MaxAttempts предел повторов неудавшегося распределения
	MaxAttempts int `toml:"max_attempts"`
	// CollectMinutes длительность фазы сбора предпочтений после открытия окна
	CollectMinutes int `toml:"collect_minutes"`
}

// Load загружает конфигурацию из TOML файла
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Server.HTTPPort <= 0 {
		return fmt.Errorf("server.http_port must be positive, got %d", c.Server.HTTPPort)
	}
	if c.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if c.Allocation.Timezone == "" {
		return fmt.Errorf("allocation.timezone is required")
	}
	if c.Allocation.AdvanceDays <= 0 {
		c.Allocation.AdvanceDays = 7
	}
	if c.Allocation.MaxAttempts <= 0 {
		c.Allocation.MaxAttempts = 3
	}
	if c.Allocation.TickSeconds <= 0 {
		c.Allocation.TickSeconds = 30
	}
	if c.Allocation.CollectMinutes <= 0 {
		c.Allocation.CollectMinutes = 45
	}
	return nil
}

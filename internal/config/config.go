package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config конфигурация сервиса, загружается из config.toml
type Config struct {
	Server      ServerConfig      `toml:"server"`
	Database    DatabaseConfig    `toml:"database"`
	Logs        LogsConfig        `toml:"logs"`
	Metrics     MetricsConfig     `toml:"metrics"`
	Leads       LeadsConfig       `toml:"leads"`
	Conversions ConversionsConfig `toml:"conversions"`
}

// ServerConfig настройки HTTP сервера
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // секунды
	WriteTimeout    int `toml:"write_timeout"`    // секунды
	IdleTimeout     int `toml:"idle_timeout"`     // секунды
	ShutdownTimeout int `toml:"shutdown_timeout"` // секунды
}

// DatabaseConfig настройки подключения к PostgreSQL
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

// DSN возвращает строку подключения для lib/pq
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig настройки prometheus-метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	ServiceName string `toml:"service_name"`
	Path        string `toml:"path"`
}

// LeadsConfig настройки жизненного цикла лидов
type LeadsConfig struct {
	SessionTTLHours    int `toml:"session_ttl_hours"`    // срок жизни сессии (по умолчанию 24)
	DedupWindowSeconds int `toml:"dedup_window_seconds"` // окно подавления дублей (по умолчанию 5)
	RetentionDays      int `toml:"retention_days"`       // хранение неконвертированных лидов (7-30)
	SweepIntervalHours int `toml:"sweep_interval_hours"` // период фоновой чистки
}

// ConversionsConfig настройки трекера конверсий
type ConversionsConfig struct {
	MetricsLogLimit int                `toml:"metrics_log_limit"` // размер кольцевого журнала метрик
	DealValues      map[string]float64 `toml:"deal_values"`       // оценка сделки по типу услуги
}

// Load загружает конфигурацию из TOML файла и проставляет дефолты
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to decode %s: %w", path, err)
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.HTTPPort == 0 {
		c.Server.HTTPPort = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 10
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 15
	}

	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 25
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 300
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}

	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = "funnel-service"
	}

	if c.Leads.SessionTTLHours == 0 {
		c.Leads.SessionTTLHours = 24
	}
	if c.Leads.DedupWindowSeconds == 0 {
		c.Leads.DedupWindowSeconds = 5
	}
	if c.Leads.RetentionDays == 0 {
		c.Leads.RetentionDays = 30
	}
	if c.Leads.SweepIntervalHours == 0 {
		c.Leads.SweepIntervalHours = 24
	}

	if c.Conversions.MetricsLogLimit == 0 {
		c.Conversions.MetricsLogLimit = 1000
	}
}

func (c *Config) validate() error {
	if c.Database.Host == "" {
		return fmt.Errorf("config: database.host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("config: database.user is required")
	}
	if c.Database.DBName == "" {
		return fmt.Errorf("config: database.dbname is required")
	}
	if c.Leads.RetentionDays < 7 || c.Leads.RetentionDays > 30 {
		return fmt.Errorf("config: leads.retention_days must be within [7, 30], got %d", c.Leads.RetentionDays)
	}
	return nil
}

package config

import "fmt"

type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	Mode           string   `mapstructure:"mode"`
	BaseURL        string   `mapstructure:"base_url"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	Path            string `mapstructure:"path"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

func (d *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

// GetSQLitePath returns the database file path for the sqlite driver.
func (d *DatabaseConfig) GetSQLitePath() string {
	if d.Path != "" {
		return d.Path
	}
	return "carelog.db"
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type JWTConfig struct {
	Secret           string `mapstructure:"secret"`
	AccessExpMinutes int    `mapstructure:"access_exp_minutes"`
	RefreshExpDays   int    `mapstructure:"refresh_exp_days"`
}

type AuthConfig struct {
	JWT JWTConfig `mapstructure:"jwt"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type EntitlementConfig struct {
	// StrictFeatures turns unknown feature identifiers into denials instead
	// of the permissive default.
	StrictFeatures       bool   `mapstructure:"strict_features"`
	ConsumeRetryAttempts int    `mapstructure:"consume_retry_attempts"`
	CacheTTLMinutes      int    `mapstructure:"cache_ttl_minutes"`
	SweepIntervalMinutes int    `mapstructure:"sweep_interval_minutes"`
	DefaultTimezone      string `mapstructure:"default_timezone"`
}

type BillingConfig struct {
	// WebhookSecret is the shared secret the billing provider sends in the
	// X-Webhook-Secret header. Signature verification happens upstream.
	WebhookSecret string `mapstructure:"webhook_secret"`
	// GraceDays is how long a past_due subscription keeps Pro limits before
	// the sweep downgrades it.
	GraceDays int `mapstructure:"grace_days"`
}

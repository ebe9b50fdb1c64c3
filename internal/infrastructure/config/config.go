package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/viper"

	sharedConfig "github.com/clubgate/clubgate/internal/shared/config"
)

type Config struct {
	Server    sharedConfig.ServerConfig    `mapstructure:"server"`
	Database  sharedConfig.DatabaseConfig  `mapstructure:"database"`
	Logger    sharedConfig.LoggerConfig    `mapstructure:"logger"`
	Redis     sharedConfig.RedisConfig     `mapstructure:"redis"`
	Telegram  sharedConfig.TelegramConfig  `mapstructure:"telegram"`
	Gateway   sharedConfig.GatewayConfig   `mapstructure:"gateway"`
	Billing   sharedConfig.BillingConfig   `mapstructure:"billing"`
	Scheduler sharedConfig.SchedulerConfig `mapstructure:"scheduler"`
	Email     sharedConfig.EmailConfig     `mapstructure:"email"`
	Admin     sharedConfig.AdminConfig     `mapstructure:"admin"`
	RateLimit sharedConfig.RateLimitConfig `mapstructure:"rate_limit"`
}

var (
	appConfig   *Config
	appConfigMu sync.RWMutex
)

// Load loads configuration from file and environment variables
func Load(env string) (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../configs")
	viper.AddConfigPath("../../configs")

	viper.SetEnvPrefix("CLUBGATE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Allow env parameter to override server mode if provided
	if env != "" && env != "default" {
		viper.Set("server.mode", env)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	appConfigMu.Lock()
	appConfig = &config
	appConfigMu.Unlock()

	return &config, nil
}

// Get returns the loaded configuration
func Get() *Config {
	appConfigMu.RLock()
	defer appConfigMu.RUnlock()
	return appConfig
}

// setDefaults sets default configuration values
func setDefaults() {
	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.mode", "debug")
	viper.SetDefault("server.base_url", "http://localhost:8080")

	// Database defaults
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 3306)
	viper.SetDefault("database.username", "root")
	viper.SetDefault("database.password", "password")
	viper.SetDefault("database.database", "clubgate_dev")
	viper.SetDefault("database.max_idle_conns", 10)
	viper.SetDefault("database.max_open_conns", 100)
	viper.SetDefault("database.conn_max_lifetime", 60)

	// Logger defaults
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.format", "console")
	viper.SetDefault("logger.output_path", "stdout")

	// Redis defaults
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)

	// Telegram defaults (must be configured)
	viper.SetDefault("telegram.bot_token", "")
	viper.SetDefault("telegram.channel_id", 0)

	// Gateway defaults
	viper.SetDefault("gateway.shop_id", "")
	viper.SetDefault("gateway.secret_key", "")
	viper.SetDefault("gateway.base_url", "https://api.yookassa.ru/v3")
	viper.SetDefault("gateway.return_url", "https://t.me")

	// Billing defaults
	viper.SetDefault("billing.currency", "RUB")
	viper.SetDefault("billing.standard_price", 49900)
	viper.SetDefault("billing.standard_duration_days", 30)
	viper.SetDefault("billing.promo_price", 19900)
	viper.SetDefault("billing.promo_duration_days", 30)
	viper.SetDefault("billing.promo_ends_at", "")
	viper.SetDefault("billing.promo_window_days", 3)
	viper.SetDefault("billing.payment_link_ttl_minutes", 10)
	viper.SetDefault("billing.auto_renewal_max_attempts", 3)
	viper.SetDefault("billing.auto_renewal_retry_hours", 2)
	viper.SetDefault("billing.customer_receipt_email", "")
	viper.SetDefault("billing.payment_reaper_ceiling_hours", 24)

	// Scheduler defaults
	viper.SetDefault("scheduler.payment_reaper_interval_seconds", 60)
	viper.SetDefault("scheduler.expiry_interval_seconds", 10)
	viper.SetDefault("scheduler.reminder_interval_minutes", 60)
	viper.SetDefault("scheduler.expiring_soon_offset_hours", 2)
	viper.SetDefault("scheduler.expiring_soon_tolerance_minutes", 35)
	viper.SetDefault("scheduler.dedup_cache_size", 10000)
	viper.SetDefault("scheduler.user_cooldown_seconds", 120)

	// Email defaults
	viper.SetDefault("email.smtp_host", "localhost")
	viper.SetDefault("email.smtp_port", 1025)
	viper.SetDefault("email.smtp_user", "")
	viper.SetDefault("email.smtp_password", "")
	viper.SetDefault("email.from_address", "noreply@clubgate.local")
	viper.SetDefault("email.from_name", "ClubGate")
	viper.SetDefault("email.admin_address", "")

	// Admin defaults (empty disables the admin surface)
	viper.SetDefault("admin.api_token", "")

	// Rate limit defaults
	viper.SetDefault("rate_limit.requests_per_minute", 120)
	viper.SetDefault("rate_limit.requests_per_hour", 2000)
}

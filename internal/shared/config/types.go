package config

import "fmt"

type ServerConfig struct {
	Host    string `mapstructure:"host"`
	Port    int    `mapstructure:"port"`
	Mode    string `mapstructure:"mode"`
	BaseURL string `mapstructure:"base_url"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

func (d *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
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

// TelegramConfig holds the bot credentials and the gated channel identity.
type TelegramConfig struct {
	BotToken  string `mapstructure:"bot_token"`
	ChannelID int64  `mapstructure:"channel_id"`
}

// GatewayConfig holds the payment provider credentials.
type GatewayConfig struct {
	ShopID    string `mapstructure:"shop_id"`
	SecretKey string `mapstructure:"secret_key"`
	BaseURL   string `mapstructure:"base_url"`
	ReturnURL string `mapstructure:"return_url"`
}

// BillingConfig holds subscription pricing and renewal policy constants.
// All amounts are in minor currency units (kopecks).
type BillingConfig struct {
	Currency                  string `mapstructure:"currency"`
	StandardPrice             int64  `mapstructure:"standard_price"`
	StandardDurationDays      int    `mapstructure:"standard_duration_days"`
	PromoPrice                int64  `mapstructure:"promo_price"`
	PromoDurationDays         int    `mapstructure:"promo_duration_days"`
	PromoEndsAt               string `mapstructure:"promo_ends_at"` // RFC3339, identical for all users
	PromoWindowDays           int    `mapstructure:"promo_window_days"`
	PaymentLinkTTLMinutes     int    `mapstructure:"payment_link_ttl_minutes"`
	AutoRenewalMaxAttempts    int    `mapstructure:"auto_renewal_max_attempts"`
	AutoRenewalRetryHours     int    `mapstructure:"auto_renewal_retry_hours"`
	CustomerReceiptEmail      string `mapstructure:"customer_receipt_email"`
	PaymentReaperCeilingHours int    `mapstructure:"payment_reaper_ceiling_hours"`
}

// SchedulerConfig holds the polling loop intervals and dedup bounds.
type SchedulerConfig struct {
	PaymentReaperIntervalSeconds int `mapstructure:"payment_reaper_interval_seconds"`
	ExpiryIntervalSeconds        int `mapstructure:"expiry_interval_seconds"`
	ReminderIntervalMinutes      int `mapstructure:"reminder_interval_minutes"`
	ExpiringSoonOffsetHours      int `mapstructure:"expiring_soon_offset_hours"`
	ExpiringSoonToleranceMinutes int `mapstructure:"expiring_soon_tolerance_minutes"`
	DedupCacheSize               int `mapstructure:"dedup_cache_size"`
	UserCooldownSeconds          int `mapstructure:"user_cooldown_seconds"`
}

type EmailConfig struct {
	SMTPHost     string `mapstructure:"smtp_host"`
	SMTPPort     int    `mapstructure:"smtp_port"`
	SMTPUser     string `mapstructure:"smtp_user"`
	SMTPPassword string `mapstructure:"smtp_password"`
	FromAddress  string `mapstructure:"from_address"`
	FromName     string `mapstructure:"from_name"`
	AdminAddress string `mapstructure:"admin_address"`
}

// AdminConfig guards the administrative HTTP surface (promo reset).
type AdminConfig struct {
	APIToken string `mapstructure:"api_token"`
}

type RateLimitConfig struct {
	RequestsPerMinute int `mapstructure:"requests_per_minute"`
	RequestsPerHour   int `mapstructure:"requests_per_hour"`
}

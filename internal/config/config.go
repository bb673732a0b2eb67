package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App         AppConfig
	Backend     BackendConfig
	Database    DatabaseConfig
	JWT         JWTConfig
	Terminal    TerminalConfig
	Printer     PrinterConfig
	CORS        CORSConfig
	RateLimit   RateLimitConfig
	Idempotency IdempotencyConfig
	Log         LogConfig
}

type AppConfig struct {
	Name  string
	Env   string
	Port  string
	Debug bool
}

// BackendConfig points the terminal at the REST backend. Timeout zero keeps
// the transport default.
type BackendConfig struct {
	BaseURL      string
	APIToken     string
	ClientID     string
	ClientSecret string
	TokenURL     string
	Scopes       []string
	Timeout      time.Duration
}

type DatabaseConfig struct {
	Driver       string
	SQLitePath   string
	Host         string
	Port         string
	Name         string
	User         string
	Password     string
	SSLMode      string
	Timezone     string
	LogLevel     string
	MaxIdleConns int
	MaxOpenConns int
}

type JWTConfig struct {
	Secret string
	Issuer string
}

type TerminalConfig struct {
	BranchID      string
	BannerTTL     time.Duration
	SessionIdle   time.Duration
	SweepInterval time.Duration
	StoreName     string
	StoreAddress  string
	StorePhone    string
	TaxID         string
}

// PrinterConfig selects who prints receipts: the backend, a printer attached
// to this till, or nobody.
type PrinterConfig struct {
	Mode       string
	Type       string
	USBPath    string
	Address    string
	PaperWidth int
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type RateLimitConfig struct {
	Requests int
	Duration int
}

type IdempotencyConfig struct {
	TTL time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

func Load() *Config {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")
	viper.AutomaticEnv()

	// missing .env is fine, the environment alone is enough
	_ = viper.ReadInConfig()

	return load(viper.GetViper())
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_NAME", "investify-pos")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_PORT", "8081")
	v.SetDefault("APP_DEBUG", false)

	v.SetDefault("BACKEND_BASE_URL", "http://localhost:8000/api/")
	v.SetDefault("BACKEND_API_TOKEN", "")
	v.SetDefault("BACKEND_CLIENT_ID", "")
	v.SetDefault("BACKEND_CLIENT_SECRET", "")
	v.SetDefault("BACKEND_TOKEN_URL", "")
	v.SetDefault("BACKEND_SCOPES", "")
	v.SetDefault("BACKEND_TIMEOUT", time.Duration(0))

	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DB_SQLITE_PATH", "./pos-journal.db")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "investify_pos")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_TIMEZONE", "Africa/Nairobi")
	v.SetDefault("DB_LOG_LEVEL", "warn")
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_MAX_OPEN_CONNS", 20)

	v.SetDefault("JWT_SECRET", "change-this-secret-in-production")
	v.SetDefault("JWT_ISSUER", "investify-api")

	v.SetDefault("TERMINAL_BRANCH_ID", "")
	v.SetDefault("TERMINAL_BANNER_TTL", 3*time.Second)
	v.SetDefault("TERMINAL_SESSION_IDLE_TTL", 12*time.Hour)
	v.SetDefault("TERMINAL_SWEEP_INTERVAL", 5*time.Minute)
	v.SetDefault("TERMINAL_STORE_NAME", "Investify Store")
	v.SetDefault("TERMINAL_STORE_ADDRESS", "")
	v.SetDefault("TERMINAL_STORE_PHONE", "")
	v.SetDefault("TERMINAL_TAX_ID", "")

	v.SetDefault("PRINTER_MODE", "backend")
	v.SetDefault("PRINTER_TYPE", "none")
	v.SetDefault("PRINTER_USB_PATH", "/dev/usb/lp0")
	v.SetDefault("PRINTER_ADDRESS", "")
	v.SetDefault("PRINTER_PAPER_WIDTH", 32)

	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("CORS_ALLOWED_METHODS", "")
	v.SetDefault("CORS_ALLOWED_HEADERS", "")
	v.SetDefault("RATE_LIMIT_REQUESTS", 300)
	v.SetDefault("RATE_LIMIT_DURATION", 60)
	v.SetDefault("IDEMPOTENCY_TTL", 24*time.Hour)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

func load(v *viper.Viper) *Config {
	setDefaults(v)

	return &Config{
		App: AppConfig{
			Name:  v.GetString("APP_NAME"),
			Env:   v.GetString("APP_ENV"),
			Port:  v.GetString("APP_PORT"),
			Debug: v.GetBool("APP_DEBUG"),
		},
		Backend: BackendConfig{
			BaseURL:      v.GetString("BACKEND_BASE_URL"),
			APIToken:     v.GetString("BACKEND_API_TOKEN"),
			ClientID:     v.GetString("BACKEND_CLIENT_ID"),
			ClientSecret: v.GetString("BACKEND_CLIENT_SECRET"),
			TokenURL:     v.GetString("BACKEND_TOKEN_URL"),
			Scopes:       splitList(v.GetString("BACKEND_SCOPES")),
			Timeout:      v.GetDuration("BACKEND_TIMEOUT"),
		},
		Database: DatabaseConfig{
			Driver:       strings.ToLower(v.GetString("DB_DRIVER")),
			SQLitePath:   v.GetString("DB_SQLITE_PATH"),
			Host:         v.GetString("DB_HOST"),
			Port:         v.GetString("DB_PORT"),
			Name:         v.GetString("DB_NAME"),
			User:         v.GetString("DB_USER"),
			Password:     v.GetString("DB_PASSWORD"),
			SSLMode:      v.GetString("DB_SSL_MODE"),
			Timezone:     v.GetString("DB_TIMEZONE"),
			LogLevel:     v.GetString("DB_LOG_LEVEL"),
			MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
			MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		},
		JWT: JWTConfig{
			Secret: v.GetString("JWT_SECRET"),
			Issuer: v.GetString("JWT_ISSUER"),
		},
		Terminal: TerminalConfig{
			BranchID:      v.GetString("TERMINAL_BRANCH_ID"),
			BannerTTL:     v.GetDuration("TERMINAL_BANNER_TTL"),
			SessionIdle:   v.GetDuration("TERMINAL_SESSION_IDLE_TTL"),
			SweepInterval: v.GetDuration("TERMINAL_SWEEP_INTERVAL"),
			StoreName:     v.GetString("TERMINAL_STORE_NAME"),
			StoreAddress:  v.GetString("TERMINAL_STORE_ADDRESS"),
			StorePhone:    v.GetString("TERMINAL_STORE_PHONE"),
			TaxID:         v.GetString("TERMINAL_TAX_ID"),
		},
		Printer: PrinterConfig{
			Mode:       strings.ToLower(v.GetString("PRINTER_MODE")),
			Type:       strings.ToLower(v.GetString("PRINTER_TYPE")),
			USBPath:    v.GetString("PRINTER_USB_PATH"),
			Address:    v.GetString("PRINTER_ADDRESS"),
			PaperWidth: v.GetInt("PRINTER_PAPER_WIDTH"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
			AllowedMethods: splitList(v.GetString("CORS_ALLOWED_METHODS")),
			AllowedHeaders: splitList(v.GetString("CORS_ALLOWED_HEADERS")),
		},
		RateLimit: RateLimitConfig{
			Requests: v.GetInt("RATE_LIMIT_REQUESTS"),
			Duration: v.GetInt("RATE_LIMIT_DURATION"),
		},
		Idempotency: IdempotencyConfig{
			TTL: v.GetDuration("IDEMPOTENCY_TTL"),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
	}
}

func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.Timezone
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

package config

import (
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	App         AppConfig
	Database    DatabaseConfig
	JWT         JWTConfig
	CORS        CORSConfig
	RateLimit   RateLimitConfig
	Sales       SalesConfig
	Report      ReportConfig
	Import      ImportConfig
	Idempotency IdempotencyConfig
	Seed        SeedConfig
	Log         LogConfig
}

type AppConfig struct {
	Name  string
	Env   string
	Port  string
	Debug bool
}

type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	Timezone string
	Path     string
}

type JWTConfig struct {
	Secret      string
	ExpiryHours time.Duration
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

// SalesConfig holds the sale processor policy switches
type SalesConfig struct {
	RejectEmpty           bool
	EnforceDiscountWindow bool
}

type ReportConfig struct {
	DayOffset time.Duration
}

type ImportConfig struct {
	LocationName  string
	UploadMaxSize int64
}

// IdempotencyConfig controls the Idempotency-Key guard on write routes
type IdempotencyConfig struct {
	Required bool
}

// SeedConfig lists the sellers created on startup, as "username:email" pairs
type SeedConfig struct {
	Sellers  []SeedSeller
	Password string
}

type SeedSeller struct {
	Username string
	Email    string
}

type LogConfig struct {
	Level string
}

func Load() *Config {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg(".env file not found, using environment variables")
	}

	setDefaults()

	return &Config{
		App: AppConfig{
			Name:  viper.GetString("APP_NAME"),
			Env:   viper.GetString("APP_ENV"),
			Port:  viper.GetString("APP_PORT"),
			Debug: viper.GetBool("APP_DEBUG"),
		},
		Database: DatabaseConfig{
			Driver:   strings.ToLower(viper.GetString("DB_DRIVER")),
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			SSLMode:  viper.GetString("DB_SSL_MODE"),
			Timezone: viper.GetString("DB_TIMEZONE"),
			Path:     viper.GetString("DB_PATH"),
		},
		JWT: JWTConfig{
			Secret:      viper.GetString("JWT_SECRET"),
			ExpiryHours: time.Duration(viper.GetInt("JWT_EXPIRY_HOURS")) * time.Hour,
		},
		CORS: CORSConfig{
			AllowedOrigins: viper.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods: viper.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders: viper.GetStringSlice("CORS_ALLOWED_HEADERS"),
		},
		RateLimit: RateLimitConfig{
			Requests: viper.GetInt("RATE_LIMIT_REQUESTS"),
			Duration: viper.GetInt("RATE_LIMIT_DURATION"),
		},
		Sales: SalesConfig{
			RejectEmpty:           viper.GetBool("SALES_REJECT_EMPTY"),
			EnforceDiscountWindow: viper.GetBool("SALES_ENFORCE_DISCOUNT_WINDOW"),
		},
		Report: ReportConfig{
			DayOffset: time.Duration(viper.GetInt("REPORT_DAY_OFFSET_HOURS")) * time.Hour,
		},
		Import: ImportConfig{
			LocationName:  viper.GetString("IMPORT_LOCATION_NAME"),
			UploadMaxSize: viper.GetInt64("UPLOAD_MAX_SIZE"),
		},
		Idempotency: IdempotencyConfig{
			Required: viper.GetBool("IDEMPOTENCY_REQUIRED"),
		},
		Seed: SeedConfig{
			Sellers:  ParseSeedSellers(viper.GetString("SEED_SELLERS")),
			Password: viper.GetString("SEED_SELLER_PASSWORD"),
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
	}
}

func setDefaults() {
	viper.SetDefault("APP_NAME", "salesledger-api")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_DEBUG", true)
	viper.SetDefault("DB_DRIVER", "postgres")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_NAME", "salesledger")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_SSL_MODE", "disable")
	viper.SetDefault("DB_TIMEZONE", "UTC")
	viper.SetDefault("DB_PATH", "salesledger.db")
	viper.SetDefault("JWT_SECRET", "change-this-secret-in-production")
	viper.SetDefault("JWT_EXPIRY_HOURS", 24)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("CORS_ALLOWED_HEADERS", []string{})
	viper.SetDefault("RATE_LIMIT_REQUESTS", 100)
	viper.SetDefault("RATE_LIMIT_DURATION", 60)
	viper.SetDefault("SALES_REJECT_EMPTY", false)
	viper.SetDefault("SALES_ENFORCE_DISCOUNT_WINDOW", true)
	viper.SetDefault("REPORT_DAY_OFFSET_HOURS", 5)
	viper.SetDefault("IMPORT_LOCATION_NAME", "Imported")
	viper.SetDefault("UPLOAD_MAX_SIZE", 10485760)
	viper.SetDefault("IDEMPOTENCY_REQUIRED", false)
	viper.SetDefault("SEED_SELLERS", "Alonso:alonso@empresa.com,Andrea:andrea@empresa.com")
	viper.SetDefault("SEED_SELLER_PASSWORD", "changeme")
	viper.SetDefault("LOG_LEVEL", "info")
}

// ParseSeedSellers parses "user:email,user2:email2". Malformed entries are skipped.
func ParseSeedSellers(raw string) []SeedSeller {
	var sellers []SeedSeller
	for _, entry := range strings.Split(raw, ",") {
		parts := strings.SplitN(strings.TrimSpace(entry), ":", 2)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			continue
		}
		sellers = append(sellers, SeedSeller{
			Username: strings.TrimSpace(parts[0]),
			Email:    strings.TrimSpace(parts[1]),
		})
	}
	return sellers
}

func (c *DatabaseConfig) DSN() string {
	if c.Driver == "sqlite" {
		return c.Path
	}
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.Timezone
}

package config

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Session   SessionConfig
	Auth      AuthConfig
	Storage   StorageConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Redis     RedisConfig
	Shop      ShopConfig
	Receipt   ReceiptConfig
	Printer   PrinterConfig
	Log       LogConfig
}

type AppConfig struct {
	Name     string
	Env      string
	Port     string
	Debug    bool
	BaseURL  string
	Timezone string
}

// Location resolves the shop time zone, falling back to the host zone.
func (c *AppConfig) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		log.Printf("Warning: unknown timezone %q, using local time: %v", c.Timezone, err)
		return time.Local
	}
	return loc
}

type DatabaseConfig struct {
	Driver   string // postgres or memory
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	Timezone string
}

// SessionConfig controls the signed session token.
type SessionConfig struct {
	Secret  string
	Timeout time.Duration
}

// AuthConfig is the single shop login. PasswordHash takes precedence over Password.
type AuthConfig struct {
	Username     string
	Password     string
	PasswordHash string
	Role         string
}

type StorageConfig struct {
	Provider      string // local, gcs, s3 or none
	Path          string
	Bucket        string
	PublicURL     string

	GCSCredentialsJSON string

	S3Region   string
	S3Endpoint string
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

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// ShopConfig is printed on every receipt.
type ShopConfig struct {
	Name       string
	Tagline    string
	Address    string
	Phone      string
	UPIID      string
	Currency   string // ISO code for the payment link
	Symbol     string // label printed before amounts
	Disclaimer []string
	Footer     []string
}

type ReceiptConfig struct {
	PageWidthMM float64
	SettleDelay time.Duration
	PDFOnCreate bool
	// QRFixedAmount, when set, replaces the bill total in the payment link.
	QRFixedAmount string
	// FontPath is an optional TTF/OTF drawn ahead of the built-in font,
	// e.g. a Devanagari face.
	FontPath string
}

type PrinterConfig struct {
	Type      string // usb, network or none
	USBPath   string
	Address   string
	CharWidth int
}

type LogConfig struct {
	Level  string
	Format string // json or text
}

func Load() *Config {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables: %v", err)
	}

	// Set defaults
	viper.SetDefault("APP_NAME", "pos-billing-api")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_DEBUG", true)
	viper.SetDefault("APP_BASE_URL", "http://localhost:8080")
	viper.SetDefault("APP_TIMEZONE", "Asia/Kolkata")
	viper.SetDefault("DB_DRIVER", "postgres")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_NAME", "billing")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_SSL_MODE", "disable")
	viper.SetDefault("DB_TIMEZONE", "Asia/Kolkata")
	viper.SetDefault("SESSION_SECRET", "change-this-secret-in-production")
	viper.SetDefault("SESSION_TIMEOUT_HOURS", 24)
	viper.SetDefault("AUTH_USERNAME", "admin")
	viper.SetDefault("AUTH_PASSWORD", "")
	viper.SetDefault("AUTH_PASSWORD_HASH", "")
	viper.SetDefault("AUTH_ROLE", "admin")
	viper.SetDefault("STORAGE_PROVIDER", "local")
	viper.SetDefault("STORAGE_PATH", "./storage")
	viper.SetDefault("STORAGE_BUCKET", "bill")
	viper.SetDefault("STORAGE_PUBLIC_URL", "")
	viper.SetDefault("GCS_CREDENTIALS_JSON", "")
	viper.SetDefault("S3_REGION", "ap-south-1")
	viper.SetDefault("S3_ENDPOINT", "")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("CORS_ALLOWED_HEADERS", []string{})
	viper.SetDefault("RATE_LIMIT_REQUESTS", 100)
	viper.SetDefault("RATE_LIMIT_DURATION", 60)
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("REDIS_TTL_SECONDS", 300)
	viper.SetDefault("SHOP_NAME", "Kiran Beauty Shop")
	viper.SetDefault("SHOP_TAGLINE", "--- Shine with Elegance ---")
	viper.SetDefault("SHOP_ADDRESS", "")
	viper.SetDefault("SHOP_PHONE", "")
	viper.SetDefault("SHOP_UPI_ID", "q458853545@ybl")
	viper.SetDefault("SHOP_CURRENCY", "INR")
	viper.SetDefault("SHOP_CURRENCY_SYMBOL", "Rs.")
	viper.SetDefault("SHOP_DISCLAIMER", "Fixed Rate,No Return,No Replacement")
	viper.SetDefault("SHOP_FOOTER", "Thank you for shopping with us,Visit Again")
	viper.SetDefault("RECEIPT_PAGE_WIDTH_MM", 148)
	viper.SetDefault("RECEIPT_SETTLE_DELAY_MS", 500)
	viper.SetDefault("RECEIPT_PDF_ON_CREATE", true)
	viper.SetDefault("RECEIPT_QR_FIXED_AMOUNT", "")
	viper.SetDefault("RECEIPT_FONT_PATH", "")
	viper.SetDefault("PRINTER_TYPE", "none")
	viper.SetDefault("PRINTER_USB_PATH", "/dev/usb/lp0")
	viper.SetDefault("PRINTER_ADDRESS", "")
	viper.SetDefault("PRINTER_CHAR_WIDTH", 32)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "")

	return &Config{
		App: AppConfig{
			Name:     viper.GetString("APP_NAME"),
			Env:      viper.GetString("APP_ENV"),
			Port:     viper.GetString("APP_PORT"),
			Debug:    viper.GetBool("APP_DEBUG"),
			BaseURL:  strings.TrimRight(viper.GetString("APP_BASE_URL"), "/"),
			Timezone: viper.GetString("APP_TIMEZONE"),
		},
		Database: DatabaseConfig{
			Driver:   viper.GetString("DB_DRIVER"),
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			SSLMode:  viper.GetString("DB_SSL_MODE"),
			Timezone: viper.GetString("DB_TIMEZONE"),
		},
		Session: SessionConfig{
			Secret:  viper.GetString("SESSION_SECRET"),
			Timeout: time.Duration(viper.GetInt("SESSION_TIMEOUT_HOURS")) * time.Hour,
		},
		Auth: AuthConfig{
			Username:     viper.GetString("AUTH_USERNAME"),
			Password:     viper.GetString("AUTH_PASSWORD"),
			PasswordHash: viper.GetString("AUTH_PASSWORD_HASH"),
			Role:         viper.GetString("AUTH_ROLE"),
		},
		Storage: StorageConfig{
			Provider:           viper.GetString("STORAGE_PROVIDER"),
			Path:               viper.GetString("STORAGE_PATH"),
			Bucket:             viper.GetString("STORAGE_BUCKET"),
			PublicURL:          strings.TrimRight(viper.GetString("STORAGE_PUBLIC_URL"), "/"),
			GCSCredentialsJSON: viper.GetString("GCS_CREDENTIALS_JSON"),
			S3Region:           viper.GetString("S3_REGION"),
			S3Endpoint:         viper.GetString("S3_ENDPOINT"),
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
		Redis: RedisConfig{
			Addr:     viper.GetString("REDIS_ADDR"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
			TTL:      time.Duration(viper.GetInt("REDIS_TTL_SECONDS")) * time.Second,
		},
		Shop: ShopConfig{
			Name:       viper.GetString("SHOP_NAME"),
			Tagline:    viper.GetString("SHOP_TAGLINE"),
			Address:    viper.GetString("SHOP_ADDRESS"),
			Phone:      viper.GetString("SHOP_PHONE"),
			UPIID:      viper.GetString("SHOP_UPI_ID"),
			Currency:   viper.GetString("SHOP_CURRENCY"),
			Symbol:     viper.GetString("SHOP_CURRENCY_SYMBOL"),
			Disclaimer: splitList(viper.GetString("SHOP_DISCLAIMER")),
			Footer:     splitList(viper.GetString("SHOP_FOOTER")),
		},
		Receipt: ReceiptConfig{
			PageWidthMM:   viper.GetFloat64("RECEIPT_PAGE_WIDTH_MM"),
			SettleDelay:   time.Duration(viper.GetInt("RECEIPT_SETTLE_DELAY_MS")) * time.Millisecond,
			PDFOnCreate:   viper.GetBool("RECEIPT_PDF_ON_CREATE"),
			QRFixedAmount: viper.GetString("RECEIPT_QR_FIXED_AMOUNT"),
			FontPath:      viper.GetString("RECEIPT_FONT_PATH"),
		},
		Printer: PrinterConfig{
			Type:      viper.GetString("PRINTER_TYPE"),
			USBPath:   viper.GetString("PRINTER_USB_PATH"),
			Address:   viper.GetString("PRINTER_ADDRESS"),
			CharWidth: viper.GetInt("PRINTER_CHAR_WIDTH"),
		},
		Log: LogConfig{
			Level:  viper.GetString("LOG_LEVEL"),
			Format: viper.GetString("LOG_FORMAT"),
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

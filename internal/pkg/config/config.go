package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection,
//   channel-manager and gateway credentials), security settings
// - default: Values common across all environments (timeouts, retry policy,
//   timezone, etc.), standard settings
// -----------------------------------------------------------------------------

type Config struct {
	Server  ServerConfig
	DB      DBConfig
	CORS    CORSConfig
	Log     LogConfig
	JWT     JWTConfig
	Cookie  CookieConfig
	Channel ChannelConfig
	Payment PaymentConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"UTC"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"UTC"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"0"`
}

type JWTConfig struct {
	Secret   string `envconfig:"JWT_SECRET" required:"true"`
	Duration string `envconfig:"JWT_DURATION" default:"24h"`
}

type CookieConfig struct {
	Domain   string `envconfig:"COOKIE_DOMAIN" default:""`
	Secure   bool   `envconfig:"COOKIE_SECURE" default:"false"`
	SameSite string `envconfig:"COOKIE_SAME_SITE" default:"Lax"`
}

// ChannelConfig holds the hotel-distribution (channel manager) endpoint and
// credentials. Credentials are not validated beyond presence; the
// counterparty does that.
type ChannelConfig struct {
	EndpointURL    string        `envconfig:"CHANNEL_ENDPOINT_URL" required:"true"`
	HotelCode      string        `envconfig:"CHANNEL_HOTEL_CODE" required:"true"`
	Username       string        `envconfig:"CHANNEL_USERNAME" required:"true"`
	Password       string        `envconfig:"CHANNEL_PASSWORD" required:"true"`
	RequestTimeout time.Duration `envconfig:"CHANNEL_REQUEST_TIMEOUT" default:"15s"`
	MaxAttempts    int           `envconfig:"CHANNEL_MAX_ATTEMPTS" default:"3"`
	RetryBaseWait  time.Duration `envconfig:"CHANNEL_RETRY_BASE_WAIT" default:"500ms"`
	WebhookSecret  string        `envconfig:"CHANNEL_WEBHOOK_SECRET" required:"true"`
}

// PaymentConfig holds the gateway merchant credentials. Salts supports
// rotation: the first entry signs outbound requests, every entry is tried
// when verifying callbacks.
type PaymentConfig struct {
	MerchantKey string   `envconfig:"PAYMENT_MERCHANT_KEY" required:"true"`
	Salts       []string `envconfig:"PAYMENT_SALTS" required:"true"`
	RedirectURL string   `envconfig:"PAYMENT_REDIRECT_URL" required:"true"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			TimeZone: "UTC",
		},
		Log: LogConfig{
			Level:          "error", // Error level only for tests
			TimeZone:       "UTC",
			TimeFormat:     "2006-01-02 15:04:05.000",
			TimeZoneOffset: 0,
		},
		JWT: JWTConfig{
			Secret:   "test-secret",
			Duration: "24h",
		},
		Cookie: CookieConfig{
			Domain:   "",
			Secure:   false,
			SameSite: "Lax",
		},
		Channel: ChannelConfig{
			EndpointURL:    "http://localhost:18080/push",
			HotelCode:      "STAY001",
			Username:       "test",
			Password:       "test",
			RequestTimeout: 2 * time.Second,
			MaxAttempts:    2,
			RetryBaseWait:  10 * time.Millisecond,
			WebhookSecret:  "test-webhook-secret",
		},
		Payment: PaymentConfig{
			MerchantKey: "OpJrSH",
			Salts:       []string{"Vsv8SrrQf41sn7zWycxMt18LinszCTWs", "9uVJLX41k7TslJmxB0AhcYVCXKs2dbpq"},
			RedirectURL: "http://localhost:8889/api/payments/return",
		},
	}
}

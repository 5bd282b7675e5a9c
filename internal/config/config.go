package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Store      StoreConfig      `yaml:"store" mapstructure:"store"`
	RateLimit  RateLimitConfig  `yaml:"ratelimit" mapstructure:"ratelimit"`
	Worker     WorkerConfig     `yaml:"worker" mapstructure:"worker"`
	Storage    StorageConfig    `yaml:"storage" mapstructure:"storage"`
	Email      EmailConfig      `yaml:"email" mapstructure:"email"`
	CRM        CRMConfig        `yaml:"crm" mapstructure:"crm"`
	Notion     NotionConfig     `yaml:"notion" mapstructure:"notion"`
	Salesforce SalesforceConfig `yaml:"salesforce" mapstructure:"salesforce"`
	Report     ReportConfig     `yaml:"report" mapstructure:"report"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Port             int      `yaml:"port" mapstructure:"port"`
	CORSOrigins      []string `yaml:"cors_origins" mapstructure:"cors_origins"`
	ReadTimeoutSecs  int      `yaml:"read_timeout_secs" mapstructure:"read_timeout_secs"`
	WriteTimeoutSecs int      `yaml:"write_timeout_secs" mapstructure:"write_timeout_secs"`
	// ShutdownSecs bounds the drain of in-flight requests and queued jobs.
	ShutdownSecs int `yaml:"shutdown_secs" mapstructure:"shutdown_secs"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	MaxConns    int32  `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns    int32  `yaml:"min_conns" mapstructure:"min_conns"`
}

// RateLimitConfig configures the intake throttle.
type RateLimitConfig struct {
	// Backend is memory (single instance) or postgres (shared counters).
	Backend     string `yaml:"backend" mapstructure:"backend"`
	MaxRequests int    `yaml:"max_requests" mapstructure:"max_requests"`
	WindowSecs  int    `yaml:"window_secs" mapstructure:"window_secs"`
}

// WorkerConfig configures the background report pool.
type WorkerConfig struct {
	Concurrency    int `yaml:"concurrency" mapstructure:"concurrency"`
	QueueSize      int `yaml:"queue_size" mapstructure:"queue_size"`
	JobTimeoutSecs int `yaml:"job_timeout_secs" mapstructure:"job_timeout_secs"`
}

// StorageConfig holds S3-compatible object storage settings.
type StorageConfig struct {
	Endpoint         string `yaml:"endpoint" mapstructure:"endpoint"`
	AccessKey        string `yaml:"access_key" mapstructure:"access_key"`
	SecretKey        string `yaml:"secret_key" mapstructure:"secret_key"`
	Region           string `yaml:"region" mapstructure:"region"`
	UseSSL           bool   `yaml:"use_ssl" mapstructure:"use_ssl"`
	ReportsBucket    string `yaml:"reports_bucket" mapstructure:"reports_bucket"`
	ResourcesBucket  string `yaml:"resources_bucket" mapstructure:"resources_bucket"`
	SignedURLTTLSecs int    `yaml:"signed_url_ttl_secs" mapstructure:"signed_url_ttl_secs"`
}

// EmailConfig holds transactional email settings.
type EmailConfig struct {
	APIKey  string `yaml:"api_key" mapstructure:"api_key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	From    string `yaml:"from" mapstructure:"from"`
	ReplyTo string `yaml:"reply_to" mapstructure:"reply_to"`
}

// CRMConfig holds the CRM webhook settings.
type CRMConfig struct {
	WebhookURL    string `yaml:"webhook_url" mapstructure:"webhook_url"`
	WebhookSecret string `yaml:"webhook_secret" mapstructure:"webhook_secret"`
	TimeoutSecs   int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// NotionConfig holds Notion API credentials for the lead mirror.
type NotionConfig struct {
	Token     string  `yaml:"token" mapstructure:"token"`
	LeadDB    string  `yaml:"lead_db" mapstructure:"lead_db"`
	RateLimit float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// SalesforceConfig holds Salesforce JWT auth settings.
type SalesforceConfig struct {
	Enabled   bool    `yaml:"enabled" mapstructure:"enabled"`
	ClientID  string  `yaml:"client_id" mapstructure:"client_id"`
	Username  string  `yaml:"username" mapstructure:"username"`
	KeyPath   string  `yaml:"key_path" mapstructure:"key_path"`
	LoginURL  string  `yaml:"login_url" mapstructure:"login_url"`
	RateLimit float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// ReportConfig holds branding for the generated report and email.
type ReportConfig struct {
	BrandName    string `yaml:"brand_name" mapstructure:"brand_name"`
	SupportEmail string `yaml:"support_email" mapstructure:"support_email"`
	SupportPhone string `yaml:"support_phone" mapstructure:"support_phone"`
	BookingURL   string `yaml:"booking_url" mapstructure:"booking_url"`
	// CatalogPath overrides the embedded service catalogue.
	CatalogPath string `yaml:"catalog_path" mapstructure:"catalog_path"`
	Compress    bool   `yaml:"compress" mapstructure:"compress"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("LEADFLOW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout_secs", 15)
	v.SetDefault("server.write_timeout_secs", 30)
	v.SetDefault("server.shutdown_secs", 30)
	v.SetDefault("store.driver", "postgres")
	v.SetDefault("store.max_conns", 10)
	v.SetDefault("store.min_conns", 1)
	v.SetDefault("ratelimit.backend", "memory")
	v.SetDefault("ratelimit.max_requests", 3)
	v.SetDefault("ratelimit.window_secs", 3600)
	v.SetDefault("worker.concurrency", 4)
	v.SetDefault("worker.queue_size", 100)
	v.SetDefault("worker.job_timeout_secs", 0)
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.use_ssl", true)
	v.SetDefault("storage.reports_bucket", "reports")
	v.SetDefault("storage.resources_bucket", "resources")
	v.SetDefault("storage.signed_url_ttl_secs", 900)
	v.SetDefault("email.base_url", "https://api.resend.com")
	v.SetDefault("crm.timeout_secs", 10)
	v.SetDefault("notion.rate_limit", 3.0)
	v.SetDefault("salesforce.login_url", "https://login.salesforce.com")
	v.SetDefault("salesforce.rate_limit", 5.0)
	v.SetDefault("report.brand_name", "Agent Success Coaching")
	v.SetDefault("report.compress", true)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the settings a command needs before it starts. Modes are
// serve, migrate, export, redeliver and preview.
func (c *Config) Validate(mode string) error {
	var errs []string
	req := func(v, key string) {
		if strings.TrimSpace(v) == "" {
			errs = append(errs, key+" is required")
		}
	}

	switch mode {
	case "serve":
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			errs = append(errs, "server.port must be > 0 and <= 65535")
		}
		errs = append(errs, c.storeErrors()...)
		errs = append(errs, c.deliveryErrors()...)
		switch c.RateLimit.Backend {
		case "memory":
		case "postgres":
			if c.Store.Driver != "postgres" {
				errs = append(errs, "ratelimit.backend postgres requires store.driver postgres")
			}
		default:
			errs = append(errs, fmt.Sprintf("ratelimit.backend %q must be memory or postgres", c.RateLimit.Backend))
		}
		if c.RateLimit.MaxRequests < 1 {
			errs = append(errs, "ratelimit.max_requests must be >= 1")
		}
		if c.RateLimit.WindowSecs < 1 {
			errs = append(errs, "ratelimit.window_secs must be >= 1")
		}
		if c.Worker.Concurrency < 1 || c.Worker.Concurrency > 64 {
			errs = append(errs, "worker.concurrency must be between 1 and 64")
		}
		if c.Worker.QueueSize < 1 {
			errs = append(errs, "worker.queue_size must be >= 1")
		}
		req(c.Storage.ResourcesBucket, "storage.resources_bucket")
		req(c.CRM.WebhookURL, "crm.webhook_url")
		if c.Storage.SignedURLTTLSecs < 1 || c.Storage.SignedURLTTLSecs > 7*24*3600 {
			errs = append(errs, "storage.signed_url_ttl_secs must be between 1 and 604800")
		}
		if c.Notion.Token != "" {
			req(c.Notion.LeadDB, "notion.lead_db")
		}
		if c.Salesforce.Enabled {
			req(c.Salesforce.ClientID, "salesforce.client_id")
			req(c.Salesforce.Username, "salesforce.username")
			req(c.Salesforce.KeyPath, "salesforce.key_path")
		}
	case "migrate", "export":
		errs = append(errs, c.storeErrors()...)
	case "redeliver":
		errs = append(errs, c.storeErrors()...)
		errs = append(errs, c.deliveryErrors()...)
	case "preview":
		req(c.Report.BrandName, "report.brand_name")
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(errs) > 0 {
		return eris.New("config: " + strings.Join(errs, "; "))
	}
	return nil
}

func (c *Config) storeErrors() []string {
	switch c.Store.Driver {
	case "postgres", "sqlite":
	default:
		return []string{fmt.Sprintf("store.driver %q must be postgres or sqlite", c.Store.Driver)}
	}
	if strings.TrimSpace(c.Store.DatabaseURL) == "" {
		return []string{"store.database_url is required"}
	}
	return nil
}

func (c *Config) deliveryErrors() []string {
	var errs []string
	for _, f := range []struct{ key, val string }{
		{"storage.endpoint", c.Storage.Endpoint},
		{"storage.reports_bucket", c.Storage.ReportsBucket},
		{"email.api_key", c.Email.APIKey},
		{"email.from", c.Email.From},
		{"report.brand_name", c.Report.BrandName},
	} {
		if strings.TrimSpace(f.val) == "" {
			errs = append(errs, f.key+" is required")
		}
	}
	return errs
}

// Seconds converts a whole-second setting to a duration.
func Seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}

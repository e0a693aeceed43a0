// Package config loads service settings from environment variables.
// Every field has a default; Validate reports all problems at once so a
// misconfigured deployment fails on startup with the full list.
package config

import (
	"net"
	"strconv"
	"time"
)

// Config holds all service configuration.
type Config struct {
	Server   ServerConfig
	Upload   UploadConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
	Pipeline PipelineConfig
	Loader   LoaderConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading the request, body included (default: 60s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"60s"`

	// WriteTimeout is the maximum duration for writing the workbook (default: 60s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"60s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout bounds graceful shutdown, including in-flight runs (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 2m)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"2m"`
}

// UploadConfig bounds uploaded files and concurrent runs.
type UploadConfig struct {
	// MaxFileSize is the maximum size of one uploaded file in bytes (default: 100MB)
	MaxFileSize int64 `env:"UPLOAD_MAX_FILE_SIZE" default:"104857600"`

	// MaxConcurrent is the maximum number of pipeline runs at once (default: 4)
	MaxConcurrent int `env:"UPLOAD_MAX_CONCURRENT" envAlt:"PIPELINE_MAX_CONCURRENT" default:"4"`

	// MaxWaitTime is how long a request waits for a run slot (default: 30s)
	MaxWaitTime time.Duration `env:"UPLOAD_MAX_WAIT_TIME" default:"30s"`
}

// RateLimitConfig holds per-IP rate limiting settings.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the default rate limit per IP (default: 100)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"100"`

	// UploadLimit is requests per minute for the process and preview endpoints (default: 10)
	UploadLimit int `env:"RATE_LIMIT_UPLOAD" default:"10"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// RequireAPIKey turns on X-API-Key checks for /api routes (default: false)
	RequireAPIKey bool `env:"REQUIRE_API_KEY" default:"false"`

	// APIKeys is a comma-separated list of accepted keys
	APIKeys []string `env:"API_KEYS"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// PipelineConfig holds the business rules applied to every run.
type PipelineConfig struct {
	// HorizonDays drops forecast rows promised further out than this (default: 182)
	HorizonDays int `env:"PIPELINE_HORIZON_DAYS" default:"182"`

	// YearCutoff drops rows dated in this year or later (default: 2050)
	YearCutoff int `env:"PIPELINE_YEAR_CUTOFF" default:"2050"`

	// CustomerIDs replaces the built-in customer set when non-empty
	CustomerIDs []string `env:"CUSTOMER_IDS"`

	// CurrencySymbol prefixes amounts in processing messages (default: £)
	CurrencySymbol string `env:"PIPELINE_CURRENCY_SYMBOL" default:"£"`

	// OutputName is the download file name (default: Blended_AR_Results.xlsx)
	OutputName string `env:"PIPELINE_OUTPUT_NAME" default:"Blended_AR_Results.xlsx"`
}

// LoaderConfig holds the header and footer offsets of each export.
type LoaderConfig struct {
	CodateHeaderRow    int `env:"CODATE_HEADER_ROW" default:"0"`
	IVRVHeaderRow      int `env:"IVRV_HEADER_ROW" default:"1"`
	ARInvoiceHeaderRow int `env:"ARINVOICE_HEADER_ROW" default:"1"`
	ARInvoiceSkipFoot  int `env:"ARINVOICE_SKIP_FOOTER" default:"1"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

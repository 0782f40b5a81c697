package config

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

var (
	cfg    *APIConfig
	cfgErr error
	once   sync.Once
)

// APIConfig represents the root element.
type APIConfig struct {
	XMLName        xml.Name             `xml:"API"`
	RequestDump    bool                 `xml:"REQUEST_DUMP,attr"`
	Context        ContextConfig        `xml:"CONTEXT"`
	Authentication AuthenticationConfig `xml:"AUTHENTICATION"`
	BasicAuth      BasicAuthConfig      `xml:"BASIC_AUTH"`
	Pagination     PaginationConfig     `xml:"PAGINATION"`
	DB             DBConfig             `xml:"DB"`
	Logging        LoggingConfig        `xml:"LOGGING"`
	Cache          CacheConfig          `xml:"CACHE"`
	RateLimit      RateLimitConfig      `xml:"RATE_LIMIT"`
}

// ContextConfig holds basic server settings.
type ContextConfig struct {
	Port            int    `xml:"PORT"`
	Host            string `xml:"HOST"`
	Path            string `xml:"PATH"`
	TimeZone        string `xml:"TIME_ZONE"`
	RequestTimeout  int    `xml:"REQUEST_TIMEOUT"`
	ShutdownTimeout int    `xml:"SHUTDOWN_TIMEOUT"`
	EnableBasicAuth bool   `xml:"ENABLE_BASIC_AUTH"`
}

// AuthenticationConfig points at the hosted identity provider.
type AuthenticationConfig struct {
	EnableTokenAuth bool   `xml:"ENABLE_TOKEN_AUTH"`
	ProviderURL     string `xml:"PROVIDER_URL"`
	AnonKey         string `xml:"ANON_KEY"`
	JWTSecret       string `xml:"JWT_SECRET"`
	ProviderTimeout int    `xml:"PROVIDER_TIMEOUT"`
}

// BasicAuthConfig lists operator accounts with bcrypt password hashes.
type BasicAuthConfig struct {
	Users []BasicAuthUser `xml:"USER"`
}

type BasicAuthUser struct {
	Name         string `xml:"NAME,attr"`
	PasswordHash string `xml:",chardata"`
}

// PaginationConfig holds pagination settings.
type PaginationConfig struct {
	PageSize int `xml:"PAGE_SIZE"`
}

// DBConfig holds database connection settings.
type DBConfig struct {
	Initialize bool         `xml:"INITIALIZE"`
	Host       string       `xml:"HOST"`
	Port       int          `xml:"PORT"`
	Driver     string       `xml:"DRIVER"`
	SSLMode    string       `xml:"SSL_MODE"`
	Names      DBNames      `xml:"NAMES"`
	Username   string       `xml:"USERNAME"`
	Password   DBPassword   `xml:"PASSWORD"`
	Pool       DBPoolConfig `xml:"POOL"`
	SlowQuery  int          `xml:"SLOW_QUERY_MS"`
}

// DBNames holds the names defined in the DB section.
type DBNames struct {
	Admin string `xml:"ADMIN,attr"`
}

// DBPassword holds password details.
type DBPassword struct {
	Type  string `xml:"TYPE,attr"`
	Value string `xml:",chardata"`
}

// DBPoolConfig holds database connection pooling settings.
type DBPoolConfig struct {
	MaxOpenConns    int `xml:"MAX_OPEN_CONNS"`
	MaxIdleConns    int `xml:"MAX_IDLE_CONNS"`
	ConnMaxLifetime int `xml:"CONN_MAX_LIFETIME"`
}

type LoggingConfig struct {
	Directory  string `xml:"DIRECTORY"`
	Level      string `xml:"LEVEL"`
	MaxSizeMB  int    `xml:"MAX_SIZE_MB"`
	MaxBackups int    `xml:"MAX_BACKUPS"`
	MaxAgeDays int    `xml:"MAX_AGE_DAYS"`
}

// CacheConfig configures the redis read cache. An empty address disables it.
type CacheConfig struct {
	Addr     string `xml:"ADDR"`
	Password string `xml:"PASSWORD"`
	DB       int    `xml:"DB"`
	TTL      int    `xml:"TTL"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `xml:"REQUESTS_PER_SECOND"`
	Burst             int     `xml:"BURST"`
}

// LoadConfig loads and parses the XML configuration from the given file.
// Values from a .env file or the environment override secrets in the file.
func LoadConfig(xmlPath string) (*APIConfig, error) {
	once.Do(func() {
		f, err := os.Open(xmlPath)
		if err != nil {
			cfgErr = err
			return
		}
		defer f.Close()

		data, err := io.ReadAll(f)
		if err != nil {
			cfgErr = err
			return
		}

		_ = godotenv.Load()
		cfg, cfgErr = ParseConfig(data)
	})

	if cfg == nil {
		if cfgErr == nil {
			cfgErr = os.ErrInvalid
		}
		return nil, cfgErr
	}
	return cfg, nil
}

// ParseConfig decodes an XML document, applies environment overrides and defaults.
func ParseConfig(data []byte) (*APIConfig, error) {
	var newCfg APIConfig
	if err := xml.Unmarshal(data, &newCfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	newCfg.applyEnv()
	newCfg.applyDefaults()
	return &newCfg, nil
}

// GetConfig returns the loaded configuration.
func GetConfig() *APIConfig {
	return cfg
}

func (c *APIConfig) applyEnv() {
	setString(&c.DB.Host, "DB_HOST")
	setString(&c.DB.Password.Value, "DB_PASSWORD")
	setString(&c.Authentication.JWTSecret, "AUTH_JWT_SECRET")
	setString(&c.Authentication.ProviderURL, "AUTH_PROVIDER_URL")
	setString(&c.Authentication.AnonKey, "AUTH_ANON_KEY")
	setString(&c.Cache.Addr, "REDIS_ADDR")
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Context.Port = port
		}
	}
}

func (c *APIConfig) applyDefaults() {
	if c.Context.Port == 0 {
		c.Context.Port = 8080
	}
	if c.Context.Path == "" {
		c.Context.Path = "/api"
	}
	if c.Context.RequestTimeout <= 0 {
		c.Context.RequestTimeout = 15
	}
	if c.Context.ShutdownTimeout <= 0 {
		c.Context.ShutdownTimeout = 10
	}
	if c.Authentication.ProviderTimeout <= 0 {
		c.Authentication.ProviderTimeout = 10
	}
	if c.Pagination.PageSize <= 0 {
		c.Pagination.PageSize = 20
	}
	if c.DB.Port == 0 {
		c.DB.Port = 5432
	}
	if c.DB.SSLMode == "" {
		c.DB.SSLMode = "disable"
	}
	if c.DB.SlowQuery <= 0 {
		c.DB.SlowQuery = 200
	}
	if c.Logging.Directory == "" {
		c.Logging.Directory = "logs"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "INFO"
	}
	if c.Cache.TTL <= 0 {
		c.Cache.TTL = 300
	}
}

// CheckAuth reports configurations that would leave the API unprotected.
func (c *APIConfig) CheckAuth() error {
	if c.Authentication.EnableTokenAuth && strings.TrimSpace(c.Authentication.JWTSecret) == "" {
		return errors.New("token auth is enabled but JWT_SECRET is empty")
	}
	if !c.Authentication.EnableTokenAuth && !c.Context.EnableBasicAuth {
		return errors.New("neither token auth nor basic auth is enabled")
	}
	return nil
}

// TokenSecret is the key used to verify bearer tokens, nil when token auth is off.
func (c *APIConfig) TokenSecret() []byte {
	if !c.Authentication.EnableTokenAuth {
		return nil
	}
	return []byte(c.Authentication.JWTSecret)
}

func (c ContextConfig) RequestTimeoutDuration() time.Duration {
	return time.Duration(c.RequestTimeout) * time.Second
}

func (c ContextConfig) ShutdownTimeoutDuration() time.Duration {
	return time.Duration(c.ShutdownTimeout) * time.Second
}

func (c CacheConfig) TTLDuration() time.Duration {
	return time.Duration(c.TTL) * time.Second
}

// DSN builds the postgres connection string.
func (d DBConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.Username, d.Password.Value, d.Names.Admin, d.SSLMode)
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

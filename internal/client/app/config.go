package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aussiebroadwan/leavedesk/internal/client/countdown"
	"github.com/aussiebroadwan/leavedesk/internal/client/flow"
	"github.com/aussiebroadwan/leavedesk/pkg/authsdk"
	"github.com/aussiebroadwan/leavedesk/pkg/configx"
)

// Storage drivers.
const (
	StorageSQLite = "sqlite"
	StorageRedis  = "redis"
	StorageMemory = "memory"
)

type Config struct {
	APIURL      string        `toml:"api_url" env:"LEAVEDESK_API_URL"`           // default: http://localhost:9090
	HTTPTimeout time.Duration `toml:"http_timeout" env:"LEAVEDESK_HTTP_TIMEOUT"` // default: 10s

	Storage   string        `toml:"storage" env:"LEAVEDESK_STORAGE"`       // sqlite, redis, memory (default: sqlite)
	DBFile    string        `toml:"db_file" env:"LEAVEDESK_DB_FILE"`       // sqlite file (default: <state dir>/leavedesk.db)
	RedisAddr string        `toml:"redis_addr" env:"LEAVEDESK_REDIS_ADDR"` // default: localhost:6379
	TabID     string        `toml:"tab_id" env:"LEAVEDESK_TAB_ID"`         // ULID pinning the storage scope; a new one per run when empty
	TabTTL    time.Duration `toml:"tab_ttl" env:"LEAVEDESK_TAB_TTL"`       // lifetime of an unused scope (default: 12h)

	ResendWindow         int           `toml:"resend_window" env:"LEAVEDESK_RESEND_WINDOW"`                 // seconds (default: 30)
	ChallengeTTL         time.Duration `toml:"challenge_ttl" env:"LEAVEDESK_CHALLENGE_TTL"`                 // default: 5m
	HousekeepingInterval time.Duration `toml:"housekeeping_interval" env:"LEAVEDESK_HOUSEKEEPING_INTERVAL"` // default: 10m

	LoginPath       string `toml:"login_path" env:"LEAVEDESK_LOGIN_PATH"`
	VerifyOTPPath   string `toml:"verify_otp_path" env:"LEAVEDESK_VERIFY_OTP_PATH"`
	ResendOTPPath   string `toml:"resend_otp_path" env:"LEAVEDESK_RESEND_OTP_PATH"`
	SetPasswordPath string `toml:"set_password_path" env:"LEAVEDESK_SET_PASSWORD_PATH"`

	Env       string `toml:"env" env:"ENV"`                     // dev, staging, prod (default: prod)
	LogLevel  string `toml:"log_level" env:"LOG_LEVEL"`         // debug, info, warn, error (default: info)
	LogFormat string `toml:"log_format" env:"LOG_FORMAT"`       // json, text (default: json)
	LogFile   string `toml:"log_file" env:"LEAVEDESK_LOG_FILE"` // default: <state dir>/leavedesk.log
}

func DefaultConfig() Config {
	dir := stateDir()
	endpoints := authsdk.DefaultEndpoints()
	return Config{
		APIURL:               "http://localhost:9090",
		HTTPTimeout:          authsdk.DefaultTimeout,
		Storage:              StorageSQLite,
		DBFile:               filepath.Join(dir, "leavedesk.db"),
		RedisAddr:            "localhost:6379",
		TabTTL:               12 * time.Hour,
		ResendWindow:         countdown.DefaultWindow,
		ChallengeTTL:         flow.DefaultChallengeTTL,
		HousekeepingInterval: 10 * time.Minute,
		LoginPath:            endpoints.Login,
		VerifyOTPPath:        endpoints.VerifyOTP,
		ResendOTPPath:        endpoints.ResendOTP,
		SetPasswordPath:      endpoints.SetPassword,
		Env:                  "prod",
		LogLevel:             "info",
		LogFormat:            "json",
		LogFile:              filepath.Join(dir, "leavedesk.log"),
	}
}

// LoadConfig layers .env, the TOML file named by LEAVEDESK_CONFIG (default
// leavedesk.toml) and the environment over DefaultConfig.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	if err := configx.Load(&cfg, configx.Path("LEAVEDESK_CONFIG", "leavedesk.toml")); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the client cannot run with.
func (c Config) Validate() error {
	switch c.Storage {
	case StorageSQLite, StorageRedis, StorageMemory:
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage)
	}
	if !strings.HasPrefix(c.APIURL, "http://") && !strings.HasPrefix(c.APIURL, "https://") {
		return fmt.Errorf("api url %q must be http or https", c.APIURL)
	}
	if c.HTTPTimeout <= 0 {
		return errors.New("http timeout must be positive")
	}
	if c.ResendWindow < 1 {
		return errors.New("resend window must be at least one second")
	}
	return nil
}

// Endpoints returns the backend paths with overrides applied.
func (c Config) Endpoints() authsdk.Endpoints {
	e := authsdk.DefaultEndpoints()
	for dst, src := range map[*string]string{
		&e.Login:       c.LoginPath,
		&e.VerifyOTP:   c.VerifyOTPPath,
		&e.ResendOTP:   c.ResendOTPPath,
		&e.SetPassword: c.SetPasswordPath,
	} {
		if src != "" {
			*dst = src
		}
	}
	return e
}

func stateDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "leavedesk")
	}
	return "."
}

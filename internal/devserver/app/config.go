package app

import (
	"time"

	"github.com/aussiebroadwan/leavedesk/pkg/configx"
	"github.com/aussiebroadwan/leavedesk/pkg/jwtx"
)

// FixedOTPCode is accepted for every challenge when FixedOTP is set.
const FixedOTPCode = "123456"

type Config struct {
	Issuer     string `toml:"issuer" env:"DEV_ISSUER"`         // token issuer (default: leavedesk-devserver)
	Port       int    `toml:"port" env:"PORT"`                 // HTTP port (default: 9090)
	FixedOTP   bool   `toml:"fixed_otp" env:"DEV_FIXED_OTP"`   // accept 123456 instead of HOTP codes
	UsersFile  string `toml:"users_file" env:"DEV_USERS_FILE"` // TOML fixture; built-in users when empty
	PepperFile string `toml:"pepper_file" env:"PEPPER_FILE"`   // pepper for password hashing; none when empty
	Env        string `toml:"env" env:"ENV"`                   // dev, staging, prod (default: dev)
	LogLevel   string `toml:"log_level" env:"LOG_LEVEL"`       // debug, info, warn, error (default: info)
	LogFormat  string `toml:"log_format" env:"LOG_FORMAT"`     // json, text (default: text)

	ChallengeTTL         time.Duration `toml:"challenge_ttl" env:"CHALLENGE_TTL"`                 // default: 5m
	SessionTTL           time.Duration `toml:"session_ttl" env:"SESSION_TTL"`                     // default: 8h
	HousekeepingInterval time.Duration `toml:"housekeeping_interval" env:"HOUSEKEEPING_INTERVAL"` // default: 1m
	ShutdownGracePeriod  time.Duration `toml:"shutdown_grace_period" env:"SHUTDOWN_GRACE_PERIOD"` // default: 10s
}

func DefaultConfig() Config {
	return Config{
		Issuer:               "leavedesk-devserver",
		Port:                 9090,
		Env:                  "dev",
		LogLevel:             "info",
		LogFormat:            "text",
		ChallengeTTL:         jwtx.DefaultChallengeTTL,
		SessionTTL:           jwtx.DefaultSessionTTL,
		HousekeepingInterval: time.Minute,
		ShutdownGracePeriod:  10 * time.Second,
	}
}

// LoadConfig layers .env, the TOML file named by LEAVEDESK_DEVSERVER_CONFIG
// (default devserver.toml) and the environment over DefaultConfig.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	if err := configx.Load(&cfg, configx.Path("LEAVEDESK_DEVSERVER_CONFIG", "devserver.toml")); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Package config resolves the harness settings from defaults, an optional config file,
// QUIZ_* environment variables and command-line flags, in increasing order of precedence.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	KeyConfig        = "config"
	KeyURL           = "url"
	KeyAuto          = "auto"
	KeyTimeout       = "timeout"
	KeyLogLevel      = "log-level"
	KeyLogFormat     = "log-format"
	KeyAdminUsername = "admin-username"
	KeyAdminPassword = "admin-password"
	KeyDebug         = "debug"
	KeyDebugAll      = "debug-all"
	KeyNoColor       = "no-color"

	EnvPrefix  = "QUIZ"
	DefaultURL = "http://localhost:8080/api"
)

type Config struct {
	URL     string
	Auto    bool
	Timeout time.Duration
	Logger  LoggerConfig
	Admin   AdminConfig
	Debug   bool
	// DebugAll implies Debug.
	DebugAll bool
	NoColor  bool
}

type LoggerConfig struct {
	Level  string
	Format string
}

// AdminConfig holds optional admin credentials. If Username is empty the admin phase asks
// for them interactively, or is skipped when there is no terminal.
type AdminConfig struct {
	Username string
	Password string
}

// Load builds the configuration. Flags may be nil; otherwise every flag in the set is bound to
// the key of the same name.
func Load(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	v.SetDefault(KeyURL, DefaultURL)
	v.SetDefault(KeyTimeout, "0s")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "text")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("cannot bind flags: %w", err)
		}
	}

	if file := v.GetString(KeyConfig); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("cannot read config file %s: %w", file, err)
		}
	}

	timeout, err := time.ParseDuration(v.GetString(KeyTimeout))
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", KeyTimeout, err)
	}
	if timeout < 0 {
		return nil, fmt.Errorf("invalid %s: must not be negative", KeyTimeout)
	}

	cfg := &Config{
		URL:     strings.TrimSuffix(v.GetString(KeyURL), "/"),
		Auto:    v.GetBool(KeyAuto),
		Timeout: timeout,
		Logger: LoggerConfig{
			Level:  v.GetString(KeyLogLevel),
			Format: v.GetString(KeyLogFormat),
		},
		Admin: AdminConfig{
			Username: v.GetString(KeyAdminUsername),
			Password: v.GetString(KeyAdminPassword),
		},
		Debug:    v.GetBool(KeyDebug) || v.GetBool(KeyDebugAll),
		DebugAll: v.GetBool(KeyDebugAll),
		NoColor:  v.GetBool(KeyNoColor),
	}

	u, err := url.Parse(cfg.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid %s %q: must be an absolute http or https URL", KeyURL, cfg.URL)
	}

	return cfg, nil
}

// Package config loads CLI settings from an optional TOML file and MTX_
// environment variables using Viper.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	EnvPrefix  = "MTX"
	configName = "config"
	configType = "toml"
)

type Config struct {
	Auth     AuthConfig     `mapstructure:"auth"`
	API      APIConfig      `mapstructure:"api"`
	Session  SessionConfig  `mapstructure:"session"`
	Secrets  SecretsConfig  `mapstructure:"secrets"`
	Realtime RealtimeConfig `mapstructure:"realtime"`
	Log      LogConfig      `mapstructure:"log"`
}

type AuthConfig struct {
	// Issuer is the Keycloak realm URL, e.g. http://localhost:8080/realms/marketplace.
	Issuer         string        `mapstructure:"issuer"`
	ClientID       string        `mapstructure:"client_id"`
	Scopes         []string      `mapstructure:"scopes"`
	CallbackListen string        `mapstructure:"callback_listen"`
	LoginTimeout   time.Duration `mapstructure:"login_timeout"`
}

type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type SessionConfig struct {
	// Namespace prefixes the secret-store keys holding the credential pair.
	Namespace string `mapstructure:"namespace"`
	// Path is the TOML file holding identity and expiry metadata.
	Path string `mapstructure:"path"`
}

const (
	SecretsBackendAuto = "auto"
	SecretsBackendPass = "pass"
	SecretsBackendFile = "file"
)

type SecretsConfig struct {
	// Backend selects the credential store: auto (pass with file fallback),
	// pass or file.
	Backend string `mapstructure:"backend"`
	Dir     string `mapstructure:"dir"`

	// PassPrefix is the pass(1) folder holding the credentials.
	PassPrefix string `mapstructure:"pass_prefix"`
}

type RealtimeConfig struct {
	MaxReconnects     uint          `mapstructure:"max_reconnects"`
	ReconnectDelay    time.Duration `mapstructure:"reconnect_delay"`
	MaxReconnectDelay time.Duration `mapstructure:"max_reconnect_delay"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Dir is the per-user directory holding config.toml and the default session
// and secret paths.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".marketplace"
	}
	return filepath.Join(home, ".marketplace")
}

// Load reads <Dir>/config.toml when present, then MTX_* environment
// variables. Env vars override the file.
func Load(v *viper.Viper) (Config, error) {
	return LoadFrom(v, Dir())
}

func LoadFrom(v *viper.Viper, dir string) (Config, error) {
	setDefaults(v, dir)

	v.SetConfigName(configName)
	v.SetConfigType(configType)
	v.AddConfigPath(dir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, dir string) {
	v.SetDefault("auth.issuer", "http://localhost:8080/realms/IWA_NextLevel")
	v.SetDefault("auth.client_id", "user-microservice")
	v.SetDefault("auth.scopes", []string{"openid", "profile", "email", "offline_access"})
	v.SetDefault("auth.callback_listen", "127.0.0.1:8765")
	v.SetDefault("auth.login_timeout", 5*time.Minute)
	v.SetDefault("api.base_url", "http://localhost:8080/api")
	v.SetDefault("api.timeout", 15*time.Second)
	v.SetDefault("session.namespace", "marketplace/session")
	v.SetDefault("session.path", filepath.Join(dir, "session.toml"))
	v.SetDefault("secrets.backend", SecretsBackendAuto)
	v.SetDefault("secrets.dir", filepath.Join(dir, "secrets"))
	v.SetDefault("secrets.pass_prefix", "mtx")
	v.SetDefault("realtime.max_reconnects", 5)
	v.SetDefault("realtime.reconnect_delay", time.Second)
	v.SetDefault("realtime.max_reconnect_delay", 30*time.Second)
	v.SetDefault("log.level", "warn")
}

func (c Config) Validate() error {
	if err := validateHTTPURL("auth.issuer", c.Auth.Issuer); err != nil {
		return err
	}
	if err := validateHTTPURL("api.base_url", c.API.BaseURL); err != nil {
		return err
	}
	if strings.TrimSpace(c.Auth.ClientID) == "" {
		return errors.New("config: auth.client_id must be set")
	}
	switch c.Secrets.Backend {
	case SecretsBackendAuto, SecretsBackendPass, SecretsBackendFile:
	default:
		return fmt.Errorf("config: secrets.backend must be auto, pass or file, got %q", c.Secrets.Backend)
	}
	if strings.TrimSpace(c.Session.Namespace) == "" {
		return errors.New("config: session.namespace must be set")
	}

	durations := []struct {
		key   string
		value time.Duration
	}{
		{"auth.login_timeout", c.Auth.LoginTimeout},
		{"api.timeout", c.API.Timeout},
		{"realtime.reconnect_delay", c.Realtime.ReconnectDelay},
		{"realtime.max_reconnect_delay", c.Realtime.MaxReconnectDelay},
	}
	for _, d := range durations {
		if d.value <= 0 {
			return fmt.Errorf("config: %s must be positive, got %s", d.key, d.value)
		}
	}
	return nil
}

func validateHTTPURL(key, raw string) error {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("config: %s: %w", key, err)
	}
	if (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return fmt.Errorf("config: %s must be an http(s) URL with a host, got %q", key, raw)
	}
	return nil
}

// Package config loads client settings from an optional YAML file and
// EMX_-prefixed environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/kingsmao/emx-connector/pkg/logger"
)

const (
	EnvPrefix  = "EMX"
	configName = "emx"

	defaultRESTBaseURL      = "http://api.testnet.emx.com"
	defaultRESTTimeout      = 10 * time.Second
	defaultWSURL            = "wss://api.testnet.emx.com"
	defaultReadTimeout      = 3 * time.Second
	defaultHandshakeTimeout = 10 * time.Second
)

type Config struct {
	API  APIConfig  `mapstructure:"api"`
	REST RESTConfig `mapstructure:"rest"`
	WS   WSConfig   `mapstructure:"ws"`
	Log  LogConfig  `mapstructure:"log"`
}

// APIConfig holds the key pair. Both empty means public routes only.
type APIConfig struct {
	Key    string `mapstructure:"key"    validate:"required_with=Secret"`
	Secret string `mapstructure:"secret" validate:"required_with=Key,omitempty,base64"`
}

type RESTConfig struct {
	BaseURL string        `mapstructure:"base_url" validate:"required,url"`
	Timeout time.Duration `mapstructure:"timeout"  validate:"gt=0"`
	Proxy   string        `mapstructure:"proxy"    validate:"omitempty,url"`
}

type WSConfig struct {
	URL              string        `mapstructure:"url"               validate:"required,url"`
	ReadTimeout      time.Duration `mapstructure:"read_timeout"      validate:"gt=0"`
	HandshakeTimeout time.Duration `mapstructure:"handshake_timeout" validate:"gt=0"`
	Proxy            string        `mapstructure:"proxy"             validate:"omitempty,url"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"       validate:"omitempty,oneof=debug info warn warning error DEBUG INFO WARN WARNING ERROR"`
	ShowCaller bool   `mapstructure:"show_caller"`
	JSON       bool   `mapstructure:"json"`
}

// Default returns the testnet configuration without credentials.
func Default() *Config {
	return &Config{
		REST: RESTConfig{BaseURL: defaultRESTBaseURL, Timeout: defaultRESTTimeout},
		WS: WSConfig{
			URL:              defaultWSURL,
			ReadTimeout:      defaultReadTimeout,
			HandshakeTimeout: defaultHandshakeTimeout,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads path, or emx.yaml from the working directory or $HOME/.emx
// when path is empty, then applies EMX_* overrides such as EMX_API_KEY.
func Load(path string) (*Config, error) {
	vip := viper.New()
	if path != "" {
		vip.SetConfigFile(path)
	} else {
		vip.SetConfigName(configName)
		vip.SetConfigType("yaml")
		vip.AddConfigPath(".")
		vip.AddConfigPath("$HOME/.emx")
	}

	vip.SetEnvPrefix(EnvPrefix)
	vip.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	vip.AutomaticEnv()
	setDefaults(vip)

	if err := vip.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := vip.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// setDefaults registers every key so AutomaticEnv can resolve it.
func setDefaults(vip *viper.Viper) {
	def := Default()
	vip.SetDefault("api.key", "")
	vip.SetDefault("api.secret", "")
	vip.SetDefault("rest.base_url", def.REST.BaseURL)
	vip.SetDefault("rest.timeout", def.REST.Timeout)
	vip.SetDefault("rest.proxy", "")
	vip.SetDefault("ws.url", def.WS.URL)
	vip.SetDefault("ws.read_timeout", def.WS.ReadTimeout)
	vip.SetDefault("ws.handshake_timeout", def.WS.HandshakeTimeout)
	vip.SetDefault("ws.proxy", "")
	vip.SetDefault("log.level", def.Log.Level)
	vip.SetDefault("log.show_caller", false)
	vip.SetDefault("log.json", false)
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// HasCredentials reports whether private routes can be called.
func (c *Config) HasCredentials() bool {
	return c.API.Key != "" && c.API.Secret != ""
}

// Apply configures the global logger.
func (l LogConfig) Apply() {
	if l.Level != "" {
		logger.SetLogLevelFromString(l.Level)
	}
	logger.SetReportCaller(l.ShowCaller)
	logger.SetJSONFormat(l.JSON)
}

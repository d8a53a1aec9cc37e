package sdk

import (
	"fmt"
	"sync"

	"github.com/kingsmao/emx-connector/internal/config"
	"github.com/kingsmao/emx-connector/internal/exchange/emx/futures"
	"github.com/kingsmao/emx-connector/pkg/auth"
	"github.com/kingsmao/emx-connector/pkg/interfaces"
	"github.com/kingsmao/emx-connector/pkg/logger"
)

// Config 客户端配置，字段见 internal/config
type Config = config.Config

// DefaultConfig returns the testnet configuration without credentials.
func DefaultConfig() *Config {
	return config.Default()
}

// LoadConfig reads a YAML file plus EMX_* environment overrides.
func LoadConfig(path string) (*Config, error) {
	return config.Load(path)
}

// SDK provides a high-level interface for exchange operations
type SDK struct {
	cfg      Config
	exchange *futures.FuturesExchange

	closeOnce sync.Once
	closeErr  error
}

// New builds REST and WS clients from cfg. A nil cfg means DefaultConfig().
// The stream is not dialed until WS().Connect is called.
func New(cfg *Config) (*SDK, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	creds := auth.NewCredentials(cfg.API.Key, cfg.API.Secret)
	restOpts := []futures.RESTOption{
		futures.WithBaseURL(cfg.REST.BaseURL),
		futures.WithTimeout(cfg.REST.Timeout),
		futures.WithProxy(cfg.REST.Proxy),
	}
	wsOpts := []futures.WSOption{
		futures.WithWSURL(cfg.WS.URL),
		futures.WithReadTimeout(cfg.WS.ReadTimeout),
		futures.WithHandshakeTimeout(cfg.WS.HandshakeTimeout),
		futures.WithWSProxy(cfg.WS.Proxy),
	}

	if !cfg.HasCredentials() {
		logger.Info("未配置 API Key，仅可访问公共接口")
	}
	logger.Debug("EMX SDK 初始化: rest=%s ws=%s", cfg.REST.BaseURL, cfg.WS.URL)

	return &SDK{
		cfg:      *cfg,
		exchange: futures.NewFuturesExchange(creds, restOpts, wsOpts),
	}, nil
}

// NewFromFile is LoadConfig followed by New.
func NewFromFile(path string) (*SDK, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return New(cfg)
}

func (sdk *SDK) REST() interfaces.RESTClient   { return sdk.exchange.REST() }
func (sdk *SDK) WS() interfaces.WSConnector    { return sdk.exchange.WS() }
func (sdk *SDK) Exchange() interfaces.Exchange { return sdk.exchange }
func (sdk *SDK) HasCredentials() bool          { return sdk.cfg.HasCredentials() }

// Config returns a copy of the configuration in use.
func (sdk *SDK) Config() Config {
	return sdk.cfg
}

// Close closes the stream and idle HTTP connections. Later calls return the first result.
func (sdk *SDK) Close() error {
	sdk.closeOnce.Do(func() {
		sdk.closeErr = sdk.exchange.Close()
		logger.Info("EMX SDK 已关闭")
	})
	return sdk.closeErr
}

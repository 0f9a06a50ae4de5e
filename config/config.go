// Package config centralises runtime configuration for the Kalshi client.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment selects which exchange deployment the client talks to.
type Environment string

const (
	// EnvProduction targets the live exchange.
	EnvProduction Environment = "production"
	// EnvDemo targets the paper-trading deployment.
	EnvDemo Environment = "demo"
)

// Endpoints for the two known deployments.
const (
	ProductionAPIBase = "https://api.elections.kalshi.com/trade-api/v2"
	ProductionWSURL   = "wss://api.elections.kalshi.com/trade-api/ws/2"
	DemoAPIBase       = "https://demo-api.kalshi.co/trade-api/v2"
	DemoWSURL         = "wss://demo-api.kalshi.co/trade-api/ws/2"
)

// APIBase returns the REST base URL for the environment.
func (e Environment) APIBase() string {
	if e == EnvDemo {
		return DemoAPIBase
	}
	return ProductionAPIBase
}

// WebsocketURL returns the streaming endpoint for the environment.
func (e Environment) WebsocketURL() string {
	if e == EnvDemo {
		return DemoWSURL
	}
	return ProductionWSURL
}

// AuthConfig carries API credentials used for authenticated requests.
type AuthConfig struct {
	KeyID          string `yaml:"keyId"`
	PrivateKeyPath string `yaml:"privateKeyPath"`
}

// WebsocketConfig controls streaming connectivity.
type WebsocketConfig struct {
	PingInterval     time.Duration `yaml:"pingInterval"`
	PingTimeout      time.Duration `yaml:"pingTimeout"`
	HandshakeTimeout time.Duration `yaml:"handshakeTimeout"`
	WriteTimeout     time.Duration `yaml:"writeTimeout"`
	BackoffInitial   time.Duration `yaml:"backoffInitial"`
	BackoffMax       time.Duration `yaml:"backoffMax"`
}

// RESTConfig controls the one-shot request transport.
type RESTConfig struct {
	Timeout        time.Duration `yaml:"timeout"`
	RequestsPerSec float64       `yaml:"requestsPerSec"`
	Burst          int           `yaml:"burst"`
}

// TelemetryConfig configures the OpenTelemetry exporters.
type TelemetryConfig struct {
	OTLPEndpoint string `yaml:"otlpEndpoint"`
	ServiceName  string `yaml:"serviceName"`
}

// Config is the client configuration tree loaded from YAML and defaults.
type Config struct {
	Environment Environment     `yaml:"environment"`
	Auth        AuthConfig      `yaml:"auth"`
	Websocket   WebsocketConfig `yaml:"websocket"`
	REST        RESTConfig      `yaml:"rest"`
	Telemetry   TelemetryConfig `yaml:"telemetry"`
}

// Default returns the configuration applied when no file overrides exist.
func Default() Config {
	return Config{
		Environment: EnvProduction,
		Websocket: WebsocketConfig{
			PingInterval:     20 * time.Second,
			PingTimeout:      10 * time.Second,
			HandshakeTimeout: 10 * time.Second,
			WriteTimeout:     5 * time.Second,
			BackoffInitial:   500 * time.Millisecond,
			BackoffMax:       30 * time.Second,
		},
		REST: RESTConfig{
			Timeout:        15 * time.Second,
			RequestsPerSec: 10,
			Burst:          10,
		},
	}
}

// Load reads a YAML configuration document from disk, merging it over the
// defaults. A missing file yields the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()

	path = strings.TrimSpace(path)
	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return Config{}, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(raw, &cfg); err != nil {
				return Config{}, fmt.Errorf("unmarshal config: %w", err)
			}
		}
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	def := Default()
	if c.Environment == "" {
		c.Environment = def.Environment
	}
	if c.Websocket.PingInterval <= 0 {
		c.Websocket.PingInterval = def.Websocket.PingInterval
	}
	if c.Websocket.PingTimeout <= 0 {
		c.Websocket.PingTimeout = def.Websocket.PingTimeout
	}
	if c.Websocket.HandshakeTimeout <= 0 {
		c.Websocket.HandshakeTimeout = def.Websocket.HandshakeTimeout
	}
	if c.Websocket.WriteTimeout <= 0 {
		c.Websocket.WriteTimeout = def.Websocket.WriteTimeout
	}
	if c.Websocket.BackoffInitial <= 0 {
		c.Websocket.BackoffInitial = def.Websocket.BackoffInitial
	}
	if c.Websocket.BackoffMax <= 0 {
		c.Websocket.BackoffMax = def.Websocket.BackoffMax
	}
	if c.REST.Timeout <= 0 {
		c.REST.Timeout = def.REST.Timeout
	}
	if c.REST.RequestsPerSec <= 0 {
		c.REST.RequestsPerSec = def.REST.RequestsPerSec
	}
	if c.REST.Burst <= 0 {
		c.REST.Burst = def.REST.Burst
	}
}

// Validate performs semantic validation on the loaded configuration.
func (c Config) Validate() error {
	switch c.Environment {
	case EnvProduction, EnvDemo:
	default:
		return fmt.Errorf("config: unknown environment %q", c.Environment)
	}
	if c.Websocket.BackoffInitial > c.Websocket.BackoffMax {
		return fmt.Errorf("config: backoffInitial must not exceed backoffMax")
	}
	return nil
}

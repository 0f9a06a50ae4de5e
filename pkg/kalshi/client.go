// Package kalshi is the public entry point of the client: it binds the
// signed REST transport and the streaming feed to one exchange environment.
package kalshi

import (
	"github.com/tradewell/kalshi/config"
	"github.com/tradewell/kalshi/errs"
	"github.com/tradewell/kalshi/internal/auth"
	"github.com/tradewell/kalshi/internal/observability"
	"github.com/tradewell/kalshi/internal/rest"
	"github.com/tradewell/kalshi/pkg/feed"
	"github.com/tradewell/kalshi/pkg/schema"
)

// Signer produces authentication material for one request.
type Signer = auth.Signer

// Logger is the structured logger consumed throughout the client.
type Logger = observability.Logger

// LogField is one structured logging key/value pair.
type LogField = observability.Field

// SetLogger installs the logger used by all client components.
func SetLogger(logger Logger) {
	observability.SetLogger(logger)
}

// Feed streams market data frames; see the feed package for details.
type Feed = feed.Feed

// Message is one typed frame delivered by a Feed.
type Message = schema.Message

// WithMarketTicker scopes a subscription to a single market.
func WithMarketTicker(ticker string) feed.SubscribeOption {
	return feed.WithMarketTicker(ticker)
}

// WithMarketTickers scopes a subscription to a set of markets.
func WithMarketTickers(tickers ...string) feed.SubscribeOption {
	return feed.WithMarketTickers(tickers...)
}

// Client is a Kalshi API client fixed to one environment for its lifetime.
type Client struct {
	cfg    config.Config
	signer Signer
	rest   *rest.Client

	Markets   *MarketsService
	Portfolio *PortfolioService
	Exchange  *ExchangeService
	APIKeys   *APIKeysService
}

type clientOptions struct {
	signer   Signer
	restOpts []rest.Option
}

// Option customises client construction.
type Option func(*clientOptions)

// WithSigner supplies a pre-built request signer instead of loading the
// private key named in the configuration.
func WithSigner(signer Signer) Option {
	return func(o *clientOptions) {
		o.signer = signer
	}
}

// WithPrivateKeyPEM builds the signer from in-memory PEM key material.
func WithPrivateKeyPEM(pemBytes []byte) Option {
	return func(o *clientOptions) {
		key, err := auth.ParsePrivateKey(pemBytes)
		if err != nil {
			return
		}
		signer, err := auth.NewRSASigner(key, nil)
		if err != nil {
			return
		}
		o.signer = signer
	}
}

func withRESTOptions(opts ...rest.Option) Option {
	return func(o *clientOptions) {
		o.restOpts = append(o.restOpts, opts...)
	}
}

// New constructs a client from the configuration tree.
func New(cfg config.Config, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var resolved clientOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&resolved)
		}
	}

	signer := resolved.signer
	if signer == nil {
		if cfg.Auth.PrivateKeyPath == "" {
			return nil, errs.Config("private key path or explicit signer required")
		}
		loaded, err := auth.LoadSigner(cfg.Auth.PrivateKeyPath)
		if err != nil {
			return nil, err
		}
		signer = loaded
	}

	restClient, err := rest.New(cfg.Environment.APIBase(), cfg.Auth.KeyID, signer, cfg.REST, resolved.restOpts...)
	if err != nil {
		return nil, err
	}

	client := &Client{cfg: cfg, signer: signer, rest: restClient}
	client.Markets = &MarketsService{rest: restClient}
	client.Portfolio = &PortfolioService{rest: restClient}
	client.Exchange = &ExchangeService{rest: restClient}
	client.APIKeys = &APIKeysService{rest: restClient}
	return client, nil
}

// Environment returns the deployment this client is fixed to.
func (c *Client) Environment() config.Environment {
	return c.cfg.Environment
}

// Feed constructs a streaming feed against this client's environment. Each
// feed owns its own transport; create one feed per stream.
func (c *Client) Feed(opts ...feed.Option) *feed.Feed {
	return feed.New(c.cfg.Environment.WebsocketURL(), c.cfg.Auth.KeyID, c.signer, c.cfg.Websocket, opts...)
}

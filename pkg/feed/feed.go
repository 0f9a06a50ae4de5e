package feed

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/tradewell/kalshi/config"
	"github.com/tradewell/kalshi/errs"
	"github.com/tradewell/kalshi/internal/auth"
	"github.com/tradewell/kalshi/internal/observability"
	"github.com/tradewell/kalshi/pkg/schema"
)

// connState is the reconnect state machine position. Transitions are driven
// by distinguishable outcomes (connect success, connect failure, read
// failure, cancellation), never by unwinding through a caught panic.
type connState int

const (
	stateConnecting connState = iota
	stateConnected
	stateBackoff
)

// Feed is a streaming client for one venue connection: it reconciles the
// declared subscription set against a transport that can drop at any time
// and delivers an ordered sequence of typed messages. One Feed owns one
// transport handle; create a new Feed to restart a finished stream.
type Feed struct {
	cfg      config.WebsocketConfig
	registry *registry
	handlers *handlerTable
	stats    *sessionStats
	metrics  *feedMetrics
	sup      *supervisor
	clock    func() time.Time
	started  atomic.Bool
}

// Option customises feed construction.
type Option func(*Feed)

// WithDialer overrides the transport dialer. Used by tests.
func WithDialer(dialer Dialer) Option {
	return func(f *Feed) {
		if dialer != nil {
			f.sup.dialer = dialer
		}
	}
}

// WithClock overrides the time source. Used by tests.
func WithClock(clock func() time.Time) Option {
	return func(f *Feed) {
		if clock != nil {
			f.clock = clock
			f.sup.clock = clock
		}
	}
}

// New constructs a feed against the given streaming URL and credentials.
func New(wsURL, keyID string, signer auth.Signer, cfg config.WebsocketConfig, opts ...Option) *Feed {
	feed := &Feed{
		cfg:      cfg,
		registry: newRegistry(),
		handlers: newHandlerTable(),
		stats:    new(sessionStats),
		metrics:  newFeedMetrics(),
		clock:    time.Now,
	}
	feed.sup = &supervisor{
		wsURL:    wsURL,
		keyID:    keyID,
		signer:   signer,
		cfg:      cfg,
		dialer:   wsDialer{cfg: cfg},
		registry: feed.registry,
		stats:    feed.stats,
		clock:    time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(feed)
		}
	}
	return feed
}

// On registers a handler for a channel and returns it so call sites can keep
// the handle. Multiple handlers per channel all run, in registration order.
func (f *Feed) On(channel string, handler Handler) Handler {
	return f.handlers.register(channel, handler)
}

// SubscribeOption narrows a subscription to specific markets.
type SubscribeOption func(*SubscriptionRequest)

// WithMarketTicker subscribes for a single market.
func WithMarketTicker(ticker string) SubscribeOption {
	return func(r *SubscriptionRequest) {
		r.MarketTicker = ticker
	}
}

// WithMarketTickers subscribes for a set of markets.
func WithMarketTickers(tickers ...string) SubscribeOption {
	return func(r *SubscriptionRequest) {
		r.MarketTickers = tickers
	}
}

// Subscribe declares a subscription. The desired list always reflects the
// call; when a connection is live the subscribe command is additionally sent
// right away rather than waiting for the next reconnect.
func (f *Feed) Subscribe(channel string, opts ...SubscribeOption) {
	raw := SubscriptionRequest{Channel: channel}
	for _, opt := range opts {
		if opt != nil {
			opt(&raw)
		}
	}
	req := NewSubscriptionRequest(raw.Channel, raw.MarketTicker, raw.MarketTickers)
	f.registry.Declare(req)

	if f.sup.connected() {
		cmdID, err := f.sup.sendCommand(context.Background(), schema.CmdSubscribe, req.params())
		if err != nil {
			observability.Log().Warn("subscribe send failed; will replay on reconnect",
				observability.F("channel", req.Channel),
				observability.F("error", err),
			)
			return
		}
		f.registry.RecordPending(cmdID, req)
	}
}

// Unsubscribe removes every matching declared subscription. An unsubscribe
// command is sent only when at least one confirmed subscription id matched;
// with nothing confirmed there is nothing to tear down server-side.
func (f *Feed) Unsubscribe(channel string, opts ...SubscribeOption) {
	raw := SubscriptionRequest{Channel: channel}
	for _, opt := range opts {
		if opt != nil {
			opt(&raw)
		}
	}
	req := NewSubscriptionRequest(raw.Channel, raw.MarketTicker, raw.MarketTickers)

	sids := f.registry.Revoke(req)
	if len(sids) == 0 {
		return
	}
	if _, err := f.sup.sendCommand(context.Background(), schema.CmdUnsubscribe, schema.UnsubscribeParams{SIDs: sids}); err != nil {
		observability.Log().Warn("unsubscribe send failed",
			observability.F("channel", req.Channel),
			observability.F("error", err),
		)
	}
}

// Stream starts the feed loop and returns the message sequence. The channel
// closes only when ctx is cancelled; transport failures are absorbed by the
// reconnect cycle. A Feed streams at most once.
func (f *Feed) Stream(ctx context.Context) (<-chan *schema.Message, error) {
	if f.sup.signer == nil {
		return nil, errs.Config("feed requires a request signer")
	}
	if f.sup.keyID == "" {
		return nil, errs.Config("feed requires an access key id")
	}
	if f.sup.wsURL == "" {
		return nil, errs.Config("feed requires a websocket URL")
	}
	if !f.started.CompareAndSwap(false, true) {
		return nil, errs.Config("feed already streaming; create a new Feed to restart")
	}

	out := make(chan *schema.Message)
	go f.run(ctx, out)
	return out, nil
}

func (f *Feed) run(ctx context.Context, out chan<- *schema.Message) {
	defer close(out)
	defer f.sup.disconnect()

	bo := newBackoff(f.cfg.BackoffInitial, f.cfg.BackoffMax)
	state := stateConnecting

	for {
		if ctx.Err() != nil {
			return
		}
		switch state {
		case stateConnecting:
			if err := f.sup.connect(ctx); err != nil {
				if ctx.Err() != nil {
					return
				}
				observability.Log().Warn("feed connect failed",
					observability.F("error", err),
				)
				state = stateBackoff
				continue
			}
			if f.stats.reconnectCount() > 0 {
				f.metrics.recordReconnect(ctx)
			}
			bo.Reset()
			state = stateConnected

		case stateConnected:
			raw, err := f.sup.read(ctx)
			if err != nil {
				f.sup.disconnect()
				if ctx.Err() != nil {
					return
				}
				observability.Log().Warn("feed disconnected",
					observability.F("error", err),
				)
				state = stateBackoff
				continue
			}
			if !f.processFrame(ctx, out, raw) {
				return
			}

		case stateBackoff:
			wait := bo.NextBackOff()
			observability.Log().Info("feed reconnecting",
				observability.F("backoff", wait),
			)
			select {
			case <-ctx.Done():
				return
			case <-time.After(wait):
				state = stateConnecting
			}
		}
	}
}

// processFrame handles one raw frame. Returns false when cancellation was
// observed while yielding, which terminates the stream.
func (f *Feed) processFrame(ctx context.Context, out chan<- *schema.Message, raw []byte) bool {
	receivedAt := f.clock()
	f.stats.recordMessage(receivedAt)
	f.metrics.recordFrame(ctx)

	fr, err := parseFrame(raw, receivedAt)
	if err != nil {
		observability.Log().Debug("skipping malformed frame",
			observability.F("error", err),
		)
		return true
	}

	switch fr.kind {
	case frameAck:
		if !f.registry.Confirm(fr.cmdID, fr.sid) {
			// Stale ack from a superseded connection: expected after a
			// reconnect race, dropped without error.
			observability.Log().Debug("dropping unmatched subscription ack",
				observability.F("cmd_id", fr.cmdID),
				observability.F("sid", fr.sid),
			)
		}
		return true

	case frameError:
		observability.Log().Warn("command rejected by venue",
			observability.F("cmd_id", fr.cmdID),
			observability.F("code", fr.wsErr.Code),
			observability.F("msg", fr.wsErr.Msg),
		)
		return true

	case frameData:
		if fr.msg.ServerTS > 0 {
			f.stats.recordServerTS(fr.msg.ServerTS)
		}
		f.dispatch(ctx, fr.msg)
		f.metrics.recordMessage(ctx, fr.msg.Channel)
		select {
		case out <- fr.msg:
			return true
		case <-ctx.Done():
			return false
		}

	default:
		observability.Log().Debug("skipping unrecognized frame")
		return true
	}
}

// dispatch invokes every handler registered for the message's channel, in
// registration order. Handlers for one message are sequenced, and each
// failure is isolated: logged, counted, and never allowed to halt dispatch.
func (f *Feed) dispatch(ctx context.Context, msg *schema.Message) {
	for _, handler := range f.handlers.lookup(msg.Channel) {
		f.invoke(ctx, handler, msg)
	}
}

func (f *Feed) invoke(ctx context.Context, handler Handler, msg *schema.Message) {
	defer func() {
		if r := recover(); r != nil {
			f.metrics.recordHandlerFailure(ctx, msg.Channel)
			observability.Log().Error("handler panic",
				observability.F("channel", msg.Channel),
				observability.F("panic", fmt.Sprint(r)),
			)
		}
	}()
	if err := handler(ctx, msg); err != nil {
		f.metrics.recordHandlerFailure(ctx, msg.Channel)
		observability.Log().Error("handler error",
			observability.F("channel", msg.Channel),
			observability.F("error", err),
		)
	}
}

// newBackoff builds the reconnect delay schedule: doubling from the initial
// interval to the cap, no jitter, reset only on a successful connect.
func newBackoff(initial, max time.Duration) *backoff.ExponentialBackOff {
	bo := backoff.NewExponentialBackOff()
	if initial > 0 {
		bo.InitialInterval = initial
	}
	if max > 0 {
		bo.MaxInterval = max
	}
	bo.Multiplier = 2
	bo.RandomizationFactor = 0
	bo.Reset()
	return bo
}

// IsConnected reports whether a connection is currently live.
func (f *Feed) IsConnected() bool { return f.stats.isConnected() }

// MessagesReceived is the lifetime count of frames received, including
// control and unrecognized frames.
func (f *Feed) MessagesReceived() uint64 { return f.stats.messageCount() }

// ReconnectCount is the lifetime number of successful reconnections.
func (f *Feed) ReconnectCount() uint64 { return f.stats.reconnectCount() }

// LatencyMillis estimates delivery latency from the last observed server
// timestamp. The second result is false until an estimate exists.
func (f *Feed) LatencyMillis() (int64, bool) { return f.stats.latencyMillis() }

// Uptime is the duration since the current connection was established.
func (f *Feed) Uptime() (time.Duration, bool) { return f.stats.uptime(f.clock()) }

// SinceLastMessage is the time elapsed since any frame arrived.
func (f *Feed) SinceLastMessage() (time.Duration, bool) { return f.stats.sinceLastMessage(f.clock()) }

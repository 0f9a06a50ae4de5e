package feed

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	json "github.com/goccy/go-json"

	"github.com/tradewell/kalshi/config"
	"github.com/tradewell/kalshi/errs"
	"github.com/tradewell/kalshi/internal/auth"
	"github.com/tradewell/kalshi/internal/observability"
	"github.com/tradewell/kalshi/pkg/schema"
)

// Path signed to authenticate the streaming handshake.
const wsSignPath = "/trade-api/ws/2"

var errNotConnected = errors.New("feed: not connected")

// Conn is one established streaming connection.
type Conn interface {
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, payload []byte) error
	Close() error
}

// Dialer opens streaming connections. The production implementation wraps
// coder/websocket; tests substitute fakes.
type Dialer interface {
	Dial(ctx context.Context, url string, header http.Header) (Conn, error)
}

type wsDialer struct {
	cfg config.WebsocketConfig
}

func (d wsDialer) Dial(ctx context.Context, url string, header http.Header) (Conn, error) {
	dialCtx := ctx
	if d.cfg.HandshakeTimeout > 0 {
		var cancel context.CancelFunc
		dialCtx, cancel = context.WithTimeout(ctx, d.cfg.HandshakeTimeout)
		defer cancel()
	}
	conn, _, err := websocket.Dial(dialCtx, url, &websocket.DialOptions{HTTPHeader: header})
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}

	pingCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	wrapped := &wsConn{conn: conn, stopPing: cancel}
	go wrapped.keepalive(pingCtx, d.cfg.PingInterval, d.cfg.PingTimeout)
	return wrapped, nil
}

// wsConn adapts a coder/websocket connection to the Conn interface and owns
// the keepalive pinger.
type wsConn struct {
	conn     *websocket.Conn
	stopPing context.CancelFunc
	closed   sync.Once
}

func (c *wsConn) Read(ctx context.Context) ([]byte, error) {
	for {
		msgType, data, err := c.conn.Read(ctx)
		if err != nil {
			return nil, err
		}
		if msgType != websocket.MessageText {
			continue
		}
		return data, nil
	}
}

func (c *wsConn) Write(ctx context.Context, payload []byte) error {
	return c.conn.Write(ctx, websocket.MessageText, payload)
}

func (c *wsConn) Close() error {
	var err error
	c.closed.Do(func() {
		c.stopPing()
		err = c.conn.Close(websocket.StatusNormalClosure, "shutdown")
	})
	return err
}

// keepalive pings the peer on a fixed interval. A failed or timed-out ping
// closes the connection so the read loop observes the drop.
func (c *wsConn) keepalive(ctx context.Context, interval, timeout time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			pingCtx := ctx
			if timeout > 0 {
				var cancel context.CancelFunc
				pingCtx, cancel = context.WithTimeout(ctx, timeout)
				err := c.conn.Ping(pingCtx)
				cancel()
				if err == nil {
					continue
				}
			} else if err := c.conn.Ping(pingCtx); err == nil {
				continue
			}
			if ctx.Err() == nil {
				_ = c.conn.Close(websocket.StatusGoingAway, "keepalive failed")
			}
			return
		}
	}
}

// supervisor owns the transport handle: connect, disconnect, and command
// writes. Retry policy lives in the feed loop, not here.
type supervisor struct {
	wsURL    string
	keyID    string
	signer   auth.Signer
	cfg      config.WebsocketConfig
	dialer   Dialer
	registry *registry
	stats    *sessionStats
	clock    func() time.Time

	connMu sync.RWMutex
	conn   Conn
}

// connect performs the signed handshake and replays the desired subscription
// list in declaration order. Failures propagate; no internal retry.
func (s *supervisor) connect(ctx context.Context) error {
	header, err := auth.Headers(s.signer, s.keyID, http.MethodGet, wsSignPath)
	if err != nil {
		return err
	}

	conn, err := s.dialer.Dial(ctx, s.wsURL, header)
	if err != nil {
		return errs.New(errs.CodeNetwork, errs.WithMessage("websocket handshake failed"), errs.WithCause(err))
	}

	s.connMu.Lock()
	s.conn = conn
	s.connMu.Unlock()

	s.stats.markConnected(s.clock())
	s.registry.ResetPerConnectionState()

	for _, req := range s.registry.ActiveSnapshot() {
		cmdID, err := s.sendCommand(ctx, schema.CmdSubscribe, req.params())
		if err != nil {
			s.disconnect()
			return fmt.Errorf("replay subscription %s: %w", req.Channel, err)
		}
		s.registry.RecordPending(cmdID, req)
	}

	observability.Log().Info("feed connected",
		observability.F("url", s.wsURL),
		observability.F("subscriptions", len(s.registry.ActiveSnapshot())),
	)
	return nil
}

// disconnect closes the transport handle if present, suppressing close-time
// errors. Safe to call with no active connection.
func (s *supervisor) disconnect() {
	s.connMu.Lock()
	conn := s.conn
	s.conn = nil
	s.connMu.Unlock()

	if conn != nil {
		_ = conn.Close()
	}
	s.stats.markDisconnected()
}

func (s *supervisor) connected() bool {
	s.connMu.RLock()
	defer s.connMu.RUnlock()
	return s.conn != nil
}

func (s *supervisor) read(ctx context.Context) ([]byte, error) {
	s.connMu.RLock()
	conn := s.conn
	s.connMu.RUnlock()
	if conn == nil {
		return nil, errNotConnected
	}
	return conn.Read(ctx)
}

// sendCommand serializes and writes one command envelope. A fresh command id
// is assigned even when disconnected; in that case the write is a no-op and
// the caller must not assume transmission.
func (s *supervisor) sendCommand(ctx context.Context, kind string, params any) (uint64, error) {
	cmdID := s.registry.NextCommandID()

	s.connMu.RLock()
	conn := s.conn
	s.connMu.RUnlock()
	if conn == nil {
		return cmdID, nil
	}

	payload, err := json.Marshal(schema.Command{ID: cmdID, Cmd: kind, Params: params})
	if err != nil {
		return cmdID, fmt.Errorf("marshal %s command: %w", kind, err)
	}

	writeCtx := ctx
	if s.cfg.WriteTimeout > 0 {
		var cancel context.CancelFunc
		writeCtx, cancel = context.WithTimeout(ctx, s.cfg.WriteTimeout)
		defer cancel()
	}
	if err := conn.Write(writeCtx, payload); err != nil {
		return cmdID, fmt.Errorf("write %s command: %w", kind, err)
	}
	return cmdID, nil
}

package schema

import (
	"fmt"
	"time"

	json "github.com/goccy/go-json"
)

// Channels exposed by the streaming endpoint.
const (
	ChannelTicker            = "ticker"
	ChannelTrade             = "trade"
	ChannelOrderbookSnapshot = "orderbook_snapshot"
	ChannelOrderbookDelta    = "orderbook_delta"
	ChannelFill              = "fill"
	ChannelMarketPositions   = "market_positions"
	ChannelMarketLifecycle   = "market_lifecycle"
	ChannelOrderGroupUpdates = "order_group_updates"
)

// KnownChannel reports whether the given envelope type names a data channel.
func KnownChannel(name string) bool {
	switch name {
	case ChannelTicker, ChannelTrade, ChannelOrderbookSnapshot, ChannelOrderbookDelta,
		ChannelFill, ChannelMarketPositions, ChannelMarketLifecycle, ChannelOrderGroupUpdates:
		return true
	default:
		return false
	}
}

// Message is one typed data frame delivered by the feed. Exactly one payload
// pointer is populated, matching Channel; Raw preserves the undecoded body.
type Message struct {
	Channel    string
	SID        int64
	Seq        int64
	ReceivedAt time.Time
	ServerTS   int64

	Ticker            *Ticker
	Trade             *Trade
	OrderbookSnapshot *OrderbookSnapshot
	OrderbookDelta    *OrderbookDelta
	Fill              *Fill
	MarketPosition    *MarketPosition
	MarketLifecycle   *MarketLifecycle
	OrderGroupUpdate  *OrderGroupUpdate

	Raw json.RawMessage
}

// Payload returns the populated typed payload, or nil when the channel body
// could not be decoded.
func (m *Message) Payload() any {
	switch {
	case m == nil:
		return nil
	case m.Ticker != nil:
		return m.Ticker
	case m.Trade != nil:
		return m.Trade
	case m.OrderbookSnapshot != nil:
		return m.OrderbookSnapshot
	case m.OrderbookDelta != nil:
		return m.OrderbookDelta
	case m.Fill != nil:
		return m.Fill
	case m.MarketPosition != nil:
		return m.MarketPosition
	case m.MarketLifecycle != nil:
		return m.MarketLifecycle
	case m.OrderGroupUpdate != nil:
		return m.OrderGroupUpdate
	default:
		return nil
	}
}

// Ticker is a best bid/ask and last-price update for one market.
type Ticker struct {
	MarketTicker string `json:"market_ticker"`
	Price        Cents  `json:"price"`
	YesBid       Cents  `json:"yes_bid"`
	YesAsk       Cents  `json:"yes_ask"`
	Volume       int64  `json:"volume"`
	OpenInterest int64  `json:"open_interest"`
	TS           int64  `json:"ts"`
}

// Trade reports an executed trade on a market.
type Trade struct {
	MarketTicker string `json:"market_ticker"`
	YesPrice     Cents  `json:"yes_price"`
	NoPrice      Cents  `json:"no_price"`
	Count        int64  `json:"count"`
	TakerSide    string `json:"taker_side"`
	TS           int64  `json:"ts"`
}

// PriceLevel is one orderbook level encoded on the wire as a
// [price, contracts] pair.
type PriceLevel struct {
	Price Cents
	Count int64
}

// UnmarshalJSON decodes the two-element wire array.
func (l *PriceLevel) UnmarshalJSON(data []byte) error {
	var pair []int64
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("decode price level: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("decode price level: expected 2 elements, got %d", len(pair))
	}
	l.Price = Cents(pair[0])
	l.Count = pair[1]
	return nil
}

// MarshalJSON encodes the level back into the wire array form.
func (l PriceLevel) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int64{int64(l.Price), l.Count})
}

// OrderbookSnapshot is the full resting book for one market.
type OrderbookSnapshot struct {
	MarketTicker string       `json:"market_ticker"`
	Yes          []PriceLevel `json:"yes"`
	No           []PriceLevel `json:"no"`
	TS           int64        `json:"ts"`
}

// OrderbookDelta is an incremental change to one book level.
type OrderbookDelta struct {
	MarketTicker string `json:"market_ticker"`
	Price        Cents  `json:"price"`
	Delta        int64  `json:"delta"`
	Side         string `json:"side"`
	TS           int64  `json:"ts"`
}

// Fill reports an execution against one of the caller's own orders.
type Fill struct {
	TradeID      string `json:"trade_id"`
	OrderID      string `json:"order_id"`
	MarketTicker string `json:"market_ticker"`
	IsTaker      bool   `json:"is_taker"`
	Side         string `json:"side"`
	Action       string `json:"action"`
	YesPrice     Cents  `json:"yes_price"`
	NoPrice      Cents  `json:"no_price"`
	Count        int64  `json:"count"`
	TS           int64  `json:"ts"`
}

// MarketPosition reports the caller's updated position in one market.
type MarketPosition struct {
	MarketTicker string `json:"market_ticker"`
	Position     int64  `json:"position"`
	PositionCost Cents  `json:"position_cost"`
	RealizedPnl  Cents  `json:"realized_pnl"`
	FeesPaid     Cents  `json:"fees_paid"`
	TS           int64  `json:"ts"`
}

// MarketLifecycle reports a market state transition.
type MarketLifecycle struct {
	MarketTicker    string `json:"market_ticker"`
	OpenTS          int64  `json:"open_ts"`
	CloseTS         int64  `json:"close_ts"`
	DeterminationTS int64  `json:"determination_ts,omitempty"`
	SettledTS       int64  `json:"settled_ts,omitempty"`
	Result          string `json:"result,omitempty"`
	IsDeactivated   bool   `json:"is_deactivated,omitempty"`
	TS              int64  `json:"ts"`
}

// OrderGroupUpdate reports a change to an order group's auto-cancel state.
type OrderGroupUpdate struct {
	OrderGroupID string   `json:"order_group_id"`
	AutoCancel   bool     `json:"auto_cancel"`
	OrderIDs     []string `json:"order_ids,omitempty"`
	TS           int64    `json:"ts"`
}

// DecodeBody decodes a channel payload into its typed form and attaches it to
// the message. Unknown channels leave only Raw populated.
func (m *Message) DecodeBody(body json.RawMessage) error {
	m.Raw = body
	var dst any
	switch m.Channel {
	case ChannelTicker:
		m.Ticker = new(Ticker)
		dst = m.Ticker
	case ChannelTrade:
		m.Trade = new(Trade)
		dst = m.Trade
	case ChannelOrderbookSnapshot:
		m.OrderbookSnapshot = new(OrderbookSnapshot)
		dst = m.OrderbookSnapshot
	case ChannelOrderbookDelta:
		m.OrderbookDelta = new(OrderbookDelta)
		dst = m.OrderbookDelta
	case ChannelFill:
		m.Fill = new(Fill)
		dst = m.Fill
	case ChannelMarketPositions:
		m.MarketPosition = new(MarketPosition)
		dst = m.MarketPosition
	case ChannelMarketLifecycle:
		m.MarketLifecycle = new(MarketLifecycle)
		dst = m.MarketLifecycle
	case ChannelOrderGroupUpdates:
		m.OrderGroupUpdate = new(OrderGroupUpdate)
		dst = m.OrderGroupUpdate
	default:
		return nil
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("decode %s body: %w", m.Channel, err)
	}
	return nil
}

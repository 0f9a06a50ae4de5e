package schema

import "time"

// Market is one binary market listed on the exchange.
type Market struct {
	Ticker         string    `json:"ticker"`
	EventTicker    string    `json:"event_ticker"`
	MarketType     string    `json:"market_type"`
	Title          string    `json:"title"`
	Subtitle       string    `json:"subtitle,omitempty"`
	YesSubTitle    string    `json:"yes_sub_title,omitempty"`
	NoSubTitle     string    `json:"no_sub_title,omitempty"`
	Status         string    `json:"status"`
	YesBid         Cents     `json:"yes_bid"`
	YesAsk         Cents     `json:"yes_ask"`
	NoBid          Cents     `json:"no_bid"`
	NoAsk          Cents     `json:"no_ask"`
	LastPrice      Cents     `json:"last_price"`
	Volume         int64     `json:"volume"`
	Volume24H      int64     `json:"volume_24h"`
	Liquidity      Cents     `json:"liquidity"`
	OpenInterest   int64     `json:"open_interest"`
	NotionalValue  Cents     `json:"notional_value"`
	RiskLimitCents Cents     `json:"risk_limit_cents,omitempty"`
	OpenTime       time.Time `json:"open_time"`
	CloseTime      time.Time `json:"close_time"`
	ExpirationTime time.Time `json:"expiration_time,omitempty"`
	Result         string    `json:"result,omitempty"`
	CanCloseEarly  bool      `json:"can_close_early"`
}

// Event groups the markets that settle on one underlying outcome.
type Event struct {
	EventTicker       string   `json:"event_ticker"`
	SeriesTicker      string   `json:"series_ticker"`
	Title             string   `json:"title"`
	SubTitle          string   `json:"sub_title,omitempty"`
	Category          string   `json:"category,omitempty"`
	MutuallyExclusive bool     `json:"mutually_exclusive"`
	Markets           []Market `json:"markets,omitempty"`
}

// Orderbook is a point-in-time resting book snapshot from the REST API.
type Orderbook struct {
	Yes []PriceLevel `json:"yes"`
	No  []PriceLevel `json:"no"`
}

// PublicTrade is one trade from the public trade tape.
type PublicTrade struct {
	TradeID   string    `json:"trade_id"`
	Ticker    string    `json:"ticker"`
	YesPrice  Cents     `json:"yes_price"`
	NoPrice   Cents     `json:"no_price"`
	Count     int64     `json:"count"`
	TakerSide string    `json:"taker_side"`
	CreatedAt time.Time `json:"created_time"`
}

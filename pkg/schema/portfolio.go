package schema

import "time"

// Action distinguishes order intent.
type Action string

// Order actions.
const (
	ActionBuy  Action = "buy"
	ActionSell Action = "sell"
)

// Side selects the yes or no leg of a market.
type Side string

// Order sides.
const (
	SideYes Side = "yes"
	SideNo  Side = "no"
)

// OrderType selects limit or market execution.
type OrderType string

// Order types.
const (
	OrderTypeLimit  OrderType = "limit"
	OrderTypeMarket OrderType = "market"
)

// Balance is the account's available balance and total portfolio value.
type Balance struct {
	Balance        Cents `json:"balance"`
	PortfolioValue Cents `json:"portfolio_value"`
}

// Position is the caller's holding in one market.
type Position struct {
	Ticker             string `json:"ticker"`
	EventTicker        string `json:"event_ticker,omitempty"`
	Position           int64  `json:"position"`
	MarketExposure     Cents  `json:"market_exposure"`
	RealizedPnl        Cents  `json:"realized_pnl"`
	TotalTradedCents   Cents  `json:"total_traded"`
	RestingOrdersCount int64  `json:"resting_orders_count"`
	FeesPaid           Cents  `json:"fees_paid"`
}

// Order is one order record, resting or terminal.
type Order struct {
	OrderID        string    `json:"order_id"`
	ClientOrderID  string    `json:"client_order_id,omitempty"`
	Ticker         string    `json:"ticker"`
	Action         Action    `json:"action"`
	Side           Side      `json:"side"`
	Type           OrderType `json:"type"`
	YesPrice       Cents     `json:"yes_price"`
	NoPrice        Cents     `json:"no_price"`
	Count          int64     `json:"count"`
	RemainingCount int64     `json:"remaining_count"`
	Status         string    `json:"status"`
	CreatedTime    time.Time `json:"created_time"`
	ExpirationTime time.Time `json:"expiration_time,omitempty"`
}

// OrderRequest is the body of an order placement.
type OrderRequest struct {
	Ticker        string    `json:"ticker"`
	ClientOrderID string    `json:"client_order_id"`
	Action        Action    `json:"action"`
	Side          Side      `json:"side"`
	Type          OrderType `json:"type"`
	Count         int64     `json:"count"`
	YesPrice      Cents     `json:"yes_price,omitempty"`
	NoPrice       Cents     `json:"no_price,omitempty"`
}

// PortfolioFill is one execution against the caller's orders, from the REST
// fills endpoint.
type PortfolioFill struct {
	TradeID     string    `json:"trade_id"`
	OrderID     string    `json:"order_id"`
	Ticker      string    `json:"ticker"`
	Side        Side      `json:"side"`
	Action      Action    `json:"action"`
	YesPrice    Cents     `json:"yes_price"`
	NoPrice     Cents     `json:"no_price"`
	Count       int64     `json:"count"`
	IsTaker     bool      `json:"is_taker"`
	CreatedTime time.Time `json:"created_time"`
}

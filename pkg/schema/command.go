package schema

// Command kinds accepted by the streaming endpoint.
const (
	CmdSubscribe   = "subscribe"
	CmdUnsubscribe = "unsubscribe"
)

// Command is the outbound envelope written to the streaming endpoint.
type Command struct {
	ID     uint64 `json:"id"`
	Cmd    string `json:"cmd"`
	Params any    `json:"params"`
}

// SubscribeParams carries the parameters of a subscribe command. Ticker
// values are upper-cased before transmission.
type SubscribeParams struct {
	Channels      []string `json:"channels"`
	MarketTicker  string   `json:"market_ticker,omitempty"`
	MarketTickers []string `json:"market_tickers,omitempty"`
}

// UnsubscribeParams carries the subscription ids to tear down.
type UnsubscribeParams struct {
	SIDs []int64 `json:"sids"`
}

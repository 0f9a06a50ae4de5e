package schema

import (
	json "github.com/goccy/go-json"
)

// Envelope types that are control traffic rather than channel data.
const (
	TypeSubscribed   = "subscribed"
	TypeUnsubscribed = "unsubscribed"
	TypeError        = "error"
	TypeOK           = "ok"
)

// Envelope is the inbound frame wrapper used by the streaming endpoint. Data
// frames tag the channel in Type and nest the payload under Msg; command
// acknowledgments additionally echo the originating command id.
type Envelope struct {
	Type string          `json:"type"`
	ID   uint64          `json:"id,omitempty"`
	SID  int64           `json:"sid,omitempty"`
	Seq  int64           `json:"seq,omitempty"`
	Msg  json.RawMessage `json:"msg,omitempty"`
}

// AckBody is the body of a subscription acknowledgment.
type AckBody struct {
	Channel string `json:"channel"`
	SID     int64  `json:"sid"`
}

// ErrorBody is the body of a command rejection.
type ErrorBody struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

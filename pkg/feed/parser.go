package feed

import (
	"fmt"
	"time"

	json "github.com/goccy/go-json"

	"github.com/tradewell/kalshi/pkg/schema"
)

type frameKind int

const (
	frameUnknown frameKind = iota
	frameAck
	frameError
	frameData
)

// frame is the tagged result of parsing one raw inbound frame.
type frame struct {
	kind  frameKind
	cmdID uint64
	sid   int64
	wsErr schema.ErrorBody
	msg   *schema.Message
}

// parseFrame classifies a raw text frame as a subscription acknowledgment, a
// command rejection, or a typed data message. Frames of any other shape come
// back as frameUnknown and are skipped by the caller.
func parseFrame(raw []byte, receivedAt time.Time) (frame, error) {
	var env schema.Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return frame{}, fmt.Errorf("decode frame envelope: %w", err)
	}

	switch {
	case env.Type == schema.TypeSubscribed:
		var body schema.AckBody
		if err := json.Unmarshal(env.Msg, &body); err != nil {
			return frame{}, fmt.Errorf("decode subscription ack: %w", err)
		}
		return frame{kind: frameAck, cmdID: env.ID, sid: body.SID}, nil

	case env.Type == schema.TypeError:
		var body schema.ErrorBody
		if err := json.Unmarshal(env.Msg, &body); err != nil {
			return frame{}, fmt.Errorf("decode command error: %w", err)
		}
		return frame{kind: frameError, cmdID: env.ID, wsErr: body}, nil

	case schema.KnownChannel(env.Type):
		msg := &schema.Message{
			Channel:    env.Type,
			SID:        env.SID,
			Seq:        env.Seq,
			ReceivedAt: receivedAt,
		}
		if err := msg.DecodeBody(env.Msg); err != nil {
			return frame{}, err
		}
		msg.ServerTS = serverTimestamp(env.Msg)
		return frame{kind: frameData, sid: env.SID, msg: msg}, nil

	default:
		return frame{kind: frameUnknown}, nil
	}
}

// serverTimestamp pulls the optional server-side timestamp out of a data
// payload. Used only for the latency estimate, never for correctness.
func serverTimestamp(body json.RawMessage) int64 {
	if len(body) == 0 {
		return 0
	}
	var probe struct {
		TS int64 `json:"ts"`
	}
	if err := json.Unmarshal(body, &probe); err != nil {
		return 0
	}
	return probe.TS
}

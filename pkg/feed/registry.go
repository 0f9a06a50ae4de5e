// Package feed implements the streaming market-data client: connection
// lifecycle, subscription reconciliation across reconnects, command/ack
// correlation, and typed message dispatch.
package feed

import (
	"sort"
	"strings"
	"sync"

	"github.com/tradewell/kalshi/pkg/schema"
)

// SubscriptionRequest is the unit of desired subscription state: a channel
// plus optional market filters. Construct via NewSubscriptionRequest so that
// ticker values are normalized; identity is structural equality of the
// normalized fields.
type SubscriptionRequest struct {
	Channel       string
	MarketTicker  string
	MarketTickers []string
}

// NewSubscriptionRequest builds a normalized request: tickers upper-cased,
// the ticker list sorted and deduplicated (set semantics).
func NewSubscriptionRequest(channel, marketTicker string, marketTickers []string) SubscriptionRequest {
	req := SubscriptionRequest{
		Channel:      strings.TrimSpace(channel),
		MarketTicker: strings.ToUpper(strings.TrimSpace(marketTicker)),
	}
	if len(marketTickers) > 0 {
		seen := make(map[string]struct{}, len(marketTickers))
		normalized := make([]string, 0, len(marketTickers))
		for _, ticker := range marketTickers {
			upper := strings.ToUpper(strings.TrimSpace(ticker))
			if upper == "" {
				continue
			}
			if _, dup := seen[upper]; dup {
				continue
			}
			seen[upper] = struct{}{}
			normalized = append(normalized, upper)
		}
		sort.Strings(normalized)
		req.MarketTickers = normalized
	}
	return req
}

// Equal reports structural equality of two normalized requests.
func (r SubscriptionRequest) Equal(other SubscriptionRequest) bool {
	if r.Channel != other.Channel || r.MarketTicker != other.MarketTicker {
		return false
	}
	if len(r.MarketTickers) != len(other.MarketTickers) {
		return false
	}
	for i, ticker := range r.MarketTickers {
		if other.MarketTickers[i] != ticker {
			return false
		}
	}
	return true
}

func (r SubscriptionRequest) params() schema.SubscribeParams {
	return schema.SubscribeParams{
		Channels:      []string{r.Channel},
		MarketTicker:  r.MarketTicker,
		MarketTickers: r.MarketTickers,
	}
}

// registry holds the desired subscription list plus the per-connection
// command and subscription-id correlation state. The active list is the
// single source of truth; pending and confirmed are disposable caches rebuilt
// after every reconnect.
type registry struct {
	mu        sync.Mutex
	active    []SubscriptionRequest
	pending   map[uint64]SubscriptionRequest
	confirmed map[int64]SubscriptionRequest
	lastCmdID uint64
}

func newRegistry() *registry {
	return &registry{
		pending:   make(map[uint64]SubscriptionRequest),
		confirmed: make(map[int64]SubscriptionRequest),
	}
}

// Declare appends the request to the desired subscription list. Duplicates
// are allowed and replayed identically.
func (r *registry) Declare(req SubscriptionRequest) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.active = append(r.active, req)
}

// Revoke removes every matching entry from the desired list and returns the
// confirmed subscription ids that matched, removing those too. An empty
// result means no unsubscribe command is owed.
func (r *registry) Revoke(req SubscriptionRequest) []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.active[:0]
	for _, existing := range r.active {
		if !existing.Equal(req) {
			kept = append(kept, existing)
		}
	}
	r.active = kept

	var sids []int64
	for sid, params := range r.confirmed {
		if params.Equal(req) {
			sids = append(sids, sid)
		}
	}
	for _, sid := range sids {
		delete(r.confirmed, sid)
	}
	sort.Slice(sids, func(i, j int) bool { return sids[i] < sids[j] })
	return sids
}

// NextCommandID returns a fresh command id, strictly increasing from 1 and
// never reused for the lifetime of the feed.
func (r *registry) NextCommandID() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastCmdID++
	return r.lastCmdID
}

// RecordPending remembers which request a sent subscribe command carries.
func (r *registry) RecordPending(cmdID uint64, req SubscriptionRequest) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending[cmdID] = req
}

// Confirm resolves an acknowledgment: the pending entry moves to the
// confirmed map under the server-assigned sid. An unknown command id is a
// stale ack from a superseded connection and is dropped.
func (r *registry) Confirm(cmdID uint64, sid int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.pending[cmdID]
	if !ok {
		return false
	}
	delete(r.pending, cmdID)
	r.confirmed[sid] = req
	return true
}

// ResetPerConnectionState drops all pending and confirmed entries. Called at
// the start of every successful connect, before any command is sent;
// subscription ids are not stable across connections.
func (r *registry) ResetPerConnectionState() {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.pending)
	clear(r.confirmed)
}

// ActiveSnapshot copies the desired subscription list in declaration order.
func (r *registry) ActiveSnapshot() []SubscriptionRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	snapshot := make([]SubscriptionRequest, len(r.active))
	copy(snapshot, r.active)
	return snapshot
}

// ConfirmedRequest looks up the request a sid confirms, if any.
func (r *registry) ConfirmedRequest(sid int64) (SubscriptionRequest, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.confirmed[sid]
	return req, ok
}

func (r *registry) pendingCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}

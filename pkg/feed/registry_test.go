package feed

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewSubscriptionRequestNormalizesTickers(t *testing.T) {
	req := NewSubscriptionRequest("ticker", "kxbtc-26jan", nil)
	require.Equal(t, "KXBTC-26JAN", req.MarketTicker)

	multi := NewSubscriptionRequest("trade", "", []string{"kxeth-26feb", "KXBTC-26JAN", "kxbtc-26jan", ""})
	require.Equal(t, []string{"KXBTC-26JAN", "KXETH-26FEB"}, multi.MarketTickers)
}

func TestSubscriptionRequestEqualSetSemantics(t *testing.T) {
	a := NewSubscriptionRequest("trade", "", []string{"b", "a"})
	b := NewSubscriptionRequest("trade", "", []string{"A", "B"})
	require.True(t, a.Equal(b))

	c := NewSubscriptionRequest("trade", "", []string{"a"})
	require.False(t, a.Equal(c))

	d := NewSubscriptionRequest("ticker", "", []string{"a", "b"})
	require.False(t, a.Equal(d))
}

func TestCommandIDsStrictlyIncreaseFromOne(t *testing.T) {
	r := newRegistry()
	for want := uint64(1); want <= 100; want++ {
		require.Equal(t, want, r.NextCommandID())
	}
	// Ids survive a per-connection reset; they are never reused.
	r.ResetPerConnectionState()
	require.Equal(t, uint64(101), r.NextCommandID())
}

func TestConfirmMovesPendingToConfirmed(t *testing.T) {
	r := newRegistry()
	req := NewSubscriptionRequest("ticker", "kxbtc-26jan", nil)
	r.Declare(req)

	cmdID := r.NextCommandID()
	r.RecordPending(cmdID, req)

	require.True(t, r.Confirm(cmdID, 7))
	require.Zero(t, r.pendingCount())

	confirmed, ok := r.ConfirmedRequest(7)
	require.True(t, ok)
	require.True(t, req.Equal(confirmed))
}

func TestConfirmUnknownCommandIsDropped(t *testing.T) {
	r := newRegistry()
	require.False(t, r.Confirm(42, 9))
	_, ok := r.ConfirmedRequest(9)
	require.False(t, ok)
}

func TestRevokeWithoutConfirmationSendsNothing(t *testing.T) {
	r := newRegistry()
	req := NewSubscriptionRequest("ticker", "kxbtc-26jan", nil)
	r.Declare(req)

	sids := r.Revoke(req)
	require.Empty(t, sids)
	require.Empty(t, r.ActiveSnapshot())
}

func TestRevokeCollectsAllMatchingSids(t *testing.T) {
	r := newRegistry()
	req := NewSubscriptionRequest("ticker", "kxbtc-26jan", nil)

	// Duplicate declares are allowed; both confirm under distinct sids.
	r.Declare(req)
	r.Declare(req)
	first := r.NextCommandID()
	r.RecordPending(first, req)
	second := r.NextCommandID()
	r.RecordPending(second, req)
	require.True(t, r.Confirm(first, 5))
	require.True(t, r.Confirm(second, 3))

	other := NewSubscriptionRequest("trade", "", nil)
	r.Declare(other)

	sids := r.Revoke(req)
	require.Equal(t, []int64{3, 5}, sids)

	remaining := r.ActiveSnapshot()
	require.Len(t, remaining, 1)
	require.True(t, other.Equal(remaining[0]))

	_, ok := r.ConfirmedRequest(5)
	require.False(t, ok)
}

func TestResetClearsDerivedStateOnly(t *testing.T) {
	r := newRegistry()
	req := NewSubscriptionRequest("fill", "", nil)
	r.Declare(req)
	cmdID := r.NextCommandID()
	r.RecordPending(cmdID, req)
	require.True(t, r.Confirm(cmdID, 11))

	r.ResetPerConnectionState()

	require.Zero(t, r.pendingCount())
	_, ok := r.ConfirmedRequest(11)
	require.False(t, ok)
	// The desired list is the source of truth and survives.
	require.Len(t, r.ActiveSnapshot(), 1)
}

func TestActiveSnapshotPreservesDeclarationOrder(t *testing.T) {
	r := newRegistry()
	first := NewSubscriptionRequest("ticker", "a", nil)
	second := NewSubscriptionRequest("trade", "b", nil)
	third := NewSubscriptionRequest("fill", "", nil)
	r.Declare(first)
	r.Declare(second)
	r.Declare(third)

	snapshot := r.ActiveSnapshot()
	require.Len(t, snapshot, 3)
	require.True(t, first.Equal(snapshot[0]))
	require.True(t, second.Equal(snapshot[1]))
	require.True(t, third.Equal(snapshot[2]))
}

package feed

import (
	"sync"
	"time"
)

// sessionStats tracks per-connection and lifetime counters. Message and
// reconnect counts span the feed's lifetime; connected-at resets on every
// connect.
type sessionStats struct {
	mu            sync.RWMutex
	connected     bool
	everConnected bool
	connectedAt   time.Time
	lastMessage   time.Time
	lastServerTS  int64
	messages      uint64
	reconnects    uint64
}

func (s *sessionStats) markConnected(at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.everConnected {
		s.reconnects++
	}
	s.everConnected = true
	s.connected = true
	s.connectedAt = at
}

func (s *sessionStats) markDisconnected() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connected = false
}

func (s *sessionStats) recordMessage(at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastMessage = at
	s.messages++
}

func (s *sessionStats) recordServerTS(ts int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastServerTS = ts
}

func (s *sessionStats) isConnected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.connected
}

func (s *sessionStats) messageCount() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.messages
}

func (s *sessionStats) reconnectCount() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reconnects
}

// latencyMillis estimates delivery latency as local receive time minus the
// last observed server timestamp, both in milliseconds. Unknown until both
// values have been seen.
func (s *sessionStats) latencyMillis() (int64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.lastServerTS == 0 || s.lastMessage.IsZero() {
		return 0, false
	}
	return s.lastMessage.UnixMilli() - s.lastServerTS, true
}

func (s *sessionStats) uptime(now time.Time) (time.Duration, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.connected || s.connectedAt.IsZero() {
		return 0, false
	}
	return now.Sub(s.connectedAt), true
}

func (s *sessionStats) sinceLastMessage(now time.Time) (time.Duration, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.lastMessage.IsZero() {
		return 0, false
	}
	return now.Sub(s.lastMessage), true
}

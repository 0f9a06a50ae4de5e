package feed

import (
	"context"
	"sync"

	"github.com/tradewell/kalshi/pkg/schema"
)

// Handler consumes one delivered message. Handlers for a single message run
// sequentially in registration order; a handler that needs to wait should
// honour ctx. Errors and panics are logged and never halt dispatch.
type Handler func(ctx context.Context, msg *schema.Message) error

// handlerTable maps channel name to an ordered handler list. Append-only;
// read on every dispatched message.
type handlerTable struct {
	mu        sync.RWMutex
	byChannel map[string][]Handler
}

func newHandlerTable() *handlerTable {
	return &handlerTable{byChannel: make(map[string][]Handler)}
}

func (t *handlerTable) register(channel string, handler Handler) Handler {
	if handler == nil {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.byChannel[channel] = append(t.byChannel[channel], handler)
	return handler
}

func (t *handlerTable) lookup(channel string) []Handler {
	t.mu.RLock()
	defer t.mu.RUnlock()
	handlers := t.byChannel[channel]
	if len(handlers) == 0 {
		return nil
	}
	snapshot := make([]Handler, len(handlers))
	copy(snapshot, handlers)
	return snapshot
}

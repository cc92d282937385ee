// Package bus provides the synchronous in-process publish/subscribe table
// that lets UI-adjacent listeners react to panel mutations. Each panel owns
// its own Bus; there is no process-wide registry, so sessions sharing a
// process never cross-contaminate listeners.
package bus

import (
	"context"
	"sync"

	"github.com/guidepost/panel/pkg/logger"
	"github.com/guidepost/panel/pkg/metrics"
)

// Listener receives the payload of an emitted event.
type Listener func(ctx context.Context, payload map[string]any)

// Bus fans events out synchronously and best-effort: a panicking listener is
// recovered and logged, and never blocks other listeners or the mutation
// that triggered the emission.
type Bus struct {
	mu        sync.RWMutex
	listeners map[string][]Listener
	logger    logger.Logger
}

// Option applies a configuration option to the Bus.
type Option func(*Bus)

// WithLogger sets a custom logger for the bus.
func WithLogger(l logger.Logger) Option {
	return func(b *Bus) {
		if l != nil {
			b.logger = l
		}
	}
}

// New creates an empty bus.
func New(opts ...Option) *Bus {
	b := &Bus{
		listeners: make(map[string][]Listener),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe registers fn for eventType. Listeners run in registration order.
func (b *Bus) Subscribe(eventType string, fn Listener) {
	if fn == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners[eventType] = append(b.listeners[eventType], fn)
}

// Emit delivers payload to every listener of eventType, in order.
func (b *Bus) Emit(ctx context.Context, eventType string, payload map[string]any) {
	b.mu.RLock()
	fns := append([]Listener(nil), b.listeners[eventType]...)
	b.mu.RUnlock()

	for _, fn := range fns {
		b.dispatch(ctx, eventType, fn, payload)
	}
	metrics.RecordBusEmit()
}

func (b *Bus) dispatch(ctx context.Context, eventType string, fn Listener, payload map[string]any) {
	defer func() {
		if r := recover(); r != nil {
			metrics.RecordListenerError()
			if b.logger != nil {
				b.logger.Error(ctx, "event listener panicked",
					logger.String("event", eventType),
					logger.Any("panic", r),
				)
			}
		}
	}()
	fn(ctx, payload)
}

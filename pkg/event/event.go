// Package event is a small in-process event dispatcher.
package event

import (
	"context"
	"sync"

	"github.com/shashiranjanraj/kasir/pkg/logger"
)

// Event names fired by the application.
const (
	OrderCreated   = "order.created"
	LoginSucceeded = "auth.login.succeeded"
	LoginFailed    = "auth.login.failed"
)

// Handler receives an event payload.
type Handler func(ctx context.Context, payload interface{})

// Dispatcher routes fired events to their listeners.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

func New() *Dispatcher {
	return &Dispatcher{handlers: map[string][]Handler{}}
}

// Listen registers a handler for the given event name.
func (d *Dispatcher) Listen(event string, handler Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[event] = append(d.handlers[event], handler)
}

// Fire calls every listener synchronously, in registration order. A
// panicking listener is logged and does not stop the others.
func (d *Dispatcher) Fire(ctx context.Context, event string, payload interface{}) {
	for _, h := range d.listeners(event) {
		d.call(ctx, event, h, payload)
	}
}

// FireAsync runs each listener in its own goroutine and returns at once.
// The listeners get a context that is not cancelled with ctx.
func (d *Dispatcher) FireAsync(ctx context.Context, event string, payload interface{}) {
	detached := context.WithoutCancel(ctx)
	for _, h := range d.listeners(event) {
		go d.call(detached, event, h, payload)
	}
}

func (d *Dispatcher) listeners(event string) []Handler {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]Handler(nil), d.handlers[event]...)
}

func (d *Dispatcher) call(ctx context.Context, event string, h Handler, payload interface{}) {
	defer func() {
		if r := recover(); r != nil {
			logger.WithCtx(ctx).Error("event: listener panicked", "event", event, "panic", r)
		}
	}()
	h(ctx, payload)
}

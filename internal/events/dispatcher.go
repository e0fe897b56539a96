package events

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/DamianKursa/hvyt-ecom-sub000/internal/checkout"
)

// Handler consumes order placed events. Handlers run independently of each
// other and of the request that placed the order.
type Handler interface {
	Name() string
	Handle(ctx context.Context, event checkout.OrderPlaced) error
}

// Dispatcher fans events out to handlers in the background.
type Dispatcher struct {
	handlers []Handler
	timeout  time.Duration
	wg       sync.WaitGroup
}

// NewDispatcher creates a dispatcher that gives each handler at most
// timeout per event.
func NewDispatcher(timeout time.Duration, handlers ...Handler) *Dispatcher {
	return &Dispatcher{handlers: handlers, timeout: timeout}
}

// Dispatch starts every handler for event and returns immediately. A failing
// or panicking handler is logged and affects nothing else.
func (d *Dispatcher) Dispatch(ctx context.Context, event checkout.OrderPlaced) {
	base := context.WithoutCancel(ctx)
	for _, h := range d.handlers {
		d.wg.Add(1)
		go d.run(base, h, event)
	}
}

func (d *Dispatcher) run(ctx context.Context, h Handler, event checkout.OrderPlaced) {
	defer d.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Interface("panic", r).
				Str("handler", h.Name()).
				Str("event_id", event.EventID).
				Msg("Order event handler panicked")
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	start := time.Now()
	if err := h.Handle(ctx, event); err != nil {
		log.Warn().
			Err(err).
			Str("handler", h.Name()).
			Str("event_id", event.EventID).
			Int("order_id", event.Order.ID).
			Msg("Order event handler failed")
		return
	}
	log.Debug().
		Str("handler", h.Name()).
		Int("order_id", event.Order.ID).
		Dur("latency", time.Since(start)).
		Msg("Order event handled")
}

// Wait blocks until in-flight handlers finish or ctx is done.
func (d *Dispatcher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

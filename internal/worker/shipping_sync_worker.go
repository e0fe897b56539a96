package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// ShippingRefresher reloads the cached shipping methods.
type ShippingRefresher interface {
	Refresh(ctx context.Context) (int, error)
}

// ShippingSyncWorker periodically refreshes shipping zones from the backend
// so checkout never waits on a cold zone listing.
type ShippingSyncWorker struct {
	shipping ShippingRefresher
	interval time.Duration
}

// NewShippingSyncWorker constructs a ShippingSyncWorker.
func NewShippingSyncWorker(shipping ShippingRefresher, interval time.Duration) *ShippingSyncWorker {
	return &ShippingSyncWorker{
		shipping: shipping,
		interval: interval,
	}
}

// Start begins the periodic sync loop and listens for context cancellation.
func (w *ShippingSyncWorker) Start(ctx context.Context) {
	log.Info().Dur("interval", w.interval).Msg("Starting shipping sync worker")

	// Run immediately on start
	w.run(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.run(ctx)
		case <-ctx.Done():
			log.Info().Msg("Shipping sync worker stopped")
			return
		}
	}
}

func (w *ShippingSyncWorker) run(ctx context.Context) {
	start := time.Now()
	n, err := w.shipping.Refresh(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to refresh shipping methods")
		return
	}
	log.Info().Int("methods", n).Dur("duration", time.Since(start)).Msg("Shipping methods refreshed")
}

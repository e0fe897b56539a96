package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// StaleCartDeleter removes server-side carts untouched since a cutoff.
type StaleCartDeleter interface {
	DeleteStale(ctx context.Context, before time.Time) (int64, error)
}

// CartPurgeWorker drops abandoned server-side carts.
type CartPurgeWorker struct {
	carts     StaleCartDeleter
	interval  time.Duration
	retention time.Duration
	now       func() time.Time
}

// NewCartPurgeWorker constructs a CartPurgeWorker.
func NewCartPurgeWorker(carts StaleCartDeleter, interval, retention time.Duration) *CartPurgeWorker {
	return &CartPurgeWorker{
		carts:     carts,
		interval:  interval,
		retention: retention,
		now:       time.Now,
	}
}

// Start begins the periodic purge loop until context is canceled.
func (w *CartPurgeWorker) Start(ctx context.Context) {
	log.Info().Dur("interval", w.interval).Dur("retention", w.retention).Msg("Starting cart purge worker")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.run(ctx)
		case <-ctx.Done():
			log.Info().Msg("Cart purge worker stopped")
			return
		}
	}
}

func (w *CartPurgeWorker) run(ctx context.Context) {
	n, err := w.carts.DeleteStale(ctx, w.now().Add(-w.retention))
	if err != nil {
		log.Error().Err(err).Msg("Failed to purge stale carts")
		return
	}
	if n > 0 {
		log.Info().Int64("deleted", n).Msg("Purged stale carts")
	}
}

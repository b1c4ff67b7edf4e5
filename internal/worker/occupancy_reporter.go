package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/yourorg/hotdesk/internal/domain"
	"github.com/yourorg/hotdesk/internal/observability/metrics"
)

// OccupancyReporter periodically logs the visitor count and keeps the
// Prometheus gauge in sync with the store, so the gauge stays correct even
// across scrape gaps or a restarted metrics registry.
type OccupancyReporter struct {
	store    domain.OccupancyStore
	logger   *slog.Logger
	interval time.Duration
}

// NewOccupancyReporter creates a new occupancy reporter
func NewOccupancyReporter(store domain.OccupancyStore, logger *slog.Logger, interval time.Duration) *OccupancyReporter {
	if logger == nil {
		logger = slog.Default()
	}

	return &OccupancyReporter{
		store:    store,
		logger:   logger,
		interval: interval,
	}
}

// Start begins the reporter loop. It runs until the context is cancelled.
func (w *OccupancyReporter) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("occupancy reporter started", slog.Duration("interval", w.interval))

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("occupancy reporter stopped")
			return
		case <-ticker.C:
			w.report()
		}
	}
}

func (w *OccupancyReporter) report() {
	visitors := w.store.Visitors()
	metrics.SetVisitors(visitors)
	w.logger.Info("occupancy snapshot", slog.Int("visitors", visitors))
}

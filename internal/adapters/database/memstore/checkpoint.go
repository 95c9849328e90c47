package memstore

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/openbooks-app/openbooks_backend/internal/apperrors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	checkpointsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "openbooks_checkpoints_total",
		Help: "Checkpoint attempts by outcome.",
	}, []string{"status"})

	checkpointDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "openbooks_checkpoint_duration_seconds",
		Help:    "Time spent serializing and writing the store image.",
		Buckets: prometheus.DefBuckets,
	})
)

// Checkpointer makes the store durable by overwriting the backing file with
// a serialization of the full in-memory image. All triggers (interval timer,
// post-mutation call, on-demand endpoint, shutdown) funnel through
// Checkpoint, which single-flights them behind one mutex.
type Checkpointer struct {
	store  *Store
	logger *slog.Logger

	mu sync.Mutex
}

// NewCheckpointer creates a checkpointer for the given store.
func NewCheckpointer(store *Store, logger *slog.Logger) *Checkpointer {
	return &Checkpointer{store: store, logger: logger}
}

// Checkpoint serializes the image and atomically replaces the backing file
// (write to a temp file in the same directory, then rename). A failure
// leaves both the in-memory state and the previous backing file intact and
// is reported to the caller; the next trigger retries.
func (c *Checkpointer) Checkpoint(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	start := time.Now()
	err := c.writeSnapshot()
	checkpointDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		checkpointsTotal.WithLabelValues("failure").Inc()
		c.logger.Error("Checkpoint failed", slog.String("path", c.store.Path()), slog.String("error", err.Error()))
		return fmt.Errorf("%w: %v", apperrors.ErrPersistence, err)
	}

	checkpointsTotal.WithLabelValues("success").Inc()
	c.logger.Debug("Checkpoint written", slog.String("path", c.store.Path()), slog.Duration("took", time.Since(start)))
	return nil
}

func (c *Checkpointer) writeSnapshot() error {
	data, err := c.store.serialize()
	if err != nil {
		return fmt.Errorf("failed to serialize store image: %v", err)
	}

	dir := filepath.Dir(c.store.Path())
	tmp, err := os.CreateTemp(dir, filepath.Base(c.store.Path())+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp snapshot file: %v", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write snapshot: %v", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to sync snapshot: %v", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close snapshot: %v", err)
	}

	if err := os.Rename(tmpName, c.store.Path()); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace backing file: %v", err)
	}
	return nil
}

// Run checkpoints on a fixed interval until ctx is cancelled. Timer failures
// are logged and retried on the next tick rather than stopping the loop.
func (c *Checkpointer) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.Checkpoint(ctx); err != nil {
				c.logger.Warn("Periodic checkpoint failed, will retry next tick", slog.String("error", err.Error()))
			}
		}
	}
}

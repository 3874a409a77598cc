package queue

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/socialpulse/analytics-api/internal/api/metrics"
	"github.com/socialpulse/analytics-api/internal/core/ports"
)

const (
	defaultWorkers = 8
	channelBuffer  = 256
)

// Dispatcher routes scraped snapshots to a fixed set of workers using
// consistent hashing on the account handle, guaranteeing per-account
// processing order.
type Dispatcher struct {
	workers []chan ports.MetricSnapshotInput
	service ports.IngestService
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.IngestService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.MetricSnapshotInput, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.MetricSnapshotInput, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue sends a snapshot to the worker responsible for its handle.
// The call is non-blocking up to channelBuffer capacity.
func (d *Dispatcher) Enqueue(snapshot ports.MetricSnapshotInput) {
	idx := d.shardIndex(snapshot.Handle)
	d.workers[idx] <- snapshot
	metrics.SnapshotQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
}

// EnqueueBatch enqueues multiple snapshots preserving per-account ordering.
func (d *Dispatcher) EnqueueBatch(snapshots []ports.MetricSnapshotInput) {
	for _, s := range snapshots {
		d.Enqueue(s)
	}
}

// shardIndex maps a handle deterministically to a worker index.
func (d *Dispatcher) shardIndex(handle string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(handle))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.MetricSnapshotInput) {
	workerID := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case snapshot, ok := <-ch:
			if !ok {
				return
			}
			metrics.SnapshotQueueDepth.WithLabelValues(workerID).Set(float64(len(ch)))
			if err := d.service.Process(ctx, snapshot); err != nil {
				d.log.Error().Err(err).
					Str("handle", snapshot.Handle).
					Int("worker_id", id).
					Msg("snapshot processing failed")
			}
		}
	}
}

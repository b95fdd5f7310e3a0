package queue

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/medipresence/hospital-system/internal/api/metrics"
	"github.com/medipresence/hospital-system/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher routes audit entries to a fixed set of workers using
// consistent hashing on the actor's user ID, so one user's audit trail is
// written in the order it was produced. Enqueue never blocks the request
// path up to channelBuffer capacity.
type Dispatcher struct {
	workers []chan ports.AuditEntryInput
	service ports.AuditService
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.AuditService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.AuditEntryInput, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.AuditEntryInput, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue sends an entry to the worker responsible for its user ID.
// When the worker's buffer is full the entry is dropped with a log line:
// audit writes must never stall a request.
func (d *Dispatcher) Enqueue(entry ports.AuditEntryInput) {
	ch := d.workers[d.shardIndex(entry.UserID)]
	select {
	case ch <- entry:
	default:
		d.log.Warn().Str("user_id", entry.UserID).Str("action", entry.Action).Msg("audit queue full, entry dropped")
		metrics.AuditErrorsTotal.WithLabelValues("queue_full").Inc()
	}
}

// shardIndex maps a user ID deterministically to a worker index.
func (d *Dispatcher) shardIndex(userID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(userID))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.AuditEntryInput) {
	workerID := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case entry, ok := <-ch:
			if !ok {
				return
			}
			metrics.AuditQueueDepth.WithLabelValues(workerID).Set(float64(len(ch)))
			if err := d.service.Record(ctx, entry); err != nil {
				d.log.Error().Err(err).
					Str("user_id", entry.UserID).
					Str("action", entry.Action).
					Int("worker_id", id).
					Msg("audit write failed")
				metrics.AuditErrorsTotal.WithLabelValues("write_failed").Inc()
				continue
			}
			metrics.AuditEntriesTotal.WithLabelValues(entry.Action).Inc()
		}
	}
}

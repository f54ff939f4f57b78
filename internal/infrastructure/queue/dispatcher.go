package queue

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/readquest/library-system/internal/core/domain"
	"github.com/readquest/library-system/internal/core/ports"
	"github.com/readquest/library-system/internal/metrics"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher writes xp audit events to the ledger asynchronously. Events are
// routed to a fixed set of workers by hashing the user id, so one user's
// events land in order.
type Dispatcher struct {
	workers []chan domain.XPEvent
	ledger  ports.LedgerRepository
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, ledger ports.LedgerRepository, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.XPEvent, numWorkers),
		ledger:  ledger,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.XPEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Record enqueues an event on the worker responsible for its user. The call
// is non-blocking up to channelBuffer capacity.
func (d *Dispatcher) Record(event domain.XPEvent) {
	idx := d.shardIndex(event.UserID)
	d.workers[idx] <- event
	metrics.LedgerQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
}

// shardIndex maps a user id deterministically to a worker index.
func (d *Dispatcher) shardIndex(userID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(userID))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.XPEvent) {
	workerID := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			if err := d.ledger.Insert(ctx, &event); err != nil {
				// Audit only: progression state is already durable.
				metrics.LedgerWriteErrorsTotal.Inc()
				d.log.Warn().Err(err).
					Str("user_id", event.UserID).
					Int("worker_id", id).
					Msg("xp ledger insert failed")
			}
			metrics.LedgerQueueDepth.WithLabelValues(workerID).Set(float64(len(ch)))
		}
	}
}

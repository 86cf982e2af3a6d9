package queue

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/civicvoice/platform/internal/api/metrics"
	"github.com/civicvoice/platform/internal/core/ports"
)

const (
	defaultWorkers = 8
	channelBuffer  = 256
)

// Dispatcher routes campaign deliveries to a fixed set of workers using
// consistent hashing on the recipient address, guaranteeing per-recipient
// delivery ordering across campaigns.
type Dispatcher struct {
	workers []chan ports.CampaignDelivery
	service ports.DeliveryService
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.DeliveryService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.CampaignDelivery, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.CampaignDelivery, channelBuffer)
	}
	return d
}

// SetService wires the delivery consumer after construction. The newsletter
// service both produces jobs and consumes them, so one side has to be
// attached late.
func (d *Dispatcher) SetService(service ports.DeliveryService) {
	d.service = service
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue sends a delivery to the worker responsible for its recipient.
// The call is non-blocking up to channelBuffer capacity.
func (d *Dispatcher) Enqueue(job ports.CampaignDelivery) {
	i := d.shardIndex(job.Email)
	d.workers[i] <- job
	metrics.DeliveryQueueDepth.WithLabelValues(strconv.Itoa(i)).Set(float64(len(d.workers[i])))
}

// EnqueueBatch enqueues multiple deliveries preserving per-recipient ordering.
func (d *Dispatcher) EnqueueBatch(jobs []ports.CampaignDelivery) {
	for _, j := range jobs {
		d.Enqueue(j)
	}
}

// shardIndex maps a recipient address deterministically to a worker index.
// The modulo runs in uint32 so the conversion to int can never go negative.
func (d *Dispatcher) shardIndex(email string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(email))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.CampaignDelivery) {
	workerID := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-ch:
			if !ok {
				return
			}
			metrics.DeliveryQueueDepth.WithLabelValues(workerID).Set(float64(len(ch)))
			if err := d.service.Deliver(ctx, job); err != nil {
				metrics.CampaignDeliveryErrorsTotal.WithLabelValues("deliver_failed").Inc()
				d.log.Error().Err(err).
					Str("campaign_id", job.CampaignID).
					Int("worker_id", id).
					Msg("campaign delivery failed")
				continue
			}
			metrics.CampaignDeliveriesTotal.Inc()
		}
	}
}

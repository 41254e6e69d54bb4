package queue

import (
	"context"
	"fmt"
	"hash/fnv"

	"github.com/rs/zerolog"

	"github.com/shopstack/ecommerce-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 128
)

// Dispatcher delivers order notifications asynchronously through a fixed set
// of workers. Notifications are sharded by recipient address, guaranteeing
// per-recipient delivery ordering.
type Dispatcher struct {
	workers []chan ports.OrderNotification
	mailer  ports.Mailer
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, mailer ports.Mailer, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.OrderNotification, numWorkers),
		mailer:  mailer,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.OrderNotification, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue sends a notification to the worker responsible for its recipient.
// The call is non-blocking up to channelBuffer capacity.
func (d *Dispatcher) Enqueue(n ports.OrderNotification) {
	d.workers[d.shardIndex(n.Email)] <- n
}

// shardIndex maps a recipient address deterministically to a worker index.
func (d *Dispatcher) shardIndex(email string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(email))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.OrderNotification) {
	for {
		select {
		case <-ctx.Done():
			return
		case n, ok := <-ch:
			if !ok {
				return
			}
			mail := ports.Mail{
				To:      n.Email,
				Subject: fmt.Sprintf("Order %s confirmed", n.OrderNumber),
				Body:    fmt.Sprintf("Your order %s for %.2f %s has been confirmed.", n.OrderNumber, n.Total, n.Currency),
			}
			if err := d.mailer.SendMail(ctx, mail); err != nil {
				d.log.Error().Err(err).
					Str("order_number", n.OrderNumber).
					Int("worker_id", id).
					Msg("order notification failed")
			}
		}
	}
}

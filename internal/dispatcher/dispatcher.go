// Package dispatcher serializes order submission into the matching
// engine through a single consumer goroutine, and forwards the fills
// it produces to the notifier.
package dispatcher

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"matchcore/internal/engine"
)

// ErrQueueFull is returned by Enqueue when the bounded queue has no
// room left for another order.
var ErrQueueFull = errors.New("dispatcher: queue full")

// Notifier is the narrow interface the dispatcher needs from the
// session notifier; kept separate so the book and dispatcher never
// import session-layer types.
type Notifier interface {
	Notify(fill engine.Fill)
}

// Metrics is the narrow interface the dispatcher needs from the
// Prometheus registry; nil is a valid no-op value.
type Metrics interface {
	OrderAccepted()
	OrderRejected()
	FillEmitted()
	SetQueueDepth(n int)
}

// IncomingOrder is what a transport-layer session hands to Enqueue
// before the dispatcher assigns an ID and arrival timestamp.
type IncomingOrder struct {
	Side       engine.Side
	Kind       engine.Kind
	LimitPrice decimal.Decimal
	StopPrice  decimal.Decimal
	Quantity   uint64
	Session    engine.SessionID
	Authed     bool
}

// Dispatcher is the sole mutator of the book. Orders are accepted on a
// bounded channel (an idiomatic Go MPSC queue) and applied in the exact
// order they were accepted, one at a time, by Run's consumer loop.
type Dispatcher struct {
	book     *engine.Book
	notifier Notifier
	metrics  Metrics
	log      *logrus.Entry

	queue chan queuedOrder
	wg    sync.WaitGroup

	// mu makes ID/arrival assignment and the push onto queue one step,
	// so concurrent producers cannot queue orders out of ID order.
	mu     sync.Mutex
	nextID atomic.Uint64
}

type queuedOrder struct {
	order engine.Order
}

// New constructs a dispatcher with the given bounded queue capacity.
// m may be nil, in which case metrics are simply not recorded.
func New(book *engine.Book, notifier Notifier, m Metrics, log *logrus.Entry, capacity int) *Dispatcher {
	if log == nil {
		log = logrus.NewEntry(logrus.New())
	}
	return &Dispatcher{
		book:     book,
		notifier: notifier,
		metrics:  m,
		log:      log,
		queue:    make(chan queuedOrder, capacity),
	}
}

// Enqueue validates and places an order on the tail of the FIFO. It
// assigns the order ID and arrival timestamp at the moment it accepts
// the order, so the total order of IDs matches the queueing order.
// Enqueue never blocks the caller waiting for the consumer; it returns
// ErrQueueFull immediately if the bounded queue is saturated.
func (d *Dispatcher) Enqueue(in IncomingOrder) (uint64, error) {
	if !in.Authed {
		d.reject()
		return 0, ErrNotLoggedIn
	}
	if err := validate(in); err != nil {
		d.reject()
		return 0, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	id := d.nextID.Add(1)
	order := engine.Order{
		ID:         id,
		Side:       in.Side,
		Kind:       in.Kind,
		LimitPrice: in.LimitPrice,
		StopPrice:  in.StopPrice,
		Quantity:   in.Quantity,
		Session:    in.Session,
		Arrival:    time.Now(),
	}

	select {
	case d.queue <- queuedOrder{order: order}:
		if d.metrics != nil {
			d.metrics.OrderAccepted()
			d.metrics.SetQueueDepth(len(d.queue))
		}
		return id, nil
	default:
		d.reject()
		return 0, ErrQueueFull
	}
}

func (d *Dispatcher) reject() {
	if d.metrics != nil {
		d.metrics.OrderRejected()
	}
}

// Run drains the queue in FIFO order until the context is cancelled and
// the queue has been fully drained. It is intended to run on its own
// goroutine for the lifetime of the process.
func (d *Dispatcher) Run(ctx context.Context) {
	d.wg.Add(1)
	defer d.wg.Done()

	for {
		select {
		case qo := <-d.queue:
			d.apply(qo.order)
		case <-ctx.Done():
			d.drain()
			return
		}
	}
}

// drain applies every order still sitting in the queue after shutdown
// was requested, without accepting any new ones (the channel close
// convention is left to the caller; here we simply stop selecting on
// ctx.Done() and flush what is buffered).
func (d *Dispatcher) drain() {
	for {
		select {
		case qo := <-d.queue:
			d.apply(qo.order)
		default:
			return
		}
	}
}

func (d *Dispatcher) apply(order engine.Order) {
	fills := d.book.Submit(order)
	for _, f := range fills {
		d.notifier.Notify(f)
	}
	if d.metrics != nil {
		if len(fills) > 0 {
			for range fills {
				d.metrics.FillEmitted()
			}
		}
		d.metrics.SetQueueDepth(len(d.queue))
	}
	d.log.WithFields(logrus.Fields{
		"order_id": order.ID,
		"side":     order.Side.String(),
		"kind":     order.Kind.String(),
		"fills":    len(fills),
	}).Debug("order applied")
}

// Shutdown waits for Run's consumer loop to exit after it has drained
// the queue. The caller must have already cancelled the context passed
// to Run.
func (d *Dispatcher) Shutdown() {
	d.wg.Wait()
}

// ErrNotLoggedIn is the sentinel surfaced to a session submitting an
// order without a successful prior LOGIN.
var ErrNotLoggedIn = errors.New("Not logged in")

package engine

import (
	"container/list"
	"sort"

	"github.com/shopspring/decimal"
)

// priceLevel is the FIFO queue of resting orders at one exact price.
// Insertion appends at the tail; matching pops from the front.
type priceLevel struct {
	price  decimal.Decimal
	orders *list.List // of *Order
}

func newPriceLevel(price decimal.Decimal) *priceLevel {
	return &priceLevel{price: price, orders: list.New()}
}

func (l *priceLevel) push(o *Order) *list.Element {
	return l.orders.PushBack(o)
}

func (l *priceLevel) front() *Order {
	e := l.orders.Front()
	if e == nil {
		return nil
	}
	return e.Value.(*Order)
}

func (l *priceLevel) popFront() {
	l.orders.Remove(l.orders.Front())
}

func (l *priceLevel) empty() bool {
	return l.orders.Len() == 0
}

// ladder is one side's price levels, kept ready for best-first iteration.
// Buy ladders iterate descending, sell ladders iterate ascending; the
// sign is supplied by the caller via less, a comparator applied once
// per mutation (on insert) rather than once per scan.
type ladder struct {
	levels map[string]*priceLevel
	order  []decimal.Decimal // keys, kept sorted best-first
	less   func(a, b decimal.Decimal) bool
}

func newLadder(less func(a, b decimal.Decimal) bool) *ladder {
	return &ladder{levels: make(map[string]*priceLevel), less: less}
}

func (d *ladder) key(price decimal.Decimal) string {
	return price.String()
}

func (d *ladder) levelAt(price decimal.Decimal) (*priceLevel, bool) {
	lvl, ok := d.levels[d.key(price)]
	return lvl, ok
}

// getOrCreate returns the level at price, inserting it into the sorted
// key order if it did not already exist.
func (d *ladder) getOrCreate(price decimal.Decimal) *priceLevel {
	k := d.key(price)
	if lvl, ok := d.levels[k]; ok {
		return lvl
	}
	lvl := newPriceLevel(price)
	d.levels[k] = lvl

	i := sort.Search(len(d.order), func(i int) bool {
		return d.less(price, d.order[i]) || price.Equal(d.order[i])
	})
	d.order = append(d.order, decimal.Zero)
	copy(d.order[i+1:], d.order[i:])
	d.order[i] = price
	return lvl
}

// removeBest drops the best (front of d.order) level once it is empty.
func (d *ladder) removeBest() {
	if len(d.order) == 0 {
		return
	}
	best := d.order[0]
	delete(d.levels, d.key(best))
	d.order = d.order[1:]
}

// best returns the best-priced non-empty level, or nil.
func (d *ladder) best() *priceLevel {
	if len(d.order) == 0 {
		return nil
	}
	return d.levels[d.key(d.order[0])]
}

func (d *ladder) bestPrice() (decimal.Decimal, bool) {
	if len(d.order) == 0 {
		return decimal.Zero, false
	}
	return d.order[0], true
}

// depth reports the number of resting orders across every level, used
// by the admin snapshot endpoint.
func (d *ladder) depth() int {
	n := 0
	for _, lvl := range d.levels {
		n += lvl.orders.Len()
	}
	return n
}

package engine

import (
	"github.com/shopspring/decimal"
)

// Book is the in-memory order book for a single instrument: the bid and
// ask ladders, the pending stop set, and the last-trade-price watermark.
// It is not safe for concurrent use — the dispatcher is its sole caller
// and serializes every Submit.
type Book struct {
	bids *ladder
	asks *ladder

	stops map[uint64]*Order

	lastTradePrice decimal.Decimal
	hasTraded      bool
}

// NewBook constructs an empty book.
func NewBook() *Book {
	return &Book{
		bids:  newLadder(func(a, b decimal.Decimal) bool { return a.GreaterThan(b) }), // descending
		asks:  newLadder(func(a, b decimal.Decimal) bool { return a.LessThan(b) }),    // ascending
		stops: make(map[uint64]*Order),
	}
}

// Submit applies one order to the book and returns every fill it
// produced, direct fills first and then cascaded stop fills in the
// order the cascade produced them.
func (b *Book) Submit(order Order) []Fill {
	if order.Kind == Stop {
		o := order
		b.stops[o.ID] = &o
		return nil
	}

	fills := b.match(&order)

	if order.Kind == Limit && order.Quantity > 0 {
		b.rest(order)
	}

	if len(fills) > 0 {
		b.lastTradePrice = fills[len(fills)-1].Price
		b.hasTraded = true
		fills = append(fills, b.cascadeStops()...)
	}

	return fills
}

// rest appends a limit order with residual quantity to the tail of its
// own-side level, creating the level if it is the first order at that
// price.
func (b *Book) rest(order Order) {
	side := b.ladderFor(order.Side)
	lvl := side.getOrCreate(order.LimitPrice)
	o := order
	lvl.push(&o)
}

func (b *Book) ladderFor(side Side) *ladder {
	if side == Buy {
		return b.bids
	}
	return b.asks
}

func (b *Book) opposite(side Side) *ladder {
	if side == Buy {
		return b.asks
	}
	return b.bids
}

// match crosses the incoming order against the opposite ladder under
// price-time priority. taker.Quantity is decremented in place; the
// caller is responsible for resting any limit residual.
func (b *Book) match(taker *Order) []Fill {
	var fills []Fill
	opp := b.opposite(taker.Side)

	for taker.Quantity > 0 {
		lvl := opp.best()
		if lvl == nil {
			break
		}
		if taker.Kind == Limit && !crosses(taker.Side, taker.LimitPrice, lvl.price) {
			break
		}

		for taker.Quantity > 0 && !lvl.empty() {
			maker := lvl.front()
			qty := taker.Quantity
			if maker.Quantity < qty {
				qty = maker.Quantity
			}

			fills = append(fills, Fill{
				MakerOrderID: maker.ID,
				TakerOrderID: taker.ID,
				MakerSession: maker.Session,
				TakerSession: taker.Session,
				Price:        maker.LimitPrice,
				Quantity:     qty,
				TakerIsBuy:   taker.Side == Buy,
			})

			maker.Quantity -= qty
			taker.Quantity -= qty

			if maker.Quantity == 0 {
				lvl.popFront()
			}
		}

		if lvl.empty() {
			opp.removeBest()
		}
	}

	return fills
}

// crosses reports whether a limit taker on side at limitPrice is willing
// to trade at the opposite ladder's best price px.
func crosses(side Side, limitPrice, px decimal.Decimal) bool {
	if side == Buy {
		return limitPrice.GreaterThanOrEqual(px)
	}
	return limitPrice.LessThanOrEqual(px)
}

// BestBid returns the best resting buy price, if any.
func (b *Book) BestBid() (decimal.Decimal, bool) {
	return b.bids.bestPrice()
}

// BestAsk returns the best resting sell price, if any.
func (b *Book) BestAsk() (decimal.Decimal, bool) {
	return b.asks.bestPrice()
}

// LastTradePrice returns the most recent fill price and whether any
// fill has ever occurred.
func (b *Book) LastTradePrice() (decimal.Decimal, bool) {
	return b.lastTradePrice, b.hasTraded
}

// Depth reports resting-order counts on each side, used by the admin
// snapshot endpoint.
func (b *Book) Depth() (bids, asks int) {
	return b.bids.depth(), b.asks.depth()
}

// PendingStops reports the number of stop orders awaiting trigger.
func (b *Book) PendingStops() int {
	return len(b.stops)
}

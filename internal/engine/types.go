package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

// Side is the direction of an order.
type Side int

const (
	Buy Side = iota
	Sell
)

func (s Side) String() string {
	if s == Buy {
		return "buy"
	}
	return "sell"
}

// Kind is the order type accepted by the book.
type Kind int

const (
	Limit Kind = iota
	Market
	Stop
)

func (k Kind) String() string {
	switch k {
	case Limit:
		return "limit"
	case Market:
		return "market"
	case Stop:
		return "stop"
	default:
		return "unknown"
	}
}

// SessionID identifies the submitting session for notification fan-out.
type SessionID uint64

// Order is a submission record. Quantity is the residual amount and
// mutates while the order rests on a ladder; everything else is
// immutable after the order enters the dispatcher.
type Order struct {
	ID         uint64
	Side       Side
	Kind       Kind
	LimitPrice decimal.Decimal
	StopPrice  decimal.Decimal
	Quantity   uint64
	Session    SessionID
	Arrival    time.Time
}

// Fill is one maker/taker crossing produced by a single matching pass.
type Fill struct {
	MakerOrderID uint64
	TakerOrderID uint64
	MakerSession SessionID
	TakerSession SessionID
	Price        decimal.Decimal
	Quantity     uint64
	TakerIsBuy   bool
}

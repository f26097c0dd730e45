package dispatcher

import (
	"errors"

	"matchcore/internal/engine"
)

// ErrZeroQuantity, ErrInvalidPrice and ErrInvalidStopSide are the
// pre-flight rejection reasons the dispatcher surfaces on the
// originating session before an order ever reaches the book; the book
// itself assumes every order it sees already satisfies these.
var (
	ErrZeroQuantity    = errors.New("quantity must be > 0")
	ErrInvalidPrice    = errors.New("price must be a finite positive number")
	ErrInvalidStopSide = errors.New("stop price required for stop orders")
)

func validate(in IncomingOrder) error {
	if in.Quantity == 0 {
		return ErrZeroQuantity
	}
	switch in.Kind {
	case engine.Limit:
		if in.LimitPrice.Sign() <= 0 {
			return ErrInvalidPrice
		}
	case engine.Stop:
		if in.StopPrice.Sign() <= 0 {
			return ErrInvalidStopSide
		}
	case engine.Market:
		// price is ignored for market orders.
	}
	return nil
}

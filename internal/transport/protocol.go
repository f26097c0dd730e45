// Package transport terminates client TCP/TLS connections and speaks
// the line-delimited request/response protocol: LOGIN and ORDER
// commands in, synchronous ACK/ERROR lines and asynchronous FILL lines
// out.
package transport

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"matchcore/internal/dispatcher"
	"matchcore/internal/engine"
)

// ErrMalformed is returned by parseLine for any line that cannot be
// turned into a command, carrying a human-readable reason in its
// message so the caller can echo it back verbatim as "ERROR: <reason>".
type ErrMalformed struct{ Reason string }

func (e ErrMalformed) Error() string { return e.Reason }

// ErrUnknownCommand is returned for a verb that isn't LOGIN or ORDER.
var ErrUnknownCommand = errors.New("unknown command")

type command interface{ isCommand() }

type loginCommand struct {
	user, pass string
}

func (loginCommand) isCommand() {}

type orderCommand struct {
	order dispatcher.IncomingOrder
}

func (orderCommand) isCommand() {}

// parseLine parses one protocol line (without its trailing newline)
// into a command.
func parseLine(line string) (command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, ErrMalformed{"empty line"}
	}

	switch strings.ToUpper(fields[0]) {
	case "LOGIN":
		if len(fields) != 3 {
			return nil, ErrMalformed{"LOGIN requires <user> <pass>"}
		}
		return loginCommand{user: fields[1], pass: fields[2]}, nil

	case "ORDER":
		if len(fields) != 5 {
			return nil, ErrMalformed{"ORDER requires <buy|sell> <limit|market|stop> <price> <qty>"}
		}
		return parseOrder(fields[1], fields[2], fields[3], fields[4])

	default:
		return nil, ErrUnknownCommand
	}
}

func parseOrder(sideStr, kindStr, priceStr, qtyStr string) (command, error) {
	var side engine.Side
	switch strings.ToLower(sideStr) {
	case "buy":
		side = engine.Buy
	case "sell":
		side = engine.Sell
	default:
		return nil, ErrMalformed{fmt.Sprintf("unknown side %q", sideStr)}
	}

	var kind engine.Kind
	switch strings.ToLower(kindStr) {
	case "limit":
		kind = engine.Limit
	case "market":
		kind = engine.Market
	case "stop":
		kind = engine.Stop
	default:
		return nil, ErrMalformed{fmt.Sprintf("unknown order kind %q", kindStr)}
	}

	price, err := decimal.NewFromString(priceStr)
	if err != nil {
		return nil, ErrMalformed{fmt.Sprintf("invalid price %q", priceStr)}
	}

	qty, err := strconv.ParseUint(qtyStr, 10, 64)
	if err != nil {
		return nil, ErrMalformed{fmt.Sprintf("invalid quantity %q", qtyStr)}
	}
	if qty == 0 {
		return nil, ErrMalformed{"quantity must be > 0"}
	}

	in := dispatcher.IncomingOrder{Side: side, Kind: kind, Quantity: qty}
	switch kind {
	case engine.Limit:
		in.LimitPrice = price
	case engine.Stop:
		in.StopPrice = price
	case engine.Market:
		// price is transmitted but ignored for market orders.
	}

	return orderCommand{order: in}, nil
}

// formatFill renders a fill as the asynchronous FILL line sent to sessions.
func formatFill(f engine.Fill) string {
	return fmt.Sprintf("FILL: maker=%d taker=%d price=%s qty=%d isBuy=%t\n",
		f.MakerOrderID, f.TakerOrderID, f.Price.String(), f.Quantity, f.TakerIsBuy)
}

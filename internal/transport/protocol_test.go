package transport

import (
	"testing"

	"github.com/shopspring/decimal"

	"matchcore/internal/engine"
)

func TestParseLoginCommand(t *testing.T) {
	cmd, err := parseLine("LOGIN alice secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	login, ok := cmd.(loginCommand)
	if !ok {
		t.Fatalf("expected loginCommand, got %T", cmd)
	}
	if login.user != "alice" || login.pass != "secret" {
		t.Errorf("unexpected login fields: %+v", login)
	}
}

func TestParseOrderLimit(t *testing.T) {
	cmd, err := parseLine("ORDER buy limit 100.5 10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	order, ok := cmd.(orderCommand)
	if !ok {
		t.Fatalf("expected orderCommand, got %T", cmd)
	}
	if order.order.Side != engine.Buy || order.order.Kind != engine.Limit {
		t.Errorf("unexpected side/kind: %+v", order.order)
	}
	if order.order.Quantity != 10 {
		t.Errorf("expected quantity 10, got %d", order.order.Quantity)
	}
	if !order.order.LimitPrice.Equal(mustParse(t, "100.5")) {
		t.Errorf("expected limit price 100.5, got %s", order.order.LimitPrice)
	}
}

func TestParseOrderStopUsesStopPrice(t *testing.T) {
	cmd, err := parseLine("ORDER sell stop 101 30")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	order := cmd.(orderCommand).order
	if order.Kind != engine.Stop {
		t.Fatalf("expected stop kind")
	}
	if !order.StopPrice.Equal(mustParse(t, "101")) {
		t.Errorf("expected stop price 101, got %s", order.StopPrice)
	}
}

func TestParseOrderMarketIgnoresPrice(t *testing.T) {
	cmd, err := parseLine("ORDER buy market 999999 15")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	order := cmd.(orderCommand).order
	if order.Kind != engine.Market {
		t.Fatalf("expected market kind")
	}
	if !order.LimitPrice.IsZero() {
		t.Errorf("expected market order's price field to be ignored, got %s", order.LimitPrice)
	}
}

func TestParseUnknownCommand(t *testing.T) {
	_, err := parseLine("FROB nonsense")
	if err != ErrUnknownCommand {
		t.Fatalf("expected ErrUnknownCommand, got %v", err)
	}
}

func TestParseMalformedOrder(t *testing.T) {
	cases := []string{
		"ORDER buy limit 100",          // missing qty
		"ORDER sideways limit 100 10",  // bad side
		"ORDER buy weird 100 10",       // bad kind
		"ORDER buy limit notaprice 10", // bad price
		"ORDER buy limit 100 notaqty",  // bad qty
		"ORDER buy limit 100 0",        // zero qty
	}
	for _, line := range cases {
		if _, err := parseLine(line); err == nil {
			t.Errorf("expected error for line %q", line)
		}
	}
}

func TestFormatFill(t *testing.T) {
	fill := engine.Fill{
		MakerOrderID: 1, TakerOrderID: 2,
		Price: mustParse(t, "100"), Quantity: 50, TakerIsBuy: false,
	}
	got := formatFill(fill)
	want := "FILL: maker=1 taker=2 price=100 qty=50 isBuy=false\n"
	if got != want {
		t.Errorf("formatFill() = %q, want %q", got, want)
	}
}

func mustParse(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	dec, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return dec
}

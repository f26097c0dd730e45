package engine

// cascadeStops scans the pending stop set against the current
// last-trade price, converts every triggered stop into a market order,
// and feeds it back through the matcher. Each triggered stop updates
// lastTradePrice before the next stop is evaluated, so a cascade can in
// principle trigger further stops; the scan continues until nothing
// remaining satisfies its condition.
//
// When several stops are triggered at once, the one with the lowest
// order ID fires first, so the cascade order is deterministic for a
// given sequence of submissions.
func (b *Book) cascadeStops() []Fill {
	var fills []Fill

	for {
		triggeredID, ok := b.nextTriggeredStop()
		if !ok {
			break
		}

		stop := b.stops[triggeredID]
		delete(b.stops, triggeredID)

		market := Order{
			ID:       stop.ID,
			Side:     stop.Side,
			Kind:     Market,
			Quantity: stop.Quantity,
			Session:  stop.Session,
			Arrival:  stop.Arrival,
		}

		mfills := b.match(&market)
		if len(mfills) > 0 {
			b.lastTradePrice = mfills[len(mfills)-1].Price
			b.hasTraded = true
			fills = append(fills, mfills...)
		}
	}

	return fills
}

// nextTriggeredStop returns the lowest ID among the stop orders whose
// condition is currently satisfied, if one exists.
func (b *Book) nextTriggeredStop() (uint64, bool) {
	var (
		best  uint64
		found bool
	)
	for id, stop := range b.stops {
		if b.triggered(stop) && (!found || id < best) {
			best, found = id, true
		}
	}
	return best, found
}

func (b *Book) triggered(stop *Order) bool {
	if !b.hasTraded {
		return false
	}
	if stop.Side == Buy {
		return b.lastTradePrice.GreaterThanOrEqual(stop.StopPrice)
	}
	return b.lastTradePrice.LessThanOrEqual(stop.StopPrice)
}

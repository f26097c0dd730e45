package engine

import (
	"fmt"
	"runtime"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

// TestHighVolumeBookPressure is a soak test: push a large number of
// resting orders onto both ladders, then drive them down with
// aggressive takers and stop triggers, reporting timing and memory
// stats instead of asserting exact numbers.
func TestHighVolumeBookPressure(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping load test in short mode")
	}

	var initialMemStats runtime.MemStats
	runtime.ReadMemStats(&initialMemStats)

	book := NewBook()
	now := time.Now()

	const depthPerSide = 2000
	basePrice := decimal.NewFromInt(40000)

	for i := 0; i < depthPerSide; i++ {
		arrival := now.Add(time.Duration(i) * time.Microsecond)

		sellPrice := basePrice.Add(decimal.NewFromInt(int64(i % 25)))
		book.Submit(Order{
			ID:         uint64(1_000_000 + i),
			Side:       Sell,
			Kind:       Limit,
			LimitPrice: sellPrice,
			Quantity:   uint64(1 + i%10),
			Session:    SessionID(i % 50),
			Arrival:    arrival,
		})

		buyPrice := basePrice.Sub(decimal.NewFromInt(int64(i % 25)))
		book.Submit(Order{
			ID:         uint64(2_000_000 + i),
			Side:       Buy,
			Kind:       Limit,
			LimitPrice: buyPrice,
			Quantity:   uint64(1 + i%10),
			Session:    SessionID(i % 50),
			Arrival:    arrival,
		})
	}

	bids, asks := book.Depth()
	t.Logf("book primed with %d resting bids and %d resting asks", bids, asks)

	for i := 0; i < 200; i++ {
		arrival := now.Add(time.Duration(depthPerSide+i) * time.Microsecond)
		book.Submit(stopOrder(t, uint64(3_000_000+i), Sell, fmt.Sprintf("%d", 40000-i%20), 5, arrival))
	}

	var (
		totalFills         int
		totalExecutionTime time.Duration
	)

	for i := 0; i < 500; i++ {
		arrival := now.Add(time.Duration(depthPerSide+200+i) * time.Microsecond)
		taker := marketOrder(uint64(4_000_000+i), Buy, uint64(1+i%15), arrival)

		start := time.Now()
		fills := book.Submit(taker)
		totalExecutionTime += time.Since(start)
		totalFills += len(fills)
	}

	t.Logf("processed 500 taker orders producing %d fills in %v (avg %v/order)",
		totalFills, totalExecutionTime, totalExecutionTime/500)

	var currentMemStats runtime.MemStats
	runtime.ReadMemStats(&currentMemStats)
	memoryDiffMB := float64(currentMemStats.Alloc-initialMemStats.Alloc) / 1024 / 1024
	t.Logf("memory usage difference: %.2f MB, GC cycles: %d", memoryDiffMB, currentMemStats.NumGC-initialMemStats.NumGC)
}

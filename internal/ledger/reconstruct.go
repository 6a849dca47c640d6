package ledger

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"balanceScope/internal/model"
)

// appliedDelta recomputes the signed balance effect from the direction
// and decimal fields. The stored Delta field is deliberately not
// trusted here; the same sign rules drive both the backward calibration
// walk and the forward fold, which keeps the two consistent.
func appliedDelta(e model.TimelineEntry) decimal.Decimal {
	switch e.Direction {
	case model.DirectionOut:
		return e.Amount.Add(e.Fee).Add(e.Tips).Neg()
	case model.DirectionIn:
		return e.Amount
	default:
		return decimal.Zero
	}
}

// Reconstruct orders the classified entries chronologically and stamps
// each with the address balance immediately after it.
//
// With an absolute current balance, the walk first inverts every delta
// in descending order to infer the balance that existed before the
// oldest entry; without one the series is a relative curve from zero.
// The fold is deterministic: identical inputs give identical output.
func Reconstruct(entries []model.TimelineEntry, current *decimal.Decimal) ([]model.TimelineEntry, decimal.Decimal, error) {
	sorted := make([]model.TimelineEntry, len(entries))
	copy(sorted, entries)
	// Tie-break is (block, timestamp) only; equal keys keep input order.
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Block != sorted[j].Block {
			return sorted[i].Block < sorted[j].Block
		}
		return sorted[i].Timestamp < sorted[j].Timestamp
	})

	start := decimal.Zero
	if current != nil {
		start = *current
		for k := len(sorted) - 1; k >= 0; k-- {
			start = start.Sub(appliedDelta(sorted[k]))
		}
	}

	series := make([]model.TimelineEntry, 0, len(sorted))
	balance := start
	for _, e := range sorted {
		if e.Block == 0 {
			// One bad entry corrupts every balance after it.
			return nil, decimal.Zero, fmt.Errorf("entry %s has block 0, series would be corrupt", e.Hash)
		}
		balance = balance.Add(appliedDelta(e))
		e.Balance = balance
		series = append(series, e)
	}

	return series, start, nil
}

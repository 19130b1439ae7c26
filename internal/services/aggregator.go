package services

import (
	"context"
	"fmt"

	"masraf/internal/core"
)

// Aggregator computes a user's daily, weekly and monthly totals anchored at a
// reference date.
type Aggregator struct {
	store AggregateStore
}

func NewAggregator(store AggregateStore) *Aggregator {
	return &Aggregator{store: store}
}

// Totals returns the three period totals for today. All three come from one
// store snapshot, so a transaction written mid-computation either appears in
// every window that covers it or in none.
func (a *Aggregator) Totals(ctx context.Context, userID int64, today core.Date) (core.Totals, error) {
	sums, err := a.store.SumAmountInWindows(ctx, userID, []core.Window{
		core.DayWindow(today),
		core.RollingWeekWindow(today),
		core.MonthToDateWindow(today),
	})
	if err != nil {
		return core.Totals{}, fmt.Errorf("aggregate totals for user %d: %w", userID, err)
	}
	return core.Totals{
		Daily:   sums[0],
		Weekly:  sums[1],
		Monthly: sums[2],
	}, nil
}

package domain

import (
	"fmt"
	"sort"
)

// CanAdmit is the capacity guard: a new order fits if seats taken by
// non-rejected orders stay below maxOrders.
func CanAdmit(activeOrders, maxOrders int) (bool, error) {
	if maxOrders <= 0 {
		return false, fmt.Errorf("%w: max_orders=%d", ErrConfiguration, maxOrders)
	}
	return activeOrders < maxOrders, nil
}

// SelectOverflow returns the orders that no longer fit into a slot of capacity
// maxOrders. Non-rejected orders keep their seat in daily_number order; every
// order past the cutoff is returned. The input slice is not modified.
func SelectOverflow(orders []*Order, maxOrders int) []*Order {
	if maxOrders < 0 {
		maxOrders = 0
	}

	active := make([]*Order, 0, len(orders))
	for _, o := range orders {
		if o.OccupiesSeat() {
			active = append(active, o)
		}
	}
	if len(active) <= maxOrders {
		return nil
	}

	sort.SliceStable(active, func(i, j int) bool {
		return active[i].DailyNumber < active[j].DailyNumber
	})

	overflow := make([]*Order, len(active)-maxOrders)
	copy(overflow, active[maxOrders:])
	return overflow
}

// GroupBySlot splits orders by TimeSlotID
func GroupBySlot(orders []*Order) map[int64][]*Order {
	groups := make(map[int64][]*Order)
	for _, o := range orders {
		groups[o.TimeSlotID] = append(groups[o.TimeSlotID], o)
	}
	return groups
}

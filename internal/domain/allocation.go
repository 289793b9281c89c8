package domain

import "sort"

// Allocation is one planned quantity assignment against a round line.
type Allocation struct {
	LineID         string
	DeliveryLineID string
	LineOrder      int
	LineVersion    int64
	Quantity       int
	NewPacked      int
}

// PlanAllocation drains the requested quantity across round lines in
// ascending order. Each line contributes min(remaining request, its
// unpacked quantity) and is never revisited. The plan stops as soon as
// the request is satisfied, and terminates even when the lines cannot
// cover the full request.
func PlanAllocation(movingQuantity int, lines []RoundLineDetail) []Allocation {
	ordered := make([]RoundLineDetail, len(lines))
	copy(ordered, lines)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Order < ordered[j].Order
	})

	allocations := make([]Allocation, 0, len(ordered))
	remaining := movingQuantity

	for _, line := range ordered {
		if remaining <= 0 {
			break
		}
		available := line.Remaining()
		if available <= 0 {
			continue
		}

		allocate := available
		if remaining < allocate {
			allocate = remaining
		}

		allocations = append(allocations, Allocation{
			LineID:         line.LineID,
			DeliveryLineID: line.DeliveryLineID,
			LineOrder:      line.Order,
			LineVersion:    line.Version,
			Quantity:       allocate,
			NewPacked:      line.PackedQuantity + allocate,
		})
		remaining -= allocate
	}

	return allocations
}

// TotalAllocated sums the planned quantities.
func TotalAllocated(allocations []Allocation) int {
	total := 0
	for _, a := range allocations {
		total += a.Quantity
	}
	return total
}

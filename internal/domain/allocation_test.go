package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlanAllocation(t *testing.T) {
	tests := []struct {
		name           string
		movingQuantity int
		lines          []RoundLineDetail
		wantQuantities []int
		wantTotal      int
	}{
		{
			name:           "single line full fit",
			movingQuantity: 5,
			lines: []RoundLineDetail{
				{LineID: "L1", DeliveryLineID: "DL1", Order: 1, ProcessedQuantity: 5, PackedQuantity: 0},
			},
			wantQuantities: []int{5},
			wantTotal:      5,
		},
		{
			name:           "split across two lines in order",
			movingQuantity: 8,
			lines: []RoundLineDetail{
				{LineID: "L1", DeliveryLineID: "DL1", Order: 1, ProcessedQuantity: 3, PackedQuantity: 0},
				{LineID: "L2", DeliveryLineID: "DL2", Order: 2, ProcessedQuantity: 10, PackedQuantity: 5},
			},
			wantQuantities: []int{3, 5},
			wantTotal:      8,
		},
		{
			name:           "stops once request is satisfied",
			movingQuantity: 2,
			lines: []RoundLineDetail{
				{LineID: "L1", DeliveryLineID: "DL1", Order: 1, ProcessedQuantity: 4, PackedQuantity: 0},
				{LineID: "L2", DeliveryLineID: "DL2", Order: 2, ProcessedQuantity: 4, PackedQuantity: 0},
			},
			wantQuantities: []int{2},
			wantTotal:      2,
		},
		{
			name:           "capacity below request terminates",
			movingQuantity: 20,
			lines: []RoundLineDetail{
				{LineID: "L1", DeliveryLineID: "DL1", Order: 1, ProcessedQuantity: 3, PackedQuantity: 1},
				{LineID: "L2", DeliveryLineID: "DL2", Order: 2, ProcessedQuantity: 4, PackedQuantity: 0},
			},
			wantQuantities: []int{2, 4},
			wantTotal:      6,
		},
		{
			name:           "fully packed lines are skipped",
			movingQuantity: 5,
			lines: []RoundLineDetail{
				{LineID: "L1", DeliveryLineID: "DL1", Order: 1, ProcessedQuantity: 3, PackedQuantity: 3},
				{LineID: "L2", DeliveryLineID: "DL2", Order: 2, ProcessedQuantity: 8, PackedQuantity: 0},
			},
			wantQuantities: []int{5},
			wantTotal:      5,
		},
		{
			name:           "no lines yields empty plan",
			movingQuantity: 5,
			lines:          nil,
			wantQuantities: []int{},
			wantTotal:      0,
		},
		{
			name:           "zero request yields empty plan",
			movingQuantity: 0,
			lines: []RoundLineDetail{
				{LineID: "L1", DeliveryLineID: "DL1", Order: 1, ProcessedQuantity: 5, PackedQuantity: 0},
			},
			wantQuantities: []int{},
			wantTotal:      0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			allocations := PlanAllocation(tt.movingQuantity, tt.lines)

			quantities := make([]int, 0, len(allocations))
			for _, a := range allocations {
				quantities = append(quantities, a.Quantity)
			}
			assert.Equal(t, tt.wantQuantities, quantities)
			assert.Equal(t, tt.wantTotal, TotalAllocated(allocations))
		})
	}
}

// TestPlanAllocation_Conservation checks the planned total equals
// min(request, total available) for a spread of inputs.
func TestPlanAllocation_Conservation(t *testing.T) {
	lines := []RoundLineDetail{
		{LineID: "L1", DeliveryLineID: "DL1", Order: 3, ProcessedQuantity: 7, PackedQuantity: 2},
		{LineID: "L2", DeliveryLineID: "DL2", Order: 1, ProcessedQuantity: 4, PackedQuantity: 0},
		{LineID: "L3", DeliveryLineID: "DL3", Order: 2, ProcessedQuantity: 6, PackedQuantity: 6},
	}
	available := 0
	for _, l := range lines {
		available += l.Remaining()
	}

	for request := 0; request <= available+5; request++ {
		allocations := PlanAllocation(request, lines)
		want := request
		if available < want {
			want = available
		}
		assert.Equal(t, want, TotalAllocated(allocations), "request=%d", request)
	}
}

// TestPlanAllocation_OrderAscending verifies lines drain strictly by
// ascending order regardless of input slice order.
func TestPlanAllocation_OrderAscending(t *testing.T) {
	lines := []RoundLineDetail{
		{LineID: "L3", DeliveryLineID: "DL3", Order: 30, ProcessedQuantity: 5, PackedQuantity: 0},
		{LineID: "L1", DeliveryLineID: "DL1", Order: 10, ProcessedQuantity: 5, PackedQuantity: 0},
		{LineID: "L2", DeliveryLineID: "DL2", Order: 20, ProcessedQuantity: 5, PackedQuantity: 0},
	}

	allocations := PlanAllocation(12, lines)

	assert.Len(t, allocations, 3)
	assert.Equal(t, "L1", allocations[0].LineID)
	assert.Equal(t, "L2", allocations[1].LineID)
	assert.Equal(t, "L3", allocations[2].LineID)
	assert.Equal(t, []int{5, 5, 2}, []int{allocations[0].Quantity, allocations[1].Quantity, allocations[2].Quantity})

	// Each line appears at most once; none is revisited.
	seen := map[string]bool{}
	for _, a := range allocations {
		assert.False(t, seen[a.LineID])
		seen[a.LineID] = true
	}
}

package inventory

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Projection is the stock state derived from a product's ledger
type Projection struct {
	Quantity  int
	CostPrice *decimal.Decimal
}

// Project folds a product's movements. Quantity is the signed sum; CostPrice is
// the cost of the most recent purchase or initial entry that was not reversed,
// or nil when there is none.
func Project(movements []StockMovement) Projection {
	ordered := make([]StockMovement, len(movements))
	copy(ordered, movements)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
	})

	reversed := make(map[uuid.UUID]struct{})
	var p Projection
	for _, m := range ordered {
		p.Quantity += m.Quantity
		if m.Type == MovementReversal {
			if id, ok := ReversedMovementID(m.Notes); ok {
				reversed[id] = struct{}{}
			}
		}
	}

	for i := len(ordered) - 1; i >= 0; i-- {
		m := ordered[i]
		if !m.Type.CarriesCost() || m.CostPrice == nil {
			continue
		}
		if _, ok := reversed[m.ID]; ok {
			continue
		}
		cost := *m.CostPrice
		p.CostPrice = &cost
		break
	}
	return p
}

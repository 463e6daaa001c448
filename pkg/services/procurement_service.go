package services

import (
	"math"
	"sort"

	"stockcast-api/pkg/models"
)

// Reorder thresholds in days of stock.
const (
	reorderPointDays = 21
	minStockDays     = 7
	capacityDays     = 60 // order cap: never stock beyond 60 days of demand

	// Procurement runs its own stock simulation, assuming the product is
	// mid-way through a 15-day restock cycle. The dashboard estimator's
	// variability-scaled figure always sits above the reorder point, so
	// reusing it here would make the generator a no-op.
	procurementStockDays = 15
)

var priorityOrder = map[string]int{"High": 3, "Medium": 2, "Low": 1}

// ProcurementService turns demand statistics and supplier rankings into
// ranked reorder suggestions.
type ProcurementService struct {
	store     *DemandStore
	suppliers *SupplierService
}

// NewProcurementService creates a ProcurementService.
func NewProcurementService(store *DemandStore, suppliers *SupplierService) *ProcurementService {
	return &ProcurementService{store: store, suppliers: suppliers}
}

// Suggestions returns reorder suggestions for every product under the
// 21-day reorder point, one per top-2 ranked suppliers, sorted by priority
// then by ascending cost.
func (s *ProcurementService) Suggestions() ([]models.ProcurementSuggestion, error) {
	table, err := s.store.Snapshot()
	if err != nil {
		return nil, err
	}

	suggestions := make([]models.ProcurementSuggestion, 0)
	for _, productID := range table.Products {
		last30, err := table.Tail(productID, 30)
		if err != nil {
			return nil, err
		}
		st := computeDemandStats(last30)
		stock := st.avg * procurementStockDays
		daysOfStock := stock / st.avg

		if daysOfStock >= reorderPointDays {
			continue
		}

		// 30 days of demand, 45 when urgent.
		recommended := st.avg * 30
		if daysOfStock < minStockDays {
			recommended = st.avg * 45
		}
		// Cap by remaining warehouse headroom.
		if headroom := st.avg*capacityDays - stock; headroom > 0 {
			recommended = math.Min(recommended, headroom)
		}

		priority := "Low"
		if daysOfStock < minStockDays {
			priority = "High"
		} else if daysOfStock < 14 {
			priority = "Medium"
		}

		ranked := s.suppliers.RankSuppliers(s.suppliers.SuppliersFor(productID))
		for i := 0; i < len(ranked) && i < 2; i++ {
			sup := ranked[i]
			suggestions = append(suggestions, models.ProcurementSuggestion{
				ProductID:           productID,
				ProductName:         productID,
				SupplierID:          sup.SupplierID,
				SupplierName:        sup.Name,
				RecommendedQuantity: math.Round(recommended),
				EstimatedCost:       round2(recommended * sup.BasePrice),
				ETADays:             sup.LeadTime,
				SupplierReliability: sup.Reliability,
				Priority:            priority,
				PricePerUnit:        round2(sup.BasePrice),
			})
		}
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		pi, pj := priorityOrder[suggestions[i].Priority], priorityOrder[suggestions[j].Priority]
		if pi != pj {
			return pi > pj
		}
		return suggestions[i].EstimatedCost < suggestions[j].EstimatedCost
	})
	return suggestions, nil
}

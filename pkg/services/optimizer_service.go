package services

import (
	"math"
	"sort"

	"stockcast-api/pkg/models"
)

// EOQ parameters.
const (
	holdingCostRate = 0.20 // share of item cost per year
	orderingCost    = 50.0 // fixed cost per order
	serviceLevelZ   = 1.65 // Z-score for a 95% service level
	leadTimeCV      = 0.1  // assumed lead-time variability
)

// Status severity for the final sort, most urgent first.
var statusOrder = map[string]int{
	"Understock": 5,
	"Low Stock":  4,
	"Caution":    3,
	"Optimal":    2,
	"Overstock":  1,
}

// OptimizerService computes economic order quantities with safety stock
// for every product in the demand table.
type OptimizerService struct {
	store     *DemandStore
	suppliers *SupplierService
}

// NewOptimizerService creates an OptimizerService.
func NewOptimizerService(store *DemandStore, suppliers *SupplierService) *OptimizerService {
	return &OptimizerService{store: store, suppliers: suppliers}
}

// OptimizeAll runs the EOQ model for every product and returns results
// sorted by status severity, then by descending days of stock.
func (s *OptimizerService) OptimizeAll() ([]models.OptimizationResult, error) {
	table, err := s.store.Snapshot()
	if err != nil {
		return nil, err
	}

	results := make([]models.OptimizationResult, 0, len(table.Products))
	for _, productID := range table.Products {
		last30, err := table.Tail(productID, 30)
		if err != nil {
			return nil, err
		}
		results = append(results, s.optimizeProduct(productID, last30))
	}

	sort.SliceStable(results, func(i, j int) bool {
		si, sj := statusOrder[results[i].Status], statusOrder[results[j].Status]
		if si != sj {
			return si > sj
		}
		return results[i].DaysOfStock > results[j].DaysOfStock
	})
	return results, nil
}

func (s *OptimizerService) optimizeProduct(productID string, last30 []float64) models.OptimizationResult {
	st := computeDemandStats(last30)
	annualDemand := st.avg * 365

	best := s.suppliers.BestForEOQ(s.suppliers.SuppliersFor(productID))
	leadTime := float64(best.LeadTime)

	// Safety stock = Z * sqrt(LT*sigmaD^2 + D^2*sigmaLT^2)
	leadTimeStd := leadTime * leadTimeCV
	demandVariance := leadTime * st.std * st.std
	leadTimeVariance := st.avg * st.avg * leadTimeStd * leadTimeStd
	safetyStock := serviceLevelZ * math.Sqrt(demandVariance+leadTimeVariance)

	reorderPoint := st.avg*leadTime + safetyStock

	holdingCost := best.BasePrice * holdingCostRate
	var eoq float64
	if holdingCost > 0 {
		eoq = math.Sqrt(2 * annualDemand * orderingCost / holdingCost)
	} else {
		eoq = annualDemand / 12
	}

	stock, capacity, _, _ := estimateInventory(st)

	optimalQty := math.Ceil(eoq)
	if maxOrder := capacity - stock; maxOrder > 0 {
		optimalQty = math.Min(optimalQty, maxOrder)
	}
	optimalQty = math.Max(optimalQty, 0)

	daysOfStock := (stock + optimalQty) / st.avg

	status := "Optimal"
	warning := ""
	switch {
	case stock < reorderPoint:
		status = "Understock"
		warning = "Current stock below reorder point"
	case daysOfStock > 60:
		status = "Overstock"
		warning = "Excessive inventory - consider reducing orders"
	case daysOfStock < 14:
		status = "Low Stock"
		warning = "Stock levels may be insufficient"
	case stock < reorderPoint+safetyStock:
		status = "Caution"
		warning = "Approaching reorder point"
	}

	return models.OptimizationResult{
		ProductID:         productID,
		ProductName:       productID,
		CurrentStock:      round2(stock),
		OptimalQuantity:   math.Round(optimalQty),
		TotalCost:         round2(optimalQty * best.BasePrice),
		SupplierName:      best.Name,
		DaysOfStock:       round1(daysOfStock),
		Status:            status,
		Warning:           warning,
		ReorderPoint:      round2(reorderPoint),
		SafetyStock:       round2(safetyStock),
		WarehouseCapacity: round2(capacity),
		AvgDailyDemand:    round2(st.avg),
		DemandVariability: math.Round(st.cv*1000) / 1000,
	}
}

package services

import (
	"math"

	"stockcast-api/pkg/models"
)

// demandStats are the recent-demand statistics every inventory figure is
// derived from.
type demandStats struct {
	avg     float64 // floored at 0.1, see computeDemandStats
	max     float64
	std     float64
	cv      float64 // coefficient of variation
	floored bool    // true when avg was substituted with the floor
}

// computeDemandStats summarizes the last 30 days of demand. A product with
// no recent demand gets avg = 0.1 — a documented anti-divide-by-zero
// floor, not a demand estimate; every downstream ratio relies on it.
func computeDemandStats(last30 []float64) demandStats {
	st := demandStats{
		avg: calculateMean(last30),
		max: calculateMax(last30),
		std: calculateStandardDeviation(last30),
	}
	if st.avg <= 0 {
		st.avg = 0.1
		st.floored = true
	} else {
		st.cv = st.std / st.avg
	}
	return st
}

// InventoryService derives synthetic stock figures from recent demand.
// There is no stock-on-hand data anywhere in the system; the estimate
// simulates a 15-day restock cycle against a variability-scaled target and
// must stay formula-for-formula stable for output parity with consumers.
type InventoryService struct {
	store *DemandStore
}

// NewInventoryService creates an InventoryService on top of the store.
func NewInventoryService(store *DemandStore) *InventoryService {
	return &InventoryService{store: store}
}

// estimateInventory runs the closed-form stock simulation for one product.
func estimateInventory(st demandStats) (stock, capacity, daysOfStock, utilization float64) {
	safetyMultiplier := 1.5 + 0.5*st.cv
	targetStock := st.avg * 30 * safetyMultiplier
	recentConsumption := st.avg * 15 // assumed days since last restock

	stock = math.Max(0, targetStock-recentConsumption+st.avg*30)
	stock = math.Max(stock, st.avg*5) // never below 5 days of demand

	daysOfStock = stock / st.avg

	if st.max > 0 {
		capacity = st.max * 1.5
	} else {
		capacity = st.avg * 2
	}
	utilization = math.Min(100, st.avg/capacity*100)
	return stock, capacity, daysOfStock, utilization
}

// Snapshot returns the synthetic inventory snapshot for one product.
func (s *InventoryService) Snapshot(productID string) (*models.InventorySnapshot, error) {
	table, err := s.store.Snapshot()
	if err != nil {
		return nil, err
	}
	return s.snapshotFromTable(table, productID)
}

func (s *InventoryService) snapshotFromTable(table *DemandTable, productID string) (*models.InventorySnapshot, error) {
	last30, err := table.Tail(productID, 30)
	if err != nil {
		return nil, err
	}
	st := computeDemandStats(last30)
	stock, capacity, daysOfStock, utilization := estimateInventory(st)

	return &models.InventorySnapshot{
		ProductID:       productID,
		ProductName:     productID,
		CurrentStock:    round2(stock),
		Capacity:        round2(capacity),
		DaysOfStock:     round1(daysOfStock),
		UtilizationRate: round1(utilization),
		AvgDailyDemand:  round2(st.avg),
	}, nil
}

// DashboardSummary computes snapshots for every product plus fleet-level
// counts: low-stock products (<7 days), urgent ones (<7 days or >80%
// utilization) and the average utilization.
func (s *InventoryService) DashboardSummary() (*models.DashboardSummary, error) {
	table, err := s.store.Snapshot()
	if err != nil {
		return nil, err
	}

	snapshots := make([]models.InventorySnapshot, 0, len(table.Products))
	lowStock := 0
	urgent := 0
	utilSum := 0.0
	for _, productID := range table.Products {
		snap, err := s.snapshotFromTable(table, productID)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, *snap)
		if snap.DaysOfStock < 7 {
			lowStock++
		}
		if snap.DaysOfStock < 7 || snap.UtilizationRate > 80 {
			urgent++
		}
		utilSum += snap.UtilizationRate
	}

	avgUtil := 0.0
	if len(snapshots) > 0 {
		avgUtil = utilSum / float64(len(snapshots))
	}

	return &models.DashboardSummary{
		Products:          snapshots,
		TotalProducts:     len(snapshots),
		LowStockItems:     lowStock,
		UrgentProcurement: urgent,
		AvgUtilization:    round1(avgUtil),
	}, nil
}

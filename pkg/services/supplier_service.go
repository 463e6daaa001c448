package services

import (
	"sort"
	"strings"

	"stockcast-api/pkg/models"
)

// Product categories for supplier dispatch.
const (
	categoryTech      = "tech"
	categoryFurniture = "furniture"
	categoryOffice    = "office"
	categoryGeneric   = "generic"
)

var categoryKeywords = map[string][]string{
	categoryTech:      {"laptop", "computer", "smartphone", "tablet", "monitor"},
	categoryFurniture: {"chair", "desk", "table", "furniture", "lamp"},
	categoryOffice:    {"mouse", "keyboard", "pen", "paper", "notebook", "stapler"},
}

// Evaluation order matters: "notebook" is office supplies even though a
// notebook computer would be tech.
var categoryOrder = []string{categoryTech, categoryFurniture, categoryOffice}

var supplierCatalog = map[string][]models.Supplier{
	categoryTech: {
		{SupplierID: "TECH001", Name: "TechCorp", BasePrice: 800, LeadTime: 7, Reliability: 0.95},
		{SupplierID: "TECH002", Name: "ElectroWorld", BasePrice: 750, LeadTime: 10, Reliability: 0.90},
		{SupplierID: "TECH003", Name: "GadgetHub", BasePrice: 850, LeadTime: 5, Reliability: 0.88},
	},
	categoryFurniture: {
		{SupplierID: "FURN001", Name: "FurniturePlus", BasePrice: 120, LeadTime: 14, Reliability: 0.92},
		{SupplierID: "FURN002", Name: "OfficeSupplies Co.", BasePrice: 150, LeadTime: 10, Reliability: 0.85},
		{SupplierID: "FURN003", Name: "HomeEssentials", BasePrice: 100, LeadTime: 21, Reliability: 0.78},
	},
	categoryOffice: {
		{SupplierID: "OFF001", Name: "OfficeDepot", BasePrice: 25, LeadTime: 5, Reliability: 0.96},
		{SupplierID: "OFF002", Name: "SupplyChain Pro", BasePrice: 30, LeadTime: 3, Reliability: 0.94},
		{SupplierID: "OFF003", Name: "BudgetOffice", BasePrice: 20, LeadTime: 7, Reliability: 0.82},
	},
	categoryGeneric: {
		{SupplierID: "GEN001", Name: "GeneralSupplier Co.", BasePrice: 50, LeadTime: 10, Reliability: 0.85},
		{SupplierID: "GEN002", Name: "ReliableGoods Inc.", BasePrice: 60, LeadTime: 7, Reliability: 0.88},
		{SupplierID: "GEN003", Name: "QuickShip Ltd.", BasePrice: 70, LeadTime: 5, Reliability: 0.90},
	},
}

// SupplierService maps products to candidate suppliers and ranks them.
// Suppliers are a static in-process catalog, recomputed per request and
// never persisted.
type SupplierService struct{}

// NewSupplierService creates a SupplierService.
func NewSupplierService() *SupplierService {
	return &SupplierService{}
}

// Categorize maps a product name to its supplier category by
// case-insensitive keyword match.
func (s *SupplierService) Categorize(productName string) string {
	lower := strings.ToLower(productName)
	for _, cat := range categoryOrder {
		for _, kw := range categoryKeywords[cat] {
			if strings.Contains(lower, kw) {
				return cat
			}
		}
	}
	return categoryGeneric
}

// SuppliersFor returns the three candidate suppliers for a product.
func (s *SupplierService) SuppliersFor(productName string) []models.Supplier {
	catalog := supplierCatalog[s.Categorize(productName)]
	out := make([]models.Supplier, len(catalog))
	copy(out, catalog)
	return out
}

// RankSuppliers scores suppliers (reliability 40%, price 30%, lead time
// 30%) and sorts them by descending score. The sort is stable so ties keep
// catalog order.
func (s *SupplierService) RankSuppliers(suppliers []models.Supplier) []models.ScoredSupplier {
	scored := make([]models.ScoredSupplier, 0, len(suppliers))
	for _, sup := range suppliers {
		priceScore := 0.0
		if sup.BasePrice > 0 {
			priceScore = 100 / sup.BasePrice
		}
		leadTimeScore := 0.0
		if sup.LeadTime > 0 {
			leadTimeScore = 100 / float64(sup.LeadTime)
		}
		score := 0.4*(sup.Reliability*100) + 0.3*priceScore + 0.3*leadTimeScore
		scored = append(scored, models.ScoredSupplier{Supplier: sup, Score: score})
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	return scored
}

// BestForEOQ picks the supplier the EOQ optimizer orders from, maximizing
// reliability*0.6 + (1/price)*0.4. First best wins on ties.
func (s *SupplierService) BestForEOQ(suppliers []models.Supplier) models.Supplier {
	best := suppliers[0]
	bestScore := eoqSupplierScore(best)
	for _, sup := range suppliers[1:] {
		if score := eoqSupplierScore(sup); score > bestScore {
			best = sup
			bestScore = score
		}
	}
	return best
}

func eoqSupplierScore(sup models.Supplier) float64 {
	priceScore := 0.0
	if sup.BasePrice > 0 {
		priceScore = 1 / sup.BasePrice
	}
	return sup.Reliability*0.6 + priceScore*0.4
}

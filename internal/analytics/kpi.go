package analytics

import (
	"sort"

	"revpulse/pkg/contracts/domain"
)

// ComputeKPIs derives the scalar summary statistics from the canonical
// table. KPIs whose source column is absent are left nil, never defaulted
// to zero or an empty string.
func ComputeKPIs(table *domain.TransactionTable) domain.KPISet {
	kpis := domain.KPISet{
		TotalRevenue:     table.TotalRevenue(),
		TransactionCount: len(table.Rows),
	}
	if kpis.TransactionCount > 0 {
		kpis.AvgOrderValue = kpis.TotalRevenue / float64(kpis.TransactionCount)
	}

	if table.HasCountry {
		if top := topCategory(table, func(tx domain.Transaction) string { return tx.Country }); top != nil {
			kpis.TopCountry = &top.Label
			kpis.TopCountryRevenue = &top.Revenue
		}
	}
	if table.HasDescription {
		if top := topCategory(table, func(tx domain.Transaction) string { return tx.Description }); top != nil {
			kpis.TopProduct = &top.Label
			kpis.TopProductRevenue = &top.Revenue
		}
	}
	if table.HasCustomerID {
		count := uniqueCustomers(table)
		kpis.UniqueCustomers = &count
	}

	return kpis
}

// rankCategories sums revenue per category label and returns all categories
// sorted descending by revenue. Ties are broken by ascending label so the
// ranking is deterministic regardless of map iteration order.
func rankCategories(table *domain.TransactionTable, label func(domain.Transaction) string) []domain.CategoryRevenue {
	totals := make(map[string]float64)
	for _, tx := range table.Rows {
		totals[label(tx)] += tx.Revenue
	}

	ranked := make([]domain.CategoryRevenue, 0, len(totals))
	for name, revenue := range totals {
		ranked = append(ranked, domain.CategoryRevenue{Label: name, Revenue: revenue})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Revenue != ranked[j].Revenue {
			return ranked[i].Revenue > ranked[j].Revenue
		}
		return ranked[i].Label < ranked[j].Label
	})
	return ranked
}

// topCategory returns the highest-revenue category, or nil for an empty
// table.
func topCategory(table *domain.TransactionTable, label func(domain.Transaction) string) *domain.CategoryRevenue {
	ranked := rankCategories(table, label)
	if len(ranked) == 0 {
		return nil
	}
	return &ranked[0]
}

// uniqueCustomers counts distinct non-empty customer identifiers.
func uniqueCustomers(table *domain.TransactionTable) int {
	seen := make(map[string]struct{})
	for _, tx := range table.Rows {
		if tx.CustomerID != "" {
			seen[tx.CustomerID] = struct{}{}
		}
	}
	return len(seen)
}

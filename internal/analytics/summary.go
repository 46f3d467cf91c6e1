package analytics

import (
	"revpulse/pkg/contracts/domain"
)

// recentTrendWeeks is the fixed length of the recent-trend window.
const recentTrendWeeks = 8

// topCategoryLimit bounds the product and country breakdowns.
const topCategoryLimit = 10

// BuildSummary assembles the immutable summary object from the canonical
// table. The weekly series is aggregated once and shared between the trend
// window and the anomaly detector; the top-10 breakdowns are computed
// independently of the anomaly pipeline.
func BuildSummary(table *domain.TransactionTable, report domain.DropReport, contamination float64) (domain.Summary, []domain.WeeklyPoint, error) {
	if table.IsEmpty() {
		return domain.Summary{
			RecentTrend:  []domain.WeeklyPoint{},
			Anomalies:    []domain.AnomalyPoint{},
			TopProducts:  []domain.CategoryRevenue{},
			TopCountries: []domain.CategoryRevenue{},
			Dropped:      report,
			Empty:        true,
		}, nil, nil
	}

	weekly := AggregateWeekly(table)

	anomalies, err := DetectAnomalies(weekly, contamination)
	if err != nil {
		return domain.Summary{}, nil, err
	}

	summary := domain.Summary{
		KPIs:         ComputeKPIs(table),
		RecentTrend:  recentTrend(weekly),
		Anomalies:    anomalies,
		TopProducts:  topCategories(table, func(tx domain.Transaction) string { return tx.Description }, table.HasDescription),
		TopCountries: topCategories(table, func(tx domain.Transaction) string { return tx.Country }, table.HasCountry),
		Dropped:      report,
	}
	return summary, weekly, nil
}

// recentTrend copies the last eight weekly points, chronological order,
// fewer when history is shorter. The copy keeps the summary detached from
// the shared weekly slice.
func recentTrend(weekly []domain.WeeklyPoint) []domain.WeeklyPoint {
	start := len(weekly) - recentTrendWeeks
	if start < 0 {
		start = 0
	}
	trend := make([]domain.WeeklyPoint, len(weekly)-start)
	copy(trend, weekly[start:])
	return trend
}

// topCategories returns up to ten categories descending by revenue, or an
// empty slice when the source column is absent.
func topCategories(table *domain.TransactionTable, label func(domain.Transaction) string, present bool) []domain.CategoryRevenue {
	if !present {
		return []domain.CategoryRevenue{}
	}
	ranked := rankCategories(table, label)
	if len(ranked) > topCategoryLimit {
		ranked = ranked[:topCategoryLimit]
	}
	return ranked
}

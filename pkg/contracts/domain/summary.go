package domain

import (
	"time"
)

// WeeklyPoint is one (week-start date, summed revenue) pair. Week starts are
// Mondays; weeks with no transactions are absent, never zero-filled.
type WeeklyPoint struct {
	WeekStart time.Time `json:"week_start"`
	Revenue   float64   `json:"revenue"`
}

// AnomalyPoint is a weekly revenue point the detector flagged as an outlier.
// Score is the decision value relative to the contamination threshold;
// negative means anomalous, and more negative means more extreme.
type AnomalyPoint struct {
	WeekStart time.Time `json:"week_start"`
	Revenue   float64   `json:"revenue"`
	Score     float64   `json:"score"`
}

// CategoryRevenue is a category label with its summed revenue, used for the
// top-product and top-country breakdowns.
type CategoryRevenue struct {
	Label   string  `json:"label"`
	Revenue float64 `json:"revenue"`
}

// KPISet holds the scalar summary statistics computed from the canonical
// table. Pointer fields are nil when the source column was absent from the
// input; they are never defaulted to zero or empty strings.
type KPISet struct {
	TotalRevenue      float64  `json:"total_revenue"`
	TransactionCount  int      `json:"transaction_count"`
	AvgOrderValue     float64  `json:"avg_order_value"`
	TopCountry        *string  `json:"top_country"`
	TopCountryRevenue *float64 `json:"top_country_revenue"`
	TopProduct        *string  `json:"top_product"`
	TopProductRevenue *float64 `json:"top_product_revenue"`
	UniqueCustomers   *int     `json:"unique_customers"`
}

// Summary is the single structured result handed to presentation and
// narration collaborators. It carries only aggregates, never
// transaction-level rows, and is not mutated after it is built.
type Summary struct {
	KPIs         KPISet            `json:"core_kpis"`
	RecentTrend  []WeeklyPoint     `json:"recent_trend"`
	Anomalies    []AnomalyPoint    `json:"anomalies"`
	TopProducts  []CategoryRevenue `json:"top_products"`
	TopCountries []CategoryRevenue `json:"top_countries"`
	Dropped      DropReport        `json:"dropped"`
	Empty        bool              `json:"empty"`
}

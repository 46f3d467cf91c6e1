package analytics

import (
	"sort"
	"time"

	"revpulse/pkg/contracts/domain"
)

// AggregateWeekly reduces the canonical table to one revenue total per
// Monday-start calendar week, ordered ascending by week start. Weeks with
// no transactions are absent from the output; consumers must not assume
// week continuity.
func AggregateWeekly(table *domain.TransactionTable) []domain.WeeklyPoint {
	if table.IsEmpty() {
		return nil
	}

	totals := make(map[time.Time]float64)
	for _, tx := range table.Rows {
		totals[weekStart(tx.InvoiceDate)] += tx.Revenue
	}

	points := make([]domain.WeeklyPoint, 0, len(totals))
	for start, revenue := range totals {
		points = append(points, domain.WeeklyPoint{WeekStart: start, Revenue: revenue})
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].WeekStart.Before(points[j].WeekStart)
	})
	return points
}

// weekStart returns the Monday of the week containing t, at midnight in
// t's location. A timestamp on the boundary belongs to the week containing
// its own date, never the prior week.
func weekStart(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	year, month, day := t.AddDate(0, 0, -offset).Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"revpulse/pkg/contracts/domain"
)

func fullTx(date time.Time, revenue float64, country, customer, product string) domain.Transaction {
	return domain.Transaction{
		InvoiceDate: date,
		Quantity:    1,
		UnitPrice:   revenue,
		Revenue:     revenue,
		Country:     country,
		CustomerID:  customer,
		Description: product,
	}
}

func TestComputeKPIsTotals(t *testing.T) {
	date := time.Date(2011, 1, 3, 0, 0, 0, 0, time.UTC)
	table := &domain.TransactionTable{
		Rows: []domain.Transaction{
			fullTx(date, 10.5, "UK", "c1", "MUG"),
			fullTx(date, 20.25, "UK", "c2", "MUG"),
			fullTx(date, -5, "France", "c1", "LAMP"),
		},
		HasCountry:     true,
		HasCustomerID:  true,
		HasDescription: true,
	}

	kpis := ComputeKPIs(table)

	assert.Equal(t, 25.75, kpis.TotalRevenue)
	assert.Equal(t, 3, kpis.TransactionCount)
	assert.InDelta(t, 25.75/3, kpis.AvgOrderValue, 1e-12)

	require.NotNil(t, kpis.TopCountry)
	assert.Equal(t, "UK", *kpis.TopCountry)
	assert.Equal(t, 30.75, *kpis.TopCountryRevenue)

	require.NotNil(t, kpis.TopProduct)
	assert.Equal(t, "MUG", *kpis.TopProduct)

	require.NotNil(t, kpis.UniqueCustomers)
	assert.Equal(t, 2, *kpis.UniqueCustomers)
}

func TestComputeKPIsTotalEqualsColumnSum(t *testing.T) {
	date := time.Date(2011, 1, 3, 0, 0, 0, 0, time.UTC)
	var rows []domain.Transaction
	for i := 0; i < 500; i++ {
		rows = append(rows, fullTx(date.AddDate(0, 0, i%90), float64(i)*0.01, "UK", "c", "P"))
	}
	table := &domain.TransactionTable{Rows: rows}

	kpis := ComputeKPIs(table)
	assert.Equal(t, table.TotalRevenue(), kpis.TotalRevenue)
}

func TestComputeKPIsEmptyTable(t *testing.T) {
	kpis := ComputeKPIs(&domain.TransactionTable{})

	assert.Equal(t, 0.0, kpis.TotalRevenue)
	assert.Equal(t, 0, kpis.TransactionCount)
	assert.Equal(t, 0.0, kpis.AvgOrderValue, "no division-by-zero fault on empty input")
}

func TestComputeKPIsMissingOptionalColumns(t *testing.T) {
	date := time.Date(2011, 1, 3, 0, 0, 0, 0, time.UTC)
	table := &domain.TransactionTable{
		Rows: []domain.Transaction{fullTx(date, 10, "", "", "")},
	}

	kpis := ComputeKPIs(table)

	assert.Nil(t, kpis.TopCountry)
	assert.Nil(t, kpis.TopCountryRevenue)
	assert.Nil(t, kpis.TopProduct)
	assert.Nil(t, kpis.TopProductRevenue)
	assert.Nil(t, kpis.UniqueCustomers)
	assert.Equal(t, 10.0, kpis.TotalRevenue, "other KPIs still computed normally")
}

func TestTopCategoryTieBreakLexicographic(t *testing.T) {
	date := time.Date(2011, 1, 3, 0, 0, 0, 0, time.UTC)
	table := &domain.TransactionTable{
		Rows: []domain.Transaction{
			fullTx(date, 50, "Zimbabwe", "c1", "x"),
			fullTx(date, 50, "Austria", "c2", "x"),
			fullTx(date, 50, "Malta", "c3", "x"),
		},
		HasCountry: true,
	}

	// Equal revenue sums resolve to the smallest label.
	top := topCategory(table, func(tx domain.Transaction) string { return tx.Country })
	require.NotNil(t, top)
	assert.Equal(t, "Austria", top.Label)
}

func TestRankCategoriesDescending(t *testing.T) {
	date := time.Date(2011, 1, 3, 0, 0, 0, 0, time.UTC)
	table := &domain.TransactionTable{
		Rows: []domain.Transaction{
			fullTx(date, 10, "A", "", ""),
			fullTx(date, 30, "B", "", ""),
			fullTx(date, 20, "C", "", ""),
		},
	}

	ranked := rankCategories(table, func(tx domain.Transaction) string { return tx.Country })
	require.Len(t, ranked, 3)
	assert.Equal(t, "B", ranked[0].Label)
	assert.Equal(t, "C", ranked[1].Label)
	assert.Equal(t, "A", ranked[2].Label)
}

func TestUniqueCustomersIgnoresEmptyIDs(t *testing.T) {
	date := time.Date(2011, 1, 3, 0, 0, 0, 0, time.UTC)
	table := &domain.TransactionTable{
		Rows: []domain.Transaction{
			fullTx(date, 1, "", "c1", ""),
			fullTx(date, 1, "", "c1", ""),
			fullTx(date, 1, "", "", ""),
			fullTx(date, 1, "", "c2", ""),
		},
		HasCustomerID: true,
	}

	kpis := ComputeKPIs(table)
	require.NotNil(t, kpis.UniqueCustomers)
	assert.Equal(t, 2, *kpis.UniqueCustomers)
}

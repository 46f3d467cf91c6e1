package domain

import (
	"time"
)

// Transaction represents one cleaned sales record with its derived revenue.
type Transaction struct {
	InvoiceDate time.Time `json:"invoice_date"`
	Quantity    float64   `json:"quantity"`
	UnitPrice   float64   `json:"unit_price"`
	Revenue     float64   `json:"revenue"`
	Country     string    `json:"country,omitempty"`
	CustomerID  string    `json:"customer_id,omitempty"`
	Description string    `json:"description,omitempty"`
}

// TransactionTable is the canonical cleaned dataset used by all downstream
// analysis. The Has* flags record which optional columns were present in the
// source; a missing column means the matching KPIs are reported unavailable
// rather than zero.
type TransactionTable struct {
	Rows           []Transaction `json:"rows"`
	HasCountry     bool          `json:"has_country"`
	HasCustomerID  bool          `json:"has_customer_id"`
	HasDescription bool          `json:"has_description"`
}

// IsEmpty reports whether cleaning left no usable rows.
func (t *TransactionTable) IsEmpty() bool {
	return t == nil || len(t.Rows) == 0
}

// TotalRevenue sums the revenue column.
func (t *TransactionTable) TotalRevenue() float64 {
	var total float64
	for _, row := range t.Rows {
		total += row.Revenue
	}
	return total
}

// DropReport counts rows discarded during cleaning, by reason.
// Row-level failures never fail the batch; they are absorbed and counted
// here for diagnostics.
type DropReport struct {
	InputRows   int `json:"input_rows"`
	KeptRows    int `json:"kept_rows"`
	BadDate     int `json:"bad_date"`
	BadQuantity int `json:"bad_quantity"`
	BadPrice    int `json:"bad_price"`
	BadRevenue  int `json:"bad_revenue"`
}

// Dropped returns the total number of discarded rows.
func (d DropReport) Dropped() int {
	return d.BadDate + d.BadQuantity + d.BadPrice + d.BadRevenue
}

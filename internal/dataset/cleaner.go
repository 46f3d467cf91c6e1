package dataset

import (
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"revpulse/internal/config"
	"revpulse/pkg/contracts/domain"
)

// Cleaner validates a raw table against the schema contract and coerces it
// into the canonical transaction table. Rows that fail a required coercion
// are dropped and counted, never repaired; a missing required column fails
// the whole batch with a MissingColumnError.
type Cleaner struct {
	schema config.SchemaConfig
	logger *slog.Logger
}

// NewCleaner creates a cleaner bound to one schema contract.
func NewCleaner(schema config.SchemaConfig, logger *slog.Logger) *Cleaner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cleaner{
		schema: schema,
		logger: logger.With(slog.String("component", "cleaner")),
	}
}

// columnIndices holds the resolved positions of schema columns, -1 when the
// column is absent.
type columnIndices struct {
	invoiceDate int
	quantity    int
	unitPrice   int
	country     int
	customerID  int
	description int
}

// Clean turns a raw table into the canonical transaction table. Output is
// deterministic for identical input: rows keep their source order and no
// wall-clock or randomness is involved. Zero surviving rows is not an
// error; callers check TransactionTable.IsEmpty.
func (c *Cleaner) Clean(raw *RawTable) (*domain.TransactionTable, domain.DropReport, error) {
	report := domain.DropReport{InputRows: len(raw.Rows)}

	cols, err := c.resolveColumns(raw.Header)
	if err != nil {
		return nil, report, err
	}

	table := &domain.TransactionTable{
		Rows:           make([]domain.Transaction, 0, len(raw.Rows)),
		HasCountry:     cols.country != -1,
		HasCustomerID:  cols.customerID != -1,
		HasDescription: cols.description != -1,
	}

	for _, row := range raw.Rows {
		ts, ok := parseTimestamp(cell(row, cols.invoiceDate))
		if !ok {
			report.BadDate++
			continue
		}
		quantity, ok := parseNumber(cell(row, cols.quantity))
		if !ok {
			report.BadQuantity++
			continue
		}
		price, ok := parseNumber(cell(row, cols.unitPrice))
		if !ok {
			report.BadPrice++
			continue
		}

		revenue := quantity * price
		if math.IsNaN(revenue) || math.IsInf(revenue, 0) {
			report.BadRevenue++
			continue
		}

		tx := domain.Transaction{
			InvoiceDate: ts,
			Quantity:    quantity,
			UnitPrice:   price,
			Revenue:     revenue,
		}
		if cols.country != -1 {
			tx.Country = strings.TrimSpace(cell(row, cols.country))
		}
		if cols.customerID != -1 {
			tx.CustomerID = strings.TrimSpace(cell(row, cols.customerID))
		}
		if cols.description != -1 {
			tx.Description = strings.TrimSpace(cell(row, cols.description))
		}
		table.Rows = append(table.Rows, tx)
	}

	report.KeptRows = len(table.Rows)

	c.logger.Info("cleaning complete",
		slog.Int("input_rows", report.InputRows),
		slog.Int("kept_rows", report.KeptRows),
		slog.Int("dropped_rows", report.Dropped()))

	return table, report, nil
}

// resolveColumns maps schema column names to header positions. All three
// required columns must be present; a missing one would drop every row,
// which is indistinguishable from a schema failure and is reported as one.
func (c *Cleaner) resolveColumns(header []string) (columnIndices, error) {
	cols := columnIndices{
		invoiceDate: -1,
		quantity:    -1,
		unitPrice:   -1,
		country:     -1,
		customerID:  -1,
		description: -1,
	}

	for i, name := range header {
		switch {
		case columnsEqual(name, c.schema.InvoiceDateColumn):
			cols.invoiceDate = i
		case columnsEqual(name, c.schema.QuantityColumn):
			cols.quantity = i
		case columnsEqual(name, c.schema.UnitPriceColumn):
			cols.unitPrice = i
		case columnsEqual(name, c.schema.CountryColumn):
			cols.country = i
		case columnsEqual(name, c.schema.CustomerIDColumn):
			cols.customerID = i
		case columnsEqual(name, c.schema.DescriptionColumn):
			cols.description = i
		}
	}

	switch {
	case cols.invoiceDate == -1:
		return cols, &MissingColumnError{Column: c.schema.InvoiceDateColumn}
	case cols.quantity == -1:
		return cols, &MissingColumnError{Column: c.schema.QuantityColumn}
	case cols.unitPrice == -1:
		return cols, &MissingColumnError{Column: c.schema.UnitPriceColumn}
	}
	return cols, nil
}

// cell returns the trimmed cell at index i, or "" when out of range.
func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// timestampLayouts are tried in order. All are zone-less; dates are taken
// at face value.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/2006",
	"1/2/06 15:04",
	"1/2/06",
	"02-01-2006 15:04",
	"02.01.2006 15:04",
}

// excelEpoch is day zero of the 1900 date system (serial 1 = 1900-01-01,
// with the historical Lotus leap-year bug already accounted for).
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// parseTimestamp coerces a cell to a timestamp. Text layouts are tried
// first; a purely numeric cell is treated as an Excel serial day count.
func parseTimestamp(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}

	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, true
		}
	}

	if serial, err := strconv.ParseFloat(value, 64); err == nil && serial > 0 && serial < 300000 {
		days := math.Floor(serial)
		frac := serial - days
		ts := excelEpoch.AddDate(0, 0, int(days))
		return ts.Add(time.Duration(frac * 24 * float64(time.Hour))), true
	}

	return time.Time{}, false
}

// parseNumber coerces a cell to a finite float. Thousands separators are
// tolerated, as spreadsheet exports frequently include them.
func parseNumber(value string) (float64, bool) {
	if value == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(value, ",", ""), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

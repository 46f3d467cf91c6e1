package dataset

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// RawTable is an uploaded file decoded into rows of text cells, before any
// schema validation or type coercion.
type RawTable struct {
	Header []string
	Rows   [][]string
}

// Loader decodes uploaded files into raw tables. It recognizes delimited
// text (.csv) and spreadsheet (.xlsx, .xls) inputs; anything else is an
// UnsupportedFormatError before the cleaner ever runs.
type Loader struct {
	dateColumn string
	logger     *slog.Logger
}

// NewLoader creates a loader. dateColumn is the required timestamp column
// name, used to locate the data sheet inside spreadsheet files.
func NewLoader(dateColumn string, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		dateColumn: dateColumn,
		logger:     logger.With(slog.String("component", "loader")),
	}
}

// Load decodes the raw bytes of an uploaded file. The filename is only used
// to pick the decoder; content is never sniffed beyond that.
func (l *Loader) Load(name string, data []byte) (*RawTable, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return l.loadCSV(data)
	case ".xlsx", ".xls":
		return l.loadExcel(data)
	default:
		return nil, &UnsupportedFormatError{Name: name}
	}
}

// loadCSV reads delimited text. A UTF-8 BOM is stripped and ragged rows are
// tolerated; short rows are padded to the header width so downstream index
// lookups stay in bounds.
func (l *Loader) loadCSV(data []byte) (*RawTable, error) {
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(records) == 0 {
		return &RawTable{}, nil
	}

	header := records[0]
	rows := records[1:]
	for i, row := range rows {
		if len(row) < len(header) {
			padded := make([]string, len(header))
			copy(padded, row)
			rows[i] = padded
		}
	}

	l.logger.Debug("CSV loaded",
		slog.Int("columns", len(header)),
		slog.Int("rows", len(rows)))

	return &RawTable{Header: header, Rows: rows}, nil
}

// loadExcel reads a spreadsheet and picks the first sheet whose leading rows
// contain the required timestamp column.
func (l *Loader) loadExcel(data []byte) (*RawTable, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer f.Close()

	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil || len(rows) == 0 {
			continue
		}

		headerRow := l.findHeaderRow(rows)
		if headerRow == -1 {
			continue
		}

		l.logger.Debug("found data sheet",
			slog.String("sheet", sheet),
			slog.Int("header_row", headerRow),
			slog.Int("rows", len(rows)-headerRow-1))

		header := rows[headerRow]
		dataRows := rows[headerRow+1:]
		for i, row := range dataRows {
			if len(row) < len(header) {
				padded := make([]string, len(header))
				copy(padded, row)
				dataRows[i] = padded
			}
		}
		return &RawTable{Header: header, Rows: dataRows}, nil
	}

	return nil, &MissingColumnError{Column: l.dateColumn}
}

// findHeaderRow scans the first rows of a sheet for one that names the
// timestamp column. Some exports put titles or blank rows above the header.
func (l *Loader) findHeaderRow(rows [][]string) int {
	limit := len(rows)
	if limit > 10 {
		limit = 10
	}
	for i := 0; i < limit; i++ {
		for _, cell := range rows[i] {
			if columnsEqual(cell, l.dateColumn) {
				return i
			}
		}
	}
	return -1
}

// columnsEqual compares column names ignoring case, surrounding whitespace
// and a leading BOM.
func columnsEqual(a, b string) bool {
	return normalizeColumn(a) == normalizeColumn(b)
}

func normalizeColumn(name string) string {
	name = strings.TrimPrefix(name, "\ufeff")
	return strings.ToLower(strings.TrimSpace(name))
}

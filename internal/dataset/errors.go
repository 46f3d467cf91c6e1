package dataset

import (
	"fmt"
)

// UnsupportedFormatError is returned when an uploaded file is neither
// delimited text nor a spreadsheet. It is fatal for the request.
type UnsupportedFormatError struct {
	Name string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported file format: %s (expected .csv, .xlsx or .xls)", e.Name)
}

// MissingColumnError is returned when a required column is absent from the
// input header. It is fatal for the request; no rows are processed.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("required column %q not found in input", e.Column)
}

// Package dataset turns uploaded transaction files into the canonical
// transaction table.
//
// The Loader decodes delimited text and spreadsheet inputs into a raw
// table of text cells; the Cleaner validates the raw table against the
// schema contract, coerces timestamps and numerics, derives revenue, and
// drops (and counts) rows that fail a required coercion. Fatal conditions
// are a missing required column (MissingColumnError) and an unsupported
// input encoding (UnsupportedFormatError); everything row-level is
// recovered silently and reported through the drop counters.
package dataset

// Package export renders the history table as downloadable CSV and PDF
// reports. It operates purely on the tabular view — the model has no native
// export format of its own.
package export

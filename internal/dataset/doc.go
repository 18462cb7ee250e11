// Package dataset loads the YH application-round table from a spreadsheet.
//
// The source is an Excel workbook (.xlsx) or a CSV export of it. The first
// non-empty row is the header; the Län column is required while Kommun, År
// and Område are optional. A Loader reads the source once per process and
// hands the same read-only *domain.Dataset to every caller.
package dataset

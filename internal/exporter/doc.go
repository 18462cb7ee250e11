// Package exporter serializes filtered views of the YH dataset as CSV.
//
// ToCSV produces the download body served by the dashboard: a header with
// every dataset column followed by the matching rows, UTF-8 without a BOM.
// CSVWriter writes the same content to disk for the command line exporter and
// can prefix a UTF-8 BOM so Excel detects the encoding of Swedish characters.
//
// Example usage:
//
//	view := filter.Apply(ds, domain.FilterState{County: "Skåne län"})
//	body, err := exporter.ToCSV(view)
//
//	w := exporter.NewCSVWriter(logger)
//	path, err := w.WriteFile("out/", view, exporter.WriteOptions{BOMPrefix: true})
package exporter

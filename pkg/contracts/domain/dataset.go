package domain

import (
	"time"
)

// Well-known column headers of the YH application-round workbook
const (
	ColumnCounty       = "Län"
	ColumnMunicipality = "Kommun"
	ColumnYear         = "År"
	ColumnArea         = "Område"
)

// Record represents one row of the source table.
// Values are positionally aligned with Dataset.Columns.
type Record struct {
	Values  []string `json:"values"`
	Year    int      `json:"year,omitempty"`
	HasYear bool     `json:"has_year"`
}

// Value returns the cell at column index idx, or "" when idx is out of range
func (r Record) Value(idx int) string {
	if idx < 0 || idx >= len(r.Values) {
		return ""
	}
	return r.Values[idx]
}

// HasValidYear reports whether the row carries a year inside the plausible window
func (r Record) HasValidYear() bool {
	return r.HasYear && ValidYear(r.Year)
}

// Dataset is the full table loaded from the source spreadsheet.
// It is read-only once the loader has returned it.
type Dataset struct {
	Columns    []string  `json:"columns"`
	Records    []Record  `json:"-"`
	SourcePath string    `json:"source_path"`
	LoadedAt   time.Time `json:"loaded_at"`

	CountyIndex       int `json:"-"`
	MunicipalityIndex int `json:"-"`
	YearIndex         int `json:"-"`
	AreaIndex         int `json:"-"`
}

// NewDataset builds a dataset and resolves the well-known column indexes
func NewDataset(columns []string, records []Record) *Dataset {
	ds := &Dataset{
		Columns:           columns,
		Records:           records,
		CountyIndex:       -1,
		MunicipalityIndex: -1,
		YearIndex:         -1,
		AreaIndex:         -1,
	}
	for i, name := range columns {
		switch name {
		case ColumnCounty:
			if ds.CountyIndex < 0 {
				ds.CountyIndex = i
			}
		case ColumnMunicipality:
			if ds.MunicipalityIndex < 0 {
				ds.MunicipalityIndex = i
			}
		case ColumnYear:
			if ds.YearIndex < 0 {
				ds.YearIndex = i
			}
		case ColumnArea:
			if ds.AreaIndex < 0 {
				ds.AreaIndex = i
			}
		}
	}
	return ds
}

// Len returns the number of records
func (d *Dataset) Len() int {
	return len(d.Records)
}

// HasMunicipality reports whether the Kommun column is present
func (d *Dataset) HasMunicipality() bool {
	return d.MunicipalityIndex >= 0
}

// HasYear reports whether the År column is present
func (d *Dataset) HasYear() bool {
	return d.YearIndex >= 0
}

// HasArea reports whether the Område column is present
func (d *Dataset) HasArea() bool {
	return d.AreaIndex >= 0
}

// County returns the county value of r
func (d *Dataset) County(r Record) string {
	return r.Value(d.CountyIndex)
}

// Municipality returns the municipality value of r
func (d *Dataset) Municipality(r Record) string {
	return r.Value(d.MunicipalityIndex)
}

// Area returns the area value of r
func (d *Dataset) Area(r Record) string {
	return r.Value(d.AreaIndex)
}

// DatasetSummary is the home page overview of the loaded dataset
type DatasetSummary struct {
	SourcePath string    `json:"source_path"`
	LoadedAt   time.Time `json:"loaded_at"`
	RowCount   int       `json:"row_count"`
	Columns    []string  `json:"columns"`
	Counties   []string  `json:"counties"`
	Areas      []string  `json:"areas,omitempty"`
}

package filter

import (
	"sort"

	"yhdash/pkg/contracts/domain"
)

// CountyOptions returns the distinct, sorted county values of the whole dataset
func CountyOptions(ds *domain.Dataset) []string {
	return distinct(ds.Records, ds.County)
}

// MunicipalityOptions returns the distinct, sorted municipalities of the rows
// in county. It returns nil when the dataset has no Kommun column.
func MunicipalityOptions(ds *domain.Dataset, county string) []string {
	if !ds.HasMunicipality() {
		return nil
	}
	return distinct(ByCounty(ds, ds.Records, county), ds.Municipality)
}

// AreaOptions returns the distinct, sorted Område values, or nil when the
// column is absent
func AreaOptions(ds *domain.Dataset) []string {
	if !ds.HasArea() {
		return nil
	}
	return distinct(ds.Records, ds.Area)
}

// YearBounds returns the min/max year of the rows matching county and
// municipality. The year range itself is not applied.
func YearBounds(ds *domain.Dataset, county, municipality string) domain.YearBounds {
	if !ds.HasYear() {
		return domain.YearBounds{}
	}
	rows := ByCounty(ds, ds.Records, county)
	rows = ByMunicipality(ds, rows, municipality)
	return observedYears(rows)
}

// DeriveOptions bundles every candidate list for the given selection
func DeriveOptions(ds *domain.Dataset, state domain.FilterState) domain.Options {
	opts := domain.Options{
		Counties:        CountyOptions(ds),
		HasMunicipality: ds.HasMunicipality(),
		HasYear:         ds.HasYear(),
	}
	if opts.HasMunicipality {
		opts.Municipalities = MunicipalityOptions(ds, state.County)
	}
	if opts.HasYear {
		opts.YearBounds = YearBounds(ds, state.County, state.Municipality)
		opts.Years = opts.YearBounds.Years()
	}
	return opts
}

// observedYears computes the year span of rows, ignoring malformed years
func observedYears(rows []domain.Record) domain.YearBounds {
	var b domain.YearBounds
	for _, r := range rows {
		if !r.HasValidYear() {
			continue
		}
		if !b.Valid {
			b = domain.YearBounds{Min: r.Year, Max: r.Year, Valid: true}
			continue
		}
		if r.Year < b.Min {
			b.Min = r.Year
		}
		if r.Year > b.Max {
			b.Max = r.Year
		}
	}
	return b
}

// distinct collects the non-empty values produced by field, sorted ascending
func distinct(rows []domain.Record, field func(domain.Record) string) []string {
	seen := make(map[string]struct{})
	values := make([]string, 0)
	for _, r := range rows {
		v := field(r)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}

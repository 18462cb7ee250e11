package filter

import (
	"yhdash/pkg/contracts/domain"
)

// Apply restricts ds to the rows matching state.
// Steps run in a fixed order and each narrows the previous result; an empty
// intermediate result is carried through rather than short-circuited.
func Apply(ds *domain.Dataset, state domain.FilterState) domain.FilteredView {
	view := domain.FilteredView{
		Columns: ds.Columns,
		State:   state,
	}

	rows := ByCounty(ds, ds.Records, state.County)
	rows = ByMunicipality(ds, rows, state.Municipality)

	bounds := observedYears(rows)
	view.YearBounds = bounds
	rows = ByYearRange(ds, rows, bounds, state.YearRange)

	view.Records = make([]domain.Record, len(rows))
	copy(view.Records, rows)
	return view
}

// ByCounty keeps rows whose county equals county exactly.
// An unselected county passes rows through unchanged.
func ByCounty(ds *domain.Dataset, rows []domain.Record, county string) []domain.Record {
	if !domain.IsSelected(county) {
		return rows
	}
	return keep(rows, func(r domain.Record) bool {
		return ds.County(r) == county
	})
}

// ByMunicipality keeps rows whose municipality equals municipality exactly.
// Datasets without a Kommun column skip the step.
func ByMunicipality(ds *domain.Dataset, rows []domain.Record, municipality string) []domain.Record {
	if !ds.HasMunicipality() || !domain.IsSelected(municipality) {
		return rows
	}
	return keep(rows, func(r domain.Record) bool {
		return ds.Municipality(r) == municipality
	})
}

// ByYearRange keeps rows whose year lies in the selected range.
// The step is a no-op unless the dataset has a year column and bounds span
// more than one year. A nil selection means the full observed range; rows
// without a parsable year never satisfy an active range.
func ByYearRange(ds *domain.Dataset, rows []domain.Record, bounds domain.YearBounds, selected *domain.YearRange) []domain.Record {
	if !ds.HasYear() || !bounds.Selectable() {
		return rows
	}
	yr := domain.YearRange{Min: bounds.Min, Max: bounds.Max}
	if selected != nil {
		yr = *selected
	}
	return keep(rows, func(r domain.Record) bool {
		return r.HasValidYear() && yr.Contains(r.Year)
	})
}

// keep returns the rows satisfying pred in their original order.
// The result never aliases the input's backing array.
func keep(rows []domain.Record, pred func(domain.Record) bool) []domain.Record {
	out := make([]domain.Record, 0, len(rows))
	for _, r := range rows {
		if pred(r) {
			out = append(out, r)
		}
	}
	return out
}

package domain

// NoFilter is the selector value meaning "do not filter on this column"
const NoFilter = "Alla"

// YearRange is an inclusive [Min, Max] year interval
type YearRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Contains reports whether year lies inside the range, both ends inclusive
func (r YearRange) Contains(year int) bool {
	return r.Min <= year && year <= r.Max
}

// FilterState is the complete set of user-selected filter values.
// An empty or NoFilter county/municipality disables that step; a nil
// YearRange selects the full observed range.
type FilterState struct {
	County       string     `json:"county,omitempty"`
	Municipality string     `json:"municipality,omitempty"`
	YearRange    *YearRange `json:"year_range,omitempty"`
}

// CountySelected reports whether the county filter is active
func (s FilterState) CountySelected() bool {
	return IsSelected(s.County)
}

// MunicipalitySelected reports whether the municipality filter is active
func (s FilterState) MunicipalitySelected() bool {
	return IsSelected(s.Municipality)
}

// IsSelected reports whether a selector value is an actual selection
func IsSelected(v string) bool {
	return v != "" && v != NoFilter
}

// Plausible values for an År cell. Anything outside is treated as malformed.
const (
	MinYear = 1000
	MaxYear = 9999
)

// ValidYear reports whether y lies inside [MinYear, MaxYear]
func ValidYear(y int) bool {
	return y >= MinYear && y <= MaxYear
}

// YearBounds describes the observed year span of a subset of the dataset
type YearBounds struct {
	Min int `json:"min"`
	Max int `json:"max"`
	// Valid is false when the subset has no parsable year
	Valid bool `json:"valid"`
}

// Selectable reports whether a range control makes sense (more than one year)
func (b YearBounds) Selectable() bool {
	return b.Valid && b.Min < b.Max
}

// Covers reports whether r lies entirely inside selectable bounds
func (b YearBounds) Covers(r YearRange) bool {
	return b.Selectable() && r.Min >= b.Min && r.Max <= b.Max
}

// Years lists every year from Min to Max inclusive. Bounds outside the
// plausible year window yield nil.
func (b YearBounds) Years() []int {
	if !b.Valid || b.Min > b.Max || !ValidYear(b.Min) || !ValidYear(b.Max) {
		return nil
	}
	years := make([]int, 0, b.Max-b.Min+1)
	for y := b.Min; y <= b.Max; y++ {
		years = append(years, y)
	}
	return years
}

// FilteredView is the dataset restricted to the rows matching a FilterState
type FilteredView struct {
	Columns    []string    `json:"columns"`
	Records    []Record    `json:"-"`
	State      FilterState `json:"state"`
	YearBounds YearBounds  `json:"year_bounds"`
}

// Len returns the number of rows in the view
func (v *FilteredView) Len() int {
	return len(v.Records)
}

// Empty reports whether no rows matched
func (v *FilteredView) Empty() bool {
	return len(v.Records) == 0
}

// Rows returns the raw cell values of every record in view order
func (v *FilteredView) Rows() [][]string {
	rows := make([][]string, len(v.Records))
	for i, r := range v.Records {
		rows[i] = r.Values
	}
	return rows
}

// Options are the candidate values offered to the presentation layer
type Options struct {
	Counties        []string   `json:"counties"`
	Municipalities  []string   `json:"municipalities,omitempty"`
	HasMunicipality bool       `json:"has_municipality"`
	YearBounds      YearBounds `json:"year_bounds"`
	HasYear         bool       `json:"has_year"`
	Years           []int      `json:"years,omitempty"`
}

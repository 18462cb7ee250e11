// Package filter implements the cascading dashboard filters over a loaded
// dataset: county, then municipality, then an inclusive year range.
//
// Everything here is a pure function of its inputs. The dataset is never
// mutated and no result is cached, so the same (dataset, state) pair always
// yields the same view.
//
//	view := filter.Apply(ds, domain.FilterState{County: "Stockholms län"})
//	opts := filter.DeriveOptions(ds, view.State)
//
// Option derivation mirrors the pipeline: municipality candidates come from
// the county-restricted rows and year bounds from the county+municipality
// restricted rows, so a selector can never offer a value that the upstream
// selection already excluded.
package filter

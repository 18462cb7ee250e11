package services

import (
	"context"
	"strconv"

	"github.com/stretchr/testify/mock"

	"yhdash/pkg/contracts/domain"
)

// MockDatasetLoader is a mock for the DatasetLoader interface
type MockDatasetLoader struct {
	mock.Mock
}

func (m *MockDatasetLoader) Load(ctx context.Context) (*domain.Dataset, error) {
	args := m.Called(ctx)
	ds, _ := args.Get(0).(*domain.Dataset)
	return ds, args.Error(1)
}

func (m *MockDatasetLoader) Loaded() bool {
	return m.Called().Bool(0)
}

func (m *MockDatasetLoader) Path() string {
	return m.Called().String(0)
}

// MockRecorder is a mock for the Recorder interface
type MockRecorder struct {
	mock.Mock
}

func (m *MockRecorder) RecordFilter(ctx context.Context, state domain.FilterState, rows int) {
	m.Called(ctx, state, rows)
}

func (m *MockRecorder) RecordExport(ctx context.Context, rows, size int, err error) {
	m.Called(ctx, rows, size, err)
}

// scenarioDataset is the three-row county/municipality/year fixture
func scenarioDataset() *domain.Dataset {
	columns := []string{domain.ColumnCounty, domain.ColumnMunicipality, domain.ColumnYear, domain.ColumnArea}
	raw := [][]string{
		{"A", "X", "2020", "Data/IT"},
		{"A", "Y", "2021", "Ekonomi"},
		{"B", "Z", "2020", "Data/IT"},
	}
	records := make([]domain.Record, len(raw))
	for i, row := range raw {
		year, err := strconv.Atoi(row[2])
		records[i] = domain.Record{Values: row, Year: year, HasYear: err == nil}
	}
	return domain.NewDataset(columns, records)
}

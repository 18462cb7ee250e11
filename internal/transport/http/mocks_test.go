package http

import (
	"bytes"
	"context"
	"log/slog"
	"strconv"

	"github.com/stretchr/testify/mock"

	apierrors "yhdash/internal/errors"
	"yhdash/internal/filter"
	"yhdash/internal/services"
	"yhdash/pkg/contracts/domain"
)

// MockDashboardService is a mock implementation of DashboardServiceInterface
type MockDashboardService struct {
	mock.Mock
}

func (m *MockDashboardService) Options(ctx context.Context, state domain.FilterState) (domain.Options, error) {
	args := m.Called(ctx, state)
	return args.Get(0).(domain.Options), args.Error(1)
}

func (m *MockDashboardService) Filter(ctx context.Context, state domain.FilterState) (domain.FilteredView, error) {
	args := m.Called(ctx, state)
	return args.Get(0).(domain.FilteredView), args.Error(1)
}

func (m *MockDashboardService) Export(ctx context.Context, state domain.FilterState) (*services.ExportResult, error) {
	args := m.Called(ctx, state)
	result, _ := args.Get(0).(*services.ExportResult)
	return result, args.Error(1)
}

func (m *MockDashboardService) Summary(ctx context.Context) (domain.DatasetSummary, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.DatasetSummary), args.Error(1)
}

func testLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}

func testErrorHandler() *apierrors.ErrorHandler {
	logger, _ := testLogger()
	return apierrors.NewErrorHandler(logger, false)
}

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

func scenarioView(state domain.FilterState) domain.FilteredView {
	return filter.Apply(scenarioDataset(), state)
}

func scenarioOptions(state domain.FilterState) domain.Options {
	return filter.DeriveOptions(scenarioDataset(), state)
}

func dataLoadError() error {
	return apierrors.NewDataLoadError("dataset could not be loaded", services.ErrDatasetUnavailable)
}

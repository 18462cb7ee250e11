package http

import (
	"context"

	"yhdash/internal/services"
	"yhdash/pkg/contracts/domain"
)

// DashboardServiceInterface defines the dashboard operations the handlers need
type DashboardServiceInterface interface {
	Options(ctx context.Context, state domain.FilterState) (domain.Options, error)
	Filter(ctx context.Context, state domain.FilterState) (domain.FilteredView, error)
	Export(ctx context.Context, state domain.FilterState) (*services.ExportResult, error)
	Summary(ctx context.Context) (domain.DatasetSummary, error)
}

package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"yhdash/internal/config"
	"yhdash/internal/filter"
	"yhdash/pkg/contracts/domain"
)

func newHTMLHandler(t *testing.T, svc DashboardServiceInterface) *HTMLHandler {
	t.Helper()
	logger, _ := testLogger()
	h, err := NewHTMLHandler(svc, nil, logger, testErrorHandler())
	require.NoError(t, err)
	return h
}

func TestHTMLHandler_Home(t *testing.T) {
	tests := []struct {
		name      string
		summary   domain.DatasetSummary
		wantAreas bool
	}{
		{
			name: "with area column",
			summary: domain.DatasetSummary{
				Columns:  []string{"Län", "Område"},
				Counties: []string{"Skåne", "Stockholm"},
				Areas:    []string{"Data/IT", "Ekonomi"},
			},
			wantAreas: true,
		},
		{
			name: "without area column",
			summary: domain.DatasetSummary{
				Columns:  []string{"Län"},
				Counties: []string{"Skåne", "Stockholm"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockDashboardService)
			svc.On("Summary", mock.Anything).Return(tt.summary, nil)

			rec := httptest.NewRecorder()
			newHTMLHandler(t, svc).Home(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))

			body := rec.Body.String()
			assert.Contains(t, body, "Välkommen till Yrkeshögskoleportalen")
			assert.Contains(t, body, "Län i färgkartan")
			assert.Contains(t, body, "Skåne, Stockholm")
			assert.Contains(t, body, config.MYHProgramResultsURL)
			assert.Contains(t, body, config.MYHCourseResultsURL)
			assert.Equal(t, tt.wantAreas, strings.Contains(body, "Områden"))
		})
	}
}

func TestHTMLHandler_Dashboard(t *testing.T) {
	state := domain.FilterState{County: "A"}
	svc := new(MockDashboardService)
	svc.On("Options", mock.Anything, state).Return(scenarioOptions(state), nil)
	svc.On("Filter", mock.Anything, state).Return(scenarioView(state), nil)

	rec := httptest.NewRecorder()
	newHTMLHandler(t, svc).Dashboard(rec, httptest.NewRequest(http.MethodGet, "/dashboard?county=A", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Filtered rows: 2")
	assert.Contains(t, body, `<option value="A" selected>A</option>`)
	assert.Contains(t, body, `<option value="X">X</option>`)
	assert.Contains(t, body, `name="year_min"`)
	assert.Contains(t, body, "<td>Ekonomi</td>")
	assert.Contains(t, body, `href="/api/dataset/export?county=A"`)
	assert.NotContains(t, body, EmptyViewMessage)
}

func TestHTMLHandler_DashboardEmptyView(t *testing.T) {
	state := domain.FilterState{County: "C"}
	svc := new(MockDashboardService)
	svc.On("Options", mock.Anything, state).Return(scenarioOptions(state), nil)
	svc.On("Filter", mock.Anything, state).Return(scenarioView(state), nil)

	rec := httptest.NewRecorder()
	newHTMLHandler(t, svc).Dashboard(rec, httptest.NewRequest(http.MethodGet, "/dashboard?county=C", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Filtered rows: 0")
	assert.Contains(t, body, EmptyViewMessage)
	assert.NotContains(t, body, "<table>")
	// no year selector without observed years
	assert.NotContains(t, body, `name="year_min"`)
}

func TestHTMLHandler_DashboardResetsStaleMunicipality(t *testing.T) {
	stale := domain.FilterState{County: "B", Municipality: "X"}
	reset := domain.FilterState{County: "B", Municipality: domain.NoFilter}

	svc := new(MockDashboardService)
	svc.On("Options", mock.Anything, stale).Return(scenarioOptions(stale), nil)
	svc.On("Options", mock.Anything, reset).Return(scenarioOptions(reset), nil)
	svc.On("Filter", mock.Anything, reset).Return(scenarioView(reset), nil)

	rec := httptest.NewRecorder()
	newHTMLHandler(t, svc).Dashboard(rec, httptest.NewRequest(http.MethodGet, "/dashboard?county=B&municipality=X", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Filtered rows: 1")
	svc.AssertExpectations(t)
}

func TestHTMLHandler_DashboardResetsStaleYearRange(t *testing.T) {
	ds := domain.NewDataset([]string{domain.ColumnCounty, domain.ColumnYear}, []domain.Record{
		{Values: []string{"A", "2015"}, Year: 2015, HasYear: true},
		{Values: []string{"A", "2016"}, Year: 2016, HasYear: true},
		{Values: []string{"B", "2019"}, Year: 2019, HasYear: true},
		{Values: []string{"B", "2022"}, Year: 2022, HasYear: true},
	})
	stale := domain.FilterState{County: "B", Municipality: domain.NoFilter, YearRange: &domain.YearRange{Min: 2015, Max: 2016}}
	reset := domain.FilterState{County: "B", Municipality: domain.NoFilter}

	svc := new(MockDashboardService)
	svc.On("Options", mock.Anything, stale).Return(filter.DeriveOptions(ds, stale), nil)
	svc.On("Filter", mock.Anything, reset).Return(filter.Apply(ds, reset), nil)

	rec := httptest.NewRecorder()
	newHTMLHandler(t, svc).Dashboard(rec, httptest.NewRequest(http.MethodGet,
		"/dashboard?county=B&municipality=Alla&year_min=2015&year_max=2016", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Filtered rows: 2")
	assert.NotContains(t, body, EmptyViewMessage)
	assert.Contains(t, body, `<option value="2019" selected>2019</option>`)
	assert.Contains(t, body, `<option value="2022" selected>2022</option>`)
	assert.NotContains(t, body, "year_min=2015")
	svc.AssertExpectations(t)
}

func TestHTMLHandler_DashboardKeepsYearRangeInsideBounds(t *testing.T) {
	state := domain.FilterState{County: "A", YearRange: &domain.YearRange{Min: 2021, Max: 2021}}
	svc := new(MockDashboardService)
	svc.On("Options", mock.Anything, state).Return(scenarioOptions(state), nil)
	svc.On("Filter", mock.Anything, state).Return(scenarioView(state), nil)

	rec := httptest.NewRecorder()
	newHTMLHandler(t, svc).Dashboard(rec, httptest.NewRequest(http.MethodGet, "/dashboard?county=A&year_min=2021&year_max=2021", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Filtered rows: 1")
	svc.AssertExpectations(t)
}

func TestHTMLHandler_DashboardInvalidQuery(t *testing.T) {
	svc := new(MockDashboardService)

	rec := httptest.NewRecorder()
	newHTMLHandler(t, svc).Dashboard(rec, httptest.NewRequest(http.MethodGet, "/dashboard?year_min=2021&year_max=2020", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "Filter", mock.Anything, mock.Anything)
}

func TestHTMLHandler_DatasetUnavailable(t *testing.T) {
	svc := new(MockDashboardService)
	svc.On("Summary", mock.Anything).Return(domain.DatasetSummary{}, dataLoadError())

	rec := httptest.NewRecorder()
	newHTMLHandler(t, svc).Home(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

package audit

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/netops-tools/netaudit/pkg/store/duckdb/history"

	"github.com/netops-tools/netaudit/pkg/models/api"
	"github.com/netops-tools/netaudit/pkg/models/domain"
	"github.com/netops-tools/netaudit/pkg/models/store"
)

type mockRunner struct {
	mock.Mock
}

func (m *mockRunner) Run(ctx context.Context, devices []domain.Device) (domain.AuditRun, error) {
	args := m.Called(ctx, devices)
	return args.Get(0).(domain.AuditRun), args.Error(1)
}

type mockHistory struct {
	mock.Mock
}

func (m *mockHistory) Add(ctx context.Context, run domain.AuditRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *mockHistory) ListRuns(ctx context.Context, limit int) ([]store.RunSummary, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]store.RunSummary), args.Error(1)
}

func (m *mockHistory) GetRun(ctx context.Context, runID string) ([]store.DeviceRunRecord, error) {
	args := m.Called(ctx, runID)
	return args.Get(0).([]store.DeviceRunRecord), args.Error(1)
}

func (m *mockHistory) LatestRunID(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

type staticLister struct {
	devices []domain.Device
}

func (s staticLister) Devices() []domain.Device { return s.devices }

type staticRules struct {
	rules []domain.ComplianceRule
}

func (s staticRules) Rules() []domain.ComplianceRule { return s.rules }

func fixtureRun() domain.AuditRun {
	return domain.AuditRun{
		ID:        "20250601_120000",
		StartedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Report: domain.AuditReport{
			GeneratedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
			Devices: []domain.DeviceResult{
				{
					Hostname: "Router1",
					Status:   domain.DeviceStatusFail,
					Violations: []domain.ComplianceViolation{
						{RuleName: "ntp_configured", Severity: domain.SeverityMedium},
					},
					SeverityCounts: map[domain.Severity]int{domain.SeverityMedium: 1},
				},
			},
			Summary: domain.AuditSummary{
				TotalDevices:        1,
				NonCompliantDevices: 1,
				TotalViolations:     1,
				SeverityBreakdown:   map[domain.Severity]int{domain.SeverityMedium: 1},
			},
		},
	}
}

func TestHandler_ListDevices(t *testing.T) {
	handler := NewHandler(
		staticLister{devices: []domain.Device{
			{Hostname: "Router1", Type: domain.DeviceTypeCiscoIOS, Port: 22, Password: "secret"},
		}},
		staticRules{},
		nil,
		nil,
	)

	rec := httptest.NewRecorder()
	handler.ListDevices(rec, httptest.NewRequest(http.MethodGet, "/api/v1/devices", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var devices []api.Device
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &devices))
	require.Len(t, devices, 1)
	assert.Equal(t, "Router1", devices[0].Hostname)
	// Credentials never cross the wire.
	assert.NotContains(t, rec.Body.String(), "secret")
}

func TestHandler_ListRules(t *testing.T) {
	handler := NewHandler(
		staticLister{},
		staticRules{rules: []domain.ComplianceRule{
			{Name: "no_telnet_access", Pattern: "transport input telnet", Severity: domain.SeverityHigh},
		}},
		nil,
		nil,
	)

	rec := httptest.NewRecorder()
	handler.ListRules(rec, httptest.NewRequest(http.MethodGet, "/api/v1/rules", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var ruleList []api.ComplianceRule
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ruleList))
	require.Len(t, ruleList, 1)
	assert.Equal(t, "no_telnet_access", ruleList[0].Name)
	assert.Equal(t, api.SeverityHigh, ruleList[0].Severity)
}

func TestHandler_RunAudit(t *testing.T) {
	tests := []struct {
		name           string
		setupMock      func(*mockRunner)
		expectedStatus int
	}{
		{
			name: "successful run",
			setupMock: func(m *mockRunner) {
				m.On("Run", mock.Anything, mock.Anything).Return(fixtureRun(), nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "runner failure",
			setupMock: func(m *mockRunner) {
				m.On("Run", mock.Anything, mock.Anything).
					Return(domain.AuditRun{}, errors.New("history write failed"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := new(mockRunner)
			tt.setupMock(runner)

			handler := NewHandler(staticLister{}, staticRules{}, runner, nil)

			rec := httptest.NewRecorder()
			handler.RunAudit(rec, httptest.NewRequest(http.MethodPost, "/api/v1/audits", nil))

			require.Equal(t, tt.expectedStatus, rec.Code)

			if tt.expectedStatus == http.StatusOK {
				var report api.AuditReport
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
				assert.Equal(t, 1, report.Summary.TotalDevices)
				assert.Equal(t, 1, report.Summary.TotalViolations)
			}
			runner.AssertExpectations(t)
		})
	}
}

func TestHandler_GetLatestReport(t *testing.T) {
	runner := new(mockRunner)
	runner.On("Run", mock.Anything, mock.Anything).Return(fixtureRun(), nil)

	handler := NewHandler(staticLister{}, staticRules{}, runner, nil)

	rec := httptest.NewRecorder()
	handler.GetLatestReport(rec, httptest.NewRequest(http.MethodGet, "/api/v1/audits/latest", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	handler.RunAudit(rec, httptest.NewRequest(http.MethodPost, "/api/v1/audits", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	handler.GetLatestReport(rec, httptest.NewRequest(http.MethodGet, "/api/v1/audits/latest", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var report api.AuditReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	require.Len(t, report.Devices, 1)
	assert.Equal(t, "Router1", report.Devices[0].Hostname)
}

func TestHandler_GetRunDetail(t *testing.T) {
	serve := func(handler *Handler, path string) *httptest.ResponseRecorder {
		router := chi.NewRouter()
		router.Get("/api/v1/audits/runs/{runID}", handler.GetRunDetail)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		return rec
	}

	t.Run("history not configured", func(t *testing.T) {
		handler := NewHandler(staticLister{}, staticRules{}, nil, nil)
		rec := serve(handler, "/api/v1/audits/runs/run-1")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("latest with empty history", func(t *testing.T) {
		hist := new(mockHistory)
		hist.On("LatestRunID", mock.Anything).Return("", history.ErrNoRuns)

		handler := NewHandler(staticLister{}, staticRules{}, nil, hist)
		rec := serve(handler, "/api/v1/audits/runs/latest")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		hist.AssertExpectations(t)
	})

	t.Run("latest resolves to the newest run", func(t *testing.T) {
		hist := new(mockHistory)
		hist.On("LatestRunID", mock.Anything).Return("20250602_120000", nil)
		hist.On("GetRun", mock.Anything, "20250602_120000").Return([]store.DeviceRunRecord{
			{
				RunID:     "20250602_120000",
				StartedAt: time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC),
				Hostname:  "Router1",
				Status:    "FAIL",
				HighCount: 1,
			},
		}, nil)

		handler := NewHandler(staticLister{}, staticRules{}, nil, hist)
		rec := serve(handler, "/api/v1/audits/runs/latest")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Router1")
		assert.Contains(t, rec.Body.String(), "20250602_120000")
		hist.AssertExpectations(t)
	})

	t.Run("unknown run", func(t *testing.T) {
		hist := new(mockHistory)
		hist.On("GetRun", mock.Anything, "missing").Return([]store.DeviceRunRecord{}, nil)

		handler := NewHandler(staticLister{}, staticRules{}, nil, hist)
		rec := serve(handler, "/api/v1/audits/runs/missing")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		hist.AssertExpectations(t)
	})
}

func TestHandler_ListRuns(t *testing.T) {
	t.Run("history not configured", func(t *testing.T) {
		handler := NewHandler(staticLister{}, staticRules{}, nil, nil)

		rec := httptest.NewRecorder()
		handler.ListRuns(rec, httptest.NewRequest(http.MethodGet, "/api/v1/audits/runs", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("lists stored runs", func(t *testing.T) {
		hist := new(mockHistory)
		hist.On("ListRuns", mock.Anything, 20).Return([]store.RunSummary{
			{
				RunID:           "20250601_120000",
				StartedAt:       time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
				TotalDevices:    2,
				TotalViolations: 3,
			},
		}, nil)

		handler := NewHandler(staticLister{}, staticRules{}, nil, hist)

		rec := httptest.NewRecorder()
		handler.ListRuns(rec, httptest.NewRequest(http.MethodGet, "/api/v1/audits/runs", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "20250601_120000")
		hist.AssertExpectations(t)
	})
}

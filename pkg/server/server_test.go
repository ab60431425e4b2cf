package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	audithandler "github.com/netops-tools/netaudit/pkg/handlers/audit"
	"github.com/netops-tools/netaudit/pkg/models/api"
	"github.com/netops-tools/netaudit/pkg/services/audit"
	"github.com/netops-tools/netaudit/pkg/services/compliance"
	"github.com/netops-tools/netaudit/pkg/services/rules"
	"github.com/netops-tools/netaudit/pkg/store/configsource"
)

func newTestAPI(t *testing.T) *WebAPI {
	t.Helper()
	logger := zerolog.New(zerolog.NewTestWriter(t))

	engine, err := compliance.NewEngine(rules.NewDefaultRegistry())
	require.NoError(t, err)

	sim := configsource.NewSimulator()
	auditor := audit.NewAuditor(audit.Options{Source: sim, Engine: engine})

	return NewWebAPI(logger, Config{
		Addr: ":0",
		Dependencies: Dependencies{
			Audit: audithandler.NewHandler(sim, engine, auditor, nil),
		},
	})
}

func TestWebAPI_Endpoints(t *testing.T) {
	webAPI := newTestAPI(t)
	srv := httptest.NewServer(webAPI.Router())
	defer srv.Close()

	t.Run("GET /api/v1/devices", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/api/v1/devices")
		require.NoError(t, err)
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)

		var devices []api.Device
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&devices))
		require.Len(t, devices, 2)
		assert.Equal(t, "Router1", devices[0].Hostname)
		assert.Equal(t, "Switch1", devices[1].Hostname)
	})

	t.Run("GET /api/v1/rules", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/api/v1/rules")
		require.NoError(t, err)
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)

		var ruleList []api.ComplianceRule
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&ruleList))
		assert.Len(t, ruleList, 8)
	})

	t.Run("POST /api/v1/audits then GET latest", func(t *testing.T) {
		resp, err := http.Post(srv.URL+"/api/v1/audits", "application/json", nil)
		require.NoError(t, err)
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)

		var report api.AuditReport
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
		assert.Equal(t, 2, report.Summary.TotalDevices)
		assert.Equal(t, 2, report.Summary.NonCompliantDevices)

		latest, err := http.Get(srv.URL + "/api/v1/audits/latest")
		require.NoError(t, err)
		defer latest.Body.Close()
		assert.Equal(t, http.StatusOK, latest.StatusCode)
	})

	t.Run("GET /api/v1/audits/runs without history", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/api/v1/audits/runs")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("GET /api/v1/audits/runs/latest without history", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/api/v1/audits/runs/latest")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

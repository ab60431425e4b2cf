package audit

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/netops-tools/netaudit/pkg/adapters"
	"github.com/netops-tools/netaudit/pkg/models/api"
	"github.com/netops-tools/netaudit/pkg/models/domain"
	"github.com/netops-tools/netaudit/pkg/store/duckdb/history"
)

// Runner executes a full audit over the given devices.
type Runner interface {
	Run(ctx context.Context, devices []domain.Device) (domain.AuditRun, error)
}

// DeviceLister exposes the fleet the web API audits.
type DeviceLister interface {
	Devices() []domain.Device
}

// RuleLister exposes the active rule set.
type RuleLister interface {
	Rules() []domain.ComplianceRule
}

type Handler struct {
	devices DeviceLister
	rules   RuleLister
	runner  Runner
	history history.Store

	mu      sync.RWMutex
	lastRun *domain.AuditRun
}

func NewHandler(devices DeviceLister, rules RuleLister, runner Runner, hist history.Store) *Handler {
	return &Handler{
		devices: devices,
		rules:   rules,
		runner:  runner,
		history: hist,
	}
}

func (h *Handler) ListDevices(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	response := make([]api.Device, 0)
	for _, device := range h.devices.Devices() {
		response = append(response, adapters.MapDeviceDomainToApi(device))
	}

	writeJSON(w, logger, http.StatusOK, response)
}

func (h *Handler) ListRules(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	response := make([]api.ComplianceRule, 0)
	for _, rule := range h.rules.Rules() {
		response = append(response, adapters.MapRuleDomainToApi(rule))
	}

	writeJSON(w, logger, http.StatusOK, response)
}

// RunAudit executes an audit over the configured fleet and returns the
// resulting report. The run is kept in memory so GetLatestReport can
// serve it without re-auditing.
func (h *Handler) RunAudit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	run, err := h.runner.Run(ctx, h.devices.Devices())
	if err != nil {
		logger.Error().Err(err).Msg("audit run failed")
		http.Error(w, "audit run failed", http.StatusInternalServerError)
		return
	}

	h.mu.Lock()
	h.lastRun = &run
	h.mu.Unlock()

	writeJSON(w, logger, http.StatusOK, adapters.MapAuditRunDomainToApi(run))
}

func (h *Handler) GetLatestReport(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	h.mu.RLock()
	run := h.lastRun
	h.mu.RUnlock()

	if run == nil {
		http.Error(w, "no audit has been run", http.StatusNotFound)
		return
	}

	writeJSON(w, logger, http.StatusOK, adapters.MapAuditRunDomainToApi(*run))
}

func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	if h.history == nil {
		http.Error(w, "history is not configured", http.StatusNotFound)
		return
	}

	runs, err := h.history.ListRuns(ctx, 20)
	if err != nil {
		logger.Error().Err(err).Msg("failed to list runs")
		http.Error(w, "failed to list runs", http.StatusInternalServerError)
		return
	}

	type runSummary struct {
		RunID               string `json:"run_id"`
		StartedAt           string `json:"started_at"`
		TotalDevices        int    `json:"total_devices"`
		CompliantDevices    int    `json:"compliant_devices"`
		NonCompliantDevices int    `json:"non_compliant_devices"`
		TotalViolations     int    `json:"total_violations"`
	}

	response := make([]runSummary, 0, len(runs))
	for _, run := range runs {
		response = append(response, runSummary{
			RunID:               run.RunID,
			StartedAt:           run.StartedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
			TotalDevices:        run.TotalDevices,
			CompliantDevices:    run.CompliantDevices,
			NonCompliantDevices: run.NonCompliantDevices,
			TotalViolations:     run.TotalViolations,
		})
	}

	writeJSON(w, logger, http.StatusOK, response)
}

// GetRunDetail serves the per-device rows of one stored run. The run ID
// "latest" resolves to the most recently started run.
func (h *Handler) GetRunDetail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	if h.history == nil {
		http.Error(w, "history is not configured", http.StatusNotFound)
		return
	}

	runID := chi.URLParam(r, "runID")
	if runID == "latest" {
		id, err := h.history.LatestRunID(ctx)
		if errors.Is(err, history.ErrNoRuns) {
			http.Error(w, "no audit runs recorded", http.StatusNotFound)
			return
		}
		if err != nil {
			logger.Error().Err(err).Msg("failed to resolve latest run")
			http.Error(w, "failed to resolve latest run", http.StatusInternalServerError)
			return
		}
		runID = id
	}

	records, err := h.history.GetRun(ctx, runID)
	if err != nil {
		logger.Error().Err(err).Str("run_id", runID).Msg("failed to load run")
		http.Error(w, "failed to load run", http.StatusInternalServerError)
		return
	}
	if len(records) == 0 {
		http.Error(w, "run not found", http.StatusNotFound)
		return
	}

	type deviceRow struct {
		RunID       string `json:"run_id"`
		StartedAt   string `json:"started_at"`
		Hostname    string `json:"hostname"`
		Status      string `json:"status"`
		Violations  int    `json:"violations"`
		HighCount   int    `json:"high_count"`
		MediumCount int    `json:"medium_count"`
		LowCount    int    `json:"low_count"`
	}

	response := make([]deviceRow, 0, len(records))
	for _, record := range records {
		response = append(response, deviceRow{
			RunID:       record.RunID,
			StartedAt:   record.StartedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
			Hostname:    record.Hostname,
			Status:      record.Status,
			Violations:  record.Violations,
			HighCount:   record.HighCount,
			MediumCount: record.MediumCount,
			LowCount:    record.LowCount,
		})
	}

	writeJSON(w, logger, http.StatusOK, response)
}

func writeJSON(w http.ResponseWriter, logger *zerolog.Logger, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error().Err(err).Msg("failed to encode response")
	}
}

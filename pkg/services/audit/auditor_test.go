package audit

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/netops-tools/netaudit/pkg/models/domain"
	"github.com/netops-tools/netaudit/pkg/models/store"
	"github.com/netops-tools/netaudit/pkg/services/compliance"
	"github.com/netops-tools/netaudit/pkg/services/rules"
	"github.com/netops-tools/netaudit/pkg/store/configsource"
)

type mockSource struct {
	mock.Mock
}

func (m *mockSource) Fetch(ctx context.Context, device domain.Device) (string, error) {
	args := m.Called(ctx, device)
	return args.String(0), args.Error(1)
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

func newEngine(t *testing.T) *compliance.Engine {
	t.Helper()
	engine, err := compliance.NewEngine(rules.NewDefaultRegistry())
	require.NoError(t, err)
	return engine
}

func TestAuditor_Run_Simulation(t *testing.T) {
	auditor := NewAuditor(Options{
		Source: configsource.NewSimulator(),
		Engine: newEngine(t),
	})

	devices := []domain.Device{
		{Hostname: "Router1"},
		{Hostname: "Switch1"},
	}

	run, err := auditor.Run(context.Background(), devices)
	require.NoError(t, err)

	assert.NotEmpty(t, run.ID)
	assert.False(t, run.StartedAt.IsZero())
	assert.Empty(t, run.Skipped)
	assert.Equal(t, 2, run.Report.Summary.TotalDevices)
	// Both lab fixtures carry violations.
	assert.Equal(t, 2, run.Report.Summary.NonCompliantDevices)
	assert.Greater(t, run.Report.Summary.TotalViolations, 0)
}

func TestAuditor_Run_SkipsUnreachableDevice(t *testing.T) {
	source := new(mockSource)
	source.On("Fetch", mock.Anything, mock.MatchedBy(func(d domain.Device) bool {
		return d.Hostname == "Router1"
	})).Return("", errors.New("dial tcp: connection refused"))
	source.On("Fetch", mock.Anything, mock.MatchedBy(func(d domain.Device) bool {
		return d.Hostname == "Switch1"
	})).Return("enable secret 5 x\ntransport input ssh\nlogging synchronous\nntp server 1.1.1.1\nsnmp-server community ro\naccess-list 1 permit any\nservice password-encryption\n", nil)

	auditor := NewAuditor(Options{Source: source, Engine: newEngine(t)})

	run, err := auditor.Run(context.Background(), []domain.Device{
		{Hostname: "Router1"},
		{Hostname: "Switch1"},
	})
	require.NoError(t, err)

	// The unreachable device is reported as not audited, never as passing.
	require.Len(t, run.Skipped, 1)
	assert.Equal(t, "Router1", run.Skipped[0].Hostname)
	assert.Contains(t, run.Skipped[0].Reason, "connection refused")

	assert.Equal(t, 1, run.Report.Summary.TotalDevices)
	assert.Equal(t, 1, run.Report.Summary.CompliantDevices)
	assert.Equal(t, float64(100), run.Report.Summary.CompliancePercentage)
}

func TestAuditor_Run_RunIDsAreUnique(t *testing.T) {
	auditor := NewAuditor(Options{
		Source: configsource.NewSimulator(),
		Engine: newEngine(t),
	})
	devices := []domain.Device{{Hostname: "Router1"}}

	// Back-to-back runs land in the same wall-clock second; their IDs
	// must still differ so both can be recorded in history.
	first, err := auditor.Run(context.Background(), devices)
	require.NoError(t, err)
	second, err := auditor.Run(context.Background(), devices)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Regexp(t, `^\d{8}_\d{6}_`, first.ID)
}

func TestAuditor_Run_RecordsHistory(t *testing.T) {
	hist := new(mockHistory)
	hist.On("Add", mock.Anything, mock.MatchedBy(func(run domain.AuditRun) bool {
		return run.Report.Summary.TotalDevices == 2
	})).Return(nil)

	auditor := NewAuditor(Options{
		Source:  configsource.NewSimulator(),
		Engine:  newEngine(t),
		History: hist,
	})

	_, err := auditor.Run(context.Background(), []domain.Device{
		{Hostname: "Router1"},
		{Hostname: "Switch1"},
	})
	require.NoError(t, err)
	hist.AssertExpectations(t)
}

func TestAuditor_Run_HistoryFailureKeepsReport(t *testing.T) {
	hist := new(mockHistory)
	hist.On("Add", mock.Anything, mock.Anything).Return(errors.New("disk full"))

	auditor := NewAuditor(Options{
		Source:  configsource.NewSimulator(),
		Engine:  newEngine(t),
		History: hist,
	})

	run, err := auditor.Run(context.Background(), []domain.Device{{Hostname: "Router1"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "record audit history")
	// The computed report survives the persistence failure.
	assert.Equal(t, 1, run.Report.Summary.TotalDevices)
}

func TestAuditor_Run_ConcurrentFanOut(t *testing.T) {
	configs := make(map[string]string, 32)
	var devices []domain.Device
	for i := 0; i < 32; i++ {
		hostname := fmt.Sprintf("sw-%02d", i)
		configs[hostname] = "transport input telnet\n"
		devices = append(devices, domain.Device{Hostname: hostname})
	}

	auditor := NewAuditor(Options{
		Source:      configsource.NewSimulatorWithConfigs(configs),
		Engine:      newEngine(t),
		Concurrency: 8,
	})

	run, err := auditor.Run(context.Background(), devices)
	require.NoError(t, err)

	assert.Equal(t, 32, run.Report.Summary.TotalDevices)
	assert.Equal(t, 32, run.Report.Summary.NonCompliantDevices)
	// 7 required rules missing + 1 telnet hit per device.
	assert.Equal(t, 32*8, run.Report.Summary.TotalViolations)
}

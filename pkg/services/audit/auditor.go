package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/netops-tools/netaudit/pkg/models/domain"
	"github.com/netops-tools/netaudit/pkg/services/compliance"
	"github.com/netops-tools/netaudit/pkg/store/configsource"
	"github.com/netops-tools/netaudit/pkg/store/duckdb/history"
)

const defaultConcurrency = 4

// Options wires an Auditor. History is optional; without it runs are
// not persisted.
type Options struct {
	Source      configsource.Source
	Engine      *compliance.Engine
	History     history.Store
	Concurrency int
}

// Auditor runs a full compliance pass over an inventory: fetch each
// device's configuration, evaluate it, aggregate the report, and append
// the outcome to history. Devices whose configuration cannot be fetched
// are skipped and reported as not audited; one unreachable device never
// stops the rest of the fleet.
type Auditor struct {
	source      configsource.Source
	engine      *compliance.Engine
	history     history.Store
	concurrency int
}

func NewAuditor(opts Options) *Auditor {
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return &Auditor{
		source:      opts.Source,
		engine:      opts.Engine,
		history:     opts.History,
		concurrency: concurrency,
	}
}

// Run audits the given devices and returns the completed run. Each
// worker owns its device's slot, so evaluation needs no locking; the
// engine itself is stateless.
func (a *Auditor) Run(ctx context.Context, devices []domain.Device) (domain.AuditRun, error) {
	logger := zerolog.Ctx(ctx)
	startedAt := time.Now().UTC()

	violations := make([][]domain.ComplianceViolation, len(devices))
	fetchErrs := make([]error, len(devices))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)
	for i, device := range devices {
		g.Go(func() error {
			config, err := a.source.Fetch(gctx, device)
			if err != nil {
				// A fetch failure skips the device, it does not
				// abort the run.
				fetchErrs[i] = err
				return nil
			}
			violations[i] = a.engine.CheckDevice(device.Hostname, config)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domain.AuditRun{}, err
	}

	deviceViolations := make(map[string][]domain.ComplianceViolation, len(devices))
	var skipped []domain.SkippedDevice
	for i, device := range devices {
		if fetchErrs[i] != nil {
			logger.Warn().
				Str("hostname", device.Hostname).
				Err(fetchErrs[i]).
				Msg("configuration unavailable, device not audited")
			skipped = append(skipped, domain.SkippedDevice{
				Hostname: device.Hostname,
				Reason:   fetchErrs[i].Error(),
			})
			continue
		}
		logger.Info().
			Str("hostname", device.Hostname).
			Int("violations", len(violations[i])).
			Msg("device audited")
		deviceViolations[device.Hostname] = violations[i]
	}

	report := compliance.BuildReport(deviceViolations)
	report.GeneratedAt = startedAt

	run := domain.AuditRun{
		ID:         newRunID(startedAt),
		StartedAt:  startedAt,
		FinishedAt: time.Now().UTC(),
		Report:     report,
		Skipped:    skipped,
	}

	if a.history != nil {
		if err := a.history.Add(ctx, run); err != nil {
			// The in-memory run is still valid; the caller decides
			// whether a history failure is fatal.
			return run, fmt.Errorf("record audit history: %w", err)
		}
	}

	return run, nil
}

// newRunID keeps the human-readable timestamp prefix and appends a
// random suffix so runs started within the same second never collide on
// the history store's primary key.
func newRunID(startedAt time.Time) string {
	return fmt.Sprintf("%s_%s", startedAt.Format("20060102_150405"), uuid.NewString()[:8])
}

package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/netops-tools/netaudit/pkg/models/domain"
	"github.com/netops-tools/netaudit/pkg/runtime/terminal/export"
	"github.com/netops-tools/netaudit/pkg/services/audit"
	"github.com/netops-tools/netaudit/pkg/services/compliance"
	"github.com/netops-tools/netaudit/pkg/services/inventory"
	"github.com/netops-tools/netaudit/pkg/services/rules"
	"github.com/netops-tools/netaudit/pkg/store/configsource"
	"github.com/netops-tools/netaudit/pkg/store/duckdb"
	"github.com/netops-tools/netaudit/pkg/store/duckdb/history"
)

// RunReporter renders a completed audit run.
type RunReporter interface {
	Handle(run *domain.AuditRun) error
}

type AuditCmd struct {
	real          bool
	inventoryPath string
	rulesPath     string
	exportPath    string
	historyPath   string
	concurrency   int
	out           io.Writer
	reporter      RunReporter
}

func NewAuditCmd(out io.Writer, reporter RunReporter) *cobra.Command {
	ac := &AuditCmd{out: out, reporter: reporter}
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Run a compliance audit over the device fleet",
		RunE:  ac.run,
	}

	cmd.Flags().BoolVar(&ac.real, "real", false,
		"Audit real devices over SSH (default is simulation mode with sample configs)")
	cmd.Flags().StringVar(&ac.inventoryPath, "inventory", "",
		"Path to the device inventory file (required with --real)")
	cmd.Flags().StringVar(&ac.rulesPath, "rules", "",
		"Path to a YAML rule file (default is the built-in rule set)")
	cmd.Flags().StringVar(&ac.exportPath, "export", "",
		"Write the YAML report to this file")
	cmd.Flags().StringVar(&ac.historyPath, "history-db", "",
		"Record the run in this audit-history database")
	cmd.Flags().IntVar(&ac.concurrency, "concurrency", 4,
		"Devices audited in parallel")

	return cmd
}

func (ac *AuditCmd) run(cmd *cobra.Command, _ []string) error {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	registry, err := loadRuleRegistry(ac.rulesPath)
	if err != nil {
		return err
	}

	engine, err := compliance.NewEngine(registry)
	if err != nil {
		return fmt.Errorf("failed to build engine: %w", err)
	}

	var source configsource.Source
	var devices []domain.Device
	if ac.real {
		if ac.inventoryPath == "" {
			return fmt.Errorf("--inventory is required with --real")
		}
		inv, err := inventory.NewRegistry(ac.inventoryPath)
		if err != nil {
			return err
		}
		devices, err = inv.Devices(ctx)
		if err != nil {
			return err
		}
		source = configsource.NewSSHSource()
	} else {
		sim := configsource.NewSimulator()
		devices = sim.Devices()
		source = sim
	}

	var hist history.Store
	if ac.historyPath != "" {
		db, err := duckdb.NewDB(duckdb.Settings{DbPath: ac.historyPath})
		if err != nil {
			return fmt.Errorf("failed to open history database: %w", err)
		}
		defer db.Close()

		hist, err = history.NewStore(db)
		if err != nil {
			return err
		}
	}

	auditor := audit.NewAuditor(audit.Options{
		Source:      source,
		Engine:      engine,
		History:     hist,
		Concurrency: ac.concurrency,
	})

	run, err := auditor.Run(ctx, devices)
	if err != nil {
		return err
	}

	if err := ac.reporter.Handle(&run); err != nil {
		return err
	}

	if ac.exportPath != "" {
		f, err := os.Create(ac.exportPath)
		if err != nil {
			return fmt.Errorf("failed to create report file: %w", err)
		}
		defer f.Close()

		if err := export.NewReporter(f).Handle(&run); err != nil {
			return err
		}
		logger.Info().Str("path", ac.exportPath).Msg("report exported")
	}

	return nil
}

func loadRuleRegistry(path string) (rules.Registry, error) {
	if path == "" {
		return rules.NewDefaultRegistry(), nil
	}
	return rules.LoadFile(path)
}

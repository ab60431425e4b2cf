package commands

import (
	"context"
	"fmt"
	"io"
	"text/template"

	"github.com/spf13/cobra"

	"github.com/netops-tools/netaudit/pkg/store/duckdb"
	"github.com/netops-tools/netaudit/pkg/store/duckdb/history"
)

type HistoryCmd struct {
	historyPath string
	runID       string
	limit       int
	out         io.Writer
}

func NewHistoryCmd(out io.Writer) *cobra.Command {
	hc := &HistoryCmd{out: out}
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past audit runs",
		RunE:  hc.run,
	}

	cmd.Flags().StringVar(&hc.historyPath, "history-db", "",
		"Path to the audit-history database")
	cmd.Flags().StringVar(&hc.runID, "run", "",
		`Show per-device detail for one run ("latest" for the most recent)`)
	cmd.Flags().IntVar(&hc.limit, "limit", 20, "Runs to list")
	_ = cmd.MarkFlagRequired("history-db")

	return cmd
}

func (hc *HistoryCmd) run(cmd *cobra.Command, _ []string) error {
	db, err := duckdb.NewDB(duckdb.Settings{DbPath: hc.historyPath})
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer db.Close()

	store, err := history.NewStore(db)
	if err != nil {
		return err
	}

	if hc.runID != "" {
		return hc.showRun(cmd.Context(), store)
	}

	runs, err := store.ListRuns(cmd.Context(), hc.limit)
	if err != nil {
		return err
	}

	tmpl := `{{range .}}{{.RunID}}  {{.StartedAt.Format "2006-01-02 15:04:05"}}  devices={{.TotalDevices}} compliant={{.CompliantDevices}} violations={{.TotalViolations}}
{{else}}no audit runs recorded
{{end}}`

	t, err := template.New("history").Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(hc.out, runs)
}

func (hc *HistoryCmd) showRun(ctx context.Context, store history.Store) error {
	runID := hc.runID
	if runID == "latest" {
		var err error
		runID, err = store.LatestRunID(ctx)
		if err != nil {
			return err
		}
	}

	records, err := store.GetRun(ctx, runID)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("run %s not found", runID)
	}

	tmpl := `Run {{(index . 0).RunID}} ({{(index . 0).StartedAt.Format "2006-01-02 15:04:05"}})
{{range .}}  {{.Hostname}}  {{.Status}}  violations={{.Violations}} high={{.HighCount}} medium={{.MediumCount}} low={{.LowCount}}
{{end}}`

	t, err := template.New("run").Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(hc.out, records)
}

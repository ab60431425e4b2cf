package commands

import (
	"fmt"
	"io"
	"text/template"

	"github.com/spf13/cobra"
)

type RulesCmd struct {
	rulesPath string
	out       io.Writer
}

func NewRulesCmd(out io.Writer) *cobra.Command {
	rc := &RulesCmd{out: out}
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the active compliance rules",
		RunE:  rc.run,
	}

	cmd.Flags().StringVar(&rc.rulesPath, "rules", "",
		"Path to a YAML rule file (default is the built-in rule set)")

	return cmd
}

func (rc *RulesCmd) run(_ *cobra.Command, _ []string) error {
	registry, err := loadRuleRegistry(rc.rulesPath)
	if err != nil {
		return err
	}

	tmpl := `{{range .}}
{{.Name}} [{{.Severity}}]
  Description: {{.Description}}
  Pattern: {{.Pattern}}
  Required: {{if .Required}}yes{{else}}no (must not appear){{end}}
{{end}}`

	t, err := template.New("rules").Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(rc.out, registry.Load())
}

package terminal

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/netops-tools/netaudit/pkg/models/domain"
)

type TableConfig struct {
	DeviceWidth   int
	CountWidth    int
	StatusWidth   int
	RuleWidth     int
	FoundWidth    int
	SeverityWidth int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		DeviceWidth:   20,
		CountWidth:    10,
		StatusWidth:   6,
		RuleWidth:     28,
		FoundWidth:    44,
		SeverityWidth: 8,
	}
}

// Reporter renders an audit run to the console in a formatted text form.
type Reporter struct {
	writer io.Writer
	config TableConfig
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
	}
}

func (c *Reporter) Handle(run *domain.AuditRun) error {
	funcMap := template.FuncMap{
		"summaryRow": func(device string, violations, high, medium, low interface{}, status string) string {
			return fmt.Sprintf("| %-*s | %*v | %*v | %*v | %*v | %-*s |",
				c.config.DeviceWidth, device,
				c.config.CountWidth, violations,
				c.config.CountWidth, high,
				c.config.CountWidth, medium,
				c.config.CountWidth, low,
				c.config.StatusWidth, status)
		},
		"summarySeparator": func() string {
			return fmt.Sprintf("+%s+%s+%s+%s+%s+%s+",
				strings.Repeat("-", c.config.DeviceWidth+2),
				strings.Repeat("-", c.config.CountWidth+2),
				strings.Repeat("-", c.config.CountWidth+2),
				strings.Repeat("-", c.config.CountWidth+2),
				strings.Repeat("-", c.config.CountWidth+2),
				strings.Repeat("-", c.config.StatusWidth+2))
		},
		"violationRow": func(rule, severity, found string) string {
			// Truncate on runes, not bytes, so a multi-byte character
			// in a config line is never split.
			if runes := []rune(found); len(runes) > c.config.FoundWidth {
				found = string(runes[:c.config.FoundWidth-3]) + "..."
			}
			return fmt.Sprintf("| %-*s | %-*s | %-*s |",
				c.config.RuleWidth, rule,
				c.config.SeverityWidth, severity,
				c.config.FoundWidth, found)
		},
		"violationSeparator": func() string {
			return fmt.Sprintf("+%s+%s+%s+",
				strings.Repeat("-", c.config.RuleWidth+2),
				strings.Repeat("-", c.config.SeverityWidth+2),
				strings.Repeat("-", c.config.FoundWidth+2))
		},
		"high":   func(r domain.DeviceResult) int { return r.SeverityCounts[domain.SeverityHigh] },
		"medium": func(r domain.DeviceResult) int { return r.SeverityCounts[domain.SeverityMedium] },
		"low":    func(r domain.DeviceResult) int { return r.SeverityCounts[domain.SeverityLow] },
	}

	tmpl := `
COMPLIANCE AUDIT REPORT ({{.Report.GeneratedAt.Format "2006-01-02 15:04:05"}} UTC)

{{summarySeparator}}
{{summaryRow "Device" "Violations" "High" "Medium" "Low" "Status"}}
{{summarySeparator}}
{{range .Report.Devices}}{{summaryRow .Hostname (len .Violations) (high .) (medium .) (low .) (printf "%s" .Status)}}
{{end}}{{summarySeparator}}
{{range .Report.Devices}}{{if .Violations}}
Violations for {{.Hostname}}:
{{violationSeparator}}
{{violationRow "Rule" "Severity" "Found"}}
{{violationSeparator}}
{{range .Violations}}{{violationRow .RuleName (printf "%s" .Severity) .FoundConfig}}
{{end}}{{violationSeparator}}
{{else}}
{{.Hostname}}: all compliance checks passed
{{end}}{{end}}{{if .Skipped}}
Not audited (configuration unavailable):
{{range .Skipped}}  - {{.Hostname}}: {{.Reason}}
{{end}}{{end}}
Total Devices: {{.Report.Summary.TotalDevices}}
Compliant Devices: {{.Report.Summary.CompliantDevices}}
Non-Compliant Devices: {{.Report.Summary.NonCompliantDevices}}
Total Violations: {{.Report.Summary.TotalViolations}}
Compliance Rate: {{printf "%.1f" .Report.Summary.CompliancePercentage}}%
`

	t, err := template.New("report").Funcs(funcMap).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, run)
}

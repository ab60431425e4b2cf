package export

import (
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/netops-tools/netaudit/pkg/models/domain"
)

// Reporter serializes an audit run into the stable YAML report shape.
// Field names and nesting are fixed so historical reports stay diffable:
//
//	compliance_report:
//	  generated_at: ...
//	  devices:
//	    Router1:
//	      total_violations: N
//	      violations: [{rule, severity, description, found_config, expected_config}]
type Reporter struct {
	writer io.Writer
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{writer: writer}
}

type reportDoc struct {
	ComplianceReport reportBody `yaml:"compliance_report"`
}

type reportBody struct {
	GeneratedAt string                 `yaml:"generated_at"`
	Devices     map[string]deviceDoc   `yaml:"devices"`
	Skipped     map[string]string      `yaml:"skipped,omitempty"`
	Summary     map[string]interface{} `yaml:"summary"`
}

type deviceDoc struct {
	TotalViolations int            `yaml:"total_violations"`
	Violations      []violationDoc `yaml:"violations"`
}

type violationDoc struct {
	Rule           string `yaml:"rule"`
	Severity       string `yaml:"severity"`
	Description    string `yaml:"description"`
	FoundConfig    string `yaml:"found_config"`
	ExpectedConfig string `yaml:"expected_config"`
}

func (c *Reporter) Handle(run *domain.AuditRun) error {
	doc := reportDoc{
		ComplianceReport: reportBody{
			GeneratedAt: run.Report.GeneratedAt.UTC().Format(time.RFC3339),
			Devices:     make(map[string]deviceDoc, len(run.Report.Devices)),
			Summary: map[string]interface{}{
				"total_devices":         run.Report.Summary.TotalDevices,
				"compliant_devices":     run.Report.Summary.CompliantDevices,
				"non_compliant_devices": run.Report.Summary.NonCompliantDevices,
				"total_violations":      run.Report.Summary.TotalViolations,
				"compliance_percentage": run.Report.Summary.CompliancePercentage,
			},
		},
	}

	for _, result := range run.Report.Devices {
		device := deviceDoc{
			TotalViolations: len(result.Violations),
			Violations:      make([]violationDoc, 0, len(result.Violations)),
		}
		for _, v := range result.Violations {
			device.Violations = append(device.Violations, violationDoc{
				Rule:           v.RuleName,
				Severity:       string(v.Severity),
				Description:    v.Description,
				FoundConfig:    v.FoundConfig,
				ExpectedConfig: v.ExpectedConfig,
			})
		}
		doc.ComplianceReport.Devices[result.Hostname] = device
	}

	if len(run.Skipped) > 0 {
		doc.ComplianceReport.Skipped = make(map[string]string, len(run.Skipped))
		for _, s := range run.Skipped {
			doc.ComplianceReport.Skipped[s.Hostname] = s.Reason
		}
	}

	enc := yaml.NewEncoder(c.writer)
	enc.SetIndent(2)
	defer enc.Close()

	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}

package adapters

import (
	"github.com/netops-tools/netaudit/pkg/models/api"
	"github.com/netops-tools/netaudit/pkg/models/domain"
)

func MapSeverityDomainToApi(s domain.Severity) api.Severity {
	switch s {
	case domain.SeverityHigh:
		return api.SeverityHigh
	case domain.SeverityMedium:
		return api.SeverityMedium
	default:
		return api.SeverityLow
	}
}

func MapDeviceDomainToApi(d domain.Device) api.Device {
	port := d.Port
	if port == 0 {
		port = domain.DefaultSSHPort
	}
	// Credentials never cross the wire.
	return api.Device{
		Hostname: d.Hostname,
		Type:     string(d.Type),
		Port:     port,
	}
}

func MapRuleDomainToApi(r domain.ComplianceRule) api.ComplianceRule {
	return api.ComplianceRule{
		Name:        r.Name,
		Description: r.Description,
		Pattern:     r.Pattern,
		Required:    r.Required,
		Severity:    MapSeverityDomainToApi(r.Severity),
	}
}

func MapViolationDomainToApi(v domain.ComplianceViolation) api.Violation {
	return api.Violation{
		Rule:           v.RuleName,
		Severity:       MapSeverityDomainToApi(v.Severity),
		Description:    v.Description,
		FoundConfig:    v.FoundConfig,
		ExpectedConfig: v.ExpectedConfig,
		LineNumber:     v.LineNumber,
	}
}

func MapDeviceResultDomainToApi(r domain.DeviceResult) api.DeviceResult {
	res := api.DeviceResult{
		Hostname:        r.Hostname,
		Status:          string(r.Status),
		TotalViolations: len(r.Violations),
		Violations:      make([]api.Violation, 0, len(r.Violations)),
	}
	for _, v := range r.Violations {
		res.Violations = append(res.Violations, MapViolationDomainToApi(v))
	}
	return res
}

func MapAuditRunDomainToApi(run domain.AuditRun) api.AuditReport {
	report := api.AuditReport{
		GeneratedAt: run.Report.GeneratedAt,
		Devices:     make([]api.DeviceResult, 0, len(run.Report.Devices)),
		Summary: api.AuditSummary{
			TotalDevices:         run.Report.Summary.TotalDevices,
			CompliantDevices:     run.Report.Summary.CompliantDevices,
			NonCompliantDevices:  run.Report.Summary.NonCompliantDevices,
			TotalViolations:      run.Report.Summary.TotalViolations,
			SeverityBreakdown:    map[api.Severity]int{},
			CompliancePercentage: run.Report.Summary.CompliancePercentage,
		},
	}
	for severity, count := range run.Report.Summary.SeverityBreakdown {
		report.Summary.SeverityBreakdown[MapSeverityDomainToApi(severity)] = count
	}
	for _, result := range run.Report.Devices {
		report.Devices = append(report.Devices, MapDeviceResultDomainToApi(result))
	}
	for _, s := range run.Skipped {
		report.Skipped = append(report.Skipped, api.SkippedDevice{
			Hostname: s.Hostname,
			Reason:   s.Reason,
		})
	}
	return report
}

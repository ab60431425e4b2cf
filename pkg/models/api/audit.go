package api

import "time"

type Severity string

const (
	SeverityHigh   Severity = "HIGH"
	SeverityMedium Severity = "MEDIUM"
	SeverityLow    Severity = "LOW"
)

type Device struct {
	Hostname string `json:"hostname"`
	Type     string `json:"type"`
	Port     int    `json:"port"`
}

type ComplianceRule struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Pattern     string   `json:"pattern"`
	Required    bool     `json:"required"`
	Severity    Severity `json:"severity"`
}

type Violation struct {
	Rule           string   `json:"rule"`
	Severity       Severity `json:"severity"`
	Description    string   `json:"description"`
	FoundConfig    string   `json:"found_config"`
	ExpectedConfig string   `json:"expected_config"`
	LineNumber     int      `json:"line_number"`
}

type DeviceResult struct {
	Hostname        string      `json:"hostname"`
	Status          string      `json:"status"`
	TotalViolations int         `json:"total_violations"`
	Violations      []Violation `json:"violations"`
}

type AuditSummary struct {
	TotalDevices         int              `json:"total_devices"`
	CompliantDevices     int              `json:"compliant_devices"`
	NonCompliantDevices  int              `json:"non_compliant_devices"`
	TotalViolations      int              `json:"total_violations"`
	SeverityBreakdown    map[Severity]int `json:"severity_breakdown"`
	CompliancePercentage float64          `json:"compliance_percentage"`
}

type SkippedDevice struct {
	Hostname string `json:"hostname"`
	Reason   string `json:"reason"`
}

type AuditReport struct {
	GeneratedAt time.Time       `json:"generated_at"`
	Devices     []DeviceResult  `json:"devices"`
	Skipped     []SkippedDevice `json:"skipped,omitempty"`
	Summary     AuditSummary    `json:"summary"`
}

package domain

import "time"

type DeviceStatus string

const (
	DeviceStatusPass DeviceStatus = "PASS"
	DeviceStatusFail DeviceStatus = "FAIL"
)

// DeviceResult holds one device's audit outcome.
type DeviceResult struct {
	Hostname       string
	Status         DeviceStatus
	Violations     []ComplianceViolation
	SeverityCounts map[Severity]int
}

// AuditSummary is derived from the per-device results and is always
// recomputable from them.
type AuditSummary struct {
	TotalDevices         int
	CompliantDevices     int
	NonCompliantDevices  int
	TotalViolations      int
	SeverityBreakdown    map[Severity]int
	CompliancePercentage float64
}

// AuditReport aggregates violations across all audited devices.
// Devices is sorted by hostname so report presentation is stable;
// the summary itself is independent of input ordering.
type AuditReport struct {
	GeneratedAt time.Time
	Devices     []DeviceResult
	Summary     AuditSummary
}

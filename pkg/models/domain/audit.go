package domain

import "time"

// SkippedDevice records a device that could not be audited because its
// configuration could not be fetched. Skipped devices never count as
// compliant; they are reported separately from the pass/fail population.
type SkippedDevice struct {
	Hostname string
	Reason   string
}

// AuditRun is the outcome of one full pass over an inventory.
type AuditRun struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Report     AuditReport
	Skipped    []SkippedDevice
}

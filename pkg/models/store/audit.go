package store

import "time"

// DeviceRunRecord is one flattened row of audit history: a single
// device's outcome within a single run.
type DeviceRunRecord struct {
	RunID       string
	StartedAt   time.Time
	Hostname    string
	Status      string
	Violations  int
	HighCount   int
	MediumCount int
	LowCount    int
}

// RunSummary aggregates one stored run for history listings.
type RunSummary struct {
	RunID               string
	StartedAt           time.Time
	TotalDevices        int
	CompliantDevices    int
	NonCompliantDevices int
	TotalViolations     int
}

package domain

// Sentinels used in violation fields when there is no config line to cite.
const (
	FoundConfigNotFound  = "NOT FOUND"
	ExpectedConfigAbsent = "SHOULD NOT BE PRESENT"
)

// ComplianceViolation records a single rule failure for a device.
// LineNumber is the 0-based index of the first offending line, and stays 0
// for missing-required violations where no line exists to point at.
type ComplianceViolation struct {
	RuleName       string
	Description    string
	Severity       Severity
	Hostname       string
	LineNumber     int
	FoundConfig    string
	ExpectedConfig string
}

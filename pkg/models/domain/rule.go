package domain

// Severity classifies how urgently a violation should be addressed.
// The set is closed; rule loading rejects anything else.
type Severity string

const (
	SeverityHigh   Severity = "HIGH"
	SeverityMedium Severity = "MEDIUM"
	SeverityLow    Severity = "LOW"
)

func (s Severity) Valid() bool {
	switch s {
	case SeverityHigh, SeverityMedium, SeverityLow:
		return true
	}
	return false
}

// ComplianceRule is a single policy check over raw configuration text.
// Pattern is a case-insensitive regular expression searched line by line.
// Required=true means the pattern must appear somewhere in the config;
// Required=false means it must not appear anywhere.
type ComplianceRule struct {
	Name        string
	Description string
	Pattern     string
	Required    bool
	Severity    Severity
}

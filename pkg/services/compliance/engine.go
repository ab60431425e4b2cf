package compliance

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/netops-tools/netaudit/pkg/models/domain"
	"github.com/netops-tools/netaudit/pkg/services/rules"
)

// Engine evaluates raw device configuration text against a rule set.
// It holds no mutable state after construction, performs no I/O, and is
// safe to share across goroutines.
type Engine struct {
	rules []compiledRule
}

type compiledRule struct {
	rule domain.ComplianceRule
	re   *regexp.Regexp
}

// NewEngine compiles the registry's rules. A non-compiling pattern is a
// rule-definition error and fails here, never during device evaluation.
func NewEngine(registry rules.Registry) (*Engine, error) {
	ruleList := registry.Load()
	compiled := make([]compiledRule, 0, len(ruleList))
	for _, rule := range ruleList {
		re, err := regexp.Compile("(?i)" + rule.Pattern)
		if err != nil {
			return nil, fmt.Errorf("rule %q: invalid pattern: %w", rule.Name, err)
		}
		compiled = append(compiled, compiledRule{rule: rule, re: re})
	}
	return &Engine{rules: compiled}, nil
}

// Rules returns the engine's rule set in evaluation order.
func (e *Engine) Rules() []domain.ComplianceRule {
	out := make([]domain.ComplianceRule, 0, len(e.rules))
	for _, cr := range e.rules {
		out = append(out, cr.rule)
	}
	return out
}

// Evaluate checks a single rule against configuration text and returns a
// violation when the outcome disagrees with policy, nil otherwise.
func Evaluate(rule domain.ComplianceRule, hostname, config string) (*domain.ComplianceViolation, error) {
	re, err := regexp.Compile("(?i)" + rule.Pattern)
	if err != nil {
		return nil, fmt.Errorf("rule %q: invalid pattern: %w", rule.Name, err)
	}
	return evaluate(compiledRule{rule: rule, re: re}, hostname, config), nil
}

// evaluate scans lines in order and stops at the first match. A pattern
// appearing on several lines only ever reports the first occurrence.
func evaluate(cr compiledRule, hostname, config string) *domain.ComplianceViolation {
	found := false
	foundLine := 0
	foundConfig := ""

	for i, line := range strings.Split(config, "\n") {
		if cr.re.MatchString(line) {
			found = true
			foundLine = i
			foundConfig = strings.TrimSpace(line)
			break
		}
	}

	switch {
	case cr.rule.Required && !found:
		return &domain.ComplianceViolation{
			RuleName:       cr.rule.Name,
			Description:    "MISSING: " + cr.rule.Description,
			Severity:       cr.rule.Severity,
			Hostname:       hostname,
			LineNumber:     0,
			FoundConfig:    domain.FoundConfigNotFound,
			ExpectedConfig: cr.rule.Pattern,
		}
	case !cr.rule.Required && found:
		return &domain.ComplianceViolation{
			RuleName:       cr.rule.Name,
			Description:    "FOUND: " + cr.rule.Description,
			Severity:       cr.rule.Severity,
			Hostname:       hostname,
			LineNumber:     foundLine,
			FoundConfig:    foundConfig,
			ExpectedConfig: domain.ExpectedConfigAbsent,
		}
	}
	return nil
}

// CheckDevice evaluates every rule in registry order against one device's
// configuration and returns the violations in that order.
func (e *Engine) CheckDevice(hostname, config string) []domain.ComplianceViolation {
	var violations []domain.ComplianceViolation
	for _, cr := range e.rules {
		if v := evaluate(cr, hostname, config); v != nil {
			violations = append(violations, *v)
		}
	}
	return violations
}

// BuildReport aggregates per-device violations into a report. It is a
// pure function of its input: summary numbers do not depend on map
// iteration order, and device entries come out sorted by hostname.
func BuildReport(deviceViolations map[string][]domain.ComplianceViolation) domain.AuditReport {
	hostnames := make([]string, 0, len(deviceViolations))
	for hostname := range deviceViolations {
		hostnames = append(hostnames, hostname)
	}
	sort.Strings(hostnames)

	report := domain.AuditReport{
		Devices: make([]domain.DeviceResult, 0, len(hostnames)),
		Summary: domain.AuditSummary{
			SeverityBreakdown: map[domain.Severity]int{
				domain.SeverityHigh:   0,
				domain.SeverityMedium: 0,
				domain.SeverityLow:    0,
			},
		},
	}

	for _, hostname := range hostnames {
		violations := deviceViolations[hostname]

		result := domain.DeviceResult{
			Hostname:   hostname,
			Status:     domain.DeviceStatusPass,
			Violations: violations,
			SeverityCounts: map[domain.Severity]int{
				domain.SeverityHigh:   0,
				domain.SeverityMedium: 0,
				domain.SeverityLow:    0,
			},
		}
		if len(violations) > 0 {
			result.Status = domain.DeviceStatusFail
		}

		for _, v := range violations {
			result.SeverityCounts[v.Severity]++
			report.Summary.SeverityBreakdown[v.Severity]++
		}

		report.Summary.TotalDevices++
		report.Summary.TotalViolations += len(violations)
		if len(violations) == 0 {
			report.Summary.CompliantDevices++
		} else {
			report.Summary.NonCompliantDevices++
		}

		report.Devices = append(report.Devices, result)
	}

	if report.Summary.TotalDevices > 0 {
		report.Summary.CompliancePercentage = float64(report.Summary.CompliantDevices) /
			float64(report.Summary.TotalDevices) * 100
	}

	return report
}

package rules

import (
	"fmt"
	"regexp"

	"github.com/netops-tools/netaudit/pkg/models/domain"
)

// Registry hands out the active compliance rule set in a fixed order.
// Rules are data: evaluation never special-cases individual rules, so
// swapping the registry contents never touches the engine.
type Registry interface {
	Load() []domain.ComplianceRule
}

type staticRegistry struct {
	rules []domain.ComplianceRule
}

// NewRegistry validates the given rules and wraps them in a Registry.
func NewRegistry(ruleList []domain.ComplianceRule) (Registry, error) {
	if err := Validate(ruleList); err != nil {
		return nil, err
	}
	return &staticRegistry{rules: ruleList}, nil
}

// NewDefaultRegistry returns a registry holding the baseline rule set.
func NewDefaultRegistry() Registry {
	return &staticRegistry{rules: DefaultRules()}
}

func (r *staticRegistry) Load() []domain.ComplianceRule {
	out := make([]domain.ComplianceRule, len(r.rules))
	copy(out, r.rules)
	return out
}

// Validate rejects rule definitions that would fault at evaluation time:
// duplicate names, unknown severities, and patterns that do not compile.
// This runs once at load; per-device evaluation can then assume every
// rule is well formed.
func Validate(ruleList []domain.ComplianceRule) error {
	seen := make(map[string]struct{}, len(ruleList))
	for _, rule := range ruleList {
		if rule.Name == "" {
			return fmt.Errorf("rule with empty name (description: %q)", rule.Description)
		}
		if _, ok := seen[rule.Name]; ok {
			return fmt.Errorf("duplicate rule name %q", rule.Name)
		}
		seen[rule.Name] = struct{}{}

		if !rule.Severity.Valid() {
			return fmt.Errorf("rule %q: unknown severity %q", rule.Name, rule.Severity)
		}
		if _, err := regexp.Compile("(?i)" + rule.Pattern); err != nil {
			return fmt.Errorf("rule %q: invalid pattern: %w", rule.Name, err)
		}
	}
	return nil
}

// DefaultRules is the compiled-in baseline hardening rule set for
// router/switch configurations.
func DefaultRules() []domain.ComplianceRule {
	return []domain.ComplianceRule{
		{
			Name:        "enable_secret_configured",
			Description: "Enable secret must be configured",
			Pattern:     `^enable secret`,
			Required:    true,
			Severity:    domain.SeverityHigh,
		},
		{
			Name:        "no_telnet_access",
			Description: "Telnet access should be disabled",
			Pattern:     `transport input telnet`,
			Required:    false,
			Severity:    domain.SeverityHigh,
		},
		{
			Name:        "ssh_access_configured",
			Description: "SSH access should be configured",
			Pattern:     `transport input ssh`,
			Required:    true,
			Severity:    domain.SeverityMedium,
		},
		{
			Name:        "logging_configured",
			Description: "Logging should be configured",
			Pattern:     `logging synchronous`,
			Required:    true,
			Severity:    domain.SeverityMedium,
		},
		{
			Name:        "ntp_configured",
			Description: "NTP server should be configured",
			Pattern:     `ntp server`,
			Required:    true,
			Severity:    domain.SeverityMedium,
		},
		{
			Name:        "snmp_community_configured",
			Description: "SNMP community should be configured",
			Pattern:     `snmp-server community`,
			Required:    true,
			Severity:    domain.SeverityLow,
		},
		{
			Name:        "access_list_configured",
			Description: "Access lists should be configured",
			Pattern:     `access-list`,
			Required:    true,
			Severity:    domain.SeverityMedium,
		},
		{
			Name:        "service_password_encryption",
			Description: "Password encryption should be enabled",
			Pattern:     `service password-encryption`,
			Required:    true,
			Severity:    domain.SeverityHigh,
		},
	}
}

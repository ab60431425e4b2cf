package rules

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/netops-tools/netaudit/pkg/models/domain"
)

type ruleEntry struct {
	Name        string `mapstructure:"name"`
	Description string `mapstructure:"description"`
	Pattern     string `mapstructure:"pattern"`
	Required    bool   `mapstructure:"required"`
	Severity    string `mapstructure:"severity"`
}

type ruleFile struct {
	Rules []ruleEntry `mapstructure:"rules"`
}

// LoadFile reads a YAML rule definition file and returns a validated
// registry. The file shape is:
//
//	rules:
//	  - name: enable_secret_configured
//	    description: Enable secret must be configured
//	    pattern: "^enable secret"
//	    required: true
//	    severity: HIGH
func LoadFile(path string) (Registry, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read rule file: %w", err)
	}

	var file ruleFile
	if err := v.Unmarshal(&file); err != nil {
		return nil, fmt.Errorf("failed to parse rule file: %w", err)
	}

	if len(file.Rules) == 0 {
		return nil, fmt.Errorf("rule file %s defines no rules", path)
	}

	ruleList := make([]domain.ComplianceRule, 0, len(file.Rules))
	for _, entry := range file.Rules {
		ruleList = append(ruleList, domain.ComplianceRule{
			Name:        entry.Name,
			Description: entry.Description,
			Pattern:     entry.Pattern,
			Required:    entry.Required,
			Severity:    domain.Severity(entry.Severity),
		})
	}

	return NewRegistry(ruleList)
}

// Package rules holds the tunable lookup tables behind scoring and text cleanup:
// weighted complaint keyword tiers, courtesy boilerplate phrases and system-event phrases.
package rules

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Tier is one weighted keyword group. Tiers are evaluated in slice order, which also decides
// which keyword is reported as the matched reason.
type Tier struct {
	Name     string   `yaml:"name"`
	Weight   int      `yaml:"weight"`
	Keywords []string `yaml:"keywords"`
}

type RuleSet struct {
	Tiers               []Tier   `yaml:"tiers"`
	CustomerBoilerplate []string `yaml:"customer_boilerplate"`
	OperatorBoilerplate []string `yaml:"operator_boilerplate"`
	SystemPhrases       []string `yaml:"system_phrases"`
}

// Validate rejects tables that cannot drive scoring.
func (r *RuleSet) Validate() error {
	if len(r.Tiers) == 0 {
		return fmt.Errorf("at least one keyword tier is required")
	}
	for i, tier := range r.Tiers {
		if tier.Name == "" {
			return fmt.Errorf("tier %d: name is required", i)
		}
		if tier.Weight <= 0 {
			return fmt.Errorf("tier %s: weight must be positive", tier.Name)
		}
		for _, kw := range tier.Keywords {
			if kw == "" {
				return fmt.Errorf("tier %s: empty keyword", tier.Name)
			}
		}
	}
	for _, list := range [][]string{r.CustomerBoilerplate, r.OperatorBoilerplate, r.SystemPhrases} {
		for _, phrase := range list {
			if phrase == "" {
				return fmt.Errorf("empty phrase in rule lists")
			}
		}
	}
	return nil
}

// Clone returns a deep copy.
func (r *RuleSet) Clone() *RuleSet {
	out := &RuleSet{
		Tiers:               make([]Tier, len(r.Tiers)),
		CustomerBoilerplate: append([]string(nil), r.CustomerBoilerplate...),
		OperatorBoilerplate: append([]string(nil), r.OperatorBoilerplate...),
		SystemPhrases:       append([]string(nil), r.SystemPhrases...),
	}
	for i, tier := range r.Tiers {
		out.Tiers[i] = Tier{Name: tier.Name, Weight: tier.Weight, Keywords: append([]string(nil), tier.Keywords...)}
	}
	return out
}

// Parse overlays a YAML document onto the defaults. Any list present in the document
// replaces the default list wholesale.
func Parse(data []byte) (*RuleSet, error) {
	var overlay RuleSet
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return nil, fmt.Errorf("failed to parse rules: %w", err)
	}

	rs := Default()
	if overlay.Tiers != nil {
		rs.Tiers = overlay.Tiers
	}
	if overlay.CustomerBoilerplate != nil {
		rs.CustomerBoilerplate = overlay.CustomerBoilerplate
	}
	if overlay.OperatorBoilerplate != nil {
		rs.OperatorBoilerplate = overlay.OperatorBoilerplate
	}
	if overlay.SystemPhrases != nil {
		rs.SystemPhrases = overlay.SystemPhrases
	}

	if err := rs.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rules: %w", err)
	}
	return rs, nil
}

// Load reads a rules file; an empty path yields the defaults.
func Load(path string) (*RuleSet, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}
	return Parse(data)
}

// Marshal renders the rule set as YAML.
func (r *RuleSet) Marshal() ([]byte, error) {
	return yaml.Marshal(r)
}

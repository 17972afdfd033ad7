package config

import (
	"fmt"

	"github.com/renjie/prism-qudt/pkg/core/domain"
	"github.com/renjie/prism-qudt/pkg/core/ports"
)

// TargetUnits resolves the configured target unit symbols through units.
func (c *Config) TargetUnits(units ports.UnitRepository) (map[domain.DeviceType]domain.Unit, error) {
	out := make(map[domain.DeviceType]domain.Unit, len(c.Targets))
	for deviceType, symbol := range c.Targets {
		u, err := units.Lookup(symbol)
		if err != nil {
			return nil, fmt.Errorf("target unit for %s: %w", deviceType, err)
		}
		out[domain.DeviceType(deviceType)] = u
	}
	return out, nil
}

// CleaningRules converts the rule configs to domain rules.
func (c *Config) CleaningRules() []domain.CleaningRule {
	out := make([]domain.CleaningRule, 0, len(c.Rules))
	for _, r := range c.Rules {
		enabled := r.Enabled == nil || *r.Enabled
		out = append(out, domain.CleaningRule{
			ID:         r.ID,
			DeviceType: domain.DeviceType(r.DeviceType),
			Type:       domain.RuleType(r.Type),
			Action:     domain.RuleAction(r.Action),
			Enabled:    enabled,
			Parameters: r.Parameters,
			Priority:   r.Priority,
		})
	}
	return out
}

// IngestStrategy returns the configured ingest strategy.
func (c *Config) IngestStrategy() (domain.IngestStrategy, error) {
	return domain.ParseIngestStrategy(c.Strategy)
}

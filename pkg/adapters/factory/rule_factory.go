package factory

import (
	"errors"
	"fmt"
	"sync"

	"github.com/renjie/prism-qudt/pkg/core/domain"
	"github.com/renjie/prism-qudt/pkg/core/ports"
	"github.com/renjie/prism-qudt/pkg/core/services/rules"
)

// ErrInvalidRule 规则配置无法构造为可执行规则
var ErrInvalidRule = errors.New("invalid rule")

// RuleBuilder defines the contract for creating a specific rule logic
type RuleBuilder func(rule domain.CleaningRule, units ports.UnitRepository) (ports.CleaningRule, error)

// RuleFactory is the registry for all available rule types
type RuleFactory struct {
	builders map[domain.RuleType]RuleBuilder
	mu       sync.RWMutex
}

var (
	instance *RuleFactory
	once     sync.Once
)

// GetRuleFactory returns the singleton instance
func GetRuleFactory() *RuleFactory {
	once.Do(func() {
		instance = NewRuleFactory()
	})
	return instance
}

// NewRuleFactory creates a new RuleFactory instance with built-in rules registered
// This constructor is useful for testing where you need isolated factory instances
func NewRuleFactory() *RuleFactory {
	f := &RuleFactory{
		builders: make(map[domain.RuleType]RuleBuilder),
	}
	f.Register(domain.RuleTypeRange, buildRangeRule)
	f.Register(domain.RuleTypeMonotonic, buildMonotonicRule)
	f.Register(domain.RuleTypeJump, buildJumpRule)
	f.Register(domain.RuleTypeStagnation, buildStagnationRule)
	return f
}

// Register adds or overrides a rule builder
func (f *RuleFactory) Register(ruleType domain.RuleType, builder RuleBuilder) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.builders[ruleType] = builder
}

// CreateRule instantiates a rule strategy based on configuration
func (f *RuleFactory) CreateRule(rule domain.CleaningRule, units ports.UnitRepository) (ports.CleaningRule, error) {
	f.mu.RLock()
	builder, ok := f.builders[rule.Type]
	f.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: no builder registered for rule type: %s", ErrInvalidRule, rule.Type)
	}
	return builder(rule, units)
}

// CreateRules builds every rule in order, stopping at the first failure.
func (f *RuleFactory) CreateRules(configs []domain.CleaningRule, units ports.UnitRepository) ([]ports.CleaningRule, error) {
	out := make([]ports.CleaningRule, 0, len(configs))
	for _, cfg := range configs {
		r, err := f.CreateRule(cfg, units)
		if err != nil {
			return nil, fmt.Errorf("convert rule %s failed: %w", cfg.ID, err)
		}
		out = append(out, r)
	}
	return out, nil
}

// buildRangeRule: {"min": 0, "max": 100, "unit": "kWh"}
func buildRangeRule(rule domain.CleaningRule, units ports.UnitRepository) (ports.CleaningRule, error) {
	min, err := quantityParam(rule.Parameters, "min", units)
	if err != nil {
		return nil, err
	}
	max, err := quantityParam(rule.Parameters, "max", units)
	if err != nil {
		return nil, err
	}
	if c, err := domain.Compare(min, max); err != nil || c > 0 {
		return nil, fmt.Errorf("%w: RANGE needs min <= max, got [%s, %s]", ErrInvalidRule, min, max)
	}

	action := rule.Action
	if action == "" {
		action = domain.ActionReject
	}
	return &rules.RangeRule{ID: rule.ID, Min: min, Max: max, Action: action}, nil
}

func buildMonotonicRule(rule domain.CleaningRule, _ ports.UnitRepository) (ports.CleaningRule, error) {
	return &rules.MonotonicRule{ID: rule.ID}, nil
}

// buildJumpRule: {"max_delta": 50, "unit": "kWh"}
func buildJumpRule(rule domain.CleaningRule, units ports.UnitRepository) (ports.CleaningRule, error) {
	maxDelta, err := quantityParam(rule.Parameters, "max_delta", units)
	if err != nil {
		return nil, err
	}
	return &rules.JumpRule{ID: rule.ID, MaxDelta: maxDelta}, nil
}

// buildStagnationRule: {"min_delta": 0.1, "unit": "kWh"}
func buildStagnationRule(rule domain.CleaningRule, units ports.UnitRepository) (ports.CleaningRule, error) {
	minDelta, err := quantityParam(rule.Parameters, "min_delta", units)
	if err != nil {
		return nil, err
	}
	return &rules.StagnationRule{ID: rule.ID, MinDelta: minDelta}, nil
}

// quantityParam 读取数值参数，并以 "unit" 参数 (缺省为 num) 构造物理量
func quantityParam(params map[string]any, key string, units ports.UnitRepository) (domain.QuantityValue, error) {
	v, ok := getFloat(params, key)
	if !ok {
		return domain.QuantityValue{}, fmt.Errorf("%w: missing numeric parameter %q", ErrInvalidRule, key)
	}

	symbol, _ := params["unit"].(string)
	if symbol == "" {
		return domain.OfNumber(v), nil
	}
	if units == nil {
		return domain.QuantityValue{}, fmt.Errorf("%w: unit %q given but no unit repository configured", ErrInvalidRule, symbol)
	}
	u, err := units.Lookup(symbol)
	if err != nil {
		return domain.QuantityValue{}, fmt.Errorf("%w: %w", ErrInvalidRule, err)
	}
	return domain.OfScaled(v, u), nil
}

func getFloat(params map[string]any, key string) (float64, bool) {
	switch v := params[key].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/renjie/prism-qudt/pkg/core/domain"
	"github.com/renjie/prism-qudt/pkg/core/ports"
)

// CleaningRuleRepository 内存版规则仓储
type CleaningRuleRepository struct {
	mu    sync.RWMutex
	rules map[string]domain.CleaningRule
}

var _ ports.CleaningRuleRepository = (*CleaningRuleRepository)(nil)

// NewCleaningRuleRepository 创建规则仓储，可选地预置一批规则
func NewCleaningRuleRepository(seed ...domain.CleaningRule) *CleaningRuleRepository {
	r := &CleaningRuleRepository{rules: make(map[string]domain.CleaningRule, len(seed))}
	for _, rule := range seed {
		r.rules[rule.ID] = cloneRule(rule)
	}
	return r
}

func (r *CleaningRuleRepository) Save(ctx context.Context, rule domain.CleaningRule) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if rule.ID == "" {
		return fmt.Errorf("save rule: empty id")
	}

	r.mu.Lock()
	r.rules[rule.ID] = cloneRule(rule)
	r.mu.Unlock()
	return nil
}

func (r *CleaningRuleRepository) GetByID(ctx context.Context, id string) (*domain.CleaningRule, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	rule, ok := r.rules[id]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("rule %s: %w", id, ports.ErrNotFound)
	}
	out := cloneRule(rule)
	return &out, nil
}

func (r *CleaningRuleRepository) ListEnabledByDeviceType(ctx context.Context, deviceType domain.DeviceType) ([]domain.CleaningRule, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	var out []domain.CleaningRule
	for _, rule := range r.rules {
		if rule.Enabled && rule.DeviceType == deviceType {
			out = append(out, cloneRule(rule))
		}
	}
	r.mu.RUnlock()

	// Priority 相同时按 ID 排序，保证执行顺序稳定
	sort.Slice(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority < out[j].Priority
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *CleaningRuleRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rules[id]; !ok {
		return fmt.Errorf("rule %s: %w", id, ports.ErrNotFound)
	}
	delete(r.rules, id)
	return nil
}

func cloneRule(rule domain.CleaningRule) domain.CleaningRule {
	if rule.Parameters != nil {
		params := make(map[string]any, len(rule.Parameters))
		for k, v := range rule.Parameters {
			params[k] = v
		}
		rule.Parameters = params
	}
	return rule
}

package rules

import (
	"fmt"

	"github.com/renjie/prism-qudt/pkg/core/domain"
	"github.com/renjie/prism-qudt/pkg/core/ports"
)

// MonotonicRule 单调性规则
// 累积读数 (电表/水表) 不能为负，也不能比上一条读数小
type MonotonicRule struct {
	ID string
}

func (r *MonotonicRule) Check(ctx ports.CleaningContext, curr domain.Reading) ports.CheckResult {
	if curr.Quantity.Raw() < 0 {
		return ports.Reject(r.ID, curr, fmt.Sprintf("negative value: %s", curr.Quantity))
	}
	if ctx.Previous == nil {
		return ports.Pass(curr)
	}
	c, err := domain.Compare(curr.Quantity, ctx.Previous.Quantity)
	if err != nil {
		return ports.Reject(r.ID, curr, err.Error())
	}
	if c < 0 {
		return ports.Reject(r.ID, curr, fmt.Sprintf("value regression: current %s < prev %s", curr.Quantity, ctx.Previous.Quantity))
	}
	return ports.Pass(curr)
}

// JumpRule 跳变规则
// 相邻两条读数的增量超过 MaxDelta 视为异常
type JumpRule struct {
	ID       string
	MaxDelta domain.QuantityValue
}

func (r *JumpRule) Check(ctx ports.CleaningContext, curr domain.Reading) ports.CheckResult {
	if ctx.Previous == nil {
		return ports.Pass(curr)
	}
	diff, c, err := delta(curr, *ctx.Previous, r.MaxDelta)
	if err != nil {
		return ports.Reject(r.ID, curr, err.Error())
	}
	if c > 0 {
		return ports.Reject(r.ID, curr, fmt.Sprintf("abnormal jump: diff %s > max %s", diff, r.MaxDelta))
	}
	return ports.Pass(curr)
}

// StagnationRule 停滞规则
// 增量非负但小于 MinDelta 视为表计停走
type StagnationRule struct {
	ID       string
	MinDelta domain.QuantityValue
}

func (r *StagnationRule) Check(ctx ports.CleaningContext, curr domain.Reading) ports.CheckResult {
	if ctx.Previous == nil {
		return ports.Pass(curr)
	}
	diff, c, err := delta(curr, *ctx.Previous, r.MinDelta)
	if err != nil {
		return ports.Reject(r.ID, curr, err.Error())
	}
	if diff.Raw() >= 0 && c < 0 {
		return ports.Reject(r.ID, curr, fmt.Sprintf("value stagnation: diff %s < min %s", diff, r.MinDelta))
	}
	return ports.Pass(curr)
}

// delta 计算 curr - prev，换算到阈值的单位后与阈值比较
func delta(curr, prev domain.Reading, threshold domain.QuantityValue) (domain.QuantityValue, int, error) {
	diff, err := domain.TryDifference(curr.Quantity, prev.Quantity)
	if err != nil {
		return domain.QuantityValue{}, 0, err
	}
	diff, err = domain.TryConvert(diff, threshold.Unit())
	if err != nil {
		return domain.QuantityValue{}, 0, err
	}
	c, err := domain.Compare(diff, threshold)
	return diff, c, err
}

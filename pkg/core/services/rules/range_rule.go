package rules

import (
	"fmt"

	"github.com/renjie/prism-qudt/pkg/core/domain"
	"github.com/renjie/prism-qudt/pkg/core/ports"
)

// RangeRule 实现数值范围检查
// Min/Max 是带单位的物理量，可与任意可换算单位的读数比较 (例如 Max=100 kWh 与 250000 Wh)
type RangeRule struct {
	ID     string
	Min    domain.QuantityValue
	Max    domain.QuantityValue
	Action domain.RuleAction
}

// Check 检查读数是否在范围内
func (r *RangeRule) Check(ctx ports.CleaningContext, curr domain.Reading) ports.CheckResult {
	lo, err := domain.Compare(curr.Quantity, r.Min)
	if err != nil {
		return ports.Reject(r.ID, curr, err.Error())
	}
	hi, err := domain.Compare(curr.Quantity, r.Max)
	if err != nil {
		return ports.Reject(r.ID, curr, err.Error())
	}
	if lo >= 0 && hi <= 0 {
		return ports.Pass(curr)
	}

	switch r.Action {
	case domain.ActionCorrect:
		// 修正策略: 截断 (Clamp)，边界值换算到读数自身的单位
		bound, verb := r.Max, "max"
		if lo < 0 {
			bound, verb = r.Min, "min"
		}
		corrected := curr
		corrected.Quantity = domain.Convert(bound, curr.Quantity.Unit())
		corrected.Quality = domain.QualityCorrected
		return ports.Correct(r.ID, corrected, fmt.Sprintf("value %s corrected to %s %s", curr.Quantity, verb, bound))

	default: // ActionReject
		return ports.Reject(r.ID, curr, fmt.Sprintf("value %s out of range [%s, %s]", curr.Quantity, r.Min, r.Max))
	}
}

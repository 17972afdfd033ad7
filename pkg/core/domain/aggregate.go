package domain

import (
	"fmt"
	"reflect"
	"strings"
)

// Factor 组合单位中的一项: 单位及其指数
type Factor struct {
	Unit     Unit
	Exponent Fraction
}

// AggregateUnit 组合单位
// 由乘法 (指数 1,1)、除法 (指数 1,-1) 或乘方 (单个单位 + 整数/分数指数) 合成，
// 仅作为组合运算的结果单位出现，不由使用方直接构造。
//
// 组合结果总是在相干基准下构造的，因此 Scale/Unscale 为恒等变换。
// 嵌套的组合单位会被展开，相同的单位合并指数，指数为 0 的项与 num 被移除。
type AggregateUnit struct {
	factors []Factor
	dim     DimensionVector
}

// newPowerUnit 对应 u^exp
func newPowerUnit(u Unit, exp Fraction) *AggregateUnit {
	a := &AggregateUnit{}
	a.push(u, exp)
	return a.seal()
}

// newProductUnit 对应 a^expA · b^expB
func newProductUnit(a Unit, expA Fraction, b Unit, expB Fraction) *AggregateUnit {
	agg := &AggregateUnit{}
	agg.push(a, expA)
	agg.push(b, expB)
	return agg.seal()
}

func (a *AggregateUnit) push(u Unit, exp Fraction) {
	if inner, ok := u.(*AggregateUnit); ok {
		for _, f := range inner.factors {
			a.push(f.Unit, f.Exponent.Mul(exp))
		}
		return
	}
	if _, ok := u.(numUnit); ok {
		return
	}
	if hasOffset(u) {
		panic(fmt.Errorf("%w: %s", ErrOffsetComposition, u))
	}
	for i := range a.factors {
		if sameUnit(a.factors[i].Unit, u) {
			a.factors[i].Exponent = a.factors[i].Exponent.Add(exp)
			return
		}
	}
	a.factors = append(a.factors, Factor{Unit: u, Exponent: exp})
}

func (a *AggregateUnit) seal() *AggregateUnit {
	kept := a.factors[:0]
	for _, f := range a.factors {
		if f.Exponent.IsZero() {
			continue
		}
		kept = append(kept, f)
		a.dim = a.dim.Add(f.Unit.Dimension().Scale(f.Exponent))
	}
	a.factors = kept
	return a
}

// sameUnit 仅在动态类型可比较时才用 == 判断同一单位
func sameUnit(x, y Unit) bool {
	tx, ty := reflect.TypeOf(x), reflect.TypeOf(y)
	if tx != ty || !tx.Comparable() {
		return false
	}
	return x == y
}

func (a *AggregateUnit) Scale(raw float64) float64 { return raw }

func (a *AggregateUnit) Unscale(display float64) float64 { return display }

func (a *AggregateUnit) Dimension() DimensionVector { return a.dim }

func (a *AggregateUnit) IsConvertible(other Unit) bool { return Convertible(a, other) }

// Factors returns a copy of the unit's constituents.
func (a *AggregateUnit) Factors() []Factor {
	out := make([]Factor, len(a.factors))
	copy(out, a.factors)
	return out
}

// String renders e.g. "m·s^-1", "m^(1/2)"; an empty product renders as "1".
// Value() 总是相干基准下的数值，因此只要有一项不是相干单位 (km、h、kWh)，
// 就按量纲向量输出 SI 基本单位 (km/h -> "m·s^-1")，保证标签与数值一致。
func (a *AggregateUnit) String() string {
	if len(a.factors) == 0 {
		return "1"
	}
	for _, f := range a.factors {
		if !isCoherent(f.Unit) {
			return siString(a.dim)
		}
	}
	parts := make([]string, 0, len(a.factors))
	for _, f := range a.factors {
		parts = append(parts, factorString(f.Unit.String(), f.Exponent))
	}
	return strings.Join(parts, "·")
}

// siSymbols 各基本量纲的 SI 基本单位
var siSymbols = [numBaseDimensions]string{"m", "kg", "s", "A", "K", "mol", "cd"}

func siString(d DimensionVector) string {
	var parts []string
	for i, e := range d.exps {
		if !e.IsZero() {
			parts = append(parts, factorString(siSymbols[i], e))
		}
	}
	if len(parts) == 0 {
		return "1"
	}
	return strings.Join(parts, "·")
}

func factorString(symbol string, exp Fraction) string {
	switch {
	case exp.Equal(IntFraction(1)):
		return symbol
	case exp.IsInteger():
		return fmt.Sprintf("%s^%s", symbol, exp)
	default:
		return fmt.Sprintf("%s^(%s)", symbol, exp)
	}
}

// isCoherent 单位的展示值与相干基准下的 raw 值相同
func isCoherent(u Unit) bool {
	return u.Unscale(1) == 1 && u.Unscale(0) == 0
}

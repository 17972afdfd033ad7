package domain

import "fmt"

// Unit 单位能力契约
// 同一量纲下的所有单位共享同一个"相干"原始基准 (coherent raw basis)：
// 物理量的 raw 值与具体使用哪个可换算单位无关，单位之间只在 Scale/Unscale 上不同。
// 因此在可换算单位之间重新打标签时，无需变换 raw 值。
//
// 实现必须是不可变的，可以在任意 goroutine 间共享。
type Unit interface {
	// Scale 将 raw 值换算为展示值 (线性变换，可能带偏移，如温度)
	Scale(raw float64) float64

	// Unscale 是 Scale 的精确逆运算
	Unscale(display float64) float64

	// IsConvertible 当且仅当两个单位的量纲标识相同时返回 true
	IsConvertible(other Unit) bool

	// Dimension 返回单位的量纲标识
	Dimension() DimensionVector

	fmt.Stringer
}

// AffineUnit 带偏移量的单位 (例如 °C: raw = display + 273.15)
// 偏移量非零的单位不能参与乘除/乘方组合。
type AffineUnit interface {
	Unit
	Offset() float64
}

// Convertible 是 IsConvertible 的通用实现，供各 Unit 实现复用
func Convertible(u, other Unit) bool {
	if u == nil || other == nil {
		return false
	}
	return u.Dimension() == other.Dimension()
}

// Num 规范的无量纲单位 (OfNumber 使用)
var Num Unit = numUnit{}

type numUnit struct{}

func (numUnit) Scale(raw float64) float64 { return raw }
func (numUnit) Unscale(display float64) float64 { return display }
func (numUnit) Dimension() DimensionVector { return Dimensionless }
func (u numUnit) IsConvertible(other Unit) bool { return Convertible(u, other) }
func (numUnit) String() string { return "num" }

func hasOffset(u Unit) bool {
	a, ok := u.(AffineUnit)
	return ok && a.Offset() != 0
}

package catalog

import "github.com/renjie/prism-qudt/pkg/core/domain"

// LinearUnit 线性 (仿射) 单位
// raw = (display + Offset) * Multiplier，raw 位于该量纲的相干 SI 基准下。
// 例如 km: Multiplier 1000；°C: Multiplier 1, Offset 273.15。
type LinearUnit struct {
	symbol     string
	name       string
	dim        domain.DimensionVector
	multiplier float64
	offset     float64
}

// NewLinearUnit 创建纯乘法单位
func NewLinearUnit(symbol, name string, dim domain.DimensionVector, multiplier float64) *LinearUnit {
	return &LinearUnit{symbol: symbol, name: name, dim: dim, multiplier: multiplier}
}

// NewAffineUnit 创建带偏移量的单位 (温度)
func NewAffineUnit(symbol, name string, dim domain.DimensionVector, multiplier, offset float64) *LinearUnit {
	return &LinearUnit{symbol: symbol, name: name, dim: dim, multiplier: multiplier, offset: offset}
}

func (u *LinearUnit) Scale(raw float64) float64 {
	return raw/u.multiplier - u.offset
}

func (u *LinearUnit) Unscale(display float64) float64 {
	return (display + u.offset) * u.multiplier
}

func (u *LinearUnit) IsConvertible(other domain.Unit) bool {
	return domain.Convertible(u, other)
}

func (u *LinearUnit) Dimension() domain.DimensionVector { return u.dim }

func (u *LinearUnit) Offset() float64 { return u.offset }

func (u *LinearUnit) Multiplier() float64 { return u.multiplier }

func (u *LinearUnit) Symbol() string { return u.symbol }

// Name 单位全称 (例如 "kilowatt hour")
func (u *LinearUnit) Name() string { return u.name }

func (u *LinearUnit) String() string { return u.symbol }

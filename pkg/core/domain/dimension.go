package domain

import "strings"

// BaseDimension SI 基本量纲
type BaseDimension int

const (
	Length BaseDimension = iota
	Mass
	Time
	Current
	Temperature
	Amount
	Luminosity
	numBaseDimensions
)

var baseSymbols = [numBaseDimensions]string{"L", "M", "T", "I", "Θ", "N", "J"}

func (b BaseDimension) String() string {
	if b < 0 || b >= numBaseDimensions {
		return "?"
	}
	return baseSymbols[b]
}

// DimensionVector 量纲标识: 各基本量纲上的指数向量
// 不可变、可比较 (可直接用作 map key)，零值表示无量纲。
// 两个单位可互相换算，当且仅当它们的 DimensionVector 相等。
type DimensionVector struct {
	exps [numBaseDimensions]Fraction
}

// Dimensionless 无量纲 (纯数)
var Dimensionless = DimensionVector{}

// Dim returns the vector with a single integer exponent on b.
func Dim(b BaseDimension, exp int64) DimensionVector {
	return Dimensionless.With(b, exp)
}

// With 返回在 b 上叠加整数指数后的新向量
// 用于链式构造, 例如 Dim(Length, 1).With(Time, -1)
func (d DimensionVector) With(b BaseDimension, exp int64) DimensionVector {
	d.exps[b] = d.exps[b].Add(IntFraction(exp))
	return d
}

// Exponent returns the exponent of base dimension b.
func (d DimensionVector) Exponent(b BaseDimension) Fraction {
	return d.exps[b]
}

// Add 向量加法 (对应单位相乘)
func (d DimensionVector) Add(other DimensionVector) DimensionVector {
	for i := range d.exps {
		d.exps[i] = d.exps[i].Add(other.exps[i])
	}
	return d
}

// Sub 向量减法 (对应单位相除)
func (d DimensionVector) Sub(other DimensionVector) DimensionVector {
	return d.Add(other.Scale(IntFraction(-1)))
}

// Scale 数乘 (对应单位乘方)
func (d DimensionVector) Scale(f Fraction) DimensionVector {
	for i := range d.exps {
		d.exps[i] = d.exps[i].Mul(f)
	}
	return d
}

func (d DimensionVector) Equal(other DimensionVector) bool {
	return d == other
}

func (d DimensionVector) IsDimensionless() bool {
	return d == Dimensionless
}

// String renders the non-zero exponents, e.g. "L1 T-1" or "L1/2"; "1" when dimensionless.
func (d DimensionVector) String() string {
	var parts []string
	for i, e := range d.exps {
		if e.IsZero() {
			continue
		}
		parts = append(parts, BaseDimension(i).String()+e.String())
	}
	if len(parts) == 0 {
		return "1"
	}
	return strings.Join(parts, " ")
}

package domain

import (
	"fmt"
	"strconv"
)

// Fraction 精确有理数 (用于分数指数, 例如开方 m^(1/2))
// 构造时约分到最简形式，分母恒为正。
// 零值即 0/1，可直接使用。
type Fraction struct {
	num int64
	dm1 int64 // denominator minus one, so the zero value is 0/1
}

// NewFraction 构造并约分分数
func NewFraction(num, den int64) (Fraction, error) {
	if den == 0 {
		return Fraction{}, fmt.Errorf("fraction %d/0: %w", num, ErrZeroDenominator)
	}
	if den < 0 {
		num, den = -num, -den
	}
	if g := gcd(abs64(num), den); g > 1 {
		num, den = num/g, den/g
	}
	return Fraction{num: num, dm1: den - 1}, nil
}

// MustFraction 与 NewFraction 相同，但分母为 0 时 panic
func MustFraction(num, den int64) Fraction {
	f, err := NewFraction(num, den)
	if err != nil {
		panic(err)
	}
	return f
}

// IntFraction returns n/1.
func IntFraction(n int64) Fraction {
	return Fraction{num: n}
}

func (f Fraction) Num() int64 { return f.num }

func (f Fraction) Den() int64 { return f.dm1 + 1 }

// Float64 仅在需要实数幂运算时使用
func (f Fraction) Float64() float64 {
	return float64(f.num) / float64(f.Den())
}

// Equal 交叉相乘比较，不经过浮点
func (f Fraction) Equal(other Fraction) bool {
	return f.num*other.Den() == other.num*f.Den()
}

func (f Fraction) IsZero() bool { return f.num == 0 }

func (f Fraction) IsInteger() bool { return f.dm1 == 0 }

func (f Fraction) Neg() Fraction {
	return Fraction{num: -f.num, dm1: f.dm1}
}

// Add 指数合并 (m^a · m^b = m^(a+b))
func (f Fraction) Add(other Fraction) Fraction {
	return MustFraction(f.num*other.Den()+other.num*f.Den(), f.Den()*other.Den())
}

// Mul 指数复合 ((m^a)^b = m^(a·b))
func (f Fraction) Mul(other Fraction) Fraction {
	return MustFraction(f.num*other.num, f.Den()*other.Den())
}

func (f Fraction) String() string {
	if f.IsInteger() {
		return strconv.FormatInt(f.num, 10)
	}
	return strconv.FormatInt(f.num, 10) + "/" + strconv.FormatInt(f.Den(), 10)
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func abs64(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}

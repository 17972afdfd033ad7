package domain

import (
	"fmt"
	"hash/maphash"
	"math"
	"strconv"
)

// Epsilon CompareTo 使用的相对容差
// 吸收多次 Scale/Unscale 往返带来的浮点误差。
const Epsilon = 0.00001

// QuantityValue 物理量: 相干基准下的 raw 数值 + 单位
// 不可变值对象，所有运算都返回新的实例，可在 goroutine 间自由共享。
// 零值为无量纲的 0。
//
// 注意 Equal 与 CompareTo 的容差不对称:
// CompareTo 在相对误差 Epsilon 内视为相等，Equal 则要求 raw 值逐位相同。
type QuantityValue struct {
	raw  float64
	unit Unit
}

// OfNumber 无量纲物理量
func OfNumber(x float64) QuantityValue {
	return QuantityValue{raw: x, unit: Num}
}

// OfScaled 以展示值构造 (例如 OfScaled(1, km) 的 raw 为 1000)
func OfScaled(x float64, u Unit) QuantityValue {
	return QuantityValue{raw: u.Unscale(x), unit: u}
}

// OfUnscaled 以相干基准下的 raw 值直接构造
func OfUnscaled(x float64, u Unit) QuantityValue {
	return QuantityValue{raw: x, unit: u}
}

func (q QuantityValue) Raw() float64 { return q.raw }

func (q QuantityValue) Unit() Unit {
	if q.unit == nil {
		return Num
	}
	return q.unit
}

// Value 展示值，每次调用都重新由单位换算，不做缓存
func (q QuantityValue) Value() float64 {
	return q.Unit().Scale(q.raw)
}

func (q QuantityValue) String() string {
	return strconv.FormatFloat(q.Value(), 'g', -1, 64) + " " + q.Unit().String()
}

// Convert 将物理量重新标记为可换算单位 u，raw 值保持不变
// 单位不可换算属于调用方的编程错误，会 panic；需要分支处理时使用 TryConvert。
func Convert(q QuantityValue, u Unit) QuantityValue {
	out, err := TryConvert(q, u)
	if err != nil {
		panic(err)
	}
	return out
}

func TryConvert(q QuantityValue, u Unit) (QuantityValue, error) {
	if !q.Unit().IsConvertible(u) {
		return QuantityValue{}, incompatible("convert", q, u)
	}
	return OfUnscaled(q.raw, u), nil
}

// Divide 除法总是量纲合法的，无需换算检查
func Divide(a, b QuantityValue) QuantityValue {
	return QuantityValue{
		raw:  a.raw / b.raw,
		unit: newProductUnit(a.Unit(), IntFraction(1), b.Unit(), IntFraction(-1)),
	}
}

func Multiply(a, b QuantityValue) QuantityValue {
	return QuantityValue{
		raw:  a.raw * b.raw,
		unit: newProductUnit(a.Unit(), IntFraction(1), b.Unit(), IntFraction(1)),
	}
}

func Pow(a QuantityValue, n int) QuantityValue {
	return PowFraction(a, IntFraction(int64(n)))
}

func PowFraction(a QuantityValue, exp Fraction) QuantityValue {
	return QuantityValue{
		raw:  math.Pow(a.raw, exp.Float64()),
		unit: newPowerUnit(a.Unit(), exp),
	}
}

// PowRatio 等价于 PowFraction(a, num/den)；den 为 0 时 panic
func PowRatio(a QuantityValue, num, den int) QuantityValue {
	return PowFraction(a, MustFraction(int64(num), int64(den)))
}

// Add 加法
// 任一操作数 raw 恰好为 0 时视为量纲通用，直接返回另一个操作数 (跳过换算检查)。
// 否则要求单位可换算，结果保留 a 的单位。
func Add(a, b QuantityValue) QuantityValue {
	out, err := TryAdd(a, b)
	if err != nil {
		panic(err)
	}
	return out
}

func TryAdd(a, b QuantityValue) (QuantityValue, error) {
	if a.raw == 0 {
		return b, nil
	}
	if b.raw == 0 {
		return a, nil
	}
	if !a.Unit().IsConvertible(b.Unit()) {
		return QuantityValue{}, incompatible("add", a, b)
	}
	return QuantityValue{raw: a.raw + b.raw, unit: a.Unit()}, nil
}

// Subtract 减法
// a 为 0 时返回 OfUnscaled(-b.Value(), b.Unit())：以 b 展示值的相反数作为 raw，
// 非相干单位 (km、kWh) 下与 b 的量级不同；需要相干基准下的差值时使用 TryDifference。
// b 为 0 时返回 a；否则要求单位可换算，结果保留 a 的单位。
func Subtract(a, b QuantityValue) QuantityValue {
	out, err := TrySubtract(a, b)
	if err != nil {
		panic(err)
	}
	return out
}

func TrySubtract(a, b QuantityValue) (QuantityValue, error) {
	if a.raw == 0 {
		return OfUnscaled(-b.Value(), b.Unit()), nil
	}
	return TryDifference(a, b)
}

// TryDifference 相干基准下的 a - b
// 与 TrySubtract 只在 a 为 0 时不同: 这里返回 b 在相干基准下的相反数。
// 累积读数求差 (用量、跳变、插值) 使用它。
func TryDifference(a, b QuantityValue) (QuantityValue, error) {
	if a.raw == 0 {
		return OfUnscaled(-b.raw, b.Unit()), nil
	}
	if b.raw == 0 {
		return a, nil
	}
	if !a.Unit().IsConvertible(b.Unit()) {
		return QuantityValue{}, incompatible("subtract", a, b)
	}
	return QuantityValue{raw: a.raw - b.raw, unit: a.Unit()}, nil
}

// CompareTo 比较两个物理量的 raw 值
// 只在同一量纲内有序 (偏序)；量纲不同会以 ErrInvalidArgument panic。
// 相对误差小于 Epsilon 时返回 0，否则按 raw 的全序比较 (见 compareRaw)。
func (q QuantityValue) CompareTo(other QuantityValue) int {
	c, err := Compare(q, other)
	if err != nil {
		panic(err)
	}
	return c
}

// Compare 是 CompareTo 的非 panic 版本
func Compare(a, b QuantityValue) (int, error) {
	if !a.Unit().IsConvertible(b.Unit()) {
		return 0, &IncompatibleUnitsError{
			Op:    "compare",
			Left:  a,
			Right: b,
			Err:   fmt.Errorf("%w: %w", ErrInvalidArgument, ErrIncompatibleUnits),
		}
	}
	if math.Abs(1-a.raw/b.raw) < Epsilon {
		return 0, nil
	}
	return compareRaw(a.raw, b.raw), nil
}

// compareRaw 全序: -0 < +0，NaN 大于包括 +Inf 在内的所有值，NaN 与 NaN 相等
func compareRaw(x, y float64) int {
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	}
	bx, by := int64(rawBits(x)), int64(rawBits(y))
	switch {
	case bx < by:
		return -1
	case bx > by:
		return 1
	default:
		return 0
	}
}

// Equal raw 值逐位相同且单位可换算 (不要求是同一个单位实例)
// 不使用 Epsilon 容差。
func (q QuantityValue) Equal(other QuantityValue) bool {
	return rawBits(q.raw) == rawBits(other.raw) && q.Unit().IsConvertible(other.Unit())
}

// Key 可比较的哈希键
// 由 raw 值的位模式与单位的量纲标识组成 (而非单位实例)，
// 因此 Equal 的两个物理量总是得到相同的 Key。
type Key struct {
	bits uint64
	dim  DimensionVector
}

func (q QuantityValue) Key() Key {
	return Key{bits: rawBits(q.raw), dim: q.Unit().Dimension()}
}

var hashSeed = maphash.MakeSeed()

// Hash returns a per-process digest of Key.
func (q QuantityValue) Hash() uint64 {
	return maphash.Comparable(hashSeed, q.Key())
}

// rawBits canonicalises NaN so that NaN quantities compare equal to each other.
func rawBits(x float64) uint64 {
	if math.IsNaN(x) {
		return math.Float64bits(math.NaN())
	}
	return math.Float64bits(x)
}

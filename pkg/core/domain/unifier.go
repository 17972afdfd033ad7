package domain

import "math"

// Unifier 展示值与定点整数之间的转换
// 标准读数与用量报表同时保存展示值 (float64) 与 value·factor 的整数形式。
type Unifier interface {
	ToScaled(display float64) int64
	FromScaled(scaled int64) float64
	// Render 取物理量在自身单位下的展示值及其定点形式
	Render(q QuantityValue) (display float64, scaled int64)
	ScaleFactor() int
}

// MetricUnifier 以十进制倍数作为精度因子 (10000 即保留 4 位小数)
type MetricUnifier struct {
	Factor int
}

var _ Unifier = (*MetricUnifier)(nil)

// NewUnifier factor <= 0 时退化为 1 (只保留整数部分)
func NewUnifier(factor int) *MetricUnifier {
	if factor <= 0 {
		factor = 1
	}
	return &MetricUnifier{Factor: factor}
}

// ToScaled 四舍五入 (远离零) 到最近的整数
func (u *MetricUnifier) ToScaled(display float64) int64 {
	return int64(math.Round(display * float64(u.Factor)))
}

func (u *MetricUnifier) FromScaled(scaled int64) float64 {
	return float64(scaled) / float64(u.Factor)
}

func (u *MetricUnifier) Render(q QuantityValue) (float64, int64) {
	display := q.Value()
	return display, u.ToScaled(display)
}

func (u *MetricUnifier) ScaleFactor() int { return u.Factor }

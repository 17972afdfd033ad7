package domain

import (
	"sort"
	"time"
)

// TimeAligner 基于时间容差的二分查找对齐器
// Interpolate 为 true 时，容差内找不到读数则用前后两条读数线性插值。
type TimeAligner struct {
	Tolerance   time.Duration
	Interpolate bool
}

// NewAligner 创建时间对齐器实例
// 返回的实例实现了 ports.Aligner 接口
func NewAligner(tolerance time.Duration, interpolate bool) *TimeAligner {
	return &TimeAligner{Tolerance: tolerance, Interpolate: interpolate}
}

// FindSnapshot 寻找最接近 target 时间点的读数
// 前提是 readings 已按时间排序，时间复杂度 O(log n)
func (t *TimeAligner) FindSnapshot(readings []Reading, target time.Time) *Reading {
	if len(readings) == 0 {
		return nil
	}

	// 找到第一个 Timestamp >= target 的位置
	idx := sort.Search(len(readings), func(i int) bool {
		return !readings[i].Timestamp.Before(target)
	})

	var best *Reading
	minDiff := t.Tolerance + 1
	for _, i := range []int{idx - 1, idx} {
		if i < 0 || i >= len(readings) {
			continue
		}
		diff := absDuration(readings[i].Timestamp.Sub(target))
		if diff <= t.Tolerance && diff < minDiff {
			best = &readings[i]
			minDiff = diff
		}
	}
	if best != nil || !t.Interpolate {
		return best
	}

	if idx == 0 || idx >= len(readings) {
		return nil
	}
	return interpolate(readings[idx-1], readings[idx], target)
}

// interpolate 在 prev 与 next 之间按时间比例线性插值，结果沿用 prev 的单位
func interpolate(prev, next Reading, target time.Time) *Reading {
	span := next.Timestamp.Sub(prev.Timestamp)
	if span <= 0 {
		return nil
	}
	delta, err := TryDifference(next.Quantity, prev.Quantity)
	if err != nil {
		return nil
	}
	frac := float64(target.Sub(prev.Timestamp)) / float64(span)
	q := OfUnscaled(prev.Quantity.Raw()+frac*delta.Raw(), prev.Quantity.Unit())

	r := prev
	r.Timestamp = target
	r.Quantity = q
	r.Quality = QualityInterpolated
	return &r
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}

package services

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/renjie/prism-qudt/pkg/core/domain"
	"github.com/renjie/prism-qudt/pkg/core/ports"
)

// ChainSanitizer 基于责任链模式的清洗器实现
type ChainSanitizer struct {
	rules []ports.CleaningRule
	now   func() time.Time
}

// NewSanitizer 创建默认的基于规则链的清洗器
func NewSanitizer(rules ...ports.CleaningRule) ports.Sanitizer {
	return &ChainSanitizer{rules: rules, now: time.Now}
}

// Clean 实现 ports.Sanitizer 接口
// 返回的 clean 数据按 (设备, 时间戳) 升序排列
func (s *ChainSanitizer) Clean(readings []domain.Reading) ([]domain.Reading, []domain.QuarantineReading) {
	if len(readings) == 0 {
		return nil, nil
	}

	// 1. 预处理：按设备、时间排序 (不修改调用方的切片)
	sorted := make([]domain.Reading, len(readings))
	copy(sorted, readings)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].DeviceInfo.ID != sorted[j].DeviceInfo.ID {
			return sorted[i].DeviceInfo.ID < sorted[j].DeviceInfo.ID
		}
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	var clean []domain.Reading
	var quarantined []domain.QuarantineReading
	var prev *domain.Reading
	var last *domain.Reading // 同设备上一条输入 (无论是否通过)

	for i := range sorted {
		curr := sorted[i]
		if last != nil && last.DeviceInfo.ID != curr.DeviceInfo.ID {
			prev, last = nil, nil
		}

		// 0. 内置规则: 同设备下的时间戳去重
		if last != nil && last.Timestamp.Equal(curr.Timestamp) {
			quarantined = append(quarantined, s.quarantine(curr, "duplicate timestamp", ""))
			continue
		}
		last = &sorted[i]

		cleanCtx := ports.CleaningContext{Previous: prev}

		// 不同规则像流水线一样依次处理数据 (Pipe and Filter)
		tempReading := curr
		var failed *ports.CheckResult
		for _, rule := range s.rules {
			result := rule.Check(cleanCtx, tempReading)
			if !result.Passed {
				failed = &result
				break
			}
			tempReading = result.Reading
		}

		if failed != nil {
			quarantined = append(quarantined, s.quarantine(curr, failed.Reason, failed.RuleID))
			continue
		}

		clean = append(clean, tempReading)
		// prev 指向已进入 clean 列表的、可能被修正过的最终值
		prev = &clean[len(clean)-1]
	}
	return clean, quarantined
}

func (s *ChainSanitizer) quarantine(r domain.Reading, reason, ruleID string) domain.QuarantineReading {
	return domain.QuarantineReading{
		ID:        uuid.NewString(),
		Reading:   r,
		Reason:    reason,
		RuleID:    ruleID,
		CreatedAt: s.now(),
		Status:    domain.QuarantineStatusPending,
	}
}

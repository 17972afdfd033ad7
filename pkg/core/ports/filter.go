package ports

import (
	"time"

	"github.com/renjie/prism-qudt/pkg/core/domain"
)

// CleaningContext 规则检查时可见的同设备历史
type CleaningContext struct {
	Previous *domain.Reading // 上一条通过清洗的读数 (已修正)，nil 表示设备的第一条
}

// CheckResult 单条规则对单条读数的判定
type CheckResult struct {
	Reading   domain.Reading // 修正后的读数，未修正时即输入
	Passed    bool
	Corrected bool
	Reason    string
	RuleID    string
}

// Pass 原样通过
func Pass(r domain.Reading) CheckResult {
	return CheckResult{Reading: r, Passed: true}
}

// Reject 拒收，读数进入隔离区
func Reject(ruleID string, r domain.Reading, reason string) CheckResult {
	return CheckResult{Reading: r, Reason: reason, RuleID: ruleID}
}

// Correct 修正后通过，后续规则看到的是修正值
func Correct(ruleID string, corrected domain.Reading, reason string) CheckResult {
	return CheckResult{Reading: corrected, Passed: true, Corrected: true, Reason: reason, RuleID: ruleID}
}

// CleaningRule 可插拔的清洗策略 (范围、单调性、跳变等)
// 阈值与读数都是带单位的物理量，单位不可比较时判为不通过。
type CleaningRule interface {
	Check(ctx CleaningContext, curr domain.Reading) CheckResult
}

// Sanitizer 按顺序执行一组 CleaningRule
type Sanitizer interface {
	// Clean 返回通过 (可能被修正) 的读数与被拒收的读数，
	// clean 按 (设备, 时间戳) 升序
	Clean(readings []domain.Reading) (clean []domain.Reading, quarantined []domain.QuarantineReading)
}

// Aligner 为时间网格上的某一点挑选快照读数
type Aligner interface {
	FindSnapshot(readings []domain.Reading, target time.Time) *domain.Reading
}

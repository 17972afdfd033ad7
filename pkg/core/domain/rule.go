package domain

// RuleType 清洗规则类型，factory 按类型构造可执行规则
type RuleType string

const (
	RuleTypeRange      RuleType = "RANGE"      // 范围检查 (Min/Max)
	RuleTypeMonotonic  RuleType = "MONOTONIC"  // 单调性检查 (累积读数不能回退)
	RuleTypeJump       RuleType = "JUMP"       // 跳变检查
	RuleTypeStagnation RuleType = "STAGNATION" // 停滞检查
)

// RuleAction 规则不通过时的处理方式
type RuleAction string

const (
	ActionReject  RuleAction = "REJECT"  // 默认：丢弃数据进入隔离区
	ActionCorrect RuleAction = "CORRECT" // 修正：修改值并标记为 CORRECTED
)

// CleaningRule 定义数据清洗规则配置
// 阈值类参数以 (数值, 单位符号) 的形式给出，例如 {"min": 0, "max": 100, "unit": "kWh"}，
// 由 factory 解析为带单位的物理量后再与读数比较。
type CleaningRule struct {
	ID         string         `json:"id" yaml:"id"`
	DeviceType DeviceType     `json:"device_type" yaml:"device_type"`
	Type       RuleType       `json:"type" yaml:"type"`
	Action     RuleAction     `json:"action,omitempty" yaml:"action,omitempty"` // 空值按 REJECT 处理
	Enabled    bool           `json:"enabled" yaml:"enabled"`
	Parameters map[string]any `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	Priority   int            `json:"priority" yaml:"priority"` // 越小越先执行
}

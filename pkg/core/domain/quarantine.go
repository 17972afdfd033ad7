package domain

import (
	"fmt"
	"time"
)

// QuarantineStatus 隔离记录的治理状态
type QuarantineStatus string

const (
	QuarantineStatusPending  QuarantineStatus = "PENDING"
	QuarantineStatusResolved QuarantineStatus = "RESOLVED" // 已修正并重新入库
	QuarantineStatusIgnored  QuarantineStatus = "IGNORED"  // 确认无效
)

// QuarantineReading 被拒收的读数及拒收原因
// 来源有两类: 清洗规则不通过，或读数单位无法换算到设备类型的目标单位 (此时 RuleID 为空)
type QuarantineReading struct {
	ID        string           `json:"id" yaml:"id"`
	Reading   Reading          `json:"reading" yaml:"reading"`
	Reason    string           `json:"reason" yaml:"reason"` // e.g. "value -50 kWh below range min 0 kWh"
	RuleID    string           `json:"rule_id,omitempty" yaml:"rule_id,omitempty"`
	CreatedAt time.Time        `json:"created_at" yaml:"created_at"`
	Status    QuarantineStatus `json:"status" yaml:"status"`
}

// Transition 只有 PENDING 记录可以被处理为 RESOLVED 或 IGNORED
func (q *QuarantineReading) Transition(to QuarantineStatus) error {
	if q.Status != QuarantineStatusPending && q.Status != "" {
		return fmt.Errorf("%w: quarantine %s already %s", ErrInvalidArgument, q.ID, q.Status)
	}
	switch to {
	case QuarantineStatusResolved, QuarantineStatusIgnored:
		q.Status = to
		return nil
	default:
		return fmt.Errorf("%w: cannot move quarantine %s to %q", ErrInvalidArgument, q.ID, to)
	}
}

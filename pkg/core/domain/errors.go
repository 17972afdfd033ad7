package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrIncompatibleUnits 量纲不一致 (例如 长度 + 时间)
	ErrIncompatibleUnits = errors.New("incompatible units")

	// ErrInvalidArgument 参数不合法，如比较两个不可比较的物理量
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrOffsetComposition 带偏移量的单位 (°C, °F) 不能参与乘除/乘方组合
	ErrOffsetComposition = errors.New("offset unit cannot be composed")

	// ErrZeroDenominator 分数分母为 0
	ErrZeroDenominator = errors.New("zero denominator")
)

// IncompatibleUnitsError 记录发生量纲冲突的操作及两个操作数
// Convert/Add/Subtract/CompareTo 在契约被破坏时以此类型 panic，
// Try* 与 Compare 则直接返回它。
type IncompatibleUnitsError struct {
	Op    string
	Left  fmt.Stringer
	Right fmt.Stringer
	Err   error
}

func (e *IncompatibleUnitsError) Error() string {
	return fmt.Sprintf("%s: cannot %s %s and %s", e.Err, e.Op, e.Left, e.Right)
}

func (e *IncompatibleUnitsError) Unwrap() error {
	return e.Err
}

func incompatible(op string, left, right fmt.Stringer) *IncompatibleUnitsError {
	return &IncompatibleUnitsError{Op: op, Left: left, Right: right, Err: ErrIncompatibleUnits}
}

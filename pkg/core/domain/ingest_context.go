package domain

import (
	"context"
	"fmt"
	"strings"
)

// IngestStrategy 摄入策略，决定同一设备同一时间点已有标准读数时新数据能否覆盖
type IngestStrategy string

const (
	IngestStrategyRealtime    IngestStrategy = "REALTIME"    // 设备实时上传 (默认)
	IngestStrategyBatchLate   IngestStrategy = "BATCH_LATE"  // 离线补传，不覆盖实时数据
	IngestStrategyCalibration IngestStrategy = "CALIBRATION" // 人工校准，强制覆盖
)

// ParseIngestStrategy 大小写不敏感，空串视为 REALTIME
func ParseIngestStrategy(s string) (IngestStrategy, error) {
	switch st := IngestStrategy(strings.ToUpper(strings.TrimSpace(s))); st {
	case "":
		return IngestStrategyRealtime, nil
	case IngestStrategyRealtime, IngestStrategyBatchLate, IngestStrategyCalibration:
		return st, nil
	default:
		return "", fmt.Errorf("%w: unknown ingest strategy %q", ErrInvalidArgument, s)
	}
}

// Priority 数值越大优先级越高，未知策略为 0
func (s IngestStrategy) Priority() int {
	switch s {
	case IngestStrategyCalibration:
		return 1000
	case IngestStrategyRealtime:
		return 100
	case IngestStrategyBatchLate:
		return 50
	default:
		return 0
	}
}

// IngestContext 随 context 传递的一次摄入批次的元信息
type IngestContext struct {
	TraceID  string
	Strategy IngestStrategy
	Operator string // SYSTEM 或具体用户
	BatchID  string
}

type ingestContextKey struct{}

// NewContext returns a new Context that carries info.
func NewContext(ctx context.Context, info IngestContext) context.Context {
	return context.WithValue(ctx, ingestContextKey{}, info)
}

// FromContext returns the IngestContext stored in ctx, if any.
func FromContext(ctx context.Context) (IngestContext, bool) {
	info, ok := ctx.Value(ingestContextKey{}).(IngestContext)
	return info, ok
}

// StrategyFromContext 返回 ctx 中的摄入策略，未携带时为 REALTIME
func StrategyFromContext(ctx context.Context) IngestStrategy {
	if info, ok := FromContext(ctx); ok && info.Strategy != "" {
		return info.Strategy
	}
	return IngestStrategyRealtime
}

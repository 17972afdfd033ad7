package ports

import (
	"context"
	"io"
	"time"

	"github.com/renjie/prism-qudt/pkg/core/domain"
)

// UniversalIngestor 万能插头 (Ingestion Layer)
// 职责: 接收任意格式的读数，解析单位后统一接入。
type UniversalIngestor interface {
	// IngestStream 接入流数据
	IngestStream(ctx context.Context, stream io.Reader) (*domain.IngestionResult, error)

	// IngestBatch 接入批量文件 (format: csv / json)
	IngestBatch(ctx context.Context, file io.Reader, format string) (*domain.IngestionResult, error)
}

// QuantityStandardizer 读数标准化服务 (Core Capability)
// 职责:
// A. 数据清洗 (Duplicate/Range/Jump removal)
// B. 单位统一 (各设备上报单位 -> 设备类型的目标单位)
// C. 精度对齐 (Float -> Scaled Int)
// D. 频率对齐 (可选，按标准时间网格取快照)
type QuantityStandardizer interface {
	// GetStandardReading 获取特定时间点的“标准读数”
	GetStandardReading(ctx context.Context, deviceID string, timestamp time.Time) (*domain.StandardReading, error)

	// ProcessAndStandardize 直接处理输入数据并返回标准集
	ProcessAndStandardize(ctx context.Context, rawReadings []domain.Reading) ([]domain.StandardReading, error)
}

// UsageReporter 用量统计
type UsageReporter interface {
	// Report 按设备与周期计算用量
	Report(ctx context.Context, readings []domain.Reading, period domain.ReportPeriod) ([]domain.EnergyReport, error)

	// Summarize 按设备类型与周期合计用量
	Summarize(reports []domain.EnergyReport) ([]domain.TypeSummary, error)
}

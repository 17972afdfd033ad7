package ports

import (
	"context"
	"errors"
	"time"

	"github.com/renjie/prism-qudt/pkg/core/domain"
)

// ErrNotFound 仓储中不存在对应记录
var ErrNotFound = errors.New("not found")

// UnitRepository 单位目录
// 由外部目录 (catalog) 提供不可变的单位实例，核心只按符号查找。
type UnitRepository interface {
	Lookup(symbol string) (domain.Unit, error)
}

// StandardReadingRepository 标准读数仓储接口
// 存储经过 Standardizer 清洗、换算后的“黄金数据”，供下游查询标准历史。
type StandardReadingRepository interface {
	// SaveBatch 批量保存
	// 同一设备同一时间点已有记录时，按 ctx 中摄入策略 (domain.IngestContext) 的优先级决定是否覆盖
	SaveBatch(ctx context.Context, readings []domain.StandardReading) error

	// FindExact 获取特定时间点的标准读数，不存在时返回 ErrNotFound
	FindExact(ctx context.Context, deviceID string, timestamp time.Time) (*domain.StandardReading, error)

	// FindRange 获取 [start, end) 内的标准读数，按时间升序
	FindRange(ctx context.Context, deviceID string, start, end time.Time) ([]domain.StandardReading, error)
}

// CleaningRuleRepository 清洗规则仓储接口
// Standardizer 运行时通过此接口按设备类型加载规则
type CleaningRuleRepository interface {
	Save(ctx context.Context, rule domain.CleaningRule) error

	GetByID(ctx context.Context, id string) (*domain.CleaningRule, error)

	// ListEnabledByDeviceType 获取特定设备类型下所有启用的规则，按 Priority 升序
	ListEnabledByDeviceType(ctx context.Context, deviceType domain.DeviceType) ([]domain.CleaningRule, error)

	Delete(ctx context.Context, id string) error
}

// QuarantineRepository 隔离区仓储接口
// 存储被“拒收”的脏数据，供后续治理
type QuarantineRepository interface {
	Save(ctx context.Context, record domain.QuarantineReading) error

	// FindPending 获取待处理的隔离记录 (limit <= 0 表示不限制)
	FindPending(ctx context.Context, limit int) ([]domain.QuarantineReading, error)

	// UpdateStatus 处理一条待处理记录，记录不存在时返回 ErrNotFound
	UpdateStatus(ctx context.Context, id string, status domain.QuarantineStatus) error
}
